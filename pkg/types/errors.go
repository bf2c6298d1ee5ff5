package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingMandatoryParameter is returned before any request is built when
// a call lacks its identifier.
var ErrMissingMandatoryParameter = errors.New("missing mandatory parameter")

// ErrEntryNotFound is returned when the backend knows no entry for an id.
var ErrEntryNotFound = errors.New("entry not found")

// RuleAction is an access-control rule result of a playback context.
type RuleAction struct {
	Type        string `json:"type"`
	Pattern     string `json:"pattern,omitempty"`
	Replacement string `json:"replacement,omitempty"`
}

// AccessControlMessage explains an access-control decision.
type AccessControlMessage struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// BlockActionError reports that the backend denied playback.
type BlockActionError struct {
	Action   RuleAction             `json:"action"`
	Messages []AccessControlMessage `json:"messages"`
}

func (e *BlockActionError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("playback blocked by rule action %q", e.Action.Type)
	}
	parts := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		parts = append(parts, fmt.Sprintf("%s: %s", m.Code, m.Message))
	}
	return "playback blocked: " + strings.Join(parts, "; ")
}

// ParseError wraps any failure raised while normalizing provider responses.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse provider response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
