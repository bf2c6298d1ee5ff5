package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// apiExceptionType marks an error sub-response.
const apiExceptionType = "VidiunAPIException"

// ServiceError is an error returned by the backend for one sub-request.
type ServiceError struct {
	Index   int
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error in sub-request %d: %s: %s", e.Index, e.Code, e.Message)
}

// StatusError reports a non-2xx multirequest response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("multirequest returned status %d: %s", e.StatusCode, e.Body)
}

// ServiceResult is one sub-response of a multirequest.
type ServiceResult struct {
	Data json.RawMessage
	Err  *ServiceError
}

// Decode unmarshals the sub-response data into v.
func (r ServiceResult) Decode(v any) error {
	if r.Err != nil {
		return r.Err
	}
	if len(r.Data) == 0 {
		return errors.New("empty service result")
	}
	return json.Unmarshal(r.Data, v)
}

type apiException struct {
	ObjectType string        `json:"objectType"`
	Code       FlexString    `json:"code"`
	Message    string        `json:"message"`
	Error      *apiException `json:"error"`
}

// ParseResults splits a multirequest response body into ordered results. The
// body is either a JSON array or an object whose result field holds one.
func ParseResults(body []byte) ([]ServiceResult, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("empty multirequest response")
	}

	var items []json.RawMessage
	if body[0] == '[' {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("failed to decode multirequest response: %w", err)
		}
	} else {
		var envelope struct {
			Result json.RawMessage `json:"result"`
			Error  *apiException   `json:"error"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode multirequest response: %w", err)
		}
		if envelope.Error != nil {
			return nil, &ServiceError{Code: envelope.Error.Code.String(), Message: envelope.Error.Message}
		}
		result := bytes.TrimSpace(envelope.Result)
		switch {
		case len(result) == 0:
			return nil, errors.New("multirequest response has no result")
		case result[0] == '[':
			if err := json.Unmarshal(result, &items); err != nil {
				return nil, fmt.Errorf("failed to decode multirequest result: %w", err)
			}
		default:
			items = []json.RawMessage{result}
		}
	}

	results := make([]ServiceResult, len(items))
	for i, item := range items {
		results[i] = newServiceResult(i+1, item)
	}
	return results, nil
}

func newServiceResult(index int, raw json.RawMessage) ServiceResult {
	var exc apiException
	if err := json.Unmarshal(raw, &exc); err == nil {
		if exc.ObjectType == apiExceptionType {
			return ServiceResult{Err: &ServiceError{Index: index, Code: exc.Code.String(), Message: exc.Message}}
		}
		if exc.Error != nil {
			return ServiceResult{Err: &ServiceError{Index: index, Code: exc.Error.Code.String(), Message: exc.Error.Message}}
		}
	}
	return ServiceResult{Data: raw}
}

// FirstError returns the first failed sub-response, if any.
func FirstError(results []ServiceResult) *ServiceError {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
