package provider

import (
	"strings"

	"media-provider-go/pkg/logging"
	"media-provider-go/pkg/media"
	"media-provider-go/pkg/request"
	"media-provider-go/pkg/types"

	"github.com/samber/lo"
)

// messageOK is the code of an access-control message that allows playback.
const messageOK = "OK"

// DrmPluginData is the DRM block of a backend playback source.
type DrmPluginData struct {
	Scheme      string `json:"scheme"`
	LicenseURL  string `json:"licenseURL"`
	Certificate string `json:"certificate,omitempty"`
}

var drmSchemes = map[string]media.DrmScheme{
	"drm.WIDEVINE_CENC":  media.DrmSchemeWidevine,
	"WIDEVINE_CENC":      media.DrmSchemeWidevine,
	"WIDEVINE":           media.DrmSchemeWidevine,
	"drm.PLAYREADY_CENC": media.DrmSchemePlayReady,
	"PLAYREADY_CENC":     media.DrmSchemePlayReady,
	"PLAYREADY":          media.DrmSchemePlayReady,
	"fairplay.FAIRPLAY":  media.DrmSchemeFairPlay,
	"FAIRPLAY":           media.DrmSchemeFairPlay,
}

// MapDrmScheme translates a backend scheme name to a key system.
func MapDrmScheme(scheme string) (media.DrmScheme, bool) {
	s, ok := drmSchemes[scheme]
	return s, ok
}

// DrmData converts backend DRM blocks. Unknown schemes are kept with the
// backend name so the player can decide whether it supports them.
func DrmData(list []DrmPluginData, log *logging.Logger) []media.Drm {
	if len(list) == 0 {
		return nil
	}
	return lo.Map(list, func(d DrmPluginData, _ int) media.Drm {
		scheme, ok := MapDrmScheme(d.Scheme)
		if !ok {
			log.Debug("unmapped drm scheme", "scheme", d.Scheme)
			scheme = media.DrmScheme(d.Scheme)
		}
		return media.Drm{LicenseURL: d.LicenseURL, Scheme: scheme, Certificate: d.Certificate}
	})
}

// Protocol picks the delivery protocol of a source given the base protocol
// of the CDN. protocols is the comma separated list the source supports.
func Protocol(protocols, base string) string {
	if protocols != "" {
		if lo.Contains(strings.Split(protocols, ","), base) {
			return base
		}
		return ""
	}
	if base == "http" {
		return base
	}
	return ""
}

// RuleAction is an access-control action of a playback context.
type RuleAction struct {
	Type        request.FlexString `json:"type"`
	Pattern     string             `json:"pattern,omitempty"`
	Replacement string             `json:"replacement,omitempty"`
}

// AccessControlMessage is a message of a playback context.
type AccessControlMessage struct {
	Message string             `json:"message"`
	Code    request.FlexString `json:"code"`
}

// AccessControl is the access-control part shared by both families'
// playback contexts.
type AccessControl struct {
	Actions  []RuleAction           `json:"actions"`
	Messages []AccessControlMessage `json:"messages"`
}

// Action returns the first action of the given type.
func (a AccessControl) Action(actionType string) (RuleAction, bool) {
	return lo.Find(a.Actions, func(r RuleAction) bool {
		return r.Type.String() == actionType
	})
}

// ErrorMessages returns the messages whose code is not OK.
func (a AccessControl) ErrorMessages() []types.AccessControlMessage {
	return lo.FilterMap(a.Messages, func(m AccessControlMessage, _ int) (types.AccessControlMessage, bool) {
		return types.AccessControlMessage{Message: m.Message, Code: m.Code.String()}, m.Code.String() != messageOK
	})
}

// BlockError returns a *types.BlockActionError when an action of blockType
// is present, nil otherwise.
func (a AccessControl) BlockError(blockType string) error {
	action, ok := a.Action(blockType)
	if !ok {
		return nil
	}
	return &types.BlockActionError{
		Action: types.RuleAction{
			Type:        action.Type.String(),
			Pattern:     action.Pattern,
			Replacement: action.Replacement,
		},
		Messages: a.ErrorMessages(),
	}
}
