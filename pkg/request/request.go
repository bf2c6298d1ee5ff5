// Package request builds backend service requests and the multirequest
// envelope that carries several of them in one HTTP call.
package request

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"media-provider-go/pkg/urlutil"
)

// Request describes one backend service call.
type Request struct {
	Service string
	Action  string
	Method  string
	URL     string
	Tag     string
	Params  map[string]any
	Headers http.Header
}

// New creates a POST request for service/action against serviceURL.
func New(serviceURL, service, action string, params map[string]any) *Request {
	if params == nil {
		params = make(map[string]any)
	}
	return &Request{
		Service: service,
		Action:  action,
		Method:  http.MethodPost,
		URL:     ServiceURL(serviceURL, service, action),
		Tag:     service + "-" + action,
		Params:  params,
		Headers: http.Header{"Content-Type": []string{"application/json"}},
	}
}

// WithTag sets the request tag used in logs.
func (r *Request) WithTag(tag string) *Request {
	r.Tag = tag
	return r
}

// ServiceURL returns {serviceURL}/service/{service}[/action/{action}].
func ServiceURL(serviceURL, service, action string) string {
	segments := []string{"service", service}
	if action != "" {
		segments = append(segments, "action", action)
	}
	return urlutil.JoinPath(serviceURL, segments...)
}

// FlexString decodes a JSON string or number into a string. Backend enums
// arrive as either.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// String returns the decoded value.
func (s FlexString) String() string {
	return string(s)
}

// Int returns the value as an integer, or 0 when it is not numeric.
func (s FlexString) Int() int {
	i, err := strconv.Atoi(string(s))
	if err != nil {
		return 0
	}
	return i
}
