package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strconv"
)

// MultiRequestService is the backend service that runs batched sub-requests.
const MultiRequestService = "multirequest"

// Doer sends HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// MultiRequest batches sub-requests into a single POST. Sub-requests are
// numbered from 1 in the order they were added.
type MultiRequest struct {
	Request
	requests []*Request
}

// NewMultiRequest creates an empty multirequest. params holds the top-level
// fields (apiVersion, format, vs, partnerId, clientTag) and is copied.
func NewMultiRequest(serviceURL string, params map[string]any) *MultiRequest {
	base := New(serviceURL, MultiRequestService, "", maps.Clone(params))
	base.Tag = MultiRequestService
	return &MultiRequest{Request: *base}
}

// Add appends a sub-request and returns its 1-based index.
func (m *MultiRequest) Add(r *Request) int {
	m.requests = append(m.requests, r)
	return len(m.requests)
}

// Requests returns the sub-requests in order.
func (m *MultiRequest) Requests() []*Request {
	return m.requests
}

// Len returns the number of sub-requests.
func (m *MultiRequest) Len() int {
	return len(m.requests)
}

// Body returns the JSON body: the top-level params plus one numbered object
// per sub-request holding its service, action and params.
func (m *MultiRequest) Body() ([]byte, error) {
	body := make(map[string]any, len(m.Params)+len(m.requests))
	maps.Copy(body, m.Params)
	for i, r := range m.requests {
		sub := make(map[string]any, len(r.Params)+2)
		maps.Copy(sub, r.Params)
		sub["service"] = r.Service
		sub["action"] = r.Action
		body[strconv.Itoa(i+1)] = sub
	}
	return json.Marshal(body)
}

// Execute sends the multirequest with client and returns the ordered
// sub-responses.
func (m *MultiRequest) Execute(ctx context.Context, client Doer) ([]ServiceResult, error) {
	body, err := m.Body()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal multirequest: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, m.Method, m.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range m.Headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send multirequest: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return ParseResults(respBody)
}
