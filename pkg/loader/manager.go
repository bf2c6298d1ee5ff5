// Package loader batches the sub-requests of several loaders into one
// multirequest and hands each loader its slice of the response.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"media-provider-go/pkg/config"
	"media-provider-go/pkg/httpclient"
	"media-provider-go/pkg/interfaces"
	"media-provider-go/pkg/logging"
	"media-provider-go/pkg/request"
	"media-provider-go/pkg/types"

	"github.com/google/uuid"
)

// ErrNoLoaders is returned by FetchData when nothing was added.
var ErrNoLoaders = errors.New("no loaders added")

type span struct {
	loader interfaces.Loader
	start  int // 0-based offset into the results
	count  int
}

// Manager orders loaders, assembles their requests and demultiplexes the
// batched response. A Manager serves a single call.
type Manager struct {
	multi   *request.MultiRequest
	client  request.Doer
	retry   config.NetworkRetryParameters
	log     *logging.Logger
	spans   []span
	loaders map[string]interfaces.Loader
}

// NewManager creates a manager that sends multi with client.
func NewManager(multi *request.MultiRequest, client request.Doer, retry config.NetworkRetryParameters, log *logging.Logger) *Manager {
	return &Manager{
		multi:   multi,
		client:  client,
		retry:   retry,
		log:     log.WithComponent("loader"),
		loaders: make(map[string]interfaces.Loader),
	}
}

// Add registers l and appends its requests to the multirequest. It returns
// the 1-based index of the loader's first sub-request.
func (m *Manager) Add(l interfaces.Loader) (int, error) {
	if !l.IsValid() {
		return 0, fmt.Errorf("loader %q: %w", l.ID(), types.ErrMissingMandatoryParameter)
	}
	if _, ok := m.loaders[l.ID()]; ok {
		return 0, fmt.Errorf("loader %q already added", l.ID())
	}

	reqs := l.Requests()
	if len(reqs) == 0 {
		return 0, fmt.Errorf("loader %q has no requests", l.ID())
	}

	first := m.multi.Len() + 1
	for _, r := range reqs {
		m.multi.Add(r)
	}
	m.spans = append(m.spans, span{loader: l, start: first - 1, count: len(reqs)})
	m.loaders[l.ID()] = l
	return first, nil
}

// FetchData sends the batch and lets every loader absorb its responses in
// registration order. Any failure fails the whole call.
func (m *Manager) FetchData(ctx context.Context) (map[string]interfaces.Loader, error) {
	if len(m.spans) == 0 {
		return nil, ErrNoLoaders
	}

	log := m.log.WithRequestID(uuid.NewString()).WithURL(m.multi.URL)
	log.Debug("sending multirequest", "requests", m.multi.Len(), "loaders", len(m.spans))

	start := time.Now()
	results, err := m.multi.Execute(httpclient.WithRetry(ctx, m.retry), m.client)
	if err != nil {
		log.WithError(err).Warn("multirequest failed")
		return nil, err
	}
	log.WithDuration(time.Since(start)).Debug("multirequest done", "results", len(results))

	if len(results) != m.multi.Len() {
		return nil, fmt.Errorf("multirequest returned %d results for %d requests", len(results), m.multi.Len())
	}
	if serr := request.FirstError(results); serr != nil {
		log.Warn("service error", "index", serr.Index, "code", serr.Code, "message", serr.Message)
		return nil, serr
	}

	for _, s := range m.spans {
		if err := s.loader.Absorb(results[s.start : s.start+s.count]); err != nil {
			return nil, fmt.Errorf("loader %q: %w", s.loader.ID(), err)
		}
	}
	return m.loaders, nil
}

// Base carries the requests and write-once response slot shared by loaders.
// Loader types embed it and implement ID, IsValid and their own decoding.
type Base struct {
	requests []*request.Request
	absorbed bool
}

// AddRequest appends a request built by the loader's constructor.
func (b *Base) AddRequest(r *request.Request) {
	b.requests = append(b.requests, r)
}

// Requests returns the loader's requests in order.
func (b *Base) Requests() []*request.Request {
	return b.requests
}

// Store marks the loader absorbed. It fails on a second call or when the
// number of results does not match the loader's requests.
func (b *Base) Store(results []request.ServiceResult) error {
	if b.absorbed {
		return ErrAlreadyAbsorbed
	}
	if len(results) != len(b.requests) {
		return fmt.Errorf("got %d results for %d requests", len(results), len(b.requests))
	}
	b.absorbed = true
	return nil
}

// ErrAlreadyAbsorbed is returned when a loader absorbs twice.
var ErrAlreadyAbsorbed = errors.New("loader responses already absorbed")
