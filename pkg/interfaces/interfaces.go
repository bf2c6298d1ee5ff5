// Package interfaces defines the core abstractions of the media providers.
// Loaders, providers and the HTTP transport are wired together through these
// interfaces, which keeps each provider family pluggable and testable.
package interfaces

import (
	"context"
	"net/http"

	"media-provider-go/pkg/request"
	"media-provider-go/pkg/types"
)

// Loader is one unit of work inside a batched provider call.
//
// A loader builds its sub-requests when it is constructed and absorbs the
// matching slice of sub-responses exactly once after the batch completes.
//
// To add a new loader:
// 1. Create a type in the provider family package
// 2. Implement this interface
// 3. Add it to the loader.Manager from the family strategy
type Loader interface {
	// ID returns the static identifier of the loader kind.
	ID() string

	// Requests returns the sub-requests this loader contributes, in order.
	Requests() []*request.Request

	// IsValid reports whether the loader has its mandatory parameters.
	IsValid() bool

	// Absorb stores the sub-responses for this loader's requests.
	Absorb(results []request.ServiceResult) error
}

// SessionLoader is a loader that yields a session token.
type SessionLoader interface {
	Loader

	// Token returns the session token from the absorbed response.
	Token() string
}

// MediaProvider resolves player configurations from a backend.
type MediaProvider interface {
	// Name returns the provider family name (e.g. "ovp", "ott").
	Name() string

	// GetMediaConfig resolves the playback config of one entry.
	GetMediaConfig(ctx context.Context, info types.MediaInfo) (*types.ProviderMediaConfig, error)

	// GetEntryListConfig resolves base data for a list of entries.
	GetEntryListConfig(ctx context.Context, info types.EntryListInfo) (*types.ProviderPlaylist, error)
}

// PlaylistProvider is implemented by providers that can resolve backend
// playlists.
type PlaylistProvider interface {
	MediaProvider

	// GetPlaylistConfig resolves a playlist and its entries.
	GetPlaylistConfig(ctx context.Context, info types.PlaylistInfo) (*types.ProviderPlaylist, error)
}

// HTTPClient abstracts HTTP operations for testability. It is satisfied by
// *httpclient.Client and *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
