// Package registry provides registries for stream formats and media providers.
package registry

import (
	"sort"
	"sync"

	"media-provider-go/pkg/interfaces"
	"media-provider-go/pkg/media"
)

// Provider format tokens known to the default registry.
const (
	TokenAppleHTTP = "applehttp"
	TokenMPEGDash  = "mpegdash"
	TokenURL       = "url"
	TokenMP4       = "mp4"
)

// FormatRegistry maps provider-declared format tokens to stream formats.
type FormatRegistry struct {
	mu      sync.RWMutex
	formats map[string]media.StreamFormat
}

// NewFormatRegistry creates an empty format registry.
func NewFormatRegistry() *FormatRegistry {
	return &FormatRegistry{
		formats: make(map[string]media.StreamFormat),
	}
}

// NewDefaultFormatRegistry creates a registry holding the HLS, DASH and
// progressive mp4 tokens.
func NewDefaultFormatRegistry() *FormatRegistry {
	r := NewFormatRegistry()
	hls := media.StreamFormat{Name: media.FormatHLS, Mimetype: "application/x-mpegURL", PathExt: "m3u8"}
	dash := media.StreamFormat{Name: media.FormatDASH, Mimetype: "application/dash+xml", PathExt: "mpd"}
	mp4 := media.StreamFormat{Name: media.FormatMP4, Mimetype: "video/mp4", PathExt: "mp4"}

	r.Register(TokenAppleHTTP, hls)
	r.Register(TokenMPEGDash, dash)
	r.Register(TokenURL, mp4)
	r.Register(TokenMP4, mp4)
	return r
}

// Register maps a token to a format, replacing any previous mapping.
func (r *FormatRegistry) Register(token string, format media.StreamFormat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats[token] = format
}

// Classify returns the format for token. The boolean is false for unknown
// tokens.
func (r *FormatRegistry) Classify(token string) (media.StreamFormat, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formats[token]
	return f, ok
}

// IsProgressive reports whether token classifies as a progressive format.
func (r *FormatRegistry) IsProgressive(token string) bool {
	f, ok := r.Classify(token)
	return ok && f.IsProgressive()
}

// Tokens returns all registered tokens in sorted order.
func (r *FormatRegistry) Tokens() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]string, 0, len(r.formats))
	for t := range r.formats {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}

// ProviderRegistry manages media providers by name.
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers []interfaces.MediaProvider
	byName    map[string]interfaces.MediaProvider
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make([]interfaces.MediaProvider, 0),
		byName:    make(map[string]interfaces.MediaProvider),
	}
}

// Register adds a provider to the registry. A provider with the same name
// replaces the earlier one.
func (r *ProviderRegistry) Register(p interfaces.MediaProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[p.Name()]; exists {
		for i, existing := range r.providers {
			if existing.Name() == p.Name() {
				r.providers[i] = p
			}
		}
	} else {
		r.providers = append(r.providers, p)
	}
	r.byName[p.Name()] = p
}

// Get returns the provider registered under name.
func (r *ProviderRegistry) Get(name string) (interfaces.MediaProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byName[name]
	return p, ok
}

// Names returns the registered provider names in registration order.
func (r *ProviderRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// All returns all registered providers.
func (r *ProviderRegistry) All() []interfaces.MediaProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]interfaces.MediaProvider, len(r.providers))
	copy(result, r.providers)
	return result
}
