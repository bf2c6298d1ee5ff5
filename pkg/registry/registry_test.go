package registry

import (
	"context"
	"testing"

	"media-provider-go/pkg/media"
	"media-provider-go/pkg/types"
)

func TestFormatRegistryClassify(t *testing.T) {
	r := NewDefaultFormatRegistry()

	tests := []struct {
		token       string
		wantOK      bool
		wantName    string
		wantMime    string
		wantExt     string
		progressive bool
	}{
		{token: "applehttp", wantOK: true, wantName: "hls", wantMime: "application/x-mpegURL", wantExt: "m3u8"},
		{token: "mpegdash", wantOK: true, wantName: "dash", wantMime: "application/dash+xml", wantExt: "mpd"},
		{token: "url", wantOK: true, wantName: "mp4", wantMime: "video/mp4", wantExt: "mp4", progressive: true},
		{token: "mp4", wantOK: true, wantName: "mp4", wantMime: "video/mp4", wantExt: "mp4", progressive: true},
		{token: "hdnetworkmanifest", wantOK: false},
		{token: "", wantOK: false},
		{token: "AppleHTTP", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			f, ok := r.Classify(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("Classify(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if !ok {
				if !f.IsZero() {
					t.Errorf("unknown token returned %+v", f)
				}
				if r.IsProgressive(tt.token) {
					t.Error("unknown token must not be progressive")
				}
				return
			}
			if f.Name != tt.wantName || f.Mimetype != tt.wantMime || f.PathExt != tt.wantExt {
				t.Errorf("Classify(%q) = %+v", tt.token, f)
			}
			if r.IsProgressive(tt.token) != tt.progressive {
				t.Errorf("IsProgressive(%q) = %v, want %v", tt.token, !tt.progressive, tt.progressive)
			}
		})
	}
}

func TestFormatRegistryRegister(t *testing.T) {
	r := NewDefaultFormatRegistry()
	r.Register("smooth", media.StreamFormat{Name: "smooth", Mimetype: "application/vnd.ms-sstr+xml", PathExt: "ism"})

	f, ok := r.Classify("smooth")
	if !ok || f.Name != "smooth" {
		t.Errorf("registered token not classified: %+v %v", f, ok)
	}
	if r.IsProgressive("smooth") {
		t.Error("smooth should be adaptive")
	}
	if len(r.Tokens()) != 5 {
		t.Errorf("Tokens() = %v", r.Tokens())
	}
}

type stubProvider struct {
	name string
}

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) GetMediaConfig(ctx context.Context, info types.MediaInfo) (*types.ProviderMediaConfig, error) {
	return nil, nil
}

func (s stubProvider) GetEntryListConfig(ctx context.Context, info types.EntryListInfo) (*types.ProviderPlaylist, error) {
	return nil, nil
}

func TestProviderRegistry(t *testing.T) {
	r := NewProviderRegistry()
	r.Register(stubProvider{name: "ovp"})
	r.Register(stubProvider{name: "ott"})
	r.Register(stubProvider{name: "ovp"})

	if got := r.Names(); len(got) != 2 || got[0] != "ovp" || got[1] != "ott" {
		t.Errorf("Names() = %v", got)
	}
	if _, ok := r.Get("ott"); !ok {
		t.Error("ott should be registered")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("missing should not be registered")
	}
	if len(r.All()) != 2 {
		t.Errorf("All() = %d providers, want 2", len(r.All()))
	}
}
