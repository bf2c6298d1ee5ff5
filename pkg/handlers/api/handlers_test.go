package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"media-provider-go/pkg/appctx"
	"media-provider-go/pkg/config"
	"media-provider-go/pkg/interfaces"
	"media-provider-go/pkg/logging"
	"media-provider-go/pkg/provider/ott"
	"media-provider-go/pkg/request"
	"media-provider-go/pkg/types"
)

// stubProvider records the last request and answers with err when set.
type stubProvider struct {
	name      string
	err       error
	media     types.MediaInfo
	list      types.EntryListInfo
	playlist  types.PlaylistInfo
	bookmark  ott.Bookmark
	bookmarkV string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) GetMediaConfig(_ context.Context, info types.MediaInfo) (*types.ProviderMediaConfig, error) {
	s.media = info
	if s.err != nil {
		return nil, s.err
	}
	cfg := types.NewProviderMediaConfig(types.Session{PartnerID: 1, IsAnonymous: true})
	cfg.Sources.ID = info.EntryID
	return cfg, nil
}

func (s *stubProvider) GetEntryListConfig(_ context.Context, info types.EntryListInfo) (*types.ProviderPlaylist, error) {
	s.list = info
	if s.err != nil {
		return nil, s.err
	}
	return types.NewProviderPlaylist("", types.PlaylistMetadata{}, "", nil), nil
}

// playlistStub additionally serves playlists and bookmarks.
type playlistStub struct {
	stubProvider
}

func (s *playlistStub) GetPlaylistConfig(_ context.Context, info types.PlaylistInfo) (*types.ProviderPlaylist, error) {
	s.playlist = info
	if s.err != nil {
		return nil, s.err
	}
	return types.NewProviderPlaylist(info.PlaylistID, types.PlaylistMetadata{Name: "Shorts"}, "", nil), nil
}

func (s *playlistStub) AddBookmark(_ context.Context, vs string, b ott.Bookmark) error {
	s.bookmarkV, s.bookmark = vs, b
	return s.err
}

func newTestServer(providers ...interfaces.MediaProvider) (*httptest.Server, *appctx.Context) {
	log := logging.New("error", false, io.Discard)
	ctx := appctx.New(&config.Config{BaseURL: "http://localhost:7860"}, log)
	for _, p := range providers {
		ctx.Providers.Register(p)
	}
	mux := http.NewServeMux()
	NewHandlers(ctx).RegisterRoutes(mux)
	return httptest.NewServer(mux), ctx
}

func TestGetMedia(t *testing.T) {
	p := &stubProvider{name: "ovp"}
	srv, _ := newTestServer(p)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/ovp/media/0_abc?vs=token&contextType=PLAYBACK&formats=Web_HD,%20Web_SD,")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var cfg types.ProviderMediaConfig
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Sources.ID != "0_abc" {
		t.Errorf("sources id = %q", cfg.Sources.ID)
	}
	if p.media.VS != "token" || p.media.ContextType != "PLAYBACK" {
		t.Errorf("media info = %+v", p.media)
	}
	if len(p.media.Formats) != 2 || p.media.Formats[1] != "Web_SD" {
		t.Errorf("formats = %q", p.media.Formats)
	}
}

func TestPostMediaAndEntries(t *testing.T) {
	p := &stubProvider{name: "ott"}
	srv, _ := newTestServer(p)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/ott/media", "application/json", strings.NewReader(`{"entryId": "258656", "mediaType": "epg"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || p.media.EntryID != "258656" || p.media.MediaType != "epg" {
		t.Errorf("media: status %d info %+v", resp.StatusCode, p.media)
	}

	resp, err = http.Post(srv.URL+"/api/ott/entries", "application/json", strings.NewReader(`{"entries": ["1", {"entryId": "2", "assetReferenceType": "epg_internal"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || len(p.list.Entries) != 2 || p.list.Entries[1].AssetReferenceType != "epg_internal" {
		t.Errorf("entries: status %d info %+v", resp.StatusCode, p.list)
	}

	resp, err = http.Post(srv.URL+"/api/ott/entries", "application/json", strings.NewReader(`{`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad body status = %d", resp.StatusCode)
	}
}

func TestPlaylistAndBookmarkSupport(t *testing.T) {
	plain := &stubProvider{name: "plain"}
	full := &playlistStub{stubProvider{name: "ovp"}}
	srv, _ := newTestServer(plain, full)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/ovp/playlists/0_pl?vs=token")
	if err != nil {
		t.Fatal(err)
	}
	var pl types.ProviderPlaylist
	json.NewDecoder(resp.Body).Decode(&pl)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || pl.ID != "0_pl" || full.playlist.VS != "token" {
		t.Errorf("playlist: status %d body %+v", resp.StatusCode, pl)
	}

	resp, err = http.Get(srv.URL + "/api/plain/playlists/0_pl")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("plain playlist status = %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/api/ovp/bookmarks", "application/json",
		strings.NewReader(`{"vs": "user", "bookmark": {"id": "1", "type": "media", "position": 30}}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || full.bookmarkV != "user" || full.bookmark.Position != 30 {
		t.Errorf("bookmark: status %d got %+v", resp.StatusCode, full.bookmark)
	}

	resp, err = http.Get(srv.URL + "/api/providers")
	if err != nil {
		t.Fatal(err)
	}
	var infos []providerInfo
	json.NewDecoder(resp.Body).Decode(&infos)
	resp.Body.Close()
	if len(infos) != 2 || infos[0].Playlists || !infos[1].Playlists || !infos[1].Bookmarks {
		t.Errorf("providers = %+v", infos)
	}
}

func TestUnknownProvider(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/nope/media/1")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestProviderErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing parameter", err: fmt.Errorf("entryId: %w", types.ErrMissingMandatoryParameter), want: http.StatusBadRequest},
		{name: "blocked", err: &types.BlockActionError{Action: types.RuleAction{Type: "1"}}, want: http.StatusForbidden},
		{name: "not found", err: fmt.Errorf("loader %q: %w", "media", types.ErrEntryNotFound), want: http.StatusNotFound},
		{name: "service error", err: &request.ServiceError{Index: 2, Code: "INVALID_VS", Message: "bad"}, want: http.StatusBadGateway},
		{name: "status error", err: &request.StatusError{StatusCode: 503}, want: http.StatusBadGateway},
		{name: "timeout", err: fmt.Errorf("failed to send multirequest: %w", context.DeadlineExceeded), want: http.StatusGatewayTimeout},
		{name: "parse error", err: &types.ParseError{Err: errors.New("boom")}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{name: "ovp", err: tt.err}
			srv, _ := newTestServer(p)
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/api/ovp/media/0_abc")
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
				t.Errorf("error body = %+v, %v", body, err)
			}
		})
	}
}

func TestBlockedBodyCarriesMessages(t *testing.T) {
	status, body := statusFor(&types.BlockActionError{
		Action:   types.RuleAction{Type: "BLOCK"},
		Messages: []types.AccessControlMessage{{Code: "NotEntitled", Message: "Not entitled"}},
	})
	if status != http.StatusForbidden || body.Action == nil || body.Action.Type != "BLOCK" || len(body.Details) != 1 {
		t.Errorf("statusFor() = %d, %+v", status, body)
	}
}

func TestIndexAndHealth(t *testing.T) {
	srv, _ := newTestServer(&stubProvider{name: "ovp"})
	defer srv.Close()

	for _, path := range []string{"/", "/health"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
	}
}
