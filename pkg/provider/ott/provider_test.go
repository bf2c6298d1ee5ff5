package ott

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"media-provider-go/pkg/config"
	"media-provider-go/pkg/logging"
	"media-provider-go/pkg/media"
	"media-provider-go/pkg/registry"
	"media-provider-go/pkg/types"
)

func newServer(t *testing.T, response string, bodies *[]map[string]any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api_v3/service/multirequest" {
			t.Errorf("path = %q", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("bad body: %v", err)
		}
		*bodies = append(*bodies, body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, response)
	}))
}

func newTestProvider(srv *httptest.Server, opts config.ProviderOptions) *Provider {
	opts.Env.ServiceURL = srv.URL + "/api_v3"
	return New(opts, srv.Client(), registry.NewDefaultFormatRegistry(), logging.Discard())
}

func TestGetMediaConfig(t *testing.T) {
	var bodies []map[string]any
	srv := newServer(t, `{"executionTime": 0.2, "result": [
	  {"objectType": "VidiunLoginSession", "vs": "anon-vs"},
	  {"objectType": "VidiunMediaAsset", "id": 258656, "name": "Sintel", "externalIds": "0",
	   "pictures": [{"url": "https://images.example.com/p/225/thumbnail/width/640/height/360", "width": 640, "height": 360}]},
	  {"objectType": "VidiunPlaybackContext", "sources": [
	    {"id": 101, "format": "applehttp", "type": "Mobile_Devices_Main_HD", "url": "https://cdn.example.com/101.m3u8", "duration": 888}
	  ], "actions": [], "messages": []}
	]}`, &bodies)
	defer srv.Close()

	p := newTestProvider(srv, config.ProviderOptions{PartnerID: 198})
	cfg, err := p.GetMediaConfig(context.Background(), types.MediaInfo{EntryID: "258656", Protocol: "https"})
	if err != nil {
		t.Fatalf("GetMediaConfig() error = %v", err)
	}

	body := bodies[0]
	if body["apiVersion"] != "5.2.0" || body["partnerId"] != float64(198) {
		t.Errorf("top-level params = %v", body)
	}
	if _, ok := body["clientTag"]; ok {
		t.Error("ott batches carry no client tag")
	}
	login := body["1"].(map[string]any)
	if login["service"] != "ottUser" || login["action"] != "anonymousLogin" || login["partnerId"] != float64(198) {
		t.Errorf("request 1 = %v", login)
	}
	get := body["2"].(map[string]any)
	if get["service"] != "asset" || get["id"] != "258656" || get["assetReferenceType"] != "media" || get["vs"] != "{1:result:vs}" {
		t.Errorf("request 2 = %v", get)
	}
	pc := body["3"].(map[string]any)
	if pc["action"] != "getPlaybackContext" || pc["assetType"] != "media" {
		t.Errorf("request 3 = %v", pc)
	}
	params := pc["contextDataParams"].(map[string]any)
	if params["objectType"] != "VidiunPlaybackContextOptions" || params["context"] != "PLAYBACK" || params["mediaProtocol"] != "https" {
		t.Errorf("contextDataParams = %v", params)
	}
	if _, ok := params["assetFileIds"]; ok {
		t.Error("unset file ids should be omitted")
	}

	if !cfg.Session.IsAnonymous || cfg.Session.VS != "anon-vs" {
		t.Errorf("session = %+v", cfg.Session)
	}
	if cfg.Sources.ID != "258656" || cfg.Sources.Type != media.TypeVOD || cfg.Sources.Duration != 888 {
		t.Errorf("sources = %+v", cfg.Sources)
	}
	if len(cfg.Sources.HLS) != 1 || cfg.Sources.HLS[0].ID != "101,applehttp" {
		t.Errorf("hls = %+v", cfg.Sources.HLS)
	}
	if cfg.Sources.Poster.URL == "" {
		t.Errorf("poster = %+v", cfg.Sources.Poster)
	}
}

func TestGetMediaConfigReusesSession(t *testing.T) {
	var bodies []map[string]any
	srv := newServer(t, `{"result": [
	  {"id": 1, "objectType": "VidiunLiveAsset"},
	  {"sources": [], "actions": [], "messages": []}
	]}`, &bodies)
	defer srv.Close()

	p := newTestProvider(srv, config.ProviderOptions{PartnerID: 198, VS: "configured-vs"})
	cfg, err := p.GetMediaConfig(context.Background(), types.MediaInfo{EntryID: "1"})
	if err != nil {
		t.Fatalf("GetMediaConfig() error = %v", err)
	}

	body := bodies[0]
	if body["vs"] != "configured-vs" {
		t.Errorf("top-level vs = %v", body["vs"])
	}
	if get := body["1"].(map[string]any); get["service"] != "asset" || get["vs"] != "configured-vs" {
		t.Errorf("request 1 = %v", get)
	}
	if cfg.Sources.Type != media.TypeLive || cfg.Sources.DVR {
		t.Errorf("live asset with dvr 0 = %+v", cfg.Sources)
	}
	if cfg.Session.IsAnonymous {
		t.Error("configured session is not anonymous")
	}
}

func TestGetMediaConfigBlocked(t *testing.T) {
	var bodies []map[string]any
	srv := newServer(t, `{"result": [
	  {"vs": "anon-vs"},
	  {"id": 1},
	  {"sources": [], "actions": [{"type": "BLOCK"}], "messages": [{"code": "NotEntitled", "message": "Not entitled"}]}
	]}`, &bodies)
	defer srv.Close()

	p := newTestProvider(srv, config.ProviderOptions{PartnerID: 198})
	_, err := p.GetMediaConfig(context.Background(), types.MediaInfo{EntryID: "1"})

	var block *types.BlockActionError
	if !errors.As(err, &block) || block.Messages[0].Code != "NotEntitled" {
		t.Errorf("error = %v, want NotEntitled block", err)
	}
}

func TestGetEntryListConfig(t *testing.T) {
	var bodies []map[string]any
	srv := newServer(t, `{"result": [
	  {"vs": "anon-vs"},
	  {"id": 1, "name": "One"},
	  {"id": 2, "name": "Two"}
	]}`, &bodies)
	defer srv.Close()

	p := newTestProvider(srv, config.ProviderOptions{PartnerID: 198})
	pl, err := p.GetEntryListConfig(context.Background(), types.EntryListInfo{
		Entries: []types.EntryRef{{EntryID: "1"}, {EntryID: "2", AssetReferenceType: "epg_internal"}},
	})
	if err != nil {
		t.Fatalf("GetEntryListConfig() error = %v", err)
	}

	if get := bodies[0]["3"].(map[string]any); get["id"] != "2" || get["assetReferenceType"] != "epg_internal" {
		t.Errorf("request 3 = %v", get)
	}
	if len(pl.Items) != 2 || pl.Items[1].Sources.Metadata["name"] != "Two" {
		t.Errorf("items = %+v", pl.Items)
	}
}

func TestAddBookmark(t *testing.T) {
	var bodies []map[string]any
	srv := newServer(t, `{"result": [true]}`, &bodies)
	defer srv.Close()

	p := newTestProvider(srv, config.ProviderOptions{PartnerID: 198})
	err := p.AddBookmark(context.Background(), "user-vs", Bookmark{
		ID:         "258656",
		Type:       "media",
		Position:   42,
		PlayerData: BookmarkPlayerData{Action: "PLAY", FileID: "101"},
	})
	if err != nil {
		t.Fatalf("AddBookmark() error = %v", err)
	}

	add := bodies[0]["1"].(map[string]any)
	if add["service"] != "bookmark" || add["action"] != "add" || add["vs"] != "user-vs" {
		t.Errorf("request 1 = %v", add)
	}
	bm := add["bookmark"].(map[string]any)
	if bm["objectType"] != "VidiunBookmark" || bm["position"] != float64(42) {
		t.Errorf("bookmark = %v", bm)
	}
	if pd := bm["playerData"].(map[string]any); pd["action"] != "PLAY" || pd["fileId"] != "101" {
		t.Errorf("playerData = %v", pd)
	}
}

func TestAddBookmarkRejected(t *testing.T) {
	var bodies []map[string]any
	srv := newServer(t, `{"result": [false]}`, &bodies)
	defer srv.Close()

	p := newTestProvider(srv, config.ProviderOptions{PartnerID: 198})
	err := p.AddBookmark(context.Background(), "user-vs", Bookmark{ID: "1", Type: "media"})
	if !errors.Is(err, ErrBookmarkRejected) {
		t.Errorf("error = %v, want ErrBookmarkRejected", err)
	}

	if err := p.AddBookmark(context.Background(), "user-vs", Bookmark{}); !errors.Is(err, types.ErrMissingMandatoryParameter) {
		t.Errorf("empty bookmark error = %v", err)
	}
}
