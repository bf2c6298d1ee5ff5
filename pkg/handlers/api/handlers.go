// Package api provides the HTTP handlers of the provider API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"media-provider-go/pkg/appctx"
	"media-provider-go/pkg/interfaces"
	"media-provider-go/pkg/logging"
	"media-provider-go/pkg/provider/ott"
	"media-provider-go/pkg/request"
	"media-provider-go/pkg/types"

	"github.com/samber/lo"
)

// Version is reported by the index and health routes.
const Version = "1.0.0"

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// bookmarker is implemented by providers that accept playback bookmarks.
type bookmarker interface {
	AddBookmark(ctx context.Context, vs string, b ott.Bookmark) error
}

// Handlers contains all API handlers.
type Handlers struct {
	ctx *appctx.Context
	log *logging.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(ctx *appctx.Context) *Handlers {
	return &Handlers{
		ctx: ctx,
		log: ctx.Log.WithComponent("api"),
	}
}

// RegisterRoutes registers all API routes.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /api/providers", h.handleProviders)

	mux.HandleFunc("GET /api/{provider}/media/{entryId}", h.handleGetMedia)
	mux.HandleFunc("POST /api/{provider}/media", h.handlePostMedia)
	mux.HandleFunc("POST /api/{provider}/entries", h.handleEntries)
	mux.HandleFunc("GET /api/{provider}/playlists/{playlistId}", h.handlePlaylist)
	mux.HandleFunc("POST /api/{provider}/bookmarks", h.handleBookmark)
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"name":      "media-provider",
		"version":   Version,
		"baseUrl":   h.ctx.BaseURL,
		"providers": h.ctx.Providers.Names(),
		"formats":   h.ctx.Formats.Tokens(),
	})
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

type providerInfo struct {
	Name      string `json:"name"`
	Playlists bool   `json:"playlists"`
	Bookmarks bool   `json:"bookmarks"`
}

func (h *Handlers) handleProviders(w http.ResponseWriter, r *http.Request) {
	infos := lo.Map(h.ctx.Providers.All(), func(p interfaces.MediaProvider, _ int) providerInfo {
		_, playlists := p.(interfaces.PlaylistProvider)
		_, bookmarks := p.(bookmarker)
		return providerInfo{Name: p.Name(), Playlists: playlists, Bookmarks: bookmarks}
	})
	h.writeJSON(w, http.StatusOK, infos)
}

func (h *Handlers) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	h.resolveMedia(w, r, p, mediaInfoFromQuery(r))
}

func (h *Handlers) handlePostMedia(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	var info types.MediaInfo
	if !h.decodeBody(w, r, &info) {
		return
	}
	h.resolveMedia(w, r, p, info)
}

func (h *Handlers) resolveMedia(w http.ResponseWriter, r *http.Request, p interfaces.MediaProvider, info types.MediaInfo) {
	cfg, err := p.GetMediaConfig(r.Context(), info)
	if err != nil {
		h.writeProviderError(r.Context(), w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, cfg)
}

func (h *Handlers) handleEntries(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	var info types.EntryListInfo
	if !h.decodeBody(w, r, &info) {
		return
	}
	pl, err := p.GetEntryListConfig(r.Context(), info)
	if err != nil {
		h.writeProviderError(r.Context(), w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, pl)
}

func (h *Handlers) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	pp, ok := p.(interfaces.PlaylistProvider)
	if !ok {
		h.writeError(w, http.StatusNotImplemented, "provider "+p.Name()+" does not serve playlists")
		return
	}
	pl, err := pp.GetPlaylistConfig(r.Context(), types.PlaylistInfo{
		PlaylistID: r.PathValue("playlistId"),
		VS:         r.URL.Query().Get("vs"),
	})
	if err != nil {
		h.writeProviderError(r.Context(), w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, pl)
}

type bookmarkRequest struct {
	VS       string       `json:"vs"`
	Bookmark ott.Bookmark `json:"bookmark"`
}

func (h *Handlers) handleBookmark(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	bp, ok := p.(bookmarker)
	if !ok {
		h.writeError(w, http.StatusNotImplemented, "provider "+p.Name()+" does not accept bookmarks")
		return
	}
	var req bookmarkRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if err := bp.AddBookmark(r.Context(), req.VS, req.Bookmark); err != nil {
		h.writeProviderError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// provider looks up the {provider} path value, writing 404 when unknown.
func (h *Handlers) provider(w http.ResponseWriter, r *http.Request) (interfaces.MediaProvider, bool) {
	name := r.PathValue("provider")
	p, ok := h.ctx.Providers.Get(name)
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown provider "+name)
	}
	return p, ok
}

func (h *Handlers) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func mediaInfoFromQuery(r *http.Request) types.MediaInfo {
	q := r.URL.Query()
	info := types.MediaInfo{
		EntryID:            r.PathValue("entryId"),
		VS:                 q.Get("vs"),
		MediaType:          q.Get("mediaType"),
		ContextType:        q.Get("contextType"),
		Protocol:           q.Get("protocol"),
		FileIDs:            q.Get("fileIds"),
		AssetReferenceType: q.Get("assetReferenceType"),
	}
	if formats := q.Get("formats"); formats != "" {
		info.Formats = lo.Compact(lo.Map(strings.Split(formats, ","), func(f string, _ int) string {
			return strings.TrimSpace(f)
		}))
	}
	return info
}

// errorResponse is the body of a failed provider call.
type errorResponse struct {
	Error   string                       `json:"error"`
	Code    string                       `json:"code,omitempty"`
	Action  *types.RuleAction            `json:"action,omitempty"`
	Details []types.AccessControlMessage `json:"messages,omitempty"`
}

// statusFor maps a provider error to an HTTP status and response body.
func statusFor(err error) (int, errorResponse) {
	resp := errorResponse{Error: err.Error()}

	var block *types.BlockActionError
	var serr *request.ServiceError
	var status *request.StatusError
	switch {
	case errors.Is(err, types.ErrMissingMandatoryParameter):
		return http.StatusBadRequest, resp
	case errors.As(err, &block):
		resp.Action = &block.Action
		resp.Details = block.Messages
		return http.StatusForbidden, resp
	case errors.Is(err, types.ErrEntryNotFound):
		return http.StatusNotFound, resp
	case errors.As(err, &serr):
		resp.Code = serr.Code
		return http.StatusBadGateway, resp
	case errors.As(err, &status):
		return http.StatusBadGateway, resp
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, resp
	default:
		return http.StatusInternalServerError, resp
	}
}

func (h *Handlers) writeProviderError(ctx context.Context, w http.ResponseWriter, err error) {
	status, resp := statusFor(err)
	log := logging.FromContext(ctx)
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("provider call failed", "status", status)
	} else {
		log.WithError(err).Warn("provider call rejected", "status", status)
	}
	h.writeJSON(w, status, resp)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.WithError(err).Debug("failed to write response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message})
}
