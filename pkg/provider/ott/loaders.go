package ott

import (
	"errors"
	"fmt"

	"media-provider-go/pkg/loader"
	"media-provider-go/pkg/request"
	"media-provider-go/pkg/types"

	"github.com/samber/lo"
)

// Loader ids.
const (
	SessionLoaderID   = "session"
	AssetLoaderID     = "asset"
	AssetListLoaderID = "asset_list"
	BookmarkLoaderID  = "bookmark"
)

// SessionLoader opens an anonymous user session.
type SessionLoader struct {
	loader.Base
	partnerID int
	token     string
}

func newSessionLoader(serviceURL string, partnerID int) *SessionLoader {
	l := &SessionLoader{partnerID: partnerID}
	l.AddRequest(anonymousLogin(serviceURL, partnerID))
	return l
}

func (l *SessionLoader) ID() string    { return SessionLoaderID }
func (l *SessionLoader) IsValid() bool { return l.partnerID != 0 }
func (l *SessionLoader) Token() string { return l.token }

func (l *SessionLoader) Absorb(results []request.ServiceResult) error {
	if err := l.Store(results); err != nil {
		return err
	}
	var resp loginResponse
	if err := results[0].Decode(&resp); err != nil {
		return fmt.Errorf("failed to decode login session: %w", err)
	}
	l.token = resp.VS
	return nil
}

// assetParams are the inputs of an asset loader.
type assetParams struct {
	assetID            string
	assetType          string
	assetReferenceType string
	playback           PlaybackContextOptions
}

// AssetLoader fetches an asset and its playback context.
type AssetLoader struct {
	loader.Base
	assetID string

	Asset           Asset
	PlaybackContext PlaybackContext
}

func newAssetLoader(serviceURL, vs string, p assetParams) *AssetLoader {
	l := &AssetLoader{assetID: p.assetID}
	l.AddRequest(getAsset(serviceURL, vs, p.assetID, p.assetReferenceType))
	l.AddRequest(getPlaybackContext(serviceURL, vs, p.assetID, p.assetType, p.playback))
	return l
}

func (l *AssetLoader) ID() string    { return AssetLoaderID }
func (l *AssetLoader) IsValid() bool { return l.assetID != "" }

func (l *AssetLoader) Absorb(results []request.ServiceResult) error {
	if err := l.Store(results); err != nil {
		return err
	}
	if len(results) != 2 {
		return errors.New("asset expects two responses")
	}
	if err := results[0].Decode(&l.Asset); err != nil {
		return fmt.Errorf("failed to decode asset: %w", err)
	}
	if err := results[1].Decode(&l.PlaybackContext); err != nil {
		return fmt.Errorf("failed to decode playback context: %w", err)
	}
	return nil
}

// AssetListLoader fetches the base data of several assets.
type AssetListLoader struct {
	loader.Base
	entries []types.EntryRef

	Assets []Asset
}

func newAssetListLoader(serviceURL, vs string, entries []types.EntryRef) *AssetListLoader {
	l := &AssetListLoader{entries: entries}
	for _, e := range entries {
		refType := lo.CoalesceOrEmpty(e.AssetReferenceType, AssetReferenceTypeMedia)
		l.AddRequest(getAsset(serviceURL, vs, e.EntryID, refType))
	}
	return l
}

func (l *AssetListLoader) ID() string { return AssetListLoaderID }

func (l *AssetListLoader) IsValid() bool {
	return len(l.entries) > 0 && !lo.ContainsBy(l.entries, func(e types.EntryRef) bool { return e.EntryID == "" })
}

func (l *AssetListLoader) Absorb(results []request.ServiceResult) error {
	if err := l.Store(results); err != nil {
		return err
	}
	l.Assets = make([]Asset, len(results))
	for i, r := range results {
		if err := r.Decode(&l.Assets[i]); err != nil {
			return fmt.Errorf("failed to decode asset %s: %w", l.entries[i].EntryID, err)
		}
	}
	return nil
}

// BookmarkLoader reports a playback position.
type BookmarkLoader struct {
	loader.Base
	bookmark Bookmark

	Accepted bool
}

func newBookmarkLoader(serviceURL, vs string, b Bookmark) *BookmarkLoader {
	l := &BookmarkLoader{bookmark: b}
	l.AddRequest(addBookmark(serviceURL, vs, b))
	return l
}

func (l *BookmarkLoader) ID() string    { return BookmarkLoaderID }
func (l *BookmarkLoader) IsValid() bool { return l.bookmark.ID != "" && l.bookmark.Type != "" }

func (l *BookmarkLoader) Absorb(results []request.ServiceResult) error {
	if err := l.Store(results); err != nil {
		return err
	}
	if err := results[0].Decode(&l.Accepted); err != nil {
		return fmt.Errorf("failed to decode bookmark result: %w", err)
	}
	return nil
}
