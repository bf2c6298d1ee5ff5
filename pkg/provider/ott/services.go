package ott

import (
	"media-provider-go/pkg/request"
)

const (
	serviceUser     = "ottUser"
	serviceAsset    = "asset"
	serviceBookmark = "bookmark"

	playbackContextOptionsType = "VidiunPlaybackContextOptions"
	bookmarkType               = "VidiunBookmark"
	bookmarkPlayerDataType     = "VidiunBookmarkPlayerData"
)

// anonymousLogin opens an anonymous session for a partner.
func anonymousLogin(serviceURL string, partnerID int) *request.Request {
	return request.New(serviceURL, serviceUser, "anonymousLogin", map[string]any{
		"partnerId": partnerID,
	})
}

func getAsset(serviceURL, vs, assetID, assetReferenceType string) *request.Request {
	return request.New(serviceURL, serviceAsset, "get", map[string]any{
		"id":                 assetID,
		"assetReferenceType": assetReferenceType,
		"vs":                 vs,
	})
}

// PlaybackContextOptions narrow the sources returned for an asset.
type PlaybackContextOptions struct {
	MediaProtocol string
	AssetFileIDs  string
	Context       string
}

func (o PlaybackContextOptions) params() map[string]any {
	p := map[string]any{"objectType": playbackContextOptionsType}
	if o.MediaProtocol != "" {
		p["mediaProtocol"] = o.MediaProtocol
	}
	if o.AssetFileIDs != "" {
		p["assetFileIds"] = o.AssetFileIDs
	}
	if o.Context != "" {
		p["context"] = o.Context
	}
	return p
}

func getPlaybackContext(serviceURL, vs, assetID, assetType string, opts PlaybackContextOptions) *request.Request {
	return request.New(serviceURL, serviceAsset, "getPlaybackContext", map[string]any{
		"assetId":           assetID,
		"assetType":         assetType,
		"contextDataParams": opts.params(),
		"vs":                vs,
	})
}

// Bookmark is a playback position report.
type Bookmark struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Position   int                `json:"position"`
	PlayerData BookmarkPlayerData `json:"playerData"`
}

// BookmarkPlayerData describes the player state at the bookmark.
type BookmarkPlayerData struct {
	Action         string `json:"action"`
	AverageBitrate int    `json:"averageBitrate"`
	TotalBitrate   int    `json:"totalBitrate"`
	CurrentBitrate int    `json:"currentBitrate"`
	FileID         string `json:"fileId"`
}

func addBookmark(serviceURL, vs string, b Bookmark) *request.Request {
	return request.New(serviceURL, serviceBookmark, "add", map[string]any{
		"vs": vs,
		"bookmark": map[string]any{
			"objectType": bookmarkType,
			"type":       b.Type,
			"id":         b.ID,
			"position":   b.Position,
			"playerData": map[string]any{
				"objectType":     bookmarkPlayerDataType,
				"action":         b.PlayerData.Action,
				"averageBitrate": b.PlayerData.AverageBitrate,
				"totalBitrate":   b.PlayerData.TotalBitrate,
				"currentBitrate": b.PlayerData.CurrentBitrate,
				"fileId":         b.PlayerData.FileID,
			},
		},
	})
}
