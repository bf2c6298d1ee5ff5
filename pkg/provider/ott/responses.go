package ott

import (
	"bytes"
	"encoding/json"
	"fmt"

	"media-provider-go/pkg/provider"
	"media-provider-go/pkg/request"
)

// Asset types.
const (
	AssetTypeMedia     = "media"
	AssetTypeEPG       = "epg"
	AssetTypeRecording = "recording"
)

// Playback context types.
const (
	ContextTrailer   = "TRAILER"
	ContextCatchup   = "CATCHUP"
	ContextStartOver = "START_OVER"
	ContextPlayback  = "PLAYBACK"
)

// AssetReferenceTypeMedia is the default reference type of asset.get.
const AssetReferenceTypeMedia = "media"

const (
	liveAssetObjectType = "VidiunLiveAsset"
	actionBlock         = "BLOCK"
)

// Picture is one image of an asset.
type Picture struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MetaMap holds asset metas or tags. The backend sends either a list of
// {key, value} pairs or an object keyed by name whose values are plain
// scalars, {value} wrappers or {objects: [{value}]} tag lists.
type MetaMap map[string]string

func (m *MetaMap) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	out := MetaMap{}
	switch {
	case len(data) == 0 || string(data) == "null":
	case data[0] == '[':
		var pairs []struct {
			Key   string          `json:"key"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &pairs); err != nil {
			return fmt.Errorf("failed to decode meta list: %w", err)
		}
		for _, p := range pairs {
			out[p.Key] = metaValue(p.Value)
		}
	default:
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(data, &keyed); err != nil {
			return fmt.Errorf("failed to decode meta object: %w", err)
		}
		for k, v := range keyed {
			out[k] = metaValue(v)
		}
	}
	*m = out
	return nil
}

// Map returns the entries as a plain map, never nil.
func (m MetaMap) Map() map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return map[string]string(m)
}

// metaValue flattens a meta value to text. Tag lists are comma joined.
func metaValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var wrapped struct {
		Value   json.RawMessage `json:"value"`
		Objects []struct {
			Value json.RawMessage `json:"value"`
		} `json:"objects"`
	}
	if raw[0] == '{' && json.Unmarshal(raw, &wrapped) == nil {
		if len(wrapped.Objects) > 0 {
			var b bytes.Buffer
			for i, o := range wrapped.Objects {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(metaValue(o.Value))
			}
			return b.String()
		}
		return metaValue(wrapped.Value)
	}
	var s request.FlexString
	if err := json.Unmarshal(raw, &s); err == nil {
		return s.String()
	}
	return string(raw)
}

// Asset is the result of asset.get.
type Asset struct {
	ID          request.FlexString `json:"id"`
	ObjectType  string             `json:"objectType"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	ExternalIDs request.FlexString `json:"externalIds"`
	Metas       MetaMap            `json:"metas"`
	Tags        MetaMap            `json:"tags"`
	Pictures    []Picture          `json:"pictures"`
	Images      []Picture          `json:"images"`
}

// AllPictures returns pictures, falling back to images.
func (a Asset) AllPictures() []Picture {
	if len(a.Pictures) > 0 {
		return a.Pictures
	}
	return a.Images
}

// PlaybackSource is one file of an asset playback context.
type PlaybackSource struct {
	FileID    request.FlexString       `json:"id"`
	Format    string                   `json:"format"`
	Protocols string                   `json:"protocols"`
	Drm       []provider.DrmPluginData `json:"drm"`
	AdsPolicy string                   `json:"adsPolicy"`
	AdsParam  string                   `json:"adsParam"`
	Duration  float64                  `json:"duration"`
	URL       string                   `json:"url"`
	Type      string                   `json:"type"`
}

// PlaybackContext is the result of asset.getPlaybackContext.
type PlaybackContext struct {
	provider.AccessControl
	Sources []PlaybackSource `json:"sources"`
}

type loginResponse struct {
	VS string `json:"vs"`
}
