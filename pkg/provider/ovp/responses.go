package ovp

import (
	"media-provider-go/pkg/provider"
	"media-provider-go/pkg/request"
)

// Entry and media type values.
const (
	mediaTypeImage = "2"
	mediaTypeAudio = "5"

	entryTypeMediaClip     = "1"
	entryTypeLiveStream    = "7"
	entryTypeLiveChannel   = "8"
	entryTypeExternalMedia = "externalMedia.externalMedia"
)

// Rule action types.
const (
	actionBlock            = "1"
	actionRequestHostRegex = "7"
)

// Caption formats.
const (
	captionSRT    = "1"
	captionDFXP   = "2"
	captionWebVTT = "3"
	captionCAP    = "4"
)

// MediaEntry is an entry record.
type MediaEntry struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	ThumbnailURL    string             `json:"thumbnailUrl"`
	DataURL         string             `json:"dataUrl"`
	Duration        float64            `json:"duration"`
	MsDuration      int64              `json:"msDuration"`
	FlavorParamsIDs string             `json:"flavorParamsIds"`
	MediaType       request.FlexString `json:"mediaType"`
	Type            request.FlexString `json:"type"`
	Tags            string             `json:"tags"`
	DvrStatus       *int               `json:"dvrStatus"`
	ReferenceID     string             `json:"referenceId"`
}

// BaseEntryListResponse is the result of baseEntry.list.
type BaseEntryListResponse struct {
	TotalCount int          `json:"totalCount"`
	Objects    []MediaEntry `json:"objects"`
}

// PlaybackSource is one delivery option of a playback context.
type PlaybackSource struct {
	DeliveryProfileID request.FlexString       `json:"deliveryProfileId"`
	Format            string                   `json:"format"`
	Protocols         string                   `json:"protocols"`
	FlavorIDs         string                   `json:"flavorIds"`
	URL               string                   `json:"url"`
	Drm               []provider.DrmPluginData `json:"drm"`
}

// HasFlavorIDs reports whether the play URL must be built from flavors.
func (s PlaybackSource) HasFlavorIDs() bool {
	return s.FlavorIDs != ""
}

// FlavorAsset is one rendition of an entry.
type FlavorAsset struct {
	ID       string `json:"id"`
	FileExt  string `json:"fileExt"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Bitrate  int    `json:"bitrate"`
	Label    string `json:"label"`
	Language string `json:"language"`
}

// PlaybackCaption is a caption asset of a playback context.
type PlaybackCaption struct {
	Label        string             `json:"label"`
	Format       request.FlexString `json:"format"`
	Language     string             `json:"language"`
	LanguageCode string             `json:"languageCode"`
	URL          string             `json:"url"`
	WebVttURL    string             `json:"webVttUrl"`
	IsDefault    bool               `json:"isDefault"`
}

// PlaybackContext is the result of baseEntry.getPlaybackContext.
type PlaybackContext struct {
	provider.AccessControl
	Sources          []PlaybackSource  `json:"sources"`
	FlavorAssets     []FlavorAsset     `json:"flavorAssets"`
	PlaybackCaptions []PlaybackCaption `json:"playbackCaptions"`
}

// Metadata is one custom metadata object; XML holds its fields.
type Metadata struct {
	XML string `json:"xml"`
}

// MetadataListResponse is the result of metadata_metadata.list.
type MetadataListResponse struct {
	TotalCount int        `json:"totalCount"`
	Objects    []Metadata `json:"objects"`
}

// sessionResponse is the result of session.startWidgetSession.
type sessionResponse struct {
	VS string `json:"vs"`
}
