// Package types defines the public request and result types of the media
// providers, shared by both provider families and the HTTP API.
package types

import (
	"encoding/json"

	"media-provider-go/pkg/media"
)

// MediaInfo identifies the media a config is requested for. Only EntryID is
// mandatory; the remaining fields are used by OTT providers.
type MediaInfo struct {
	EntryID            string   `json:"entryId"`
	VS                 string   `json:"vs,omitempty"`
	MediaType          string   `json:"mediaType,omitempty"`
	ContextType        string   `json:"contextType,omitempty"`
	Protocol           string   `json:"protocol,omitempty"`
	FileIDs            string   `json:"fileIds,omitempty"`
	AssetReferenceType string   `json:"assetReferenceType,omitempty"`
	Formats            []string `json:"formats,omitempty"`
}

// EntryRef is one item of an entry list request.
type EntryRef struct {
	EntryID            string `json:"entryId"`
	AssetReferenceType string `json:"assetReferenceType,omitempty"`
}

// UnmarshalJSON accepts either a bare entry id string or an object.
func (r *EntryRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = EntryRef{EntryID: id}
		return nil
	}
	type plain EntryRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = EntryRef(p)
	return nil
}

// EntryListInfo requests base data for an ad hoc list of entries.
type EntryListInfo struct {
	Entries []EntryRef `json:"entries"`
	VS      string     `json:"vs,omitempty"`
}

// PlaylistInfo requests a backend playlist.
type PlaylistInfo struct {
	PlaylistID string `json:"playlistId"`
	VS         string `json:"vs,omitempty"`
}

// Session describes the session a config was resolved with.
type Session struct {
	IsAnonymous bool   `json:"isAnonymous"`
	PartnerID   int    `json:"partnerId"`
	UIConfID    *int   `json:"uiConfId,omitempty"`
	VS          string `json:"vs,omitempty"`
}

// VRConfig marks 360° content. Its presence is the signal.
type VRConfig struct{}

// SourcesConfig is the sources block of a media config.
type SourcesConfig struct {
	HLS         []media.Source  `json:"hls"`
	DASH        []media.Source  `json:"dash"`
	Progressive []media.Source  `json:"progressive"`
	ID          string          `json:"id"`
	Duration    float64         `json:"duration"`
	Type        media.Type      `json:"type"`
	Poster      media.Poster    `json:"poster"`
	DVR         bool            `json:"dvr"`
	VR          *VRConfig       `json:"vr"`
	Metadata    media.Metadata  `json:"metadata"`
	Captions    []media.Caption `json:"captions,omitempty"`
}

// NewSourcesConfig returns an empty sources block of type Unknown.
func NewSourcesConfig() SourcesConfig {
	return SourcesConfig{
		HLS:         []media.Source{},
		DASH:        []media.Source{},
		Progressive: []media.Source{},
		Type:        media.TypeUnknown,
		Metadata:    media.Metadata{"name": "", "description": ""},
	}
}

// Apply copies a parsed entry into the sources block.
func (s *SourcesConfig) Apply(e *media.Entry) {
	if e.Sources != nil {
		s.HLS = e.Sources.HLS
		s.DASH = e.Sources.DASH
		s.Progressive = e.Sources.Progressive
		s.Captions = e.Sources.Captions
	}
	s.ID = e.ID
	s.Duration = e.Duration
	s.Type = e.Type
	s.Poster = e.Poster
	s.DVR = e.HasDVR()
	if e.IsVR() {
		s.VR = &VRConfig{}
	}
	if s.Metadata == nil {
		s.Metadata = media.Metadata{}
	}
	for k, v := range e.Metadata {
		s.Metadata[k] = v
	}
}

// ProviderMediaConfig is the result of a media config request.
type ProviderMediaConfig struct {
	Session Session        `json:"session"`
	Sources SourcesConfig  `json:"sources"`
	Plugins map[string]any `json:"plugins"`
}

// NewProviderMediaConfig returns an empty config for the given session.
func NewProviderMediaConfig(session Session) *ProviderMediaConfig {
	return &ProviderMediaConfig{
		Session: session,
		Sources: NewSourcesConfig(),
		Plugins: map[string]any{},
	}
}

// PlaylistMetadata carries the descriptive fields of a playlist.
type PlaylistMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PlaylistItem is one entry of a playlist result.
type PlaylistItem struct {
	Sources SourcesConfig `json:"sources"`
}

// ProviderPlaylist is the result of an entry list or playlist request.
type ProviderPlaylist struct {
	ID       string           `json:"id"`
	Metadata PlaylistMetadata `json:"metadata"`
	Poster   string           `json:"poster"`
	Items    []PlaylistItem   `json:"items"`
}

// NewProviderPlaylist builds a playlist result from parsed entries.
func NewProviderPlaylist(id string, meta PlaylistMetadata, poster string, entries []*media.Entry) *ProviderPlaylist {
	p := &ProviderPlaylist{
		ID:       id,
		Metadata: meta,
		Poster:   poster,
		Items:    make([]PlaylistItem, 0, len(entries)),
	}
	for _, e := range entries {
		sources := NewSourcesConfig()
		sources.Apply(e)
		p.Items = append(p.Items, PlaylistItem{Sources: sources})
	}
	return p
}
