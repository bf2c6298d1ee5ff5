// Package media defines the normalized playback entities a provider produces
// from backend records: entries, their classified sources, and playlists.
package media

import (
	"encoding/json"
	"strings"

	"github.com/samber/mo"
)

// Type is the resolved kind of a media entry.
type Type string

const (
	TypeVOD     Type = "Vod"
	TypeLive    Type = "Live"
	TypeAudio   Type = "Audio"
	TypeImage   Type = "Image"
	TypeUnknown Type = "Unknown"
)

// vrTag marks 360° content in entry tags or metas.
const vrTag = "360"

// Entry is a normalized playable unit.
type Entry struct {
	ID       string   `json:"id"`
	Duration float64  `json:"duration"`
	Type     Type     `json:"type"`
	Poster   Poster   `json:"poster"`
	Metadata Metadata `json:"metadata"`
	Sources  *Sources `json:"sources"`

	// DvrStatus is only present for live entries.
	DvrStatus mo.Option[int] `json:"dvrStatus"`
}

// NewEntry returns an entry with type Unknown and empty sources.
func NewEntry() *Entry {
	return &Entry{
		Type:      TypeUnknown,
		Metadata:  Metadata{},
		Sources:   NewSources(),
		DvrStatus: mo.None[int](),
	}
}

// HasDVR reports whether the entry carries a non-zero DVR status.
func (e *Entry) HasDVR() bool {
	return e.DvrStatus.OrElse(0) != 0
}

// IsVR reports whether the entry is tagged as 360° content.
func (e *Entry) IsVR() bool {
	return e.Metadata.IsVR()
}

// Metadata is a free-form map of entry metadata. The keys name, description
// and tags are always set by the parsers; provider specific keys sit next to
// them.
type Metadata map[string]any

// String returns the string value stored under key, or "".
func (m Metadata) String(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// IsVR reports whether tags (a string) contain the 360 marker, or whether the
// tags or metas maps carry a 360 key.
func (m Metadata) IsVR() bool {
	for _, key := range []string{"tags", "metas"} {
		switch v := m[key].(type) {
		case string:
			if strings.Contains(v, vrTag) {
				return true
			}
		case map[string]string:
			if _, ok := v[vrTag]; ok {
				return true
			}
		}
	}
	return false
}

// PosterCandidate is one sized picture of an entry.
type PosterCandidate struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Poster is either a single URL or a list of sized candidates. It encodes to
// JSON as a string or as an array accordingly.
type Poster struct {
	URL        string
	Candidates []PosterCandidate
}

// PosterURL returns a poster holding a single URL.
func PosterURL(url string) Poster {
	return Poster{URL: url}
}

// IsZero reports whether the poster carries nothing.
func (p Poster) IsZero() bool {
	return p.URL == "" && len(p.Candidates) == 0
}

func (p Poster) MarshalJSON() ([]byte, error) {
	if len(p.Candidates) > 0 {
		return json.Marshal(p.Candidates)
	}
	return json.Marshal(p.URL)
}

func (p *Poster) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		p.URL = ""
		return json.Unmarshal(data, &p.Candidates)
	}
	if trimmed == "null" {
		*p = Poster{}
		return nil
	}
	p.Candidates = nil
	return json.Unmarshal(data, &p.URL)
}
