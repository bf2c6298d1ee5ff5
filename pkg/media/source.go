package media

// DrmScheme identifies a key system.
type DrmScheme string

const (
	DrmSchemeWidevine  DrmScheme = "com.widevine.alpha"
	DrmSchemePlayReady DrmScheme = "com.microsoft.playready"
	DrmSchemeFairPlay  DrmScheme = "com.apple.fairplay"
)

// Drm is a DRM descriptor attached to a source.
type Drm struct {
	LicenseURL  string    `json:"licenseUrl"`
	Scheme      DrmScheme `json:"scheme"`
	Certificate string    `json:"certificate,omitempty"`
}

// Source is one playable variant of an entry.
type Source struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Mimetype  string `json:"mimetype"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Bandwidth int    `json:"bandwidth,omitempty"`
	Label     string `json:"label,omitempty"`
	DrmData   []Drm  `json:"drmData,omitempty"`
}

// Caption is an external text track.
type Caption struct {
	Default  bool   `json:"default"`
	Type     string `json:"type"`
	Language string `json:"language"`
	Label    string `json:"label"`
	URL      string `json:"url"`
}

// Sources groups the playable variants of an entry by format.
type Sources struct {
	HLS         []Source  `json:"hls"`
	DASH        []Source  `json:"dash"`
	Progressive []Source  `json:"progressive"`
	Captions    []Caption `json:"captions,omitempty"`

	// Extra holds sources of registered formats other than hls, dash and mp4,
	// keyed by format name.
	Extra map[string][]Source `json:"extra,omitempty"`
}

// NewSources returns empty, non-nil buckets.
func NewSources() *Sources {
	return &Sources{
		HLS:         []Source{},
		DASH:        []Source{},
		Progressive: []Source{},
	}
}

// Map routes src into the bucket named by format. A zero format drops the
// source. It reports whether the source was kept.
func (s *Sources) Map(src Source, format StreamFormat) bool {
	switch format.Name {
	case "":
		return false
	case FormatHLS:
		s.HLS = append(s.HLS, src)
	case FormatDASH:
		s.DASH = append(s.DASH, src)
	case FormatMP4:
		s.Progressive = append(s.Progressive, src)
	default:
		if s.Extra == nil {
			s.Extra = make(map[string][]Source)
		}
		s.Extra[format.Name] = append(s.Extra[format.Name], src)
	}
	return true
}

// Len returns the number of playable sources across all buckets.
func (s *Sources) Len() int {
	n := len(s.HLS) + len(s.DASH) + len(s.Progressive)
	for _, extra := range s.Extra {
		n += len(extra)
	}
	return n
}
