package media

// Canonical stream format names. Sources are bucketed by these.
const (
	FormatHLS  = "hls"
	FormatDASH = "dash"
	FormatMP4  = "mp4"
)

// StreamFormat describes a streaming format a provider token resolves to.
type StreamFormat struct {
	Name     string
	Mimetype string
	PathExt  string
}

// IsProgressive reports whether the format is a single direct-file stream.
func (f StreamFormat) IsProgressive() bool {
	return f.Name == FormatMP4
}

// IsZero reports whether the descriptor is empty.
func (f StreamFormat) IsZero() bool {
	return f.Name == ""
}
