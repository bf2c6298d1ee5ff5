package ovp

import (
	"media-provider-go/pkg/media"

	"github.com/samber/lo"
)

var captionTypes = map[string]string{
	captionSRT:    "srt",
	captionWebVTT: "vtt",
}

// buildCaptions converts playback context captions to external text tracks.
// DFXP and CAP assets are served through their WebVTT rendition.
func buildCaptions(captions []PlaybackCaption) []media.Caption {
	return lo.Map(captions, func(c PlaybackCaption, _ int) media.Caption {
		format := c.Format.String()
		url, typ := c.URL, captionTypes[format]
		if format == captionDFXP || format == captionCAP {
			url, typ = c.WebVttURL, captionTypes[captionWebVTT]
		}
		return media.Caption{
			Default:  c.IsDefault,
			Type:     typ,
			Language: c.LanguageCode,
			Label:    c.Label,
			URL:      url,
		}
	})
}
