package ovp

import (
	"errors"

	"media-provider-go/pkg/config"
	"media-provider-go/pkg/logging"
	"media-provider-go/pkg/media"
	"media-provider-go/pkg/provider"
	"media-provider-go/pkg/registry"
	"media-provider-go/pkg/types"
	"media-provider-go/pkg/urlutil"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	youtubeMimetype = "video/youtube"
	mp3Ext          = "mp3"
)

// Parser turns OVP loader responses into media entries.
type Parser struct {
	env     config.EnvConfig
	formats *registry.FormatRegistry
	log     *logging.Logger
}

// NewParser creates a parser for the given backend environment.
func NewParser(env config.EnvConfig, formats *registry.FormatRegistry, log *logging.Logger) *Parser {
	return &Parser{env: env, formats: formats, log: log.WithComponent("ovp-parser")}
}

// MediaEntry builds the full entry of a media loader. session supplies the
// partner, the uiConf and the token embedded in play URLs; anonymous
// sessions embed no token.
func (p *Parser) MediaEntry(l *MediaEntryLoader, session types.Session) (*media.Entry, error) {
	if l.Entry == nil {
		return nil, errors.New("media loader has no entry")
	}
	if err := l.PlaybackContext.BlockError(actionBlock); err != nil {
		return nil, err
	}

	entry, err := p.baseEntry(*l.Entry, l.Metadata.Objects)
	if err != nil {
		return nil, err
	}

	vs := session.VS
	if session.IsAnonymous {
		vs = ""
	}
	entry.Sources = p.sources(*l.Entry, &l.PlaybackContext, sourceContext{
		vs:        vs,
		partnerID: session.PartnerID,
		uiConfID:  session.UIConfID,
	})
	if p.env.CaptionsEnabled() && len(l.PlaybackContext.PlaybackCaptions) > 0 {
		entry.Sources.Captions = buildCaptions(l.PlaybackContext.PlaybackCaptions)
	}
	return entry, nil
}

// BaseEntries builds entries without sources, as used in lists.
func (p *Parser) BaseEntries(entries []MediaEntry) ([]*media.Entry, error) {
	out := make([]*media.Entry, 0, len(entries))
	for _, e := range entries {
		entry, err := p.baseEntry(e, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func (p *Parser) baseEntry(e MediaEntry, metas []Metadata) (*media.Entry, error) {
	entry := media.NewEntry()
	entry.ID = e.ID
	entry.Duration = e.Duration
	entry.Poster = media.PosterURL(e.ThumbnailURL)

	for _, m := range metas {
		fields, err := ParseMetadataXML(m.XML)
		if err != nil {
			return nil, err
		}
		for k, v := range fields {
			entry.Metadata[k] = v
		}
	}
	entry.Metadata["name"] = e.Name
	entry.Metadata["description"] = e.Description
	entry.Metadata["tags"] = e.Tags

	entry.Type = entryType(e.MediaType.String(), e.Type.String())
	if entry.Type == media.TypeLive && e.DvrStatus != nil {
		entry.DvrStatus = mo.Some(*e.DvrStatus)
	}
	return entry, nil
}

func entryType(mediaType, typ string) media.Type {
	switch mediaType {
	case mediaTypeImage:
		return media.TypeImage
	case mediaTypeAudio:
		return media.TypeAudio
	}
	switch typ {
	case entryTypeMediaClip:
		return media.TypeVOD
	case entryTypeLiveStream, entryTypeLiveChannel:
		return media.TypeLive
	default:
		return media.TypeUnknown
	}
}

type sourceContext struct {
	vs        string
	partnerID int
	uiConfID  *int
}

func (p *Parser) sources(e MediaEntry, pc *PlaybackContext, sc sourceContext) *media.Sources {
	sources := media.NewSources()

	if e.Type.String() == entryTypeExternalMedia {
		sources.Progressive = append(sources.Progressive, media.Source{
			ID:       e.ID + "_youtube",
			URL:      e.ReferenceID,
			Mimetype: youtubeMimetype,
		})
		return sources
	}
	if len(pc.Sources) == 0 {
		return sources
	}

	adaptive, progressive := lo.FilterReject(pc.Sources, func(s PlaybackSource, _ int) bool {
		return !p.formats.IsProgressive(s.Format)
	})
	for _, src := range adaptive {
		format, ok := p.formats.Classify(src.Format)
		if !ok {
			continue
		}
		if parsed, ok := p.adaptiveSource(e.ID, src, format, pc, sc); ok {
			sources.Map(parsed, format)
		}
	}
	if len(progressive) > 0 {
		sources.Progressive = p.progressiveSources(e.ID, progressive[0], pc, sc)
	}
	return sources
}

func (p *Parser) adaptiveSource(entryID string, src PlaybackSource, format media.StreamFormat, pc *PlaybackContext, sc sourceContext) (media.Source, bool) {
	playURL := src.URL
	if src.HasFlavorIDs() {
		ext := format.PathExt
		if ext == "" && len(pc.FlavorAssets) > 0 {
			ext = pc.FlavorAssets[0].FileExt
		}
		playURL = PlaySourceURL(PlaySourceParams{
			CDNURL:    p.env.CDNURL,
			EntryID:   entryID,
			FlavorIDs: src.FlavorIDs,
			Format:    src.Format,
			VS:        sc.vs,
			PartnerID: sc.partnerID,
			UIConfID:  sc.uiConfID,
			Extension: ext,
			Protocol:  provider.Protocol(src.Protocols, p.baseProtocol()),
		})
	}
	if playURL == "" {
		p.log.Warn("failed to create play url from source, discarding source",
			"entry_id", entryID, "delivery_profile_id", src.DeliveryProfileID.String(), "format", src.Format)
		return media.Source{}, false
	}

	return media.Source{
		ID:       entryID + "_" + src.DeliveryProfileID.String() + "," + src.Format,
		URL:      p.applyRegexAction(pc, playURL),
		Mimetype: format.Mimetype,
		DrmData:  provider.DrmData(src.Drm, p.log),
	}, true
}

// progressiveSources expands the progressive source into one source per
// flavor. Audio flavors are returned only when there is no video flavor.
func (p *Parser) progressiveSources(entryID string, src PlaybackSource, pc *PlaybackContext, sc sourceContext) []media.Source {
	protocol := provider.Protocol(src.Protocols, p.baseProtocol())
	sourceID := src.DeliveryProfileID.String() + "," + src.Format

	video := []media.Source{}
	var audio []media.Source
	for _, flavor := range pc.FlavorAssets {
		playURL := PlaySourceURL(PlaySourceParams{
			CDNURL:    p.env.CDNURL,
			EntryID:   entryID,
			FlavorIDs: flavor.ID,
			Format:    src.Format,
			VS:        sc.vs,
			PartnerID: sc.partnerID,
			UIConfID:  sc.uiConfID,
			Extension: flavor.FileExt,
			Protocol:  protocol,
		})
		if playURL == "" {
			p.log.Warn("failed to create play url from flavor, discarding source",
				"entry_id", entryID, "flavor_id", flavor.ID, "format", src.Format)
			continue
		}

		mimetype := "video/mp4"
		if flavor.FileExt == mp3Ext {
			mimetype = "audio/mp3"
		}
		s := media.Source{
			ID:        flavor.ID + sourceID,
			URL:       p.applyRegexAction(pc, playURL),
			Mimetype:  mimetype,
			Width:     flavor.Width,
			Height:    flavor.Height,
			Bandwidth: flavor.Bitrate * 1024,
			Label:     lo.CoalesceOrEmpty(flavor.Label, flavor.Language),
		}
		if flavor.Width != 0 && flavor.Height != 0 {
			video = append(video, s)
		} else {
			audio = append(audio, s)
		}
	}

	if len(audio) > 0 && len(video) == 0 {
		return audio
	}
	return video
}

// baseProtocol is the scheme of the CDN URL when it is http or https.
func (p *Parser) baseProtocol() string {
	switch scheme := urlutil.Scheme(p.env.CDNURL); scheme {
	case "http", "https":
		return scheme
	default:
		return urlutil.DefaultScheme
	}
}

func (p *Parser) applyRegexAction(pc *PlaybackContext, playURL string) string {
	action, ok := pc.Action(actionRequestHostRegex)
	if !ok {
		return playURL
	}
	out, err := urlutil.ApplyHostRegex(playURL, action.Pattern, action.Replacement)
	if err != nil {
		p.log.WithError(err).Warn("ignoring request host regex", "pattern", action.Pattern)
	}
	return out
}
