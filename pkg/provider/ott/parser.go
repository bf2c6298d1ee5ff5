package ott

import (
	"regexp"

	"media-provider-go/pkg/logging"
	"media-provider-go/pkg/media"
	"media-provider-go/pkg/provider"
	"media-provider-go/pkg/registry"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// thumbnailPattern matches pictures served by the thumbnail service, which
// are resized by the player and need no candidate list.
var thumbnailPattern = regexp.MustCompile(`.*/thumbnail/.*(?:width|height)/\d+/(?:height|width)/\d+`)

// typeData is the resolved type of an asset and, for live assets, its DVR
// status.
type typeData struct {
	typ       media.Type
	dvrStatus mo.Option[int]
}

var (
	vod          = func(Asset) typeData { return typeData{typ: media.TypeVOD} }
	mediaTypeMap = map[string]map[string]func(Asset) typeData{
		AssetTypeMedia: {
			ContextTrailer: vod,
			ContextPlayback: func(a Asset) typeData {
				if a.ExternalIDs.Int() > 0 || a.ObjectType == liveAssetObjectType {
					return typeData{typ: media.TypeLive, dvrStatus: mo.Some(0)}
				}
				return typeData{typ: media.TypeVOD}
			},
		},
		AssetTypeEPG: {
			ContextCatchup:   vod,
			ContextStartOver: func(Asset) typeData { return typeData{typ: media.TypeLive, dvrStatus: mo.Some(1)} },
		},
		AssetTypeRecording: {
			ContextPlayback: vod,
		},
	}
)

func resolveType(a Asset, assetType, contextType string) typeData {
	if fn, ok := mediaTypeMap[assetType][contextType]; ok {
		return fn(a)
	}
	return typeData{typ: media.TypeUnknown}
}

// Parser turns OTT loader responses into media entries.
type Parser struct {
	formats *registry.FormatRegistry
	log     *logging.Logger
}

// NewParser creates an OTT parser.
func NewParser(formats *registry.FormatRegistry, log *logging.Logger) *Parser {
	return &Parser{formats: formats, log: log.WithComponent("ott-parser")}
}

// Request carries the resolved request fields the parser depends on.
type Request struct {
	AssetType   string
	ContextType string
	Formats     []string
}

// MediaEntry builds the full entry of an asset loader.
func (p *Parser) MediaEntry(l *AssetLoader, req Request) (*media.Entry, error) {
	if err := l.PlaybackContext.BlockError(actionBlock); err != nil {
		return nil, err
	}

	entry := p.baseEntry(l.Asset)

	all := l.PlaybackContext.Sources
	filtered := all
	if len(req.Formats) > 0 {
		filtered = lo.Filter(all, func(s PlaybackSource, _ int) bool {
			return lo.Contains(req.Formats, s.Type)
		})
	}
	entry.Sources = p.sources(filtered)

	td := resolveType(l.Asset, req.AssetType, req.ContextType)
	entry.Type = td.typ
	entry.DvrStatus = td.dvrStatus
	entry.Duration = lo.Max(lo.Map(all, func(s PlaybackSource, _ int) float64 { return s.Duration }))
	return entry, nil
}

// BaseEntries builds entries without sources, as used in lists.
func (p *Parser) BaseEntries(assets []Asset) []*media.Entry {
	return lo.Map(assets, func(a Asset, _ int) *media.Entry {
		return p.baseEntry(a)
	})
}

func (p *Parser) baseEntry(a Asset) *media.Entry {
	entry := media.NewEntry()
	entry.ID = a.ID.String()
	entry.Poster = poster(a.AllPictures())
	entry.Metadata = media.Metadata{
		"metas":       a.Metas.Map(),
		"tags":        a.Tags.Map(),
		"name":        a.Name,
		"description": a.Description,
	}
	return entry
}

// poster returns the first picture when it is a thumbnail service URL,
// otherwise every picture as a sized candidate.
func poster(pictures []Picture) media.Poster {
	if len(pictures) == 0 {
		return media.Poster{}
	}
	if thumbnailPattern.MatchString(pictures[0].URL) {
		return media.PosterURL(pictures[0].URL)
	}
	return media.Poster{Candidates: lo.Map(pictures, func(pic Picture, _ int) media.PosterCandidate {
		return media.PosterCandidate{URL: pic.URL, Width: pic.Width, Height: pic.Height}
	})}
}

// sources maps adaptive sources first and progressive ones after, keeping
// the backend URLs as given.
func (p *Parser) sources(list []PlaybackSource) *media.Sources {
	sources := media.NewSources()
	adaptive, progressive := lo.FilterReject(list, func(s PlaybackSource, _ int) bool {
		return !p.formats.IsProgressive(s.Format)
	})
	for _, src := range append(adaptive, progressive...) {
		format, ok := p.formats.Classify(src.Format)
		if !ok {
			p.log.Debug("skipping source with unsupported format", "file_id", src.FileID.String(), "format", src.Format)
			continue
		}
		if src.URL == "" {
			p.log.Warn("failed to create play url from source, discarding source",
				"file_id", src.FileID.String(), "format", src.Format)
			continue
		}
		sources.Map(media.Source{
			ID:       src.FileID.String() + "," + src.Format,
			URL:      src.URL,
			Mimetype: format.Mimetype,
			DrmData:  provider.DrmData(src.Drm, p.log),
		}, format)
	}
	return sources
}
