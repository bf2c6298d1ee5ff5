// Package ott implements the subscriber (OTT) provider family: assets,
// their playback contexts and user bookmarks.
package ott

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"media-provider-go/pkg/config"
	"media-provider-go/pkg/interfaces"
	"media-provider-go/pkg/logging"
	"media-provider-go/pkg/media"
	"media-provider-go/pkg/provider"
	"media-provider-go/pkg/registry"
	"media-provider-go/pkg/request"
	"media-provider-go/pkg/types"

	"github.com/samber/lo"
)

// Name is the family name.
const Name = "ott"

// withDefaults fills the asset type, context type and reference type a
// caller left out.
func withDefaults(info types.MediaInfo) types.MediaInfo {
	info.MediaType = lo.CoalesceOrEmpty(info.MediaType, AssetTypeMedia)
	info.ContextType = lo.CoalesceOrEmpty(info.ContextType, ContextPlayback)
	info.AssetReferenceType = lo.CoalesceOrEmpty(info.AssetReferenceType, AssetReferenceTypeMedia)
	return info
}

// Strategy plugs the OTT family into provider.Provider.
type Strategy struct {
	env    config.EnvConfig
	parser *Parser
}

// NewStrategy merges env over the OTT defaults.
func NewStrategy(env config.EnvConfig, formats *registry.FormatRegistry, log *logging.Logger) *Strategy {
	return &Strategy{
		env:    config.DefaultOTTEnv().Merge(env),
		parser: NewParser(formats, log),
	}
}

func (s *Strategy) Name() string { return Name }

func (s *Strategy) NewMultiRequest(vs string, partnerID int) *request.MultiRequest {
	params := maps.Clone(s.env.ServiceParams)
	if vs != "" {
		params["vs"] = vs
	}
	if partnerID != 0 {
		params["partnerId"] = partnerID
	}
	return request.NewMultiRequest(s.env.ServiceURL, params)
}

func (s *Strategy) NewSessionLoader(partnerID int) interfaces.SessionLoader {
	return newSessionLoader(s.env.ServiceURL, partnerID)
}

func (s *Strategy) NewMediaLoader(info types.MediaInfo, vs string) interfaces.Loader {
	info = withDefaults(info)
	return newAssetLoader(s.env.ServiceURL, vs, assetParams{
		assetID:            info.EntryID,
		assetType:          info.MediaType,
		assetReferenceType: info.AssetReferenceType,
		playback: PlaybackContextOptions{
			MediaProtocol: info.Protocol,
			AssetFileIDs:  info.FileIDs,
			Context:       info.ContextType,
		},
	})
}

func (s *Strategy) NewEntryListLoader(info types.EntryListInfo, vs string) interfaces.Loader {
	return newAssetListLoader(s.env.ServiceURL, vs, info.Entries)
}

func (s *Strategy) ParseMediaEntry(l interfaces.Loader, info types.MediaInfo, _ types.Session) (*media.Entry, error) {
	al, ok := l.(*AssetLoader)
	if !ok {
		return nil, fmt.Errorf("unexpected loader %q", l.ID())
	}
	info = withDefaults(info)
	return s.parser.MediaEntry(al, Request{
		AssetType:   info.MediaType,
		ContextType: info.ContextType,
		Formats:     info.Formats,
	})
}

func (s *Strategy) ParseEntryList(l interfaces.Loader) ([]*media.Entry, error) {
	al, ok := l.(*AssetListLoader)
	if !ok {
		return nil, fmt.Errorf("unexpected loader %q", l.ID())
	}
	return s.parser.BaseEntries(al.Assets), nil
}

// Provider is the OTT provider. On top of media and entry list configs it
// reports bookmarks.
type Provider struct {
	*provider.Provider
	strategy *Strategy
}

// New creates an OTT provider.
func New(opts config.ProviderOptions, client interfaces.HTTPClient, formats *registry.FormatRegistry, log *logging.Logger) *Provider {
	log = log.WithLevel(opts.LogLevel)
	strategy := NewStrategy(opts.Env, formats, log)
	return &Provider{
		Provider: provider.New(strategy, opts, client, log),
		strategy: strategy,
	}
}

// ErrBookmarkRejected is returned when the backend does not accept a
// bookmark.
var ErrBookmarkRejected = errors.New("bookmark rejected")

// AddBookmark reports a playback position. vs is the user session; an
// anonymous session is opened when it is empty and none is cached.
func (p *Provider) AddBookmark(ctx context.Context, vs string, b Bookmark) error {
	if b.ID == "" || b.Type == "" {
		return fmt.Errorf("bookmark id and type: %w", types.ErrMissingMandatoryParameter)
	}

	l, _, err := p.Fetch(ctx, vs, func(vs string) interfaces.Loader {
		return newBookmarkLoader(p.strategy.env.ServiceURL, vs, b)
	})
	if err != nil {
		return err
	}
	bl, ok := l.(*BookmarkLoader)
	if !ok {
		return errors.New("unexpected bookmark loader")
	}
	if !bl.Accepted {
		return fmt.Errorf("%s %s: %w", b.Type, b.ID, ErrBookmarkRejected)
	}
	p.Logger().Debug("bookmark added", "asset_id", b.ID, "position", b.Position, "action", b.PlayerData.Action)
	return nil
}
