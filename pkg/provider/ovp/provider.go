// Package ovp implements the catalog (OVP) provider family: entries,
// flavors and playManifest URLs.
package ovp

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
const Name = "ovp"

// Strategy plugs the OVP family into provider.Provider.
type Strategy struct {
	env       config.EnvConfig
	opts      config.ProviderOptions
	clientTag string
	parser    *Parser
}

// NewStrategy merges opts.Env over the OVP defaults.
func NewStrategy(opts config.ProviderOptions, playerVersion string, formats *registry.FormatRegistry, log *logging.Logger) *Strategy {
	env := config.DefaultOVPEnv().Merge(opts.Env)
	return &Strategy{
		env:       env,
		opts:      opts,
		clientTag: "html5:v" + playerVersion,
		parser:    NewParser(env, formats, log),
	}
}

func (s *Strategy) Name() string { return Name }

func (s *Strategy) NewMultiRequest(vs string, partnerID int) *request.MultiRequest {
	params := maps.Clone(s.env.ServiceParams)
	params["clientTag"] = s.clientTag
	if partnerID != 0 {
		params["partnerId"] = partnerID
	}
	if vs != "" {
		params["vs"] = vs
	}
	return request.NewMultiRequest(s.env.ServiceURL, params)
}

func (s *Strategy) NewSessionLoader(partnerID int) interfaces.SessionLoader {
	widgetID := s.opts.WidgetID
	if widgetID == "" {
		widgetID = defaultWidgetID(partnerID)
	}
	return newSessionLoader(s.env.ServiceURL, widgetID)
}

func (s *Strategy) NewMediaLoader(info types.MediaInfo, vs string) interfaces.Loader {
	return newMediaEntryLoader(s.env.ServiceURL, info.EntryID, vs, s.opts.FilterOptions.RedirectEnabled())
}

func (s *Strategy) NewEntryListLoader(info types.EntryListInfo, vs string) interfaces.Loader {
	ids := lo.Map(info.Entries, func(e types.EntryRef, _ int) string { return e.EntryID })
	return newEntryListLoader(s.env.ServiceURL, ids, vs, s.opts.FilterOptions.RedirectEnabled())
}

func (s *Strategy) ParseMediaEntry(l interfaces.Loader, _ types.MediaInfo, session types.Session) (*media.Entry, error) {
	ml, ok := l.(*MediaEntryLoader)
	if !ok {
		return nil, fmt.Errorf("unexpected loader %q", l.ID())
	}
	return s.parser.MediaEntry(ml, session)
}

func (s *Strategy) ParseEntryList(l interfaces.Loader) ([]*media.Entry, error) {
	el, ok := l.(*EntryListLoader)
	if !ok {
		return nil, fmt.Errorf("unexpected loader %q", l.ID())
	}
	return s.parser.BaseEntries(el.Entries)
}

// Provider is the OVP provider. On top of media and entry list configs it
// resolves backend playlists.
type Provider struct {
	*provider.Provider
	strategy *Strategy
}

// New creates an OVP provider.
func New(opts config.ProviderOptions, playerVersion string, client interfaces.HTTPClient, formats *registry.FormatRegistry, log *logging.Logger) *Provider {
	log = log.WithLevel(opts.LogLevel)
	strategy := NewStrategy(opts, playerVersion, formats, log)
	return &Provider{
		Provider: provider.New(strategy, opts, client, log),
		strategy: strategy,
	}
}

// GetPlaylistConfig resolves a playlist and the base data of its entries.
func (p *Provider) GetPlaylistConfig(ctx context.Context, info types.PlaylistInfo) (*types.ProviderPlaylist, error) {
	if info.PlaylistID == "" {
		return nil, fmt.Errorf("playlistId: %w", types.ErrMissingMandatoryParameter)
	}

	l, _, err := p.Fetch(ctx, info.VS, func(vs string) interfaces.Loader {
		return newPlaylistLoader(p.strategy.env.ServiceURL, info.PlaylistID, vs)
	})
	if err != nil {
		return nil, err
	}
	pl, ok := l.(*PlaylistLoader)
	if !ok {
		return nil, errors.New("unexpected playlist loader")
	}

	var entries []*media.Entry
	err = p.Parse(func() (err error) {
		entries, err = p.strategy.parser.BaseEntries(pl.Entries)
		return err
	})
	if err != nil {
		return nil, err
	}

	return types.NewProviderPlaylist(
		pl.Playlist.ID,
		types.PlaylistMetadata{Name: pl.Playlist.Name, Description: pl.Playlist.Description},
		pl.Playlist.ThumbnailURL,
		entries,
	), nil
}
