// Package provider runs the call flow shared by every provider family: it
// validates the request, batches an optional anonymous session with the
// family's loader, sends the batch and turns the parsed entry into a player
// configuration. Families plug in through Strategy.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"media-provider-go/pkg/config"
	"media-provider-go/pkg/interfaces"
	"media-provider-go/pkg/loader"
	"media-provider-go/pkg/logging"
	"media-provider-go/pkg/media"
	"media-provider-go/pkg/request"
	"media-provider-go/pkg/types"
)

// sessionField is the field of the session response referenced by the
// placeholder handed to the core loader.
const sessionField = "vs"

// Strategy adapts Provider to one backend family.
type Strategy interface {
	// Name returns the family name.
	Name() string

	// NewMultiRequest returns an empty batch with the family's top-level
	// params. vs is empty when the session is not known yet.
	NewMultiRequest(vs string, partnerID int) *request.MultiRequest

	// NewSessionLoader returns the loader that opens an anonymous session.
	NewSessionLoader(partnerID int) interfaces.SessionLoader

	NewMediaLoader(info types.MediaInfo, vs string) interfaces.Loader
	NewEntryListLoader(info types.EntryListInfo, vs string) interfaces.Loader

	// ParseMediaEntry builds an entry from an absorbed media loader. It
	// returns a *types.BlockActionError when playback is denied.
	ParseMediaEntry(l interfaces.Loader, info types.MediaInfo, session types.Session) (*media.Entry, error)

	// ParseEntryList builds base entries from an absorbed entry list loader.
	ParseEntryList(l interfaces.Loader) ([]*media.Entry, error)
}

// Provider implements interfaces.MediaProvider on top of a Strategy.
type Provider struct {
	strategy Strategy
	opts     config.ProviderOptions
	client   interfaces.HTTPClient
	log      *logging.Logger

	mu        sync.RWMutex
	vs        string
	anonymous bool
}

// New creates a provider. opts.VS, when set, is used for every call that
// does not bring its own session.
func New(strategy Strategy, opts config.ProviderOptions, client interfaces.HTTPClient, log *logging.Logger) *Provider {
	return &Provider{
		strategy:  strategy,
		opts:      opts,
		client:    client,
		log:       log.WithProvider(strategy.Name()),
		vs:        opts.VS,
		anonymous: opts.VS == "",
	}
}

// Name returns the family name.
func (p *Provider) Name() string {
	return p.strategy.Name()
}

// Options returns the options the provider was created with.
func (p *Provider) Options() config.ProviderOptions {
	return p.opts
}

// Logger returns the provider logger.
func (p *Provider) Logger() *logging.Logger {
	return p.log
}

// GetMediaConfig resolves the player configuration of one entry.
func (p *Provider) GetMediaConfig(ctx context.Context, info types.MediaInfo) (*types.ProviderMediaConfig, error) {
	if info.EntryID == "" {
		return nil, fmt.Errorf("entryId: %w", types.ErrMissingMandatoryParameter)
	}

	l, session, err := p.Fetch(ctx, info.VS, func(vs string) interfaces.Loader {
		return p.strategy.NewMediaLoader(info, vs)
	})
	if err != nil {
		return nil, err
	}

	var entry *media.Entry
	err = p.Parse(func() (err error) {
		entry, err = p.strategy.ParseMediaEntry(l, info, session)
		return err
	})
	if err != nil {
		p.logParseFailure(info.EntryID, err)
		return nil, err
	}

	cfg := types.NewProviderMediaConfig(session)
	cfg.Sources.Apply(entry)
	p.log.Debug("media config resolved", "entry_id", entry.ID, "type", entry.Type, "sources", entry.Sources.Len())
	return cfg, nil
}

// GetEntryListConfig resolves base data for a list of entries.
func (p *Provider) GetEntryListConfig(ctx context.Context, info types.EntryListInfo) (*types.ProviderPlaylist, error) {
	if len(info.Entries) == 0 {
		return nil, fmt.Errorf("entries: %w", types.ErrMissingMandatoryParameter)
	}

	l, _, err := p.Fetch(ctx, info.VS, func(vs string) interfaces.Loader {
		return p.strategy.NewEntryListLoader(info, vs)
	})
	if err != nil {
		return nil, err
	}

	var entries []*media.Entry
	err = p.Parse(func() (err error) {
		entries, err = p.strategy.ParseEntryList(l)
		return err
	})
	if err != nil {
		p.logParseFailure("", err)
		return nil, err
	}

	return types.NewProviderPlaylist("", types.PlaylistMetadata{}, "", entries), nil
}

// Fetch sends one batch holding the loader returned by build, preceded by a
// session loader when no session token is available. build receives the
// token, or a placeholder referencing the session response.
func (p *Provider) Fetch(ctx context.Context, callerVS string, build func(vs string) interfaces.Loader) (interfaces.Loader, types.Session, error) {
	vs, anonymous := p.session(callerVS)

	mgr := loader.NewManager(p.strategy.NewMultiRequest(vs, p.opts.PartnerID), p.client, p.opts.NetworkRetryParameters, p.log)

	coreVS := vs
	var sessionLoader interfaces.SessionLoader
	if vs == "" {
		sessionLoader = p.strategy.NewSessionLoader(p.opts.PartnerID)
		idx, err := mgr.Add(sessionLoader)
		if err != nil {
			return nil, types.Session{}, err
		}
		coreVS = request.PlaceholderRef{RequestIndex: idx, FieldPath: sessionField}.String()
		anonymous = true
	}

	core := build(coreVS)
	if _, err := mgr.Add(core); err != nil {
		return nil, types.Session{}, err
	}

	if _, err := mgr.FetchData(ctx); err != nil {
		return nil, types.Session{}, err
	}

	if sessionLoader != nil {
		vs = sessionLoader.Token()
		p.storeSession(vs, true)
	}

	return core, types.Session{
		IsAnonymous: anonymous,
		PartnerID:   p.opts.PartnerID,
		UIConfID:    p.opts.UIConfID,
		VS:          vs,
	}, nil
}

// Parse runs fn and normalizes its failure: block errors pass through, other
// errors and panics become *types.ParseError.
func (p *Provider) Parse(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &types.ParseError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := fn(); err != nil {
		var block *types.BlockActionError
		if errors.As(err, &block) {
			return err
		}
		return &types.ParseError{Err: err}
	}
	return nil
}

func (p *Provider) logParseFailure(entryID string, err error) {
	var block *types.BlockActionError
	if errors.As(err, &block) {
		p.log.Error("entry is blocked", "entry_id", entryID, "action", block.Action.Type, "messages", len(block.Messages))
		return
	}
	p.log.WithError(err).Error("failed to parse provider response", "entry_id", entryID)
}

// session returns the token to use for a call and whether it is anonymous. A
// caller token replaces the cached one.
func (p *Provider) session(callerVS string) (string, bool) {
	if callerVS != "" {
		p.storeSession(callerVS, false)
		return callerVS, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.vs, p.anonymous
}

func (p *Provider) storeSession(vs string, anonymous bool) {
	p.mu.Lock()
	p.vs = vs
	p.anonymous = anonymous
	p.mu.Unlock()
}
