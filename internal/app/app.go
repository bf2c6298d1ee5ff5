// Package app provides the main application setup and dependency injection.
package app

import (
	"context"
	"fmt"

	"media-provider-go/pkg/appctx"
	"media-provider-go/pkg/config"
	"media-provider-go/pkg/handlers/api"
	"media-provider-go/pkg/httpclient"
	"media-provider-go/pkg/logging"
	"media-provider-go/pkg/provider/ott"
	"media-provider-go/pkg/provider/ovp"
	"media-provider-go/pkg/registry"
	"media-provider-go/pkg/server"
)

// App is the main application container.
type App struct {
	Ctx        *appctx.Context
	Server     *server.Server
	HTTPClient *httpclient.Client
	OVP        *ovp.Provider
	OTT        *ott.Provider
}

// Options override the loaded configuration.
type Options struct {
	ConfigPath string
	// LogLevel replaces the configured level when set.
	LogLevel string
}

// New loads the configuration and wires the providers, the HTTP client and
// the API server.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logging.New(cfg.LogLevel, cfg.LogJSON, nil)
	log.Info("initializing media provider", "port", cfg.Port, "log_level", cfg.LogLevel)

	ctx := appctx.New(cfg, log)

	httpClient := httpclient.New(cfg, log)

	providers := registry.NewProviderRegistry()
	ovpProvider, ottProvider := registerProviders(providers, cfg, httpClient, ctx.Formats, log)
	ctx.WithProviders(providers)

	srv := server.New(cfg, log)

	handlers := api.NewHandlers(ctx)
	handlers.RegisterRoutes(srv.Router())

	return &App{
		Ctx:        ctx,
		Server:     srv,
		HTTPClient: httpClient,
		OVP:        ovpProvider,
		OTT:        ottProvider,
	}, nil
}

// Run serves the API until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.Ctx.Log.Info("starting media provider server", "port", a.Ctx.Config.Port, "providers", a.Ctx.Providers.Names())
	return a.Server.Start(ctx)
}

// registerProviders creates one provider per family.
// Add a new family here by:
// 1. Creating a package under pkg/provider/ with a provider.Strategy
// 2. Registering its provider below
func registerProviders(
	reg *registry.ProviderRegistry,
	cfg *config.Config,
	client *httpclient.Client,
	formats *registry.FormatRegistry,
	log *logging.Logger,
) (*ovp.Provider, *ott.Provider) {
	ovpProvider := ovp.New(cfg.OVP, cfg.PlayerVersion, client, formats, log)
	reg.Register(ovpProvider)

	ottProvider := ott.New(cfg.OTT, client, formats, log)
	reg.Register(ottProvider)

	for _, p := range []struct {
		name string
		opts config.ProviderOptions
	}{{ovp.Name, cfg.OVP}, {ott.Name, cfg.OTT}} {
		if p.opts.PartnerID == 0 {
			log.Warn("provider has no partner id, anonymous sessions will fail", "provider", p.name)
		}
	}

	log.Info("registered providers", "count", len(reg.All()))
	return ovpProvider, ottProvider
}
