// Package appctx provides the application context that holds all runtime dependencies.
package appctx

import (
	"media-provider-go/pkg/config"
	"media-provider-go/pkg/logging"
	"media-provider-go/pkg/registry"
)

// Context holds all application runtime dependencies.
// Pass this single struct to components instead of individual parameters.
type Context struct {
	Config    *config.Config
	Log       *logging.Logger
	Providers *registry.ProviderRegistry
	Formats   *registry.FormatRegistry
	BaseURL   string
}

// New creates a new application context with empty registries.
func New(cfg *config.Config, log *logging.Logger) *Context {
	return &Context{
		Config:    cfg,
		Log:       log,
		Providers: registry.NewProviderRegistry(),
		Formats:   registry.NewDefaultFormatRegistry(),
		BaseURL:   cfg.BaseURL,
	}
}

// WithProviders replaces the provider registry.
func (c *Context) WithProviders(r *registry.ProviderRegistry) *Context {
	c.Providers = r
	return c
}
