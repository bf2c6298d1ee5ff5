package config

import (
	"maps"
	"time"
)

// Default backend locations.
const (
	DefaultOVPServiceURL = "https://cdnapisec.vidiun.com/api_v3"
	DefaultOVPCDNURL     = "https://cdnapisec.vidiun.com"
	DefaultOTTServiceURL = "https://api-preprod.ott.vidiun.com/v4_7/api_v3"
)

// ProviderOptions configures one provider instance.
type ProviderOptions struct {
	PartnerID              int                    `yaml:"partnerId" envconfig:"PARTNER_ID"`
	WidgetID               string                 `yaml:"widgetId" envconfig:"WIDGET_ID"`
	LogLevel               string                 `yaml:"logLevel" envconfig:"LOG_LEVEL"`
	VS                     string                 `yaml:"vs" envconfig:"VS"`
	UIConfID               *int                   `yaml:"uiConfId" envconfig:"UI_CONF_ID"`
	Env                    EnvConfig              `yaml:"env" envconfig:"ENV"`
	NetworkRetryParameters NetworkRetryParameters `yaml:"networkRetryParameters" envconfig:"RETRY"`
	FilterOptions          FilterOptions          `yaml:"filterOptions" envconfig:"FILTER"`
}

// EnvConfig locates the backend.
type EnvConfig struct {
	ServiceURL     string         `yaml:"serviceUrl" envconfig:"SERVICE_URL"`
	CDNURL         string         `yaml:"cdnUrl" envconfig:"CDN_URL"`
	ServiceParams  map[string]any `yaml:"serviceParams" ignored:"true"`
	UseAPICaptions *bool          `yaml:"useApiCaptions" envconfig:"USE_API_CAPTIONS"`
}

// DefaultOVPEnv returns the OVP backend defaults.
func DefaultOVPEnv() EnvConfig {
	captions := true
	return EnvConfig{
		ServiceURL:     DefaultOVPServiceURL,
		CDNURL:         DefaultOVPCDNURL,
		ServiceParams:  map[string]any{"apiVersion": "3.3.0", "format": 1},
		UseAPICaptions: &captions,
	}
}

// DefaultOTTEnv returns the OTT backend defaults.
func DefaultOTTEnv() EnvConfig {
	return EnvConfig{
		ServiceURL:    DefaultOTTServiceURL,
		ServiceParams: map[string]any{"apiVersion": "5.2.0"},
	}
}

// Merge returns a copy of e with the set fields of override applied. Service
// params are merged key by key. Neither input is modified.
func (e EnvConfig) Merge(override EnvConfig) EnvConfig {
	out := e
	out.ServiceParams = maps.Clone(e.ServiceParams)
	if out.ServiceParams == nil {
		out.ServiceParams = make(map[string]any)
	}

	if override.ServiceURL != "" {
		out.ServiceURL = override.ServiceURL
	}
	if override.CDNURL != "" {
		out.CDNURL = override.CDNURL
	}
	if override.UseAPICaptions != nil {
		v := *override.UseAPICaptions
		out.UseAPICaptions = &v
	}
	maps.Copy(out.ServiceParams, override.ServiceParams)
	return out
}

// CaptionsEnabled reports whether captions from the playback context are used.
func (e EnvConfig) CaptionsEnabled() bool {
	return e.UseAPICaptions != nil && *e.UseAPICaptions
}

// NetworkRetryParameters is handed to the transport unchanged.
type NetworkRetryParameters struct {
	MaxAttempts int           `yaml:"maxAttempts" envconfig:"MAX_ATTEMPTS"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"TIMEOUT"` // per attempt, 0 = client default
}

// DefaultNetworkRetryParameters returns four attempts without a per-attempt
// timeout.
func DefaultNetworkRetryParameters() NetworkRetryParameters {
	return NetworkRetryParameters{MaxAttempts: 4}
}

// FilterOptions tunes how entries are looked up.
type FilterOptions struct {
	// RedirectFromEntryID resolves entries through their redirect target.
	// Unset means true.
	RedirectFromEntryID *bool `yaml:"redirectFromEntryId" envconfig:"REDIRECT_FROM_ENTRY_ID"`
}

// RedirectEnabled reports whether entry lookups follow redirects.
func (f FilterOptions) RedirectEnabled() bool {
	return f.RedirectFromEntryID == nil || *f.RedirectFromEntryID
}
