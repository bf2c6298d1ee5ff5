package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseTransportRoutes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  TransportRoutes
	}{
		{name: "empty", input: "", want: nil},
		{
			name:  "single route",
			input: "{URL=api.example.com, PROXY=socks5://proxy:1080}",
			want:  TransportRoutes{{URLPattern: "api.example.com", Proxy: "socks5://proxy:1080"}},
		},
		{
			name:  "multiple routes",
			input: "{URL=cdn.example.com, DISABLE_SSL=true}, {URL=api.example.com, DIRECT=true}",
			want: TransportRoutes{
				{URLPattern: "cdn.example.com", DisableSSL: true},
				{URLPattern: "api.example.com", Direct: true},
			},
		},
		{
			name:  "route without url is skipped",
			input: "{PROXY=http://proxy:8080}",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTransportRoutes(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d routes, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("route %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 7860 {
		t.Errorf("Port = %d, want 7860", cfg.Port)
	}
	if cfg.BaseURL != "http://localhost:7860" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.OVP.Env.ServiceURL != DefaultOVPServiceURL || cfg.OVP.Env.CDNURL != DefaultOVPCDNURL {
		t.Errorf("OVP env = %+v", cfg.OVP.Env)
	}
	if !cfg.OVP.Env.CaptionsEnabled() {
		t.Error("OVP captions should default to enabled")
	}
	if cfg.OTT.Env.CaptionsEnabled() {
		t.Error("OTT captions should default to disabled")
	}
	if cfg.OVP.NetworkRetryParameters.MaxAttempts != 4 {
		t.Errorf("MaxAttempts = %d, want 4", cfg.OVP.NetworkRetryParameters.MaxAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
port: 9000
logLevel: debug
requestTimeout: 5s
transportRoutes:
  - url: api.example.com
    proxy: socks5://proxy:1080
ovp:
  partnerId: 1091
  uiConfId: 15215933
  env:
    cdnUrl: http://cdn.example.com
    serviceParams:
      apiVersion: "3.3.1"
ott:
  partnerId: 198
  networkRetryParameters:
    maxAttempts: 2
    timeout: 10s
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MEDIA_PROVIDER_LOG_LEVEL", "warn")
	t.Setenv("MEDIA_PROVIDER_OTT_PARTNER_ID", "3009")
	t.Setenv("MEDIA_PROVIDER_OVP_ENV_SERVICE_URL", "http://api.example.com/api_v3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, env should win", cfg.LogLevel)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if len(cfg.TransportRoutes) != 1 || cfg.TransportRoutes[0].Proxy != "socks5://proxy:1080" {
		t.Errorf("TransportRoutes = %+v", cfg.TransportRoutes)
	}
	if cfg.OVP.PartnerID != 1091 || cfg.OVP.UIConfID == nil || *cfg.OVP.UIConfID != 15215933 {
		t.Errorf("OVP = %+v", cfg.OVP)
	}
	if cfg.OVP.Env.CDNURL != "http://cdn.example.com" {
		t.Errorf("OVP cdn = %q", cfg.OVP.Env.CDNURL)
	}
	if cfg.OVP.Env.ServiceURL != "http://api.example.com/api_v3" {
		t.Errorf("OVP service url = %q", cfg.OVP.Env.ServiceURL)
	}
	if cfg.OTT.PartnerID != 3009 {
		t.Errorf("OTT partner = %d, env should win", cfg.OTT.PartnerID)
	}
	if cfg.OTT.NetworkRetryParameters.MaxAttempts != 2 || cfg.OTT.NetworkRetryParameters.Timeout != 10*time.Second {
		t.Errorf("OTT retry = %+v", cfg.OTT.NetworkRetryParameters)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Errorf("missing file should fall back to defaults, got %v", err)
	}
}

func TestEnvConfigMerge(t *testing.T) {
	base := DefaultOVPEnv()
	disabled := false
	merged := base.Merge(EnvConfig{
		CDNURL:         "http://cdn.example.com",
		ServiceParams:  map[string]any{"clientTag": "html5:v1"},
		UseAPICaptions: &disabled,
	})

	if merged.ServiceURL != DefaultOVPServiceURL {
		t.Errorf("ServiceURL = %q", merged.ServiceURL)
	}
	if merged.CDNURL != "http://cdn.example.com" {
		t.Errorf("CDNURL = %q", merged.CDNURL)
	}
	if merged.ServiceParams["apiVersion"] != "3.3.0" || merged.ServiceParams["clientTag"] != "html5:v1" {
		t.Errorf("ServiceParams = %v", merged.ServiceParams)
	}
	if merged.CaptionsEnabled() {
		t.Error("captions should be disabled by override")
	}
	if _, ok := base.ServiceParams["clientTag"]; ok {
		t.Error("Merge must not modify the receiver")
	}
	if !base.CaptionsEnabled() {
		t.Error("Merge must not modify the receiver captions flag")
	}
}

func TestFilterOptions(t *testing.T) {
	if !(FilterOptions{}).RedirectEnabled() {
		t.Error("unset redirect should default to enabled")
	}
	off := false
	if (FilterOptions{RedirectFromEntryID: &off}).RedirectEnabled() {
		t.Error("explicit false should disable redirect")
	}
}
