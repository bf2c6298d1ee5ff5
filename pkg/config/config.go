// Package config handles application and provider configuration. Values are
// read from an optional YAML file and then overridden by environment
// variables prefixed with MEDIA_PROVIDER_.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "MEDIA_PROVIDER"

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port         int           `yaml:"port" envconfig:"PORT"`
	BaseURL      string        `yaml:"baseUrl" envconfig:"BASE_URL"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `yaml:"idleTimeout" envconfig:"IDLE_TIMEOUT"`

	// Authentication
	APIKey string `yaml:"apiKey" envconfig:"API_KEY"`

	// Transport settings
	GlobalProxies    []string        `yaml:"globalProxies" envconfig:"GLOBAL_PROXIES"`
	TransportRoutes  TransportRoutes `yaml:"transportRoutes" envconfig:"TRANSPORT_ROUTES"`
	FingerprintHosts []string        `yaml:"fingerprintHosts" envconfig:"FINGERPRINT_HOSTS"`
	RequestTimeout   time.Duration   `yaml:"requestTimeout" envconfig:"REQUEST_TIMEOUT"`
	RateLimit        int             `yaml:"rateLimit" envconfig:"RATE_LIMIT"` // requests per second, 0 = unlimited

	// Logging
	LogLevel string `yaml:"logLevel" envconfig:"LOG_LEVEL"`
	LogJSON  bool   `yaml:"logJson" envconfig:"LOG_JSON"`

	// Providers
	PlayerVersion string          `yaml:"playerVersion" envconfig:"PLAYER_VERSION"`
	OVP           ProviderOptions `yaml:"ovp" envconfig:"OVP"`
	OTT           ProviderOptions `yaml:"ott" envconfig:"OTT"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:           7860,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
		PlayerVersion:  "1.0.0",
		OVP: ProviderOptions{
			Env:                    DefaultOVPEnv(),
			NetworkRetryParameters: DefaultNetworkRetryParameters(),
		},
		OTT: ProviderOptions{
			Env:                    DefaultOTTEnv(),
			NetworkRetryParameters: DefaultNetworkRetryParameters(),
		},
	}
}

// Load reads configuration from the YAML file at path (skipped when path is
// empty or the file does not exist) and then from the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d (%s_PORT)", c.Port, EnvPrefix)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q (%s_LOG_LEVEL)", c.LogLevel, EnvPrefix)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit %d (%s_RATE_LIMIT)", c.RateLimit, EnvPrefix)
	}
	return nil
}

// TransportRoute defines URL-specific proxy routing.
type TransportRoute struct {
	URLPattern string `yaml:"url"`
	Proxy      string `yaml:"proxy"`
	DisableSSL bool   `yaml:"disableSsl"`
	Direct     bool   `yaml:"direct"` // If true, bypass global proxy and connect directly
}

// TransportRoutes is a list of routes. In the environment it is written as
// {URL=pattern, PROXY=url, DISABLE_SSL=true}, {URL=pattern2, DIRECT=true}
type TransportRoutes []TransportRoute

// Decode implements envconfig.Decoder.
func (r *TransportRoutes) Decode(value string) error {
	*r = parseTransportRoutes(value)
	return nil
}

func parseTransportRoutes(s string) TransportRoutes {
	if s == "" {
		return nil
	}

	var routes TransportRoutes
	s = strings.TrimSpace(s)

	// Split by "}, {" pattern
	parts := strings.Split(s, "}, {")
	for _, part := range parts {
		part = strings.Trim(part, "{} ")
		if part == "" {
			continue
		}

		route := TransportRoute{}
		for _, field := range strings.Split(part, ", ") {
			kv := strings.SplitN(field, "=", 2)
			if len(kv) != 2 {
				continue
			}
			value := strings.TrimSpace(kv[1])

			switch strings.ToUpper(strings.TrimSpace(kv[0])) {
			case "URL":
				route.URLPattern = value
			case "PROXY":
				route.Proxy = value
			case "DISABLE_SSL":
				route.DisableSSL = strings.ToLower(value) == "true"
			case "DIRECT":
				route.Direct = strings.ToLower(value) == "true"
			}
		}
		if route.URLPattern != "" {
			routes = append(routes, route)
		}
	}

	return routes
}
