package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every variable read by Load
const EnvPrefix = "FOODAPP"

// Store drivers
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Settings are the runtime knobs read from the environment
type Settings struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// BaseURL overrides GetAPIURL, mainly for pointing tools at a local mock
	BaseURL string `envconfig:"BASE_URL"`

	StoreSettings

	SentryDSN         string `envconfig:"SENTRY_DSN"`
	SentryEnvironment string `envconfig:"SENTRY_ENVIRONMENT" default:"development"`
}

// StoreSettings select the key-value backend. Embedded so its variables
// keep the plain FOODAPP_ prefix.
type StoreSettings struct {
	Driver    string `envconfig:"STORE_DRIVER" default:"sqlite"`
	Path      string `envconfig:"STORE_PATH" default:"foodapp.db"`
	RedisURL  string `envconfig:"REDIS_URL"`
	Namespace string `envconfig:"STORE_NAMESPACE" default:"default"`
}

// Load reads Settings from the environment
func Load() (*Settings, error) {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := s.StoreSettings.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// APIURL returns the override when set, else the current environment's URL
func (s *Settings) APIURL() string {
	if s.BaseURL != "" {
		return strings.TrimRight(s.BaseURL, "/")
	}
	return GetAPIURL()
}

func (s StoreSettings) validate() error {
	switch strings.ToLower(s.Driver) {
	case StoreMemory, StoreSQLite:
		return nil
	case StoreRedis:
		if s.RedisURL == "" {
			return fmt.Errorf("store driver %q requires %s_REDIS_URL", s.Driver, EnvPrefix)
		}
		return nil
	default:
		return fmt.Errorf("unknown store driver %q", s.Driver)
	}
}
