// Package config resolves where the client talks to and how the CLI is set up.
//
// The backend environment is chosen at build time through Current; it is not
// switchable while the process runs. Everything else (log level, store backend,
// Sentry) comes from FOODAPP_* environment variables, see Load.
package config

import (
	"time"

	"github.com/eshaffer321/foodapp-go/internal/types"
)

// Environment names a backend deployment
type Environment string

const (
	Development Environment = "DEV"
	Staging     Environment = "STAGING"
	Production  Environment = "PROD"
)

// Current is the environment this build talks to
const Current = Development

// Transport is the static transport setup of one environment
type Transport struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

var environments = map[Environment]Transport{
	Development: {
		BaseURL: "http://localhost:8000/api",
		Timeout: types.DefaultTimeout,
	},
	Staging: {
		BaseURL: "https://staging-api.foodapp.dev/api",
		Timeout: types.DefaultTimeout,
	},
	Production: {
		BaseURL: "https://api.foodapp.dev/api",
		Timeout: types.DefaultTimeout,
	},
}

// DefaultHeaders are sent on every request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   types.UserAgent,
	}
}

// For returns the transport setup of env, falling back to Development for
// unknown names
func For(env Environment) Transport {
	t, ok := environments[env]
	if !ok {
		t = environments[Development]
	}
	t.Headers = DefaultHeaders()
	return t
}

// GetAPIURL returns the base URL of the current environment
func GetAPIURL() string {
	return For(Current).BaseURL
}
