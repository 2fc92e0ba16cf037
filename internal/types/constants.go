package types

import (
	"errors"
	"time"
)

const (
	// DefaultTimeout is the per-attempt HTTP timeout
	DefaultTimeout = 10 * time.Second

	// UserAgent is the user agent string
	UserAgent = "foodapp-go/1.0.0"

	// AuthTokenKey is the store key holding the bearer token
	AuthTokenKey = "auth_token"

	// UserDataKey is the store key holding the logged-in user as JSON
	UserDataKey = "user_data"

	// CartKey is the store key holding the local cart
	CartKey = "cart"
)

// Cold-start retry policy for POST requests
const (
	DefaultMaxRetries = 3
	DefaultRetryWait  = 3 * time.Second
)

// Common errors
var (
	// ErrNotAuthenticated is returned when no credentials are stored
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound is returned by stores when a key is absent
	ErrNotFound = errors.New("key not found")
)
