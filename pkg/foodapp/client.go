package foodapp

import (
	"context"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/eshaffer321/foodapp-go/internal/auth"
	"github.com/eshaffer321/foodapp-go/internal/config"
	"github.com/eshaffer321/foodapp-go/internal/metrics"
	"github.com/eshaffer321/foodapp-go/internal/storage"
	"github.com/eshaffer321/foodapp-go/internal/transport"
	internalTypes "github.com/eshaffer321/foodapp-go/internal/types"
	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTimeout is the per-attempt HTTP timeout
	DefaultTimeout = internalTypes.DefaultTimeout

	// UserAgent is the user agent string
	UserAgent = internalTypes.UserAgent
)

type (
	// Logger interface for logging
	Logger = internalTypes.Logger

	// RetryConfig configures the POST cold-start retry
	RetryConfig = internalTypes.RetryConfig

	// Hooks provides lifecycle hooks for requests
	Hooks = internalTypes.Hooks

	// Store is the key-value store credentials and the cart live in
	Store = storage.Store

	// CredentialProvider supplies the bearer token for outgoing requests
	CredentialProvider = transport.CredentialProvider
)

// Client is the food ordering API client
type Client struct {
	// Service interfaces
	Auth          AuthService
	Users         UserService
	Meals         MealService
	Restaurants   RestaurantService
	Orders        OrderService
	Notifications NotificationService
	Cart          CartService

	// Internal fields
	baseURL     string
	transport   Transport
	store       Store
	credentials CredentialProvider
	sessions    *auth.Store
	options     *ClientOptions
	validate    *validator.Validate
	metrics     *metrics.RequestMetrics
	deviceID    string

	// closers are released by Close; only stores the client opened itself
	closers []io.Closer
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the URL of the current environment
	BaseURL string

	// HTTPClient allows using a custom HTTP client. It is not modified.
	HTTPClient *http.Client

	// Timeout sets the per-attempt timeout
	Timeout time.Duration

	// Store holds credentials and the cart. Defaults to an in-memory store.
	Store Store

	// Credentials overrides where the bearer token is read from and purged.
	// Defaults to the auth_token/user_data keys of Store.
	Credentials CredentialProvider

	// Logger for debug logging
	Logger Logger

	// RetryConfig configures the POST cold-start retry. Defaults to 3 retries
	// 3 seconds apart.
	RetryConfig *RetryConfig

	// Hooks for observability
	Hooks *Hooks

	// MetricsRegisterer registers client metrics when set
	MetricsRegisterer prometheus.Registerer

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Transport sends requests to the backend
type Transport interface {
	Do(ctx context.Context, method, path string, body interface{}) (*transport.Response, error)
	DoWithColdStartRetry(ctx context.Context, method, path string, body interface{}) (*transport.Response, error)
}

// NewClient creates a new client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	initSentry(opts)

	if opts.BaseURL == "" {
		opts.BaseURL = config.GetAPIURL()
	}

	env := config.For(config.Current)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: env.Timeout}
	}
	if opts.Timeout > 0 {
		copied := *httpClient
		copied.Timeout = opts.Timeout
		httpClient = &copied
	}

	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}

	sessions := auth.NewStore(opts.Store, opts.Logger)

	var credentials CredentialProvider = sessions
	if opts.Credentials != nil {
		credentials = opts.Credentials
	}

	deviceID := uuid.NewString()
	headers := env.Headers
	headers["device-uuid"] = deviceID

	requestMetrics := metrics.NewRequestMetrics(opts.MetricsRegisterer)

	trans := transport.NewRESTTransport(&transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  httpClient,
		Headers:     headers,
		Credentials: credentials,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
		Hooks:       opts.Hooks,
		Metrics:     requestMetrics,
	})

	c := &Client{
		baseURL:     opts.BaseURL,
		transport:   trans,
		store:       opts.Store,
		credentials: credentials,
		sessions:    sessions,
		options:     opts,
		validate:    newValidator(),
		metrics:     requestMetrics,
		deviceID:    deviceID,
	}

	c.initServices()

	return c, nil
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Auth = &authService{client: c}
	c.Users = &userService{client: c}
	c.Meals = &mealService{client: c}
	c.Restaurants = &restaurantService{client: c}
	c.Orders = &orderService{client: c}
	c.Notifications = &notificationService{client: c}
	c.Cart = &cartService{client: c}
}

// BaseURL returns the URL requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DeviceID returns the device-uuid header value of this client
func (c *Client) DeviceID() string {
	return c.deviceID
}

// Close flushes any pending Sentry events and performs cleanup
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)

	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && c.logger() != nil {
			c.logger().Warn("Failed to close store", "error", err)
		}
	}
	c.closers = nil
}

func (c *Client) logger() Logger {
	if c.options == nil {
		return nil
	}
	return c.options.Logger
}

// validateParams checks params against their validate tags
func (c *Client) validateParams(params interface{}) error {
	if c.validate == nil {
		c.validate = newValidator()
	}
	return c.validate.Struct(params)
}

func initSentry(opts *ClientOptions) {
	if opts.SentryDSN == "" && opts.SentryOptions == nil {
		return
	}

	sentryOpts := sentry.ClientOptions{}
	if opts.SentryOptions != nil {
		sentryOpts = *opts.SentryOptions
	}
	if opts.SentryDSN != "" {
		sentryOpts.Dsn = opts.SentryDSN
	}
	if sentryOpts.Environment == "" {
		sentryOpts.Environment = string(config.Current)
	}

	// a broken DSN must not stop the client from working
	if err := sentry.Init(sentryOpts); err != nil && opts.Logger != nil {
		opts.Logger.Error("Failed to initialize Sentry", "error", err)
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// validate decimals as numbers, so "gt=0" works on prices
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}
