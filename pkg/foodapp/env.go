package foodapp

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/eshaffer321/foodapp-go/internal/config"
	"github.com/eshaffer321/foodapp-go/internal/logging"
	"github.com/eshaffer321/foodapp-go/internal/storage"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// NewClientFromEnv builds a client from FOODAPP_* variables, after loading
// an optional .env from the working directory. The client owns the store it
// opens; call Close when done.
func NewClientFromEnv(ctx context.Context) (*Client, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load .env")
	}

	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Options{
		ServiceName: "foodapp",
		Level:       logging.ParseLevel(settings.LogLevel),
		Format:      settings.LogFormat,
	})

	store, err := OpenStore(ctx, settings.StoreSettings)
	if err != nil {
		return nil, err
	}

	opts := &ClientOptions{
		BaseURL: settings.APIURL(),
		Store:   store,
		Logger:  logger,
	}
	if settings.SentryDSN != "" {
		opts.SentryDSN = settings.SentryDSN
		opts.SentryOptions = &sentry.ClientOptions{Environment: settings.SentryEnvironment}
	}

	client, err := NewClient(opts)
	if err != nil {
		if closer, ok := store.(io.Closer); ok {
			_ = closer.Close()
		}
		return nil, err
	}
	if closer, ok := store.(io.Closer); ok {
		client.closers = append(client.closers, closer)
	}
	return client, nil
}

// OpenStore opens the key-value backend named by s.Driver
func OpenStore(ctx context.Context, s config.StoreSettings) (Store, error) {
	switch strings.ToLower(s.Driver) {
	case config.StoreMemory:
		return storage.NewMemoryStore(), nil
	case config.StoreSQLite, "":
		store, err := storage.OpenSQLiteStore(ctx, s.Path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open sqlite store")
		}
		return store, nil
	case config.StoreRedis:
		store, err := storage.NewRedisStore(ctx, s.RedisURL, s.Namespace)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open redis store")
		}
		return store, nil
	default:
		return nil, errors.Errorf("unknown store driver %q", s.Driver)
	}
}

// NewMemoryStore returns a store that lives as long as the process
func NewMemoryStore() Store {
	return storage.NewMemoryStore()
}
