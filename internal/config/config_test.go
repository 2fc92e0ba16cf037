package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAPIURL_UsesCurrentEnvironment(t *testing.T) {
	assert.Equal(t, environments[Current].BaseURL, GetAPIURL())
}

func TestFor(t *testing.T) {
	prod := For(Production)
	assert.Equal(t, "https://api.foodapp.dev/api", prod.BaseURL)
	assert.Equal(t, 10*time.Second, prod.Timeout)
	assert.Equal(t, "application/json", prod.Headers["Content-Type"])
	assert.Equal(t, "application/json", prod.Headers["Accept"])

	unknown := For(Environment("QA"))
	assert.Equal(t, environments[Development].BaseURL, unknown.BaseURL)
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, StoreSQLite, s.Driver)
	assert.Equal(t, "foodapp.db", s.Path)
	assert.Equal(t, GetAPIURL(), s.APIURL())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("FOODAPP_LOG_LEVEL", "debug")
	t.Setenv("FOODAPP_BASE_URL", "http://127.0.0.1:9000/api/")
	t.Setenv("FOODAPP_STORE_DRIVER", "memory")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, StoreMemory, s.Driver)
	assert.Equal(t, "http://127.0.0.1:9000/api", s.APIURL())
}

func TestLoad_RedisRequiresURL(t *testing.T) {
	t.Setenv("FOODAPP_STORE_DRIVER", "redis")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOODAPP_REDIS_URL")
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("FOODAPP_STORE_DRIVER", "etcd")

	_, err := Load()
	assert.Error(t, err)
}
