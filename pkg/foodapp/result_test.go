package foodapp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	internalTypes "github.com/eshaffer321/foodapp-go/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_RecoversFromColdStart(t *testing.T) {
	var attempts int32
	var mu sync.Mutex
	var bodies []string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(data))
		mu.Unlock()

		if atomic.AddInt32(&attempts, 1) <= 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"success","message":"Order placed","order":{"id":"o-1","status":"pending"}}`))
	})

	result := Post[OrderResponse](context.Background(), client, "/orders", map[string]string{"address": "1 Main St"})

	require.True(t, result.Success)
	assert.Equal(t, "Order placed", result.Message)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	require.NotNil(t, result.Data)
	assert.Equal(t, "o-1", result.Data.Order.ID)
	assert.Equal(t, OrderPending, result.Data.Order.Status)

	assert.Equal(t, int32(4), atomic.LoadInt32(&attempts))
	require.Len(t, bodies, 4)
	for _, body := range bodies {
		assert.JSONEq(t, `{"address":"1 Main St"}`, body)
	}
}

func TestPost_GivesUpAfterFourAttempts(t *testing.T) {
	var attempts int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	result := Post[OrderResponse](context.Background(), client, "/orders", map[string]string{})

	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Equal(t, StatusError, result.Status)
	assert.Equal(t, "HTTP 503: Service Unavailable", result.Message)
	assert.Equal(t, http.StatusServiceUnavailable, result.StatusCode)
	assert.Equal(t, int32(4), atomic.LoadInt32(&attempts))
}

func TestPost_ApplicationLevelFailure(t *testing.T) {
	var attempts int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		_, _ = w.Write([]byte(`{"status":"error","message":"Invalid input"}`))
	})

	result := Post[LoginResponse](context.Background(), client, "/auth/login", map[string]string{})

	assert.False(t, result.Success)
	assert.Equal(t, "Invalid input", result.Message)
	assert.Equal(t, StatusError, result.Status)
	assert.Nil(t, result.Data)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestPost_MissingStatusIsFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"abc"}`))
	})

	result := Post[LoginResponse](context.Background(), client, "/auth/login", map[string]string{})

	assert.False(t, result.Success)
	assert.Equal(t, StatusError, result.Status)
	assert.Equal(t, MessageRequestFailed, result.Message)
}

func TestPost_OtherErrorsNotRetried(t *testing.T) {
	var attempts int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":["a required","b invalid"]}`))
	})

	result := Post[LoginResponse](context.Background(), client, "/auth/register", map[string]string{})

	assert.False(t, result.Success)
	assert.Equal(t, "a required, b invalid", result.Message)
	assert.Equal(t, StatusError, result.Status)
	assert.Equal(t, http.StatusBadRequest, result.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestPost_CancelledDuringColdStartWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(&ClientOptions{
		BaseURL:     server.URL,
		RetryConfig: &RetryConfig{MaxRetries: 3, RetryWait: time.Minute},
	})
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	result := Post[OrderResponse](ctx, client, "/orders", map[string]string{})

	assert.Less(t, time.Since(start), 10*time.Second)
	assert.False(t, result.Success)
	assert.Equal(t, StatusNetworkError, result.Status)
}

func TestUnauthorized_PurgesCredentials(t *testing.T) {
	var mu sync.Mutex
	var authHeaders []string

	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		first := len(authHeaders) == 1
		mu.Unlock()

		if first {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u-1"}`))
	})

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, internalTypes.AuthTokenKey, "stale"))
	require.NoError(t, store.Set(ctx, internalTypes.UserDataKey, `{"id":"u-1"}`))

	result := Get[User](ctx, client, "/users/profile")
	assert.False(t, result.Success)
	assert.Equal(t, "Unauthorized", result.Message)
	assert.Equal(t, StatusError, result.Status)
	assert.Equal(t, http.StatusUnauthorized, result.StatusCode)

	_, err := store.Get(ctx, internalTypes.AuthTokenKey)
	assert.ErrorIs(t, err, internalTypes.ErrNotFound)
	_, err = store.Get(ctx, internalTypes.UserDataKey)
	assert.ErrorIs(t, err, internalTypes.ErrNotFound)

	Get[User](ctx, client, "/users/profile")
	require.Len(t, authHeaders, 2)
	assert.Equal(t, "Bearer stale", authHeaders[0])
	assert.Empty(t, authHeaders[1])
}

func TestGet_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name        string
		code        int
		contentType string
		body        string
		message     string
		status      string
	}{
		{
			name:        "plain text body",
			code:        http.StatusInternalServerError,
			contentType: "text/plain",
			body:        "Internal Server Error",
			message:     "Internal Server Error",
			status:      StatusError,
		},
		{
			name:        "empty object",
			code:        http.StatusNotFound,
			contentType: "application/json",
			body:        `{}`,
			message:     "HTTP 404: Not Found",
			status:      StatusError,
		},
		{
			name:        "status and nested error",
			code:        http.StatusUnprocessableEntity,
			contentType: "application/json",
			body:        `{"status":"fail","error":{"message":"Meal is sold out"}}`,
			message:     "Meal is sold out",
			status:      "fail",
		},
		{
			name:        "html error page",
			code:        http.StatusBadGateway,
			contentType: "text/html; charset=utf-8",
			body:        "<html><body>Bad Gateway</body></html>",
			message:     "HTTP 502: Bad Gateway",
			status:      StatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			})

			result := Get[Meal](context.Background(), client, "/meals/1")

			assert.False(t, result.Success)
			assert.Nil(t, result.Data)
			assert.Equal(t, tt.message, result.Message)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, tt.code, result.StatusCode)
			assert.NotEmpty(t, result.Error)
		})
	}
}

func TestGet_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(&ClientOptions{BaseURL: url})
	require.NoError(t, err)
	defer client.Close()

	result := Get[Meal](context.Background(), client, "/meals/1")

	assert.False(t, result.Success)
	assert.Equal(t, StatusNetworkError, result.Status)
	assert.Equal(t, MessageNetworkError, result.Message)
	assert.Zero(t, result.StatusCode)
	assert.NotEmpty(t, result.Error)
}

func TestVerbs_Success(t *testing.T) {
	var methods []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"id":"m-1","name":"Pad Thai","price":"12.50","available":true}`))
		case http.MethodPut:
			_, _ = w.Write([]byte(`{"message":"Meal updated","id":"m-1","name":"Pad See Ew","price":13}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	got := Get[Meal](ctx, client, "/meals/m-1")
	require.True(t, got.Success)
	assert.Equal(t, MessageRequestSuccessful, got.Message)
	assert.Equal(t, StatusSuccess, got.Status)
	require.NotNil(t, got.Data)
	assert.Equal(t, "Pad Thai", got.Data.Name)
	assert.True(t, decimal.RequireFromString("12.50").Equal(got.Data.Price))

	put := Put[Meal](ctx, client, "/meals/m-1", map[string]string{"name": "Pad See Ew"})
	require.True(t, put.Success)
	assert.Equal(t, "Meal updated", put.Message)
	assert.Equal(t, "Pad See Ew", put.Value().Name)

	del := Delete[struct{}](ctx, client, "/meals/m-1")
	require.True(t, del.Success)
	assert.NotNil(t, del.Data)
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	assert.Equal(t, []string{http.MethodGet, http.MethodPut, http.MethodDelete}, methods)
}

func TestPut_UnmarshalableBodyIsUnknownError(t *testing.T) {
	var attempts int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
	})

	result := Put[Meal](context.Background(), client, "/meals/1", map[string]interface{}{"bad": make(chan int)})

	assert.False(t, result.Success)
	assert.Equal(t, StatusUnknownError, result.Status)
	assert.Contains(t, result.Message, "failed to marshal request")
	assert.Zero(t, atomic.LoadInt32(&attempts))
}

func TestGet_UndecodableBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	result := Get[Meal](context.Background(), client, "/meals/1")

	assert.False(t, result.Success)
	assert.Equal(t, StatusDecodeError, result.Status)
	assert.Equal(t, MessageUnexpectedBody, result.Message)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.Error, "failed to decode response")
}

func TestResult_Value(t *testing.T) {
	var nilResult *Result[int]
	assert.Zero(t, nilResult.Value())

	assert.Zero(t, (&Result[int]{}).Value())

	n := 7
	assert.Equal(t, 7, (&Result[int]{Success: true, Data: &n}).Value())
}
