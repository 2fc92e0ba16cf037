package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eshaffer321/foodapp-go/internal/metrics"
	"github.com/eshaffer321/foodapp-go/internal/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	authHeaderKey      = "Authorization"
	requestIDHeaderKey = "X-Request-ID"
	maxLoggedBody      = 512
)

// keys whose values never reach the logs
var redactedFields = map[string]bool{
	"password":        true,
	"confirmPassword": true,
	"token":           true,
}

// CredentialProvider supplies the bearer token and drops it once the server
// rejects it
type CredentialProvider interface {
	// Token returns the current token, or "" when none is stored
	Token(ctx context.Context) (string, error)

	// Clear removes the stored token and user data
	Clear(ctx context.Context) error
}

// interceptor runs around every HTTP attempt: it attaches the bearer token
// on the way out and purges credentials on a 401 on the way back.
type interceptor struct {
	next        http.RoundTripper
	credentials CredentialProvider
	logger      types.Logger
	hooks       *types.Hooks
	metrics     *metrics.RequestMetrics
}

func (i *interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	req = req.Clone(ctx)

	i.authorize(ctx, req)
	req.Header.Set(requestIDHeaderKey, uuid.NewString())

	if i.hooks != nil && i.hooks.OnRequest != nil {
		i.hooks.OnRequest(ctx, req)
	}

	if i.logger != nil {
		kv := []interface{}{"method", req.Method, "path", req.URL.Path}
		if body := requestBody(req); body != "" {
			kv = append(kv, "body", body)
		}
		i.logger.Debug("API request", kv...)
	}

	start := time.Now()
	resp, err := i.next.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		i.metrics.ObserveAttempt(req.Method, 0, duration)
		if i.logger != nil {
			i.logger.Warn("API request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		}
		return nil, err
	}
	i.metrics.ObserveAttempt(req.Method, resp.StatusCode, duration)

	payload, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	resp.Body = io.NopCloser(bytes.NewReader(payload))

	if i.hooks != nil && i.hooks.OnResponse != nil {
		i.hooks.OnResponse(ctx, resp, duration)
	}

	if i.logger != nil {
		i.logger.Debug("API response",
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"duration", duration,
			"payload", truncate(string(payload)),
		)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		i.purge(ctx)
	}

	return resp, nil
}

// authorize attaches the bearer token. A failed token read sends the request
// unauthenticated instead of failing it.
func (i *interceptor) authorize(ctx context.Context, req *http.Request) {
	req.Header.Del(authHeaderKey)
	if i.credentials == nil {
		return
	}

	token, err := i.credentials.Token(ctx)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("Could not read auth token, sending request without it", "error", err)
		}
		return
	}

	if token != "" {
		req.Header.Set(authHeaderKey, "Bearer "+token)
	}
}

func (i *interceptor) purge(ctx context.Context) {
	if i.logger != nil {
		i.logger.Warn("Received 401, clearing stored credentials")
	}
	if i.credentials == nil {
		return
	}
	if err := i.credentials.Clear(ctx); err != nil && i.logger != nil {
		i.logger.Error("Failed to clear credentials", "error", err)
	}
}

// requestBody returns a loggable copy of the request body without consuming it
func requestBody(req *http.Request) string {
	if req.GetBody == nil || req.ContentLength == 0 {
		return ""
	}
	rc, err := req.GetBody()
	if err != nil {
		return ""
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return ""
	}
	return truncate(redact(raw))
}

// redact masks sensitive top-level fields of a JSON object body
func redact(raw []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return string(raw)
	}

	changed := false
	for k := range fields {
		if redactedFields[k] {
			fields[k] = json.RawMessage(`"***"`)
			changed = true
		}
	}
	if !changed {
		return string(raw)
	}

	out, err := json.Marshal(fields)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// truncate shortens long payloads for logging
func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "..."
}
