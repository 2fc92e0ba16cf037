// Package transport sends JSON requests to the backend. It owns the request and
// response interceptors and the cold-start retry loop; turning its errors into
// user-facing results is left to the caller.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eshaffer321/foodapp-go/internal/metrics"
	"github.com/eshaffer321/foodapp-go/internal/types"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

// Options for the REST transport
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Headers     map[string]string
	Credentials CredentialProvider
	RetryConfig *types.RetryConfig
	Logger      types.Logger
	Hooks       *types.Hooks
	Metrics     *metrics.RequestMetrics
}

// Response is a fully read 2xx (or passed-through) response
type Response struct {
	StatusCode int
	StatusText string
	Header     http.Header
	Body       []byte
}

// RESTTransport handles JSON communication with the backend
type RESTTransport struct {
	baseURL     string
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	headers     map[string]string
	logger      types.Logger
	hooks       *types.Hooks
}

// NewRESTTransport creates a new transport. The given HTTP client is copied and
// its round tripper wrapped with the interceptors; the caller's client is not
// modified.
func NewRESTTransport(opts *Options) *RESTTransport {
	if opts == nil {
		opts = &Options{}
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: types.DefaultTimeout}
	}

	next := base.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	httpClient := *base
	httpClient.Transport = &interceptor{
		next:        next,
		credentials: opts.Credentials,
		logger:      opts.Logger,
		hooks:       opts.Hooks,
		metrics:     opts.Metrics,
	}

	retryConfig := opts.RetryConfig
	if retryConfig == nil {
		retryConfig = types.DefaultRetryConfig()
	}

	t := &RESTTransport{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &httpClient,
		headers:    opts.Headers,
		logger:     opts.Logger,
		hooks:      opts.Hooks,
	}
	t.retryClient = t.newColdStartClient(retryConfig, opts.Metrics)

	return t
}

// newColdStartClient builds the retrying client used for POST: only a 503
// is retried, at a constant interval, and the last response is handed back
// once retries run out.
func (t *RESTTransport) newColdStartClient(cfg *types.RetryConfig, m *metrics.RequestMetrics) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = t.httpClient
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = cfg.RetryWait
	rc.RetryWaitMax = cfg.RetryWait
	rc.CheckRetry = ColdStartRetryPolicy
	rc.Backoff = ConstantBackoff
	rc.ErrorHandler = t.passthrough

	rc.Logger = nil
	if t.logger != nil {
		rc.Logger = &retryLogger{logger: t.logger}
	}

	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt == 0 {
			return
		}
		m.IncRetry(req.Method)
		if t.logger != nil {
			t.logger.Info("Backend cold start, retrying", "path", req.URL.Path, "attempt", attempt, "maxRetries", cfg.MaxRetries)
		}
	}

	return rc
}

// ColdStartRetryPolicy retries only on HTTP 503. Transport errors and every
// other status are final.
func ColdStartRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil || resp == nil {
		return false, nil
	}
	return resp.StatusCode == http.StatusServiceUnavailable, nil
}

// ConstantBackoff always waits min
func ConstantBackoff(min, _ time.Duration, _ int, _ *http.Response) time.Duration {
	return min
}

// passthrough hands back the last response (or error) once retries are over
func (t *RESTTransport) passthrough(resp *http.Response, err error, numTries int) (*http.Response, error) {
	if resp != nil && resp.StatusCode == http.StatusServiceUnavailable && t.logger != nil {
		t.logger.Warn("Cold start retries exhausted", "attempts", numTries)
	}
	return resp, err
}

// Do sends a single attempt
func (t *RESTTransport) Do(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	req, err := t.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := t.httpClient.Do(req)
	return t.finish(ctx, resp, err)
}

// DoWithColdStartRetry sends the request and re-sends it unchanged while the
// backend answers 503, up to the configured retry count
func (t *RESTTransport) DoWithColdStartRetry(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	req, err := t.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	retryReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create retryable request")
	}

	resp, err := t.retryClient.Do(retryReq)
	return t.finish(ctx, resp, err)
}

func (t *RESTTransport) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// finish reads the response and classifies failures
func (t *RESTTransport) finish(ctx context.Context, resp *http.Response, err error) (*Response, error) {
	if err != nil {
		return nil, t.fail(ctx, &NetworkError{Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, t.fail(ctx, &NetworkError{Err: errors.Wrap(err, "failed to read response")})
	}

	r := &Response{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Header:     resp.Header,
		Body:       body,
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return r, t.fail(ctx, &HTTPError{
			StatusCode: r.StatusCode,
			StatusText: r.StatusText,
			Header:     r.Header,
			Body:       body,
		})
	}

	return r, nil
}

func (t *RESTTransport) fail(ctx context.Context, err error) error {
	if t.hooks != nil && t.hooks.OnError != nil {
		t.hooks.OnError(ctx, err)
	}
	return err
}

// statusText returns the reason phrase the server sent, falling back to the
// standard text for the code
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
