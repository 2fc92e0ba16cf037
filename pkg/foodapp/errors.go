package foodapp

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"reflect"
	"strings"

	"github.com/eshaffer321/foodapp-go/internal/transport"
	internalTypes "github.com/eshaffer321/foodapp-go/internal/types"
	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Result statuses. Callers branch on these.
const (
	StatusSuccess      = "success"
	StatusError        = "error"
	StatusNetworkError = "network_error"
	StatusUnknownError = "unknown_error"
	StatusDecodeError  = "decode_error"
)

// User-facing messages
const (
	MessageNetworkError      = "Network error. Please check your connection and try again."
	MessageUnexpected        = "An unexpected error occurred."
	MessageUnexpectedBody    = "Unexpected response from server."
	MessageRequestFailed     = "Request failed."
	MessageRequestSuccessful = "Request successful"
)

var (
	// ErrNotAuthenticated is returned when no user is logged in
	ErrNotAuthenticated = internalTypes.ErrNotAuthenticated

	// ErrUnexpectedShape is returned by decoders for bodies of the wrong shape
	ErrUnexpectedShape = errors.New("unexpected response shape")

	// ErrInvalidQuantity is returned by the cart for quantities below one
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrItemNotInCart is returned when changing an item the cart does not hold
	ErrItemNotInCart = errors.New("item not in cart")
)

// failure is a classified error, ready to be copied into a Result
type failure struct {
	Message    string
	Error      string
	Status     string
	StatusCode int
}

// normalize classifies err: server error status first, then no response,
// then anything else. Each failure is logged and reported.
func (c *Client) normalize(ctx context.Context, method, path string, err error) failure {
	var f failure

	var httpErr *transport.HTTPError
	var netErr *transport.NetworkError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &httpErr):
		f = failure{
			Message:    httpErrorMessage(httpErr),
			Error:      err.Error(),
			Status:     httpErrorStatus(httpErr.Body),
			StatusCode: httpErr.StatusCode,
		}
	case errors.As(err, &netErr):
		f = failure{
			Message: MessageNetworkError,
			Error:   err.Error(),
			Status:  StatusNetworkError,
		}
	case errors.As(err, &validationErrs):
		f = failure{
			Message: validationMessage(validationErrs),
			Error:   err.Error(),
			Status:  StatusUnknownError,
		}
	default:
		f = failure{
			Message: MessageUnexpected,
			Status:  StatusUnknownError,
		}
		if err != nil {
			f.Error = err.Error()
			f.Message = firstNonEmpty(err.Error(), MessageUnexpected)
		}
	}

	c.metrics.IncResult(f.Status)
	c.logFailure(method, path, f.Status, f.Message)
	c.report(ctx, method, path, f, err)
	return f
}

// decodeFailure classifies a 2xx body the endpoint decoder rejected
func (c *Client) decodeFailure(ctx context.Context, method, path string, code int, err error) failure {
	f := failure{
		Message:    MessageUnexpectedBody,
		Error:      errors.Wrap(err, "failed to decode response").Error(),
		Status:     StatusDecodeError,
		StatusCode: code,
	}

	c.metrics.IncResult(f.Status)
	c.logFailure(method, path, f.Status, f.Error)
	c.report(ctx, method, path, f, err)
	return f
}

// httpErrorMessage picks the user message out of an error response: a plain
// string body, then message, then error, then the errors list, else a
// synthesized "HTTP <code>: <text>"
func httpErrorMessage(e *transport.HTTPError) string {
	body := strings.TrimSpace(string(e.Body))
	fallback := fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.StatusText)
	if body == "" {
		return fallback
	}

	var raw interface{}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		if isHTML(e) {
			return fallback
		}
		return body
	}

	switch v := raw.(type) {
	case string:
		return firstNonEmpty(v, fallback)
	case map[string]interface{}:
		if msg, ok := v["message"].(string); ok && msg != "" {
			return msg
		}
		if msg := errorFieldMessage(v["error"]); msg != "" {
			return msg
		}
		if list, ok := v["errors"].([]interface{}); ok {
			if msg := joinErrors(list); msg != "" {
				return msg
			}
		}
	}

	return fallback
}

// httpErrorStatus returns the body's status field, or "error"
func httpErrorStatus(body []byte) string {
	var b struct {
		Status interface{} `json:"status"`
	}
	if err := json.Unmarshal(body, &b); err == nil {
		if s, ok := b.Status.(string); ok && s != "" {
			return s
		}
	}
	return StatusError
}

func errorFieldMessage(v interface{}) string {
	switch e := v.(type) {
	case string:
		return e
	case map[string]interface{}:
		if msg, ok := e["message"].(string); ok {
			return msg
		}
	}
	return ""
}

func joinErrors(list []interface{}) string {
	messages := make([]string, 0, len(list))
	for _, item := range list {
		switch e := item.(type) {
		case string:
			if e != "" {
				messages = append(messages, e)
			}
		case map[string]interface{}:
			for _, key := range []string{"message", "msg"} {
				if msg, ok := e[key].(string); ok && msg != "" {
					messages = append(messages, msg)
					break
				}
			}
		}
	}
	return strings.Join(messages, ", ")
}

func isHTML(e *transport.HTTPError) bool {
	if e.Header == nil {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(e.Header.Get("Content-Type"))
	return err == nil && mediaType == "text/html"
}

func validationMessage(errs validator.ValidationErrors) string {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "min":
			if fe.Kind() == reflect.String {
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
			}
		case "eqfield":
			messages = append(messages, fmt.Sprintf("%s must match %s", fe.Field(), fe.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(messages, ", ")
}

func (c *Client) logFailure(method, path, status, message string) {
	if c.logger() == nil {
		return
	}
	c.logger().Warn("API request failed", "method", method, "path", path, "status", status, "message", message)
}

// report sends the failure to Sentry, preferring the hub on ctx
func (c *Client) report(ctx context.Context, method, path string, f failure, err error) {
	if err == nil {
		return
	}

	capture := func(hub *sentry.Hub) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("http.method", method)
			scope.SetTag("http.path", path)
			scope.SetTag("result.status", f.Status)
			if f.Status == StatusNetworkError {
				scope.SetLevel(sentry.LevelWarning)
			}
			scope.SetContext("request", map[string]interface{}{
				"method":     method,
				"path":       path,
				"statusCode": f.StatusCode,
				"message":    f.Message,
			})
			hub.CaptureException(err)
		})
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		capture(hub)
		return
	}
	capture(sentry.CurrentHub())
}
