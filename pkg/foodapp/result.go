package foodapp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/eshaffer321/foodapp-go/internal/transport"
)

// Result is what every request returns. Requests never return a Go error:
// callers check Success, branch on Status and show Message to the user.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// Data is set only when Success is true
	Data *T `json:"data,omitempty"`

	// Error carries technical detail for logs; Message is the user-facing text
	Error  string `json:"error,omitempty"`
	Status string `json:"status,omitempty"`

	// StatusCode is the HTTP status when a response was received, else 0
	StatusCode int `json:"-"`
}

// Value returns the data, or the zero value when the result failed
func (r *Result[T]) Value() T {
	var zero T
	if r == nil || r.Data == nil {
		return zero
	}
	return *r.Data
}

// envelope is the status/message wrapper POST endpoints answer with
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Get sends a GET and decodes the body into T
func Get[T any](ctx context.Context, c *Client, path string) *Result[T] {
	return GetWith(ctx, c, path, DecodeJSON[T])
}

// GetWith sends a GET and decodes the body with decode
func GetWith[T any](ctx context.Context, c *Client, path string, decode Decoder[T]) *Result[T] {
	resp, err := c.transport.Do(ctx, http.MethodGet, path, nil)
	return complete(ctx, c, http.MethodGet, path, resp, err, decode)
}

// Put sends a PUT with body and decodes the response into T
func Put[T any](ctx context.Context, c *Client, path string, body interface{}) *Result[T] {
	return PutWith(ctx, c, path, body, DecodeJSON[T])
}

// PutWith sends a PUT with body and decodes the response with decode
func PutWith[T any](ctx context.Context, c *Client, path string, body interface{}, decode Decoder[T]) *Result[T] {
	resp, err := c.transport.Do(ctx, http.MethodPut, path, body)
	return complete(ctx, c, http.MethodPut, path, resp, err, decode)
}

// Delete sends a DELETE and decodes the response into T
func Delete[T any](ctx context.Context, c *Client, path string) *Result[T] {
	return DeleteWith(ctx, c, path, DecodeJSON[T])
}

// DeleteWith sends a DELETE and decodes the response with decode
func DeleteWith[T any](ctx context.Context, c *Client, path string, decode Decoder[T]) *Result[T] {
	resp, err := c.transport.Do(ctx, http.MethodDelete, path, nil)
	return complete(ctx, c, http.MethodDelete, path, resp, err, decode)
}

// Post sends a POST, retrying while the backend cold-starts, and decodes the
// body into T. Success comes from the body's status field, not the HTTP code.
func Post[T any](ctx context.Context, c *Client, path string, body interface{}) *Result[T] {
	return PostWith(ctx, c, path, body, DecodeJSON[T])
}

// PostWith is Post with a custom decoder
func PostWith[T any](ctx context.Context, c *Client, path string, body interface{}, decode Decoder[T]) *Result[T] {
	resp, err := c.transport.DoWithColdStartRetry(ctx, http.MethodPost, path, body)
	if err != nil {
		return failed[T](ctx, c, http.MethodPost, path, err)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return undecodable[T](ctx, c, http.MethodPost, path, resp.StatusCode, err)
	}

	if env.Status != StatusSuccess {
		message := firstNonEmpty(env.Message, env.Error, MessageRequestFailed)
		status := firstNonEmpty(env.Status, StatusError)
		c.metrics.IncResult(status)
		c.logFailure(http.MethodPost, path, status, message)
		return &Result[T]{
			Success:    false,
			Message:    message,
			Error:      message,
			Status:     status,
			StatusCode: resp.StatusCode,
		}
	}

	data, err := decode(resp.Body)
	if err != nil {
		return undecodable[T](ctx, c, http.MethodPost, path, resp.StatusCode, err)
	}

	c.metrics.IncResult(StatusSuccess)
	return &Result[T]{
		Success:    true,
		Message:    firstNonEmpty(env.Message, MessageRequestSuccessful),
		Data:       &data,
		Status:     StatusSuccess,
		StatusCode: resp.StatusCode,
	}
}

// complete turns a single-attempt response into a Result. Any 2xx succeeds.
func complete[T any](ctx context.Context, c *Client, method, path string, resp *transport.Response, err error, decode Decoder[T]) *Result[T] {
	if err != nil {
		return failed[T](ctx, c, method, path, err)
	}

	data, err := decode(resp.Body)
	if err != nil {
		return undecodable[T](ctx, c, method, path, resp.StatusCode, err)
	}

	c.metrics.IncResult(StatusSuccess)
	return &Result[T]{
		Success:    true,
		Message:    firstNonEmpty(bodyMessage(resp.Body), MessageRequestSuccessful),
		Data:       &data,
		Status:     StatusSuccess,
		StatusCode: resp.StatusCode,
	}
}

func failed[T any](ctx context.Context, c *Client, method, path string, err error) *Result[T] {
	f := c.normalize(ctx, method, path, err)
	return &Result[T]{
		Success:    false,
		Message:    f.Message,
		Error:      f.Error,
		Status:     f.Status,
		StatusCode: f.StatusCode,
	}
}

func undecodable[T any](ctx context.Context, c *Client, method, path string, code int, err error) *Result[T] {
	f := c.decodeFailure(ctx, method, path, code, err)
	return &Result[T]{
		Success:    false,
		Message:    f.Message,
		Error:      f.Error,
		Status:     f.Status,
		StatusCode: f.StatusCode,
	}
}

// bodyMessage returns the message field of a JSON object body, if any
func bodyMessage(body []byte) string {
	var m struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	return m.Message
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
