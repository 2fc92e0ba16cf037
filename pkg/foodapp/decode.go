package foodapp

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Decoder turns a response body into T. Endpoints pick the decoder matching
// the shape their backend route answers with, so a body of the wrong shape
// becomes a decode_error result instead of empty data.
type Decoder[T any] func(body []byte) (T, error)

// DecodeJSON decodes the whole body into T. An empty body yields the zero value.
func DecodeJSON[T any](body []byte) (T, error) {
	var out T
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, errors.Wrap(err, "failed to unmarshal response")
	}
	return out, nil
}

// DecodeList accepts either a bare JSON array or an object holding the array
// under one of keys or under "data"
func DecodeList[T any](keys ...string) Decoder[[]T] {
	candidates := append(append([]string{}, keys...), "data")
	return func(body []byte) ([]T, error) {
		body = bytes.TrimSpace(body)
		if len(body) == 0 {
			return nil, errors.Wrap(ErrUnexpectedShape, "empty body, expected a list")
		}

		switch body[0] {
		case '[':
			var list []T
			if err := json.Unmarshal(body, &list); err != nil {
				return nil, errors.Wrap(err, "failed to unmarshal list")
			}
			return list, nil
		case '{':
			raw, err := lookup(body, candidates, '[')
			if err != nil {
				return nil, err
			}
			var list []T
			if err := json.Unmarshal(raw, &list); err != nil {
				return nil, errors.Wrap(err, "failed to unmarshal list")
			}
			return list, nil
		default:
			return nil, errors.Wrapf(ErrUnexpectedShape, "expected a list, got %.20q", body)
		}
	}
}

// DecodeObject accepts an object wrapped under one of keys or under "data",
// or the bare object itself
func DecodeObject[T any](keys ...string) Decoder[T] {
	candidates := append(append([]string{}, keys...), "data")
	return func(body []byte) (T, error) {
		var out T
		body = bytes.TrimSpace(body)
		if len(body) == 0 || body[0] != '{' {
			return out, errors.Wrap(ErrUnexpectedShape, "expected an object")
		}

		raw, err := lookup(body, candidates, '{')
		if errors.Is(err, ErrUnexpectedShape) {
			raw = body
		} else if err != nil {
			return out, err
		}

		if err := json.Unmarshal(raw, &out); err != nil {
			return out, errors.Wrap(err, "failed to unmarshal object")
		}
		return out, nil
	}
}

// lookup returns the first of keys in the object body whose value starts
// with the given delimiter
func lookup(body []byte, keys []string, delim byte) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal object")
	}

	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == delim {
			return raw, nil
		}
	}
	return nil, errors.Wrapf(ErrUnexpectedShape, "none of %v found", keys)
}
