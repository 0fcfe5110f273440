package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps the size of a decoded request body.
const MaxBodyBytes = 1 << 20

var (
	// ErrMalformedBody is returned when a request body is not a JSON object.
	ErrMalformedBody = errors.New("malformed request body")

	// ErrBodyTooLarge is returned when a request body exceeds MaxBodyBytes.
	ErrBodyTooLarge = errors.New("request body too large")
)

// DecodeObject reads the request body as a JSON object and returns its members
// undecoded, so callers can tell absent keys from explicit nulls and check
// each member's JSON type. An empty body is treated as an empty object.
func DecodeObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	dec := json.NewDecoder(body)
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]json.RawMessage{}, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedBody)
	}
	if fields == nil {
		// The body was the literal null.
		return nil, fmt.Errorf("%w: expected an object", ErrMalformedBody)
	}
	return fields, nil
}
