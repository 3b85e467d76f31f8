// errors.go -- Provider error classification.
package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotFound is returned by data lookups that match no row.
var ErrNotFound = errors.New("supabase: row not found")

// APIError is a rejection from the Supabase API (bad credentials,
// unconfirmed account, RLS denial). Callers surface Message to the client
// with a 400; it is never retried.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.Status)
}

// apiErrorFrom decodes a non-2xx response body into an APIError. GoTrue and
// PostgREST disagree on the field name, so all known shapes are tried.
func apiErrorFrom(resp *http.Response) *APIError {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &body)

	msg := body.Msg
	if msg == "" {
		msg = body.Message
	}
	if msg == "" {
		msg = body.ErrorDescription
	}
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
