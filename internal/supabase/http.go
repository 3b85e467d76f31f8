// http.go -- Shared HTTP plumbing for the GoTrue and PostgREST clients.
//
// No retries, no refreshes, no status masking: Supabase is the source of
// truth and its unavailability propagates to the caller.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Config carries the connection settings shared by both clients.
type Config struct {
	URL          string
	AnonKey      string
	CookieName   string // defaults to DefaultCookieName(URL)
	CookieDomain string

	// InsecureCookies drops the Secure attribute for local dev over plain
	// http. Cookies are Secure unless this is set.
	InsecureCookies bool

	HTTPClient *http.Client // defaults to http.DefaultClient
}

// DefaultCookieName derives the session cookie name from the project URL the
// same way Supabase does: sb-<project-ref>-auth-token. Non-supabase hosts
// (local stacks, test servers) get their host dashed into the ref.
func DefaultCookieName(rawURL string) string {
	ref := "project"
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		host := u.Hostname()
		if label, rest, ok := strings.Cut(host, "."); ok && strings.HasSuffix(rest, "supabase.co") {
			ref = label
		} else {
			ref = strings.ReplaceAll(host, ".", "-")
		}
	}
	return "sb-" + ref + "-auth-token"
}

// newJSONRequest builds a request with the apikey header and an optional JSON
// body. token is sent as a bearer when non-empty; PostgREST expects the anon
// key as bearer for unauthenticated calls, which callers pass explicitly.
func newJSONRequest(ctx context.Context, method, rawURL, anonKey, token string, body any) (*http.Request, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", anonKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// doJSON executes the request and decodes a 2xx JSON response into out.
// Non-2xx responses decode into an *APIError.
func doJSON(hc *http.Client, req *http.Request, out any) error {
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiErrorFrom(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
