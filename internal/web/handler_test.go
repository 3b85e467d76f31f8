// handler_test.go
//
// Shared helpers for the handler unit tests.
package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/forgetmenot/leafboard/internal/supabase"
	"github.com/forgetmenot/leafboard/internal/testutil"
)

// newTestHandler wires a Handler to the shared mocks. The auth factory
// re-binds the same mock to each request's cookie store, so sign-in and
// sign-out cookie effects land on the response under test.
func newTestHandler(auth *testutil.MockAuth, data *testutil.MockData) *Handler {
	return &Handler{
		Auth: func(cs supabase.CookieStore) AuthService {
			return auth.BindTo(cs)
		},
		Data:          data,
		TouchEventURL: "https://example.test/functions/v1/touch-event",
	}
}

// formReq builds a POST with an urlencoded form body.
func formReq(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// assertStatusTag checks response is 200 JSON with the expected status tag.
func assertStatusTag(t *testing.T, w *httptest.ResponseRecorder, tag string) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Errorf("status: expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: expected application/json, got %q", ct)
	}
	body, _ := io.ReadAll(w.Body)
	expected := `{"status":"` + tag + `"}`
	if string(body) != expected {
		t.Errorf("body: expected %q, got %q", expected, string(body))
	}
}

// assertErrorBody checks response has the expected status and {"error": msg} body.
func assertErrorBody(t *testing.T, w *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	if w.Code != code {
		t.Errorf("status: expected %d, got %d", code, w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	expected := `{"error":"` + msg + `"}`
	if string(body) != expected {
		t.Errorf("body: expected %q, got %q", expected, string(body))
	}
}

// assertRedirect checks response is a 303 to the expected location.
func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Errorf("status: expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != location {
		t.Errorf("location: expected %q, got %q", location, loc)
	}
}

// setCookieFor returns the Set-Cookie header naming the given cookie, or "".
func setCookieFor(w *httptest.ResponseRecorder, name string) string {
	for _, sc := range w.Header().Values("Set-Cookie") {
		if strings.HasPrefix(sc, name+"=") {
			return sc
		}
	}
	return ""
}

// activeSession returns a session the mocks treat as signed in.
func activeSession() *supabase.Session {
	return &supabase.Session{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "bearer",
		ExpiresIn:    3600,
	}
}
