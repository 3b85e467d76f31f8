// signin_handler_test.go -- unit tests for the SignIn and SignUp handlers.
package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/forgetmenot/leafboard/internal/supabase"
	"github.com/forgetmenot/leafboard/internal/testutil"
)

func signinReq(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestSignIn(t *testing.T) {
	t.Run("invalid JSON returns BadRequest before provider", func(t *testing.T) {
		auth := &testutil.MockAuth{}
		h := newTestHandler(auth, testutil.NewMockData())

		w := httptest.NewRecorder()
		h.SignIn(w, signinReq(`{not valid json}`))

		assertErrorBody(t, w, http.StatusBadRequest, "Email and password are required.")
		if len(auth.SignIns) != 0 {
			t.Errorf("provider called %d times, expected 0", len(auth.SignIns))
		}
	})

	t.Run("missing password returns BadRequest before provider", func(t *testing.T) {
		auth := &testutil.MockAuth{}
		h := newTestHandler(auth, testutil.NewMockData())

		w := httptest.NewRecorder()
		h.SignIn(w, signinReq(`{"email":"leaf@example.com"}`))

		assertErrorBody(t, w, http.StatusBadRequest, "Email and password are required.")
		if len(auth.SignIns) != 0 {
			t.Errorf("provider called %d times, expected 0", len(auth.SignIns))
		}
	})

	t.Run("malformed email returns BadRequest before provider", func(t *testing.T) {
		auth := &testutil.MockAuth{}
		h := newTestHandler(auth, testutil.NewMockData())

		w := httptest.NewRecorder()
		h.SignIn(w, signinReq(`{"email":"not-an-email","password":"hunter22"}`))

		assertErrorBody(t, w, http.StatusBadRequest, "Email and password are required.")
		if len(auth.SignIns) != 0 {
			t.Errorf("provider called %d times, expected 0", len(auth.SignIns))
		}
	})

	t.Run("provider rejection returns BadRequest with provider message", func(t *testing.T) {
		auth := &testutil.MockAuth{
			SignInErr: &supabase.APIError{Status: 400, Message: "Invalid login credentials"},
		}
		h := newTestHandler(auth, testutil.NewMockData())

		w := httptest.NewRecorder()
		h.SignIn(w, signinReq(`{"email":"leaf@example.com","password":"wrong"}`))

		assertErrorBody(t, w, http.StatusBadRequest, "Invalid login credentials")
	})

	t.Run("transport failure returns opaque InternalServerError", func(t *testing.T) {
		auth := &testutil.MockAuth{SignInErr: errors.New("dial tcp: connection refused")}
		h := newTestHandler(auth, testutil.NewMockData())

		w := httptest.NewRecorder()
		h.SignIn(w, signinReq(`{"email":"leaf@example.com","password":"hunter22"}`))

		assertErrorBody(t, w, http.StatusInternalServerError, "internal server error")
	})

	t.Run("success returns signed_in with session cookie", func(t *testing.T) {
		auth := &testutil.MockAuth{}
		h := newTestHandler(auth, testutil.NewMockData())

		w := httptest.NewRecorder()
		h.SignIn(w, signinReq(`{"email":"leaf@example.com","password":"hunter22"}`))

		assertStatusTag(t, w, "signed_in")
		if len(auth.SignIns) != 1 || auth.SignIns[0] != "leaf@example.com" {
			t.Errorf("provider sign-ins: %v", auth.SignIns)
		}
		if setCookieFor(w, testutil.MockCookieName) == "" {
			t.Error("expected session Set-Cookie on success")
		}
	})
}

func TestSignUp(t *testing.T) {
	t.Run("confirmation required returns no cookies", func(t *testing.T) {
		auth := &testutil.MockAuth{ConfirmationRequired: true}
		h := newTestHandler(auth, testutil.NewMockData())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
			strings.NewReader(`{"email":"new@example.com","password":"hunter22"}`))
		h.SignUp(w, r)

		assertStatusTag(t, w, "confirmation_required")
		if len(w.Header().Values("Set-Cookie")) != 0 {
			t.Errorf("unexpected Set-Cookie headers: %v", w.Header().Values("Set-Cookie"))
		}
	})

	t.Run("immediate session returns signed_up with cookie", func(t *testing.T) {
		auth := &testutil.MockAuth{}
		h := newTestHandler(auth, testutil.NewMockData())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
			strings.NewReader(`{"email":"new@example.com","password":"hunter22"}`))
		h.SignUp(w, r)

		assertStatusTag(t, w, "signed_up")
		if setCookieFor(w, testutil.MockCookieName) == "" {
			t.Error("expected session Set-Cookie on signup")
		}
	})

	t.Run("provider rejection surfaces message", func(t *testing.T) {
		auth := &testutil.MockAuth{
			SignUpErr: &supabase.APIError{Status: 422, Message: "User already registered"},
		}
		h := newTestHandler(auth, testutil.NewMockData())

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
			strings.NewReader(`{"email":"new@example.com","password":"hunter22"}`))
		h.SignUp(w, r)

		assertErrorBody(t, w, http.StatusBadRequest, "User already registered")
	})
}
