// signin_handler.go -- JSON auth endpoints: POST /api/auth/signin, /api/auth/signup.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/forgetmenot/leafboard/internal/supabase"
)

// credentialsInput is the body of both signin and signup.
type credentialsInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignIn handles POST /api/auth/signin.
// Validation failures return 400 before the provider is ever called.
// Provider rejections return 400 with the provider's message; anything else
// is an opaque 500. Session cookies ride on every post-provider response.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var input credentialsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logWarn(r, "failed to decode signin input", "error", err)
		Error(w, http.StatusBadRequest, "Email and password are required.")
		return
	}
	if err := validate.Struct(input); err != nil {
		Error(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	bridge, auth := h.mutatingAuth(r)

	_, err := auth.SignInWithPassword(r.Context(), input.Email, input.Password)
	if err != nil {
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) {
			logInfo(r, "sign-in rejected by provider", "status", apiErr.Status)
			drain(w, r, bridge)
			Error(w, http.StatusBadRequest, apiErr.Message)
			return
		}
		drain(w, r, bridge)
		InternalServerError(w, r, err)
		return
	}

	logInfo(r, "user signed in")
	drain(w, r, bridge)
	Status(w, "signed_in")
}

// SignUp handles POST /api/auth/signup.
// Mirrors SignIn; when the project requires email confirmation the provider
// returns no session, and the caller gets "confirmation_required" with no
// cookies set.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input credentialsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logWarn(r, "failed to decode signup input", "error", err)
		Error(w, http.StatusBadRequest, "Email and password are required.")
		return
	}
	if err := validate.Struct(input); err != nil {
		Error(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	bridge, auth := h.mutatingAuth(r)

	sess, err := auth.SignUp(r.Context(), input.Email, input.Password)
	if err != nil {
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) {
			logInfo(r, "sign-up rejected by provider", "status", apiErr.Status)
			drain(w, r, bridge)
			Error(w, http.StatusBadRequest, apiErr.Message)
			return
		}
		drain(w, r, bridge)
		InternalServerError(w, r, err)
		return
	}

	drain(w, r, bridge)
	if sess == nil {
		Status(w, "confirmation_required")
		return
	}
	logInfo(r, "user signed up")
	Status(w, "signed_up")
}
