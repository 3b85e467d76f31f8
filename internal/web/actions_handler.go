// actions_handler.go -- Form actions: device and pair management, sign-out.
//
// These are the mutating counterparts of the dashboard render. Each builds a
// mutating bridge, does its work, drains the jar, and redirects back -- the
// drain-before-redirect ordering is what carries refreshed session cookies
// out of the request.
package web

import (
	"net/http"
	"strings"

	"github.com/forgetmenot/leafboard/internal/supabase"
	"github.com/gofrs/uuid/v5"
)

// secretLength is the generated device secret size; provided secrets shorter
// than minSecretLength are replaced with a generated one.
const (
	secretLength    = 24
	minSecretLength = 12
)

// generateSecret derives a 24-char hex secret from a random UUID, the same
// shape the firmware examples expect.
func generateSecret() string {
	u := uuid.Must(uuid.NewV4())
	return strings.ReplaceAll(u.String(), "-", "")[:secretLength]
}

// AddDevice handles POST /devices.
// role must be sender or receiver; a provided secret is honored only when
// long enough. Invalid input silently returns to the dashboard, matching the
// form-action contract (no JSON error surface on page forms).
func (h *Handler) AddDevice(w http.ResponseWriter, r *http.Request) {
	bridge, auth := h.mutatingAuth(r)
	sess := auth.GetSession()
	if sess == nil {
		drain(w, r, bridge)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	role := r.FormValue("role")
	if err := validate.Var(role, "required,oneof=sender receiver"); err != nil {
		drain(w, r, bridge)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	secret := strings.TrimSpace(r.FormValue("secret"))
	if len(secret) < minSecretLength {
		secret = generateSecret()
	}

	dev := supabase.NewDevice{Role: role, Secret: secret}
	if name := strings.TrimSpace(r.FormValue("name")); name != "" {
		dev.Name = &name
	}

	if err := h.Data.InsertDevice(r.Context(), sess.AccessToken, dev); err != nil {
		logError(r, "failed to insert device", "error", err)
	}

	drain(w, r, bridge)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteDevice handles POST /devices/delete.
func (h *Handler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	bridge, auth := h.mutatingAuth(r)
	sess := auth.GetSession()
	if sess == nil {
		drain(w, r, bridge)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if id := r.FormValue("deviceId"); id != "" {
		if err := h.Data.DeleteDevice(r.Context(), sess.AccessToken, id); err != nil {
			logError(r, "failed to delete device", "error", err)
		}
	}

	drain(w, r, bridge)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CreatePair handles POST /pairs.
// The sender and receiver must both exist with matching roles, must differ,
// and must not already be paired. Any failed check returns to the dashboard
// without creating anything.
func (h *Handler) CreatePair(w http.ResponseWriter, r *http.Request) {
	bridge, auth := h.mutatingAuth(r)
	sess := auth.GetSession()
	if sess == nil {
		drain(w, r, bridge)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	token := sess.AccessToken

	back := func() {
		drain(w, r, bridge)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}

	senderID := r.FormValue("senderId")
	receiverID := r.FormValue("receiverId")
	if senderID == "" || receiverID == "" || senderID == receiverID {
		back()
		return
	}

	if role, err := h.Data.GetDeviceRole(r.Context(), token, senderID); err != nil || role != "sender" {
		back()
		return
	}
	if role, err := h.Data.GetDeviceRole(r.Context(), token, receiverID); err != nil || role != "receiver" {
		back()
		return
	}

	exists, err := h.Data.PairExists(r.Context(), token, senderID, receiverID)
	if err != nil || exists {
		back()
		return
	}

	if err := h.Data.InsertPair(r.Context(), token, senderID, receiverID); err != nil {
		logError(r, "failed to insert pair", "error", err)
	}
	back()
}

// DeletePair handles POST /pairs/delete.
func (h *Handler) DeletePair(w http.ResponseWriter, r *http.Request) {
	bridge, auth := h.mutatingAuth(r)
	sess := auth.GetSession()
	if sess == nil {
		drain(w, r, bridge)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if id := r.FormValue("pairId"); id != "" {
		if err := h.Data.DeletePair(r.Context(), sess.AccessToken, id); err != nil {
			logError(r, "failed to delete pair", "error", err)
		}
	}

	drain(w, r, bridge)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignOut handles POST /signout -- the dashboard's sign-out form action.
// The provider call is best-effort; the cookie removals always go out.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	bridge, auth := h.mutatingAuth(r)

	if err := auth.SignOut(r.Context()); err != nil {
		logWarn(r, "provider sign-out failed", "error", err)
	}

	logInfo(r, "user signed out")
	drain(w, r, bridge)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
