// session_handler.go -- POST /auth/session: the client relay's sync endpoint.
//
// Best-effort channel: the browser-side relay has no fallback path, so this
// endpoint always answers 200. Sync failures are logged, never surfaced.
package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/forgetmenot/leafboard/internal/supabase"
)

// syncEvent is the tagged variant an incoming sync body decodes into,
// exactly once at the boundary. Dispatch happens on the type, not on
// re-inspected string tags.
type syncEvent interface{ isSyncEvent() }

type signedOutEvent struct{}

type sessionUpdatedEvent struct{ session *supabase.Session }

type noopEvent struct{}

func (signedOutEvent) isSyncEvent()      {}
func (sessionUpdatedEvent) isSyncEvent() {}
func (noopEvent) isSyncEvent()           {}

// decodeSyncEvent classifies a sync body. Anything unreadable or incomplete
// degrades to a no-op -- garbage on a best-effort channel is not an error.
func decodeSyncEvent(body io.Reader) syncEvent {
	var input struct {
		Event   string            `json:"event"`
		Session *supabase.Session `json:"session"`
	}
	if err := json.NewDecoder(body).Decode(&input); err != nil {
		return noopEvent{}
	}
	switch {
	case input.Event == string(supabase.SignedOut):
		return signedOutEvent{}
	case input.Session != nil && input.Session.AccessToken != "":
		return sessionUpdatedEvent{session: input.Session}
	default:
		return noopEvent{}
	}
}

// SyncSession handles POST /auth/session.
// SIGNED_OUT translates into cookie removals, a session payload into cookie
// writes, anything else into a no-op. Always 200 with a status tag.
func (h *Handler) SyncSession(w http.ResponseWriter, r *http.Request) {
	bridge, auth := h.mutatingAuth(r)

	var status string
	switch ev := decodeSyncEvent(r.Body).(type) {
	case signedOutEvent:
		if err := auth.SignOut(r.Context()); err != nil {
			logWarn(r, "session sync sign-out failed", "error", err)
		}
		status = "signed_out"
	case sessionUpdatedEvent:
		if err := auth.SetSession(r.Context(), ev.session); err != nil {
			logWarn(r, "session sync update failed", "error", err)
		}
		status = "updated"
	default:
		status = "noop"
	}

	drain(w, r, bridge)
	Status(w, status)
}
