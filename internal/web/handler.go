// handler.go -- HTTP handlers for the dashboard and auth bridge endpoints.
package web

import (
	"context"
	"net/http"

	"github.com/forgetmenot/leafboard/internal/session"
	"github.com/forgetmenot/leafboard/internal/supabase"
	"github.com/go-playground/validator/v10"
)

// AuthService defines the provider operations handlers need.
// Satisfied by *supabase.Client -- defined here (at consumer) per Go convention.
type AuthService interface {
	// SignInWithPassword exchanges credentials for a session and persists it
	// into the bound cookie store.
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)

	// SignUp registers a new user; returns nil session when the project
	// requires email confirmation first.
	SignUp(ctx context.Context, email, password string) (*supabase.Session, error)

	// SignOut revokes the session and clears every session cookie.
	SignOut(ctx context.Context) error

	// GetSession reconstructs the session from cookies; nil when signed out.
	GetSession() *supabase.Session

	// SetSession persists a session pushed from the client-side relay.
	SetSession(ctx context.Context, sess *supabase.Session) error
}

// AuthFactory builds an AuthService bound to one request's cookie accessor.
// The provider client is per-request because its session lives in that
// request's cookies.
type AuthFactory func(cs supabase.CookieStore) AuthService

// DataService defines the row-store operations handlers need.
// Satisfied by *supabase.DataClient.
type DataService interface {
	ListDevices(ctx context.Context, token string) ([]supabase.Device, error)
	InsertDevice(ctx context.Context, token string, dev supabase.NewDevice) error
	DeleteDevice(ctx context.Context, token, id string) error
	GetDeviceRole(ctx context.Context, token, id string) (string, error)
	ListPairs(ctx context.Context, token string) ([]supabase.Pair, error)
	PairExists(ctx context.Context, token, senderID, receiverID string) (bool, error)
	InsertPair(ctx context.Context, token, senderID, receiverID string) error
	DeletePair(ctx context.Context, token, id string) error
	ListEvents(ctx context.Context, token string, limit int) ([]supabase.TouchEvent, error)
}

// validate is shared across handlers; Validator instances cache struct
// metadata and are safe for concurrent use.
var validate = validator.New()

// Handler holds dependencies for all dashboard HTTP handlers.
type Handler struct {
	Auth          AuthFactory
	Data          DataService
	TouchEventURL string
}

// mutatingAuth builds a mutating bridge and an auth client over it.
// The caller must drain the bridge before writing the response.
func (h *Handler) mutatingAuth(r *http.Request) (*session.Bridge, AuthService) {
	bridge := session.NewBridge(session.NewMutating(r))
	return bridge, h.Auth(bridge)
}

// readOnlyAuth builds a read-only bridge for page renders: the auth client
// can read the session but can never touch response headers.
func (h *Handler) readOnlyAuth(r *http.Request) AuthService {
	return h.Auth(session.NewBridge(session.NewReadOnly(r)))
}

// drain flushes pending cookie writes. A drain failure is a programming
// error (double drain); log it loudly but keep serving.
func drain(w http.ResponseWriter, r *http.Request, bridge *session.Bridge) {
	if err := bridge.Drain(w); err != nil {
		logError(r, "cookie drain failed", "error", err)
	}
}
