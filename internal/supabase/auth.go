// auth.go -- GoTrue client bound to a per-request cookie accessor.
//
// The client persists its session as a cookie payload through whatever
// CookieStore it is given: the session bridge on the server, an in-memory
// store for headless clients. Payloads larger than one cookie are chunked
// into name.0, name.1, ... suffixes; a partial or corrupt set always reads
// back as "no session", never as an error.
package supabase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/forgetmenot/leafboard/internal/cookie"
)

// CookieStore is the accessor triple the client persists sessions through.
// Satisfied by *session.Bridge.
type CookieStore interface {
	Get(name string) (string, bool)
	Set(name, value string, opts cookie.Options)
	Remove(name string, opts cookie.Options)

	// IncomingNames lists every cookie the request carried, so clearing a
	// session can sweep chunks left over from a longer previous payload.
	IncomingNames() []string
}

// maxChunkSize is the largest cookie value emitted before splitting.
// Browsers cap a cookie around 4KB including name and attributes.
const maxChunkSize = 3180

// cookieMaxAge keeps the cookie alive well past any token lifetime;
// session validity is enforced by the tokens inside, not the cookie.
const cookieMaxAge = 400 * 24 * 60 * 60

// EventKind tags an auth-state transition.
type EventKind string

const (
	SignedIn       EventKind = "SIGNED_IN"
	SignedOut      EventKind = "SIGNED_OUT"
	TokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// Event is one auth-state transition, as delivered to subscribers.
type Event struct {
	Kind    EventKind
	Session *Session
}

// Client talks to GoTrue and keeps the resulting session in cookies.
// One Client serves one request (server side) or one user agent (headless).
type Client struct {
	baseURL      string
	anonKey      string
	cookieName   string
	cookieDomain string
	secure       bool
	hc           *http.Client
	cookies      CookieStore

	mu      sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// NewClient builds a GoTrue client over the given cookie accessor.
func NewClient(cfg Config, cs CookieStore) *Client {
	name := cfg.CookieName
	if name == "" {
		name = DefaultCookieName(cfg.URL)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		anonKey:      cfg.AnonKey,
		cookieName:   name,
		cookieDomain: cfg.CookieDomain,
		secure:       !cfg.InsecureCookies,
		hc:           hc,
		cookies:      cs,
	}
}

// SignInWithPassword exchanges credentials for a session, persists it into
// cookies, and emits SIGNED_IN. Provider rejections come back as *APIError.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	sess, err := c.tokenGrant(ctx, "password", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	c.persistSession(sess)
	c.emit(SignedIn, sess)
	return sess, nil
}

// SignUp registers a new user. When the project requires email confirmation
// GoTrue returns no tokens; in that case the session is nil and nothing is
// persisted.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	req, err := newJSONRequest(ctx, http.MethodPost, c.baseURL+"/auth/v1/signup", c.anonKey, "",
		map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := doJSON(c.hc, req, &sess); err != nil {
		return nil, err
	}
	if sess.AccessToken == "" {
		return nil, nil
	}
	c.persistSession(&sess)
	c.emit(SignedIn, &sess)
	return &sess, nil
}

// SignOut revokes the session with the provider and clears every session
// cookie. Cookies are cleared even when the provider call fails -- a stale
// revocation is recoverable, a stuck cookie is not.
func (c *Client) SignOut(ctx context.Context) error {
	sess := c.GetSession()
	c.clearSession()
	c.emit(SignedOut, nil)

	if sess == nil || sess.AccessToken == "" {
		return nil
	}
	req, err := newJSONRequest(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", c.anonKey, sess.AccessToken, nil)
	if err != nil {
		return err
	}
	if err := doJSON(c.hc, req, nil); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// GetSession reconstructs the session from cookies. Returns nil when the
// request carries no session, a partial chunk set, or a corrupt payload.
// No refresh is attempted here; a read must stay side-effect free.
func (c *Client) GetSession() *Session {
	payload, ok := c.cookies.Get(c.cookieName)
	if !ok || payload == "" {
		var parts []string
		for i := 0; ; i++ {
			chunk, ok := c.cookies.Get(c.chunkName(i))
			if !ok || chunk == "" {
				break
			}
			parts = append(parts, chunk)
		}
		if len(parts) == 0 {
			return nil
		}
		payload = strings.Join(parts, "")
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil || sess.AccessToken == "" {
		return nil
	}
	return &sess
}

// SetSession persists a session pushed from elsewhere (the client-side relay)
// into cookies.
func (c *Client) SetSession(ctx context.Context, sess *Session) error {
	if sess == nil || sess.AccessToken == "" {
		return fmt.Errorf("session has no access token")
	}
	c.persistSession(sess)
	return nil
}

// RefreshSession trades the current refresh token for a new session,
// persists it, and emits TOKEN_REFRESHED.
func (c *Client) RefreshSession(ctx context.Context) (*Session, error) {
	current := c.GetSession()
	if current == nil || current.RefreshToken == "" {
		return nil, fmt.Errorf("no session to refresh")
	}
	sess, err := c.tokenGrant(ctx, "refresh_token", map[string]string{"refresh_token": current.RefreshToken})
	if err != nil {
		return nil, err
	}
	c.persistSession(sess)
	c.emit(TokenRefreshed, sess)
	return sess, nil
}

// Subscribe registers for auth-state transitions. The returned func
// unsubscribes and closes the channel; events that would block are dropped.
func (c *Client) Subscribe() (<-chan Event, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs == nil {
		c.subs = make(map[int]chan Event)
	}
	ch := make(chan Event, 8)
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

func (c *Client) emit(kind EventKind, sess *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- Event{Kind: kind, Session: sess}:
		default:
		}
	}
}

// tokenGrant calls the GoTrue token endpoint with the given grant type.
func (c *Client) tokenGrant(ctx context.Context, grant string, body map[string]string) (*Session, error) {
	req, err := newJSONRequest(ctx, http.MethodPost,
		c.baseURL+"/auth/v1/token?grant_type="+grant, c.anonKey, "", body)
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := doJSON(c.hc, req, &sess); err != nil {
		return nil, err
	}
	if sess.AccessToken == "" {
		return nil, &APIError{Status: http.StatusBadGateway, Message: "provider returned no session"}
	}
	return &sess, nil
}

func (c *Client) chunkName(i int) string {
	return c.cookieName + "." + strconv.Itoa(i)
}

func (c *Client) cookieOpts() cookie.Options {
	return cookie.Options{
		Path:     "/",
		Domain:   c.cookieDomain,
		MaxAge:   cookie.MaxAge(cookieMaxAge),
		SameSite: "Lax",
		Secure:   c.secure,
		HttpOnly: true,
	}
}

// persistSession writes the session as one cookie, or as chunks when the
// payload exceeds maxChunkSize. Whichever form is written, the other form's
// cookies are removed so a shorter payload never leaves stale tails behind.
func (c *Client) persistSession(sess *Session) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	opts := c.cookieOpts()

	if len(payload) <= maxChunkSize {
		c.cookies.Set(c.cookieName, payload, opts)
		c.removeChunks(0, opts)
		return
	}

	var n int
	for i := 0; len(payload) > 0; i++ {
		end := min(maxChunkSize, len(payload))
		c.cookies.Set(c.chunkName(i), payload[:end], opts)
		payload = payload[end:]
		n = i + 1
	}
	c.cookies.Remove(c.cookieName, opts)
	c.removeChunks(n, opts)
}

// clearSession removes the base cookie and every chunk in sight.
func (c *Client) clearSession() {
	opts := c.cookieOpts()
	c.cookies.Remove(c.cookieName, opts)
	c.removeChunks(0, opts)
}

// removeChunks deletes chunk cookies with index >= from: chunks the request
// carried, plus any pending writes from earlier in this request.
func (c *Client) removeChunks(from int, opts cookie.Options) {
	prefix := c.cookieName + "."
	for _, name := range c.cookies.IncomingNames() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if i, err := strconv.Atoi(name[len(prefix):]); err == nil && i >= from {
			c.cookies.Remove(name, opts)
		}
	}
	for i := from; ; i++ {
		if _, ok := c.cookies.Get(c.chunkName(i)); !ok {
			break
		}
		c.cookies.Remove(c.chunkName(i), opts)
	}
}
