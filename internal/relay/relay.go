// relay.go -- Client-side auth event relay.
//
// Subscribes to an auth client's state transitions and forwards each one to
// the dashboard's session endpoint so the server-held cookies track the
// client-held session. Fire-and-forget: a failed sync is logged and dropped,
// never retried, and never blocks the refresh decision -- a user must not be
// trapped on stale UI because a POST failed.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"sync"

	"github.com/forgetmenot/leafboard/internal/supabase"
)

// Notifier is the auth-state change stream. Satisfied by *supabase.Client.
type Notifier interface {
	Subscribe() (<-chan supabase.Event, func())
}

// Relay forwards auth-state transitions to the session endpoint and triggers
// a refresh when the access token changes.
type Relay struct {
	endpoint  string // absolute URL of the session sync endpoint
	hc        *http.Client
	refresh   func() // reloads server-rendered state; never nil after New
	lastToken string

	wg sync.WaitGroup
}

// New builds a relay. renderedToken is the access token the current view was
// rendered with (empty when signed out); refresh is invoked whenever an event
// carries a different token.
func New(endpoint, renderedToken string, refresh func()) *Relay {
	jar, _ := cookiejar.New(nil)
	if refresh == nil {
		refresh = func() {}
	}
	return &Relay{
		endpoint:  endpoint,
		hc:        &http.Client{Jar: jar},
		refresh:   refresh,
		lastToken: renderedToken,
	}
}

// Start subscribes to the notifier and relays events until ctx is done.
// One subscription per relay; Stop (or ctx cancellation) tears it down.
func (r *Relay) Start(ctx context.Context, n Notifier) {
	events, unsub := n.Subscribe()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer unsub()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				r.handle(ctx, ev)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Wait blocks until the relay goroutine has exited.
func (r *Relay) Wait() { r.wg.Wait() }

// handle posts the event, then acts on the reload decision. The POST is
// issued first, but its outcome does not gate the refresh.
func (r *Relay) handle(ctx context.Context, ev supabase.Event) {
	if err := r.post(ctx, ev); err != nil {
		slog.Warn("session sync failed", "event", ev.Kind, "err", err)
	}

	token := ""
	if ev.Session != nil {
		token = ev.Session.AccessToken
	}
	if token != r.lastToken {
		r.lastToken = token
		r.refresh()
	}
}

func (r *Relay) post(ctx context.Context, ev supabase.Event) error {
	body, err := json.Marshal(struct {
		Event   supabase.EventKind `json:"event"`
		Session *supabase.Session  `json:"session"`
	}{ev.Kind, ev.Session})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	// The client's own cookie jar plays the browser's credentials:include.
	resp, err := r.hc.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
