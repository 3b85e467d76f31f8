// bridge.go -- The cookie accessor handed to the auth client's storage adapter.
//
// One abstraction, parameterized by mode, instead of per-call-site variants.
// The bridge mediates between "what the client sent" (RequestContext) and
// "what we are about to send" (cookie.Jar): reads prefer pending writes so a
// mutating handler sees its own updates; read-only renders can never touch
// response headers that are already committed.
package session

import (
	"net/http"

	"github.com/forgetmenot/leafboard/internal/cookie"
)

// Bridge exposes the get/set/remove triple for one request.
type Bridge struct {
	rc  *RequestContext
	jar *cookie.Jar
}

// NewBridge builds a bridge over the given request context. Mutating bridges
// get a fresh, empty jar; read-only bridges carry no jar at all.
func NewBridge(rc *RequestContext) *Bridge {
	b := &Bridge{rc: rc}
	if rc.Mode() == Mutating {
		b.jar = cookie.NewJar()
	}
	return b
}

// Get returns the effective value of a cookie: a pending write if one exists,
// otherwise the value the client sent.
func (b *Bridge) Get(name string) (string, bool) {
	if b.jar != nil {
		if v, ok := b.jar.Get(name); ok {
			return v, true
		}
	}
	return b.rc.Incoming(name)
}

// Set records a cookie write. In ReadOnly mode it is a no-op: a session
// refresh attempted by the auth client during a pure render must not mutate
// headers.
func (b *Bridge) Set(name, value string, opts cookie.Options) {
	if b.jar == nil {
		return
	}
	b.jar.Set(name, value, opts)
}

// Remove records a cookie deletion. No-op in ReadOnly mode.
func (b *Bridge) Remove(name string, opts cookie.Options) {
	if b.jar == nil {
		return
	}
	b.jar.Remove(name, opts)
}

// IncomingNames returns the names of every cookie the client sent, so the
// auth client can clear stale chunks it did not write this request.
func (b *Bridge) IncomingNames() []string { return b.rc.IncomingNames() }

// Pending reports how many writes are waiting to be drained.
func (b *Bridge) Pending() int {
	if b.jar == nil {
		return 0
	}
	return b.jar.Len()
}

// Drain flushes pending writes as Set-Cookie headers on w. Callers of a
// mutating bridge must drain exactly once, after the auth call completes and
// before the response body is written. Draining a read-only bridge is a no-op.
func (b *Bridge) Drain(w http.ResponseWriter) error {
	if b.jar == nil {
		return nil
	}
	return b.jar.DrainInto(w)
}
