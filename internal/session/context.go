// context.go -- Explicit per-request context for cookie access.
//
// Replaces ambient request-scoped cookie stores with a value that is
// constructed from the inbound request and passed into every bridge call.
// A RequestContext lives for one request/response cycle and is never shared.
package session

import (
	"net/http"

	"github.com/forgetmenot/leafboard/internal/cookie"
)

// Mode selects how a bridge treats cookie writes.
type Mode int

const (
	// ReadOnly is for page renders: reads come from the incoming header,
	// writes are silently dropped. A session nearing expiry during a pure
	// read is NOT refreshed server-side; the client relay is responsible
	// for eventually pushing the refreshed session back.
	ReadOnly Mode = iota

	// Mutating is for actions and route handlers: writes accumulate in a
	// jar that the caller drains into the response.
	Mutating
)

// RequestContext carries the raw incoming Cookie header and the access mode
// for one request.
type RequestContext struct {
	incoming map[string]string
	mode     Mode
}

// NewReadOnly builds a read-only context from the inbound request.
func NewReadOnly(r *http.Request) *RequestContext {
	return &RequestContext{incoming: cookie.Parse(r.Header.Get("Cookie")), mode: ReadOnly}
}

// NewMutating builds a mutating context from the inbound request.
func NewMutating(r *http.Request) *RequestContext {
	return &RequestContext{incoming: cookie.Parse(r.Header.Get("Cookie")), mode: Mutating}
}

// Mode reports the access mode of this context.
func (rc *RequestContext) Mode() Mode { return rc.mode }

// Incoming returns the value of a cookie the client sent, if any.
func (rc *RequestContext) Incoming(name string) (string, bool) {
	v, ok := rc.incoming[name]
	return v, ok
}

// IncomingNames returns the names of every cookie the client sent.
func (rc *RequestContext) IncomingNames() []string {
	names := make([]string, 0, len(rc.incoming))
	for name := range rc.incoming {
		names = append(names, name)
	}
	return names
}
