// jar.go -- Per-request accumulator of pending cookie writes.
//
// A Jar is created empty at request start, filled while the handler runs,
// drained exactly once into the response, then discarded. It is never shared
// across requests, so no locking is needed.
package cookie

import (
	"errors"
	"net/http"
)

// ErrDrained is returned when a Jar is drained twice.
var ErrDrained = errors.New("cookie jar already drained")

// Jar accumulates outgoing cookies for one request. Last write per name wins;
// insertion order is preserved for the drain.
type Jar struct {
	order   []string
	entries map[string]Entry
	drained bool
}

// NewJar returns an empty Jar.
func NewJar() *Jar {
	return &Jar{entries: make(map[string]Entry)}
}

// Get returns the pending write for name, if any. It deliberately does NOT
// fall back to the incoming request header -- that read belongs to the
// request context, not the jar.
func (j *Jar) Get(name string) (string, bool) {
	e, ok := j.entries[name]
	if !ok {
		return "", false
	}
	return e.Value, true
}

// Set records a pending write for name, overwriting any prior one.
func (j *Jar) Set(name, value string, opts Options) {
	if _, ok := j.entries[name]; !ok {
		j.order = append(j.order, name)
	}
	j.entries[name] = Entry{Name: name, Value: value, Opts: opts}
}

// Remove records a deletion: an empty value with Max-Age=0. The deletion must
// still reach the browser as a Set-Cookie header, so it is a write, not an
// erasure of pending state.
func (j *Jar) Remove(name string, opts Options) {
	opts.MaxAge = MaxAge(0)
	j.Set(name, "", opts)
}

// Len reports the number of pending writes.
func (j *Jar) Len() int { return len(j.order) }

// DrainInto applies every pending entry as a Set-Cookie header on w, in
// insertion order. The jar must not be reused afterwards; a second call
// returns ErrDrained.
func (j *Jar) DrainInto(w http.ResponseWriter) error {
	if j.drained {
		return ErrDrained
	}
	j.drained = true
	for _, name := range j.order {
		w.Header().Add("Set-Cookie", Serialize(j.entries[name]))
	}
	return nil
}
