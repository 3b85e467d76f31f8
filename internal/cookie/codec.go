// codec.go -- Cookie header parsing and Set-Cookie serialization.
//
// Pure functions, no I/O, no shared state; safe to call concurrently
// from multiple requests.
package cookie

import (
	"net/url"
	"strconv"
	"strings"
)

// Options are the attributes attached to an outgoing cookie.
//
// MaxAge is a pointer so "unset" and "0" stay distinct: Max-Age=0 is how a
// deletion reaches the browser, and omitting it would silently leave the
// cookie alive.
type Options struct {
	Path     string
	Domain   string
	MaxAge   *int
	SameSite string // "Lax", "Strict", or "None"
	Secure   bool
	HttpOnly bool
}

// MaxAge returns an Options MaxAge pointer for n seconds.
func MaxAge(n int) *int { return &n }

// Entry is one pending outgoing cookie: a name, a value, and its attributes.
type Entry struct {
	Name  string
	Value string
	Opts  Options
}

// Parse splits a Cookie request header into name/value pairs.
// Segments without '=' are skipped, not fatal. Values are URL-decoded;
// if decoding fails the raw value is kept rather than dropping the cookie.
func Parse(header string) map[string]string {
	out := make(map[string]string)
	for _, segment := range strings.Split(header, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		name, raw, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		value, err := url.QueryUnescape(raw)
		if err != nil {
			value = raw
		}
		out[name] = value
	}
	return out
}

// Serialize renders a single Set-Cookie header value for the entry.
// Attributes appear in a stable order: Path, Domain, Max-Age, SameSite,
// Secure, HttpOnly. A MaxAge of 0 is always emitted.
func Serialize(e Entry) string {
	var b strings.Builder
	b.WriteString(e.Name)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(e.Value))

	if e.Opts.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(e.Opts.Path)
	}
	if e.Opts.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(e.Opts.Domain)
	}
	if e.Opts.MaxAge != nil {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(*e.Opts.MaxAge))
	}
	if e.Opts.SameSite != "" {
		b.WriteString("; SameSite=")
		b.WriteString(e.Opts.SameSite)
	}
	if e.Opts.Secure {
		b.WriteString("; Secure")
	}
	if e.Opts.HttpOnly {
		b.WriteString("; HttpOnly")
	}
	return b.String()
}
