// session.go -- The opaque session bundle and access-token claim extraction.
package supabase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the token bundle issued by GoTrue. The bridge never interprets
// these fields; they round-trip through the cookie payload as-is. User stays
// a raw message so provider fields we don't model survive the round trip.
type Session struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type,omitempty"`
	ExpiresIn    int64           `json:"expires_in,omitempty"`
	ExpiresAt    int64           `json:"expires_at,omitempty"`
	User         json.RawMessage `json:"user,omitempty"`
}

// TokenClaims are the display-relevant claims of a Supabase access token.
type TokenClaims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// Claims extracts claims from the session's access token without verifying
// the signature. Verification belongs to the provider; this is for rendering
// (who is signed in, when the token expires), never for authorization.
func (s *Session) Claims() (*TokenClaims, error) {
	if s == nil || s.AccessToken == "" {
		return nil, fmt.Errorf("no access token")
	}
	token, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("parsing access token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}

	out := &TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
