package supabase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestSessionClaims(t *testing.T) {
	t.Run("extracts subject, email, and expiry", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		s := &Session{AccessToken: signedToken(t, jwt.MapClaims{
			"sub":   "user-1",
			"email": "leaf@example.com",
			"exp":   exp.Unix(),
		})}

		claims, err := s.Claims()
		if err != nil {
			t.Fatalf("Claims: %v", err)
		}
		if claims.Subject != "user-1" {
			t.Errorf("Subject = %q", claims.Subject)
		}
		if claims.Email != "leaf@example.com" {
			t.Errorf("Email = %q", claims.Email)
		}
		if !claims.ExpiresAt.Equal(exp) {
			t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, exp)
		}
	})

	t.Run("nil session errors", func(t *testing.T) {
		var s *Session
		if _, err := s.Claims(); err == nil {
			t.Error("expected error for nil session")
		}
	})

	t.Run("garbage token errors", func(t *testing.T) {
		s := &Session{AccessToken: "not.a.jwt"}
		if _, err := s.Claims(); err == nil {
			t.Error("expected error for garbage token")
		}
	})
}
