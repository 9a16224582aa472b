package utils

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Parallel()

	secret := "super-secret"
	token, exp, err := NewSessionToken(secret, 42, "alice", "admin", 24)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	if until := time.Until(exp); until > 24*time.Hour || until < 23*time.Hour {
		t.Fatalf("expiry out of range: %v", exp)
	}

	claims, err := ParseSessionToken(secret, token)
	if err != nil {
		t.Fatalf("ParseSessionToken error: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || claims.Role != "admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseSessionToken_Expired(t *testing.T) {
	t.Parallel()

	token, _, err := NewSessionToken("k", 7, "bob", "viewer", -1)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	_, err = ParseSessionToken("k", token)
	if err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewSessionToken("right-secret", 7, "bob", "viewer", 1)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	_, err = ParseSessionToken("wrong-secret", token)
	if err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseSessionToken_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseSessionToken("k", "not.a.jwt"); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseSessionToken_MissingRole(t *testing.T) {
	t.Parallel()

	// A token without a role claim must be rejected, not defaulted: the
	// access policy would otherwise fail open downstream.
	token, _, err := NewSessionToken("k", 7, "bob", "", 1)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	if _, err := ParseSessionToken("k", token); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
