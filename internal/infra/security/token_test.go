package security

import (
	"errors"
	"testing"
	"time"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	manager, err := NewTokenManager("test-secret", "communityheroes", time.Minute)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	raw, err := manager.Issue("u-1", "Admin One", "super-admin", []string{"roles.manage"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := manager.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u-1" || claims.RoleSlug != "super-admin" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Subject != "u-1" || claims.Issuer != "communityheroes" {
		t.Errorf("registered claims = %+v", claims.RegisteredClaims)
	}
	if len(claims.Permissions) != 1 || claims.Permissions[0] != "roles.manage" {
		t.Errorf("permissions = %v", claims.Permissions)
	}
}

func TestTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", "communityheroes", time.Minute); err == nil {
		t.Error("empty secret must be rejected")
	}
}

func TestTokenManagerExpiredToken(t *testing.T) {
	manager, err := NewTokenManager("test-secret", "communityheroes", -time.Minute)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	// Negative ttl falls back to the default, so force expiry with a tiny ttl.
	manager.ttl = -time.Minute

	raw, err := manager.Issue("u-1", "Admin One", "super-admin", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := manager.Parse(raw); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("got %v, want ErrTokenExpired", err)
	}
}

func TestTokenManagerWrongSecret(t *testing.T) {
	issuer, err := NewTokenManager("secret-a", "communityheroes", time.Minute)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	verifier, err := NewTokenManager("secret-b", "communityheroes", time.Minute)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	raw, err := issuer.Issue("u-1", "Admin One", "super-admin", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Parse(raw); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}

func TestTokenManagerGarbageInput(t *testing.T) {
	manager, err := NewTokenManager("test-secret", "communityheroes", time.Minute)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := manager.Parse("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}
