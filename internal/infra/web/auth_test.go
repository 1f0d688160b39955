//go:build !integration

package web_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"consulta-vehicular/internal/infra/web"
)

func TestAuthManager_RoundTrip(t *testing.T) {
	am := web.NewAuthManager("test-secret", time.Hour)

	token, err := am.Issue("user-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	userID, err := am.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}
}

func TestAuthManager_RejectsForeignSignature(t *testing.T) {
	am := web.NewAuthManager("secret-a", time.Hour)
	other := web.NewAuthManager("secret-b", time.Hour)

	token, err := other.Issue("user-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := am.Validate(token); err == nil {
		t.Fatal("expected rejection of a token signed with another secret")
	}
}

func TestAuthManager_FromRequest(t *testing.T) {
	am := web.NewAuthManager("test-secret", time.Hour)
	token, err := am.Issue("user-7")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/uso", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		userID, err := am.FromRequest(r)
		if err != nil || userID != "user-7" {
			t.Fatalf("expected user-7, got %q err=%v", userID, err)
		}
	})

	t.Run("session cookie", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/uso", nil)
		r.AddCookie(am.SessionCookie(token))
		userID, err := am.FromRequest(r)
		if err != nil || userID != "user-7" {
			t.Fatalf("expected user-7, got %q err=%v", userID, err)
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/uso", nil)
		if _, err := am.FromRequest(r); err == nil {
			t.Fatal("expected an error without credentials")
		}
	})
}
