package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"collabboard/internal/pkg/auth/jwt"
)

const testSecret = "test-secret"

func TestResolveIdentityGuest(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws?username=alice", nil)

	u, ok := resolveIdentity(r, testSecret)
	if !ok {
		t.Fatal("guest with valid username rejected")
	}
	if u.Username != "alice" || u.UserType != "guest" {
		t.Errorf("identity = %+v", u)
	}
}

func TestResolveIdentityToken(t *testing.T) {
	token, err := jwt.GenerateToken(&jwt.Payload{ID: "u1", Username: "alice", UserType: "registered"}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	t.Run("query parameter", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws?token="+token, nil)
		u, ok := resolveIdentity(r, testSecret)
		if !ok || u.UserType != "registered" || u.Username != "alice" || u.ID != "u1" {
			t.Errorf("identity = %+v, ok = %v", u, ok)
		}
	})

	t.Run("authorization header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		u, ok := resolveIdentity(r, testSecret)
		if !ok || u.UserType != "registered" {
			t.Errorf("identity = %+v, ok = %v", u, ok)
		}
	})

	t.Run("token wins over username", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws?token="+token+"&username=bob", nil)
		u, ok := resolveIdentity(r, testSecret)
		if !ok || u.Username != "alice" || u.UserType != "registered" {
			t.Errorf("identity = %+v, ok = %v", u, ok)
		}
	})
}

func TestResolveIdentityRejected(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"no identity at all", "/ws"},
		{"invalid username", "/ws?username=bad%20name"},
		{"empty username", "/ws?username="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if _, ok := resolveIdentity(r, testSecret); ok {
				t.Error("identity resolved from an unusable request")
			}
		})
	}
}

func TestResolveIdentityBadTokenFallsBackToGuest(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws?token=garbage&username=alice", nil)

	u, ok := resolveIdentity(r, testSecret)
	if !ok || u.UserType != "guest" || u.Username != "alice" {
		t.Errorf("identity = %+v, ok = %v", u, ok)
	}
}
