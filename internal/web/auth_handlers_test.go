package web

import (
	"net/http"
	"testing"

	"github.com/evcraddock/litetravel/internal/auth"
)

func TestRegister(t *testing.T) {
	srv := testServer(t)

	w := apiRequest(t, srv, "POST", "/api/auth/register", "", map[string]string{
		"email": "Traveler@Example.com", "password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp tokenResponse
	decodeBody(t, w, &resp)
	if resp.AccessToken == "" || resp.TokenType != "bearer" {
		t.Errorf("response = %+v", resp)
	}
	if resp.User == nil || resp.User.Email != "traveler@example.com" {
		t.Errorf("user = %+v", resp.User)
	}

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"duplicate email", map[string]string{"email": "traveler@example.com", "password": "secret123"}, http.StatusConflict},
		{"bad email", map[string]string{"email": "nope", "password": "secret123"}, http.StatusBadRequest},
		{"short password", map[string]string{"email": "b@example.com", "password": "123"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := apiRequest(t, srv, "POST", "/api/auth/register", "", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}

	if w := apiRequest(t, srv, "POST", "/api/auth/register", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("empty body status = %d, want 400", w.Code)
	}
	if w := apiRequest(t, srv, "GET", "/api/auth/register", "", nil); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", w.Code)
	}
}

func TestLoginMeLogout(t *testing.T) {
	srv := testServer(t)
	registerUser(t, srv, "a@example.com")

	w := apiRequest(t, srv, "POST", "/api/auth/login", "", map[string]string{
		"email": "a@example.com", "password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d, want 401", w.Code)
	}

	w = apiRequest(t, srv, "POST", "/api/auth/login", "", map[string]string{
		"email": "A@example.com", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	var resp tokenResponse
	decodeBody(t, w, &resp)

	w = apiRequest(t, srv, "GET", "/api/auth/me", resp.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d", w.Code)
	}
	var me auth.User
	decodeBody(t, w, &me)
	if me.Email != "a@example.com" || !me.IsActive {
		t.Errorf("me = %+v", me)
	}

	w = apiRequest(t, srv, "POST", "/api/auth/logout", resp.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}

	if w := apiRequest(t, srv, "GET", "/api/auth/me", resp.AccessToken, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("me after logout status = %d, want 401", w.Code)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	srv := testServer(t)
	registerUser(t, srv, "gone@example.com")

	u, err := srv.auth.Users.Authenticate("gone@example.com", "secret123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := srv.auth.Users.SetActive(u.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	w := apiRequest(t, srv, "POST", "/api/auth/login", "", map[string]string{
		"email": "gone@example.com", "password": "secret123",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
