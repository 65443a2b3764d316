package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testService(t *testing.T) *Service {
	t.Helper()
	d := testDB(t)
	return NewService(NewUserStore(d), NewSessionStore(d), NewTokenIssuer([]byte("test"), time.Hour))
}

func TestRequireToken(t *testing.T) {
	svc := testService(t)
	token, u, err := svc.Register("bob@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	var gotUser string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireToken(svc, inner)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"protected without token", "/api/plans", "", http.StatusUnauthorized},
		{"protected with bad token", "/api/plans", "Bearer nope", http.StatusUnauthorized},
		{"protected with basic auth", "/api/plans", "Basic abc", http.StatusUnauthorized},
		{"protected with token", "/api/plans", "Bearer " + token, http.StatusOK},
		{"login is public", "/api/auth/login", "", http.StatusOK},
		{"register is public", "/api/auth/register", "", http.StatusOK},
		{"config is public", "/api/config", "", http.StatusOK},
		{"map is public", "/api/map/search", "", http.StatusOK},
		{"analyze is public", "/api/analyze/search", "", http.StatusOK},
		{"me is protected", "/api/auth/me", "", http.StatusUnauthorized},
		{"health is public", "/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if w.Code == http.StatusUnauthorized && !strings.Contains(w.Body.String(), `"error"`) {
				t.Errorf("body = %q, want JSON error", w.Body.String())
			}
		})
	}

	r := httptest.NewRequest("GET", "/api/plans", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), r)
	if gotUser != u.ID {
		t.Errorf("user in context = %q, want %q", gotUser, u.ID)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 3)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rl.Limit(inner)

	for i := 0; i < 3; i++ {
		r := httptest.NewRequest("POST", "/api/auth/login", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}

	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "10.0.0.1:5678"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}

	r = httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("other IP status = %d, want 200", w.Code)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.168.1.5:4321"
	if got := ClientIP(r); got != "192.168.1.5" {
		t.Errorf("ClientIP = %q", got)
	}
	r.RemoteAddr = "weird"
	if got := ClientIP(r); got != "weird" {
		t.Errorf("ClientIP = %q", got)
	}
}
