package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/evcraddock/litetravel/internal/auth"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        *auth.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, u, err := s.auth.Register(req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		apiError(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, auth.ErrInvalidInput):
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		slog.Error("registering user", "error", err)
		apiError(w, "registration failed", http.StatusInternalServerError)
		return
	}

	slog.Info("user registered", "user_id", u.ID)
	apiJSON(w, tokenResponse{AccessToken: token, TokenType: "bearer", User: u}, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, u, err := s.auth.Login(req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		apiError(w, err.Error(), http.StatusUnauthorized)
		return
	case err != nil:
		slog.Error("logging in", "error", err)
		apiError(w, "login failed", http.StatusInternalServerError)
		return
	}

	apiJSON(w, tokenResponse{AccessToken: token, TokenType: "bearer", User: u}, http.StatusOK)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.auth.Logout(auth.SessionIDFromContext(r.Context())); err != nil {
		slog.Error("logging out", "error", err)
		apiError(w, "logout failed", http.StatusInternalServerError)
		return
	}
	apiJSON(w, map[string]bool{"logged_out": true}, http.StatusOK)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	u, err := s.auth.Users.GetByID(auth.UserIDFromContext(r.Context()))
	if errors.Is(err, auth.ErrUserNotFound) {
		apiError(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("loading user", "error", err)
		apiError(w, "loading user failed", http.StatusInternalServerError)
		return
	}
	apiJSON(w, u, http.StatusOK)
}
