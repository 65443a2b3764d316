package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/evcraddock/litetravel/internal/auth"
	"github.com/evcraddock/litetravel/internal/favorite"
	"github.com/evcraddock/litetravel/internal/trip"
)

// handleFavorites routes /api/favorites, /api/favorites/grouped and
// /api/favorites/{id}.
func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/favorites"), "/")
	userID := auth.UserIDFromContext(r.Context())

	switch {
	case rest == "":
		switch r.Method {
		case http.MethodGet:
			favs, err := s.favorites.List(userID, trip.NodeType(r.URL.Query().Get("type")))
			if err != nil {
				favoriteError(w, err)
				return
			}
			apiJSON(w, favs, http.StatusOK)
		case http.MethodPost:
			s.apiAddFavorite(w, r, userID)
		default:
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		}

	case rest == "grouped":
		if r.Method != http.MethodGet {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		g, err := s.favorites.Grouped(userID)
		if err != nil {
			favoriteError(w, err)
			return
		}
		apiJSON(w, g, http.StatusOK)

	case !strings.Contains(rest, "/"):
		if r.Method != http.MethodDelete {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := s.favorites.Delete(userID, rest); err != nil {
			favoriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		apiError(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) apiAddFavorite(w http.ResponseWriter, r *http.Request, userID string) {
	var in favorite.Input
	if err := decodeJSON(w, r, &in); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	f, err := s.favorites.Add(userID, in)
	if err != nil {
		favoriteError(w, err)
		return
	}
	apiJSON(w, f, http.StatusCreated)
}

// favoriteError maps repository errors to responses.
func favoriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, favorite.ErrNotFound):
		apiError(w, "favorite not found", http.StatusNotFound)
	case errors.Is(err, favorite.ErrDuplicate):
		apiError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, favorite.ErrInvalid):
		apiError(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("favorite request failed", "error", err)
		apiError(w, "internal error", http.StatusInternalServerError)
	}
}
