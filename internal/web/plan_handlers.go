package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/evcraddock/litetravel/internal/auth"
	"github.com/evcraddock/litetravel/internal/plan"
)

// handlePlans routes /api/plans and /api/plans/{id}.
func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/plans"), "/")
	userID := auth.UserIDFromContext(r.Context())

	if id == "" {
		switch r.Method {
		case http.MethodGet:
			s.apiListPlans(w, userID)
		case http.MethodPost:
			s.apiCreatePlan(w, r, userID)
		default:
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if strings.Contains(id, "/") {
		apiError(w, "not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := s.plans.Get(userID, id)
		if err != nil {
			planError(w, err)
			return
		}
		apiJSON(w, p, http.StatusOK)
	case http.MethodPut:
		s.apiUpdatePlan(w, r, userID, id)
	case http.MethodDelete:
		if err := s.plans.Delete(userID, id); err != nil {
			planError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) apiListPlans(w http.ResponseWriter, userID string) {
	summaries, err := s.plans.List(userID)
	if err != nil {
		planError(w, err)
		return
	}
	apiJSON(w, summaries, http.StatusOK)
}

func (s *Server) apiCreatePlan(w http.ResponseWriter, r *http.Request, userID string) {
	var in plan.Input
	if err := decodeJSON(w, r, &in); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := s.plans.Create(userID, in)
	if err != nil {
		planError(w, err)
		return
	}
	apiJSON(w, p, http.StatusCreated)
}

func (s *Server) apiUpdatePlan(w http.ResponseWriter, r *http.Request, userID, id string) {
	var u plan.Update
	if err := decodeJSON(w, r, &u); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := s.plans.Update(userID, id, u)
	if err != nil {
		planError(w, err)
		return
	}
	apiJSON(w, p, http.StatusOK)
}

// planError maps repository errors to responses.
func planError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, plan.ErrNotFound):
		apiError(w, "plan not found", http.StatusNotFound)
	case errors.Is(err, plan.ErrInvalid):
		apiError(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("plan request failed", "error", err)
		apiError(w, "internal error", http.StatusInternalServerError)
	}
}
