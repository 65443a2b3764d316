package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/evcraddock/litetravel/internal/analyze"
)

const (
	maxAnalyzeTitle   = 200
	maxAnalyzeContent = 5000
	defaultAnalyzeN   = 5
	maxAnalyzeN       = 20
)

type analyzeTextRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Location    string   `json:"location"`
	City        string   `json:"city"`
	ContentType string   `json:"content_type"`
}

type analyzeSearchRequest struct {
	Keyword  string `json:"keyword"`
	City     string `json:"city"`
	Source   string `json:"source"`
	Limit    int    `json:"limit"`
	Template string `json:"template"`
}

type analyzeTextResponse struct {
	Success bool            `json:"success"`
	Data    *analyze.Result `json:"data"`
	Error   string          `json:"error,omitempty"`
}

type analyzeSearchResponse struct {
	Success bool           `json:"success"`
	Data    *analyze.Batch `json:"data"`
}

func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req analyzeTextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if n := utf8.RuneCountInString(req.Title); n == 0 || n > maxAnalyzeTitle {
		apiError(w, "title must be 1-200 characters", http.StatusBadRequest)
		return
	}
	if utf8.RuneCountInString(req.Content) > maxAnalyzeContent {
		apiError(w, "content must be at most 5000 characters", http.StatusBadRequest)
		return
	}

	note := analyze.TextNote(req.Title, req.Content, req.Tags, req.Location, req.City,
		analyze.ParseContentType(req.ContentType))
	res := s.pipeline.ProcessNote(r.Context(), note, "")
	apiJSON(w, analyzeTextResponse{Success: res.Error == "", Data: &res, Error: res.Error}, http.StatusOK)
}

func (s *Server) handleAnalyzeSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req analyzeSearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Keyword = strings.TrimSpace(req.Keyword)
	if req.Keyword == "" {
		apiError(w, "keyword is required", http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = string(analyze.SourceMock)
	}
	if req.Limit == 0 {
		req.Limit = defaultAnalyzeN
	}
	if req.Limit < 1 || req.Limit > maxAnalyzeN {
		apiError(w, "limit must be between 1 and 20", http.StatusBadRequest)
		return
	}

	batch, err := s.pipeline.FetchAndProcess(r.Context(), analyze.SourceType(strings.ToLower(req.Source)),
		req.Keyword, req.City, req.Limit, req.Template)
	switch {
	case errors.Is(err, analyze.ErrUnknownSource), errors.Is(err, analyze.ErrUnknownTemplate):
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		slog.Error("analyze search failed", "keyword", req.Keyword, "error", err)
		apiError(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	apiJSON(w, analyzeSearchResponse{Success: batch.SuccessCount > 0, Data: batch}, http.StatusOK)
}

func (s *Server) handleAnalyzeTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	templates := analyze.Templates()
	names := make([]string, 0, len(templates))
	descriptions := make(map[string]string, len(templates))
	for _, t := range templates {
		names = append(names, t.Name)
		descriptions[t.Name] = t.Description
	}
	apiJSON(w, map[string]any{"templates": names, "descriptions": descriptions}, http.StatusOK)
}

func (s *Server) handleAnalyzeStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	apiJSON(w, s.pipeline.Status(), http.StatusOK)
}
