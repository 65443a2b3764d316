// Package web provides the LiteTravel JSON API server.
package web

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/evcraddock/litetravel/internal/analyze"
	"github.com/evcraddock/litetravel/internal/auth"
	"github.com/evcraddock/litetravel/internal/config"
	"github.com/evcraddock/litetravel/internal/favorite"
	"github.com/evcraddock/litetravel/internal/logging"
	"github.com/evcraddock/litetravel/internal/maps"
	"github.com/evcraddock/litetravel/internal/plan"
)

const sessionCleanupInterval = time.Hour

// Server is the API HTTP server.
type Server struct {
	cfg       config.Config
	auth      *auth.Service
	plans     *plan.Repository
	favorites *favorite.Repository
	maps      maps.Provider
	pipeline  *analyze.Pipeline
	limiter   *auth.RateLimiter
	mux       *http.ServeMux
	handler   http.Handler
}

// NewServer creates an API server backed by the given database, map
// provider and analysis pipeline.
func NewServer(db *sql.DB, cfg config.Config, mp maps.Provider, pipeline *analyze.Pipeline) *Server {
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	s := &Server{
		cfg:       cfg,
		auth:      auth.NewService(auth.NewUserStore(db), auth.NewSessionStore(db), tokens),
		plans:     plan.NewRepository(db),
		favorites: favorite.NewRepository(db),
		maps:      mp,
		pipeline:  pipeline,
		limiter:   auth.NewRateLimiter(float64(cfg.RateLimitPerMinute), max(1, cfg.RateLimitPerMinute/3)),
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/config", s.handleConfig)

	s.mux.Handle("/api/auth/register", s.limiter.Limit(http.HandlerFunc(s.handleRegister)))
	s.mux.Handle("/api/auth/login", s.limiter.Limit(http.HandlerFunc(s.handleLogin)))
	s.mux.HandleFunc("/api/auth/logout", s.handleLogout)
	s.mux.HandleFunc("/api/auth/me", s.handleMe)

	s.mux.HandleFunc("/api/plans", s.handlePlans)
	s.mux.HandleFunc("/api/plans/", s.handlePlans)
	s.mux.HandleFunc("/api/favorites", s.handleFavorites)
	s.mux.HandleFunc("/api/favorites/", s.handleFavorites)

	s.mux.Handle("/api/analyze/text", s.limiter.Limit(http.HandlerFunc(s.handleAnalyzeText)))
	s.mux.Handle("/api/analyze/search", s.limiter.Limit(http.HandlerFunc(s.handleAnalyzeSearch)))
	s.mux.HandleFunc("/api/analyze/templates", s.handleAnalyzeTemplates)
	s.mux.HandleFunc("/api/analyze/status", s.handleAnalyzeStatus)

	s.mux.HandleFunc("/api/map/", s.handleMap)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(auth.RequireToken(s.auth, s.mux))

	s.handler = logging.RequestLogger(corsHandler)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured port until ctx is cancelled,
// then shuts down gracefully. Expired sessions are purged at startup and
// hourly while the server runs.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	go s.cleanupSessions(ctx, sessionCleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "app", s.cfg.AppName, "version", s.cfg.AppVersion)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// cleanupSessions deletes expired sessions now and then every interval
// until ctx is done.
func (s *Server) cleanupSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		n, err := s.auth.Sessions.Cleanup()
		if err != nil {
			slog.Error("cleaning up sessions", "error", err)
		} else if n > 0 {
			slog.Info("cleaned up expired sessions", "count", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
