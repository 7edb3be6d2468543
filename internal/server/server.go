// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: every dependency — database, session store,
// verifier, services, handlers — is created and wired here, in one place,
// rather than scattered across the codebase.
//
// DEPENDENCY CHAIN:
//
//	sqlite.DB ─┬─→ AuthService ─┬─→ AuthHandler
//	           │      ↑         └─→ TaskHandler
//	           │  session.Store      ↑
//	           └─→ TaskService ──────┘
//
// Handlers never touch the database; services never touch HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/taskora/internal/auth"
	"github.com/sakif/taskora/internal/handler"
	"github.com/sakif/taskora/internal/middleware"
	sqliteRepo "github.com/sakif/taskora/internal/repository/sqlite"
	"github.com/sakif/taskora/internal/service"
	"github.com/sakif/taskora/internal/session"
)

// Config holds server configuration, loaded from env vars in main.go.
type Config struct {
	Port        int
	DBPath      string // path to the SQLite database file
	SessionPath string // path to the persisted session slot
	AuthMode    string // "plaintext" (inherited default) or "bcrypt"
}

// Server owns the HTTP router and the resources behind it. The database
// connection is closed during graceful shutdown — it flushes the WAL and
// releases the file lock.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the entire dependency chain and returns a ready Server.
//
// The database and session directory are created here, at startup — if the
// paths are unusable the process fails now, not on the first request.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sessions, err := session.New(cfg.SessionPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	// The verifier seam: default is the inherited plaintext scheme;
	// AUTH_MODE=bcrypt swaps in hashed storage without touching any caller.
	var verifier auth.Verifier
	switch cfg.AuthMode {
	case "", "plaintext":
		verifier = auth.PlaintextVerifier{}
		logger.Warn("passwords are stored in plaintext; set AUTH_MODE=bcrypt for new deployments")
	case "bcrypt":
		verifier = auth.NewBcryptVerifier()
	default:
		db.Close()
		return nil, fmt.Errorf("unknown AUTH_MODE %q (want plaintext or bcrypt)", cfg.AuthMode)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes(sessions, verifier)

	return s, nil
}

// setupRoutes configures middleware and registers every route.
//
// ROUTE MAP:
//
//	POST   /api/auth/signup            register + log in
//	POST   /api/auth/login             log in
//	POST   /api/auth/logout            log out
//	GET    /api/auth/me                current session
//	GET    /api/tasks[?category=X]     list tasks (newest first)
//	POST   /api/tasks                  create task
//	GET    /api/tasks/overview         active/completed split
//	GET    /api/tasks/{id}             single task
//	PUT    /api/tasks/{id}             update task
//	PATCH  /api/tasks/{id}/completed   toggle done flag
//	DELETE /api/tasks/{id}             delete task
//	GET    /api/categories             per-category counts
//	GET    /healthz                    liveness probe
func (s *Server) setupRoutes(sessions *session.Store, verifier auth.Verifier) {
	// Middleware runs in registration order on every request.
	s.router.Use(chimiddleware.RequestID) // Adds X-Request-ID header
	s.router.Use(chimiddleware.RealIP)    // Extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // Recovers from panics, returns 500
	s.router.Use(middleware.Logger(s.logger))

	authService := service.NewAuthService(s.db, sessions, verifier, s.logger)
	taskService := service.NewTaskService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	taskHandler := handler.NewTaskHandler(taskService, authService, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Get("/auth/me", authHandler.HandleMe)

		r.Get("/tasks", taskHandler.HandleList)
		r.Post("/tasks", taskHandler.HandleCreate)
		r.Get("/tasks/overview", taskHandler.HandleOverview)
		r.Get("/tasks/{id}", taskHandler.HandleGet)
		r.Put("/tasks/{id}", taskHandler.HandleUpdate)
		r.Patch("/tasks/{id}/completed", taskHandler.HandleSetCompleted)
		r.Delete("/tasks/{id}", taskHandler.HandleDelete)

		r.Get("/categories", taskHandler.HandleCategories)
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, wait (up to 30s) for in-flight
// requests, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("db", s.config.DBPath),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		s.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
