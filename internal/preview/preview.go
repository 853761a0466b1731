package preview

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Server serves a built publish directory locally so the site can be
// inspected before it is deployed
type Server struct {
	dir    string
	addr   string
	router *chi.Mux
	http   *http.Server
}

// New creates a preview server for the given publish directory
func New(dir, host string, port int) (*Server, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("publish directory does not exist: %s (run the build first)", dir)
		}
		return nil, fmt.Errorf("failed to read publish directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("publish path is not a directory: %s", dir)
	}

	s := &Server{
		dir:    dir,
		addr:   fmt.Sprintf("%s:%d", host, port),
		router: chi.NewRouter(),
	}
	s.setupRoutes()

	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(RequestLogger)
	s.router.Use(CORSMiddleware())
	s.router.Use(middleware.RealIP)

	s.router.Get("/healthz", s.healthCheck)
	s.router.Handle("/*", http.HandlerFunc(s.serveFile))
}

// serveFile resolves a request path inside the publish directory.
// Directories resolve to their index.html, and extensionless paths
// with no matching file fall back to the root index.html so
// client-side routers keep working.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	target := filepath.Join(s.dir, filepath.FromSlash(rel))

	info, err := os.Stat(target)
	switch {
	case err == nil && !info.IsDir():
		http.ServeFile(w, r, target)
		return
	case err == nil && info.IsDir():
		index := filepath.Join(target, "index.html")
		if fileExists(index) {
			http.ServeFile(w, r, index)
			return
		}
	default:
		if path.Ext(r.URL.Path) == "" {
			index := filepath.Join(s.dir, "index.html")
			if fileExists(index) {
				http.ServeFile(w, r, index)
				return
			}
		}
	}

	RespondWithError(w, http.StatusNotFound, fmt.Sprintf("no such file: %s", r.URL.Path))
}

// healthCheck handles GET /healthz
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Dir:    s.dir,
	})
}

// Handler returns the http.Handler for the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.addr
}

// Start begins serving and blocks until the server is shut down
func (s *Server) Start() error {
	log.Info().
		Str("addr", s.addr).
		Str("dir", s.dir).
		Msg("Preview server listening")

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("preview server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
