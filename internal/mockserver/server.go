// Package mockserver is a stand-in analysis endpoint that logs every snippet
// it receives
package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/averycrespi/vooshi/internal/reporter"
)

const shutdownTimeout = 10 * time.Second

// AnalyzeResponse acknowledges a received snippet
type AnalyzeResponse struct {
	Status     string `json:"status"`
	ReceivedAt string `json:"receivedAt"`
}

// Server is the mock analysis HTTP server
type Server struct {
	router chi.Router
	log    *slog.Logger
	now    func() time.Time
}

// NewServer creates the server and its routes
func NewServer(log *slog.Logger) *Server {
	s := &Server{
		log: log,
		now: time.Now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Post(reporter.AnalyzePath, s.handleAnalyze)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var payload reporter.AnalysisPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		jsonError(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}

	s.log.Info("received snippet",
		"request_id", middleware.GetReqID(r.Context()),
		"filename", payload.Filename,
		"is_function", payload.IsFunction,
		"cursor_line", payload.RelativeCursor.Line,
		"cursor_character", payload.RelativeCursor.Character,
		"snippet", payload.Snippet,
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(AnalyzeResponse{
		Status:     "ok",
		ReceivedAt: s.now().UTC().Format(time.RFC3339),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Run serves on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	s.log.Info("mock analysis server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mock server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down mock analysis server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down mock server: %w", err)
	}
	return nil
}

// ListenAndRun listens on the TCP port and calls Run
func (s *Server) ListenAndRun(ctx context.Context, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	return s.Run(ctx, ln)
}
