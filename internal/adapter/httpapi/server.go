// Package httpapi exposes the agent over HTTP: streamed chat runs, workspace
// uploads and downloads, the search endpoint and the code session reset.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"crew-agent/internal/application/port/input"
	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
	"crew-agent/internal/infrastructure/workspace"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

const (
	serviceName       = "crew-agent"
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
	maxUploadMemory   = 32 << 20
)

// GoalRunner executes goals. Validate rejects a goal before anything is
// streamed.
type GoalRunner interface {
	input.TaskExecutor
	Validate(goal entity.Goal) error
}

// CodeSession is the persistent interpreter shared by the python tool.
type CodeSession interface {
	Reset()
}

type Dependencies struct {
	Runner    GoalRunner
	Search    output.SearchPort
	Reader    output.PageReader
	Workspace *workspace.Workspace
	Session   CodeSession
	Metrics   http.Handler
	Logger    output.LoggerPort
	// AccessLog enables per-request logging through httplog.
	AccessLog bool
}

type Server struct {
	runner    GoalRunner
	search    output.SearchPort
	reader    output.PageReader
	workspace *workspace.Workspace
	session   CodeSession
	logger    output.LoggerPort
	router    chi.Router
}

func NewServer(deps Dependencies) *Server {
	s := &Server{
		runner:    deps.Runner,
		search:    deps.Search,
		reader:    deps.Reader,
		workspace: deps.Workspace,
		session:   deps.Session,
		logger:    deps.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if deps.AccessLog {
		r.Use(httplog.RequestLogger(httplog.NewLogger(serviceName, httplog.Options{JSON: true, Concise: true})))
	}
	r.Use(middleware.Recoverer, allowAnyOrigin)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Post("/agent-chat", s.handleAgentChat)
	r.Post("/upload", s.handleUpload)
	r.Get("/workspace/{filename}", s.handleWorkspaceFile)
	if s.search != nil {
		r.Post("/web_search", s.handleWebSearch)
	}
	if s.session != nil {
		r.Post("/code-session/reset", s.handleSessionReset)
	}

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// handleSessionReset drops every variable the python tool defined in
// earlier runs.
func (s *Server) handleSessionReset(w http.ResponseWriter, _ *http.Request) {
	s.session.Reset()
	s.logger.Info("Code session reset")
	writeJSON(w, http.StatusOK, messageResponse{Message: "Code session reset"})
}

func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}
