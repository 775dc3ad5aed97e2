package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/todoevolve/server/internal/auth"
	"github.com/todoevolve/server/internal/chat"
	"github.com/todoevolve/server/internal/metrics"
	"github.com/todoevolve/server/internal/store"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// Server is the TodoEvolve HTTP API.
type Server struct {
	httpServer  *http.Server
	store       *store.Store
	auth        *auth.Authenticator
	engine      *chat.Engine
	metrics     *metrics.Metrics
	chatLimiter *limiterPool
	logger      *slog.Logger
	host        string
	port        int
}

// NewServer wires the router and handlers.
func NewServer(st *store.Store, authenticator *auth.Authenticator, engine *chat.Engine,
	m *metrics.Metrics, host string, port int, chatRPS float64, chatBurst int, logger *slog.Logger) *Server {

	s := &Server{
		store:       st,
		auth:        authenticator,
		engine:      engine,
		metrics:     m,
		chatLimiter: newLimiterPool(chatRPS, chatBurst),
		logger:      logger,
		host:        host,
		port:        port,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/api/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	r.Post("/api/auth/register", s.handleRegister)
	r.Post("/api/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/api/tasks", s.handleListTasks)
		r.Post("/api/tasks", s.handleCreateTask)
		r.Get("/api/tasks/{id}", s.handleGetTask)
		r.Put("/api/tasks/{id}", s.handleUpdateTask)
		r.Delete("/api/tasks/{id}", s.handleDeleteTask)
		r.Patch("/api/tasks/{id}/complete", s.handleToggleTask)

		r.Post("/api/chat", s.handleChat)
		r.Get("/api/chat/history", s.handleChatHistory)
		r.Delete("/api/chat/history", s.handleClearChatHistory)
	})

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: r,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("todoevolve api listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
