// Admin API server: session login, the task-list endpoint the admin
// panel edits, a WebSocket live feed of moderation/gate events, and the
// static web-app files.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/livbubble/bubblebot/pkg/bus"
	"github.com/livbubble/bubblebot/pkg/config"
	"github.com/livbubble/bubblebot/pkg/logger"
	"github.com/livbubble/bubblebot/pkg/tasks"
)

// Server is the admin HTTP server.
type Server struct {
	cfg       *config.Config
	store     *tasks.Store
	bus       *bus.EventBus
	sessions  *sessionStore
	wsHub     *WSHub
	server    *http.Server
	startTime time.Time
}

// NewServer wires the admin server.
func NewServer(cfg *config.Config, store *tasks.Store, eventBus *bus.EventBus) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		bus:       eventBus,
		sessions:  newSessionStore(sessionTTL),
		startTime: time.Now(),
	}
	s.wsHub = NewWSHub(s)
	return s
}

// Start begins listening on the configured address. It blocks until the
// context is done, then shuts the server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/logout", s.handleLogout)
	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/api/ws", s.wsHub.handleWS)

	// Static web-app files, when the directory exists.
	if st, err := os.Stat(s.cfg.WebDir); err == nil && st.IsDir() {
		mux.Handle("/", http.FileServer(http.Dir(s.cfg.WebDir)))
	}

	s.server = &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.wsHub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.InfoCF("api", "admin server listening", map[string]interface{}{
			"addr": s.cfg.ListenAddr,
		})
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WarnCF("api", "response encode failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
