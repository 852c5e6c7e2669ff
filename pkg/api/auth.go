// Admin authentication — password login issuing a short-lived session
// cookie.
//
// POST /api/login with {"password": "..."} sets the session cookie when
// the password matches (constant-time compare). Every mutating route and
// the WebSocket feed require a live session. When ADMIN_PASSWORD is empty
// logins are disabled entirely and a warning is logged once at startup.
package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/livbubble/bubblebot/pkg/logger"
)

const (
	sessionCookie = "bubblebot_session"
	sessionTTL    = time.Hour
)

// sessionStore holds the live admin sessions. Tokens are random UUIDs;
// expired entries are dropped lazily on lookup.
type sessionStore struct {
	ttl    time.Duration
	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:    ttl,
		tokens: make(map[string]time.Time),
	}
}

// create issues a new session token.
func (s *sessionStore) create() string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = time.Now().Add(s.ttl)
	s.mu.Unlock()
	return token
}

// valid reports whether the token names a live session.
func (s *sessionStore) valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// revoke drops a session.
func (s *sessionStore) revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// passwordValid does a constant-time comparison to prevent timing attacks.
// An empty configured password never matches.
func passwordValid(provided, expected string) bool {
	if provided == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if s.cfg.AdminPassword == "" {
		logger.WarnC("api", "login attempted but ADMIN_PASSWORD is not set")
		writeError(w, http.StatusForbidden, "admin login disabled")
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !passwordValid(body.Password, s.cfg.AdminPassword) {
		writeError(w, http.StatusUnauthorized, "wrong password")
		return
	}

	token := s.sessions.create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.revoke(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authenticated reports whether the request carries a live admin session.
// The WebSocket path also accepts the token as a query param, since
// browser WebSocket clients cannot always attach cookies cross-origin.
func (s *Server) authenticated(r *http.Request) bool {
	if c, err := r.Cookie(sessionCookie); err == nil && s.sessions.valid(c.Value) {
		return true
	}
	if t := r.URL.Query().Get("token"); t != "" && s.sessions.valid(t) {
		return true
	}
	return false
}
