package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/livbubble/bubblebot/pkg/bus"
	"github.com/livbubble/bubblebot/pkg/config"
	"github.com/livbubble/bubblebot/pkg/domain"
	"github.com/livbubble/bubblebot/pkg/tasks"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := tasks.NewStore(filepath.Join(t.TempDir(), "tasks.db"))
	if err := store.Start(context.Background()); err != nil {
		t.Fatalf("start store: %v", err)
	}
	t.Cleanup(func() { store.Stop(context.Background()) })

	eventBus := bus.New()
	t.Cleanup(eventBus.Close)

	cfg := &config.Config{
		AdminPassword: "hunter2",
		ListenAddr:    ":0",
		Admins:        domain.AdminSet{},
		Rules:         domain.DefaultRules().Normalized(),
	}
	return NewServer(cfg, store, eventBus)
}

func login(t *testing.T, s *Server) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"password":"hunter2"}`))
	rec := httptest.NewRecorder()
	s.handleLogin(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "correct password", body: `{"password":"hunter2"}`, status: http.StatusOK},
		{name: "wrong password", body: `{"password":"nope"}`, status: http.StatusUnauthorized},
		{name: "empty password", body: `{"password":""}`, status: http.StatusUnauthorized},
		{name: "garbage body", body: `{{{`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			s.handleLogin(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestLoginDisabledWithoutPassword(t *testing.T) {
	s := newTestServer(t)
	s.cfg.AdminPassword = ""

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"password":""}`))
	rec := httptest.NewRecorder()
	s.handleLogin(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestGetTasksEmpty(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()
	s.handleTasks(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list []tasks.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("body %q: %v", rec.Body.String(), err)
	}
	if len(list) != 0 {
		t.Errorf("list = %v, want empty", list)
	}
}

func TestPostTasksRequiresSession(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks",
		strings.NewReader(`[{"title":"pop 10 bubbles"}]`))
	rec := httptest.NewRecorder()
	s.handleTasks(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestPostTasksReplacesList(t *testing.T) {
	s := newTestServer(t)
	cookie := login(t, s)

	body := `[{"id":"t1","title":"pop 10 bubbles"},{"title":"share with a friend","done":true}]`
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s.handleTasks(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec = httptest.NewRecorder()
	s.handleTasks(rec, req)

	var list []tasks.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list = %v, want 2 tasks", list)
	}
	if list[0].ID != "t1" || list[1].Title != "share with a friend" || !list[1].Done {
		t.Errorf("list = %+v", list)
	}
}

func TestPostTasksValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not an array", body: `{"title":"x"}`},
		{name: "not json", body: `nope`},
		{name: "missing title", body: `[{"id":"a"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			cookie := login(t, s)

			req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(tt.body))
			req.AddCookie(cookie)
			rec := httptest.NewRecorder()
			s.handleTasks(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	s := newTestServer(t)
	cookie := login(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s.handleLogout(rec, req)

	req = httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`[]`))
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	s.handleTasks(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status after logout = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestSessionExpiry(t *testing.T) {
	store := newSessionStore(-time.Minute)
	token := store.create()
	if store.valid(token) {
		t.Error("zero-TTL session must be expired immediately")
	}
}

func TestPasswordValid(t *testing.T) {
	if passwordValid("", "secret") {
		t.Error("empty provided must not match")
	}
	if passwordValid("secret", "") {
		t.Error("empty expected must never match")
	}
	if !passwordValid("secret", "secret") {
		t.Error("exact match must pass")
	}
	if passwordValid("Secret", "secret") {
		t.Error("comparison must be exact")
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
