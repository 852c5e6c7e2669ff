package api

import (
	"encoding/json"
	"net/http"

	"github.com/livbubble/bubblebot/pkg/events"
	"github.com/livbubble/bubblebot/pkg/logger"
	"github.com/livbubble/bubblebot/pkg/tasks"
)

// handleTasks serves the task list. GET returns the current ordered list
// (empty when none). POST, admin-authenticated, replaces the list after
// validating the body is a JSON array of tasks.
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.store.Load()
		if err != nil {
			logger.ErrorCF("api", "task load failed", map[string]interface{}{
				"error": err.Error(),
			})
			writeError(w, http.StatusInternalServerError, "task store unavailable")
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		if !s.authenticated(r) {
			writeError(w, http.StatusUnauthorized, "admin session required")
			return
		}

		var list []tasks.Task
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&list); err != nil {
			writeError(w, http.StatusBadRequest, "body must be a JSON array of tasks")
			return
		}
		for _, t := range list {
			if t.Title == "" {
				writeError(w, http.StatusBadRequest, "every task needs a title")
				return
			}
		}

		if err := s.store.Replace(list); err != nil {
			logger.ErrorCF("api", "task replace failed", map[string]interface{}{
				"error": err.Error(),
			})
			writeError(w, http.StatusInternalServerError, "task store unavailable")
			return
		}

		s.bus.PublishSystem(events.New(events.TasksReplaced, "api", map[string]int{
			"count": len(list),
		}))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"count":  len(list),
		})

	default:
		writeError(w, http.StatusMethodNotAllowed, "GET or POST required")
	}
}
