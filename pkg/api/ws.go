package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/livbubble/bubblebot/pkg/events"
	"github.com/livbubble/bubblebot/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	conn *websocket.Conn
	send chan []byte
	hub  *WSHub
}

// WSHub streams system events (moderation verdicts, gate decisions,
// web-app completions) to connected admin panels.
type WSHub struct {
	server     *Server
	clients    map[*WSClient]bool
	register   chan *WSClient
	unregister chan *WSClient
	mu         sync.RWMutex
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub(server *Server) *WSHub {
	return &WSHub{
		server:     server,
		clients:    make(map[*WSClient]bool),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run pumps bus system events to all connected clients until the context
// is done.
func (h *WSHub) Run(ctx context.Context) {
	feed := h.server.bus.SubscribeSystem("ws")

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.DebugC("ws", "client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			logger.DebugC("ws", "client disconnected")

		case event, ok := <-feed:
			if !ok {
				return
			}
			h.broadcast(event)
		}
	}
}

func (h *WSHub) broadcast(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default: // slow client — drop the event for it
		}
	}
}

// handleWS upgrades an authenticated request to a WebSocket connection.
func (h *WSHub) handleWS(w http.ResponseWriter, r *http.Request) {
	if !h.server.authenticated(r) {
		writeError(w, http.StatusUnauthorized, "admin session required")
		return
	}
	if !originAllowed(r, h.server.cfg.WebAppURL) {
		writeError(w, http.StatusForbidden, "origin not allowed")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnCF("ws", "upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	client := &WSClient{conn: conn, send: make(chan []byte, 64), hub: h}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// originAllowed accepts same-origin requests, localhost, and the
// configured web-app origin.
func originAllowed(r *http.Request, webAppURL string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // same-origin requests have no Origin header
	}
	allowed := []string{
		"http://localhost", "http://127.0.0.1",
		"https://localhost", "https://127.0.0.1",
	}
	if webAppURL != "" {
		allowed = append(allowed, strings.TrimRight(webAppURL, "/"))
	}
	for _, prefix := range allowed {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	logger.WarnCF("ws", "rejected WebSocket from disallowed origin", map[string]interface{}{
		"origin": origin,
	})
	return false
}

func (c *WSClient) writePump() {
	ping := time.NewTicker(30 * time.Second)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *WSClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		// Clients only listen; reads just detect disconnects.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
