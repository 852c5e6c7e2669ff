// bubblebot is the Liv Bubble chat-bot backend: it gates the mini-game
// behind channel subscription, moderates the chat for crypto spam,
// acknowledges game-client completions, and serves the admin task API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/livbubble/bubblebot/pkg/announce"
	"github.com/livbubble/bubblebot/pkg/api"
	"github.com/livbubble/bubblebot/pkg/bus"
	"github.com/livbubble/bubblebot/pkg/config"
	"github.com/livbubble/bubblebot/pkg/dispatch"
	"github.com/livbubble/bubblebot/pkg/events"
	"github.com/livbubble/bubblebot/pkg/gate"
	"github.com/livbubble/bubblebot/pkg/logger"
	"github.com/livbubble/bubblebot/pkg/moderation"
	"github.com/livbubble/bubblebot/pkg/tasks"
	"github.com/livbubble/bubblebot/pkg/telegram"
	"github.com/livbubble/bubblebot/pkg/webapp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.ErrorCF("main", "configuration invalid", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	transport, err := telegram.NewTransport(cfg.BotToken)
	if err != nil {
		logger.ErrorCF("main", "telegram auth failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := tasks.NewStore(cfg.TasksDB)
	if err := store.Start(ctx); err != nil {
		logger.ErrorCF("main", "task store init failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer store.Stop(context.Background())

	eventBus := bus.New()
	defer eventBus.Close()

	g := gate.New(transport, eventBus, cfg.Admins,
		cfg.ChannelUsername, cfg.ChannelURL(), cfg.WebAppURL, cfg.AdminPanelURL())
	pipeline := moderation.NewPipeline(transport, eventBus, cfg.Admins, cfg.Rules)
	responder := webapp.NewResponder(transport, eventBus)
	dispatcher := dispatch.New(eventBus, g, pipeline, responder)
	poller := telegram.NewPoller(transport, eventBus)
	server := api.NewServer(cfg, store, eventBus)

	probeWebApp(cfg.WebAppURL)

	go dispatcher.Run(ctx)

	go func() {
		if err := server.Start(ctx); err != nil {
			logger.ErrorCF("main", "admin server failed", map[string]interface{}{
				"error": err.Error(),
			})
			stop()
		}
	}()

	if announcer, ok := announce.New(transport, eventBus, cfg.ChannelUsername, cfg.AnnounceCron, cfg.AnnounceText); ok {
		go announcer.Run(ctx)
	}

	eventBus.PublishSystem(events.New(events.BotStarted, "main", nil))
	logger.InfoCF("main", "bot running", map[string]interface{}{
		"channel": cfg.ChannelUsername,
		"admins":  cfg.Admins.Len(),
	})

	if err := poller.Run(ctx); err != nil {
		logger.ErrorCF("main", "polling failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	eventBus.PublishSystem(events.New(events.BotStopped, "main", nil))
	logger.InfoC("main", "bot stopped")
}

// probeWebApp checks once at startup that the game is reachable. Purely
// informational: an unreachable web app is logged, never fatal.
func probeWebApp(url string) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		logger.WarnCF("main", "web app unreachable", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.WarnCF("main", "web app returned non-OK status", map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode,
		})
		return
	}
	logger.InfoCF("main", "web app reachable", map[string]interface{}{"url": url})
}
