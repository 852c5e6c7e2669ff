// Package config loads the process configuration from the environment,
// plus an optional YAML rules file. Only a missing bot credential is
// fatal; every other problem degrades with a logged warning so a
// misconfigured deployment still moderates with defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/livbubble/bubblebot/pkg/domain"
	"github.com/livbubble/bubblebot/pkg/logger"
)

// Config is the process-wide configuration. Constructed once at startup
// and passed explicitly to every component; there are no module-level
// singletons behind it.
type Config struct {
	BotToken        string `env:"BOT_TOKEN,required"`
	WebAppURL       string `env:"WEBAPP_URL" envDefault:"https://livbubble-webapp.onrender.com"`
	ChannelUsername string `env:"CHANNEL_USERNAME" envDefault:"@livbubble"`

	// AdminIDs is the raw comma-separated admin id list. Parsed into
	// Admins; a parse failure is logged and leaves the set empty.
	AdminIDs string `env:"ADMIN_IDS"`

	// AdminPassword guards the task-list API. Empty disables logins.
	AdminPassword string `env:"ADMIN_PASSWORD"`

	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	TasksDB    string `env:"TASKS_DB" envDefault:"data/tasks.db"`
	WebDir     string `env:"WEB_DIR" envDefault:"web"`

	// RulesFile optionally overrides the built-in spam rule set.
	RulesFile string `env:"RULES_FILE"`

	// AnnounceCron schedules the daily giveaway announcement to the
	// channel. Empty disables the announcer.
	AnnounceCron string `env:"ANNOUNCE_CRON" envDefault:"0 12 * * *"`
	AnnounceText string `env:"ANNOUNCE_TEXT" envDefault:"🎉 Today's Liv Bubble giveaway is live! Play now and good luck!"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Derived at load time.
	Admins domain.AdminSet    `env:"-"`
	Rules  domain.SpamRuleSet `env:"-"`
}

// Load reads the environment and resolves the derived fields. The only
// fatal condition is a missing BOT_TOKEN.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	admins, err := domain.ParseAdminList(cfg.AdminIDs)
	if err != nil {
		logger.ErrorCF("config", "ADMIN_IDS is invalid, continuing with no admins", map[string]interface{}{
			"error": err.Error(),
		})
		admins = domain.AdminSet{}
	}
	cfg.Admins = admins

	cfg.Rules = loadRules(cfg.RulesFile)
	return cfg, nil
}

// loadRules returns the built-in rule set, overridden by the YAML file
// when one is configured and readable. File problems keep the defaults.
func loadRules(path string) domain.SpamRuleSet {
	rules := domain.DefaultRules()
	if path == "" {
		return rules.Normalized()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.WarnCF("config", "rules file unreadable, using built-in rules", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return rules.Normalized()
	}

	var fileRules domain.SpamRuleSet
	if err := yaml.Unmarshal(data, &fileRules); err != nil {
		logger.WarnCF("config", "rules file malformed, using built-in rules", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return rules.Normalized()
	}

	if len(fileRules.Domains) > 0 {
		rules.Domains = fileRules.Domains
	}
	if len(fileRules.Keywords) > 0 {
		rules.Keywords = fileRules.Keywords
	}
	if fileRules.Threshold > 0 {
		rules.Threshold = fileRules.Threshold
	}
	return rules.Normalized()
}

// ChannelURL is the public join link for the configured channel.
func (c *Config) ChannelURL() string {
	return "https://t.me/" + strings.TrimPrefix(c.ChannelUsername, "@")
}

// AdminPanelURL is the admin web-app entry point.
func (c *Config) AdminPanelURL() string {
	return strings.TrimRight(c.WebAppURL, "/") + "/admin/"
}
