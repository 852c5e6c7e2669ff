package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	// Defaults under test — make sure ambient env does not leak in.
	for _, k := range []string{"WEBAPP_URL", "CHANNEL_USERNAME", "ADMIN_IDS", "RULES_FILE", "ADMIN_PASSWORD"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadRequiresBotToken(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BOT_TOKEN", "")
	os.Unsetenv("BOT_TOKEN")

	if _, err := Load(); err == nil {
		t.Fatal("missing BOT_TOKEN must fail startup")
	}
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ChannelUsername != "@livbubble" {
		t.Errorf("channel = %q", cfg.ChannelUsername)
	}
	if cfg.WebAppURL != "https://livbubble-webapp.onrender.com" {
		t.Errorf("webapp url = %q", cfg.WebAppURL)
	}
	if cfg.Admins.Len() != 0 {
		t.Errorf("admins = %v, want empty", cfg.Admins)
	}
	if cfg.Rules.Threshold != 2 || len(cfg.Rules.Keywords) == 0 {
		t.Errorf("rules = %+v, want built-in defaults", cfg.Rules)
	}
}

func TestLoadAdminIDs(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ADMIN_IDS", "42, 7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Admins.Len() != 2 || !cfg.Admins.Contains(42) || !cfg.Admins.Contains(7) {
		t.Errorf("admins = %v", cfg.Admins)
	}
}

// A broken admin list is logged and degraded to an empty set, never a
// startup failure.
func TestLoadBadAdminIDs(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ADMIN_IDS", "42,oops")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Admins.Len() != 0 {
		t.Errorf("admins = %v, want empty set on parse failure", cfg.Admins)
	}
}

func TestLoadRulesFile(t *testing.T) {
	setBaseEnv(t)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	yaml := "domains:\n  - scam.example\nkeywords:\n  - free lunch\n  - act now\nthreshold: 1\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RULES_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Rules.Domains) != 1 || cfg.Rules.Domains[0] != "scam.example" {
		t.Errorf("domains = %v", cfg.Rules.Domains)
	}
	if len(cfg.Rules.Keywords) != 2 || cfg.Rules.Keywords[0] != "FREE LUNCH" {
		t.Errorf("keywords = %v (normalization must upper-case)", cfg.Rules.Keywords)
	}
	if cfg.Rules.Threshold != 1 {
		t.Errorf("threshold = %d", cfg.Rules.Threshold)
	}
}

func TestLoadUnreadableRulesFileKeepsDefaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("RULES_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Rules.Domains) == 0 {
		t.Error("missing rules file must fall back to built-in rules")
	}
}

func TestDerivedURLs(t *testing.T) {
	cfg := &Config{ChannelUsername: "@livbubble", WebAppURL: "https://game.example/"}
	if got := cfg.ChannelURL(); got != "https://t.me/livbubble" {
		t.Errorf("channel url = %q", got)
	}
	if got := cfg.AdminPanelURL(); got != "https://game.example/admin/" {
		t.Errorf("admin panel url = %q", got)
	}
}
