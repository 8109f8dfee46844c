package daemon

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/crowdfund3r/donorx/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8090 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8090)
	}
	if !cfg.API.Metrics {
		t.Error("API.Metrics should be true by default")
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, "sqlite")
	}
	if cfg.Awards.Donation != 100 {
		t.Errorf("Awards.Donation = %d, want 100", cfg.Awards.Donation)
	}
	if cfg.Leaderboard.DefaultLimit != 10 {
		t.Errorf("Leaderboard.DefaultLimit = %d, want 10", cfg.Leaderboard.DefaultLimit)
	}
	if got := cfg.API.Addr(); got != "127.0.0.1:8090" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestAwardsTable(t *testing.T) {
	// A partial section keeps the platform defaults for the rest.
	a := AwardsConfig{Donation: 250}
	table := a.Table()
	if table[domain.AwardDonation] != 250 {
		t.Errorf("donation = %d, want 250", table[domain.AwardDonation])
	}
	if table[domain.AwardDailyLogin] != 10 {
		t.Errorf("daily_login = %d, want default 10", table[domain.AwardDailyLogin])
	}
}

func TestZapLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", zap.DebugLevel.String()},
		{"info", zap.InfoLevel.String()},
		{"warn", zap.WarnLevel.String()},
		{"error", zap.ErrorLevel.String()},
		{"bogus", zap.InfoLevel.String()},
		{"", zap.InfoLevel.String()},
	}
	for _, tt := range tests {
		if got := (LogConfig{Level: tt.level}).ZapLevel().String(); got != tt.want {
			t.Errorf("ZapLevel(%q) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Port != 8090 {
		t.Errorf("Port = %d, want default 8090", cfg.API.Port)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.API.Port = 9999
	cfg.Store.Driver = "memory"
	cfg.Awards.Donation = 42
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.API.Port != 9999 {
		t.Errorf("Port = %d, want 9999", loaded.API.Port)
	}
	if loaded.Store.Driver != "memory" {
		t.Errorf("Driver = %q, want memory", loaded.Store.Driver)
	}
	if loaded.Awards.Donation != 42 {
		t.Errorf("Donation = %d, want 42", loaded.Awards.Donation)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[api]\nport = 7070\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Port != 7070 {
		t.Errorf("Port = %d, want 7070", cfg.API.Port)
	}
	// Untouched sections keep their defaults.
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Driver = %q, want default sqlite", cfg.Store.Driver)
	}
}
