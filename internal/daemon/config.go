// Package daemon holds the long-running server's configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/crowdfund3r/donorx/internal/domain"
)

// Config is the daemon configuration, loaded from TOML.
type Config struct {
	API         APIConfig         `toml:"api"`
	Store       StoreConfig       `toml:"store"`
	Awards      AwardsConfig      `toml:"awards"`
	Leaderboard LeaderboardConfig `toml:"leaderboard"`
	Log         LogConfig         `toml:"log"`
}

// APIConfig configures the HTTP listener.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// Addr returns the listen address in host:port form.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `toml:"driver"` // "sqlite" or "memory"
	Path   string `toml:"path"`   // sqlite data directory
}

// AwardsConfig tunes the XP grant per action. Zero means "use the
// platform default" so a partial [awards] section stays sane.
type AwardsConfig struct {
	Donation   int64 `toml:"donation"`
	DailyLogin int64 `toml:"daily_login"`
	Share      int64 `toml:"share"`
	Challenge  int64 `toml:"challenge"`
}

// Table converts the section into the domain award table.
func (a AwardsConfig) Table() domain.AwardTable {
	t := domain.DefaultAwardTable()
	if a.Donation > 0 {
		t[domain.AwardDonation] = a.Donation
	}
	if a.DailyLogin > 0 {
		t[domain.AwardDailyLogin] = a.DailyLogin
	}
	if a.Share > 0 {
		t[domain.AwardShare] = a.Share
	}
	if a.Challenge > 0 {
		t[domain.AwardChallenge] = a.Challenge
	}
	return t
}

// LeaderboardConfig tunes the ranked views.
type LeaderboardConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level       string `toml:"level"` // debug, info, warn, error
	Development bool   `toml:"development"`
}

// ZapLevel maps the configured level onto zap; unknown values mean info.
func (l LogConfig) ZapLevel() zapcore.Level {
	switch l.Level {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// BuildLogger constructs the daemon logger from the config.
func (l LogConfig) BuildLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if l.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(l.ZapLevel())
	return cfg.Build()
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8090,
			Metrics: true,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   filepath.Join(DataDir(), "data"),
		},
		Awards: AwardsConfig{
			Donation:   100,
			DailyLogin: 10,
			Share:      50,
			Challenge:  200,
		},
		Leaderboard: LeaderboardConfig{
			DefaultLimit: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DataDir returns the daemon home: $DONORX_HOME, else ~/.donorx.
func DataDir() string {
	if dir := os.Getenv("DONORX_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".donorx"
	}
	return filepath.Join(home, ".donorx")
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// Load reads the config file at path, layered over the defaults. A
// missing file is not an error: the defaults apply unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as TOML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
