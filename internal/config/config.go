package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	DatabasePath   string        // SQLite file; "off" disables persistence
	BaseURL        string        // app URL share links are built against
	DigestInterval time.Duration // how often the watch mode prints a digest
	DigestAt       string        // optional HH:MM daily digest time, overrides the interval
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabasePath:   strings.TrimSpace(os.Getenv("TODO_DB")),
		BaseURL:        strings.TrimSpace(os.Getenv("TODO_BASE_URL")),
		DigestInterval: parseInterval(strings.TrimSpace(os.Getenv("TODO_DIGEST_INTERVAL_HOURS"))),
		DigestAt:       strings.TrimSpace(os.Getenv("TODO_DIGEST_AT")),
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "todo_tracker.db"
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080/todo"
	}

	if cfg.DigestInterval == 0 {
		cfg.DigestInterval = 24 * time.Hour
	}

	if cfg.DigestAt != "" && strings.Count(cfg.DigestAt, ":") != 1 {
		return cfg, fmt.Errorf("TODO_DIGEST_AT must be HH:MM, got %q", cfg.DigestAt)
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
