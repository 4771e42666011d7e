package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the settings the CLI starts with, before flags are applied.
type Config struct {
	DbPath   string
	ReadOnly bool
	LogV     int
}

// LoadConfig reads a .env file (if present) then the GORING_* environment variables.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DbPath:   strings.TrimSpace(os.Getenv("GORING_DB_PATH")),
		ReadOnly: parseBool(os.Getenv("GORING_READ_ONLY")),
		LogV:     parseInt(os.Getenv("GORING_LOG_V"), 0),
	}
	if cfg.DbPath == "" {
		cfg.DbPath = defaultDbPath()
	}
	return cfg
}

func defaultDbPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "goring", "prefs")
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}

func parseInt(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}
