package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/TriColor-Initiatives/minus/internal/game"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	Port        string
	FrontendURL string
	LogLevel    string
	LogFormat   string // "text" or "json"
	Policy      game.Policy
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:        "8080",
		FrontendURL: "http://localhost:5173",
		LogLevel:    "info",
		LogFormat:   "text",
		Policy:      game.PolicyFollow,
	}
}

// Load reads an optional .env file from path (or the working directory when
// path is empty) and then overlays MINUS_* environment variables on the
// defaults. Variables already set in the environment win over the file.
func Load(path string) (Config, error) {
	var err error
	if path == "" {
		err = godotenv.Load()
	} else {
		err = godotenv.Load(path)
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading env file: %w", err)
	}

	cfg := Default()
	if v := os.Getenv("MINUS_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("MINUS_FRONTEND_URL"); v != "" {
		cfg.FrontendURL = v
	}
	if v := os.Getenv("MINUS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MINUS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("MINUS_POLICY"); v != "" {
		p, err := game.ParsePolicy(v)
		if err != nil {
			return Config{}, fmt.Errorf("MINUS_POLICY: %w", err)
		}
		cfg.Policy = p
	}

	return cfg, nil
}

// NewLogger builds a logrus logger from the configured level and format.
func (c Config) NewLogger() (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	switch c.LogFormat {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q", c.LogFormat)
	}

	return logger, nil
}
