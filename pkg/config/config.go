package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment
type Config struct {
	Port             string        `env:"GRAPHIDX_PORT" envDefault:"8080"`
	SchemaFile       string        `env:"GRAPHIDX_SCHEMA_FILE" envDefault:"schema.yaml"`
	SnapshotFile     string        `env:"GRAPHIDX_SNAPSHOT_FILE" envDefault:""`
	SnapshotInterval time.Duration `env:"GRAPHIDX_SNAPSHOT_INTERVAL" envDefault:"0s"`
	IndexPrefix      string        `env:"GRAPHIDX_INDEX_PREFIX" envDefault:""`
	LogLevel         string        `env:"GRAPHIDX_LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"GRAPHIDX_LOG_FORMAT" envDefault:"text"`
	ShutdownTimeout  time.Duration `env:"GRAPHIDX_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load reads the given .env files, skipping missing ones, then parses the
// environment. Variables already set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.SnapshotInterval > 0 && cfg.SnapshotFile == "" {
		return Config{}, errors.New("GRAPHIDX_SNAPSHOT_INTERVAL requires GRAPHIDX_SNAPSHOT_FILE")
	}
	return cfg, nil
}
