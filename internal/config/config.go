// Package config owns binlogcat runtime configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/binlog/internal/wire"
)

// Config is the binlogcat runtime configuration. Flags may override any
// field after loading.
type Config struct {
	// Image is the ELF file holding the format-string section.
	Image string `toml:"image"`
	// MapFile is a JSON symbol map, used when the section was stripped
	// from the shipped image. One of Image or MapFile must be set.
	MapFile string `toml:"map_file"`

	MinLevel string `toml:"min_level"`
	Output   string `toml:"output"`

	// StatusAddr enables the status/metrics HTTP server when non-empty.
	StatusAddr  string   `toml:"status_addr"`
	CorsOrigins []string `toml:"cors_origins"`

	NATS NATSConfig `toml:"nats"`
}

// NATSConfig enables the NATS line sink when URL is set.
type NATSConfig struct {
	URL     string `toml:"url"`
	Subject string `toml:"subject"`
}

func Default() Config {
	return Config{
		MinLevel: "info",
		Output:   "text",
	}
}

func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, ok := wire.ParseLevel(cfg.MinLevel); !ok {
		return fmt.Errorf("config invalid min_level: %q", cfg.MinLevel)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "text", "jsonl":
	default:
		return fmt.Errorf("config invalid output: %q (want text or jsonl)", cfg.Output)
	}
	if cfg.NATS.URL != "" && strings.TrimSpace(cfg.NATS.Subject) == "" {
		return fmt.Errorf("config nats.subject required when nats.url is set")
	}
	return nil
}
