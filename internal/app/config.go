package app

import (
	"errors"
	"fmt"

	"github.com/vk/tplc/internal/export"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	TemplatePaths []string // .hcl files or directories
	OutputFormat  string   // json or hcl
	Verify        bool     // re-check every variable index before writing

	LogFormat string
	LogLevel  string
	Workers   int
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.TemplatePaths) == 0 {
		return nil, errors.New("TemplatePaths is a required configuration field and cannot be empty")
	}
	for i, p := range cfg.TemplatePaths {
		if p == "" {
			return nil, fmt.Errorf("template path #%d is empty", i)
		}
	}
	if _, err := export.ParseFormat(cfg.OutputFormat); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if _, ok := parseLevel(cfg.LogLevel); !ok {
		return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}

	cfg.TemplatePaths = append([]string(nil), cfg.TemplatePaths...)
	return &cfg, nil
}
