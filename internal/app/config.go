package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/fxgraph/internal/capture"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProjectPath string // .hcl file or a directory holding exactly one
	OutDir      string
	Format      string

	// Frame selects a single frame to render. Below zero the Start..End
	// range is exported instead; End below zero means the timeline end.
	Frame int
	Start int
	End   int

	Watch         bool
	WatchDebounce time.Duration
	PreviewURL    string
	RecentFile    string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectPath == "" {
		return nil, errors.New("ProjectPath is a required configuration field and cannot be empty")
	}
	if cfg.OutDir == "" {
		return nil, errors.New("OutDir is a required configuration field and cannot be empty")
	}
	if cfg.Format == "" {
		cfg.Format = string(capture.PNG)
	}
	if _, err := capture.ParseFormat(cfg.Format); err != nil {
		return nil, err
	}
	if cfg.Start < 0 {
		return nil, fmt.Errorf("start frame %d must not be negative", cfg.Start)
	}
	if cfg.End >= 0 && cfg.End < cfg.Start {
		return nil, fmt.Errorf("end frame %d is before start frame %d", cfg.End, cfg.Start)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d out of range", cfg.HealthcheckPort)
	}
	return &cfg, nil
}

// captureOptions returns the frames one render pass exports.
func (c *Config) captureOptions() capture.Options {
	if c.Frame >= 0 {
		return capture.Options{Start: c.Frame, End: c.Frame}
	}
	return capture.Options{Start: c.Start, End: c.End}
}
