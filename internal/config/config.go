package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/vecedit/backend-go/internal/engine"
)

type Config struct {
	Port            int    `envconfig:"PORT" default:"8080"`
	AllowedOrigins  string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	MaxMessageBytes int64  `envconfig:"MAX_MESSAGE_BYTES" default:"1048576"`

	CanvasWidth      int     `envconfig:"CANVAS_WIDTH" default:"1280"`
	CanvasHeight     int     `envconfig:"CANVAS_HEIGHT" default:"720"`
	HitRadius        float64 `envconfig:"HIT_RADIUS" default:"12"`
	DoubleClickMS    int     `envconfig:"DOUBLE_CLICK_MS" default:"300"`
	SegmentSamples   int     `envconfig:"SEGMENT_SAMPLES" default:"20"`
	SelectionPadding float64 `envconfig:"SELECTION_PADDING" default:"5"`
	HandleRadius     float64 `envconfig:"HANDLE_RADIUS" default:"5"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EngineOptions maps the interaction tunables onto engine options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		CanvasWidth:       c.CanvasWidth,
		CanvasHeight:      c.CanvasHeight,
		HitRadius:         c.HitRadius,
		DoubleClickWindow: time.Duration(c.DoubleClickMS) * time.Millisecond,
		SegmentSamples:    c.SegmentSamples,
		SelectionPadding:  c.SelectionPadding,
		HandleRadius:      c.HandleRadius,
	}
}

// Origins splits AllowedOrigins into trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// SlogLevel parses LogLevel, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
