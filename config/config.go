// Package config loads the editor's yaml settings file and watches the
// scripts directory for generator changes.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Grid     GridConfig     `yaml:"grid"`
	Viewport ViewportConfig `yaml:"viewport"`
	Interact InteractConfig `yaml:"interact"`
	History  HistoryConfig  `yaml:"history"`
	Style    StyleConfig    `yaml:"style"`
	Scripts  ScriptsConfig  `yaml:"scripts"`
}

type GridConfig struct {
	// Variant is "square" or "hex".
	Variant string `yaml:"variant"`
	// CellSize is the square edge length or the hex circumradius, in
	// world units.
	CellSize float64 `yaml:"cell_size"`
	// Orientation is "flat" or "pointy"; hex only.
	Orientation string `yaml:"orientation"`
	// Diagonal8 allows diagonal adjacency on square grids.
	Diagonal8 bool `yaml:"diagonal8"`
}

type ViewportConfig struct {
	MinZoom float64 `yaml:"min_zoom"`
	MaxZoom float64 `yaml:"max_zoom"`
}

type InteractConfig struct {
	DragThresholdPx float64 `yaml:"drag_threshold_px"`
	HandleRadiusPx  float64 `yaml:"handle_radius_px"`
	NudgeWindowMS   int     `yaml:"nudge_window_ms"`
}

type HistoryConfig struct {
	// MaxDepth bounds the undo stack; the oldest entries drop first.
	MaxDepth int `yaml:"max_depth"`
}

type StyleConfig struct {
	PaintColor   string  `yaml:"paint_color"`
	PaintOpacity float64 `yaml:"paint_opacity"`
	ObjectKind   string  `yaml:"object_kind"`
	TextSize     float64 `yaml:"text_size"`
}

type ScriptsConfig struct {
	// Dir holds generator scripts; saving a script in it re-runs the
	// generator when watching is on.
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
	// DebounceMS is how long a changed file must stay quiet before its
	// event fires, soaking up editors that write twice per save.
	DebounceMS int `yaml:"debounce_ms"`
}

// Default is the configuration the editor ships with.
func Default() Config {
	return Config{
		Grid:     GridConfig{Variant: "square", CellSize: 32},
		Viewport: ViewportConfig{MinZoom: 0.1, MaxZoom: 10},
		Interact: InteractConfig{DragThresholdPx: 4, HandleRadiusPx: 8, NudgeWindowMS: 400},
		History:  HistoryConfig{MaxDepth: 100},
		Style:    StyleConfig{PaintColor: "#3c78ff", PaintOpacity: 1, ObjectKind: "marker", TextSize: 14},
		Scripts:  ScriptsConfig{Dir: "scripts", DebounceMS: 100},
	}
}

// Load reads a yaml config file. Missing fields keep their defaults; a
// missing file is an error so typos in the path do not silently fall
// back.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Grid.Variant {
	case "square", "hex":
	default:
		return fmt.Errorf("grid variant must be square or hex, got %q", c.Grid.Variant)
	}
	if c.Grid.CellSize <= 0 {
		return fmt.Errorf("cell_size must be positive, got %v", c.Grid.CellSize)
	}
	if c.Grid.Variant == "hex" {
		switch c.Grid.Orientation {
		case "", "flat", "pointy":
		default:
			return fmt.Errorf("orientation must be flat or pointy, got %q", c.Grid.Orientation)
		}
	}
	if c.Viewport.MinZoom <= 0 || c.Viewport.MaxZoom < c.Viewport.MinZoom {
		return fmt.Errorf("zoom range [%v, %v] is invalid", c.Viewport.MinZoom, c.Viewport.MaxZoom)
	}
	if c.Scripts.DebounceMS < 0 {
		return fmt.Errorf("scripts debounce_ms must not be negative, got %d", c.Scripts.DebounceMS)
	}
	if c.History.MaxDepth < 1 {
		return fmt.Errorf("history max_depth must be at least 1, got %d", c.History.MaxDepth)
	}
	if c.Style.PaintOpacity <= 0 || c.Style.PaintOpacity > 1 {
		return fmt.Errorf("paint_opacity must be in (0, 1], got %v", c.Style.PaintOpacity)
	}
	if _, err := ParseHexColor(c.Style.PaintColor); err != nil {
		return err
	}
	return nil
}

// NudgeWindow converts the configured milliseconds to a duration.
func (c *Config) NudgeWindow() time.Duration {
	return time.Duration(c.Interact.NudgeWindowMS) * time.Millisecond
}

// WatchDebounce converts the configured milliseconds to a duration.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Scripts.DebounceMS) * time.Millisecond
}

// RGBA is a parsed hex color.
type RGBA struct {
	R, G, B, A uint8
}

// ParseHexColor accepts #rrggbb and #rrggbbaa.
func ParseHexColor(s string) (RGBA, error) {
	raw := strings.TrimPrefix(s, "#")
	if len(raw) != 6 && len(raw) != 8 {
		return RGBA{}, fmt.Errorf("invalid color format: %s", s)
	}
	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(raw[start:start+2], 16, 8)
		return uint8(v), err
	}
	var c RGBA
	var err error
	if c.R, err = parse(0); err != nil {
		return RGBA{}, fmt.Errorf("invalid color %s: %w", s, err)
	}
	if c.G, err = parse(2); err != nil {
		return RGBA{}, fmt.Errorf("invalid color %s: %w", s, err)
	}
	if c.B, err = parse(4); err != nil {
		return RGBA{}, fmt.Errorf("invalid color %s: %w", s, err)
	}
	c.A = 255
	if len(raw) == 8 {
		if c.A, err = parse(6); err != nil {
			return RGBA{}, fmt.Errorf("invalid color %s: %w", s, err)
		}
	}
	return c, nil
}
