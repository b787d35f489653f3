package config

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// Clipboard backends.
const (
	ClipboardSystem = "system"
	ClipboardMemory = "memory"
)

// Limits enforced by Validate.
const (
	MaxGridSize    = 100000
	MinColumnWidth = 3
	MaxColumnWidth = 64
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Config holds all keygrid settings.
type Config struct {
	Grid      GridConfig      `toml:"grid" yaml:"grid"`
	UI        UIConfig        `toml:"ui" yaml:"ui"`
	Clipboard ClipboardConfig `toml:"clipboard" yaml:"clipboard"`
	Log       LogConfig       `toml:"log" yaml:"log"`
	Script    ScriptConfig    `toml:"script" yaml:"script"`
}

// GridConfig configures the initial grid.
type GridConfig struct {
	// Width and Height are the initial column and row counts.
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`

	// LegacyTitles titles columns as earlier releases did: V and U swapped,
	// and Z followed by BA.
	LegacyTitles bool `toml:"legacy_titles" yaml:"legacy_titles"`
}

// UIConfig configures the terminal display.
type UIConfig struct {
	ColumnWidth int `toml:"column_width" yaml:"column_width"`
}

// ClipboardConfig selects the clipboard backend.
type ClipboardConfig struct {
	// Backend is ClipboardSystem or ClipboardMemory.
	Backend string `toml:"backend" yaml:"backend"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`

	// File receives log output. Empty discards logs, since the terminal
	// belongs to the grid.
	File string `toml:"file" yaml:"file"`
}

// ScriptConfig configures the startup script.
type ScriptConfig struct {
	// Path is a Lua script run against the grid at startup.
	Path string `toml:"path" yaml:"path"`

	// Watch reruns the script when it changes.
	Watch bool `toml:"watch" yaml:"watch"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Width:  26,
			Height: 100,
		},
		UI: UIConfig{
			ColumnWidth: 12,
		},
		Clipboard: ClipboardConfig{
			Backend: ClipboardSystem,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, path, msg string, v any) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
		}
	}

	check(c.Grid.Width > 0 && c.Grid.Width <= MaxGridSize,
		"grid.width", fmt.Sprintf("must be between 1 and %d", MaxGridSize), c.Grid.Width)
	check(c.Grid.Height > 0 && c.Grid.Height <= MaxGridSize,
		"grid.height", fmt.Sprintf("must be between 1 and %d", MaxGridSize), c.Grid.Height)
	check(c.UI.ColumnWidth >= MinColumnWidth && c.UI.ColumnWidth <= MaxColumnWidth,
		"ui.column_width", fmt.Sprintf("must be between %d and %d", MinColumnWidth, MaxColumnWidth), c.UI.ColumnWidth)
	check(c.Clipboard.Backend == ClipboardSystem || c.Clipboard.Backend == ClipboardMemory,
		"clipboard.backend", "must be system or memory", c.Clipboard.Backend)
	check(slices.Contains(logLevels, c.Log.Level),
		"log.level", "must be one of debug, info, warn, error", c.Log.Level)

	return errors.Join(errs...)
}

// toMap returns the config as a settings map, the form layers are merged in.
func (c *Config) toMap() (map[string]any, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return m, nil
}

// fromMap decodes a merged settings map. Keys that match no setting are
// reported as validation errors.
func fromMap(m map[string]any) (*Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg := &Config{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, &ValidationError{Path: "config", Message: "has an unknown setting", Value: strict.String()}
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			return nil, &ValidationError{Path: "config", Message: "has a value of the wrong type", Value: decodeErr.Error()}
		}
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
