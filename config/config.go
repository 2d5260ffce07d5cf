// Package config loads the optional TOML configuration file.
//
// Every key has a default matching the stock behaviour, so a missing file is
// the same as an empty one. The resolved values never change after startup.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"i3pamicstatus/audio"
	"i3pamicstatus/i3bar"
	"i3pamicstatus/indicator"
)

//go:embed sample_config.toml
var sampleConfig string

// BlockStyle is the glyph and colour of one derived block variant.
type BlockStyle struct {
	FullText string `toml:"full_text"`
	Color    string `toml:"color"`
}

type Blocks struct {
	On  BlockStyle `toml:"on"`
	Off BlockStyle `toml:"off"`
}

type IndicatorColors struct {
	On  string `toml:"on"`
	Off string `toml:"off"`
}

type Indicator struct {
	Enabled bool            `toml:"enabled"`
	Colors  IndicatorColors `toml:"colors"`
}

type Config struct {
	ShowMuted  bool      `toml:"show_muted"`
	ClientName string    `toml:"client_name"`
	LogDir     string    `toml:"log_dir"`
	Blocks     Blocks    `toml:"blocks"`
	Indicator  Indicator `toml:"indicator"`
}

func Default() Config {
	return Config{
		ClientName: audio.ClientName,
		Blocks: Blocks{
			On:  BlockStyle{FullText: i3bar.GlyphMic, Color: i3bar.ColorListening},
			Off: BlockStyle{FullText: i3bar.GlyphMicMuted, Color: i3bar.ColorMuted},
		},
		Indicator: Indicator{
			Enabled: true,
			Colors: IndicatorColors{
				On:  indicator.DefaultColors.On.String(),
				Off: indicator.DefaultColors.Off.String(),
			},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/i3pamicstatus/config.toml.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "i3pamicstatus", "config.toml"), nil
}

// Load reads path, or the default location when path is empty. It returns
// the resolved path and whether a file was found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, "", false, err
		}
	}

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &cfg, path, false, nil
	}
	if err != nil {
		return nil, "", false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, path, true, nil
}

func (c *Config) normalize() {
	c.ClientName = strings.TrimSpace(c.ClientName)
	if c.ClientName == "" {
		c.ClientName = audio.ClientName
	}
	c.LogDir = strings.TrimSpace(c.LogDir)
	c.Blocks.On.Color = strings.ToLower(strings.TrimSpace(c.Blocks.On.Color))
	c.Blocks.Off.Color = strings.ToLower(strings.TrimSpace(c.Blocks.Off.Color))
	c.Indicator.Colors.On = strings.ToLower(strings.TrimSpace(c.Indicator.Colors.On))
	c.Indicator.Colors.Off = strings.ToLower(strings.TrimSpace(c.Indicator.Colors.Off))
}

// Validate ensures every colour parses.
func (c *Config) Validate() error {
	for key, v := range map[string]string{
		"blocks.on.color":      c.Blocks.On.Color,
		"blocks.off.color":     c.Blocks.Off.Color,
		"indicator.colors.on":  c.Indicator.Colors.On,
		"indicator.colors.off": c.Indicator.Colors.Off,
	} {
		if _, err := indicator.ParseColor(v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// Table builds the derived block table.
func (c *Config) Table() (*i3bar.Table, error) {
	return i3bar.NewTable(c.Blocks.On.FullText, c.Blocks.On.Color, c.Blocks.Off.FullText, c.Blocks.Off.Color)
}

// IndicatorColors returns the parsed light colours. Call after Validate.
func (c *Config) IndicatorColors() indicator.Colors {
	on, _ := indicator.ParseColor(c.Indicator.Colors.On)
	off, _ := indicator.ParseColor(c.Indicator.Colors.Off)
	return indicator.Colors{On: on, Off: off}
}

// CreateSample writes a commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
