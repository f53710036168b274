// Package config layers tid's configuration: built-in defaults, then the
// YAML config file, then command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dwynings/tid"
)

const (
	// DefaultPath is where tid looks for its config file.
	DefaultPath = "/etc/tid/tid.yml"

	// DefaultFontDir holds fonts referenced by name rather than path.
	DefaultFontDir = "/etc/tid/fonts"

	// DefaultFont is used when no font is configured.
	DefaultFont = "cream12.uf2"

	// DefaultMPDAddr is the conventional local mpd address.
	DefaultMPDAddr = "127.0.0.1:6600"

	colorPrefix = "0x"
)

// Config is a fully resolved configuration.
type Config struct {
	FontPath   string
	Foreground tid.Pixel
	Background tid.Pixel
	MPDAddr    string
	GraphWidth int
	Tick       time.Duration
}

// Default returns the built-in configuration: the stock font, white on
// transparent, a 100-sample graph, and a 500 ms redraw tick.
func Default() Config {
	return Config{
		FontPath:   filepath.Join(DefaultFontDir, DefaultFont),
		Foreground: tid.Pixel{0xff, 0xff, 0xff, 0xff},
		Background: tid.Pixel{0x00, 0x00, 0x00, 0x00},
		MPDAddr:    DefaultMPDAddr,
		GraphWidth: 100,
		Tick:       500 * time.Millisecond,
	}
}

// File is the YAML config file schema. Every field is optional; absent
// fields keep the previous layer's value.
type File struct {
	FontName   string `yaml:"font_name"`
	FontPath   string `yaml:"font_path"`
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
	MPDAddr    string `yaml:"mpd_addr"`
	GraphWidth int    `yaml:"graph_width"`
	TickMS     int    `yaml:"tick_ms"`
}

// Load reads the YAML file at path and applies it over c. A missing file
// is not an error; the current values stand.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Apply(f); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// Apply overlays the file's set fields onto c. font_path wins over
// font_name when both are given.
func (c *Config) Apply(f File) error {
	if f.FontName != "" {
		c.FontPath = filepath.Join(DefaultFontDir, f.FontName)
	}
	if f.FontPath != "" {
		c.FontPath = f.FontPath
	}
	if f.Foreground != "" {
		px, err := ParseColor(f.Foreground)
		if err != nil {
			return err
		}
		c.Foreground = px
	}
	if f.Background != "" {
		px, err := ParseColor(f.Background)
		if err != nil {
			return err
		}
		c.Background = px
	}
	if f.MPDAddr != "" {
		c.MPDAddr = f.MPDAddr
	}
	if f.GraphWidth > 0 {
		c.GraphWidth = f.GraphWidth
	}
	if f.TickMS > 0 {
		c.Tick = time.Duration(f.TickMS) * time.Millisecond
	}
	return nil
}

// ParseColor parses a 0x-prefixed straight-RGBA hex string such as
// 0xffffffff into a pixel, big-endian channel order.
func ParseColor(s string) (tid.Pixel, error) {
	stripped, ok := strings.CutPrefix(strings.TrimSpace(s), colorPrefix)
	if !ok {
		return tid.Pixel{}, fmt.Errorf("color %q must be prefixed with %q", s, colorPrefix)
	}
	n, err := strconv.ParseUint(stripped, 16, 32)
	if err != nil {
		return tid.Pixel{}, fmt.Errorf("color %q: %w", s, err)
	}
	return tid.Pixel{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}, nil
}
