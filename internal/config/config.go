// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/woozymasta/cadxml/internal/export"
	"github.com/woozymasta/cadxml/internal/preview"
)

// Defaults applied by Normalize.
const (
	DefaultListen         = "0.0.0.0"
	DefaultPort           = 8080
	DefaultMaxUploadBytes = 20 << 20
)

// Config represents the root configuration file structure.
type Config struct {
	Listen         string          `yaml:"listen,omitempty" json:"listen"`
	Formats        []string        `yaml:"formats,omitempty" json:"formats"`
	Preview        preview.Options `yaml:"preview,omitempty" json:"preview"`
	MaxUploadBytes int64           `yaml:"max_upload_bytes,omitempty" json:"max_upload_bytes"`
	Port           int             `yaml:"port,omitempty" json:"port"`
	Concurrency    int             `yaml:"concurrency,omitempty" json:"concurrency"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOptional behaves like Load but returns the defaults when path does not
// exist and missingOK is set.
func LoadOptional(path string, missingOK bool) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && missingOK && errors.Is(err, fs.ErrNotExist) {
		cfg = &Config{}
		return cfg, cfg.Normalize()
	}
	return cfg, err
}

// Normalize fills unset fields with defaults and validates format names.
func (c *Config) Normalize() error {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU()
	}

	if len(c.Formats) == 0 {
		for _, f := range export.Formats() {
			c.Formats = append(c.Formats, string(f))
		}
	}
	for _, name := range c.Formats {
		if _, err := export.ParseFormat(name); err != nil {
			return err
		}
	}

	c.Preview.Normalize()
	if c.Preview.Format != preview.FormatWebP && c.Preview.Format != preview.FormatPNG {
		return fmt.Errorf("unsupported preview format %q", c.Preview.Format)
	}
	return nil
}

// ExportFormats returns the configured formats as export.Format values.
func (c *Config) ExportFormats() []export.Format {
	out := make([]export.Format, 0, len(c.Formats))
	for _, name := range c.Formats {
		if f, err := export.ParseFormat(name); err == nil {
			out = append(out, f)
		}
	}
	return out
}
