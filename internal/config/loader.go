package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// Fields missing from the file keep their [Default] values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of the defaults and
// validates the result.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if !cfg.Capture.Source.IsValid() {
		errs = append(errs, fmt.Errorf("capture.source %q is invalid; valid values: microphone, playback, none", cfg.Capture.Source))
	}
	if cfg.Capture.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("capture.buffer_size must be positive, got %d", cfg.Capture.BufferSize))
	}
	if cfg.Capture.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("capture.sample_rate must be positive, got %v", cfg.Capture.SampleRate))
	}
	if cfg.Visualizer.RefreshRate <= 0 || cfg.Visualizer.RefreshRate > 240 {
		errs = append(errs, fmt.Errorf("visualizer.refresh_rate must be in 1..240, got %d", cfg.Visualizer.RefreshRate))
	}
	if cfg.Visualizer.Rows <= 0 {
		errs = append(errs, fmt.Errorf("visualizer.rows must be positive, got %d", cfg.Visualizer.Rows))
	}
	if cfg.Visualizer.UnitsPerColumn <= 0 {
		errs = append(errs, fmt.Errorf("visualizer.units_per_column must be positive, got %v", cfg.Visualizer.UnitsPerColumn))
	}

	return errors.Join(errs...)
}
