package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olivier-w/soundwave/internal/config"
)

const sampleYAML = `
log_level: debug
log_file: /tmp/sw.log
capture:
  source: playback
  buffer_size: 512
visualizer:
  refresh_rate: 30
  rows: 12
`

func TestLoadFromReaderOverridesDefaults(t *testing.T) {
	cfg, err := config.LoadFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.LogLevel != config.LogDebug {
		t.Fatalf("expected debug log level, got %q", cfg.LogLevel)
	}
	if cfg.Capture.Source != config.SourcePlayback {
		t.Fatalf("expected playback source, got %q", cfg.Capture.Source)
	}
	if cfg.Capture.BufferSize != 512 {
		t.Fatalf("expected buffer size 512, got %d", cfg.Capture.BufferSize)
	}
	if cfg.Capture.SampleRate != 44100 {
		t.Fatalf("expected default sample rate 44100, got %v", cfg.Capture.SampleRate)
	}
	if cfg.Visualizer.RefreshRate != 30 || cfg.Visualizer.Rows != 12 {
		t.Fatalf("unexpected visualizer config: %+v", cfg.Visualizer)
	}
	if cfg.Visualizer.UnitsPerColumn != 4 {
		t.Fatalf("expected default units per column 4, got %v", cfg.Visualizer.UnitsPerColumn)
	}
}

func TestLoadFromReaderEmptyInputUsesDefaults(t *testing.T) {
	cfg, err := config.LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	def := config.Default()
	if cfg.Capture != def.Capture || cfg.Visualizer != def.Visualizer {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	_, err := config.LoadFromReader(strings.NewReader("bogus: 1\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidateJoinsAllFailures(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "loud"
	cfg.Capture.Source = "radio"
	cfg.Capture.BufferSize = 0
	cfg.Visualizer.RefreshRate = 1000

	err := config.Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"log_level", "capture.source", "capture.buffer_size", "visualizer.refresh_rate"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %s, got %v", want, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soundwave.yaml")
	if err := os.WriteFile(path, []byte("capture:\n  source: none\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Capture.Source != config.SourceNone {
		t.Fatalf("expected source none, got %q", cfg.Capture.Source)
	}
}

func TestSlogLevelDefaultsToInfo(t *testing.T) {
	if got := config.LogLevel("").SlogLevel().String(); got != "INFO" {
		t.Fatalf("expected INFO, got %s", got)
	}
	if got := config.LogDebug.SlogLevel().String(); got != "DEBUG" {
		t.Fatalf("expected DEBUG, got %s", got)
	}
}
