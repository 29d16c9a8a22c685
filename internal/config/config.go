// Package config holds the soundwave configuration schema and loader.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// SlogLevel converts l to a slog level, defaulting to info.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Source selects where visualizer frames come from.
type Source string

const (
	// SourceMicrophone captures the default input device.
	SourceMicrophone Source = "microphone"

	// SourcePlayback taps the decoded audio on its way to the speakers.
	SourcePlayback Source = "playback"

	// SourceNone disables capture; the visualizer stays blank.
	SourceNone Source = "none"
)

// IsValid reports whether s is a recognised source.
func (s Source) IsValid() bool {
	switch s {
	case SourceMicrophone, SourcePlayback, SourceNone:
		return true
	}
	return false
}

// Config is the root configuration structure.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// LogFile receives log output while the terminal UI is running.
	LogFile string `yaml:"log_file"`

	Capture    CaptureConfig    `yaml:"capture"`
	Visualizer VisualizerConfig `yaml:"visualizer"`
}

// CaptureConfig configures the sample source.
type CaptureConfig struct {
	Source Source `yaml:"source"`

	// BufferSize is the number of frames delivered per capture callback.
	BufferSize int `yaml:"buffer_size"`

	// SampleRate of the input stream in Hz.
	SampleRate float64 `yaml:"sample_rate"`
}

// VisualizerConfig configures the render surface.
type VisualizerConfig struct {
	// RefreshRate is the number of render ticks per second.
	RefreshRate int `yaml:"refresh_rate"`

	// Rows is the canvas height in terminal rows.
	Rows int `yaml:"rows"`

	// UnitsPerColumn is the width of one terminal column in view units.
	UnitsPerColumn float64 `yaml:"units_per_column"`

	// Color is a lipgloss color for the bars. Empty disables styling.
	Color string `yaml:"color"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: LogInfo,
		LogFile:  filepath.Join(os.TempDir(), "soundwave.log"),
		Capture: CaptureConfig{
			Source:     SourceMicrophone,
			BufferSize: 1024,
			SampleRate: 44100,
		},
		Visualizer: VisualizerConfig{
			RefreshRate:    60,
			Rows:           20,
			UnitsPerColumn: 4,
			Color:          "#00FF00",
		},
	}
}
