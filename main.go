package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/soundwave/internal/capture"
	"github.com/olivier-w/soundwave/internal/config"
	"github.com/olivier-w/soundwave/internal/media"
	"github.com/olivier-w/soundwave/internal/player"
	"github.com/olivier-w/soundwave/internal/session"
	"github.com/olivier-w/soundwave/internal/ui"
	"github.com/olivier-w/soundwave/internal/visualizer"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	listDevices := flag.Bool("devices", false, "list audio input devices and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: soundwave [-config file] [-devices] <audio-file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	closeLog := setupLogging(cfg)
	defer closeLog()

	if *listDevices {
		return printDevices()
	}

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	path := flag.Arg(0)
	if err := checkMediaFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	sess := session.Open(cfg.Capture.Source == config.SourceMicrophone)
	defer sess.Close()

	box := visualizer.NewMailbox()

	var opts []player.Option
	if cfg.Capture.Source == config.SourcePlayback {
		opts = append(opts, player.WithTap(box, cfg.Capture.BufferSize))
	}
	p, err := player.New(path, sess, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating player: %v\n", err)
		return 1
	}
	defer p.Close()

	slog.Info("playback started", "path", path, "format", p.Format(), "duration", p.Duration())

	source, stopCapture := startCapture(cfg, sess, box)
	defer stopCapture()

	canvas := visualizer.NewCanvas(cfg.Visualizer.Rows, cfg.Visualizer.UnitsPerColumn, cfg.Visualizer.Color)
	renderer := visualizer.NewRenderer(box, p, canvas.Width(), canvas.Height())
	model := ui.New(p, player.ReadMetadata(path), renderer, canvas, ui.Options{
		RefreshRate: cfg.Visualizer.RefreshRate,
		Source:      source,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ticks, drawn := renderer.Stats()
	slog.Info("renderer finished", "state", renderer.State(), "ticks", ticks, "drawn", drawn)
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// setupLogging points the default slog logger at the configured log file.
// The terminal belongs to the UI, so nothing is logged to stderr.
func setupLogging(cfg *config.Config) func() {
	var w io.Writer = io.Discard
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		} else {
			w = f
			closeFn = func() { f.Close() }
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel.SlogLevel()})))
	return closeFn
}

func checkMediaFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !media.IsSupportedExt(ext) {
		return fmt.Errorf("unsupported format %s (supported: %s)", ext, media.SupportedExtsList())
	}
	return nil
}

// startCapture starts the configured sample source and returns a label for
// the status line. Failures are logged and leave the visualizer without input.
func startCapture(cfg *config.Config, sess *session.Session, box *visualizer.Mailbox) (string, func()) {
	noop := func() {}
	switch cfg.Capture.Source {
	case config.SourcePlayback:
		return "playback", noop
	case config.SourceNone:
		return "no input", noop
	}

	mic, err := capture.NewMicrophone(sess, box, cfg.Capture.SampleRate, cfg.Capture.BufferSize)
	if err != nil {
		slog.Warn("microphone unavailable, visualizer disabled", "err", err)
		return "no input", noop
	}
	if err := mic.Start(); err != nil {
		slog.Warn("microphone failed to start, visualizer disabled", "err", err)
		return "no input", noop
	}
	return "microphone", func() {
		if err := mic.Stop(); err != nil {
			slog.Warn("stopping capture", "err", err)
		}
		slog.Info("capture summary", "buffers", mic.Buffers())
	}
}

func printDevices() int {
	sess := session.Open(true)
	defer sess.Close()

	devices, err := capture.Devices(sess)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, d := range devices {
		mark := " "
		if d.Default {
			mark = "*"
		}
		fmt.Printf("%s %s (%d ch, %.0f Hz)\n", mark, d.Name, d.Channels, d.SampleRate)
	}
	return 0
}
