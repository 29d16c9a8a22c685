package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/soundwave/internal/player"
	"github.com/olivier-w/soundwave/internal/util"
	"github.com/olivier-w/soundwave/internal/visualizer"
)

// Playback is the part of the player the UI drives.
type Playback interface {
	visualizer.Clock
	Done() <-chan struct{}
	Close()
}

// Options configures the UI.
type Options struct {
	// RefreshRate is the number of render ticks per second.
	RefreshRate int
	// Source describes where visualizer frames come from, shown in the status line.
	Source string
}

// Model is the Bubbletea model for the soundwave TUI.
type Model struct {
	player   Playback
	metadata player.Metadata
	renderer *visualizer.Renderer
	canvas   *visualizer.Canvas
	interval time.Duration
	source   string

	progress progress.Model
	help     help.Model
	keys     keyMap

	elapsed  time.Duration
	duration time.Duration
	frame    string
	width    int
	ended    bool
	quitting bool
}

// New creates a Model that renders through r onto c while p plays.
func New(p Playback, meta player.Metadata, r *visualizer.Renderer, c *visualizer.Canvas, opts Options) Model {
	rate := opts.RefreshRate
	if rate <= 0 {
		rate = 60
	}
	return Model{
		player:   p,
		metadata: meta,
		renderer: r,
		canvas:   c,
		interval: time.Second / time.Duration(rate),
		source:   opts.Source,
		progress: progress.New(progress.WithSolidFill("#00FF00"), progress.WithoutPercentage()),
		help:     help.New(),
		keys:     defaultKeyMap(),
		duration: p.Duration(),
		frame:    c.Paint(nil),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		refreshCmd(m.interval),
		checkDone(m.player),
		watchRenderer(m.renderer),
		tea.SetWindowTitle(windowTitle(m.metadata.Title, false)),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			m.renderer.Stop()
			m.player.Close()
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		return m, nil

	case tickMsg:
		state := m.renderer.Tick()
		m.elapsed = m.player.Position()
		if m.duration == 0 {
			m.duration = m.player.Duration()
		}
		m.frame = m.canvas.Paint(m.renderer.Bars())
		if state == visualizer.Stopped {
			m.ended = true
			return m, nil
		}
		return m, refreshCmd(m.interval)

	case rendererStoppedMsg:
		m.ended = true
		return m, tea.SetWindowTitle(windowTitle(m.metadata.Title, true))

	case playbackEndedMsg:
		m.renderer.Stop()
		m.ended = true
		m.elapsed = m.duration
		m.quitting = true
		m.player.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.canvas.Resize(msg.Width - 4)
		m.renderer.Resize(m.canvas.Width(), m.canvas.Height())
		m.frame = m.canvas.Paint(m.renderer.Bars())
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w := m.width
	if w < 30 {
		w = 50
	}

	elapsedStr := util.FormatDuration(m.elapsed)
	durationStr := util.FormatDuration(m.duration)
	m.progress.Width = max(w-len(elapsedStr)-len(durationStr)-8, 10)
	bar := m.progress.ViewAs(progressRatio(m.elapsed.Seconds(), m.duration.Seconds()))
	progressLine := fmt.Sprintf("%s %s %s", timeStyle.Render(elapsedStr), bar, timeStyle.Render(durationStr))

	lines := "\n"
	lines += "  " + headerStyle.Render("soundwave") + "\n"
	lines += "\n"
	lines += "  " + titleStyle.Render(m.metadata.Title) + "\n"
	if sub := m.metadata.Subtitle(); sub != "" {
		lines += "  " + artistStyle.Render(sub) + "\n"
	}
	lines += "\n"
	lines += indent(m.frame, "  ") + "\n"
	lines += "\n"
	lines += "  " + progressLine + "\n"
	lines += "\n"
	lines += "  " + statusStyle.Render(statusText(m.ended, m.source)) + "\n"
	lines += "\n"
	lines += "  " + m.help.View(m.keys) + "\n"

	return lines
}
