package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/soundwave/internal/visualizer"
)

type tickMsg time.Time
type playbackEndedMsg struct{}
type rendererStoppedMsg struct{}

func refreshCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func checkDone(p Playback) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return playbackEndedMsg{}
	}
}

func watchRenderer(r *visualizer.Renderer) tea.Cmd {
	return func() tea.Msg {
		<-r.Done()
		return rendererStoppedMsg{}
	}
}
