// Package session owns the process-wide audio device state: the portaudio
// library used for capture and the oto context used for playback. A Session
// is opened once at startup, handed to whatever needs a device, and closed
// on shutdown.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/gordonklaus/portaudio"
)

// ErrClosed is returned when a device is requested from a closed session.
var ErrClosed = errors.New("session: closed")

// Session holds the audio devices for one program run.
type Session struct {
	mu sync.Mutex

	captureReady bool
	captureErr   error
	terminate    func() error

	otoCtx      *oto.Context
	otoRate     int
	otoChannels int
	newContext  func(*oto.NewContextOptions) (*oto.Context, chan struct{}, error)

	closed bool
}

// Open prepares the audio session. When capture is true portaudio is
// initialized; a failure there is logged and the session carries on
// without capture, see [Session.CaptureErr].
func Open(capture bool) *Session {
	return open(capture, portaudio.Initialize, portaudio.Terminate)
}

func open(capture bool, initialize, terminate func() error) *Session {
	s := &Session{newContext: oto.NewContext}
	if !capture {
		return s
	}
	if err := initialize(); err != nil {
		s.captureErr = fmt.Errorf("initializing capture: %w", err)
		slog.Warn("audio capture unavailable", "err", err)
		return s
	}
	s.captureReady = true
	s.terminate = terminate
	slog.Debug("audio capture initialized")
	return s
}

// CaptureReady reports whether capture devices may be opened.
func (s *Session) CaptureReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captureReady && !s.closed
}

// CaptureErr returns the reason capture is unavailable, if any.
func (s *Session) CaptureErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captureErr
}

// Playback returns the session's oto context, creating it on first use.
// oto supports a single context per process, so later calls must ask for
// the same format.
func (s *Session) Playback(sampleRate, channels int) (*oto.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.otoCtx != nil {
		if sampleRate != s.otoRate || channels != s.otoChannels {
			return nil, fmt.Errorf("session: playback already open at %d Hz/%d ch, requested %d Hz/%d ch",
				s.otoRate, s.otoChannels, sampleRate, channels)
		}
		return s.otoCtx, nil
	}

	ctx, ready, err := s.newContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("opening playback device: %w", err)
	}
	<-ready

	s.otoCtx = ctx
	s.otoRate = sampleRate
	s.otoChannels = channels
	return ctx, nil
}

// Close tears the session down. The oto context lives until process exit
// because oto cannot recreate it.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.captureReady && s.terminate != nil {
		if err := s.terminate(); err != nil {
			return fmt.Errorf("terminating capture: %w", err)
		}
	}
	return nil
}
