package session

import (
	"errors"
	"testing"

	"github.com/ebitengine/oto/v3"
)

func TestOpenWithoutCaptureSkipsInitialize(t *testing.T) {
	called := false
	s := open(false, func() error { called = true; return nil }, nil)
	if called {
		t.Fatal("expected initialize not to run")
	}
	if s.CaptureReady() {
		t.Fatal("expected capture to be unavailable")
	}
	if s.CaptureErr() != nil {
		t.Fatalf("expected no capture error, got %v", s.CaptureErr())
	}
}

func TestOpenCaptureFailureDegrades(t *testing.T) {
	boom := errors.New("no host api")
	s := open(true, func() error { return boom }, func() error {
		t.Fatal("terminate must not run after failed initialize")
		return nil
	})
	if s.CaptureReady() {
		t.Fatal("expected capture to be unavailable")
	}
	if !errors.Is(s.CaptureErr(), boom) {
		t.Fatalf("expected wrapped init error, got %v", s.CaptureErr())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestCloseTerminatesOnce(t *testing.T) {
	calls := 0
	s := open(true, func() error { return nil }, func() error { calls++; return nil })
	if !s.CaptureReady() {
		t.Fatal("expected capture to be ready")
	}

	s.Close()
	s.Close()

	if calls != 1 {
		t.Fatalf("expected terminate to run once, got %d", calls)
	}
	if s.CaptureReady() {
		t.Fatal("expected capture to be unavailable after close")
	}
}

func TestPlaybackCreatesContextOnce(t *testing.T) {
	created := 0
	s := open(false, nil, nil)
	s.newContext = func(op *oto.NewContextOptions) (*oto.Context, chan struct{}, error) {
		created++
		if op.Format != oto.FormatSignedInt16LE {
			t.Fatalf("expected signed 16-bit format, got %v", op.Format)
		}
		ready := make(chan struct{})
		close(ready)
		return new(oto.Context), ready, nil
	}

	a, err := s.Playback(44100, 2)
	if err != nil {
		t.Fatalf("Playback: %v", err)
	}
	b, err := s.Playback(44100, 2)
	if err != nil {
		t.Fatalf("Playback: %v", err)
	}
	if a != b || created != 1 {
		t.Fatalf("expected a single shared context, created %d", created)
	}

	if _, err := s.Playback(48000, 2); err == nil {
		t.Fatal("expected error for mismatched format")
	}
}

func TestPlaybackAfterClose(t *testing.T) {
	s := open(false, nil, nil)
	s.Close()
	if _, err := s.Playback(44100, 2); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestPlaybackPropagatesDeviceError(t *testing.T) {
	s := open(false, nil, nil)
	s.newContext = func(*oto.NewContextOptions) (*oto.Context, chan struct{}, error) {
		return nil, nil, errors.New("no device")
	}
	if _, err := s.Playback(44100, 2); err == nil {
		t.Fatal("expected device error")
	}
}
