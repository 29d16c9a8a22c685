// Package capture records live input frames for the visualizer.
package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"github.com/olivier-w/soundwave/internal/session"
)

// ErrUnavailable is returned when the session has no capture support.
var ErrUnavailable = errors.New("capture: unavailable")

// Sink receives every captured buffer. Implementations must not retain
// samples after returning.
type Sink interface {
	Publish(samples []float32)
}

type stream interface {
	Start() error
	Stop() error
	Close() error
}

type openFunc func(sampleRate float64, framesPerBuffer int, cb func(in []float32)) (stream, error)

func openDefault(sampleRate float64, framesPerBuffer int, cb func(in []float32)) (stream, error) {
	return portaudio.OpenDefaultStream(1, 0, sampleRate, framesPerBuffer, cb)
}

// Microphone streams mono float32 buffers from the default input device.
type Microphone struct {
	sink            Sink
	sampleRate      float64
	framesPerBuffer int
	open            openFunc

	mu     sync.Mutex
	stream stream
	active bool

	buffers atomic.Uint64
}

// NewMicrophone prepares capture from the default input device. Nothing is
// opened until Start.
func NewMicrophone(sess *session.Session, sink Sink, sampleRate float64, framesPerBuffer int) (*Microphone, error) {
	if !sess.CaptureReady() {
		if err := sess.CaptureErr(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return nil, ErrUnavailable
	}
	return &Microphone{
		sink:            sink,
		sampleRate:      sampleRate,
		framesPerBuffer: framesPerBuffer,
		open:            openDefault,
	}, nil
}

// Start opens the input stream and begins publishing buffers.
func (m *Microphone) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active {
		return errors.New("capture: already active")
	}

	s, err := m.open(m.sampleRate, m.framesPerBuffer, m.process)
	if err != nil {
		return fmt.Errorf("opening input stream: %w", err)
	}
	if err := s.Start(); err != nil {
		s.Close()
		return fmt.Errorf("starting input stream: %w", err)
	}

	m.stream = s
	m.active = true
	slog.Info("capture started", "sample_rate", m.sampleRate, "buffer_size", m.framesPerBuffer)
	return nil
}

func (m *Microphone) process(in []float32) {
	m.buffers.Add(1)
	m.sink.Publish(in)
}

// Buffers returns the number of buffers delivered so far.
func (m *Microphone) Buffers() uint64 {
	return m.buffers.Load()
}

// Stop stops and closes the input stream. Safe to call when not active.
func (m *Microphone) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active || m.stream == nil {
		return nil
	}
	m.active = false
	s := m.stream
	m.stream = nil

	if err := s.Stop(); err != nil {
		s.Close()
		return fmt.Errorf("stopping input stream: %w", err)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("closing input stream: %w", err)
	}
	slog.Info("capture stopped")
	return nil
}

// Device describes one input device.
type Device struct {
	Name       string
	Channels   int
	SampleRate float64
	Default    bool
}

// Devices lists the input devices known to portaudio.
func Devices(sess *session.Session) ([]Device, error) {
	if !sess.CaptureReady() {
		return nil, ErrUnavailable
	}
	all, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	def, _ := portaudio.DefaultInputDevice()

	var out []Device
	for _, d := range all {
		if d.MaxInputChannels == 0 {
			continue
		}
		out = append(out, Device{
			Name:       d.Name,
			Channels:   d.MaxInputChannels,
			SampleRate: d.DefaultSampleRate,
			Default:    def != nil && d.Name == def.Name,
		})
	}
	return out, nil
}
