// Package player plays a single audio file through oto and reports its
// progress.
package player

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Device hands out the oto context for a given PCM format.
type Device interface {
	Playback(sampleRate, channels int) (*oto.Context, error)
}

// output is the part of *oto.Player the player drives.
type output interface {
	Play()
	Pause()
	IsPlaying() bool
	BufferedSize() int
}

// countingReader wraps the decoder and tracks bytes handed to oto.
type countingReader struct {
	reader io.Reader
	tap    *tap
	pos    int64
	eof    bool
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	if n > 0 && cr.tap != nil {
		cr.tap.write(p[:n])
	}
	cr.mu.Lock()
	cr.pos += int64(n)
	if err == io.EOF {
		cr.eof = true
	}
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) EOF() bool {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.eof
}

// Option configures a Player.
type Option func(*Player)

// WithTap publishes the played audio, mixed to mono, in frames of
// frameSize samples.
func WithTap(sink Sink, frameSize int) Option {
	return func(p *Player) {
		p.tapSink = sink
		p.tapSize = frameSize
	}
}

// WithPollInterval sets how often the player checks for end of playback.
func WithPollInterval(d time.Duration) Option {
	return func(p *Player) {
		p.poll = d
	}
}

// Player plays one decoded file. Playback starts in New.
type Player struct {
	decoder     audioDecoder
	counter     *countingReader
	out         output
	bytesPerSec int
	duration    time.Duration
	poll        time.Duration

	tapSink Sink
	tapSize int

	done    chan struct{}
	stopMon chan struct{}
	cleanup func()

	mu     sync.Mutex
	closed bool
}

// New opens path, picks a decoder from its extension and starts playback
// on the device.
func New(path string, dev Device, opts ...Option) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	ctx, err := dev.Playback(dec.SampleRate(), dec.ChannelCount())
	if err != nil {
		f.Close()
		return nil, err
	}

	p := newPlayer(dec, opts...)
	p.cleanup = func() { f.Close() }

	p.out = ctx.NewPlayer(p.counter)
	p.out.Play()

	go p.monitor()

	return p, nil
}

func newPlayer(dec audioDecoder, opts ...Option) *Player {
	p := &Player{
		decoder: dec,
		poll:    200 * time.Millisecond,
		done:    make(chan struct{}),
		stopMon: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.bytesPerSec = dec.SampleRate() * dec.ChannelCount() * 2
	if p.bytesPerSec > 0 && dec.Length() > 0 {
		p.duration = bytesToDuration(dec.Length(), p.bytesPerSec)
	}

	p.counter = &countingReader{reader: dec}
	if p.tapSink != nil && p.tapSize > 0 {
		p.counter.tap = newTap(p.tapSink, dec.ChannelCount(), p.tapSize)
	}
	return p
}

func bytesToDuration(n int64, bytesPerSec int) time.Duration {
	return time.Duration(float64(n) / float64(bytesPerSec) * float64(time.Second))
}

func (p *Player) monitor() {
	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()

	for {
		if p.finished() {
			close(p.done)
			return
		}
		select {
		case <-p.stopMon:
			return
		case <-ticker.C:
		}
	}
}

// finished reports whether the decoder is exhausted and oto has played
// everything it buffered.
func (p *Player) finished() bool {
	total := p.decoder.Length()
	if !p.counter.EOF() && (total <= 0 || p.counter.Pos() < total) {
		return false
	}
	return p.out == nil || !p.out.IsPlaying() || p.out.BufferedSize() == 0
}

// Done returns a channel that closes when the last buffered sample has
// been played.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	if p.bytesPerSec == 0 {
		return 0
	}
	return bytesToDuration(p.counter.Pos(), p.bytesPerSec)
}

// Duration returns the total duration of the track, or 0 if unknown.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// Format describes the decoded stream, e.g. "44100 Hz stereo".
func (p *Player) Format() string {
	ch := "stereo"
	switch p.decoder.ChannelCount() {
	case 1:
		ch = "mono"
	case 2:
	default:
		ch = fmt.Sprintf("%d ch", p.decoder.ChannelCount())
	}
	return fmt.Sprintf("%d Hz %s", p.decoder.SampleRate(), ch)
}

// Close stops playback and releases the file. Safe to call more than once.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.stopMon)
	if p.out != nil {
		p.out.Pause()
	}
	if p.cleanup != nil {
		p.cleanup()
	}
}
