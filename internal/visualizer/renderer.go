package visualizer

import (
	"sync"
	"time"
)

// Source supplies the latest captured frame.
type Source interface {
	Latest() Frame
}

// Clock reports playback progress.
type Clock interface {
	Position() time.Duration
	Duration() time.Duration
}

// State is the renderer lifecycle state.
type State uint8

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "running"
}

// Renderer turns the latest frame into a bar set once per tick until
// playback has finished. Stopped is terminal.
type Renderer struct {
	src   Source
	clock Clock

	mu     sync.Mutex
	width  float64
	height float64
	bars   []BarSpec
	state  State
	ticks  uint64
	drawn  uint64
	done   chan struct{}
}

// NewRenderer creates a running renderer for a width x height view.
// A nil clock makes every tick a no-op until one is attached.
func NewRenderer(src Source, clock Clock, width, height float64) *Renderer {
	return &Renderer{
		src:    src,
		clock:  clock,
		width:  width,
		height: height,
		done:   make(chan struct{}),
	}
}

// Tick performs one render step and returns the state afterwards.
func (r *Renderer) Tick() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Stopped {
		return Stopped
	}
	r.ticks++

	if r.clock == nil || r.src == nil {
		return r.state
	}
	// A non-positive duration is unknown; such a track never reaches its end.
	if total := r.clock.Duration(); total > 0 && r.clock.Position() >= total {
		r.stopLocked()
		return Stopped
	}

	frame := r.src.Latest()
	if len(frame) == 0 {
		return r.state
	}

	r.bars = Layout(frame, r.width, r.height)
	r.drawn++
	return r.state
}

// Stop moves the renderer to Stopped. Safe to call more than once.
func (r *Renderer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Renderer) stopLocked() {
	if r.state == Stopped {
		return
	}
	r.state = Stopped
	close(r.done)
}

// Done returns a channel that closes when the renderer stops.
func (r *Renderer) Done() <-chan struct{} {
	return r.done
}

// State returns the current lifecycle state.
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Resize changes the view size used by later ticks. The current bars are
// left alone until the next draw.
func (r *Renderer) Resize(width, height float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = width
	r.height = height
}

// Bars returns a copy of the bars drawn by the last successful tick.
func (r *Renderer) Bars() []BarSpec {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bars == nil {
		return nil
	}
	out := make([]BarSpec, len(r.bars))
	copy(out, r.bars)
	return out
}

// Stats reports how many ticks were handled and how many of them drew bars.
func (r *Renderer) Stats() (ticks, drawn uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks, r.drawn
}
