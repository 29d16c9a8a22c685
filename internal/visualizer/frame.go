package visualizer

import "sync/atomic"

// Frame is one capture buffer's worth of amplitude samples, roughly in [-1, 1].
type Frame []float32

// Mailbox is a single-slot hand-off between an audio producer and the
// renderer. Only the most recently published frame is visible.
type Mailbox struct {
	slot atomic.Pointer[Frame]
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Publish copies samples into a fresh frame and makes it the latest one.
// The caller may reuse samples as soon as Publish returns.
func (m *Mailbox) Publish(samples []float32) {
	f := make(Frame, len(samples))
	copy(f, samples)
	m.slot.Store(&f)
}

// Latest returns the most recently published frame, or nil if none.
// The returned frame must not be modified.
func (m *Mailbox) Latest() Frame {
	f := m.slot.Load()
	if f == nil {
		return nil
	}
	return *f
}
