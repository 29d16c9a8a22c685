package player

import "encoding/binary"

// Sink receives tapped frames. Implementations must not retain samples.
type Sink interface {
	Publish(samples []float32)
}

// tap mixes 16-bit interleaved PCM down to mono and publishes fixed-size
// frames. It runs on oto's reader goroutine only.
type tap struct {
	sink     Sink
	channels int
	frame    []float32
	fill     int
	carry    []byte
}

func newTap(sink Sink, channels, frameSize int) *tap {
	if channels < 1 {
		channels = 1
	}
	return &tap{
		sink:     sink,
		channels: channels,
		frame:    make([]float32, frameSize),
	}
}

func (t *tap) write(p []byte) {
	stride := t.channels * 2
	if len(t.carry) > 0 {
		p = append(t.carry, p...)
		t.carry = nil
	}

	i := 0
	for ; i+stride <= len(p); i += stride {
		var sum float32
		for ch := range t.channels {
			sum += float32(int16(binary.LittleEndian.Uint16(p[i+ch*2:]))) / 32768
		}
		t.frame[t.fill] = sum / float32(t.channels)
		t.fill++
		if t.fill == len(t.frame) {
			t.sink.Publish(t.frame)
			t.fill = 0
		}
	}
	if i < len(p) {
		t.carry = append([]byte(nil), p[i:]...)
	}
}
