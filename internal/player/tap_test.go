package player

import (
	"encoding/binary"
	"testing"
)

type frameSink struct {
	frames [][]float32
}

func (s *frameSink) Publish(samples []float32) {
	f := make([]float32, len(samples))
	copy(f, samples)
	s.frames = append(s.frames, f)
}

func pcm(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestTapMixesStereoToMono(t *testing.T) {
	sink := &frameSink{}
	tp := newTap(sink, 2, 2)

	tp.write(pcm(16384, -16384, 16384, 16384))

	if len(sink.frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(sink.frames))
	}
	if got := sink.frames[0]; got[0] != 0 || got[1] != 0.5 {
		t.Fatalf("unexpected mono mix %v", got)
	}
}

func TestTapCarriesPartialSamples(t *testing.T) {
	sink := &frameSink{}
	tp := newTap(sink, 1, 3)

	data := pcm(8192, 16384, -8192)
	tp.write(data[:1])
	tp.write(data[1:5])
	if len(sink.frames) != 0 {
		t.Fatalf("expected no frame yet, got %d", len(sink.frames))
	}
	tp.write(data[5:])

	if len(sink.frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(sink.frames))
	}
	want := []float32{0.25, 0.5, -0.25}
	for i, s := range sink.frames[0] {
		if s != want[i] {
			t.Fatalf("sample %d: expected %v, got %v", i, want[i], s)
		}
	}
}

func TestTapPublishesFixedSizeFrames(t *testing.T) {
	sink := &frameSink{}
	tp := newTap(sink, 1, 4)

	tp.write(make([]byte, 2*10))

	if len(sink.frames) != 2 {
		t.Fatalf("expected 2 full frames, got %d", len(sink.frames))
	}
	if tp.fill != 2 {
		t.Fatalf("expected 2 pending samples, got %d", tp.fill)
	}
}
