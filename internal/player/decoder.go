package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// audioDecoder produces interleaved signed 16-bit little-endian PCM.
type audioDecoder interface {
	io.Reader
	Length() int64 // total output bytes
	SampleRate() int
	ChannelCount() int
}

// newDecoder detects format by file extension and returns the appropriate decoder.
func newDecoder(f *os.File) (audioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// pcmQueue holds converted PCM that did not fit into the caller's buffer.
type pcmQueue struct {
	pending []byte
}

func (q *pcmQueue) drain(p []byte) int {
	n := copy(p, q.pending)
	q.pending = q.pending[n:]
	return n
}

// fill copies raw into p and keeps the remainder for the next Read.
func (q *pcmQueue) fill(p, raw []byte) int {
	n := copy(p, raw)
	if n < len(raw) {
		q.pending = raw[n:]
	}
	return n
}

// putSample writes v as a clamped 16-bit little-endian sample.
func putSample(dst []byte, v int) {
	if v > 32767 {
		v = 32767
	} else if v < -32768 {
		v = -32768
	}
	binary.LittleEndian.PutUint16(dst, uint16(int16(v)))
}

// to16 rescales a sample of the given bit depth to 16 bits.
// 8-bit PCM is unsigned.
func to16(v, bitDepth int) int {
	switch {
	case bitDepth == 8:
		return (v - 128) << 8
	case bitDepth > 16:
		return v >> (bitDepth - 16)
	case bitDepth < 16:
		return v << (16 - bitDepth)
	}
	return v
}

// --- MP3 ---

// mp3Decoder drops the encoder delay and padding when the file carries a
// LAME gapless header.
type mp3Decoder struct {
	dec    *mp3.Decoder
	r      io.Reader
	length int64
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	trim, err := readMP3Trim(f)
	if err != nil {
		return nil, fmt.Errorf("reading MP3 header: %w", err)
	}
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}

	d := &mp3Decoder{dec: dec, r: dec, length: dec.Length()}
	start, end := trim.bytes(4) // go-mp3 always emits 16-bit stereo
	if trimmed := d.length - start - end; start+end > 0 && trimmed > 0 {
		if _, err := dec.Seek(start, io.SeekStart); err != nil {
			return nil, fmt.Errorf("skipping MP3 encoder delay: %w", err)
		}
		d.r = io.LimitReader(dec, trimmed)
		d.length = trimmed
	}
	return d, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) { return d.r.Read(p) }
func (d *mp3Decoder) Length() int64              { return d.length }
func (d *mp3Decoder) SampleRate() int            { return d.dec.SampleRate() }
func (d *mp3Decoder) ChannelCount() int          { return 2 }

// --- WAV ---

type wavDecoder struct {
	dec        *wav.Decoder
	buf        *audio.IntBuffer
	q          pcmQueue
	totalBytes int64
	channels   int
	bitDepth   int
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	srcFrame := int64(channels * bitDepth / 8)
	if srcFrame == 0 {
		return nil, fmt.Errorf("invalid WAV format: %d channels, %d bits", channels, bitDepth)
	}

	return &wavDecoder{
		dec:        dec,
		totalBytes: dec.PCMLen() / srcFrame * int64(channels) * 2,
		channels:   channels,
		bitDepth:   bitDepth,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if len(d.q.pending) > 0 {
		return d.q.drain(p), nil
	}

	samples := len(p) / 2
	if samples < d.channels {
		samples = d.channels
	}
	if d.buf == nil || len(d.buf.Data) != samples {
		d.buf = &audio.IntBuffer{
			Format:         d.dec.Format(),
			Data:           make([]int, samples),
			SourceBitDepth: d.bitDepth,
		}
	}

	n, err := d.dec.PCMBuffer(d.buf)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i, v := range d.buf.Data[:n] {
		putSample(raw[i*2:], to16(v, d.bitDepth))
	}
	return d.q.fill(p, raw), nil
}

func (d *wavDecoder) Length() int64     { return d.totalBytes }
func (d *wavDecoder) SampleRate() int   { return int(d.dec.SampleRate) }
func (d *wavDecoder) ChannelCount() int { return d.channels }

// --- FLAC ---

type flacDecoder struct {
	stream     *flac.Stream
	q          pcmQueue
	totalBytes int64
	channels   int
	bps        int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	channels := int(stream.Info.NChannels)
	return &flacDecoder{
		stream:     stream,
		totalBytes: int64(stream.Info.NSamples) * int64(channels) * 2,
		channels:   channels,
		bps:        int(stream.Info.BitsPerSample),
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if len(d.q.pending) > 0 {
		return d.q.drain(p), nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	nSamples := int(frame.Subframes[0].NSamples)
	raw := make([]byte, nSamples*d.channels*2)
	for i := range nSamples {
		for ch := range d.channels {
			v := int(frame.Subframes[ch].Samples[i])
			putSample(raw[(i*d.channels+ch)*2:], to16(v, d.bps))
		}
	}
	return d.q.fill(p, raw), nil
}

func (d *flacDecoder) Length() int64     { return d.totalBytes }
func (d *flacDecoder) SampleRate() int   { return int(d.stream.Info.SampleRate) }
func (d *flacDecoder) ChannelCount() int { return d.channels }

// --- OGG Vorbis ---

type oggDecoder struct {
	reader     *oggvorbis.Reader
	q          pcmQueue
	totalBytes int64
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggDecoder{
		reader:     reader,
		totalBytes: reader.Length() * int64(reader.Channels()) * 2,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if len(d.q.pending) > 0 {
		return d.q.drain(p), nil
	}

	ch := d.reader.Channels()
	samples := make([]float32, max(len(p)/2/ch*ch, ch))
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i, s := range samples[:n] {
		putSample(raw[i*2:], int(s*32767))
	}
	return d.q.fill(p, raw), err
}

func (d *oggDecoder) Length() int64     { return d.totalBytes }
func (d *oggDecoder) SampleRate() int   { return d.reader.SampleRate() }
func (d *oggDecoder) ChannelCount() int { return d.reader.Channels() }
