package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// go-mp3 emits this many samples of decoder delay before the first real one.
const mp3DecoderDelay = 529

// mp3Trim is the encoder delay and padding recorded in a LAME Xing/Info
// header, in samples per channel, already adjusted for decoder delay.
type mp3Trim struct {
	start int64
	end   int64
}

func (t mp3Trim) bytes(frameSize int64) (start, end int64) {
	return t.start * frameSize, t.end * frameSize
}

// readMP3Trim looks for a LAME gapless header in the first frame of r.
// A missing or malformed header yields a zero trim. r is rewound on return.
func readMP3Trim(r io.ReadSeeker) (mp3Trim, error) {
	defer r.Seek(0, io.SeekStart)

	head := make([]byte, 10)
	if _, err := io.ReadFull(r, head); err != nil {
		return mp3Trim{}, nil
	}
	var frameAt int64
	if bytes.Equal(head[:3], []byte("ID3")) {
		frameAt = 10 + int64(synchsafe(head[6:10]))
		if head[5]&0x10 != 0 {
			frameAt += 10 // footer
		}
	}

	if _, err := r.Seek(frameAt, io.SeekStart); err != nil {
		return mp3Trim{}, err
	}
	// Frame header plus the largest side info and CRC, then the Xing block.
	buf := make([]byte, 4+2+32+256)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return mp3Trim{}, nil
	}
	buf = buf[:n]

	skip, ok := mp3SideInfoOffset(buf)
	if !ok || skip > len(buf) {
		return mp3Trim{}, nil
	}
	trim, _ := parseLAMETrim(buf[skip:])
	return trim, nil
}

func synchsafe(b []byte) int {
	return int(b[0]&0x7f)<<21 | int(b[1]&0x7f)<<14 | int(b[2]&0x7f)<<7 | int(b[3]&0x7f)
}

// mp3SideInfoOffset returns where the Xing tag starts relative to a layer III
// frame header.
func mp3SideInfoOffset(b []byte) (int, bool) {
	if len(b) < 4 {
		return 0, false
	}
	h := binary.BigEndian.Uint32(b)
	if h>>21 != 0x7ff {
		return 0, false
	}
	version := (h >> 19) & 0x3
	layer := (h >> 17) & 0x3
	if layer != 0x1 || version == 0x1 {
		return 0, false
	}

	mpeg1 := version == 0x3
	mono := (h>>6)&0x3 == 0x3
	side := 17
	switch {
	case mpeg1 && !mono:
		side = 32
	case !mpeg1 && mono:
		side = 9
	}

	off := 4 + side
	if (h>>16)&0x1 == 0 {
		off += 2 // CRC
	}
	return off, true
}

func parseLAMETrim(b []byte) (mp3Trim, bool) {
	if len(b) < 8 {
		return mp3Trim{}, false
	}
	if tag := string(b[:4]); tag != "Xing" && tag != "Info" {
		return mp3Trim{}, false
	}

	flags := binary.BigEndian.Uint32(b[4:8])
	off := 8
	for _, f := range []struct {
		bit  uint32
		size int
	}{{0x1, 4}, {0x2, 4}, {0x4, 100}, {0x8, 4}} {
		if flags&f.bit != 0 {
			off += f.size
		}
	}
	if len(b) < off+24 {
		return mp3Trim{}, false
	}

	dp := b[off+21 : off+24]
	delay := int64(dp[0])<<4 | int64(dp[1]>>4)
	padding := int64(dp[1]&0x0f)<<8 | int64(dp[2])
	if delay == 0 && padding == 0 {
		return mp3Trim{}, false
	}
	return mp3Trim{
		start: delay + mp3DecoderDelay,
		end:   max(padding-mp3DecoderDelay, 0),
	}, true
}
