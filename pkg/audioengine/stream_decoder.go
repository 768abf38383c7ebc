package audioengine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"hdxsfx/pkg/spec"

	"github.com/faiface/beep"
	"github.com/hraban/opus"
)

// maxFrameSamples covers the longest opus frame (120ms @ 48kHz).
const maxFrameSamples = 5760

type StreamDecoder struct {
	dec      *opus.Decoder
	channels int
}

func NewStreamDecoder(rate, channels int) (*StreamDecoder, error) {
	d, err := opus.NewDecoder(rate, channels)
	if err != nil {
		return nil, err
	}
	return &StreamDecoder{dec: d, channels: channels}, nil
}

// DecodeFrame returns the number of samples per channel written to outPcm.
func (sd *StreamDecoder) DecodeFrame(frame []byte, outPcm []int16) (int, error) {
	return sd.dec.Decode(frame, outPcm)
}

// ReadOpusHeader consumes the HDXO header and returns channels and rate.
func ReadOpusHeader(r io.Reader) (channels, rate int, err error) {
	hdr := make([]byte, len(spec.OpusStreamMagic)+5)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return 0, 0, fmt.Errorf("read opus header: %w", err)
	}
	if string(hdr[:4]) != spec.OpusStreamMagic {
		return 0, 0, fmt.Errorf("invalid opus stream magic: %q", hdr[:4])
	}
	channels = int(hdr[4])
	rate = int(binary.BigEndian.Uint32(hdr[5:]))
	if channels < 1 || channels > 2 {
		return 0, 0, fmt.Errorf("unsupported channel count %d", channels)
	}
	return channels, rate, nil
}

// ======================================================
// Opus frame streamer
// ======================================================
type opusStreamer struct {
	r        io.Reader
	dec      *StreamDecoder
	channels int
	pcm      []int16
	buffer   [][2]float64
	err      error
}

// NewOpusStreamer reads an HDXO stream: header, then uint16 big-endian
// length-prefixed opus frames until EOF.
func NewOpusStreamer(r io.Reader) (beep.Streamer, beep.Format, error) {
	channels, rate, err := ReadOpusHeader(r)
	if err != nil {
		return nil, beep.Format{}, err
	}
	dec, err := NewStreamDecoder(rate, channels)
	if err != nil {
		return nil, beep.Format{}, err
	}
	s := &opusStreamer{
		r:        r,
		dec:      dec,
		channels: channels,
		pcm:      make([]int16, maxFrameSamples*channels),
	}
	format := beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 2, Precision: 2}
	return s, format, nil
}

func (l *opusStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0

	for filled < len(samples) {
		if len(l.buffer) == 0 {
			if !l.next() {
				return filled, filled > 0
			}
			continue
		}
		n := copy(samples[filled:], l.buffer)
		l.buffer = l.buffer[n:]
		filled += n
	}

	return filled, true
}

func (l *opusStreamer) next() bool {
	var sz uint16
	if err := binary.Read(l.r, binary.BigEndian, &sz); err != nil {
		if !errors.Is(err, io.EOF) {
			l.err = err
		}
		return false
	}

	frame := make([]byte, sz)
	if _, err := io.ReadFull(l.r, frame); err != nil {
		l.err = fmt.Errorf("truncated opus frame: %w", err)
		return false
	}

	n, err := l.dec.DecodeFrame(frame, l.pcm)
	if err != nil {
		l.err = err
		return false
	}

	for i := 0; i < n; i++ {
		left := float64(l.pcm[i*l.channels]) / 32768.0
		right := left
		if l.channels > 1 {
			right = float64(l.pcm[i*l.channels+1]) / 32768.0
		}
		l.buffer = append(l.buffer, [2]float64{left, right})
	}
	return true
}

func (l *opusStreamer) Err() error { return l.err }
