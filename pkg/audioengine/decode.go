/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"hdxsfx/pkg/spec"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/go-audio/wav"
)

// ErrUnknownFormat is returned for bytes no decoder recognises.
var ErrUnknownFormat = errors.New("audioengine: unknown audio format")

// Kind is a container format recognised by Sniff.
type Kind string

const (
	KindWAV    Kind = "wav"
	KindMP3    Kind = "mp3"
	KindVorbis Kind = "ogg"
	KindFLAC   Kind = "flac"
	KindOpus   Kind = "hdxo"
)

// Sniff identifies the format from the leading magic bytes.
func Sniff(data []byte) (Kind, error) {
	switch {
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return KindWAV, nil
	case bytes.HasPrefix(data, []byte("fLaC")):
		return KindFLAC, nil
	case bytes.HasPrefix(data, []byte("OggS")):
		return KindVorbis, nil
	case bytes.HasPrefix(data, []byte(spec.OpusStreamMagic)):
		return KindOpus, nil
	case bytes.HasPrefix(data, []byte("ID3")),
		len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return KindMP3, nil
	}
	return "", ErrUnknownFormat
}

// Open returns a streamer over data at its native format.
func Open(data []byte) (beep.Streamer, beep.Format, error) {
	kind, err := Sniff(data)
	if err != nil {
		return nil, beep.Format{}, err
	}
	rc := io.NopCloser(bytes.NewReader(data))

	var (
		s      beep.Streamer
		format beep.Format
	)
	switch kind {
	case KindWAV:
		s, format, err = decodeWAV(data)
	case KindMP3:
		s, format, err = mp3.Decode(rc)
	case KindVorbis:
		s, format, err = vorbis.Decode(rc)
	case KindFLAC:
		s, format, err = flac.Decode(bytes.NewReader(data))
	case KindOpus:
		s, format, err = NewOpusStreamer(bytes.NewReader(data))
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("audioengine: %s: %w", kind, err)
	}
	return s, format, nil
}

// DecodeBytes decodes data fully into a buffer resampled to target.
func DecodeBytes(data []byte, target beep.Format) (*beep.Buffer, error) {
	s, format, err := Open(data)
	if err != nil {
		return nil, err
	}
	if c, ok := s.(io.Closer); ok {
		defer c.Close()
	}

	src := s
	if format.SampleRate != target.SampleRate {
		src = beep.Resample(4, format.SampleRate, target.SampleRate, s)
	}
	buf := beep.NewBuffer(target)
	buf.Append(src)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("audioengine: decode: %w", err)
	}
	return buf, nil
}

// decodeWAV reads RIFF data with go-audio and widens mono to stereo.
func decodeWAV(data []byte) (beep.Streamer, beep.Format, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, beep.Format{}, errors.New("invalid wav header")
	}
	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, beep.Format{}, err
	}

	ch := ib.Format.NumChannels
	if ch <= 0 {
		return nil, beep.Format{}, errors.New("wav without channels")
	}
	depth := int(dec.BitDepth)
	if depth <= 0 {
		depth = 16
	}
	scale := float64(int64(1) << (depth - 1))
	offset := 0
	if depth == 8 {
		// 8-bit wav is unsigned
		offset = 128
	}

	frames := make([][2]float64, len(ib.Data)/ch)
	for i := range frames {
		l := float64(ib.Data[i*ch]-offset) / scale
		r := l
		if ch > 1 {
			r = float64(ib.Data[i*ch+1]-offset) / scale
		}
		frames[i] = [2]float64{l, r}
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(ib.Format.SampleRate),
		NumChannels: 2,
		Precision:   (depth + 7) / 8,
	}
	return &pcmStreamer{frames: frames}, format, nil
}

type pcmStreamer struct {
	frames [][2]float64
	pos    int
}

func (p *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	if p.pos >= len(p.frames) {
		return 0, false
	}
	n := copy(samples, p.frames[p.pos:])
	p.pos += n
	return n, true
}

func (p *pcmStreamer) Err() error { return nil }
