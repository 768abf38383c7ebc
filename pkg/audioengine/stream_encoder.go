package audioengine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"hdxsfx/pkg/spec"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hraban/opus"
)

// WriteOpusHeader writes the HDXO stream header.
func WriteOpusHeader(w io.Writer, channels, rate int) error {
	hdr := make([]byte, 0, len(spec.OpusStreamMagic)+5)
	hdr = append(hdr, spec.OpusStreamMagic...)
	hdr = append(hdr, byte(channels))
	hdr = binary.BigEndian.AppendUint32(hdr, uint32(rate))
	_, err := w.Write(hdr)
	return err
}

// WriteOpusFrame writes one length-prefixed frame.
func WriteOpusFrame(w io.Writer, frame []byte) error {
	if len(frame) > 0xFFFF {
		return fmt.Errorf("opus frame too large: %d bytes", len(frame))
	}
	if err := binary.Write(w, binary.BigEndian, uint16(len(frame))); err != nil {
		return err
	}
	_, err := w.Write(frame)
	return err
}

// StreamEncodeWAV re-encodes a 16-bit WAV into an HDXO stream, one second of
// PCM per read. gain other than 1 is applied before encoding. It returns the
// duration in seconds.
func StreamEncodeWAV(r io.ReadSeeker, w io.Writer, gain float64) (float64, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return 0, errors.New("audioengine: invalid wav file")
	}
	if dec.BitDepth != 16 {
		return 0, fmt.Errorf("audioengine: opus encode needs 16-bit wav, got %d", dec.BitDepth)
	}
	rate := int(dec.SampleRate)
	channels := int(dec.NumChans)

	enc, err := opus.NewEncoder(rate, channels, opus.AppAudio)
	if err != nil {
		return 0, fmt.Errorf("audioengine: opus encoder %dHz/%dch: %w", rate, channels, err)
	}
	if err := WriteOpusHeader(w, channels, rate); err != nil {
		return 0, err
	}

	frameSize := rate * spec.FrameSize / 1000
	pcmBuf := make([]int16, frameSize*channels)
	opusBuf := make([]byte, spec.MaxFrameBytes)

	intBuf := &audio.IntBuffer{
		Data:   make([]int, rate*channels),
		Format: &audio.Format{NumChannels: channels, SampleRate: rate},
	}

	// pending carries a partial frame across reads
	pending := 0
	totalSamples := 0
	flush := func() error {
		for j := pending; j < len(pcmBuf); j++ {
			pcmBuf[j] = 0
		}
		if gain != 1 {
			ApplyQuickGain(pcmBuf, gain)
		}
		n, err := enc.Encode(pcmBuf, opusBuf)
		if err != nil {
			return err
		}
		pending = 0
		return WriteOpusFrame(w, opusBuf[:n])
	}

	for {
		n, err := dec.PCMBuffer(intBuf)
		if err != nil && err != io.EOF {
			return 0, err
		}
		if n == 0 {
			break
		}

		for i := 0; i < n; i++ {
			pcmBuf[pending] = int16(intBuf.Data[i])
			pending++
			if pending == len(pcmBuf) {
				if err := flush(); err != nil {
					return 0, err
				}
			}
		}
		totalSamples += n

		if err == io.EOF {
			break
		}
	}
	if pending > 0 {
		if err := flush(); err != nil {
			return 0, err
		}
	}

	return float64(totalSamples) / float64(rate) / float64(channels), nil
}
