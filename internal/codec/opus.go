/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package codec prepares sound files for banks and inspects them: opus
// re-encoding, peak normalisation, waveform and spectrum analysis.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"hdxsfx/pkg/audioengine"
	"hdxsfx/pkg/spec"

	"github.com/go-audio/wav"
	"github.com/hraban/opus"
)

// EncodeWAVToOpusStream converts a 16-bit WAV file to an HDXO stream,
// optionally peak-normalising it first. It returns the stream and the
// duration in seconds.
func EncodeWAVToOpusStream(data []byte, normalize bool) ([]byte, float64, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, 0, errors.New("codec: invalid wav file")
	}
	if dec.BitDepth != 16 {
		return nil, 0, fmt.Errorf("codec: only 16-bit wav is supported, got %d", dec.BitDepth)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}
	rate := buf.Format.SampleRate
	channels := buf.Format.NumChannels

	pcmData := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		pcmData[i] = int16(v)
	}
	buf.Data = nil

	if normalize {
		pcmData = NormalizePCM(pcmData)
	}

	frames, err := EncodeRawToOpus(pcmData, rate, channels)
	if err != nil {
		return nil, 0, err
	}

	var out bytes.Buffer
	if err := audioengine.WriteOpusHeader(&out, channels, rate); err != nil {
		return nil, 0, err
	}
	for _, f := range frames {
		if err := audioengine.WriteOpusFrame(&out, f); err != nil {
			return nil, 0, err
		}
	}

	duration := float64(len(pcmData)) / float64(rate) / float64(channels)
	return out.Bytes(), duration, nil
}

// EncodeRawToOpus splits interleaved PCM into 20ms opus frames, padding the
// last one with silence.
func EncodeRawToOpus(pcm []int16, rate, channels int) ([][]byte, error) {
	enc, err := opus.NewEncoder(rate, channels, opus.AppAudio)
	if err != nil {
		return nil, err
	}

	frameSize := rate * spec.FrameSize / 1000
	sampleSize := frameSize * channels
	var frames [][]byte

	tmpData := make([]byte, spec.MaxFrameBytes)

	for i := 0; i < len(pcm); i += sampleSize {
		end := i + sampleSize
		var chunk []int16
		if end > len(pcm) {
			chunk = make([]int16, sampleSize)
			copy(chunk, pcm[i:])
		} else {
			chunk = pcm[i:end]
		}

		n, err := enc.Encode(chunk, tmpData)
		if err != nil {
			return nil, err
		}

		frame := make([]byte, n)
		copy(frame, tmpData[:n])
		frames = append(frames, frame)
	}
	return frames, nil
}

// NormalizePCM scales samples in place so the peak sits just below full scale.
func NormalizePCM(samples []int16) []int16 {
	var max int32
	for _, s := range samples {
		absS := int32(s)
		if absS < 0 {
			absS = -absS
		}
		if absS > max {
			max = absS
		}
	}
	if max == 0 {
		return samples
	}

	audioengine.ApplyQuickGain(samples, 32760.0/float64(max))
	return samples
}
