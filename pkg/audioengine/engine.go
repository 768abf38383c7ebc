/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package audioengine drives the system speaker through beep and implements
// sfx.Engine on top of it.
package audioengine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"hdxsfx/pkg/sfx"
	"hdxsfx/pkg/spec"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

// ErrNotActivated is returned by CreateInstance before the speaker is up.
var ErrNotActivated = errors.New("audioengine: output not activated")

// Engine is the beep speaker backend. Every decoded buffer is normalised to
// the engine format so the mixer never resamples at play time.
type Engine struct {
	format     beep.Format
	bufferSize int

	once    sync.Once
	initErr error
	ready   atomic.Bool
}

// New returns an engine for the given output rate and speaker buffer length.
// Zero values fall back to the HDX defaults.
func New(sampleRate, bufferMs int) *Engine {
	if sampleRate <= 0 {
		sampleRate = spec.SampleRate
	}
	if bufferMs <= 0 {
		bufferMs = spec.BufferMs
	}
	sr := beep.SampleRate(sampleRate)
	return &Engine{
		format:     beep.Format{SampleRate: sr, NumChannels: spec.Channels, Precision: 2},
		bufferSize: sr.N(time.Duration(bufferMs) * time.Millisecond),
	}
}

// Format is the output format of the engine.
func (e *Engine) Format() beep.Format { return e.format }

// CreateOutputContext initialises the speaker once. Later calls return the
// first result.
func (e *Engine) CreateOutputContext() error {
	e.once.Do(func() {
		if err := speaker.Init(e.format.SampleRate, e.bufferSize); err != nil {
			e.initErr = fmt.Errorf("audioengine: speaker init: %w", err)
			return
		}
		e.ready.Store(true)
	})
	return e.initErr
}

// Silence is a one-sample silent buffer.
func (e *Engine) Silence() sfx.Buffer {
	buf := beep.NewBuffer(e.format)
	buf.Append(beep.Silence(1))
	return buf
}

// Decode turns raw file bytes into a *beep.Buffer at the engine rate.
func (e *Engine) Decode(data []byte) (sfx.Buffer, error) {
	return DecodeBytes(data, e.format)
}

func (e *Engine) CreateInstance(b sfx.Buffer) (sfx.Instance, error) {
	if !e.ready.Load() {
		return nil, ErrNotActivated
	}
	return newVoice(b)
}

func (e *Engine) Connect(inst sfx.Instance, gain float64) {
	v := inst.(*voice)
	speaker.Lock()
	v.vol.Volume, v.vol.Silent = gainToVolume(gain)
	speaker.Unlock()
}

func (e *Engine) Start(inst sfx.Instance) {
	speaker.Play(inst.(*voice).streamer())
}

// Stop detaches the voice from the mixer. Its completion callback is
// suppressed.
func (e *Engine) Stop(inst sfx.Instance) {
	v := inst.(*voice)
	v.stopped.Store(true)
	speaker.Lock()
	v.ctrl.Streamer = nil
	speaker.Unlock()
}

func (e *Engine) OnComplete(inst sfx.Instance, fn func()) {
	inst.(*voice).done = fn
}

// ======================================================
// voice: one playback through Volume -> Ctrl -> Callback
// ======================================================
type voice struct {
	vol     *effects.Volume
	ctrl    *beep.Ctrl
	stopped atomic.Bool
	done    func()
}

func newVoice(b sfx.Buffer) (*voice, error) {
	buf, ok := b.(*beep.Buffer)
	if !ok {
		return nil, fmt.Errorf("audioengine: foreign buffer %T", b)
	}
	vol := &effects.Volume{Streamer: buf.Streamer(0, buf.Len()), Base: 2}
	return &voice{vol: vol, ctrl: &beep.Ctrl{Streamer: vol}}, nil
}

func (v *voice) streamer() beep.Streamer {
	return beep.Seq(v.ctrl, beep.Callback(v.complete))
}

// complete runs on the mixer goroutine with the speaker lock held, so the
// callback is handed off.
func (v *voice) complete() {
	if v.stopped.Load() || v.done == nil {
		return
	}
	go v.done()
}
