/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package sfxtest provides an in-memory engine, source and diagnostics
// recorder for exercising sfx.Manager without an audio device.
package sfxtest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"hdxsfx/pkg/sfx"
)

// Buffer is the decoded handle produced by Engine.
type Buffer struct {
	Data string
}

// Silence is the buffer returned by Engine.Silence.
var Silence = &Buffer{Data: "<silence>"}

// Instance records what the manager did to one playback.
type Instance struct {
	Seq     int
	Buffer  *Buffer
	Gain    float64
	Starts  int
	Stops   int
	onDone  func()
	stopped bool
}

// Engine is a fake sfx.Engine. Completion happens only when a test calls Finish.
type Engine struct {
	mu sync.Mutex

	ContextErr error
	DecodeErr  error
	CreateErr  error

	Contexts  int
	Decoded   []string
	Instances []*Instance
}

// NewEngine returns an empty fake engine.
func NewEngine() *Engine { return &Engine{} }

func (e *Engine) CreateOutputContext() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Contexts++
	return e.ContextErr
}

func (e *Engine) Silence() sfx.Buffer { return Silence }

func (e *Engine) Decode(data []byte) (sfx.Buffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.DecodeErr != nil {
		return nil, e.DecodeErr
	}
	e.Decoded = append(e.Decoded, string(data))
	return &Buffer{Data: string(data)}, nil
}

func (e *Engine) CreateInstance(buf sfx.Buffer) (sfx.Instance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.CreateErr != nil {
		return nil, e.CreateErr
	}
	b, ok := buf.(*Buffer)
	if !ok {
		return nil, fmt.Errorf("sfxtest: foreign buffer %T", buf)
	}
	inst := &Instance{Seq: len(e.Instances), Buffer: b}
	e.Instances = append(e.Instances, inst)
	return inst, nil
}

func (e *Engine) Connect(inst sfx.Instance, gain float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst.(*Instance).Gain = gain
}

func (e *Engine) Start(inst sfx.Instance) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst.(*Instance).Starts++
}

func (e *Engine) Stop(inst sfx.Instance) {
	e.mu.Lock()
	defer e.mu.Unlock()
	in := inst.(*Instance)
	in.Stops++
	in.stopped = true
}

func (e *Engine) OnComplete(inst sfx.Instance, fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst.(*Instance).onDone = fn
}

// Finish simulates natural completion of inst. Stopped instances never complete.
func (e *Engine) Finish(inst *Instance) {
	e.mu.Lock()
	fn := inst.onDone
	stopped := inst.stopped
	e.mu.Unlock()
	if fn != nil && !stopped {
		fn()
	}
}

// Audible returns the started instances other than the activation silence.
func (e *Engine) Audible() []*Instance {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*Instance
	for _, in := range e.Instances {
		if in.Buffer != Silence {
			out = append(out, in)
		}
	}
	return out
}

// Last returns the most recent audible instance or nil.
func (e *Engine) Last() *Instance {
	a := e.Audible()
	if len(a) == 0 {
		return nil
	}
	return a[len(a)-1]
}

// Source is an in-memory sfx.Source keyed by full path.
type Source struct {
	mu      sync.Mutex
	Files   map[string][]byte
	Fetches []string
	Err     error
}

// NewSource returns a source serving files.
func NewSource(files map[string][]byte) *Source {
	if files == nil {
		files = make(map[string][]byte)
	}
	return &Source{Files: files}
}

func (s *Source) Fetch(ctx context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fetches = append(s.Fetches, path)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	data, ok := s.Files[path]
	if !ok {
		return nil, fmt.Errorf("sfxtest: %s: %w", path, fs.ErrNotExist)
	}
	return data, nil
}

// Recorder collects diagnostics.
type Recorder struct {
	mu    sync.Mutex
	Diags []sfx.Diagnostic
}

func (r *Recorder) Report(d sfx.Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Diags = append(r.Diags, d)
}

// Kinds returns the kinds reported so far, in order.
func (r *Recorder) Kinds() []sfx.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sfx.Kind, len(r.Diags))
	for i, d := range r.Diags {
		out[i] = d.Kind
	}
	return out
}

// Last returns the most recent diagnostic.
func (r *Recorder) Last() (sfx.Diagnostic, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Diags) == 0 {
		return sfx.Diagnostic{}, false
	}
	return r.Diags[len(r.Diags)-1], true
}

// ErrBroken is a convenience error for injecting failures.
var ErrBroken = errors.New("sfxtest: broken")
