/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package sfx keeps a registry of named sounds and plays them through a host
// audio engine with layered master and per-sound volume, a global mute gate
// and per-name stop.
package sfx

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

const (
	// DefaultVolume is used when Load or Tag get no volume.
	DefaultVolume = 100
	// MaxVolume is the upper bound of the master volume.
	MaxVolume = 100
)

// Entry is a registered sound. Aliases share Buffer and keep their own Volume.
type Entry struct {
	Buffer Buffer
	Volume int
}

type playback struct {
	id   string
	name string
	inst Instance
}

// Manager is the sound registry and playback controller.
type Manager struct {
	engine   Engine
	source   Source
	basePath string
	diag     Diagnostics
	locale   Locale
	observer func(Event)
	newID    func() string

	activateOnce sync.Once

	mu        sync.Mutex
	sounds    map[string]Entry
	active    map[string]*playback
	shortcuts map[string]func(...int) bool
	master    int
	muted     bool
	activated bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithSource sets the byte source used by Load.
func WithSource(src Source) Option {
	return func(m *Manager) { m.source = src }
}

// WithBasePath sets the prefix prepended to every source key.
func WithBasePath(path string) Option {
	return func(m *Manager) { m.basePath = path }
}

// WithDiagnostics sets the diagnostics sink. The default drops everything.
func WithDiagnostics(d Diagnostics) Option {
	return func(m *Manager) {
		if d != nil {
			m.diag = d
		}
	}
}

// WithLocale sets the operation name table and message language.
func WithLocale(l Locale) Option {
	return func(m *Manager) { m.locale = l }
}

// WithObserver registers a callback for playback events. It runs on the
// goroutine that caused the event and must not call back into the manager
// synchronously.
func WithObserver(fn func(Event)) Option {
	return func(m *Manager) { m.observer = fn }
}

// WithIDGenerator replaces the instance ID generator (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// New creates a manager on top of engine. The engine is not touched until
// the first playback attempt.
func New(engine Engine, opts ...Option) *Manager {
	m := &Manager{
		engine:    engine,
		diag:      discard{},
		locale:    English,
		newID:     uuid.NewString,
		sounds:    make(map[string]Entry),
		active:    make(map[string]*playback),
		shortcuts: make(map[string]func(...int) bool),
		master:    MaxVolume,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Entry returns the registered entry for name.
func (m *Manager) Entry(name string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sounds[name]
	return e, ok
}

// Names returns the registered names in sorted order.
func (m *Manager) Names() []string {
	m.mu.Lock()
	names := make([]string, 0, len(m.sounds))
	for n := range m.sounds {
		names = append(names, n)
	}
	m.mu.Unlock()
	sort.Strings(names)
	return names
}

// Playing returns the ID of the instance tracked for name.
func (m *Manager) Playing(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.active[name]
	if !ok {
		return "", false
	}
	return p.id, true
}

// MasterVolume returns the stored master volume.
func (m *Manager) MasterVolume() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.master
}

// Muted reports the global mute flag.
func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Activated reports whether the engine output has been unlocked.
func (m *Manager) Activated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activated
}

// Locale returns the locale in use.
func (m *Manager) Locale() Locale { return m.locale }

// SoundStatus describes one registered name in a Status.
type SoundStatus struct {
	Name     string `json:"name"`
	Volume   int    `json:"volume"`
	Playing  bool   `json:"playing"`
	Instance string `json:"instance,omitempty"`
}

// Status is a point-in-time view of the manager.
type Status struct {
	MasterVolume int           `json:"master_volume"`
	Muted        bool          `json:"muted"`
	Activated    bool          `json:"activated"`
	Sounds       []SoundStatus `json:"sounds"`
}

// Snapshot returns the current status with sounds sorted by name.
func (m *Manager) Snapshot() Status {
	m.mu.Lock()
	st := Status{
		MasterVolume: m.master,
		Muted:        m.muted,
		Activated:    m.activated,
		Sounds:       make([]SoundStatus, 0, len(m.sounds)),
	}
	for name, e := range m.sounds {
		s := SoundStatus{Name: name, Volume: e.Volume}
		if p, ok := m.active[name]; ok {
			s.Playing = true
			s.Instance = p.id
		}
		st.Sounds = append(st.Sounds, s)
	}
	m.mu.Unlock()
	sort.Slice(st.Sounds, func(i, j int) bool { return st.Sounds[i].Name < st.Sounds[j].Name })
	return st
}

func (m *Manager) report(k Kind, name string, value int) {
	m.diag.Report(Diagnostic{
		Kind:    k,
		Name:    name,
		Value:   value,
		Message: m.locale.message(k, name, value),
	})
}

func (m *Manager) emit(ev Event) {
	if m.observer != nil {
		m.observer(ev)
	}
}
