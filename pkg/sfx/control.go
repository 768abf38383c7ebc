/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package sfx

// Stop halts the instance tracked for name and drops its tracking.
// It reports whether anything was stopped.
func (m *Manager) Stop(name string) bool {
	m.mu.Lock()
	p, ok := m.active[name]
	if ok {
		delete(m.active, name)
	}
	m.mu.Unlock()
	if !ok {
		return false
	}

	m.engine.Stop(p.inst)
	m.emit(Event{Type: EventStopped, Name: name, ID: p.id, Tracked: true})
	return true
}

// SetMasterVolume clamps v into [0,100] and stores it. Instances already
// playing keep their gain. It returns the stored value.
func (m *Manager) SetMasterVolume(v int) int {
	v = clampVolume(v)
	m.mu.Lock()
	m.master = v
	m.mu.Unlock()

	m.report(KindMasterVolume, "", v)
	return v
}

// Mute gates future Play calls. Running instances are not stopped.
func (m *Manager) Mute() { m.setMuted(true) }

// Unmute lifts the gate set by Mute.
func (m *Manager) Unmute() { m.setMuted(false) }

// ToggleMute flips the mute flag and returns the new state.
func (m *Manager) ToggleMute() bool {
	m.mu.Lock()
	m.muted = !m.muted
	muted := m.muted
	m.mu.Unlock()

	m.reportMute(muted)
	return muted
}

func (m *Manager) setMuted(muted bool) {
	m.mu.Lock()
	m.muted = muted
	m.mu.Unlock()

	m.reportMute(muted)
}

func (m *Manager) reportMute(muted bool) {
	if muted {
		m.report(KindMute, "", 1)
		return
	}
	m.report(KindUnmute, "", 0)
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}
