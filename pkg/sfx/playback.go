/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package sfx

// Gain is the effective gain of a playback: master and sound volume are
// percentages applied multiplicatively. Neither is clamped here.
func Gain(master, volume int) float64 {
	return (float64(master) / 100) * (float64(volume) / 100)
}

// Play starts a new instance of name. tempVolume, when given, replaces the
// stored volume for this playback only.
//
// Play never fails the caller: a muted manager or an unknown name is
// reported to the diagnostics sink and Play returns false. A previously
// tracked instance of name keeps playing; only its tracking is replaced.
func (m *Manager) Play(name string, tempVolume ...int) bool {
	m.mu.Lock()
	if m.muted {
		m.mu.Unlock()
		m.report(KindSuppressed, name, 0)
		return false
	}
	entry, ok := m.sounds[name]
	master := m.master
	m.mu.Unlock()
	if !ok {
		m.report(KindUnregistered, name, 0)
		return false
	}

	m.activate()

	inst, err := m.engine.CreateInstance(entry.Buffer)
	if err != nil {
		m.report(KindEngine, name, 0)
		return false
	}

	vol := entry.Volume
	if len(tempVolume) > 0 {
		vol = tempVolume[0]
	}
	gain := Gain(master, vol)

	p := &playback{id: m.newID(), name: name, inst: inst}
	m.engine.Connect(inst, gain)
	m.engine.OnComplete(inst, func() { m.finish(p) })

	m.mu.Lock()
	m.active[name] = p
	m.mu.Unlock()

	m.engine.Start(inst)
	m.emit(Event{Type: EventPlayed, Name: name, ID: p.id, Gain: gain, Tracked: true})
	return true
}

// activate unlocks the output path once by running a silent instance.
func (m *Manager) activate() {
	m.activateOnce.Do(func() {
		m.mu.Lock()
		m.activated = true
		m.mu.Unlock()

		if err := m.engine.CreateOutputContext(); err != nil {
			m.report(KindEngine, "output", 0)
			return
		}
		inst, err := m.engine.CreateInstance(m.engine.Silence())
		if err != nil {
			m.report(KindEngine, "silence", 0)
			return
		}
		m.engine.Connect(inst, 1)
		m.engine.Start(inst)
	})
}

// finish drops the tracking of p on natural completion, unless a newer
// instance of the same name has replaced it.
func (m *Manager) finish(p *playback) {
	m.mu.Lock()
	cur, ok := m.active[p.name]
	tracked := ok && cur == p
	if tracked {
		delete(m.active, p.name)
	}
	m.mu.Unlock()

	m.emit(Event{Type: EventFinished, Name: p.name, ID: p.id, Tracked: tracked})
}
