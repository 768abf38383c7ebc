/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package sfx

import "context"

// Load registers name for the sound behind sourceKey.
//
// When sourceKey is already a registered name, name becomes an alias of it
// with the given volume and nothing is fetched. Otherwise the bytes at
// basePath+sourceKey are fetched and decoded, and both name and sourceKey
// are registered on the new buffer so the key itself stays playable and
// reusable for later aliases. Only name gets a shortcut.
func (m *Manager) Load(ctx context.Context, name, sourceKey string, volume ...int) error {
	vol := volumeArg(volume)

	m.mu.Lock()
	if src, ok := m.sounds[sourceKey]; ok {
		m.register(name, src.Buffer, vol, true)
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	path := m.basePath + sourceKey
	if m.source == nil {
		return &FetchError{Path: path, Err: ErrNoSource}
	}
	data, err := m.source.Fetch(ctx, path)
	if err != nil {
		return &FetchError{Path: path, Err: err}
	}
	buf, err := m.engine.Decode(data)
	if err != nil {
		return &DecodeError{Source: sourceKey, Err: err}
	}

	m.mu.Lock()
	m.register(sourceKey, buf, vol, false)
	m.register(name, buf, vol, true)
	m.mu.Unlock()
	return nil
}

// Tag registers newName as an alias of existingName with its own volume.
// An unknown existingName is reported and nothing is registered.
func (m *Manager) Tag(newName, existingName string, volume ...int) bool {
	vol := volumeArg(volume)

	m.mu.Lock()
	src, ok := m.sounds[existingName]
	if ok {
		m.register(newName, src.Buffer, vol, true)
	}
	m.mu.Unlock()

	if !ok {
		m.report(KindNotFound, existingName, 0)
	}
	return ok
}

// Shortcut returns the play shortcut generated for name. Unknown names get
// a callable that only reports the miss.
func (m *Manager) Shortcut(name string) func(tempVolume ...int) bool {
	m.mu.Lock()
	fn, ok := m.shortcuts[name]
	m.mu.Unlock()
	if ok {
		return fn
	}
	return func(...int) bool {
		m.report(KindUnknownOperation, name, 0)
		return false
	}
}

// register must be called with m.mu held.
func (m *Manager) register(name string, buf Buffer, vol int, shortcut bool) {
	m.sounds[name] = Entry{Buffer: buf, Volume: vol}
	if _, ok := m.shortcuts[name]; shortcut && !ok {
		m.shortcuts[name] = func(tempVolume ...int) bool {
			return m.Play(name, tempVolume...)
		}
	}
}

func volumeArg(v []int) int {
	if len(v) > 0 {
		return v[0]
	}
	return DefaultVolume
}
