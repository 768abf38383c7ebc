/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package sfx

import "context"

// Buffer is an engine-decoded sound ready to be instantiated. The manager never
// looks inside it; aliases share the same value.
type Buffer any

// Instance is a single playable run of a Buffer through the output path.
type Instance any

// Engine is the host audio engine the manager drives.
//
// OnComplete must fire only on natural completion, never after Stop.
// Start and Stop may block on the engine's mixer and are never called while
// the manager holds its own lock.
type Engine interface {
	CreateOutputContext() error
	// Silence returns the minimal silent buffer used to unlock the output.
	Silence() Buffer
	Decode(data []byte) (Buffer, error)
	CreateInstance(buf Buffer) (Instance, error)
	Connect(inst Instance, gain float64)
	Start(inst Instance)
	Stop(inst Instance)
	OnComplete(inst Instance, fn func())
}

// Source retrieves raw audio bytes. The path is the manager's base path
// joined with the source key by plain concatenation.
type Source interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}
