/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package sfx

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSource is wrapped in a FetchError when the manager was built without a Source.
	ErrNoSource = errors.New("sfx: no byte source configured")

	// ErrUsage is returned by Call when a built-in operation gets malformed arguments.
	ErrUsage = errors.New("sfx: bad arguments")
)

// FetchError reports that the raw bytes of a sound could not be retrieved.
type FetchError struct {
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("sfx: fetch %q: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports that the engine rejected the bytes of a sound.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("sfx: decode %q: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
