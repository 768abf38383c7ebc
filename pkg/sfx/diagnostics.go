/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package sfx

// Kind classifies a diagnostic.
type Kind int

const (
	// KindNotFound: Tag named a sound that is not registered.
	KindNotFound Kind = iota
	// KindUnregistered: Play or a shortcut named a sound that is not registered.
	KindUnregistered
	// KindUnknownOperation: Call or Shortcut resolved to nothing.
	KindUnknownOperation
	// KindSuppressed: Play was ignored because all sounds are muted.
	KindSuppressed
	KindMasterVolume
	KindMute
	KindUnmute
	// KindEngine: the engine failed during activation or instance creation.
	KindEngine
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindUnregistered:
		return "unregistered"
	case KindUnknownOperation:
		return "unknown-operation"
	case KindSuppressed:
		return "suppressed"
	case KindMasterVolume:
		return "master-volume"
	case KindMute:
		return "mute"
	case KindUnmute:
		return "unmute"
	case KindEngine:
		return "engine"
	default:
		return "unknown"
	}
}

// Warning reports whether the kind signals caller misuse rather than a notice.
func (k Kind) Warning() bool {
	switch k {
	case KindNotFound, KindUnregistered, KindUnknownOperation, KindEngine:
		return true
	}
	return false
}

// Diagnostic is a non-fatal observation made by the manager.
type Diagnostic struct {
	Kind    Kind
	Name    string
	Value   int
	Message string
}

// Diagnostics receives diagnostics. Implementations must not block.
type Diagnostics interface {
	Report(d Diagnostic)
}

// DiagnosticsFunc adapts a function to Diagnostics.
type DiagnosticsFunc func(d Diagnostic)

func (f DiagnosticsFunc) Report(d Diagnostic) { f(d) }

type discard struct{}

func (discard) Report(Diagnostic) {}
