/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package sfx

// EventType names a playback event.
type EventType int

const (
	EventPlayed EventType = iota
	EventStopped
	// EventFinished is a natural completion. Tracked is false when a newer
	// instance of the same name had already superseded this one.
	EventFinished
)

func (t EventType) String() string {
	switch t {
	case EventPlayed:
		return "PLAYED"
	case EventStopped:
		return "STOPPED"
	case EventFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Event is delivered to the observer set with WithObserver.
type Event struct {
	Type    EventType `json:"-"`
	Name    string    `json:"name"`
	ID      string    `json:"id"`
	Gain    float64   `json:"gain,omitempty"`
	Tracked bool      `json:"tracked"`
}
