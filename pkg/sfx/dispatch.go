/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package sfx

import (
	"context"
	"fmt"
	"strconv"
)

// Call runs an operation by verb with textual arguments, the way a console
// or control socket would. Verbs are resolved through the locale first and
// then through the shortcut table, so a registered sound name plays itself.
//
// A verb that resolves to nothing is reported and Call returns false with a
// nil error. Errors come only from Load and from malformed arguments to a
// built-in operation.
func (m *Manager) Call(ctx context.Context, verb string, args ...string) (bool, error) {
	if op, ok := m.locale.Lookup(verb); ok {
		return m.callOp(ctx, op, verb, args)
	}

	m.mu.Lock()
	fn, ok := m.shortcuts[verb]
	m.mu.Unlock()
	if !ok {
		m.report(KindUnknownOperation, verb, 0)
		return false, nil
	}
	vols, err := intArgs(verb, args, 0, 1)
	if err != nil {
		return false, err
	}
	fn(vols...)
	return true, nil
}

func (m *Manager) callOp(ctx context.Context, op Op, verb string, args []string) (bool, error) {
	switch op {
	case OpLoad:
		if len(args) < 2 || len(args) > 3 {
			return false, usage(verb, "name source [volume]")
		}
		vols, err := intArgs(verb, args[2:], 0, 1)
		if err != nil {
			return false, err
		}
		if err := m.Load(ctx, args[0], args[1], vols...); err != nil {
			return false, err
		}
		return true, nil

	case OpTag:
		if len(args) < 2 || len(args) > 3 {
			return false, usage(verb, "new existing [volume]")
		}
		vols, err := intArgs(verb, args[2:], 0, 1)
		if err != nil {
			return false, err
		}
		m.Tag(args[0], args[1], vols...)
		return true, nil

	case OpPlay:
		if len(args) < 1 || len(args) > 2 {
			return false, usage(verb, "name [volume]")
		}
		vols, err := intArgs(verb, args[1:], 0, 1)
		if err != nil {
			return false, err
		}
		m.Play(args[0], vols...)
		return true, nil

	case OpStop:
		if len(args) != 1 {
			return false, usage(verb, "name")
		}
		m.Stop(args[0])
		return true, nil

	case OpSetMasterVolume:
		vols, err := intArgs(verb, args, 1, 1)
		if err != nil {
			return false, err
		}
		m.SetMasterVolume(vols[0])
		return true, nil

	case OpMute, OpUnmute, OpToggleMute:
		if len(args) != 0 {
			return false, usage(verb, "")
		}
		switch op {
		case OpMute:
			m.Mute()
		case OpUnmute:
			m.Unmute()
		default:
			m.ToggleMute()
		}
		return true, nil
	}
	return false, nil
}

func intArgs(verb string, args []string, lo, hi int) ([]int, error) {
	if len(args) < lo || len(args) > hi {
		return nil, fmt.Errorf("%w: %s expects %d to %d numbers", ErrUsage, verb, lo, hi)
	}
	out := make([]int, 0, len(args))
	for _, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a number", ErrUsage, verb, a)
		}
		out = append(out, v)
	}
	return out, nil
}

func usage(verb, form string) error {
	return fmt.Errorf("%w: usage: %s %s", ErrUsage, verb, form)
}
