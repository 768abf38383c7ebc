/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package sfx

import (
	"fmt"
	"strings"
)

// Op identifies a built-in manager operation.
type Op int

const (
	OpLoad Op = iota + 1
	OpTag
	OpPlay
	OpStop
	OpSetMasterVolume
	OpMute
	OpUnmute
	OpToggleMute
)

// Locale names the built-in operations and phrases the diagnostics.
// Missing messages fall back to English.
type Locale struct {
	Name     string
	Ops      map[string]Op
	Messages map[Kind]string
}

// English is the default locale.
var English = Locale{
	Name: "en",
	Ops: map[string]Op{
		"load":            OpLoad,
		"tag":             OpTag,
		"play":            OpPlay,
		"stop":            OpStop,
		"setMasterVolume": OpSetMasterVolume,
		"mute":            OpMute,
		"unmute":          OpUnmute,
		"toggleMute":      OpToggleMute,
	},
	Messages: map[Kind]string{
		KindNotFound:         `Sound "%s" not found.`,
		KindUnregistered:     `Sound "%s" is not loaded or does not exist.`,
		KindUnknownOperation: `Sound "%s" is not loaded or does not exist.`,
		KindSuppressed:       `Sound "%s" skipped, all sounds muted`,
		KindMasterVolume:     "Global volume set to: %d%%",
		KindMute:             "All sounds muted",
		KindUnmute:           "All sounds unmuted",
		KindEngine:           `Audio engine failed for "%s"`,
	},
}

// Turkish localizes load and tag and every message; the other verbs keep
// their English names.
var Turkish = Locale{
	Name: "tr",
	Ops: map[string]Op{
		"sesYukle":        OpLoad,
		"sesEtiket":       OpTag,
		"play":            OpPlay,
		"stop":            OpStop,
		"setMasterVolume": OpSetMasterVolume,
		"mute":            OpMute,
		"unmute":          OpUnmute,
		"toggleMute":      OpToggleMute,
	},
	Messages: map[Kind]string{
		KindNotFound:         `Ses "%s" bulunamadı.`,
		KindUnregistered:     `Ses "%s" yüklenmedi veya mevcut değil.`,
		KindUnknownOperation: `Ses "%s" yüklenmedi veya mevcut değil.`,
		KindSuppressed:       `Ses "%s" çalınmadı, sesler kapalı`,
		KindMasterVolume:     "Genel ses seviyesi ayarlandı: %%%d",
		KindMute:             "Sesler kapatıldı",
		KindUnmute:           "Sesler açıldı",
		KindEngine:           `Ses motoru "%s" için başarısız oldu`,
	},
}

// LocaleByName returns the built-in locale for a tag such as "en" or "tr".
func LocaleByName(name string) (Locale, bool) {
	switch strings.ToLower(name) {
	case "", "en", "english":
		return English, true
	case "tr", "turkish", "türkçe":
		return Turkish, true
	}
	return Locale{}, false
}

// Lookup resolves a verb to a built-in operation.
func (l Locale) Lookup(verb string) (Op, bool) {
	op, ok := l.Ops[verb]
	return op, ok
}

// Verbs lists the verbs of the locale.
func (l Locale) Verbs() []string {
	out := make([]string, 0, len(l.Ops))
	for v := range l.Ops {
		out = append(out, v)
	}
	return out
}

func (l Locale) message(k Kind, name string, value int) string {
	tmpl, ok := l.Messages[k]
	if !ok {
		tmpl = English.Messages[k]
	}
	switch k {
	case KindMasterVolume:
		return fmt.Sprintf(tmpl, value)
	case KindMute, KindUnmute:
		return tmpl
	default:
		return fmt.Sprintf(tmpl, name)
	}
}
