// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/keys.go
// Summary: Key stroke normalization and parsing for the shortcut registry.
// Usage: Converts tcell key events and config strings ("ctrl+shift+t") into a
//	single comparable KeyStroke value.

package shell

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// modifierMask filters out modifier bits the shell does not distinguish.
const modifierMask = tcell.ModCtrl | tcell.ModShift | tcell.ModAlt | tcell.ModMeta

// KeyStroke identifies a key plus its modifier set. Rune is only meaningful
// when Key is tcell.KeyRune. Values are normalized so that the same physical
// chord always compares equal: ctrl-letter control codes become ModCtrl+rune,
// and uppercase letters become ModShift+lowercase.
type KeyStroke struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

var keyByName = map[string]tcell.Key{
	"escape":    tcell.KeyEscape,
	"esc":       tcell.KeyEscape,
	"enter":     tcell.KeyEnter,
	"return":    tcell.KeyEnter,
	"tab":       tcell.KeyTab,
	"backspace": tcell.KeyBackspace2,
	"delete":    tcell.KeyDelete,
	"del":       tcell.KeyDelete,
	"insert":    tcell.KeyInsert,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"pageup":    tcell.KeyPgUp,
	"pgup":      tcell.KeyPgUp,
	"pagedown":  tcell.KeyPgDn,
	"pgdn":      tcell.KeyPgDn,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"f1":        tcell.KeyF1,
	"f2":        tcell.KeyF2,
	"f3":        tcell.KeyF3,
	"f4":        tcell.KeyF4,
	"f5":        tcell.KeyF5,
	"f6":        tcell.KeyF6,
	"f7":        tcell.KeyF7,
	"f8":        tcell.KeyF8,
	"f9":        tcell.KeyF9,
	"f10":       tcell.KeyF10,
	"f11":       tcell.KeyF11,
	"f12":       tcell.KeyF12,
}

var nameByKey = func() map[tcell.Key]string {
	m := make(map[tcell.Key]string, len(keyByName))
	for name, key := range keyByName {
		if _, ok := m[key]; !ok {
			m[key] = name
		}
	}
	// Prefer canonical spellings over the shorthand aliases.
	m[tcell.KeyEscape] = "escape"
	m[tcell.KeyEnter] = "enter"
	m[tcell.KeyDelete] = "delete"
	m[tcell.KeyPgUp] = "pageup"
	m[tcell.KeyPgDn] = "pagedown"
	return m
}()

// NewKeyStroke builds a normalized stroke from raw key data.
func NewKeyStroke(key tcell.Key, r rune, mod tcell.ModMask) KeyStroke {
	mod &= modifierMask

	// Terminals deliver ctrl-letter chords as control codes. Fold them back
	// into ModCtrl plus the letter so table lookups see one canonical form.
	// Tab, Enter, and Backspace share codes in this range and stay named keys.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ &&
		key != tcell.KeyTab && key != tcell.KeyEnter && key != tcell.KeyBackspace {
		r = rune('a' + (key - tcell.KeyCtrlA))
		key = tcell.KeyRune
		mod |= tcell.ModCtrl
	}

	switch key {
	case tcell.KeyCtrlSpace:
		key = tcell.KeyRune
		r = ' '
		mod |= tcell.ModCtrl
	case tcell.KeyBackspace:
		key = tcell.KeyBackspace2
	}

	if key == tcell.KeyRune && unicode.IsUpper(r) {
		r = unicode.ToLower(r)
		mod |= tcell.ModShift
	}

	if key != tcell.KeyRune {
		r = 0
	}

	return KeyStroke{Key: key, Rune: r, Mod: mod}
}

// StrokeFromEvent normalizes a tcell key event.
func StrokeFromEvent(ev *tcell.EventKey) KeyStroke {
	if ev == nil {
		return KeyStroke{}
	}
	return NewKeyStroke(ev.Key(), ev.Rune(), ev.Modifiers())
}

// ParseKeyStroke converts a config string like "ctrl+shift+t" or "f5" into a
// KeyStroke. Parsing is case-insensitive; modifier order does not matter.
func ParseKeyStroke(s string) (KeyStroke, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KeyStroke{}, fmt.Errorf("empty key string")
	}

	var mod tcell.ModMask
	keyPart := ""
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "ctrl", "control":
			mod |= tcell.ModCtrl
		case "shift":
			mod |= tcell.ModShift
		case "alt":
			mod |= tcell.ModAlt
		case "meta", "cmd", "super":
			mod |= tcell.ModMeta
		case "":
			// "ctrl++" style strings register the plus key
			keyPart = "+"
		default:
			keyPart = part
		}
	}
	if keyPart == "" {
		return KeyStroke{}, fmt.Errorf("key string %q has no key part", s)
	}

	if key, ok := keyByName[keyPart]; ok {
		return KeyStroke{Key: key, Mod: mod}, nil
	}
	if keyPart == "space" {
		return NewKeyStroke(tcell.KeyRune, ' ', mod), nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return KeyStroke{}, fmt.Errorf("unknown key name %q", keyPart)
	}
	return NewKeyStroke(tcell.KeyRune, runes[0], mod), nil
}

// MustParseKeyStroke is ParseKeyStroke for compile-time-known strings.
func MustParseKeyStroke(s string) KeyStroke {
	stroke, err := ParseKeyStroke(s)
	if err != nil {
		panic(err)
	}
	return stroke
}

// String renders the stroke in config notation ("ctrl+shift+t").
func (k KeyStroke) String() string {
	var parts []string
	if k.Mod&tcell.ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if k.Mod&tcell.ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if k.Mod&tcell.ModShift != 0 {
		parts = append(parts, "shift")
	}
	if k.Mod&tcell.ModMeta != 0 {
		parts = append(parts, "meta")
	}

	switch {
	case k.Key == tcell.KeyRune && k.Rune == ' ':
		parts = append(parts, "space")
	case k.Key == tcell.KeyRune:
		parts = append(parts, string(k.Rune))
	default:
		if name, ok := nameByKey[k.Key]; ok {
			parts = append(parts, name)
		} else {
			parts = append(parts, fmt.Sprintf("key(%d)", int(k.Key)))
		}
	}
	return strings.Join(parts, "+")
}

// IsRune reports whether the stroke is a plain printable rune with no
// modifiers beyond shift, i.e. the kind of stroke a text entry consumes.
func (k KeyStroke) IsRune() bool {
	return k.Key == tcell.KeyRune && k.Mod&^tcell.ModShift == 0
}
