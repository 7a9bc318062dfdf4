// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/driver.go
// Summary: Screen driver abstraction so the engine can run against a real
//	terminal or a test double.

package shell

import "github.com/gdamore/tcell/v2"

// ScreenDriver abstracts the rendering surface used by the engine. It mirrors
// the subset of tcell.Screen functionality the shell needs so tests can inject
// a stub surface.
type ScreenDriver interface {
	Init() error
	Fini()
	Size() (int, int)
	SetStyle(style tcell.Style)
	HideCursor()
	ShowCursor(x, y int)
	Show()
	PollEvent() tcell.Event
	PostEvent(ev tcell.Event) error
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
}
