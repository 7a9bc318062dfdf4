// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/listbox.go
// Summary: Scrollable single-selection list control.

package shell

import "github.com/gdamore/tcell/v2"

// ListBox is a vertical list with one selected row. Selection and scroll
// survive focus loss through the transient-state capture path.
type ListBox struct {
	path    string
	focused bool

	items    []string
	selected int
	scroll   int

	// OnActivate fires when Enter is pressed on a row.
	OnActivate func(index int, item string)
	// OnSelect fires when the selected row changes.
	OnSelect func(index int)
}

// NewListBox creates a list with the given path and items.
func NewListBox(path string, items []string) *ListBox {
	return &ListBox{path: path, items: items}
}

func (l *ListBox) Path() string    { return l.path }
func (l *ListBox) Kind() string    { return "listbox" }
func (l *ListBox) Focusable() bool { return true }
func (l *ListBox) HasFocus() bool  { return l.focused }

func (l *ListBox) SetFocused(focused bool) { l.focused = focused }

// Items returns the current rows.
func (l *ListBox) Items() []string { return l.items }

// SetItems replaces the rows and clamps the selection.
func (l *ListBox) SetItems(items []string) {
	l.items = items
	l.clamp()
}

// Selected returns the selected row index, or -1 when the list is empty.
func (l *ListBox) Selected() int {
	if len(l.items) == 0 {
		return -1
	}
	return l.selected
}

// Select moves the selection to index, clamped to the item range.
func (l *ListBox) Select(index int) {
	prev := l.selected
	l.selected = index
	l.clamp()
	if l.selected != prev && l.OnSelect != nil {
		l.OnSelect(l.selected)
	}
}

// CaptureState implements StatefulControl. The selected index rides in
// CaretOffset since a list has no caret of its own.
func (l *ListBox) CaptureState() TransientState {
	return TransientState{CaretOffset: l.selected, ScrollOffset: l.scroll}
}

// ApplyState implements StatefulControl.
func (l *ListBox) ApplyState(state TransientState) {
	l.selected = state.CaretOffset
	l.scroll = state.ScrollOffset
	l.clamp()
}

func (l *ListBox) clamp() {
	if l.selected < 0 {
		l.selected = 0
	}
	if l.selected >= len(l.items) && len(l.items) > 0 {
		l.selected = len(l.items) - 1
	}
	if l.scroll < 0 {
		l.scroll = 0
	}
	if l.scroll > l.selected {
		l.scroll = l.selected
	}
}

// HandleKey consumes navigation keys. Plain j/k move as well, matching the
// rest of the shell's list surfaces.
func (l *ListBox) HandleKey(ev *tcell.EventKey) bool {
	if ev == nil || len(l.items) == 0 {
		return false
	}
	switch ev.Key() {
	case tcell.KeyUp:
		l.Select(l.selected - 1)
		return true
	case tcell.KeyDown:
		l.Select(l.selected + 1)
		return true
	case tcell.KeyHome:
		l.Select(0)
		return true
	case tcell.KeyEnd:
		l.Select(len(l.items) - 1)
		return true
	case tcell.KeyPgUp:
		l.Select(l.selected - 10)
		return true
	case tcell.KeyPgDn:
		l.Select(l.selected + 10)
		return true
	case tcell.KeyEnter:
		if l.OnActivate != nil {
			l.OnActivate(l.selected, l.items[l.selected])
		}
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			l.Select(l.selected - 1)
			return true
		case 'j':
			l.Select(l.selected + 1)
			return true
		}
	}
	return false
}

// VisibleRange returns the window of rows for the given height, adjusting
// scroll so the selection stays on screen.
func (l *ListBox) VisibleRange(height int) (start, end int) {
	if height <= 0 || len(l.items) == 0 {
		return 0, 0
	}
	if l.selected < l.scroll {
		l.scroll = l.selected
	}
	if l.selected >= l.scroll+height {
		l.scroll = l.selected - height + 1
	}
	end = l.scroll + height
	if end > len(l.items) {
		end = len(l.items)
	}
	return l.scroll, end
}
