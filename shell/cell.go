// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/cell.go
// Summary: Screen cell type shared by the engine and widget renderers.

package shell

import "github.com/gdamore/tcell/v2"

// Cell is a single character cell with its style.
type Cell struct {
	Ch    rune
	Style tcell.Style
}

// NewBuffer allocates a w x h cell buffer filled with blanks in the given style.
func NewBuffer(w, h int, style tcell.Style) [][]Cell {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	buf := make([][]Cell, h)
	for y := range buf {
		buf[y] = make([]Cell, w)
		for x := range buf[y] {
			buf[y][x] = Cell{Ch: ' ', Style: style}
		}
	}
	return buf
}
