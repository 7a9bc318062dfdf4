// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: widgets/base.go
// Summary: Shared no-op widget plumbing embedded by the concrete widgets.

package widgets

import (
	"github.com/gdamore/tcell/v2"

	"github.com/latticeshell/lattice/shell"
)

// base supplies default implementations for the optional widget hooks.
type base struct{}

func (base) Initialize() error                     { return nil }
func (base) HandleKeyPre(ev *tcell.EventKey) bool  { return false }
func (base) HandleKeyPost(ev *tcell.EventKey) bool { return false }
func (base) OnPaneGainedFocus()                    {}
func (base) OnPaneLostFocus()                      {}
func (base) Dispose()                              {}

// drawString writes s into buf at row y, clipping to the buffer width.
func drawString(buf [][]shell.Cell, y int, s string, style tcell.Style) {
	if y < 0 || y >= len(buf) {
		return
	}
	row := buf[y]
	x := 0
	for _, r := range s {
		if x >= len(row) {
			break
		}
		row[x] = shell.Cell{Ch: r, Style: style}
		x++
	}
}

var (
	styleText     = tcell.StyleDefault
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleDone     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)
