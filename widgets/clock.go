// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: widgets/clock.go
// Summary: Clock widget: no focusable controls, a pane that takes surface
//          focus only.

package widgets

import (
	"time"

	"github.com/latticeshell/lattice/shell"
)

// Clock shows the current time. It has no controls at all, which makes it
// the pane that exercises surface focus.
type Clock struct {
	base

	now func() time.Time
}

// NewClock creates a clock reading the wall clock.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (c *Clock) Title() string { return "Clock" }

func (c *Clock) Controls() []shell.Control { return nil }

func (c *Clock) Render(width, height int) [][]shell.Cell {
	buf := shell.NewBuffer(width, height, styleText)
	t := c.now()
	drawString(buf, height/2, t.Format("15:04:05"), styleText)
	drawString(buf, height/2+1, t.Format("Mon Jan 2 2006"), styleDim)
	return buf
}
