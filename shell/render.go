// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/render.go
// Summary: Compositor: draws the workspace grid, pane borders, and modal
//          overlays onto the screen driver.

package shell

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

var (
	styleBorder        = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorderFocused = tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
	styleOverlay       = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)
)

// Renderer composites panes onto a screen driver. Layout is the same
// row-major grid the workspace stores its panes in.
type Renderer struct {
	driver  ScreenDriver
	columns int
}

// NewRenderer creates a renderer over driver.
func NewRenderer(driver ScreenDriver) *Renderer {
	return &Renderer{driver: driver, columns: 2}
}

// Render draws the workspace and any overlay, then flushes the driver.
func (r *Renderer) Render(ws *Workspace, overlay *Pane) {
	width, height := r.driver.Size()
	if width <= 0 || height <= 0 {
		return
	}

	panes := ws.Panes()
	if len(panes) > 0 {
		cols := r.columns
		if len(panes) < cols {
			cols = len(panes)
		}
		rows := (len(panes) + cols - 1) / cols
		cellW := width / cols
		cellH := height / rows
		for i, p := range panes {
			x := (i % cols) * cellW
			y := (i / cols) * cellH
			r.drawPane(p, x, y, cellW, cellH)
		}
	}

	if overlay != nil {
		ow, oh := width*2/3, height*2/3
		if ow < 20 {
			ow = width
		}
		if oh < 6 {
			oh = height
		}
		r.drawOverlay(overlay, (width-ow)/2, (height-oh)/2, ow, oh)
	}

	r.driver.Show()
}

func (r *Renderer) drawPane(p *Pane, x, y, w, h int) {
	if w < 3 || h < 3 {
		return
	}
	style := styleBorder
	if p.FocusWithin() {
		style = styleBorderFocused
	}
	r.drawFrame(x, y, w, h, p.Title(), style)
	if p.State() != StateActive {
		return
	}
	if wgt := p.Widget(); wgt != nil {
		r.blit(wgt.Render(w-2, h-2), x+1, y+1)
	}
}

func (r *Renderer) drawOverlay(p *Pane, x, y, w, h int) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			r.driver.SetContent(col, row, ' ', nil, styleOverlay)
		}
	}
	r.drawFrame(x, y, w, h, p.Title(), styleBorderFocused)
	if wgt := p.Widget(); wgt != nil {
		r.blit(wgt.Render(w-2, h-2), x+1, y+1)
	}
}

func (r *Renderer) drawFrame(x, y, w, h int, title string, style tcell.Style) {
	for col := x + 1; col < x+w-1; col++ {
		r.driver.SetContent(col, y, tcell.RuneHLine, nil, style)
		r.driver.SetContent(col, y+h-1, tcell.RuneHLine, nil, style)
	}
	for row := y + 1; row < y+h-1; row++ {
		r.driver.SetContent(x, row, tcell.RuneVLine, nil, style)
		r.driver.SetContent(x+w-1, row, tcell.RuneVLine, nil, style)
	}
	r.driver.SetContent(x, y, tcell.RuneULCorner, nil, style)
	r.driver.SetContent(x+w-1, y, tcell.RuneURCorner, nil, style)
	r.driver.SetContent(x, y+h-1, tcell.RuneLLCorner, nil, style)
	r.driver.SetContent(x+w-1, y+h-1, tcell.RuneLRCorner, nil, style)

	label := " " + runewidth.Truncate(title, w-4, "…") + " "
	col := x + 2
	for _, ch := range label {
		if col >= x+w-2 {
			break
		}
		r.driver.SetContent(col, y, ch, nil, style)
		col += runewidth.RuneWidth(ch)
	}
}

func (r *Renderer) blit(buf [][]Cell, x, y int) {
	for row := range buf {
		for col := range buf[row] {
			c := buf[row][col]
			if c.Ch == 0 {
				continue
			}
			r.driver.SetContent(x+col, y+row, c.Ch, nil, c.Style)
		}
	}
}
