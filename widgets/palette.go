// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: widgets/palette.go
// Summary: Command palette: a filterable command list shown as a modal
//          overlay.
// Usage: Build with the command set, show the pane through the modal
//        gate. Enter runs the highlighted command after the palette
//        closes; escape just closes.

package widgets

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/latticeshell/lattice/shell"
)

// Command is one palette entry.
type Command struct {
	Name string
	Run  func()
}

// Palette filters commands by substring as the user types.
type Palette struct {
	base

	commands []Command
	filtered []Command

	query *shell.TextEntry
	list  *shell.ListBox

	// Dismiss closes the palette's pane; installed by the opener.
	Dismiss func()
	// selected is deferred until after dismissal so the command runs
	// against a settled shell, not under the overlay.
	selected func()
}

// NewPalette creates a palette over the given command set.
func NewPalette(commands []Command) *Palette {
	p := &Palette{commands: commands}
	p.query = shell.NewTextEntry("palette/query")
	p.list = shell.NewListBox("palette/results", nil)
	p.query.OnChange = func(q string) { p.filter(q) }
	p.query.OnSubmit = func(string) { p.activate() }
	p.list.OnActivate = func(int, string) { p.activate() }
	p.filter("")
	return p
}

func (p *Palette) Title() string { return "Commands" }

func (p *Palette) Controls() []shell.Control {
	return []shell.Control{p.query, p.list}
}

func (p *Palette) filter(q string) {
	q = strings.ToLower(strings.TrimSpace(q))
	p.filtered = p.filtered[:0]
	for _, c := range p.commands {
		if q == "" || strings.Contains(strings.ToLower(c.Name), q) {
			p.filtered = append(p.filtered, c)
		}
	}
	rows := make([]string, len(p.filtered))
	for i, c := range p.filtered {
		rows[i] = c.Name
	}
	p.list.SetItems(rows)
	p.list.Select(0)
}

func (p *Palette) activate() {
	i := p.list.Selected()
	if i >= 0 && i < len(p.filtered) {
		p.selected = p.filtered[i].Run
	}
	p.close()
}

func (p *Palette) close() {
	run := p.selected
	p.selected = nil
	if p.Dismiss != nil {
		p.Dismiss()
	}
	if run != nil {
		run()
	}
}

// HandleKeyPre claims navigation for the list while the query field has
// focus, so arrows move the highlight without leaving the field. Escape
// closes the palette.
func (p *Palette) HandleKeyPre(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		p.selected = nil
		p.close()
		return true
	case tcell.KeyUp, tcell.KeyDown:
		if p.query.HasFocus() {
			return p.list.HandleKey(ev)
		}
	}
	return false
}

func (p *Palette) Render(width, height int) [][]shell.Cell {
	buf := shell.NewBuffer(width, height, styleText)
	drawString(buf, 0, "> "+p.query.View(width-2), styleText)
	start, end := p.list.VisibleRange(height - 1)
	rows := p.list.Items()
	for i := start; i < end; i++ {
		style := styleText
		if i == p.list.Selected() {
			style = styleSelected
		}
		drawString(buf, 1+i-start, rows[i], style)
	}
	if len(rows) == 0 {
		drawString(buf, 1, "no matching commands", styleDim)
	}
	return buf
}
