// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: widgets/notes.go
// Summary: Notes widget: a title field and a body field with dirty
//          tracking and a save shortcut.

package widgets

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/latticeshell/lattice/shell"
)

// Notes is a two-field note editor backed by a plain text file. The first
// line is the title, the rest is the body.
type Notes struct {
	base

	path  string
	title *shell.TextEntry
	body  *shell.TextEntry
	dirty bool
}

// NewNotes creates a notes widget saving to path.
func NewNotes(path string) *Notes {
	n := &Notes{path: path}
	n.title = shell.NewTextEntry("notes/title")
	n.body = shell.NewTextEntry("notes/body")
	n.title.OnChange = func(string) { n.dirty = true }
	n.body.OnChange = func(string) { n.dirty = true }
	return n
}

func (n *Notes) Title() string {
	if n.dirty {
		return "Notes *"
	}
	return "Notes"
}

// Initialize loads the note file if it exists.
func (n *Notes) Initialize() error {
	data, err := os.ReadFile(n.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("notes: read %s: %w", n.path, err)
	}
	title, body, _ := strings.Cut(string(data), "\n")
	n.title.SetText(title)
	n.body.SetText(strings.TrimSuffix(body, "\n"))
	n.dirty = false
	return nil
}

func (n *Notes) Controls() []shell.Control {
	return []shell.Control{n.title, n.body}
}

// Save writes the note to disk and clears the dirty flag.
func (n *Notes) Save() error {
	if err := os.MkdirAll(filepath.Dir(n.path), 0o755); err != nil {
		return fmt.Errorf("notes: mkdir: %w", err)
	}
	content := n.title.Text() + "\n" + n.body.Text() + "\n"
	if err := os.WriteFile(n.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("notes: write %s: %w", n.path, err)
	}
	n.dirty = false
	return nil
}

// Dirty reports unsaved changes.
func (n *Notes) Dirty() bool { return n.dirty }

// Bindings returns the widget's pane-scoped shortcuts.
func (n *Notes) Bindings() []shell.Binding {
	return []shell.Binding{
		{
			Stroke:      shell.MustParseKeyStroke("ctrl+s"),
			Description: "save note",
			Action: func() {
				if err := n.Save(); err != nil {
					log.Printf("Notes: save failed: %v", err)
				}
			},
		},
	}
}

func (n *Notes) Render(width, height int) [][]shell.Cell {
	buf := shell.NewBuffer(width, height, styleText)
	drawString(buf, 0, "Title: "+n.title.View(width-7), styleText)
	drawString(buf, 1, strings.Repeat("-", width), styleDim)
	drawString(buf, 2, n.body.View(width), styleText)
	if n.dirty {
		drawString(buf, height-1, "unsaved changes  ctrl+s to save", styleDim)
	}
	return buf
}

// Dispose flushes unsaved content so a pane close never loses text.
func (n *Notes) Dispose() {
	if n.dirty {
		if err := n.Save(); err != nil {
			log.Printf("Notes: save on close failed: %v", err)
		}
	}
}
