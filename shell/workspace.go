// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/workspace.go
// Summary: Workspace grid of panes with reentrancy-safe close and spatial
//          pane movement.

package shell

import (
	"log"

	"github.com/google/uuid"
)

// Direction names a spatial move in the pane grid.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	}
	return "unknown"
}

// Workspace holds an ordered set of panes laid out row-major over a fixed
// column count. Order is identity-stable: moving panes swaps slots, close
// compacts.
type Workspace struct {
	id      int
	columns int
	panes   []*Pane

	closing map[uuid.UUID]bool
}

// NewWorkspace creates an empty workspace with the given numeric id.
func NewWorkspace(id int) *Workspace {
	return &Workspace{id: id, columns: 2, closing: make(map[uuid.UUID]bool)}
}

// ID returns the workspace number.
func (w *Workspace) ID() int { return w.id }

// Panes returns a snapshot of the pane list. Callers may close panes while
// iterating the snapshot without invalidating it.
func (w *Workspace) Panes() []*Pane {
	out := make([]*Pane, len(w.panes))
	copy(out, w.panes)
	return out
}

// PaneByID finds a pane by identity, nil if absent or disposed.
func (w *Workspace) PaneByID(id uuid.UUID) *Pane {
	for _, p := range w.panes {
		if p.ID() == id && p.State() != StateDisposed {
			return p
		}
	}
	return nil
}

// FocusedPane scans the panes and returns the one holding logical focus.
// Focus is derived from control flags on every call, never cached.
func (w *Workspace) FocusedPane() *Pane {
	for _, p := range w.panes {
		if p.FocusWithin() {
			return p
		}
	}
	return nil
}

// AddPane appends and activates a pane. Returns the activation error, with
// the pane still added so it can be closed normally.
func (w *Workspace) AddPane(p *Pane) error {
	w.panes = append(w.panes, p)
	if err := p.Activate(); err != nil {
		log.Printf("Workspace %d: pane %q failed to initialize: %v", w.id, p.Title(), err)
		return err
	}
	return nil
}

// ClosePane disposes the pane and removes it from the grid. Reentrant
// calls for the same pane, including from inside the widget's Dispose,
// are no-ops.
func (w *Workspace) ClosePane(id uuid.UUID) bool {
	if w.closing[id] {
		return false
	}
	var target *Pane
	for _, p := range w.panes {
		if p.ID() == id {
			target = p
			break
		}
	}
	if target == nil || target.State() == StateDisposed {
		return false
	}
	w.closing[id] = true
	defer delete(w.closing, id)

	target.Dispose()

	// The dispose hook may have mutated the pane list; re-find the slot.
	for i, p := range w.panes {
		if p.ID() == id {
			w.panes = append(w.panes[:i], w.panes[i+1:]...)
			break
		}
	}
	return true
}

// indexOf returns the slot of the pane holding id, -1 if absent.
func (w *Workspace) indexOf(id uuid.UUID) int {
	for i, p := range w.panes {
		if p.ID() == id {
			return i
		}
	}
	return -1
}

// MovePane swaps the pane with its neighbor in the given direction.
// Returns false when the move would leave the grid.
func (w *Workspace) MovePane(id uuid.UUID, dir Direction) bool {
	i := w.indexOf(id)
	if i < 0 {
		return false
	}
	j := i
	switch dir {
	case DirLeft:
		if i%w.columns == 0 {
			return false
		}
		j = i - 1
	case DirRight:
		if i%w.columns == w.columns-1 {
			return false
		}
		j = i + 1
	case DirUp:
		j = i - w.columns
	case DirDown:
		j = i + w.columns
	}
	if j < 0 || j >= len(w.panes) || j == i {
		return false
	}
	w.panes[i], w.panes[j] = w.panes[j], w.panes[i]
	return true
}

// SetInputDisabled gates input on every pane except the listed exceptions.
// Used by the modal gate to freeze the background.
func (w *Workspace) SetInputDisabled(disabled bool, except ...uuid.UUID) {
	skip := make(map[uuid.UUID]bool, len(except))
	for _, id := range except {
		skip[id] = true
	}
	for _, p := range w.panes {
		if !skip[p.ID()] {
			p.SetDisabled(disabled)
		}
	}
}

// Empty reports whether the workspace holds no live panes.
func (w *Workspace) Empty() bool {
	for _, p := range w.panes {
		if p.State() != StateDisposed {
			return false
		}
	}
	return true
}
