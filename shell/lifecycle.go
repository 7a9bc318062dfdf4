// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/lifecycle.go
// Summary: Pane lifecycle orchestration: open, close, and the teardown
//          fan-out that keeps the registries consistent.

package shell

import (
	"fmt"

	"github.com/google/uuid"
)

// PaneLifecycle coordinates pane creation and disposal across the
// workspace, the shortcut registry, and focus memory. Close is safe to
// call reentrantly from a widget's own Dispose.
type PaneLifecycle struct {
	activeWS func() *Workspace
	registry *ShortcutRegistry
	history  *FocusHistory
	focus    *FocusController
	events   *EventDispatcher
}

// NewPaneLifecycle wires the lifecycle manager.
func NewPaneLifecycle(activeWS func() *Workspace, registry *ShortcutRegistry, history *FocusHistory, focus *FocusController, events *EventDispatcher) *PaneLifecycle {
	return &PaneLifecycle{
		activeWS: activeWS,
		registry: registry,
		history:  history,
		focus:    focus,
		events:   events,
	}
}

// OpenPane wraps widget in a new pane, attaches it to the active
// workspace, and requests focus for it.
func (l *PaneLifecycle) OpenPane(widget Widget) (*Pane, error) {
	ws := l.activeWS()
	if ws == nil {
		return nil, fmt.Errorf("open pane %q: no active workspace", widget.Title())
	}
	pane := NewPane(widget)
	if err := ws.AddPane(pane); err != nil {
		ws.ClosePane(pane.ID())
		return nil, fmt.Errorf("open pane %q: %w", widget.Title(), err)
	}
	l.history.TrackPane(pane)
	l.events.Broadcast(Event{Type: EventPaneAttached, Payload: pane.ID()})
	l.focus.FocusPane(pane.ID())
	return pane, nil
}

// ClosePane disposes the pane and tears down everything keyed to its
// identity: scoped shortcuts, focus records, arena handles. If the pane
// held focus, the first remaining pane is asked to take it.
func (l *PaneLifecycle) ClosePane(id uuid.UUID) bool {
	ws := l.activeWS()
	if ws == nil {
		return false
	}
	pane := ws.PaneByID(id)
	if pane == nil {
		return false
	}
	wasFocused := pane.FocusWithin()

	// Identity-keyed state is torn down before the widget itself, so
	// nothing resolves the pane while its resources go away.
	l.registry.UnregisterScope(id)
	l.history.UntrackPane(id)

	if !ws.ClosePane(id) {
		return false
	}
	l.events.Broadcast(Event{Type: EventPaneClosed, Payload: id})

	if wasFocused {
		if next := ws.Panes(); len(next) > 0 {
			l.focus.FocusPane(next[0].ID())
		}
	}
	return true
}
