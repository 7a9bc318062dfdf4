// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/modal.go
// Summary: Modal overlay stack with background input gating and queued
//          reentrant transitions.
// Usage: Overlay panes live outside the workspace grid. Background panes
//        are disabled only on the empty-to-nonempty transition and restored
//        only when the stack empties again; a transition requested from
//        inside a transition is queued, not recursed.

package shell

import (
	"log"

	"github.com/google/uuid"
)

// ModalContext pairs an overlay pane with the pane that held focus when it
// appeared, so dismissal can hand focus back.
type ModalContext struct {
	Overlay  *Pane
	Previous uuid.UUID
}

// ModalGate owns the overlay stack and the background input gate.
type ModalGate struct {
	activeWS   func() *Workspace
	registry   *ShortcutRegistry
	history    *FocusHistory
	dispatcher *EventDispatcher
	refocus    func(uuid.UUID)

	stack        []*ModalContext
	inTransition bool
	pending      []func()
}

// NewModalGate wires a gate to its surroundings. refocus is the deferred
// pane-focus request used when the stack empties.
func NewModalGate(activeWS func() *Workspace, registry *ShortcutRegistry, history *FocusHistory, dispatcher *EventDispatcher, refocus func(uuid.UUID)) *ModalGate {
	return &ModalGate{
		activeWS:   activeWS,
		registry:   registry,
		history:    history,
		dispatcher: dispatcher,
		refocus:    refocus,
	}
}

// Active reports whether any overlay is up.
func (g *ModalGate) Active() bool { return len(g.stack) > 0 }

// Depth returns the overlay stack depth.
func (g *ModalGate) Depth() int { return len(g.stack) }

// Top returns the topmost overlay pane, nil when the stack is empty.
func (g *ModalGate) Top() *Pane {
	if len(g.stack) == 0 {
		return nil
	}
	return g.stack[len(g.stack)-1].Overlay
}

// Show pushes an overlay. If called while another transition is running the
// push is queued and executes when the running transition settles.
func (g *ModalGate) Show(overlay *Pane) {
	if g.inTransition {
		g.pending = append(g.pending, func() { g.Show(overlay) })
		return
	}
	g.inTransition = true

	var prevID uuid.UUID
	if len(g.stack) > 0 {
		top := g.stack[len(g.stack)-1]
		prevID = top.Overlay.ID()
		g.history.RecordFocus(top.Overlay)
		top.Overlay.ClearFocus()
	} else if ws := g.activeWS(); ws != nil {
		if prev := ws.FocusedPane(); prev != nil {
			prevID = prev.ID()
			g.history.RecordFocus(prev)
			prev.ClearFocus()
			if w := prev.Widget(); w != nil {
				w.OnPaneLostFocus()
			}
		}
		// Gate the background only on the first overlay; nested
		// overlays find it already gated.
		ws.SetInputDisabled(true)
	}

	if err := overlay.Activate(); err != nil {
		log.Printf("ModalGate: overlay %q failed to initialize: %v", overlay.Title(), err)
	}
	g.stack = append(g.stack, &ModalContext{Overlay: overlay, Previous: prevID})
	g.history.Restore(overlay)
	if w := overlay.Widget(); w != nil {
		w.OnPaneGainedFocus()
	}
	g.dispatcher.Broadcast(Event{Type: EventModalShown, Payload: overlay.ID()})
	g.dispatcher.Broadcast(Event{Type: EventModeChanged, Payload: ModeModal})

	g.settle()
}

// Hide pops the topmost overlay and disposes it. Queued like Show when a
// transition is already running. Hiding with an empty stack is a no-op.
func (g *ModalGate) Hide() {
	if g.inTransition {
		g.pending = append(g.pending, g.Hide)
		return
	}
	if len(g.stack) == 0 {
		return
	}
	g.inTransition = true

	top := g.stack[len(g.stack)-1]
	g.stack = g.stack[:len(g.stack)-1]

	overlayID := top.Overlay.ID()
	// Identity-keyed state is torn down before the widget itself, same
	// contract as a workspace pane close.
	g.registry.UnregisterScope(overlayID)
	g.history.UntrackPane(overlayID)
	top.Overlay.Dispose()
	g.dispatcher.Broadcast(Event{Type: EventModalHidden, Payload: overlayID})

	if len(g.stack) > 0 {
		// Focus returns to the overlay underneath.
		next := g.stack[len(g.stack)-1].Overlay
		g.history.Restore(next)
		if w := next.Widget(); w != nil {
			w.OnPaneGainedFocus()
		}
	} else {
		// Stack emptied: reopen the background and hand focus back.
		if ws := g.activeWS(); ws != nil {
			ws.SetInputDisabled(false)
		}
		if top.Previous != uuid.Nil {
			g.refocus(top.Previous)
		}
		g.dispatcher.Broadcast(Event{Type: EventModeChanged, Payload: ModeNormal})
	}

	g.settle()
}

// HideAll unwinds the whole stack, top first.
func (g *ModalGate) HideAll() {
	for g.Active() && !g.inTransition {
		g.Hide()
	}
}

// settle ends the running transition and replays queued ones in order.
func (g *ModalGate) settle() {
	g.inTransition = false
	for len(g.pending) > 0 {
		op := g.pending[0]
		g.pending = g.pending[1:]
		op()
	}
}

// PaneByID resolves an overlay pane by identity.
func (g *ModalGate) PaneByID(id uuid.UUID) *Pane {
	for _, ctx := range g.stack {
		if ctx.Overlay.ID() == id {
			return ctx.Overlay
		}
	}
	return nil
}
