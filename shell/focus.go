// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/focus.go
// Summary: Focus controller: idempotent focus moves through deferred,
//          sequence-revalidated operations.
// Usage: Callers request focus by pane identity. The request captures the
//        id and a sequence number, then runs deferred; if a newer request
//        or a disposal lands first, the stale op drops silently.

package shell

import (
	"log"
	"sync/atomic"

	"github.com/google/uuid"
)

// FocusController moves logical focus between panes. Focus itself lives in
// control flags; the controller only orchestrates transitions.
type FocusController struct {
	// deferOp schedules work for the drain point after the current event.
	deferOp func(func())
	// lookup resolves a pane id in the active workspace.
	lookup func(uuid.UUID) *Pane
	// focused scans for the pane currently holding focus.
	focused func() *Pane

	history    *FocusHistory
	dispatcher *EventDispatcher

	seq atomic.Uint64
}

// NewFocusController wires a controller to its surroundings.
func NewFocusController(deferOp func(func()), lookup func(uuid.UUID) *Pane, focused func() *Pane, history *FocusHistory, dispatcher *EventDispatcher) *FocusController {
	return &FocusController{
		deferOp:    deferOp,
		lookup:     lookup,
		focused:    focused,
		history:    history,
		dispatcher: dispatcher,
	}
}

// FocusPane requests focus for the pane with the given identity. Returns
// immediately; the move happens at the next defer drain. Requesting focus
// for the pane that already holds it is a no-op and does not disturb the
// focused control inside it.
func (f *FocusController) FocusPane(paneID uuid.UUID) {
	target := f.lookup(paneID)
	if target == nil {
		log.Printf("FocusController: focus request for unknown pane %s dropped", paneID)
		return
	}
	if target.FocusWithin() {
		return
	}
	seq := f.seq.Add(1)
	f.deferOp(func() {
		f.apply(paneID, seq)
	})
}

// apply executes a deferred focus move. Both the pane and the sequence are
// revalidated here; anything stale drops without side effects.
func (f *FocusController) apply(paneID uuid.UUID, seq uint64) {
	if f.seq.Load() != seq {
		log.Printf("FocusController: superseded focus request for pane %s dropped", paneID)
		return
	}
	target := f.lookup(paneID)
	if target == nil || target.State() == StateDisposed {
		log.Printf("FocusController: deferred focus target %s gone, dropping", paneID)
		return
	}
	if target.FocusWithin() {
		return
	}

	prev := f.focused()
	if prev != nil && prev.ID() != paneID {
		f.history.RecordFocus(prev)
		prev.ClearFocus()
		if w := prev.Widget(); w != nil {
			w.OnPaneLostFocus()
		}
	}

	f.history.Restore(target)
	if w := target.Widget(); w != nil {
		w.OnPaneGainedFocus()
	}
	f.dispatcher.Broadcast(Event{Type: EventFocusChanged, Payload: paneID})
}

// FocusControl moves focus to a specific control inside a pane, deferred
// and revalidated like FocusPane. The control is addressed by path so the
// request stays valid across control rebuilds.
func (f *FocusController) FocusControl(paneID uuid.UUID, controlPath string) {
	seq := f.seq.Add(1)
	f.deferOp(func() {
		if f.seq.Load() != seq {
			log.Printf("FocusController: superseded focus request for pane %s dropped", paneID)
			return
		}
		target := f.lookup(paneID)
		if target == nil || target.State() == StateDisposed {
			log.Printf("FocusController: deferred focus target %s gone, dropping", paneID)
			return
		}
		ctrl := target.ControlByPath(controlPath)
		if ctrl == nil || !ctrl.Focusable() {
			return
		}
		prev := f.focused()
		if prev != nil && prev.ID() != paneID {
			f.history.RecordFocus(prev)
			prev.ClearFocus()
			if w := prev.Widget(); w != nil {
				w.OnPaneLostFocus()
			}
		}
		alreadyInPane := prev != nil && prev.ID() == paneID
		target.FocusControl(ctrl)
		if !alreadyInPane {
			if w := target.Widget(); w != nil {
				w.OnPaneGainedFocus()
			}
			f.dispatcher.Broadcast(Event{Type: EventFocusChanged, Payload: paneID})
		}
	})
}
