// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/history.go
// Summary: Per-pane focus memory with graceful fallback on restore.
// Usage: The focus controller records the departing pane's focused control
//        before moving focus away; when the pane regains focus the record
//        is replayed through a degradation chain that never fails hard.

package shell

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// FocusRecord remembers where focus sat inside a pane and the transient
// state of that control. The handle goes stale when the control dies; the
// path survives widget rebuilds and process restarts.
type FocusRecord struct {
	PaneID      uuid.UUID
	ControlPath string
	ControlKind string
	When        time.Time
	State       TransientState

	handle ControlHandle
}

// FocusHistory keeps the latest focus record per pane, backed by the
// control arena for safe dereference of remembered controls.
type FocusHistory struct {
	mu      sync.Mutex
	arena   *controlArena
	records map[uuid.UUID]*FocusRecord
	tracked map[uuid.UUID]bool
}

// NewFocusHistory creates an empty history.
func NewFocusHistory() *FocusHistory {
	return &FocusHistory{
		arena:   newControlArena(),
		records: make(map[uuid.UUID]*FocusRecord),
		tracked: make(map[uuid.UUID]bool),
	}
}

// TrackPane registers a pane for focus memory. RecordFocus tracks
// implicitly, so this mainly makes the lifecycle wiring symmetric with
// UntrackPane.
func (h *FocusHistory) TrackPane(pane *Pane) {
	if pane == nil {
		return
	}
	h.mu.Lock()
	h.tracked[pane.ID()] = true
	h.mu.Unlock()
}

// RecordFocus captures pane's current focus target. Called when focus
// leaves the pane. A pane with no focused control keeps its previous
// record, so a brief surface-focus stint does not erase control memory.
func (h *FocusHistory) RecordFocus(pane *Pane) {
	if pane == nil || pane.State() == StateDisposed {
		return
	}
	ctrl := pane.FocusedControl()
	if ctrl == nil {
		return
	}
	rec := &FocusRecord{
		PaneID:      pane.ID(),
		ControlPath: ctrl.Path(),
		ControlKind: ctrl.Kind(),
		When:        time.Now(),
		handle:      h.arena.put(pane.ID(), ctrl),
	}
	if sc, ok := ctrl.(StatefulControl); ok {
		rec.State = sc.CaptureState()
	}

	h.mu.Lock()
	prev := h.records[pane.ID()]
	h.records[pane.ID()] = rec
	h.tracked[pane.ID()] = true
	h.mu.Unlock()

	if prev != nil {
		h.arena.invalidate(prev.handle)
	}
}

// Record returns the stored record for paneID, or nil.
func (h *FocusHistory) Record(paneID uuid.UUID) *FocusRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.records[paneID]
}

// Restore moves focus inside pane to its remembered control, degrading
// through a fallback chain: live handle, then path lookup, then the first
// focusable control, then the pane surface. Reports false only when the
// pane itself can no longer take focus.
func (h *FocusHistory) Restore(pane *Pane) bool {
	if pane == nil || pane.State() == StateDisposed {
		return false
	}
	h.mu.Lock()
	rec := h.records[pane.ID()]
	h.mu.Unlock()

	var target Control
	if rec != nil {
		target = h.arena.resolve(rec.handle)
		if target == nil {
			// The exact control is gone; a rebuilt control at the
			// same path is the next best landing spot.
			target = pane.ControlByPath(rec.ControlPath)
		}
	}
	if target != nil && !target.Focusable() {
		target = nil
	}
	if target == nil {
		target = pane.FirstFocusable()
	}
	pane.FocusControl(target)
	if target != nil && rec != nil && target.Path() == rec.ControlPath {
		if sc, ok := target.(StatefulControl); ok {
			sc.ApplyState(rec.State)
		}
	}
	return true
}

// Seed installs a record loaded from persistent storage. The handle is left
// unset so restore goes straight to the path lookup.
func (h *FocusHistory) Seed(paneID uuid.UUID, controlPath, controlKind string, state TransientState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.records[paneID]; ok {
		return
	}
	h.tracked[paneID] = true
	h.records[paneID] = &FocusRecord{
		PaneID:      paneID,
		ControlPath: controlPath,
		ControlKind: controlKind,
		When:        time.Now(),
		State:       state,
	}
}

// UntrackPane drops the pane's record and retires every arena handle issued
// for it. Called from pane disposal.
func (h *FocusHistory) UntrackPane(paneID uuid.UUID) {
	h.mu.Lock()
	rec := h.records[paneID]
	delete(h.records, paneID)
	delete(h.tracked, paneID)
	h.mu.Unlock()
	if rec != nil {
		h.arena.invalidate(rec.handle)
	}
	h.arena.invalidatePane(paneID)
}
