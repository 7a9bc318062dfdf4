// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/arena.go
// Summary: Generation-checked handle arena for control references.
// Usage: Focus records hold ControlHandle values instead of raw pointers; a
//        handle whose slot generation has moved on resolves to nil, so stale
//        references to disposed controls fail closed.

package shell

import (
	"sync"

	"github.com/google/uuid"
)

// ControlHandle names a slot plus the generation it was issued under.
// The zero handle never resolves.
type ControlHandle struct {
	index int
	gen   uint64
}

// Valid reports whether the handle was ever issued.
func (h ControlHandle) Valid() bool { return h.gen != 0 }

type arenaSlot struct {
	gen    uint64
	ctrl   Control
	paneID uuid.UUID
	live   bool
}

// controlArena issues generation-checked handles for controls. Liveness and
// dereference happen under one lock acquisition so a handle can never
// resolve to a control that was invalidated concurrently.
type controlArena struct {
	mu    sync.Mutex
	slots []arenaSlot
	free  []int
}

func newControlArena() *controlArena {
	return &controlArena{}
}

// put registers ctrl under paneID and returns its handle.
func (a *controlArena) put(paneID uuid.UUID, ctrl Control) ControlHandle {
	a.mu.Lock()
	defer a.mu.Unlock()
	var idx int
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, arenaSlot{})
		idx = len(a.slots) - 1
	}
	slot := &a.slots[idx]
	slot.gen++
	slot.ctrl = ctrl
	slot.paneID = paneID
	slot.live = true
	return ControlHandle{index: idx, gen: slot.gen}
}

// resolve returns the control behind h if its slot is still live under the
// same generation, nil otherwise.
func (a *controlArena) resolve(h ControlHandle) Control {
	if !h.Valid() {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if h.index < 0 || h.index >= len(a.slots) {
		return nil
	}
	slot := &a.slots[h.index]
	if !slot.live || slot.gen != h.gen {
		return nil
	}
	return slot.ctrl
}

// invalidate retires a single handle. Idempotent.
func (a *controlArena) invalidate(h ControlHandle) {
	if !h.Valid() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if h.index < 0 || h.index >= len(a.slots) {
		return
	}
	slot := &a.slots[h.index]
	if !slot.live || slot.gen != h.gen {
		return
	}
	slot.live = false
	slot.ctrl = nil
	a.free = append(a.free, h.index)
}

// invalidatePane retires every handle issued for paneID. Called from pane
// disposal so dangling focus records go stale in one sweep.
func (a *controlArena) invalidatePane(paneID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.slots {
		slot := &a.slots[i]
		if slot.live && slot.paneID == paneID {
			slot.live = false
			slot.ctrl = nil
			a.free = append(a.free, i)
		}
	}
}
