// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/snapshot.go
// Summary: Per-workspace focus snapshots and the persistence sink they
//          travel through.

package shell

import (
	"github.com/google/uuid"
)

// RecordSnapshot is the persisted form of one pane's focus memory.
type RecordSnapshot struct {
	PaneID          uuid.UUID `json:"pane_id"`
	ControlPath     string    `json:"control_path"`
	ControlKind     string    `json:"control_kind"`
	CaretOffset     int       `json:"caret_offset"`
	SelectionStart  int       `json:"selection_start"`
	SelectionLength int       `json:"selection_length"`
	ScrollOffset    int       `json:"scroll_offset"`
}

// State returns the transient-state portion of the record.
func (r RecordSnapshot) State() TransientState {
	return TransientState{
		CaretOffset:     r.CaretOffset,
		SelectionStart:  r.SelectionStart,
		SelectionLength: r.SelectionLength,
		ScrollOffset:    r.ScrollOffset,
	}
}

// FocusSnapshot freezes a workspace's focus memory at switch-away time: one
// record per pane that has focus history, in pane order, plus which pane
// held logical focus. Identity is the pane id, never its title.
type FocusSnapshot struct {
	FocusedPane uuid.UUID        `json:"focused_pane"`
	Records     []RecordSnapshot `json:"records"`
}

// Zero reports whether the snapshot carries nothing.
func (s FocusSnapshot) Zero() bool {
	return s.FocusedPane == uuid.Nil && len(s.Records) == 0
}

// CaptureSnapshot reads the workspace's focus memory into a snapshot. The
// focused pane contributes its live control state; other panes contribute
// their last recorded focus from history.
func CaptureSnapshot(ws *Workspace, hist *FocusHistory) FocusSnapshot {
	var snap FocusSnapshot
	for _, pane := range ws.Panes() {
		if pane.State() == StateDisposed {
			continue
		}
		if pane.FocusWithin() {
			snap.FocusedPane = pane.ID()
			snap.Records = append(snap.Records, liveRecord(pane))
			continue
		}
		if rec := hist.Record(pane.ID()); rec != nil {
			snap.Records = append(snap.Records, RecordSnapshot{
				PaneID:          rec.PaneID,
				ControlPath:     rec.ControlPath,
				ControlKind:     rec.ControlKind,
				CaretOffset:     rec.State.CaretOffset,
				SelectionStart:  rec.State.SelectionStart,
				SelectionLength: rec.State.SelectionLength,
				ScrollOffset:    rec.State.ScrollOffset,
			})
		}
	}
	return snap
}

func liveRecord(pane *Pane) RecordSnapshot {
	rec := RecordSnapshot{PaneID: pane.ID()}
	ctrl := pane.FocusedControl()
	if ctrl == nil {
		return rec
	}
	rec.ControlPath = ctrl.Path()
	rec.ControlKind = ctrl.Kind()
	if sc, ok := ctrl.(StatefulControl); ok {
		st := sc.CaptureState()
		rec.CaretOffset = st.CaretOffset
		rec.SelectionStart = st.SelectionStart
		rec.SelectionLength = st.SelectionLength
		rec.ScrollOffset = st.ScrollOffset
	}
	return rec
}

// ApplySnapshot replays a snapshot onto the workspace: non-focused records
// seed the focus history so later focus moves restore them, the focused
// record takes focus now. A record naming a pane that no longer exists is
// skipped; a missing focused pane degrades to the first pane. Returns
// whether any pane took focus.
func ApplySnapshot(ws *Workspace, snap FocusSnapshot, hist *FocusHistory) bool {
	var focusedRec *RecordSnapshot
	for i := range snap.Records {
		rec := &snap.Records[i]
		if rec.PaneID == snap.FocusedPane {
			focusedRec = rec
			continue
		}
		if ws.PaneByID(rec.PaneID) != nil {
			hist.Seed(rec.PaneID, rec.ControlPath, rec.ControlKind, rec.State())
		}
	}

	var pane *Pane
	if snap.FocusedPane != uuid.Nil {
		pane = ws.PaneByID(snap.FocusedPane)
	}
	if pane == nil {
		panes := ws.Panes()
		if len(panes) == 0 {
			return false
		}
		return hist.Restore(panes[0])
	}

	if focusedRec != nil && focusedRec.ControlPath != "" {
		if ctrl := pane.ControlByPath(focusedRec.ControlPath); ctrl != nil && ctrl.Focusable() {
			pane.FocusControl(ctrl)
			if sc, ok := ctrl.(StatefulControl); ok {
				sc.ApplyState(focusedRec.State())
			}
			return true
		}
	}
	return hist.Restore(pane)
}

// SnapshotSink persists focus snapshots across runs. The SQLite store in
// the storage package is the production implementation.
type SnapshotSink interface {
	SaveSnapshot(workspaceID int, snap FocusSnapshot) error
	LoadSnapshot(workspaceID int) (FocusSnapshot, bool, error)
}
