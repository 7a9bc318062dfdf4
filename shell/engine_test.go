// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/engine_test.go
// Summary: Tests for workspace switching, snapshot restore, lifecycle
//          teardown, and reentrant pane close.

package shell

import (
	"testing"

	"github.com/google/uuid"
)

// memorySink is an in-memory SnapshotSink.
type memorySink struct {
	saved map[int]FocusSnapshot
}

func newMemorySink() *memorySink {
	return &memorySink{saved: make(map[int]FocusSnapshot)}
}

func (m *memorySink) SaveSnapshot(workspaceID int, snap FocusSnapshot) error {
	m.saved[workspaceID] = snap
	return nil
}

func (m *memorySink) LoadSnapshot(workspaceID int) (FocusSnapshot, bool, error) {
	snap, ok := m.saved[workspaceID]
	return snap, ok, nil
}

func openEditor(t *testing.T, e *Engine, title string) (*Pane, *TextEntry) {
	t.Helper()
	w := newFakeWidget(title)
	entry := NewTextEntry(title + "/entry")
	w.controls = []Control{entry}
	p, err := e.Lifecycle().OpenPane(w)
	if err != nil {
		t.Fatalf("OpenPane: %v", err)
	}
	e.flushDeferred()
	return p, entry
}

func TestOpenPaneTakesFocusAfterDrain(t *testing.T) {
	e := NewEngine(newStubDriver(), nil)
	p, entry := openEditor(t, e, "notes")
	if !p.FocusWithin() {
		t.Fatal("freshly opened pane should hold focus")
	}
	if !entry.HasFocus() {
		t.Fatal("its first focusable control should hold focus")
	}
}

func TestWorkspaceSwitchRestoresFocusAndCaret(t *testing.T) {
	sink := newMemorySink()
	e := NewEngine(newStubDriver(), sink)

	_, entry := openEditor(t, e, "notes")
	entry.SetText("hello world")
	entry.ApplyState(TransientState{CaretOffset: 5})

	e.SwitchToWorkspace(2)
	if e.ActiveWorkspaceID() != 2 {
		t.Fatalf("active = %d, want 2", e.ActiveWorkspaceID())
	}
	if entry.HasFocus() {
		t.Fatal("workspace 1 controls should lose focus on switch")
	}
	openEditor(t, e, "scratch")

	e.SwitchToWorkspace(1)
	e.flushDeferred()
	if !entry.HasFocus() {
		t.Fatal("switching back should restore focus to the remembered control")
	}
	if entry.Caret() != 5 {
		t.Fatalf("caret = %d, want restored 5", entry.Caret())
	}

	// Snapshots also reach the sink for cross-run persistence.
	snap, ok := sink.saved[1]
	if !ok || snap.FocusedPane == uuid.Nil {
		t.Fatalf("persisted snapshot = %+v, want a focused record", snap)
	}
	found := false
	for _, rec := range snap.Records {
		if rec.PaneID == snap.FocusedPane && rec.ControlPath == "notes/entry" {
			found = true
		}
	}
	if !found {
		t.Fatalf("persisted records = %+v, want focused notes/entry", snap.Records)
	}
}

func TestSameNamePanesRestoreByIdentity(t *testing.T) {
	e := NewEngine(newStubDriver(), nil)
	p1, e1 := openEditor(t, e, "counter")
	_, e2 := openEditor(t, e, "counter")

	// Two panes share the title and the control path; focus the first.
	e.Focus().FocusPane(p1.ID())
	e.flushDeferred()
	if !e1.HasFocus() {
		t.Fatal("pane #1's control should hold focus")
	}

	e.SwitchToWorkspace(2)
	e.SwitchToWorkspace(1)
	e.flushDeferred()

	if !e1.HasFocus() {
		t.Fatal("restore must land in pane #1's control")
	}
	if e2.HasFocus() {
		t.Fatal("pane #2 shares the display name but must never inherit focus")
	}
}

func TestSwitchBlockedWhileModalUp(t *testing.T) {
	e := NewEngine(newStubDriver(), nil)
	openEditor(t, e, "notes")

	overlay, _, _ := newOverlay("confirm")
	e.Gate().Show(overlay)
	e.SwitchToWorkspace(2)
	if e.ActiveWorkspaceID() != 1 {
		t.Fatal("workspace switch must be refused while a modal is up")
	}
}

func TestClosePaneTearsDownScopeAndHandsFocusOn(t *testing.T) {
	e := NewEngine(newStubDriver(), nil)
	pa, _ := openEditor(t, e, "a")
	pb, _ := openEditor(t, e, "b")

	stroke := MustParseKeyStroke("ctrl+t")
	e.Registry().RegisterScoped(pb.ID(), Binding{Stroke: stroke, Action: func() {}, Description: "scoped"})

	if !e.Lifecycle().ClosePane(pb.ID()) {
		t.Fatal("close should succeed")
	}
	e.flushDeferred()

	if pb.State() != StateDisposed {
		t.Fatal("pane should be disposed")
	}
	if _, ok := e.Registry().MatchScopedOnly(pb.ID(), stroke); ok {
		t.Fatal("scoped bindings should drop with the pane")
	}
	if !pa.FocusWithin() {
		t.Fatal("focus should move to the remaining pane")
	}
}

func TestReentrantCloseFromDisposeIsNoOp(t *testing.T) {
	e := NewEngine(newStubDriver(), nil)

	w := newFakeWidget("self-closer")
	p, err := e.Lifecycle().OpenPane(w)
	if err != nil {
		t.Fatal(err)
	}
	e.flushDeferred()

	closes := 0
	w.onDispose = func() {
		// Widget tears itself down and tries to close its own pane again.
		if e.Lifecycle().ClosePane(p.ID()) {
			closes++
		}
	}

	if !e.Lifecycle().ClosePane(p.ID()) {
		t.Fatal("outer close should succeed")
	}
	if closes != 0 {
		t.Fatal("inner close must be a no-op, not a second teardown")
	}
	if w.disposed != 1 {
		t.Fatalf("disposed = %d, want exactly 1", w.disposed)
	}
}

func TestClosePaneUnknownIDIsNoOp(t *testing.T) {
	e := NewEngine(newStubDriver(), nil)
	if e.Lifecycle().ClosePane(uuid.New()) {
		t.Fatal("closing an unknown pane should report false")
	}
}

func TestStateUpdateBroadcastOnKey(t *testing.T) {
	e := NewEngine(newStubDriver(), nil)
	p, _ := openEditor(t, e, "notes")
	// Park focus on the pane surface so the toggle is not eaten by the
	// typing guard.
	p.FocusControl(nil)

	var updates []StatePayload
	sub := e.Events().Subscribe(ListenerFunc(func(ev Event) {
		if ev.Type == EventStateUpdate {
			updates = append(updates, ev.Payload.(StatePayload))
		}
	}))
	defer sub.Close()

	e.HandleKey(keyEvent("ctrl+b"))
	if len(updates) == 0 {
		t.Fatal("mode change should publish a state update")
	}
	last := updates[len(updates)-1]
	if last.Mode != ModePaneMove {
		t.Fatalf("mode = %v, want pane-move", last.Mode)
	}
	if last.WorkspaceID != 1 {
		t.Fatalf("workspace = %d, want 1", last.WorkspaceID)
	}
}

func TestClipboardCutCopyPaste(t *testing.T) {
	e := NewEngine(newStubDriver(), nil)
	_, entry := openEditor(t, e, "notes")
	entry.SetText("hello")
	entry.SelectAll()

	e.CopySelection()
	if e.Clipboard() != "hello" {
		t.Fatalf("clipboard = %q, want %q", e.Clipboard(), "hello")
	}

	e.CutSelection()
	if entry.Text() != "" {
		t.Fatalf("text after cut = %q, want empty", entry.Text())
	}
	if e.Clipboard() != "hello" {
		t.Fatalf("clipboard after cut = %q, want %q", e.Clipboard(), "hello")
	}

	e.PasteClipboard()
	e.PasteClipboard()
	if entry.Text() != "hellohello" {
		t.Fatalf("text after paste twice = %q, want %q", entry.Text(), "hellohello")
	}
}

func TestClipboardOpsNoopWithoutTextFocus(t *testing.T) {
	e := NewEngine(newStubDriver(), nil)
	p, entry := openEditor(t, e, "notes")
	entry.SetText("hello")
	entry.SelectAll()
	p.FocusControl(nil)

	e.SetClipboard("kept")
	e.CopySelection()
	e.CutSelection()
	if e.Clipboard() != "kept" {
		t.Fatalf("clipboard = %q, want %q", e.Clipboard(), "kept")
	}
	if entry.Text() != "hello" {
		t.Fatalf("text = %q, cut must not touch an unfocused control", entry.Text())
	}
}
