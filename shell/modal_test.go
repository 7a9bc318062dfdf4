// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/modal_test.go
// Summary: Tests for modal exclusivity, nesting, reentrancy queueing, and
//          focus restoration.

package shell

import (
	"testing"

	"github.com/google/uuid"
)

func newModalHarness() *inputHarness {
	return newInputHarness()
}

func newOverlay(title string) (*Pane, *fakeWidget, *TextEntry) {
	w := newFakeWidget(title)
	entry := NewTextEntry(title + "/entry")
	w.controls = []Control{entry}
	return NewPane(w), w, entry
}

func TestModalGatesBackgroundAndRoutesKeys(t *testing.T) {
	h := newModalHarness()
	bgPane, bgEntry := h.addFocusedEditor(t, "editor")

	overlay, _, dlgEntry := newOverlay("confirm")
	h.gate.Show(overlay)

	if h.inp.Mode() != ModeModal {
		t.Fatalf("mode = %v, want modal", h.inp.Mode())
	}
	if !bgPane.Disabled() {
		t.Fatal("background pane should be gated while the modal is up")
	}
	if bgPane.FocusWithin() {
		t.Fatal("background pane must not hold focus under a modal")
	}
	if !dlgEntry.HasFocus() {
		t.Fatal("overlay's first focusable control should take focus")
	}

	h.inp.Dispatch(runeEvent('y'))
	if dlgEntry.Text() != "y" {
		t.Fatalf("overlay entry = %q, want %q", dlgEntry.Text(), "y")
	}
	if bgEntry.Text() != "" {
		t.Fatal("background field must not see modal keys")
	}
}

func TestModalSuppressesGlobalShortcuts(t *testing.T) {
	h := newModalHarness()
	h.addFocusedEditor(t, "editor")

	globalFired, scopedFired := false, false
	stroke := MustParseKeyStroke("f1")
	h.reg.RegisterGlobal(Binding{Stroke: stroke, Action: func() { globalFired = true }, Description: "help"})

	overlay, _, _ := newOverlay("confirm")
	h.reg.RegisterScoped(overlay.ID(), Binding{
		Stroke:           stroke,
		Action:           func() { scopedFired = true },
		Description:      "dialog help",
		AllowWhileTyping: true,
	})
	h.gate.Show(overlay)

	h.inp.Dispatch(keyEvent("f1"))
	if globalFired {
		t.Fatal("global bindings must stay suppressed in modal mode")
	}
	if !scopedFired {
		t.Fatal("overlay's scoped binding should fire")
	}
}

func TestModalScopedBindingRespectsTypingGuard(t *testing.T) {
	h := newModalHarness()
	h.addFocusedEditor(t, "editor")

	overlay, _, dlgEntry := newOverlay("confirm")
	fired := false
	h.reg.RegisterScoped(overlay.ID(), Binding{
		Stroke:      MustParseKeyStroke("f1"),
		Action:      func() { fired = true },
		Description: "dialog help",
	})
	h.gate.Show(overlay)

	if !dlgEntry.HasFocus() {
		t.Fatal("overlay field should hold focus")
	}
	h.inp.Dispatch(keyEvent("f1"))
	if fired {
		t.Fatal("a scoped binding without the typing escape hatch must not fire while the overlay field is focused")
	}
}

func TestHideUnregistersOverlayScope(t *testing.T) {
	h := newModalHarness()
	h.addFocusedEditor(t, "editor")

	overlay, _, _ := newOverlay("confirm")
	stroke := MustParseKeyStroke("f1")
	h.reg.RegisterScoped(overlay.ID(), Binding{Stroke: stroke, Action: func() {}, Description: "dialog help"})
	h.gate.Show(overlay)
	h.gate.Hide()

	if _, ok := h.reg.MatchScopedOnly(overlay.ID(), stroke); ok {
		t.Fatal("dismissed overlay's scoped bindings should be unregistered")
	}
}

func TestModalNestingRestoresUnderlyingOverlay(t *testing.T) {
	h := newModalHarness()
	h.addFocusedEditor(t, "editor")

	first, _, firstEntry := newOverlay("settings")
	second, _, _ := newOverlay("confirm-discard")
	h.gate.Show(first)
	h.gate.Show(second)

	if h.gate.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", h.gate.Depth())
	}
	if h.gate.Top() != second {
		t.Fatal("top of stack should be the nested overlay")
	}

	h.gate.Hide()
	if h.gate.Top() != first {
		t.Fatal("dismissing the nested overlay should expose the first")
	}
	if !firstEntry.HasFocus() {
		t.Fatal("focus should return to the underlying overlay")
	}
	if h.inp.Mode() != ModeModal {
		t.Fatal("mode should stay modal while the stack is non-empty")
	}
}

func TestModalDismissRestoresBackgroundFocus(t *testing.T) {
	h := newModalHarness()
	bgPane, bgEntry := h.addFocusedEditor(t, "editor")
	bgEntry.SetText("draft")
	bgEntry.ApplyState(TransientState{CaretOffset: 2})

	overlay, _, _ := newOverlay("confirm")
	h.gate.Show(overlay)
	h.gate.Hide()

	if bgPane.Disabled() {
		t.Fatal("background should reopen when the stack empties")
	}
	if !bgEntry.HasFocus() {
		t.Fatal("focus should return to the previously focused control")
	}
	if bgEntry.Caret() != 2 {
		t.Fatalf("caret = %d, want restored 2", bgEntry.Caret())
	}
	if h.inp.Mode() != ModeNormal {
		t.Fatalf("mode = %v, want normal", h.inp.Mode())
	}
}

func TestNestedShowKeepsBackgroundGateUntouched(t *testing.T) {
	h := newModalHarness()
	bgPane, _ := h.addFocusedEditor(t, "editor")

	first, _, _ := newOverlay("a")
	second, _, _ := newOverlay("b")
	h.gate.Show(first)
	h.gate.Show(second)
	h.gate.Hide()

	// Still one overlay up, so the background stays gated.
	if !bgPane.Disabled() {
		t.Fatal("background must stay gated while any overlay remains")
	}
}

func TestReentrantTransitionIsQueued(t *testing.T) {
	h := newModalHarness()
	h.addFocusedEditor(t, "editor")

	chained, _, _ := newOverlay("chained")
	first, w, _ := newOverlay("first")
	// The overlay opens another modal from inside its focus-gain hook.
	opened := false
	w.onGain = func() {
		if !opened {
			opened = true
			h.gate.Show(chained)
		}
	}

	h.gate.Show(first)
	if h.gate.Depth() != 2 {
		t.Fatalf("depth = %d, want 2 after queued Show settles", h.gate.Depth())
	}
	if h.gate.Top() != chained {
		t.Fatal("queued overlay should end up on top")
	}
}

func TestHideOnEmptyStackIsNoOp(t *testing.T) {
	h := newModalHarness()
	h.gate.Hide()
	if h.gate.Active() {
		t.Fatal("stack should stay empty")
	}
}

func TestModalEvents(t *testing.T) {
	h := newModalHarness()
	h.addFocusedEditor(t, "editor")

	var shown, hidden []uuid.UUID
	sub := h.events.Subscribe(ListenerFunc(func(ev Event) {
		switch ev.Type {
		case EventModalShown:
			shown = append(shown, ev.Payload.(uuid.UUID))
		case EventModalHidden:
			hidden = append(hidden, ev.Payload.(uuid.UUID))
		}
	}))
	defer sub.Close()

	overlay, _, _ := newOverlay("confirm")
	id := overlay.ID()
	h.gate.Show(overlay)
	h.gate.Hide()

	if len(shown) != 1 || shown[0] != id {
		t.Fatalf("shown = %v, want [%s]", shown, id)
	}
	if len(hidden) != 1 || hidden[0] != id {
		t.Fatalf("hidden = %v, want [%s]", hidden, id)
	}
}
