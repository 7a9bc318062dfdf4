// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/input_test.go
// Summary: Tests for dispatch layering, typing precedence, pane-move mode,
//          and panic containment.

package shell

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
)

// inputHarness stands up a dispatcher over one workspace.
type inputHarness struct {
	ws     *Workspace
	reg    *ShortcutRegistry
	gate   *ModalGate
	events *EventDispatcher
	hist   *FocusHistory
	inp    *InputDispatcher
	moved  []Direction
}

func newInputHarness() *inputHarness {
	h := &inputHarness{
		ws:     NewWorkspace(1),
		reg:    NewShortcutRegistry(),
		events: NewEventDispatcher(),
		hist:   NewFocusHistory(),
	}
	h.gate = NewModalGate(func() *Workspace { return h.ws }, h.reg, h.hist, h.events, func(id uuid.UUID) {
		if p := h.ws.PaneByID(id); p != nil {
			h.hist.Restore(p)
		}
	})
	h.inp = NewInputDispatcher(h.reg, h.gate, h.events,
		h.ws.FocusedPane,
		func(dir Direction) bool {
			h.moved = append(h.moved, dir)
			if p := h.ws.FocusedPane(); p != nil {
				return h.ws.MovePane(p.ID(), dir)
			}
			return false
		},
		MustParseKeyStroke("ctrl+b"),
	)
	return h
}

func (h *inputHarness) addFocusedEditor(t *testing.T, title string) (*Pane, *TextEntry) {
	t.Helper()
	w := newFakeWidget(title)
	entry := NewTextEntry(title + "/entry")
	w.controls = []Control{entry}
	p := NewPane(w)
	if err := h.ws.AddPane(p); err != nil {
		t.Fatalf("AddPane: %v", err)
	}
	p.FocusControl(entry)
	return p, entry
}

func TestTypingSkipsUnwhitelistedShortcuts(t *testing.T) {
	h := newInputHarness()
	_, entry := h.addFocusedEditor(t, "notes")

	fired := false
	h.reg.RegisterGlobal(Binding{Stroke: MustParseKeyStroke("t"), Action: func() { fired = true }, Description: "toggle"})

	res := h.inp.Dispatch(runeEvent('t'))
	if fired {
		t.Fatal("plain rune must type, not trigger a shortcut, while a field has focus")
	}
	if res != DispatchHandled {
		t.Fatalf("result = %v, want DispatchHandled", res)
	}
	if entry.Text() != "t" {
		t.Fatalf("text = %q, want %q", entry.Text(), "t")
	}
}

func TestWhitelistedComboFiresWhileTyping(t *testing.T) {
	h := newInputHarness()
	h.addFocusedEditor(t, "notes")

	saved := false
	h.reg.RegisterGlobal(Binding{Stroke: MustParseKeyStroke("ctrl+s"), Action: func() { saved = true }, Description: "save"})

	if res := h.inp.Dispatch(keyEvent("ctrl+s")); res != DispatchConsumed {
		t.Fatalf("result = %v, want DispatchConsumed", res)
	}
	if !saved {
		t.Fatal("whitelisted combo should reach the shortcut table while typing")
	}
}

func TestUnwhitelistedComboIgnoredWhileTyping(t *testing.T) {
	h := newInputHarness()
	_, entry := h.addFocusedEditor(t, "notes")

	fired := false
	h.reg.RegisterGlobal(Binding{Stroke: MustParseKeyStroke("ctrl+t"), Action: func() { fired = true }, Description: "new pane"})

	h.inp.Dispatch(keyEvent("ctrl+t"))
	if fired {
		t.Fatal("ctrl+t must not fire shortcuts while a field has focus")
	}
	if entry.Text() != "" {
		t.Fatalf("field should not type a control combo, got %q", entry.Text())
	}
}

func TestBindingAllowWhileTypingOverridesGuard(t *testing.T) {
	h := newInputHarness()
	_, entry := h.addFocusedEditor(t, "notes")

	fired := false
	h.reg.RegisterGlobal(Binding{
		Stroke:           MustParseKeyStroke("f2"),
		Action:           func() { fired = true },
		Description:      "rename",
		AllowWhileTyping: true,
	})

	if res := h.inp.Dispatch(keyEvent("f2")); res != DispatchConsumed {
		t.Fatalf("result = %v, want DispatchConsumed", res)
	}
	if !fired {
		t.Fatal("binding marked AllowWhileTyping should fire with a field focused")
	}
	if entry.Text() != "" {
		t.Fatalf("field should stay untouched, got %q", entry.Text())
	}
}

func TestScopedBeatsGlobalOutsideTyping(t *testing.T) {
	h := newInputHarness()
	w := newFakeWidget("viewer")
	list := NewListBox("viewer/list", []string{"a"})
	w.controls = []Control{list}
	p := NewPane(w)
	if err := h.ws.AddPane(p); err != nil {
		t.Fatal(err)
	}
	p.FocusControl(list)

	var fired string
	stroke := MustParseKeyStroke("ctrl+t")
	h.reg.RegisterGlobal(Binding{Stroke: stroke, Action: func() { fired = "global" }})
	h.reg.RegisterScoped(p.ID(), Binding{Stroke: stroke, Action: func() { fired = "scoped" }})

	h.inp.Dispatch(keyEvent("ctrl+t"))
	if fired != "scoped" {
		t.Fatalf("fired %q, want scoped", fired)
	}
}

func TestPaneMoveModeToggleAndMove(t *testing.T) {
	h := newInputHarness()
	pa, _ := h.addFocusedEditor(t, "a")
	pb, _ := h.addFocusedEditor(t, "b")
	// Only one pane may hold focus; park it on pane A's surface so the
	// typing guard stays out of the way.
	pb.ClearFocus()
	pa.FocusControl(nil)

	if h.inp.Mode() != ModeNormal {
		t.Fatalf("mode = %v, want normal", h.inp.Mode())
	}
	h.inp.Dispatch(keyEvent("ctrl+b"))
	if h.inp.Mode() != ModePaneMove {
		t.Fatalf("mode = %v, want pane-move", h.inp.Mode())
	}

	h.inp.Dispatch(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if len(h.moved) != 1 || h.moved[0] != DirRight {
		t.Fatalf("moved = %v, want one right move", h.moved)
	}
	if h.ws.indexOf(pa.ID()) != 1 {
		t.Fatal("focused pane should have swapped right")
	}

	// Keys outside the movement set are not intercepted by the mode.
	if res := h.inp.Dispatch(runeEvent('x')); res == DispatchConsumed {
		t.Fatalf("result = %v, stray keys should propagate in pane-move mode", res)
	}

	h.inp.Dispatch(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if h.inp.Mode() != ModeNormal {
		t.Fatalf("mode = %v, want normal after escape", h.inp.Mode())
	}

	// The toggle exits as well.
	h.inp.Dispatch(keyEvent("ctrl+b"))
	h.inp.Dispatch(keyEvent("ctrl+b"))
	if h.inp.Mode() != ModeNormal {
		t.Fatalf("mode = %v, want normal after second toggle", h.inp.Mode())
	}
}

func TestPanePipelineOrder(t *testing.T) {
	h := newInputHarness()
	p, entry := h.addFocusedEditor(t, "notes")
	w := p.Widget().(*fakeWidget)

	// Pre-hook wins over the focused control.
	w.preHandles = func(ev *tcell.EventKey) bool { return ev.Rune() == 'x' }
	h.inp.Dispatch(runeEvent('x'))
	if entry.Text() != "" {
		t.Fatal("pre-hook consumed keys must not reach the control")
	}

	// Unconsumed keys fall through to the post-hook.
	p.ClearFocus()
	p.FocusControl(nil)
	w.postHandles = func(ev *tcell.EventKey) bool { return true }
	if res := h.inp.Dispatch(runeEvent('z')); res != DispatchHandled {
		t.Fatalf("result = %v, want DispatchHandled via post-hook", res)
	}
}

func TestPanickingActionIsConsumed(t *testing.T) {
	h := newInputHarness()
	h.addFocusedEditor(t, "notes")
	h.reg.RegisterGlobal(Binding{Stroke: MustParseKeyStroke("ctrl+s"), Action: func() { panic("boom") }, Description: "save"})

	if res := h.inp.Dispatch(keyEvent("ctrl+s")); res != DispatchConsumed {
		t.Fatalf("result = %v, want DispatchConsumed on panic", res)
	}
}

func TestDisabledPaneDropsKeys(t *testing.T) {
	h := newInputHarness()
	p, entry := h.addFocusedEditor(t, "notes")
	p.SetDisabled(true)

	if res := h.inp.Dispatch(runeEvent('q')); res != DispatchIgnored {
		t.Fatalf("result = %v, want DispatchIgnored", res)
	}
	if entry.Text() != "" {
		t.Fatal("disabled pane must not receive keys")
	}
}
