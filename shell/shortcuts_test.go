// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/shortcuts_test.go
// Summary: Tests for shortcut registration, precedence, and scope teardown.

package shell

import (
	"testing"

	"github.com/google/uuid"
)

func TestScopedShadowsGlobal(t *testing.T) {
	reg := NewShortcutRegistry()
	paneID := uuid.New()

	var fired string
	stroke := MustParseKeyStroke("ctrl+t")
	reg.RegisterGlobal(Binding{Stroke: stroke, Action: func() { fired = "global" }, Description: "new tab"})
	reg.RegisterScoped(paneID, Binding{Stroke: stroke, Action: func() { fired = "scoped" }, Description: "insert time"})

	b, level := reg.Match(paneID, stroke)
	if level != MatchScoped {
		t.Fatalf("level = %v, want MatchScoped", level)
	}
	b.Action()
	if fired != "scoped" {
		t.Fatalf("fired %q, want scoped binding", fired)
	}

	// A different pane with no scoped entry resolves to the global.
	other := uuid.New()
	b, level = reg.Match(other, stroke)
	if level != MatchGlobal {
		t.Fatalf("level = %v, want MatchGlobal", level)
	}
	b.Action()
	if fired != "global" {
		t.Fatalf("fired %q, want global binding", fired)
	}
}

func TestUnregisterScopeExposesGlobal(t *testing.T) {
	reg := NewShortcutRegistry()
	paneID := uuid.New()
	stroke := MustParseKeyStroke("ctrl+t")

	reg.RegisterGlobal(Binding{Stroke: stroke, Action: func() {}, Description: "new tab"})
	reg.RegisterScoped(paneID, Binding{Stroke: stroke, Action: func() {}, Description: "insert time"})
	reg.UnregisterScope(paneID)

	if _, level := reg.Match(paneID, stroke); level != MatchGlobal {
		t.Fatalf("level = %v, want MatchGlobal after scope teardown", level)
	}
}

func TestCollisionFirstWins(t *testing.T) {
	reg := NewShortcutRegistry()
	stroke := MustParseKeyStroke("ctrl+p")

	var fired string
	reg.RegisterGlobal(Binding{Stroke: stroke, Action: func() { fired = "first" }, Description: "palette"})
	reg.RegisterGlobal(Binding{Stroke: stroke, Action: func() { fired = "second" }, Description: "print"})

	b, _ := reg.Match(uuid.New(), stroke)
	b.Action()
	if fired != "first" {
		t.Fatalf("fired %q, want first registration", fired)
	}
}

func TestMatchScopedOnlySuppressesGlobals(t *testing.T) {
	reg := NewShortcutRegistry()
	paneID := uuid.New()
	stroke := MustParseKeyStroke("ctrl+t")
	reg.RegisterGlobal(Binding{Stroke: stroke, Action: func() {}, Description: "new tab"})

	if _, ok := reg.MatchScopedOnly(paneID, stroke); ok {
		t.Fatal("global binding should not resolve through scoped-only lookup")
	}

	reg.RegisterScoped(paneID, Binding{Stroke: stroke, Action: func() {}, Description: "modal action"})
	if _, ok := reg.MatchScopedOnly(paneID, stroke); !ok {
		t.Fatal("scoped binding should resolve through scoped-only lookup")
	}
}

func TestTypingWhitelist(t *testing.T) {
	allowed := []string{"ctrl+s", "ctrl+z", "ctrl+y", "ctrl+shift+z", "ctrl+x", "ctrl+c", "ctrl+v", "ctrl+a", "escape"}
	for _, name := range allowed {
		if !IsAllowedWhileTyping(MustParseKeyStroke(name)) {
			t.Errorf("%s should be allowed while typing", name)
		}
	}
	blocked := []string{"ctrl+t", "ctrl+w", "f1", "alt+enter"}
	for _, name := range blocked {
		if IsAllowedWhileTyping(MustParseKeyStroke(name)) {
			t.Errorf("%s should not be allowed while typing", name)
		}
	}
}

func TestGlobalBindingsSorted(t *testing.T) {
	reg := NewShortcutRegistry()
	reg.RegisterGlobal(Binding{Stroke: MustParseKeyStroke("ctrl+z"), Description: "undo"})
	reg.RegisterGlobal(Binding{Stroke: MustParseKeyStroke("ctrl+a"), Description: "select all"})

	out := reg.GlobalBindings()
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Description != "select all" {
		t.Fatalf("first = %q, want sorted by stroke", out[0].Description)
	}
}
