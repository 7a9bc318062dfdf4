// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/shortcuts.go
// Summary: Global and pane-scoped shortcut tables with lookup precedence.
// Usage: Widgets register scoped bindings on attach; the engine registers
//        globals from config. The dispatcher consults scoped before global.

package shell

import (
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Binding ties a normalized key stroke to an action. Description feeds the
// command palette and the shortcut help overlay.
type Binding struct {
	Stroke      KeyStroke
	Action      func()
	Description string

	// AllowWhileTyping lets this binding fire even when a text input
	// control holds focus, on top of the fixed typing whitelist.
	AllowWhileTyping bool
}

// ShortcutRegistry holds the global shortcut table and one scoped table per
// pane. Scoped bindings always win over globals for the focused pane.
type ShortcutRegistry struct {
	mu     sync.RWMutex
	global map[KeyStroke]Binding
	scoped map[uuid.UUID]map[KeyStroke]Binding
}

// NewShortcutRegistry creates an empty registry.
func NewShortcutRegistry() *ShortcutRegistry {
	return &ShortcutRegistry{
		global: make(map[KeyStroke]Binding),
		scoped: make(map[uuid.UUID]map[KeyStroke]Binding),
	}
}

// RegisterGlobal adds a global binding. On collision the earlier binding
// wins and the loser is logged.
func (r *ShortcutRegistry) RegisterGlobal(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.global[b.Stroke]; ok {
		log.Printf("ShortcutRegistry: global %s already bound to %q, ignoring %q",
			b.Stroke, prev.Description, b.Description)
		return
	}
	r.global[b.Stroke] = b
}

// RegisterScoped adds a binding active only while paneID holds focus. On
// collision within the scope the earlier binding wins.
func (r *ShortcutRegistry) RegisterScoped(paneID uuid.UUID, b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.scoped[paneID]
	if !ok {
		table = make(map[KeyStroke]Binding)
		r.scoped[paneID] = table
	}
	if prev, ok := table[b.Stroke]; ok {
		log.Printf("ShortcutRegistry: pane %s %s already bound to %q, ignoring %q",
			paneID, b.Stroke, prev.Description, b.Description)
		return
	}
	table[b.Stroke] = b
}

// UnregisterScope drops every binding tied to paneID. Called on pane
// disposal so a closed pane cannot shadow globals.
func (r *ShortcutRegistry) UnregisterScope(paneID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scoped, paneID)
}

// UnregisterGlobal removes a single global binding.
func (r *ShortcutRegistry) UnregisterGlobal(stroke KeyStroke) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.global, stroke)
}

// Match resolves stroke against paneID's scoped table first, then the
// globals. Returns the winning binding and which table it came from.
func (r *ShortcutRegistry) Match(paneID uuid.UUID, stroke KeyStroke) (Binding, MatchLevel) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if table, ok := r.scoped[paneID]; ok {
		if b, ok := table[stroke]; ok {
			return b, MatchScoped
		}
	}
	if b, ok := r.global[stroke]; ok {
		return b, MatchGlobal
	}
	return Binding{}, MatchNone
}

// MatchScopedOnly resolves stroke against paneID's scoped table alone.
// Used while a modal overlay is active, where globals are suppressed.
func (r *ShortcutRegistry) MatchScopedOnly(paneID uuid.UUID, stroke KeyStroke) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if table, ok := r.scoped[paneID]; ok {
		if b, ok := table[stroke]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// matchGlobal resolves stroke against the global table only, for when no
// pane holds focus.
func (r *ShortcutRegistry) matchGlobal(stroke KeyStroke) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.global[stroke]
	return b, ok
}

// MatchLevel tells which table a lookup resolved against.
type MatchLevel int

const (
	MatchNone MatchLevel = iota
	MatchScoped
	MatchGlobal
)

// GlobalBindings returns the global table sorted by stroke name, for the
// palette and help overlay.
func (r *ShortcutRegistry) GlobalBindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Binding, 0, len(r.global))
	for _, b := range r.global {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stroke.String() < out[j].Stroke.String() })
	return out
}

// ScopedBindings returns paneID's bindings sorted by stroke name.
func (r *ShortcutRegistry) ScopedBindings(paneID uuid.UUID) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	table := r.scoped[paneID]
	out := make([]Binding, 0, len(table))
	for _, b := range table {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stroke.String() < out[j].Stroke.String() })
	return out
}

// typingWhitelist is the fixed set of combos that still reach shortcut
// tables while a text input control holds focus. Everything else types
// straight into the field.
var typingWhitelist = map[KeyStroke]struct{}{
	MustParseKeyStroke("ctrl+s"):       {},
	MustParseKeyStroke("ctrl+z"):       {},
	MustParseKeyStroke("ctrl+y"):       {},
	MustParseKeyStroke("ctrl+shift+z"): {},
	MustParseKeyStroke("ctrl+x"):       {},
	MustParseKeyStroke("ctrl+c"):       {},
	MustParseKeyStroke("ctrl+v"):       {},
	MustParseKeyStroke("ctrl+a"):       {},
	MustParseKeyStroke("escape"):       {},
}

// IsAllowedWhileTyping reports whether stroke may trigger shortcuts while a
// text input control holds focus.
func IsAllowedWhileTyping(stroke KeyStroke) bool {
	_, ok := typingWhitelist[stroke]
	return ok
}
