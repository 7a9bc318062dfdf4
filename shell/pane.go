// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/pane.go
// Summary: Pane container tying a widget and its control tree to a stable
//          identity, with reentrancy-safe disposal.

package shell

import (
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
)

// Widget is the content a pane hosts. Controls() exposes the focusable
// tree; the pre/post hooks bracket control key handling for keys that fall
// through the dispatch layers.
type Widget interface {
	Title() string
	Initialize() error
	Controls() []Control
	Render(width, height int) [][]Cell
	HandleKeyPre(ev *tcell.EventKey) bool
	HandleKeyPost(ev *tcell.EventKey) bool
	OnPaneGainedFocus()
	OnPaneLostFocus()
	Dispose()
}

// PaneState tracks a pane through its lifecycle.
type PaneState int

const (
	StateCreated PaneState = iota
	StateActive
	StateDisposed
)

func (s PaneState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateActive:
		return "active"
	case StateDisposed:
		return "disposed"
	}
	return "unknown"
}

// Pane wraps a widget with an immutable identity. The id never changes for
// the pane's lifetime; titles are display strings and carry no identity.
type Pane struct {
	id     uuid.UUID
	widget Widget
	state  PaneState

	// selfFocus marks a pane with no focusable controls as the focused
	// surface itself.
	selfFocus bool
	disabled  bool
	disposing bool
}

// NewPane wraps widget in a pane with a fresh identity.
func NewPane(widget Widget) *Pane {
	return &Pane{id: uuid.New(), widget: widget, state: StateCreated}
}

// ID returns the pane's immutable identity.
func (p *Pane) ID() uuid.UUID { return p.id }

// Widget returns the hosted widget, nil after disposal.
func (p *Pane) Widget() Widget { return p.widget }

// State returns the lifecycle state.
func (p *Pane) State() PaneState { return p.state }

// Title returns the widget title, or a placeholder after disposal.
func (p *Pane) Title() string {
	if p.widget == nil {
		return "(disposed)"
	}
	return p.widget.Title()
}

// Activate initializes the widget. A pane only dispatches input while
// active.
func (p *Pane) Activate() error {
	if p.state != StateCreated {
		return nil
	}
	if err := p.widget.Initialize(); err != nil {
		return err
	}
	p.state = StateActive
	return nil
}

// Disabled reports whether input to this pane is gated off, as happens to
// background panes while a modal overlay is up.
func (p *Pane) Disabled() bool { return p.disabled }

// SetDisabled gates input on or off.
func (p *Pane) SetDisabled(disabled bool) { p.disabled = disabled }

// Controls returns the widget's control tree, empty after disposal.
func (p *Pane) Controls() []Control {
	if p.widget == nil {
		return nil
	}
	return p.widget.Controls()
}

// FocusWithin reports whether this pane holds logical focus: either one of
// its controls has focus, or the pane itself does when it has no focusable
// controls. Derived from control flags on every call, never cached.
func (p *Pane) FocusWithin() bool {
	if p.state == StateDisposed {
		return false
	}
	if p.selfFocus {
		return true
	}
	for _, c := range p.Controls() {
		if c.HasFocus() {
			return true
		}
	}
	return false
}

// FocusedControl returns the focused control inside this pane, or nil when
// focus sits on the pane surface itself or elsewhere.
func (p *Pane) FocusedControl() Control {
	for _, c := range p.Controls() {
		if c.HasFocus() {
			return c
		}
	}
	return nil
}

// ControlByPath finds a control by its stable path.
func (p *Pane) ControlByPath(path string) Control {
	for _, c := range p.Controls() {
		if c.Path() == path {
			return c
		}
	}
	return nil
}

// FirstFocusable returns the first focusable control in tree order, or nil.
func (p *Pane) FirstFocusable() Control {
	for _, c := range p.Controls() {
		if c.Focusable() {
			return c
		}
	}
	return nil
}

// ClearFocus drops focus from every control and the pane surface.
func (p *Pane) ClearFocus() {
	p.selfFocus = false
	for _, c := range p.Controls() {
		if c.HasFocus() {
			c.SetFocused(false)
		}
	}
}

// FocusControl moves focus inside the pane to ctrl, dropping it elsewhere.
// Passing nil focuses the pane surface itself.
func (p *Pane) FocusControl(ctrl Control) {
	p.ClearFocus()
	if ctrl == nil {
		p.selfFocus = true
		return
	}
	ctrl.SetFocused(true)
}

// TypingTarget returns the focused control as a text input accepting keys,
// or nil when focus is not in an editable field.
func (p *Pane) TypingTarget() TextInputControl {
	c := p.FocusedControl()
	if c == nil {
		return nil
	}
	if t, ok := c.(TextInputControl); ok && t.AcceptsTyping() {
		return t
	}
	return nil
}

// Dispose tears the pane down. Safe to call multiple times and safe to call
// again from inside the widget's own Dispose; later calls are no-ops.
func (p *Pane) Dispose() {
	if p.state == StateDisposed || p.disposing {
		return
	}
	p.disposing = true
	p.ClearFocus()
	if p.widget != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Pane: widget %q panicked during dispose: %v", p.Title(), r)
				}
			}()
			p.widget.Dispose()
		}()
	}
	p.widget = nil
	p.state = StateDisposed
	p.disposing = false
}
