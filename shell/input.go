// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/input.go
// Summary: Layered key dispatch: typing whitelist, scoped and global
//          shortcuts, mode handling, then pane forwarding.
// Usage: One Dispatch call per key event, on the event loop goroutine.
//        While a text field holds focus only whitelisted combos reach the
//        shortcut tables; while a modal is up only the overlay sees keys.

package shell

import (
	"log"

	"github.com/gdamore/tcell/v2"
)

// Mode is the input mode the shell is in.
type Mode int

const (
	ModeNormal Mode = iota
	ModePaneMove
	ModeModal
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModePaneMove:
		return "pane-move"
	case ModeModal:
		return "modal"
	}
	return "unknown"
}

// DispatchResult says what happened to a key event.
type DispatchResult int

const (
	// DispatchConsumed means a shortcut or mode handler took the key.
	DispatchConsumed DispatchResult = iota
	// DispatchHandled means the key was forwarded into a pane and the
	// pane took it.
	DispatchHandled
	// DispatchIgnored means nothing wanted the key.
	DispatchIgnored
)

// InputDispatcher routes key events through the dispatch layers.
type InputDispatcher struct {
	registry *ShortcutRegistry
	gate     *ModalGate
	events   *EventDispatcher

	focusedPane func() *Pane
	movePane    func(dir Direction) bool

	paneMoveKey KeyStroke
	mode        Mode
}

// NewInputDispatcher wires a dispatcher. paneMoveKey toggles pane-move
// mode.
func NewInputDispatcher(registry *ShortcutRegistry, gate *ModalGate, events *EventDispatcher, focusedPane func() *Pane, movePane func(dir Direction) bool, paneMoveKey KeyStroke) *InputDispatcher {
	return &InputDispatcher{
		registry:    registry,
		gate:        gate,
		events:      events,
		focusedPane: focusedPane,
		movePane:    movePane,
		paneMoveKey: paneMoveKey,
		mode:        ModeNormal,
	}
}

// Mode returns the current input mode. Modal presence is derived from the
// overlay stack, not stored.
func (d *InputDispatcher) Mode() Mode {
	if d.gate != nil && d.gate.Active() {
		return ModeModal
	}
	return d.mode
}

// SetPaneMoveKey replaces the pane-move toggle, as on config reload.
func (d *InputDispatcher) SetPaneMoveKey(stroke KeyStroke) {
	d.paneMoveKey = stroke
}

// Dispatch routes one key event. Never panics: a panicking shortcut action
// or widget handler is logged and the key counts as consumed.
func (d *InputDispatcher) Dispatch(ev *tcell.EventKey) (result DispatchResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("InputDispatcher: handler panicked on %s: %v", StrokeFromEvent(ev), r)
			result = DispatchConsumed
		}
	}()

	stroke := StrokeFromEvent(ev)

	if d.gate != nil && d.gate.Active() {
		return d.dispatchModal(stroke, ev)
	}
	return d.dispatch(stroke, ev)
}

// dispatchModal routes keys while an overlay is up. Only the overlay's
// scoped bindings are consulted; globals stay suppressed and background
// panes never see the key.
func (d *InputDispatcher) dispatchModal(stroke KeyStroke, ev *tcell.EventKey) DispatchResult {
	top := d.gate.Top()
	if top == nil {
		return DispatchIgnored
	}
	typing := top.TypingTarget() != nil
	if b, ok := d.registry.MatchScopedOnly(top.ID(), stroke); ok {
		if !typing || b.AllowWhileTyping || IsAllowedWhileTyping(stroke) {
			b.Action()
			return DispatchConsumed
		}
	}
	if d.forwardToPane(top, ev) {
		return DispatchHandled
	}
	return DispatchIgnored
}

// dispatch runs the ordered layers: typing guard, shortcut tables, mode
// interception, pane forwarding. Strictly short-circuiting.
func (d *InputDispatcher) dispatch(stroke KeyStroke, ev *tcell.EventKey) DispatchResult {
	pane := d.focusedPane()

	typing := pane != nil && pane.TypingTarget() != nil
	allowed := !typing || IsAllowedWhileTyping(stroke)

	if pane != nil {
		if b, level := d.registry.Match(pane.ID(), stroke); level != MatchNone && (allowed || b.AllowWhileTyping) {
			b.Action()
			return DispatchConsumed
		}
	} else if b, ok := d.registry.matchGlobal(stroke); ok {
		b.Action()
		return DispatchConsumed
	}

	if allowed {
		if stroke == d.paneMoveKey {
			if d.mode == ModePaneMove {
				d.setMode(ModeNormal)
			} else {
				d.setMode(ModePaneMove)
			}
			return DispatchConsumed
		}
		if d.mode == ModePaneMove {
			if stroke.Key == tcell.KeyEscape {
				d.setMode(ModeNormal)
				return DispatchConsumed
			}
			// Movement keys depend on transient grid geometry, so they
			// are intercepted here rather than table-driven.
			if dir, ok := moveDirection(stroke); ok {
				if !d.movePane(dir) {
					log.Printf("InputDispatcher: pane move %s blocked at grid edge", dir)
				}
				return DispatchConsumed
			}
		}
	}

	if pane != nil && d.forwardToPane(pane, ev) {
		return DispatchHandled
	}
	return DispatchIgnored
}

// forwardToPane runs the pane's key pipeline: widget pre-hook, focused
// control, widget post-hook. Disabled and disposed panes drop keys.
func (d *InputDispatcher) forwardToPane(pane *Pane, ev *tcell.EventKey) bool {
	if pane == nil || pane.Disabled() || pane.State() != StateActive {
		return false
	}
	w := pane.Widget()
	if w == nil {
		return false
	}
	if w.HandleKeyPre(ev) {
		return true
	}
	if ctrl := pane.FocusedControl(); ctrl != nil {
		if ctrl.HandleKey(ev) {
			return true
		}
	}
	return w.HandleKeyPost(ev)
}

func (d *InputDispatcher) setMode(m Mode) {
	if d.mode == m {
		return
	}
	d.mode = m
	d.events.Broadcast(Event{Type: EventModeChanged, Payload: m})
}

// moveDirection maps arrows and hjkl to grid directions.
func moveDirection(stroke KeyStroke) (Direction, bool) {
	switch stroke.Key {
	case tcell.KeyLeft:
		return DirLeft, true
	case tcell.KeyRight:
		return DirRight, true
	case tcell.KeyUp:
		return DirUp, true
	case tcell.KeyDown:
		return DirDown, true
	}
	if stroke.IsRune() {
		switch stroke.Rune {
		case 'h':
			return DirLeft, true
		case 'l':
			return DirRight, true
		case 'k':
			return DirUp, true
		case 'j':
			return DirDown, true
		}
	}
	return 0, false
}
