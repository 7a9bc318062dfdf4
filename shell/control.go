// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/control.go
// Summary: Focusable control contract hosted inside widget panes.
// Usage: Widgets build their UI from controls; the focus controller and the
//	focus history address controls by their stable path within the pane.

package shell

import "github.com/gdamore/tcell/v2"

// Control is a focusable (or static) element inside a pane's widget tree.
// Focus flags are mutated only by the focus controller on the UI goroutine;
// HasFocus is the ground truth the engine derives logical focus from.
type Control interface {
	// Path is the stable identifier of the control within its pane. Paths
	// survive re-creation of the widget and are used for persisted focus
	// records.
	Path() string
	// Kind tags the control type for focus records ("textentry", "listbox").
	Kind() string
	Focusable() bool
	HasFocus() bool
	// SetFocused is called by the focus controller only. Widgets must not
	// flip focus flags themselves.
	SetFocused(focused bool)
	// HandleKey lets the control consume a key that reached it. Returns true
	// when the key was consumed.
	HandleKey(ev *tcell.EventKey) bool
}

// TransientState is the editing state captured into a focus record: caret,
// selection and scroll. Controls without a caret leave the unused fields zero.
type TransientState struct {
	CaretOffset     int
	SelectionStart  int
	SelectionLength int
	ScrollOffset    int
}

// StatefulControl is implemented by controls whose transient editing state is
// worth restoring along with focus.
type StatefulControl interface {
	Control
	CaptureState() TransientState
	ApplyState(state TransientState)
}

// TextInputControl marks controls that accept printable text. While such a
// control holds focus, typed keystrokes take precedence over the shortcut
// tables (only the typing whitelist may intercept).
type TextInputControl interface {
	Control
	AcceptsTyping() bool
}

// Label is a static, non-focusable control.
type Label struct {
	path string
	Text string
}

// NewLabel creates a label with the given path and text.
func NewLabel(path, text string) *Label {
	return &Label{path: path, Text: text}
}

func (l *Label) Path() string                    { return l.path }
func (l *Label) Kind() string                    { return "label" }
func (l *Label) Focusable() bool                 { return false }
func (l *Label) HasFocus() bool                  { return false }
func (l *Label) SetFocused(bool)                 {}
func (l *Label) HandleKey(*tcell.EventKey) bool { return false }
