// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/textentry.go
// Summary: Single-line text entry control with caret, selection, and scroll.

package shell

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// TextEntry is a single-line editable field. It owns a caret position, an
// optional selection, and a horizontal scroll offset; all three are captured
// into focus records so restoring focus lands the user exactly where they
// left off.
type TextEntry struct {
	path     string
	focused  bool
	readonly bool

	content  []rune
	caret    int
	selStart int
	selLen   int
	scroll   int

	// OnSubmit fires when Enter is pressed inside the field.
	OnSubmit func(text string)
	// OnChange fires after every content mutation.
	OnChange func(text string)
}

// NewTextEntry creates an empty text entry with the given path.
func NewTextEntry(path string) *TextEntry {
	return &TextEntry{path: path}
}

func (t *TextEntry) Path() string    { return t.path }
func (t *TextEntry) Kind() string    { return "textentry" }
func (t *TextEntry) Focusable() bool { return true }
func (t *TextEntry) HasFocus() bool  { return t.focused }

func (t *TextEntry) SetFocused(focused bool) {
	t.focused = focused
}

// AcceptsTyping implements TextInputControl.
func (t *TextEntry) AcceptsTyping() bool { return !t.readonly }

// SetReadOnly toggles edit protection; a readonly entry still takes focus.
func (t *TextEntry) SetReadOnly(readonly bool) { t.readonly = readonly }

// Text returns the current content.
func (t *TextEntry) Text() string { return string(t.content) }

// SetText replaces the content and clamps caret and scroll.
func (t *TextEntry) SetText(s string) {
	t.content = []rune(s)
	t.clearSelection()
	t.clamp()
	t.changed()
}

// Caret returns the current caret offset in runes.
func (t *TextEntry) Caret() int { return t.caret }

// Selection returns the selection start and length.
func (t *TextEntry) Selection() (start, length int) { return t.selStart, t.selLen }

// CaptureState implements StatefulControl.
func (t *TextEntry) CaptureState() TransientState {
	return TransientState{
		CaretOffset:     t.caret,
		SelectionStart:  t.selStart,
		SelectionLength: t.selLen,
		ScrollOffset:    t.scroll,
	}
}

// ApplyState implements StatefulControl. Out-of-range offsets are clamped
// rather than rejected since the content may have changed since capture.
func (t *TextEntry) ApplyState(state TransientState) {
	t.caret = state.CaretOffset
	t.selStart = state.SelectionStart
	t.selLen = state.SelectionLength
	t.scroll = state.ScrollOffset
	t.clamp()
}

func (t *TextEntry) clamp() {
	if t.caret < 0 {
		t.caret = 0
	}
	if t.caret > len(t.content) {
		t.caret = len(t.content)
	}
	if t.selStart < 0 || t.selStart > len(t.content) {
		t.clearSelection()
	} else if t.selStart+t.selLen > len(t.content) {
		t.selLen = len(t.content) - t.selStart
	}
	if t.scroll < 0 {
		t.scroll = 0
	}
	if t.scroll > len(t.content) {
		t.scroll = len(t.content)
	}
}

func (t *TextEntry) clearSelection() {
	t.selStart, t.selLen = 0, 0
}

func (t *TextEntry) changed() {
	if t.OnChange != nil {
		t.OnChange(string(t.content))
	}
}

// deleteSelection removes the selected range, if any, and returns whether a
// deletion happened.
func (t *TextEntry) deleteSelection() bool {
	if t.selLen == 0 {
		return false
	}
	t.content = append(t.content[:t.selStart], t.content[t.selStart+t.selLen:]...)
	t.caret = t.selStart
	t.clearSelection()
	return true
}

// InsertRune inserts a rune at the caret, replacing any selection.
func (t *TextEntry) InsertRune(r rune) {
	if t.readonly {
		return
	}
	t.deleteSelection()
	t.content = append(t.content[:t.caret], append([]rune{r}, t.content[t.caret:]...)...)
	t.caret++
	t.changed()
}

// SelectAll selects the whole content.
func (t *TextEntry) SelectAll() {
	t.selStart = 0
	t.selLen = len(t.content)
	t.caret = len(t.content)
}

// SelectedText returns the selected range, or the empty string.
func (t *TextEntry) SelectedText() string {
	if t.selLen == 0 {
		return ""
	}
	return string(t.content[t.selStart : t.selStart+t.selLen])
}

// DeleteSelection removes the selected text; used by cut.
func (t *TextEntry) DeleteSelection() {
	if t.readonly {
		return
	}
	if t.deleteSelection() {
		t.changed()
	}
}

// InsertText inserts a string at the caret, replacing any selection.
func (t *TextEntry) InsertText(s string) {
	if t.readonly || s == "" {
		return
	}
	t.deleteSelection()
	runes := []rune(s)
	t.content = append(t.content[:t.caret], append(runes, t.content[t.caret:]...)...)
	t.caret += len(runes)
	t.changed()
}

// HandleKey consumes editing and caret navigation keys.
func (t *TextEntry) HandleKey(ev *tcell.EventKey) bool {
	if ev == nil {
		return false
	}
	stroke := StrokeFromEvent(ev)

	if stroke.IsRune() {
		t.InsertRune(ev.Rune())
		return true
	}

	switch stroke.Key {
	case tcell.KeyLeft:
		t.clearSelection()
		if t.caret > 0 {
			t.caret--
		}
		return true
	case tcell.KeyRight:
		t.clearSelection()
		if t.caret < len(t.content) {
			t.caret++
		}
		return true
	case tcell.KeyHome:
		t.clearSelection()
		t.caret = 0
		t.scroll = 0
		return true
	case tcell.KeyEnd:
		t.clearSelection()
		t.caret = len(t.content)
		return true
	case tcell.KeyBackspace2:
		if t.readonly {
			return true
		}
		if t.deleteSelection() {
			t.changed()
			return true
		}
		if t.caret > 0 {
			t.content = append(t.content[:t.caret-1], t.content[t.caret:]...)
			t.caret--
			t.changed()
		}
		return true
	case tcell.KeyDelete:
		if t.readonly {
			return true
		}
		if t.deleteSelection() {
			t.changed()
			return true
		}
		if t.caret < len(t.content) {
			t.content = append(t.content[:t.caret], t.content[t.caret+1:]...)
			t.changed()
		}
		return true
	case tcell.KeyEnter:
		if t.OnSubmit != nil {
			t.OnSubmit(string(t.content))
		}
		return true
	}
	return false
}

// View renders the visible slice of content for the given cell width,
// adjusting the scroll offset so the caret stays visible.
func (t *TextEntry) View(width int) string {
	if width <= 0 {
		return ""
	}
	if t.caret < t.scroll {
		t.scroll = t.caret
	}
	for runewidth.StringWidth(string(t.content[t.scroll:t.caret])) >= width {
		t.scroll++
	}
	visible := t.content[t.scroll:]
	out := make([]rune, 0, len(visible))
	used := 0
	for _, r := range visible {
		w := runewidth.RuneWidth(r)
		if used+w > width {
			break
		}
		out = append(out, r)
		used += w
	}
	return string(out)
}
