// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: widgets/todo.go
// Summary: Todo widget: an input field plus a toggle-able item list.

package widgets

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/latticeshell/lattice/shell"
)

// TodoItem is one entry in the list.
type TodoItem struct {
	Text string
	Done bool
}

// Todo is a simple todo list: type into the input and press Enter to add,
// space on a list row toggles done.
type Todo struct {
	base

	items []TodoItem
	input *shell.TextEntry
	list  *shell.ListBox
}

// NewTodo creates a todo widget with the given initial items.
func NewTodo(items []TodoItem) *Todo {
	t := &Todo{items: items}
	t.input = shell.NewTextEntry("todo/input")
	t.list = shell.NewListBox("todo/items", nil)
	t.input.OnSubmit = func(text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		t.items = append(t.items, TodoItem{Text: text})
		t.input.SetText("")
		t.refresh()
	}
	t.refresh()
	return t
}

func (t *Todo) Title() string { return "Todo" }

func (t *Todo) Controls() []shell.Control {
	return []shell.Control{t.input, t.list}
}

// Items returns the current items.
func (t *Todo) Items() []TodoItem { return t.items }

func (t *Todo) refresh() {
	rows := make([]string, len(t.items))
	for i, item := range t.items {
		mark := "[ ]"
		if item.Done {
			mark = "[x]"
		}
		rows[i] = mark + " " + item.Text
	}
	t.list.SetItems(rows)
}

// HandleKeyPost toggles the selected item on space when the list has
// focus. Runs after the list's own navigation handling.
func (t *Todo) HandleKeyPost(ev *tcell.EventKey) bool {
	if !t.list.HasFocus() {
		return false
	}
	if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
		if i := t.list.Selected(); i >= 0 {
			t.items[i].Done = !t.items[i].Done
			t.refresh()
		}
		return true
	}
	return false
}

func (t *Todo) Render(width, height int) [][]shell.Cell {
	buf := shell.NewBuffer(width, height, styleText)
	drawString(buf, 0, "> "+t.input.View(width-2), styleText)
	start, end := t.list.VisibleRange(height - 1)
	rows := t.list.Items()
	for i := start; i < end; i++ {
		style := styleText
		if t.items[i].Done {
			style = styleDone
		}
		if i == t.list.Selected() && t.list.HasFocus() {
			style = styleSelected
		}
		drawString(buf, 1+i-start, rows[i], style)
	}
	return buf
}
