// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/shell_test.go
// Summary: Shared test stubs: fake widget and stub screen driver.

package shell

import (
	"github.com/gdamore/tcell/v2"
)

// fakeWidget is a minimal widget whose control tree and hook outcomes are
// set directly by tests.
type fakeWidget struct {
	title    string
	controls []Control

	initErr     error
	preHandles  func(ev *tcell.EventKey) bool
	postHandles func(ev *tcell.EventKey) bool

	initialized bool
	disposed    int
	gained      int
	lost        int
	preKeys     []*tcell.EventKey
	postKeys    []*tcell.EventKey

	onDispose func()
	onGain    func()
}

func newFakeWidget(title string) *fakeWidget {
	return &fakeWidget{title: title}
}

func (w *fakeWidget) Title() string { return w.title }

func (w *fakeWidget) Initialize() error {
	w.initialized = true
	return w.initErr
}

func (w *fakeWidget) Controls() []Control { return w.controls }

func (w *fakeWidget) Render(width, height int) [][]Cell {
	return NewBuffer(width, height, tcell.StyleDefault)
}

func (w *fakeWidget) HandleKeyPre(ev *tcell.EventKey) bool {
	w.preKeys = append(w.preKeys, ev)
	if w.preHandles != nil {
		return w.preHandles(ev)
	}
	return false
}

func (w *fakeWidget) HandleKeyPost(ev *tcell.EventKey) bool {
	w.postKeys = append(w.postKeys, ev)
	if w.postHandles != nil {
		return w.postHandles(ev)
	}
	return false
}

func (w *fakeWidget) OnPaneGainedFocus() {
	w.gained++
	if w.onGain != nil {
		w.onGain()
	}
}
func (w *fakeWidget) OnPaneLostFocus() { w.lost++ }

func (w *fakeWidget) Dispose() {
	w.disposed++
	if w.onDispose != nil {
		w.onDispose()
	}
}

// stubDriver satisfies ScreenDriver without a terminal.
type stubDriver struct {
	width, height int
	finished      bool
	shows         int
	events        chan tcell.Event
}

func newStubDriver() *stubDriver {
	return &stubDriver{width: 80, height: 24, events: make(chan tcell.Event, 16)}
}

func (d *stubDriver) Init() error                { return nil }
func (d *stubDriver) Fini()                      { d.finished = true }
func (d *stubDriver) Size() (int, int)           { return d.width, d.height }
func (d *stubDriver) SetStyle(style tcell.Style) {}
func (d *stubDriver) HideCursor()                {}
func (d *stubDriver) ShowCursor(x, y int)        {}
func (d *stubDriver) Show()                      { d.shows++ }
func (d *stubDriver) PollEvent() tcell.Event     { return <-d.events }
func (d *stubDriver) PostEvent(ev tcell.Event) error {
	d.events <- ev
	return nil
}
func (d *stubDriver) SetContent(x, y int, ch rune, comb []rune, style tcell.Style) {
}

// keyEvent builds a tcell key event from a parsed stroke name.
func keyEvent(name string) *tcell.EventKey {
	ks := MustParseKeyStroke(name)
	key := ks.Key
	r := ks.Rune
	if ks.Key == tcell.KeyRune && ks.Mod&tcell.ModCtrl != 0 {
		// tcell delivers ctrl+letter as a control key code.
		if r >= 'a' && r <= 'z' {
			key = tcell.KeyCtrlA + tcell.Key(r-'a')
			return tcell.NewEventKey(key, rune(key), ks.Mod)
		}
	}
	return tcell.NewEventKey(key, r, ks.Mod)
}

// runeEvent builds a plain typed-character event.
func runeEvent(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}
