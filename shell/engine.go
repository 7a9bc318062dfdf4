// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/engine.go
// Summary: The shell engine: event loop, workspaces, deferred-op drain,
//          and the wiring between dispatch, focus, and persistence.
// Usage: Build with NewEngine, add widgets through Lifecycle(), then Run.
//        All engine state is owned by the event loop goroutine; external
//        goroutines talk to it by posting events.

package shell

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
)

// Engine owns the event loop and every subsystem of the shell.
type Engine struct {
	driver   ScreenDriver
	renderer *Renderer

	workspaces map[int]*Workspace
	active     int
	snapshots  map[int]FocusSnapshot

	registry  *ShortcutRegistry
	history   *FocusHistory
	focus     *FocusController
	gate      *ModalGate
	input     *InputDispatcher
	lifecycle *PaneLifecycle
	events    *EventDispatcher
	store     SnapshotSink

	deferredMu sync.Mutex
	deferred   []func()

	clipboard string
	quit      chan struct{}
	quitOnce  sync.Once
	lastState StatePayload
}

// quitEvent unblocks PollEvent during shutdown.
type quitEvent struct{ tcell.EventTime }

// NewEngine builds an engine over driver. store may be nil, disabling
// cross-run snapshot persistence.
func NewEngine(driver ScreenDriver, store SnapshotSink) *Engine {
	e := &Engine{
		driver:     driver,
		renderer:   NewRenderer(driver),
		workspaces: map[int]*Workspace{1: NewWorkspace(1)},
		active:     1,
		snapshots:  make(map[int]FocusSnapshot),
		registry:   NewShortcutRegistry(),
		history:    NewFocusHistory(),
		events:     NewEventDispatcher(),
		store:      store,
		quit:       make(chan struct{}),
	}
	e.focus = NewFocusController(e.Defer, e.paneByID, e.focusedPane, e.history, e.events)
	e.gate = NewModalGate(e.activeWorkspace, e.registry, e.history, e.events, e.focus.FocusPane)
	e.input = NewInputDispatcher(e.registry, e.gate, e.events, e.focusedPane, e.moveFocusedPane, MustParseKeyStroke("ctrl+b"))
	e.lifecycle = NewPaneLifecycle(e.activeWorkspace, e.registry, e.history, e.focus, e.events)
	return e
}

// Accessors for the subsystems callers wire widgets and config into.
func (e *Engine) Registry() *ShortcutRegistry { return e.registry }
func (e *Engine) Lifecycle() *PaneLifecycle   { return e.lifecycle }
func (e *Engine) Gate() *ModalGate            { return e.gate }
func (e *Engine) Focus() *FocusController     { return e.focus }
func (e *Engine) Events() *EventDispatcher    { return e.events }
func (e *Engine) Input() *InputDispatcher     { return e.input }

// Clipboard returns the shell-internal clipboard content.
func (e *Engine) Clipboard() string { return e.clipboard }

// SetClipboard replaces the shell-internal clipboard content.
func (e *Engine) SetClipboard(s string) { e.clipboard = s }

// CopySelection copies the focused text field's selection to the clipboard.
// No focused text field or an empty selection leaves the clipboard alone.
func (e *Engine) CopySelection() {
	entry := e.focusedTextEntry()
	if entry == nil {
		return
	}
	if sel := entry.SelectedText(); sel != "" {
		e.clipboard = sel
	}
}

// CutSelection copies the selection to the clipboard and removes it.
func (e *Engine) CutSelection() {
	entry := e.focusedTextEntry()
	if entry == nil {
		return
	}
	if sel := entry.SelectedText(); sel != "" {
		e.clipboard = sel
		entry.DeleteSelection()
	}
}

// PasteClipboard inserts the clipboard content at the focused text
// field's caret, replacing any active selection.
func (e *Engine) PasteClipboard() {
	entry := e.focusedTextEntry()
	if entry == nil || e.clipboard == "" {
		return
	}
	entry.InsertText(e.clipboard)
}

func (e *Engine) focusedTextEntry() *TextEntry {
	pane := e.focusedPane()
	if pane == nil {
		return nil
	}
	entry, ok := pane.FocusedControl().(*TextEntry)
	if !ok || !entry.AcceptsTyping() {
		return nil
	}
	return entry
}

func (e *Engine) activeWorkspace() *Workspace {
	return e.workspaces[e.active]
}

// ActiveWorkspaceID returns the number of the workspace on screen.
func (e *Engine) ActiveWorkspaceID() int { return e.active }

// FocusedPane returns the pane currently holding logical focus, nil when
// none does.
func (e *Engine) FocusedPane() *Pane { return e.focusedPane() }

// focusedPane finds the pane holding focus: the top overlay when a modal
// is up, otherwise a scan of the active workspace.
func (e *Engine) focusedPane() *Pane {
	if top := e.gate.Top(); top != nil {
		return top
	}
	return e.activeWorkspace().FocusedPane()
}

// paneByID resolves an id in the active workspace or the overlay stack.
func (e *Engine) paneByID(id uuid.UUID) *Pane {
	if p := e.activeWorkspace().PaneByID(id); p != nil {
		return p
	}
	return e.gate.PaneByID(id)
}

func (e *Engine) moveFocusedPane(dir Direction) bool {
	ws := e.activeWorkspace()
	p := ws.FocusedPane()
	if p == nil {
		return false
	}
	return ws.MovePane(p.ID(), dir)
}

// Defer schedules op for the drain point after the current event. The
// engine is ready for the next key only once the queue is empty.
func (e *Engine) Defer(op func()) {
	e.deferredMu.Lock()
	e.deferred = append(e.deferred, op)
	e.deferredMu.Unlock()
}

// flushDeferred drains the queue, including ops queued by ops.
func (e *Engine) flushDeferred() {
	for {
		e.deferredMu.Lock()
		ops := e.deferred
		e.deferred = nil
		e.deferredMu.Unlock()
		if len(ops) == 0 {
			return
		}
		for _, op := range ops {
			op()
		}
	}
}

// SwitchToWorkspace captures the current workspace's focus snapshot, then
// moves to n and replays its snapshot. Creating n on first visit. A switch
// to the active workspace is a no-op.
func (e *Engine) SwitchToWorkspace(n int) {
	if n == e.active || n < 1 {
		return
	}
	if e.gate.Active() {
		log.Printf("Engine: workspace switch blocked while a modal is up")
		return
	}
	cur := e.activeWorkspace()
	snap := CaptureSnapshot(cur, e.history)
	e.snapshots[e.active] = snap
	if e.store != nil {
		if err := e.store.SaveSnapshot(e.active, snap); err != nil {
			log.Printf("Engine: persisting snapshot for workspace %d: %v", e.active, err)
		}
	}
	if p := cur.FocusedPane(); p != nil {
		e.history.RecordFocus(p)
		p.ClearFocus()
		if w := p.Widget(); w != nil {
			w.OnPaneLostFocus()
		}
	}

	target, ok := e.workspaces[n]
	if !ok {
		target = NewWorkspace(n)
		e.workspaces[n] = target
	}
	e.active = n

	restored, haveSnap := e.snapshots[n]
	if !haveSnap && e.store != nil {
		var err error
		restored, haveSnap, err = e.store.LoadSnapshot(n)
		if err != nil {
			log.Printf("Engine: loading snapshot for workspace %d: %v", n, err)
		}
	}
	if haveSnap {
		ApplySnapshot(target, restored, e.history)
	} else if panes := target.Panes(); len(panes) > 0 {
		e.history.Restore(panes[0])
	}
	if p := target.FocusedPane(); p != nil {
		if w := p.Widget(); w != nil {
			w.OnPaneGainedFocus()
		}
	}
	e.events.Broadcast(Event{Type: EventWorkspaceSwitched, Payload: n})
}

// Run enters the event loop and blocks until Stop or a driver failure.
func (e *Engine) Run() error {
	if err := e.driver.Init(); err != nil {
		return fmt.Errorf("engine: init screen: %w", err)
	}
	defer e.driver.Fini()

	e.render()
	for {
		select {
		case <-e.quit:
			return nil
		default:
		}

		ev := e.driver.PollEvent()
		switch ev := ev.(type) {
		case *quitEvent:
			return nil
		case *tcell.EventKey:
			e.HandleKey(ev)
		case *tcell.EventResize:
			e.flushDeferred()
			e.render()
		case nil:
			return nil
		}
	}
}

// HandleKey runs one key through dispatch, drains deferred work, and
// repaints. Exposed for tests and for drivers that feed synthetic input.
func (e *Engine) HandleKey(ev *tcell.EventKey) DispatchResult {
	res := e.input.Dispatch(ev)
	e.flushDeferred()
	e.render()
	e.publishState()
	return res
}

func (e *Engine) render() {
	e.renderer.Render(e.activeWorkspace(), e.gate.Top())
}

// publishState broadcasts a status update when anything observable moved.
func (e *Engine) publishState() {
	var focusedID uuid.UUID
	var focusedTitle string
	if p := e.focusedPane(); p != nil {
		focusedID = p.ID()
		focusedTitle = p.Title()
	}
	ids := make([]int, 0, len(e.workspaces))
	for id := range e.workspaces {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	st := StatePayload{
		AllWorkspaces: ids,
		WorkspaceID:   e.active,
		Mode:          e.input.Mode(),
		FocusedPane:   focusedID,
		FocusedTitle:  focusedTitle,
		ModalDepth:    e.gate.Depth(),
	}
	if st.equal(e.lastState) {
		return
	}
	e.lastState = st
	e.events.Broadcast(Event{Type: EventStateUpdate, Payload: st})
}

// Stop shuts the event loop down. Safe to call from any goroutine and
// more than once.
func (e *Engine) Stop() {
	e.quitOnce.Do(func() {
		close(e.quit)
		qe := &quitEvent{}
		qe.SetEventNow()
		e.driver.PostEvent(qe)
	})
}

// SaveAllSnapshots persists the current focus snapshot of every visited
// workspace, called at shutdown.
func (e *Engine) SaveAllSnapshots() {
	if e.store == nil {
		return
	}
	e.snapshots[e.active] = CaptureSnapshot(e.activeWorkspace(), e.history)
	for id, snap := range e.snapshots {
		if err := e.store.SaveSnapshot(id, snap); err != nil {
			log.Printf("Engine: persisting snapshot for workspace %d: %v", id, err)
		}
	}
}
