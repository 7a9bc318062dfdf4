// Copyright © 2025 Lattice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/dispatcher.go
// Summary: Typed event bus used by the engine to notify status consumers.
// Usage: Components subscribe for focus, modal, and workspace changes; the
//	returned Subscription guard unsubscribes when closed.

package shell

import (
	"sync"

	"github.com/google/uuid"
)

// EventType defines the type of an event.
type EventType int

const (
	// Focus events
	EventFocusChanged EventType = iota
	// Pane events
	EventPaneAttached
	EventPaneClosed
	// Modal events
	EventModalShown
	EventModalHidden
	// Workspace/global events
	EventWorkspaceSwitched
	EventModeChanged
	EventStateUpdate
)

// Event represents a message passed through the system.
type Event struct {
	Type    EventType
	Payload interface{}
}

// StatePayload is the data associated with an EventStateUpdate broadcast.
type StatePayload struct {
	AllWorkspaces []int
	WorkspaceID   int
	Mode          Mode
	FocusedPane   uuid.UUID
	FocusedTitle  string
	ModalDepth    int
}

func (s StatePayload) equal(other StatePayload) bool {
	if s.WorkspaceID != other.WorkspaceID || s.Mode != other.Mode {
		return false
	}
	if s.FocusedPane != other.FocusedPane || s.FocusedTitle != other.FocusedTitle {
		return false
	}
	if s.ModalDepth != other.ModalDepth {
		return false
	}
	if len(s.AllWorkspaces) != len(other.AllWorkspaces) {
		return false
	}
	for i, id := range s.AllWorkspaces {
		if id != other.AllWorkspaces[i] {
			return false
		}
	}
	return true
}

// Listener is an interface that any component can implement to receive events.
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(event Event)

func (f ListenerFunc) OnEvent(event Event) { f(event) }

// Subscription is the guard returned by Subscribe. Closing it removes the
// listener; the zero value is inert. Tie its lifetime to the subscriber so
// listeners never outlive the component that registered them.
type Subscription struct {
	dispatcher *EventDispatcher
	id         uint64
	once       sync.Once
}

// Close unregisters the listener. Safe to call more than once.
func (s *Subscription) Close() {
	if s == nil || s.dispatcher == nil {
		return
	}
	s.once.Do(func() {
		s.dispatcher.remove(s.id)
	})
}

type subscriber struct {
	id       uint64
	listener Listener
}

// EventDispatcher manages a list of listeners and broadcasts events to them.
type EventDispatcher struct {
	mu          sync.RWMutex
	subscribers []subscriber
	nextID      uint64
}

// NewEventDispatcher creates a new dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{}
}

// Subscribe adds a listener and returns the guard that removes it again.
func (d *EventDispatcher) Subscribe(listener Listener) *Subscription {
	if listener == nil {
		return &Subscription{}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.subscribers = append(d.subscribers, subscriber{id: id, listener: listener})
	return &Subscription{dispatcher: d, id: id}
}

func (d *EventDispatcher) remove(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, sub := range d.subscribers {
		if sub.id == id {
			d.subscribers = append(d.subscribers[:i], d.subscribers[i+1:]...)
			return
		}
	}
}

// Broadcast sends an event to all subscribed listeners. The subscriber list
// is copied first so a listener may subscribe or unsubscribe mid-broadcast.
func (d *EventDispatcher) Broadcast(event Event) {
	d.mu.RLock()
	subs := append([]subscriber(nil), d.subscribers...)
	d.mu.RUnlock()
	for _, sub := range subs {
		sub.listener.OnEvent(event)
	}
}

// Len reports the current number of subscribers. Used by tests and the
// palette to display bus health.
func (d *EventDispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers)
}
