// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/dispatcher.go
// Summary: Broadcasts app state changes to interested listeners.
// Usage: The shell app publishes mode and directory updates; the status bar listens.

package texel

import "sync"

// EventType defines the type of an event.
type EventType int

const (
	EventStateUpdate EventType = iota
)

// Event represents a message passed through the system.
// It has a type and can carry an arbitrary data payload.
type Event struct {
	Type    EventType
	Payload interface{}
}

// Mode is the input mode of the shell. It is a closed set; renderers switch on
// it exhaustively.
type Mode int

const (
	ModeNormal Mode = iota
	ModeNavigation
	ModeShortcut
)

// String returns the short label shown in the status bar.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeNavigation:
		return "NAV"
	case ModeShortcut:
		return "GOTO"
	default:
		return "?"
	}
}

// StatePayload is the data associated with EventStateUpdate.
type StatePayload struct {
	Mode       Mode
	CurrentDir string
	Title      string
	Running    bool
	Detail     string // mode-specific hint, e.g. the selected directory
}

// Listener is an interface that any component can implement to receive events.
type Listener interface {
	// OnEvent is the callback method for receiving events.
	OnEvent(event Event)
}

// EventDispatcher manages a list of listeners and broadcasts events to them.
type EventDispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewEventDispatcher creates a new dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		listeners: make([]Listener, 0),
	}
}

// Subscribe adds a new listener to receive events.
func (d *EventDispatcher) Subscribe(listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, listener)
}

// Unsubscribe removes a listener.
func (d *EventDispatcher) Unsubscribe(listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, l := range d.listeners {
		if l == listener {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			break
		}
	}
}

// Broadcast sends an event to all subscribed listeners.
func (d *EventDispatcher) Broadcast(event Event) {
	d.mu.RLock()
	listeners := make([]Listener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.RUnlock()

	for _, l := range listeners {
		l.OnEvent(event)
	}
}
