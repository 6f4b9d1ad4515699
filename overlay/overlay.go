// Package overlay is the transient capture surface: a small topmost box that
// takes one line of text and reports what happened. The pipeline only
// depends on the Surface contract; rendering details stay in here.
package overlay

import "overtype/platform"

// EventKind discriminates capture surface notifications.
type EventKind int

const (
	// EventSubmitted carries the trimmed, non-empty line the user entered.
	EventSubmitted EventKind = iota
	// EventVisibility reports the surface showing or hiding on its own.
	// A hide commanded through Hide is not reported, so a submit cannot be
	// shadowed by its own dismissal.
	EventVisibility
)

// Event is one capture surface notification. Both kinds travel on a single
// ordered channel so submit and cancel can never be observed out of order.
type Event struct {
	Kind    EventKind
	Text    string
	Visible bool
}

// Surface is the capture surface contract the coordinator drives.
type Surface interface {
	// ShowAndFocus makes the surface visible with an empty input line and
	// moves keyboard focus into it.
	ShowAndFocus()
	// Hide dismisses the surface without emitting a visibility event.
	Hide()
	// Handle exposes the surface's window for foreground control.
	Handle() platform.Handle
	// Events delivers submissions and visibility changes in order.
	Events() <-chan Event
}
