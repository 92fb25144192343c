// Package hotkey defines the key-event source the session consumes. Native
// key capture is an external collaborator; this package ships a line-based
// stand-in for running in a plain terminal.
package hotkey

import (
	"bufio"
	"context"
	"io"
)

// EventKind distinguishes hotkey presses from releases.
type EventKind int

const (
	Press EventKind = iota
	Release
)

type Event struct {
	Kind EventKind
}

// Source delivers hotkey events. The channel closes when the source ends.
type Source interface {
	Events() <-chan Event
}

// StdinSource emulates press-and-hold with line input: each entered line
// toggles between Press and Release.
type StdinSource struct {
	r      io.Reader
	events chan Event
}

func NewStdinSource(r io.Reader) *StdinSource {
	return &StdinSource{r: r, events: make(chan Event)}
}

func (s *StdinSource) Events() <-chan Event {
	return s.events
}

// Run reads lines until EOF or ctx is cancelled, emitting alternating
// Press/Release events. It closes the event channel on return.
func (s *StdinSource) Run(ctx context.Context) {
	defer close(s.events)

	scanner := bufio.NewScanner(s.r)
	pressed := false
	for scanner.Scan() {
		kind := Press
		if pressed {
			kind = Release
		}
		pressed = !pressed

		select {
		case s.events <- Event{Kind: kind}:
		case <-ctx.Done():
			return
		}
	}
}
