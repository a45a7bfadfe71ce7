package testutil

import (
	"strings"
	"time"

	"bytemomo/harpoon/internal/domain"
)

// Drain reads events until the channel closes or timeout passes.
func Drain(events <-chan domain.Event, timeout time.Duration) []domain.Event {
	var out []domain.Event
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-deadline:
			return out
		}
	}
}

// Messages returns the messages of events of the given kind.
func Messages(events []domain.Event, kind domain.EventKind) []string {
	var out []string
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev.Message)
		}
	}
	return out
}

// Count returns how many events have the given kind.
func Count(events []domain.Event, kind domain.EventKind) int {
	return len(Messages(events, kind))
}

// HasMessage reports whether any event message contains substr.
func HasMessage(events []domain.Event, substr string) bool {
	for _, ev := range events {
		if strings.Contains(ev.Message, substr) {
			return true
		}
	}
	return false
}
