package key

import (
	"fmt"
	"time"
)

// Position identifies a physical key on the keyboard matrix.
type Position uint8

// Event represents a single key transition.
type Event struct {
	// Pos identifies the physical key.
	Pos Position

	// Pressed is true for a press and false for a release.
	Pressed bool

	// Time is when the transition happened. The host only compares event
	// times with each other, so any monotonic origin works.
	Time time.Time
}

// NewPress creates a press event.
func NewPress(pos Position, at time.Time) Event {
	return Event{Pos: pos, Pressed: true, Time: at}
}

// NewRelease creates a release event.
func NewRelease(pos Position, at time.Time) Event {
	return Event{Pos: pos, Pressed: false, Time: at}
}

// String returns a compact representation like "press@12" or "release@3".
func (e Event) String() string {
	kind := "release"
	if e.Pressed {
		kind = "press"
	}
	return fmt.Sprintf("%s@%d", kind, e.Pos)
}

// Equals returns true if two events are the same transition of the same key.
// Timestamps are not compared.
func (e Event) Equals(other Event) bool {
	return e.Pos == other.Pos && e.Pressed == other.Pressed
}

// TapInfo carries what the host tracked about consecutive taps.
type TapInfo struct {
	// Count is the number of consecutive taps so far.
	Count int

	// Interrupted is true if another key was pressed before the tap resolved.
	Interrupted bool
}

// Record is an event plus its tap information, handed to key handlers.
type Record struct {
	Event Event
	Tap   TapInfo
}

// Elapsed returns the time between two events.
func Elapsed(from, to Event) time.Duration {
	return to.Time.Sub(from.Time)
}
