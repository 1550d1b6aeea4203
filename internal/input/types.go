package input

import (
	"fmt"
	"time"

	"github.com/nbrumont/fly/internal/input/key"
	"github.com/nbrumont/fly/internal/input/tapdance"
)

// ResolutionKind says how a key press was decided.
type ResolutionKind uint8

const (
	// ResolvePress is a plain key registered at press.
	ResolvePress ResolutionKind = iota
	// ResolveTap is a dual-role key released within its tapping term.
	ResolveTap
	// ResolveHold is a dual-role key held past its term or interrupted.
	ResolveHold
	// ResolveDance is a tap-dance gesture that finished.
	ResolveDance
	// ResolveBoot is the bootloader key.
	ResolveBoot
)

// String returns a string representation of the resolution kind.
func (k ResolutionKind) String() string {
	switch k {
	case ResolvePress:
		return "press"
	case ResolveTap:
		return "tap"
	case ResolveHold:
		return "hold"
	case ResolveDance:
		return "dance"
	case ResolveBoot:
		return "boot"
	default:
		return "unknown"
	}
}

// Resolution reports what a key press turned into.
type Resolution struct {
	Kind ResolutionKind

	// Pos is the physical key.
	Pos key.Position

	// Code is the keycode resolved at press.
	Code key.Keycode

	// Outcome is set for ResolveDance.
	Outcome tapdance.Outcome

	// Count and Interrupted describe the gesture for ResolveDance.
	Count       int
	Interrupted bool

	// Gesture identifies a tap-dance gesture across log lines.
	Gesture string

	// Latency is the time from the first press to the decision.
	Latency time.Duration
}

// String returns a compact description like "hold LCTL_T(KC_SPC)" or
// "dance TD(0) double-tap".
func (r Resolution) String() string {
	if r.Kind == ResolveDance {
		return fmt.Sprintf("%s %s %s", r.Kind, r.Code, r.Outcome)
	}
	return fmt.Sprintf("%s %s", r.Kind, r.Code)
}

// heldKind records what a physically held key is doing.
type heldKind uint8

const (
	heldBasic heldKind = iota
	heldUndecided
	heldModTap
	heldLayer
	heldDance
	heldInert
)

// heldKey is a key that is physically down.
type heldKey struct {
	pos       key.Position
	code      key.Keycode
	kind      heldKind
	pressedAt time.Time
	deadline  time.Time
}

// danceWindow is the open tap-dance gesture of one key.
type danceWindow struct {
	code        key.Keycode
	pos         key.Position
	id          string
	count       int
	pressed     bool
	interrupted bool
	finished    bool
	startedAt   time.Time
	deadline    time.Time
}

func (w *danceWindow) state() tapdance.State {
	return tapdance.State{
		Count:       w.count,
		Interrupted: w.interrupted,
		Pressed:     w.pressed,
	}
}

func (w *danceWindow) record(ev key.Event) *key.Record {
	return &key.Record{
		Event: ev,
		Tap: key.TapInfo{
			Count:       w.count,
			Interrupted: w.interrupted,
		},
	}
}
