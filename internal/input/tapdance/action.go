package tapdance

import (
	"fmt"

	"github.com/nbrumont/fly/internal/input/key"
)

// Output is the set of key-output primitives the host provides.
type Output interface {
	// TapCode presses and releases code as one atomic event. Modifier-wrapped
	// codes like C(G(KC_SPC)) are sent as a chord.
	TapCode(code key.Keycode)

	// RegisterCode begins a sustained press of code.
	RegisterCode(code key.Keycode)

	// UnregisterCode ends a sustained press of code. Ending a press that is
	// not active produces no output.
	UnregisterCode(code key.Keycode)
}

// Action is what a dance does for one Outcome. The finish half runs when the
// window closes and the reset half runs when the key is released.
//
// The set of actions is closed: Noop, Tap, Chord and Hold.
type Action interface {
	finish(out Output)
	reset(out Output)
	String() string
}

// Noop does nothing at finish or reset.
type Noop struct{}

func (Noop) finish(Output) {}
func (Noop) reset(Output)  {}

func (Noop) String() string { return "noop" }

// Tap taps Code at finish and ends any press of Code at reset.
type Tap struct {
	Code key.Keycode
}

func (a Tap) finish(out Output) { out.TapCode(a.Code) }
func (a Tap) reset(out Output)  { out.UnregisterCode(a.Code) }

func (a Tap) String() string { return fmt.Sprintf("tap %s", a.Code) }

// Chord taps Code at finish as a single atomic event. Reset does nothing.
type Chord struct {
	Code key.Keycode
}

func (a Chord) finish(out Output) { out.TapCode(a.Code) }
func (Chord) reset(Output)        {}

func (a Chord) String() string { return fmt.Sprintf("chord %s", a.Code) }

// Hold registers Code at finish and unregisters it at reset.
type Hold struct {
	Code key.Keycode
}

func (a Hold) finish(out Output) { out.RegisterCode(a.Code) }
func (a Hold) reset(out Output)  { out.UnregisterCode(a.Code) }

func (a Hold) String() string { return fmt.Sprintf("hold %s", a.Code) }
