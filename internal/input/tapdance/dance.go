package tapdance

import (
	"errors"
	"fmt"

	"github.com/nbrumont/fly/internal/input/key"
)

// Dance errors.
var (
	// ErrSessionOpen is returned when a finish arrives before the previous
	// gesture on the same key was reset.
	ErrSessionOpen = errors.New("gesture already open")

	// ErrUnknownDance is returned for keycodes with no registered dance.
	ErrUnknownDance = errors.New("unknown tap dance")

	// ErrDuplicateDance is returned when two dances claim the same keycode.
	ErrDuplicateDance = errors.New("duplicate tap dance")

	// ErrNotTapDance is returned when a dance is defined on a non tap-dance keycode.
	ErrNotTapDance = errors.New("keycode is not a tap dance")
)

// Session is the per-key gesture state. It lives from the finish handler
// to the reset handler of one gesture.
type Session struct {
	// Outcome is the classification of the open gesture, or Unclassified.
	Outcome Outcome

	// PressAction is true when the governing action is a press-type action.
	PressAction bool
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{Outcome: Unclassified, PressAction: true}
}

// Open returns true between a finish and its reset.
func (s *Session) Open() bool {
	return s.Outcome != Unclassified
}

// Dance is the immutable definition of one tap-dance key: its keycode and the
// actions bound to each outcome.
type Dance struct {
	// Name identifies the dance in logs.
	Name string

	// Code is the TD() keycode the dance is bound to.
	Code key.Keycode

	// Table binds outcomes to actions.
	Table Table
}

// NewDance creates a dance after validating its keycode and table.
func NewDance(name string, code key.Keycode, table Table) (*Dance, error) {
	if !code.IsTapDance() {
		return nil, fmt.Errorf("%w: %s", ErrNotTapDance, code)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("dance %q: %w", name, err)
	}
	return &Dance{Name: name, Code: code, Table: table}, nil
}

// Finish classifies the closed window, stores the outcome in s and performs
// the bound action's finish half. It refuses to run on an open session.
func (d *Dance) Finish(s *Session, st State, out Output) (Outcome, error) {
	if s.Open() {
		return s.Outcome, fmt.Errorf("%w: %s holds %s", ErrSessionOpen, d.Name, s.Outcome)
	}
	s.Outcome = Classify(st)
	d.Table.For(s.Outcome).finish(out)
	return s.Outcome, nil
}

// Reset performs the reset half of the action bound to the stored outcome
// and clears the session. It returns the outcome that was cleared.
func (d *Dance) Reset(s *Session, out Output) Outcome {
	prev := s.Outcome
	d.Table.For(prev).reset(out)
	s.Outcome = Unclassified
	return prev
}
