package tapdance

import (
	"errors"
	"fmt"
)

// ErrUnboundOutcome is returned when a table leaves an outcome without an action.
var ErrUnboundOutcome = errors.New("outcome has no action")

// Table binds every Outcome to an Action. Use Noop for outcomes that should
// produce no output; a nil entry is a configuration error.
type Table struct {
	Unclassified Action
	Unknown      Action
	SingleHold   Action
	SingleTap    Action
	DoubleTap    Action
	TripleTap    Action
}

// For returns the action bound to o. Out-of-range outcomes map to Noop.
func (t *Table) For(o Outcome) Action {
	if a := t.entry(o); a != nil {
		return a
	}
	return Noop{}
}

// Validate checks that all six outcomes are bound.
func (t *Table) Validate() error {
	for _, o := range Outcomes() {
		if t.entry(o) == nil {
			return fmt.Errorf("%w: %s", ErrUnboundOutcome, o)
		}
	}
	return nil
}

func (t *Table) entry(o Outcome) Action {
	switch o {
	case Unclassified:
		return t.Unclassified
	case Unknown:
		return t.Unknown
	case SingleHold:
		return t.SingleHold
	case SingleTap:
		return t.SingleTap
	case DoubleTap:
		return t.DoubleTap
	case TripleTap:
		return t.TripleTap
	default:
		return nil
	}
}
