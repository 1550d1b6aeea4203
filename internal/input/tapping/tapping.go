// Package tapping decides how long the host waits before resolving a key
// that behaves differently when tapped and held.
package tapping

import (
	"time"

	"github.com/nbrumont/fly/internal/input/key"
	"github.com/nbrumont/fly/internal/input/tapdance"
)

const (
	// DefaultTerm is the host's global tapping term.
	DefaultTerm = 250 * time.Millisecond

	// QuickTerm is the shorter term used by the overridden keys.
	QuickTerm = 200 * time.Millisecond
)

// TermFunc returns the tapping term for a key. The record is the live input
// record of the key being resolved.
type TermFunc func(code key.Keycode, rec *key.Record) time.Duration

// quickKeys resolve faster than the global default.
var quickKeys = map[key.Keycode]struct{}{
	key.TD(tapdance.CtrlEscSpotlightEmoji): {},
	key.TD(tapdance.AltEscWindowsEmoji):    {},
	key.LGUIT(key.KeySpace):                {},
	key.LT(1, key.KeyTab):                  {},
	key.LT(2, key.KeyEnter):                {},
}

// Policy maps key identities to tapping terms.
type Policy struct {
	// Default is returned for every key without an override.
	Default time.Duration
}

// NewPolicy returns a policy falling back to def. A non-positive def
// selects DefaultTerm.
func NewPolicy(def time.Duration) *Policy {
	if def <= 0 {
		def = DefaultTerm
	}
	return &Policy{Default: def}
}

// Term returns how long the host should wait for a follow-up event on code.
// The record is not consulted.
func (p *Policy) Term(code key.Keycode, _ *key.Record) time.Duration {
	if IsQuick(code) {
		return QuickTerm
	}
	return p.Default
}

// Func returns Term as a TermFunc.
func (p *Policy) Func() TermFunc {
	return p.Term
}

// IsQuick returns true for the keys that use QuickTerm.
func IsQuick(code key.Keycode) bool {
	_, ok := quickKeys[code]
	return ok
}

// QuickKeys returns the overridden keycodes in ascending order.
func QuickKeys() []key.Keycode {
	return []key.Keycode{
		key.LGUIT(key.KeySpace),
		key.LT(1, key.KeyTab),
		key.LT(2, key.KeyEnter),
		key.TD(tapdance.CtrlEscSpotlightEmoji),
		key.TD(tapdance.AltEscWindowsEmoji),
	}
}
