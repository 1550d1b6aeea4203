package tapdance

import (
	"fmt"
	"sort"

	"github.com/nbrumont/fly/internal/input/key"
)

// Set owns the dances of a keymap and one Session per dance.
//
// Set is not safe for concurrent use; the host delivers events one at a time.
type Set struct {
	dances   map[key.Keycode]*Dance
	sessions map[key.Keycode]*Session
}

// NewSet creates a set holding the given dances.
func NewSet(dances ...*Dance) (*Set, error) {
	s := &Set{
		dances:   make(map[key.Keycode]*Dance),
		sessions: make(map[key.Keycode]*Session),
	}
	for _, d := range dances {
		if err := s.Register(d); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a dance with a fresh session.
func (s *Set) Register(d *Dance) error {
	if _, ok := s.dances[d.Code]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDance, d.Code)
	}
	s.dances[d.Code] = d
	s.sessions[d.Code] = NewSession()
	return nil
}

// Clone returns a set with the same dances and fresh sessions.
func (s *Set) Clone() *Set {
	c := &Set{
		dances:   make(map[key.Keycode]*Dance, len(s.dances)),
		sessions: make(map[key.Keycode]*Session, len(s.dances)),
	}
	for code, d := range s.dances {
		c.dances[code] = d
		c.sessions[code] = NewSession()
	}
	return c
}

// Lookup returns the dance bound to code.
func (s *Set) Lookup(code key.Keycode) (*Dance, bool) {
	d, ok := s.dances[code]
	return d, ok
}

// Session returns a copy of the session for code.
func (s *Set) Session(code key.Keycode) (Session, bool) {
	sess, ok := s.sessions[code]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Codes returns the registered keycodes in ascending order.
func (s *Set) Codes() []key.Keycode {
	codes := make([]key.Keycode, 0, len(s.dances))
	for c := range s.dances {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Len returns the number of dances.
func (s *Set) Len() int {
	return len(s.dances)
}

// Finished runs the finish handler of the dance bound to code.
func (s *Set) Finished(code key.Keycode, st State, out Output) (Outcome, error) {
	d, ok := s.dances[code]
	if !ok {
		return Unclassified, fmt.Errorf("%w: %s", ErrUnknownDance, code)
	}
	return d.Finish(s.sessions[code], st, out)
}

// Reset runs the reset handler of the dance bound to code.
func (s *Set) Reset(code key.Keycode, out Output) (Outcome, error) {
	d, ok := s.dances[code]
	if !ok {
		return Unclassified, fmt.Errorf("%w: %s", ErrUnknownDance, code)
	}
	return d.Reset(s.sessions[code], out), nil
}
