package input

import (
	"time"

	"github.com/nbrumont/fly/internal/input/keymap"
)

// Context is the handler state passed to hooks.
type Context struct {
	// Layers is the set of active layers.
	Layers keymap.LayerMask

	// Now is the time of the event being processed.
	Now time.Time

	// Held is the number of physically held keys.
	Held int

	// Undecided is the number of dual-role keys waiting for a decision.
	Undecided int

	// OpenDances is the number of tap-dance windows still collecting taps.
	OpenDances int
}

// Clone creates a copy of the context.
func (c *Context) Clone() *Context {
	clone := *c
	return &clone
}

// Idle reports whether nothing is held or pending.
func (c *Context) Idle() bool {
	return c.Held == 0 && c.Undecided == 0 && c.OpenDances == 0
}
