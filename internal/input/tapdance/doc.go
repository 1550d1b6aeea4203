// Package tapdance classifies multi-tap gestures on a single key and runs
// the per-key actions bound to each classification.
//
// A tap dance is a key that means different things depending on how it is
// tapped. The host counts consecutive taps inside the key's tapping term and,
// once the window closes, calls the key's finish handler with what it saw:
//
//   - Count: how many taps landed inside the window
//   - Interrupted: whether another key was pressed before the window closed
//   - Pressed: whether the key is still physically held
//
// Classify turns that into an Outcome (SingleTap, SingleHold, DoubleTap,
// TripleTap, or Unknown for anything else). A Dance looks the Outcome up in its
// Table and performs exactly one Action against an Output. When the key is
// finally released, the host calls Reset, which undoes whatever the finish
// handler registered and returns the session to Unclassified.
//
// # Usage
//
//	dances := tapdance.DefaultSet()
//
//	// Window closed on TD(0) after two quick taps
//	dances.Finished(key.TD(0), tapdance.State{Count: 2}, out)
//
//	// Key released
//	dances.Reset(key.TD(0), out)
//
// Unclassifiable gestures produce no output rather than a wrong one.
package tapdance
