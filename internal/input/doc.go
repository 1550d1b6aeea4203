// Package input is the keyboard host for a split 36-key layout.
//
// A Handler receives physical key transitions and drives an output (usually
// a report.Reporter) with register and unregister calls, the way keyboard
// firmware does between its matrix scan and its USB endpoint.
//
// # Key Kinds
//
//   - Plain keys register at press and unregister at release. The keycode is
//     resolved against the active layers once, at press.
//   - Dual-role keys (mod-tap and layer-tap) tap their base key when released
//     inside their tapping term. They become a hold when the term elapses or
//     when another key is pressed first.
//   - Tap-dance keys collect taps until their term elapses without a new
//     press, or until a different key interrupts them. The gesture is then
//     classified and handed to the dance's finish handler, and its reset
//     handler runs once the key is up.
//   - QK_BOOT calls Config.OnBootloader.
//
// # Time
//
// The Handler decides keys from event timestamps and Tick alone, so every
// run is reproducible. System wraps a Handler with
// a wall-clock timer for interactive use.
//
// # Usage
//
//	reporter := report.NewReporter(sink)
//	h, err := input.NewHandler(input.DefaultConfig(), keymap.Default(), tapdance.DefaultSet(), reporter)
//	if err != nil {
//	    return err
//	}
//
//	h.HandleKeyEvent(key.NewPress(pos, now))
//	h.Tick(now.Add(300 * time.Millisecond))
package input
