// Package scenario runs Lua scripts that type on a virtual keyboard.
//
// A script drives a fresh input handler on a virtual clock that starts at
// Epoch and only moves when the script waits or holds a key. The HID
// reports the handler sends are collected in the Result.
//
// # Script API
//
//	press(p)            press a key
//	release(p)          release a key
//	tap(p [, hold_ms])  press, optionally hold, release
//	wait(ms)            advance the clock, closing expired tapping terms
//	pos(name) -> n      position of a name or base-layer keycode
//	reports() -> {...}  reports sent so far, as strings
//	layer() -> n        highest active layer
//	now() -> ms         virtual time since the start
//
// A key p is a position number (0-35), a position name ("r1c4", "t2"),
// or a keycode on the base layer ("KC_Q", "LT(1, KC_SPC)").
//
// When the script returns, open tapping terms are allowed to expire so a
// trailing tap dance finishes. Held keys stay held.
//
// Example:
//
//	tap("t0")
//	wait(50)
//	tap("t0")
//	-- with a tap dance on t0 this finishes as a double tap when the script ends
//
// Compiled scripts are kept in an LRU cache keyed by name and content.
package scenario
