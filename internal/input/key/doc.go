// Package key provides keycode, modifier and key event types for the keymap.
//
// This package defines the fundamental types for representing keyboard input
// and output on the fly keyboard:
//
//   - Keycode: A 16-bit logical key identity (basic HID usages, modified keys,
//     mod-tap and layer-tap dual-role keys, tap-dance keys, firmware keys)
//   - Mods: A 5-bit modifier set (Ctrl, Shift, Alt, GUI, with a right-hand flag)
//   - Event: A press or release of a physical key position with a timestamp
//   - Record: An event plus the tap information the host tracked for it
//
// # Keycode Specifications
//
// Keycodes are written the way keymap tables write them:
//
//   - Basic keys: "KC_A", "KC_ESC", "KC_SPC", "KC_ENTER"
//   - Modified keys: "C(KC_C)", "C(G(KC_SPC))", "LSFT(KC_1)", "KC_EXLM"
//   - Dual-role keys: "LT(1, KC_TAB)", "LCTL_T(KC_SPC)", "MT(MOD_LCTL|MOD_LSFT, KC_A)"
//   - Tap dance: "TD(0)"
//   - Firmware: "QK_BOOT", "KC_TRNS", "KC_NO"
//
// Parse and Keycode.String round-trip through the canonical spelling.
package key
