package key

import "strings"

// Mods is a 5-bit modifier set. The four low bits select Ctrl, Shift, Alt
// and GUI; bit 4 marks all of them as right-hand modifiers.
type Mods uint8

const (
	// ModNone indicates no modifiers.
	ModNone Mods = 0

	// ModCtrl indicates the Control key.
	ModCtrl Mods = 1 << (iota - 1)

	// ModShift indicates the Shift key.
	ModShift

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModGUI indicates the GUI key (Cmd on macOS, Win on Windows).
	ModGUI

	// ModRight marks the modifiers as right-hand.
	ModRight
)

// Left and right-hand modifiers.
const (
	ModLCtrl  = ModCtrl
	ModLShift = ModShift
	ModLAlt   = ModAlt
	ModLGUI   = ModGUI
	ModRCtrl  = ModRight | ModCtrl
	ModRShift = ModRight | ModShift
	ModRAlt   = ModRight | ModAlt
	ModRGUI   = ModRight | ModGUI
)

const modMask Mods = ModCtrl | ModShift | ModAlt | ModGUI

// Has returns true if m contains the specified modifier.
func (m Mods) Has(mod Mods) bool {
	return m&mod&modMask != 0
}

// IsRight returns true if the modifiers are right-hand.
func (m Mods) IsRight() bool {
	return m&ModRight != 0
}

// IsEmpty returns true if no modifiers are set.
func (m Mods) IsEmpty() bool {
	return m&modMask == 0
}

// Split returns each modifier of m as its own Mods value, carrying the
// right-hand flag, in Ctrl, Shift, Alt, GUI order.
func (m Mods) Split() []Mods {
	var out []Mods
	for _, mod := range [...]Mods{ModCtrl, ModShift, ModAlt, ModGUI} {
		if m.Has(mod) {
			out = append(out, mod|m&ModRight)
		}
	}
	return out
}

// HIDBits returns the 8-bit modifier byte used in keyboard reports.
// Left modifiers occupy bits 0-3 and right modifiers bits 4-7.
func (m Mods) HIDBits() uint8 {
	bits := uint8(m & modMask)
	if m.IsRight() {
		return bits << 4
	}
	return bits
}

// ModsFromHIDBits converts a report modifier byte back into left and right
// modifier sets.
func ModsFromHIDBits(b uint8) (left, right Mods) {
	left = Mods(b & 0x0F)
	if r := Mods(b >> 4); r != 0 {
		right = r | ModRight
	}
	return left, right
}

// String returns a human-readable representation like "Ctrl+GUI" or "RAlt".
func (m Mods) String() string {
	if m.IsEmpty() {
		return ""
	}

	prefix := ""
	if m.IsRight() {
		prefix = "R"
	}

	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, prefix+"Ctrl")
	}
	if m.Has(ModShift) {
		parts = append(parts, prefix+"Shift")
	}
	if m.Has(ModAlt) {
		parts = append(parts, prefix+"Alt")
	}
	if m.Has(ModGUI) {
		parts = append(parts, prefix+"GUI")
	}
	return strings.Join(parts, "+")
}

// MacroString returns the keymap spelling like "MOD_LCTL|MOD_LGUI".
func (m Mods) MacroString() string {
	if m.IsEmpty() {
		return "0"
	}
	side := "L"
	if m.IsRight() {
		side = "R"
	}
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "MOD_"+side+"CTL")
	}
	if m.Has(ModShift) {
		parts = append(parts, "MOD_"+side+"SFT")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "MOD_"+side+"ALT")
	}
	if m.Has(ModGUI) {
		parts = append(parts, "MOD_"+side+"GUI")
	}
	return strings.Join(parts, "|")
}

// modifierNameMap maps MOD_* names to Mods values.
var modifierNameMap = map[string]Mods{
	"MOD_LCTL": ModLCtrl,
	"MOD_LSFT": ModLShift,
	"MOD_LALT": ModLAlt,
	"MOD_LGUI": ModLGUI,
	"MOD_RCTL": ModRCtrl,
	"MOD_RSFT": ModRShift,
	"MOD_RALT": ModRAlt,
	"MOD_RGUI": ModRGUI,
	"MOD_MEH":  ModLCtrl | ModLShift | ModLAlt,
	"MOD_HYPR": ModLCtrl | ModLShift | ModLAlt | ModLGUI,
}

// ParseMods parses a modifier expression like "MOD_LCTL|MOD_LSFT".
// Unknown names yield ModNone and false.
func ParseMods(s string) (Mods, bool) {
	var result Mods
	for _, part := range strings.Split(s, "|") {
		part = strings.ToUpper(strings.TrimSpace(part))
		mod, ok := modifierNameMap[part]
		if !ok {
			return ModNone, false
		}
		result |= mod
	}
	return result, true
}
