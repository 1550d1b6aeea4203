package key

import "fmt"

// Keycode is a 16-bit logical key identity.
//
// The low byte of a basic keycode is a USB HID keyboard usage. Higher ranges
// encode modifier-wrapped keys, dual-role keys and keyboard-specific keys.
type Keycode uint16

// Keycode ranges.
const (
	RangeBasicMax   Keycode = 0x00FF
	RangeMods       Keycode = 0x0100
	RangeModsMax    Keycode = 0x1FFF
	RangeModTap     Keycode = 0x2000
	RangeModTapMax  Keycode = 0x3FFF
	RangeLayerTap   Keycode = 0x4000
	RangeLayerTapMx Keycode = 0x4FFF
	RangeTapDance   Keycode = 0x5700
	RangeTapDanceMx Keycode = 0x57FF
)

const (
	// KeyNo does nothing.
	KeyNo Keycode = 0x0000

	// KeyTransparent falls through to the next lower active layer.
	KeyTransparent Keycode = 0x0001

	// Letters
	KeyA Keycode = 0x04 + iota - 2
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	// Number row
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0

	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeySpace
	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeyNonUSHash
	KeySemicolon
	KeyQuote
	KeyGrave
	KeyComma
	KeyDot
	KeySlash
	KeyCapsLock

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeyPrintScreen
	KeyScrollLock
	KeyPause
	KeyInsert
	KeyHome
	KeyPageUp
	KeyDelete
	KeyEnd
	KeyPageDown
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
)

// Media keys. These are sent on the consumer page, not in the keyboard report.
const (
	KeyAudioMute    Keycode = 0xA8
	KeyAudioVolUp   Keycode = 0xA9
	KeyAudioVolDown Keycode = 0xAA
	KeyMediaNext    Keycode = 0xAB
	KeyMediaPrev    Keycode = 0xAC
	KeyMediaStop    Keycode = 0xAD
	KeyMediaPlay    Keycode = 0xAE
)

// Modifier keys.
const (
	KeyLeftCtrl   Keycode = 0xE0
	KeyLeftShift  Keycode = 0xE1
	KeyLeftAlt    Keycode = 0xE2
	KeyLeftGUI    Keycode = 0xE3
	KeyRightCtrl  Keycode = 0xE4
	KeyRightShift Keycode = 0xE5
	KeyRightAlt   Keycode = 0xE6
	KeyRightGUI   Keycode = 0xE7
)

// Shifted aliases.
const (
	KeyExclaim     = shifted | Key1
	KeyAt          = shifted | Key2
	KeyHash        = shifted | Key3
	KeyDollar      = shifted | Key4
	KeyPercent     = shifted | Key5
	KeyCircumflex  = shifted | Key6
	KeyAmpersand   = shifted | Key7
	KeyAsterisk    = shifted | Key8
	KeyLeftParen   = shifted | Key9
	KeyRightParen  = shifted | Key0
	KeyUnderscore  = shifted | KeyMinus
	KeyPlus        = shifted | KeyEqual
	KeyLeftCurly   = shifted | KeyLeftBracket
	KeyRightCurly  = shifted | KeyRightBracket
	KeyPipe        = shifted | KeyBackslash
	KeyColon       = shifted | KeySemicolon
	KeyDoubleQuote = shifted | KeyQuote
	KeyTilde       = shifted | KeyGrave
)

const shifted = Keycode(ModLShift) << 8

// Firmware keys.
const (
	// KeyBoot jumps to the bootloader.
	KeyBoot Keycode = 0x7C00
)

// Basic returns the basic keycode carried in the low byte.
// For layer-tap and mod-tap keys this is the tap keycode.
func (k Keycode) Basic() Keycode {
	return k & 0x00FF
}

// Mods returns the modifiers encoded in a modified or mod-tap keycode.
func (k Keycode) Mods() Mods {
	switch {
	case k.IsModified():
		return Mods((k >> 8) & 0x1F)
	case k.IsModTap():
		return Mods((k >> 8) & 0x1F)
	default:
		return ModNone
	}
}

// IsBasic returns true for plain HID usages.
func (k Keycode) IsBasic() bool {
	return k <= RangeBasicMax
}

// IsModified returns true for modifier-wrapped keycodes like C(KC_C).
func (k Keycode) IsModified() bool {
	return k >= RangeMods && k <= RangeModsMax
}

// IsModTap returns true for mod-tap keycodes like LCTL_T(KC_SPC).
func (k Keycode) IsModTap() bool {
	return k >= RangeModTap && k <= RangeModTapMax
}

// IsLayerTap returns true for layer-tap keycodes like LT(1, KC_TAB).
func (k Keycode) IsLayerTap() bool {
	return k >= RangeLayerTap && k <= RangeLayerTapMx
}

// IsTapDance returns true for tap-dance keycodes like TD(0).
func (k Keycode) IsTapDance() bool {
	return k >= RangeTapDance && k <= RangeTapDanceMx
}

// IsDualRole returns true for keys that act differently when tapped and held.
func (k Keycode) IsDualRole() bool {
	return k.IsModTap() || k.IsLayerTap()
}

// IsModifierKey returns true for the eight modifier usages.
func (k Keycode) IsModifierKey() bool {
	return k >= KeyLeftCtrl && k <= KeyRightGUI
}

// IsConsumer returns true for media keys sent on the consumer page.
func (k Keycode) IsConsumer() bool {
	return k >= KeyAudioMute && k <= KeyMediaPlay
}

// Layer returns the layer of a layer-tap keycode, or -1.
func (k Keycode) Layer() int {
	if !k.IsLayerTap() {
		return -1
	}
	return int((k >> 8) & 0x0F)
}

// DanceIndex returns the index of a tap-dance keycode, or -1.
func (k Keycode) DanceIndex() int {
	if !k.IsTapDance() {
		return -1
	}
	return int(k & 0x00FF)
}

// ConsumerUsage returns the HID consumer page usage for a media key, or 0.
func (k Keycode) ConsumerUsage() uint16 {
	switch k {
	case KeyAudioMute:
		return 0x00E2
	case KeyAudioVolUp:
		return 0x00E9
	case KeyAudioVolDown:
		return 0x00EA
	case KeyMediaNext:
		return 0x00B5
	case KeyMediaPrev:
		return 0x00B6
	case KeyMediaStop:
		return 0x00B7
	case KeyMediaPlay:
		return 0x00CD
	default:
		return 0
	}
}

// ModifierKeycode returns the modifier key for a single modifier bit,
// honoring the right-hand flag.
func ModifierKeycode(m Mods) Keycode {
	base := KeyLeftCtrl
	if m.IsRight() {
		base = KeyRightCtrl
	}
	switch {
	case m.Has(ModCtrl):
		return base
	case m.Has(ModShift):
		return base + 1
	case m.Has(ModAlt):
		return base + 2
	case m.Has(ModGUI):
		return base + 3
	default:
		return KeyNo
	}
}

// WithMods wraps a basic keycode with modifiers.
func WithMods(m Mods, k Keycode) Keycode {
	m = m | k.Mods()
	if m&modMask == 0 {
		return k.Basic()
	}
	return Keycode(m&0x1F)<<8 | k.Basic()
}

// C wraps k with left Ctrl.
func C(k Keycode) Keycode { return WithMods(ModLCtrl, k) }

// S wraps k with left Shift.
func S(k Keycode) Keycode { return WithMods(ModLShift, k) }

// A wraps k with left Alt.
func A(k Keycode) Keycode { return WithMods(ModLAlt, k) }

// G wraps k with left GUI.
func G(k Keycode) Keycode { return WithMods(ModLGUI, k) }

// RA wraps k with right Alt (AltGr).
func RA(k Keycode) Keycode { return WithMods(ModRAlt, k) }

// MT builds a mod-tap key: tap sends k, hold activates m.
func MT(m Mods, k Keycode) Keycode {
	return RangeModTap | Keycode(m&0x1F)<<8 | k.Basic()
}

// LT builds a layer-tap key: tap sends k, hold activates layer.
func LT(layer int, k Keycode) Keycode {
	return RangeLayerTap | Keycode(layer&0x0F)<<8 | k.Basic()
}

// TD builds a tap-dance key for the dance at index i.
func TD(i int) Keycode {
	return RangeTapDance | Keycode(i&0xFF)
}

// LCtlT is LCTL_T(k).
func LCtlT(k Keycode) Keycode { return MT(ModLCtrl, k) }

// LSftT is LSFT_T(k).
func LSftT(k Keycode) Keycode { return MT(ModLShift, k) }

// LAltT is LALT_T(k).
func LAltT(k Keycode) Keycode { return MT(ModLAlt, k) }

// LGUIT is LGUI_T(k).
func LGUIT(k Keycode) Keycode { return MT(ModLGUI, k) }

// RCtlT is RCTL_T(k).
func RCtlT(k Keycode) Keycode { return MT(ModRCtrl, k) }

// RSftT is RSFT_T(k).
func RSftT(k Keycode) Keycode { return MT(ModRShift, k) }

// RAltT is RALT_T(k).
func RAltT(k Keycode) Keycode { return MT(ModRAlt, k) }

// RGUIT is RGUI_T(k).
func RGUIT(k Keycode) Keycode { return MT(ModRGUI, k) }

// String returns the canonical keymap spelling of the keycode.
// Examples: "KC_A", "C(G(KC_SPC))", "LT(1, KC_TAB)", "LCTL_T(KC_SPC)", "TD(0)"
func (k Keycode) String() string {
	if name, ok := canonicalNames[k]; ok {
		return name
	}

	switch {
	case k.IsBasic():
		return fmt.Sprintf("KC_0x%02X", uint16(k))
	case k.IsModified():
		return wrapMods(k.Mods(), k.Basic().String())
	case k.IsModTap():
		m := k.Mods()
		if name, ok := modTapNames[m]; ok {
			return fmt.Sprintf("%s(%s)", name, k.Basic())
		}
		return fmt.Sprintf("MT(%s, %s)", m.MacroString(), k.Basic())
	case k.IsLayerTap():
		return fmt.Sprintf("LT(%d, %s)", k.Layer(), k.Basic())
	case k.IsTapDance():
		return fmt.Sprintf("TD(%d)", k.DanceIndex())
	default:
		return fmt.Sprintf("0x%04X", uint16(k))
	}
}

// wrapMods nests modifier wrappers around inner, outermost first in
// Ctrl, Shift, Alt, GUI order.
func wrapMods(m Mods, inner string) string {
	wrappers := [...]struct {
		mod         Mods
		left, right string
	}{
		{ModGUI, "G", "RGUI"},
		{ModAlt, "A", "RALT"},
		{ModShift, "S", "RSFT"},
		{ModCtrl, "C", "RCTL"},
	}
	s := inner
	for _, w := range wrappers {
		if !m.Has(w.mod) {
			continue
		}
		name := w.left
		if m.IsRight() {
			name = w.right
		}
		s = name + "(" + s + ")"
	}
	return s
}
