package key

import "fmt"

// keyNames lists every named keycode. The first name is canonical; the rest
// are accepted aliases.
var keyNames = []struct {
	code  Keycode
	names []string
}{
	{KeyNo, []string{"KC_NO", "XXXXXXX"}},
	{KeyTransparent, []string{"KC_TRNS", "KC_TRANSPARENT", "_______"}},
	{KeyEnter, []string{"KC_ENT", "KC_ENTER"}},
	{KeyEscape, []string{"KC_ESC", "KC_ESCAPE"}},
	{KeyBackspace, []string{"KC_BSPC", "KC_BACKSPACE"}},
	{KeyTab, []string{"KC_TAB"}},
	{KeySpace, []string{"KC_SPC", "KC_SPACE"}},
	{KeyMinus, []string{"KC_MINS", "KC_MINUS"}},
	{KeyEqual, []string{"KC_EQL", "KC_EQUAL"}},
	{KeyLeftBracket, []string{"KC_LBRC", "KC_LEFT_BRACKET"}},
	{KeyRightBracket, []string{"KC_RBRC", "KC_RIGHT_BRACKET"}},
	{KeyBackslash, []string{"KC_BSLS", "KC_BACKSLASH"}},
	{KeyNonUSHash, []string{"KC_NUHS", "KC_NONUS_HASH"}},
	{KeySemicolon, []string{"KC_SCLN", "KC_SEMICOLON"}},
	{KeyQuote, []string{"KC_QUOT", "KC_QUOTE"}},
	{KeyGrave, []string{"KC_GRV", "KC_GRAVE"}},
	{KeyComma, []string{"KC_COMM", "KC_COMMA"}},
	{KeyDot, []string{"KC_DOT"}},
	{KeySlash, []string{"KC_SLSH", "KC_SLASH"}},
	{KeyCapsLock, []string{"KC_CAPS", "KC_CAPS_LOCK"}},
	{KeyPrintScreen, []string{"KC_PSCR", "KC_PRINT_SCREEN"}},
	{KeyScrollLock, []string{"KC_SCRL", "KC_SCROLL_LOCK"}},
	{KeyPause, []string{"KC_PAUS", "KC_PAUSE"}},
	{KeyInsert, []string{"KC_INS", "KC_INSERT"}},
	{KeyHome, []string{"KC_HOME"}},
	{KeyPageUp, []string{"KC_PGUP", "KC_PAGE_UP"}},
	{KeyDelete, []string{"KC_DEL", "KC_DELETE"}},
	{KeyEnd, []string{"KC_END"}},
	{KeyPageDown, []string{"KC_PGDN", "KC_PAGE_DOWN"}},
	{KeyRight, []string{"KC_RGHT", "KC_RIGHT"}},
	{KeyLeft, []string{"KC_LEFT"}},
	{KeyDown, []string{"KC_DOWN"}},
	{KeyUp, []string{"KC_UP"}},
	{KeyAudioMute, []string{"KC_MUTE", "KC_AUDIO_MUTE"}},
	{KeyAudioVolUp, []string{"KC_VOLU", "KC_AUDIO_VOL_UP"}},
	{KeyAudioVolDown, []string{"KC_VOLD", "KC_AUDIO_VOL_DOWN"}},
	{KeyMediaNext, []string{"KC_MNXT", "KC_MEDIA_NEXT_TRACK"}},
	{KeyMediaPrev, []string{"KC_MPRV", "KC_MEDIA_PREV_TRACK"}},
	{KeyMediaStop, []string{"KC_MSTP", "KC_MEDIA_STOP"}},
	{KeyMediaPlay, []string{"KC_MPLY", "KC_MEDIA_PLAY_PAUSE"}},
	{KeyLeftCtrl, []string{"KC_LCTL", "KC_LEFT_CTRL", "KC_LCTRL"}},
	{KeyLeftShift, []string{"KC_LSFT", "KC_LEFT_SHIFT", "KC_LSHIFT"}},
	{KeyLeftAlt, []string{"KC_LALT", "KC_LEFT_ALT", "KC_LOPT"}},
	{KeyLeftGUI, []string{"KC_LGUI", "KC_LEFT_GUI", "KC_LCMD", "KC_LWIN"}},
	{KeyRightCtrl, []string{"KC_RCTL", "KC_RIGHT_CTRL", "KC_RCTRL"}},
	{KeyRightShift, []string{"KC_RSFT", "KC_RIGHT_SHIFT", "KC_RSHIFT"}},
	{KeyRightAlt, []string{"KC_RALT", "KC_RIGHT_ALT", "KC_ROPT", "KC_ALGR"}},
	{KeyRightGUI, []string{"KC_RGUI", "KC_RIGHT_GUI", "KC_RCMD", "KC_RWIN"}},
	{KeyExclaim, []string{"KC_EXLM", "KC_EXCLAIM"}},
	{KeyAt, []string{"KC_AT"}},
	{KeyHash, []string{"KC_HASH"}},
	{KeyDollar, []string{"KC_DLR", "KC_DOLLAR"}},
	{KeyPercent, []string{"KC_PERC", "KC_PERCENT"}},
	{KeyCircumflex, []string{"KC_CIRC", "KC_CIRCUMFLEX"}},
	{KeyAmpersand, []string{"KC_AMPR", "KC_AMPERSAND"}},
	{KeyAsterisk, []string{"KC_ASTR", "KC_ASTERISK"}},
	{KeyLeftParen, []string{"KC_LPRN", "KC_LEFT_PAREN"}},
	{KeyRightParen, []string{"KC_RPRN", "KC_RIGHT_PAREN"}},
	{KeyUnderscore, []string{"KC_UNDS", "KC_UNDERSCORE"}},
	{KeyPlus, []string{"KC_PLUS"}},
	{KeyLeftCurly, []string{"KC_LCBR", "KC_LEFT_CURLY_BRACE"}},
	{KeyRightCurly, []string{"KC_RCBR", "KC_RIGHT_CURLY_BRACE"}},
	{KeyPipe, []string{"KC_PIPE"}},
	{KeyColon, []string{"KC_COLN", "KC_COLON"}},
	{KeyDoubleQuote, []string{"KC_DQUO", "KC_DQT", "KC_DOUBLE_QUOTE"}},
	{KeyTilde, []string{"KC_TILD", "KC_TILDE"}},
	{KeyBoot, []string{"QK_BOOT", "RESET", "QK_BOOTLOADER"}},
}

var (
	canonicalNames = make(map[Keycode]string)
	nameToKeycode  = make(map[string]Keycode)
)

// modTapNames maps single-modifier mod-tap keys to their macro names.
var modTapNames = map[Mods]string{
	ModLCtrl:  "LCTL_T",
	ModLShift: "LSFT_T",
	ModLAlt:   "LALT_T",
	ModLGUI:   "LGUI_T",
	ModRCtrl:  "RCTL_T",
	ModRShift: "RSFT_T",
	ModRAlt:   "RALT_T",
	ModRGUI:   "RGUI_T",
}

// modWrapNames maps modifier wrapper function names to their modifiers.
var modWrapNames = map[string]Mods{
	"C":    ModLCtrl,
	"LCTL": ModLCtrl,
	"S":    ModLShift,
	"LSFT": ModLShift,
	"A":    ModLAlt,
	"LALT": ModLAlt,
	"LOPT": ModLAlt,
	"G":    ModLGUI,
	"LGUI": ModLGUI,
	"LCMD": ModLGUI,
	"LWIN": ModLGUI,
	"RCTL": ModRCtrl,
	"RSFT": ModRShift,
	"RALT": ModRAlt,
	"RA":   ModRAlt,
	"ALGR": ModRAlt,
	"RGUI": ModRGUI,
}

func init() {
	register := func(code Keycode, names ...string) {
		if _, ok := canonicalNames[code]; !ok {
			canonicalNames[code] = names[0]
		}
		for _, n := range names {
			nameToKeycode[n] = code
		}
	}

	for r := 'A'; r <= 'Z'; r++ {
		register(KeyA+Keycode(r-'A'), "KC_"+string(r))
	}
	register(Key0, "KC_0")
	for d := 1; d <= 9; d++ {
		register(Key1+Keycode(d-1), fmt.Sprintf("KC_%d", d))
	}
	for f := 1; f <= 12; f++ {
		register(KeyF1+Keycode(f-1), fmt.Sprintf("KC_F%d", f))
	}
	for _, kn := range keyNames {
		register(kn.code, kn.names...)
	}
}

// KeycodeFromName returns the keycode for a keymap name like "KC_ESC".
// Returns KeyNo and false if the name is not recognized.
func KeycodeFromName(name string) (Keycode, bool) {
	k, ok := nameToKeycode[name]
	return k, ok
}
