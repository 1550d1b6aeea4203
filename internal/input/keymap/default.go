package keymap

import (
	k "github.com/nbrumont/fly/internal/input/key"
)

// Layer indexes of the default keymap.
const (
	LayerBase    = 0
	LayerNumbers = 1
	LayerSymbols = 2
	LayerFunc    = 3
)

const (
	_______ = k.KeyTransparent
	xxxxxxx = k.KeyNo
)

// Default returns the stock four-layer keymap.
func Default() *Keymap {
	return New("default", DefaultLayers()...).WithSource("default")
}

// DefaultLayers returns the stock layer tables.
func DefaultLayers() []Layer {
	return []Layer{
		LayerBase: {
			k.KeyQ, k.KeyW, k.KeyE, k.KeyR, k.KeyT, k.KeyY, k.KeyU, k.KeyI, k.KeyO, k.KeyP,
			k.KeyA, k.KeyS, k.KeyD, k.KeyF, k.KeyG, k.KeyH, k.KeyJ, k.KeyK, k.KeyL, k.KeySemicolon,
			k.LSftT(k.KeyZ), k.KeyX, k.KeyC, k.KeyV, k.KeyB, k.KeyN, k.KeyM, k.KeyComma, k.KeyDot, k.RSftT(k.KeySlash),
			k.KeyLeftGUI, k.KeyLeftAlt, k.LCtlT(k.KeySpace), k.LT(1, k.KeySpace), k.RAltT(k.KeyEnter), k.RCtlT(k.KeyTab),
		},
		LayerNumbers: {
			k.Key1, k.Key2, k.Key3, k.Key4, k.Key5, k.Key6, k.Key7, k.Key8, k.Key9, k.Key0,
			k.KeyEscape, xxxxxxx, xxxxxxx, k.KeyEqual, k.KeyMinus, k.KeyLeft, k.KeyUp, k.KeyDown, k.KeyRight, k.KeyBackspace,
			k.KeyExclaim, k.KeyAt, k.KeyHash, k.KeyDollar, k.KeyPercent, k.KeyCircumflex, k.KeyAmpersand, k.KeyAsterisk, k.KeyLeftParen, k.KeyRightParen,
			k.KeyLeftShift, k.KeyRightAlt, k.LT(2, k.KeySpace), _______, k.KeyRightAlt, xxxxxxx,
		},
		LayerSymbols: {
			k.KeyUnderscore, k.KeyMinus, k.KeyPlus, k.KeyEqual, k.KeyColon, k.KeyGrave, k.KeyMediaPlay, xxxxxxx, xxxxxxx, k.KeyCapsLock,
			k.KeyLeftCurly, k.KeyLeftParen, k.KeyRightParen, k.KeyRightCurly, k.KeyPipe, k.KeyLeft, k.KeyUp, k.KeyDown, k.KeyRight, k.KeyDelete,
			k.LSftT(k.KeyLeftBracket), k.KeyQuote, k.KeyDoubleQuote, k.KeyRightBracket, k.KeySemicolon, k.KeyTilde, k.KeyAudioVolDown, k.KeyAudioMute, k.KeyAudioVolUp, k.RSftT(k.KeyBackslash),
			k.KeyLeftGUI, k.KeyLeftAlt, _______, k.LT(3, k.KeySpace), k.KeyRightAlt, xxxxxxx,
		},
		LayerFunc: {
			xxxxxxx, xxxxxxx, xxxxxxx, xxxxxxx, xxxxxxx, xxxxxxx, xxxxxxx, xxxxxxx, xxxxxxx, xxxxxxx,
			k.KeyF1, k.KeyF2, k.KeyF3, k.KeyF4, k.KeyF5, k.KeyF6, k.KeyF7, k.KeyF8, k.KeyF9, k.KeyF10,
			k.KeyF11, xxxxxxx, xxxxxxx, xxxxxxx, _______, xxxxxxx, xxxxxxx, xxxxxxx, xxxxxxx, k.KeyF12,
			k.KeyLeftGUI, k.KeyLeftAlt, k.LCtlT(k.KeySpace), _______, _______, k.KeyBoot,
		},
	}
}
