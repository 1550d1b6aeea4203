package keymap

import (
	"fmt"
	"io"
	"strings"

	"github.com/nbrumont/fly/internal/input/key"
)

// cellWidth is the inner width of one rendered key.
const cellWidth = 3

// shortLabels are the three-cell labels for keys whose names are long.
var shortLabels = map[key.Keycode]string{
	key.KeyEnter:        "Ent",
	key.KeyEscape:       "ESC",
	key.KeyBackspace:    "Bsp",
	key.KeyTab:          "Tab",
	key.KeySpace:        "Spc",
	key.KeyMinus:        "-",
	key.KeyEqual:        "=",
	key.KeyLeftBracket:  "[",
	key.KeyRightBracket: "]",
	key.KeyBackslash:    "\\",
	key.KeySemicolon:    ";",
	key.KeyQuote:        "'",
	key.KeyGrave:        "`",
	key.KeyComma:        ",",
	key.KeyDot:          ".",
	key.KeySlash:        "/",
	key.KeyCapsLock:     "CAP",
	key.KeyDelete:       "DEL",
	key.KeyLeft:         "←",
	key.KeyUp:           "↑",
	key.KeyDown:         "↓",
	key.KeyRight:        "→",
	key.KeyAudioMute:    "Mut",
	key.KeyAudioVolUp:   "VlU",
	key.KeyAudioVolDown: "VlD",
	key.KeyMediaPlay:    "Pau",
	key.KeyLeftCtrl:     "Ctr",
	key.KeyLeftShift:    "LSh",
	key.KeyLeftAlt:      "Alt",
	key.KeyLeftGUI:      "Win",
	key.KeyRightCtrl:    "Ctr",
	key.KeyRightShift:   "RSh",
	key.KeyRightAlt:     "Alt",
	key.KeyRightGUI:     "Win",
	key.KeyExclaim:      "!",
	key.KeyAt:           "@",
	key.KeyHash:         "#",
	key.KeyDollar:       "$",
	key.KeyPercent:      "%",
	key.KeyCircumflex:   "^",
	key.KeyAmpersand:    "&",
	key.KeyAsterisk:     "*",
	key.KeyLeftParen:    "(",
	key.KeyRightParen:   ")",
	key.KeyUnderscore:   "_",
	key.KeyPlus:         "+",
	key.KeyLeftCurly:    "{",
	key.KeyRightCurly:   "}",
	key.KeyPipe:         "|",
	key.KeyColon:        ":",
	key.KeyDoubleQuote:  "\"",
	key.KeyTilde:        "~",
	key.KeyBoot:         "BLD",
}

// holdLabels name the modifier a mod-tap key holds.
var holdLabels = map[key.Mods]string{
	key.ModLCtrl:  "LCt",
	key.ModLShift: "LSh",
	key.ModLAlt:   "LAl",
	key.ModLGUI:   "Win",
	key.ModRCtrl:  "Ctr",
	key.ModRShift: "RSh",
	key.ModRAlt:   "RAl",
	key.ModRGUI:   "RWi",
}

// TapLabel returns the short label of what a key sends when tapped.
func TapLabel(code key.Keycode) string {
	switch {
	case code == key.KeyNo || code == key.KeyTransparent:
		return ""
	case code.IsDualRole():
		return TapLabel(code.Basic())
	case code.IsTapDance():
		return fmt.Sprintf("TD%d", code.DanceIndex())
	}

	if s, ok := shortLabels[code]; ok {
		return s
	}
	if code.IsModified() {
		return clip(code.Mods().String()[:1] + "-" + TapLabel(code.Basic()))
	}
	name := code.String()
	return clip(strings.TrimPrefix(name, "KC_"))
}

// HoldLabel returns the short label of what a key does when held, or "".
func HoldLabel(code key.Keycode) string {
	switch {
	case code.IsModTap():
		if s, ok := holdLabels[code.Mods()]; ok {
			return s
		}
		return clip(code.Mods().String())
	case code.IsLayerTap():
		return fmt.Sprintf("L%d", code.Layer())
	default:
		return ""
	}
}

func clip(s string) string {
	r := []rune(s)
	if len(r) > cellWidth {
		return string(r[:cellWidth])
	}
	return s
}

func pad(s string) string {
	n := len([]rune(s))
	if n >= cellWidth {
		return s
	}
	left := (cellWidth - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", cellWidth-n-left)
}

// Render draws one layer as a split grid: the tap labels, then the hold
// labels when the layer has any dual-role keys.
func Render(w io.Writer, layer Layer) error {
	if err := renderGrid(w, "TAP", layer, TapLabel); err != nil {
		return err
	}

	hasHold := false
	for _, code := range layer {
		if HoldLabel(code) != "" {
			hasHold = true
			break
		}
	}
	if !hasHold {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return renderGrid(w, "HOLD", layer, HoldLabel)
}

// RenderKeymap draws every layer of a keymap with a heading per layer.
func RenderKeymap(w io.Writer, km *Keymap) error {
	for l, layer := range km.Layers {
		if l > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "L%d\n", l); err != nil {
			return err
		}
		if err := Render(w, layer); err != nil {
			return err
		}
	}
	return nil
}

func renderGrid(w io.Writer, title string, layer Layer, label func(key.Keycode) string) error {
	bar := strings.Repeat("─", cellWidth)
	half := func(l, m, r string) string {
		return l + strings.Repeat(bar+m, 4) + bar + r
	}
	gap := "   "
	indent := strings.Repeat(" ", 2*(cellWidth+1))
	thumbBar := func(l, m, r string) string {
		return l + strings.Repeat(bar+m, 2) + bar + r
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(half("┌", "┬", "┐") + gap + half("┌", "┬", "┐") + "\n")
	for row := 0; row < Rows; row++ {
		b.WriteString(keyRow(layer, row*Cols, 5, label) + gap + keyRow(layer, row*Cols+5, 5, label) + "\n")
		if row < Rows-1 {
			b.WriteString(half("├", "┼", "┤") + gap + half("├", "┼", "┤") + "\n")
		}
	}
	b.WriteString("└" + bar + "┴" + bar + "┼" + bar + "┼" + bar + "┼" + bar + "┤" + gap +
		"├" + bar + "┼" + bar + "┼" + bar + "┼" + bar + "┴" + bar + "┘\n")
	b.WriteString(indent + keyRow(layer, Rows*Cols, 3, label) + gap + keyRow(layer, Rows*Cols+3, 3, label) + "\n")
	b.WriteString(indent + thumbBar("└", "┴", "┘") + gap + thumbBar("└", "┴", "┘") + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func keyRow(layer Layer, start, n int, label func(key.Keycode) string) string {
	var b strings.Builder
	b.WriteString("│")
	for i := 0; i < n; i++ {
		b.WriteString(pad(label(layer[start+i])))
		b.WriteString("│")
	}
	return b.String()
}
