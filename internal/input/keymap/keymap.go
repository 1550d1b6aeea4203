package keymap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nbrumont/fly/internal/input/key"
)

// Matrix geometry of the 3x10+6 split layout.
const (
	// Rows is the number of main rows.
	Rows = 3

	// Cols is the number of columns in each main row, both halves together.
	Cols = 10

	// ThumbKeys is the number of keys in the thumb row.
	ThumbKeys = 6

	// KeyCount is the number of physical positions.
	KeyCount = Rows*Cols + ThumbKeys

	// MaxLayers is the number of layers a keycode can address.
	MaxLayers = 16
)

// ThumbRow is the row index used for the thumb cluster.
const ThumbRow = Rows

// Validation errors.
var (
	ErrNoLayers         = errors.New("keymap has no layers")
	ErrTooManyLayers    = errors.New("keymap has too many layers")
	ErrLayerOutOfRange  = errors.New("layer-tap targets a missing layer")
	ErrPositionOutRange = errors.New("position out of range")
)

// Layer maps every physical position to a keycode.
type Layer [KeyCount]key.Keycode

// Keymap is an ordered stack of layers. Layer 0 is the base layer.
type Keymap struct {
	// Name is the keymap identifier.
	Name string

	// Source indicates where this keymap was defined.
	// Examples: "default", a file path.
	Source string

	// Layers are the layer tables, lowest first.
	Layers []Layer
}

// New creates a keymap from the given layers.
func New(name string, layers ...Layer) *Keymap {
	return &Keymap{
		Name:   name,
		Layers: layers,
	}
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// LayerCount returns the number of layers.
func (k *Keymap) LayerCount() int {
	return len(k.Layers)
}

// Validate checks that the keymap has a usable number of layers and that
// every layer-tap key points at an existing layer.
func (k *Keymap) Validate() error {
	if len(k.Layers) == 0 {
		return ErrNoLayers
	}
	if len(k.Layers) > MaxLayers {
		return fmt.Errorf("%w: %d > %d", ErrTooManyLayers, len(k.Layers), MaxLayers)
	}

	for l, layer := range k.Layers {
		for p, code := range layer {
			if code.IsLayerTap() && code.Layer() >= len(k.Layers) {
				return fmt.Errorf("%w: layer %d position %d: %s", ErrLayerOutOfRange, l, p, code)
			}
		}
	}
	return nil
}

// Keycode returns the raw keycode at a layer and position, without
// transparency fall-through.
func (k *Keymap) Keycode(layer int, pos key.Position) (key.Keycode, error) {
	if layer < 0 || layer >= len(k.Layers) {
		return key.KeyNo, fmt.Errorf("%w: layer %d", ErrLayerOutOfRange, layer)
	}
	if int(pos) >= KeyCount {
		return key.KeyNo, fmt.Errorf("%w: %d", ErrPositionOutRange, pos)
	}
	return k.Layers[layer][pos], nil
}

// Resolve returns the effective keycode at pos for the active layers.
// The highest active layer wins; KC_TRNS falls through to the next active
// layer below. The base layer is always consulted last.
func (k *Keymap) Resolve(active LayerMask, pos key.Position) key.Keycode {
	if int(pos) >= KeyCount {
		return key.KeyNo
	}
	for l := len(k.Layers) - 1; l >= 0; l-- {
		if l != 0 && !active.Has(l) {
			continue
		}
		if code := k.Layers[l][pos]; code != key.KeyTransparent {
			return code
		}
	}
	return key.KeyNo
}

// Find returns the first base-layer position whose keycode, or tap
// keycode for dual-role keys, equals code.
func (k *Keymap) Find(code key.Keycode) (key.Position, bool) {
	if len(k.Layers) == 0 {
		return 0, false
	}
	for p, c := range k.Layers[0] {
		if c == code {
			return key.Position(p), true
		}
	}
	if code.IsBasic() {
		for p, c := range k.Layers[0] {
			if c.IsDualRole() && c.Basic() == code {
				return key.Position(p), true
			}
		}
	}
	return 0, false
}

// Dances returns the tap-dance keycodes used anywhere in the keymap, in
// order of first appearance.
func (k *Keymap) Dances() []key.Keycode {
	seen := make(map[key.Keycode]bool)
	var out []key.Keycode
	for _, layer := range k.Layers {
		for _, c := range layer {
			if c.IsTapDance() && !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// Clone creates a deep copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	layers := make([]Layer, len(k.Layers))
	copy(layers, k.Layers)
	return &Keymap{
		Name:   k.Name,
		Source: k.Source,
		Layers: layers,
	}
}

// PositionAt returns the position of a key by row and column. Rows 0-2 take
// columns 0-9; the thumb row (ThumbRow) takes columns 0-5.
func PositionAt(row, col int) (key.Position, bool) {
	switch {
	case row >= 0 && row < Rows && col >= 0 && col < Cols:
		return key.Position(row*Cols + col), true
	case row == ThumbRow && col >= 0 && col < ThumbKeys:
		return key.Position(Rows*Cols + col), true
	default:
		return 0, false
	}
}

// RowCol returns the row and column of a position.
func RowCol(pos key.Position) (row, col int) {
	p := int(pos)
	if p >= Rows*Cols {
		return ThumbRow, p - Rows*Cols
	}
	return p / Cols, p % Cols
}

// PositionName returns a stable name like "r1c4" or "t2".
func PositionName(pos key.Position) string {
	row, col := RowCol(pos)
	if row == ThumbRow {
		return fmt.Sprintf("t%d", col)
	}
	return fmt.Sprintf("r%dc%d", row, col)
}

// ParsePosition parses a name produced by PositionName.
func ParsePosition(name string) (key.Position, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	var row, col int
	if _, err := fmt.Sscanf(name, "r%dc%d", &row, &col); err == nil {
		if row >= Rows {
			return 0, false
		}
		return PositionAt(row, col)
	}
	if _, err := fmt.Sscanf(name, "t%d", &col); err == nil {
		return PositionAt(ThumbRow, col)
	}
	return 0, false
}
