// Package keymap holds the layer tables of the 3x10+6 split keyboard.
//
// A Keymap is a stack of layers. Each layer maps the 36 physical positions
// to keycodes: three rows of ten keys, left half then right half, followed
// by the six thumb keys.
//
// # Layers
//
// Layer 0 is the base layer and is always active. Higher layers are
// activated momentarily by holding a layer-tap key. When resolving a
// position the highest active layer wins, and KC_TRNS falls through to the
// next active layer below:
//
//	km := keymap.Default()
//	active := keymap.LayerMask(0).On(keymap.LayerNumbers)
//	code := km.Resolve(active, pos)
//
// # Files
//
// Keymaps can be loaded from TOML, YAML or JSON files holding a name and a
// list of layers, each a list of 36 keycode specs:
//
//	name = "custom"
//	layers = [
//	  ["KC_Q", "KC_W", ..., "LT(1, KC_SPC)", "RALT_T(KC_ENT)", "TD(0)"],
//	]
//
// Render draws a layer as the split grid used in keymap comments.
package keymap
