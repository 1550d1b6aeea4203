package view

import (
	"github.com/nbrumont/fly/internal/input/key"
	"github.com/nbrumont/fly/internal/input/keymap"
)

// Terminal keys bound to the 3x10+6 matrix, one string per row. The last
// row is the thumb cluster.
var (
	tapRows  = [...]string{"qwertyuiop", "asdfghjkl;", "zxcvbnm,./", "123456"}
	holdRows = [...]string{"QWERTYUIOP", "ASDFGHJKL:", "ZXCVBNM<>?", "!@#$%^"}
)

type binding struct {
	pos  key.Position
	hold bool
}

var bindings = func() map[rune]binding {
	m := make(map[rune]binding)
	add := func(rows [4]string, hold bool) {
		for row, keys := range rows {
			for col, r := range []rune(keys) {
				pos, ok := keymap.PositionAt(row, col)
				if !ok {
					panic("view: bad binding " + string(r))
				}
				m[r] = binding{pos: pos, hold: hold}
			}
		}
	}
	add(tapRows, false)
	add(holdRows, true)
	return m
}()

// Position returns the matrix position bound to the terminal rune r.
// Shifted runes report hold: they toggle the key down or up instead of
// tapping it.
func Position(r rune) (pos key.Position, hold, ok bool) {
	b, ok := bindings[r]
	return b.pos, b.hold, ok
}

// Binding returns the unshifted terminal rune bound to pos.
func Binding(pos key.Position) (rune, bool) {
	row, col := keymap.RowCol(pos)
	if row < 0 || row >= len(tapRows) {
		return 0, false
	}
	keys := []rune(tapRows[row])
	if col < 0 || col >= len(keys) {
		return 0, false
	}
	return keys[col], true
}
