package tapdance

import "github.com/nbrumont/fly/internal/input/key"

// Tap dance indexes used by the keymap.
const (
	CtrlEscSpotlightEmoji = iota
	AltEscWindowsEmoji
)

// CtrlEscSpotlightEmojiTable is the macOS-flavored dance: tap for Escape,
// hold for Ctrl, double tap for Spotlight, triple tap for the emoji picker.
func CtrlEscSpotlightEmojiTable() Table {
	return Table{
		Unclassified: Noop{},
		Unknown:      Noop{},
		SingleTap:    Tap{Code: key.KeyEscape},
		SingleHold:   Hold{Code: key.KeyLeftCtrl},
		DoubleTap:    Chord{Code: key.G(key.KeySpace)},
		TripleTap:    Chord{Code: key.C(key.G(key.KeySpace))},
	}
}

// AltEscWindowsEmojiTable is the Windows-flavored dance: tap for Escape,
// hold for Alt, double tap for the Start menu, triple tap for the emoji panel.
func AltEscWindowsEmojiTable() Table {
	return Table{
		Unclassified: Noop{},
		Unknown:      Noop{},
		SingleTap:    Tap{Code: key.KeyEscape},
		SingleHold:   Hold{Code: key.KeyLeftAlt},
		DoubleTap:    Chord{Code: key.KeyLeftGUI},
		TripleTap:    Chord{Code: key.G(key.KeyDot)},
	}
}

// DefaultDances returns the two dances of the keymap, built with NewDance.
func DefaultDances() ([]*Dance, error) {
	specs := []struct {
		name  string
		index int
		table Table
	}{
		{"ctrl-esc-spotlight-emoji", CtrlEscSpotlightEmoji, CtrlEscSpotlightEmojiTable()},
		{"alt-esc-windows-emoji", AltEscWindowsEmoji, AltEscWindowsEmojiTable()},
	}

	dances := make([]*Dance, 0, len(specs))
	for _, sp := range specs {
		d, err := NewDance(sp.name, key.TD(sp.index), sp.table)
		if err != nil {
			return nil, err
		}
		dances = append(dances, d)
	}
	return dances, nil
}

// DefaultSet returns a set with the keymap's dances and idle sessions.
func DefaultSet() *Set {
	dances, err := DefaultDances()
	if err != nil {
		panic("tapdance: invalid default dances: " + err.Error())
	}
	s, err := NewSet(dances...)
	if err != nil {
		panic("tapdance: invalid default dances: " + err.Error())
	}
	return s
}
