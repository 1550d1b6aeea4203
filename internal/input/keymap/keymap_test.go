package keymap

import (
	"errors"
	"strings"
	"testing"

	"github.com/nbrumont/fly/internal/input/key"
)

func pos(t *testing.T, row, col int) key.Position {
	t.Helper()
	p, ok := PositionAt(row, col)
	if !ok {
		t.Fatalf("PositionAt(%d, %d) out of range", row, col)
	}
	return p
}

func TestDefaultKeymap(t *testing.T) {
	km := Default()

	if km.Name != "default" {
		t.Errorf("Name = %q, want %q", km.Name, "default")
	}
	if km.Source != "default" {
		t.Errorf("Source = %q, want %q", km.Source, "default")
	}
	if km.LayerCount() != 4 {
		t.Fatalf("LayerCount() = %d, want 4", km.LayerCount())
	}
	if err := km.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		layer    int
		row, col int
		want     key.Keycode
	}{
		{LayerBase, 0, 0, key.KeyQ},
		{LayerBase, 1, 9, key.KeySemicolon},
		{LayerBase, 2, 0, key.LSftT(key.KeyZ)},
		{LayerBase, 2, 9, key.RSftT(key.KeySlash)},
		{LayerBase, ThumbRow, 2, key.LCtlT(key.KeySpace)},
		{LayerBase, ThumbRow, 3, key.LT(1, key.KeySpace)},
		{LayerBase, ThumbRow, 4, key.RAltT(key.KeyEnter)},
		{LayerBase, ThumbRow, 5, key.RCtlT(key.KeyTab)},
		{LayerNumbers, 1, 0, key.KeyEscape},
		{LayerNumbers, 2, 0, key.KeyExclaim},
		{LayerNumbers, ThumbRow, 2, key.LT(2, key.KeySpace)},
		{LayerNumbers, ThumbRow, 3, key.KeyTransparent},
		{LayerSymbols, 0, 6, key.KeyMediaPlay},
		{LayerSymbols, 2, 0, key.LSftT(key.KeyLeftBracket)},
		{LayerSymbols, 2, 7, key.KeyAudioMute},
		{LayerSymbols, ThumbRow, 3, key.LT(3, key.KeySpace)},
		{LayerFunc, 1, 0, key.KeyF1},
		{LayerFunc, 2, 9, key.KeyF12},
		{LayerFunc, ThumbRow, 5, key.KeyBoot},
	}

	for _, tt := range tests {
		got, err := km.Keycode(tt.layer, pos(t, tt.row, tt.col))
		if err != nil {
			t.Errorf("Keycode(%d, r%dc%d) error = %v", tt.layer, tt.row, tt.col, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Keycode(%d, r%dc%d) = %s, want %s", tt.layer, tt.row, tt.col, got, tt.want)
		}
	}
}

func TestKeymapKeycodeErrors(t *testing.T) {
	km := Default()

	if _, err := km.Keycode(4, 0); !errors.Is(err, ErrLayerOutOfRange) {
		t.Errorf("Keycode(4, 0) error = %v, want ErrLayerOutOfRange", err)
	}
	if _, err := km.Keycode(0, KeyCount); !errors.Is(err, ErrPositionOutRange) {
		t.Errorf("Keycode(0, %d) error = %v, want ErrPositionOutRange", KeyCount, err)
	}
}

func TestKeymapResolve(t *testing.T) {
	km := Default()
	thumb2 := pos(t, ThumbRow, 2)
	thumb3 := pos(t, ThumbRow, 3)
	b := pos(t, 2, 4)

	tests := []struct {
		name   string
		active LayerMask
		pos    key.Position
		want   key.Keycode
	}{
		{"base only", 0, pos(t, 0, 0), key.KeyQ},
		{"numbers layer", LayerMask(0).On(1), pos(t, 0, 0), key.Key1},
		{"transparent falls to base", LayerMask(0).On(1), thumb3, key.LT(1, key.KeySpace)},
		{"symbols over numbers", LayerMask(0).On(1).On(2), thumb2, key.LT(2, key.KeySpace)},
		{"symbols alone falls to base", LayerMask(0).On(2), thumb2, key.LCtlT(key.KeySpace)},
		{"function over base", LayerMask(0).On(3), b, key.KeyB},
		{"function over symbols", LayerMask(0).On(2).On(3), b, key.KeySemicolon},
		{"no key is opaque", LayerMask(0).On(3), pos(t, 0, 0), key.KeyNo},
		{"out of range", 0, KeyCount, key.KeyNo},
		{"inactive layer ignored", LayerMask(0).On(7), pos(t, 0, 0), key.KeyQ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := km.Resolve(tt.active, tt.pos); got != tt.want {
				t.Errorf("Resolve(%s, %d) = %s, want %s", tt.active, tt.pos, got, tt.want)
			}
		})
	}
}

func TestKeymapResolveAllTransparent(t *testing.T) {
	var l Layer
	for i := range l {
		l[i] = key.KeyTransparent
	}
	km := New("trns", l)

	if got := km.Resolve(0, 0); got != key.KeyNo {
		t.Errorf("Resolve() = %s, want KC_NO", got)
	}
}

func TestKeymapValidate(t *testing.T) {
	if err := New("empty").Validate(); !errors.Is(err, ErrNoLayers) {
		t.Errorf("empty Validate() = %v, want ErrNoLayers", err)
	}

	tooMany := make([]Layer, MaxLayers+1)
	if err := New("many", tooMany...).Validate(); !errors.Is(err, ErrTooManyLayers) {
		t.Errorf("many Validate() = %v, want ErrTooManyLayers", err)
	}

	var l Layer
	l[5] = key.LT(2, key.KeyTab)
	if err := New("lt", l, Layer{}).Validate(); !errors.Is(err, ErrLayerOutOfRange) {
		t.Errorf("lt Validate() = %v, want ErrLayerOutOfRange", err)
	}
	if err := New("lt", l, Layer{}, Layer{}).Validate(); err != nil {
		t.Errorf("lt Validate() = %v, want nil", err)
	}
}

func TestKeymapFind(t *testing.T) {
	km := Default()

	tests := []struct {
		code key.Keycode
		want key.Position
		ok   bool
	}{
		{key.KeyQ, 0, true},
		{key.KeyZ, 20, true},
		{key.LSftT(key.KeyZ), 20, true},
		{key.KeyEnter, 34, true},
		{key.KeyF1, 0, false},
	}

	for _, tt := range tests {
		got, ok := km.Find(tt.code)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Find(%s) = %d, %v; want %d, %v", tt.code, got, ok, tt.want, tt.ok)
		}
	}

	if _, ok := New("empty").Find(key.KeyQ); ok {
		t.Error("Find on empty keymap should fail")
	}
}

func TestKeymapDances(t *testing.T) {
	var base, upper Layer
	base[30] = key.TD(1)
	base[31] = key.TD(0)
	upper[0] = key.TD(1)
	upper[1] = key.TD(2)

	got := New("td", base, upper).Dances()
	want := []key.Keycode{key.TD(1), key.TD(0), key.TD(2)}
	if len(got) != len(want) {
		t.Fatalf("Dances() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Dances()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if d := Default().Dances(); len(d) != 0 {
		t.Errorf("Default().Dances() = %v, want none", d)
	}
}

func TestKeymapClone(t *testing.T) {
	original := Default()
	clone := original.Clone()

	clone.Name = "changed"
	clone.Layers[0][0] = key.KeyZ

	if original.Name != "default" {
		t.Error("Clone should not affect original name")
	}
	if original.Layers[0][0] != key.KeyQ {
		t.Error("Clone should not share layer storage")
	}
}

func TestLayerMask(t *testing.T) {
	var m LayerMask

	if !m.Has(0) {
		t.Error("base layer should always be active")
	}
	if m.Highest() != 0 {
		t.Errorf("Highest() = %d, want 0", m.Highest())
	}

	m = m.On(1).On(3)
	if !m.Has(1) || !m.Has(3) || m.Has(2) {
		t.Errorf("mask %s has wrong layers", m)
	}
	if m.Highest() != 3 {
		t.Errorf("Highest() = %d, want 3", m.Highest())
	}
	if m.String() != "0,1,3" {
		t.Errorf("String() = %q, want %q", m.String(), "0,1,3")
	}

	m = m.Off(3)
	if m.Has(3) || m.Highest() != 1 {
		t.Errorf("after Off(3): %s, highest %d", m, m.Highest())
	}

	if m.On(-1) != m || m.On(MaxLayers) != m || m.Off(99) != m {
		t.Error("out-of-range layers should leave the mask unchanged")
	}
	if m.Has(-1) || m.Has(MaxLayers) {
		t.Error("out-of-range layers should not be active")
	}
}

func TestPositions(t *testing.T) {
	seen := make(map[string]bool)
	for p := key.Position(0); p < KeyCount; p++ {
		row, col := RowCol(p)
		back, ok := PositionAt(row, col)
		if !ok || back != p {
			t.Errorf("PositionAt(RowCol(%d)) = %d, %v", p, back, ok)
		}

		name := PositionName(p)
		if seen[name] {
			t.Errorf("duplicate position name %q", name)
		}
		seen[name] = true

		parsed, ok := ParsePosition(name)
		if !ok || parsed != p {
			t.Errorf("ParsePosition(%q) = %d, %v; want %d", name, parsed, ok, p)
		}
	}

	if PositionName(33) != "t3" {
		t.Errorf("PositionName(33) = %q, want %q", PositionName(33), "t3")
	}
	if PositionName(14) != "r1c4" {
		t.Errorf("PositionName(14) = %q, want %q", PositionName(14), "r1c4")
	}

	for _, bad := range []string{"", "r3c0", "t6", "r0c10", "x1"} {
		if _, ok := ParsePosition(bad); ok {
			t.Errorf("ParsePosition(%q) should fail", bad)
		}
	}
	if _, ok := PositionAt(-1, 0); ok {
		t.Error("PositionAt(-1, 0) should fail")
	}
}

func TestRender(t *testing.T) {
	var b strings.Builder
	if err := Render(&b, Default().Layers[LayerBase]); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := b.String()

	wants := []string{
		"TAP\n",
		"│ Q │ W │ E │ R │ T │   │ Y │ U │ I │ O │ P │",
		"│ Z │ X │ C │ V │ B │   │ N │ M │ , │ . │ / │",
		"        │Win│Alt│Spc│   │Spc│Ent│Tab│",
		"HOLD\n",
		"│LSh│   │   │   │   │   │   │   │   │   │RSh│",
		"        │   │   │LCt│   │L1 │RAl│Ctr│",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderNoHold(t *testing.T) {
	var l Layer
	for i := range l {
		l[i] = key.KeyA
	}

	var b strings.Builder
	if err := Render(&b, l); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(b.String(), "HOLD") {
		t.Error("layer without dual-role keys should not render a HOLD grid")
	}
}

func TestRenderKeymap(t *testing.T) {
	var b strings.Builder
	if err := RenderKeymap(&b, Default()); err != nil {
		t.Fatalf("RenderKeymap() error = %v", err)
	}
	out := b.String()

	for _, want := range []string{"L0\n", "L1\n", "L2\n", "L3\n", "│F1 │F2 │", "BLD"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderKeymap() missing %q", want)
		}
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		code      key.Keycode
		tap, hold string
	}{
		{key.KeyNo, "", ""},
		{key.KeyTransparent, "", ""},
		{key.KeyA, "A", ""},
		{key.KeyF10, "F10", ""},
		{key.KeyExclaim, "!", ""},
		{key.LT(2, key.KeyEnter), "Ent", "L2"},
		{key.LGUIT(key.KeySpace), "Spc", "Win"},
		{key.TD(0), "TD0", ""},
		{key.G(key.KeySpace), "G-S", ""},
		{key.MT(key.ModLCtrl|key.ModLShift, key.KeyA), "A", "Ctr"},
	}

	for _, tt := range tests {
		if got := TapLabel(tt.code); got != tt.tap {
			t.Errorf("TapLabel(%s) = %q, want %q", tt.code, got, tt.tap)
		}
		if got := HoldLabel(tt.code); got != tt.hold {
			t.Errorf("HoldLabel(%s) = %q, want %q", tt.code, got, tt.hold)
		}
	}
}
