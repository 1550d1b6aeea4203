package keymap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbrumont/fly/internal/input/key"
)

// specRow returns n copies of spec as a quoted, comma-separated list.
func specRow(spec string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = `"` + spec + `"`
	}
	return strings.Join(parts, ", ")
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"fly.toml", FormatTOML},
		{"a/b/FLY.TOML", FormatTOML},
		{"layout.yaml", FormatYAML},
		{"layout.yml", FormatYAML},
		{"layout.json", FormatJSON},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatFromPath("layout.ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := Default()

	for _, ext := range []string{".toml", ".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "default"+ext)
			require.NoError(t, original.SaveFile(path))

			km, err := NewLoader().LoadFile(path)
			require.NoError(t, err)

			assert.Equal(t, "default", km.Name)
			assert.Equal(t, path, km.Source)
			require.Equal(t, original.LayerCount(), km.LayerCount())
			for l := range original.Layers {
				assert.Equal(t, original.Layers[l], km.Layers[l], "layer %d", l)
			}
		})
	}
}

func TestLoaderTOML(t *testing.T) {
	base := specRow("KC_A", 30) + `, "KC_LGUI", "TD(0)", "LCTL_T(KC_SPC)", "LT(1, KC_SPC)", "TD(1)", "QK_BOOT"`
	upper := specRow("_______", 35) + `, "C(G(KC_SPC))"`
	src := "name = \"dance\"\nlayers = [\n  [" + base + "],\n  [" + upper + "],\n]\n"

	km, err := NewLoader().LoadReader(strings.NewReader(src), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, "dance", km.Name)
	require.Equal(t, 2, km.LayerCount())
	assert.Equal(t, key.KeyA, km.Layers[0][0])
	assert.Equal(t, key.TD(0), km.Layers[0][31])
	assert.Equal(t, key.LT(1, key.KeySpace), km.Layers[0][33])
	assert.Equal(t, key.KeyBoot, km.Layers[0][35])
	assert.Equal(t, key.KeyTransparent, km.Layers[1][0])
	assert.Equal(t, key.C(key.G(key.KeySpace)), km.Layers[1][35])
	assert.Equal(t, []key.Keycode{key.TD(0), key.TD(1)}, km.Dances())
}

func TestLoaderYAML(t *testing.T) {
	var b strings.Builder
	b.WriteString("name: yaml-map\nlayers:\n  -\n")
	for i := 0; i < KeyCount; i++ {
		spec := "KC_B"
		if i == 20 {
			spec = "LSFT_T(KC_Z)"
		}
		b.WriteString("    - \"" + spec + "\"\n")
	}

	km, err := NewLoader().LoadReader(strings.NewReader(b.String()), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "yaml-map", km.Name)
	require.Equal(t, 1, km.LayerCount())
	assert.Equal(t, key.KeyB, km.Layers[0][0])
	assert.Equal(t, key.LSftT(key.KeyZ), km.Layers[0][20])
}

func TestLoaderErrors(t *testing.T) {
	loader := NewLoader()

	t.Run("bad keycode", func(t *testing.T) {
		src := "layers = [[" + specRow("KC_A", 12) + `, "KC_NOPE", ` + specRow("KC_A", 23) + "]]\n"
		_, err := loader.LoadReader(strings.NewReader(src), FormatTOML)
		require.Error(t, err)

		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 0, pe.Layer)
		assert.Equal(t, 12, pe.Pos)
		assert.Equal(t, "KC_NOPE", pe.Spec)
		assert.ErrorIs(t, err, key.ErrUnknownKeycode)
		assert.Contains(t, err.Error(), "r1c2")
	})

	t.Run("short layer", func(t *testing.T) {
		src := `{"name": "short", "layers": [[` + specRow("KC_A", 10) + `]]}`
		_, err := loader.LoadReader(strings.NewReader(src), FormatJSON)
		assert.ErrorIs(t, err, ErrWrongKeyCount)
	})

	t.Run("layer tap out of range", func(t *testing.T) {
		src := "layers = [[" + specRow("LT(2, KC_A)", KeyCount) + "]]\n"
		_, err := loader.LoadReader(strings.NewReader(src), FormatTOML)
		assert.ErrorIs(t, err, ErrLayerOutOfRange)
	})

	t.Run("no layers", func(t *testing.T) {
		_, err := loader.LoadReader(strings.NewReader("name = \"x\"\n"), FormatTOML)
		assert.ErrorIs(t, err, ErrNoLayers)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := loader.LoadReader(strings.NewReader("layers = [[\n"), FormatTOML)
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := loader.LoadReader(strings.NewReader(""), Format("ini"))
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoaderFileErrorHasPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	src := "layers = [[" + specRow("KC_WHAT", KeyCount) + "]]\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	_, err := NewLoader().LoadFile(path)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, path, pe.Path)
	assert.True(t, strings.HasPrefix(err.Error(), path+": "))
}

func TestLoaderNameFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nameless.toml")
	src := "layers = [[" + specRow("KC_A", KeyCount) + "]]\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	km, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nameless", km.Name)
}

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Default().SaveFile(filepath.Join(dir, "b.yaml")))

	other := Default()
	other.Name = "alpha"
	require.NoError(t, other.SaveFile(filepath.Join(dir, "a.toml")))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.toml"), []byte("layers = 3"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	loader := NewLoader()
	loader.AddSearchPath(dir)
	loader.AddSearchPath(filepath.Join(dir, "missing"))

	keymaps, err := loader.LoadAll()
	assert.Error(t, err)
	require.Len(t, keymaps, 2)
	assert.Equal(t, "alpha", keymaps[0].Name)
	assert.Equal(t, "default", keymaps[1].Name)
}

func TestEncodeUnknownFormat(t *testing.T) {
	var b strings.Builder
	assert.ErrorIs(t, Default().Encode(&b, Format("xml")), ErrUnknownFormat)
	assert.ErrorIs(t, Default().SaveFile(filepath.Join(t.TempDir(), "x.xml")), ErrUnknownFormat)
}
