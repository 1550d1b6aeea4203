package keymap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/nbrumont/fly/internal/input/key"
)

// Format identifies a keymap file encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for files with an unrecognized extension.
var ErrUnknownFormat = errors.New("unknown keymap file format")

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// ParseError describes a bad keycode in a keymap file.
type ParseError struct {
	Path  string
	Layer int
	Pos   int
	Spec  string
	Err   error
}

func (e *ParseError) Error() string {
	where := fmt.Sprintf("layer %d position %d (%s)", e.Layer, e.Pos, PositionName(key.Position(e.Pos)))
	if e.Path != "" {
		where = e.Path + ": " + where
	}
	if e.Spec == "" {
		return fmt.Sprintf("%s: %v", where, e.Err)
	}
	return fmt.Sprintf("%s: %q: %v", where, e.Spec, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrWrongKeyCount is wrapped by ParseError when a layer is not KeyCount long.
var ErrWrongKeyCount = errors.New("wrong number of keys in layer")

// Loader loads keymaps from configuration files.
type Loader struct {
	// searchPaths are directories to search for keymap files.
	searchPaths []string
}

// NewLoader creates a new keymap loader.
func NewLoader() *Loader {
	return &Loader{
		searchPaths: make([]string, 0),
	}
}

// AddSearchPath adds a directory to search for keymap files.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// LoadFile loads a keymap from a TOML, YAML or JSON file.
func (l *Loader) LoadFile(path string) (*Keymap, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	km, err := l.LoadReader(f, format)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	km.Source = path
	return km, nil
}

// LoadReader loads a keymap from a reader.
func (l *Loader) LoadReader(r io.Reader, format Format) (*Keymap, error) {
	var config keymapConfig

	switch format {
	case FormatTOML:
		if err := toml.NewDecoder(r).Decode(&config); err != nil {
			return nil, fmt.Errorf("decoding keymap: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&config); err != nil {
			return nil, fmt.Errorf("decoding keymap: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&config); err != nil {
			return nil, fmt.Errorf("decoding keymap: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	km := &Keymap{
		Name:   config.Name,
		Layers: make([]Layer, 0, len(config.Layers)),
	}

	for li, specs := range config.Layers {
		if len(specs) != KeyCount {
			return nil, &ParseError{
				Layer: li,
				Pos:   len(specs),
				Err:   fmt.Errorf("%w: got %d, want %d", ErrWrongKeyCount, len(specs), KeyCount),
			}
		}
		var layer Layer
		for p, spec := range specs {
			code, err := key.Parse(spec)
			if err != nil {
				return nil, &ParseError{Layer: li, Pos: p, Spec: spec, Err: err}
			}
			layer[p] = code
		}
		km.Layers = append(km.Layers, layer)
	}

	if err := km.Validate(); err != nil {
		return nil, err
	}
	return km, nil
}

// LoadAll loads all keymaps from the search paths, sorted by name.
// Files that fail to load are skipped and reported in the joined error.
func (l *Loader) LoadAll() ([]*Keymap, error) {
	keymaps := make([]*Keymap, 0)
	var errs []error

	for _, dir := range l.searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if _, err := FormatFromPath(path); err != nil {
				continue
			}
			km, err := l.LoadFile(path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			keymaps = append(keymaps, km)
		}
	}

	sort.SliceStable(keymaps, func(i, j int) bool {
		return keymaps[i].Name < keymaps[j].Name
	})
	return keymaps, errors.Join(errs...)
}

// keymapConfig is the file structure for keymaps. Layers hold keycode
// specs like "KC_A" or "LT(1, KC_SPC)", KeyCount per layer, row by row.
type keymapConfig struct {
	Name   string     `toml:"name" yaml:"name" json:"name"`
	Layers [][]string `toml:"layers" yaml:"layers" json:"layers"`
}

func (k *Keymap) config() keymapConfig {
	config := keymapConfig{
		Name:   k.Name,
		Layers: make([][]string, 0, len(k.Layers)),
	}
	for _, layer := range k.Layers {
		specs := make([]string, len(layer))
		for p, code := range layer {
			specs[p] = code.String()
		}
		config.Layers = append(config.Layers, specs)
	}
	return config
}

// Encode writes the keymap in the given format.
func (k *Keymap) Encode(w io.Writer, format Format) error {
	config := k.config()

	switch format {
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetArraysMultiline(true)
		return enc.Encode(config)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(config); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(config)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// SaveFile saves a keymap to a file, choosing the format from the extension.
func (k *Keymap) SaveFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := k.Encode(&buf, format); err != nil {
		return fmt.Errorf("encoding keymap: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing keymap file: %w", err)
	}

	return nil
}
