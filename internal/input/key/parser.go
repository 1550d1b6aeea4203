package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec        = errors.New("empty keycode specification")
	ErrInvalidSpec      = errors.New("invalid keycode specification")
	ErrUnmatchedBracket = errors.New("unmatched bracket in keycode specification")
	ErrUnknownKeycode   = errors.New("unknown keycode")
)

// Parse parses a keycode specification string into a Keycode.
//
// Supported formats:
//   - Names: "KC_A", "KC_ESC", "KC_ENTER", "QK_BOOT", "_______"
//   - Modifier wrappers: "C(KC_C)", "C(G(KC_SPC))", "LSFT(KC_1)", "RALT(KC_E)"
//   - Mod-tap: "LCTL_T(KC_SPC)", "MT(MOD_LCTL|MOD_LSFT, KC_A)"
//   - Layer-tap: "LT(1, KC_TAB)"
//   - Tap dance: "TD(0)"
//   - Raw numbers: "0x2C"
func Parse(spec string) (Keycode, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return KeyNo, ErrEmptySpec
	}

	open := strings.IndexByte(spec, '(')
	if open == -1 {
		if strings.ContainsRune(spec, ')') {
			return KeyNo, fmt.Errorf("%w: %q", ErrUnmatchedBracket, spec)
		}
		return parseName(spec)
	}
	if !strings.HasSuffix(spec, ")") {
		return KeyNo, fmt.Errorf("%w: %q", ErrUnmatchedBracket, spec)
	}

	fn := strings.ToUpper(strings.TrimSpace(spec[:open]))
	args, err := splitArgs(spec[open+1 : len(spec)-1])
	if err != nil {
		return KeyNo, fmt.Errorf("%w: %q", err, spec)
	}

	switch fn {
	case "LT":
		return parseLayerTap(args)
	case "MT":
		return parseModTap(args)
	case "TD":
		return parseTapDance(args)
	}

	if mods, ok := modWrapNames[fn]; ok {
		inner, err := parseSingleArg(fn, args)
		if err != nil {
			return KeyNo, err
		}
		if !inner.IsBasic() && !inner.IsModified() {
			return KeyNo, fmt.Errorf("%w: %s() needs a basic keycode, got %s", ErrInvalidSpec, fn, inner)
		}
		return WithMods(mods, inner), nil
	}

	for mods, name := range modTapNames {
		if name == fn {
			inner, err := parseSingleArg(fn, args)
			if err != nil {
				return KeyNo, err
			}
			return MT(mods, inner), nil
		}
	}

	return KeyNo, fmt.Errorf("%w: unknown function %q", ErrInvalidSpec, fn)
}

// parseName parses a bare keycode name or number.
func parseName(spec string) (Keycode, error) {
	if k, ok := KeycodeFromName(strings.ToUpper(spec)); ok {
		return k, nil
	}
	if k, ok := KeycodeFromName(spec); ok {
		return k, nil
	}
	if strings.HasPrefix(spec, "0x") || strings.HasPrefix(spec, "0X") {
		n, err := strconv.ParseUint(spec[2:], 16, 16)
		if err != nil {
			return KeyNo, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
		}
		return Keycode(n), nil
	}
	return KeyNo, fmt.Errorf("%w: %q", ErrUnknownKeycode, spec)
}

func parseSingleArg(fn string, args []string) (Keycode, error) {
	if len(args) != 1 {
		return KeyNo, fmt.Errorf("%w: %s() takes 1 argument, got %d", ErrInvalidSpec, fn, len(args))
	}
	return Parse(args[0])
}

func parseLayerTap(args []string) (Keycode, error) {
	if len(args) != 2 {
		return KeyNo, fmt.Errorf("%w: LT() takes 2 arguments, got %d", ErrInvalidSpec, len(args))
	}
	layer, err := strconv.Atoi(args[0])
	if err != nil || layer < 0 || layer > 15 {
		return KeyNo, fmt.Errorf("%w: bad layer %q", ErrInvalidSpec, args[0])
	}
	tap, err := Parse(args[1])
	if err != nil {
		return KeyNo, err
	}
	if !tap.IsBasic() {
		return KeyNo, fmt.Errorf("%w: LT() tap key must be basic, got %s", ErrInvalidSpec, tap)
	}
	return LT(layer, tap), nil
}

func parseModTap(args []string) (Keycode, error) {
	if len(args) != 2 {
		return KeyNo, fmt.Errorf("%w: MT() takes 2 arguments, got %d", ErrInvalidSpec, len(args))
	}
	mods, ok := ParseMods(args[0])
	if !ok || mods.IsEmpty() {
		return KeyNo, fmt.Errorf("%w: bad modifiers %q", ErrInvalidSpec, args[0])
	}
	tap, err := Parse(args[1])
	if err != nil {
		return KeyNo, err
	}
	if !tap.IsBasic() {
		return KeyNo, fmt.Errorf("%w: MT() tap key must be basic, got %s", ErrInvalidSpec, tap)
	}
	return MT(mods, tap), nil
}

func parseTapDance(args []string) (Keycode, error) {
	if len(args) != 1 {
		return KeyNo, fmt.Errorf("%w: TD() takes 1 argument, got %d", ErrInvalidSpec, len(args))
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 0 || i > 0xFF {
		return KeyNo, fmt.Errorf("%w: bad tap dance index %q", ErrInvalidSpec, args[0])
	}
	return TD(i), nil
}

// splitArgs splits a comma-separated argument list, respecting nesting.
func splitArgs(s string) ([]string, error) {
	var args []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, ErrUnmatchedBracket
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, ErrUnmatchedBracket
	}
	last := strings.TrimSpace(s[start:])
	if last == "" && len(args) == 0 {
		return nil, ErrInvalidSpec
	}
	args = append(args, last)
	return args, nil
}

// MustParse parses a keycode specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Keycode {
	k, err := Parse(spec)
	if err != nil {
		panic("invalid keycode specification: " + spec + ": " + err.Error())
	}
	return k
}

// NormalizeSpec parses and re-formats a keycode specification to its
// canonical form.
func NormalizeSpec(spec string) (string, error) {
	k, err := Parse(spec)
	if err != nil {
		return "", err
	}
	return k.String(), nil
}
