// Package report turns key register/unregister calls into HID reports.
//
// Reports follow the boot-style layout used by the keyboard's report
// descriptor: report ID 1 carries the modifier byte and six key slots,
// report ID 2 carries a single 16-bit consumer page usage.
package report

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/nbrumont/fly/internal/input/key"
)

// Report IDs.
const (
	KeyboardID = 0x01
	ConsumerID = 0x02
)

// KeySlots is the number of simultaneous non-modifier keys in a report.
const KeySlots = 6

// Kind distinguishes keyboard and consumer frames.
type Kind uint8

const (
	// KindKeyboard is a keyboard report.
	KindKeyboard Kind = iota
	// KindConsumer is a consumer control report.
	KindConsumer
)

// Frame is one report sent to the host.
type Frame struct {
	Kind Kind

	// Mods is the HID modifier byte of a keyboard frame.
	Mods uint8

	// Keys are the usages of a keyboard frame, unused slots zero.
	Keys [KeySlots]uint8

	// Usage is the consumer usage of a consumer frame; 0 releases.
	Usage uint16
}

// Bytes encodes the frame: 8 bytes for keyboard frames, 3 for consumer.
func (f Frame) Bytes() []byte {
	if f.Kind == KindConsumer {
		data := make([]byte, 3)
		data[0] = ConsumerID
		binary.LittleEndian.PutUint16(data[1:], f.Usage)
		return data
	}

	data := make([]byte, 0, 2+KeySlots)
	data = append(data, KeyboardID, f.Mods)
	data = append(data, f.Keys[:]...)
	return data
}

// IsEmpty reports whether the frame releases everything.
func (f Frame) IsEmpty() bool {
	if f.Kind == KindConsumer {
		return f.Usage == 0
	}
	return f.Mods == 0 && f.Keys == [KeySlots]uint8{}
}

// Codes returns the pressed non-modifier keys of a keyboard frame.
func (f Frame) Codes() []key.Keycode {
	var out []key.Keycode
	for _, k := range f.Keys {
		if k != 0 {
			out = append(out, key.Keycode(k))
		}
	}
	return out
}

// String renders a frame like "kbd Ctrl+GUI KC_SPC", "kbd -" or
// "consumer 0x00E9".
func (f Frame) String() string {
	if f.Kind == KindConsumer {
		return fmt.Sprintf("consumer 0x%04X", f.Usage)
	}
	if f.IsEmpty() {
		return "kbd -"
	}

	var parts []string
	left, right := key.ModsFromHIDBits(f.Mods)
	if !left.IsEmpty() {
		parts = append(parts, left.String())
	}
	if !right.IsEmpty() {
		parts = append(parts, right.String())
	}
	for _, c := range f.Codes() {
		parts = append(parts, c.String())
	}
	return "kbd " + strings.Join(parts, " ")
}

// ParseFrame decodes a report produced by Bytes.
func ParseFrame(data []byte) (Frame, error) {
	switch {
	case len(data) == 3 && data[0] == ConsumerID:
		return Frame{Kind: KindConsumer, Usage: binary.LittleEndian.Uint16(data[1:])}, nil
	case len(data) == 2+KeySlots && data[0] == KeyboardID:
		f := Frame{Kind: KindKeyboard, Mods: data[1]}
		copy(f.Keys[:], data[2:])
		return f, nil
	default:
		return Frame{}, fmt.Errorf("malformed report % x", data)
	}
}
