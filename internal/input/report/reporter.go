package report

import (
	"sync"

	"github.com/nbrumont/fly/internal/input/key"
)

// Reporter tracks the pressed keys and modifiers and sends a frame to its
// sink whenever that state changes. It implements tapdance.Output.
//
// Modifiers are reference counted so that a modifier registered by one key
// stays down while another key registers and releases the same modifier.
// Keys are not: a key registered twice is released by the first unregister,
// as in QMK, so tapping Escape also ends an Escape held on another position.
// The modifiers of a modifier-wrapped code are released by its unregister
// even when its key did not fit in the report.
type Reporter struct {
	mu sync.Mutex

	sink     Sink
	modCount [8]int
	keys     []uint8
	consumer uint16
	wrapped  map[key.Keycode]int

	sent int
	err  error
}

// NewReporter creates a reporter sending to sink.
func NewReporter(sink Sink) *Reporter {
	return &Reporter{
		sink:    sink,
		keys:    make([]uint8, 0, KeySlots),
		wrapped: make(map[key.Keycode]int),
	}
}

// RegisterCode begins a sustained press of code. Modifier-wrapped codes
// press their modifiers together with the key in one frame.
func (r *Reporter) RegisterCode(code key.Keycode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register(code)
}

// UnregisterCode ends a sustained press of code. Codes that are not pressed
// produce no frame.
func (r *Reporter) UnregisterCode(code key.Keycode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unregister(code)
}

// TapCode presses and releases code.
func (r *Reporter) TapCode(code key.Keycode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register(code)
	r.unregister(code)
}

func (r *Reporter) register(code key.Keycode) {
	switch {
	case code == key.KeyNo || code == key.KeyTransparent:
		return
	case code.IsConsumer():
		usage := code.ConsumerUsage()
		if r.consumer == usage {
			return
		}
		r.consumer = usage
		r.send(Frame{Kind: KindConsumer, Usage: usage})
		return
	case !code.IsBasic() && !code.IsModified():
		return
	}

	changed := false
	if code.IsModified() {
		changed = r.addMods(code.Mods().HIDBits())
		r.wrapped[code]++
	}

	basic := code.Basic()
	switch {
	case basic.IsModifierKey():
		changed = r.addMods(modBit(basic)) || changed
	case basic > key.KeyTransparent:
		changed = r.addKey(uint8(basic)) || changed
	}

	if changed {
		r.sendKeyboard()
	}
}

func (r *Reporter) unregister(code key.Keycode) {
	switch {
	case code == key.KeyNo || code == key.KeyTransparent:
		return
	case code.IsConsumer():
		if r.consumer != code.ConsumerUsage() {
			return
		}
		r.consumer = 0
		r.send(Frame{Kind: KindConsumer})
		return
	case !code.IsBasic() && !code.IsModified():
		return
	}

	changed := false
	basic := code.Basic()
	switch {
	case basic.IsModifierKey():
		changed = r.removeMods(modBit(basic))
	case basic > key.KeyTransparent:
		changed = r.removeKey(uint8(basic))
	}

	if code.IsModified() && r.wrapped[code] > 0 {
		r.wrapped[code]--
		if r.wrapped[code] == 0 {
			delete(r.wrapped, code)
		}
		changed = r.removeMods(code.Mods().HIDBits()) || changed
	}

	if changed {
		r.sendKeyboard()
	}
}

func modBit(k key.Keycode) uint8 {
	return 1 << uint8(k-key.KeyLeftCtrl)
}

func (r *Reporter) mods() uint8 {
	var b uint8
	for i, n := range r.modCount {
		if n > 0 {
			b |= 1 << uint(i)
		}
	}
	return b
}

func (r *Reporter) addMods(bits uint8) bool {
	before := r.mods()
	for i := range r.modCount {
		if bits&(1<<uint(i)) != 0 {
			r.modCount[i]++
		}
	}
	return r.mods() != before
}

func (r *Reporter) removeMods(bits uint8) bool {
	before := r.mods()
	for i := range r.modCount {
		if bits&(1<<uint(i)) != 0 && r.modCount[i] > 0 {
			r.modCount[i]--
		}
	}
	return r.mods() != before
}

func (r *Reporter) addKey(k uint8) bool {
	for _, have := range r.keys {
		if have == k {
			return false
		}
	}
	if len(r.keys) >= KeySlots {
		return false
	}
	r.keys = append(r.keys, k)
	return true
}

func (r *Reporter) removeKey(k uint8) bool {
	for i, have := range r.keys {
		if have == k {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Reporter) frame() Frame {
	f := Frame{Kind: KindKeyboard, Mods: r.mods()}
	copy(f.Keys[:], r.keys)
	return f
}

func (r *Reporter) sendKeyboard() {
	r.send(r.frame())
}

func (r *Reporter) send(f Frame) {
	r.sent++
	if r.sink == nil {
		return
	}
	if err := r.sink.Send(f); err != nil && r.err == nil {
		r.err = err
	}
}

// State returns the current keyboard frame.
func (r *Reporter) State() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame()
}

// Mods returns the current HID modifier byte.
func (r *Reporter) Mods() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mods()
}

// Sent returns the number of frames produced.
func (r *Reporter) Sent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent
}

// Err returns the first error returned by the sink, if any.
func (r *Reporter) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Clear releases everything. A frame is sent only if something was down.
func (r *Reporter) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.consumer != 0 {
		r.consumer = 0
		r.send(Frame{Kind: KindConsumer})
	}
	if r.mods() != 0 || len(r.keys) > 0 {
		r.modCount = [8]int{}
		r.keys = r.keys[:0]
		clear(r.wrapped)
		r.sendKeyboard()
	}
}
