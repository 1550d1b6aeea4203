package keymap

import (
	"math/bits"
	"strconv"
	"strings"
)

// LayerMask is the set of momentarily active layers. Bit n is layer n.
// The base layer is implicitly active whether or not bit 0 is set.
type LayerMask uint16

// On returns the mask with layer l active.
func (m LayerMask) On(l int) LayerMask {
	if l < 0 || l >= MaxLayers {
		return m
	}
	return m | 1<<uint(l)
}

// Off returns the mask with layer l inactive.
func (m LayerMask) Off(l int) LayerMask {
	if l < 0 || l >= MaxLayers {
		return m
	}
	return m &^ (1 << uint(l))
}

// Has reports whether layer l is active.
func (m LayerMask) Has(l int) bool {
	if l == 0 {
		return true
	}
	if l < 0 || l >= MaxLayers {
		return false
	}
	return m&(1<<uint(l)) != 0
}

// Highest returns the highest active layer, or 0.
func (m LayerMask) Highest() int {
	if m <= 1 {
		return 0
	}
	return bits.Len16(uint16(m)) - 1
}

// String returns the active layers like "0,1,3".
func (m LayerMask) String() string {
	parts := []string{"0"}
	for l := 1; l < MaxLayers; l++ {
		if m.Has(l) {
			parts = append(parts, strconv.Itoa(l))
		}
	}
	return strings.Join(parts, ",")
}
