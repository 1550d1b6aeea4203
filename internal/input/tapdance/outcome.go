package tapdance

// Outcome is the classification of one finished gesture.
type Outcome int

const (
	// Unclassified means no gesture is open.
	Unclassified Outcome = iota

	// Unknown is a tap count the dance does not model (0 or 4+).
	Unknown

	// SingleHold is one press still held when the window closed.
	SingleHold

	// SingleTap is one press released, or interrupted, inside the window.
	SingleTap

	// DoubleTap is two taps inside the window.
	DoubleTap

	// TripleTap is three taps inside the window.
	TripleTap

	outcomeCount
)

// Outcomes lists every Outcome in declaration order.
func Outcomes() []Outcome {
	out := make([]Outcome, 0, outcomeCount)
	for o := Unclassified; o < outcomeCount; o++ {
		out = append(out, o)
	}
	return out
}

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Unclassified:
		return "none"
	case Unknown:
		return "unknown"
	case SingleHold:
		return "single-hold"
	case SingleTap:
		return "single-tap"
	case DoubleTap:
		return "double-tap"
	case TripleTap:
		return "triple-tap"
	default:
		return "invalid"
	}
}

// Valid returns true for the six declared outcomes.
func (o Outcome) Valid() bool {
	return o >= Unclassified && o < outcomeCount
}
