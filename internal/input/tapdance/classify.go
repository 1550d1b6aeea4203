package tapdance

// State is what the host knows about a tap dance when its window closes.
type State struct {
	// Count is the number of consecutive taps inside the window.
	Count int

	// Interrupted is true if another key was pressed before the window closed.
	Interrupted bool

	// Pressed is true if the key is still physically down.
	Pressed bool
}

// Classify maps a closed tap-dance window to an Outcome.
//
// A single tap is a hold only when the key is still down and nothing
// interrupted it. Two and three taps are classified by count alone. Any other
// count is Unknown.
func Classify(st State) Outcome {
	switch st.Count {
	case 1:
		if st.Interrupted || !st.Pressed {
			return SingleTap
		}
		return SingleHold
	case 2:
		return DoubleTap
	case 3:
		return TripleTap
	default:
		return Unknown
	}
}
