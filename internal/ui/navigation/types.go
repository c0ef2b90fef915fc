package navigation

// Axis identifies which list the selection lives on
type Axis int

const (
	AxisNone Axis = iota
	AxisHorizontal
	AxisVertical
)

// Selection is the current selected item: nothing, the i-th quick-launch
// entry, or the j-th vertical entry. At most one index is meaningful.
type Selection struct {
	Axis  Axis
	Index int
}

// None reports whether nothing is selected
func (s Selection) None() bool { return s.Axis == AxisNone }

// State holds all navigation-related state
type State struct {
	Selection      Selection
	ViewportOffset int
	ViewportHeight int

	// suppressReset skips the next results-changed reset so it cannot
	// fight the keypress that just jumped from the horizontal row into
	// the vertical list
	suppressReset bool
}
