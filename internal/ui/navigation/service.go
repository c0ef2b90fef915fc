package navigation

// Service owns the two-axis selection state machine over the combined
// result list: a horizontal quick-launch row and a vertical detailed
// column. List lengths are queried through injected functions so the
// service never holds stale copies.
type Service struct {
	state State
	hLen  func() int
	vLen  func() int
}

// NewService creates a navigation service over the given length queries
func NewService(hLen, vLen func() int) *Service {
	return &Service{
		state: State{ViewportHeight: 20},
		hLen:  hLen,
		vLen:  vLen,
	}
}

// Selection returns the current selection
func (s *Service) Selection() Selection {
	return s.state.Selection
}

// ViewportOffset returns the vertical list's scroll offset
func (s *Service) ViewportOffset() int {
	return s.state.ViewportOffset
}

// ViewportHeight returns the vertical list's visible row count
func (s *Service) ViewportHeight() int {
	return s.state.ViewportHeight
}

// SetViewportHeight updates the visible row count
func (s *Service) SetViewportHeight(height int) {
	if height < 1 {
		height = 1
	}
	s.state.ViewportHeight = height
	s.ensureVisible()
}

// OnResultsChanged applies the initial-selection rule after the combined
// list was recomputed: horizontal(0), else vertical(0), else none. The
// reset is suppressed once after a horizontal-to-vertical jump; then the
// current selection is only clamped into bounds.
func (s *Service) OnResultsChanged() {
	if s.state.suppressReset {
		s.state.suppressReset = false
		s.clamp()
		return
	}

	switch {
	case s.hLen() > 0:
		s.state.Selection = Selection{Axis: AxisHorizontal}
	case s.vLen() > 0:
		s.state.Selection = Selection{Axis: AxisVertical}
		s.state.ViewportOffset = 0
	default:
		s.state.Selection = Selection{}
	}
	s.ensureVisible()
}

// Restore sets the selection directly, clamped into bounds. Used when the
// list was recomputed for a reason that must not move the cursor, such as
// a display-window growth.
func (s *Service) Restore(sel Selection) {
	s.state.Selection = sel
	s.clamp()
}

// Reset clears the selection entirely (query cleared)
func (s *Service) Reset() {
	s.state = State{ViewportHeight: s.state.ViewportHeight}
}

// Down moves the selection downward. From the horizontal row it jumps
// into the vertical list; from nothing it lands on the first item.
func (s *Service) Down() {
	sel := s.state.Selection
	switch sel.Axis {
	case AxisNone:
		if s.hLen() > 0 {
			s.state.Selection = Selection{Axis: AxisHorizontal}
		} else if s.vLen() > 0 {
			s.state.Selection = Selection{Axis: AxisVertical}
		}
	case AxisHorizontal:
		if s.vLen() > 0 {
			s.state.Selection = Selection{Axis: AxisVertical}
			s.state.suppressReset = true
		}
	case AxisVertical:
		if sel.Index+1 < s.vLen() {
			s.state.Selection.Index = sel.Index + 1
		}
	}
	s.ensureVisible()
}

// Up moves the selection upward. Returns true when the selection left
// the lists and the text input should take focus back.
func (s *Service) Up() bool {
	sel := s.state.Selection
	switch sel.Axis {
	case AxisHorizontal:
		if sel.Index > 0 {
			s.state.Selection.Index = sel.Index - 1
			return false
		}
		s.state.Selection = Selection{}
		return true
	case AxisVertical:
		if sel.Index > 0 {
			s.state.Selection.Index = sel.Index - 1
			s.ensureVisible()
			return false
		}
		if s.hLen() > 0 {
			s.state.Selection = Selection{Axis: AxisHorizontal}
			return false
		}
		s.state.Selection = Selection{}
		return true
	}
	return false
}

// Right cycles forward through the quick-launch row; from the vertical
// list it jumps to the first horizontal entry.
func (s *Service) Right() {
	h := s.hLen()
	if h == 0 {
		return
	}

	sel := s.state.Selection
	switch sel.Axis {
	case AxisHorizontal:
		s.state.Selection.Index = (sel.Index + 1) % h
	case AxisVertical:
		s.state.Selection = Selection{Axis: AxisHorizontal, Index: 0}
	}
}

// Left cycles backward through the quick-launch row; from the vertical
// list it jumps to the last horizontal entry.
func (s *Service) Left() {
	h := s.hLen()
	if h == 0 {
		return
	}

	sel := s.state.Selection
	switch sel.Axis {
	case AxisHorizontal:
		s.state.Selection.Index = (sel.Index - 1 + h) % h
	case AxisVertical:
		s.state.Selection = Selection{Axis: AxisHorizontal, Index: h - 1}
	}
}

// clamp forces the selection back into bounds after a list shrank,
// falling back to the initial-selection rule when its list emptied.
func (s *Service) clamp() {
	sel := s.state.Selection
	switch sel.Axis {
	case AxisHorizontal:
		if h := s.hLen(); h == 0 {
			s.resetToFirst()
		} else if sel.Index >= h {
			s.state.Selection.Index = h - 1
		}
	case AxisVertical:
		if v := s.vLen(); v == 0 {
			s.resetToFirst()
		} else if sel.Index >= v {
			s.state.Selection.Index = v - 1
		}
	}
	s.ensureVisible()
}

func (s *Service) resetToFirst() {
	switch {
	case s.hLen() > 0:
		s.state.Selection = Selection{Axis: AxisHorizontal}
	case s.vLen() > 0:
		s.state.Selection = Selection{Axis: AxisVertical}
	default:
		s.state.Selection = Selection{}
	}
}

// ensureVisible keeps a vertical selection inside the viewport
func (s *Service) ensureVisible() {
	if s.state.Selection.Axis != AxisVertical {
		return
	}

	idx := s.state.Selection.Index
	if idx < s.state.ViewportOffset {
		s.state.ViewportOffset = idx
	} else if idx >= s.state.ViewportOffset+s.state.ViewportHeight {
		s.state.ViewportOffset = idx - s.state.ViewportHeight + 1
	}
	if s.state.ViewportOffset < 0 {
		s.state.ViewportOffset = 0
	}
}
