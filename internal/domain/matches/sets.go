package matches

// SetScore is the in-progress set.
type SetScore struct {
	SetNumber int `json:"setNumber"`
	PointsA   int `json:"pointsA"`
	PointsB   int `json:"pointsB"`
}

// Points returns the running points for a side.
func (s *SetScore) Points(side Side) int {
	if side == SideB {
		return s.PointsB
	}
	return s.PointsA
}

// SetPoints overwrites the running points for a side.
func (s *SetScore) SetPoints(side Side, value int) {
	if side == SideB {
		s.PointsB = value
		return
	}
	s.PointsA = value
}

// SetResult is an immutable record of a completed set.
type SetResult struct {
	SetNumber int  `json:"setNumber"`
	PointsA   int  `json:"pointsA"`
	PointsB   int  `json:"pointsB"`
	Winner    Side `json:"winner"`
}

// SetState is the set-sport sub-state.
type SetState struct {
	MaxSets       int         `json:"maxSets"`
	Current       *SetScore   `json:"currentSet"`
	Details       []SetResult `json:"setDetails"`
	CurrentServer Side        `json:"currentServer,omitempty"`
}

// NewSetState builds an empty best-of-maxSets state.
func NewSetState(maxSets int) *SetState {
	return &SetState{MaxSets: maxSets, Details: []SetResult{}}
}

// SetsToWin is the majority of maxSets.
func (s *SetState) SetsToWin() int {
	return (s.MaxSets + 1) / 2
}

// NextSetNumber is one past the highest completed set.
func (s *SetState) NextSetNumber() int {
	next := 1
	for _, d := range s.Details {
		if d.SetNumber >= next {
			next = d.SetNumber + 1
		}
	}
	return next
}

func (s SetState) clone() SetState {
	out := s
	if s.Current != nil {
		c := *s.Current
		out.Current = &c
	}
	out.Details = cloneSlice(s.Details)
	return out
}
