package automaton

import "math"

// Status is the mutable automaton state of one cell.
type Status struct {
	// Level is the automaton state. It starts at 0, only grows, and
	// saturates at 255.
	Level uint8

	// HasSameLevelNeighbor is recomputed by [Cell.Evolve] every generation.
	HasSameLevelNeighbor bool
}

// Update advances the level by one if the last [Cell.Evolve] found an
// outer neighbor with the same level.
func (s *Status) Update() {
	if s.HasSameLevelNeighbor && s.Level < math.MaxUint8 {
		s.Level++
	}
}

// IsRootCell reports whether the cell reached minimumLevel.
func (s Status) IsRootCell(minimumLevel uint) bool {
	return uint(s.Level) >= minimumLevel
}
