package hits

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrHitIndexOutOfRange is returned by [NewDoublets] when a doublet
	// references a hit that does not exist.
	ErrHitIndexOutOfRange = errors.New("hit index out of range")

	// ErrDegenerateDoublet is returned by [NewDoublets] when a doublet uses
	// the same hit on both sides.
	ErrDegenerateDoublet = errors.New("doublet inner and outer hit are identical")
)

// Hit is a measurement point in detector coordinates.
type Hit struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// R returns the cylindrical radius of the hit.
func (h Hit) R() float64 { return math.Hypot(h.X, h.Y) }

// Phi returns the azimuthal angle of the hit in (-π, π].
func (h Hit) Phi() float64 { return math.Atan2(h.Y, h.X) }

// Side selects one end of a doublet.
type Side int

const (
	// Inner is the hit closer to the beam.
	Inner Side = iota
	// Outer is the hit farther from the beam.
	Outer
)

// String returns "inner" or "outer".
func (s Side) String() string {
	if s == Outer {
		return "outer"
	}
	return "inner"
}

// Pair is a doublet expressed as two hit indices.
type Pair struct {
	Inner int `json:"inner"`
	Outer int `json:"outer"`
}

// Source is the query surface of a doublet collection.
// Doublets are addressed by a dense index in [0, Len()).
type Source interface {
	Len() int
	X(doublet int, side Side) float64
	Y(doublet int, side Side) float64
	Z(doublet int, side Side) float64
	R(doublet int, side Side) float64
	Phi(doublet int, side Side) float64
	Hit(doublet int, side Side) Hit
	HitIndex(doublet int, side Side) int
}

// side holds the cached attributes of one end of every doublet.
type side struct {
	index []int
	x     []float64
	y     []float64
	z     []float64
	r     []float64
	phi   []float64
}

func newSide(n int) side {
	return side{
		index: make([]int, n),
		x:     make([]float64, n),
		y:     make([]float64, n),
		z:     make([]float64, n),
		r:     make([]float64, n),
		phi:   make([]float64, n),
	}
}

func (s *side) set(i, hitIndex int, h Hit) {
	s.index[i] = hitIndex
	s.x[i] = h.X
	s.y[i] = h.Y
	s.z[i] = h.Z
	s.r[i] = h.R()
	s.phi[i] = h.Phi()
}

// Doublets is an immutable collection of doublets over a hit slice.
// All per-side attributes are computed once in [NewDoublets].
type Doublets struct {
	hits  []Hit
	pairs []Pair
	sides [2]side
}

// NewDoublets builds a doublet collection. The hit slice is copied.
// Doublet i of the result corresponds to pairs[i].
func NewDoublets(hs []Hit, pairs []Pair) (*Doublets, error) {
	d := &Doublets{
		hits:  append([]Hit(nil), hs...),
		pairs: append([]Pair(nil), pairs...),
		sides: [2]side{newSide(len(pairs)), newSide(len(pairs))},
	}
	for i, p := range pairs {
		if p.Inner < 0 || p.Inner >= len(hs) {
			return nil, fmt.Errorf("doublet %d inner %d: %w", i, p.Inner, ErrHitIndexOutOfRange)
		}
		if p.Outer < 0 || p.Outer >= len(hs) {
			return nil, fmt.Errorf("doublet %d outer %d: %w", i, p.Outer, ErrHitIndexOutOfRange)
		}
		if p.Inner == p.Outer {
			return nil, fmt.Errorf("doublet %d: %w", i, ErrDegenerateDoublet)
		}
		d.sides[Inner].set(i, p.Inner, hs[p.Inner])
		d.sides[Outer].set(i, p.Outer, hs[p.Outer])
	}
	return d, nil
}

// Len returns the number of doublets.
func (d *Doublets) Len() int { return len(d.pairs) }

// Hits returns the underlying hits. The slice must not be modified.
func (d *Doublets) Hits() []Hit { return d.hits }

// Pairs returns the doublet index pairs. The slice must not be modified.
func (d *Doublets) Pairs() []Pair { return d.pairs }

func (d *Doublets) X(i int, s Side) float64   { return d.sides[s].x[i] }
func (d *Doublets) Y(i int, s Side) float64   { return d.sides[s].y[i] }
func (d *Doublets) Z(i int, s Side) float64   { return d.sides[s].z[i] }
func (d *Doublets) R(i int, s Side) float64   { return d.sides[s].r[i] }
func (d *Doublets) Phi(i int, s Side) float64 { return d.sides[s].phi[i] }

// HitIndex returns the index into Hits of one end of doublet i.
func (d *Doublets) HitIndex(i int, s Side) int { return d.sides[s].index[i] }

// Hit returns the raw hit at one end of doublet i.
func (d *Doublets) Hit(i int, s Side) Hit { return d.hits[d.sides[s].index[i]] }

var _ Source = (*Doublets)(nil)
