package automaton

import "github.com/matzehuels/tricktrack/pkg/hits"

// Cell is the node of the automaton: one doublet plus the indices of its
// outer neighbors.
//
// The inner radius and z are cached because every compatibility test with
// this cell as the inner member reads them. The zero value is not usable;
// create cells with [NewCell].
type Cell struct {
	doublets hits.Source
	doublet  int
	innerR   float64
	innerZ   float64

	outerNeighbors []int
}

// NewCell wraps doublet i of src.
func NewCell(src hits.Source, i int) Cell {
	return Cell{
		doublets: src,
		doublet:  i,
		innerR:   src.R(i, hits.Inner),
		innerZ:   src.Z(i, hits.Inner),
	}
}

// Doublet returns the index of the wrapped doublet.
func (c *Cell) Doublet() int { return c.doublet }

func (c *Cell) InnerHit() hits.Hit { return c.doublets.Hit(c.doublet, hits.Inner) }
func (c *Cell) OuterHit() hits.Hit { return c.doublets.Hit(c.doublet, hits.Outer) }

// InnerHitIndex and OuterHitIndex return the hit indices in the source.
func (c *Cell) InnerHitIndex() int { return c.doublets.HitIndex(c.doublet, hits.Inner) }
func (c *Cell) OuterHitIndex() int { return c.doublets.HitIndex(c.doublet, hits.Outer) }

func (c *Cell) InnerX() float64   { return c.doublets.X(c.doublet, hits.Inner) }
func (c *Cell) OuterX() float64   { return c.doublets.X(c.doublet, hits.Outer) }
func (c *Cell) InnerY() float64   { return c.doublets.Y(c.doublet, hits.Inner) }
func (c *Cell) OuterY() float64   { return c.doublets.Y(c.doublet, hits.Outer) }
func (c *Cell) InnerZ() float64   { return c.innerZ }
func (c *Cell) OuterZ() float64   { return c.doublets.Z(c.doublet, hits.Outer) }
func (c *Cell) InnerR() float64   { return c.innerR }
func (c *Cell) OuterR() float64   { return c.doublets.R(c.doublet, hits.Outer) }
func (c *Cell) InnerPhi() float64 { return c.doublets.Phi(c.doublet, hits.Inner) }
func (c *Cell) OuterPhi() float64 { return c.doublets.Phi(c.doublet, hits.Outer) }

// OuterNeighbors returns the indices of the cells chained onto this one,
// in the order they were tagged. The slice must not be modified.
func (c *Cell) OuterNeighbors() []int { return c.outerNeighbors }

// TagAsOuterNeighbor appends other to the outer neighbor list.
// The list is append-only; it is never reordered or pruned.
func (c *Cell) TagAsOuterNeighbor(other int) {
	c.outerNeighbors = append(c.outerNeighbors, other)
}

// Evolve is the read phase of one generation. It sets the has-same-level
// flag of cell me, whose state is statuses[me], to whether any outer
// neighbor currently has the same level. Only statuses[me] is written.
func (c *Cell) Evolve(me int, statuses []Status) {
	level := statuses[me].Level
	statuses[me].HasSameLevelNeighbor = false
	for _, n := range c.outerNeighbors {
		if statuses[n].Level == level {
			statuses[me].HasSameLevelNeighbor = true
			return
		}
	}
}
