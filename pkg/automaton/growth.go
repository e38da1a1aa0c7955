package automaton

import "slices"

// Ntuplet is an ordered chain of cell indices, inner to outer.
// A chain of k cells covers k+1 hits.
type Ntuplet []int

// Action selects what [Cell.CheckAlignmentAndAct] does with a compatible
// inner cell.
type Action uint8

const (
	// ActionTag records this cell as an outer neighbor of the inner cell.
	ActionTag Action = iota
	// ActionPush emits the pair as a triplet and leaves adjacency untouched.
	ActionPush
)

// String returns "tag" or "push".
func (a Action) String() string {
	if a == ActionPush {
		return "push"
	}
	return "tag"
}

// batchSize is the number of candidates whose r-z test is evaluated before
// any result is branched on.
const batchSize = 16

// batch holds the gathered inputs and results of one candidate group.
type batch struct {
	r1 [batchSize]float64
	z1 [batchSize]float64
	ok [batchSize]bool
}

// forEachCompatible calls fn, in candidate order, for every cell index in
// innerCells that passes both compatibility tests with cell c.
func (c *Cell) forEachCompatible(cells []Cell, innerCells []int, p Params, fn func(inner int)) {
	ro := c.OuterR()
	zo := c.OuterZ()

	var b batch
	for start := 0; start < len(innerCells); start += batchSize {
		group := innerCells[start:min(start+batchSize, len(innerCells))]

		for j, k := range group {
			b.r1[j] = cells[k].InnerR()
			b.z1[j] = cells[k].InnerZ()
		}
		for j := range group {
			b.ok[j] = c.AreAlignedRZ(b.r1[j], b.z1[j], ro, zo, p.PtMin, p.ThetaCut)
		}
		for j, k := range group {
			if b.ok[j] && c.HaveSimilarCurvature(&cells[k], p.PtMin, p.RegionOriginX, p.RegionOriginY,
				p.RegionOriginRadius, p.PhiCut, p.HardPtCut) {
				fn(k)
			}
		}
	}
}

// CheckAlignmentAndAct tests every candidate in innerCells against cell me
// and applies action to the compatible ones. c must be &cells[me].
//
// With [ActionTag], me is appended to the outer neighbor list of each
// compatible candidate and found is returned unchanged. With [ActionPush],
// Ntuplet{candidate, me} is appended to found for each compatible candidate.
func (c *Cell) CheckAlignmentAndAct(cells []Cell, me int, innerCells []int, p Params, action Action, found []Ntuplet) []Ntuplet {
	c.forEachCompatible(cells, innerCells, p, func(k int) {
		switch action {
		case ActionPush:
			found = append(found, Ntuplet{k, me})
		default:
			cells[k].TagAsOuterNeighbor(me)
		}
	})
	return found
}

// CheckAlignmentAndTag grows the graph: every compatible candidate in
// innerCells gets cell me appended to its outer neighbors.
func (c *Cell) CheckAlignmentAndTag(cells []Cell, me int, innerCells []int, p Params) {
	c.CheckAlignmentAndAct(cells, me, innerCells, p, ActionTag, nil)
}

// CheckAlignmentAndPushTriplet appends a two-cell chain {candidate, me} to
// found for every compatible candidate in innerCells and returns the
// extended slice. No adjacency is modified.
func (c *Cell) CheckAlignmentAndPushTriplet(cells []Cell, me int, innerCells []int, found []Ntuplet, p Params) []Ntuplet {
	return c.CheckAlignmentAndAct(cells, me, innerCells, p, ActionPush, found)
}

// CompatibleInner returns the candidates in innerCells that are compatible
// with c, in candidate order. It only reads cells and may run concurrently
// with other readers.
func (c *Cell) CompatibleInner(cells []Cell, innerCells []int, p Params) []int {
	var out []int
	c.forEachCompatible(cells, innerCells, p, func(k int) {
		out = append(out, k)
	})
	return slices.Clip(out)
}
