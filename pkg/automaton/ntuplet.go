package automaton

import "slices"

// FindNtuplets walks the outer neighbor graph depth first from c and
// appends every chain of exactly minHits-1 cells to found.
//
// path is the chain so far and must already end with c; for a root it is
// Ntuplet{root}. path is used as the backtracking buffer: neighbors are
// appended before each descent and removed after it, so the caller's
// contents are unchanged on return. Emitted chains are copies.
//
// Branches that run out of neighbors before reaching the target length are
// dropped. Chains may share prefixes and cells; nothing is deduplicated.
//
// A chain always holds at least one cell, so for minHits <= 2 the path
// itself is emitted without descending, even when c is a leaf. The
// pipeline rejects such values through errors.ValidateMinHits.
func (c *Cell) FindNtuplets(cells []Cell, found []Ntuplet, path Ntuplet, minHits int) []Ntuplet {
	if len(path) >= minHits-1 {
		return append(found, slices.Clone(path))
	}
	for _, n := range c.outerNeighbors {
		path = append(path, n)
		found = cells[n].FindNtuplets(cells, found, path, minHits)
		path = path[:len(path)-1]
	}
	return found
}

// Hits returns the hit indices covered by the chain, inner to outer:
// the inner hit of every cell followed by the outer hit of the last one.
func (t Ntuplet) Hits(cells []Cell) []int {
	if len(t) == 0 {
		return nil
	}
	out := make([]int, 0, len(t)+1)
	for _, c := range t {
		out = append(out, cells[c].InnerHitIndex())
	}
	return append(out, cells[t[len(t)-1]].OuterHitIndex())
}
