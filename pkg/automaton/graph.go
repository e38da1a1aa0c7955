package automaton

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tricktrack/pkg/hits"
)

// Graph is the cell collection of one processing round.
//
// Cells and Status are parallel slices: Status[i] is the automaton state of
// Cells[i], and cell i wraps doublet i of the source. Neither slice is
// resized after [NewGraph], so cell indices stay valid for the whole round.
//
// Graph is not safe for concurrent mutation; the Parallel methods manage
// their own goroutines.
type Graph struct {
	Cells  []Cell
	Status []Status

	src   hits.Source
	inner [][]int
}

// NewGraph creates one cell per doublet of src, with all levels at 0 and
// no neighbors.
func NewGraph(src hits.Source) *Graph {
	n := src.Len()
	g := &Graph{
		Cells:  make([]Cell, n),
		Status: make([]Status, n),
		src:    src,
	}
	for i := range g.Cells {
		g.Cells[i] = NewCell(src, i)
	}
	return g
}

// Source returns the doublet source the graph was built from.
func (g *Graph) Source() hits.Source { return g.src }

// Len returns the number of cells.
func (g *Graph) Len() int { return len(g.Cells) }

// InnerCandidates returns, for every cell, the cells whose outer hit is the
// cell's inner hit, in ascending index order. These are the only cells that
// can precede it on a chain. The result is computed once and shared.
func (g *Graph) InnerCandidates() [][]int {
	if g.inner != nil {
		return g.inner
	}
	byOuterHit := make(map[int][]int)
	for i := range g.Cells {
		h := g.Cells[i].OuterHitIndex()
		byOuterHit[h] = append(byOuterHit[h], i)
	}
	g.inner = make([][]int, len(g.Cells))
	for i := range g.Cells {
		g.inner[i] = byOuterHit[g.Cells[i].InnerHitIndex()]
	}
	return g.inner
}

// Grow runs [Cell.CheckAlignmentAndTag] for every cell against its inner
// candidates, in cell order.
func (g *Graph) Grow(p Params) {
	inner := g.InnerCandidates()
	for i := range g.Cells {
		g.Cells[i].CheckAlignmentAndTag(g.Cells, i, inner[i], p)
	}
}

// GrowParallel produces the same adjacency as [Graph.Grow].
//
// Matches are computed concurrently by up to workers goroutines (all CPUs
// when workers <= 0), each writing only its own result slot. Tags are then
// applied sequentially in cell order, so neighbor lists are ordered exactly
// as in the sequential version.
func (g *Graph) GrowParallel(ctx context.Context, p Params, workers int) error {
	inner := g.InnerCandidates()
	matches := make([][]int, len(g.Cells))

	err := g.forEachCell(ctx, workers, func(i int) {
		matches[i] = g.Cells[i].CompatibleInner(g.Cells, inner[i], p)
	})
	if err != nil {
		return err
	}

	for i, ks := range matches {
		for _, k := range ks {
			g.Cells[k].TagAsOuterNeighbor(i)
		}
	}
	return nil
}

// Triplets runs [Cell.CheckAlignmentAndPushTriplet] for every cell and
// returns the emitted two-cell chains. The graph is left unchanged.
func (g *Graph) Triplets(p Params) []Ntuplet {
	inner := g.InnerCandidates()
	var found []Ntuplet
	for i := range g.Cells {
		found = g.Cells[i].CheckAlignmentAndPushTriplet(g.Cells, i, inner[i], found, p)
	}
	return found
}

// Evolve runs one automaton generation: the read phase on every cell, then
// the write phase on every cell. It reports whether any level changed.
func (g *Graph) Evolve() bool {
	for i := range g.Cells {
		g.Cells[i].Evolve(i, g.Status)
	}
	changed := false
	for i := range g.Status {
		before := g.Status[i].Level
		g.Status[i].Update()
		changed = changed || g.Status[i].Level != before
	}
	return changed
}

// EvolveUntilStable calls [Graph.Evolve] until no level changes or
// maxIterations generations ran (no limit when maxIterations <= 0).
// It returns the number of generations that changed at least one level.
//
// Levels saturate, so the loop ends even on cyclic graphs.
func (g *Graph) EvolveUntilStable(maxIterations int) int {
	n := 0
	for maxIterations <= 0 || n < maxIterations {
		if !g.Evolve() {
			break
		}
		n++
	}
	return n
}

// Roots returns the indices of cells whose level reached minimumLevel.
func (g *Graph) Roots(minimumLevel uint) []int {
	var roots []int
	for i, s := range g.Status {
		if s.IsRootCell(minimumLevel) {
			roots = append(roots, i)
		}
	}
	return roots
}

// FindNtuplets extracts the chains of minHits hits starting at each root,
// in root order.
func (g *Graph) FindNtuplets(roots []int, minHits int) []Ntuplet {
	var found []Ntuplet
	path := make(Ntuplet, 0, max(minHits, 1))
	for _, r := range roots {
		path = append(path[:0], r)
		found = g.Cells[r].FindNtuplets(g.Cells, found, path, minHits)
	}
	return found
}

// FindNtupletsParallel is [Graph.FindNtuplets] spread over up to workers
// goroutines, each root with its own path buffer. The result is identical,
// including order. The graph must not be grown concurrently.
func (g *Graph) FindNtupletsParallel(ctx context.Context, roots []int, minHits, workers int) ([]Ntuplet, error) {
	perRoot := make([][]Ntuplet, len(roots))
	err := forEach(ctx, len(roots), workers, func(j int) {
		path := make(Ntuplet, 1, max(minHits, 1))
		path[0] = roots[j]
		perRoot[j] = g.Cells[roots[j]].FindNtuplets(g.Cells, nil, path, minHits)
	})
	if err != nil {
		return nil, err
	}

	var found []Ntuplet
	for _, ts := range perRoot {
		found = append(found, ts...)
	}
	return found, nil
}

// EdgeCount returns the total number of outer neighbor links.
func (g *Graph) EdgeCount() int {
	n := 0
	for i := range g.Cells {
		n += len(g.Cells[i].outerNeighbors)
	}
	return n
}

func (g *Graph) forEachCell(ctx context.Context, workers int, fn func(i int)) error {
	return forEach(ctx, len(g.Cells), workers, fn)
}

const cancelCheckInterval = 256

// forEach calls fn(i) for i in [0, n) from up to workers goroutines,
// splitting the range into contiguous chunks. Each worker checks ctx before
// its first index and every cancelCheckInterval indices after that.
func forEach(ctx context.Context, n, workers int, fn func(i int)) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, max(n, 1))
	chunk := (n + workers - 1) / workers

	eg, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				fn(i)
			}
			return nil
		})
	}
	return eg.Wait()
}
