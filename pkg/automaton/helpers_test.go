package automaton

import (
	"math"
	"testing"

	"github.com/matzehuels/tricktrack/pkg/hits"
)

// looseParams accepts straight tracks from the origin.
var looseParams = Params{
	PtMin:              0.5,
	RegionOriginRadius: 0.1,
	ThetaCut:           0.01,
	PhiCut:             0.1,
	HardPtCut:          0,
}

func mustDoublets(t *testing.T, hs []hits.Hit, pairs []hits.Pair) *hits.Doublets {
	t.Helper()
	d, err := hits.NewDoublets(hs, pairs)
	if err != nil {
		t.Fatalf("NewDoublets() error: %v", err)
	}
	return d
}

// lineEvent returns n hits on a straight line through the origin and the
// n-1 doublets joining consecutive hits.
func lineEvent(t *testing.T, n int) *hits.Doublets {
	t.Helper()
	hs := make([]hits.Hit, n)
	pairs := make([]hits.Pair, 0, n-1)
	for i := range hs {
		k := float64(i + 1)
		hs[i] = hits.Hit{X: 3 * k, Y: 4 * k, Z: 2 * k}
		if i > 0 {
			pairs = append(pairs, hits.Pair{Inner: i - 1, Outer: i})
		}
	}
	return mustDoublets(t, hs, pairs)
}

// arcPoints returns points on a circle of the given radius centred at
// (radius, 0), so the circle passes through the origin. Angles are measured
// from the origin along the circle.
func arcPoints(radius float64, angles ...float64) []hits.Hit {
	out := make([]hits.Hit, len(angles))
	for i, a := range angles {
		out[i] = hits.Hit{X: radius * (1 - math.Cos(a)), Y: radius * math.Sin(a)}
	}
	return out
}

func neighborsOf(g *Graph) [][]int {
	out := make([][]int, g.Len())
	for i := range g.Cells {
		out[i] = g.Cells[i].OuterNeighbors()
	}
	return out
}
