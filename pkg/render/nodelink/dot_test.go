package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/tricktrack/pkg/automaton"
	"github.com/matzehuels/tricktrack/pkg/hits"
)

// chainGraph links cells 0 -> 1 -> 2 and leaves cell 3 isolated.
func chainGraph(t *testing.T) *automaton.Graph {
	t.Helper()
	hs := []hits.Hit{{X: 3, Y: 4, Z: 2}, {X: 6, Y: 8, Z: 4}, {X: 9, Y: 12, Z: 6}, {X: 12, Y: 16, Z: 8}, {X: -5, Y: 1}}
	d, err := hits.NewDoublets(hs, []hits.Pair{{Inner: 0, Outer: 1}, {Inner: 1, Outer: 2}, {Inner: 2, Outer: 3}, {Inner: 0, Outer: 4}})
	if err != nil {
		t.Fatal(err)
	}
	g := automaton.NewGraph(d)
	g.Cells[0].TagAsOuterNeighbor(1)
	g.Cells[1].TagAsOuterNeighbor(2)
	g.EvolveUntilStable(0)
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(chainGraph(t), Options{MinimumLevel: 2})

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		`c0 [label="d0  L2", fillcolor="#f4a261", penwidth=2];`,
		`c1 [label="d1  L1"];`,
		`c3 [label="d3  L0"];`,
		"c0 -> c1;",
		"c1 -> c2;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Count(dot, "->") != 2 {
		t.Errorf("ToDOT() has %d edges, want 2", strings.Count(dot, "->"))
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("ToDOT() should close the graph")
	}
}

func TestToDOTHideIsolated(t *testing.T) {
	dot := ToDOT(chainGraph(t), Options{HideIsolated: true, MinimumLevel: 2})
	if strings.Contains(dot, "c3 [") {
		t.Errorf("isolated cell rendered:\n%s", dot)
	}
	if !strings.Contains(dot, "c2 [") {
		t.Errorf("linked leaf cell missing:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(chainGraph(t), Options{Detailed: true, MinimumLevel: 2})
	if !strings.Contains(dot, `hits: 0 -> 1`) || !strings.Contains(dot, `r: 5  z: 2`) {
		t.Errorf("detailed labels missing hit data:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s, want %s", out, want)
	}

	noBox := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(noBox)) != string(noBox) {
		t.Error("normalizeViewBox() should leave svg without viewBox untouched")
	}
}
