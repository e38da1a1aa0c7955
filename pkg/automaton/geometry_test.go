package automaton

import (
	"math"
	"testing"

	"github.com/matzehuels/tricktrack/pkg/hits"
)

func TestAlignedRZ(t *testing.T) {
	tests := []struct {
		name       string
		r1, z1     float64
		r2, z2     float64
		r3, z3     float64
		ptmin, cut float64
		want       bool
	}{
		{"straight", 1, 1, 2, 2, 3, 3, 1, 0.002, true},
		{"flat z", 1, 0, 2, 0, 3, 0, 1, 0.002, true},
		{"small kink within cut", 4, 1, 8, 2.001, 12, 3, 0.5, 0.01, true},
		{"large kink", 1, 0, 2, 5, 3, 0, 1, 0.002, false},
		{"kink rejected by higher ptmin", 4, 1, 8, 2.05, 12, 3, 10, 0.01, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alignedRZ(tt.r1, tt.z1, tt.r2, tt.z2, tt.r3, tt.z3, tt.ptmin, tt.cut)
			if got != tt.want {
				t.Errorf("alignedRZ() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAlignedRZSymmetric(t *testing.T) {
	triples := [][6]float64{
		{1, 1, 2, 2, 3, 3},
		{4, 1, 8, 2.001, 12, 3},
		{1, 0, 2, 5, 3, 0},
		{2.5, -3, 5, -1, 9, 4},
		{10, 20, 15, 31, 25, 49},
	}
	for _, p := range triples {
		for _, cut := range []float64{0.0005, 0.002, 0.05} {
			forward := alignedRZ(p[0], p[1], p[2], p[3], p[4], p[5], 0.8, cut)
			backward := alignedRZ(p[4], p[5], p[2], p[3], p[0], p[1], 0.8, cut)
			if forward != backward {
				t.Errorf("alignedRZ(%v, cut=%v) forward = %v, reversed = %v", p, cut, forward, backward)
			}
		}
	}
}

func TestCellAreAlignedRZ(t *testing.T) {
	d := lineEvent(t, 3)
	g := NewGraph(d)
	inner, outer := &g.Cells[0], &g.Cells[1]

	if !outer.AreAlignedRZ(inner.InnerR(), inner.InnerZ(), outer.OuterR(), outer.OuterZ(), 0.5, 0.002) {
		t.Error("AreAlignedRZ() rejected collinear cells")
	}
}

func TestSimilarCurvatureStraight(t *testing.T) {
	tests := []struct {
		name string
		pts  [3][2]float64
		want bool
	}{
		{"line through beam center", [3][2]float64{{1, 1}, {2, 2}, {3, 3}}, true},
		{"line through beam center, reversed", [3][2]float64{{3, 3}, {2, 2}, {1, 1}}, true},
		{"line missing beam region", [3][2]float64{{1, 10}, {2, 10}, {3, 10}}, false},
		{"line within tolerance", [3][2]float64{{1, 0.1}, {2, 0.1}, {3, 0.1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.pts
			got := similarCurvature(p[0][0], p[0][1], p[1][0], p[1][1], p[2][0], p[2][1], 1, 0, 0, 0.1, 0.1, 1)
			if got != tt.want {
				t.Errorf("similarCurvature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilarCurvatureCircle(t *testing.T) {
	angles := []float64{0.2, 0.4, 0.6}
	tests := []struct {
		name      string
		radius    float64
		hardPtCut float64
		shiftX    float64
		want      bool
	}{
		{"radius above hard cut", 200, 1, 0, true},
		{"radius below hard cut", 50, 1, 0, false},
		{"small radius without hard cut", 50, 0, 0, true},
		{"hard cut just below radius", 200, 2.2, 0, true},
		{"hard cut above radius", 200, 2.4, 0, false},
		{"circle missing beam region", 200, 1, 50, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := arcPoints(tt.radius, angles...)
			for i := range p {
				p[i].X += tt.shiftX
			}
			got := similarCurvature(p[0].X, p[0].Y, p[1].X, p[1].Y, p[2].X, p[2].Y, 1, 0, 0, 0, 1, tt.hardPtCut)
			if got != tt.want {
				t.Errorf("similarCurvature(R=%v, hardPtCut=%v) = %v, want %v", tt.radius, tt.hardPtCut, got, tt.want)
			}
		})
	}
}

func TestSimilarCurvatureDegenerate(t *testing.T) {
	// First and last hit coincide.
	if similarCurvature(1, 1, 2, 2, 1, 1, 1, 0, 0, 1, 1, 0) {
		t.Error("similarCurvature() accepted coincident end points")
	}
	// Nearly collinear: a tiny ptmin routes it to the straight branch, a
	// huge one to the curved branch with a very large radius. Both agree.
	for _, ptmin := range []float64{1e-12, 1e6} {
		if !similarCurvature(1, 0, 2, 1e-9, 3, 0, ptmin, 0, 0, 0.1, 0.1, 0) {
			t.Errorf("similarCurvature(ptmin=%v) rejected a near-straight triplet through the beam region", ptmin)
		}
		if similarCurvature(1, 5, 2, 5+1e-9, 3, 5, ptmin, 0, 0, 0.1, 0.1, 0) {
			t.Errorf("similarCurvature(ptmin=%v) accepted a near-straight triplet far from the beam region", ptmin)
		}
	}
}

func TestHaveSimilarCurvature(t *testing.T) {
	arc := arcPoints(200, 0.2, 0.4, 0.6)
	d := mustDoublets(t, arc, []hits.Pair{{Inner: 0, Outer: 1}, {Inner: 1, Outer: 2}})
	g := NewGraph(d)

	if !g.Cells[1].HaveSimilarCurvature(&g.Cells[0], 1, 0, 0, 0, 1, 1) {
		t.Error("HaveSimilarCurvature() rejected cells on a circle through the beam center")
	}
	if g.Cells[1].HaveSimilarCurvature(&g.Cells[0], 1, 0, 0, 0, 1, 3) {
		t.Error("HaveSimilarCurvature() accepted a circle below the hard pt cut")
	}
}

func TestParamsValidate(t *testing.T) {
	if err := looseParams.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	tests := []struct {
		name   string
		modify func(*Params)
	}{
		{"negative ptmin", func(p *Params) { p.PtMin = -1 }},
		{"nan theta", func(p *Params) { p.ThetaCut = math.NaN() }},
		{"inf origin", func(p *Params) { p.RegionOriginX = math.Inf(1) }},
		{"negative radius", func(p *Params) { p.RegionOriginRadius = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := looseParams
			tt.modify(&p)
			if err := p.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestMinRadius(t *testing.T) {
	p := Params{HardPtCut: 2}
	if got := p.MinRadius(); got != 174 {
		t.Errorf("MinRadius() = %v, want 174", got)
	}
}
