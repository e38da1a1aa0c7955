package automaton

import (
	"fmt"
	"math"
)

const (
	// CmPerGeV converts a transverse momentum in GeV to a helix radius in cm
	// for a 3.8 T solenoid: 1 / (3.8 * 0.3).
	CmPerGeV = 87.0

	// straightTolerance is the bending below which three hits are treated
	// as lying on a straight line.
	straightTolerance = 1.0e-4
)

// Params holds the cuts of the compatibility tests.
type Params struct {
	// PtMin is the minimum transverse momentum (GeV) of accepted tracks.
	PtMin float64 `json:"ptmin"`

	// RegionOriginX, RegionOriginY and RegionOriginRadius describe the
	// beam region disk in the x-y plane (cm).
	RegionOriginX      float64 `json:"region_origin_x"`
	RegionOriginY      float64 `json:"region_origin_y"`
	RegionOriginRadius float64 `json:"region_origin_radius"`

	// ThetaCut is the r-z alignment tolerance.
	ThetaCut float64 `json:"theta_cut"`

	// PhiCut inflates the beam region radius in the x-y test (cm).
	PhiCut float64 `json:"phi_cut"`

	// HardPtCut rejects curved triplets below this pt (GeV).
	HardPtCut float64 `json:"hard_pt_cut"`
}

// Validate reports the first non-finite or negative cut.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"ptmin", p.PtMin},
		{"region_origin_radius", p.RegionOriginRadius},
		{"theta_cut", p.ThetaCut},
		{"phi_cut", p.PhiCut},
		{"hard_pt_cut", p.HardPtCut},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be finite, got %v", f.name, f.v)
		}
		if f.v < 0 {
			return fmt.Errorf("%s must not be negative, got %v", f.name, f.v)
		}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"region_origin_x", p.RegionOriginX},
		{"region_origin_y", p.RegionOriginY},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be finite, got %v", f.name, f.v)
		}
	}
	return nil
}

// MinRadius returns the smallest accepted circle radius (cm).
func (p Params) MinRadius() float64 { return p.HardPtCut * CmPerGeV }

// AreAlignedRZ checks the r-z compatibility of an inner cell with inner hit
// (r1, z1) and this cell, whose outer hit is (ro, zo).
//
// The three points are accepted when their deviation from a straight line,
// scaled by ptmin and the distance between the first and last point, is
// within thetaCut. The test is symmetric under exchanging the first and
// last point.
func (c *Cell) AreAlignedRZ(r1, z1, ro, zo, ptmin, thetaCut float64) bool {
	return alignedRZ(r1, z1, c.innerR, c.innerZ, ro, zo, ptmin, thetaCut)
}

func alignedRZ(r1, z1, r2, z2, r3, z3, ptmin, thetaCut float64) bool {
	radiusDiff := math.Abs(r1 - r3)
	distance13Squared := radiusDiff*radiusDiff + (z1-z3)*(z1-z3)

	// pMin still needs dividing by radiusDiff; the comparison is scaled
	// instead.
	pMin := ptmin * math.Sqrt(distance13Squared)

	tanHalfTimesDistance := math.Abs(z1*(r2-r3) + z2*(r3-r1) + z3*(r1-r2))
	return tanHalfTimesDistance*pMin <= thetaCut*distance13Squared*radiusDiff
}

// HaveSimilarCurvature checks the x-y compatibility of inner (the candidate
// inner cell) and this cell.
//
// The inner hit of inner and both hits of c define a circle. High momentum
// triplets (nearly straight) are accepted when the line through the first
// and last hit passes within radius+phiCut of the beam region center.
// Otherwise the circle must be at least hardPtCut*[CmPerGeV] in radius and
// must intersect the beam region disk inflated by phiCut.
//
// Triplets whose first and last hit coincide, and curved triplets whose
// circumcenter cannot be computed, are rejected.
func (c *Cell) HaveSimilarCurvature(inner *Cell, ptmin, originX, originY, originRadius, phiCut, hardPtCut float64) bool {
	return similarCurvature(
		inner.InnerX(), inner.InnerY(),
		c.InnerX(), c.InnerY(),
		c.OuterX(), c.OuterY(),
		ptmin, originX, originY, originRadius, phiCut, hardPtCut,
	)
}

func similarCurvature(x1, y1, x2, y2, x3, y3, ptmin, originX, originY, originRadius, phiCut, hardPtCut float64) bool {
	distance13Squared := (x1-x3)*(x1-x3) + (y1-y3)*(y1-y3)
	if distance13Squared == 0 {
		return false
	}
	tolerance := originRadius + phiCut

	tanHalfTimesDistance := math.Abs(y1*(x2-x3) + y2*(x3-x1) + y3*(x1-x2))
	if tanHalfTimesDistance*ptmin <= straightTolerance*distance13Squared {
		distance3OriginSquared := (x3-originX)*(x3-originX) + (y3-originY)*(y3-originY)
		dot := (x1-x3)*(originX-x3) + (y1-y3)*(originY-y3)
		projSquared := dot * dot / distance13Squared

		return distance3OriginSquared-projSquared < tolerance*tolerance
	}

	det := (x1-x2)*(y2-y3) - (x2-x3)*(y1-y2)
	if det == 0 {
		return false
	}

	offset := x2*x2 + y2*y2
	bc := (x1*x1 + y1*y1 - offset) * 0.5
	cd := (offset - x3*x3 - y3*y3) * 0.5

	idet := 1 / det
	centerX := (bc*(y2-y3) - cd*(y1-y2)) * idet
	centerY := (cd*(x1-x2) - bc*(x2-x3)) * idet
	radius := math.Hypot(x2-centerX, y2-centerY)

	// hard cut on pt
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < hardPtCut*CmPerGeV {
		return false
	}

	centersDistanceSquared := (centerX-originX)*(centerX-originX) + (centerY-originY)*(centerY-originY)
	minimum := (radius - tolerance) * (radius - tolerance)
	maximum := (radius + tolerance) * (radius + tolerance)
	return centersDistanceSquared >= minimum && centersDistanceSquared <= maximum
}
