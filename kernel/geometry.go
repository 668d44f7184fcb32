// geometry.go implements the analytic line-line case of the shape
// intersection dispatcher (component F's pair table): a 2x2 linear
// system with explicit collinear-overlap handling, reporting the
// overlap's endpoints when segments coincide.
package kernel

import "math"

// lineLineIntersect solves the analytic intersection of two line
// segments (or, when infinite is true, their supporting infinite
// lines). Collinear overlaps are reported as two Coincident results,
// one at each endpoint of the overlap region, matching the "at least
// two endpoints of the overlap region" contract in the data model.
func lineLineIntersect(a, b *LineShape, tol float64, infinite bool) []IntersectionResult {
	d1 := a.End.Sub(a.Start)
	d2 := b.End.Sub(b.Start)
	denom := d1.Cross(d2)

	if math.Abs(denom) < 1e-12 {
		if !isCollinear(a.Start, a.End, b.Start, tol) {
			return nil
		}
		return collinearOverlap(a, b, tol)
	}

	diff := b.Start.Sub(a.Start)
	t := diff.Cross(d2) / denom
	u := diff.Cross(d1) / denom

	if !infinite {
		const eps = 1e-9
		if t < -eps || t > 1+eps || u < -eps || u > 1+eps {
			return nil
		}
	}
	pt := a.Start.Add(d1.Scale(t))
	return []IntersectionResult{{
		Point: pt, Param1: clamp01(t), Param2: clamp01(u),
		Type: Exact, Confidence: 1,
	}}
}

func clamp01(t float64) float64 { return clamp(t, 0, 1) }

// isCollinear reports whether point p lies on the infinite line through
// a0,a1 within tol, used as a cheap collinearity probe before running
// the more expensive overlap computation. q is only used when both
// lines must be mutually collinear (a0,a1 and b0==q define the same
// line); callers pass the second line's start point.
func isCollinear(a0, a1, q Point, tol float64) bool {
	d := a1.Sub(a0)
	l := d.Length()
	if l == 0 {
		return a0.DistanceTo(q) <= tol
	}
	return math.Abs(d.Cross(q.Sub(a0))) / l <= tol
}

// collinearOverlap projects both segments onto their shared direction
// and returns the overlap interval's endpoints as Coincident results,
// or nil if the segments don't overlap.
func collinearOverlap(a, b *LineShape, tol float64) []IntersectionResult {
	dir := a.End.Sub(a.Start)
	l := dir.Length()
	if l == 0 {
		return nil
	}
	unit := dir.Normalized()
	proj := func(p Point) float64 { return p.Sub(a.Start).Dot(unit) }

	aLo, aHi := 0.0, l
	b0, b1 := proj(b.Start), proj(b.End)
	bLo, bHi := math.Min(b0, b1), math.Max(b0, b1)

	lo := math.Max(aLo, bLo)
	hi := math.Min(aHi, bHi)
	if lo > hi+tol {
		return nil
	}
	at := func(s float64) Point { return a.Start.Add(unit.Scale(s)) }
	paramOnB := func(s float64) float64 {
		if b1 == b0 {
			return 0
		}
		return (s - b0) / (b1 - b0)
	}
	p1 := at(lo)
	p2 := at(hi)
	return []IntersectionResult{
		{Point: p1, Param1: clamp01(lo / l), Param2: clamp01(paramOnB(lo)), Type: Coincident, Confidence: 1},
		{Point: p2, Param1: clamp01(hi / l), Param2: clamp01(paramOnB(hi)), Type: Coincident, Confidence: 1},
	}
}

// pointOnSegment checks whether point p lies on segment [a,b]
// within tol; nothing in the package calls it at present.
func pointOnSegment(p, a, b Point, tol float64) (t float64, ok bool) {
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		if p.DistanceTo(a) <= tol {
			return 0, true
		}
		return 0, false
	}
	unit := d.Normalized()
	perp := math.Abs(p.Sub(a).Cross(unit))
	if perp > tol {
		return 0, false
	}
	s := p.Sub(a).Dot(unit)
	if s < -tol || s > l+tol {
		return 0, false
	}
	return clamp01(s / l), true
}
