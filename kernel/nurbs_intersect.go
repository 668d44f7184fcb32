// nurbs_intersect.go implements the NURBS curve-curve intersection
// routine required by component B: recursive bounding-box subdivision,
// an analytic segment solve on near-flat leaves with Newton refinement
// otherwise, validation, deterministic clustering and ordering.
package kernel

import "math"

// NurbsIntersection is one converged, validated curve-curve
// intersection candidate in knot-domain parameters.
type NurbsIntersection struct {
	U0, U1 float64
	Point  Point
}

const (
	defaultSubdivisionSamples = 6
	defaultMaxSubdivisionDepth = 32
)

// IntersectCurves returns every intersection between curves a and b
// within tolerance eps, deterministically ordered lexicographically by
// (U0, U1). maxIterations bounds both the subdivision depth and the
// Newton iteration count (§5's determinism/worst-case-cost contract).
func IntersectCurves(a, b *SplineShape, eps float64, maxIterations int) []NurbsIntersection {
	if maxIterations <= 0 {
		maxIterations = defaultMaxSubdivisionDepth
	}
	var candidates []NurbsIntersection
	subdivideAndIntersect(
		curveInterval{a, a.domainStart(), a.domainEnd()},
		curveInterval{b, b.domainStart(), b.domainEnd()},
		eps, maxIterations, 0, &candidates,
	)
	return clusterIntersections(candidates, eps, a, b)
}

type curveInterval struct {
	curve  *SplineShape
	lo, hi float64
}

func (ci curveInterval) mid() float64 { return (ci.lo + ci.hi) / 2 }

func (ci curveInterval) box() Box {
	n := defaultSubdivisionSamples
	pts := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		u := ci.lo + (ci.hi-ci.lo)*float64(i)/float64(n)
		pts[i] = nurbsEvaluate(ci.curve, u)
	}
	return boxOf(pts)
}

// isFlat reports whether the interval deviates from its end-to-end
// chord by less than eps, i.e. it can be treated as a line segment.
func (ci curveInterval) isFlat(eps float64) bool {
	p0 := nurbsEvaluate(ci.curve, ci.lo)
	p1 := nurbsEvaluate(ci.curve, ci.hi)
	chord := p1.Sub(p0)
	chordLen := chord.Length()
	n := defaultSubdivisionSamples
	for i := 1; i < n; i++ {
		u := ci.lo + (ci.hi-ci.lo)*float64(i)/float64(n)
		p := nurbsEvaluate(ci.curve, u)
		dev := perpendicularDistance(p, p0, chord, chordLen)
		if dev > eps {
			return false
		}
	}
	return true
}

func perpendicularDistance(p, origin Point, dir Vector, dirLen float64) float64 {
	if dirLen == 0 {
		return p.DistanceTo(origin)
	}
	rel := p.Sub(origin)
	cross := math.Abs(rel.Cross(dir))
	return cross / dirLen
}

// subdivideAndIntersect recurses in a fixed left-then-right order over
// both intervals' bounding boxes, producing candidates (via refineLeaf)
// at near-flat or maximum-depth leaf pairs. Determinism requirement (§4.B): subdivision
// order never depends on anything but interval position.
func subdivideAndIntersect(a, b curveInterval, eps float64, maxDepth, depth int, out *[]NurbsIntersection) {
	boxA, boxB := a.box(), b.box()
	if !boxA.Overlaps(boxB, eps) {
		return
	}

	flatEnough := (boxA.Diameter() < eps || a.isFlat(eps)) && (boxB.Diameter() < eps || b.isFlat(eps))
	if flatEnough || depth >= maxDepth {
		if cand, ok := refineLeaf(a, b, eps, maxDepth); ok {
			*out = append(*out, cand)
		}
		return
	}

	aMid, bMid := a.mid(), b.mid()
	aLeft := curveInterval{a.curve, a.lo, aMid}
	aRight := curveInterval{a.curve, aMid, a.hi}
	bLeft := curveInterval{b.curve, b.lo, bMid}
	bRight := curveInterval{b.curve, bMid, b.hi}

	// Fixed subdivision order: left-then-right on A, nested left-then-right on B.
	subdivideAndIntersect(aLeft, bLeft, eps, maxDepth, depth+1, out)
	subdivideAndIntersect(aLeft, bRight, eps, maxDepth, depth+1, out)
	subdivideAndIntersect(aRight, bLeft, eps, maxDepth, depth+1, out)
	subdivideAndIntersect(aRight, bRight, eps, maxDepth, depth+1, out)
}

// refineLeaf applies analytic line-segment solving when both intervals
// are effectively straight, and bivariate Newton refinement otherwise,
// validating the converged parameters by re-evaluating both curves.
func refineLeaf(a, b curveInterval, eps float64, maxIterations int) (NurbsIntersection, bool) {
	u0, u1 := a.mid(), b.mid()

	pA0, pA1 := nurbsEvaluate(a.curve, a.lo), nurbsEvaluate(a.curve, a.hi)
	pB0, pB1 := nurbsEvaluate(b.curve, b.lo), nurbsEvaluate(b.curve, b.hi)
	if a.isFlat(eps) && b.isFlat(eps) {
		if pt, t0, t1, ok := intersectSegments(pA0, pA1, pB0, pB1); ok {
			u0 = a.lo + (a.hi-a.lo)*t0
			u1 = b.lo + (b.hi-b.lo)*t1
			return validate(a.curve, b.curve, u0, u1, eps)
		}
	}

	for i := 0; i < maxIterations; i++ {
		pa, da := nurbsEvaluateWithDerivative(a.curve, u0)
		pb, db := nurbsEvaluateWithDerivative(b.curve, u1)
		fx, fy := pa.X-pb.X, pa.Y-pb.Y
		if math.Hypot(fx, fy) < eps {
			break
		}
		// Jacobian of F(u0,u1) = P(u0) - Q(u1):
		// [ da.X  -db.X ] [du0]   [-fx]
		// [ da.Y  -db.Y ] [du1] = [-fy]
		det := da.X*(-db.Y) - (-db.X)*da.Y
		if math.Abs(det) < 1e-15 {
			break
		}
		du0 := (-fx*(-db.Y) - (-db.X)*(-fy)) / det
		du1 := (da.X*(-fy) - (-fx)*da.Y) / det
		u0 = clamp(u0+du0, a.curve.domainStart(), a.curve.domainEnd())
		u1 = clamp(u1+du1, b.curve.domainStart(), b.curve.domainEnd())
	}
	return validate(a.curve, b.curve, u0, u1, eps)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func validate(a, b *SplineShape, u0, u1, eps float64) (NurbsIntersection, bool) {
	pa := nurbsEvaluate(a, u0)
	pb := nurbsEvaluate(b, u1)
	if pa.DistanceTo(pb) > eps {
		return NurbsIntersection{}, false
	}
	mid := Point{(pa.X + pb.X) / 2, (pa.Y + pb.Y) / 2}
	return NurbsIntersection{U0: u0, U1: u1, Point: mid}, true
}

// intersectSegments solves the analytic 2x2 system for two line
// segments' supporting lines, returning the intersection point and each
// segment's local parameter (0 at its first point, 1 at its second; not
// restricted to [0,1]).
func intersectSegments(p0, p1, q0, q1 Point) (pt Point, t, s float64, ok bool) {
	d1 := p1.Sub(p0)
	d2 := q1.Sub(q0)
	denom := d1.Cross(d2)
	if math.Abs(denom) < 1e-15 {
		return Point{}, 0, 0, false
	}
	diff := q0.Sub(p0)
	t = diff.Cross(d2) / denom
	s = diff.Cross(d1) / denom
	return p0.Add(d1.Scale(t)), t, s, true
}

// clusterIntersections sorts candidates lexicographically by (U0, U1)
// first, then merges any whose points lie within 4*eps and whose
// parameters lie within four times a per-curve tolerance (1e-6 of each
// curve's knot domain), replacing each cluster
// with its average — deterministic because clustering always consumes
// the fixed sorted order rather than a hash-based grouping.
func clusterIntersections(cands []NurbsIntersection, eps float64, a, b *SplineShape) []NurbsIntersection {
	if len(cands) == 0 {
		return nil
	}
	sortIntersections(cands)

	paramTolA := (a.domainEnd() - a.domainStart()) * 1e-6
	paramTolB := (b.domainEnd() - b.domainStart()) * 1e-6
	if paramTolA <= 0 {
		paramTolA = eps
	}
	if paramTolB <= 0 {
		paramTolB = eps
	}

	var result []NurbsIntersection
	used := make([]bool, len(cands))
	for i := range cands {
		if used[i] {
			continue
		}
		sumU0, sumU1, sumX, sumY, n := cands[i].U0, cands[i].U1, cands[i].Point.X, cands[i].Point.Y, 1
		used[i] = true
		for j := i + 1; j < len(cands); j++ {
			if used[j] {
				continue
			}
			if cands[i].Point.DistanceTo(cands[j].Point) <= eps*4 &&
				math.Abs(cands[i].U0-cands[j].U0) <= paramTolA*4 &&
				math.Abs(cands[i].U1-cands[j].U1) <= paramTolB*4 {
				sumU0 += cands[j].U0
				sumU1 += cands[j].U1
				sumX += cands[j].Point.X
				sumY += cands[j].Point.Y
				n++
				used[j] = true
			}
		}
		result = append(result, NurbsIntersection{
			U0:    sumU0 / float64(n),
			U1:    sumU1 / float64(n),
			Point: Point{sumX / float64(n), sumY / float64(n)},
		})
	}
	sortIntersections(result)
	return result
}

func sortIntersections(xs []NurbsIntersection) {
	// Simple deterministic insertion sort; the candidate lists arising
	// from bounded subdivision depth are small, so O(n^2) is fine and
	// keeps this routine free of any non-deterministic sort internals.
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && less(xs[j], xs[j-1]); j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}

func less(a, b NurbsIntersection) bool {
	if a.U0 != b.U0 {
		return a.U0 < b.U0
	}
	return a.U1 < b.U1
}
