// raytrace.go implements component C: ray-vs-shape crossing counts and
// ordered intersection lists, using the lower-inclusive boundary rule
// fixed by the spec: a ray passing exactly through a "vertex" (a
// segment endpoint, an arc's cut endpoint) counts the crossing iff the
// shape itself, leaving that vertex, runs strictly above the ray;
// collinear overlaps along the ray count as zero crossings.
package kernel

import "math"

// Ray is a semi-infinite ray from Origin in Direction. Direction need
// not be pre-normalized; all functions normalize it internally.
type Ray struct {
	Origin    Point
	Direction Vector
}

// RayHit is one intersection between a ray and a shape, sorted by T
// (the ray parameter, t>=0, where the hit point is Origin + T*Direction).
type RayHit struct {
	Point Point
	T     float64
	Kind  IntersectionKind
}

// height returns the signed perpendicular distance of p from the ray's
// line (positive on the left of Direction, i.e. the side Direction.Perp()
// points to).
func (r Ray) height(p Point, dir Vector) float64 {
	return dir.Perp().Dot(p.Sub(r.Origin))
}

// param returns the ray parameter t such that Origin + t*Direction == p's
// projection onto the ray line.
func (r Ray) param(p Point, dir Vector) float64 {
	return dir.Dot(p.Sub(r.Origin))
}

func (r Ray) unitDir() Vector {
	d := r.Direction.Normalized()
	if d.Length() == 0 {
		return Vector{1, 0}
	}
	return d
}

// RayCrossingCount returns the number of intersections strictly ahead
// of the ray's origin (t>0), per the lower-inclusive convention.
func RayCrossingCount(ray Ray, shape Shape, tol float64) int {
	n := 0
	for _, h := range rayShapeHits(ray, shape, tol, true) {
		if h.T > tol {
			n++
		}
	}
	return n
}

// RayIntersections returns every ray-shape intersection with t >= 0,
// sorted ascending by T.
func RayIntersections(ray Ray, shape Shape, tol float64) []RayHit {
	hits := rayShapeHits(ray, shape, tol, false)
	var out []RayHit
	for _, h := range hits {
		if h.T >= -tol {
			out = append(out, h)
		}
	}
	sortRayHits(out)
	return out
}

func sortRayHits(hits []RayHit) {
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].T < hits[j-1].T; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
}

// rayShapeHits dispatches by shape kind. When crossingOnly is true, the
// caller only needs a boolean parity contribution per hit (used by
// RayCrossingCount); the same hit list otherwise serves RayIntersections.
func rayShapeHits(ray Ray, shape Shape, tol float64, crossingOnly bool) []RayHit {
	dir := ray.unitDir()
	switch s := shape.(type) {
	case *LineShape:
		return rayLineHits(ray, dir, s.Start, s.End, tol)
	case *ArcShape:
		return rayArcHits(ray, dir, s, tol)
	case *CircleShape:
		return rayCircleHits(ray, dir, s.Center, s.Radius, tol)
	case *EllipseShape:
		return rayEllipseHits(ray, dir, s, tol)
	case *PolylineShape:
		var all []RayHit
		for _, seg := range s.Segments {
			all = append(all, rayShapeHits(ray, seg, tol, crossingOnly)...)
		}
		return all
	case *SplineShape:
		return raySplineHits(ray, dir, s, tol)
	default:
		return nil
	}
}

// rayLineHits implements the classic "other endpoint strictly above"
// rule: the edge crosses iff exactly one endpoint has height <= 0.
func rayLineHits(ray Ray, dir Vector, p0, p1 Point, tol float64) []RayHit {
	h0 := ray.height(p0, dir)
	h1 := ray.height(p1, dir)
	if math.Abs(h0-h1) < tol && math.Abs(h0) < tol {
		return nil // collinear with the ray: zero crossings
	}
	below0 := h0 <= tol
	below1 := h1 <= tol
	if below0 == below1 {
		return nil
	}
	// Linear interpolation for the height-zero crossing point.
	frac := h0 / (h0 - h1)
	pt := Point{p0.X + (p1.X-p0.X)*frac, p0.Y + (p1.Y-p0.Y)*frac}
	return []RayHit{{Point: pt, T: ray.param(pt, dir), Kind: Exact}}
}

// conicRoots solves for ray parameters t where Origin+t*dir lies on the
// circle (center, radius), returning 0, 1 (tangent) or 2 real roots.
func conicRoots(ray Ray, dir Vector, center Point, radius float64) []float64 {
	oc := ray.Origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return nil
	}
	if disc == 0 {
		return []float64{-b}
	}
	sq := math.Sqrt(disc)
	return []float64{-b - sq, -b + sq}
}

func rayCircleHits(ray Ray, dir Vector, center Point, radius, tol float64) []RayHit {
	roots := conicRoots(ray, dir, center, radius)
	out := make([]RayHit, 0, len(roots))
	kind := Exact
	if len(roots) == 1 {
		kind = Tangent
	}
	for _, t := range roots {
		pt := ray.Origin.Add(dir.Scale(t))
		out = append(out, RayHit{Point: pt, T: t, Kind: kind})
	}
	return out
}

func rayArcHits(ray Ray, dir Vector, a *ArcShape, tol float64) []RayHit {
	roots := conicRoots(ray, dir, a.Center, a.Radius)
	var out []RayHit
	angTol := tol / a.Radius
	for _, t := range roots {
		pt := ray.Origin.Add(dir.Scale(t))
		theta := math.Atan2(pt.Y-a.Center.Y, pt.X-a.Center.X)
		if !a.containsAngle(theta, angTol) {
			continue
		}
		kind := Exact
		if len(roots) == 1 {
			kind = Tangent
		}
		if !vertexSafeInclude(a, theta, angTol, ray, dir, pt) {
			continue
		}
		out = append(out, RayHit{Point: pt, T: t, Kind: kind})
	}
	return out
}

// vertexSafeInclude applies the lower-inclusive rule at an arc's cut
// endpoints: an ordinary interior crossing is always included; a
// crossing that lands exactly on the arc's StartAngle or EndAngle (the
// artificial break shared with whatever shape follows in a chain) is
// included only if the arc's own body, leaving that endpoint, runs
// strictly above the ray, mirroring the line-segment "other endpoint"
// rule.
func vertexSafeInclude(a *ArcShape, theta, angTol float64, ray Ray, dir Vector, pt Point) bool {
	nearStart := math.Abs(normalizeAngleDelta(theta-a.StartAngle)) <= angTol
	nearEnd := math.Abs(normalizeAngleDelta(theta-a.EndAngle)) <= angTol
	if !nearStart && !nearEnd {
		return true
	}
	var tangent Vector
	if nearStart {
		tangent = a.TangentAt(0)
	} else {
		tangent = a.TangentAt(1).Negate()
	}
	h := dir.Perp().Dot(tangent)
	if math.Abs(h) < 1e-12 {
		return false // tangent to the ray at the vertex: collinear-like, no crossing
	}
	return h > 0
}

// normalizeAngleDelta folds an angular difference into (-pi, pi].
func normalizeAngleDelta(d float64) float64 {
	d = math.Mod(d, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	if d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

func rayEllipseHits(ray Ray, dir Vector, e *EllipseShape, tol float64) []RayHit {
	a, b, rot := e.semiMajor(), e.semiMinor(), e.rotation()
	cr, sr := math.Cos(-rot), math.Sin(-rot)
	toCanonical := func(p Point) Point {
		rel := p.Sub(e.Center)
		x := rel.X*cr - rel.Y*sr
		y := rel.X*sr + rel.Y*cr
		return Point{x / a, y / b}
	}
	toCanonicalVec := func(v Vector) Vector {
		x := v.X*cr - v.Y*sr
		y := v.X*sr + v.Y*cr
		return Vector{x / a, y / b}
	}
	originC := toCanonical(ray.Origin)
	dirC := toCanonicalVec(dir)

	aCoef := dirC.Dot(dirC)
	bCoef := 2 * (originC.X*dirC.X + originC.Y*dirC.Y)
	cCoef := originC.X*originC.X + originC.Y*originC.Y - 1
	disc := bCoef*bCoef - 4*aCoef*cCoef
	if aCoef == 0 || disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	roots := []float64{(-bCoef - sq) / (2 * aCoef)}
	kind := Tangent
	if disc > 1e-18 {
		roots = append(roots, (-bCoef+sq)/(2*aCoef))
		kind = Exact
	}

	var out []RayHit
	for _, t := range roots {
		pt := ray.Origin.Add(dir.Scale(t))
		uc := originC.Add(dirC.Scale(t))
		theta := math.Atan2(uc.Y, uc.X)
		if !e.containsAngle(theta, tol) {
			continue
		}
		out = append(out, RayHit{Point: pt, T: t, Kind: kind})
	}
	return out
}

// raySplineHits falls back to sampling the curve into short chords and
// intersecting each as a line segment; sufficient for the ray-casting
// use cases in this kernel (point-in-chain membership, §4.E), which
// only need a correct crossing parity, not exact NURBS roots.
func raySplineHits(ray Ray, dir Vector, s *SplineShape, tol float64) []RayHit {
	const samples = 128
	var out []RayHit
	prev := s.PointAt(0)
	for i := 1; i <= samples; i++ {
		t := float64(i) / float64(samples)
		cur := s.PointAt(t)
		out = append(out, rayLineHits(ray, dir, prev, cur, tol)...)
		prev = cur
	}
	return out
}
