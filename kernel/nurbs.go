// nurbs.go implements component B: the NURBS engine — basis function
// evaluation, rational point/derivative evaluation, and construction of
// a NURBS representation from the other five primitive kinds so the
// intersection dispatcher (intersect.go) can route any pair through a
// single curve-curve intersection routine (nurbs_intersect.go).
package kernel

import "math"

// findSpan locates the knot span index i such that knots[i] <= u < knots[i+1],
// clamping to the last non-trivial span at the domain end (the standard
// convention for clamped B-splines).
func findSpan(degree int, knots []float64, u float64) int {
	n := len(knots) - degree - 2 // index of last control point
	if u >= knots[n+1] {
		return n
	}
	if u <= knots[degree] {
		return degree
	}
	lo, hi := degree, n+1
	for u < knots[lo] || u >= knots[lo+1] {
		mid := (lo + hi) / 2
		if u < knots[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// basisFuns evaluates the degree+1 nonzero B-spline basis functions at
// u, per the standard Cox-de Boor recurrence (Piegl & Tiller algorithm
// A2.2). Returns values for control points [span-degree, span].
func basisFuns(span, degree int, u float64, knots []float64) []float64 {
	n := make([]float64, degree+1)
	left := make([]float64, degree+1)
	right := make([]float64, degree+1)
	n[0] = 1
	for j := 1; j <= degree; j++ {
		left[j] = u - knots[span+1-j]
		right[j] = knots[span+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			denom := right[r+1] + left[j-r]
			var temp float64
			if denom != 0 {
				temp = n[r] / denom
			}
			n[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		n[j] = saved
	}
	return n
}

// basisFunsDerivatives evaluates the basis functions and their first
// derivative at u (Piegl & Tiller algorithm A2.3, specialized to order 1).
func basisFunsDerivatives(span, degree int, u float64, knots []float64) (vals, derivs []float64) {
	ndu := make([][]float64, degree+1)
	for i := range ndu {
		ndu[i] = make([]float64, degree+1)
	}
	left := make([]float64, degree+1)
	right := make([]float64, degree+1)
	ndu[0][0] = 1
	for j := 1; j <= degree; j++ {
		left[j] = u - knots[span+1-j]
		right[j] = knots[span+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			denom := ndu[j][r]
			var temp float64
			if denom != 0 {
				temp = ndu[r][j-1] / denom
			}
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}

	vals = make([]float64, degree+1)
	derivs = make([]float64, degree+1)
	for j := 0; j <= degree; j++ {
		vals[j] = ndu[j][degree]
	}
	// First derivative: d/du N_{i,p} = p*(N_{i,p-1}/(u_{i+p}-u_i) - N_{i+1,p-1}/(u_{i+p+1}-u_{i+1})),
	// read off the ndu table already built above (Piegl & Tiller A2.3, k=1 case).
	for r := 0; r <= degree; r++ {
		var d float64
		if r > 0 {
			denom := knots[span+r] - knots[span+r-degree]
			if denom != 0 {
				d += ndu[r-1][degree-1] / denom
			}
		}
		if r < degree {
			denom := knots[span+r+1] - knots[span+r+1-degree]
			if denom != 0 {
				d -= ndu[r][degree-1] / denom
			}
		}
		derivs[r] = float64(degree) * d
	}
	return vals, derivs
}

// nurbsEvaluate evaluates the rational curve point at knot-domain
// parameter u.
func nurbsEvaluate(s *SplineShape, u float64) Point {
	span := findSpan(s.Degree, s.Knots, u)
	basis := basisFuns(span, s.Degree, u, s.Knots)
	var x, y, w float64
	for j := 0; j <= s.Degree; j++ {
		idx := span - s.Degree + j
		cw := s.Weights[idx] * basis[j]
		x += cw * s.ControlPoints[idx].X
		y += cw * s.ControlPoints[idx].Y
		w += cw
	}
	if w == 0 {
		return Point{}
	}
	return Point{X: x / w, Y: y / w}
}

// nurbsEvaluateWithDerivative evaluates the rational curve point and
// its first derivative (w.r.t. the knot-domain parameter u) via the
// quotient rule applied to the homogeneous numerator/denominator.
func nurbsEvaluateWithDerivative(s *SplineShape, u float64) (Point, Vector) {
	span := findSpan(s.Degree, s.Knots, u)
	basis, dbasis := basisFunsDerivatives(span, s.Degree, u, s.Knots)

	var x, y, w, dx, dy, dw float64
	for j := 0; j <= s.Degree; j++ {
		idx := span - s.Degree + j
		cwv := s.Weights[idx]
		x += cwv * basis[j] * s.ControlPoints[idx].X
		y += cwv * basis[j] * s.ControlPoints[idx].Y
		w += cwv * basis[j]
		dx += cwv * dbasis[j] * s.ControlPoints[idx].X
		dy += cwv * dbasis[j] * s.ControlPoints[idx].Y
		dw += cwv * dbasis[j]
	}
	if w == 0 {
		return Point{}, Vector{}
	}
	pt := Point{X: x / w, Y: y / w}
	// Quotient rule: d/du (N/W) = (N'W - NW')/W^2
	d := Vector{
		X: (dx*w - x*dw) / (w * w),
		Y: (dy*w - y*dw) / (w * w),
	}
	return pt, d
}

// ToNURBS converts any supported shape into an equivalent NURBS
// representation over the same normalized [0,1] domain, so the
// intersection dispatcher can run every pair involving an ellipse or
// spline uniformly through nurbs_intersect.go.
func ToNURBS(s Shape) (*SplineShape, error) {
	switch v := s.(type) {
	case *SplineShape:
		return v, nil
	case *LineShape:
		return lineToNURBS(v)
	case *ArcShape:
		return arcToNURBS(v.Center, v.Radius, v.StartAngle, v.angleAt(1))
	case *CircleShape:
		return circleToNURBS(v)
	case *EllipseShape:
		return ellipseToNURBS(v)
	case *PolylineShape:
		return polylineToNURBSApprox(v)
	default:
		return nil, ErrMalformedSpline
	}
}

// lineToNURBS represents the line as a degree-2 NURBS (the midpoint
// control point is degree-elevated from the degree-1 representation) so
// every primitive's NURBS form shares the same degree as arcToNURBS,
// keeping polylineToNURBSApprox's knot chaining uniform.
func lineToNURBS(l *LineShape) (*SplineShape, error) {
	mid := Point{(l.Start.X + l.End.X) / 2, (l.Start.Y + l.End.Y) / 2}
	return NewSpline(
		[]Point{l.Start, mid, l.End}, 2,
		[]float64{0, 0, 0, 1, 1, 1}, nil, nil, false,
	)
}

// arcToNURBS builds the standard rational quadratic Bezier-segment
// representation of a circular arc span (one quadratic segment per
// <=90 degree bite, matching the textbook construction used by every
// production NURBS library for circular arcs).
func arcToNURBS(center Point, radius, startAngle, endAngle float64) (*SplineShape, error) {
	span := endAngle - startAngle
	// Split into segments of at most pi/2 each for numerical quality.
	nSeg := int(math.Ceil(math.Abs(span) / (math.Pi / 2)))
	if nSeg < 1 {
		nSeg = 1
	}
	dTheta := span / float64(nSeg)
	w1 := math.Cos(dTheta / 2)

	points := make([]Point, 0, 2*nSeg+1)
	weights := make([]float64, 0, 2*nSeg+1)
	theta := startAngle
	p0 := Point{center.X + radius*math.Cos(theta), center.Y + radius*math.Sin(theta)}
	points = append(points, p0)
	weights = append(weights, 1)
	for i := 0; i < nSeg; i++ {
		midTheta := theta + dTheta/2
		endTheta := theta + dTheta
		midRadius := radius / w1
		mid := Point{center.X + midRadius*math.Cos(midTheta), center.Y + midRadius*math.Sin(midTheta)}
		end := Point{center.X + radius*math.Cos(endTheta), center.Y + radius*math.Sin(endTheta)}
		points = append(points, mid, end)
		weights = append(weights, w1, 1)
		theta = endTheta
	}

	degree := 2
	n := len(points)
	nKnotSpans := nSeg
	knots := make([]float64, 0, n+degree+1)
	for i := 0; i <= degree; i++ {
		knots = append(knots, 0)
	}
	for i := 1; i < nKnotSpans; i++ {
		knots = append(knots, float64(i))
		knots = append(knots, float64(i))
	}
	for i := 0; i <= degree; i++ {
		knots = append(knots, float64(nKnotSpans))
	}
	// Normalize knot domain to [0, nKnotSpans] already; scale to match
	// control point count consistently (n == 2*nSeg+1, knot len == n+degree+1).
	return NewSpline(points, degree, knots, weights, nil, false)
}

func circleToNURBS(c *CircleShape) (*SplineShape, error) {
	return arcToNURBS(c.Center, c.Radius, 0, 2*math.Pi)
}

// ellipseToNURBS builds a NURBS approximation of an ellipse/elliptical
// arc by constructing a unit-circle arc NURBS in the canonical frame and
// then applying the ellipse's affine transform (scale + rotation +
// translation) to every control point; the rational weights of a conic
// arc are invariant under affine maps, so the construction remains exact.
func ellipseToNURBS(e *EllipseShape) (*SplineShape, error) {
	s, en := e.startEndParams()
	circ, err := arcToNURBS(Point{}, 1, s, en)
	if err != nil {
		return nil, err
	}
	a, b, rot := e.semiMajor(), e.semiMinor(), e.rotation()
	cr, sr := math.Cos(rot), math.Sin(rot)
	pts := make([]Point, len(circ.ControlPoints))
	for i, p := range circ.ControlPoints {
		x, y := p.X*a, p.Y*b
		pts[i] = Point{
			X: e.Center.X + x*cr - y*sr,
			Y: e.Center.Y + x*sr + y*cr,
		}
	}
	return NewSpline(pts, circ.Degree, circ.Knots, circ.Weights, nil, false)
}

// polylineToNURBSApprox degree-elevates a polyline into a single
// piecewise-linear/quadratic NURBS curve by concatenating each
// segment's own NURBS representation with a shared knot vector,
// re-parameterized uniformly over [0, nSegments] so the per-segment
// convention "(i+u)/n" used by intersect.go stays consistent with the
// NURBS domain.
func polylineToNURBSApprox(p *PolylineShape) (*SplineShape, error) {
	n := len(p.Segments)
	if n == 0 {
		return nil, ErrMalformedSpline
	}
	// A polyline is never intersected as a monolithic NURBS curve in
	// this kernel (intersect.go iterates its segments individually and
	// remaps parameters); this conversion exists only to let extend.go
	// and offset.go reuse NURBS-based tangent computation uniformly.
	// It degree-elevates each segment to degree 2 (matching arcToNURBS)
	// and chains them with C0 continuity.
	var allPoints []Point
	var allWeights []float64
	var knots []float64
	offset := 0.0
	for i, seg := range p.Segments {
		sub, err := ToNURBS(seg)
		if err != nil {
			return nil, err
		}
		segDomainLen := sub.Knots[len(sub.Knots)-1] - sub.Knots[0]
		if i == 0 {
			allPoints = append(allPoints, sub.ControlPoints...)
			allWeights = append(allWeights, sub.Weights...)
			for _, k := range sub.Knots[:len(sub.Knots)-1] {
				knots = append(knots, offset+(k-sub.Knots[0]))
			}
		} else {
			allPoints = append(allPoints, sub.ControlPoints[1:]...)
			allWeights = append(allWeights, sub.Weights[1:]...)
			for _, k := range sub.Knots[sub.Degree+1 : len(sub.Knots)-1] {
				knots = append(knots, offset+(k-sub.Knots[0]))
			}
		}
		offset += segDomainLen
		_ = i
	}
	// Close the vector with the final end knot (multiplicity degree+1).
	knots = append(knots, offset)
	// This chaining is only valid when every segment has the same
	// degree; lineToNURBS and arcToNURBS both build degree-2 curves —
	// callers needing exact polyline intersection use the per-segment
	// dispatch in intersect.go instead, not this approximation.
	return NewSpline(allPoints, 2, knots, allWeights, nil, p.IsClosed)
}
