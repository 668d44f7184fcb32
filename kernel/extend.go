// extend.go implements component G: hypothetical prolongation of a
// shape for gap-closing intersection attempts. Extension never alters
// a shape's geometry on its original parameter domain; callers learn
// that a result came from an extended shape via IntersectionResult.OnExtension.
package kernel

import "math"

// Extend returns a new shape prolonged by length at each open end along
// its boundary tangent. length <= 0 returns the shape unchanged. Circles
// have no open end and are returned unchanged; closed polylines cannot
// be extended and return ErrInvalidParams.
func Extend(s Shape, length float64) (Shape, error) {
	if length <= 0 {
		return s, nil
	}
	switch v := s.(type) {
	case *LineShape:
		return extendLine(v, length), nil
	case *ArcShape:
		return extendArc(v, length), nil
	case *CircleShape:
		return v, nil
	case *EllipseShape:
		return extendEllipse(v, length)
	case *PolylineShape:
		return extendPolyline(v, length)
	case *SplineShape:
		return extendSpline(v, length), nil
	default:
		return nil, ErrInvalidParams
	}
}

func extendLine(l *LineShape, length float64) *LineShape {
	dir := l.End.Sub(l.Start).Normalized()
	if dir.Length() == 0 {
		return l
	}
	return NewLine(l.Start.Sub(dir.Scale(length)), l.End.Add(dir.Scale(length)))
}

// extendArc widens the angular span by Δθ = min(length/radius, 4π) at
// each end, in the rotational sense that continues past StartAngle and
// EndAngle respectively.
func extendArc(a *ArcShape, length float64) *ArcShape {
	dTheta := math.Min(length/a.Radius, 4*math.Pi)
	sign := 1.0
	if a.Clockwise {
		sign = -1
	}
	out, err := NewArc(a.Center, a.Radius, a.StartAngle-sign*dTheta, a.EndAngle+sign*dTheta, a.Clockwise)
	if err != nil {
		return a
	}
	return out
}

func extendEllipse(e *EllipseShape, length float64) (Shape, error) {
	spline, err := ToNURBS(e)
	if err != nil {
		return nil, err
	}
	return extendSpline(spline, length), nil
}

// extendPolyline linearly extends the open ends by attaching a new
// straight segment at each, leaving the interior segments untouched;
// closed polylines are not extended.
func extendPolyline(p *PolylineShape, length float64) (*PolylineShape, error) {
	if p.IsClosed {
		return nil, ErrInvalidParams
	}
	if len(p.Segments) == 0 {
		return nil, ErrInvalidParams
	}
	startTan := p.Segments[0].TangentAt(0).Negate()
	endTan := p.Segments[len(p.Segments)-1].TangentAt(1)
	startPt := p.StartPoint()
	endPt := p.EndPoint()

	segs := make([]Shape, 0, len(p.Segments)+2)
	segs = append(segs, NewLine(startPt.Add(startTan.Scale(length)), startPt))
	segs = append(segs, p.Segments...)
	segs = append(segs, NewLine(endPt, endPt.Add(endTan.Scale(length))))
	return NewPolyline(segs, false)
}

// extendSpline attaches a degree-matched, fully clamped straight-line
// lead-in and lead-out segment at each end, tangent to the curve at its
// own boundary. Each new segment gets its own knot value repeated
// degree+1 times, so it forms a genuine new leading/trailing span; the
// original control points, weights and knots are carried over as a
// contiguous, untouched block (only shifted in array position), so
// every basis function that governs the original curve's own knot
// sub-domain is exactly the one it was before the extension. This
// avoids the naive approach of inserting a single knot/control point
// at the boundary, which leaves domainStart/domainEnd pointing at the
// same clamped knot value while breaking its multiplicity, collapsing
// evaluation there to a zero weight sum.
//
// The join is only position-continuous by construction (the lead
// segment's boundary control point coincides with, but is a distinct
// array slot from, the curve's own), not enforced by shared basis
// functions; tangent continuity comes from building the lead segment's
// control points collinear along the tangent direction, not from the
// knot structure.
func extendSpline(s *SplineShape, length float64) *SplineShape {
	n := len(s.ControlPoints)
	deg := s.Degree

	startTan := s.TangentAt(0)
	if startTan.Length() == 0 && n > 1 {
		startTan = s.ControlPoints[1].Sub(s.ControlPoints[0]).Normalized()
	}
	endTan := s.TangentAt(1)
	if endTan.Length() == 0 && n > 1 {
		endTan = s.ControlPoints[n-1].Sub(s.ControlPoints[n-2]).Normalized()
	}

	startSpan := s.Knots[deg+1] - s.Knots[deg]
	if startSpan <= 0 {
		startSpan = 1
	}
	endSpan := s.Knots[len(s.Knots)-deg-1] - s.Knots[len(s.Knots)-deg-2]
	if endSpan <= 0 {
		endSpan = 1
	}

	startTip := s.StartPoint().Sub(startTan.Scale(length))
	endTip := s.EndPoint().Add(endTan.Scale(length))

	leadIn := splineLeadSegment(startTip, s.StartPoint(), deg)
	leadOut := splineLeadSegment(s.EndPoint(), endTip, deg)

	cps := make([]Point, 0, n+len(leadIn)+len(leadOut))
	cps = append(cps, leadIn...)
	cps = append(cps, s.ControlPoints...)
	cps = append(cps, leadOut...)

	weights := make([]float64, 0, len(cps))
	for range leadIn {
		weights = append(weights, 1)
	}
	weights = append(weights, s.Weights...)
	for range leadOut {
		weights = append(weights, 1)
	}

	startKnotVal := s.Knots[deg] - startSpan
	endKnotVal := s.Knots[len(s.Knots)-deg-1] + endSpan

	knots := make([]float64, 0, len(s.Knots)+2*(deg+1))
	for i := 0; i <= deg; i++ {
		knots = append(knots, startKnotVal)
	}
	knots = append(knots, s.Knots...)
	for i := 0; i <= deg; i++ {
		knots = append(knots, endKnotVal)
	}

	out, err := NewSpline(cps, deg, knots, weights, nil, false)
	if err != nil {
		return s
	}
	return out
}

// splineLeadSegment returns the degree+1 evenly spaced collinear control
// points of a clamped degree-th straight-line Bezier running from "from"
// to "to"; it gives the lead-in/lead-out attached by extendSpline an
// exact tangent match with the line from-to at its shared endpoint.
func splineLeadSegment(from, to Point, degree int) []Point {
	pts := make([]Point, degree+1)
	for i := 0; i <= degree; i++ {
		t := float64(i) / float64(degree)
		pts[i] = Point{X: from.X + (to.X-from.X)*t, Y: from.Y + (to.Y-from.Y)*t}
	}
	return pts
}
