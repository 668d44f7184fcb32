// trim.go implements component I: trimming a shape at a point, keeping
// the requested side. Points outside the shape's natural domain but
// within maxExtension of it are reached by extending the shape first.
package kernel

import "math"

// TrimSide selects which half of the shape survives a Trim call.
type TrimSide uint8

const (
	// TrimBefore keeps the portion from the shape's start up to the trim point.
	TrimBefore TrimSide = iota
	// TrimAfter keeps the portion from the trim point to the shape's end.
	TrimAfter
)

// minArcSpan is the smallest angular span (radians) a trimmed arc may
// retain before it is rejected as degenerate.
const minArcSpan = 1e-4

// Trim returns the shape restricted to the half indicated by keep,
// split at the point on shape nearest to point. If point lies beyond
// the shape's natural domain (within tol of its extension, up to
// maxExtension), the shape is extended first and extended is reported
// true. Returns ErrDegenerateTrim if point is farther than maxExtension,
// or if the trim result is degenerate (e.g. an arc span collapsing
// below minArcSpan).
func Trim(shape Shape, point Point, keep TrimSide, tol, maxExtension float64) (result Shape, extended bool, err error) {
	t, dist := nearestPointOnShape(shape, point)
	working := shape
	if dist > tol {
		if dist > maxExtension {
			return nil, false, ErrDegenerateTrim
		}
		ext, eerr := Extend(shape, dist+tol)
		if eerr != nil {
			return nil, false, ErrDegenerateTrim
		}
		working = ext
		t, dist = nearestPointOnShape(working, point)
		extended = true
		if dist > tol {
			return nil, extended, ErrDegenerateTrim
		}
	}
	trimmed, terr := trimAt(working, t, keep)
	if terr != nil {
		return nil, extended, terr
	}
	return trimmed, extended, nil
}

func trimAt(shape Shape, t float64, keep TrimSide) (Shape, error) {
	switch v := shape.(type) {
	case *LineShape:
		pt := v.PointAt(t)
		if keep == TrimAfter {
			return NewLine(pt, v.End), nil
		}
		return NewLine(v.Start, pt), nil
	case *ArcShape:
		frac := t
		if keep == TrimAfter {
			frac = 1 - t
		}
		if frac*v.angularSpan() < minArcSpan {
			return nil, ErrDegenerateTrim
		}
		theta := v.angleAt(t)
		if keep == TrimAfter {
			return NewArc(v.Center, v.Radius, theta, v.EndAngle, v.Clockwise)
		}
		return NewArc(v.Center, v.Radius, v.StartAngle, theta, v.Clockwise)
	case *CircleShape:
		theta := t * 2 * math.Pi
		if keep == TrimAfter {
			return NewArc(v.Center, v.Radius, theta, theta+2*math.Pi, false)
		}
		return NewArc(v.Center, v.Radius, theta-2*math.Pi, theta, false)
	case *EllipseShape:
		s, en := v.startEndParams()
		theta := s + (en-s)*t
		var newStart, newEnd *float64
		if keep == TrimAfter {
			ns, ne := theta, en
			newStart, newEnd = &ns, &ne
		} else {
			ns, ne := s, theta
			newStart, newEnd = &ns, &ne
		}
		return NewEllipse(v.Center, v.MajorAxisEndpoint, v.MinorToMajorRatio, newStart, newEnd), nil
	case *PolylineShape:
		idx, local := v.segmentAt(t)
		trimmedSeg, terr := trimAt(v.Segments[idx], local, keep)
		if terr != nil {
			return nil, terr
		}
		var segs []Shape
		if keep == TrimAfter {
			segs = append([]Shape{trimmedSeg}, v.Segments[idx+1:]...)
		} else {
			segs = append(append([]Shape{}, v.Segments[:idx]...), trimmedSeg)
		}
		if len(segs) == 0 {
			return nil, ErrDegenerateTrim
		}
		return NewPolyline(segs, false)
	case *SplineShape:
		return trimSpline(v, t, keep)
	default:
		return nil, ErrInvalidParams
	}
}

// trimSpline tessellates the retained sub-range and refits it as a
// NURBS curve via the same polyline-to-NURBS chaining used elsewhere in
// the kernel (nurbs.go); exact does not matter here, only that the
// refit curve stays within tolerance of the true trimmed NURBS, which a
// 48-point tessellation comfortably achieves at CAM scales.
func trimSpline(s *SplineShape, t float64, keep TrimSide) (*SplineShape, error) {
	lo, hi := 0.0, t
	if keep == TrimAfter {
		lo, hi = t, 1
	}
	if hi-lo < 1e-6 {
		return nil, ErrDegenerateTrim
	}
	const samples = 48
	segs := make([]Shape, 0, samples)
	prev := s.PointAt(lo)
	for i := 1; i <= samples; i++ {
		frac := lo + (hi-lo)*float64(i)/float64(samples)
		cur := s.PointAt(frac)
		segs = append(segs, NewLine(prev, cur))
		prev = cur
	}
	poly, err := NewPolyline(segs, false)
	if err != nil {
		return nil, err
	}
	return polylineToNURBSApprox(poly)
}
