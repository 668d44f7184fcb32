// nearest.go provides the nearest-point-on-shape search shared by trim
// (component I, locating an out-of-domain trim point) and side detection
// (component J, projecting an offset sample onto its open parent).
package kernel

import "math"

// nearestPointOnShape returns the normalized parameter t in [0,1] whose
// PointAt(t) is closest to p, and that distance. Line, arc and circle
// use closed-form projection; polylines recurse per segment; ellipses
// and splines fall back to coarse sampling with local ternary-search
// refinement, which is adequate at CAM tolerances.
func nearestPointOnShape(s Shape, p Point) (t, dist float64) {
	switch v := s.(type) {
	case *LineShape:
		d := v.End.Sub(v.Start)
		l := d.Length()
		if l == 0 {
			return 0, p.DistanceTo(v.Start)
		}
		unit := d.Normalized()
		t = clamp01(p.Sub(v.Start).Dot(unit) / l)
		return t, p.DistanceTo(v.PointAt(t))
	case *ArcShape:
		theta := math.Atan2(p.Y-v.Center.Y, p.X-v.Center.X)
		if v.containsAngle(theta, 1e-6) {
			t = v.paramAtAngle(theta)
		} else if p.DistanceTo(v.StartPoint()) <= p.DistanceTo(v.EndPoint()) {
			t = 0
		} else {
			t = 1
		}
		return t, p.DistanceTo(v.PointAt(t))
	case *CircleShape:
		t = circleAngleParam(v, p)
		return t, p.DistanceTo(v.PointAt(t))
	case *PolylineShape:
		n := len(v.Segments)
		bestT, bestDist := 0.0, math.MaxFloat64
		for i, seg := range v.Segments {
			lt, ld := nearestPointOnShape(seg, p)
			if ld < bestDist {
				bestDist = ld
				bestT = (float64(i) + lt) / float64(n)
			}
		}
		return bestT, bestDist
	default:
		return nearestPointBySampling(s, p)
	}
}

func nearestPointBySampling(s Shape, p Point) (t, dist float64) {
	const samples = 200
	bestT, bestDist := 0.0, math.MaxFloat64
	for i := 0; i <= samples; i++ {
		cand := float64(i) / float64(samples)
		if d := p.DistanceTo(s.PointAt(cand)); d < bestDist {
			bestDist = d
			bestT = cand
		}
	}
	lo := math.Max(0, bestT-1.0/samples)
	hi := math.Min(1, bestT+1.0/samples)
	for iter := 0; iter < 24; iter++ {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if p.DistanceTo(s.PointAt(m1)) < p.DistanceTo(s.PointAt(m2)) {
			hi = m2
		} else {
			lo = m1
		}
	}
	t = (lo + hi) / 2
	return t, p.DistanceTo(s.PointAt(t))
}
