// side.go implements component J: classifying an offset shape as
// inner/outer (closed parent) or left/right (open parent), relative to
// its original chain, with a deterministic confidence score.
package kernel

import "math"

// sideSampleCount is the default number of points sampled along the
// offset shape for majority-vote side classification.
const sideSampleCount = 10

// samplesPerSegmentForNearest is the per-segment sample density used by
// the open-chain brute-force nearest-point search.
const samplesPerSegmentForNearest = 20

// ClassifySide determines which side of parent the offset shape lies
// on. offsetDistance is the signed distance used to offset shape from
// its parent; its sign only matters as the tie-break when samples split
// evenly. Confidence is |2k-N|/N where k is the majority sample count.
func ClassifySide(shape Shape, parent Chain, offsetDistance, tol float64) (OffsetSideTag, float64) {
	if parent.Closed(tol) {
		return classifyClosedSide(shape, parent, offsetDistance, tol)
	}
	return classifyOpenSide(shape, parent, offsetDistance, tol)
}

func classifyClosedSide(shape Shape, parent Chain, offsetDistance, tol float64) (OffsetSideTag, float64) {
	inside := 0
	for i := 0; i < sideSampleCount; i++ {
		t := (float64(i) + 0.5) / float64(sideSampleCount)
		p := shape.PointAt(t)
		if ok, err := PointInChain(p, parent, tol); err == nil && ok {
			inside++
		}
	}
	n := sideSampleCount
	tag := SideOuter
	if inside*2 >= n {
		tag = SideInner
	}
	if inside*2 == n {
		if offsetDistance < 0 {
			tag = SideOuter
		} else {
			tag = SideInner
		}
	}
	confidence := math.Abs(float64(2*inside-n)) / float64(n)
	return tag, confidence
}

func classifyOpenSide(shape Shape, parent Chain, offsetDistance, tol float64) (OffsetSideTag, float64) {
	leftCount := 0
	n := sideSampleCount
	for i := 0; i < n; i++ {
		t := (float64(i) + 0.5) / float64(n)
		sample := shape.PointAt(t)
		nearest, tangent := nearestOnChain(parent, sample)
		cross := tangent.Cross(sample.Sub(nearest))
		switch {
		case cross > tol:
			leftCount++
		case cross < -tol:
			// right; no increment
		default:
			// Degenerate sample (on the parent itself): fall back to the
			// offset distance's sign per the canonical tie-break.
			if offsetDistance <= 0 {
				leftCount++
			}
		}
	}
	tag := SideRight
	if leftCount*2 >= n {
		tag = SideLeft
	}
	if leftCount*2 == n {
		if offsetDistance > 0 {
			tag = SideRight
		} else {
			tag = SideLeft
		}
	}
	confidence := math.Abs(float64(2*leftCount-n)) / float64(n)
	return tag, confidence
}

// nearestOnChain brute-force searches samplesPerSegmentForNearest points
// per shape of the chain for the nearest point to p, returning that
// point and the chain's tangent there.
func nearestOnChain(c Chain, p Point) (nearest Point, tangent Vector) {
	bestDist := math.MaxFloat64
	for _, shape := range c.Shapes {
		for i := 0; i <= samplesPerSegmentForNearest; i++ {
			t := float64(i) / float64(samplesPerSegmentForNearest)
			cand := shape.PointAt(t)
			if d := p.DistanceTo(cand); d < bestDist {
				bestDist = d
				nearest = cand
				tangent = shape.TangentAt(t)
			}
		}
	}
	return nearest, tangent
}
