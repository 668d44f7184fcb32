// offset.go implements component H: offsetting a single shape by a
// signed distance along its boundary normal. Polyline offsetting joins
// consecutive offset segments using the same corner taxonomy Clipper2
// uses for integer paths (bevel, round, miter with a square fallback),
// adapted here to operate directly on float Point/Vector geometry at a
// single corner rather than over a whole path pass. Self-intersection
// cleanup across an entire offset chain is not this file's job; that is
// handled, more cheaply, by the chain pipeline's own intersection pass.
package kernel

import "math"

// JoinType selects the corner construction used where two offset
// polyline segments no longer meet at a convex corner.
type JoinType uint8

const (
	JoinMiter JoinType = iota
	JoinRound
	JoinBevel
	JoinSquare
)

func (j JoinType) String() string {
	switch j {
	case JoinMiter:
		return "miter"
	case JoinRound:
		return "round"
	case JoinSquare:
		return "square"
	default:
		return "bevel"
	}
}

// DefaultMiterLimit bounds how far a miter join may extend past the
// corner, expressed as a multiple of |d|, before falling back to a
// square join. Mirrors Clipper2's default of 2.
const DefaultMiterLimit = 2.0

// offsetJoinTol is the distance below which two adjacent offset segment
// endpoints are considered already coincident and need no connector.
const offsetJoinTol = 1e-7

// OffsetShape returns shape displaced by distance d (d must be >= 0)
// on the side named by side. Lines translate along their normal. Arcs
// and circles grow or shrink their radius; if the adjusted radius would
// be <= 0 the result is degenerate and ErrDegenerateOffset is returned.
// Polylines offset each segment and join the results per join/miterLimit.
// Ellipses and splines are tessellated and refit as a polyline, which
// stays within the tolerance a CAM offset pass needs at the sample
// density used here.
func OffsetShape(shape Shape, d float64, side Side, join JoinType, miterLimit float64) (Shape, error) {
	if d < 0 {
		return nil, ErrInvalidParams
	}
	switch v := shape.(type) {
	case *LineShape:
		n := offsetNormal(v.TangentAt(0), side)
		return NewLine(v.Start.Add(n.Scale(d)), v.End.Add(n.Scale(d))), nil
	case *ArcShape:
		r := v.Radius + radiusDelta(side)*d
		if r <= 0 {
			return nil, ErrDegenerateOffset
		}
		return NewArc(v.Center, r, v.StartAngle, v.EndAngle, v.Clockwise)
	case *CircleShape:
		r := v.Radius + radiusDelta(side)*d
		if r <= 0 {
			return nil, ErrDegenerateOffset
		}
		return NewCircle(v.Center, r)
	case *EllipseShape:
		return offsetBySampling(v, d, side)
	case *PolylineShape:
		return offsetPolyline(v, d, side, join, miterLimit)
	case *SplineShape:
		return offsetBySampling(v, d, side)
	default:
		return nil, ErrInvalidParams
	}
}

// offsetNormal returns the unit normal a point on tangent direction
// should move along for the requested side. Outset is the left normal
// (90 degrees counter-clockwise of travel); inset is its negation.
func offsetNormal(tangent Vector, side Side) Vector {
	left := tangent.Perp()
	if side == Inset {
		return left.Negate()
	}
	return left
}

// radiusDelta reports the sign applied to d when adjusting an arc or
// circle's radius: outset grows it, inset shrinks it.
func radiusDelta(side Side) float64 {
	if side == Inset {
		return -1
	}
	return 1
}

const offsetSampleCount = 64

// offsetBySampling tessellates s into offsetSampleCount points, moves
// each along its local normal by d, and reconnects them as a polyline.
// Full ellipses close the resulting polyline; open ellipses and all
// splines do not.
func offsetBySampling(s Shape, d float64, side Side) (Shape, error) {
	closed := false
	if e, ok := s.(*EllipseShape); ok {
		closed = e.IsFullEllipse()
	}
	pts := make([]Point, offsetSampleCount+1)
	for i := 0; i <= offsetSampleCount; i++ {
		t := float64(i) / float64(offsetSampleCount)
		n := offsetNormal(s.TangentAt(t), side)
		pts[i] = s.PointAt(t).Add(n.Scale(d))
	}
	if closed {
		pts = pts[:offsetSampleCount]
	}
	n := len(pts)
	segs := make([]Shape, 0, n)
	limit := n - 1
	if closed {
		limit = n
	}
	for i := 0; i < limit; i++ {
		segs = append(segs, NewLine(pts[i], pts[(i+1)%n]))
	}
	return NewPolyline(segs, closed)
}

// offsetPolyline offsets each segment of p independently, then bridges
// the gap left at every interior corner (and, for closed polylines, the
// wraparound corner) with a join constructed per join/miterLimit.
func offsetPolyline(p *PolylineShape, d float64, side Side, join JoinType, miterLimit float64) (*PolylineShape, error) {
	n := len(p.Segments)
	if n == 0 {
		return nil, ErrDegenerateOffset
	}
	offsetSegs := make([]Shape, n)
	for i, seg := range p.Segments {
		os, err := OffsetShape(seg, d, side, join, miterLimit)
		if err != nil {
			return nil, err
		}
		offsetSegs[i] = os
	}

	limit := n - 1
	if p.IsClosed {
		limit = n
	}
	out := make([]Shape, 0, n*2)
	for i := 0; i < limit; i++ {
		out = append(out, offsetSegs[i])
		j := (i + 1) % n
		corner := p.Segments[i].EndPoint()
		prevEnd := offsetSegs[i].EndPoint()
		nextStart := offsetSegs[j].StartPoint()
		if prevEnd.DistanceTo(nextStart) <= offsetJoinTol {
			continue
		}
		out = append(out, joinCorner(corner, prevEnd, nextStart,
			p.Segments[i].TangentAt(1), p.Segments[j].TangentAt(0),
			d, side, join, miterLimit)...)
	}
	if !p.IsClosed {
		out = append(out, offsetSegs[n-1])
	}
	return NewPolyline(out, p.IsClosed)
}

// joinCorner bridges the gap between one offset segment's end and the
// next offset segment's start, both displaced from corner. A concave
// turn (the offset direction opens the corner rather than widening it)
// is always bridged with a straight bevel: a miter or round construction
// there would fold back over the original path, and without a
// whole-chain union pass to clean that up afterward, a plain connecting
// line is the safer default.
func joinCorner(corner, prevEnd, nextStart Point, tangentIn, tangentOut Vector, d float64, side Side, join JoinType, miterLimit float64) []Shape {
	signed := d
	if side == Inset {
		signed = -d
	}
	sinA := tangentIn.Cross(tangentOut)
	cosA := tangentIn.Dot(tangentOut)

	concave := cosA > -0.999 && sinA*signed < 0
	if concave {
		return []Shape{NewLine(prevEnd, nextStart)}
	}

	switch join {
	case JoinRound:
		return roundJoin(corner, prevEnd, nextStart, math.Abs(d), sinA)
	case JoinMiter:
		return miterJoin(corner, prevEnd, nextStart, tangentIn, tangentOut, math.Abs(d), miterLimit, side)
	case JoinSquare:
		return squareJoin(corner, prevEnd, nextStart, tangentIn, tangentOut, math.Abs(d), side)
	default:
		return []Shape{NewLine(prevEnd, nextStart)}
	}
}

func roundJoin(corner, from, to Point, radius float64, sinA float64) []Shape {
	if radius <= 0 {
		return []Shape{NewLine(from, to)}
	}
	startAngle := math.Atan2(from.Y-corner.Y, from.X-corner.X)
	endAngle := math.Atan2(to.Y-corner.Y, to.X-corner.X)
	arc, err := NewArc(corner, radius, startAngle, endAngle, sinA < 0)
	if err != nil {
		return []Shape{NewLine(from, to)}
	}
	return []Shape{arc}
}

// miterJoin intersects the two offset segments' supporting lines. If
// the resulting point would overshoot the corner by more than
// miterLimit*d, Clipper2 falls back to a squared corner instead of an
// unbounded spike; this does the same.
func miterJoin(corner, from, to Point, tangentIn, tangentOut Vector, d, miterLimit float64, side Side) []Shape {
	denom := tangentIn.Cross(tangentOut)
	if math.Abs(denom) < 1e-12 {
		return squareJoin(corner, from, to, tangentIn, tangentOut, d, side)
	}
	diff := to.Sub(from)
	tParam := diff.Cross(tangentOut) / denom
	miterPt := from.Add(tangentIn.Scale(tParam))
	if miterPt.DistanceTo(corner) > miterLimit*d {
		return squareJoin(corner, from, to, tangentIn, tangentOut, d, side)
	}
	return []Shape{NewLine(from, miterPt), NewLine(miterPt, to)}
}

// squareJoin cuts the corner with a single flat facet perpendicular to
// the bisector of the two offset normals, at distance d from corner,
// mirroring Clipper2's DoSquare construction.
func squareJoin(corner, from, to Point, tangentIn, tangentOut Vector, d float64, side Side) []Shape {
	normalIn := offsetNormal(tangentIn, side)
	normalOut := offsetNormal(tangentOut, side)
	bisector := normalIn.Add(normalOut)
	if bisector.Length() == 0 {
		bisector = normalIn
	}
	bisector = bisector.Normalized()
	apex := corner.Add(bisector.Scale(d))
	return []Shape{NewLine(from, apex), NewLine(apex, to)}
}
