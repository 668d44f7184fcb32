// intersect.go implements component F: the sole public shape
// intersection entry point, dispatching on the unordered shape-kind
// pair to the method prescribed by the pair table, then canonicalizing,
// clustering and (optionally) selecting a single best candidate.
package kernel

import (
	"math"
	"sort"

	"github.com/go-cam/camkernel/camlog"
)

// IntersectOptions configures one call to Intersect.
type IntersectOptions struct {
	AllowExtensions bool
	ExtensionLength float64
	Type            IntersectionType
	Tolerance       float64
	MaxIterations   int
	// SingleBest reduces the result to the one candidate closest to
	// either shape's endpoints, per the "consecutive offset shapes"
	// contract used by the chain offset pipeline.
	SingleBest bool
}

func (o IntersectOptions) tol() float64 {
	if o.Tolerance > 0 {
		return o.Tolerance
	}
	return 0.05
}

func (o IntersectOptions) maxIter() int {
	if o.MaxIterations > 0 {
		return o.MaxIterations
	}
	return defaultMaxSubdivisionDepth
}

func (o IntersectOptions) extLen() float64 {
	if o.ExtensionLength > 0 {
		return o.ExtensionLength
	}
	return 1000
}

// Intersect is the dispatcher's public entry point. It never panics and
// never propagates internal numerical failures: any internal exception
// is swallowed and treated as "no intersection" (an empty slice), per
// the documented failure policy. Log at debug level only (camlog).
func Intersect(a, b Shape, opts IntersectOptions) (results []IntersectionResult) {
	defer func() {
		if r := recover(); r != nil {
			if camlog.Enabled() {
				camlog.Debugf("kernel: intersect(%s, %s) recovered: %v", a.Kind(), b.Kind(), r)
			}
			results = nil
		}
	}()
	tol := opts.tol()
	raw := dispatchOrdered(a, b, tol, opts.Type, opts.maxIter())
	if len(raw) == 0 && opts.AllowExtensions {
		raw = intersectWithExtensions(a, b, opts, tol)
	}
	raw = clusterIntersectionResults(raw, tol)
	sortIntersectionResults(raw)
	if opts.SingleBest && len(raw) > 1 {
		raw = []IntersectionResult{selectSingleBest(raw, a, b)}
	}
	return raw
}

// dispatchOrdered routes the pair by kind, preserving the caller's
// argument order for Param1/Param2. Polyline sides recurse per segment
// (handling polyline-vs-polyline transparently); ellipse/spline sides
// fall through to the NURBS path; everything else is analytic.
func dispatchOrdered(a, b Shape, tol float64, itype IntersectionType, maxIter int) []IntersectionResult {
	if pa, ok := a.(*PolylineShape); ok {
		return intersectPolylineSide(pa, b, tol, itype, maxIter, false)
	}
	if pb, ok := b.(*PolylineShape); ok {
		return intersectPolylineSide(pb, a, tol, itype, maxIter, true)
	}
	if needsNurbs(a) || needsNurbs(b) {
		return intersectViaNurbs(a, b, tol, maxIter)
	}
	return intersectAnalytic(a, b, tol, itype)
}

func needsNurbs(s Shape) bool {
	return s.Kind() == KindEllipse || s.Kind() == KindSpline
}

// intersectPolylineSide iterates poly's segments, dispatching each
// against other and remapping the segment-local parameter u to the
// polyline-global parameter via (i+u)/n. swapped indicates poly occupies
// argument position b in the caller's original order.
func intersectPolylineSide(poly *PolylineShape, other Shape, tol float64, itype IntersectionType, maxIter int, swapped bool) []IntersectionResult {
	n := len(poly.Segments)
	if n == 0 {
		return nil
	}
	var out []IntersectionResult
	for i, seg := range poly.Segments {
		var sub []IntersectionResult
		if swapped {
			sub = dispatchOrdered(other, seg, tol, itype, maxIter)
		} else {
			sub = dispatchOrdered(seg, other, tol, itype, maxIter)
		}
		for _, r := range sub {
			if swapped {
				r.Param2 = (float64(i) + r.Param2) / float64(n)
			} else {
				r.Param1 = (float64(i) + r.Param1) / float64(n)
			}
			out = append(out, r)
		}
	}
	return out
}

// intersectAnalytic handles the six Line/Arc/Circle combinations with
// closed-form solutions.
func intersectAnalytic(a, b Shape, tol float64, itype IntersectionType) []IntersectionResult {
	switch ta := a.(type) {
	case *LineShape:
		switch tb := b.(type) {
		case *LineShape:
			return lineLineIntersect(ta, tb, tol, itype == InfiniteExtent)
		case *ArcShape:
			return lineArcIntersect(ta, tb, tol)
		case *CircleShape:
			return lineCircleIntersect(ta, tb, tol)
		}
	case *ArcShape:
		switch tb := b.(type) {
		case *LineShape:
			return swapResults(lineArcIntersect(tb, ta, tol))
		case *ArcShape:
			return arcArcIntersect(ta, tb, tol)
		case *CircleShape:
			return arcCircleIntersect(ta, tb, tol)
		}
	case *CircleShape:
		switch tb := b.(type) {
		case *LineShape:
			return swapResults(lineCircleIntersect(tb, ta, tol))
		case *ArcShape:
			return swapResults(arcCircleIntersect(tb, ta, tol))
		case *CircleShape:
			return circleCircleIntersect(ta, tb, tol)
		}
	}
	return nil
}

func swapResults(in []IntersectionResult) []IntersectionResult {
	out := make([]IntersectionResult, len(in))
	for i, r := range in {
		r.Param1, r.Param2 = r.Param2, r.Param1
		r.SwapParams = !r.SwapParams
		out[i] = r
	}
	return out
}

func lineCircleIntersect(l *LineShape, c *CircleShape, tol float64) []IntersectionResult {
	d := l.End.Sub(l.Start)
	oc := l.Start.Sub(c.Center)
	A := d.Dot(d)
	if A == 0 {
		return nil
	}
	B := 2 * oc.Dot(d)
	C := oc.Dot(oc) - c.Radius*c.Radius
	disc := B*B - 4*A*C
	if disc < 0 {
		return nil
	}
	var ts []float64
	kind := Exact
	if disc <= 1e-18 {
		ts = []float64{-B / (2 * A)}
		kind = Tangent
	} else {
		sq := math.Sqrt(disc)
		ts = []float64{(-B - sq) / (2 * A), (-B + sq) / (2 * A)}
	}
	var out []IntersectionResult
	for _, t := range ts {
		if t < -1e-9 || t > 1+1e-9 {
			continue
		}
		pt := l.Start.Add(d.Scale(t))
		out = append(out, IntersectionResult{
			Point: pt, Param1: clamp01(t), Param2: circleAngleParam(c, pt),
			Type: kind, Confidence: 1,
		})
	}
	return out
}

func lineArcIntersect(l *LineShape, a *ArcShape, tol float64) []IntersectionResult {
	d := l.End.Sub(l.Start)
	oc := l.Start.Sub(a.Center)
	A := d.Dot(d)
	if A == 0 {
		return nil
	}
	B := 2 * oc.Dot(d)
	C := oc.Dot(oc) - a.Radius*a.Radius
	disc := B*B - 4*A*C
	if disc < 0 {
		return nil
	}
	var ts []float64
	kind := Exact
	if disc <= 1e-18 {
		ts = []float64{-B / (2 * A)}
		kind = Tangent
	} else {
		sq := math.Sqrt(disc)
		ts = []float64{(-B - sq) / (2 * A), (-B + sq) / (2 * A)}
	}
	angTol := tol / a.Radius
	var out []IntersectionResult
	for _, t := range ts {
		if t < -1e-9 || t > 1+1e-9 {
			continue
		}
		pt := l.Start.Add(d.Scale(t))
		theta := math.Atan2(pt.Y-a.Center.Y, pt.X-a.Center.X)
		if !a.containsAngle(theta, angTol) {
			continue
		}
		out = append(out, IntersectionResult{
			Point: pt, Param1: clamp01(t), Param2: a.paramAtAngle(theta),
			Type: kind, Confidence: 1,
		})
	}
	return out
}

// circleCirclePoints solves the standard two-circle intersection
// construction, returning 0, 1 (tangent) or 2 points.
func circleCirclePoints(ca Point, ra float64, cb Point, rb float64, tol float64) ([]Point, IntersectionKind) {
	d := ca.DistanceTo(cb)
	if d < 1e-12 {
		return nil, Exact // concentric: no finite intersection set
	}
	if d > ra+rb+tol || d < math.Abs(ra-rb)-tol {
		return nil, Exact
	}
	aCoef := (ra*ra - rb*rb + d*d) / (2 * d)
	h2 := ra*ra - aCoef*aCoef
	if h2 < 0 {
		h2 = 0
	}
	h := math.Sqrt(h2)
	dir := cb.Sub(ca).Scale(1 / d)
	p2 := ca.Add(dir.Scale(aCoef))
	if h <= tol {
		return []Point{p2}, Tangent
	}
	perp := dir.Perp()
	return []Point{p2.Add(perp.Scale(h)), p2.Sub(perp.Scale(h))}, Exact
}

func circleAngleParam(c *CircleShape, p Point) float64 {
	theta := math.Atan2(p.Y-c.Center.Y, p.X-c.Center.X)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta / (2 * math.Pi)
}

func circleCircleIntersect(a, b *CircleShape, tol float64) []IntersectionResult {
	pts, kind := circleCirclePoints(a.Center, a.Radius, b.Center, b.Radius, tol)
	out := make([]IntersectionResult, 0, len(pts))
	for _, p := range pts {
		out = append(out, IntersectionResult{
			Point: p, Param1: circleAngleParam(a, p), Param2: circleAngleParam(b, p),
			Type: kind, Confidence: 1,
		})
	}
	return out
}

func arcCircleIntersect(a *ArcShape, c *CircleShape, tol float64) []IntersectionResult {
	pts, kind := circleCirclePoints(a.Center, a.Radius, c.Center, c.Radius, tol)
	angTol := tol / a.Radius
	var out []IntersectionResult
	for _, p := range pts {
		theta := math.Atan2(p.Y-a.Center.Y, p.X-a.Center.X)
		if !a.containsAngle(theta, angTol) {
			continue
		}
		out = append(out, IntersectionResult{
			Point: p, Param1: a.paramAtAngle(theta), Param2: circleAngleParam(c, p),
			Type: kind, Confidence: 1,
		})
	}
	return out
}

func arcArcIntersect(a, b *ArcShape, tol float64) []IntersectionResult {
	pts, kind := circleCirclePoints(a.Center, a.Radius, b.Center, b.Radius, tol)
	angTolA := tol / a.Radius
	angTolB := tol / b.Radius
	var out []IntersectionResult
	for _, p := range pts {
		thetaA := math.Atan2(p.Y-a.Center.Y, p.X-a.Center.X)
		thetaB := math.Atan2(p.Y-b.Center.Y, p.X-b.Center.X)
		if !a.containsAngle(thetaA, angTolA) || !b.containsAngle(thetaB, angTolB) {
			continue
		}
		out = append(out, IntersectionResult{
			Point: p, Param1: a.paramAtAngle(thetaA), Param2: b.paramAtAngle(thetaB),
			Type: kind, Confidence: 1,
		})
	}
	return out
}

// intersectViaNurbs converts whichever side is not already a NURBS
// curve and runs the curve-curve subdivision/Newton engine (component B).
func intersectViaNurbs(a, b Shape, tol float64, maxIter int) []IntersectionResult {
	sa, err := ToNURBS(a)
	if err != nil {
		return nil
	}
	sb, err := ToNURBS(b)
	if err != nil {
		return nil
	}
	hits := IntersectCurves(sa, sb, tol, maxIter)
	out := make([]IntersectionResult, 0, len(hits))
	for _, h := range hits {
		out = append(out, IntersectionResult{
			Point: h.Point, Param1: sa.fromKnotParam(h.U0), Param2: sb.fromKnotParam(h.U1),
			Type: Approximate, Confidence: 0.9,
		})
	}
	return out
}

// intersectWithExtensions tries (A extended, B), (A, B extended), (A
// extended, B extended) in that fixed order, tagging every candidate
// OnExtension. Extension failures on one side are skipped; the other
// combinations still run.
func intersectWithExtensions(a, b Shape, opts IntersectOptions, tol float64) []IntersectionResult {
	length := opts.extLen()
	aExt, errA := Extend(a, length)
	bExt, errB := Extend(b, length)

	var out []IntersectionResult
	if errA == nil {
		out = append(out, tagExtension(dispatchOrdered(aExt, b, tol, opts.Type, opts.maxIter()))...)
	}
	if errB == nil {
		out = append(out, tagExtension(dispatchOrdered(a, bExt, tol, opts.Type, opts.maxIter()))...)
	}
	if errA == nil && errB == nil {
		out = append(out, tagExtension(dispatchOrdered(aExt, bExt, tol, opts.Type, opts.maxIter()))...)
	}
	return out
}

func tagExtension(in []IntersectionResult) []IntersectionResult {
	for i := range in {
		in[i].OnExtension = true
	}
	return in
}

// clusterIntersectionResults sorts candidates first (determinism
// requirement), then merges any whose points lie within tol, replacing
// each cluster with its averaged point/params/confidence.
func clusterIntersectionResults(in []IntersectionResult, tol float64) []IntersectionResult {
	if len(in) == 0 {
		return nil
	}
	sortIntersectionResults(in)
	used := make([]bool, len(in))
	var out []IntersectionResult
	for i := range in {
		if used[i] {
			continue
		}
		acc := in[i]
		count := 1.0
		used[i] = true
		for j := i + 1; j < len(in); j++ {
			if used[j] {
				continue
			}
			if in[i].Point.DistanceTo(in[j].Point) <= tol {
				acc.Point.X += in[j].Point.X
				acc.Point.Y += in[j].Point.Y
				acc.Param1 += in[j].Param1
				acc.Param2 += in[j].Param2
				acc.Confidence += in[j].Confidence
				if in[j].Type > acc.Type {
					acc.Type = in[j].Type
				}
				acc.OnExtension = acc.OnExtension || in[j].OnExtension
				count++
				used[j] = true
			}
		}
		acc.Point.X /= count
		acc.Point.Y /= count
		acc.Param1 /= count
		acc.Param2 /= count
		acc.Confidence /= count
		out = append(out, acc)
	}
	return out
}

func sortIntersectionResults(in []IntersectionResult) {
	sort.Slice(in, func(i, j int) bool {
		if in[i].Param1 != in[j].Param1 {
			return in[i].Param1 < in[j].Param1
		}
		if in[i].Param2 != in[j].Param2 {
			return in[i].Param2 < in[j].Param2
		}
		if in[i].Point.X != in[j].Point.X {
			return in[i].Point.X < in[j].Point.X
		}
		return in[i].Point.Y < in[j].Point.Y
	})
}

// selectSingleBest picks the candidate closest to either shape's
// endpoints, used when the caller (the chain offset pipeline) wants one
// definitive trim point between two consecutive offset shapes.
func selectSingleBest(candidates []IntersectionResult, a, b Shape) IntersectionResult {
	anchors := []Point{a.StartPoint(), a.EndPoint(), b.StartPoint(), b.EndPoint()}
	best := candidates[0]
	bestDist := math.MaxFloat64
	for _, c := range candidates {
		d := math.MaxFloat64
		for _, anchor := range anchors {
			if v := c.Point.DistanceTo(anchor); v < d {
				d = v
			}
		}
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}
