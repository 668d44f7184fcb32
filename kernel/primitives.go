// primitives.go implements component A: per-shape point, tangent and
// bounding-box evaluation at normalized parameter t in [0,1].
package kernel

import "math"

// --- Line ---

func (l *LineShape) PointAt(t float64) Point {
	return Point{
		X: l.Start.X + (l.End.X-l.Start.X)*t,
		Y: l.Start.Y + (l.End.Y-l.Start.Y)*t,
	}
}

func (l *LineShape) TangentAt(float64) Vector {
	return l.End.Sub(l.Start).Normalized()
}

func (l *LineShape) StartPoint() Point { return l.Start }
func (l *LineShape) EndPoint() Point   { return l.End }

func (l *LineShape) BoundingBox() Box {
	return Box{
		Min: Point{math.Min(l.Start.X, l.End.X), math.Min(l.Start.Y, l.End.Y)},
		Max: Point{math.Max(l.Start.X, l.End.X), math.Max(l.Start.Y, l.End.Y)},
	}
}

// --- Arc ---

func (a *ArcShape) PointAt(t float64) Point {
	theta := a.angleAt(t)
	return Point{
		X: a.Center.X + a.Radius*math.Cos(theta),
		Y: a.Center.Y + a.Radius*math.Sin(theta),
	}
}

func (a *ArcShape) TangentAt(t float64) Vector {
	theta := a.angleAt(t)
	tv := Vector{-math.Sin(theta), math.Cos(theta)}
	if a.Clockwise {
		tv = tv.Negate()
	}
	return tv.Normalized()
}

func (a *ArcShape) StartPoint() Point { return a.PointAt(0) }
func (a *ArcShape) EndPoint() Point   { return a.PointAt(1) }

func (a *ArcShape) BoundingBox() Box {
	pts := []Point{a.StartPoint(), a.EndPoint()}
	// The bounding box also depends on whether the arc crosses the
	// cardinal directions (0, pi/2, pi, 3pi/2) where x or y extremes occur.
	for _, cardinal := range [4]float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2} {
		if a.containsAngle(cardinal, 1e-9) {
			pts = append(pts, Point{
				X: a.Center.X + a.Radius*math.Cos(cardinal),
				Y: a.Center.Y + a.Radius*math.Sin(cardinal),
			})
		}
	}
	return boxOf(pts)
}

func boxOf(pts []Point) Box {
	b := Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// --- Circle ---

func (c *CircleShape) PointAt(t float64) Point {
	theta := t * 2 * math.Pi
	return Point{
		X: c.Center.X + c.Radius*math.Cos(theta),
		Y: c.Center.Y + c.Radius*math.Sin(theta),
	}
}

func (c *CircleShape) TangentAt(t float64) Vector {
	theta := t * 2 * math.Pi
	return Vector{-math.Sin(theta), math.Cos(theta)}
}

func (c *CircleShape) StartPoint() Point { return c.PointAt(0) }
func (c *CircleShape) EndPoint() Point   { return c.PointAt(1) }

func (c *CircleShape) BoundingBox() Box {
	return Box{
		Min: Point{c.Center.X - c.Radius, c.Center.Y - c.Radius},
		Max: Point{c.Center.X + c.Radius, c.Center.Y + c.Radius},
	}
}

// --- Ellipse ---

func (e *EllipseShape) PointAt(t float64) Point {
	s, en := e.startEndParams()
	theta := s + (en-s)*t
	a, b, rot := e.semiMajor(), e.semiMinor(), e.rotation()
	x := a * math.Cos(theta)
	y := b * math.Sin(theta)
	cr, sr := math.Cos(rot), math.Sin(rot)
	return Point{
		X: e.Center.X + x*cr - y*sr,
		Y: e.Center.Y + x*sr + y*cr,
	}
}

func (e *EllipseShape) TangentAt(t float64) Vector {
	s, en := e.startEndParams()
	theta := s + (en-s)*t
	a, b, rot := e.semiMajor(), e.semiMinor(), e.rotation()
	dx := -a * math.Sin(theta)
	dy := b * math.Cos(theta)
	cr, sr := math.Cos(rot), math.Sin(rot)
	v := Vector{dx*cr - dy*sr, dx*sr + dy*cr}
	if en < s {
		v = v.Negate()
	}
	return v.Normalized()
}

func (e *EllipseShape) StartPoint() Point { return e.PointAt(0) }
func (e *EllipseShape) EndPoint() Point   { return e.PointAt(1) }

func (e *EllipseShape) BoundingBox() Box {
	// Sample-based bound over 181 points of the parametric span, for
	// full ellipses and arcs alike; it can fall slightly inside the true
	// extrema between samples (ellipse arcs are never offset directly in
	// this kernel without tessellation first; see offset.go).
	const samples = 180
	s, en := e.startEndParams()
	pts := make([]Point, 0, samples+1)
	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		theta := s + (en-s)*t
		a, b, rot := e.semiMajor(), e.semiMinor(), e.rotation()
		x := a * math.Cos(theta)
		y := b * math.Sin(theta)
		cr, sr := math.Cos(rot), math.Sin(rot)
		pts = append(pts, Point{e.Center.X + x*cr - y*sr, e.Center.Y + x*sr + y*cr})
	}
	return boxOf(pts)
}

// containsAngle reports whether test angle theta (canonical ellipse
// frame) lies within the ellipse's parametric span, handling wrap.
func (e *EllipseShape) containsAngle(theta, tol float64) bool {
	if e.IsFullEllipse() {
		return true
	}
	s, en := e.startEndParams()
	clockwise := en < s
	lo, hi := s, en
	if clockwise {
		lo, hi = en, s
	}
	d := forwardDelta(lo, theta, false)
	span := forwardDelta(lo, hi, false)
	if span == 0 {
		span = 2 * math.Pi
	}
	return d <= span+tol || d >= 2*math.Pi-tol
}

// --- Polyline ---

func (p *PolylineShape) PointAt(t float64) Point {
	idx, local := p.segmentAt(t)
	return p.Segments[idx].PointAt(local)
}

func (p *PolylineShape) TangentAt(t float64) Vector {
	idx, local := p.segmentAt(t)
	return p.Segments[idx].TangentAt(local)
}

func (p *PolylineShape) StartPoint() Point {
	if len(p.Segments) == 0 {
		return Point{}
	}
	return p.Segments[0].StartPoint()
}

func (p *PolylineShape) EndPoint() Point {
	if len(p.Segments) == 0 {
		return Point{}
	}
	return p.Segments[len(p.Segments)-1].EndPoint()
}

func (p *PolylineShape) BoundingBox() Box {
	if len(p.Segments) == 0 {
		return Box{}
	}
	b := p.Segments[0].BoundingBox()
	for _, s := range p.Segments[1:] {
		b = b.Union(s.BoundingBox())
	}
	return b
}

// --- Spline ---

func (s *SplineShape) PointAt(t float64) Point {
	return nurbsEvaluate(s, s.toKnotParam(t))
}

func (s *SplineShape) TangentAt(t float64) Vector {
	_, d1 := nurbsEvaluateWithDerivative(s, s.toKnotParam(t))
	return d1.Normalized()
}

func (s *SplineShape) StartPoint() Point { return s.PointAt(0) }
func (s *SplineShape) EndPoint() Point   { return s.PointAt(1) }

func (s *SplineShape) BoundingBox() Box {
	// Box of 65 evenly spaced curve samples; it is not widened to the
	// control polygon, so it can fall slightly inside the curve between
	// samples.
	const samples = 64
	pts := make([]Point, 0, samples+1)
	for i := 0; i <= samples; i++ {
		pts = append(pts, s.PointAt(float64(i)/float64(samples)))
	}
	return boxOf(pts)
}
