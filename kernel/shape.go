package kernel

import (
	"math"

	"github.com/google/uuid"
)

// newID mints a random shape identity token. Constructors use it as
// their default; callers that already carry an identity scheme (e.g. a
// DXF entity handle) can override it with a WithID option.
func newID() ShapeID {
	return uuid.NewString()
}

// ShapeOption configures a shape constructor.
type ShapeOption func(*shapeMeta)

type shapeMeta struct {
	id ShapeID
}

// WithID overrides the auto-generated identity token.
func WithID(id ShapeID) ShapeOption {
	return func(m *shapeMeta) { m.id = id }
}

func applyOptions(opts []ShapeOption) shapeMeta {
	m := shapeMeta{id: newID()}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// LineShape is a straight segment from Start to End.
type LineShape struct {
	id         ShapeID
	Start, End Point
}

// NewLine constructs a line segment.
func NewLine(start, end Point, opts ...ShapeOption) *LineShape {
	m := applyOptions(opts)
	return &LineShape{id: m.id, Start: start, End: end}
}

func (l *LineShape) ID() ShapeID   { return l.id }
func (l *LineShape) Kind() ShapeKind { return KindLine }
func (l *LineShape) isShape()        {}

// ArcShape is a circular arc of the given radius, spanning StartAngle
// to EndAngle (radians) in the rotational sense given by Clockwise. A
// span of |EndAngle-StartAngle| == 2*pi denotes a full circle traversal.
type ArcShape struct {
	id                     ShapeID
	Center                 Point
	Radius                 float64
	StartAngle, EndAngle   float64
	Clockwise              bool
}

// NewArc constructs an arc. Returns ErrNonPositiveRadius if radius <= 0.
func NewArc(center Point, radius, startAngle, endAngle float64, clockwise bool, opts ...ShapeOption) (*ArcShape, error) {
	if radius <= 0 {
		return nil, ErrNonPositiveRadius
	}
	m := applyOptions(opts)
	return &ArcShape{id: m.id, Center: center, Radius: radius, StartAngle: startAngle, EndAngle: endAngle, Clockwise: clockwise}, nil
}

func (a *ArcShape) ID() ShapeID   { return a.id }
func (a *ArcShape) Kind() ShapeKind { return KindArc }
func (a *ArcShape) isShape()        {}

// isFullCircle reports whether the arc's start/end span a full turn.
func (a *ArcShape) isFullCircle() bool {
	return math.Abs(math.Abs(a.EndAngle-a.StartAngle)-2*math.Pi) < 1e-9
}

// angularSpan returns the magnitude of angular travel from StartAngle
// to EndAngle in the arc's rotational sense, in (0, 2*pi].
func (a *ArcShape) angularSpan() float64 {
	if a.isFullCircle() {
		return 2 * math.Pi
	}
	d := forwardDelta(a.StartAngle, a.EndAngle, a.Clockwise)
	if d == 0 {
		return 2 * math.Pi
	}
	return d
}

// angleAt maps normalized parameter t in [0,1] to an absolute angle.
func (a *ArcShape) angleAt(t float64) float64 {
	span := a.angularSpan()
	if a.Clockwise {
		span = -span
	}
	return a.StartAngle + span*t
}

// containsAngle reports whether test angle theta lies within
// [StartAngle, EndAngle] in the arc's rotational sense (handling wrap
// across 0), within angular tolerance tolRad. Endpoints count as inside.
func (a *ArcShape) containsAngle(theta, tolRad float64) bool {
	if a.isFullCircle() {
		return true
	}
	span := a.angularSpan()
	d := forwardDelta(a.StartAngle, theta, a.Clockwise)
	return d <= span+tolRad || d >= 2*math.Pi-tolRad
}

// forwardDelta returns the non-negative angular distance traveled from
// "from" to "to" when moving in the direction indicated by clockwise,
// folded into [0, 2*pi).
func forwardDelta(from, to float64, clockwise bool) float64 {
	d := to - from
	if clockwise {
		d = -d
	}
	d = math.Mod(d, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d
}

// paramAtAngle is the inverse of angleAt: it maps an absolute angle
// (assumed within the arc's angular span) back to normalized t in [0,1].
func (a *ArcShape) paramAtAngle(theta float64) float64 {
	span := a.angularSpan()
	if span == 0 {
		return 0
	}
	d := forwardDelta(a.StartAngle, theta, a.Clockwise)
	t := d / span
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// CircleShape is a full circle.
type CircleShape struct {
	id     ShapeID
	Center Point
	Radius float64
}

// NewCircle constructs a circle. Returns ErrNonPositiveRadius if radius <= 0.
func NewCircle(center Point, radius float64, opts ...ShapeOption) (*CircleShape, error) {
	if radius <= 0 {
		return nil, ErrNonPositiveRadius
	}
	m := applyOptions(opts)
	return &CircleShape{id: m.id, Center: center, Radius: radius}, nil
}

func (c *CircleShape) ID() ShapeID   { return c.id }
func (c *CircleShape) Kind() ShapeKind { return KindCircle }
func (c *CircleShape) isShape()        {}

// EllipseShape is an ellipse or elliptical arc. MajorAxisEndpoint is the
// vector from Center to the major-axis tip, encoding both orientation
// and semi-major length; MinorToMajorRatio is in (0,1]. StartParam and
// EndParam are angles in the canonical ellipse frame; both nil denotes a
// full ellipse.
type EllipseShape struct {
	id                ShapeID
	Center            Point
	MajorAxisEndpoint Vector
	MinorToMajorRatio float64
	StartParam        *float64
	EndParam          *float64
}

// NewEllipse constructs a full ellipse or elliptical arc.
func NewEllipse(center Point, majorAxisEndpoint Vector, minorToMajorRatio float64, startParam, endParam *float64, opts ...ShapeOption) *EllipseShape {
	m := applyOptions(opts)
	return &EllipseShape{
		id: m.id, Center: center, MajorAxisEndpoint: majorAxisEndpoint,
		MinorToMajorRatio: minorToMajorRatio, StartParam: startParam, EndParam: endParam,
	}
}

func (e *EllipseShape) ID() ShapeID   { return e.id }
func (e *EllipseShape) Kind() ShapeKind { return KindEllipse }
func (e *EllipseShape) isShape()        {}

// IsFullEllipse reports whether the shape has no bounded angular span.
func (e *EllipseShape) IsFullEllipse() bool { return e.StartParam == nil || e.EndParam == nil }

func (e *EllipseShape) semiMajor() float64 { return e.MajorAxisEndpoint.Length() }
func (e *EllipseShape) semiMinor() float64 { return e.semiMajor() * e.MinorToMajorRatio }
func (e *EllipseShape) rotation() float64  { return math.Atan2(e.MajorAxisEndpoint.Y, e.MajorAxisEndpoint.X) }

func (e *EllipseShape) startEndParams() (float64, float64) {
	if e.IsFullEllipse() {
		return 0, 2 * math.Pi
	}
	return *e.StartParam, *e.EndParam
}

// PolylineShape is an ordered list of Line/Arc sub-shapes whose
// endpoints are chained within closure tolerance.
type PolylineShape struct {
	id       ShapeID
	Segments []Shape
	IsClosed bool
}

// NewPolyline constructs a polyline from Line/Arc sub-shapes.
func NewPolyline(segments []Shape, closed bool, opts ...ShapeOption) (*PolylineShape, error) {
	for _, s := range segments {
		if s.Kind() != KindLine && s.Kind() != KindArc {
			return nil, ErrInvalidPolylineSegment
		}
	}
	m := applyOptions(opts)
	return &PolylineShape{id: m.id, Segments: segments, IsClosed: closed}, nil
}

func (p *PolylineShape) ID() ShapeID   { return p.id }
func (p *PolylineShape) Kind() ShapeKind { return KindPolyline }
func (p *PolylineShape) isShape()        {}

// segmentAt selects the segment index and local parameter for global
// parameter t, per the spec's "segment i occupies [i/n,(i+1)/n]" rule.
func (p *PolylineShape) segmentAt(t float64) (idx int, localT float64) {
	n := len(p.Segments)
	if n == 0 {
		return 0, 0
	}
	if t >= 1 {
		return n - 1, 1
	}
	if t <= 0 {
		return 0, 0
	}
	scaled := t * float64(n)
	idx = int(scaled)
	if idx >= n {
		idx = n - 1
	}
	localT = scaled - float64(idx)
	return idx, localT
}

// SplineShape is a NURBS curve.
type SplineShape struct {
	id            ShapeID
	ControlPoints []Point
	Degree        int
	Knots         []float64
	Weights       []float64
	FitPoints     []Point
	IsClosed      bool
}

// NewSpline constructs a NURBS curve. Weights defaults to all-1 (a
// non-rational B-spline) when nil. Returns ErrMalformedSpline if the
// knot count does not match len(ControlPoints)+Degree+1 or degree >=
// len(ControlPoints).
func NewSpline(controlPoints []Point, degree int, knots []float64, weights []float64, fitPoints []Point, closed bool, opts ...ShapeOption) (*SplineShape, error) {
	n := len(controlPoints)
	if degree < 1 || degree >= n {
		return nil, ErrMalformedSpline
	}
	if len(knots) != n+degree+1 {
		return nil, ErrMalformedSpline
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] {
			return nil, ErrMalformedSpline
		}
	}
	if weights == nil {
		weights = make([]float64, n)
		for i := range weights {
			weights[i] = 1
		}
	} else if len(weights) != n {
		return nil, ErrMalformedSpline
	}
	m := applyOptions(opts)
	return &SplineShape{
		id: m.id, ControlPoints: controlPoints, Degree: degree, Knots: knots,
		Weights: weights, FitPoints: fitPoints, IsClosed: closed,
	}, nil
}

func (s *SplineShape) ID() ShapeID   { return s.id }
func (s *SplineShape) Kind() ShapeKind { return KindSpline }
func (s *SplineShape) isShape()        {}

// domainStart/domainEnd are the knot-vector parameter bounds the curve
// is actually defined over (clamped curves repeat the first/last knot
// degree+1 times).
func (s *SplineShape) domainStart() float64 { return s.Knots[s.Degree] }
func (s *SplineShape) domainEnd() float64   { return s.Knots[len(s.Knots)-s.Degree-1] }

// toKnotParam maps normalized t in [0,1] onto the knot domain.
func (s *SplineShape) toKnotParam(t float64) float64 {
	return s.domainStart() + t*(s.domainEnd()-s.domainStart())
}

// fromKnotParam is the inverse of toKnotParam.
func (s *SplineShape) fromKnotParam(u float64) float64 {
	span := s.domainEnd() - s.domainStart()
	if span == 0 {
		return 0
	}
	return (u - s.domainStart()) / span
}
