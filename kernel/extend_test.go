package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtendNonPositiveLengthReturnsUnchanged(t *testing.T) {
	l := NewLine(Point{0, 0}, Point{1, 0})
	out, err := Extend(l, 0)
	require.NoError(t, err)
	assert.Same(t, Shape(l), out)
}

func TestExtendLineGrowsBothEnds(t *testing.T) {
	l := NewLine(Point{0, 0}, Point{10, 0})
	out, err := Extend(l, 5)
	require.NoError(t, err)
	ext := out.(*LineShape)
	assert.InDelta(t, -5, ext.Start.X, 1e-9)
	assert.InDelta(t, 15, ext.End.X, 1e-9)
}

func TestExtendCircleIsUnchanged(t *testing.T) {
	c, err := NewCircle(Point{0, 0}, 5)
	require.NoError(t, err)
	out, err := Extend(c, 10)
	require.NoError(t, err)
	assert.Same(t, Shape(c), out)
}

func TestExtendClosedPolylineErrors(t *testing.T) {
	segs := []Shape{
		NewLine(Point{0, 0}, Point{10, 0}),
		NewLine(Point{10, 0}, Point{0, 0}),
	}
	p, err := NewPolyline(segs, true)
	require.NoError(t, err)
	_, err = Extend(p, 1)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestExtendPolylineAddsEndSegments(t *testing.T) {
	segs := []Shape{NewLine(Point{0, 0}, Point{10, 0})}
	p, err := NewPolyline(segs, false)
	require.NoError(t, err)
	out, err := Extend(p, 5)
	require.NoError(t, err)
	ext := out.(*PolylineShape)
	assert.Len(t, ext.Segments, 3)
	assert.InDelta(t, -5, ext.StartPoint().X, 1e-9)
	assert.InDelta(t, 15, ext.EndPoint().X, 1e-9)
}

func TestExtendArcWidensSpan(t *testing.T) {
	a, err := NewArc(Point{0, 0}, 10, 0, math.Pi/2, false)
	require.NoError(t, err)
	out, err := Extend(a, 5)
	require.NoError(t, err)
	ext := out.(*ArcShape)
	assert.Less(t, ext.StartAngle, a.StartAngle)
	assert.Greater(t, ext.EndAngle, a.EndAngle)
}

// TestExtendSplinePreservesOriginalDomain is the regression test for the
// w==0/origin-collapse bug: every point on the original curve's own knot
// domain must evaluate, through the extended curve, to exactly the point
// the unextended curve gives for the same knot parameter.
func TestExtendSplinePreservesOriginalDomain(t *testing.T) {
	pts := []Point{{0, 0}, {1, 2}, {2, 2}, {3, 0}}
	knots := []float64{0, 0, 0, 1.5, 3, 3, 3}
	s, err := NewSpline(pts, 2, knots, nil, nil, false)
	require.NoError(t, err)

	out, err := Extend(s, 5)
	require.NoError(t, err)
	ext := out.(*SplineShape)

	for _, tt := range []float64{0, 0.25, 0.5, 0.75, 1} {
		u := s.toKnotParam(tt)
		want := s.PointAt(tt)
		got := ext.PointAt(ext.fromKnotParam(u))
		assert.InDelta(t, want.X, got.X, 1e-9)
		assert.InDelta(t, want.Y, got.Y, 1e-9)
	}
}

func TestExtendSplineGrowsTips(t *testing.T) {
	pts := []Point{{0, 0}, {1, 2}, {2, 2}, {3, 0}}
	knots := []float64{0, 0, 0, 1.5, 3, 3, 3}
	s, err := NewSpline(pts, 2, knots, nil, nil, false)
	require.NoError(t, err)

	out, err := Extend(s, 5)
	require.NoError(t, err)
	ext := out.(*SplineShape)

	startTan := s.TangentAt(0)
	endTan := s.TangentAt(1)
	wantStart := s.StartPoint().Sub(startTan.Scale(5))
	wantEnd := s.EndPoint().Add(endTan.Scale(5))
	assert.InDelta(t, wantStart.X, ext.StartPoint().X, 1e-9)
	assert.InDelta(t, wantStart.Y, ext.StartPoint().Y, 1e-9)
	assert.InDelta(t, wantEnd.X, ext.EndPoint().X, 1e-9)
	assert.InDelta(t, wantEnd.Y, ext.EndPoint().Y, 1e-9)
}

func TestExtendEllipseArcPreservesDomainAndGrowsSpan(t *testing.T) {
	start, end := 0.0, math.Pi/2
	e := NewEllipse(Point{0, 0}, Vector{X: 10}, 0.5, &start, &end)
	out, err := Extend(e, 2)
	require.NoError(t, err)
	ext, ok := out.(*SplineShape)
	require.True(t, ok)

	orig, err := ToNURBS(e)
	require.NoError(t, err)
	for _, tt := range []float64{0, 0.5, 1} {
		u := orig.toKnotParam(tt)
		want := orig.PointAt(tt)
		got := ext.PointAt(ext.fromKnotParam(u))
		assert.InDelta(t, want.X, got.X, 1e-6)
		assert.InDelta(t, want.Y, got.Y, 1e-6)
	}
	assert.NotEqual(t, orig.StartPoint(), ext.StartPoint())
	assert.NotEqual(t, orig.EndPoint(), ext.EndPoint())
}
