package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetShapeLineTranslatesAlongNormal(t *testing.T) {
	line := NewLine(Point{0, 0}, Point{10, 0})
	out, err := OffsetShape(line, 2, Outset, JoinBevel, DefaultMiterLimit)
	require.NoError(t, err)
	l, ok := out.(*LineShape)
	require.True(t, ok)
	assert.InDelta(t, 0, l.Start.X, 1e-9)
	assert.InDelta(t, 2, l.Start.Y, 1e-9)
	assert.InDelta(t, 10, l.End.X, 1e-9)
	assert.InDelta(t, 2, l.End.Y, 1e-9)
}

func TestOffsetShapeZeroDistanceIsIdentity(t *testing.T) {
	line := NewLine(Point{1, 1}, Point{5, 9})
	out, err := OffsetShape(line, 0, Outset, JoinBevel, DefaultMiterLimit)
	require.NoError(t, err)
	l := out.(*LineShape)
	assert.Equal(t, line.Start, l.Start)
	assert.Equal(t, line.End, l.End)
}

func TestOffsetShapeRejectsNegativeDistance(t *testing.T) {
	line := NewLine(Point{0, 0}, Point{1, 0})
	_, err := OffsetShape(line, -1, Outset, JoinBevel, DefaultMiterLimit)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestOffsetShapeCircleGrowsAndShrinks(t *testing.T) {
	c, err := NewCircle(Point{0, 0}, 10)
	require.NoError(t, err)

	out, err := OffsetShape(c, 3, Outset, JoinBevel, DefaultMiterLimit)
	require.NoError(t, err)
	assert.InDelta(t, 13, out.(*CircleShape).Radius, 1e-9)

	out, err = OffsetShape(c, 3, Inset, JoinBevel, DefaultMiterLimit)
	require.NoError(t, err)
	assert.InDelta(t, 7, out.(*CircleShape).Radius, 1e-9)
}

func TestOffsetShapeCircleDegenerateWhenInsetCollapsesRadius(t *testing.T) {
	c, err := NewCircle(Point{0, 0}, 5)
	require.NoError(t, err)
	_, err = OffsetShape(c, 5, Inset, JoinBevel, DefaultMiterLimit)
	assert.ErrorIs(t, err, ErrDegenerateOffset)

	_, err = OffsetShape(c, 10, Inset, JoinBevel, DefaultMiterLimit)
	assert.ErrorIs(t, err, ErrDegenerateOffset)
}

func TestOffsetShapeArcDegenerateWhenRadiusCollapses(t *testing.T) {
	a, err := NewArc(Point{0, 0}, 4, 0, 1, false)
	require.NoError(t, err)
	_, err = OffsetShape(a, 4, Inset, JoinBevel, DefaultMiterLimit)
	assert.ErrorIs(t, err, ErrDegenerateOffset)
}

func rightAnglePolyline(t *testing.T, closed bool) *PolylineShape {
	t.Helper()
	segs := []Shape{
		NewLine(Point{0, 0}, Point{10, 0}),
		NewLine(Point{10, 0}, Point{10, 10}),
	}
	p, err := NewPolyline(segs, closed)
	require.NoError(t, err)
	return p
}

func TestOffsetPolylineBevelJoinInsertsConnector(t *testing.T) {
	p := rightAnglePolyline(t, false)
	out, err := OffsetShape(p, 1, Outset, JoinBevel, DefaultMiterLimit)
	require.NoError(t, err)
	polyline := out.(*PolylineShape)
	// two offset segments plus one connector at the convex outer corner
	assert.Len(t, polyline.Segments, 3)
}

func TestOffsetPolylineRoundJoinInsertsArc(t *testing.T) {
	p := rightAnglePolyline(t, false)
	out, err := OffsetShape(p, 1, Outset, JoinRound, DefaultMiterLimit)
	require.NoError(t, err)
	polyline := out.(*PolylineShape)
	require.Len(t, polyline.Segments, 3)
	_, isArc := polyline.Segments[1].(*ArcShape)
	assert.True(t, isArc, "expected an arc connector at the convex corner")
}

func TestOffsetPolylineMiterJoinInsertsTwoLines(t *testing.T) {
	p := rightAnglePolyline(t, false)
	out, err := OffsetShape(p, 1, Outset, JoinMiter, DefaultMiterLimit)
	require.NoError(t, err)
	polyline := out.(*PolylineShape)
	assert.Len(t, polyline.Segments, 4)
}

func TestOffsetPolylineConcaveCornerAlwaysBevels(t *testing.T) {
	p := rightAnglePolyline(t, false)
	// Inset on this corner is the concave side; round/miter should both
	// fall back to the same straight connector as bevel.
	outRound, err := OffsetShape(p, 1, Inset, JoinRound, DefaultMiterLimit)
	require.NoError(t, err)
	outBevel, err := OffsetShape(p, 1, Inset, JoinBevel, DefaultMiterLimit)
	require.NoError(t, err)
	assert.Len(t, outRound.(*PolylineShape).Segments, 3)
	assert.Len(t, outBevel.(*PolylineShape).Segments, 3)
	_, isLine := outRound.(*PolylineShape).Segments[1].(*LineShape)
	assert.True(t, isLine, "concave corner connector must be a straight line regardless of join type")
}

func TestOffsetPolylineClosedJoinsWraparoundCorner(t *testing.T) {
	segs := []Shape{
		NewLine(Point{0, 0}, Point{10, 0}),
		NewLine(Point{10, 0}, Point{10, 10}),
		NewLine(Point{10, 10}, Point{0, 10}),
		NewLine(Point{0, 10}, Point{0, 0}),
	}
	p, err := NewPolyline(segs, true)
	require.NoError(t, err)
	out, err := OffsetShape(p, 1, Outset, JoinBevel, DefaultMiterLimit)
	require.NoError(t, err)
	polyline := out.(*PolylineShape)
	assert.True(t, polyline.IsClosed)
	// four edges plus four corner connectors, including the wraparound one
	assert.Len(t, polyline.Segments, 8)
}

func TestOffsetBySamplingFullEllipseClosesPolyline(t *testing.T) {
	e := NewEllipse(Point{0, 0}, Vector{10, 0}, 0.5, nil, nil)
	out, err := OffsetShape(e, 1, Outset, JoinBevel, DefaultMiterLimit)
	require.NoError(t, err)
	polyline := out.(*PolylineShape)
	assert.True(t, polyline.IsClosed)
	assert.Len(t, polyline.Segments, offsetSampleCount)
}
