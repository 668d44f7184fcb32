package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimLineKeepsRequestedHalf(t *testing.T) {
	l := NewLine(Point{0, 0}, Point{10, 0})
	before, extended, err := Trim(l, Point{4, 0}, TrimBefore, 0.01, 100)
	require.NoError(t, err)
	assert.False(t, extended)
	line := before.(*LineShape)
	assert.InDelta(t, 0, line.Start.X, 1e-6)
	assert.InDelta(t, 4, line.End.X, 1e-6)

	after, _, err := Trim(l, Point{4, 0}, TrimAfter, 0.01, 100)
	require.NoError(t, err)
	line = after.(*LineShape)
	assert.InDelta(t, 4, line.Start.X, 1e-6)
	assert.InDelta(t, 10, line.End.X, 1e-6)
}

func TestTrimBeyondDomainExtendsFirst(t *testing.T) {
	l := NewLine(Point{0, 0}, Point{10, 0})
	out, extended, err := Trim(l, Point{15, 0}, TrimBefore, 0.01, 100)
	require.NoError(t, err)
	assert.True(t, extended)
	line := out.(*LineShape)
	assert.InDelta(t, 15, line.End.X, 1e-6)
}

func TestTrimBeyondMaxExtensionErrors(t *testing.T) {
	l := NewLine(Point{0, 0}, Point{10, 0})
	_, _, err := Trim(l, Point{1000, 0}, TrimBefore, 0.01, 5)
	assert.ErrorIs(t, err, ErrDegenerateTrim)
}

func TestTrimArcRejectsDegenerateSpan(t *testing.T) {
	a, err := NewArc(Point{0, 0}, 10, 0, 0.001, false)
	require.NoError(t, err)
	// Trimming TrimAfter at a point a hair before the arc's end leaves a
	// sliver shorter than minArcSpan.
	pointNearEnd := a.PointAt(0.9999)
	_, _, err = Trim(a, pointNearEnd, TrimAfter, 0.5, 100)
	assert.ErrorIs(t, err, ErrDegenerateTrim)
}

func TestTrimPolylineKeepsAffectedSegmentsOnly(t *testing.T) {
	segs := []Shape{
		NewLine(Point{0, 0}, Point{10, 0}),
		NewLine(Point{10, 0}, Point{20, 0}),
	}
	p, err := NewPolyline(segs, false)
	require.NoError(t, err)
	out, _, err := Trim(p, Point{15, 0}, TrimAfter, 0.01, 100)
	require.NoError(t, err)
	poly := out.(*PolylineShape)
	assert.Len(t, poly.Segments, 1)
	assert.InDelta(t, 15, poly.StartPoint().X, 1e-6)
	assert.InDelta(t, 20, poly.EndPoint().X, 1e-6)
}
