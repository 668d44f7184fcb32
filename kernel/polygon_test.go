package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ccwSquare(x0, y0, side float64) []Point {
	return []Point{{x0, y0}, {x0 + side, y0}, {x0 + side, y0 + side}, {x0, y0 + side}}
}

func cwSquare(x0, y0, side float64) []Point {
	p := ccwSquare(x0, y0, side)
	out := make([]Point, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

func TestAnalyzeWindingAndArea(t *testing.T) {
	a := Analyze(ccwSquare(0, 0, 10), DefaultPolygonConfig())
	assert.Equal(t, WindingCCW, a.Winding)
	assert.InDelta(t, 100, a.AbsArea, 1e-9)
	assert.True(t, a.Simple)

	b := Analyze(cwSquare(0, 0, 10), DefaultPolygonConfig())
	assert.Equal(t, WindingCW, b.Winding)
}

func TestIsPolygonInside(t *testing.T) {
	outer := cwSquare(0, 0, 100)
	inner := ccwSquare(10, 10, 10)
	assert.True(t, IsPolygonInside(inner, outer, 0.01))

	farAway := ccwSquare(500, 500, 10)
	assert.False(t, IsPolygonInside(farAway, outer, 0.01))
}

func TestClassifyShellsAndHolesAttachesContainedHole(t *testing.T) {
	shell := cwSquare(0, 0, 100)
	hole := ccwSquare(10, 10, 10)
	orphanHole := ccwSquare(500, 500, 10)

	result := ClassifyShellsAndHoles([][]Point{shell, hole, orphanHole}, DefaultPolygonConfig())
	require.Len(t, result.Shells, 1)
	assert.Len(t, result.Shells[0].Holes, 1)
	assert.Len(t, result.Orphans, 1)
}

func TestNormalizeWindingReversesOnlyWhenNeeded(t *testing.T) {
	ccw := ccwSquare(0, 0, 10)
	normalized := NormalizeWinding(ccw, WindingCW, 0.01)
	assert.Equal(t, WindingCW, Analyze(normalized, DefaultPolygonConfig()).Winding)

	alreadyCW := cwSquare(0, 0, 10)
	unchanged := NormalizeWinding(alreadyCW, WindingCW, 0.01)
	assert.Equal(t, alreadyCW, unchanged)
}

func TestConvexHullOfSquareWithInteriorPoint(t *testing.T) {
	pts := append(ccwSquare(0, 0, 10), Point{5, 5})
	hull := ConvexHull(pts)
	assert.Len(t, hull, 4)
}

func TestSimplifyDropsNearDuplicateVertex(t *testing.T) {
	pts := []Point{{0, 0}, {0, 0.001}, {10, 0}, {10, 10}, {0, 10}}
	out := Simplify(pts, SimplifyConfig{MinDistance: 0.01, CollinearityTolerance: 1e-6})
	assert.Len(t, out, 4)
}

func TestRegularPolygonVertexCount(t *testing.T) {
	pts := RegularPolygon(Point{0, 0}, 5, 6, 0)
	assert.Len(t, pts, 6)
	for _, p := range pts {
		assert.InDelta(t, 5, p.DistanceTo(Point{0, 0}), 1e-9)
	}
}
