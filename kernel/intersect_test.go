package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersectLineLineCrossing(t *testing.T) {
	a := NewLine(Point{0, 0}, Point{10, 0})
	b := NewLine(Point{5, -5}, Point{5, 5})
	hits := Intersect(a, b, IntersectOptions{Tolerance: 0.01})
	require.Len(t, hits, 1)
	assert.InDelta(t, 5, hits[0].Point.X, 1e-6)
	assert.InDelta(t, 0, hits[0].Point.Y, 1e-6)
}

func TestIntersectParallelLinesMiss(t *testing.T) {
	a := NewLine(Point{0, 0}, Point{10, 0})
	b := NewLine(Point{0, 5}, Point{10, 5})
	hits := Intersect(a, b, IntersectOptions{Tolerance: 0.01})
	assert.Empty(t, hits)
}

func TestIntersectCircleCircleTwoPoints(t *testing.T) {
	a, err := NewCircle(Point{0, 0}, 5)
	require.NoError(t, err)
	b, err := NewCircle(Point{6, 0}, 5)
	require.NoError(t, err)
	hits := Intersect(a, b, IntersectOptions{Tolerance: 0.01})
	assert.Len(t, hits, 2)
}

func TestIntersectWithExtensionsFindsHitBeyondDomain(t *testing.T) {
	a := NewLine(Point{0, 0}, Point{5, 0})
	b := NewLine(Point{10, -5}, Point{10, 5})
	noExt := Intersect(a, b, IntersectOptions{Tolerance: 0.01})
	assert.Empty(t, noExt)

	withExt := Intersect(a, b, IntersectOptions{Tolerance: 0.01, AllowExtensions: true, ExtensionLength: 100})
	require.NotEmpty(t, withExt)
	assert.True(t, withExt[0].OnExtension)
}

func TestIntersectSingleBestPicksOneCandidate(t *testing.T) {
	// Two near-parallel lines crossing twice within clustering distance of
	// each other would collapse to one cluster already; use circle-circle
	// (two genuinely distinct points) to exercise SingleBest's reduction.
	a, err := NewCircle(Point{0, 0}, 5)
	require.NoError(t, err)
	b, err := NewCircle(Point{6, 0}, 5)
	require.NoError(t, err)
	hits := Intersect(a, b, IntersectOptions{Tolerance: 0.01, SingleBest: true})
	assert.Len(t, hits, 1)
}

func TestIntersectNeverPanics(t *testing.T) {
	degenerate := NewLine(Point{0, 0}, Point{0, 0})
	assert.NotPanics(t, func() {
		Intersect(degenerate, NewLine(Point{1, 1}, Point{2, 2}), IntersectOptions{})
	})
}
