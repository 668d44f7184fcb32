package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointInChainInsideAndOutside(t *testing.T) {
	c := squareChain(t)
	inside, err := PointInChain(Point{5, 5}, c, 0.01)
	require.NoError(t, err)
	assert.True(t, inside)

	outside, err := PointInChain(Point{50, 50}, c, 0.01)
	require.NoError(t, err)
	assert.False(t, outside)
}

func TestPointInChainRejectsOpenChain(t *testing.T) {
	c := Chain{ID: "open", Shapes: []Shape{NewLine(Point{0, 0}, Point{10, 0})}}
	_, err := PointInChain(Point{5, 5}, c, 0.01)
	assert.ErrorIs(t, err, ErrOpenChain)
}

func TestPointInChainRejectsEmptyChain(t *testing.T) {
	_, err := PointInChain(Point{0, 0}, Chain{}, 0.01)
	assert.ErrorIs(t, err, ErrEmptyChain)
}

func TestPointsInChainPreservesOrder(t *testing.T) {
	c := squareChain(t)
	results, err := PointsInChain([]Point{{5, 5}, {50, 50}, {1, 1}}, c, 0.01)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, results)
}

func TestAnyPointInChainShortCircuits(t *testing.T) {
	c := squareChain(t)
	found, err := AnyPointInChain([]Point{{50, 50}, {5, 5}}, c, 0.01)
	require.NoError(t, err)
	assert.True(t, found)
}
