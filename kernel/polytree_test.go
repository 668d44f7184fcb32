package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPolyTreeNestsByContainment(t *testing.T) {
	shell := cwSquare(0, 0, 100)
	hole := ccwSquare(10, 10, 60)
	island := cwSquare(20, 20, 10)

	tree := BuildPolyTree([][]Point{shell, hole, island}, DefaultPolygonConfig())
	require.Len(t, tree.Children(), 1)

	shellNode := tree.Children()[0]
	assert.Equal(t, 1, shellNode.Level())
	assert.False(t, shellNode.IsHole())

	require.Len(t, shellNode.Children(), 1)
	holeNode := shellNode.Children()[0]
	assert.Equal(t, 2, holeNode.Level())
	assert.True(t, holeNode.IsHole())

	require.Len(t, holeNode.Children(), 1)
	islandNode := holeNode.Children()[0]
	assert.Equal(t, 3, islandNode.Level())
	assert.False(t, islandNode.IsHole())

	assert.Equal(t, 3, tree.TotalPolygonCount())
	assert.Len(t, tree.Flatten(), 3)
}

func TestBuildPolyTreeUnrelatedPolygonsStayAtRoot(t *testing.T) {
	a := cwSquare(0, 0, 10)
	b := cwSquare(100, 100, 10)
	tree := BuildPolyTree([][]Point{a, b}, DefaultPolygonConfig())
	assert.Len(t, tree.Children(), 2)
	for _, c := range tree.Children() {
		assert.Equal(t, 1, c.Level())
	}
}

func TestBuildPolyTreeSkipsDegeneratePolygons(t *testing.T) {
	tree := BuildPolyTree([][]Point{{{0, 0}, {1, 0}}}, DefaultPolygonConfig())
	assert.Equal(t, 0, tree.TotalPolygonCount())
}
