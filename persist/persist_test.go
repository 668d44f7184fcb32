package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-cam/camkernel/kernel"
)

func sampleDrawing(t *testing.T) kernel.Drawing {
	t.Helper()
	line := kernel.NewLine(kernel.Point{X: 0, Y: 0}, kernel.Point{X: 10, Y: 0})
	arc, err := kernel.NewArc(kernel.Point{X: 10, Y: 5}, 5, 0, 3.14159, false)
	require.NoError(t, err)
	poly, err := kernel.NewPolyline([]kernel.Shape{line, arc}, false)
	require.NoError(t, err)

	return kernel.Drawing{
		Name:   "fixture",
		Unit:   kernel.Inch,
		Shapes: []kernel.Shape{line, arc, poly},
		Chains: []kernel.Chain{{ID: "chain-1", Shapes: []kernel.Shape{line, arc}}},
	}
}

func TestDrawingJSONRoundTrip(t *testing.T) {
	d := sampleDrawing(t)
	data, err := MarshalDrawingJSON(d)
	require.NoError(t, err)

	back, err := UnmarshalDrawingJSON(data)
	require.NoError(t, err)

	assert.Equal(t, d.Name, back.Name)
	assert.Equal(t, d.Unit, back.Unit)
	require.Len(t, back.Shapes, len(d.Shapes))
	for i, s := range d.Shapes {
		assert.Equal(t, s.ID(), back.Shapes[i].ID())
		assert.Equal(t, s.Kind(), back.Shapes[i].Kind())
	}
	require.Len(t, back.Chains, 1)
	assert.Equal(t, "chain-1", back.Chains[0].ID)
}

func TestDrawingYAMLRoundTrip(t *testing.T) {
	d := sampleDrawing(t)
	data, err := MarshalDrawingYAML(d)
	require.NoError(t, err)

	back, err := UnmarshalDrawingYAML(data)
	require.NoError(t, err)
	assert.Equal(t, d.Name, back.Name)
	require.Len(t, back.Shapes, len(d.Shapes))
}

func TestShapeDTORoundTripPreservesGeometry(t *testing.T) {
	arc, err := kernel.NewArc(kernel.Point{X: 1, Y: 2}, 3, 0.1, 1.2, true)
	require.NoError(t, err)

	dto, err := ToShapeDTO(arc)
	require.NoError(t, err)
	back, err := FromShapeDTO(dto)
	require.NoError(t, err)

	backArc, ok := back.(*kernel.ArcShape)
	require.True(t, ok)
	assert.Equal(t, arc.ID(), backArc.ID())
	assert.Equal(t, arc.Center, backArc.Center)
	assert.InDelta(t, arc.Radius, backArc.Radius, 1e-12)
	assert.Equal(t, arc.Clockwise, backArc.Clockwise)
}

func TestFromShapeDTORejectsUnknownKind(t *testing.T) {
	_, err := FromShapeDTO(shapeDTO{Kind: "nonsense"})
	assert.Error(t, err)
}

func TestOffsetChainJSONRoundTrip(t *testing.T) {
	line := kernel.NewLine(kernel.Point{X: 0, Y: 0}, kernel.Point{X: 1, Y: 1})
	oc := kernel.OffsetChain{
		ID:              "oc-1",
		OriginalChainID: "chain-1",
		Side:            kernel.SideOuter,
		Shapes:          []kernel.Shape{line},
		Closed:          false,
		Continuous:      true,
		Confidence:      0.9,
	}
	data, err := MarshalOffsetChainJSON(oc)
	require.NoError(t, err)
	back, err := UnmarshalOffsetChainJSON(data)
	require.NoError(t, err)
	assert.Equal(t, oc.ID, back.ID)
	assert.Equal(t, oc.Side, back.Side)
	assert.InDelta(t, oc.Confidence, back.Confidence, 1e-12)
	require.Len(t, back.Shapes, 1)
}
