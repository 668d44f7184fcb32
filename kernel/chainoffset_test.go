package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareChain(t *testing.T) Chain {
	t.Helper()
	shapes := []Shape{
		NewLine(Point{0, 0}, Point{10, 0}),
		NewLine(Point{10, 0}, Point{10, 10}),
		NewLine(Point{10, 10}, Point{0, 10}),
		NewLine(Point{0, 10}, Point{0, 0}),
	}
	return Chain{ID: newID(), Shapes: shapes}
}

func TestChainOffsetEmptyChainErrors(t *testing.T) {
	result := ChainOffset(Chain{}, 1, DefaultChainOffsetParams())
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
}

func TestChainOffsetNegativeDistanceErrors(t *testing.T) {
	result := ChainOffset(squareChain(t), -1, DefaultChainOffsetParams())
	assert.False(t, result.Success)
}

func TestChainOffsetSquareProducesBothSides(t *testing.T) {
	c := squareChain(t)
	result := ChainOffset(c, 1, DefaultChainOffsetParams())
	require.True(t, result.Success)
	require.Len(t, result.Chains, 2)

	var sawInner, sawOuter bool
	for _, oc := range result.Chains {
		assert.Equal(t, c.ID, oc.OriginalChainID)
		assert.NotEmpty(t, oc.ID)
		if oc.Side == SideInner {
			sawInner = true
		}
		if oc.Side == SideOuter {
			sawOuter = true
		}
	}
	assert.True(t, sawInner, "expected one offset chain classified inner")
	assert.True(t, sawOuter, "expected one offset chain classified outer")
}

func TestChainOffsetIsDeterministic(t *testing.T) {
	c := squareChain(t)
	params := DefaultChainOffsetParams()
	a := ChainOffset(c, 2, params)
	b := ChainOffset(c, 2, params)
	require.Equal(t, len(a.Chains), len(b.Chains))
	for i := range a.Chains {
		assert.Equal(t, len(a.Chains[i].Shapes), len(b.Chains[i].Shapes))
		assert.Equal(t, a.Chains[i].Side, b.Chains[i].Side)
	}
	assert.Equal(t, a.Metrics.OrderedGapFillMethods(), b.Metrics.OrderedGapFillMethods())
}

func TestChainOffsetGapFillSnapForSmallGap(t *testing.T) {
	// Two parallel segments 5 units apart: their offsets stay parallel,
	// so the adjacent-intersection step (step 2) finds no hit even with
	// extensions, and the ~5 unit gap is within the raised snap
	// threshold, so closeGap's snap fallback is exercised.
	shapes := []Shape{
		NewLine(Point{0, 0}, Point{10, 0}),
		NewLine(Point{10.001, 5}, Point{20, 5}),
	}
	c := Chain{ID: newID(), Shapes: shapes}
	params := DefaultChainOffsetParams()
	params.SnapThreshold = 10
	result := ChainOffset(c, 1, params)
	require.True(t, result.Success)
	total := 0
	for _, n := range result.Metrics.GapFillsByMethod {
		total += n
	}
	assert.Positive(t, total)
}

func TestTangentFilletArcIsTangentAtStart(t *testing.T) {
	start := Point{0, 0}
	end := Point{10, 5}
	tangent := Vector{1, 0}
	shape, ok := tangentFilletArc(start, end, tangent)
	require.True(t, ok)
	arc := shape.(*ArcShape)
	// the radius at start is perpendicular to the start tangent
	assert.InDelta(t, 0, arc.Center.Sub(start).Dot(tangent), 1e-6)
	assert.InDelta(t, arc.Center.DistanceTo(start), arc.Radius, 1e-6)
	assert.InDelta(t, arc.Center.DistanceTo(end), arc.Radius, 1e-6)
}

func TestGroupContinuousRunsSplitsOnSkippedShape(t *testing.T) {
	shapes := []Shape{
		NewLine(Point{0, 0}, Point{1, 0}),
		NewLine(Point{1, 0}, Point{2, 0}),
		NewLine(Point{5, 0}, Point{6, 0}),
	}
	ok := []bool{true, false, true}
	runs := groupContinuousRuns(shapes, ok, 0.01, false)
	require.Len(t, runs, 2)
	assert.Len(t, runs[0], 1)
	assert.Len(t, runs[1], 1)
}

func TestValidateOffsetStageFlagsKindChangeAndCollapse(t *testing.T) {
	original := []Shape{
		NewLine(Point{0, 0}, Point{10, 0}),
		NewLine(Point{0, 0}, Point{10, 0}),
	}
	arc, err := NewArc(Point{0, 0}, 5, 0, 1, false)
	require.NoError(t, err)
	offset := []Shape{arc, NewLine(Point{5, 5}, Point{5, 5})}
	ok := []bool{true, true}
	warnings := validateOffsetStage(original, offset, ok)
	assert.Len(t, warnings, 2)
}

func TestValidateContinuityStageFlagsGap(t *testing.T) {
	shapes := []Shape{
		NewLine(Point{0, 0}, Point{10, 0}),
		NewLine(Point{10.5, 0}, Point{20, 0}),
	}
	ok := []bool{true, true}
	warnings := validateContinuityStage("test", shapes, ok, 0.01, false)
	require.Len(t, warnings, 1)
}

func TestChainOffsetValidateInvariantsOffByDefaultProducesNoInvariantWarnings(t *testing.T) {
	c := squareChain(t)
	result := ChainOffset(c, 1, DefaultChainOffsetParams())
	for _, w := range result.Warnings {
		assert.NotContains(t, w, "invariant:")
	}
}

func TestChainOffsetValidateInvariantsOnCleanChainHasNoWarnings(t *testing.T) {
	c := squareChain(t)
	params := DefaultChainOffsetParams()
	params.ValidateInvariants = true
	result := ChainOffset(c, 1, params)
	for _, w := range result.Warnings {
		assert.NotContains(t, w, "invariant:")
	}
}

func TestOrderedGapFillMethodsIsFixedOrder(t *testing.T) {
	m := Metrics{GapFillsByMethod: map[string]int{
		"bridge": 1,
		"snap":   2,
		"fillet": 1,
	}}
	assert.Equal(t, []string{"snap", "fillet", "bridge"}, m.OrderedGapFillMethods())
}
