package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChainOffsetParamsValidates(t *testing.T) {
	require.NoError(t, DefaultChainOffsetParams().Validate())
}

func TestValidateRejectsNonPositiveTolerance(t *testing.T) {
	p := DefaultChainOffsetParams()
	p.Tolerance = 0
	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestLoadParamsYAMLOverridesDefaults(t *testing.T) {
	doc := "tolerance: 0.25\nsnapThreshold: 2\n"
	p, err := LoadParamsYAML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.InDelta(t, 0.25, p.Tolerance, 1e-9)
	assert.InDelta(t, 2, p.SnapThreshold, 1e-9)
	// fields absent from the document keep the compiled-in default
	assert.Equal(t, DefaultChainOffsetParams().MaxExtension, p.MaxExtension)
}

func TestLoadParamsYAMLRejectsInvalidDocument(t *testing.T) {
	_, err := LoadParamsYAML(strings.NewReader("tolerance: -1\n"))
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestLoadParamsJSONOverridesDefaults(t *testing.T) {
	p, err := LoadParamsJSON(strings.NewReader(`{"maxIterations": 8}`))
	require.NoError(t, err)
	assert.Equal(t, 8, p.MaxIterations)
}

func TestToKernelCopiesAllFields(t *testing.T) {
	p := DefaultChainOffsetParams()
	p.Tolerance = 0.3
	p.MiterLimit = 3
	k := p.ToKernel()
	assert.InDelta(t, 0.3, k.Tolerance, 1e-9)
	assert.InDelta(t, 3, k.MiterLimit, 1e-9)
	assert.Equal(t, p.IntersectionType, k.IntersectionType)
	assert.Equal(t, p.Join, k.Join)
}
