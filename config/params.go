// Package config holds the typed parameter struct the chain offset
// pipeline is driven by, plus YAML/JSON loaders for it. Nothing here
// reaches into the kernel's unexported internals; it only assembles and
// validates the values a ChainOffset call needs.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/go-cam/camkernel/kernel"
)

// ChainOffsetParams drives the chain offset pipeline (component K).
// There is no package-level mutable default; every pipeline entry point
// takes one of these explicitly.
type ChainOffsetParams struct {
	Tolerance              float64                `yaml:"tolerance" json:"tolerance"`
	MaxExtension           float64                `yaml:"maxExtension" json:"maxExtension"`
	SnapThreshold          float64                `yaml:"snapThreshold" json:"snapThreshold"`
	ValidateInvariants     bool                   `yaml:"validateInvariants" json:"validateInvariants"`
	MaxIterations          int                    `yaml:"maxIterations" json:"maxIterations"`
	PolylineIntersections  bool                   `yaml:"polylineIntersections" json:"polylineIntersections"`
	IntersectionType       kernel.IntersectionType `yaml:"intersectionType" json:"intersectionType"`
	Join                   kernel.JoinType         `yaml:"join" json:"join"`
	MiterLimit             float64                `yaml:"miterLimit" json:"miterLimit"`
}

// DefaultChainOffsetParams returns the pipeline's compile-time defaults.
func DefaultChainOffsetParams() ChainOffsetParams {
	return ChainOffsetParams{
		Tolerance:             0.05,
		MaxExtension:          1000,
		SnapThreshold:         0.1,
		ValidateInvariants:    false,
		MaxIterations:         64,
		PolylineIntersections: false,
		IntersectionType:      kernel.TrueSegment,
		Join:                  kernel.JoinRound,
		MiterLimit:            kernel.DefaultMiterLimit,
	}
}

// validator pairs a human-readable field name with the check that must
// hold for it; range/positivity checks only, table-driven rather than
// a chain of independent if-statements.
type validator struct {
	name string
	ok   bool
}

// Validate reports the first range violation found, or nil.
func (p ChainOffsetParams) Validate() error {
	checks := []validator{
		{"tolerance", p.Tolerance > 0},
		{"maxExtension", p.MaxExtension > 0},
		{"snapThreshold", p.SnapThreshold >= 0},
		{"maxIterations", p.MaxIterations > 0},
		{"miterLimit", p.MiterLimit > 0},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("config: %s out of range: %w", c.name, ErrInvalidParams)
		}
	}
	return nil
}

// ErrInvalidParams is returned by Validate and the Load* helpers when a
// parsed document fails range validation.
var ErrInvalidParams = errors.New("config: invalid chain offset parameters")

// ToKernel converts to the kernel's own ChainOffsetParams. The two
// types are kept separate rather than shared, since the kernel cannot
// import this package without creating an import cycle (config already
// imports kernel for IntersectionType/JoinType); this is the one
// conversion point a caller crosses to hand loaded parameters to
// kernel.ChainOffset.
func (p ChainOffsetParams) ToKernel() kernel.ChainOffsetParams {
	return kernel.ChainOffsetParams{
		Tolerance:             p.Tolerance,
		MaxExtension:          p.MaxExtension,
		SnapThreshold:         p.SnapThreshold,
		ValidateInvariants:    p.ValidateInvariants,
		MaxIterations:         p.MaxIterations,
		PolylineIntersections: p.PolylineIntersections,
		IntersectionType:      p.IntersectionType,
		Join:                  p.Join,
		MiterLimit:            p.MiterLimit,
	}
}

// LoadParamsYAML parses a YAML document into validated parameters.
func LoadParamsYAML(r io.Reader) (ChainOffsetParams, error) {
	p := DefaultChainOffsetParams()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return ChainOffsetParams{}, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := p.Validate(); err != nil {
		return ChainOffsetParams{}, err
	}
	return p, nil
}

// LoadParamsJSON parses a JSON document into validated parameters.
func LoadParamsJSON(r io.Reader) (ChainOffsetParams, error) {
	p := DefaultChainOffsetParams()
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return ChainOffsetParams{}, fmt.Errorf("config: decode json: %w", err)
	}
	if err := p.Validate(); err != nil {
		return ChainOffsetParams{}, err
	}
	return p, nil
}
