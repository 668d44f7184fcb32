// Package persist (de)serializes the core's Drawing, Chain and
// OffsetChain values to/from JSON and YAML. It depends only on the
// kernel's exported types and never reaches into its unexported
// internals; §6 of the spec explicitly keeps this outside the core's
// own contract, as optional glue for fixture-based tests and for a host
// that chooses to hand values across a process boundary.
package persist

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/go-cam/camkernel/kernel"
)

// shapeDTO is the wire representation of a kernel.Shape. Only the
// fields relevant to Kind are populated; this mirrors a tagged union
// via a flat struct rather than a custom (Un)MarshalJSON per shape
// type, which keeps the YAML and JSON encodings identical.
type shapeDTO struct {
	ID   kernel.ShapeID  `yaml:"id" json:"id"`
	Kind string          `yaml:"kind" json:"kind"`

	// line
	Start *pointDTO `yaml:"start,omitempty" json:"start,omitempty"`
	End   *pointDTO `yaml:"end,omitempty" json:"end,omitempty"`

	// arc / circle
	Center     *pointDTO `yaml:"center,omitempty" json:"center,omitempty"`
	Radius     float64   `yaml:"radius,omitempty" json:"radius,omitempty"`
	StartAngle float64   `yaml:"startAngle,omitempty" json:"startAngle,omitempty"`
	EndAngle   float64   `yaml:"endAngle,omitempty" json:"endAngle,omitempty"`
	Clockwise  bool      `yaml:"clockwise,omitempty" json:"clockwise,omitempty"`

	// ellipse
	MajorAxisEndpoint *vectorDTO `yaml:"majorAxisEndpoint,omitempty" json:"majorAxisEndpoint,omitempty"`
	MinorToMajorRatio float64    `yaml:"minorToMajorRatio,omitempty" json:"minorToMajorRatio,omitempty"`
	StartParam        *float64   `yaml:"startParam,omitempty" json:"startParam,omitempty"`
	EndParam          *float64   `yaml:"endParam,omitempty" json:"endParam,omitempty"`

	// polyline
	Segments []shapeDTO `yaml:"segments,omitempty" json:"segments,omitempty"`
	IsClosed bool       `yaml:"isClosed,omitempty" json:"isClosed,omitempty"`

	// spline
	ControlPoints []pointDTO `yaml:"controlPoints,omitempty" json:"controlPoints,omitempty"`
	Degree        int        `yaml:"degree,omitempty" json:"degree,omitempty"`
	Knots         []float64  `yaml:"knots,omitempty" json:"knots,omitempty"`
	Weights       []float64  `yaml:"weights,omitempty" json:"weights,omitempty"`
	FitPoints     []pointDTO `yaml:"fitPoints,omitempty" json:"fitPoints,omitempty"`
}

type pointDTO struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

type vectorDTO struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

func toPointDTO(p kernel.Point) pointDTO  { return pointDTO{X: p.X, Y: p.Y} }
func fromPointDTO(d pointDTO) kernel.Point { return kernel.Point{X: d.X, Y: d.Y} }

// ToShapeDTO converts a kernel.Shape into its wire form.
func ToShapeDTO(s kernel.Shape) (shapeDTO, error) {
	dto := shapeDTO{ID: s.ID(), Kind: s.Kind().String()}
	switch v := s.(type) {
	case *kernel.LineShape:
		start, end := toPointDTO(v.Start), toPointDTO(v.End)
		dto.Start, dto.End = &start, &end
	case *kernel.ArcShape:
		center := toPointDTO(v.Center)
		dto.Center = &center
		dto.Radius, dto.StartAngle, dto.EndAngle, dto.Clockwise = v.Radius, v.StartAngle, v.EndAngle, v.Clockwise
	case *kernel.CircleShape:
		center := toPointDTO(v.Center)
		dto.Center, dto.Radius = &center, v.Radius
	case *kernel.EllipseShape:
		center := toPointDTO(v.Center)
		axis := vectorDTO{X: v.MajorAxisEndpoint.X, Y: v.MajorAxisEndpoint.Y}
		dto.Center, dto.MajorAxisEndpoint, dto.MinorToMajorRatio = &center, &axis, v.MinorToMajorRatio
		dto.StartParam, dto.EndParam = v.StartParam, v.EndParam
	case *kernel.PolylineShape:
		dto.IsClosed = v.IsClosed
		dto.Segments = make([]shapeDTO, len(v.Segments))
		for i, seg := range v.Segments {
			sd, err := ToShapeDTO(seg)
			if err != nil {
				return shapeDTO{}, err
			}
			dto.Segments[i] = sd
		}
	case *kernel.SplineShape:
		dto.Degree, dto.Knots, dto.Weights, dto.IsClosed = v.Degree, v.Knots, v.Weights, v.IsClosed
		dto.ControlPoints = make([]pointDTO, len(v.ControlPoints))
		for i, p := range v.ControlPoints {
			dto.ControlPoints[i] = toPointDTO(p)
		}
		dto.FitPoints = make([]pointDTO, len(v.FitPoints))
		for i, p := range v.FitPoints {
			dto.FitPoints[i] = toPointDTO(p)
		}
	default:
		return shapeDTO{}, fmt.Errorf("persist: unknown shape kind %v", s.Kind())
	}
	return dto, nil
}

// FromShapeDTO reconstructs a kernel.Shape from its wire form. The
// reconstructed shape keeps the DTO's ID via kernel.WithID rather than
// minting a new one, so round-tripping a Drawing preserves identity.
func FromShapeDTO(d shapeDTO) (kernel.Shape, error) {
	id := kernel.WithID(d.ID)
	switch d.Kind {
	case "line":
		if d.Start == nil || d.End == nil {
			return nil, fmt.Errorf("persist: line shape missing start/end")
		}
		return kernel.NewLine(fromPointDTO(*d.Start), fromPointDTO(*d.End), id), nil
	case "arc":
		if d.Center == nil {
			return nil, fmt.Errorf("persist: arc shape missing center")
		}
		return kernel.NewArc(fromPointDTO(*d.Center), d.Radius, d.StartAngle, d.EndAngle, d.Clockwise, id)
	case "circle":
		if d.Center == nil {
			return nil, fmt.Errorf("persist: circle shape missing center")
		}
		return kernel.NewCircle(fromPointDTO(*d.Center), d.Radius, id)
	case "ellipse":
		if d.Center == nil || d.MajorAxisEndpoint == nil {
			return nil, fmt.Errorf("persist: ellipse shape missing center/majorAxisEndpoint")
		}
		axis := kernel.Vector{X: d.MajorAxisEndpoint.X, Y: d.MajorAxisEndpoint.Y}
		return kernel.NewEllipse(fromPointDTO(*d.Center), axis, d.MinorToMajorRatio, d.StartParam, d.EndParam, id), nil
	case "polyline":
		segs := make([]kernel.Shape, len(d.Segments))
		for i, sd := range d.Segments {
			s, err := FromShapeDTO(sd)
			if err != nil {
				return nil, err
			}
			segs[i] = s
		}
		return kernel.NewPolyline(segs, d.IsClosed, id)
	case "spline":
		cps := make([]kernel.Point, len(d.ControlPoints))
		for i, p := range d.ControlPoints {
			cps[i] = fromPointDTO(p)
		}
		var fits []kernel.Point
		if len(d.FitPoints) > 0 {
			fits = make([]kernel.Point, len(d.FitPoints))
			for i, p := range d.FitPoints {
				fits[i] = fromPointDTO(p)
			}
		}
		return kernel.NewSpline(cps, d.Degree, d.Knots, d.Weights, fits, d.IsClosed, id)
	default:
		return nil, fmt.Errorf("persist: unknown shape kind %q", d.Kind)
	}
}

type chainDTO struct {
	ID     string     `yaml:"id" json:"id"`
	Shapes []shapeDTO `yaml:"shapes" json:"shapes"`
}

func toChainDTO(c kernel.Chain) (chainDTO, error) {
	dto := chainDTO{ID: c.ID, Shapes: make([]shapeDTO, len(c.Shapes))}
	for i, s := range c.Shapes {
		sd, err := ToShapeDTO(s)
		if err != nil {
			return chainDTO{}, err
		}
		dto.Shapes[i] = sd
	}
	return dto, nil
}

func fromChainDTO(d chainDTO) (kernel.Chain, error) {
	shapes := make([]kernel.Shape, len(d.Shapes))
	for i, sd := range d.Shapes {
		s, err := FromShapeDTO(sd)
		if err != nil {
			return kernel.Chain{}, err
		}
		shapes[i] = s
	}
	return kernel.Chain{ID: d.ID, Shapes: shapes}, nil
}

type offsetChainDTO struct {
	ID                 string      `yaml:"id" json:"id"`
	OriginalChainID    string      `yaml:"originalChainId" json:"originalChainId"`
	Side               string      `yaml:"side" json:"side"`
	Shapes             []shapeDTO  `yaml:"shapes" json:"shapes"`
	Closed             bool        `yaml:"closed" json:"closed"`
	Continuous         bool        `yaml:"continuous" json:"continuous"`
	TrimPoints         []pointDTO  `yaml:"trimPoints,omitempty" json:"trimPoints,omitempty"`
	IntersectionPoints []pointDTO  `yaml:"intersectionPoints,omitempty" json:"intersectionPoints,omitempty"`
	Confidence         float64     `yaml:"confidence" json:"confidence"`
}

// MarshalOffsetChainJSON encodes an OffsetChain as JSON. GapFills are
// intentionally omitted: each record embeds live Shape values from the
// originating chain, and round-tripping those alongside the offset
// shapes themselves would duplicate geometry the fixture doesn't need
// back; callers that need gap-fill provenance should inspect the
// ChainOffsetResult directly instead of a persisted OffsetChain.
func MarshalOffsetChainJSON(oc kernel.OffsetChain) ([]byte, error) {
	dto, err := toOffsetChainDTO(oc)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(dto, "", "  ")
}

// MarshalOffsetChainYAML encodes an OffsetChain as YAML.
func MarshalOffsetChainYAML(oc kernel.OffsetChain) ([]byte, error) {
	dto, err := toOffsetChainDTO(oc)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(dto)
}

// UnmarshalOffsetChainJSON decodes an OffsetChain from JSON.
func UnmarshalOffsetChainJSON(data []byte) (kernel.OffsetChain, error) {
	var dto offsetChainDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return kernel.OffsetChain{}, fmt.Errorf("persist: decode json: %w", err)
	}
	return fromOffsetChainDTO(dto)
}

// UnmarshalOffsetChainYAML decodes an OffsetChain from YAML.
func UnmarshalOffsetChainYAML(data []byte) (kernel.OffsetChain, error) {
	var dto offsetChainDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return kernel.OffsetChain{}, fmt.Errorf("persist: decode yaml: %w", err)
	}
	return fromOffsetChainDTO(dto)
}

func sideString(s kernel.OffsetSideTag) string { return s.String() }

func sideFromString(s string) kernel.OffsetSideTag {
	switch s {
	case "inner":
		return kernel.SideInner
	case "outer":
		return kernel.SideOuter
	case "left":
		return kernel.SideLeft
	case "right":
		return kernel.SideRight
	default:
		return kernel.SideUnknown
	}
}

func toOffsetChainDTO(oc kernel.OffsetChain) (offsetChainDTO, error) {
	dto := offsetChainDTO{
		ID:              oc.ID,
		OriginalChainID: oc.OriginalChainID,
		Side:            sideString(oc.Side),
		Closed:          oc.Closed,
		Continuous:      oc.Continuous,
		Confidence:      oc.Confidence,
	}
	dto.Shapes = make([]shapeDTO, len(oc.Shapes))
	for i, s := range oc.Shapes {
		sd, err := ToShapeDTO(s)
		if err != nil {
			return offsetChainDTO{}, err
		}
		dto.Shapes[i] = sd
	}
	for _, p := range oc.TrimPoints {
		dto.TrimPoints = append(dto.TrimPoints, toPointDTO(p))
	}
	for _, p := range oc.IntersectionPoints {
		dto.IntersectionPoints = append(dto.IntersectionPoints, toPointDTO(p))
	}
	return dto, nil
}

func fromOffsetChainDTO(dto offsetChainDTO) (kernel.OffsetChain, error) {
	oc := kernel.OffsetChain{
		ID:              dto.ID,
		OriginalChainID: dto.OriginalChainID,
		Side:            sideFromString(dto.Side),
		Closed:          dto.Closed,
		Continuous:      dto.Continuous,
		Confidence:      dto.Confidence,
	}
	oc.Shapes = make([]kernel.Shape, len(dto.Shapes))
	for i, sd := range dto.Shapes {
		s, err := FromShapeDTO(sd)
		if err != nil {
			return kernel.OffsetChain{}, err
		}
		oc.Shapes[i] = s
	}
	for _, p := range dto.TrimPoints {
		oc.TrimPoints = append(oc.TrimPoints, fromPointDTO(p))
	}
	for _, p := range dto.IntersectionPoints {
		oc.IntersectionPoints = append(oc.IntersectionPoints, fromPointDTO(p))
	}
	return oc, nil
}

type drawingDTO struct {
	Name   string     `yaml:"name" json:"name"`
	Unit   string     `yaml:"unit" json:"unit"`
	Shapes []shapeDTO `yaml:"shapes" json:"shapes"`
	Chains []chainDTO `yaml:"chains" json:"chains"`
}

// MarshalDrawingJSON encodes a Drawing as JSON.
func MarshalDrawingJSON(d kernel.Drawing) ([]byte, error) {
	dto, err := toDrawingDTO(d)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(dto, "", "  ")
}

// MarshalDrawingYAML encodes a Drawing as YAML.
func MarshalDrawingYAML(d kernel.Drawing) ([]byte, error) {
	dto, err := toDrawingDTO(d)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(dto)
}

// UnmarshalDrawingJSON decodes a Drawing from JSON.
func UnmarshalDrawingJSON(data []byte) (kernel.Drawing, error) {
	var dto drawingDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return kernel.Drawing{}, fmt.Errorf("persist: decode json: %w", err)
	}
	return fromDrawingDTO(dto)
}

// UnmarshalDrawingYAML decodes a Drawing from YAML.
func UnmarshalDrawingYAML(data []byte) (kernel.Drawing, error) {
	var dto drawingDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return kernel.Drawing{}, fmt.Errorf("persist: decode yaml: %w", err)
	}
	return fromDrawingDTO(dto)
}

func toDrawingDTO(d kernel.Drawing) (drawingDTO, error) {
	dto := drawingDTO{Name: d.Name, Unit: d.Unit.String()}
	dto.Shapes = make([]shapeDTO, len(d.Shapes))
	for i, s := range d.Shapes {
		sd, err := ToShapeDTO(s)
		if err != nil {
			return drawingDTO{}, err
		}
		dto.Shapes[i] = sd
	}
	dto.Chains = make([]chainDTO, len(d.Chains))
	for i, c := range d.Chains {
		cd, err := toChainDTO(c)
		if err != nil {
			return drawingDTO{}, err
		}
		dto.Chains[i] = cd
	}
	return dto, nil
}

func fromDrawingDTO(dto drawingDTO) (kernel.Drawing, error) {
	d := kernel.Drawing{Name: dto.Name}
	if dto.Unit == "inch" {
		d.Unit = kernel.Inch
	}
	d.Shapes = make([]kernel.Shape, len(dto.Shapes))
	for i, sd := range dto.Shapes {
		s, err := FromShapeDTO(sd)
		if err != nil {
			return kernel.Drawing{}, err
		}
		d.Shapes[i] = s
	}
	d.Chains = make([]kernel.Chain, len(dto.Chains))
	for i, cd := range dto.Chains {
		c, err := fromChainDTO(cd)
		if err != nil {
			return kernel.Drawing{}, err
		}
		d.Chains[i] = c
	}
	return d, nil
}
