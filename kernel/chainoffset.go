// chainoffset.go implements component K: the seven-step chain offset
// pipeline that turns one oriented chain and a signed distance into the
// inner/outer (or left/right) OffsetChain results a CAM toolpath planner
// consumes.
package kernel

import (
	"fmt"
	"math"
	"time"

	"github.com/go-cam/camkernel/camlog"
)

// ChainOffsetParams drives one ChainOffset call. There is no
// package-level mutable tolerance; every pipeline entry point takes one
// of these explicitly (§9).
type ChainOffsetParams struct {
	Tolerance              float64
	MaxExtension           float64
	SnapThreshold          float64
	ValidateInvariants     bool
	MaxIterations          int
	PolylineIntersections  bool
	IntersectionType       IntersectionType
	Join                   JoinType
	MiterLimit             float64
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
		IntersectionType:      TrueSegment,
		Join:                  JoinRound,
		MiterLimit:            DefaultMiterLimit,
	}
}

// Metrics records per-call processing-time and workload counters for one
// ChainOffset invocation.
type Metrics struct {
	PerShapeOffsetNanos int64
	IntersectionCalls   int
	GapFillsByMethod    map[string]int
	TotalNanos          int64
}

// ChainOffsetResult is the outcome of one ChainOffset call: zero or more
// continuous, side-classified offset chains, plus warnings, fatal
// errors and metrics.
type ChainOffsetResult struct {
	Chains   []OffsetChain
	Warnings []string
	Errors   []string
	Success  bool
	Metrics  Metrics
}

// ChainOffset runs the seven-step pipeline (§4.K) against c at distance
// (always >= 0; both sides of c are produced regardless of whether c is
// open or closed, and side classification labels each resulting chain
// inner/outer or left/right).
func ChainOffset(c Chain, distance float64, params ChainOffsetParams) ChainOffsetResult {
	start := time.Now()
	result := ChainOffsetResult{Metrics: Metrics{GapFillsByMethod: map[string]int{}}}
	if len(c.Shapes) == 0 {
		result.Errors = append(result.Errors, ErrEmptyChain.Error())
		return result
	}
	if distance < 0 {
		result.Errors = append(result.Errors, ErrInvalidParams.Error())
		return result
	}

	for _, side := range []Side{Inset, Outset} {
		chains := offsetOneSide(c, distance, side, params, &result)
		result.Chains = append(result.Chains, chains...)
	}

	result.Success = len(result.Errors) == 0
	result.Metrics.TotalNanos = time.Since(start).Nanoseconds()
	return result
}

// offsetOneSide executes steps 1-7 of the pipeline for a single offset
// direction, returning the zero or more continuous chains it produces.
func offsetOneSide(c Chain, distance float64, side Side, params ChainOffsetParams, result *ChainOffsetResult) []OffsetChain {
	closed := c.Closed(params.Tolerance)
	n := len(c.Shapes)

	// Step 1: per-shape offset.
	offset := make([]Shape, n)
	ok := make([]bool, n)
	stepStart := time.Now()
	for i, s := range c.Shapes {
		os, err := OffsetShape(s, distance, side, params.Join, params.MiterLimit)
		if err != nil {
			result.Warnings = append(result.Warnings, "offset: shape "+s.ID()+" degenerate: "+err.Error())
			continue
		}
		offset[i] = os
		ok[i] = true
	}
	result.Metrics.PerShapeOffsetNanos += time.Since(stepStart).Nanoseconds()
	if params.ValidateInvariants {
		result.Warnings = append(result.Warnings, validateOffsetStage(c.Shapes, offset, ok)...)
	}

	var trimPoints, intersectionPoints []Point
	var gapFills []GapFillRecord

	// Steps 2-4: adjacent intersection, trim, gap fill. Bridging shapes
	// are collected per gap (keyed by the original index i, before
	// i+1) rather than spliced into offset/ok mid-scan, so every pair
	// in this loop still refers to the caller's original shape order.
	limit := n - 1
	if closed {
		limit = n
	}
	bridges := make([][]Shape, n)
	for i := 0; i < limit; i++ {
		j := (i + 1) % n
		if !ok[i] || !ok[j] {
			continue
		}
		a, b := offset[i], offset[j]

		result.Metrics.IntersectionCalls++
		hits := Intersect(a, b, IntersectOptions{
			AllowExtensions: true,
			ExtensionLength: params.MaxExtension,
			Type:            params.IntersectionType,
			Tolerance:       params.Tolerance,
			MaxIterations:   params.MaxIterations,
			SingleBest:      true,
		})
		if len(hits) == 1 {
			h := hits[0]
			trimmedA, _, errA := Trim(a, h.Point, TrimBefore, params.Tolerance, params.MaxExtension)
			trimmedB, _, errB := Trim(b, h.Point, TrimAfter, params.Tolerance, params.MaxExtension)
			if errA == nil && errB == nil {
				offset[i], offset[j] = trimmedA, trimmedB
				trimPoints = append(trimPoints, h.Point)
				intersectionPoints = append(intersectionPoints, h.Point)
				continue
			}
		}

		bridge, method, newA, newB := closeGap(a, b, params)
		offset[i], offset[j] = newA, newB
		if method != GapFillNone {
			result.Metrics.GapFillsByMethod[method.String()]++
			rec := GapFillRecord{Method: method, OriginalA: a, OriginalB: b, ModifiedA: offset[i], ModifiedB: offset[j]}
			if len(bridge) > 0 {
				rec.BridgeShape = bridge[0]
			}
			rec.GapDistance = offset[i].EndPoint().DistanceTo(offset[j].StartPoint())
			gapFills = append(gapFills, rec)
			if camlog.Enabled() {
				camlog.Debugf("kernel: chain offset gap fill side=%v method=%s dist=%f", side, method, rec.GapDistance)
			}
		}
		bridges[i] = bridge
	}

	// Flatten offset+bridges into the final ordered shape/ok lists.
	assembled := make([]Shape, 0, n*2)
	assembledOK := make([]bool, 0, n*2)
	assembleLimit := n
	if !closed {
		assembleLimit = n - 1
	}
	for i := 0; i < n; i++ {
		assembled = append(assembled, offset[i])
		assembledOK = append(assembledOK, ok[i])
		if i < assembleLimit {
			for range bridges[i] {
				assembledOK = append(assembledOK, true)
			}
			assembled = append(assembled, bridges[i]...)
		}
	}
	offset, ok = assembled, assembledOK
	if params.ValidateInvariants {
		result.Warnings = append(result.Warnings, validateContinuityStage("trim/gap-fill", offset, ok, params.Tolerance, closed)...)
	}

	// Step 5: self-intersection detection (non-adjacent segments).
	if params.PolylineIntersections {
		for i := 0; i < len(offset); i++ {
			if !ok[i] {
				continue
			}
			for j := i + 2; j < len(offset); j++ {
				if !ok[j] || (closed && i == 0 && j == len(offset)-1) {
					continue
				}
				result.Metrics.IntersectionCalls++
				if hits := Intersect(offset[i], offset[j], IntersectOptions{Tolerance: params.Tolerance, MaxIterations: params.MaxIterations}); len(hits) > 0 {
					result.Warnings = append(result.Warnings, "self-intersection detected between offset segments")
				}
			}
		}
	}

	// Step 6/7: group into continuous runs and classify/assemble.
	runs := groupContinuousRuns(offset, ok, params.Tolerance, closed)
	out := make([]OffsetChain, 0, len(runs))
	for _, run := range runs {
		oc := assembleOffsetChain(run, c, distance, side, params.Tolerance)
		oc.GapFills = gapFills
		oc.TrimPoints = trimPoints
		oc.IntersectionPoints = intersectionPoints
		out = append(out, oc)
	}
	return out
}

// validateOffsetStage checks step 1's output against its two invariants:
// a successfully offset shape keeps the same shape kind as its source
// (except ellipses and splines, which OffsetShape refits as polylines),
// and it isn't collapsed to a single point (start, end and midpoint all
// coincide, so closed shapes are not flagged). Only runs when
// ChainOffsetParams.ValidateInvariants is set.
func validateOffsetStage(original, offset []Shape, ok []bool) []string {
	var warnings []string
	for i, s := range offset {
		if !ok[i] {
			continue
		}
		refit := s.Kind() == KindPolyline && (original[i].Kind() == KindEllipse || original[i].Kind() == KindSpline)
		if s.Kind() != original[i].Kind() && !refit {
			warnings = append(warnings, fmt.Sprintf(
				"invariant: offset shape %s changed kind from %v to %v", original[i].ID(), original[i].Kind(), s.Kind()))
		}
		if s.StartPoint().DistanceTo(s.EndPoint()) == 0 && s.StartPoint().DistanceTo(s.PointAt(0.5)) == 0 {
			warnings = append(warnings, fmt.Sprintf(
				"invariant: offset shape %s collapsed to a point", original[i].ID()))
		}
	}
	return warnings
}

// validateContinuityStage checks that every pair of shapes the trim/gap-fill
// stage is about to hand to self-intersection and classification is within
// tolerance of each other end-to-start, the continuity step 6's grouping
// otherwise silently assumes. label identifies the stage in the warning text.
func validateContinuityStage(label string, shapes []Shape, ok []bool, tol float64, closed bool) []string {
	var warnings []string
	limit := len(shapes) - 1
	if closed {
		limit = len(shapes)
	}
	for i := 0; i < limit; i++ {
		j := (i + 1) % len(shapes)
		if !ok[i] || !ok[j] {
			continue
		}
		if gap := shapes[i].EndPoint().DistanceTo(shapes[j].StartPoint()); gap > tol {
			warnings = append(warnings, fmt.Sprintf(
				"invariant: %s stage left a %.4g gap between segment %d and %d", label, gap, i, j))
		}
	}
	return warnings
}

// closeGap bridges the gap between consecutive offset shapes a (ending
// near b's start) per the ordered fallback chain: snap within
// snapThreshold, analytic extend-and-intersect, tangent fillet, or a
// straight bridge as the last resort. Returns any bridging shapes to
// splice in and the (possibly re-trimmed) a/b.
func closeGap(a, b Shape, params ChainOffsetParams) (bridge []Shape, method GapFillMethod, newA, newB Shape) {
	gap := a.EndPoint().DistanceTo(b.StartPoint())
	if gap <= params.Tolerance {
		return nil, GapFillNone, a, b
	}
	if gap <= params.SnapThreshold {
		return []Shape{NewLine(a.EndPoint(), b.StartPoint())}, GapFillSnap, a, b
	}

	if extA, errA := Extend(a, params.MaxExtension); errA == nil {
		if extB, errB := Extend(b, params.MaxExtension); errB == nil {
			hits := Intersect(extA, extB, IntersectOptions{Tolerance: params.Tolerance, MaxIterations: params.MaxIterations, SingleBest: true})
			if len(hits) == 1 {
				trimmedA, _, errTA := Trim(extA, hits[0].Point, TrimBefore, params.Tolerance, params.MaxExtension)
				trimmedB, _, errTB := Trim(extB, hits[0].Point, TrimAfter, params.Tolerance, params.MaxExtension)
				if errTA == nil && errTB == nil {
					return nil, GapFillExtend, trimmedA, trimmedB
				}
			}
		}
	}

	if arc, ok := tangentFilletArc(a.EndPoint(), b.StartPoint(), a.TangentAt(1)); ok {
		return []Shape{arc}, GapFillFillet, a, b
	}

	return []Shape{NewLine(a.EndPoint(), b.StartPoint())}, GapFillBridge, a, b
}

// tangentFilletArc builds the unique circular arc starting at start
// tangent to startTangent and passing through end. Deriving from
// |center-end| == r with center = start + r*normal(startTangent) gives
// a linear equation for r, so the construction is closed-form; it is
// only tangent-continuous at start, not at end, a one-sided fillet
// rather than a full biarc.
func tangentFilletArc(start, end Point, startTangent Vector) (Shape, bool) {
	unit := startTangent.Normalized()
	if unit.Length() == 0 {
		return nil, false
	}
	n := unit.Perp()
	d := start.Sub(end)
	denom := 2 * d.Dot(n)
	if denom == 0 {
		return nil, false
	}
	r := -d.Dot(d) / denom
	if r == 0 {
		return nil, false
	}
	radius := r
	if radius < 0 {
		radius = -radius
	}
	center := start.Add(n.Scale(r))
	startAngle := math.Atan2(start.Y-center.Y, start.X-center.X)
	endAngle := math.Atan2(end.Y-center.Y, end.X-center.X)
	arc, err := NewArc(center, radius, startAngle, endAngle, r < 0)
	if err != nil {
		return nil, false
	}
	return arc, true
}

// groupContinuousRuns splits offset into maximal runs of adjacent
// (within tol) live shapes, merging the last run into the first when
// the source chain was closed and the last run ends (within tol) where
// the first begins.
func groupContinuousRuns(offset []Shape, ok []bool, tol float64, closed bool) [][]Shape {
	var runs [][]Shape
	var cur []Shape
	flush := func() {
		if len(cur) > 0 {
			runs = append(runs, cur)
			cur = nil
		}
	}
	for i, s := range offset {
		if !ok[i] {
			flush()
			continue
		}
		if len(cur) > 0 && cur[len(cur)-1].EndPoint().DistanceTo(s.StartPoint()) > tol {
			flush()
		}
		cur = append(cur, s)
	}
	flush()
	if closed && len(runs) > 1 {
		first, last := runs[0], runs[len(runs)-1]
		if last[len(last)-1].EndPoint().DistanceTo(first[0].StartPoint()) <= tol {
			merged := append(append([]Shape{}, last...), first...)
			runs = append(runs[1:len(runs)-1], merged)
		}
	}
	return runs
}

// assembleOffsetChain builds one OffsetChain from a continuous run,
// classifying its side against the original chain c.
func assembleOffsetChain(run []Shape, c Chain, distance float64, side Side, tol float64) OffsetChain {
	signed := distance
	if side == Inset {
		signed = -distance
	}
	rep := run[len(run)/2]
	tag, confidence := ClassifySide(rep, c, signed, tol)

	oc := OffsetChain{
		ID:              newID(),
		OriginalChainID: c.ID,
		Side:            tag,
		Shapes:          run,
		Confidence:      confidence,
	}
	oc.Closed = run[0].StartPoint().DistanceTo(run[len(run)-1].EndPoint()) <= tol
	oc.Continuous = isContinuous(run, tol)
	return oc
}

func isContinuous(run []Shape, tol float64) bool {
	for i := 1; i < len(run); i++ {
		if run[i-1].EndPoint().DistanceTo(run[i].StartPoint()) > tol {
			return false
		}
	}
	return true
}

// OrderedGapFillMethods returns GapFillsByMethod's keys in the fixed
// order the GapFillMethod enum defines, so a caller printing or
// persisting the counts never depends on Go's randomized map iteration.
func (m Metrics) OrderedGapFillMethods() []string {
	order := []string{GapFillSnap.String(), GapFillExtend.String(), GapFillFillet.String(), GapFillBridge.String()}
	out := make([]string, 0, len(m.GapFillsByMethod))
	for _, k := range order {
		if _, present := m.GapFillsByMethod[k]; present {
			out = append(out, k)
		}
	}
	return out
}
