// polygon.go implements component D: polygon analysis over plain point
// slices — signed area, winding, perimeter, bounds, simplicity,
// point-in-polygon, polygon-in-polygon, shell/hole classification,
// convex hull, regular-polygon construction and simplification. These
// operate on []Point rather than Shape because they are the primitive
// the side-classifier (side.go) and the chain pipeline tessellate down
// to once a chain's shapes are sampled.
package kernel

import (
	"math"
	"sort"

	"github.com/go-cam/camkernel/internal/geomutil"
)

// Winding is the orientation of a polygon's vertex order.
type Winding uint8

const (
	WindingDegenerate Winding = iota
	WindingCW
	WindingCCW
)

func (w Winding) String() string {
	switch w {
	case WindingCW:
		return "CW"
	case WindingCCW:
		return "CCW"
	default:
		return "degenerate"
	}
}

// PolygonConfig bounds the tolerances used by polygon analysis.
type PolygonConfig struct {
	Tolerance    float64
	ClosureSlack float64 // multiplies Tolerance when checking first/last vertex proximity
}

// DefaultPolygonConfig returns the package's compile-time default.
func DefaultPolygonConfig() PolygonConfig {
	return PolygonConfig{Tolerance: 0.05, ClosureSlack: 1.0}
}

// PolygonAnalysis is the result of Analyze.
type PolygonAnalysis struct {
	SignedArea float64
	AbsArea    float64
	Winding    Winding
	Perimeter  float64
	Bounds     Box
	Simple     bool
	Closed     bool
}

// Analyze computes the shoelace signed area, winding, perimeter,
// bounding box and simplicity of points. Closure is inferred by
// proximity of the first and last vertex within cfg.Tolerance *
// cfg.ClosureSlack.
func Analyze(points []Point, cfg PolygonConfig) PolygonAnalysis {
	n := len(points)
	if n < 3 {
		return PolygonAnalysis{Winding: WindingDegenerate}
	}
	closed := points[0].DistanceTo(points[n-1]) <= cfg.Tolerance*cfg.ClosureSlack

	area := signedArea(points)
	perim := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		perim += points[i].DistanceTo(points[j])
	}

	bounds := boxOf(points)

	winding := WindingDegenerate
	switch {
	case area > 0:
		winding = WindingCCW
	case area < 0:
		winding = WindingCW
	}

	return PolygonAnalysis{
		SignedArea: area,
		AbsArea:    math.Abs(area),
		Winding:    winding,
		Perimeter:  perim,
		Bounds:     bounds,
		Simple:     isSimplePolygon(points, cfg.Tolerance),
		Closed:     closed,
	}
}

// signedArea is the shoelace sum; positive for CCW vertex order in a
// Y-up frame.
func signedArea(points []Point) float64 {
	n := len(points)
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return sum / 2
}

// isSimplePolygon reports whether any two non-adjacent edges cross
// within tol.
func isSimplePolygon(points []Point, tol float64) bool {
	n := len(points)
	for i := 0; i < n; i++ {
		a0, a1 := points[i], points[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue
			}
			b0, b1 := points[j], points[(j+1)%n]
			if segmentsProperlyCross(a0, a1, b0, b1, tol) {
				return false
			}
		}
	}
	return true
}

// segmentsProperlyCross reports whether a0a1 and b0b1 cross at an
// interior point of both, using the standard double-straddle test
// (each segment's endpoints fall on opposite sides of the other's
// line): geomutil.SegmentsStraddle for the orientation primitive.
func segmentsProperlyCross(a0, a1, b0, b1 Point, tol float64) bool {
	return geomutil.SegmentsStraddle(a0.X, a0.Y, a1.X, a1.Y, b0.X, b0.Y, b1.X, b1.Y, tol) &&
		geomutil.SegmentsStraddle(b0.X, b0.Y, b1.X, b1.Y, a0.X, a0.Y, a1.X, a1.Y, tol)
}

// IsPointInside reports whether point lies inside polygon using the
// lower-inclusive ray-casting rule (component C).
func IsPointInside(point Point, polygon []Point, tol float64) bool {
	ray := Ray{Origin: point, Direction: Vector{1, 0}}
	crossings := 0
	n := len(polygon)
	for i := 0; i < n; i++ {
		hits := rayLineHits(ray, ray.unitDir(), polygon[i], polygon[(i+1)%n], tol)
		for _, h := range hits {
			if h.T > tol {
				crossings++
			}
		}
	}
	return crossings%2 == 1
}

// IsPolygonInside reports whether every vertex of inner lies inside
// outer and no edge of inner crosses any edge of outer.
func IsPolygonInside(inner, outer []Point, tol float64) bool {
	for _, p := range inner {
		if !IsPointInside(p, outer, tol) {
			return false
		}
	}
	n, m := len(inner), len(outer)
	for i := 0; i < n; i++ {
		a0, a1 := inner[i], inner[(i+1)%n]
		for j := 0; j < m; j++ {
			b0, b1 := outer[j], outer[(j+1)%m]
			if segmentsProperlyCross(a0, a1, b0, b1, tol) {
				return false
			}
		}
	}
	return true
}

// NormalizeWinding reverses points iff its current winding disagrees
// with target; degenerate polygons are returned unchanged.
func NormalizeWinding(points []Point, target Winding, tol float64) []Point {
	a := Analyze(points, PolygonConfig{Tolerance: tol, ClosureSlack: 1})
	if a.Winding == WindingDegenerate || a.Winding == target {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}
	out := make([]Point, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// RegularPolygon returns sides vertices on a circle of the given
// radius, with the first vertex at angle rotation from the +x axis.
func RegularPolygon(center Point, radius float64, sides int, rotation float64) []Point {
	if sides < 3 || radius <= 0 {
		return nil
	}
	out := make([]Point, sides)
	for i := 0; i < sides; i++ {
		theta := rotation + 2*math.Pi*float64(i)/float64(sides)
		out[i] = Point{center.X + radius*math.Cos(theta), center.Y + radius*math.Sin(theta)}
	}
	return out
}

// SimplifyConfig bounds Simplify's vertex-removal thresholds.
type SimplifyConfig struct {
	MinDistance           float64
	CollinearityTolerance float64
	PreserveClosure       bool
}

// Simplify removes vertices closer than cfg.MinDistance to their
// predecessor, or whose cross-product deviation from the
// predecessor-successor line is below cfg.CollinearityTolerance. Never
// reduces below 3 vertices.
func Simplify(points []Point, cfg SimplifyConfig) []Point {
	if len(points) <= 3 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}
	work := make([]Point, len(points))
	copy(work, points)

	closed := cfg.PreserveClosure && len(work) > 1 &&
		work[0].DistanceTo(work[len(work)-1]) <= cfg.MinDistance+1e-9

	changed := true
	for changed && len(work) > 3 {
		changed = false
		n := len(work)
		next := make([]Point, 0, n)
		for i := 0; i < n; i++ {
			if len(work) <= 3 {
				next = append(next, work[i:]...)
				break
			}
			prev := work[(i-1+n)%n]
			cur := work[i]
			succ := work[(i+1)%n]
			if closed && (i == 0 || i == n-1) {
				next = append(next, cur)
				continue
			}
			if cur.DistanceTo(prev) < cfg.MinDistance {
				changed = true
				continue
			}
			d1 := cur.Sub(prev)
			d2 := succ.Sub(cur)
			if d1.Length() > 0 && d2.Length() > 0 {
				cross := math.Abs(d1.Normalized().Cross(d2.Normalized()))
				if cross < cfg.CollinearityTolerance {
					changed = true
					continue
				}
			}
			next = append(next, cur)
		}
		if len(next) < 3 {
			break
		}
		work = next
	}
	return work
}

// ConvexHull computes the convex hull of points via a Graham scan,
// returning vertices in counter-clockwise order with collinear interior
// points dropped. Inputs smaller than 3 points are returned as-is.
func ConvexHull(points []Point) []Point {
	if len(points) < 3 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}
	pts := make([]Point, len(points))
	copy(pts, points)

	pivot := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[pivot].Y || (pts[i].Y == pts[pivot].Y && pts[i].X < pts[pivot].X) {
			pivot = i
		}
	}
	pts[0], pts[pivot] = pts[pivot], pts[0]
	origin := pts[0]
	rest := pts[1:]
	sort.Slice(rest, func(i, j int) bool {
		oi := rest[i].Sub(origin)
		oj := rest[j].Sub(origin)
		cross := oi.Cross(oj)
		if math.Abs(cross) < 1e-12 {
			return oi.Length() < oj.Length()
		}
		return cross > 0
	})

	hull := []Point{origin, rest[0]}
	for _, p := range rest[1:] {
		for len(hull) >= 2 {
			d1 := hull[len(hull)-1].Sub(hull[len(hull)-2])
			d2 := p.Sub(hull[len(hull)-1])
			if d1.Cross(d2) <= 1e-12 {
				hull = hull[:len(hull)-1]
			} else {
				break
			}
		}
		hull = append(hull, p)
	}
	return hull
}

// Shell is a CW outer boundary together with the CCW holes fully
// contained in it.
type Shell struct {
	Outer []Point
	Holes [][]Point
}

// ShellHoleClassification is the result of ClassifyShellsAndHoles.
type ShellHoleClassification struct {
	Shells  []Shell
	Orphans [][]Point // CCW polygons contained in no CW shell
}

// ClassifyShellsAndHoles treats CW polygons as potential shells and CCW
// polygons as potential holes; every CCW hole attaches to any CW shell
// that fully contains it (component D's polygon-in-polygon test), and
// any CCW polygon contained in no shell is reported as orphaned. Never
// fails; always produces a complete classification.
func ClassifyShellsAndHoles(polygons [][]Point, cfg PolygonConfig) ShellHoleClassification {
	var shellIdx []int
	var holeIdx []int
	for i, p := range polygons {
		switch Analyze(p, cfg).Winding {
		case WindingCW:
			shellIdx = append(shellIdx, i)
		case WindingCCW:
			holeIdx = append(holeIdx, i)
		}
	}

	shells := make([]Shell, len(shellIdx))
	for i, si := range shellIdx {
		shells[i] = Shell{Outer: polygons[si]}
	}

	var orphans [][]Point
	for _, hi := range holeIdx {
		hole := polygons[hi]
		attached := -1
		for si, shellI := range shellIdx {
			if IsPolygonInside(hole, polygons[shellI], cfg.Tolerance) {
				attached = si
				break
			}
		}
		if attached >= 0 {
			shells[attached].Holes = append(shells[attached].Holes, hole)
		} else {
			orphans = append(orphans, hole)
		}
	}
	return ShellHoleClassification{Shells: shells, Orphans: orphans}
}
