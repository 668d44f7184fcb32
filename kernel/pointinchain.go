// pointinchain.go implements component E: exact, polygon-free
// membership testing for closed mixed-primitive chains via ray-shape
// crossings (component C).
package kernel

// PointInChain reports whether p lies inside the closed chain c, using
// a horizontal ray cast to the right and summing crossings (component
// C) across every shape of the chain; odd parity means inside. Returns
// ErrOpenChain if c is not closed within tol, and ErrEmptyChain if c has
// no shapes.
func PointInChain(p Point, c Chain, tol float64) (bool, error) {
	if len(c.Shapes) == 0 {
		return false, ErrEmptyChain
	}
	if !c.Closed(tol) {
		return false, ErrOpenChain
	}
	ray := Ray{Origin: p, Direction: Vector{1, 0}}
	crossings := 0
	for _, s := range c.Shapes {
		crossings += RayCrossingCount(ray, s, tol)
	}
	return crossings%2 == 1, nil
}

// PointsInChain evaluates PointInChain for each point in order,
// preserving the input order in the result slice.
func PointsInChain(points []Point, c Chain, tol float64) ([]bool, error) {
	if len(c.Shapes) == 0 {
		return nil, ErrEmptyChain
	}
	if !c.Closed(tol) {
		return nil, ErrOpenChain
	}
	out := make([]bool, len(points))
	for i, p := range points {
		inside, err := PointInChain(p, c, tol)
		if err != nil {
			return nil, err
		}
		out[i] = inside
	}
	return out, nil
}

// AnyPointInChain reports whether any point in points lies inside c,
// short-circuiting on the first match.
func AnyPointInChain(points []Point, c Chain, tol float64) (bool, error) {
	if len(c.Shapes) == 0 {
		return false, ErrEmptyChain
	}
	if !c.Closed(tol) {
		return false, ErrOpenChain
	}
	for _, p := range points {
		inside, err := PointInChain(p, c, tol)
		if err != nil {
			return false, err
		}
		if inside {
			return true, nil
		}
	}
	return false, nil
}
