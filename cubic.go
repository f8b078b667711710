package sketch

// CubicBez is a cubic Bézier segment.
type CubicBez struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

// Eval evaluates the curve at parameter t ∈ [0, 1].
func (c CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	v := Vec2(c.P0).Mul(mt * mt * mt).
		Add(Vec2(c.P1).Mul(mt * mt * 3.0 * t)).
		Add(Vec2(c.P2).Mul(mt * 3.0 * t * t)).
		Add(Vec2(c.P3).Mul(t * t * t))
	return Point(v)
}

func (c CubicBez) Start() Point { return c.P0 }
func (c CubicBez) End() Point   { return c.P3 }

func (c CubicBez) BoundingBox() Rect {
	// The curve is contained in the convex hull of its control points.
	r := NewRectFromPoints(c.P0, c.P3)
	r = r.UnionPoint(c.P1)
	return r.UnionPoint(c.P2)
}

// Polyline samples the curve at a fixed parameter resolution.
func (c CubicBez) Polyline(steps int) []Point {
	if steps < 1 {
		steps = 16
	}
	pts := make([]Point, steps+1)
	for i := 0; i <= steps; i++ {
		pts[i] = c.Eval(float64(i) / float64(steps))
	}
	return pts
}
