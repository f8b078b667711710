package sketch

import "math"

// Arc is a circular arc described by its center, radius, and the start and
// end angles in radians. The arc is traced from StartAngle towards EndAngle;
// the sweep may be negative.
type Arc struct {
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

// SweepAngle returns the signed angular span of the arc.
func (a Arc) SweepAngle() float64 {
	return a.EndAngle - a.StartAngle
}

// Eval returns the point on the arc at parameter t ∈ [0, 1].
func (a Arc) Eval(t float64) Point {
	return pointOnCircle(a.Center, a.Radius, a.StartAngle+t*a.SweepAngle())
}

func (a Arc) Start() Point { return a.Eval(0) }
func (a Arc) End() Point   { return a.Eval(1) }

func (a Arc) BoundingBox() Rect {
	// Conservative box; tight enough for indexing and welding.
	r := math.Abs(a.Radius)
	return Rect{
		X0: a.Center.X - r,
		Y0: a.Center.Y - r,
		X1: a.Center.X + r,
		Y1: a.Center.Y + r,
	}
}

// Polyline samples the arc into a polyline. The number of subdivisions is
// proportional to the angular span: one vertex per step radians, with a
// minimum of 4 subdivisions so small arcs keep their curvature.
func (a Arc) Polyline(step float64) []Point {
	sweep := a.SweepAngle()
	if step <= 0 {
		step = math.Pi / 16
	}
	n := max(int(math.Ceil(math.Abs(sweep)/step)), 4)
	pts := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = a.Eval(float64(i) / float64(n))
	}
	return pts
}

func pointOnCircle(center Point, radius float64, angle float64) Point {
	sin, cos := math.Sincos(angle)
	return center.Translate(
		Vec2{
			X: cos * radius,
			Y: sin * radius,
		})
}
