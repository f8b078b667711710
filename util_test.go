package sketch

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func approxEqual(a, b Point, tolerance float64) bool {
	return a.Distance(b) <= tolerance
}

func near(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// square returns n points per side walking the axis-aligned square with the
// given origin and size, counter-clockwise in a y-up frame, starting at the
// origin. The last point is one step short of closing the ring.
func squarePoints(origin Point, size float64, perSide int) []Point {
	step := size / float64(perSide)
	pts := make([]Point, 0, 4*perSide)
	dirs := []Vec2{Vec(step, 0), Vec(0, step), Vec(-step, 0), Vec(0, -step)}
	cur := origin
	for _, d := range dirs {
		for k := 0; k < perSide; k++ {
			pts = append(pts, cur)
			cur = cur.Translate(d)
		}
	}
	return pts
}

// circlePoints samples n points on a full circle, stopping one step short of
// the start point.
func circlePoints(center Point, radius float64, n int) []Point {
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = pointOnCircle(center, radius, a)
	}
	return pts
}
