package sketch

import (
	"math"
	"slices"
	"testing"
)

// polygonPoints walks the closed polygon through the given vertices, sampling
// perSide points per side and stopping one step short of the start.
func polygonPoints(vertices []Point, perSide int) []Point {
	pts := make([]Point, 0, len(vertices)*perSide)
	for i, v := range vertices {
		next := vertices[(i+1)%len(vertices)]
		for k := 0; k < perSide; k++ {
			pts = append(pts, v.Lerp(next, float64(k)/float64(perSide)))
		}
	}
	return pts
}

func classify(t *testing.T, pts []Point) Classification {
	t.Helper()
	cl, ok := NewClassifier(DefaultClassifierOptions()).Classify(Samples(pts))
	if !ok {
		t.Fatal("no hypothesis applied")
	}
	return cl
}

func TestClassifyTooFewPoints(t *testing.T) {
	c := NewClassifier(DefaultClassifierOptions())
	if _, ok := c.Classify(nil); ok {
		t.Error("classified empty input")
	}
	if _, ok := c.Classify(Samples([]Point{Pt(1, 1)})); ok {
		t.Error("classified a single point")
	}
	if got := c.Predict(Samples([]Point{Pt(1, 1)})); got != nil {
		t.Errorf("got prediction %v for a single point, want nil", got)
	}
}

func TestClassifyLine(t *testing.T) {
	pts := make([]Point, 11)
	for i := range pts {
		pts[i] = Pt(float64(i), float64(i))
	}
	cl := classify(t, pts)
	if cl.Kind != ShapeLine {
		t.Fatalf("got %v, want line", cl.Kind)
	}
	// The prediction keeps the exact stroke endpoints.
	diff(t, []Point{Pt(0, 0), Pt(10, 10)}, cl.Points)
	if cl.Confidence < 0.99 {
		t.Errorf("got confidence %v for exact line, want ≈ 1", cl.Confidence)
	}
}

func TestClassifyRightAngleIsNeverLine(t *testing.T) {
	cl := classify(t, lShapePoints())
	if cl.Kind == ShapeLine {
		t.Fatal("a stroke with a 90° turn classified as a line")
	}
	if cl.Kind != ShapePolyline {
		t.Fatalf("got %v, want polyline", cl.Kind)
	}
	diff(t, []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10)}, cl.Points)
}

func TestClassifyRectangle(t *testing.T) {
	cl := classify(t, squarePoints(Pt(0, 0), 10, 10))
	if cl.Kind != ShapeRectangle {
		t.Fatalf("got %v, want rectangle", cl.Kind)
	}
	diff(t, []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10), Pt(0, 0)}, cl.Points)
}

func TestClassifyTriangle(t *testing.T) {
	pts := polygonPoints([]Point{Pt(0, 0), Pt(60, 0), Pt(30, 45)}, 15)
	cl := classify(t, pts)
	if cl.Kind != ShapeTriangle {
		t.Fatalf("got %v, want triangle", cl.Kind)
	}
	diff(t, []Point{Pt(0, 0), Pt(60, 0), Pt(30, 45), Pt(0, 0)}, cl.Points)
}

func TestClassifyTinyTriangleIsPolygon(t *testing.T) {
	// Perimeter below MinTrianglePerimeter; the triangle hypothesis bows
	// out and the generic polygon takes over.
	pts := polygonPoints([]Point{Pt(0, 0), Pt(8, 0), Pt(4, 6)}, 5)
	cl := classify(t, pts)
	if cl.Kind != ShapePolygon {
		t.Fatalf("got %v, want polygon", cl.Kind)
	}
}

func TestClassifyPentagon(t *testing.T) {
	vertices := make([]Point, 5)
	for i := range vertices {
		a := math.Pi/2 + 2*math.Pi*float64(i)/5
		vertices[i] = pointOnCircle(Pt(0, 0), 50, a)
	}
	cl := classify(t, polygonPoints(vertices, 10))
	if cl.Kind != ShapePolygon {
		t.Fatalf("got %v, want polygon", cl.Kind)
	}
	if len(cl.Points) != 6 {
		t.Errorf("got %d ring points, want 6", len(cl.Points))
	}
}

func TestClassifyCircle(t *testing.T) {
	center := Pt(100, 100)
	cl := classify(t, circlePoints(center, 50, 64))
	if cl.Kind != ShapeCircle {
		t.Fatalf("got %v, want circle", cl.Kind)
	}
	if !near(cl.Err, 0, 1e-9) {
		t.Errorf("got error %v for exact circle, want 0", cl.Err)
	}
	if cl.Confidence < 0.99 {
		t.Errorf("got confidence %v for exact circle, want ≈ 1", cl.Confidence)
	}
	// The predicted ring reproduces center and radius.
	bounds := BoundsOf(cl.Points)
	if !approxEqual(bounds.Center(), center, 1e-9) {
		t.Errorf("got ring center %v, want %v", bounds.Center(), center)
	}
	if !near(bounds.Width(), 100, 1e-9) || !near(bounds.Height(), 100, 1e-9) {
		t.Errorf("got ring bounds %v, want 100×100", bounds)
	}
	if first, last := cl.Points[0], cl.Points[len(cl.Points)-1]; !approxEqual(first, last, 1e-9) {
		t.Errorf("ring not closed: first %v, last %v", first, last)
	}
}

func TestClassifyNearlyClosedArcIsCircle(t *testing.T) {
	// 340° of arc: the gap is below the closure threshold and the angular
	// coverage is above the acceptance floor.
	pts := make([]Point, 60)
	for i := range pts {
		a := 2 * math.Pi * (340.0 / 360) * float64(i) / float64(len(pts)-1)
		pts[i] = pointOnCircle(Pt(0, 0), 50, a)
	}
	cl := classify(t, pts)
	if cl.Kind != ShapeCircle {
		t.Fatalf("got %v, want circle", cl.Kind)
	}
}

func TestClassifyOpenArcIsNotCircle(t *testing.T) {
	// 270° of arc leaves a gap far above the closure threshold.
	pts := make([]Point, 48)
	for i := range pts {
		a := 2 * math.Pi * (270.0 / 360) * float64(i) / float64(len(pts)-1)
		pts[i] = pointOnCircle(Pt(0, 0), 50, a)
	}
	c := NewClassifier(DefaultClassifierOptions())
	if cl, ok := c.Classify(Samples(pts)); ok && cl.Kind == ShapeCircle {
		t.Error("open arc classified as circle")
	}
	if got := c.Predict(Samples(pts)); got != nil {
		t.Errorf("got prediction %v for open arc, want nil", got)
	}
}

func TestClassifyEllipse(t *testing.T) {
	const a, b = 60, 25
	pts := make([]Point, 64)
	for i := range pts {
		u := 2 * math.Pi * float64(i) / float64(len(pts))
		pts[i] = Pt(a*math.Cos(u), b*math.Sin(u))
	}
	cl := classify(t, pts)
	if cl.Kind != ShapeEllipse {
		t.Fatalf("got %v, want ellipse", cl.Kind)
	}
	bounds := BoundsOf(cl.Points)
	if !near(bounds.Width(), 2*a, 1e-6) || !near(bounds.Height(), 2*b, 1e-6) {
		t.Errorf("got ring bounds %v, want %v×%v", bounds, 2.0*a, 2.0*b)
	}
}

func TestClassifyReversalInvariance(t *testing.T) {
	pts := squarePoints(Pt(0, 0), 10, 10)
	forward := classify(t, pts)

	rev := slices.Clone(pts)
	slices.Reverse(rev)
	backward := classify(t, rev)

	if forward.Kind != backward.Kind {
		t.Errorf("got %v forward but %v backward", forward.Kind, backward.Kind)
	}
}

func TestClassifyFirstAcceptable(t *testing.T) {
	opts := DefaultClassifierOptions()
	opts.Strategy = FirstAcceptable
	c := NewClassifier(opts)

	cl, ok := c.Classify(Samples(squarePoints(Pt(0, 0), 10, 10)))
	if !ok || cl.Kind != ShapeRectangle {
		t.Errorf("got %v (ok=%v), want rectangle", cl.Kind, ok)
	}
	if cl.Confidence < opts.Accept {
		t.Errorf("got confidence %v below acceptance %v", cl.Confidence, opts.Accept)
	}
}

func TestPredict(t *testing.T) {
	c := NewClassifier(DefaultClassifierOptions())
	got := c.Predict(Samples(squarePoints(Pt(0, 0), 10, 10)))
	diff(t, []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10), Pt(0, 0)}, got)
}

func TestSimplifyPolyline(t *testing.T) {
	got := SimplifyPolyline(Samples(lShapePoints()), CornerOptions{})
	diff(t, []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10)}, got)
}

func TestShapeKindString(t *testing.T) {
	diff(t, "rectangle", ShapeRectangle.String())
	diff(t, "unknown", ShapeUnknown.String())
	diff(t, "unknown", ShapeKind(99).String())
}
