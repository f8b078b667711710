package sketch

import (
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestExtractFacesSquare(t *testing.T) {
	g := BuildPlanarGraph(squareStrokes(Pt(0, 0), 10), DefaultGraphOptions())
	faces := ExtractFaces(g, DefaultFaceOptions())

	if len(faces) != 1 {
		t.Fatalf("got %d faces, want 1", len(faces))
	}
	f := faces[0]
	if !near(f.Area, 100, 1e-9) {
		t.Errorf("got area %v, want 100", f.Area)
	}
	if len(f.Ring) != 4 {
		t.Errorf("got %d ring points, want 4", len(f.Ring))
	}
	if SignedArea(f.Ring) <= 0 {
		t.Error("ring is not counter-clockwise")
	}
	if !approxEqual(f.Centroid, Pt(5, 5), 1e-9) {
		t.Errorf("got centroid %v, want (5, 5)", f.Centroid)
	}
	if f.ID == "" {
		t.Error("face has no id")
	}
}

func TestExtractFacesAdjacentSquares(t *testing.T) {
	strokes := append(squareStrokes(Pt(0, 0), 10),
		lineStroke("r-bottom", Pt(10, 0), Pt(20, 0)),
		lineStroke("r-right", Pt(20, 0), Pt(20, 10)),
		lineStroke("r-top", Pt(20, 10), Pt(10, 10)),
	)
	g := BuildPlanarGraph(strokes, DefaultGraphOptions())
	faces := ExtractFaces(g, DefaultFaceOptions())

	// Both cells plus the outer boundary, ascending by area. Equal-area
	// cells survive deduplication because their centroids differ.
	if len(faces) != 3 {
		t.Fatalf("got %d faces, want 3", len(faces))
	}
	areas := []float64{faces[0].Area, faces[1].Area, faces[2].Area}
	diff(t, []float64{100, 100, 200}, areas, cmpopts.EquateApprox(0, 1e-9))
}

func TestExtractFacesMinArea(t *testing.T) {
	g := BuildPlanarGraph(squareStrokes(Pt(0, 0), 10), DefaultGraphOptions())
	opts := DefaultFaceOptions()
	opts.MinArea = 200
	if faces := ExtractFaces(g, opts); len(faces) != 0 {
		t.Errorf("got %d faces below the area floor, want 0", len(faces))
	}
}

func TestExtractFacesDepthCap(t *testing.T) {
	g := BuildPlanarGraph(squareStrokes(Pt(0, 0), 10), DefaultGraphOptions())
	opts := DefaultFaceOptions()
	opts.MaxDepth = 3
	if faces := ExtractFaces(g, opts); len(faces) != 0 {
		t.Errorf("got %d faces under the depth cap, want 0", len(faces))
	}
}

func TestExtractFacesSimplifiesCollinearPoints(t *testing.T) {
	s := Stroke{
		ID:     "free",
		Points: squarePoints(Pt(0, 0), 12, 3),
		Closed: true,
	}
	g := BuildPlanarGraph([]Stroke{s}, DefaultGraphOptions())
	faces := ExtractFaces(g, DefaultFaceOptions())

	if len(faces) != 1 {
		t.Fatalf("got %d faces, want 1", len(faces))
	}
	if len(faces[0].Ring) != 4 {
		t.Errorf("got %d ring points, want 4", len(faces[0].Ring))
	}
	if !near(faces[0].Area, 144, 1e-9) {
		t.Errorf("got area %v, want 144", faces[0].Area)
	}
}

func TestExtractFacesDeterministic(t *testing.T) {
	strokes := append(squareStrokes(Pt(0, 0), 10),
		lineStroke("r-bottom", Pt(10, 0), Pt(20, 0)),
		lineStroke("r-right", Pt(20, 0), Pt(20, 10)),
		lineStroke("r-top", Pt(20, 10), Pt(10, 10)),
	)
	a := ExtractFaces(BuildPlanarGraph(strokes, DefaultGraphOptions()), DefaultFaceOptions())
	b := ExtractFaces(BuildPlanarGraph(strokes, DefaultGraphOptions()), DefaultFaceOptions())

	if len(a) != len(b) {
		t.Fatalf("got %d and %d faces", len(a), len(b))
	}
	for i := range a {
		if !near(a[i].Area, b[i].Area, 1e-9) {
			t.Errorf("face %d area differs: %v vs %v", i, a[i].Area, b[i].Area)
		}
		if !approxEqual(a[i].Centroid, b[i].Centroid, 1e-9) {
			t.Errorf("face %d centroid differs: %v vs %v", i, a[i].Centroid, b[i].Centroid)
		}
	}
}

func TestSignedArea(t *testing.T) {
	ccw := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	if got := SignedArea(ccw); !near(got, 100, 1e-12) {
		t.Errorf("got %v, want 100", got)
	}
	cw := []Point{Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0)}
	if got := SignedArea(cw); !near(got, -100, 1e-12) {
		t.Errorf("got %v, want -100", got)
	}
}

func TestCentroid(t *testing.T) {
	square := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	diff(t, Pt(5, 5), Centroid(square))

	triangle := []Point{Pt(0, 0), Pt(9, 0), Pt(0, 9)}
	if !approxEqual(Centroid(triangle), Pt(3, 3), 1e-12) {
		t.Errorf("got %v, want (3, 3)", Centroid(triangle))
	}

	degenerate := []Point{Pt(1, 2), Pt(1, 2), Pt(1, 2)}
	diff(t, Pt(1, 2), Centroid(degenerate))
}

func TestPointInRing(t *testing.T) {
	ring := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	if !PointInRing(Pt(5, 5), ring) {
		t.Error("center not inside")
	}
	if PointInRing(Pt(15, 5), ring) {
		t.Error("outside point reported inside")
	}
	if PointInRing(Pt(-1, -1), ring) {
		t.Error("outside corner reported inside")
	}
}

func TestClosedAreas(t *testing.T) {
	g := BuildPlanarGraph(squareStrokes(Pt(0, 0), 10), DefaultGraphOptions())
	faces := ExtractFaces(g, DefaultFaceOptions())
	areas := ClosedAreas(g, faces)

	if len(areas) != 1 {
		t.Fatalf("got %d areas, want 1", len(areas))
	}
	a := areas[0]
	if len(a.StrokeIDs) != 4 {
		t.Errorf("got stroke ids %v, want 4 of them", a.StrokeIDs)
	}
	diff(t, Rect{0, 0, 10, 10}, BoundsOf(a.Polygon))
	diff(t, a.Bounds, BoundsOf(a.Polygon))
	if !near(a.Area, 100, 1e-9) {
		t.Errorf("got area %v, want 100", a.Area)
	}
}

func TestRegionTracker(t *testing.T) {
	tr := NewRegionTracker(DefaultGraphOptions(), DefaultFaceOptions(), nil)
	if tr.Graph() != nil {
		t.Fatal("graph exists before the first rebuild")
	}

	strokes := append(squareStrokes(Pt(0, 0), 10),
		lineStroke("r-bottom", Pt(10, 0), Pt(20, 0)),
		lineStroke("r-right", Pt(20, 0), Pt(20, 10)),
		lineStroke("r-top", Pt(20, 10), Pt(10, 10)),
	)
	tr.Rebuild(strokes)

	if tr.Graph() == nil {
		t.Fatal("no graph after rebuild")
	}
	if len(tr.Areas()) != 3 {
		t.Fatalf("got %d areas, want 3", len(tr.Areas()))
	}

	// The innermost containing region wins, not the outer boundary.
	area, ok := tr.AreaAt(Pt(5, 5))
	if !ok {
		t.Fatal("no area at (5, 5)")
	}
	if !near(area.Area, 100, 1e-9) {
		t.Errorf("got area %v, want the inner 100", area.Area)
	}
	area, ok = tr.AreaAt(Pt(15, 5))
	if !ok || !near(area.Area, 100, 1e-9) {
		t.Errorf("got area %v (ok=%v), want the inner 100", area.Area, ok)
	}
	if _, ok := tr.AreaAt(Pt(50, 50)); ok {
		t.Error("found an area far outside the drawing")
	}
}

func TestRegionTrackerDebounce(t *testing.T) {
	var queue []func()
	tr := NewRegionTracker(DefaultGraphOptions(), DefaultFaceOptions(), func(run func()) {
		queue = append(queue, run)
	})
	tr.Rebuild(squareStrokes(Pt(0, 0), 10))
	tr.Rebuild(squareStrokes(Pt(0, 0), 20))

	if len(queue) != 1 {
		t.Fatalf("got %d scheduled rebuilds, want 1", len(queue))
	}
	tr.Flush()
	if len(tr.Areas()) != 1 || !near(tr.Areas()[0].Area, 400, 1e-9) {
		t.Errorf("got areas %v, want one of 400", tr.Areas())
	}
	// The superseded scheduled callback is a no-op.
	queue[0]()
	if !near(tr.Areas()[0].Area, 400, 1e-9) {
		t.Error("stale callback reran a rebuild")
	}
}
