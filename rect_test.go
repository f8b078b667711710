package sketch

import "testing"

func TestRectFromPoints(t *testing.T) {
	diff(t, Rect{0, 1, 2, 3}, NewRectFromPoints(Pt(2, 3), Pt(0, 1)))
	diff(t, Rect{0, 1, 2, 3}, NewRectFromPoints(Pt(0, 3), Pt(2, 1)))
}

func TestBoundsOf(t *testing.T) {
	diff(t, Rect{}, BoundsOf(nil))
	diff(t, Rect{1, 2, 1, 2}, BoundsOf([]Point{Pt(1, 2)}))
	diff(t, Rect{-3, 0, 5, 7}, BoundsOf([]Point{Pt(5, 0), Pt(-3, 7), Pt(1, 2)}))
}

func TestRectContains(t *testing.T) {
	r := Rect{0, 0, 10, 10}
	for _, pt := range []Point{Pt(5, 5), Pt(0, 0), Pt(10, 10), Pt(0, 7)} {
		if !r.Contains(pt) {
			t.Errorf("%v does not contain %v", r, pt)
		}
	}
	for _, pt := range []Point{Pt(-1, 5), Pt(5, 11), Pt(10.001, 5)} {
		if r.Contains(pt) {
			t.Errorf("%v contains %v", r, pt)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	r := Rect{0, 0, 10, 10}
	if !r.Intersects(Rect{5, 5, 15, 15}) {
		t.Error("overlapping rectangles do not intersect")
	}
	if !r.Intersects(Rect{10, 0, 20, 10}) {
		t.Error("touching rectangles do not intersect")
	}
	if r.Intersects(Rect{11, 0, 20, 10}) {
		t.Error("disjoint rectangles intersect")
	}
}

func TestRectInflate(t *testing.T) {
	diff(t, Rect{-2, -3, 12, 13}, Rect{0, 0, 10, 10}.Inflate(2, 3))
}

func TestRectUnion(t *testing.T) {
	diff(t, Rect{0, 0, 10, 10}, Rect{0, 0, 4, 4}.Union(Rect{6, 6, 10, 10}))
	diff(t, Rect{0, 0, 4, 9}, Rect{0, 0, 4, 4}.UnionPoint(Pt(2, 9)))
}
