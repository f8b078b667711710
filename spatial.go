package sketch

import "github.com/tidwall/rtree"

// Indexed is implemented by items stored in a [SpatialIndex]. Every item
// exposes its own id as well as its parent stroke id and local segment
// index, so callers can resolve geometry without auxiliary lookup maps.
//
// Bounds must be stable between an Insert and the matching Remove.
type Indexed interface {
	comparable
	ID() string
	StrokeID() string
	SegmentIndex() int
	Bounds() Rect
}

// SpatialIndex maintains axis-aligned bounding boxes for a dynamic set of 2D
// segments. It is backed by a balanced bounding-volume tree with amortized
// O(log n) insert and search.
type SpatialIndex[T Indexed] struct {
	tree rtree.RTreeG[T]
}

func NewSpatialIndex[T Indexed]() *SpatialIndex[T] {
	return &SpatialIndex[T]{}
}

// Insert adds item under its current bounds.
func (ix *SpatialIndex[T]) Insert(item T) {
	mn, mx := rectCorners(item.Bounds())
	ix.tree.Insert(mn, mx, item)
}

// Remove deletes item. The item's bounds must still equal its
// insertion-time bounds.
func (ix *SpatialIndex[T]) Remove(item T) {
	mn, mx := rectCorners(item.Bounds())
	ix.tree.Delete(mn, mx, item)
}

// Update re-indexes item: it is removed under its current bounds, mutate is
// run (and may change the bounds), and the item is inserted again.
func (ix *SpatialIndex[T]) Update(item T, mutate func()) {
	ix.Remove(item)
	if mutate != nil {
		mutate()
	}
	ix.Insert(item)
}

// Search returns all items whose bounds overlap r.
func (ix *SpatialIndex[T]) Search(r Rect) []T {
	var out []T
	mn, mx := rectCorners(r)
	ix.tree.Search(mn, mx, func(_, _ [2]float64, item T) bool {
		out = append(out, item)
		return true
	})
	return out
}

// SearchPadded returns all items whose bounds overlap r inflated by pad in
// every direction.
func (ix *SpatialIndex[T]) SearchPadded(r Rect, pad float64) []T {
	return ix.Search(r.Inflate(pad, pad))
}

// Load replaces the index contents with items in bulk. It is used after full
// rebuilds, where it is cheaper than removing and reinserting one by one.
func (ix *SpatialIndex[T]) Load(items []T) {
	ix.tree = rtree.RTreeG[T]{}
	for _, item := range items {
		ix.Insert(item)
	}
}

// Clear removes all items.
func (ix *SpatialIndex[T]) Clear() {
	ix.tree = rtree.RTreeG[T]{}
}

// Len returns the number of indexed items.
func (ix *SpatialIndex[T]) Len() int {
	return ix.tree.Len()
}

func rectCorners(r Rect) (mn, mx [2]float64) {
	r = r.Abs()
	return [2]float64{r.X0, r.Y0}, [2]float64{r.X1, r.Y1}
}
