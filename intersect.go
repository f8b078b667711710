package sketch

import (
	"math"
	"strconv"
	"strings"
)

// SegmentRef identifies one digital segment within a stroke collection.
type SegmentRef struct {
	StrokeID string
	Index    int
}

// String returns the "strokeID:index" form used at the interface with host
// applications.
func (r SegmentRef) String() string {
	return r.StrokeID + ":" + strconv.Itoa(r.Index)
}

// ParseSegmentRef parses the "strokeID:index" form.
func ParseSegmentRef(s string) (SegmentRef, bool) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return SegmentRef{}, false
	}
	idx, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return SegmentRef{}, false
	}
	return SegmentRef{StrokeID: s[:i], Index: idx}, true
}

// SegmentMetadata is the persistent per-segment record of the intersection
// manager: current endpoints, bounding box, and the set of segments this one
// currently intersects. It survives across incremental drags and is updated
// in place, keyed by identity.
type SegmentMetadata struct {
	ref    SegmentRef
	p0, p1 Point
	bounds Rect
	links  map[SegmentRef]struct{}
}

func newSegmentMetadata(ref SegmentRef, p0, p1 Point) *SegmentMetadata {
	return &SegmentMetadata{
		ref:    ref,
		p0:     p0,
		p1:     p1,
		bounds: NewRectFromPoints(p0, p1),
		links:  make(map[SegmentRef]struct{}),
	}
}

func (md *SegmentMetadata) ID() string        { return md.ref.String() }
func (md *SegmentMetadata) StrokeID() string  { return md.ref.StrokeID }
func (md *SegmentMetadata) SegmentIndex() int { return md.ref.Index }
func (md *SegmentMetadata) Bounds() Rect      { return md.bounds }

// Endpoints returns the segment's endpoints as of the last update.
func (md *SegmentMetadata) Endpoints() (Point, Point) { return md.p0, md.p1 }

func (md *SegmentMetadata) setEndpoints(p0, p1 Point) {
	md.p0 = p0
	md.p1 = p1
	md.bounds = NewRectFromPoints(p0, p1)
}

// EndpointFunc resolves a segment reference to its current endpoints. It
// reports false for stale references. Registering one keeps the manager
// snapshot-free between drags.
type EndpointFunc func(ref SegmentRef) (p0, p1 Point, ok bool)

// IntersectionPoint is one crossing between tracked segments.
type IntersectionPoint struct {
	Point    Point
	Segments []SegmentRef
}

// defaultQueryPadding inflates index queries so segments that are about to
// touch are already among the candidates.
const defaultQueryPadding = 10

// IntersectionManager tracks segment-pair intersections incrementally, so
// that interactive dragging costs time proportional to the locally affected
// segments rather than all segment pairs. It exclusively owns its metadata
// map and spatial index.
//
// Only straight digital segments are tracked; curved segments take part in
// intersection handling through the full planar-graph rebuild.
type IntersectionManager struct {
	endpoints EndpointFunc
	index     *SpatialIndex[*SegmentMetadata]
	segments  map[SegmentRef]*SegmentMetadata
	rebuild   *Coalescer
	pad       float64
}

// NewIntersectionManager returns a manager that resolves live endpoints
// through endpoints (which may be nil, falling back to cached positions) and
// debounces full rebuilds through schedule (nil means synchronous rebuilds).
func NewIntersectionManager(endpoints EndpointFunc, schedule Scheduler) *IntersectionManager {
	return &IntersectionManager{
		endpoints: endpoints,
		index:     NewSpatialIndex[*SegmentMetadata](),
		segments:  make(map[SegmentRef]*SegmentMetadata),
		rebuild:   NewCoalescer(schedule),
		pad:       defaultQueryPadding,
	}
}

// BuildFromStrokes schedules a full rebuild from the stroke collection.
// Bursts of calls within one scheduling boundary collapse into a single
// rebuild of the last collection passed.
func (m *IntersectionManager) BuildFromStrokes(strokes []Stroke) {
	m.rebuild.Do(func() {
		m.rebuildNow(strokes)
	})
}

// Flush forces a pending rebuild to run now.
func (m *IntersectionManager) Flush() {
	m.rebuild.Flush()
}

func (m *IntersectionManager) rebuildNow(strokes []Stroke) {
	clear(m.segments)
	var items []*SegmentMetadata
	for _, stroke := range strokes {
		for i, seg := range stroke.Segments {
			if seg.Kind != SegmentLine {
				continue
			}
			md := newSegmentMetadata(
				SegmentRef{StrokeID: stroke.ID, Index: i},
				seg.Line.P0, seg.Line.P1,
			)
			m.segments[md.ref] = md
			items = append(items, md)
		}
	}
	m.index.Load(items)

	// Recompute every link. The index keeps this closer to O(n log n) than
	// to all pairs.
	links := 0
	for _, md := range items {
		for _, other := range m.index.Search(md.bounds) {
			if other == md {
				continue
			}
			if _, ok := SegmentCrossing(md.p0, md.p1, other.p0, other.p1); ok {
				md.links[other.ref] = struct{}{}
				other.links[md.ref] = struct{}{}
				links++
			}
		}
	}
	Logger().Debug("intersection rebuild",
		"segments", len(items),
		"links", links/2)
}

// UpdateSegment refreshes one segment's position and bounding box without
// touching its cached links. It is the cheap path for keeping positions
// current when fresh intersections are not needed.
func (m *IntersectionManager) UpdateSegment(ref SegmentRef, p0, p1 Point) {
	md, ok := m.segments[ref]
	if !ok {
		md = newSegmentMetadata(ref, p0, p1)
		m.segments[ref] = md
		m.index.Insert(md)
		return
	}
	m.index.Update(md, func() {
		md.setEndpoints(p0, p1)
	})
}

// MoveSegment is the drag hot path: it moves one segment to new endpoints,
// invalidates its cached links (and the mutual reverse links), queries the
// index with a padded box at the new position, retests true crossings against
// only those candidates, re-establishes mutual links, and returns the fresh
// intersection list for immediate display.
func (m *IntersectionManager) MoveSegment(ref SegmentRef, p0, p1 Point) []IntersectionPoint {
	md, ok := m.segments[ref]
	if !ok {
		md = newSegmentMetadata(ref, p0, p1)
		m.segments[ref] = md
		m.index.Insert(md)
	} else {
		for other := range md.links {
			if omd, ok := m.segments[other]; ok {
				delete(omd.links, ref)
			}
		}
		clear(md.links)
		m.index.Update(md, func() {
			md.setEndpoints(p0, p1)
		})
	}

	var out []IntersectionPoint
	for _, other := range m.index.SearchPadded(md.bounds, m.pad) {
		if other == md {
			continue
		}
		op0, op1, ok := m.currentEndpoints(other)
		if !ok {
			continue
		}
		pt, ok := SegmentCrossing(md.p0, md.p1, op0, op1)
		if !ok {
			continue
		}
		md.links[other.ref] = struct{}{}
		other.links[md.ref] = struct{}{}
		out = append(out, IntersectionPoint{
			Point:    pt,
			Segments: []SegmentRef{md.ref, other.ref},
		})
	}
	Logger().Debug("incremental intersections",
		"segment", md.ref.String(),
		"hits", len(out))
	return out
}

// IntersectionsNear returns the intersections within radius of a probe
// point, testing only the candidate segments in a small box around it. It
// never scans the full collection.
func (m *IntersectionManager) IntersectionsNear(pt Point, radius float64) []IntersectionPoint {
	probe := Rect{pt.X, pt.Y, pt.X, pt.Y}.Inflate(radius, radius)
	candidates := m.index.Search(probe)

	var out []IntersectionPoint
	for i, a := range candidates {
		ap0, ap1, ok := m.currentEndpoints(a)
		if !ok {
			continue
		}
		for _, b := range candidates[i+1:] {
			bp0, bp1, ok := m.currentEndpoints(b)
			if !ok {
				continue
			}
			x, ok := SegmentCrossing(ap0, ap1, bp0, bp1)
			if !ok || x.Distance(pt) > radius {
				continue
			}
			out = append(out, IntersectionPoint{
				Point:    x,
				Segments: []SegmentRef{a.ref, b.ref},
			})
		}
	}
	return out
}

// Intersections returns every currently cached intersection, recomputing the
// crossing points from current endpoints.
func (m *IntersectionManager) Intersections() []IntersectionPoint {
	var out []IntersectionPoint
	for ref, md := range m.segments {
		p0, p1, ok := m.currentEndpoints(md)
		if !ok {
			continue
		}
		for other := range md.links {
			if !lessRef(ref, other) {
				continue
			}
			omd, ok := m.segments[other]
			if !ok {
				continue
			}
			op0, op1, ok := m.currentEndpoints(omd)
			if !ok {
				continue
			}
			if pt, ok := SegmentCrossing(p0, p1, op0, op1); ok {
				out = append(out, IntersectionPoint{
					Point:    pt,
					Segments: []SegmentRef{ref, other},
				})
			}
		}
	}
	return out
}

// Len returns the number of tracked segments.
func (m *IntersectionManager) Len() int {
	return len(m.segments)
}

func (m *IntersectionManager) currentEndpoints(md *SegmentMetadata) (Point, Point, bool) {
	if m.endpoints != nil {
		if p0, p1, ok := m.endpoints(md.ref); ok {
			return p0, p1, true
		}
		return Point{}, Point{}, false
	}
	return md.p0, md.p1, true
}

func lessRef(a, b SegmentRef) bool {
	if a.StrokeID != b.StrokeID {
		return a.StrokeID < b.StrokeID
	}
	return a.Index < b.Index
}

// SegmentCrossing returns the intersection point of two straight segments
// when both interpolation parameters are strictly inside (0, 1). Collinear
// overlaps and shared endpoints report no intersection.
func SegmentCrossing(a0, a1, b0, b1 Point) (Point, bool) {
	pt, _, _, ok := segmentCrossingWithin(a0, a1, b0, b1, 0, 1)
	return pt, ok
}

// segmentCrossingWithin restricts both parameters to the open interval
// (lo, hi).
func segmentCrossingWithin(a0, a1, b0, b1 Point, lo, hi float64) (pt Point, t, u float64, ok bool) {
	da := a1.Sub(a0)
	db := b1.Sub(b0)
	det := da.Cross(db)
	if math.Abs(det) < epsDenominator {
		// Parallel or collinear.
		return Point{}, 0, 0, false
	}
	w := b0.Sub(a0)
	t = w.Cross(db) / det
	u = w.Cross(da) / det
	if t <= lo || t >= hi || u <= lo || u >= hi {
		return Point{}, 0, 0, false
	}
	return a0.Lerp(a1, t), t, u, true
}
