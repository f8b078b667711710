package sketch

import (
	"math"
	"slices"

	"github.com/google/uuid"
)

// FaceOptions controls face extraction.
//
// MinArea and AreaEpsilon are empirically tuned rather than derived; adjust
// them to the coordinate scale of the host application.
type FaceOptions struct {
	// MinArea discards sliver faces below this area.
	MinArea float64
	// AreaEpsilon is the area tolerance used to deduplicate cycles that
	// describe the same region.
	AreaEpsilon float64
	// MaxDepth hard-caps the cycle-search path length, guaranteeing
	// termination on dense or degenerate graphs.
	MaxDepth int
}

func DefaultFaceOptions() FaceOptions {
	return FaceOptions{
		MinArea:     4,
		AreaEpsilon: 1,
		MaxDepth:    64,
	}
}

// Face is a closed region of a planar graph.
type Face struct {
	ID string
	// Ring is the simple vertex ring, wound counter-clockwise, without a
	// repeated closing point.
	Ring []Point
	// EdgeIDs lists the contributing edges, traceable to source strokes.
	EdgeIDs  []int
	Area     float64
	Centroid Point
}

// ClosedArea is the rendering-facing projection of a face.
type ClosedArea struct {
	Polygon   []Point
	Bounds    Rect
	StrokeIDs []string
	Area      float64
}

// ExtractFaces enumerates the closed regions of the graph: a depth-capped
// cycle search from every vertex of degree ≥ 2, followed by collinear-point
// simplification, a minimum-area filter, duplicate removal (largest area
// first), and counter-clockwise normalization. The result is sorted
// ascending by area, so reverse iteration favors the innermost region.
func ExtractFaces(g *PlanarGraph, opts FaceOptions) []Face {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultFaceOptions().MaxDepth
	}

	var raw []cycle
	for _, start := range g.Vertices {
		if start.Degree() < 2 {
			continue
		}
		raw = append(raw, cyclesFrom(start, opts.MaxDepth)...)
	}

	var faces []Face
	for _, cy := range raw {
		ring := simplifyRing(cy.points)
		if len(ring) < 3 {
			continue
		}
		area := SignedArea(ring)
		if math.Abs(area) < opts.MinArea {
			continue
		}
		if area < 0 {
			slices.Reverse(ring)
			area = -area
		}
		faces = append(faces, Face{
			Ring:     ring,
			EdgeIDs:  cy.edges,
			Area:     area,
			Centroid: Centroid(ring),
		})
	}

	slices.SortFunc(faces, func(a, b Face) int {
		switch {
		case a.Area > b.Area:
			return -1
		case a.Area < b.Area:
			return 1
		default:
			return 0
		}
	})
	centroidTol := math.Sqrt(opts.AreaEpsilon)
	var out []Face
	for _, f := range faces {
		dup := false
		for _, o := range out {
			if math.Abs(o.Area-f.Area) <= opts.AreaEpsilon &&
				o.Centroid.Distance(f.Centroid) <= centroidTol {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		f.ID = uuid.NewString()
		out = append(out, f)
	}
	slices.Reverse(out)

	Logger().Debug("face extraction",
		"cycles", len(raw),
		"faces", len(out))
	return out
}

type cycle struct {
	points []Point
	edges  []int
}

// cyclesFrom runs a depth-first cycle search from start using an explicit
// stack. Edges are never reused within a path and the path never revisits a
// vertex, except to close back at start. A walk closing at start is a cycle
// when it spans at least 3 edges, or 2 edges via a direct alternate edge.
func cyclesFrom(start *Vertex, maxDepth int) []cycle {
	type frame struct {
		v    *Vertex
		next int
	}
	stack := []frame{{v: start}}
	var pathEdges []*Edge
	usedEdge := make(map[int]bool)
	onPath := map[int]bool{start.ID: true}

	var out []cycle
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.v.Edges) {
			v := top.v
			stack = stack[:len(stack)-1]
			delete(onPath, v.ID)
			if len(pathEdges) > 0 {
				last := pathEdges[len(pathEdges)-1]
				delete(usedEdge, last.ID)
				pathEdges = pathEdges[:len(pathEdges)-1]
			}
			continue
		}
		e := top.v.Edges[top.next]
		top.next++
		if usedEdge[e.ID] {
			continue
		}
		w := e.Other(top.v)
		if w == start {
			n := len(pathEdges) + 1
			if n >= 3 || (n == 2 && e.ID != pathEdges[0].ID) {
				pts := make([]Point, len(stack))
				for i, fr := range stack {
					pts[i] = fr.v.Pos
				}
				edges := make([]int, 0, n)
				for _, pe := range pathEdges {
					edges = append(edges, pe.ID)
				}
				edges = append(edges, e.ID)
				out = append(out, cycle{points: pts, edges: edges})
			}
			continue
		}
		if onPath[w.ID] {
			continue
		}
		if len(stack) >= maxDepth {
			continue
		}
		usedEdge[e.ID] = true
		onPath[w.ID] = true
		pathEdges = append(pathEdges, e)
		stack = append(stack, frame{v: w})
	}
	return out
}

// simplifyRing drops ring points whose neighboring chords are collinear.
func simplifyRing(ring []Point) []Point {
	const eps = 1e-6
	out := slices.Clone(ring)
	for changed := true; changed && len(out) > 3; {
		changed = false
		for i := 0; i < len(out) && len(out) > 3; i++ {
			n := len(out)
			prev := out[(i+n-1)%n]
			next := out[(i+1)%n]
			a := out[i].Sub(prev)
			b := next.Sub(out[i])
			if math.Abs(a.Cross(b)) < eps {
				out = slices.Delete(out, i, i+1)
				i--
				changed = true
			}
		}
	}
	return out
}

// SignedArea returns the polygon area of a vertex ring via the shoelace sum.
// The sign encodes the winding direction.
func SignedArea(ring []Point) float64 {
	var sum float64
	for i := range ring {
		j := (i + 1) % len(ring)
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return sum / 2
}

// Centroid returns the centroid of a vertex ring using the weighted-triangle
// formula, falling back to the first vertex for degenerate areas.
func Centroid(ring []Point) Point {
	area := SignedArea(ring)
	if math.Abs(area) < epsDenominator {
		return ring[0]
	}
	var cx, cy float64
	for i := range ring {
		j := (i + 1) % len(ring)
		cross := ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
		cx += (ring[i].X + ring[j].X) * cross
		cy += (ring[i].Y + ring[j].Y) * cross
	}
	f := 1 / (6 * area)
	return Pt(cx*f, cy*f)
}

// PointInRing reports whether pt lies inside the ring, by crossing parity.
func PointInRing(pt Point, ring []Point) bool {
	inside := false
	for i := range ring {
		j := (i + 1) % len(ring)
		a, b := ring[i], ring[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// ClosedAreas projects faces into their rendering-facing form, ascending by
// area like the input faces.
func ClosedAreas(g *PlanarGraph, faces []Face) []ClosedArea {
	out := make([]ClosedArea, 0, len(faces))
	for _, f := range faces {
		seen := make(map[string]bool)
		var strokes []string
		for _, id := range f.EdgeIDs {
			if id < 0 || id >= len(g.Edges) {
				continue
			}
			sid := g.Edges[id].StrokeID
			if !seen[sid] {
				seen[sid] = true
				strokes = append(strokes, sid)
			}
		}
		slices.Sort(strokes)
		out = append(out, ClosedArea{
			Polygon:   f.Ring,
			Bounds:    BoundsOf(f.Ring),
			StrokeIDs: strokes,
			Area:      f.Area,
		})
	}
	return out
}

// RegionTracker owns a planar graph and its derived closed areas, rebuilding
// both wholesale whenever the stroke set changes. Rebuild requests are
// debounced through the scheduler, so several stroke mutations within one
// frame collapse into a single rebuild.
type RegionTracker struct {
	graphOpts GraphOptions
	faceOpts  FaceOptions
	rebuild   *Coalescer
	graph     *PlanarGraph
	areas     []ClosedArea
}

func NewRegionTracker(graphOpts GraphOptions, faceOpts FaceOptions, schedule Scheduler) *RegionTracker {
	return &RegionTracker{
		graphOpts: graphOpts,
		faceOpts:  faceOpts,
		rebuild:   NewCoalescer(schedule),
	}
}

// Rebuild schedules a full graph and closed-area rebuild from strokes.
func (t *RegionTracker) Rebuild(strokes []Stroke) {
	t.rebuild.Do(func() {
		t.graph = BuildPlanarGraph(strokes, t.graphOpts)
		t.areas = ClosedAreas(t.graph, ExtractFaces(t.graph, t.faceOpts))
	})
}

// Flush forces a pending rebuild to run now.
func (t *RegionTracker) Flush() {
	t.rebuild.Flush()
}

// Graph returns the current planar graph, which may be nil before the first
// rebuild.
func (t *RegionTracker) Graph() *PlanarGraph {
	return t.graph
}

// Areas returns the current closed areas, ascending by area.
func (t *RegionTracker) Areas() []ClosedArea {
	return t.areas
}

// AreaAt returns the innermost closed area containing pt. The list is
// ascending by area, so the first containing region is the smallest one.
func (t *RegionTracker) AreaAt(pt Point) (ClosedArea, bool) {
	for _, area := range t.areas {
		if area.Bounds.Contains(pt) && PointInRing(pt, area.Polygon) {
			return area, true
		}
	}
	return ClosedArea{}, false
}
