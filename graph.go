package sketch

import (
	"math"
	"slices"
)

// GraphOptions controls planar graph construction.
type GraphOptions struct {
	// SnapTolerance is the maximum distance for welding two
	// near-coincident endpoints into one vertex.
	SnapTolerance float64
	// ArcStep is the angular resolution, in radians per subdivision, used
	// to sample arc segments.
	ArcStep float64
	// CurveSteps is the fixed parameter resolution used to sample cubic
	// segments.
	CurveSteps int
}

func DefaultGraphOptions() GraphOptions {
	return GraphOptions{
		SnapTolerance: 3,
		ArcStep:       math.Pi / 16,
		CurveSteps:    16,
	}
}

// Vertex is a node of a planar graph. It is owned exclusively by the graph
// that created it.
type Vertex struct {
	ID  int
	Pos Point
	// Edges is the incident edge list, sorted by the bearing towards each
	// edge's far endpoint. Face walking depends on this order.
	Edges []*Edge
}

// Degree returns the number of incident edges.
func (v *Vertex) Degree() int {
	return len(v.Edges)
}

// Edge is an undirected edge between two vertices, traceable to the stroke
// it came from.
type Edge struct {
	ID       int
	V0, V1   *Vertex
	StrokeID string
}

// Other returns the endpoint opposite to v.
func (e *Edge) Other(v *Vertex) *Vertex {
	if v == e.V0 {
		return e.V1
	}
	return e.V0
}

// PlanarGraph is a planar subdivision built from one stroke collection. It
// is rebuilt wholesale whenever the stroke set changes topologically and
// never mutated in place.
type PlanarGraph struct {
	Vertices []*Vertex
	Edges    []*Edge
}

// splitEps keeps crossing splits away from numerically unstable
// near-endpoint parameters.
const splitEps = 0.001

// BuildPlanarGraph samples every stroke into raw edges, splits them at all
// interior crossings, and welds near-coincident endpoints into shared
// vertices. Freehand strokes contribute their displayed polyline; digital
// segments contribute type-specific sampled polylines, with a closing edge
// appended for closed shapes.
func BuildPlanarGraph(strokes []Stroke, opts GraphOptions) *PlanarGraph {
	if opts.SnapTolerance <= 0 {
		opts.SnapTolerance = DefaultGraphOptions().SnapTolerance
	}
	raw := collectRawEdges(strokes, opts)
	split := splitAtCrossings(raw)
	g := weldVertices(split, opts.SnapTolerance)
	for _, v := range g.Vertices {
		sortIncidentEdges(v)
	}
	Logger().Debug("planar graph rebuild",
		"strokes", len(strokes),
		"rawEdges", len(raw),
		"vertices", len(g.Vertices),
		"edges", len(g.Edges))
	return g
}

type rawEdge struct {
	p0, p1 Point
	stroke string
}

func collectRawEdges(strokes []Stroke, opts GraphOptions) []rawEdge {
	var raw []rawEdge
	for _, stroke := range strokes {
		pts := stroke.Polyline(opts.ArcStep, opts.CurveSteps)
		for i := 0; i+1 < len(pts); i++ {
			if pts[i].DistanceSquared(pts[i+1]) < epsDenominator {
				continue
			}
			raw = append(raw, rawEdge{p0: pts[i], p1: pts[i+1], stroke: stroke.ID})
		}
	}
	return raw
}

// splitAtCrossings tests every pair of raw edges once and splits each edge at
// its interior crossing parameters. Rebuilds are infrequent relative to drag
// frames, so the full O(e²) pass is acceptable here.
func splitAtCrossings(raw []rawEdge) []rawEdge {
	cuts := make([][]float64, len(raw))
	for i := range raw {
		for j := i + 1; j < len(raw); j++ {
			t, u, ok := crossingParams(raw[i], raw[j])
			if !ok {
				continue
			}
			if t > splitEps && t < 1-splitEps {
				cuts[i] = append(cuts[i], t)
			}
			if u > splitEps && u < 1-splitEps {
				cuts[j] = append(cuts[j], u)
			}
		}
	}

	var out []rawEdge
	for i, e := range raw {
		if len(cuts[i]) == 0 {
			out = append(out, e)
			continue
		}
		slices.Sort(cuts[i])
		seg := Line{e.p0, e.p1}
		prev := 0.0
		start := e.p0
		for _, t := range cuts[i] {
			if t-prev < splitEps {
				continue
			}
			pt := seg.Eval(t)
			out = append(out, rawEdge{p0: start, p1: pt, stroke: e.stroke})
			start = pt
			prev = t
		}
		out = append(out, rawEdge{p0: start, p1: e.p1, stroke: e.stroke})
	}
	return out
}

// crossingParams returns the interpolation parameters of the crossing of two
// raw edges, both within [0, 1]. Parallel and collinear pairs report false.
func crossingParams(a, b rawEdge) (t, u float64, ok bool) {
	da := a.p1.Sub(a.p0)
	db := b.p1.Sub(b.p0)
	det := da.Cross(db)
	if math.Abs(det) < epsDenominator {
		return 0, 0, false
	}
	w := b.p0.Sub(a.p0)
	t = w.Cross(db) / det
	u = w.Cross(da) / det
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, 0, false
	}
	return t, u, true
}

// cellKey addresses one cell of the vertex welding grid.
type cellKey struct {
	x, y int
}

// vertexGrid is a fixed-cell spatial hash for vertex welding. The cell size
// equals the snap tolerance, so searching a point's own cell plus its 8
// neighbors spans the tolerance across cell boundaries correctly.
type vertexGrid struct {
	cell  float64
	cells map[cellKey][]*Vertex
	next  int
	all   []*Vertex
}

func newVertexGrid(snapTolerance float64) *vertexGrid {
	return &vertexGrid{
		cell:  snapTolerance,
		cells: make(map[cellKey][]*Vertex),
	}
}

func (g *vertexGrid) keyFor(pt Point) cellKey {
	return cellKey{
		x: int(math.Floor(pt.X / g.cell)),
		y: int(math.Floor(pt.Y / g.cell)),
	}
}

// weld returns the existing vertex within the snap tolerance of pt, or
// creates a new one.
func (g *vertexGrid) weld(pt Point) *Vertex {
	key := g.keyFor(pt)
	tol2 := g.cell * g.cell
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, v := range g.cells[cellKey{key.x + dx, key.y + dy}] {
				if v.Pos.DistanceSquared(pt) <= tol2 {
					return v
				}
			}
		}
	}
	v := &Vertex{ID: g.next, Pos: pt}
	g.next++
	g.cells[key] = append(g.cells[key], v)
	g.all = append(g.all, v)
	return v
}

func weldVertices(raw []rawEdge, snapTolerance float64) *PlanarGraph {
	grid := newVertexGrid(snapTolerance)
	graph := &PlanarGraph{}
	for _, e := range raw {
		v0 := grid.weld(e.p0)
		v1 := grid.weld(e.p1)
		if v0 == v1 {
			// Both endpoints welded together; the edge is degenerate.
			continue
		}
		edge := &Edge{
			ID:       len(graph.Edges),
			V0:       v0,
			V1:       v1,
			StrokeID: e.stroke,
		}
		v0.Edges = append(v0.Edges, edge)
		v1.Edges = append(v1.Edges, edge)
		graph.Edges = append(graph.Edges, edge)
	}
	graph.Vertices = grid.all
	return graph
}

// sortIncidentEdges orders a vertex's incident edges by the bearing towards
// each edge's far endpoint. Ties are broken by the far endpoint's squared
// distance, then by edge id, which makes repeated rebuilds on unchanged
// input walk faces identically.
func sortIncidentEdges(v *Vertex) {
	slices.SortFunc(v.Edges, func(a, b *Edge) int {
		pa := a.Other(v).Pos
		pb := b.Other(v).Pos
		angleA := pa.Sub(v.Pos).Angle()
		angleB := pb.Sub(v.Pos).Angle()
		switch {
		case angleA < angleB:
			return -1
		case angleA > angleB:
			return 1
		}
		da := pa.DistanceSquared(v.Pos)
		db := pb.DistanceSquared(v.Pos)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return a.ID - b.ID
	})
}
