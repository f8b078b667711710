package sketch

// SegmentKind identifies the geometry carried by a digital segment.
type SegmentKind int

const (
	SegmentLine SegmentKind = iota
	SegmentArc
	SegmentBezier
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentLine:
		return "line"
	case SegmentArc:
		return "arc"
	case SegmentBezier:
		return "bezier"
	default:
		return "invalid"
	}
}

// DigitalSegment is a precisely-specified (non-freehand) segment of a stroke.
// Kind selects which of the embedded geometries is meaningful.
type DigitalSegment struct {
	Kind   SegmentKind
	Line   Line
	Arc    Arc
	Bezier CubicBez
}

func LineSegment(p0, p1 Point) DigitalSegment {
	return DigitalSegment{Kind: SegmentLine, Line: Line{p0, p1}}
}

func ArcSegment(a Arc) DigitalSegment {
	return DigitalSegment{Kind: SegmentArc, Arc: a}
}

func BezierSegment(c CubicBez) DigitalSegment {
	return DigitalSegment{Kind: SegmentBezier, Bezier: c}
}

func (s DigitalSegment) Start() Point {
	switch s.Kind {
	case SegmentArc:
		return s.Arc.Start()
	case SegmentBezier:
		return s.Bezier.Start()
	default:
		return s.Line.P0
	}
}

func (s DigitalSegment) End() Point {
	switch s.Kind {
	case SegmentArc:
		return s.Arc.End()
	case SegmentBezier:
		return s.Bezier.End()
	default:
		return s.Line.P1
	}
}

func (s DigitalSegment) BoundingBox() Rect {
	switch s.Kind {
	case SegmentArc:
		return s.Arc.BoundingBox()
	case SegmentBezier:
		return s.Bezier.BoundingBox()
	default:
		return s.Line.BoundingBox()
	}
}

// Polyline samples the segment. Lines are returned verbatim, arcs are sampled
// at a resolution proportional to their angular span, and cubic curves at a
// fixed parameter resolution.
func (s DigitalSegment) Polyline(arcStep float64, curveSteps int) []Point {
	switch s.Kind {
	case SegmentArc:
		return s.Arc.Polyline(arcStep)
	case SegmentBezier:
		return s.Bezier.Polyline(curveSteps)
	default:
		return []Point{s.Line.P0, s.Line.P1}
	}
}

// Stroke is one drawn element as exposed by the host application. Freehand
// strokes carry their displayed polyline in Points; digital strokes carry
// typed segments. Closed marks shapes whose outline should be treated as a
// ring even if the sampled endpoints do not coincide.
type Stroke struct {
	ID       string
	Points   []Point
	Segments []DigitalSegment
	Closed   bool
}

// IsDigital reports whether the stroke is made of typed segments rather than
// a freehand polyline.
func (s Stroke) IsDigital() bool {
	return len(s.Segments) > 0
}

// Polyline returns the stroke's outline as a single point sequence. For
// closed strokes the first point is appended again so the ring is explicit.
func (s Stroke) Polyline(arcStep float64, curveSteps int) []Point {
	var pts []Point
	if s.IsDigital() {
		for _, seg := range s.Segments {
			sub := seg.Polyline(arcStep, curveSteps)
			if len(pts) > 0 && len(sub) > 0 && pts[len(pts)-1].Distance(sub[0]) < 1e-9 {
				sub = sub[1:]
			}
			pts = append(pts, sub...)
		}
	} else {
		pts = append(pts, s.Points...)
	}
	if s.Closed && len(pts) > 1 && pts[0].Distance(pts[len(pts)-1]) > 1e-9 {
		pts = append(pts, pts[0])
	}
	return pts
}
