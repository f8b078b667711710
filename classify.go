package sketch

import "math"

// ShapeKind identifies the geometric interpretation of a freehand stroke.
type ShapeKind int

const (
	// ShapeUnknown indicates that no hypothesis produced a valid fit.
	ShapeUnknown ShapeKind = iota
	ShapeLine
	ShapePolyline
	ShapeTriangle
	ShapeRectangle
	ShapePolygon
	ShapeCircle
	ShapeEllipse
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeLine:
		return "line"
	case ShapePolyline:
		return "polyline"
	case ShapeTriangle:
		return "triangle"
	case ShapeRectangle:
		return "rectangle"
	case ShapePolygon:
		return "polygon"
	case ShapeCircle:
		return "circle"
	case ShapeEllipse:
		return "ellipse"
	default:
		return "unknown"
	}
}

// Classification is one interpretation of a point sequence. Points is the
// simplified point list: two points for a line, the corner points for a
// polyline, and an N+1-point ring (first point repeated last) for closed
// shapes. Err carries the underlying normalized fitting error.
type Classification struct {
	Kind       ShapeKind
	Points     []Point
	Confidence float64
	Err        float64
}

// Strategy selects how the classifier combines its hypotheses.
type Strategy int

const (
	// FirstAcceptable tries hypotheses in priority order and stops at the
	// first whose confidence clears the acceptance bar.
	FirstAcceptable Strategy = iota
	// BestScore evaluates every hypothesis and keeps the highest
	// confidence.
	BestScore
)

// ClassifierOptions configures shape classification.
type ClassifierOptions struct {
	Strategy Strategy
	// Accept is the confidence required by [Classifier.Predict] and by the
	// FirstAcceptable strategy.
	Accept float64
	// Corners is the corner-detection preset used for classification. It
	// is deliberately distinct from [SimplifyCornerOptions].
	Corners CornerOptions
	// ClosureDistance is the absolute distance floor of the closed-shape
	// test.
	ClosureDistance float64
	// ClosureRatio is the perimeter fraction of the closed-shape test. A
	// stroke is closed when the start-to-end distance is below
	// min(ClosureDistance, ClosureRatio·perimeter).
	ClosureRatio float64
	// MinTrianglePerimeter rejects tiny accidental triangles.
	MinTrianglePerimeter float64
}

func DefaultClassifierOptions() ClassifierOptions {
	return ClassifierOptions{
		Strategy:             BestScore,
		Accept:               0.6,
		Corners:              DefaultCornerOptions(),
		ClosureDistance:      24,
		ClosureRatio:         0.25,
		MinTrianglePerimeter: 30,
	}
}

// Tolerances of the individual hypotheses. These scale normalized fitting
// errors into confidences.
const (
	lineErrTolerance     = 0.04
	spanErrTolerance     = 0.08
	circleErrTolerance   = 0.12
	ellipseErrTolerance  = 0.12
	minCircleCoverage    = 3 * math.Pi / 2
	rectMaxAdjacentCos   = 0.3
	rectMinOppositeCos   = 0.9
	rectMinSideRatio     = 0.5
	rectRightAngleCos    = 0.25
	ellipseScorePrior    = 0.95
	polygonScorePrior    = 0.9
	closedShapeRingSteps = 32
)

// Classifier turns raw point sequences into shape classifications.
type Classifier struct {
	opts ClassifierOptions
}

func NewClassifier(opts ClassifierOptions) *Classifier {
	if opts.Accept <= 0 {
		opts.Accept = 0.6
	}
	if opts.Corners == (CornerOptions{}) {
		opts.Corners = DefaultCornerOptions()
	}
	return &Classifier{opts: opts}
}

// Classify returns the best interpretation of the input. It reports false
// when no hypothesis produced a valid fit at all; acceptance thresholding
// beyond that is the caller's decision.
func (c *Classifier) Classify(samples []Sample) (Classification, bool) {
	if len(samples) < 2 {
		return Classification{}, false
	}
	sk := newSketchInfo(samples, &c.opts)

	var (
		best   Classification
		bestOK bool
	)
	for _, h := range hypotheses {
		cl, ok := h(sk)
		if !ok {
			continue
		}
		if c.opts.Strategy == FirstAcceptable && cl.Confidence >= c.opts.Accept {
			return cl, true
		}
		if !bestOK || cl.Confidence > best.Confidence {
			best = cl
			bestOK = true
		}
	}
	return best, bestOK
}

// Predict returns the simplified point list of the best interpretation, or
// nil when no interpretation clears the acceptance bar. Callers keep the raw
// or smoothed points in that case.
func (c *Classifier) Predict(samples []Sample) []Point {
	cl, ok := c.Classify(samples)
	if !ok || cl.Confidence < c.opts.Accept {
		return nil
	}
	return cl.Points
}

// SimplifyPolyline reduces a freehand stroke to its corner points for
// display, independent of shape classification. It uses the
// stroke-simplification corner preset unless opts is non-zero.
func SimplifyPolyline(samples []Sample, opts CornerOptions) []Point {
	if opts == (CornerOptions{}) {
		opts = SimplifyCornerOptions()
	}
	corners := Corners(samples, opts)
	pts := make([]Point, len(corners))
	for i, idx := range corners {
		pts[i] = samples[idx].Point
	}
	return pts
}

// sketchInfo caches the per-stroke measurements shared by all hypotheses.
type sketchInfo struct {
	opts      *ClassifierOptions
	samples   []Sample
	pts       []Point
	corners   []int
	spans     []Span
	perimeter float64
	closed    bool
}

func newSketchInfo(samples []Sample, opts *ClassifierOptions) *sketchInfo {
	pts := SamplePoints(samples)
	var perimeter float64
	for i := 1; i < len(pts); i++ {
		perimeter += pts[i].Distance(pts[i-1])
	}
	corners := Corners(samples, opts.Corners)
	gap := pts[0].Distance(pts[len(pts)-1])
	return &sketchInfo{
		opts:      opts,
		samples:   samples,
		pts:       pts,
		corners:   corners,
		spans:     SplitAtCorners(samples, corners),
		perimeter: perimeter,
		closed:    gap < min(opts.ClosureDistance, opts.ClosureRatio*perimeter),
	}
}

// cornerRing returns the corner positions as a closed ring, first point
// repeated last. Only meaningful when the stroke is closed.
func (sk *sketchInfo) cornerRing() []Point {
	n := len(sk.corners) - 1
	ring := make([]Point, 0, n+1)
	for _, idx := range sk.corners[:n] {
		ring = append(ring, sk.pts[idx])
	}
	return append(ring, ring[0])
}

// spanStraightness scores how well the spans are approximated by their
// chords, in [0, 1].
func (sk *sketchInfo) spanStraightness() float64 {
	if len(sk.spans) == 0 {
		return 0
	}
	var sum float64
	for _, sp := range sk.spans {
		fit, ok := FitLine(sk.pts[sp.Start : sp.End+1])
		if !ok {
			continue
		}
		sum += fit.Err
	}
	avg := sum / float64(len(sk.spans))
	return confidenceFromErr(avg, spanErrTolerance)
}

func confidenceFromErr(err, tolerance float64) float64 {
	return max(0, min(1, 1-err/tolerance))
}

// A hypothesis interprets a sketch as one shape family, yielding a common
// {points, confidence, error} result or reporting that it does not apply.
type hypothesis func(sk *sketchInfo) (Classification, bool)

// hypotheses lists all shape hypotheses in priority order; the
// FirstAcceptable strategy walks this order, the BestScore strategy scores
// all of them.
var hypotheses = []hypothesis{
	lineHypothesis,
	polylineHypothesis,
	triangleHypothesis,
	rectangleHypothesis,
	circleHypothesis,
	ellipseHypothesis,
	polygonHypothesis,
}

func lineHypothesis(sk *sketchInfo) (Classification, bool) {
	if len(sk.spans) != 1 || sk.closed {
		return Classification{}, false
	}
	fit, ok := FitLine(sk.pts)
	if !ok {
		return Classification{}, false
	}
	return Classification{
		Kind:       ShapeLine,
		Points:     []Point{fit.Line.P0, fit.Line.P1},
		Confidence: confidenceFromErr(fit.Err, lineErrTolerance),
		Err:        fit.Err,
	}, true
}

func polylineHypothesis(sk *sketchInfo) (Classification, bool) {
	if len(sk.spans) < 2 || sk.closed {
		return Classification{}, false
	}
	pts := make([]Point, len(sk.corners))
	for i, idx := range sk.corners {
		pts[i] = sk.pts[idx]
	}
	var sum float64
	for _, sp := range sk.spans {
		fit, ok := FitLine(sk.pts[sp.Start : sp.End+1])
		if !ok {
			return Classification{}, false
		}
		sum += fit.Err
	}
	err := sum / float64(len(sk.spans))
	return Classification{
		Kind:       ShapePolyline,
		Points:     pts,
		Confidence: confidenceFromErr(err, spanErrTolerance),
		Err:        err,
	}, true
}

func triangleHypothesis(sk *sketchInfo) (Classification, bool) {
	if !sk.closed || len(sk.spans) != 3 {
		return Classification{}, false
	}
	if sk.perimeter < sk.opts.MinTrianglePerimeter {
		return Classification{}, false
	}
	ring := sk.cornerRing()
	sides := sideLengths(ring)
	mean := (sides[0] + sides[1] + sides[2]) / 3
	if mean < epsDenominator {
		return Classification{}, false
	}
	var variance float64
	for _, s := range sides {
		d := s - mean
		variance += d * d
	}
	variation := math.Sqrt(variance/3) / mean

	// All triangles are accepted; side-length variation only scales the
	// confidence.
	straight := sk.spanStraightness()
	return Classification{
		Kind:       ShapeTriangle,
		Points:     ring,
		Confidence: straight * max(0, 1-variation/2),
		Err:        1 - straight,
	}, true
}

func rectangleHypothesis(sk *sketchInfo) (Classification, bool) {
	if !sk.closed || len(sk.spans) != 4 {
		return Classification{}, false
	}
	ring := sk.cornerRing()
	sides := make([]Vec2, 4)
	for i := 0; i < 4; i++ {
		sides[i] = ring[i+1].Sub(ring[i])
		if sides[i].Hypot() < epsDenominator {
			return Classification{}, false
		}
	}

	var maxAdjacent float64
	rightAngles := 0
	for i := 0; i < 4; i++ {
		cos := math.Abs(cosBetween(sides[i], sides[(i+1)%4]))
		maxAdjacent = max(maxAdjacent, cos)
		if cos <= rectRightAngleCos {
			rightAngles++
		}
	}
	opposite := min(
		math.Abs(cosBetween(sides[0], sides[2])),
		math.Abs(cosBetween(sides[1], sides[3])),
	)
	ratio := min(
		sideRatio(sides[0].Hypot(), sides[2].Hypot()),
		sideRatio(sides[1].Hypot(), sides[3].Hypot()),
	)

	strict := maxAdjacent <= rectMaxAdjacentCos &&
		opposite >= rectMinOppositeCos &&
		ratio >= rectMinSideRatio
	if !strict && rightAngles < 3 {
		return Classification{}, false
	}

	straight := sk.spanStraightness()
	return Classification{
		Kind:       ShapeRectangle,
		Points:     ring,
		Confidence: straight * (1 - maxAdjacent),
		Err:        1 - straight,
	}, true
}

func polygonHypothesis(sk *sketchInfo) (Classification, bool) {
	if !sk.closed || len(sk.spans) < 2 {
		return Classification{}, false
	}
	ring := sk.cornerRing()
	straight := sk.spanStraightness()
	return Classification{
		Kind:       ShapePolygon,
		Points:     ring,
		Confidence: polygonScorePrior * straight,
		Err:        1 - straight,
	}, true
}

func circleHypothesis(sk *sketchInfo) (Classification, bool) {
	if !sk.closed {
		return Classification{}, false
	}
	fit, ok := FitCircle(sk.pts)
	if !ok {
		return Classification{}, false
	}
	if math.Abs(sweepAround(sk.pts, fit.Center)) < minCircleCoverage {
		return Classification{}, false
	}
	circle := Arc{
		Center:     fit.Center,
		Radius:     fit.Radius,
		StartAngle: 0,
		EndAngle:   2 * math.Pi,
	}
	return Classification{
		Kind:       ShapeCircle,
		Points:     circle.Polyline(2 * math.Pi / closedShapeRingSteps),
		Confidence: confidenceFromErr(fit.Err, circleErrTolerance),
		Err:        fit.Err,
	}, true
}

func ellipseHypothesis(sk *sketchInfo) (Classification, bool) {
	if !sk.closed {
		return Classification{}, false
	}
	fit, ok := FitEllipse(sk.pts)
	if !ok {
		return Classification{}, false
	}
	ring := make([]Point, closedShapeRingSteps+1)
	sin, cos := math.Sincos(fit.XRotation)
	for i := 0; i <= closedShapeRingSteps; i++ {
		t := 2 * math.Pi * float64(i) / closedShapeRingSteps
		u := fit.Radii.X * math.Cos(t)
		v := fit.Radii.Y * math.Sin(t)
		ring[i] = fit.Center.Translate(Vec2{
			X: u*cos - v*sin,
			Y: u*sin + v*cos,
		})
	}
	return Classification{
		Kind:       ShapeEllipse,
		Points:     ring,
		Confidence: ellipseScorePrior * confidenceFromErr(fit.Err, ellipseErrTolerance),
		Err:        fit.Err,
	}, true
}

func sideLengths(ring []Point) []float64 {
	sides := make([]float64, len(ring)-1)
	for i := range sides {
		sides[i] = ring[i+1].Distance(ring[i])
	}
	return sides
}

func cosBetween(a, b Vec2) float64 {
	return a.Dot(b) / (a.Hypot() * b.Hypot())
}

func sideRatio(a, b float64) float64 {
	if max(a, b) < epsDenominator {
		return 0
	}
	return min(a, b) / max(a, b)
}
