package sketch

import "math"

// The fitters in this file turn a freehand point sequence into an idealized
// primitive together with a normalized fitting error: the residual divided by
// a characteristic size of the shape, making the error scale-invariant.
//
// None of them return errors or panic. Unsatisfiable preconditions — too few
// points, near-zero denominators, singular covariance — report ok == false,
// which callers treat as "try the next hypothesis".

// epsDenominator guards divisions throughout the fitting routines.
const epsDenominator = 1e-12

// LineFit is a straight-line interpretation of a point sequence. The fitted
// segment keeps the exact original endpoints; Err is the RMS perpendicular
// distance to the endpoint chord, divided by the chord length.
type LineFit struct {
	Line Line
	Err  float64
}

func FitLine(pts []Point) (LineFit, bool) {
	if len(pts) < 2 {
		return LineFit{}, false
	}
	chord := Line{pts[0], pts[len(pts)-1]}
	length := chord.Length()
	if length < epsDenominator {
		return LineFit{}, false
	}
	var sum float64
	for _, pt := range pts {
		d := chord.PerpDistance(pt)
		sum += d * d
	}
	rms := math.Sqrt(sum / float64(len(pts)))
	return LineFit{Line: chord, Err: rms / length}, true
}

// CircleFit is an algebraic circle fit. Err is the RMS deviation of the
// point-to-center distances from the radius, divided by the radius.
type CircleFit struct {
	Center Point
	Radius float64
	Err    float64
}

// FitCircle fits a circle by solving the 2×2 moment system of the centered
// coordinates (the Kåsa/Taubin formulation).
func FitCircle(pts []Point) (CircleFit, bool) {
	n := len(pts)
	if n < 3 {
		return CircleFit{}, false
	}

	var mx, my float64
	for _, pt := range pts {
		mx += pt.X
		my += pt.Y
	}
	mx /= float64(n)
	my /= float64(n)

	var suu, suv, svv, suuu, svvv, suvv, svuu float64
	for _, pt := range pts {
		u := pt.X - mx
		v := pt.Y - my
		suu += u * u
		suv += u * v
		svv += v * v
		suuu += u * u * u
		svvv += v * v * v
		suvv += u * v * v
		svuu += v * u * u
	}

	det := suu*svv - suv*suv
	if math.Abs(det) < epsDenominator {
		return CircleFit{}, false
	}
	cu := (suuu + suvv) / 2
	cv := (svvv + svuu) / 2
	uc := (cu*svv - cv*suv) / det
	vc := (cv*suu - cu*suv) / det
	center := Pt(mx+uc, my+vc)

	var radius float64
	for _, pt := range pts {
		radius += pt.Distance(center)
	}
	radius /= float64(n)
	if radius < epsDenominator {
		return CircleFit{}, false
	}

	var sum float64
	for _, pt := range pts {
		d := pt.Distance(center) - radius
		sum += d * d
	}
	return CircleFit{
		Center: center,
		Radius: radius,
		Err:    math.Sqrt(sum/float64(n)) / radius,
	}, true
}

// EllipseFit is a covariance-based ellipse fit. Radii holds the semi-axes,
// XRotation the rotation of the major axis in radians. Err is the RMS
// deviation of the ellipse-frame radius from 1, which is scale-invariant.
type EllipseFit struct {
	Center    Point
	Radii     Vec2
	XRotation float64
	Err       float64
}

// minEllipseAxis is the floor below which a fitted semi-axis counts as
// degenerate.
const minEllipseAxis = 1e-3

// FitEllipse fits an ellipse from the centroid and the covariance matrix of
// the centered points, using the closed-form eigendecomposition of a
// symmetric 2×2 matrix via its trace and determinant. For points distributed
// on the boundary, the semi-axes are sqrt(2λ).
func FitEllipse(pts []Point) (EllipseFit, bool) {
	n := len(pts)
	if n < 5 {
		return EllipseFit{}, false
	}

	var cx, cy float64
	for _, pt := range pts {
		cx += pt.X
		cy += pt.Y
	}
	cx /= float64(n)
	cy /= float64(n)

	var cxx, cxy, cyy float64
	for _, pt := range pts {
		u := pt.X - cx
		v := pt.Y - cy
		cxx += u * u
		cxy += u * v
		cyy += v * v
	}
	cxx /= float64(n)
	cxy /= float64(n)
	cyy /= float64(n)

	tr := cxx + cyy
	det := cxx*cyy - cxy*cxy
	if det <= epsDenominator {
		// Covariance not positive-definite; the points are degenerate.
		return EllipseFit{}, false
	}
	disc := math.Sqrt(max(tr*tr/4-det, 0))
	l1 := tr/2 + disc
	l2 := tr/2 - disc
	if l2 <= epsDenominator {
		return EllipseFit{}, false
	}
	a := math.Sqrt(2 * l1)
	b := math.Sqrt(2 * l2)
	if a < minEllipseAxis || b < minEllipseAxis {
		return EllipseFit{}, false
	}
	theta := 0.5 * math.Atan2(2*cxy, cxx-cyy)

	sin, cos := math.Sincos(theta)
	var sum float64
	for _, pt := range pts {
		x := pt.X - cx
		y := pt.Y - cy
		u := (cos*x + sin*y) / a
		v := (-sin*x + cos*y) / b
		d := math.Hypot(u, v) - 1
		sum += d * d
	}

	return EllipseFit{
		Center:    Pt(cx, cy),
		Radii:     Vec(a, b),
		XRotation: theta,
		Err:       math.Sqrt(sum / float64(n)),
	}, true
}

// ArcFit is a circular-arc fit for partial curves. Err is the standard
// deviation of the point-to-center distances divided by the radius.
type ArcFit struct {
	Arc Arc
	Err float64
}

// arcCandidates is how many interior points are tried as the arc's middle
// point when searching for the center.
const arcCandidates = 7

// FitArc finds the arc center by sampling candidate middle points, computing
// the perpendicular-bisector intersection for each, and keeping the candidate
// that minimizes the variance of the point-to-center distances.
func FitArc(pts []Point) (ArcFit, bool) {
	n := len(pts)
	if n < 3 {
		return ArcFit{}, false
	}
	first := pts[0]
	last := pts[n-1]

	var (
		found      bool
		bestCenter Point
		bestVar    float64
	)
	tries := min(arcCandidates, n-2)
	for k := 0; k < tries; k++ {
		m := 1 + k*(n-2)/tries
		center, ok := circumcenter(first, pts[m], last)
		if !ok || center.IsNaN() || center.IsInf() {
			continue
		}
		variance := radialVariance(pts, center)
		if !found || variance < bestVar {
			found = true
			bestCenter = center
			bestVar = variance
		}
	}
	if !found {
		return ArcFit{}, false
	}

	var radius float64
	for _, pt := range pts {
		radius += pt.Distance(bestCenter)
	}
	radius /= float64(n)
	if radius < epsDenominator {
		return ArcFit{}, false
	}

	start := first.Sub(bestCenter).Angle()
	sweep := sweepAround(pts, bestCenter)
	return ArcFit{
		Arc: Arc{
			Center:     bestCenter,
			Radius:     radius,
			StartAngle: start,
			EndAngle:   start + sweep,
		},
		Err: math.Sqrt(bestVar) / radius,
	}, true
}

// circumcenter returns the center of the circle through a, b, and c, as the
// crossing of the perpendicular bisectors of ab and bc.
func circumcenter(a, b, c Point) (Point, bool) {
	m0 := a.Midpoint(b)
	m1 := b.Midpoint(c)
	bis0 := Line{m0, m0.Translate(b.Sub(a).Turn90())}
	bis1 := Line{m1, m1.Translate(c.Sub(b).Turn90())}
	return bis0.CrossingPoint(bis1)
}

func radialVariance(pts []Point, center Point) float64 {
	var mean float64
	for _, pt := range pts {
		mean += pt.Distance(center)
	}
	mean /= float64(len(pts))
	var sum float64
	for _, pt := range pts {
		d := pt.Distance(center) - mean
		sum += d * d
	}
	return sum / float64(len(pts))
}

// sweepAround accumulates the signed angular travel of pts around center.
// The result exceeds 2π in magnitude for paths that wind more than once.
func sweepAround(pts []Point, center Point) float64 {
	var sweep float64
	prev := pts[0].Sub(center).Angle()
	for _, pt := range pts[1:] {
		angle := pt.Sub(center).Angle()
		d := angle - prev
		for d > math.Pi {
			d -= 2 * math.Pi
		}
		for d < -math.Pi {
			d += 2 * math.Pi
		}
		sweep += d
		prev = angle
	}
	return sweep
}

// CubicFit converts a point run into a single cubic Bézier. Err is the
// maximum point-to-curve deviation divided by the chord length.
type CubicFit struct {
	Curve CubicBez
	Err   float64
}

// cubicErrorSamples is the sampling resolution used to measure the deviation
// of the input points from the fitted curve.
const cubicErrorSamples = 32

// FitCubic derives the control points from the endpoints and local tangent
// estimates, placing each control point a third of the chord length along
// its tangent.
func FitCubic(pts []Point) (CubicFit, bool) {
	n := len(pts)
	if n < 4 {
		return CubicFit{}, false
	}
	p0 := pts[0]
	p3 := pts[n-1]
	chord := p3.Distance(p0)
	if chord < epsDenominator {
		return CubicFit{}, false
	}

	k := min(3, n-1)
	t0 := pts[k].Sub(p0)
	t1 := pts[n-1-k].Sub(p3)
	if t0.Hypot() < epsDenominator || t1.Hypot() < epsDenominator {
		return CubicFit{}, false
	}

	c := CubicBez{
		P0: p0,
		P1: p0.Translate(t0.Normalize().Mul(chord / 3)),
		P2: p3.Translate(t1.Normalize().Mul(chord / 3)),
		P3: p3,
	}

	sampled := c.Polyline(cubicErrorSamples)
	var maxDev float64
	for _, pt := range pts {
		best := math.Inf(1)
		for i := 0; i+1 < len(sampled); i++ {
			distSq, _ := (Line{sampled[i], sampled[i+1]}).Nearest(pt)
			best = min(best, distSq)
		}
		maxDev = max(maxDev, math.Sqrt(best))
	}
	return CubicFit{Curve: c, Err: maxDev / chord}, true
}
