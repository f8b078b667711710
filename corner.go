package sketch

import "math"

// Sample is one input point of a freehand stroke. Time is an optional
// timestamp in seconds; strokes without timing information leave it zero, in
// which case speeds are computed with a constant unit time step.
type Sample struct {
	Point Point
	Time  float64
}

// Samples wraps a point list in samples without timing information.
func Samples(pts []Point) []Sample {
	samples := make([]Sample, len(pts))
	for i, pt := range pts {
		samples[i].Point = pt
	}
	return samples
}

// SamplePoints extracts the positions of a sample sequence.
func SamplePoints(samples []Sample) []Point {
	pts := make([]Point, len(samples))
	for i, s := range samples {
		pts[i] = s.Point
	}
	return pts
}

// CornerOptions controls corner detection on freehand input.
type CornerOptions struct {
	// AngleThreshold is the local turn angle, in radians, above which a
	// point is a corner.
	AngleThreshold float64
	// SpeedDropRatio marks a point as a corner when its speed falls below
	// this fraction of the stroke's mean speed, capturing pen slow-downs at
	// direction changes.
	SpeedDropRatio float64
	// MinSpacing is the minimum index distance between two accepted
	// corners, deduplicating near-adjacent detections.
	MinSpacing int
	// Window is the chord half-width, in indices, used to measure the turn
	// angle.
	Window int
}

// DefaultCornerOptions returns the preset tuned for shape classification.
func DefaultCornerOptions() CornerOptions {
	return CornerOptions{
		AngleThreshold: math.Pi / 4,
		SpeedDropRatio: 0.4,
		MinSpacing:     4,
		Window:         3,
	}
}

// SimplifyCornerOptions returns the preset tuned for stroke-simplification
// display. It is more sensitive than [DefaultCornerOptions]; the two presets
// are not interchangeable.
func SimplifyCornerOptions() CornerOptions {
	return CornerOptions{
		AngleThreshold: math.Pi / 6,
		SpeedDropRatio: 0.25,
		MinSpacing:     2,
		Window:         2,
	}
}

// Corners returns the indices of detected corners, in strictly increasing
// order. The sequence endpoints are always corners. A point qualifies when
// its local turn angle exceeds the threshold or its speed drops below the
// configured fraction of the mean speed, subject to the minimum spacing.
func Corners(samples []Sample, opts CornerOptions) []int {
	n := len(samples)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []int{0}
	}

	speeds := sampleSpeeds(samples)
	var mean float64
	for _, s := range speeds {
		mean += s
	}
	mean /= float64(len(speeds))

	w := max(opts.Window, 1)
	spacing := max(opts.MinSpacing, 1)

	// Near-adjacent detections are deduplicated by keeping the strongest
	// turn within the spacing window.
	corners := []int{0}
	strengths := []float64{math.Inf(1)}
	for i := spacing; i <= n-1-spacing; i++ {
		turn := turnAngle(samples, i, w)
		slow := mean > 0 && speeds[i-1] < opts.SpeedDropRatio*mean
		if turn <= opts.AngleThreshold && !slow {
			continue
		}
		last := len(corners) - 1
		if i-corners[last] < spacing {
			if turn > strengths[last] {
				corners[last] = i
				strengths[last] = turn
			}
			continue
		}
		corners = append(corners, i)
		strengths = append(strengths, turn)
	}
	return append(corners, n-1)
}

// sampleSpeeds returns the speed entering each point; speeds[i] belongs to
// samples[i+1].
func sampleSpeeds(samples []Sample) []float64 {
	speeds := make([]float64, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		dt := samples[i].Time - samples[i-1].Time
		if dt <= 0 {
			dt = 1
		}
		speeds[i-1] = samples[i].Point.Distance(samples[i-1].Point) / dt
	}
	return speeds
}

// turnAngle measures the direction change at index i from chords spanning a
// small window on either side.
func turnAngle(samples []Sample, i, w int) float64 {
	lo := max(i-w, 0)
	hi := min(i+w, len(samples)-1)
	in := samples[i].Point.Sub(samples[lo].Point)
	out := samples[hi].Point.Sub(samples[i].Point)
	if in.Hypot2() == 0 || out.Hypot2() == 0 {
		return 0
	}
	d := out.Angle() - in.Angle()
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return math.Abs(d)
}

// Span is a contiguous, quasi-straight index range of an input sequence.
// Adjacent spans share exactly one boundary point.
type Span struct {
	Start int
	End   int
	// MeanSpeed is the average speed across the span.
	MeanSpeed float64
	// ChordAngle is the direction of the span's chord.
	ChordAngle float64
}

// Chord returns the span's chord as a line segment.
func (sp Span) Chord(samples []Sample) Line {
	return Line{samples[sp.Start].Point, samples[sp.End].Point}
}

// SplitAtCorners splits samples into spans delimited by the given corner
// indices. Together the spans cover the full input range.
func SplitAtCorners(samples []Sample, corners []int) []Span {
	if len(corners) < 2 {
		return nil
	}
	speeds := sampleSpeeds(samples)
	spans := make([]Span, 0, len(corners)-1)
	for k := 0; k+1 < len(corners); k++ {
		start, end := corners[k], corners[k+1]
		var mean float64
		for i := start; i < end; i++ {
			mean += speeds[i]
		}
		if end > start {
			mean /= float64(end - start)
		}
		spans = append(spans, Span{
			Start:      start,
			End:        end,
			MeanSpeed:  mean,
			ChordAngle: samples[end].Point.Sub(samples[start].Point).Angle(),
		})
	}
	return spans
}
