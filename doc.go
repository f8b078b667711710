// Package sketch provides the geometric recognition and planar-topology
// engine of a freehand drawing application: it interprets raw pointer input
// as idealized geometric primitives and turns stroke collections into planar
// subdivisions whose closed regions can be filled.
//
// # Features
//
// We provide the following notable features:
//
//   - Corner detection and segmentation of timed point sequences (see
//     [Corners] and [SplitAtCorners])
//   - Least-squares primitive fitting of lines, circles, ellipses, arcs, and
//     cubic Béziers (see [FitLine], [FitCircle], [FitEllipse], [FitArc], and
//     [FitCubic])
//   - Multi-hypothesis shape classification with configurable strategy (see
//     [Classifier])
//   - A bounding-volume spatial index over mutable 2D segments (see
//     [SpatialIndex])
//   - Incremental segment-intersection tracking for interactive dragging
//     (see [IntersectionManager])
//   - Planar graph construction with crossing splits and vertex welding
//     (see [BuildPlanarGraph])
//   - Closed-region ("face") extraction for fill operations (see
//     [ExtractFaces] and [RegionTracker])
//
// # Pipelines
//
// Recognition runs raw points through the segmenter, the fitters, and the
// classifier, and yields a simplified point list — or nil when no hypothesis
// is confident, in which case the caller keeps the raw points.
//
// Region detection runs separately: a stroke collection becomes a planar
// graph (crossing-split and vertex-welded), whose cycles become closed
// polygonal regions. The intersection manager operates alongside dragging,
// independent of the full-graph path, feeding live intersection points.
//
// # Execution model
//
// All geometry runs synchronously on one logical thread. Responsiveness
// comes from incrementality, not concurrency: full rebuilds are debounced
// through a [Coalescer] so bursts of mutations collapse into a single
// rebuild, dragging uses only the incremental intersection path, and probe
// queries are radius-scoped. Nothing in this package takes locks.
//
// # Errors
//
// Fitting and classification never return errors and never panic on
// degenerate input. Unsatisfiable preconditions — too few points, zero-length
// chords, singular covariance — report ok == false, and callers treat that as
// "try the next hypothesis". "No shape detected", "no intersection", and "no
// closed face" are ordinary outcomes, not failures.
package sketch
