package acoustic

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RayPath is one traced ray: Range and Depth are index-aligned samples,
// Range increasing from zero to the tracer's max range. A RayPath is not
// modified after tracing.
type RayPath struct {
	LaunchAngle float64 // radians, positive down
	Range       []float64
	Depth       []float64
}

// Len returns the number of samples on the path.
func (p RayPath) Len() int { return len(p.Range) }

// ClosestApproach returns the index of the sample nearest to (r, d) in the
// range/depth plane and the distance to it. Ties resolve to the lowest
// index.
func (p RayPath) ClosestApproach(r, d float64) (int, float64) {
	best := 0
	bestSq := math.Inf(1)
	for i := range p.Range {
		dr := p.Range[i] - r
		dd := p.Depth[i] - d
		if sq := dr*dr + dd*dd; sq < bestSq {
			best, bestSq = i, sq
		}
	}
	return best, math.Sqrt(bestSq)
}

// RayTracer builds the fixed fan of acoustic paths. The sound-speed
// gradient does not bend rays here: each ray is a straight line folded
// to non-negative depth and reflected once off the depth ceiling.
type RayTracer struct {
	MaxDepth   float64
	MaxRange   float64
	NumRays    int
	FanHalfRad float64
	Samples    int
}

// NewRayTracer returns a tracer using the geometry in cfg.
func NewRayTracer(cfg Config) *RayTracer {
	return &RayTracer{
		MaxDepth:   cfg.MaxDepth,
		MaxRange:   cfg.MaxRange,
		NumRays:    cfg.NumRays,
		FanHalfRad: cfg.FanHalfDeg * math.Pi / 180,
		Samples:    cfg.RaySamples,
	}
}

// LaunchAngles returns the fan of launch angles, evenly spaced over
// [-FanHalfRad, +FanHalfRad] inclusive. A single ray is launched
// horizontally, not at -FanHalfRad where a one-point linspace over the
// fan would put it.
func (rt *RayTracer) LaunchAngles() []float64 {
	if rt.NumRays <= 0 {
		return nil
	}
	if rt.NumRays == 1 {
		return []float64{0}
	}
	return floats.Span(make([]float64, rt.NumRays), -rt.FanHalfRad, rt.FanHalfRad)
}

// Trace returns one path per launch angle, in launch-angle order. Every
// path shares the same range grid, so sample i on one path sits at the
// same range as sample i on every other path. Identical tracer fields
// always produce identical output.
func (rt *RayTracer) Trace() []RayPath {
	angles := rt.LaunchAngles()
	grid := floats.Span(make([]float64, rt.Samples), 0, rt.MaxRange)

	paths := make([]RayPath, len(angles))
	for i, theta := range angles {
		paths[i] = rt.traceOne(theta, grid)
	}
	diagf("traced %d rays, %d samples each, ceiling=%.1fm range=%.1fm",
		len(paths), rt.Samples, rt.MaxDepth, rt.MaxRange)
	return paths
}

func (rt *RayTracer) traceOne(theta float64, grid []float64) RayPath {
	slope := math.Tan(theta)
	ranges := make([]float64, len(grid))
	depths := make([]float64, len(grid))
	copy(ranges, grid)
	for j, r := range grid {
		d := math.Abs(r * slope)
		if d > rt.MaxDepth {
			d = 2*rt.MaxDepth - d
		}
		depths[j] = d
	}
	return RayPath{LaunchAngle: theta, Range: ranges, Depth: depths}
}
