package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/sonar.track/internal/acoustic"
)

var (
	truthColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	estimateColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	rayColor      = color.RGBA{R: 31, G: 119, B: 180, A: 77}
)

// SaveTrajectoryPlot draws the estimated and true horizontal tracks.
func SaveTrajectoryPlot(path string, truth [][3]float64, estimates [][]float64) error {
	if len(truth) == 0 {
		return fmt.Errorf("no truth to plot")
	}

	p := plot.New()
	p.Title.Text = "UKF Tracking Results"
	p.X.Label.Text = "X position (m)"
	p.Y.Label.Text = "Y position (m)"
	p.Add(plotter.NewGrid())

	truthPts := make(plotter.XYs, len(truth))
	for i, pos := range truth {
		truthPts[i] = plotter.XY{X: pos[0], Y: pos[1]}
	}
	truthLine, err := plotter.NewLine(truthPts)
	if err != nil {
		return err
	}
	truthLine.Color = truthColor
	truthLine.Width = vg.Points(1.5)
	p.Add(truthLine)
	p.Legend.Add("Actual Path", truthLine)

	if len(estimates) > 0 {
		estPts := make(plotter.XYs, len(estimates))
		for i, est := range estimates {
			estPts[i] = plotter.XY{X: est[0], Y: est[1]}
		}
		estLine, err := plotter.NewLine(estPts)
		if err != nil {
			return err
		}
		estLine.Color = estimateColor
		estLine.Width = vg.Points(1.5)
		p.Add(estLine)
		p.Legend.Add("UKF Estimate", estLine)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(12*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save trajectory plot: %w", err)
	}
	return nil
}

// SaveRayFanPlot draws every ray path and each target's range/depth track,
// with depth increasing down the page.
func SaveRayFanPlot(path string, paths []acoustic.RayPath, tracks [][][3]float64) error {
	p := plot.New()
	p.Title.Text = "Underwater Sound Paths and Target Trajectories"
	p.X.Label.Text = "Range (m)"
	p.Y.Label.Text = "Depth (m)"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.Add(plotter.NewGrid())

	for _, ray := range paths {
		pts := make(plotter.XYs, ray.Len())
		for i := range pts {
			pts[i] = plotter.XY{X: ray.Range[i], Y: ray.Depth[i]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = rayColor
		line.Width = vg.Points(0.5)
		p.Add(line)
	}

	colors := trackColors(len(tracks))
	for i, track := range tracks {
		pts := make(plotter.XYs, len(track))
		for k, pos := range track {
			pts[k] = plotter.XY{X: pos[0], Y: pos[2]}
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		line.Color = colors[i]
		points.Color = colors[i]
		points.Radius = vg.Points(1.5)
		p.Add(line, points)
		p.Legend.Add(fmt.Sprintf("Target %d", i+1), line, points)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(12*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save ray fan plot: %w", err)
	}
	return nil
}

// returnGrid adapts a per-step return series to plotter.GridXYZ: columns
// are timesteps, rows are delay samples, values are magnitudes.
type returnGrid struct {
	series     [][]float64
	dt         float64
	sampleRate float64
}

func (g returnGrid) Dims() (c, r int) {
	if len(g.series) == 0 {
		return 0, 0
	}
	return len(g.series), len(g.series[0])
}

func (g returnGrid) Z(c, r int) float64 { return math.Abs(g.series[c][r]) }
func (g returnGrid) X(c int) float64 { return float64(c) * g.dt }
func (g returnGrid) Y(r int) float64 { return float64(r) / g.sampleRate * 1000 }

// SaveReturnHeatMap draws |return| against elapsed time (x) and delay in
// milliseconds (y). Every buffer must have the same length.
func SaveReturnHeatMap(path string, series [][]float64, dt, sampleRate float64) error {
	if len(series) < 2 || len(series[0]) < 2 {
		return fmt.Errorf("heat map needs at least 2x2 samples, got %d steps", len(series))
	}
	for i, buf := range series {
		if len(buf) != len(series[0]) {
			return fmt.Errorf("return %d has %d samples, want %d", i, len(buf), len(series[0]))
		}
	}
	if !(dt > 0) || !(sampleRate > 0) {
		return fmt.Errorf("dt and sample rate must be positive")
	}

	grid := returnGrid{series: series, dt: dt, sampleRate: sampleRate}
	cmap := moreland.ExtendedBlackBody()
	heat := plotter.NewHeatMap(grid, cmap.Palette(255))
	if heat.Max <= heat.Min {
		heat.Max = heat.Min + 1
	}

	p := plot.New()
	p.Title.Text = "Received SONAR Pulses"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Delay (ms)"
	p.Add(heat)

	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save return heat map: %w", err)
	}
	return nil
}

// trackColors spreads n hues evenly around the colour wheel.
func trackColors(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := range colors {
		h := float64(i) / float64(n)
		colors[i] = hueColor(h)
	}
	return colors
}

func hueColor(h float64) color.Color {
	// Fixed saturation and lightness; piecewise RGB over six sectors.
	const s, l = 0.7, 0.45
	c := (1 - math.Abs(2*l-1)) * s
	hp := h * 6
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g = c, x
	case hp < 2:
		r, g = x, c
	case hp < 3:
		g, b = c, x
	case hp < 4:
		g, b = x, c
	case hp < 5:
		r, b = x, c
	default:
		r, b = c, x
	}
	m := l - c/2
	return color.RGBA{R: uint8((r + m) * 255), G: uint8((g + m) * 255), B: uint8((b + m) * 255), A: 255}
}
