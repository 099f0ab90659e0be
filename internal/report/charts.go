package report

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/sonar.track/internal/scenario"
)

// RenderTrackingHTML renders a page with the estimated and true tracks as
// a scatter chart and, when ev is non-nil, the per-step position error as
// a bar chart.
func RenderTrackingHTML(w io.Writer, runID string, truth [][3]float64, estimates [][]float64, ev *scenario.Evaluation) error {
	truthPts := make([]opts.ScatterData, 0, len(truth))
	for _, pos := range truth {
		truthPts = append(truthPts, opts.ScatterData{Value: []interface{}{pos[0], pos[1]}})
	}
	estPts := make([]opts.ScatterData, 0, len(estimates))
	for _, est := range estimates {
		estPts = append(estPts, opts.ScatterData{Value: []interface{}{est[0], est[1]}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Bearing-only UKF", Theme: "dark", Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: "Estimate vs Truth", Subtitle: fmt.Sprintf("run=%s steps=%d", runID, len(estimates))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X (m)", NameLocation: "middle", NameGap: 25, Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y (m)", NameLocation: "middle", NameGap: 40, Scale: opts.Bool(true)}),
	)
	scatter.AddSeries("truth", truthPts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	scatter.AddSeries("estimate", estPts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	page := components.NewPage()
	page.SetPageTitle("Bearing-only UKF")
	page.AddCharts(scatter)

	if ev != nil {
		steps := make([]string, len(ev.Errors))
		errs := make([]opts.BarData, len(ev.Errors))
		for k, e := range ev.Errors {
			steps[k] = fmt.Sprintf("%d", k)
			errs[k] = opts.BarData{Value: e}
		}
		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "900px", Height: "400px"}),
			charts.WithTitleOpts(opts.Title{
				Title:    "Position Error",
				Subtitle: fmt.Sprintf("final=%.2fm rmse=%.2fm max=%.2fm", ev.FinalError, ev.RMSE, ev.MaxError),
			}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Name: "Step", NameLocation: "middle", NameGap: 25}),
			charts.WithYAxisOpts(opts.YAxis{Name: "Error (m)", NameLocation: "middle", NameGap: 40}),
		)
		bar.SetXAxis(steps).AddSeries("error", errs)
		page.AddCharts(bar)
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteTrackingHTML renders the tracking page to path.
func WriteTrackingHTML(path, runID string, truth [][3]float64, estimates [][]float64, ev *scenario.Evaluation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return RenderTrackingHTML(f, runID, truth, estimates, ev)
}
