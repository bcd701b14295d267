// Package report writes an HTML chart comparing an ensemble's empirical
// density with the theoretical stationary density.
package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/isottongloria/LivingSysPhys/internal/logistic"
	"github.com/isottongloria/LivingSysPhys/internal/stationary"
	"github.com/isottongloria/LivingSysPhys/internal/viz"
)

const reportBins = 40

func lineData(xs, ys []float64) []opts.LineData {
	items := make([]opts.LineData, 0, len(xs))
	for i := range xs {
		items = append(items, opts.LineData{Value: [2]float64{xs[i], ys[i]}})
	}
	return items
}

// newOverlayChart builds a line chart with the empirical and theoretical
// densities as two series.
func newOverlayChart(title, subtitle string, snap *logistic.Snapshot, law stationary.Law) *charts.Line {
	centers, density := viz.Histogram(snap.Samples, reportBins)
	theory := make([]float64, len(centers))
	for i, c := range centers {
		theory[i] = law.Prob(c)
	}

	chart := charts.NewLine()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeChalk,
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
	)
	chart.AddSeries("empirical", lineData(centers, density)).
		AddSeries("theory", lineData(centers, theory))
	return chart
}

// Write renders the overlay chart for a snapshot to an HTML file.
func Write(path string, snap *logistic.Snapshot, law stationary.Law) error {
	cfg := snap.Config
	title := fmt.Sprintf("Stochastic logistic: %s noise", cfg.Regime)
	subtitle := fmt.Sprintf("r=%g K=%g sigma=%g dt=%g N=%d", cfg.R, cfg.K, cfg.Sigma, cfg.Dt, cfg.Trajectories)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return newOverlayChart(title, subtitle, snap, law).Render(f)
}
