// Package viz renders ensemble statistics and live trajectories in the
// terminal.
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/isottongloria/LivingSysPhys/internal/logistic"
	"github.com/isottongloria/LivingSysPhys/internal/stationary"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// Histogram bins samples into a normalized empirical density. NaN and Inf
// samples are skipped; the density is normalized over the finite ones.
func Histogram(samples []float64, bins int) (centers, density []float64) {
	if bins < 1 {
		return nil, nil
	}
	max := 0.0
	finite := 0
	for _, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite++
		if v > max {
			max = v
		}
	}
	if finite == 0 {
		return nil, nil
	}
	if max == 0 {
		max = 1
	}
	width := max / float64(bins)

	counts := make([]float64, bins)
	for _, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		b := int(v / width)
		if b < 0 {
			b = 0
		}
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}

	centers = make([]float64, bins)
	density = make([]float64, bins)
	norm := float64(finite) * width
	for b := 0; b < bins; b++ {
		centers[b] = (float64(b) + 0.5) * width
		density[b] = counts[b] / norm
	}
	return centers, density
}

// OverlayPlot draws the empirical density and the theoretical stationary
// density on shared bins.
func OverlayPlot(samples []float64, law stationary.Law, bins, width, height int) string {
	centers, density := Histogram(samples, bins)
	if centers == nil {
		return "no data to plot"
	}
	theory := make([]float64, len(centers))
	for i, c := range centers {
		theory[i] = law.Prob(c)
	}

	graph := asciigraph.PlotMany(
		[][]float64{density, theory},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("stationary density: empirical vs theory"),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
	)
	legend := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).
		Render("green: empirical histogram   red: theoretical density")
	return graph + "\n" + legend
}

// TrajectoryPlot draws one population path against time.
func TrajectoryPlot(traj logistic.Trajectory, width, height int, caption string) string {
	if len(traj) == 0 {
		return "no data to plot"
	}
	data := make([]float64, len(traj))
	copy(data, traj)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// SummaryPane renders a labeled summary of an ensemble and its fit.
func SummaryPane(snap *logistic.Snapshot, fit stationary.FitResult) string {
	var b strings.Builder
	row := func(label string, format string, args ...any) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(fmt.Sprintf(format, args...)))
		b.WriteString("\n")
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s ensemble", snap.Config.Regime)))
	b.WriteString("\n")
	mean, variance := snap.MeanVariance()
	row("trajectories", "%d", len(snap.Samples))
	row("sample mean", "%.4f", mean)
	row("sample var", "%.4f", variance)
	row("theory mean", "%.4f", fit.TheoryMean)
	row("extinct", "%d (%.1f%%)", snap.Extinct, 100*snap.ExtinctionFraction())
	row("ks statistic", "%.4f", fit.KS)
	row("chi2", "%.2f (critical %.2f, df %d)", fit.Chi2, fit.Chi2Critical, fit.DegreesOfFree)
	row("chi2 accepted", "%v", fit.Accepted)
	if snap.Invalid > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("warning: %d trajectories produced NaN/Inf; config is unstable", snap.Invalid)))
		b.WriteString("\n")
	} else if snap.Degraded() {
		b.WriteString(warnStyle.Render("warning: unexpected extinction rate; dt or sigma likely too large"))
		b.WriteString("\n")
	}
	return b.String()
}
