// Package viz renders simulation results as terminal graphs.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/parcelsim/internal/analysis"
)

const (
	plotWidth  = 80
	plotHeight = 12
)

// PlotProfile renders one extracted column as an ASCII chart.
func PlotProfile(p *analysis.Profile, caption string) string {
	if p == nil || len(p.Values) < 2 {
		return ""
	}

	data := downsample(p.Values, plotWidth*4)
	graph := asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
	return graph
}

// PlotSupersaturation renders S(t) in percent with the peak annotated.
func PlotSupersaturation(p *analysis.Profile) string {
	if p == nil || len(p.Values) < 2 {
		return ""
	}

	pct := make([]float64, len(p.Values))
	peak := p.Values[0]
	peakT := p.Times[0]
	for i, v := range p.Values {
		pct[i] = v * 100
		if v > peak {
			peak = v
			peakT = p.Times[i]
		}
	}

	var b strings.Builder
	b.WriteString(PlotProfile(&analysis.Profile{Times: p.Times, Values: pct}, "supersaturation (%)"))
	b.WriteString("\n")
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("peak %.4f%% at t=%.1fs", peak*100, peakT)))
	return b.String()
}

// PlotMeanRadius renders the number-weighted mean wet radius in microns.
func PlotMeanRadius(p *analysis.Profile) string {
	if p == nil || len(p.Values) < 2 {
		return ""
	}

	um := make([]float64, len(p.Values))
	for i, v := range p.Values {
		um[i] = v * 1e6
	}
	return PlotProfile(&analysis.Profile{Times: p.Times, Values: um}, "mean wet radius (um)")
}

func downsample(values []float64, maxPoints int) []float64 {
	if len(values) <= maxPoints {
		return values
	}
	out := make([]float64, maxPoints)
	stride := float64(len(values)-1) / float64(maxPoints-1)
	for i := range out {
		out[i] = values[int(float64(i)*stride)]
	}
	return out
}
