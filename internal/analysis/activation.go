// Package analysis provides post-run diagnostics over simulation
// results: droplet activation statistics and column time series.
package analysis

import (
	"github.com/san-kum/parcelsim/internal/constants"
	"github.com/san-kum/parcelsim/internal/dynamo"
	"github.com/san-kum/parcelsim/internal/parcel"
	"github.com/san-kum/parcelsim/internal/thermo"
)

// Activation summarizes which particles became cloud droplets during a
// run, judged against the peak supersaturation the parcel reached.
type Activation struct {
	PeakS          float64
	CriticalS      []float64 // per particle
	Activated      []bool    // per particle
	Fraction       float64   // number-weighted activated fraction
	DropletNumber  float64   // m^-3
	TotalNumber    float64   // m^-3
	ActivatedCount int
}

// Activated fraction by the classical criterion: a particle activates
// when the parcel's peak supersaturation exceeds the particle's critical
// supersaturation. Insoluble particles (kappa == 0) never activate by
// this criterion.
func Activate(c constants.Table, pop parcel.Population, result *dynamo.Result) *Activation {
	n := pop.Len()
	act := &Activation{
		CriticalS: make([]float64, n),
		Activated: make([]bool, n),
	}

	if len(result.States) == 0 {
		return act
	}

	peak := result.States[0][parcel.IdxSupersaturation]
	peakIdx := 0
	for i, x := range result.States {
		if s := x[parcel.IdxSupersaturation]; s > peak {
			peak = s
			peakIdx = i
		}
	}
	act.PeakS = peak

	tempAtPeak := result.States[peakIdx][parcel.IdxTemperature]

	for i := 0; i < n; i++ {
		if pop.Kappa[i] > 0 {
			act.CriticalS[i] = thermo.CriticalSupersaturation(c, pop.DryRadius[i], tempAtPeak, pop.Kappa[i])
			act.Activated[i] = peak >= act.CriticalS[i]
		} else {
			act.CriticalS[i] = thermo.EquilibriumSupersaturation(c, pop.DryRadius[i], pop.DryRadius[i], tempAtPeak, 0)
			act.Activated[i] = false
		}

		act.TotalNumber += pop.Number[i]
		if act.Activated[i] {
			act.DropletNumber += pop.Number[i]
			act.ActivatedCount++
		}
	}

	if act.TotalNumber > 0 {
		act.Fraction = act.DropletNumber / act.TotalNumber
	}

	return act
}
