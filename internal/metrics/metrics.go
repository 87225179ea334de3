// Package metrics implements run-time observables for parcel
// simulations. All metrics satisfy dynamo.Metric and are reset by the
// simulator at the start of every run.
package metrics

import (
	"math"

	"github.com/san-kum/parcelsim/internal/dynamo"
	"github.com/san-kum/parcelsim/internal/parcel"
)

// PeakSupersaturation records the maximum supersaturation seen during a
// run, the quantity that decides which particles activate.
type PeakSupersaturation struct {
	name string
	peak float64
	seen bool
}

func NewPeakSupersaturation() *PeakSupersaturation {
	return &PeakSupersaturation{name: "peak_supersaturation"}
}

func (p *PeakSupersaturation) Name() string { return p.name }

func (p *PeakSupersaturation) Observe(x dynamo.State, u dynamo.Forcing, t float64) {
	if len(x) < parcel.NumScalars {
		return
	}
	s := x[parcel.IdxSupersaturation]
	if !p.seen || s > p.peak {
		p.peak = s
		p.seen = true
	}
}

func (p *PeakSupersaturation) Value() float64 {
	return p.peak
}

func (p *PeakSupersaturation) Reset() {
	p.peak = 0
	p.seen = false
}

// WaterBudget tracks the maximum relative drift of total water
// (vapor plus liquid) from its initial value. The kernel conserves the
// sum exactly; anything beyond integrator roundoff signals a bug.
type WaterBudget struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewWaterBudget() *WaterBudget {
	return &WaterBudget{name: "water_budget_drift"}
}

func (w *WaterBudget) Name() string { return w.name }

func (w *WaterBudget) Observe(x dynamo.State, u dynamo.Forcing, t float64) {
	if len(x) < parcel.NumScalars {
		return
	}
	total := x[parcel.IdxVapor] + x[parcel.IdxLiquid]

	if w.samples == 0 {
		w.initial = total
	}
	w.samples++

	if w.initial != 0 {
		drift := math.Abs(total-w.initial) / math.Abs(w.initial)
		w.maxDrift = math.Max(w.maxDrift, drift)
	}
}

func (w *WaterBudget) Value() float64 {
	return w.maxDrift
}

func (w *WaterBudget) Reset() {
	w.initial = 0
	w.maxDrift = 0
	w.samples = 0
}

// FiniteFraction reports the fraction of observed states that were
// entirely finite. Anything below 1 means poisoned values escaped the
// kernel during the run.
type FiniteFraction struct {
	name     string
	poisoned int
	samples  int
}

func NewFiniteFraction() *FiniteFraction {
	return &FiniteFraction{name: "finite_fraction"}
}

func (f *FiniteFraction) Name() string { return f.name }

func (f *FiniteFraction) Observe(x dynamo.State, u dynamo.Forcing, t float64) {
	f.samples++
	if !x.IsValid() {
		f.poisoned++
	}
}

func (f *FiniteFraction) Value() float64 {
	if f.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(f.poisoned)/float64(f.samples)
}

func (f *FiniteFraction) Reset() {
	f.poisoned = 0
	f.samples = 0
}
