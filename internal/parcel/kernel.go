package parcel

import (
	"github.com/san-kum/parcelsim/internal/dynamo"
	"github.com/san-kum/parcelsim/internal/thermo"
)

// Tendency evaluates the right-hand side of the parcel ODE system at
// state x under updraft forcing u = [velocity]. The returned vector has
// the same layout as x and shares no memory with it.
//
// Shape errors are reported before any computation. Numeric domain
// violations (non-positive radii, degenerate Koehler denominators) are
// deliberately not guarded inside the particle loop: the resulting
// NaN/Inf values propagate into the returned tendencies, and step-size
// control upstream deals with them.
func (s *System) Tendency(x dynamo.State, u dynamo.Forcing, _ float64) (dynamo.State, error) {
	n := s.pop.Len()
	if len(x) != NumScalars+n {
		return nil, ErrShapeMismatch
	}
	if len(u) != 1 {
		return nil, ErrShapeMismatch
	}

	c := s.consts
	vel := u[0]

	press := x[IdxPressure]
	temp := x[IdxTemperature]
	wv := x[IdxVapor]
	ss := x[IdxSupersaturation]

	pvSat := thermo.SaturationVaporPressure(temp - 273.15)
	tv := temp * (1.0 + 0.61*wv) // virtual temperature
	rhoAir := press / (c.Rd * tv)

	// Hydrostatic pressure tendency for the prescribed ascent rate.
	dp := -c.G * press * vel / (c.Rd * tv)

	out := make(dynamo.State, len(x))
	radii := x[NumScalars:]
	drs := out[NumScalars:]

	// Condensational growth of every particle, in parallel. Each
	// particle writes its own radius-tendency slot; the only shared
	// result is the summed liquid-water contribution, combined from
	// per-worker partials.
	sum := dynamo.ParallelSum(n, s.workers, s.minChunk, func(start, end int) float64 {
		partial := 0.0
		for i := start; i < end; i++ {
			r := radii[i]

			dv := thermo.VaporDiffusivity(c, temp, r, press)
			ka := thermo.ThermalConductivity(c, temp, r, rhoAir)

			// Growth coefficient: vapor diffusion term plus latent-heat
			// conduction term.
			ga := (c.RhoW * c.R * temp) / (pvSat * dv * c.Mw)
			gb := (c.L * c.RhoW * ((c.L*c.Mw)/(c.R*temp) - 1.0)) / (ka * temp)
			g := 1.0 / (ga + gb)

			sEq := thermo.EquilibriumSupersaturation(c, r, s.pop.DryRadius[i], temp, s.pop.Kappa[i])
			dr := (g / r) * (ss - sEq)

			drs[i] = dr
			partial += s.pop.Number[i] * r * r * dr
		}
		return partial
	})

	dwc := (4.0 * c.Pi * c.RhoW / rhoAir) * sum
	dwv := -dwc

	dT := -c.G*vel/c.Cp - c.L*dwv/c.Cp

	// Ghan (2011) supersaturation closure.
	alpha := (c.G*c.Mw*c.L)/(c.Cp*c.R*temp*temp) - (c.G*c.Ma)/(c.R*temp)
	gamma := (press*c.Ma)/(c.Mw*pvSat) + (c.Mw*c.L*c.L)/(c.Cp*c.R*temp*temp)
	dS := alpha*vel - gamma*dwc

	out[IdxPressure] = dp
	out[IdxTemperature] = dT
	out[IdxVapor] = dwv
	out[IdxLiquid] = dwc
	out[IdxSupersaturation] = dS

	return out, nil
}
