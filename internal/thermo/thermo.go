// Package thermo provides the pure thermodynamic formulas of the parcel
// model: surface tension, non-continuum-corrected transport coefficients,
// saturation vapor pressure, and the kappa-Koehler equilibrium curve.
//
// Every function is stateless and takes the constants table explicitly,
// so all of them are safe to call concurrently across particles.
package thermo

import (
	"math"

	"github.com/san-kum/parcelsim/internal/constants"
)

// SurfaceTension returns the surface tension of water against air at
// temperature T (K), in J/m2. Linear fit valid around cloud temperatures.
func SurfaceTension(t float64) float64 {
	return 0.0761 - 1.55e-4*(t-273.15)
}

// ThermalConductivity returns the thermal conductivity of air near a
// droplet of radius r (m), in J/(m s K). The continuum value is divided
// by a correction factor accounting for non-continuum effects when r is
// comparable to the mean free path; rhoAir is the ambient air density.
func ThermalConductivity(c constants.Table, t, r, rhoAir float64) float64 {
	kaCont := 1e-3 * (4.39 + 0.071*t)
	denom := 1.0 + (kaCont/(c.At*r*rhoAir*c.Cp))*math.Sqrt((2.0*c.Pi*c.Ma)/(c.R*t))
	return kaCont / denom
}

// VaporDiffusivity returns the diffusivity of water vapor in air near a
// droplet of radius r (m), in m2/s. P is ambient pressure in Pa; the
// continuum formula wants atmospheres, so it converts internally.
func VaporDiffusivity(c constants.Table, t, r, p float64) float64 {
	pAtm := p * 1.01325e-5
	dvCont := 1e-4 * (0.211 / pAtm) * math.Pow(t/273.0, 1.94)
	denom := 1.0 + (dvCont/(c.Ac*r))*math.Sqrt((2.0*c.Pi*c.Mw)/(c.R*t))
	return dvCont / denom
}

// SaturationVaporPressure returns the saturation vapor pressure over a
// flat water surface, in Pa. tc is temperature in Celsius (Magnus form).
func SaturationVaporPressure(tc float64) float64 {
	return 611.2 * math.Exp(17.67 * tc / (tc + 243.5))
}

// EquilibriumSupersaturation evaluates the kappa-Koehler curve: the
// ambient supersaturation at which a droplet of wet radius r (m) with
// dry radius rd (m) and hygroscopicity kappa is in equilibrium at
// temperature t (K). Returns a dimensionless fraction (S - 1).
//
// kappa == 0 means an insoluble particle; the solute term collapses to 1
// and only the Kelvin curvature term remains. A degenerate solute
// denominator (r^3 == rd^3*(1-kappa)) is deliberately not guarded: the
// resulting Inf/NaN propagates to the caller.
func EquilibriumSupersaturation(c constants.Table, r, rd, t, kappa float64) float64 {
	a := (2.0 * c.Mw * SurfaceTension(t)) / (c.R * t * c.RhoW * r)
	b := 1.0
	if kappa > 0 {
		r3 := r * r * r
		rd3 := rd * rd * rd
		b = (r3 - rd3) / (r3 - rd3*(1.0-kappa))
	}
	return math.Exp(a)*b - 1.0
}

// KelvinParameter returns the curvature coefficient A (m) such that the
// Kelvin term of the Koehler curve is exp(A/r).
func KelvinParameter(c constants.Table, t float64) float64 {
	return (2.0 * c.Mw * SurfaceTension(t)) / (c.R * t * c.RhoW)
}

// CriticalSupersaturation returns the peak of the Koehler curve for a
// dry radius rd (m) and hygroscopicity kappa at temperature t (K), using
// the standard large-dilution closed form. kappa must be positive.
func CriticalSupersaturation(c constants.Table, rd, t, kappa float64) float64 {
	a := KelvinParameter(c, t)
	return math.Sqrt((4.0 * a * a * a) / (27.0 * kappa * rd * rd * rd))
}

// CriticalRadius returns the wet radius at the peak of the Koehler curve
// for dry radius rd (m) and hygroscopicity kappa at temperature t (K).
func CriticalRadius(c constants.Table, rd, t, kappa float64) float64 {
	a := KelvinParameter(c, t)
	return math.Sqrt((3.0 * kappa * rd * rd * rd) / a)
}
