// Package constants holds the physical constants used by the parcel
// model. The constants live in a Table value that callers inject into
// the formulas and the kernel, so tests (or other atmospheres) can swap
// the whole set without touching package state.
package constants

import "math"

// Table is an immutable set of physical constants, SI units throughout.
type Table struct {
	Mw   float64 // molecular weight of water, kg/mol
	Ma   float64 // molecular weight of dry air, kg/mol
	R    float64 // universal gas constant, J/(mol K)
	Rd   float64 // gas constant of dry air, J/(kg K)
	RhoW float64 // density of liquid water, kg/m3
	G    float64 // gravitational acceleration, m/s2
	Dv   float64 // reference vapor diffusivity, m2/s
	Ac   float64 // condensation accommodation coefficient
	At   float64 // thermal accommodation coefficient
	Ka   float64 // reference thermal conductivity of air, J/(m s K)
	L    float64 // latent heat of condensation, J/kg
	Cp   float64 // specific heat of dry air at constant pressure, J/(kg K)
	Pi   float64
}

// Default returns the standard terrestrial constant set.
func Default() Table {
	return Table{
		Mw:   18.0153e-3,
		Ma:   28.9e-3,
		R:    8.314,
		Rd:   287.0,
		RhoW: 1000.0,
		G:    9.81,
		Dv:   3.0e-5,
		Ac:   1.0,
		At:   0.96,
		Ka:   2.0e-2,
		L:    2.5e6,
		Cp:   1004.0,
		Pi:   math.Pi,
	}
}
