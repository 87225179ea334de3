// Package aerosol builds particle populations for the parcel kernel
// from lognormal size distributions, and initializes wet radii at
// equilibrium with the ambient supersaturation.
package aerosol

import (
	"fmt"
	"math"

	"github.com/san-kum/parcelsim/internal/constants"
	"github.com/san-kum/parcelsim/internal/parcel"
	"github.com/san-kum/parcelsim/internal/thermo"
)

// Mode is one lognormal aerosol mode.
type Mode struct {
	Name          string  `yaml:"name"`
	TotalNumber   float64 `yaml:"total_number"`    // m^-3
	GeoMeanRadius float64 `yaml:"geo_mean_radius"` // m
	GeoStdDev     float64 `yaml:"geo_std_dev"`     // dimensionless, > 1
	Kappa         float64 `yaml:"kappa"`
	Bins          int     `yaml:"bins"`
}

// spread of the discretized distribution, in units of ln(sigma_g)
const truncation = 3.5

func (m Mode) validate() error {
	if m.TotalNumber <= 0 {
		return fmt.Errorf("aerosol: mode %q: total number must be positive", m.Name)
	}
	if m.GeoMeanRadius <= 0 {
		return fmt.Errorf("aerosol: mode %q: geometric mean radius must be positive", m.Name)
	}
	if m.GeoStdDev <= 1 {
		return fmt.Errorf("aerosol: mode %q: geometric std dev must exceed 1", m.Name)
	}
	if m.Kappa < 0 {
		return fmt.Errorf("aerosol: mode %q: kappa must be non-negative", m.Name)
	}
	if m.Bins <= 0 {
		return fmt.Errorf("aerosol: mode %q: bin count must be positive", m.Name)
	}
	return nil
}

// Discretize splits the mode into Bins log-spaced dry-radius bins. Bin
// centers are geometric midpoints; bin numbers come from the lognormal
// CDF, so the discretized population carries the mode's total number up
// to the +/-3.5 ln(sigma_g) truncation.
func (m Mode) Discretize() (parcel.Population, error) {
	if err := m.validate(); err != nil {
		return parcel.Population{}, err
	}

	lnMu := math.Log(m.GeoMeanRadius)
	lnSg := math.Log(m.GeoStdDev)

	lo := lnMu - truncation*lnSg
	width := 2 * truncation * lnSg / float64(m.Bins)

	pop := parcel.Population{
		DryRadius: make([]float64, m.Bins),
		Number:    make([]float64, m.Bins),
		Kappa:     make([]float64, m.Bins),
	}

	for i := 0; i < m.Bins; i++ {
		lnLo := lo + float64(i)*width
		lnHi := lnLo + width

		pop.DryRadius[i] = math.Exp(0.5 * (lnLo + lnHi))
		pop.Number[i] = m.TotalNumber * 0.5 *
			(math.Erf((lnHi-lnMu)/(math.Sqrt2*lnSg)) - math.Erf((lnLo-lnMu)/(math.Sqrt2*lnSg)))
		pop.Kappa[i] = m.Kappa
	}

	return pop, nil
}

// NewPopulation discretizes every mode and concatenates the results into
// a single index-aligned population.
func NewPopulation(modes ...Mode) (parcel.Population, error) {
	var pop parcel.Population
	for _, m := range modes {
		p, err := m.Discretize()
		if err != nil {
			return parcel.Population{}, err
		}
		pop.DryRadius = append(pop.DryRadius, p.DryRadius...)
		pop.Number = append(pop.Number, p.Number...)
		pop.Kappa = append(pop.Kappa, p.Kappa...)
	}
	return pop, nil
}

// EquilibriumRadius finds the wet radius at which a particle's Koehler
// equilibrium supersaturation equals the ambient value s0, by bisection
// on the stable branch below the critical radius. Insoluble particles
// (kappa <= 0) have no stable wet size below saturation and keep their
// dry radius.
func EquilibriumRadius(c constants.Table, rd, kappa, temp, s0 float64) float64 {
	if kappa <= 0 {
		return rd
	}

	lo := rd * (1 + 1e-9)
	hi := thermo.CriticalRadius(c, rd, temp, kappa)
	if hi <= lo {
		return rd
	}

	// Seq is monotonically increasing on the stable branch, from large
	// negative values near the dry size up to the critical peak.
	if thermo.EquilibriumSupersaturation(c, hi, rd, temp, kappa) < s0 {
		// Ambient exceeds the critical supersaturation; there is no
		// stable equilibrium. Hand back the critical radius and let the
		// growth equation take over.
		return hi
	}

	for iter := 0; iter < 200; iter++ {
		mid := 0.5 * (lo + hi)
		if thermo.EquilibriumSupersaturation(c, mid, rd, temp, kappa) < s0 {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo <= 1e-15*hi {
			break
		}
	}

	return 0.5 * (lo + hi)
}

// EquilibriumRadii computes the initial wet radius of every particle in
// the population at ambient supersaturation s0 and temperature temp.
func EquilibriumRadii(c constants.Table, pop parcel.Population, temp, s0 float64) []float64 {
	radii := make([]float64, pop.Len())
	for i := range radii {
		radii[i] = EquilibriumRadius(c, pop.DryRadius[i], pop.Kappa[i], temp, s0)
	}
	return radii
}
