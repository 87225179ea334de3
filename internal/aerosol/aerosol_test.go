package aerosol

import (
	"math"
	"testing"

	"github.com/san-kum/parcelsim/internal/constants"
	"github.com/san-kum/parcelsim/internal/thermo"
)

func TestDiscretizeConservesNumber(t *testing.T) {
	m := Mode{
		Name:          "ammonium sulfate",
		TotalNumber:   850e6,
		GeoMeanRadius: 15e-9,
		GeoStdDev:     1.6,
		Kappa:         0.54,
		Bins:          200,
	}

	pop, err := m.Discretize()
	if err != nil {
		t.Fatalf("Discretize: %v", err)
	}

	if pop.Len() != 200 {
		t.Fatalf("expected 200 bins, got %d", pop.Len())
	}

	total := 0.0
	for _, n := range pop.Number {
		if n < 0 {
			t.Fatal("negative bin number")
		}
		total += n
	}

	// Truncated at 3.5 geometric sigmas, so a sliver of the tails is lost.
	if math.Abs(total-m.TotalNumber)/m.TotalNumber > 1e-3 {
		t.Errorf("total number %.4g differs from mode total %.4g", total, m.TotalNumber)
	}
}

func TestDiscretizeRadiiAscend(t *testing.T) {
	m := Mode{TotalNumber: 1e8, GeoMeanRadius: 30e-9, GeoStdDev: 2.0, Kappa: 0.6, Bins: 50}

	pop, err := m.Discretize()
	if err != nil {
		t.Fatalf("Discretize: %v", err)
	}

	for i := 1; i < pop.Len(); i++ {
		if pop.DryRadius[i] <= pop.DryRadius[i-1] {
			t.Fatalf("dry radii not ascending at bin %d", i)
		}
	}

	// The geometric mean bin should sit near the distribution median.
	mid := pop.DryRadius[pop.Len()/2]
	if mid < 20e-9 || mid > 45e-9 {
		t.Errorf("median bin radius %.3g m far from geometric mean", mid)
	}
}

func TestDiscretizeRejectsBadModes(t *testing.T) {
	bad := []Mode{
		{TotalNumber: 0, GeoMeanRadius: 1e-8, GeoStdDev: 1.5, Bins: 10},
		{TotalNumber: 1e8, GeoMeanRadius: 0, GeoStdDev: 1.5, Bins: 10},
		{TotalNumber: 1e8, GeoMeanRadius: 1e-8, GeoStdDev: 1.0, Bins: 10},
		{TotalNumber: 1e8, GeoMeanRadius: 1e-8, GeoStdDev: 1.5, Bins: 0},
		{TotalNumber: 1e8, GeoMeanRadius: 1e-8, GeoStdDev: 1.5, Kappa: -0.1, Bins: 10},
	}

	for i, m := range bad {
		if _, err := m.Discretize(); err == nil {
			t.Errorf("mode %d: expected validation error", i)
		}
	}
}

func TestNewPopulationConcatenates(t *testing.T) {
	aitken := Mode{TotalNumber: 1e9, GeoMeanRadius: 20e-9, GeoStdDev: 1.5, Kappa: 0.6, Bins: 30}
	accum := Mode{TotalNumber: 3e8, GeoMeanRadius: 90e-9, GeoStdDev: 1.7, Kappa: 0.54, Bins: 40}

	pop, err := NewPopulation(aitken, accum)
	if err != nil {
		t.Fatalf("NewPopulation: %v", err)
	}

	if pop.Len() != 70 {
		t.Errorf("expected 70 particles, got %d", pop.Len())
	}
	if pop.Kappa[0] != 0.6 || pop.Kappa[69] != 0.54 {
		t.Error("mode kappas not carried through concatenation")
	}
}

func TestEquilibriumRadiusSitsOnKoehlerCurve(t *testing.T) {
	c := constants.Default()
	const (
		temp  = 280.0
		rd    = 5e-8
		kappa = 0.54
	)

	for _, s0 := range []float64{-0.05, -0.01, 0.0} {
		r := EquilibriumRadius(c, rd, kappa, temp, s0)
		if r <= rd {
			t.Fatalf("s0=%v: equilibrium radius %v not above dry radius", s0, r)
		}
		got := thermo.EquilibriumSupersaturation(c, r, rd, temp, kappa)
		if math.Abs(got-s0) > 1e-9 {
			t.Errorf("s0=%v: Seq at equilibrium radius is %v", s0, got)
		}
	}
}

func TestEquilibriumRadiusGrowsWithHumidity(t *testing.T) {
	c := constants.Default()
	dry := EquilibriumRadius(c, 5e-8, 0.54, 280.0, -0.2)
	humid := EquilibriumRadius(c, 5e-8, 0.54, 280.0, -0.005)
	if humid <= dry {
		t.Errorf("hygroscopic growth missing: r(-0.005)=%v <= r(-0.2)=%v", humid, dry)
	}
}

func TestEquilibriumRadiusInsoluble(t *testing.T) {
	c := constants.Default()
	if r := EquilibriumRadius(c, 5e-8, 0.0, 280.0, 0.0); r != 5e-8 {
		t.Errorf("insoluble particle must keep its dry radius, got %v", r)
	}
}

func TestEquilibriumRadiusAboveCritical(t *testing.T) {
	c := constants.Default()
	const (
		temp  = 280.0
		rd    = 5e-8
		kappa = 0.54
	)
	sCrit := thermo.CriticalSupersaturation(c, rd, temp, kappa)

	r := EquilibriumRadius(c, rd, kappa, temp, 2*sCrit)
	rc := thermo.CriticalRadius(c, rd, temp, kappa)
	if math.Abs(r-rc) > 1e-3*rc {
		t.Errorf("above the critical supersaturation expected the critical radius %v, got %v", rc, r)
	}
}

func TestEquilibriumRadiiWholePopulation(t *testing.T) {
	c := constants.Default()
	m := Mode{TotalNumber: 1e8, GeoMeanRadius: 30e-9, GeoStdDev: 1.8, Kappa: 0.6, Bins: 25}

	pop, err := m.Discretize()
	if err != nil {
		t.Fatalf("Discretize: %v", err)
	}

	radii := EquilibriumRadii(c, pop, 280.0, -0.02)
	if len(radii) != pop.Len() {
		t.Fatalf("expected %d radii, got %d", pop.Len(), len(radii))
	}
	for i, r := range radii {
		if r < pop.DryRadius[i] {
			t.Errorf("particle %d: wet radius %v below dry radius %v", i, r, pop.DryRadius[i])
		}
	}
}
