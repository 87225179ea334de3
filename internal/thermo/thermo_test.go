package thermo_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/parcelsim/internal/constants"
	"github.com/san-kum/parcelsim/internal/thermo"
)

var _ = Describe("SurfaceTension", func() {
	It("matches the fit anchor at 0 C", func() {
		Expect(thermo.SurfaceTension(273.15)).To(BeNumerically("~", 0.0761, 1e-12))
	})

	It("decreases with temperature", func() {
		Expect(thermo.SurfaceTension(300.0)).To(BeNumerically("<", thermo.SurfaceTension(280.0)))
	})
})

var _ = Describe("SaturationVaporPressure", func() {
	It("returns 611.2 Pa at 0 C", func() {
		Expect(thermo.SaturationVaporPressure(0)).To(BeNumerically("~", 611.2, 1e-9))
	})

	It("roughly doubles every 10 C near room temperature", func() {
		e10 := thermo.SaturationVaporPressure(10)
		e20 := thermo.SaturationVaporPressure(20)
		Expect(e20 / e10).To(BeNumerically("~", 1.9, 0.2))
	})

	It("matches the textbook value at 20 C", func() {
		Expect(thermo.SaturationVaporPressure(20)).To(BeNumerically("~", 2337.0, 10.0))
	})
})

var _ = Describe("Transport coefficients", func() {
	c := constants.Default()
	const (
		temp   = 283.0
		press  = 85000.0
		rhoAir = 1.05
	)

	It("suppresses conductivity for small droplets", func() {
		small := thermo.ThermalConductivity(c, temp, 5e-8, rhoAir)
		large := thermo.ThermalConductivity(c, temp, 1e-4, rhoAir)
		Expect(small).To(BeNumerically("<", large))
	})

	It("approaches the continuum conductivity for large radii", func() {
		kaCont := 1e-3 * (4.39 + 0.071*temp)
		got := thermo.ThermalConductivity(c, temp, 1e-2, rhoAir)
		Expect(got).To(BeNumerically("~", kaCont, kaCont*1e-3))
	})

	It("suppresses diffusivity for small droplets", func() {
		small := thermo.VaporDiffusivity(c, temp, 5e-8, press)
		large := thermo.VaporDiffusivity(c, temp, 1e-4, press)
		Expect(small).To(BeNumerically("<", large))
	})

	It("scales continuum diffusivity inversely with pressure", func() {
		lo := thermo.VaporDiffusivity(c, temp, 1e-2, 50000.0)
		hi := thermo.VaporDiffusivity(c, temp, 1e-2, 100000.0)
		Expect(lo / hi).To(BeNumerically("~", 2.0, 1e-2))
	})
})

var _ = Describe("EquilibriumSupersaturation", func() {
	c := constants.Default()
	const temp = 280.0

	It("reduces to the pure Kelvin term for an insoluble particle at its dry size", func() {
		r := 5e-8
		want := math.Exp((2.0*c.Mw*thermo.SurfaceTension(temp))/(c.R*temp*c.RhoW*r)) - 1.0
		Expect(thermo.EquilibriumSupersaturation(c, r, r, temp, 0)).To(BeNumerically("~", want, 1e-15))
	})

	It("is positive for a dry insoluble particle (curvature only)", func() {
		Expect(thermo.EquilibriumSupersaturation(c, 5e-8, 5e-8, temp, 0)).To(BeNumerically(">", 0))
	})

	It("decreases monotonically past the critical radius", func() {
		rd := 5e-8
		kappa := 0.6
		rc := thermo.CriticalRadius(c, rd, temp, kappa)
		prev := thermo.EquilibriumSupersaturation(c, 2*rc, rd, temp, kappa)
		for _, mult := range []float64{4, 8, 16, 32} {
			cur := thermo.EquilibriumSupersaturation(c, mult*rc, rd, temp, kappa)
			Expect(cur).To(BeNumerically("<", prev))
			prev = cur
		}
	})

	It("rises then falls around the critical radius", func() {
		rd := 5e-8
		kappa := 0.6
		rc := thermo.CriticalRadius(c, rd, temp, kappa)
		below := thermo.EquilibriumSupersaturation(c, 0.5*rc, rd, temp, kappa)
		peak := thermo.EquilibriumSupersaturation(c, rc, rd, temp, kappa)
		above := thermo.EquilibriumSupersaturation(c, 4*rc, rd, temp, kappa)
		Expect(peak).To(BeNumerically(">", above))
		Expect(peak).To(BeNumerically(">", below))
	})

	It("collapses to -1 for a soluble particle exactly at its dry size", func() {
		// Numerator of the solute term is identically zero at r == rd.
		Expect(thermo.EquilibriumSupersaturation(c, 5e-8, 5e-8, temp, 0.6)).To(Equal(-1.0))
	})

	It("propagates infinity when the dry radius puts the solute denominator at zero", func() {
		// kappa = 0.875 and rd = 2r make rd^3*(1-kappa) bit-identical to
		// r^3 (scaling by powers of two is exact), so the denominator
		// vanishes and the poison value flows out instead of a panic.
		r := 5e-8
		got := thermo.EquilibriumSupersaturation(c, r, 2*r, temp, 0.875)
		Expect(math.IsInf(got, 0) || math.IsNaN(got)).To(BeTrue())
	})

	It("does not panic for a malformed population with dry radius above wet radius", func() {
		Expect(func() {
			_ = thermo.EquilibriumSupersaturation(c, 4e-8, 5e-8, temp, 0.6)
		}).NotTo(Panic())
	})
})

var _ = Describe("Critical point", func() {
	c := constants.Default()
	const (
		temp  = 280.0
		rd    = 5e-8
		kappa = 0.6
	)

	It("places the curve peak near the closed-form critical radius", func() {
		rc := thermo.CriticalRadius(c, rd, temp, kappa)
		sc := thermo.EquilibriumSupersaturation(c, rc, rd, temp, kappa)
		Expect(thermo.EquilibriumSupersaturation(c, 0.9*rc, rd, temp, kappa)).To(BeNumerically("<", sc*1.05))
		Expect(thermo.EquilibriumSupersaturation(c, 1.1*rc, rd, temp, kappa)).To(BeNumerically("<", sc*1.05))
	})

	It("matches the closed-form critical supersaturation within the dilution approximation", func() {
		rc := thermo.CriticalRadius(c, rd, temp, kappa)
		sPeak := thermo.EquilibriumSupersaturation(c, rc, rd, temp, kappa)
		sCrit := thermo.CriticalSupersaturation(c, rd, temp, kappa)
		Expect(sPeak).To(BeNumerically("~", sCrit, sCrit*0.1))
	})

	It("gives smaller critical supersaturation for larger dry radii", func() {
		Expect(thermo.CriticalSupersaturation(c, 1e-7, temp, kappa)).
			To(BeNumerically("<", thermo.CriticalSupersaturation(c, 5e-8, temp, kappa)))
	})
})
