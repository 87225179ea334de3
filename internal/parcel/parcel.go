// Package parcel implements the derivative kernel of an adiabatically
// rising cloud parcel carrying a population of aerosol particles.
//
// The state vector is [pressure, temperature, vapor mixing ratio,
// liquid mixing ratio, supersaturation, r_0 .. r_{N-1}], one wet radius
// per tracked particle, SI units throughout. The kernel evaluates the
// instantaneous tendency of every entry; time integration is the
// caller's business (see the integrators package).
package parcel

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/san-kum/parcelsim/internal/constants"
	"github.com/san-kum/parcelsim/internal/dynamo"
)

// State vector layout. Particle radii follow the scalar block.
const (
	IdxPressure = iota
	IdxTemperature
	IdxVapor
	IdxLiquid
	IdxSupersaturation
	NumScalars
)

var (
	// ErrShapeMismatch reports a state or forcing vector whose length is
	// inconsistent with the particle population. Raised before any
	// computation.
	ErrShapeMismatch = errors.New("parcel: vector length inconsistent with population")

	// ErrKernelInit reports a kernel that could not be constructed.
	ErrKernelInit = errors.New("parcel: kernel initialization failed")
)

// Population is the aerosol population carried by the parcel: three
// index-aligned arrays, one entry per particle. It is treated as
// read-only for the duration of every derivative evaluation.
type Population struct {
	DryRadius []float64 // m
	Number    []float64 // particles per m3 of air
	Kappa     []float64 // hygroscopicity; 0 means insoluble
}

// Len returns the particle count N.
func (p Population) Len() int { return len(p.DryRadius) }

func (p Population) validate() error {
	if len(p.Number) != len(p.DryRadius) || len(p.Kappa) != len(p.DryRadius) {
		return fmt.Errorf("%w: population arrays have lengths %d/%d/%d",
			ErrKernelInit, len(p.DryRadius), len(p.Number), len(p.Kappa))
	}
	return nil
}

// Options configures kernel construction.
type Options struct {
	// Workers is the goroutine count for the per-particle reduction.
	// Zero or negative selects runtime.NumCPU(). This is fixed at
	// construction; the hot path never consults the environment.
	Workers int

	// MinChunk is the smallest particle range worth a goroutine.
	MinChunk int
}

const defaultMinChunk = 64

// System is the parcel derivative kernel. It implements dynamo.System
// with a forcing vector of length one, the updraft velocity in m/s.
//
// A System is immutable after construction and safe for concurrent use
// from independent callers: every evaluation owns its output vector and
// per-worker partial sums, and touches no shared mutable state.
type System struct {
	pop      Population
	consts   constants.Table
	workers  int
	minChunk int
}

// NewSystem builds a kernel over the given population and constants.
func NewSystem(pop Population, c constants.Table, opts Options) (*System, error) {
	if err := pop.validate(); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	minChunk := opts.MinChunk
	if minChunk <= 0 {
		minChunk = defaultMinChunk
	}

	return &System{
		pop:      pop,
		consts:   c,
		workers:  workers,
		minChunk: minChunk,
	}, nil
}

// Population returns the kernel's particle population.
func (s *System) Population() Population { return s.pop }

// Constants returns the constants table the kernel was built with.
func (s *System) Constants() constants.Table { return s.consts }

// Workers returns the resolved reduction worker count.
func (s *System) Workers() int { return s.workers }

func (s *System) StateDim() int   { return NumScalars + s.pop.Len() }
func (s *System) ForcingDim() int { return 1 }

// Conserved returns total water (vapor plus liquid), the quantity the
// kernel preserves exactly by construction.
func (s *System) Conserved(x dynamo.State) float64 {
	return x[IdxVapor] + x[IdxLiquid]
}

// Derive implements dynamo.System. Integrators guarantee the state
// shape, so a mismatch here is a programmer error and panics; direct
// callers wanting an error should use Tendency.
func (s *System) Derive(x dynamo.State, u dynamo.Forcing, t float64) dynamo.State {
	dx, err := s.Tendency(x, u, t)
	if err != nil {
		panic(err)
	}
	return dx
}

// NewState assembles a state vector from the scalar fields and the
// initial wet radii.
func NewState(p, t, wv, wc, ss float64, radii []float64) dynamo.State {
	x := make(dynamo.State, NumScalars+len(radii))
	x[IdxPressure] = p
	x[IdxTemperature] = t
	x[IdxVapor] = wv
	x[IdxLiquid] = wc
	x[IdxSupersaturation] = ss
	copy(x[NumScalars:], radii)
	return x
}
