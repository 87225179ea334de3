package dynamo

import (
	"context"
	"math"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, x0 State, u Forcing, cfg Config) (*Result, error) {
	if err := s.validate(x0, u, cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		States:  make([]State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	initial := s.conserved(x)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		var newX State
		var stepErr error

		if cfg.Adaptive {
			newX, dt, stepErr = s.adaptiveStep(x, u, t, dt, cfg)
		} else {
			newX = s.integrator.Step(s.dyn, x, u, t, dt)
		}

		if stepErr != nil {
			result.Errors = append(result.Errors, stepErr)
		}

		if cfg.ValidateState && !newX.IsValid() {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			break
		}

		x = newX
		t += dt
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	final := s.conserved(x)
	if initial != 0 {
		result.ConservationDrift = math.Abs(final-initial) / math.Abs(initial)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validate(x0 State, u Forcing, cfg Config) error {
	if len(x0) != s.dyn.StateDim() {
		return ErrDimensionMismatch
	}
	if len(u) != s.dyn.ForcingDim() {
		return ErrDimensionMismatch
	}
	if cfg.Dt <= 0 {
		return SimError{Message: "dt must be positive"}
	}
	if cfg.Duration <= 0 {
		return SimError{Message: "duration must be positive"}
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return SimError{Message: "tolerance must be positive for adaptive stepping"}
	}
	return nil
}

func (s *Simulator) conserved(x State) float64 {
	if c, ok := s.dyn.(Conserver); ok {
		return c.Conserved(x)
	}
	return 0
}

func (s *Simulator) adaptiveStep(x State, u Forcing, t, dt float64, cfg Config) (State, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		newX, dtNext, err := adaptive.StepAdaptive(s.dyn, x, u, t, dt, cfg.Tolerance)
		if dtNext < cfg.MinDt {
			dtNext = cfg.MinDt
		}
		if dtNext > cfg.MaxDt {
			dtNext = cfg.MaxDt
		}
		return newX, dtNext, err
	}

	// Step doubling for integrators without an embedded error estimate.
	x1 := s.integrator.Step(s.dyn, x, u, t, dt)
	xHalf := s.integrator.Step(s.dyn, x, u, t, dt/2)
	x2 := s.integrator.Step(s.dyn, xHalf, u, t+dt/2, dt/2)

	err := x1.Sub(x2).Norm()

	if err > cfg.Tolerance && dt/2 >= cfg.MinDt {
		return s.adaptiveStep(x, u, t, dt/2, cfg)
	}

	if err < cfg.Tolerance/10 && dt < cfg.MaxDt {
		dt = math.Min(dt*2, cfg.MaxDt)
	}

	return x2, dt, nil
}

// RunWithCallback advances the simulation one step at a time, invoking
// callback before each step. Returning false from the callback stops the
// run. Unlike Run, no state history is retained.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, u Forcing, cfg Config, callback func(State, float64) bool) error {
	if err := s.validate(x0, u, cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(x, t) {
			return nil
		}

		x = s.integrator.Step(s.dyn, x, u, t, dt)
		t += dt

		if cfg.ValidateState && !x.IsValid() {
			return &SimulationError{Time: t, State: x.Clone(), Wrapped: ErrInvalidState}
		}
	}

	return nil
}
