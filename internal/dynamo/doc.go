// Package dynamo provides the simulation primitives the parcel model is
// built on.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of forced ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical integrator interface
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	sys, _ := parcel.NewSystem(pop, consts, parcel.Options{})
//	integ := integrators.NewRK4()
//	sim := dynamo.New(sys, integ)
//	result, _ := sim.Run(ctx, x0, forcing, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For concurrent runs over a
// set of forcings, use the [Ensemble] type, which gives every run its
// own Simulator.
package dynamo
