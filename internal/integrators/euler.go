// Package integrators provides time-stepping schemes over dynamo
// systems. The parcel kernel only evaluates tendencies; these drivers
// advance the state.
package integrators

import "github.com/san-kum/parcelsim/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Forcing, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
