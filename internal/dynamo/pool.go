package dynamo

import "sync"

// StatePool recycles fixed-size state buffers. The adaptive integrators
// burn several stage vectors per step; for particle-heavy parcels those
// allocations dominate, so the stages come from here instead.
type StatePool struct {
	pool sync.Pool
	size int
}

func NewStatePool(stateSize int) *StatePool {
	return &StatePool{
		size: stateSize,
		pool: sync.Pool{
			New: func() interface{} {
				return make(State, stateSize)
			},
		},
	}
}

func (p *StatePool) Get() State {
	return p.pool.Get().(State)
}

func (p *StatePool) Put(s State) {
	if len(s) == p.size {
		for i := range s {
			s[i] = 0
		}
		p.pool.Put(s)
	}
}

func (p *StatePool) GetAndCopy(src State) State {
	dst := p.Get()
	copy(dst, src)
	return dst
}
