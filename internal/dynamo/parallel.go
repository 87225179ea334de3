package dynamo

import (
	"context"
	"runtime"
	"sync"
)

// ParallelFor executes fn over the index range [0, n) split into at most
// workers contiguous chunks. workers <= 0 selects runtime.NumCPU().
// Ranges shorter than minChunk run on the calling goroutine.
func ParallelFor(n, workers, minChunk int, fn func(start, end int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if n <= minChunk || workers == 1 {
		fn(0, n)
		return
	}

	if minChunk > 0 && n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelSum evaluates fn over chunks of [0, n) like ParallelFor and
// returns the sum of the per-chunk partial results. Each worker owns its
// partial; the combine step is a serial sum over at most workers values,
// so the only reduction-order nondeterminism is the chunk boundary
// placement.
func ParallelSum(n, workers, minChunk int, fn func(start, end int) float64) float64 {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if n <= minChunk || workers == 1 {
		return fn(0, n)
	}

	if minChunk > 0 && n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers
	partials := make([]float64, workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(idx, s, e int) {
			defer wg.Done()
			partials[idx] = fn(s, e)
		}(w, start, end)
	}

	wg.Wait()

	total := 0.0
	for _, p := range partials {
		total += p
	}
	return total
}

// Ensemble runs the same system and configuration over a set of
// forcings, one concurrent simulation per forcing. Metrics are stateful,
// so each run gets its own set built from the registered factories.
type Ensemble struct {
	base      *Simulator
	forcings  []Forcing
	factories []func() Metric
}

func NewEnsemble(s *Simulator, forcings []Forcing) *Ensemble {
	return &Ensemble{base: s, forcings: forcings}
}

func (e *Ensemble) AddMetricFactory(f func() Metric) {
	e.factories = append(e.factories, f)
}

func (e *Ensemble) Run(ctx context.Context, x0 State, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.forcings))
	errs := make([]error, len(e.forcings))

	var wg sync.WaitGroup
	for i := range e.forcings {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s := New(e.base.dyn, e.base.integrator)
			for _, f := range e.factories {
				s.AddMetric(f())
			}

			results[idx], errs[idx] = s.Run(ctx, x0, e.forcings[idx].Clone(), cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
