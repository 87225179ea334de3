package dynamo

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
)

func TestParallelForCoversRange(t *testing.T) {
	for _, workers := range []int{1, 2, 4, 7} {
		var visited int64
		ParallelFor(1000, workers, 16, func(start, end int) {
			atomic.AddInt64(&visited, int64(end-start))
		})
		if visited != 1000 {
			t.Errorf("workers=%d: visited %d of 1000 indices", workers, visited)
		}
	}
}

func TestParallelForEmptyRange(t *testing.T) {
	called := false
	ParallelFor(0, 4, 16, func(start, end int) {
		if end > start {
			called = true
		}
	})
	if called {
		t.Error("empty range must not produce work")
	}
}

func TestParallelSumMatchesSerial(t *testing.T) {
	n := 10000
	values := make([]float64, n)
	for i := range values {
		values[i] = math.Sin(float64(i)) * 1e-3
	}

	serial := 0.0
	for _, v := range values {
		serial += v
	}

	for _, workers := range []int{1, 2, 4, 8, 13} {
		got := ParallelSum(n, workers, 64, func(start, end int) float64 {
			sum := 0.0
			for i := start; i < end; i++ {
				sum += values[i]
			}
			return sum
		})

		if math.Abs(got-serial) > 1e-9*math.Abs(serial) {
			t.Errorf("workers=%d: sum %v differs from serial %v", workers, got, serial)
		}
	}
}

func TestParallelSumSmallRangeStaysSerial(t *testing.T) {
	// Below minChunk the calling goroutine does all the work, so the
	// result is bit-identical to a plain loop.
	values := []float64{0.1, 0.2, 0.3}
	serial := values[0] + values[1] + values[2]

	got := ParallelSum(len(values), 8, 16, func(start, end int) float64 {
		sum := 0.0
		for i := start; i < end; i++ {
			sum += values[i]
		}
		return sum
	})

	if got != serial {
		t.Errorf("expected bit-identical serial sum, got %v want %v", got, serial)
	}
}

func TestEnsembleSweep(t *testing.T) {
	base := New(&forcedDecay{}, &eulerStep{})
	forcings := []Forcing{{0.5}, {1.0}, {2.0}}

	ens := NewEnsemble(base, forcings)
	results, err := ens.Run(context.Background(), State{0.0}, Config{Dt: 0.01, Duration: 20.0})
	if err != nil {
		t.Fatalf("ensemble run failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, r := range results {
		final := r.States[len(r.States)-1][0]
		if math.Abs(final-forcings[i][0]) > 0.01 {
			t.Errorf("run %d: expected relaxation to %v, got %v", i, forcings[i][0], final)
		}
	}
}

func TestStatePoolRoundTrip(t *testing.T) {
	p := NewStatePool(4)

	s := p.Get()
	if len(s) != 4 {
		t.Fatalf("expected size 4, got %d", len(s))
	}
	s[0] = 42
	p.Put(s)

	s2 := p.Get()
	for i, v := range s2 {
		if v != 0 {
			t.Errorf("recycled buffer not zeroed at %d: %v", i, v)
		}
	}

	// Wrong-size buffers are dropped, not recycled.
	p.Put(make(State, 7))
}
