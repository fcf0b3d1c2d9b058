package mca

import (
	"context"
	"sync"

	"github.com/glatard/fuzzy/internal/recurrence"
	"github.com/glatard/fuzzy/internal/stats"
)

// Ensemble collects independent perturbed evaluations of the recurrence.
type Ensemble struct {
	Seed0     float64
	Seed1     float64
	Steps     int
	Runs      int
	SeedStart int64
}

// DefaultEnsemble uses the canonical seeds and step count.
func DefaultEnsemble(runs int, seedStart int64) Ensemble {
	return Ensemble{
		Seed0:     recurrence.DefaultSeed0,
		Seed1:     recurrence.DefaultSeed1,
		Steps:     recurrence.DefaultSteps,
		Runs:      runs,
		SeedStart: seedStart,
	}
}

// Collect runs the ensemble, one goroutine per run with its own seeded
// noise source, and returns the samples as an index-major table (rows are
// sequence indices, columns are runs).
func (e Ensemble) Collect(ctx context.Context) (stats.Table, error) {
	if e.Steps <= 0 || e.Runs <= 0 {
		return nil, stats.ErrEmptyTable
	}

	trajectories := make([][]float64, e.Runs)

	var wg sync.WaitGroup
	for i := 0; i < e.Runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			noise := NewNoise(e.SeedStart + int64(idx))
			trajectories[idx] = noise.Run(e.Seed0, e.Seed1, e.Steps)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Transpose runs-major trajectories into the index-major table.
	table := make(stats.Table, e.Steps)
	for k := 0; k < e.Steps; k++ {
		row := make([]float64, e.Runs)
		for i := 0; i < e.Runs; i++ {
			row[i] = trajectories[i][k]
		}
		table[k] = row
	}
	return table, nil
}
