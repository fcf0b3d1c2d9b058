// Package stats summarizes tables of perturbed recurrence samples.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Domain errors for table summarization.
var (
	// ErrShapeMismatch indicates rows with unequal run counts.
	ErrShapeMismatch = errors.New("stats: shape mismatch")

	// ErrEmptyTable indicates a table with no rows or no columns.
	ErrEmptyTable = errors.New("stats: empty table")
)

// Table holds empirical samples: rows are sequence indices, columns are
// independent perturbed runs.
type Table [][]float64

// Validate checks that the table is non-empty and rectangular.
func (t Table) Validate() error {
	if len(t) == 0 || len(t[0]) == 0 {
		return ErrEmptyTable
	}
	cols := len(t[0])
	for i, row := range t {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d runs, want %d", ErrShapeMismatch, i, len(row), cols)
		}
	}
	return nil
}

// Steps returns the number of sequence indices (rows).
func (t Table) Steps() int { return len(t) }

// Runs returns the number of independent runs (columns of the first row).
func (t Table) Runs() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

// Band is the per-index summary across runs: the arithmetic mean and the
// band delimited by one standard error (population std dev / sqrt(runs))
// on each side.
type Band struct {
	Mean   float64
	Upper  float64
	Lower  float64
	StdErr float64
}

// Summarize computes one Band per sequence index, preserving row order.
// It is a pure function over its input and fails with ErrShapeMismatch on
// irregular tables.
func Summarize(t Table) ([]Band, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	sqrtN := math.Sqrt(float64(t.Runs()))
	bands := make([]Band, len(t))
	for i, row := range t {
		mean := stat.Mean(row, nil)
		se := stat.PopStdDev(row, nil) / sqrtN
		bands[i] = Band{
			Mean:   mean,
			Upper:  mean + se,
			Lower:  mean - se,
			StdErr: se,
		}
	}
	return bands, nil
}
