// Package analysis compares perturbed empirical runs of the recurrence
// against the exact reference trajectory.
package analysis

import (
	"math"

	"github.com/glatard/fuzzy/internal/recurrence"
	"github.com/glatard/fuzzy/internal/stats"
)

// divergenceTolerance is the relative gap past which the empirical mean is
// considered to have left the reference trajectory.
const divergenceTolerance = 0.1

// Report holds the output of one comparison. All slices share the same
// index range: the reference truncated to the empirical table's length (or
// the other way around, whichever is shorter).
type Report struct {
	Reference  []float64    // exact trajectory, projected to float64
	Bands      []stats.Band // per-index mean and standard-error band
	Digits     []float64    // per-index surviving significant digits
	Divergence int          // first index where the mean leaves the reference, -1 if never
	Steps      int
	Runs       int
}

// Compare summarizes the table and sets it against the reference. The two
// inputs may have different lengths; the report covers the common prefix.
func Compare(ref recurrence.Trajectory, table stats.Table) (*Report, error) {
	bands, err := stats.Summarize(table)
	if err != nil {
		return nil, err
	}
	digits, err := stats.SignificantDigits(table)
	if err != nil {
		return nil, err
	}

	refF := ref.Float64()
	n := len(refF)
	if len(bands) < n {
		n = len(bands)
	}
	refF = refF[:n]
	bands = bands[:n]
	digits = digits[:n]

	return &Report{
		Reference:  refF,
		Bands:      bands,
		Digits:     digits,
		Divergence: divergenceIndex(refF, bands),
		Steps:      n,
		Runs:       table.Runs(),
	}, nil
}

// Means returns the empirical mean trajectory.
func (r *Report) Means() []float64 {
	out := make([]float64, len(r.Bands))
	for i, b := range r.Bands {
		out[i] = b.Mean
	}
	return out
}

// MinDigits returns the lowest significant-digit count across indices.
func (r *Report) MinDigits() float64 {
	min := stats.MaxDigits
	for _, d := range r.Digits {
		if d < min {
			min = d
		}
	}
	return min
}

// Metrics returns headline numbers for run metadata.
func (r *Report) Metrics() map[string]float64 {
	m := map[string]float64{
		"divergence_index": float64(r.Divergence),
		"min_digits":       r.MinDigits(),
	}
	if r.Steps > 0 {
		m["final_mean"] = r.Bands[r.Steps-1].Mean
		m["final_reference"] = r.Reference[r.Steps-1]
	}
	return m
}

func divergenceIndex(ref []float64, bands []stats.Band) int {
	for i := range ref {
		scale := math.Abs(ref[i])
		if scale < 1 {
			scale = 1
		}
		if math.Abs(bands[i].Mean-ref[i]) > divergenceTolerance*scale {
			return i
		}
	}
	return -1
}
