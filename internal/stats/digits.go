package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MaxDigits is the decimal precision of an unperturbed double: log10(2^53).
const MaxDigits = 15.95

// SignificantDigits estimates, per sequence index, how many decimal digits
// of the mean survive the perturbation noise:
//
//	s = -log10(|sigma / mu|)
//
// where sigma is the population standard deviation across runs. A zero
// spread reports MaxDigits; a zero mean reports 0. Values are clamped to
// [0, MaxDigits].
func SignificantDigits(t Table) ([]float64, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	digits := make([]float64, len(t))
	for i, row := range t {
		mean := stat.Mean(row, nil)
		sigma := stat.PopStdDev(row, nil)
		switch {
		case sigma == 0:
			digits[i] = MaxDigits
		case mean == 0:
			digits[i] = 0
		default:
			s := -math.Log10(math.Abs(sigma / mean))
			digits[i] = math.Min(math.Max(s, 0), MaxDigits)
		}
	}
	return digits, nil
}
