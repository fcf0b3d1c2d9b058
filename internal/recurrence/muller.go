package recurrence

import (
	"errors"
	"fmt"
	"math/big"
)

// Canonical seeds and step count for Muller's recurrence.
const (
	DefaultSeed0 = 2.0
	DefaultSeed1 = -4.0
	DefaultSteps = 30
)

// ErrDivisionByZero indicates a zero denominator while iterating the map,
// which happens for degenerate seed pairs (any u(k) = 0).
var ErrDivisionByZero = errors.New("recurrence: division by zero")

// Recurrence coefficients.
var (
	coefA = big.NewRat(111, 1)
	coefB = big.NewRat(1130, 1)
	coefC = big.NewRat(3000, 1)
)

// Trajectory is an ordered exact-rational sequence u(0)..u(steps-1).
type Trajectory []*big.Rat

// Float64 projects the trajectory to double precision, one value per index.
func (t Trajectory) Float64() []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i], _ = r.Float64()
	}
	return out
}

// Decimal renders each value with prec digits after the decimal point.
func (t Trajectory) Decimal(prec int) []string {
	out := make([]string, len(t))
	for i, r := range t {
		out[i] = r.FloatString(prec)
	}
	return out
}

// step computes u(k+1) from u(k-1) and u(k) in exact arithmetic.
func step(ukm1, uk *big.Rat) (*big.Rat, error) {
	if uk.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	prod := new(big.Rat).Mul(uk, ukm1)
	if prod.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	next := new(big.Rat).Set(coefA)
	next.Sub(next, new(big.Rat).Quo(coefB, uk))
	next.Add(next, new(big.Rat).Quo(coefC, prod))
	return next, nil
}

// Reference computes the exact trajectory from two rational seeds. The
// result has exactly steps values, seeds included. Identical inputs always
// produce bit-identical rationals.
func Reference(seed0, seed1 *big.Rat, steps int) (Trajectory, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("recurrence: steps must be positive, got %d", steps)
	}
	traj := make(Trajectory, 0, steps)
	traj = append(traj, new(big.Rat).Set(seed0))
	if steps == 1 {
		return traj, nil
	}
	traj = append(traj, new(big.Rat).Set(seed1))
	for k := 2; k < steps; k++ {
		next, err := step(traj[k-2], traj[k-1])
		if err != nil {
			return nil, fmt.Errorf("computing u(%d): %w", k, err)
		}
		traj = append(traj, next)
	}
	return traj, nil
}

// DefaultReference computes the exact trajectory for the canonical seeds.
func DefaultReference(steps int) (Trajectory, error) {
	return Reference(new(big.Rat).SetFloat64(DefaultSeed0), new(big.Rat).SetFloat64(DefaultSeed1), steps)
}

// StepFloat computes u(k+1) from u(k-1) and u(k) in double precision.
func StepFloat(ukm1, uk float64) float64 {
	return 111 - 1130/uk + 3000/(uk*ukm1)
}

// Float evaluates the trajectory in double precision. No zero-denominator
// guard: IEEE division yields Inf/NaN, which the caller can observe.
func Float(seed0, seed1 float64, steps int) []float64 {
	if steps <= 0 {
		return nil
	}
	traj := make([]float64, 0, steps)
	traj = append(traj, seed0)
	if steps == 1 {
		return traj
	}
	traj = append(traj, seed1)
	for k := 2; k < steps; k++ {
		traj = append(traj, StepFloat(traj[k-2], traj[k-1]))
	}
	return traj
}
