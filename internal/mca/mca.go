// Package mca simulates Monte Carlo Arithmetic for the recurrence: it
// injects a random flip of the least-significant mantissa bit after every
// floating-point operation, probing how rounding noise propagates through
// repeated runs.
package mca

import (
	"math"
	"math/rand"
)

// Noise perturbs doubles at the last mantissa bit. Not safe for concurrent
// use; give each run its own Noise.
type Noise struct {
	rng *rand.Rand
}

// NewNoise creates a deterministic noise source from seed.
func NewNoise(seed int64) *Noise {
	return &Noise{rng: rand.New(rand.NewSource(seed))}
}

// Perturb flips the least-significant mantissa bit of x with probability
// one half.
func (n *Noise) Perturb(x float64) float64 {
	if n.rng.Intn(2) == 0 {
		return x
	}
	return math.Float64frombits(math.Float64bits(x) ^ 1)
}

// Step evaluates one recurrence step with noise injected after every
// arithmetic operation, mimicking an instrumented floating-point unit.
func (n *Noise) Step(ukm1, uk float64) float64 {
	div1 := n.Perturb(1130 / uk)
	prod := n.Perturb(uk * ukm1)
	div2 := n.Perturb(3000 / prod)
	return n.Perturb(n.Perturb(111-div1) + div2)
}

// Run evaluates one noisy trajectory of the given length, seeds included.
// Seeds are exact; noise enters from index 2 on.
func (n *Noise) Run(seed0, seed1 float64, steps int) []float64 {
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
		traj = append(traj, n.Step(traj[k-2], traj[k-1]))
	}
	return traj
}
