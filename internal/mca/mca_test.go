package mca

import (
	"context"
	"math"
	"testing"

	"github.com/glatard/fuzzy/internal/recurrence"
)

func TestPerturb_AtMostOneULP(t *testing.T) {
	n := NewNoise(1)
	for i := 0; i < 1000; i++ {
		x := 18.5
		y := n.Perturb(x)
		if y != x && math.Float64bits(y)^math.Float64bits(x) != 1 {
			t.Fatalf("Perturb changed more than the last mantissa bit: %x -> %x",
				math.Float64bits(x), math.Float64bits(y))
		}
	}
}

func TestPerturb_BothOutcomes(t *testing.T) {
	n := NewNoise(7)
	same, flipped := 0, 0
	for i := 0; i < 1000; i++ {
		if n.Perturb(1.0) == 1.0 {
			same++
		} else {
			flipped++
		}
	}
	if same == 0 || flipped == 0 {
		t.Errorf("expected both outcomes, got same=%d flipped=%d", same, flipped)
	}
}

func TestRun_Deterministic(t *testing.T) {
	a := NewNoise(42).Run(recurrence.DefaultSeed0, recurrence.DefaultSeed1, recurrence.DefaultSteps)
	b := NewNoise(42).Run(recurrence.DefaultSeed0, recurrence.DefaultSeed1, recurrence.DefaultSteps)

	for k := range a {
		if a[k] != b[k] {
			t.Fatalf("same seed diverged at index %d: %v vs %v", k, a[k], b[k])
		}
	}
}

func TestRun_SeedsUnperturbed(t *testing.T) {
	traj := NewNoise(3).Run(2, -4, 10)
	if traj[0] != 2 || traj[1] != -4 {
		t.Errorf("seeds must be exact, got %v %v", traj[0], traj[1])
	}
}

func TestRun_ConvergesToHundred(t *testing.T) {
	// Noise only accelerates what rounding already does: every perturbed
	// run ends up at the spurious fixed point.
	traj := NewNoise(11).Run(recurrence.DefaultSeed0, recurrence.DefaultSeed1, recurrence.DefaultSteps)
	final := traj[len(traj)-1]
	if math.Abs(final-100) > 1.0 {
		t.Errorf("perturbed run should approach 100, got %v", final)
	}
}

func TestEnsemble_Collect(t *testing.T) {
	e := DefaultEnsemble(8, 1)
	table, err := e.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if table.Steps() != recurrence.DefaultSteps || table.Runs() != 8 {
		t.Fatalf("expected %dx8 table, got %dx%d", recurrence.DefaultSteps, table.Steps(), table.Runs())
	}
	if err := table.Validate(); err != nil {
		t.Errorf("table should be rectangular: %v", err)
	}

	// Seed rows carry no noise.
	for i := 0; i < 8; i++ {
		if table[0][i] != recurrence.DefaultSeed0 || table[1][i] != recurrence.DefaultSeed1 {
			t.Errorf("run %d seeds perturbed: %v %v", i, table[0][i], table[1][i])
		}
	}

	// Distinct noise seeds should disagree somewhere past the seeds.
	differs := false
	for k := 2; k < table.Steps() && !differs; k++ {
		for i := 1; i < 8; i++ {
			if table[k][i] != table[k][0] {
				differs = true
				break
			}
		}
	}
	if !differs {
		t.Error("independent runs are identical; noise is not being injected")
	}
}

func TestEnsemble_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := DefaultEnsemble(4, 1).Collect(ctx); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestEnsemble_InvalidDimensions(t *testing.T) {
	e := Ensemble{Steps: 0, Runs: 4}
	if _, err := e.Collect(context.Background()); err == nil {
		t.Error("expected error for zero steps")
	}
	e = Ensemble{Steps: 10, Runs: 0}
	if _, err := e.Collect(context.Background()); err == nil {
		t.Error("expected error for zero runs")
	}
}
