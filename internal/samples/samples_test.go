package samples

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glatard/fuzzy/internal/stats"
)

func TestParse(t *testing.T) {
	input := `# index x run matrix
2 2 2
-4 -4 -4

18.5 18.4999 18.5001
`
	table, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if table.Steps() != 3 || table.Runs() != 3 {
		t.Fatalf("expected 3x3 table, got %dx%d", table.Steps(), table.Runs())
	}
	if table[0][0] != 2 || table[1][2] != -4 || table[2][1] != 18.4999 {
		t.Errorf("unexpected values: %v", table)
	}
}

func TestParse_InvalidValue(t *testing.T) {
	_, err := Parse(strings.NewReader("1.0 oops\n"))
	if err == nil {
		t.Fatal("expected error for non-numeric field")
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestParse_IrregularShapePassesThrough(t *testing.T) {
	// The reader consumes the file as-is; shape is enforced by Summarize.
	table, err := Parse(strings.NewReader("1 2\n3\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := stats.Summarize(table); err == nil {
		t.Error("expected Summarize to reject the irregular table")
	}
}

func TestRoundTrip(t *testing.T) {
	table := stats.Table{
		{2, 2, 2},
		{-4.000000000000001, -4, -3.999999999999999},
		{18.5, 100.0 / 3.0, math.Pi},
	}

	var buf bytes.Buffer
	if err := Format(&buf, table); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	back, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if back.Steps() != table.Steps() || back.Runs() != table.Runs() {
		t.Fatalf("shape changed: %dx%d -> %dx%d", table.Steps(), table.Runs(), back.Steps(), back.Runs())
	}
	for i := range table {
		for j := range table[i] {
			if back[i][j] != table[i][j] {
				t.Errorf("value [%d][%d] changed: %v -> %v", i, j, table[i][j], back[i][j])
			}
		}
	}
}

func TestReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.dat")
	table := stats.Table{{1, 2}, {3, 4}}

	if err := Write(path, table); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	back, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if back.Steps() != 2 || back.Runs() != 2 || back[1][0] != 3 {
		t.Errorf("unexpected table: %v", back)
	}
}

func TestRead_Missing(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.dat")); err == nil {
		t.Error("expected error for missing file")
	}
}
