// Package samples reads and writes the whitespace-delimited matrix format
// used to exchange perturbed runs with the instrumented toolchain. Rows are
// sequence indices, columns are independent runs.
package samples

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/glatard/fuzzy/internal/stats"
)

// Parse reads a matrix from r. Blank lines and lines starting with '#' are
// skipped. The shape is not validated here: the matrix is consumed as-is
// and irregular tables are rejected at summarization time.
func Parse(r io.Reader) (stats.Table, error) {
	var table stats.Table

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		row := make([]float64, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("samples: line %d: invalid value %q: %w", lineNo, f, err)
			}
			row = append(row, v)
		}
		table = append(table, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("samples: %w", err)
	}

	return table, nil
}

// Read loads a matrix from path.
func Read(path string) (stats.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Format writes the matrix to w, one row per line, values separated by a
// single space and formatted to round-trip exactly.
func Format(w io.Writer, t stats.Table) error {
	bw := bufio.NewWriter(w)
	for _, row := range t {
		for j, v := range row {
			if j > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(strconv.FormatFloat(v, 'g', 17, 64)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Write saves the matrix to path.
func Write(path string, t stats.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return Format(f, t)
}
