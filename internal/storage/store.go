// Package storage archives analysis runs on disk: one directory per run
// with metadata.json and a summary.csv of the per-index comparison.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/glatard/fuzzy/internal/analysis"
	"github.com/glatard/fuzzy/internal/stats"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Source    string             `json:"source"`
	Seed0     float64            `json:"seed0"`
	Seed1     float64            `json:"seed1"`
	Steps     int                `json:"steps"`
	Runs      int                `json:"runs"`
	Metrics   map[string]float64 `json:"metrics"`
}

var summaryHeader = []string{"index", "reference", "mean", "upper", "lower", "digits"}

// Save writes the report under a fresh run directory and returns the run id.
func (s *Store) Save(meta RunMetadata, rep *analysis.Report) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Steps = rep.Steps
	meta.Runs = rep.Runs
	meta.Metrics = rep.Metrics()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "summary.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(summaryHeader); err != nil {
		return "", err
	}
	for i := 0; i < rep.Steps; i++ {
		row := []string{
			strconv.Itoa(i),
			formatFloat(rep.Reference[i]),
			formatFloat(rep.Bands[i].Mean),
			formatFloat(rep.Bands[i].Upper),
			formatFloat(rep.Bands[i].Lower),
			formatFloat(rep.Digits[i]),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSummary reconstructs the report from a stored summary.csv. The run
// count and divergence index come from the stored metadata when present.
func (s *Store) LoadSummary(runID string) (*analysis.Report, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "summary.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rep := &analysis.Report{Divergence: -1}
	if len(records) > 1 {
		for _, record := range records[1:] {
			if len(record) != len(summaryHeader) {
				return nil, fmt.Errorf("storage: malformed summary row in %s", runID)
			}
			vals := make([]float64, 0, len(summaryHeader)-1)
			for _, field := range record[1:] {
				v, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return nil, fmt.Errorf("storage: malformed summary value %q in %s", field, runID)
				}
				vals = append(vals, v)
			}
			rep.Reference = append(rep.Reference, vals[0])
			rep.Bands = append(rep.Bands, stats.Band{
				Mean:   vals[1],
				Upper:  vals[2],
				Lower:  vals[3],
				StdErr: vals[2] - vals[1],
			})
			rep.Digits = append(rep.Digits, vals[4])
		}
	}
	rep.Steps = len(rep.Reference)

	if meta, err := s.Load(runID); err == nil {
		rep.Runs = meta.Runs
		if d, ok := meta.Metrics["divergence_index"]; ok {
			rep.Divergence = int(d)
		}
	}

	return rep, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 17, 64)
}
