package config

import "sort"

// Presets are ready-made experiment configurations.
var Presets = map[string]*Config{
	// quick smoke run, small ensemble
	"quick": {
		Steps: 15, Runs: 20, Seed: 1,
	},
	// the canonical setup from the original notebook: 30 iterations,
	// 100 perturbed runs
	"notebook": {
		Steps: 30, Runs: 100, Seed: 1,
	},
	// larger ensemble for tighter standard-error bands
	"deep": {
		Steps: 30, Runs: 1000, Seed: 1,
	},
	// iterate past the float64 collapse to show both plateaus
	"long": {
		Steps: 64, Runs: 100, Seed: 1,
	},
}

func GetPreset(name string) *Config {
	base, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Steps = base.Steps
	cfg.Runs = base.Runs
	cfg.Seed = base.Seed
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
