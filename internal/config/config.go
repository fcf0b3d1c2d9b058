package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/glatard/fuzzy/internal/recurrence"
)

const (
	DefaultRuns     = 100
	DefaultSeed     = 1
	DefaultDataDir  = ".fuzzy"
	DefaultDigits   = 30
	DefaultLogLevel = "info"
	DefaultSVG      = "comparison.svg"
	DefaultPNG      = "comparison.png"
)

type Config struct {
	Seed0    float64    `yaml:"seed0"`
	Seed1    float64    `yaml:"seed1"`
	Steps    int        `yaml:"steps"`
	Runs     int        `yaml:"runs"`
	Seed     int64      `yaml:"seed"`
	Digits   int        `yaml:"digits"`
	DataDir  string     `yaml:"data_dir"`
	LogLevel string     `yaml:"log_level"`
	Plot     PlotConfig `yaml:"plot"`
}

type PlotConfig struct {
	Title  string  `yaml:"title"`
	Width  float64 `yaml:"width_in"`
	Height float64 `yaml:"height_in"`
	SVG    string  `yaml:"svg"`
	PNG    string  `yaml:"png"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed0:    recurrence.DefaultSeed0,
		Seed1:    recurrence.DefaultSeed1,
		Steps:    recurrence.DefaultSteps,
		Runs:     DefaultRuns,
		Seed:     DefaultSeed,
		Digits:   DefaultDigits,
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		Plot: PlotConfig{
			Title:  "Muller recurrence under MCA perturbation",
			Width:  6,
			Height: 4,
			SVG:    DefaultSVG,
			PNG:    DefaultPNG,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
