package config

import (
	"strings"

	"taib-bench/internal/model"
)

type BenchmarkConfig struct {
	Benchmark BenchmarkInfo `yaml:"benchmark"`
}

type BenchmarkInfo struct {
	Name        string       `yaml:"name" validate:"required"`
	Description string       `yaml:"description"`
	LogLevel    string       `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	Benchmarks  []string     `yaml:"benchmarks" validate:"dive,required"`
	Model       ModelConfig  `yaml:"model"`
	Plot        PlotConfig   `yaml:"plot"`
	Output      OutputConfig `yaml:"output"`
	Data        DataConfig   `yaml:"data"`
}

type ModelConfig struct {
	A       float64 `yaml:"a" validate:"gt=0"`
	Epsilon float64 `yaml:"epsilon" validate:"gt=0"`
	Tau0    float64 `yaml:"tau_0" validate:"gt=0"`
}

type PlotConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Tikz    bool   `yaml:"tikz"`
	PNG     bool   `yaml:"png"`
	Width   int    `yaml:"width" validate:"gte=0"`
	Height  int    `yaml:"height" validate:"gte=0"`
}

type OutputConfig struct {
	CSV         string `yaml:"csv"`
	Report      string `yaml:"report" validate:"omitempty,oneof=markdown json none"`
	SpoolDir    string `yaml:"spool_dir"`
	MetricsFile string `yaml:"metrics_file"`
}

type DataConfig struct {
	DB DatabaseConfig `yaml:"db"`
}

type DatabaseConfig struct {
	Host  string `yaml:"host"`
	Name  string `yaml:"name"`
	Org   string `yaml:"org"`
	Token string `yaml:"token"`
}

// Enabled reports whether an InfluxDB host is configured. A placeholder left
// unexpanded because its variable is unset counts as not configured.
func (db DatabaseConfig) Enabled() bool {
	return resolved(db.Host)
}

func resolved(v string) bool {
	return v != "" && !strings.Contains(v, "${")
}

// Default returns the configuration used when no file is given.
func Default() *BenchmarkConfig {
	m := model.Default()
	return &BenchmarkConfig{
		Benchmark: BenchmarkInfo{
			Name:        "taib-reference",
			Description: "TAIB latency model against GR and quantum-coherence references",
			LogLevel:    "info",
			Model: ModelConfig{
				A:       m.A,
				Epsilon: m.Epsilon,
				Tau0:    m.Tau0,
			},
			Plot: PlotConfig{
				Enabled: true,
				Dir:     "plots",
				Tikz:    true,
				PNG:     true,
			},
			Output: OutputConfig{
				CSV:      "results.csv",
				Report:   "markdown",
				SpoolDir: "spool",
			},
		},
	}
}

// GetModel builds the latency model from the configured constants.
func (c *BenchmarkConfig) GetModel() (model.Model, error) {
	m := c.Benchmark.Model
	return model.New(m.A, m.Epsilon, m.Tau0)
}
