package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"taib-bench/internal/logging"
	"taib-bench/internal/results"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

func LoadConfig(filepath string) (*BenchmarkConfig, error) {
	config, _, err := LoadConfigWithContent(filepath)
	return config, err
}

// LoadConfigWithContent parses a config file over the defaults. It also
// returns the raw file content, which is stored with the run.
func LoadConfigWithContent(filepath string) (*BenchmarkConfig, string, error) {
	logger := logging.GetLogger()

	if filepath == "" {
		config := Default()
		if err := validateConfig(config); err != nil {
			return nil, "", fmt.Errorf("invalid default config: %w", err)
		}
		return config, "", nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to read config file")
		return nil, "", err
	}

	originalContent := string(data)

	config, err := ParseConfig(originalContent)
	if err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to parse config file")
		return nil, "", err
	}

	return config, originalContent, nil
}

// ParseConfig expands ${VAR} references, decodes the YAML on top of Default()
// and validates the result.
func ParseConfig(content string) (*BenchmarkConfig, error) {
	expanded := expandEnvVars(content)

	config := Default()
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return nil, err
	}

	for i, name := range config.Benchmark.Benchmarks {
		config.Benchmark.Benchmarks[i] = strings.ToUpper(strings.TrimSpace(name))
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func expandEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		envVar := strings.Trim(match, "${}")
		if value := os.Getenv(envVar); value != "" {
			return value
		}
		return match
	})
}

func validateConfig(config *BenchmarkConfig) error {
	if err := validate.Struct(config); err != nil {
		return err
	}

	if _, err := config.GetModel(); err != nil {
		return err
	}

	seen := make(map[results.TestID]bool)
	for _, name := range config.Benchmark.Benchmarks {
		id, err := results.ParseTestID(name)
		if err != nil {
			return err
		}
		if seen[id] {
			return fmt.Errorf("benchmark %s listed more than once", id)
		}
		seen[id] = true
	}

	plot := config.Benchmark.Plot
	if plot.Enabled {
		if plot.Dir == "" {
			return fmt.Errorf("plot.dir is required when plotting is enabled")
		}
		if !plot.Tikz && !plot.PNG {
			return fmt.Errorf("plot: at least one of tikz or png must be enabled")
		}
	}

	db := config.Benchmark.Data.DB
	if db.Enabled() {
		if !resolved(db.Name) || !resolved(db.Org) || !resolved(db.Token) {
			return fmt.Errorf("incomplete database configuration")
		}
	}

	return nil
}
