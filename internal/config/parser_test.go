package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig_OverlaysDefaults(t *testing.T) {
	cfg, err := ParseConfig(`
benchmark:
  name: custom
  benchmarks: [bell, Kerr]
  model:
    epsilon: 5.5
  output:
    report: json
`)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	b := cfg.Benchmark
	if b.Name != "custom" {
		t.Fatalf("name = %q", b.Name)
	}
	if got := strings.Join(b.Benchmarks, ","); got != "BELL,KERR" {
		t.Fatalf("benchmarks = %q", got)
	}
	if b.Model.Epsilon != 5.5 || b.Model.A != 2.9e-122 || b.Model.Tau0 != 1.0 {
		t.Fatalf("unexpected model %+v", b.Model)
	}
	if b.Output.Report != "json" || b.Output.CSV != "results.csv" {
		t.Fatalf("unexpected output %+v", b.Output)
	}
	if !b.Plot.Enabled || b.Plot.Dir != "plots" {
		t.Fatalf("plot defaults lost: %+v", b.Plot)
	}

	m, err := cfg.GetModel()
	if err != nil {
		t.Fatalf("GetModel: %v", err)
	}
	if m.Epsilon != 5.5 {
		t.Fatalf("model epsilon = %v", m.Epsilon)
	}
}

func TestParseConfig_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown benchmark": "benchmark:\n  name: x\n  benchmarks: [LENSING]\n",
		"duplicate":         "benchmark:\n  name: x\n  benchmarks: [KERR, kerr]\n",
		"zero epsilon":      "benchmark:\n  name: x\n  model:\n    epsilon: 0\n",
		"negative a":        "benchmark:\n  name: x\n  model:\n    a: -1\n",
		"empty name":        "benchmark:\n  name: \"\"\n",
		"bad report":        "benchmark:\n  name: x\n  output:\n    report: html\n",
		"bad log level":     "benchmark:\n  name: x\n  log_level: loud\n",
		"no plot formats":   "benchmark:\n  name: x\n  plot:\n    tikz: false\n    png: false\n",
		"partial db":        "benchmark:\n  name: x\n  data:\n    db:\n      host: http://localhost:8086\n",
		"not yaml":          "benchmark: [",
	}
	for name, content := range cases {
		if _, err := ParseConfig(content); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseConfig_PlotDisabledNeedsNoFormats(t *testing.T) {
	_, err := ParseConfig("benchmark:\n  name: x\n  plot:\n    enabled: false\n    tikz: false\n    png: false\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseConfig_ExpandsEnv(t *testing.T) {
	t.Setenv("TAIB_TEST_HOST", "http://influx:8086")
	t.Setenv("TAIB_TEST_TOKEN", "secret")

	cfg, err := ParseConfig(`
benchmark:
  name: env
  data:
    db:
      host: ${TAIB_TEST_HOST}
      name: taib
      org: lab
      token: ${TAIB_TEST_TOKEN}
`)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	db := cfg.Benchmark.Data.DB
	if db.Host != "http://influx:8086" || db.Token != "secret" {
		t.Fatalf("env not expanded: %+v", db)
	}
	if !db.Enabled() {
		t.Fatalf("expected db enabled")
	}
}

func TestParseConfig_UnsetEnvDisablesDB(t *testing.T) {
	cfg, err := ParseConfig(`
benchmark:
  name: env
  data:
    db:
      host: ${TAIB_TEST_SURELY_UNSET_HOST}
      token: ${TAIB_TEST_SURELY_UNSET_TOKEN}
`)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Benchmark.Data.DB.Enabled() {
		t.Fatalf("expected db disabled for unresolved placeholder")
	}
}

func TestLoadConfigWithContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	content := "benchmark:\n  name: from-file\n  benchmarks: [SHAPIRO]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, raw, err := LoadConfigWithContent(path)
	if err != nil {
		t.Fatalf("LoadConfigWithContent: %v", err)
	}
	if raw != content {
		t.Fatalf("raw content mismatch: %q", raw)
	}
	if cfg.Benchmark.Name != "from-file" {
		t.Fatalf("name = %q", cfg.Benchmark.Name)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, raw, err := LoadConfigWithContent("")
	if err != nil {
		t.Fatalf("LoadConfigWithContent: %v", err)
	}
	if raw != "" {
		t.Fatalf("expected no raw content")
	}
	if cfg.Benchmark.Name != Default().Benchmark.Name {
		t.Fatalf("expected default config")
	}
}
