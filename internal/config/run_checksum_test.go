package config

import "testing"

func TestRunChecksum_IgnoresNamesAndOutputs(t *testing.T) {
	cfg1 := Default()
	cfg1.Benchmark.Benchmarks = []string{"KERR", "BELL"}

	cfg2 := Default()
	cfg2.Benchmark.Name = "other"
	cfg2.Benchmark.Description = "changed"
	cfg2.Benchmark.Output.CSV = "elsewhere.csv"
	cfg2.Benchmark.Plot.Enabled = false
	cfg2.Benchmark.Benchmarks = []string{"kerr", "bell"}

	s1, err := RunChecksum(cfg1)
	if err != nil {
		t.Fatalf("RunChecksum(cfg1): %v", err)
	}
	s2, err := RunChecksum(cfg2)
	if err != nil {
		t.Fatalf("RunChecksum(cfg2): %v", err)
	}
	if s1 != s2 {
		t.Fatalf("expected same checksum, got %q vs %q", s1, s2)
	}
	if len(s1) != 6 {
		t.Fatalf("expected 6-char checksum, got %q (len=%d)", s1, len(s1))
	}
}

func TestRunChecksum_ChangesWithRun(t *testing.T) {
	cfg := Default()
	base, err := RunChecksum(cfg)
	if err != nil {
		t.Fatalf("RunChecksum: %v", err)
	}

	cfg.Benchmark.Model.Epsilon = 4.29
	changedModel, err := RunChecksum(cfg)
	if err != nil {
		t.Fatalf("RunChecksum: %v", err)
	}
	if changedModel == base {
		t.Fatalf("expected checksum to change with epsilon")
	}

	cfg = Default()
	cfg.Benchmark.Benchmarks = []string{"VOID", "KERR", "BELL", "SHAPIRO"}
	reordered, err := RunChecksum(cfg)
	if err != nil {
		t.Fatalf("RunChecksum: %v", err)
	}
	if reordered == base {
		t.Fatalf("expected checksum to change with execution order")
	}
}

func TestRunChecksum_DefaultSelectionMatchesExplicit(t *testing.T) {
	implicit, err := RunChecksum(Default())
	if err != nil {
		t.Fatalf("RunChecksum: %v", err)
	}
	cfg := Default()
	cfg.Benchmark.Benchmarks = []string{"KERR", "VOID", "BELL", "SHAPIRO"}
	explicit, err := RunChecksum(cfg)
	if err != nil {
		t.Fatalf("RunChecksum: %v", err)
	}
	if implicit != explicit {
		t.Fatalf("expected %q, got %q", implicit, explicit)
	}
}

func TestRunChecksum_Nil(t *testing.T) {
	s, err := RunChecksum(nil)
	if err != nil || s != "" {
		t.Fatalf("expected empty checksum for nil config, got %q, %v", s, err)
	}
}
