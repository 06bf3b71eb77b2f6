package database

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taib-bench/internal/config"
	"taib-bench/internal/model"
	"taib-bench/internal/results"
)

const spoolVersion = 1

// SpoolArtifact is the self-contained record of one run. The plot and report
// commands regenerate their output from it without re-running benchmarks.
type SpoolArtifact struct {
	Version int `json:"version"`

	CreatedAt time.Time `json:"created_at"`

	RunID       int    `json:"run_id"`
	RunName     string `json:"run_name"`
	RunChecksum string `json:"run_checksum"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	ConfigContent string `json:"config_content"`

	Model    model.Model   `json:"model"`
	Rows     []results.Row `json:"rows"`
	Metadata *RunMetadata  `json:"metadata,omitempty"`
}

// Table rebuilds the result table stored in the artifact.
func (a *SpoolArtifact) Table() (*results.Table, error) {
	table := results.NewTable()
	for i, row := range a.Rows {
		if !row.TestID.Valid() {
			return nil, fmt.Errorf("row %d has unknown test id %q", i, row.TestID)
		}
		table.Record(row)
	}
	return table, nil
}

func DefaultSpoolDir() string {
	if v := strings.TrimSpace(os.Getenv("TAIB_BENCH_SPOOL_DIR")); v != "" {
		return v
	}
	return "spool"
}

// WriteSpoolArtifact writes a gzip-compressed JSON artifact to disk atomically.
// It returns the final file path.
func WriteSpoolArtifact(dir string, artifact *SpoolArtifact) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("spool artifact is nil")
	}
	if dir == "" {
		dir = DefaultSpoolDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	checksum := artifact.RunChecksum
	if checksum == "" {
		checksum = "nocsum"
	}
	name := fmt.Sprintf(
		"run_%d_%s_%s.json.gz",
		artifact.RunID,
		artifact.CreatedAt.UTC().Format("20060102T150405Z"),
		checksum,
	)
	finalPath := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, name+".tmp.*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()

	ok := false
	defer func() {
		_ = tmp.Close()
		if !ok {
			_ = os.Remove(tmpPath)
		}
	}()

	gz := gzip.NewWriter(tmp)
	enc := json.NewEncoder(gz)
	enc.SetIndent("", "  ")
	if err := enc.Encode(artifact); err != nil {
		_ = gz.Close()
		return "", err
	}
	if err := gz.Close(); err != nil {
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", err
	}
	ok = true
	return finalPath, nil
}

// ReadSpoolArtifact loads an artifact written by WriteSpoolArtifact.
func ReadSpoolArtifact(path string) (*SpoolArtifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s is not a gzip spool artifact: %w", path, err)
	}
	defer gz.Close()

	var artifact SpoolArtifact
	if err := json.NewDecoder(gz).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("failed to decode spool artifact %s: %w", path, err)
	}
	if artifact.Version != spoolVersion {
		return nil, fmt.Errorf("unsupported spool artifact version %d", artifact.Version)
	}
	return &artifact, nil
}

// BuildSpoolArtifact constructs a spool artifact from the in-memory run results.
func BuildSpoolArtifact(
	runID int,
	benchmarkCfg *config.BenchmarkConfig,
	configContent string,
	m model.Model,
	table *results.Table,
	metadata *RunMetadata,
	startTime, endTime time.Time,
) *SpoolArtifact {
	name := ""
	checksum := ""
	if benchmarkCfg != nil {
		name = benchmarkCfg.Benchmark.Name
		if cs, err := config.RunChecksum(benchmarkCfg); err == nil {
			checksum = cs
		}
	}
	if metadata != nil {
		if checksum == "" {
			checksum = metadata.RunChecksum
		}
		if name == "" {
			name = metadata.RunName
		}
	}

	var rows []results.Row
	if table != nil {
		rows = table.Rows()
	}

	return &SpoolArtifact{
		Version:       spoolVersion,
		CreatedAt:     time.Now(),
		RunID:         runID,
		RunName:       name,
		RunChecksum:   checksum,
		StartTime:     startTime,
		EndTime:       endTime,
		ConfigContent: configContent,
		Model:         m,
		Rows:          rows,
		Metadata:      metadata,
	}
}
