package database

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"taib-bench/internal/config"
	"taib-bench/internal/logging"
	"taib-bench/internal/model"
	"taib-bench/internal/results"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sirupsen/logrus"
)

const (
	resultsMeasurement = "taib_results"
	metaMeasurement    = "taib_meta"
)

// ResultWriter is a sink that stores a finished run.
type ResultWriter interface {
	GetLastRunID(ctx context.Context) (int, error)
	WriteResults(ctx context.Context, runID int, rows []results.Row, ts time.Time) error
	WriteMetadata(ctx context.Context, metadata *RunMetadata) error
	Close()
}

// RunMetadata contains all metadata about a benchmark run
type RunMetadata struct {
	RunID           int     `json:"run_id"`
	RunName         string  `json:"run_name"`
	Description     string  `json:"description"`
	RunChecksum     string  `json:"run_checksum"`
	DurationSeconds float64 `json:"duration_seconds"`
	RunStarted      string  `json:"run_started"`  // RFC3339 timestamp
	RunFinished     string  `json:"run_finished"` // RFC3339 timestamp
	Benchmarks      string  `json:"benchmarks"`
	TotalRows       int     `json:"total_rows"`
	DriverVersion   string  `json:"driver_version"`
	A               float64 `json:"a"`
	Epsilon         float64 `json:"epsilon"`
	Tau0            float64 `json:"tau_0"`
	Hostname        string  `json:"hostname"`
	OSInfo          string  `json:"os_info"`
	KernelVersion   string  `json:"kernel_version"`
	CPUModel        string  `json:"cpu_model"`
	GoVersion       string  `json:"go_version"`
	ConfigFile      string  `json:"config_file"`
}

// SystemInfo contains host system information
type SystemInfo struct {
	Hostname      string
	OSInfo        string
	KernelVersion string
	CPUModel      string
}

// collectSystemInfo gathers host system information
func collectSystemInfo() *SystemInfo {
	info := &SystemInfo{}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	info.Hostname = hostname

	info.OSInfo = runtime.GOOS + "/" + runtime.GOARCH

	// Get kernel version from /proc/version
	if data, err := os.ReadFile("/proc/version"); err == nil {
		parts := strings.Fields(string(data))
		if len(parts) >= 3 {
			info.KernelVersion = parts[2]
		}
	}
	if info.KernelVersion == "" {
		info.KernelVersion = "unknown"
	}

	if data, err := os.ReadFile("/proc/cpuinfo"); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(line, "model name") {
				parts := strings.SplitN(line, ":", 2)
				if len(parts) == 2 {
					info.CPUModel = strings.TrimSpace(parts[1])
					break
				}
			}
		}
	}
	if info.CPUModel == "" {
		info.CPUModel = "unknown"
	}

	return info
}

// CollectRunMetadata summarises a finished run together with the host it ran on.
func CollectRunMetadata(runID int, cfg *config.BenchmarkConfig, configContent string, m model.Model, table *results.Table, startTime, endTime time.Time, driverVersion string) *RunMetadata {
	sysInfo := collectSystemInfo()

	checksum, err := config.RunChecksum(cfg)
	if err != nil {
		checksum = ""
	}

	var order []string
	seen := make(map[results.TestID]bool)
	for row := range table.All() {
		if !seen[row.TestID] {
			seen[row.TestID] = true
			order = append(order, string(row.TestID))
		}
	}

	return &RunMetadata{
		RunID:           runID,
		RunName:         cfg.Benchmark.Name,
		Description:     cfg.Benchmark.Description,
		RunChecksum:     checksum,
		DurationSeconds: endTime.Sub(startTime).Seconds(),
		RunStarted:      startTime.Format(time.RFC3339),
		RunFinished:     endTime.Format(time.RFC3339),
		Benchmarks:      strings.Join(order, ","),
		TotalRows:       table.Len(),
		DriverVersion:   driverVersion,
		A:               m.A,
		Epsilon:         m.Epsilon,
		Tau0:            m.Tau0,
		Hostname:        sysInfo.Hostname,
		OSInfo:          sysInfo.OSInfo,
		KernelVersion:   sysInfo.KernelVersion,
		CPUModel:        sysInfo.CPUModel,
		GoVersion:       runtime.Version(),
		ConfigFile:      configContent,
	}
}

type InfluxDBClient struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	queryAPI api.QueryAPI
	bucket   string
	org      string
}

func NewInfluxDBClient(ctx context.Context, db config.DatabaseConfig) (*InfluxDBClient, error) {
	logger := logging.GetLogger()

	client := influxdb2.NewClient(db.Host, db.Token)

	// Test connection
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	health, err := client.Health(ctx)
	if err != nil {
		logger.WithField("host", db.Host).WithError(err).Error("Failed to connect to InfluxDB")
		client.Close()
		return nil, err
	}

	if health.Status != "pass" {
		message := ""
		if health.Message != nil {
			message = *health.Message
		}
		logger.WithFields(logrus.Fields{
			"host":    db.Host,
			"status":  health.Status,
			"message": message,
		}).Error("InfluxDB health check failed")
		client.Close()
		return nil, fmt.Errorf("influxdb at %s is unhealthy: %s", db.Host, health.Status)
	}

	logger.WithFields(logrus.Fields{
		"host":   db.Host,
		"bucket": db.Name,
		"org":    db.Org,
	}).Info("Connected to InfluxDB")

	return &InfluxDBClient{
		client:   client,
		writeAPI: client.WriteAPIBlocking(db.Org, db.Name),
		queryAPI: client.QueryAPI(db.Org),
		bucket:   db.Name,
		org:      db.Org,
	}, nil
}

func (idb *InfluxDBClient) GetLastRunID(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`
		from(bucket: "%s")
		|> range(start: -365d)
		|> filter(fn: (r) => r._measurement == "%s")
		|> keep(columns: ["run_id"])
		|> distinct(column: "run_id")
		|> map(fn: (r) => ({_value: int(v: r.run_id)}))
		|> max()
		|> yield(name: "max_run_id")
	`, idb.bucket, metaMeasurement)

	result, err := idb.queryAPI.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to query last run ID: %w", err)
	}
	defer result.Close()

	maxID := 0
	for result.Next() {
		if id, ok := result.Record().Value().(int64); ok && int(id) > maxID {
			maxID = int(id)
		}
	}

	if result.Err() != nil {
		return 0, fmt.Errorf("error reading query results: %w", result.Err())
	}

	return maxID, nil
}

func (idb *InfluxDBClient) WriteResults(ctx context.Context, runID int, rows []results.Row, ts time.Time) error {
	points := make([]*write.Point, 0, len(rows))
	for i, row := range rows {
		points = append(points, resultPoint(runID, i, row, ts))
	}

	if len(points) > 0 {
		if err := idb.writeAPI.WritePoint(ctx, points...); err != nil {
			return fmt.Errorf("failed to write result points: %w", err)
		}
	}

	return nil
}

func (idb *InfluxDBClient) WriteMetadata(ctx context.Context, metadata *RunMetadata) error {
	if err := idb.writeAPI.WritePoint(ctx, metadataPoint(metadata, time.Now())); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

func (idb *InfluxDBClient) Close() {
	if idb.client != nil {
		idb.client.Close()
	}
}

// resultPoint builds one point per row. The row index is a tag so rows of
// the same benchmark do not overwrite each other at equal timestamps.
func resultPoint(runID, index int, row results.Row, ts time.Time) *write.Point {
	return influxdb2.NewPoint(resultsMeasurement,
		map[string]string{
			"run_id":    strconv.Itoa(runID),
			"test_id":   string(row.TestID),
			"row_index": strconv.Itoa(index),
		},
		rowFields(index, row),
		ts)
}

func rowFields(index int, row results.Row) map[string]interface{} {
	fields := make(map[string]interface{})
	fields["index"] = index

	put := func(key string, v float64) {
		// line protocol has no representation for NaN or Inf
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
		fields[key] = v
	}
	putOptional := func(key string, p *float64) {
		if v, ok := results.Value(p); ok {
			put(key, v)
		}
	}

	put("p1", row.P1)
	putOptional("p2", row.P2)
	putOptional("ref", row.Ref)
	put("taib", row.TAIB)
	putOptional("delta", row.Delta)
	put("sigma", row.Sigma)
	putOptional("aux1", row.Aux1)
	putOptional("aux2", row.Aux2)

	return fields
}

func metadataPoint(metadata *RunMetadata, ts time.Time) *write.Point {
	return influxdb2.NewPoint(metaMeasurement,
		map[string]string{
			"run_id": strconv.Itoa(metadata.RunID),
		},
		map[string]interface{}{
			"run_name":         metadata.RunName,
			"description":      metadata.Description,
			"run_checksum":     metadata.RunChecksum,
			"duration_seconds": metadata.DurationSeconds,
			"run_started":      metadata.RunStarted,
			"run_finished":     metadata.RunFinished,
			"benchmarks":       metadata.Benchmarks,
			"total_rows":       metadata.TotalRows,
			"driver_version":   metadata.DriverVersion,
			"a":                metadata.A,
			"epsilon":          metadata.Epsilon,
			"tau_0":            metadata.Tau0,
			"hostname":         metadata.Hostname,
			"os_info":          metadata.OSInfo,
			"kernel_version":   metadata.KernelVersion,
			"cpu_model":        metadata.CPUModel,
			"go_version":       metadata.GoVersion,
			"config_file":      metadata.ConfigFile,
		},
		ts)
}
