// Package metrics exposes a finished result table as Prometheus gauges in the
// node_exporter textfile format.
package metrics

import (
	"fmt"
	"math"
	"strconv"

	"taib-bench/internal/logging"
	"taib-bench/internal/results"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

const namespace = "taib"

// Collector holds the gauges for one run on a private registry.
type Collector struct {
	registry *prometheus.Registry

	rowTAIB   *prometheus.GaugeVec
	rowDelta  *prometheus.GaugeVec
	rowSigma  *prometheus.GaugeVec
	rowsTotal *prometheus.GaugeVec
}

func NewCollector(runName string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"run": runName}

	return &Collector{
		registry: reg,
		rowTAIB: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "row",
			Name:        "taib",
			Help:        "TAIB model prediction per sweep point",
			ConstLabels: constLabels,
		}, []string{"test_id", "index"}),
		rowDelta: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "row",
			Name:        "delta_percent",
			Help:        "Relative deviation from the reference value in percent",
			ConstLabels: constLabels,
		}, []string{"test_id", "index"}),
		rowSigma: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "row",
			Name:        "sigma",
			Help:        "Normalised field intensity per sweep point",
			ConstLabels: constLabels,
		}, []string{"test_id", "index"}),
		rowsTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "rows_total",
			Help:        "Number of rows produced per benchmark",
			ConstLabels: constLabels,
		}, []string{"test_id"}),
	}
}

// Observe sets the gauges from the table. The index label counts rows within
// one benchmark. Non-finite values are skipped.
func (c *Collector) Observe(table *results.Table) {
	perTest := make(map[results.TestID]int)
	for row := range table.All() {
		idx := perTest[row.TestID]
		perTest[row.TestID] = idx + 1
		labels := []string{string(row.TestID), strconv.Itoa(idx)}

		setFinite(c.rowTAIB, labels, row.TAIB)
		setFinite(c.rowSigma, labels, row.Sigma)
		if v, ok := results.Value(row.Delta); ok {
			setFinite(c.rowDelta, labels, v)
		}
	}
	for id, n := range perTest {
		c.rowsTotal.WithLabelValues(string(id)).Set(float64(n))
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes the collected gauges to path atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

// WriteTextfile is a convenience wrapper that observes table and writes it to path.
func WriteTextfile(path, runName string, table *results.Table) error {
	c := NewCollector(runName)
	c.Observe(table)
	if err := c.WriteTextfile(path); err != nil {
		return err
	}
	logging.GetLogger().WithFields(logrus.Fields{
		"path": path,
		"rows": table.Len(),
	}).Info("Metrics textfile written")
	return nil
}

func setFinite(vec *prometheus.GaugeVec, labels []string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	vec.WithLabelValues(labels...).Set(v)
}
