package config

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"taib-bench/internal/benchmarks"
)

type runChecksumPayload struct {
	Benchmarks []string `json:"benchmarks"`
	A          string   `json:"a"`
	Epsilon    string   `json:"epsilon"`
	Tau0       string   `json:"tau_0"`
}

// RunChecksum returns a short, stable checksum identifying what a run computes:
// the effective benchmark selection in execution order and the model constants.
// Names, descriptions and output settings do not affect it.
//
// It computes MD5 over a canonical JSON representation and returns the first 6 hex
// characters (equivalent to `md5sum | cut -c1-6`).
func RunChecksum(cfg *BenchmarkConfig) (string, error) {
	if cfg == nil {
		return "", nil
	}

	benches, err := benchmarks.Resolve(cfg.Benchmark.Benchmarks)
	if err != nil {
		return "", err
	}

	payload := runChecksumPayload{
		Benchmarks: make([]string, 0, len(benches)),
		A:          strconv.FormatFloat(cfg.Benchmark.Model.A, 'g', -1, 64),
		Epsilon:    strconv.FormatFloat(cfg.Benchmark.Model.Epsilon, 'g', -1, 64),
		Tau0:       strconv.FormatFloat(cfg.Benchmark.Model.Tau0, 'g', -1, 64),
	}
	for _, b := range benches {
		payload.Benchmarks = append(payload.Benchmarks, string(b.ID()))
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	sum := md5.Sum(b)
	hexStr := hex.EncodeToString(sum[:])
	if len(hexStr) > 6 {
		hexStr = hexStr[:6]
	}
	return hexStr, nil
}
