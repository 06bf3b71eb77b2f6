// Package report formats a result table for people: markdown tables per
// benchmark, or the raw rows as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"taib-bench/internal/results"
)

// Header describes the run a report belongs to.
type Header struct {
	RunName  string  `json:"run_name"`
	RunID    int     `json:"run_id,omitempty"`
	Checksum string  `json:"checksum,omitempty"`
	A        float64 `json:"a"`
	Epsilon  float64 `json:"epsilon"`
	Tau0     float64 `json:"tau_0"`
}

// Generate writes a markdown report: one table per benchmark in order of
// first appearance, then a summary table.
func Generate(w io.Writer, header Header, rows []results.Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("no results to report")
	}

	fmt.Fprintf(w, "## TAIB Benchmark Results: %s\n", header.RunName)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Model: a = %s, epsilon = %s, tau_0 = %s\n",
		formatValue(header.A), formatValue(header.Epsilon), formatValue(header.Tau0))
	if header.Checksum != "" {
		fmt.Fprintf(w, "Run checksum: `%s`\n", header.Checksum)
	}
	fmt.Fprintln(w)

	order, groups := groupRows(rows)

	for _, id := range order {
		fmt.Fprintf(w, "### %s\n", id)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| # | p1 | p2 | ref | TAIB | delta (%) | sigma |")
		fmt.Fprintln(w, "|---|----|----|-----|------|-----------|-------|")
		for i, r := range groups[id] {
			fmt.Fprintf(w, "| %d | %s | %s | %s | %s | %s | %s |\n",
				i,
				formatValue(r.P1),
				formatOptional(r.P2),
				formatOptional(r.Ref),
				formatValue(r.TAIB),
				formatOptional(r.Delta),
				formatValue(r.Sigma),
			)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "### Summary")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Benchmark | Rows | Max delta (%) | Min delta (%) |")
	fmt.Fprintln(w, "|-----------|------|---------------|---------------|")
	for _, id := range order {
		lo, hi, ok := deltaRange(groups[id])
		minStr, maxStr := "-", "-"
		if ok {
			minStr, maxStr = formatValue(lo), formatValue(hi)
		}
		fmt.Fprintf(w, "| %s | %d | %s | %s |\n", id, len(groups[id]), maxStr, minStr)
	}

	return nil
}

type jsonReport struct {
	Header Header        `json:"header"`
	Rows   []results.Row `json:"rows"`
}

// GenerateJSON writes the header and rows as JSON to w.
func GenerateJSON(w io.Writer, header Header, rows []results.Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(jsonReport{Header: header, Rows: rows})
}

func groupRows(rows []results.Row) ([]results.TestID, map[results.TestID][]results.Row) {
	var order []results.TestID
	groups := make(map[results.TestID][]results.Row)
	for _, r := range rows {
		if _, seen := groups[r.TestID]; !seen {
			order = append(order, r.TestID)
		}
		groups[r.TestID] = append(groups[r.TestID], r)
	}
	return order, groups
}

func deltaRange(rows []results.Row) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		if v, set := results.Value(r.Delta); set {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	return lo, hi, ok
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

func formatOptional(p *float64) string {
	if v, ok := results.Value(p); ok {
		return formatValue(v)
	}
	return "-"
}
