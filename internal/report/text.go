package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ppiankov/lambdaspectre/internal/analysis"
	"github.com/ppiankov/lambdaspectre/internal/dataset"
)

// Generate writes human-readable terminal output.
func (r *TextReporter) Generate(data Data) error {
	w := &errWriter{w: r.Writer}

	w.println("lambdaspectre: Serverless Function Cost Report")
	w.println(strings.Repeat("=", 46))
	w.println("")

	if data.Sections != nil {
		if err := writeSections(w, data.Sections); err != nil {
			return err
		}
	}

	if len(data.Findings) == 0 {
		w.println("No findings.")
		w.println("")
		writeTextSummary(w, data)
		return w.err
	}

	w.printf("Found %d findings with estimated monthly savings of $%s\n\n",
		data.Summary.TotalFindings, data.Summary.TotalEstimatedSavings.StringFixed(2))

	err := writeTable(w, []string{"SEVERITY", "FINDING", "FUNCTION", "COST/MO", "SAVINGS/MO", "MESSAGE"},
		len(data.Findings), func(i int) []string {
			f := data.Findings[i]
			return []string{
				string(f.Severity), string(f.ID), f.FunctionName,
				money(f.MonthlyCost), money(f.EstimatedMonthlySavings), f.Message,
			}
		})
	if err != nil {
		return err
	}

	w.println("")
	writeTextSummary(w, data)
	return w.err
}

func writeSections(w *errWriter, rep *analysis.Report) error {
	th := rep.Thresholds

	// Top cost contributors
	w.printf("Top Cost Contributors (%.0f%% of %s)\n", rep.TopCost.CoverPercent, money(rep.TopCost.TotalCost))
	w.println("Functions that together account for most of the monthly bill.")
	err := writeTable(w, []string{"FUNCTION", "COST/MO", "INVOCATIONS", "CUMULATIVE %"},
		len(rep.TopCost.Top), func(i int) []string {
			r := rep.TopCost.Top[i]
			return []string{r.FunctionName, money(r.CostUSD), num(r.InvocationsPerMonth), pct(r.CumulativePercent)}
		})
	if err != nil {
		return err
	}
	w.println("")

	w.println("Memory Right-Sizing")
	w.printf("Memory > %.0f MB with average duration < %.2fs; modeled at %.0f%% less memory.\n",
		th.RightSize.MinMemoryMB, th.RightSize.MaxDurationSec, th.RightSize.ReductionRatio*100)
	err = writeTable(w, []string{"FUNCTION", "MEMORY MB", "DURATION MS", "COST/MO", "NEW COST/MO", "SAVINGS/MO"},
		len(rep.RightSize.Candidates), func(i int) []string {
			c := rep.RightSize.Candidates[i]
			return []string{c.FunctionName, num(c.MemoryMB), num(c.AvgDurationMs), money(c.CostUSD), money(c.PredictedNewCost), money(c.Savings)}
		})
	if err != nil {
		return err
	}
	w.println("")

	w.println("Provisioned Concurrency")
	w.printf("Flagged when the cold-start rate stays below %.2f%%.\n", th.Concurrency.MaxColdStartRate)
	err = writeTable(w, []string{"FUNCTION", "PROVISIONED", "COLD START %", "COST/MO", "WASTE"},
		len(rep.Concurrency.Candidates), func(i int) []string {
			c := rep.Concurrency.Candidates[i]
			flag := "no"
			if c.WasteFlag {
				flag = "yes"
			}
			return []string{c.FunctionName, num(c.ProvisionedConcurrency), num(c.ColdStartRate), money(c.CostUSD), flag}
		})
	if err != nil {
		return err
	}
	w.println("")

	w.println("Low-Value Functions")
	w.printf("Under %.2f%% of %s invocations and costing more than the median (%s).\n",
		th.LowValue.MaxInvocationPercent, num(rep.LowValue.TotalInvocations), money(rep.LowValue.MedianCost))
	err = writeTable(w, []string{"FUNCTION", "INVOCATIONS", "% OF TOTAL", "COST/MO"},
		len(rep.LowValue.Functions), func(i int) []string {
			f := rep.LowValue.Functions[i]
			return []string{f.FunctionName, num(f.InvocationsPerMonth), pct(f.PercentInvocations), money(f.CostUSD)}
		})
	if err != nil {
		return err
	}
	w.println("")

	c := rep.Forecast.Coefficients
	w.println("Cost Forecast")
	w.printf("cost = invocations * duration_s * memory_mb * %g + data_transfer_gb * %g\n",
		c.ComputePerMBSecond, c.TransferPerGB)
	if t := rep.Forecast.Scatter.Trend; t != nil {
		w.printf("Trend: (%.2f, %.2f) to (%.2f, %.2f)\n", t.X0, t.Y0, t.X1, t.Y1)
	}
	err = writeTable(w, []string{"FUNCTION", "ACTUAL/MO", "PREDICTED/MO", "DEVIATION"},
		len(rep.Forecast.Rows), func(i int) []string {
			r := rep.Forecast.Rows[i]
			return []string{r.FunctionName, money(r.CostUSD), money(r.PredictedCost), ratio(r.Deviation)}
		})
	if err != nil {
		return err
	}
	w.println("")

	w.println("Container Candidates")
	w.printf("Duration > %.0fs, memory > %.0f MB and fewer than %.0f invocations a month.\n",
		th.Container.MinDurationSec, th.Container.MinMemoryMB, th.Container.MaxInvocations)
	err = writeTable(w, []string{"FUNCTION", "DURATION S", "MEMORY MB", "INVOCATIONS", "COST/MO"},
		len(rep.Containers.Candidates), func(i int) []string {
			c := rep.Containers.Candidates[i]
			return []string{c.FunctionName, num(c.DurationSec), num(c.MemoryMB), num(c.InvocationsPerMonth), money(c.CostUSD)}
		})
	if err != nil {
		return err
	}
	w.println("")
	return w.err
}

// writeTable renders a header, a dashed rule and n rows through a tabwriter.
// With n == 0 only the header and rule are written.
func writeTable(w *errWriter, header []string, n int, row func(i int) []string) error {
	if w.err != nil {
		return w.err
	}
	tw := tabwriter.NewWriter(w.w, 0, 4, 2, ' ', 0)
	tw2 := &errWriter{w: tw}

	rule := make([]string, len(header))
	for i, h := range header {
		rule[i] = strings.Repeat("-", len(h))
	}
	tw2.println(strings.Join(header, "\t"))
	tw2.println(strings.Join(rule, "\t"))
	for i := 0; i < n; i++ {
		tw2.println(strings.Join(row(i), "\t"))
	}
	if tw2.err != nil {
		w.err = tw2.err
		return w.err
	}
	if err := tw.Flush(); err != nil {
		w.err = err
	}
	return w.err
}

func writeTextSummary(w *errWriter, data Data) {
	w.println("Summary")
	w.println("-------")
	w.printf("Functions analyzed:        %d\n", data.Summary.TotalFunctions)
	w.printf("Total monthly cost:        %s\n", money(data.Summary.TotalMonthlyCost))
	w.printf("Total findings:            %d\n", data.Summary.TotalFindings)
	w.printf("Estimated monthly savings: $%s\n", data.Summary.TotalEstimatedSavings.StringFixed(2))

	if len(data.Summary.BySeverity) > 0 {
		parts := formatMapSorted(data.Summary.BySeverity)
		w.printf("By severity:               %s\n", strings.Join(parts, ", "))
	}
	if len(data.Summary.ByFinding) > 0 {
		parts := formatMapSorted(data.Summary.ByFinding)
		w.printf("By finding:                %s\n", strings.Join(parts, ", "))
	}

	if len(data.Errors) > 0 {
		w.printf("\nWarnings (%d):\n", len(data.Errors))
		for _, e := range data.Errors {
			w.printf("  - %s\n", e)
		}
	}
}

// shown reports whether v is a finite number worth printing.
func shown(v dataset.Float) bool {
	return v.Valid() && !math.IsInf(float64(v), 0)
}

func money(v dataset.Float) string {
	if !shown(v) {
		return "-"
	}
	return fmt.Sprintf("$%.2f", float64(v))
}

func num(v dataset.Float) string {
	if !shown(v) {
		return "-"
	}
	return fmt.Sprintf("%.6g", float64(v))
}

func pct(v dataset.Float) string {
	if !shown(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", float64(v))
}

func ratio(v dataset.Float) string {
	if !shown(v) {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(v)*100)
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func formatMapSorted(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return parts
}
