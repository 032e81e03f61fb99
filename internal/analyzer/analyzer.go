package analyzer

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/ppiankov/lambdaspectre/internal/analysis"
	"github.com/ppiankov/lambdaspectre/internal/dataset"
	"github.com/ppiankov/lambdaspectre/internal/finding"
)

// Analyze turns stage outputs into findings, drops findings for functions cheaper
// than MinMonthlyCost and computes aggregated summary statistics.
func Analyze(rep *analysis.Report, cfg AnalyzerConfig) *AnalysisResult {
	var filtered []finding.Finding
	for _, f := range collect(rep, cfg) {
		// Findings with an unknown cost are kept.
		if f.MonthlyCost < dataset.Float(cfg.MinMonthlyCost) {
			continue
		}
		filtered = append(filtered, f)
	}

	summary := Summary{
		TotalFunctions:        rep.Rows,
		TotalMonthlyCost:      rep.TopCost.TotalCost,
		TotalFindings:         len(filtered),
		TotalEstimatedSavings: decimal.Zero,
		BySeverity:            make(map[string]int),
		ByFinding:             make(map[string]int),
		CoercionIssues:        len(rep.Issues),
	}

	// A function flagged twice is only saved once: take its largest estimate.
	bestByRow := make(map[int]float64)
	for _, f := range filtered {
		summary.BySeverity[string(f.Severity)]++
		summary.ByFinding[string(f.ID)]++
		s := f.EstimatedMonthlySavings.Or(0)
		if math.IsInf(s, 0) {
			continue
		}
		if s > bestByRow[f.Row] {
			bestByRow[f.Row] = s
		}
	}
	for _, s := range bestByRow {
		summary.TotalEstimatedSavings = summary.TotalEstimatedSavings.Add(decimal.NewFromFloat(s))
	}
	summary.TotalEstimatedSavings = summary.TotalEstimatedSavings.Round(2)

	return &AnalysisResult{
		Findings: filtered,
		Summary:  summary,
		Errors:   issueMessages(rep.Issues),
	}
}

func collect(rep *analysis.Report, cfg AnalyzerConfig) []finding.Finding {
	var out []finding.Finding

	for i, r := range rep.TopCost.Top {
		out = append(out, finding.Finding{
			ID:           finding.TopCostContributor,
			Severity:     finding.SeverityLow,
			FunctionName: r.FunctionName,
			Row:          r.Row,
			Message: fmt.Sprintf("Ranks #%d by cost; cumulative %.1f%% of total spend",
				i+1, float64(r.CumulativePercent)),
			MonthlyCost:             r.CostUSD,
			EstimatedMonthlySavings: 0,
			Metadata: map[string]any{
				"rank":               i + 1,
				"cumulative_percent": r.CumulativePercent,
			},
		})
	}

	for _, c := range rep.RightSize.Candidates {
		out = append(out, finding.Finding{
			ID:           finding.OversizedMemory,
			Severity:     finding.SeverityHigh,
			FunctionName: c.FunctionName,
			Row:          c.Row,
			Message: fmt.Sprintf("%s MB allocated for %s ms average runtime; lowering memory could save $%.2f/mo",
				c.MemoryMB, c.AvgDurationMs, c.Savings.Or(0)),
			MonthlyCost:             c.CostUSD,
			EstimatedMonthlySavings: c.Savings,
			Metadata: map[string]any{
				"memory_mb":          c.MemoryMB,
				"duration_sec":       c.DurationSec,
				"predicted_new_cost": c.PredictedNewCost,
			},
		})
	}

	for _, c := range rep.Concurrency.Candidates {
		if !c.WasteFlag {
			continue
		}
		out = append(out, finding.Finding{
			ID:           finding.ProvisionedConcurrencyWaste,
			Severity:     finding.SeverityHigh,
			FunctionName: c.FunctionName,
			Row:          c.Row,
			Message: fmt.Sprintf("Provisioned concurrency %s with %s%% cold starts; reduce or remove warm capacity",
				c.ProvisionedConcurrency, c.ColdStartRate),
			MonthlyCost: c.CostUSD,
			Metadata: map[string]any{
				"provisioned_concurrency": c.ProvisionedConcurrency,
				"cold_start_rate":         c.ColdStartRate,
			},
		})
	}

	for _, fn := range rep.LowValue.Functions {
		out = append(out, finding.Finding{
			ID:           finding.LowValueFunction,
			Severity:     finding.SeverityMedium,
			FunctionName: fn.FunctionName,
			Row:          fn.Row,
			Message: fmt.Sprintf("Handles %.3f%% of invocations but costs $%.2f (median $%.2f)",
				float64(fn.PercentInvocations), fn.CostUSD.Or(0), rep.LowValue.MedianCost.Or(0)),
			MonthlyCost:             fn.CostUSD,
			EstimatedMonthlySavings: fn.CostUSD,
			Metadata: map[string]any{
				"percent_invocations": fn.PercentInvocations,
			},
		})
	}

	for _, c := range rep.Containers.Candidates {
		out = append(out, finding.Finding{
			ID:           finding.ContainerCandidate,
			Severity:     finding.SeverityMedium,
			FunctionName: c.FunctionName,
			Row:          c.Row,
			Message: fmt.Sprintf("Runs %ss at %s MB with %s invocations/mo; better suited to a container",
				c.DurationSec, c.MemoryMB, c.InvocationsPerMonth),
			MonthlyCost: c.CostUSD,
		})
	}

	if cfg.MaxDeviation > 0 {
		for _, r := range rep.Forecast.Rows {
			if !(r.Deviation > dataset.Float(cfg.MaxDeviation)) {
				continue
			}
			out = append(out, finding.Finding{
				ID:           finding.ForecastDeviation,
				Severity:     finding.SeverityLow,
				FunctionName: r.FunctionName,
				Row:          r.Row,
				Message: fmt.Sprintf("Actual cost $%.2f is %.0f%% away from modeled $%.2f; look for provisioned concurrency, cross-region transfer or other cost drivers",
					r.CostUSD.Or(0), float64(r.Deviation)*100, r.PredictedCost.Or(0)),
				MonthlyCost: r.CostUSD,
				Metadata: map[string]any{
					"predicted_cost": r.PredictedCost,
					"gb_seconds":     r.GBSeconds,
					"deviation":      r.Deviation,
				},
			})
		}
	}

	return out
}

func issueMessages(issues []dataset.CoercionIssue) []string {
	if len(issues) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(issues))
	for _, is := range issues {
		msgs = append(msgs, fmt.Sprintf("row %d: %s value %q is not numeric, treated as missing", is.Row+1, is.Column, is.Value))
	}
	return msgs
}
