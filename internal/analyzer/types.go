package analyzer

import (
	"github.com/shopspring/decimal"

	"github.com/ppiankov/lambdaspectre/internal/dataset"
	"github.com/ppiankov/lambdaspectre/internal/finding"
)

// Summary holds aggregated statistics about the findings of one run.
type Summary struct {
	TotalFunctions        int             `json:"total_functions"`
	TotalMonthlyCost      dataset.Float   `json:"total_monthly_cost"`
	TotalFindings         int             `json:"total_findings"`
	TotalEstimatedSavings decimal.Decimal `json:"total_estimated_savings"`
	BySeverity            map[string]int  `json:"by_severity"`
	ByFinding             map[string]int  `json:"by_finding"`
	CoercionIssues        int             `json:"coercion_issues"`
}

// AnalysisResult holds filtered findings and computed summary.
type AnalysisResult struct {
	Findings []finding.Finding `json:"findings"`
	Summary  Summary           `json:"summary"`
	Errors   []string          `json:"errors,omitempty"`
}

// AnalyzerConfig controls analysis behavior.
type AnalyzerConfig struct {
	MinMonthlyCost float64
	MaxDeviation   float64
}
