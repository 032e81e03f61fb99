package report

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/lambdaspectre/internal/analysis"
	"github.com/ppiankov/lambdaspectre/internal/analyzer"
	"github.com/ppiankov/lambdaspectre/internal/finding"
)

// Reporter is the interface for output formatters.
type Reporter interface {
	Generate(data Data) error
}

// Data holds all information needed to generate a report.
type Data struct {
	Tool      string            `json:"tool"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	RunID     uuid.UUID         `json:"run_id"`
	Target    Target            `json:"target"`
	Config    ReportConfig      `json:"config"`
	Sections  *analysis.Report  `json:"sections"`
	Findings  []finding.Finding `json:"findings"`
	Summary   analyzer.Summary  `json:"summary"`
	Errors    []string          `json:"errors,omitempty"`
}

// Target identifies the dataset being analyzed.
type Target struct {
	Type    string `json:"type"`
	URIHash string `json:"uri_hash"`
}

// ReportConfig captures the analysis configuration used.
type ReportConfig struct {
	Source         string  `json:"source"`
	Delimiter      string  `json:"delimiter"`
	MinMonthlyCost float64 `json:"min_monthly_cost"`
}

// TextReporter generates human-readable terminal output.
type TextReporter struct {
	Writer io.Writer
}

// JSONReporter generates spectre/v1 envelope JSON output.
type JSONReporter struct {
	Writer io.Writer
}

// SpectreHubReporter generates SpectreHub envelope JSON output.
type SpectreHubReporter struct {
	Writer io.Writer
}

// SARIFReporter generates SARIF v2.1.0 output.
type SARIFReporter struct {
	Writer io.Writer
}

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "sarif", "spectrehub"}

// New returns the reporter for format writing to w.
func New(format string, w io.Writer) (Reporter, bool) {
	switch format {
	case "json":
		return &JSONReporter{Writer: w}, true
	case "text":
		return &TextReporter{Writer: w}, true
	case "sarif":
		return &SARIFReporter{Writer: w}, true
	case "spectrehub":
		return &SpectreHubReporter{Writer: w}, true
	default:
		return nil, false
	}
}
