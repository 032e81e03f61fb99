package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/lambdaspectre/internal/analysis"
	"github.com/ppiankov/lambdaspectre/internal/analyzer"
	"github.com/ppiankov/lambdaspectre/internal/dataset"
	"github.com/ppiankov/lambdaspectre/internal/finding"
)

const spectreSchema = "spectre/v1"

type jsonEnvelope struct {
	Schema    string            `json:"$schema"`
	Tool      string            `json:"tool"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	RunID     string            `json:"run_id"`
	Target    Target            `json:"target"`
	Config    ReportConfig      `json:"config"`
	Sections  *analysis.Report  `json:"sections"`
	Findings  []finding.Finding `json:"findings"`
	Summary   analyzer.Summary  `json:"summary"`
	Errors    []string          `json:"errors,omitempty"`
}

// Generate writes the spectre/v1 JSON envelope.
func (r *JSONReporter) Generate(data Data) error {
	findings := data.Findings
	if findings == nil {
		findings = []finding.Finding{}
	}
	env := jsonEnvelope{
		Schema:    spectreSchema,
		Tool:      data.Tool,
		Version:   data.Version,
		Timestamp: data.Timestamp,
		RunID:     data.RunID.String(),
		Target:    data.Target,
		Config:    data.Config,
		Sections:  data.Sections,
		Findings:  findings,
		Summary:   data.Summary,
		Errors:    data.Errors,
	}
	return encodeJSON(r.Writer, env, "JSON report")
}

type hubEnvelope struct {
	Schema    string       `json:"schema"`
	Tool      string       `json:"tool"`
	Version   string       `json:"version"`
	Timestamp time.Time    `json:"timestamp"`
	Target    Target       `json:"target"`
	Findings  []hubFinding `json:"findings"`
	Summary   hubSummary   `json:"summary"`
}

type hubFinding struct {
	ID                      string        `json:"id"`
	Severity                string        `json:"severity"`
	Location                string        `json:"location"`
	Message                 string        `json:"message"`
	EstimatedMonthlySavings dataset.Float `json:"estimated_monthly_savings"`
}

type hubSummary struct {
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"by_severity"`
	Savings    string         `json:"estimated_monthly_savings"`
}

// Generate writes the SpectreHub envelope, a flattened view of findings only.
func (r *SpectreHubReporter) Generate(data Data) error {
	findings := make([]hubFinding, 0, len(data.Findings))
	for _, f := range data.Findings {
		findings = append(findings, hubFinding{
			ID:                      string(f.ID),
			Severity:                string(f.Severity),
			Location:                functionURI(f),
			Message:                 f.Message,
			EstimatedMonthlySavings: f.EstimatedMonthlySavings,
		})
	}
	env := hubEnvelope{
		Schema:    spectreSchema,
		Tool:      data.Tool,
		Version:   data.Version,
		Timestamp: data.Timestamp,
		Target:    data.Target,
		Findings:  findings,
		Summary: hubSummary{
			Total:      data.Summary.TotalFindings,
			BySeverity: data.Summary.BySeverity,
			Savings:    data.Summary.TotalEstimatedSavings.StringFixed(2),
		},
	}
	return encodeJSON(r.Writer, env, "SpectreHub report")
}

func encodeJSON(w io.Writer, v any, what string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", what, err)
	}
	return nil
}

// functionURI locates a finding by row, since function names need not be unique.
func functionURI(f finding.Finding) string {
	return fmt.Sprintf("function://row/%d/%s", f.Row+1, f.FunctionName)
}
