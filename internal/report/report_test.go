package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ppiankov/lambdaspectre/internal/analysis"
	"github.com/ppiankov/lambdaspectre/internal/analyzer"
	"github.com/ppiankov/lambdaspectre/internal/dataset"
	"github.com/ppiankov/lambdaspectre/internal/finding"
)

func sampleSections() *analysis.Report {
	return &analysis.Report{
		Rows:       2,
		Thresholds: analysis.DefaultThresholds(),
		TopCost: analysis.RankResult{
			TotalCost:    1000,
			CoverPercent: 80,
			Top: []analysis.RankedFunction{
				{Row: 0, FunctionName: "checkout", CostUSD: 800, InvocationsPerMonth: 1e6, CumulativeCost: 800, CumulativePercent: 80},
			},
		},
		RightSize: analysis.RightSizeResult{Candidates: []analysis.RightSizeCandidate{
			{Row: 0, FunctionName: "checkout", MemoryMB: 2048, AvgDurationMs: 120, DurationSec: 0.12, CostUSD: 800, PredictedNewCost: 600, Savings: 200},
		}},
		LowValue: analysis.LowValueResult{TotalInvocations: 1000100, MedianCost: 500},
		Forecast: analysis.ForecastResult{
			Coefficients: analysis.DefaultThresholds().Forecast.Coefficients,
			Rows: []analysis.ForecastRow{
				{Row: 0, FunctionName: "checkout", CostUSD: 800, PredictedCost: 491.6, Deviation: 0.3855},
				{Row: 1, FunctionName: "report-gen", CostUSD: dataset.Missing, PredictedCost: 12, Deviation: dataset.Missing},
			},
			Scatter: analysis.Chart{
				Title:  "Predicted vs actual",
				Points: []analysis.Point{{Row: 0, Label: "checkout", X: 491.6, Y: 800}},
			},
		},
	}
}

func sampleData() Data {
	return Data{
		Tool:      "lambdaspectre",
		Version:   "0.1.0",
		Timestamp: time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC),
		RunID:     uuid.MustParse("6f1c2b9e-3a54-4d8e-9f0a-1b2c3d4e5f60"),
		Target: Target{
			Type:    "file",
			URIHash: "sha256:abc123",
		},
		Config: ReportConfig{
			Source:         "functions.csv",
			Delimiter:      ",",
			MinMonthlyCost: 1.0,
		},
		Sections: sampleSections(),
		Findings: []finding.Finding{
			{
				ID:                      finding.OversizedMemory,
				Severity:                finding.SeverityHigh,
				FunctionName:            "checkout",
				Row:                     0,
				Message:                 "2048 MB for a 0.12s average run; estimated $200.00/mo saved at 25% less memory",
				MonthlyCost:             800,
				EstimatedMonthlySavings: 200,
			},
			{
				ID:                      finding.TopCostContributor,
				Severity:                finding.SeverityLow,
				FunctionName:            "checkout",
				Row:                     0,
				Message:                 "Accounts for 80.00% of cumulative spend",
				MonthlyCost:             800,
				EstimatedMonthlySavings: dataset.Missing,
			},
		},
		Summary: analyzer.Summary{
			TotalFunctions:        2,
			TotalMonthlyCost:      1000,
			TotalFindings:         2,
			TotalEstimatedSavings: decimal.NewFromInt(200),
			BySeverity:            map[string]int{"high": 1, "low": 1},
			ByFinding:             map[string]int{"OVERSIZED_MEMORY": 1, "TOP_COST_CONTRIBUTOR": 1},
		},
	}
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONReporter{Writer: &buf}

	if err := r.Generate(sampleData()); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"$schema": "spectre/v1"`) {
		t.Error("missing spectre/v1 schema")
	}
	if !strings.Contains(output, `"tool": "lambdaspectre"`) {
		t.Error("missing tool name")
	}
	if !strings.Contains(output, `"OVERSIZED_MEMORY"`) {
		t.Error("missing OVERSIZED_MEMORY finding")
	}
	if !strings.Contains(output, `"run_id": "6f1c2b9e-3a54-4d8e-9f0a-1b2c3d4e5f60"`) {
		t.Error("missing run id")
	}

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	sections, ok := parsed["sections"].(map[string]any)
	if !ok {
		t.Fatal("missing sections object")
	}
	for _, key := range []string{"top_cost", "right_size", "concurrency", "low_value", "forecast", "containers"} {
		if _, ok := sections[key]; !ok {
			t.Errorf("sections missing %q", key)
		}
	}
}

func TestJSONReporterMissingValuesAreNull(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONReporter{Writer: &buf}

	if err := r.Generate(sampleData()); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	var parsed struct {
		Findings []struct {
			Savings *float64 `json:"estimated_monthly_savings"`
		} `json:"findings"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(parsed.Findings) != 2 {
		t.Fatalf("findings len = %d, want 2", len(parsed.Findings))
	}
	if parsed.Findings[1].Savings != nil {
		t.Errorf("missing savings encoded as %v, want null", *parsed.Findings[1].Savings)
	}
}

func TestJSONReporterNoFindings(t *testing.T) {
	data := sampleData()
	data.Findings = nil

	var buf bytes.Buffer
	r := &JSONReporter{Writer: &buf}

	if err := r.Generate(data); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if f, ok := parsed["findings"].([]any); !ok || len(f) != 0 {
		t.Errorf("findings = %v, want empty array", parsed["findings"])
	}
}

func TestTextReporterWithFindings(t *testing.T) {
	var buf bytes.Buffer
	r := &TextReporter{Writer: &buf}

	if err := r.Generate(sampleData()); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"lambdaspectre: Serverless Function Cost Report",
		"Top Cost Contributors",
		"Memory Right-Sizing",
		"Provisioned Concurrency",
		"Low-Value Functions",
		"Cost Forecast",
		"Container Candidates",
		"checkout",
		"$200.00",
		"Summary",
		"Estimated monthly savings: $200.00",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(output, "$$") {
		t.Error("currency symbol printed twice")
	}
}

func TestTextReporterEmptySectionsKeepHeaders(t *testing.T) {
	data := sampleData()
	data.Sections = &analysis.Report{Thresholds: analysis.DefaultThresholds()}

	var buf bytes.Buffer
	r := &TextReporter{Writer: &buf}

	if err := r.Generate(data); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "PROVISIONED") {
		t.Error("missing concurrency table header")
	}
	if !strings.Contains(output, "DURATION S") {
		t.Error("missing container table header")
	}
}

func TestTextReporterMissingValues(t *testing.T) {
	var buf bytes.Buffer
	r := &TextReporter{Writer: &buf}

	if err := r.Generate(sampleData()); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if strings.Contains(buf.String(), "NaN") {
		t.Error("missing values should render as '-', not NaN")
	}
}

func TestTextReporterNoFindings(t *testing.T) {
	data := sampleData()
	data.Findings = nil
	data.Summary.TotalFindings = 0

	var buf bytes.Buffer
	r := &TextReporter{Writer: &buf}

	if err := r.Generate(data); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(buf.String(), "No findings.") {
		t.Error("missing 'No findings.' message")
	}
}

func TestTextReporterWithErrors(t *testing.T) {
	data := sampleData()
	data.Errors = []string{`row 3: MemoryMB value "1GB" is not numeric, treated as missing`}

	var buf bytes.Buffer
	r := &TextReporter{Writer: &buf}

	if err := r.Generate(data); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !strings.Contains(buf.String(), "Warnings (1)") {
		t.Error("missing warnings section")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTextReporterWriteError(t *testing.T) {
	r := &TextReporter{Writer: failingWriter{}}
	if err := r.Generate(sampleData()); err == nil {
		t.Fatal("expected write error")
	}
}

func TestSARIFReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &SARIFReporter{Writer: &buf}

	if err := r.Generate(sampleData()); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"version": "2.1.0"`) {
		t.Error("missing SARIF version")
	}
	if !strings.Contains(output, `"OVERSIZED_MEMORY"`) {
		t.Error("missing OVERSIZED_MEMORY rule")
	}
	if !strings.Contains(output, "function://row/1/checkout") {
		t.Error("missing function URI")
	}
	if !strings.Contains(output, `"kind": "function"`) {
		t.Error("missing logical location")
	}

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
}

func TestSpectreHubReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &SpectreHubReporter{Writer: &buf}

	if err := r.Generate(sampleData()); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"schema": "spectre/v1"`) {
		t.Error("missing spectre/v1 schema")
	}
	if !strings.Contains(output, `"lambdaspectre"`) {
		t.Error("missing tool name")
	}
	if !strings.Contains(output, `"estimated_monthly_savings": "200.00"`) {
		t.Error("missing summary savings")
	}
}

func TestSARIFLevelMapping(t *testing.T) {
	tests := []struct {
		sev  finding.Severity
		want string
	}{
		{finding.SeverityCritical, "error"},
		{finding.SeverityHigh, "error"},
		{finding.SeverityMedium, "warning"},
		{finding.SeverityLow, "note"},
	}
	for _, tt := range tests {
		got := sarifLevel(tt.sev)
		if got != tt.want {
			t.Errorf("sarifLevel(%q) = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestBuildSARIFRules(t *testing.T) {
	rules := buildSARIFRules()
	if len(rules) != len(finding.AllIDs) {
		t.Errorf("buildSARIFRules() len = %d, want %d", len(rules), len(finding.AllIDs))
	}
	for _, r := range rules {
		if r.ShortDescription.Text == "" || r.Help.Text == "" {
			t.Errorf("rule %s has no description or help", r.ID)
		}
	}
}

func TestNew(t *testing.T) {
	for _, format := range Formats {
		if _, ok := New(format, &bytes.Buffer{}); !ok {
			t.Errorf("New(%q) not supported", format)
		}
	}
	if _, ok := New("xml", &bytes.Buffer{}); ok {
		t.Error("New(xml) should not be supported")
	}
}
