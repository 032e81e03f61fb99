package report

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/lambdaspectre/internal/analysis"
	"github.com/ppiankov/lambdaspectre/internal/analyzer"
	"github.com/ppiankov/lambdaspectre/internal/dataset"
)

// BuildInput describes one pipeline run.
type BuildInput struct {
	Tool       string
	Version    string
	Target     Target
	Config     ReportConfig
	Thresholds analysis.Thresholds
}

// Build runs every analysis stage over tbl and assembles the report data.
func Build(tbl *dataset.Table, in BuildInput) Data {
	sections := analysis.Run(tbl, in.Thresholds)
	result := analyzer.Analyze(sections, analyzer.AnalyzerConfig{
		MinMonthlyCost: in.Config.MinMonthlyCost,
		MaxDeviation:   sections.Thresholds.Forecast.MaxDeviation,
	})

	return Data{
		Tool:      in.Tool,
		Version:   in.Version,
		Timestamp: time.Now().UTC(),
		RunID:     uuid.New(),
		Target:    in.Target,
		Config:    in.Config,
		Sections:  sections,
		Findings:  result.Findings,
		Summary:   result.Summary,
		Errors:    result.Errors,
	}
}

// NewTarget hashes the location so reports never carry bucket or path names.
func NewTarget(kind, location string) Target {
	h := sha256.Sum256([]byte(fmt.Sprintf("type:%s,location:%s", kind, location)))
	return Target{Type: kind, URIHash: fmt.Sprintf("sha256:%x", h)}
}
