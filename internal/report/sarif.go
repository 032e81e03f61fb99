package report

import (
	"fmt"

	"github.com/ppiankov/lambdaspectre/internal/finding"
)

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"

// sarifReport is the top-level SARIF v2.1.0 structure.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	ShortDescription sarifMessage      `json:"shortDescription"`
	Help             sarifMessage      `json:"help"`
	DefaultConfig    sarifDefaultLevel `json:"defaultConfiguration"`
}

type sarifDefaultLevel struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string         `json:"ruleId"`
	Level     string         `json:"level"`
	Message   sarifMessage   `json:"message"`
	Locations []sarifLoc     `json:"locations,omitempty"`
	Props     map[string]any `json:"properties,omitempty"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhysical     `json:"physicalLocation"`
	LogicalLocations []sarifLogicalLoc `json:"logicalLocations,omitempty"`
}

type sarifLogicalLoc struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// Generate writes SARIF v2.1.0 output.
func (r *SARIFReporter) Generate(data Data) error {
	results := make([]sarifResult, 0, len(data.Findings))

	for _, f := range data.Findings {
		results = append(results, sarifResult{
			RuleID:  string(f.ID),
			Level:   sarifLevel(f.Severity),
			Message: sarifMessage{Text: f.Message},
			Locations: []sarifLoc{
				{
					PhysicalLocation: sarifPhysical{
						ArtifactLocation: sarifArtifact{URI: functionURI(f)},
					},
					LogicalLocations: []sarifLogicalLoc{{Name: f.FunctionName, Kind: "function"}},
				},
			},
			Props: map[string]any{
				"functionName":            f.FunctionName,
				"monthlyCost":             f.MonthlyCost,
				"estimatedMonthlySavings": f.EstimatedMonthlySavings,
				"metadata":                f.Metadata,
			},
		})
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    data.Tool,
						Version: data.Version,
						Rules:   buildSARIFRules(),
					},
				},
				Results: results,
			},
		},
	}

	if err := encodeJSON(r.Writer, report, "SARIF report"); err != nil {
		return fmt.Errorf("sarif: %w", err)
	}
	return nil
}

func sarifLevel(s finding.Severity) string {
	switch s {
	case finding.SeverityCritical:
		return "error"
	case finding.SeverityHigh:
		return "error"
	case finding.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

var ruleDescriptions = map[finding.ID]string{
	finding.TopCostContributor:          "Function in the set covering most of total spend",
	finding.OversizedMemory:             "High memory allocation for a short-running function",
	finding.ProvisionedConcurrencyWaste: "Provisioned concurrency with a low cold-start rate",
	finding.LowValueFunction:            "Rarely invoked function with above-median cost",
	finding.ContainerCandidate:          "Long-running, high-memory, low-frequency workload",
	finding.ForecastDeviation:           "Actual cost far from the modeled cost",
}

var ruleHelp = map[finding.ID]string{
	finding.TopCostContributor:          "Start optimization work here: a handful of functions usually drive most of the bill.",
	finding.OversizedMemory:             "Lower the memory setting and re-measure duration; short runs rarely need the extra CPU that comes with memory.",
	finding.ProvisionedConcurrencyWaste: "Reduce or remove provisioned concurrency; cold starts are already rare without it.",
	finding.LowValueFunction:            "Consider merging, scheduling differently or retiring the function.",
	finding.ContainerCandidate:          "Compare against a container or batch service billed for uptime rather than per invocation.",
	finding.ForecastDeviation:           "Check for costs the usage model does not capture, such as provisioned concurrency or cross-region transfer.",
}

var ruleLevels = map[finding.ID]string{
	finding.TopCostContributor:          "note",
	finding.OversizedMemory:             "error",
	finding.ProvisionedConcurrencyWaste: "error",
	finding.LowValueFunction:            "warning",
	finding.ContainerCandidate:          "warning",
	finding.ForecastDeviation:           "note",
}

func buildSARIFRules() []sarifRule {
	rules := make([]sarifRule, 0, len(finding.AllIDs))
	for _, id := range finding.AllIDs {
		rules = append(rules, sarifRule{
			ID:               string(id),
			ShortDescription: sarifMessage{Text: ruleDescriptions[id]},
			Help:             sarifMessage{Text: ruleHelp[id]},
			DefaultConfig:    sarifDefaultLevel{Level: ruleLevels[id]},
		})
	}
	return rules
}
