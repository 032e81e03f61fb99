package finding

import "github.com/ppiankov/lambdaspectre/internal/dataset"

// Severity levels for findings.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ID identifies the type of issue detected.
type ID string

const (
	TopCostContributor          ID = "TOP_COST_CONTRIBUTOR"
	OversizedMemory             ID = "OVERSIZED_MEMORY"
	ProvisionedConcurrencyWaste ID = "PROVISIONED_CONCURRENCY_WASTE"
	LowValueFunction            ID = "LOW_VALUE_FUNCTION"
	ContainerCandidate          ID = "CONTAINER_CANDIDATE"
	ForecastDeviation           ID = "FORECAST_DEVIATION"
)

// AllIDs lists every finding ID in report order.
var AllIDs = []ID{
	TopCostContributor,
	OversizedMemory,
	ProvisionedConcurrencyWaste,
	LowValueFunction,
	ContainerCandidate,
	ForecastDeviation,
}

// Finding is a single detection tied to one input row.
type Finding struct {
	ID                      ID             `json:"id"`
	Severity                Severity       `json:"severity"`
	FunctionName            string         `json:"function_name"`
	Row                     int            `json:"row"`
	Message                 string         `json:"message"`
	MonthlyCost             dataset.Float  `json:"monthly_cost"`
	EstimatedMonthlySavings dataset.Float  `json:"estimated_monthly_savings"`
	Metadata                map[string]any `json:"metadata,omitempty"`
}
