package analysis

import (
	"github.com/ppiankov/lambdaspectre/internal/dataset"
	"github.com/ppiankov/lambdaspectre/internal/pricing"
)

// Float is re-exported so callers of this package rarely need dataset directly.
type Float = dataset.Float

// Thresholds holds every cutoff used by the stages. Zero values are replaced by
// the defaults in DefaultThresholds.
type Thresholds struct {
	CoverPercent float64               `json:"cover_percent" yaml:"cover_percent"`
	RightSize    RightSizeThresholds   `json:"right_size" yaml:"right_size"`
	Concurrency  ConcurrencyThresholds `json:"concurrency" yaml:"concurrency"`
	LowValue     LowValueThresholds    `json:"low_value" yaml:"low_value"`
	Forecast     ForecastThresholds    `json:"forecast" yaml:"forecast"`
	Container    ContainerThresholds   `json:"container" yaml:"container"`
}

// RightSizeThresholds selects high-memory, short-duration functions.
type RightSizeThresholds struct {
	MinMemoryMB    float64 `json:"min_memory_mb" yaml:"min_memory_mb"`
	MaxDurationSec float64 `json:"max_duration_sec" yaml:"max_duration_sec"`
	ReductionRatio float64 `json:"reduction_ratio" yaml:"reduction_ratio"`
}

// ConcurrencyThresholds flags provisioned concurrency that buys little.
type ConcurrencyThresholds struct {
	MaxColdStartRate float64 `json:"max_cold_start_rate" yaml:"max_cold_start_rate"`
}

// LowValueThresholds selects rarely invoked but expensive functions.
type LowValueThresholds struct {
	MaxInvocationPercent float64 `json:"max_invocation_percent" yaml:"max_invocation_percent"`
}

// ForecastThresholds configures the closed-form cost model.
type ForecastThresholds struct {
	Provider     string               `json:"provider" yaml:"provider"`
	Coefficients pricing.Coefficients `json:"coefficients" yaml:"coefficients"`
	MaxDeviation float64              `json:"max_deviation" yaml:"max_deviation"`
}

// ContainerThresholds selects long-running, high-memory, low-frequency functions.
type ContainerThresholds struct {
	MinDurationSec float64 `json:"min_duration_sec" yaml:"min_duration_sec"`
	MinMemoryMB    float64 `json:"min_memory_mb" yaml:"min_memory_mb"`
	MaxInvocations float64 `json:"max_invocations" yaml:"max_invocations"`
}

// DefaultThresholds returns the stock cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CoverPercent: 80,
		RightSize: RightSizeThresholds{
			MinMemoryMB:    1500,
			MaxDurationSec: 1,
			ReductionRatio: 0.25,
		},
		Concurrency: ConcurrencyThresholds{
			MaxColdStartRate: 2,
		},
		LowValue: LowValueThresholds{
			MaxInvocationPercent: 1,
		},
		Forecast: ForecastThresholds{
			Provider:     "lambda",
			Coefficients: pricing.Lookup("lambda"),
			MaxDeviation: 0.5,
		},
		Container: ContainerThresholds{
			MinDurationSec: 3,
			MinMemoryMB:    2000,
			MaxInvocations: 5000,
		},
	}
}

// WithDefaults fills zero fields from DefaultThresholds.
func (t Thresholds) WithDefaults() Thresholds {
	d := DefaultThresholds()
	setDefault(&t.CoverPercent, d.CoverPercent)
	setDefault(&t.RightSize.MinMemoryMB, d.RightSize.MinMemoryMB)
	setDefault(&t.RightSize.MaxDurationSec, d.RightSize.MaxDurationSec)
	setDefault(&t.RightSize.ReductionRatio, d.RightSize.ReductionRatio)
	setDefault(&t.Concurrency.MaxColdStartRate, d.Concurrency.MaxColdStartRate)
	setDefault(&t.LowValue.MaxInvocationPercent, d.LowValue.MaxInvocationPercent)
	setDefault(&t.Forecast.MaxDeviation, d.Forecast.MaxDeviation)
	setDefault(&t.Container.MinDurationSec, d.Container.MinDurationSec)
	setDefault(&t.Container.MinMemoryMB, d.Container.MinMemoryMB)
	setDefault(&t.Container.MaxInvocations, d.Container.MaxInvocations)

	if t.Forecast.Provider == "" {
		t.Forecast.Provider = d.Forecast.Provider
	}
	base := pricing.Lookup(t.Forecast.Provider)
	setDefault(&t.Forecast.Coefficients.ComputePerMBSecond, base.ComputePerMBSecond)
	setDefault(&t.Forecast.Coefficients.TransferPerGB, base.TransferPerGB)
	return t
}

func setDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// Point is one scatter-plot point.
type Point struct {
	Row   int     `json:"row"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Segment is a straight line drawn between two points.
type Segment struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Chart is the data behind a scatter plot. Drawing is left to the consumer.
type Chart struct {
	Title  string   `json:"title"`
	XLabel string   `json:"x_label"`
	YLabel string   `json:"y_label"`
	LogX   bool     `json:"log_x"`
	Points []Point  `json:"points"`
	Trend  *Segment `json:"trend,omitempty"`
}

// RankedFunction is one row of the cost ranking.
type RankedFunction struct {
	Row                 int    `json:"row"`
	FunctionName        string `json:"function_name"`
	CostUSD             Float  `json:"cost_usd"`
	InvocationsPerMonth Float  `json:"invocations_per_month"`
	CumulativeCost      Float  `json:"cumulative_cost"`
	CumulativePercent   Float  `json:"cumulative_percent"`
}

// RankResult is the output of Rank.
type RankResult struct {
	TotalCost    Float            `json:"total_cost"`
	CoverPercent float64          `json:"cover_percent"`
	Ranked       []RankedFunction `json:"ranked"`
	Top          []RankedFunction `json:"top"`
	Scatter      Chart            `json:"scatter"`
}

// RightSizeCandidate is a function with more memory than its runtime suggests.
type RightSizeCandidate struct {
	Row              int    `json:"row"`
	FunctionName     string `json:"function_name"`
	MemoryMB         Float  `json:"memory_mb"`
	AvgDurationMs    Float  `json:"avg_duration_ms"`
	DurationSec      Float  `json:"duration_sec"`
	CostUSD          Float  `json:"cost_usd"`
	PredictedNewCost Float  `json:"predicted_new_cost"`
	Savings          Float  `json:"savings"`
}

// RightSizeResult is the output of RightSize.
type RightSizeResult struct {
	Candidates []RightSizeCandidate `json:"candidates"`
}

// ConcurrencyCandidate is a function with provisioned concurrency.
type ConcurrencyCandidate struct {
	Row                    int    `json:"row"`
	FunctionName           string `json:"function_name"`
	ColdStartRate          Float  `json:"cold_start_rate"`
	ProvisionedConcurrency Float  `json:"provisioned_concurrency"`
	CostUSD                Float  `json:"cost_usd"`
	WasteFlag              bool   `json:"pc_waste_flag"`
}

// ConcurrencyResult is the output of ConcurrencyWaste.
type ConcurrencyResult struct {
	Candidates []ConcurrencyCandidate `json:"candidates"`
}

// LowValueFunction is a rarely invoked function that costs more than the median.
type LowValueFunction struct {
	Row                 int    `json:"row"`
	FunctionName        string `json:"function_name"`
	InvocationsPerMonth Float  `json:"invocations_per_month"`
	PercentInvocations  Float  `json:"percent_invocations"`
	CostUSD             Float  `json:"cost_usd"`
}

// LowValueResult is the output of LowValue.
type LowValueResult struct {
	TotalInvocations Float              `json:"total_invocations"`
	MedianCost       Float              `json:"median_cost"`
	Functions        []LowValueFunction `json:"functions"`
}

// ForecastRow compares predicted and actual cost for one function.
type ForecastRow struct {
	Row           int    `json:"row"`
	FunctionName  string `json:"function_name"`
	CostUSD       Float  `json:"cost_usd"`
	PredictedCost Float  `json:"predicted_cost"`
	GBSeconds     Float  `json:"gb_seconds"`
	Deviation     Float  `json:"deviation"`
}

// ForecastResult is the output of Forecast.
type ForecastResult struct {
	Coefficients pricing.Coefficients `json:"coefficients"`
	Rows         []ForecastRow        `json:"rows"`
	Scatter      Chart                `json:"scatter"`
}

// ContainerCandidate is a workload better suited to a container.
type ContainerCandidate struct {
	Row                 int    `json:"row"`
	FunctionName        string `json:"function_name"`
	DurationSec         Float  `json:"duration_sec"`
	MemoryMB            Float  `json:"memory_mb"`
	InvocationsPerMonth Float  `json:"invocations_per_month"`
	CostUSD             Float  `json:"cost_usd"`
}

// ContainerResult is the output of Containerize.
type ContainerResult struct {
	Candidates []ContainerCandidate `json:"candidates"`
}

// Report holds every stage output for one pipeline run.
type Report struct {
	Rows        int                     `json:"rows"`
	Thresholds  Thresholds              `json:"thresholds"`
	TopCost     RankResult              `json:"top_cost"`
	RightSize   RightSizeResult         `json:"right_size"`
	Concurrency ConcurrencyResult       `json:"concurrency"`
	LowValue    LowValueResult          `json:"low_value"`
	Forecast    ForecastResult          `json:"forecast"`
	Containers  ContainerResult         `json:"containers"`
	Issues      []dataset.CoercionIssue `json:"coercion_issues,omitempty"`
}
