package dataset

import (
	"encoding/json"
	"math"
	"strconv"
)

// Column names expected in the header row, after whitespace trimming.
const (
	ColFunctionName           = "FunctionName"
	ColCostUSD                = "CostUSD"
	ColInvocationsPerMonth    = "InvocationsPerMonth"
	ColAvgDurationMs          = "AvgDurationMs"
	ColMemoryMB               = "MemoryMB"
	ColColdStartRate          = "ColdStartRate"
	ColProvisionedConcurrency = "ProvisionedConcurrency"
	ColDataTransferGB         = "DataTransferGB"
)

// RequiredColumns lists every column that must be present for a load to succeed.
var RequiredColumns = []string{
	ColFunctionName,
	ColCostUSD,
	ColInvocationsPerMonth,
	ColAvgDurationMs,
	ColMemoryMB,
	ColColdStartRate,
	ColProvisionedConcurrency,
	ColDataTransferGB,
}

// NumericColumns lists the columns coerced to numbers.
var NumericColumns = RequiredColumns[1:]

// Float is a numeric cell. NaN marks a missing value.
type Float float64

// Missing is the explicit missing marker.
var Missing = Float(math.NaN())

// Valid reports whether the value is present.
func (f Float) Valid() bool {
	return !math.IsNaN(float64(f))
}

// Or returns the value, or def when missing.
func (f Float) Or(def float64) float64 {
	if !f.Valid() {
		return def
	}
	return float64(f)
}

// String formats the value for tables; missing values render as "NaN".
func (f Float) String() string {
	if !f.Valid() {
		return "NaN"
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}

// MarshalJSON encodes missing and non-finite values as null.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON decodes null as missing.
func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Missing
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// FunctionRecord is one row of the ingested table.
type FunctionRecord struct {
	Row                    int    `json:"row"`
	FunctionName           string `json:"function_name"`
	CostUSD                Float  `json:"cost_usd"`
	InvocationsPerMonth    Float  `json:"invocations_per_month"`
	AvgDurationMs          Float  `json:"avg_duration_ms"`
	MemoryMB               Float  `json:"memory_mb"`
	ColdStartRate          Float  `json:"cold_start_rate"`
	ProvisionedConcurrency Float  `json:"provisioned_concurrency"`
	DataTransferGB         Float  `json:"data_transfer_gb"`
}

// CoercionIssue records a cell that could not be parsed as a number.
type CoercionIssue struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Table is the in-memory dataset for one ingestion event.
type Table struct {
	Records []FunctionRecord `json:"records"`
	Columns []string         `json:"columns"`
	Issues  []CoercionIssue  `json:"issues,omitempty"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Records)
}
