package analysis

import (
	"github.com/ppiankov/lambdaspectre/internal/dataset"
)

// Frame is the read-only working view shared by every stage of one run. The
// aggregates are computed once from the full table and never from a filtered subset.
type Frame struct {
	Records          []dataset.FunctionRecord
	DurationSec      []Float
	TotalCost        float64
	TotalInvocations float64
	MedianCost       Float
}

// NewFrame derives DurationSec and the table-wide aggregates.
func NewFrame(tbl *dataset.Table) *Frame {
	recs := tbl.Records
	f := &Frame{
		Records:     recs,
		DurationSec: make([]Float, len(recs)),
	}

	costs := make([]Float, len(recs))
	invocations := make([]Float, len(recs))
	for i, r := range recs {
		f.DurationSec[i] = r.AvgDurationMs / 1000
		costs[i] = r.CostUSD
		invocations[i] = r.InvocationsPerMonth
	}

	f.TotalCost = sumValid(costs)
	f.TotalInvocations = sumValid(invocations)
	f.MedianCost = median(costs)
	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Records)
}
