package analysis

import (
	"github.com/samber/lo"

	"github.com/ppiankov/lambdaspectre/internal/dataset"
)

// LowValue selects functions that carry less than MaxInvocationPercent of all
// invocations yet cost more than the table-wide median.
func LowValue(f *Frame, th LowValueThresholds) LowValueResult {
	functions := lo.FilterMap(f.Records, func(r dataset.FunctionRecord, _ int) (LowValueFunction, bool) {
		pct := r.InvocationsPerMonth / Float(f.TotalInvocations) * 100
		if !(pct < Float(th.MaxInvocationPercent) && r.CostUSD > f.MedianCost) {
			return LowValueFunction{}, false
		}
		return LowValueFunction{
			Row:                 r.Row,
			FunctionName:        r.FunctionName,
			InvocationsPerMonth: r.InvocationsPerMonth,
			PercentInvocations:  pct,
			CostUSD:             r.CostUSD,
		}, true
	})

	return LowValueResult{
		TotalInvocations: Float(f.TotalInvocations),
		MedianCost:       f.MedianCost,
		Functions:        functions,
	}
}
