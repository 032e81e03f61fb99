package analysis

import (
	"slices"

	"github.com/samber/lo"

	"github.com/ppiankov/lambdaspectre/internal/dataset"
)

// RightSize selects functions with MemoryMB above the threshold that finish in
// under MaxDurationSec, largest allocation first, and projects the cost after a
// flat ReductionRatio cut.
func RightSize(f *Frame, th RightSizeThresholds) RightSizeResult {
	keep := 1 - th.ReductionRatio

	candidates := lo.FilterMap(f.Records, func(r dataset.FunctionRecord, i int) (RightSizeCandidate, bool) {
		dur := f.DurationSec[i]
		if !(r.MemoryMB > Float(th.MinMemoryMB) && dur < Float(th.MaxDurationSec)) {
			return RightSizeCandidate{}, false
		}
		predicted := r.CostUSD * Float(keep)
		return RightSizeCandidate{
			Row:              r.Row,
			FunctionName:     r.FunctionName,
			MemoryMB:         r.MemoryMB,
			AvgDurationMs:    r.AvgDurationMs,
			DurationSec:      dur,
			CostUSD:          r.CostUSD,
			PredictedNewCost: predicted,
			Savings:          r.CostUSD - predicted,
		}, true
	})
	slices.SortStableFunc(candidates, func(a, b RightSizeCandidate) int {
		return compareDesc(a.MemoryMB, b.MemoryMB)
	})

	return RightSizeResult{Candidates: candidates}
}
