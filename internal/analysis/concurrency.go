package analysis

import (
	"github.com/samber/lo"

	"github.com/ppiankov/lambdaspectre/internal/dataset"
)

// ConcurrencyWaste lists functions with provisioned concurrency and flags those
// whose cold-start rate is already under MaxColdStartRate percent.
func ConcurrencyWaste(f *Frame, th ConcurrencyThresholds) ConcurrencyResult {
	candidates := lo.FilterMap(f.Records, func(r dataset.FunctionRecord, _ int) (ConcurrencyCandidate, bool) {
		if !(r.ProvisionedConcurrency > 0) {
			return ConcurrencyCandidate{}, false
		}
		return ConcurrencyCandidate{
			Row:                    r.Row,
			FunctionName:           r.FunctionName,
			ColdStartRate:          r.ColdStartRate,
			ProvisionedConcurrency: r.ProvisionedConcurrency,
			CostUSD:                r.CostUSD,
			WasteFlag:              r.ColdStartRate < Float(th.MaxColdStartRate),
		}, true
	})
	return ConcurrencyResult{Candidates: candidates}
}
