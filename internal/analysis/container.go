package analysis

import (
	"github.com/samber/lo"

	"github.com/ppiankov/lambdaspectre/internal/dataset"
)

// Containerize selects long-running, high-memory, low-frequency workloads. All
// three conditions must hold.
func Containerize(f *Frame, th ContainerThresholds) ContainerResult {
	candidates := lo.FilterMap(f.Records, func(r dataset.FunctionRecord, i int) (ContainerCandidate, bool) {
		dur := f.DurationSec[i]
		ok := dur > Float(th.MinDurationSec) &&
			r.MemoryMB > Float(th.MinMemoryMB) &&
			r.InvocationsPerMonth < Float(th.MaxInvocations)
		return ContainerCandidate{
			Row:                 r.Row,
			FunctionName:        r.FunctionName,
			DurationSec:         dur,
			MemoryMB:            r.MemoryMB,
			InvocationsPerMonth: r.InvocationsPerMonth,
			CostUSD:             r.CostUSD,
		}, ok
	})
	return ContainerResult{Candidates: candidates}
}
