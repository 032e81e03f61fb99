package analysis

import (
	"slices"

	"github.com/samber/lo"

	"github.com/ppiankov/lambdaspectre/internal/dataset"
)

// Rank sorts functions by cost (descending, stable, missing last), accumulates cost
// and cost share against the table total, and keeps the rows whose cumulative share,
// including the row itself, stays at or under coverPercent.
func Rank(f *Frame, coverPercent float64) RankResult {
	ranked := lo.Map(f.Records, func(r dataset.FunctionRecord, _ int) RankedFunction {
		return RankedFunction{
			Row:                 r.Row,
			FunctionName:        r.FunctionName,
			CostUSD:             r.CostUSD,
			InvocationsPerMonth: r.InvocationsPerMonth,
		}
	})
	slices.SortStableFunc(ranked, func(a, b RankedFunction) int {
		return compareDesc(a.CostUSD, b.CostUSD)
	})

	running := 0.0
	for i := range ranked {
		cost := ranked[i].CostUSD
		if !cost.Valid() {
			ranked[i].CumulativeCost = dataset.Missing
			ranked[i].CumulativePercent = dataset.Missing
			continue
		}
		running += float64(cost)
		ranked[i].CumulativeCost = Float(running)
		ranked[i].CumulativePercent = Float(running / f.TotalCost * 100)
	}

	limit := Float(coverPercent)
	top := lo.Filter(ranked, func(r RankedFunction, _ int) bool {
		return r.CumulativePercent <= limit
	})

	return RankResult{
		TotalCost:    Float(f.TotalCost),
		CoverPercent: coverPercent,
		Ranked:       ranked,
		Top:          top,
		Scatter:      costScatter(f),
	}
}

// costScatter plots cost against invocation volume on a log x axis. Points that
// cannot be placed on that axis are left out.
func costScatter(f *Frame) Chart {
	points := lo.FilterMap(f.Records, func(r dataset.FunctionRecord, _ int) (Point, bool) {
		ok := finite(r.InvocationsPerMonth) && finite(r.CostUSD) && r.InvocationsPerMonth > 0
		return Point{
			Row:   r.Row,
			Label: r.FunctionName,
			X:     float64(r.InvocationsPerMonth),
			Y:     float64(r.CostUSD),
		}, ok
	})
	return Chart{
		Title:  "Cost vs Invocation Frequency",
		XLabel: "InvocationsPerMonth",
		YLabel: "CostUSD",
		LogX:   true,
		Points: points,
	}
}
