package analysis

import (
	"github.com/samber/lo"

	"github.com/ppiankov/lambdaspectre/internal/dataset"
	"github.com/ppiankov/lambdaspectre/internal/pricing"
)

// Forecast predicts each function's cost with the fixed-coefficient model and
// plots it against actual cost. The trend line is fitted for display only.
func Forecast(f *Frame, th ForecastThresholds) ForecastResult {
	c := th.Coefficients

	rows := lo.Map(f.Records, func(r dataset.FunctionRecord, i int) ForecastRow {
		predicted := pricing.PredictedMonthlyCost(c,
			float64(r.InvocationsPerMonth),
			float64(f.DurationSec[i]),
			float64(r.MemoryMB),
			float64(r.DataTransferGB),
		)
		gbs := pricing.GBSeconds(float64(r.InvocationsPerMonth), float64(f.DurationSec[i]), float64(r.MemoryMB))
		return ForecastRow{
			Row:           r.Row,
			FunctionName:  r.FunctionName,
			CostUSD:       r.CostUSD,
			PredictedCost: Float(predicted),
			GBSeconds:     Float(gbs),
			Deviation:     Float(pricing.RelativeDeviation(float64(r.CostUSD), predicted)),
		}
	})

	points := lo.FilterMap(rows, func(r ForecastRow, _ int) (Point, bool) {
		return Point{
			Row:   r.Row,
			Label: r.FunctionName,
			X:     float64(r.PredictedCost),
			Y:     float64(r.CostUSD),
		}, finite(r.PredictedCost) && finite(r.CostUSD)
	})

	return ForecastResult{
		Coefficients: c,
		Rows:         rows,
		Scatter: Chart{
			Title:  "Predicted vs Actual Cost",
			XLabel: "PredictedCost",
			YLabel: "CostUSD",
			Points: points,
			Trend:  trendSegment(points),
		},
	}
}
