package analysis

import (
	"log/slog"

	"github.com/ppiankov/lambdaspectre/internal/dataset"
)

// Run executes every stage against one ingested table. It is called once per
// ingestion event and never mutates tbl.
func Run(tbl *dataset.Table, th Thresholds) *Report {
	th = th.WithDefaults()
	f := NewFrame(tbl)

	rep := &Report{
		Rows:        f.Len(),
		Thresholds:  th,
		TopCost:     Rank(f, th.CoverPercent),
		RightSize:   RightSize(f, th.RightSize),
		Concurrency: ConcurrencyWaste(f, th.Concurrency),
		LowValue:    LowValue(f, th.LowValue),
		Forecast:    Forecast(f, th.Forecast),
		Containers:  Containerize(f, th.Container),
		Issues:      tbl.Issues,
	}

	slog.Debug("Analysis complete",
		"rows", rep.Rows,
		"total_cost", f.TotalCost,
		"top_cost", len(rep.TopCost.Top),
		"right_size", len(rep.RightSize.Candidates),
		"concurrency", len(rep.Concurrency.Candidates),
		"low_value", len(rep.LowValue.Functions),
		"containers", len(rep.Containers.Candidates),
	)
	return rep
}
