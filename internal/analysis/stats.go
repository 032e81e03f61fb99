package analysis

import (
	"cmp"
	"math"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/ppiankov/lambdaspectre/internal/dataset"
)

// sumValid adds every present value; missing values count as zero.
func sumValid(vs []Float) float64 {
	return lo.SumBy(vs, func(v Float) float64 { return v.Or(0) })
}

// median returns the middle of the present values, averaging the two middle
// values for an even count. It is Missing when no value is present.
func median(vs []Float) Float {
	valid := lo.FilterMap(vs, func(v Float, _ int) (float64, bool) { return float64(v), v.Valid() })
	if len(valid) == 0 {
		return dataset.Missing
	}
	slices.Sort(valid)
	mid := len(valid) / 2
	if len(valid)%2 == 1 {
		return Float(valid[mid])
	}
	return Float((valid[mid-1] + valid[mid]) / 2)
}

// finite reports whether v is present and not infinite, i.e. plottable.
func finite(v Float) bool {
	return v.Valid() && !math.IsInf(float64(v), 0)
}

// compareDesc orders a before b when a is larger; missing values sort last.
func compareDesc(a, b Float) int {
	switch {
	case !a.Valid() && !b.Valid():
		return 0
	case !a.Valid():
		return 1
	case !b.Valid():
		return -1
	}
	return cmp.Compare(float64(b), float64(a))
}

// trendSegment fits y = alpha + beta*x by ordinary least squares and returns the
// fitted line across the observed x range. It returns nil with fewer than two
// points or when every x is the same.
func trendSegment(points []Point) *Segment {
	if len(points) < 2 {
		return nil
	}
	xs := lo.Map(points, func(p Point, _ int) float64 { return p.X })
	ys := lo.Map(points, func(p Point, _ int) float64 { return p.Y })

	minX, maxX := slices.Min(xs), slices.Max(xs)
	if minX == maxX {
		return nil
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	y0, y1 := alpha+beta*minX, alpha+beta*maxX
	if !finite(Float(y0)) || !finite(Float(y1)) {
		return nil
	}
	return &Segment{X0: minX, Y0: y0, X1: maxX, Y1: y1}
}
