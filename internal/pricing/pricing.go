package pricing

import "math"

// PredictedMonthlyCost estimates monthly cost from usage:
// invocations × duration(s) × memory(MB) × k + transferGB × p.
// Any NaN input yields NaN.
func PredictedMonthlyCost(c Coefficients, invocations, durationSec, memoryMB, transferGB float64) float64 {
	return invocations*durationSec*memoryMB*c.ComputePerMBSecond + transferGB*c.TransferPerGB
}

// GBSeconds converts a monthly invocation count, duration and memory allocation into
// billed compute in GB-seconds.
func GBSeconds(invocations, durationSec, memoryMB float64) float64 {
	return invocations * durationSec * memoryMB / 1024
}

// Lookup returns the coefficients for a provider, falling back to the default set.
func Lookup(provider string) Coefficients {
	c, ok := ModelCoefficients[provider]
	if !ok {
		return ModelCoefficients["default"]
	}
	return c
}

// RelativeDeviation returns |actual - predicted| / |actual|, or NaN when actual is
// zero or either value is NaN.
func RelativeDeviation(actual, predicted float64) float64 {
	if actual == 0 || math.IsNaN(actual) || math.IsNaN(predicted) {
		return math.NaN()
	}
	return math.Abs(actual-predicted) / math.Abs(actual)
}
