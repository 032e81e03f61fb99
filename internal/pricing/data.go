package pricing

// Coefficients holds the closed-form cost model constants for one provider.
type Coefficients struct {
	// ComputePerMBSecond is the cost per invocation-second-megabyte.
	ComputePerMBSecond float64 `json:"compute_per_mb_second" yaml:"compute_per_mb_second"`
	// TransferPerGB is the cost per GB transferred out.
	TransferPerGB float64 `json:"transfer_per_gb" yaml:"transfer_per_gb"`
}

// ModelCoefficients maps provider to the forecast coefficients.
// The lambda values are the heuristic constants used by the dashboard the report
// replaces; they are not fitted to the input dataset.
var ModelCoefficients = map[string]Coefficients{
	"lambda": {
		ComputePerMBSecond: 0.000000002, // 2e-9 USD per invocation-second-MB
		TransferPerGB:      0.09,        // internet egress, first 10 TB tier
	},
	"default": {
		ComputePerMBSecond: 0.000000002,
		TransferPerGB:      0.09,
	},
}
