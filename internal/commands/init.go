package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var initFlags struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate sample config and S3 read policy",
	Long:  `Creates a sample .lambdaspectre.yaml config file and an IAM policy granting read access to cost exports in S3.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite existing files")
}

func runInit(_ *cobra.Command, _ []string) error {
	files := []struct{ path, content string }{
		{".lambdaspectre.yaml", sampleConfig},
		{"lambdaspectre-policy.json", sampleIAMPolicy},
	}

	var created []string
	for _, f := range files {
		wrote, err := writeIfNotExists(f.path, f.content, initFlags.force)
		if err != nil {
			return err
		}
		if wrote {
			created = append(created, f.path)
		}
	}
	if len(created) == 0 {
		return nil
	}

	fmt.Printf("Created %s\n", strings.Join(created, " and "))
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit .lambdaspectre.yaml to tune thresholds and output format")
	fmt.Println("  2. For s3:// exports: apply lambdaspectre-policy.json to your IAM role/user")
	fmt.Println("  3. For gs:// exports: grant Storage Object Viewer to your service account")
	fmt.Println("  4. Run: lambdaspectre analyze functions.csv  OR  lambdaspectre serve")
	return nil
}

// writeIfNotExists reports whether the file was written.
func writeIfNotExists(path, content string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Skipping %s (already exists, use --force to overwrite)\n", path)
			return false, nil
		}
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

const sampleConfig = `# lambdaspectre configuration
# See: https://github.com/ppiankov/lambdaspectre

# Output format: text, json, sarif, or spectrehub
format: text

# Field delimiter of the cost export
delimiter: ","

# Minimum monthly cost of a function to report ($)
min_monthly_cost: 0

# Timeout for fetching s3:// and gs:// exports
timeout: 5m

# AWS profile and region for s3:// exports (or set AWS_PROFILE / AWS_REGION)
# profile: default
# region: us-east-1

# Service account key for gs:// exports (default: application default credentials)
# gcp_credentials: /path/to/key.json

# lambdaspectre serve
addr: ":8080"
max_upload_mb: 32

thresholds:
  # Share of total cost the top contributors must cover (%)
  cover_percent: 80
  right_size:
    min_memory_mb: 1500
    max_duration_sec: 1
    reduction_ratio: 0.25
  concurrency:
    # Cold-start rate (%) below which provisioned concurrency is flagged
    max_cold_start_rate: 2
  low_value:
    # Share of total invocations (%) below which a function is rarely used
    max_invocation_percent: 1
  forecast:
    provider: lambda
    # coefficients:
    #   compute_per_mb_second: 0.000000002
    #   transfer_per_gb: 0.09
    # Relative deviation above which a forecast finding is raised
    max_deviation: 0.5
  container:
    min_duration_sec: 3
    min_memory_mb: 2000
    max_invocations: 5000
`

const sampleIAMPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Sid": "LambdaSpectreReadExports",
      "Effect": "Allow",
      "Action": [
        "s3:GetObject"
      ],
      "Resource": "arn:aws:s3:::YOUR-BUCKET/*"
    }
  ]
}
`
