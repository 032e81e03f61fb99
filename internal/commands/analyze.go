package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/lambdaspectre/internal/config"
	"github.com/ppiankov/lambdaspectre/internal/dataset"
	"github.com/ppiankov/lambdaspectre/internal/report"
	"github.com/ppiankov/lambdaspectre/internal/source"
)

const (
	defaultFormat       = "text"
	defaultDelimiter    = ","
	defaultTimeout      = 5 * time.Minute
	defaultCoverPercent = 80.0
)

var analyzeFlags struct {
	format         string
	outputFile     string
	delimiter      string
	minMonthlyCost float64
	profile        string
	region         string
	gcpCredentials string
	timeout        time.Duration
	coverPercent   float64
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [LOCATION]",
	Short: "Analyze a function cost export",
	Long: `Read a delimited per-function cost export and report cost findings.

LOCATION is a local path, "-" for stdin (the default), s3://bucket/key or
gs://bucket/object. The file needs a header row with FunctionName, CostUSD,
InvocationsPerMonth, AvgDurationMs, MemoryMB, ColdStartRate,
ProvisionedConcurrency and DataTransferGB.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlags.format, "format", defaultFormat, "Output format: text, json, sarif, spectrehub")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.outputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.delimiter, "delimiter", defaultDelimiter, "Field delimiter (single character)")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.minMonthlyCost, "min-monthly-cost", 0, "Minimum monthly cost of a function to report ($)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.profile, "profile", "", "AWS profile name for s3:// locations")
	analyzeCmd.Flags().StringVar(&analyzeFlags.region, "region", "", "AWS region for s3:// locations")
	analyzeCmd.Flags().StringVar(&analyzeFlags.gcpCredentials, "gcp-credentials", "", "Service account key file for gs:// locations")
	analyzeCmd.Flags().DurationVar(&analyzeFlags.timeout, "timeout", defaultTimeout, "Timeout for fetching remote datasets")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.coverPercent, "cover-percent", defaultCoverPercent, "Share of total cost the top contributors must cover (%)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	location := "-"
	if len(args) == 1 {
		location = args[0]
	}

	cfg, err := config.Load(".")
	if err != nil {
		slog.Warn("Failed to load config file", "error", err)
	}
	applyAnalyzeConfigDefaults(cfg)

	delim, err := parseDelimiter(analyzeFlags.delimiter)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if analyzeFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, analyzeFlags.timeout)
		defer cancel()
	}

	rc, loc, err := source.Open(ctx, location, source.Options{
		Profile:        analyzeFlags.profile,
		Region:         analyzeFlags.region,
		GCPCredentials: analyzeFlags.gcpCredentials,
	})
	if err != nil {
		return enhanceError("open dataset", err)
	}
	defer func() { _ = rc.Close() }()

	data, err := analyzeReader(rc, loc, delim, cfg)
	if err != nil {
		return err
	}
	slog.Info("Analysis complete",
		"source", loc.Kind,
		"rows", data.Summary.TotalFunctions,
		"findings", data.Summary.TotalFindings,
	)

	reporter, closeFn, err := selectReporter(analyzeFlags.format, analyzeFlags.outputFile)
	if err != nil {
		return err
	}
	if err := reporter.Generate(data); err != nil {
		_ = closeFn()
		return fmt.Errorf("write report: %w", err)
	}
	return closeFn()
}

// analyzeReader runs ingestion and every analysis stage over r.
func analyzeReader(r io.Reader, loc source.Location, delim rune, cfg config.Config) (report.Data, error) {
	tbl, err := dataset.Load(r, dataset.WithDelimiter(delim))
	if err != nil {
		return report.Data{}, fmt.Errorf("load dataset: %w", err)
	}

	th := cfg.Thresholds
	th.CoverPercent = analyzeFlags.coverPercent

	return report.Build(tbl, report.BuildInput{
		Tool:    "lambdaspectre",
		Version: version,
		Target:  report.NewTarget(string(loc.Kind), loc.String()),
		Config: report.ReportConfig{
			Source:         string(loc.Kind),
			Delimiter:      string(delim),
			MinMonthlyCost: analyzeFlags.minMonthlyCost,
		},
		Thresholds: th,
	}), nil
}

func applyAnalyzeConfigDefaults(cfg config.Config) {
	if analyzeFlags.format == defaultFormat && cfg.Format != "" {
		analyzeFlags.format = cfg.Format
	}
	if analyzeFlags.delimiter == defaultDelimiter && cfg.Delimiter != "" {
		analyzeFlags.delimiter = cfg.Delimiter
	}
	if analyzeFlags.minMonthlyCost == 0 && cfg.MinMonthlyCost > 0 {
		analyzeFlags.minMonthlyCost = cfg.MinMonthlyCost
	}
	if analyzeFlags.profile == "" {
		analyzeFlags.profile = cfg.Profile
	}
	if analyzeFlags.region == "" {
		analyzeFlags.region = cfg.Region
	}
	if analyzeFlags.gcpCredentials == "" {
		analyzeFlags.gcpCredentials = cfg.GCPCredentials
	}
	if analyzeFlags.timeout == defaultTimeout && cfg.TimeoutDuration() > 0 {
		analyzeFlags.timeout = cfg.TimeoutDuration()
	}
	if analyzeFlags.coverPercent == defaultCoverPercent && cfg.Thresholds.CoverPercent > 0 {
		analyzeFlags.coverPercent = cfg.Thresholds.CoverPercent
	}
}

func parseDelimiter(s string) (rune, error) {
	if s == `\t` || strings.EqualFold(s, "tab") {
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '\n' || r[0] == '\r' || r[0] == '"' {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single character", s)
	}
	return r[0], nil
}

// selectReporter returns the reporter for format and a function that closes
// the output file, if any.
func selectReporter(format, outputFile string) (report.Reporter, func() error, error) {
	var w io.Writer = os.Stdout
	closeFn := func() error { return nil }
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, nil, fmt.Errorf("create output file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	r, ok := report.New(format, w)
	if !ok {
		_ = closeFn()
		return nil, nil, fmt.Errorf("unsupported format: %s (use %s)", format, strings.Join(report.Formats, ", "))
	}
	return r, closeFn, nil
}
