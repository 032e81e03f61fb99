package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/lambdaspectre/internal/config"
	"github.com/ppiankov/lambdaspectre/internal/server"
)

const (
	defaultAddr        = ":8080"
	defaultMaxUploadMB = 32
)

var serveFlags struct {
	addr           string
	maxUploadMB    int
	delimiter      string
	minMonthlyCost float64
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyzer over HTTP",
	Long: `Start an HTTP server that analyzes uploaded cost exports.

  POST /api/analyze   multipart field "file" or raw body; ?format=json|text|sarif|spectrehub
  GET  /healthz       liveness
  GET  /metrics       Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", defaultAddr, "Listen address (host:port)")
	serveCmd.Flags().IntVar(&serveFlags.maxUploadMB, "max-upload-mb", defaultMaxUploadMB, "Maximum upload size (MB)")
	serveCmd.Flags().StringVar(&serveFlags.delimiter, "delimiter", defaultDelimiter, "Field delimiter (single character)")
	serveCmd.Flags().Float64Var(&serveFlags.minMonthlyCost, "min-monthly-cost", 0, "Minimum monthly cost of a function to report ($)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(".")
	if err != nil {
		slog.Warn("Failed to load config file", "error", err)
	}
	applyServeConfigDefaults(cfg)

	delim, err := parseDelimiter(serveFlags.delimiter)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Addr:           serveFlags.addr,
		MaxUploadBytes: config.Config{MaxUploadMB: serveFlags.maxUploadMB}.MaxUploadBytes(),
		MinMonthlyCost: serveFlags.minMonthlyCost,
		Delimiter:      delim,
		Thresholds:     cfg.Thresholds,
		Version:        version,
	})
	return srv.Run(ctx)
}

func applyServeConfigDefaults(cfg config.Config) {
	if serveFlags.addr == defaultAddr && cfg.Addr != "" {
		serveFlags.addr = cfg.Addr
	}
	if serveFlags.maxUploadMB == defaultMaxUploadMB && cfg.MaxUploadMB > 0 {
		serveFlags.maxUploadMB = cfg.MaxUploadMB
	}
	if serveFlags.delimiter == defaultDelimiter && cfg.Delimiter != "" {
		serveFlags.delimiter = cfg.Delimiter
	}
	if serveFlags.minMonthlyCost == 0 && cfg.MinMonthlyCost > 0 {
		serveFlags.minMonthlyCost = cfg.MinMonthlyCost
	}
}
