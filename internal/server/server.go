// Package server exposes the analysis pipeline over HTTP: one run per upload.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/lambdaspectre/internal/analysis"
	"github.com/ppiankov/lambdaspectre/internal/dataset"
	"github.com/ppiankov/lambdaspectre/internal/report"
)

const shutdownTimeout = 10 * time.Second

// Config controls the upload server.
type Config struct {
	Addr           string
	MaxUploadBytes int64
	MinMonthlyCost float64
	Delimiter      rune
	Thresholds     analysis.Thresholds
	Version        string
}

// Server wraps an echo instance with its own metrics registry.
type Server struct {
	cfg      Config
	echo     *echo.Echo
	registry *prometheus.Registry
	metrics  *Metrics
}

// New builds the server and registers its routes.
func New(cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		cfg:      cfg,
		echo:     echo.New(),
		registry: reg,
		metrics:  NewMetrics(reg),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true

	s.echo.POST("/api/analyze", s.handleAnalyze)
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving", "addr", s.cfg.Addr)
		errCh <- s.echo.Start(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
}

var contentTypes = map[string]string{
	"text":       echo.MIMETextPlainCharsetUTF8,
	"json":       echo.MIMEApplicationJSON,
	"sarif":      echo.MIMEApplicationJSON,
	"spectrehub": echo.MIMEApplicationJSON,
}

func (s *Server) handleAnalyze(c echo.Context) error {
	start := time.Now()

	format := c.QueryParam("format")
	if format == "" {
		format = "json"
	}
	ctype, ok := contentTypes[format]
	if !ok {
		s.metrics.Uploads.WithLabelValues(resultBadRequest).Inc()
		return c.JSON(http.StatusBadRequest, errorBody{
			Error:   "UNSUPPORTED_FORMAT",
			Message: fmt.Sprintf("format %q is not one of %s", format, strings.Join(report.Formats, ", ")),
		})
	}

	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, s.cfg.MaxUploadBytes)

	name, raw, err := readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.Uploads.WithLabelValues(resultTooLarge).Inc()
			return c.JSON(http.StatusRequestEntityTooLarge, errorBody{
				Error:   "UPLOAD_TOO_LARGE",
				Message: fmt.Sprintf("upload exceeds %d bytes", s.cfg.MaxUploadBytes),
			})
		}
		s.metrics.Uploads.WithLabelValues(resultBadRequest).Inc()
		return c.JSON(http.StatusBadRequest, errorBody{Error: "BAD_UPLOAD", Message: err.Error()})
	}

	tbl, err := dataset.Load(bytes.NewReader(raw), dataset.WithDelimiter(s.cfg.Delimiter))
	if err != nil {
		var ingest *dataset.IngestionError
		if errors.As(err, &ingest) {
			s.metrics.Uploads.WithLabelValues(resultRejected).Inc()
			slog.Info("Upload rejected", "code", ingest.Code, "name", name)
			return c.JSON(http.StatusUnprocessableEntity, errorBody{
				Error:   ingest.Code,
				Message: ingest.Message,
				Missing: ingest.Missing,
			})
		}
		s.metrics.Uploads.WithLabelValues(resultServerError).Inc()
		return c.JSON(http.StatusInternalServerError, errorBody{Error: "INTERNAL", Message: err.Error()})
	}

	data := report.Build(tbl, report.BuildInput{
		Tool:    "lambdaspectre",
		Version: s.cfg.Version,
		Target:  report.NewTarget("upload", name),
		Config: report.ReportConfig{
			Source:         "upload",
			Delimiter:      string(s.cfg.delimiter()),
			MinMonthlyCost: s.cfg.MinMonthlyCost,
		},
		Thresholds: s.cfg.Thresholds,
	})

	var buf bytes.Buffer
	reporter, _ := report.New(format, &buf)
	if err := reporter.Generate(data); err != nil {
		s.metrics.Uploads.WithLabelValues(resultServerError).Inc()
		return c.JSON(http.StatusInternalServerError, errorBody{Error: "INTERNAL", Message: err.Error()})
	}

	s.metrics.Uploads.WithLabelValues(resultOK).Inc()
	s.metrics.Rows.Add(float64(tbl.Len()))
	for _, f := range data.Findings {
		s.metrics.Findings.WithLabelValues(string(f.ID)).Inc()
	}
	s.metrics.Duration.Observe(time.Since(start).Seconds())

	slog.Info("Upload analyzed", "name", name, "rows", tbl.Len(), "findings", len(data.Findings))
	return c.Blob(http.StatusOK, ctype, buf.Bytes())
}

func (c Config) delimiter() rune {
	if c.Delimiter == 0 {
		return ','
	}
	return c.Delimiter
}

// readUpload returns the multipart "file" field when present, otherwise the raw body.
func readUpload(c echo.Context) (string, []byte, error) {
	req := c.Request()
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return "", nil, fmt.Errorf("read form field \"file\": %w", err)
		}
		f, err := fh.Open()
		if err != nil {
			return "", nil, fmt.Errorf("open upload: %w", err)
		}
		defer func() { _ = f.Close() }()
		raw, err := io.ReadAll(f)
		if err != nil {
			return "", nil, fmt.Errorf("read upload: %w", err)
		}
		return fh.Filename, raw, nil
	}

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read body: %w", err)
	}
	return "body", raw, nil
}
