package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	content := `format: json
delimiter: ";"
min_monthly_cost: 0.50
timeout: 5m
profile: dev
region: eu-west-1
gcp_credentials: /etc/gcp.json
addr: ":9090"
max_upload_mb: 8
thresholds:
  cover_percent: 90
  right_size:
    min_memory_mb: 1024
    reduction_ratio: 0.5
  forecast:
    max_deviation: 0.25
    coefficients:
      compute_per_mb_second: 0.000000003
`
	if err := os.WriteFile(filepath.Join(dir, ".lambdaspectre.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
	if cfg.Delimiter != ";" {
		t.Errorf("Delimiter = %q, want ;", cfg.Delimiter)
	}
	if cfg.MinMonthlyCost != 0.50 {
		t.Errorf("MinMonthlyCost = %f, want 0.50", cfg.MinMonthlyCost)
	}
	if cfg.Timeout != "5m" {
		t.Errorf("Timeout = %q, want %q", cfg.Timeout, "5m")
	}
	if cfg.Profile != "dev" {
		t.Errorf("Profile = %q, want %q", cfg.Profile, "dev")
	}
	if cfg.Region != "eu-west-1" {
		t.Errorf("Region = %q, want %q", cfg.Region, "eu-west-1")
	}
	if cfg.GCPCredentials != "/etc/gcp.json" {
		t.Errorf("GCPCredentials = %q, want /etc/gcp.json", cfg.GCPCredentials)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.MaxUploadBytes() != 8<<20 {
		t.Errorf("MaxUploadBytes() = %d, want %d", cfg.MaxUploadBytes(), 8<<20)
	}

	th := cfg.Thresholds.WithDefaults()
	if th.CoverPercent != 90 {
		t.Errorf("CoverPercent = %f, want 90", th.CoverPercent)
	}
	if th.RightSize.MinMemoryMB != 1024 {
		t.Errorf("RightSize.MinMemoryMB = %f, want 1024", th.RightSize.MinMemoryMB)
	}
	if th.RightSize.MaxDurationSec != 1 {
		t.Errorf("RightSize.MaxDurationSec = %f, want default 1", th.RightSize.MaxDurationSec)
	}
	if th.Forecast.MaxDeviation != 0.25 {
		t.Errorf("Forecast.MaxDeviation = %f, want 0.25", th.Forecast.MaxDeviation)
	}
	if th.Forecast.Coefficients.ComputePerMBSecond != 3e-9 {
		t.Errorf("ComputePerMBSecond = %g, want 3e-9", th.Forecast.Coefficients.ComputePerMBSecond)
	}
	if th.Forecast.Coefficients.TransferPerGB != 0.09 {
		t.Errorf("TransferPerGB = %g, want default 0.09", th.Forecast.Coefficients.TransferPerGB)
	}
}

func TestLoadYML(t *testing.T) {
	dir := t.TempDir()
	content := `min_monthly_cost: 5
`
	if err := os.WriteFile(filepath.Join(dir, ".lambdaspectre.yml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MinMonthlyCost != 5 {
		t.Errorf("MinMonthlyCost = %f, want 5", cfg.MinMonthlyCost)
	}
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Format != "" {
		t.Errorf("Format = %q, want empty", cfg.Format)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".lambdaspectre.yaml"), []byte(":::invalid"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(dir)
	if err == nil {
		t.Error("Load() should error on invalid YAML")
	}
}

func TestTimeoutDuration(t *testing.T) {
	tests := []struct {
		timeout string
		want    time.Duration
	}{
		{"5m", 5 * time.Minute},
		{"30s", 30 * time.Second},
		{"", 0},
		{"invalid", 0},
	}
	for _, tt := range tests {
		cfg := Config{Timeout: tt.timeout}
		got := cfg.TimeoutDuration()
		if got != tt.want {
			t.Errorf("TimeoutDuration(%q) = %v, want %v", tt.timeout, got, tt.want)
		}
	}
}

func TestMaxUploadBytes(t *testing.T) {
	tests := []struct {
		mb   int
		want int64
	}{
		{0, 32 << 20},
		{-1, 32 << 20},
		{1, 1 << 20},
		{64, 64 << 20},
	}
	for _, tt := range tests {
		cfg := Config{MaxUploadMB: tt.mb}
		got := cfg.MaxUploadBytes()
		if got != tt.want {
			t.Errorf("MaxUploadBytes(mb=%d) = %d, want %d", tt.mb, got, tt.want)
		}
	}
}
