package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/lambdaspectre/internal/analysis"
)

// Config holds lambdaspectre configuration loaded from .lambdaspectre.yaml.
type Config struct {
	Format         string              `yaml:"format"`
	Delimiter      string              `yaml:"delimiter"`
	MinMonthlyCost float64             `yaml:"min_monthly_cost"`
	Timeout        string              `yaml:"timeout"`
	Profile        string              `yaml:"profile"`
	Region         string              `yaml:"region"`
	GCPCredentials string              `yaml:"gcp_credentials"`
	Addr           string              `yaml:"addr"`
	MaxUploadMB    int                 `yaml:"max_upload_mb"`
	Thresholds     analysis.Thresholds `yaml:"thresholds"`
}

// TimeoutDuration parses the timeout string as a duration.
func (c Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// MaxUploadBytes returns the upload size cap in bytes.
func (c Config) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 32 << 20
	}
	return int64(c.MaxUploadMB) << 20
}

// Load searches for .lambdaspectre.yaml or .lambdaspectre.yml in the given
// directory and returns the parsed config. Returns an empty Config if no file is found.
func Load(dir string) (Config, error) {
	candidates := []string{
		filepath.Join(dir, ".lambdaspectre.yaml"),
		filepath.Join(dir, ".lambdaspectre.yml"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}

		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		return cfg, nil
	}

	return Config{}, nil
}
