package pivotsplit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pivotsplit/traverse"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.K = 3
	cfg.FreqFile = "kmers.kmap"
	cfg.PivotFile = "pivot.kmap"
	cfg.Pivot2File = "pivot2.kmap"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"k zero", func(c *Config) { c.K = 0 }, true},
		{"k too large", func(c *Config) { c.K = 32 }, true},
		{"negative min pivots", func(c *Config) { c.MinPivots = -1 }, true},
		{"zero quotient", func(c *Config) { c.PivotsQuotient = 0 }, true},
		{"negative threshold", func(c *Config) { c.UsedFreqThreshold = -1 }, true},
		{"missing kmers", func(c *Config) { c.FreqFile = "" }, true},
		{"missing pivot2", func(c *Config) { c.Pivot2File = "" }, true},
		{"missing work dir", func(c *Config) { c.WorkDir = "" }, true},
		{"negative memory", func(c *Config) { c.MemoryLimitBytes = -1 }, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"negative io limit", func(c *Config) { c.IOLimitBytesPerSec = -1 }, true},
		{"lock table without url", func(c *Config) { c.PublishLockTable = "locks" }, true},
		{"lock table with url", func(c *Config) {
			c.PublishLockTable = "locks"
			c.PublishURL = "s3://bucket/runs"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfig_ValidateWrapsTraverseError(t *testing.T) {
	cfg := validConfig()
	cfg.PivotsQuotient = -2
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, traverse.ErrInvalidConfig)
}

func TestConfig_Paths(t *testing.T) {
	cfg := validConfig()
	cfg.WorkDir = "out"
	assert.Equal(t, filepath.Join("out", "components.bin"), cfg.ComponentsPath())
	assert.Equal(t, filepath.Join("out", "components-stat.txt"), cfg.StatsPath())

	cfg.ComponentsFile = "elsewhere.bin"
	assert.Equal(t, "elsewhere.bin", cfg.ComponentsPath())
	assert.Equal(t, filepath.Join("out", "components-stat.txt"), cfg.StatsPath())
}
