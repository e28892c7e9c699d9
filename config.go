package pivotsplit

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/hupe1980/pivotsplit/store"
	"github.com/hupe1980/pivotsplit/traverse"
)

const (
	// DefaultComponentsFile is the components file name inside WorkDir.
	DefaultComponentsFile = "components.bin"

	// StatsFile is the statistics table name inside WorkDir.
	StatsFile = "components-stat.txt"
)

// Config holds the settings of a single Run.
type Config struct {
	// K is the k-mer length, 1..31. Mandatory.
	K int `mapstructure:"k"`

	// MinPivots is the minimum number of class-1 pivots on a branch.
	MinPivots int `mapstructure:"min-pivots"`

	// PivotsQuotient weighs class-1 against class-2 evidence on a branch.
	PivotsQuotient float64 `mapstructure:"pivots-quotient"`

	// RestoreOnReject un-marks rejected branch walks.
	RestoreOnReject bool `mapstructure:"restore-on-reject"`

	// UsedFreqThreshold is recorded on every component and is the primary
	// ranking key.
	UsedFreqThreshold int `mapstructure:"used-freq-threshold"`

	// FreqFile, PivotFile and Pivot2File are store snapshots written by
	// store.Map.Save.
	FreqFile   string `mapstructure:"kmers"`
	PivotFile  string `mapstructure:"pivot"`
	Pivot2File string `mapstructure:"pivot2"`

	// WorkDir receives the statistics table and, unless ComponentsFile is
	// set, the components file.
	WorkDir string `mapstructure:"work-dir"`

	// ComponentsFile overrides <WorkDir>/components.bin.
	ComponentsFile string `mapstructure:"components-file"`

	// ResidualFile, if set, receives a snapshot of the frequency store
	// entries no component consumed, for a further pass under other
	// settings.
	ResidualFile string `mapstructure:"residual-file"`

	// ResidualCompression is "none", "lz4" or "zstd".
	ResidualCompression string `mapstructure:"residual-compression"`

	// MemoryLimitBytes caps store allocations. Zero means unlimited.
	MemoryLimitBytes int64 `mapstructure:"memory-limit"`

	// Workers bounds the number of snapshots loaded at once.
	Workers int `mapstructure:"workers"`

	// IOLimitBytesPerSec throttles artifact uploads. Zero means unlimited.
	IOLimitBytesPerSec int64 `mapstructure:"io-limit"`

	// PublishURL names the blob store the artifacts are uploaded to after
	// the local write. Empty disables publishing.
	PublishURL string `mapstructure:"publish-url"`

	// PublishLockTable is the DynamoDB table used to claim s3:// publish
	// targets. Empty disables claiming.
	PublishLockTable string `mapstructure:"publish-lock-table"`

	// RunID tags log lines and prefixes published blob names.
	RunID string `mapstructure:"run-id"`

	// ProgressInterval throttles progress logging during the build.
	ProgressInterval time.Duration `mapstructure:"progress-interval"`
}

// DefaultConfig returns a Config with every optional field set. K and the
// three input files must still be filled in.
func DefaultConfig() Config {
	return Config{
		MinPivots:        1,
		PivotsQuotient:   1,
		WorkDir:          ".",
		Workers:          3,
		ProgressInterval: traverse.DefaultProgressInterval,
	}
}

// Validate checks cfg. Every returned error matches ErrInvalidConfig.
func (c Config) Validate() error {
	if err := c.traverseConfig(nil).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var errs []error
	for _, f := range []struct{ name, path string }{
		{"kmers", c.FreqFile},
		{"pivot", c.PivotFile},
		{"pivot2", c.Pivot2File},
		{"work dir", c.WorkDir},
	} {
		if f.path == "" {
			errs = append(errs, fmt.Errorf("%s is required", f.name))
		}
	}
	if c.MemoryLimitBytes < 0 {
		errs = append(errs, fmt.Errorf("memory limit must be non-negative, got %d", c.MemoryLimitBytes))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative, got %d", c.Workers))
	}
	if c.IOLimitBytesPerSec < 0 {
		errs = append(errs, fmt.Errorf("io limit must be non-negative, got %d", c.IOLimitBytesPerSec))
	}
	if _, err := store.ParseCompression(c.ResidualCompression); err != nil {
		errs = append(errs, err)
	}
	if c.PublishLockTable != "" && c.PublishURL == "" {
		errs = append(errs, errors.New("publish lock table requires a publish url"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ComponentsPath returns the components file location.
func (c Config) ComponentsPath() string {
	if c.ComponentsFile != "" {
		return c.ComponentsFile
	}
	return filepath.Join(c.WorkDir, DefaultComponentsFile)
}

// StatsPath returns the statistics table location.
func (c Config) StatsPath() string {
	return filepath.Join(c.WorkDir, StatsFile)
}

func (c Config) traverseConfig(logger *slog.Logger) traverse.Config {
	return traverse.Config{
		K:                 c.K,
		MinPivots:         c.MinPivots,
		PivotsQuotient:    c.PivotsQuotient,
		RestoreOnReject:   c.RestoreOnReject,
		UsedFreqThreshold: c.UsedFreqThreshold,
		Logger:            logger,
		ProgressInterval:  c.ProgressInterval,
	}
}
