package traverse

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hupe1980/pivotsplit/kmer"
)

// ErrInvalidConfig is returned for out-of-range traversal settings.
var ErrInvalidConfig = errors.New("traverse: invalid config")

// DefaultProgressInterval is the minimum delay between progress log lines.
const DefaultProgressInterval = 10 * time.Second

// Config holds the run-scoped traversal settings.
type Config struct {
	// K is the k-mer length.
	K int

	// MinPivots is the minimum number of class-1 pivots a branch must carry.
	MinPivots int

	// PivotsQuotient weighs class-1 against class-2 evidence on a branch.
	PivotsQuotient float64

	// RestoreOnReject un-marks the nodes of a rejected branch walk so other
	// seeds may still reach them.
	RestoreOnReject bool

	// UsedFreqThreshold is recorded on every emitted component.
	UsedFreqThreshold int

	// Logger receives progress output. Nil discards it.
	Logger *slog.Logger

	// ProgressInterval throttles progress logging. Zero means DefaultProgressInterval.
	ProgressInterval time.Duration
}

// Validate checks the settings.
func (c Config) Validate() error {
	if err := kmer.ValidateK(c.K); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.MinPivots < 0 {
		return fmt.Errorf("%w: min pivots must be non-negative, got %d", ErrInvalidConfig, c.MinPivots)
	}
	if !(c.PivotsQuotient > 0) || math.IsInf(c.PivotsQuotient, 1) {
		return fmt.Errorf("%w: pivots quotient must be positive and finite, got %v", ErrInvalidConfig, c.PivotsQuotient)
	}
	if c.UsedFreqThreshold < 0 {
		return fmt.Errorf("%w: used freq threshold must be non-negative, got %d", ErrInvalidConfig, c.UsedFreqThreshold)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c Config) progressInterval() time.Duration {
	if c.ProgressInterval <= 0 {
		return DefaultProgressInterval
	}
	return c.ProgressInterval
}
