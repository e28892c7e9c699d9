package pivotsplit

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting run metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLoad is called after each store snapshot load.
	// entries is the number of k-mers loaded.
	RecordLoad(entries int64, duration time.Duration, err error)

	// RecordBuild is called once component building finished or was
	// interrupted.
	RecordBuild(components, kmers int64, duration time.Duration, err error)

	// RecordWrite is called after each local artifact write.
	RecordWrite(duration time.Duration, err error)

	// RecordPublish is called after each artifact upload.
	// bytes is the number of bytes uploaded.
	RecordPublish(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int64, time.Duration, error)         {}
func (NoopMetricsCollector) RecordBuild(int64, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordWrite(time.Duration, error)               {}
func (NoopMetricsCollector) RecordPublish(int64, time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadEntries     atomic.Int64
	LoadTotalNanos  atomic.Int64
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	Components      atomic.Int64
	Kmers           atomic.Int64
	BuildTotalNanos atomic.Int64
	WriteCount      atomic.Int64
	WriteErrors     atomic.Int64
	PublishCount    atomic.Int64
	PublishErrors   atomic.Int64
	PublishBytes    atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(entries int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadEntries.Add(entries)
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(components, kmers int64, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	b.Components.Add(components)
	b.Kmers.Add(kmers)
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(duration time.Duration, err error) {
	b.WriteCount.Add(1)
	if err != nil {
		b.WriteErrors.Add(1)
	}
}

// RecordPublish implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPublish(bytes int64, duration time.Duration, err error) {
	b.PublishCount.Add(1)
	if err != nil {
		b.PublishErrors.Add(1)
		return
	}
	b.PublishBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:     b.LoadCount.Load(),
		LoadErrors:    b.LoadErrors.Load(),
		LoadEntries:   b.LoadEntries.Load(),
		LoadAvgNanos:  avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		BuildCount:    b.BuildCount.Load(),
		BuildErrors:   b.BuildErrors.Load(),
		Components:    b.Components.Load(),
		Kmers:         b.Kmers.Load(),
		BuildAvgNanos: avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		WriteCount:    b.WriteCount.Load(),
		WriteErrors:   b.WriteErrors.Load(),
		PublishCount:  b.PublishCount.Load(),
		PublishErrors: b.PublishErrors.Load(),
		PublishBytes:  b.PublishBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount     int64
	LoadErrors    int64
	LoadEntries   int64
	LoadAvgNanos  int64
	BuildCount    int64
	BuildErrors   int64
	Components    int64
	Kmers         int64
	BuildAvgNanos int64
	WriteCount    int64
	WriteErrors   int64
	PublishCount  int64
	PublishErrors int64
	PublishBytes  int64
}
