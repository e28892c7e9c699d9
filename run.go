package pivotsplit

import (
	"context"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/pivotsplit/component"
	"github.com/hupe1980/pivotsplit/internal/fs"
	"github.com/hupe1980/pivotsplit/internal/resource"
	"github.com/hupe1980/pivotsplit/store"
	"github.com/hupe1980/pivotsplit/traverse"
)

// Result describes a finished run.
type Result struct {
	// Components is the ranked result list.
	Components []*component.Component

	// Summary aggregates Components.
	Summary component.Summary

	// Build holds the traversal counters.
	Build traverse.Stats

	// ComponentsFile and StatsFile are the local artifact paths.
	ComponentsFile string
	StatsFile      string

	// Residual is the number of k-mers written to Config.ResidualFile.
	Residual int64

	// Published lists the blob names uploaded, if publishing was enabled.
	Published []string

	Elapsed time.Duration
}

// Run loads the three store snapshots named by cfg, grows the components,
// ranks them and writes the statistics table and the components file.
//
// If ctx is cancelled during the build, Run returns the components finished
// so far together with the error and writes nothing.
func Run(ctx context.Context, cfg Config, optFns ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(optFns)
	start := time.Now()

	log := o.logger.WithRun(cfg.RunID).WithK(cfg.K)
	rc := o.rc
	if rc == nil {
		rc = resource.NewController(resource.Config{
			MemoryLimitBytes:   cfg.MemoryLimitBytes,
			MaxWorkers:         int64(cfg.Workers),
			IOLimitBytesPerSec: cfg.IOLimitBytesPerSec,
		})
	}

	stores, err := loadStores(ctx, cfg, o, rc, log.WithStage(StageLoad))
	if err != nil {
		return nil, err
	}
	defer stores.close()
	log.LogMemory(ctx, rc)

	comps, stats, err := build(ctx, cfg, stores, o, log.WithStage(StageBuild))
	res := &Result{
		Components:     comps,
		Build:          stats,
		ComponentsFile: cfg.ComponentsPath(),
		StatsFile:      cfg.StatsPath(),
	}
	if err != nil {
		res.Summary = component.Summarize(comps)
		res.Elapsed = time.Since(start)
		return res, err
	}
	log.LogMemory(ctx, rc)

	component.Sort(comps)
	res.Summary = component.Summarize(comps)

	if err := writeArtifacts(ctx, res, o, log.WithStage(StageWrite)); err != nil {
		return nil, err
	}
	if cfg.ResidualFile != "" {
		res.Residual, err = writeResidual(ctx, cfg, stores, o, rc, log.WithStage(StageWrite))
		if err != nil {
			return nil, err
		}
	}

	if cfg.PublishURL != "" || o.blobs != nil {
		p, err := newPublisher(ctx, cfg, o, rc, log.WithStage(StagePublish))
		if err != nil {
			return nil, stageError(StagePublish, cfg.PublishURL, err)
		}
		res.Published, err = p.publish(ctx, res.StatsFile, res.ComponentsFile)
		if err != nil {
			return nil, err
		}
	}

	res.Elapsed = time.Since(start)
	log.InfoContext(ctx, "run finished",
		"components", humanize.Comma(int64(res.Summary.Components)),
		"kmers", humanize.Comma(res.Summary.Kmers),
		"largest", humanize.Comma(res.Summary.Largest),
		"elapsed", res.Elapsed.Round(time.Millisecond),
	)
	return res, nil
}

type stores struct {
	freq, pivot, pivot2 *store.Map
}

func (s *stores) close() {
	for _, m := range []*store.Map{s.freq, s.pivot, s.pivot2} {
		if m != nil {
			_ = m.Close()
		}
	}
}

// loadStores reads the three snapshots concurrently, at most as many at once
// as rc has worker slots.
func loadStores(ctx context.Context, cfg Config, o options, rc *resource.Controller, log *Logger) (*stores, error) {
	s := &stores{}
	inputs := []struct {
		path string
		dst  **store.Map
	}{
		{cfg.FreqFile, &s.freq},
		{cfg.PivotFile, &s.pivot},
		{cfg.Pivot2File, &s.pivot2},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, in := range inputs {
		g.Go(func() error {
			if err := rc.AcquireWorker(gctx); err != nil {
				return stageError(StageLoad, in.path, err)
			}
			defer rc.ReleaseWorker()

			start := time.Now()
			m, err := store.LoadFile(in.path, store.WithResource(rc), store.WithFileSystem(o.fs))
			var n int64
			if err == nil {
				n = m.Len()
			}
			o.metricsCollector.RecordLoad(n, time.Since(start), err)
			log.LogLoad(gctx, in.path, n, time.Since(start), err)
			if err != nil {
				return stageError(StageLoad, in.path, err)
			}
			*in.dst = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func build(ctx context.Context, cfg Config, s *stores, o options, log *Logger) ([]*component.Component, traverse.Stats, error) {
	b, err := traverse.NewBuilder(s.freq, s.pivot, s.pivot2, cfg.traverseConfig(log.Logger))
	if err != nil {
		return nil, traverse.Stats{}, stageError(StageBuild, "", err)
	}
	comps, err := b.Run(ctx)
	stats := b.Stats()
	o.metricsCollector.RecordBuild(stats.Components, stats.Kmers, stats.Elapsed, err)
	log.LogBuild(ctx, stats, err)
	return comps, stats, stageError(StageBuild, "", err)
}

// writeArtifacts writes the statistics table to a staging file, then the
// components file, and renames the table into place only after the
// components file landed. A failed write leaves the previous pair intact.
func writeArtifacts(ctx context.Context, res *Result, o options, log *Logger) error {
	staged := res.StatsFile + ".new"
	commit := func() error { return o.fs.Rename(staged, res.StatsFile) }

	artifacts := []struct {
		path  string
		write func(fs.FileSystem, string, []*component.Component) error
		done  func() error
	}{
		{staged, component.WriteStatsFile, nil},
		{res.ComponentsFile, component.SaveFile, commit},
	}
	for _, a := range artifacts {
		start := time.Now()
		err := a.write(o.fs, a.path, res.Components)
		if err == nil && a.done != nil {
			err = a.done()
		}
		o.metricsCollector.RecordWrite(time.Since(start), err)
		log.LogWrite(ctx, a.path, len(res.Components), err)
		if err != nil {
			_ = o.fs.Remove(staged)
			return stageError(StageWrite, a.path, err)
		}
	}
	return nil
}

// writeResidual saves the unconsumed entries of the frequency store. The
// store is frozen for the compaction and thawed again afterwards.
func writeResidual(ctx context.Context, cfg Config, s *stores, o options, rc *resource.Controller, log *Logger) (int64, error) {
	comp, err := store.ParseCompression(cfg.ResidualCompression)
	if err != nil {
		return 0, stageError(StageWrite, cfg.ResidualFile, err)
	}

	start := time.Now()
	frozen := s.freq.Freeze()
	residual, err := frozen.Compact(store.WithResource(rc))
	s.freq = frozen.Thaw()
	if err != nil {
		return 0, stageError(StageWrite, cfg.ResidualFile, err)
	}
	defer residual.Close()

	err = fs.WriteFileAtomic(o.fs, cfg.ResidualFile, func(w io.Writer) error {
		return residual.Save(w, store.WithCompression(comp))
	})
	o.metricsCollector.RecordWrite(time.Since(start), err)
	if err != nil {
		log.ErrorContext(ctx, "write failed", "path", cfg.ResidualFile, "error", err)
		return 0, stageError(StageWrite, cfg.ResidualFile, err)
	}
	n := residual.Len()
	log.InfoContext(ctx, "residual written",
		"path", cfg.ResidualFile,
		"kmers", humanize.Comma(n),
		"compression", comp.String(),
	)
	return n, nil
}
