package pivotsplit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/pivotsplit/internal/resource"
	"github.com/hupe1980/pivotsplit/traverse"
)

func bufferLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func TestLogger_LogBuild(t *testing.T) {
	ctx := context.Background()

	l, buf := bufferLogger(slog.LevelInfo)
	l.WithRun("r7").LogBuild(ctx, traverse.Stats{Components: 1234, Kmers: 5678901}, nil)
	assert.Contains(t, buf.String(), "components found")
	assert.Contains(t, buf.String(), "run=r7")
	assert.Contains(t, buf.String(), "kmers=5,678,901")

	buf.Reset()
	l.LogBuild(ctx, traverse.Stats{SkippedSeeds: 3}, nil)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "no components were extracted")

	buf.Reset()
	l.LogBuild(ctx, traverse.Stats{}, context.Canceled)
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestLogger_LogMemory(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{})
	_ = rc.AcquireMemory(2048)

	l, buf := bufferLogger(slog.LevelInfo)
	l.LogMemory(ctx, rc)
	assert.Empty(t, buf.String(), "memory is reported at debug level only")

	l, buf = bufferLogger(slog.LevelDebug)
	l.WithStage(StageLoad).LogMemory(ctx, rc)
	assert.Contains(t, buf.String(), "memory used")
	assert.Contains(t, buf.String(), "stage=load")
	assert.Contains(t, buf.String(), "reserved=\"2.0 KiB\"")
}

func TestLogger_Noop(t *testing.T) {
	l := NoopLogger()
	l.LogPublish(context.Background(), "x", 1, errors.New("boom"))
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}

func TestStageError(t *testing.T) {
	cause := errors.New("disk full")
	err := stageError(StageWrite, "out/components.bin", cause)
	assert.EqualError(t, err, "write out/components.bin: disk full")
	assert.ErrorIs(t, err, cause)

	assert.EqualError(t, stageError(StageBuild, "", cause), "build: disk full")
	assert.NoError(t, stageError(StageBuild, "", nil))
}
