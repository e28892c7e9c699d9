// Package resource governs the process-wide limits of an extraction run.
//
// The Controller manages three resource types:
//
//   - Memory: shard allocations are charged against a hard budget (non-blocking, fail-fast)
//   - Concurrency: snapshot loading runs on a bounded number of workers
//   - IO: artifact uploads are rate-limited with a token bucket
//
// # Memory Management
//
// AcquireMemory is non-blocking and returns ErrMemoryLimitExceeded immediately
// if the budget would be exceeded. The store refuses to grow a shard in that
// case, which surfaces to callers as a capacity error:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 30,
//	})
//	if err := rc.AcquireMemory(shardBytes); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(shardBytes)
//
// # Worker Limits
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// # IO Rate Limiting
//
//	r := resource.NewRateLimitedReader(ctx, file, rc)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
