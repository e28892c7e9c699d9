// Package pivotsplit extracts connected components from a k-mer de Bruijn
// graph, growing one component around every class-1 pivot k-mer.
//
// The graph is implicit: a frequency store holds every k-mer and its count,
// and two pivot stores mark the k-mers characteristic of the two sources
// being separated. Run loads the three store snapshots, grows the components,
// ranks them and writes the binary components file plus a TSV statistics
// table.
//
// # Quick Start
//
//	cfg := pivotsplit.DefaultConfig()
//	cfg.K = 31
//	cfg.MinPivots = 2
//	cfg.PivotsQuotient = 1.5
//	cfg.FreqFile = "graph.kmap"
//	cfg.PivotFile = "pivot.kmap"
//	cfg.Pivot2File = "pivot2.kmap"
//	cfg.WorkDir = "./out"
//
//	res, err := pivotsplit.Run(ctx, cfg, pivotsplit.WithLogger(pivotsplit.NewTextLogger(slog.LevelInfo)))
//
// # Publishing
//
// Setting PublishURL uploads both artifacts after they were written locally:
//
//	cfg.PublishURL = "s3://my-bucket/runs"      // AWS S3
//	cfg.PublishURL = "minio://host:9000/bucket" // MinIO
//	cfg.PublishURL = "file:///srv/artifacts"    // local directory
//
// With PublishLockTable set, an s3:// target is claimed in a DynamoDB table
// for the duration of the upload so two runs never write the same prefix.
//
// # Concurrency
//
// The three snapshots load concurrently. Traversal itself is single-threaded:
// the stores are mutated in place and owned by the run.
package pivotsplit
