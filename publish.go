package pivotsplit

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hupe1980/pivotsplit/blobstore"
	miniostore "github.com/hupe1980/pivotsplit/blobstore/minio"
	s3store "github.com/hupe1980/pivotsplit/blobstore/s3"
	"github.com/hupe1980/pivotsplit/internal/fs"
	"github.com/hupe1980/pivotsplit/internal/resource"
)

// OpenBlobStore opens the blob store named by rawURL:
//
//	file:///abs/dir                     local directory
//	s3://bucket/prefix?region=eu-west-1  AWS S3 (default credential chain)
//	minio://host:9000/bucket/prefix      MinIO, TLS unless ?secure=false
func OpenBlobStore(ctx context.Context, rawURL string) (blobstore.Store, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	prefix := strings.Trim(u.Path, "/")

	switch u.Scheme {
	case "file":
		dir := u.Path
		if u.Host != "" {
			dir = filepath.Join(u.Host, u.Path)
		}
		if dir == "" {
			return nil, fmt.Errorf("%w: empty directory in %q", ErrInvalidConfig, rawURL)
		}
		return blobstore.NewLocalStore(filepath.FromSlash(dir)), nil
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: missing bucket in %q", ErrInvalidConfig, rawURL)
		}
		opts := []func(*s3store.Options){s3store.WithPrefix(prefix)}
		if region := u.Query().Get("region"); region != "" {
			opts = append(opts, s3store.WithRegion(region))
		}
		if endpoint := u.Query().Get("endpoint"); endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(endpoint))
		}
		return s3store.New(ctx, u.Host, opts...)
	case "minio":
		bucket, rest, _ := strings.Cut(prefix, "/")
		if u.Host == "" || bucket == "" {
			return nil, fmt.Errorf("%w: minio url needs host and bucket: %q", ErrInvalidConfig, rawURL)
		}
		return miniostore.Dial(u.Host, bucket, rest, u.Query().Get("secure") != "false")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// publisher uploads finished artifacts.
type publisher struct {
	blobs   blobstore.Store
	guard   Guard
	target  string
	runID   string
	fs      fs.FileSystem
	rc      *resource.Controller
	log     *Logger
	metrics MetricsCollector
}

func newPublisher(ctx context.Context, cfg Config, o options, rc *resource.Controller, log *Logger) (*publisher, error) {
	p := &publisher{
		blobs:   o.blobs,
		guard:   o.guard,
		target:  cfg.PublishURL,
		runID:   cfg.RunID,
		fs:      o.fs,
		rc:      rc,
		log:     log,
		metrics: o.metricsCollector,
	}
	if p.target == "" {
		p.target = "blobstore"
	}
	if p.runID != "" {
		p.target += "#" + p.runID
	}

	if p.blobs == nil {
		blobs, err := OpenBlobStore(ctx, cfg.PublishURL)
		if err != nil {
			return nil, err
		}
		p.blobs = blobs
	}
	if p.guard == nil && cfg.PublishLockTable != "" {
		g, err := s3store.NewPublishGuardFromConfig(ctx, cfg.PublishLockTable, owner(cfg.RunID))
		if err != nil {
			return nil, err
		}
		p.guard = g
	}
	return p, nil
}

// owner identifies this process in publish claims.
func owner(runID string) string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	if runID == "" {
		return fmt.Sprintf("%s-%d", host, os.Getpid())
	}
	return fmt.Sprintf("%s-%d-%s", host, os.Getpid(), runID)
}

// blobName places a local artifact under the run's prefix.
func (p *publisher) blobName(file string) string {
	name := filepath.Base(file)
	if p.runID == "" {
		return name
	}
	return path.Join(p.runID, name)
}

// publish uploads files in order, holding the target claim for the whole
// batch. It returns the blob names written.
func (p *publisher) publish(ctx context.Context, files ...string) (names []string, err error) {
	if p.guard != nil {
		if err := p.guard.Claim(ctx, p.target); err != nil {
			return nil, stageError(StagePublish, p.target, err)
		}
		defer func() {
			if rerr := p.guard.Release(context.WithoutCancel(ctx), p.target); rerr != nil {
				p.log.WarnContext(ctx, "release publish claim", "target", p.target, "error", rerr)
			}
		}()
	}

	for _, file := range files {
		name := p.blobName(file)
		start := time.Now()
		n, err := p.upload(ctx, file, name)
		p.metrics.RecordPublish(n, time.Since(start), err)
		p.log.LogPublish(ctx, name, n, err)
		if err != nil {
			return names, stageError(StagePublish, name, err)
		}
		names = append(names, name)
	}
	return names, nil
}

func (p *publisher) upload(ctx context.Context, file, name string) (int64, error) {
	f, err := p.fs.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := p.blobs.Put(ctx, name, resource.NewRateLimitedReader(ctx, f, p.rc))
	if err != nil {
		return n, fmt.Errorf("put %s: %w", name, err)
	}
	return n, nil
}
