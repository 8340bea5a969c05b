package pipeline

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
)

// ObjectLister lists object names under a prefix.
type ObjectLister interface {
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

// JobRunner starts one orchestration for an input object.
type JobRunner interface {
	Run(ctx context.Context, objectName string) error
}

// GCSObjectLister lists a bucket through the storage iterator.
type GCSObjectLister struct {
	bucket *storage.BucketHandle
}

func NewGCSObjectLister(bucket *storage.BucketHandle) *GCSObjectLister {
	return &GCSObjectLister{bucket: bucket}
}

func (l *GCSObjectLister) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	it := l.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list input bucket: %w", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// Sweeper starts orchestrations for every PDF in the input bucket. Job
// claiming makes this safe to run at any time: objects that already have a
// terminal job record are skipped inside Run.
type Sweeper struct {
	lister ObjectLister
	runner JobRunner
	log    zerolog.Logger
}

func NewSweeper(lister ObjectLister, runner JobRunner, log zerolog.Logger) *Sweeper {
	return &Sweeper{lister: lister, runner: runner, log: log}
}

// Sweep runs jobs for matching objects with bounded concurrency and returns
// the number of objects handed to the runner. A failed job is logged and does
// not stop the sweep; per-job failure has no cross-job effect.
func (s *Sweeper) Sweep(ctx context.Context, prefix string, concurrency int, dryRun bool) (int, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	names, err := s.lister.ListObjects(ctx, prefix)
	if err != nil {
		return 0, err
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	var started int
	for _, name := range names {
		if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
			continue
		}

		objectName := name
		started++
		if dryRun {
			s.log.Info().Str("object", objectName).Msg("Dry run: would start job.")
			continue
		}

		eg.Go(func() error {
			if err := s.runner.Run(gctx, objectName); err != nil {
				s.log.Error().Err(err).Str("object", objectName).Msg("Sweep job failed.")
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return started, err
	}
	return started, nil
}
