package harness

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ProcessFiles runs fn once per path, bounding the number of paths
// in flight at once to limit. Each call still drives its own
// independent Encoder/Decoder/Model, so no state is shared between
// calls; the group only bounds how many files are open at once. The
// first error from any call is returned after all calls finish. Every
// path is still handed to fn after an error; the ctx passed to calls
// is cancelled once one has failed.
func ProcessFiles(ctx context.Context, paths []string, limit int, fn func(ctx context.Context, path string) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, path := range paths {
		path := path
		g.Go(func() error {
			return fn(ctx, path)
		})
	}
	return g.Wait()
}
