package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// runStage runs fn(i) for i in [0, n) with at most numWorkers concurrent
// calls, stopping at the first error (the other in-flight calls still
// run to completion, per errgroup's contract). The semaphore-bounded
// errgroup is the same pattern used for concurrent downloads elsewhere.
func runStage(ctx context.Context, n, numWorkers int, fn func(ctx context.Context, i int) error) error {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	sem := semaphore.NewWeighted(int64(numWorkers))
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

// regionBudget is the pool-wide counting semaphore bounding the number
// of full-resolution regions simultaneously decoded in memory (§5,
// shared resource 3).
type regionBudget struct {
	sem *semaphore.Weighted
}

func newRegionBudget(maxInFlight int64) *regionBudget {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	return &regionBudget{sem: semaphore.NewWeighted(maxInFlight)}
}

func (b *regionBudget) acquire(ctx context.Context) error {
	return b.sem.Acquire(ctx, 1)
}

func (b *regionBudget) release() {
	b.sem.Release(1)
}
