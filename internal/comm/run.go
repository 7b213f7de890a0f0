package comm

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Run executes fn on n in-process ranks. When a rank fails the hub is aborted
// so the remaining ranks unblock; the error reported is the failing rank's own
// error, never the ErrAborted seen by its peers.
func Run(ctx context.Context, n int, fn func(ctx context.Context, c Comm) error) error {
	if n == 1 {
		return fn(ctx, Single{})
	}
	hub, err := NewHub(n)
	if err != nil {
		return err
	}

	var (
		mu    sync.Mutex
		cause error
	)
	eg, egCtx := errgroup.WithContext(ctx)
	for rank := 0; rank < n; rank++ {
		c := hub.Endpoint(rank)
		eg.Go(func() error {
			err := fn(egCtx, c)
			if err != nil && !errors.Is(err, ErrAborted) {
				mu.Lock()
				if cause == nil {
					cause = err
				}
				mu.Unlock()
			}
			if err != nil {
				hub.Abort()
			}
			return err
		})
	}
	werr := eg.Wait()
	if cause != nil {
		return cause
	}
	return werr
}
