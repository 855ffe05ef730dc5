package async

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run will run a function in a goroutine, returning its result via a channel.
func Run[T any](f func() T) <-chan T {
	c := make(chan T, 1)
	go func() {
		c <- f()
	}()
	return c
}

// ForEach calls f for each index in [0, count), with at most limit calls running at once. Once ctx is done no new
// calls are started, and ForEach returns ctx.Err() after the running ones finish.
func ForEach(ctx context.Context, limit int, count int, f func(ctx context.Context, i int)) error {
	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			// Might have been waiting for a free slot.
			if err := ctx.Err(); err != nil {
				return err
			}
			f(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}
