package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is a long-running unit of work that stops when ctx is cancelled.
type Task func(ctx context.Context) error

// Run starts every task in its own goroutine and waits for all of them. The
// first task to return, with or without an error, cancels the others. It
// returns the first non-nil error.
func Run(ctx context.Context, tasks ...Task) error {
	errGroup, groupCtx := errgroup.WithContext(ctx)
	stopCtx, stop := context.WithCancel(groupCtx)
	defer stop()

	for _, task := range tasks {
		if task == nil {
			continue
		}
		errGroup.Go(func() error {
			defer stop()
			return task(stopCtx)
		})
	}

	return errGroup.Wait()
}

// Each runs action for every element concurrently and returns the first
// error encountered after all of them finish.
func Each[T any](items []T, action func(T) error) error {
	errGroup := errgroup.Group{}
	for _, item := range items {
		errGroup.Go(func() error {
			return action(item)
		})
	}
	return errGroup.Wait()
}
