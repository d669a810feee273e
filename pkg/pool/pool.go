package pool

import (
	"context"
	"sync"
)

// WorkerFunc defines the function signature for a worker that processes an item and may return an error.
type WorkerFunc[T any] func(ctx context.Context, item T) error

// FetchFunc defines the function signature for a worker that produces a result per item.
type FetchFunc[T, R any] func(ctx context.Context, item T) (R, error)

// Run executes a worker pool over a slice of items.
// It returns a slice containing any errors that occurred during processing.
func Run[T any](ctx context.Context, items []T, numWorkers int, workerFunc WorkerFunc[T]) []error {
	var wg sync.WaitGroup
	taskChan := make(chan T, numWorkers)
	errChan := make(chan error, len(items))

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range taskChan {
				select {
				case <-ctx.Done():
					return
				default:
					if err := workerFunc(ctx, item); err != nil {
						errChan <- err
					}
				}
			}
		}()
	}

OUT:
	for _, item := range items {
		select {
		case taskChan <- item:
		case <-ctx.Done():
			// Stop feeding tasks if the context is cancelled
			break OUT
		}
	}
	close(taskChan)

	wg.Wait()
	close(errChan)

	var allErrors []error
	for err := range errChan {
		allErrors = append(allErrors, err)
	}
	return allErrors
}

// RunCollect executes a worker pool that gathers one result per item,
// preserving input order. Failed items are left at their zero value and
// reported in the returned error slice.
func RunCollect[T, R any](ctx context.Context, items []T, numWorkers int, fetchFunc FetchFunc[T, R]) ([]R, []error) {
	results := make([]R, len(items))

	errs := Run(ctx, indexed(items), numWorkers, func(ctx context.Context, tk task[T]) error {
		res, err := fetchFunc(ctx, tk.item)
		if err != nil {
			return err
		}
		results[tk.index] = res
		return nil
	})
	return results, errs
}

type task[T any] struct {
	index int
	item  T
}

func indexed[T any](items []T) []task[T] {
	out := make([]task[T], len(items))
	for i, item := range items {
		out[i] = task[T]{index: i, item: item}
	}
	return out
}
