package runner

import (
	"context"
	"runtime"
	"sync"
)

// Config controls the host fan-out's worker pool and failure behavior.
type Config struct {
	MaxWorkers int // >0 uses this exact count
	WorkerCap  int // upper bound on the auto-detected worker count
	FailFast   bool
}

// DefaultConfig mirrors orchestrate/config's ParallelConfig defaults:
// auto-detected workers capped well below a host count that would ever
// realistically overwhelm an operator's machine, fail-fast off so one
// flaky host doesn't abort everyone else's run.
func DefaultConfig() Config {
	return Config{WorkerCap: 32, FailFast: false}
}

func workerCount(cfg Config, itemCount int) int {
	if cfg.MaxWorkers > 0 {
		return cfg.MaxWorkers
	}
	workerCap := cfg.WorkerCap
	if workerCap <= 0 {
		workerCap = 32
	}
	workers := min(min(runtime.NumCPU()*2, workerCap), itemCount)
	if workers <= 0 {
		workers = 1
	}
	return workers
}

type indexedItem[T any] struct {
	index int
	item  T
}

type indexedResult[T any] struct {
	index  int
	result T
}

// fanOut runs fn over items concurrently, using a worker pool sized by
// cfg, and returns results in the same order as items regardless of
// completion order. When cfg.FailFast is set, the first error returned by
// fn cancels ctx for the remaining workers; fanOut still waits for every
// worker to return, then reports the results gathered so far plus the
// first error received.
func fanOut[T, R any](ctx context.Context, cfg Config, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}

	workers := workerCount(cfg, len(items))

	var cancelCtx context.Context
	var cancel context.CancelFunc
	if cfg.FailFast {
		cancelCtx, cancel = context.WithCancel(ctx)
		defer cancel()
	} else {
		cancelCtx, cancel = ctx, func() {}
	}

	work := make(chan indexedItem[T], len(items))
	out := make(chan indexedResult[R], len(items))
	errs := make(chan error, len(items))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-cancelCtx.Done():
					return
				case w, ok := <-work:
					if !ok {
						return
					}
					r, err := fn(cancelCtx, w.item)
					if err != nil {
						errs <- err
						if cfg.FailFast {
							cancel()
						}
						continue
					}
					out <- indexedResult[R]{index: w.index, result: r}
				}
			}
		}()
	}

	for i, item := range items {
		work <- indexedItem[T]{index: i, item: item}
	}
	close(work)
	wg.Wait()
	close(out)
	close(errs)

	resultMap := make(map[int]R, len(items))
	for r := range out {
		resultMap[r.index] = r.result
	}

	results := make([]R, 0, len(resultMap))
	for i := range items {
		if r, ok := resultMap[i]; ok {
			results = append(results, r)
		}
	}

	var firstErr error
	for err := range errs {
		if firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}
