package vcs

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
	domainErrors "github.com/thomas-vilte/releasemate/internal/errors"
)

const DefaultConcurrency = 8

// FetchConcurrently runs fetch for every index in [0, n) on a bounded pool. Results keep their
// index, so the output does not depend on scheduling. The first error wins.
func FetchConcurrently[T any](parent context.Context, n, size int, fetch func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	if n == 0 {
		return results, nil
	}
	if size <= 0 {
		size = DefaultConcurrency
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "failed to create worker pool", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		idx := i
		if err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			res, err := fetch(ctx, idx)
			if err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			results[idx] = res
		}); err != nil {
			wg.Done()
			once.Do(func() { firstErr = err })
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
