package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Parallel runs fn for each index in [0, n) with at most limit workers
// in flight at once. The returned slice is index-aligned with the input so
// callers keep deterministic ordering regardless of completion order.
//
// A panic in one task is recovered, logged with its stack, and converted to
// an error in that task's slot; it never takes down the other tasks.
func Parallel(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) []error {
	if limit < 1 {
		limit = 1
	}

	errs := make([]error, n)
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					ctxlog.From(ctx).Error("panic in parallel task",
						"index", i,
						"recover", r,
						"stack", string(stack))
					errs[i] = goerr.New("panic in parallel task", goerr.V("recover", fmt.Sprintf("%v", r)))
				}
			}()

			errs[i] = fn(ctx, i)
		}(i)
	}

	wg.Wait()
	return errs
}
