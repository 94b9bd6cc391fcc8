package testutil

import (
	"errors"
	"sync"
	"sync/atomic"

	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/sentinel"
)

// ConcurrentResult counts the outcomes of a RunConcurrent batch.
type ConcurrentResult struct {
	Successes int32
	Errors    int32
	Conflicts int32
	NotFounds int32
}

func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.Conflicts + r.NotFounds
}

// RunConcurrent calls fn from n goroutines at once and tallies the results.
// Store sentinels and domain codes are both recognised, so the helper works
// against stores and services alike.
func RunConcurrent(n int, fn func(idx int) error) *ConcurrentResult {
	var (
		wg                                  sync.WaitGroup
		successes, errs, conflicts, missing atomic.Int32
	)
	for i := range n {
		wg.Go(func() {
			switch err := fn(i); {
			case err == nil:
				successes.Add(1)
			case isConflict(err):
				conflicts.Add(1)
			case isNotFound(err):
				missing.Add(1)
			default:
				errs.Add(1)
			}
		})
	}
	wg.Wait()

	return &ConcurrentResult{
		Successes: successes.Load(),
		Errors:    errs.Load(),
		Conflicts: conflicts.Load(),
		NotFounds: missing.Load(),
	}
}

func isConflict(err error) bool {
	return errors.Is(err, sentinel.ErrConflict) || dErrors.HasCode(err, dErrors.CodeConflict)
}

func isNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound) || dErrors.HasCode(err, dErrors.CodeNotFound)
}
