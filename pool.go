// SPDX-License-Identifier: MIT
package rowtree

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Job produces a Tree, see NewJob.
type Job func(ctx context.Context) (*Tree, error)

// NewJob wraps a Build as a Job.
func NewJob[T any](list []T, opts ...Option) Job {
	return func(ctx context.Context) (*Tree, error) {
		return Build(ctx, list, opts...)
	}
}

// BuildAll runs Jobs on a worker pool of the given size, e.g. building per group subtrees before
// grafting them with Tree.CombineTrees.
//
// Trees are returned in Job order; a failed Job leaves a nil entry & its error joined to err.
func BuildAll(ctx context.Context, size int, jobs ...Job) (trees []*Tree, err error) {
	trees = make([]*Tree, len(jobs))
	if len(jobs) < 1 {
		return
	}

	pool, err := ants.NewPool(size, ants.WithLogger(defConfig.Logger))
	if err != nil {
		return nil, fmt.Errorf("worker pool: %w", err)
	}
	defer pool.Release()

	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for index := range jobs {
		index := index

		wg.Add(1)
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[index] = fmt.Errorf("job %d: %w: %v", index, ErrPanicked, r)
				}
			}()

			if trees[index], errs[index] = jobs[index](ctx); errs[index] != nil {
				errs[index] = fmt.Errorf("job %d: %w", index, errs[index])
			}
		}

		if submitErr := pool.Submit(task); submitErr != nil {
			wg.Done()
			errs[index] = fmt.Errorf("job %d: %w", index, submitErr)
		}
	}
	wg.Wait()

	return trees, errors.Join(errs...)
}
