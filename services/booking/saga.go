package booking

import (
	"context"
	"errors"
)

// runOptimistic applies an optimistic view, submits the change and, on
// failure, replaces the view with whatever compensate recomputes. compensate
// must be idempotent. When it fails too the zero view is returned with both
// errors joined.
func runOptimistic[T any](
	ctx context.Context,
	apply func() T,
	submit func(ctx context.Context) error,
	compensate func(ctx context.Context) (T, error),
) (T, error) {
	view := apply()
	submitErr := submit(ctx)
	if submitErr == nil {
		return view, nil
	}
	recomputed, compErr := compensate(ctx)
	if compErr != nil {
		var zero T
		return zero, errors.Join(submitErr, compErr)
	}
	return recomputed, submitErr
}
