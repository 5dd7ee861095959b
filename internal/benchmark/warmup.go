package benchmark

import (
	"context"
	"fmt"
	"time"

	"github.com/born-ml/unarybench/internal/tensor"
)

// WarmupAndBenchmarkGPU calls fn warmups times, waiting for each result and
// disposing it, then times one more call including its read-back.
// The timed result is disposed before returning.
func WarmupAndBenchmarkGPU[T tensor.Float](ctx context.Context, warmups int, fn func() *tensor.Tensor[T]) (float64, error) {
	for i := range warmups {
		if err := await(ctx, fn()); err != nil {
			return 0, fmt.Errorf("benchmark: warmup %d: %w", i+1, err)
		}
	}

	start := time.Now()
	out := fn()
	_, err := out.Data(ctx)
	ms := millis(time.Since(start))
	out.Dispose()
	if err != nil {
		return 0, err
	}
	return ms, nil
}

func await[T tensor.Float](ctx context.Context, out *tensor.Tensor[T]) error {
	defer out.Dispose()
	_, err := out.Data(ctx)
	return err
}
