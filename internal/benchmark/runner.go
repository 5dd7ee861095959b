// Package benchmark times unary operations on square random matrices.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/born-ml/unarybench/internal/tensor"
	"github.com/born-ml/unarybench/internal/unaryops"
)

// ErrInvalidSize is returned for a non-positive matrix size.
var ErrInvalidSize = errors.New("benchmark: size must be positive")

// Backend names the runners select by default.
const (
	CPUBackend = "cpu"
	GPUBackend = "webgpu"
)

// Inputs are drawn uniformly from [inputLow, inputHigh).
const (
	inputLow  = -1
	inputHigh = 1
)

// Runner measures one operation on a size×size matrix and returns milliseconds.
type Runner interface {
	Run(ctx context.Context, size int, option string) (float64, error)
	// Name returns the backend the runner selects.
	Name() string
}

// CPURunner times a single scoped application plus synchronous read-back.
type CPURunner struct {
	Engine  *tensor.Engine
	Backend string // defaults to CPUBackend
	Logger  *slog.Logger
}

// NewCPURunner returns a runner on eng's "cpu" backend.
func NewCPURunner(eng *tensor.Engine) *CPURunner {
	return &CPURunner{Engine: eng, Backend: CPUBackend}
}

// Name returns the selected backend.
func (r *CPURunner) Name() string {
	return backendOr(r.Backend, CPUBackend)
}

// Run creates the input, resolves option and times apply plus a synchronous
// read-back. Every tensor it creates is disposed before it returns, and no
// backend work is left running when the engine is released.
func (r *CPURunner) Run(ctx context.Context, size int, option string) (float64, error) {
	op, err := validate(ctx, size, option)
	if err != nil {
		return 0, err
	}

	release, err := r.Engine.Use(r.Name())
	if err != nil {
		return 0, err
	}
	defer release()

	input, err := tensor.RandomUniform[float32](r.Engine, tensor.Square(size), inputLow, inputHigh)
	if err != nil {
		return 0, err
	}
	defer input.Dispose()

	unary, err := unaryops.Resolve[float32](r.Engine, op)
	if err != nil {
		return 0, err
	}
	defer unary.Dispose()

	start := time.Now()
	err = r.Engine.Tidy(func() error {
		_, err := unary.Apply(input).DataSync()
		return err
	})
	ms := millis(time.Since(start))
	if err != nil {
		return 0, err
	}

	logger(r.Logger).Debug("benchmark run", "backend", r.Name(), "op", op.String(), "size", size, "ms", ms)
	return ms, nil
}

// DefaultWarmups is the number of untimed runs before the timed GPU run.
const DefaultWarmups = 1

// GPURunner times one run after warmups, so shader compilation and pipeline
// creation stay out of the measurement.
type GPURunner struct {
	Engine  *tensor.Engine
	Backend string // defaults to GPUBackend
	Warmup  int    // untimed runs; NewGPURunner sets DefaultWarmups
	Logger  *slog.Logger
}

// NewGPURunner returns a runner on eng's "webgpu" backend with one warmup.
func NewGPURunner(eng *tensor.Engine) *GPURunner {
	return &GPURunner{Engine: eng, Backend: GPUBackend, Warmup: DefaultWarmups}
}

// Name returns the selected backend.
func (r *GPURunner) Name() string {
	return backendOr(r.Backend, GPUBackend)
}

// Run creates the input, resolves option and measures it with
// WarmupAndBenchmarkGPU. The input and resolved constants are disposed on
// every return path.
func (r *GPURunner) Run(ctx context.Context, size int, option string) (float64, error) {
	op, err := validate(ctx, size, option)
	if err != nil {
		return 0, err
	}

	release, err := r.Engine.Use(r.Name())
	if err != nil {
		return 0, err
	}
	defer release()

	input, err := tensor.RandomUniform[float32](r.Engine, tensor.Square(size), inputLow, inputHigh)
	if err != nil {
		return 0, err
	}
	defer input.Dispose()

	unary, err := unaryops.Resolve[float32](r.Engine, op)
	if err != nil {
		return 0, err
	}
	defer unary.Dispose()

	ms, err := WarmupAndBenchmarkGPU(ctx, r.Warmup, func() *tensor.Tensor[float32] {
		return unary.Apply(input)
	})
	if err != nil {
		return 0, err
	}

	logger(r.Logger).Debug("benchmark run", "backend", r.Name(), "op", op.String(), "size", size,
		"warmup", r.Warmup, "ms", ms)
	return ms, nil
}

// validate checks size and option before any tensor is created.
func validate(ctx context.Context, size int, option string) (unaryops.Op, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if size <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return unaryops.Parse(option)
}

func backendOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

func millis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / float64(time.Millisecond)
}
