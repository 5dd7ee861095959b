// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package benchmark times element-wise unary operations on random square matrices.
//
// Two runners share the Runner interface: CPURunner times one scoped
// application plus read-back, GPURunner runs warmups first so shader
// compilation stays out of the measurement.
//
// Example:
//
//	eng := tensor.NewEngine()
//	eng.RegisterBackend("cpu", cpu.New())
//	eng.Register("webgpu", webgpu.New)
//
//	ms, err := benchmark.NewCPURunner(eng).Run(ctx, 1024, "relu")
package benchmark

import (
	"context"

	internal "github.com/born-ml/unarybench/internal/benchmark"
	"github.com/born-ml/unarybench/internal/unaryops"
	"github.com/born-ml/unarybench/tensor"
)

// Runner measures one operation on a size×size matrix and returns milliseconds.
type Runner = internal.Runner

// CPURunner times a single scoped application plus synchronous read-back.
type CPURunner = internal.CPURunner

// GPURunner times one run after a configurable number of warmups.
type GPURunner = internal.GPURunner

// Backend names the runners select by default.
const (
	CPUBackend = internal.CPUBackend
	GPUBackend = internal.GPUBackend
)

// DefaultWarmups is the number of untimed GPU runs NewGPURunner configures.
const DefaultWarmups = internal.DefaultWarmups

// Errors returned by runners.
var (
	ErrInvalidSize   = internal.ErrInvalidSize
	ErrUnsupportedOp = unaryops.ErrUnsupportedOp
)

// NewCPURunner returns a runner on eng's "cpu" backend.
func NewCPURunner(eng *tensor.Engine) *CPURunner {
	return internal.NewCPURunner(eng)
}

// NewGPURunner returns a runner on eng's "webgpu" backend with one warmup.
func NewGPURunner(eng *tensor.Engine) *GPURunner {
	return internal.NewGPURunner(eng)
}

// WarmupAndBenchmarkGPU calls fn warmups times, awaiting and disposing each
// result, then times one more call including its read-back.
func WarmupAndBenchmarkGPU[T tensor.Float](ctx context.Context, warmups int, fn func() *tensor.Tensor[T]) (float64, error) {
	return internal.WarmupAndBenchmarkGPU(ctx, warmups, fn)
}

// Operations returns every operation identifier in catalog order.
func Operations() []string {
	return unaryops.Names()
}
