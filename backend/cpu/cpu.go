// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/unarybench/internal/backend/cpu"
	"github.com/born-ml/unarybench/internal/parallel"
	"github.com/born-ml/unarybench/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend that splits large tensors across all cores.
//
// Example:
//
//	eng := tensor.NewEngine()
//	eng.RegisterBackend("cpu", cpu.New())
func New() *Backend {
	return internalcpu.New()
}

// NewSequential creates a CPU backend that runs every kernel on the calling goroutine.
func NewSequential() *Backend {
	cfg := parallel.DefaultConfig()
	cfg.Enabled = false
	return internalcpu.NewWithConfig(cfg)
}
