// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU-accelerated element-wise operations.
//
// The backend is built on windows, where it loads wgpu_native.dll. On
// other platforms New fails with ErrUnavailable and IsAvailable reports false,
// so callers can fall back to the CPU backend.
//
// Example:
//
//	eng := tensor.NewEngine()
//	eng.Register("webgpu", webgpu.New)
//	if !webgpu.IsAvailable() {
//	    log.Println("no GPU adapter, using cpu")
//	}
package webgpu

import (
	internalwebgpu "github.com/born-ml/unarybench/internal/backend/webgpu"
	"github.com/born-ml/unarybench/tensor"
)

// ErrUnavailable is returned when no WebGPU adapter or native library can be used.
var ErrUnavailable = internalwebgpu.ErrUnavailable

// Compile-time check that New fits tensor.Factory.
var _ tensor.Factory = New

// New creates a new WebGPU backend behind the tensor.Backend interface.
//
// The engine calls Release on the backend when it is closed.
// Returns an error wrapping ErrUnavailable if WebGPU initialization fails
// (e.g., no compatible GPU).
func New() (tensor.Backend, error) {
	return internalwebgpu.NewBackend()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// Useful for graceful fallback to the CPU backend when no GPU is present.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
