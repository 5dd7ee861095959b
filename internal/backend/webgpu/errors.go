// Package webgpu implements the WebGPU backend for GPU-accelerated element-wise kernels.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
package webgpu

import "errors"

// ErrUnavailable is returned when no WebGPU adapter or native library can be used.
var ErrUnavailable = errors.New("webgpu: not available")
