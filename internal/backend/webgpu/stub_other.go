//go:build !windows

package webgpu

import "github.com/born-ml/unarybench/internal/tensor"

// NewBackend reports ErrUnavailable: the WebGPU backend is only built for windows.
func NewBackend() (tensor.Backend, error) {
	return nil, ErrUnavailable
}

// IsAvailable reports whether WebGPU can be used on this system.
func IsAvailable() bool {
	return false
}
