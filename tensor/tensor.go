// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/unarybench/internal/tensor"
)

// Float constrains tensor element types to float32 and float64.
type Float = tensor.Float

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// Backend is the interface compute backends implement.
type Backend = tensor.Backend

// Factory constructs a backend on first selection.
type Factory = tensor.Factory

// Engine owns backend selection and the bookkeeping of live tensors.
type Engine = tensor.Engine

// Tensor is a typed tensor bound to the backend that created it.
type Tensor[T Float] = tensor.Tensor[T]

// Errors returned by the engine and tensors.
var (
	ErrUnknownBackend = tensor.ErrUnknownBackend
	ErrNoBackend      = tensor.ErrNoBackend
	ErrDisposed       = tensor.ErrDisposed
)

// NewEngine creates an engine with no registered backends.
func NewEngine() *Engine {
	return tensor.NewEngine()
}

// Square returns the size×size matrix shape.
func Square(size int) Shape {
	return tensor.Square(size)
}

// Zeros creates a zero-filled tensor on the active backend.
func Zeros[T Float](eng *Engine, shape Shape) (*Tensor[T], error) {
	return tensor.Zeros[T](eng, shape)
}

// FromSlice creates a tensor from a Go slice on the active backend.
//
// Example:
//
//	x, err := tensor.FromSlice(eng, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice[T Float](eng *Engine, data []T, shape Shape) (*Tensor[T], error) {
	return tensor.FromSlice(eng, data, shape)
}

// Scalar creates a 0-D tensor on the active backend.
func Scalar[T Float](eng *Engine, v T) (*Tensor[T], error) {
	return tensor.Scalar(eng, v)
}

// RandomUniform creates a tensor with values drawn uniformly from [lo, hi).
//
// Example:
//
//	x, err := tensor.RandomUniform[float32](eng, tensor.Square(1024), -1, 1)
func RandomUniform[T Float](eng *Engine, shape Shape, lo, hi float64) (*Tensor[T], error) {
	return tensor.RandomUniform[T](eng, shape, lo, hi)
}
