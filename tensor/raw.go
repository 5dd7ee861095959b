// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/unarybench/internal/tensor"
)

// RawTensor is the low-level tensor representation.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Device()
//   - Zero-copy data access via AsFloat32() and AsFloat64() for host tensors
//   - The device buffer of resident tensors via GPUData()
//   - Reference counting via Clone() and Release()
//
// Most users should use the high-level Tensor[T] type instead.
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-filled raw tensor with the given shape, dtype, and device.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// LazyGPUData references the device buffer of a resident RawTensor.
type LazyGPUData = tensor.LazyGPUData

// Uploader is implemented by backends whose tensors live in device memory.
// Tensor creation uploads once through it.
type Uploader = tensor.Uploader
