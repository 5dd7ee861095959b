// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API of the tensor layer the benchmarks run on.
//
// The package exposes:
//   - Engine: backend registry, active backend selection, live tensor accounting
//     and scoped disposal (Tidy)
//   - Tensor[T]: typed handle with one method per element-wise operation
//   - RawTensor: untyped, reference-counted buffer passed to backends
//   - Backend: the interface CPU and WebGPU backends implement
//
// Example:
//
//	eng := tensor.NewEngine()
//	eng.RegisterBackend("cpu", cpu.New())
//	_, _ = eng.SetBackend("cpu")
//
//	x, _ := tensor.RandomUniform[float32](eng, tensor.Square(512), -1, 1)
//	defer x.Dispose()
//
//	_ = eng.Tidy(func() error {
//	    _, err := x.Sigmoid().DataSync()
//	    return err
//	})
//
// # Memory
//
// Every tensor is counted by its Engine until disposed. Tensors created inside
// Engine.Tidy are disposed when the scope returns unless Keep is called on
// them. NumTensors reports the live count, which makes leaks easy to assert in
// tests.
package tensor
