// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for element-wise tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32 and Float64 support
//   - Kernels split into contiguous chunks across goroutines for large tensors
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/unarybench/backend/cpu"
//	    "github.com/born-ml/unarybench/tensor"
//	)
//
//	func main() {
//	    eng := tensor.NewEngine()
//	    eng.RegisterBackend("cpu", cpu.New())
//	    _, _ = eng.SetBackend("cpu")
//
//	    x, _ := tensor.RandomUniform[float32](eng, tensor.Square(1024), -1, 1)
//	    y := x.Tanh()
//	}
//
// # Semantics
//
// Out-of-domain inputs produce NaN rather than panicking (log, sqrt, rsqrt,
// asin, acos, acosh, atanh). round rounds half to even.
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each kernel allocates its own
// result and does not share mutable state.
package cpu
