// Package cpu implements the CPU backend: element-wise kernels in pure Go.
package cpu

import (
	"errors"
	"fmt"

	"github.com/born-ml/unarybench/internal/parallel"
	"github.com/born-ml/unarybench/internal/tensor"
)

// errReleased is returned by Read for a tensor whose buffer was freed.
var errReleased = errors.New("cpu: tensor buffer released")

// CPUBackend implements tensor.Backend on the host CPU.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// New creates a new CPU backend with the default parallel configuration.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallel configuration.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Read returns a copy of x's data. CPU kernels are synchronous, so the data
// is final as soon as the kernel returns.
func (cpu *CPUBackend) Read(x *tensor.RawTensor) ([]byte, error) {
	if x.Released() {
		return nil, errReleased
	}
	out := make([]byte, x.ByteSize())
	copy(out, x.Data())
	return out, nil
}

// mapUnary allocates a result shaped like x and fills it with f applied to each element.
// float32 inputs are widened to float64 for the computation.
func (cpu *CPUBackend) mapUnary(name string, x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		src := x.AsFloat32()
		dst := result.AsFloat32()
		parallel.Range(len(src), cpu.parallel, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = float32(f(float64(src[i])))
			}
		})
	case tensor.Float64:
		src := x.AsFloat64()
		dst := result.AsFloat64()
		parallel.Range(len(src), cpu.parallel, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = f(src[i])
			}
		})
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", name, x.DType()))
	}

	return result
}
