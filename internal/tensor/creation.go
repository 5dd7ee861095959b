package tensor

import (
	"fmt"
	"math"
	"math/rand"
)

// activeBackend returns the backend new tensors are created on.
func activeBackend(eng *Engine) (Backend, error) {
	b := eng.Backend()
	if b == nil {
		return nil, ErrNoBackend
	}
	return b, nil
}

// create fills a host tensor and places it on the active backend. Backends
// implementing Uploader receive one upload; the host copy is released.
func create[T Float](eng *Engine, shape Shape, fill func([]T)) (*Tensor[T], error) {
	b, err := activeBackend(eng)
	if err != nil {
		return nil, err
	}
	raw, err := NewRaw(shape, inferDataType[T](), b.Device())
	if err != nil {
		return nil, err
	}
	if fill != nil {
		fill(view[T](raw))
	}

	if up, ok := b.(Uploader); ok {
		resident, err := up.Upload(raw)
		raw.Release()
		if err != nil {
			return nil, fmt.Errorf("tensor: upload to %s: %w", b.Name(), err)
		}
		raw = resident
	}
	return wrap[T](eng, b, raw), nil
}

// Zeros creates a zero-filled tensor on the active backend.
func Zeros[T Float](eng *Engine, shape Shape) (*Tensor[T], error) {
	return create[T](eng, shape, nil)
}

// FromSlice creates a tensor from a Go slice on the active backend.
// The slice is copied into the tensor's memory.
func FromSlice[T Float](eng *Engine, data []T, shape Shape) (*Tensor[T], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	return create(eng, shape, func(dst []T) { copy(dst, data) })
}

// Scalar creates a 0-D tensor holding v on the active backend.
func Scalar[T Float](eng *Engine, v T) (*Tensor[T], error) {
	return FromSlice(eng, []T{v}, Shape{})
}

// RandomUniform creates a tensor with values drawn uniformly from [lo, hi).
// Note: Uses math/rand (not crypto/rand) - appropriate for benchmark inputs.
//
// Example:
//
//	x, err := tensor.RandomUniform[float32](eng, tensor.Square(512), -1, 1)
func RandomUniform[T Float](eng *Engine, shape Shape, lo, hi float64) (*Tensor[T], error) {
	if !(lo < hi) {
		return nil, fmt.Errorf("random uniform: empty range [%v, %v)", lo, hi)
	}
	upper := T(hi)
	below := T(math.Nextafter(hi, lo))
	if inferDataType[T]() == Float32 {
		below = T(math.Nextafter32(float32(hi), float32(lo)))
	}

	return create(eng, shape, func(data []T) {
		for i := range data {
			v := T(lo + (hi-lo)*rand.Float64()) //nolint:gosec // G404: benchmark inputs use math/rand intentionally
			if v >= upper {
				// float32 rounding can land exactly on hi.
				v = below
			}
			data[i] = v
		}
	})
}

// view returns a typed, zero-copy slice over raw's host data.
func view[T Float](raw *RawTensor) []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(raw.AsFloat32()).([]T)
	case float64:
		return any(raw.AsFloat64()).([]T)
	default:
		panic("unsupported type")
	}
}
