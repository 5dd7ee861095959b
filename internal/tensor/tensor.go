package tensor

import (
	"context"
	"fmt"
	"unsafe"
)

// Tensor is a typed handle on a RawTensor bound to the backend that created it.
//
// Example:
//
//	eng := tensor.NewEngine()
//	eng.RegisterBackend("cpu", cpu.New())
//	_, _ = eng.SetBackend("cpu")
//	x, _ := tensor.RandomUniform[float32](eng, tensor.Square(4), -1, 1)
//	y := x.Sigmoid()
//	values, _ := y.DataSync()
type Tensor[T Float] struct {
	raw     *RawTensor
	backend Backend
	eng     *Engine
}

// wrap tracks raw on eng and returns its typed handle.
func wrap[T Float](eng *Engine, b Backend, raw *RawTensor) *Tensor[T] {
	eng.track(raw)
	return &Tensor[T]{raw: raw, backend: b, eng: eng}
}

// Shape returns the tensor's shape.
func (t *Tensor[T]) Shape() Shape {
	return t.raw.Shape()
}

// DType returns the tensor's data type.
func (t *Tensor[T]) DType() DataType {
	return t.raw.DType()
}

// Device returns the tensor's compute device.
func (t *Tensor[T]) Device() Device {
	return t.raw.Device()
}

// NumElements returns the total number of elements.
func (t *Tensor[T]) NumElements() int {
	return t.raw.NumElements()
}

// Raw returns the underlying RawTensor.
func (t *Tensor[T]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the backend the tensor is bound to.
func (t *Tensor[T]) Backend() Backend {
	return t.backend
}

// Dispose releases the tensor. Disposing twice is a no-op.
func (t *Tensor[T]) Dispose() {
	t.eng.dispose(t.raw)
}

// IsDisposed reports whether the tensor was disposed, directly or by Tidy.
func (t *Tensor[T]) IsDisposed() bool {
	return !t.eng.isLive(t.raw)
}

// Keep exempts the tensor from disposal by enclosing Tidy scopes.
func (t *Tensor[T]) Keep() *Tensor[T] {
	t.eng.keep(t.raw)
	return t
}

// DataSync blocks until the backend has finished producing the tensor and
// returns a copy of its values.
func (t *Tensor[T]) DataSync() ([]T, error) {
	if t.IsDisposed() {
		return nil, ErrDisposed
	}
	data, err := t.backend.Read(t.raw)
	if err != nil {
		return nil, fmt.Errorf("tensor: read from %s: %w", t.backend.Name(), err)
	}
	return fromBytes[T](data, t.raw.NumElements()), nil
}

// Data is DataSync that honors ctx. The read itself runs to completion so
// no backend work outlives the call; a ctx done before or during the read
// is reported instead of the values.
func (t *Tensor[T]) Data(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	values, err := t.DataSync()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// String returns a human-readable representation of the tensor.
func (t *Tensor[T]) String() string {
	return fmt.Sprintf("Tensor[%s]%v on %s", t.raw.DType(), t.raw.Shape(), t.raw.Device())
}

// fromBytes copies n little-endian elements of T out of data.
func fromBytes[T Float](data []byte, n int) []T {
	out := make([]T, n)
	if n == 0 {
		return out
	}
	var zero T
	//nolint:gosec // unsafe.Slice for zero-copy view, size derived from element count
	src := unsafe.Slice((*T)(unsafe.Pointer(&data[0])), len(data)/int(unsafe.Sizeof(zero)))
	copy(out, src)
	return out
}
