package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// tensorBuffer is a reference-counted buffer shared by clones. It holds
// either host bytes or, for device-resident tensors, a LazyGPUData handle.
type tensorBuffer struct {
	data     []byte
	gpu      *LazyGPUData
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
	freed    bool
}

func newTensorBuffer(size int) *tensorBuffer {
	buf := &tensorBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

// release decrements the reference count and frees the buffer at zero.
// It reports whether this call freed the buffer.
func (tb *tensorBuffer) release() bool {
	if tb.refCount.Add(-1) != 0 {
		return false
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.data = nil
	tb.freed = true
	if tb.gpu != nil {
		tb.gpu.Release()
	}
	return true
}

// RawTensor is the untyped tensor representation passed to backends.
type RawTensor struct {
	buffer *tensorBuffer
	shape  Shape
	dtype  DataType
	device Device
}

// NewRaw creates a zero-filled RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		buffer: newTensorBuffer(shape.NumElements() * dtype.Size()),
		shape:  shape.Clone(),
		dtype:  dtype,
		device: device,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice, or nil for a device-resident tensor.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.buffer.data
}

// GPUData returns the device buffer of a resident tensor, nil for host tensors.
func (r *RawTensor) GPUData() *LazyGPUData {
	return r.buffer.gpu
}

// hostData returns the host bytes or panics for a device-resident tensor.
func (r *RawTensor) hostData() []byte {
	if r.buffer.gpu != nil {
		panic("tensor: host view of a device-resident tensor; read it through its backend")
	}
	return r.buffer.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	data := r.hostData()
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	data := r.hostData()
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), r.NumElements())
}

// Clone returns a second handle on the same buffer.
func (r *RawTensor) Clone() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		dtype:  r.dtype,
		device: r.device,
	}
}

// Release drops this handle's reference and reports whether the buffer was freed.
func (r *RawTensor) Release() bool {
	return r.buffer.release()
}

// Released reports whether the underlying buffer has been freed.
func (r *RawTensor) Released() bool {
	r.buffer.mu.Lock()
	defer r.buffer.mu.Unlock()
	return r.buffer.freed
}
