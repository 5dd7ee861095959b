package tensor

import (
	"sync"
	"unsafe"
)

// LazyBackend is implemented by backends that keep tensor data in device memory.
type LazyBackend interface {
	// ReadGPUBuffer stages size bytes of the device buffer back to host memory.
	// It blocks until all submitted work writing the buffer has finished.
	ReadGPUBuffer(bufferPtr unsafe.Pointer, size uint64) ([]byte, error)

	// ReleaseGPUBuffer hands the device buffer back to the backend.
	ReleaseGPUBuffer(bufferPtr unsafe.Pointer, size uint64)
}

// LazyGPUData references a device buffer owned by a RawTensor.
// The buffer stays resident until the owning tensor is released; reads copy
// it to the host without giving it up.
type LazyGPUData struct {
	bufferPtr unsafe.Pointer // *wgpu.Buffer for the WebGPU backend
	size      uint64
	backend   LazyBackend
	mu        sync.Mutex
}

// NewLazyGPUData wraps a device buffer of size bytes.
func NewLazyGPUData(bufferPtr unsafe.Pointer, size uint64, backend LazyBackend) *LazyGPUData {
	return &LazyGPUData{
		bufferPtr: bufferPtr,
		size:      size,
		backend:   backend,
	}
}

// Read copies the device buffer to host memory.
func (l *LazyGPUData) Read() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.bufferPtr == nil {
		return nil, ErrDisposed
	}
	return l.backend.ReadGPUBuffer(l.bufferPtr, l.size)
}

// Release returns the device buffer to its backend. Releasing twice is a no-op.
func (l *LazyGPUData) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.bufferPtr != nil && l.backend != nil {
		l.backend.ReleaseGPUBuffer(l.bufferPtr, l.size)
	}
	l.bufferPtr = nil
}

// Released reports whether the device buffer was handed back.
func (l *LazyGPUData) Released() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bufferPtr == nil
}

// BufferPtr returns the device buffer for kernels chaining on it.
func (l *LazyGPUData) BufferPtr() unsafe.Pointer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bufferPtr
}

// Size returns the buffer size in bytes. It may exceed the tensor's
// ByteSize when the backend pads allocations.
func (l *LazyGPUData) Size() uint64 {
	return l.size
}

// NewLazyRaw creates a RawTensor whose data lives only in gpuData.
// No host memory is allocated.
func NewLazyRaw(shape Shape, dtype DataType, device Device, gpuData *LazyGPUData) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	buf := &tensorBuffer{gpu: gpuData}
	buf.refCount.Store(1)
	return &RawTensor{
		buffer: buf,
		shape:  shape.Clone(),
		dtype:  dtype,
		device: device,
	}, nil
}
