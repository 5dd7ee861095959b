//go:build windows

package webgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/born-ml/unarybench/internal/tensor"
	"github.com/go-webgpu/webgpu/wgpu"
)

// storageUsage is shared by uploaded inputs and kernel results, so both
// recycle through one pool.
const storageUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst

var errReleased = errors.New("webgpu: backend released")

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Backend's shaders map.
func (b *Backend) compileShader(name, code string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	shader := b.device.CreateShaderModuleWGSL(code)

	b.mu.Lock()
	b.shaders[name] = shader
	b.mu.Unlock()

	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (b *Backend) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	b.mu.RLock()
	if pipeline, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	// Auto layout (nil layout)
	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")

	b.mu.Lock()
	b.pipelines[name] = pipeline
	b.mu.Unlock()

	return pipeline
}

// alignedSize pads n to the 4-byte copy alignment, with a 4-byte minimum.
func alignedSize(n int) uint64 {
	//nolint:gosec // G115: byte sizes are non-negative
	size := uint64(n)
	if size < 4 {
		size = 4
	}
	return (size + 3) &^ 3
}

// acquireStorage takes a tensor buffer from the pool.
func (b *Backend) acquireStorage(size uint64) (*wgpu.Buffer, error) {
	b.mu.RLock()
	pool := b.bufferPool
	b.mu.RUnlock()
	if pool == nil {
		return nil, errReleased
	}

	buffer := pool.Acquire(size, storageUsage)
	b.trackBufferAllocation(size)
	return buffer, nil
}

// releaseStorage hands a tensor buffer back to the pool, or frees it once
// the backend itself was released.
func (b *Backend) releaseStorage(buffer *wgpu.Buffer, size uint64) {
	b.mu.RLock()
	pool := b.bufferPool
	b.mu.RUnlock()

	if pool == nil {
		buffer.Release()
	} else {
		pool.Release(buffer, size, storageUsage)
	}
	b.trackBufferRelease(size)
}

// writeStorage uploads a host tensor into a pooled buffer.
func (b *Backend) writeStorage(x *tensor.RawTensor) (*wgpu.Buffer, uint64, error) {
	size := alignedSize(x.ByteSize())
	buffer, err := b.acquireStorage(size)
	if err != nil {
		return nil, 0, err
	}

	data := x.Data()
	if uint64(len(data)) != size {
		padded := make([]byte, size)
		copy(padded, data)
		data = padded
	}
	b.queue.WriteBuffer(buffer, 0, data)
	return buffer, size, nil
}

// createLazyResult wraps a device buffer in a resident RawTensor.
// Ownership of buffer moves to the tensor; disposing it returns the buffer.
func (b *Backend) createLazyResult(buffer *wgpu.Buffer, size uint64, shape tensor.Shape, dtype tensor.DataType) (*tensor.RawTensor, error) {
	gpuData := tensor.NewLazyGPUData(unsafe.Pointer(buffer), size, b) //nolint:gosec // G103: Required for GPU buffer tracking

	result, err := tensor.NewLazyRaw(shape, dtype, tensor.WebGPU, gpuData)
	if err != nil {
		b.releaseStorage(buffer, size)
		return nil, err
	}
	return result, nil
}

// Upload copies a host tensor into device memory once. Kernels then bind
// the resident buffer directly.
func (b *Backend) Upload(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	if x.GPUData() != nil {
		return nil, fmt.Errorf("webgpu: upload of a tensor that is already resident")
	}
	if x.DType() != tensor.Float32 {
		return nil, fmt.Errorf("webgpu: only float32 is supported, got %s", x.DType())
	}

	buffer, size, err := b.writeStorage(x)
	if err != nil {
		return nil, err
	}
	return b.createLazyResult(buffer, size, x.Shape(), x.DType())
}

// inputBuffer returns the device buffer holding x and a func releasing
// whatever this call allocated. Host tensors get a temporary upload.
func (b *Backend) inputBuffer(x *tensor.RawTensor) (*wgpu.Buffer, uint64, func(), error) {
	if gpuData := x.GPUData(); gpuData != nil {
		ptr := gpuData.BufferPtr()
		if ptr == nil {
			return nil, 0, nil, tensor.ErrDisposed
		}
		return (*wgpu.Buffer)(ptr), gpuData.Size(), func() {}, nil
	}

	buffer, size, err := b.writeStorage(x)
	if err != nil {
		return nil, 0, nil, err
	}
	return buffer, size, func() { b.releaseStorage(buffer, size) }, nil
}

// createUniformBuffer creates a uniform buffer with 16-byte alignment.
func (b *Backend) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	uniformSize := (size + 15) &^ 15

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             uniformSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, uniformSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), uniformSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Uses a staging buffer since storage buffers can't be mapped directly.
func (b *Backend) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	stagingBuffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer stagingBuffer.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	// MapAsync blocks until the queue has drained up to the copy.
	if err := stagingBuffer.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}

	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)

	stagingBuffer.Unmap()

	return result, nil
}

// ReadGPUBuffer implements tensor.LazyBackend. bufferPtr must be *wgpu.Buffer.
func (b *Backend) ReadGPUBuffer(bufferPtr unsafe.Pointer, size uint64) ([]byte, error) {
	return b.readBuffer((*wgpu.Buffer)(bufferPtr), size)
}

// ReleaseGPUBuffer implements tensor.LazyBackend. bufferPtr must be *wgpu.Buffer.
func (b *Backend) ReleaseGPUBuffer(bufferPtr unsafe.Pointer, size uint64) {
	if buffer := (*wgpu.Buffer)(bufferPtr); buffer != nil {
		b.releaseStorage(buffer, size)
	}
}

// runElementwise submits one element-wise kernel and returns its resident
// result without waiting for it. inputs are bound in order starting at
// binding 0, followed by the result and the uniform params
// (size: u32, alpha: f32). The first input sets the result shape.
func (b *Backend) runElementwise(name string, alpha float32, inputs ...*tensor.RawTensor) (*tensor.RawTensor, error) {
	first := inputs[0]
	for _, in := range inputs {
		if in.DType() != tensor.Float32 {
			return nil, fmt.Errorf("webgpu: only float32 is supported, got %s", in.DType())
		}
	}

	code, err := shaderSource(name)
	if err != nil {
		return nil, err
	}
	numElements := first.NumElements()

	shader := b.compileShader(name, code)
	pipeline := b.getOrCreatePipeline(name, shader)

	entries := make([]wgpu.BindGroupEntry, 0, len(inputs)+2)
	for i, in := range inputs {
		buffer, size, release, err := b.inputBuffer(in)
		if err != nil {
			return nil, err
		}
		defer release()
		//nolint:gosec // G115: binding index is tiny
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), buffer, 0, size))
	}

	resultSize := alignedSize(first.ByteSize())
	bufferResult, err := b.acquireStorage(resultSize)
	if err != nil {
		return nil, err
	}

	params := make([]byte, 16)
	//nolint:gosec // G115: Safe conversion, NumElements() returns non-negative int
	binary.LittleEndian.PutUint32(params[0:4], uint32(numElements))
	binary.LittleEndian.PutUint32(params[4:8], math.Float32bits(alpha))
	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	//nolint:gosec // G115: binding index is tiny
	next := uint32(len(inputs))
	entries = append(entries,
		wgpu.BufferBindingEntry(next, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(next+1, bufferParams, 0, 16),
	)

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	wx, wy := workgroupGrid(numElements)
	computePass.DispatchWorkgroups(wx, wy, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	return b.createLazyResult(bufferResult, resultSize, first.Shape(), first.DType())
}
