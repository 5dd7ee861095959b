//go:build windows

package webgpu

import (
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// BufferSize is the size class a pooled buffer belongs to.
type BufferSize int

const (
	// SmallBuffer holds buffers under 4KB (matrices up to 32x32).
	SmallBuffer BufferSize = iota
	// MediumBuffer holds buffers from 4KB to 1MB (up to 512x512).
	MediumBuffer
	// LargeBuffer holds everything bigger.
	LargeBuffer

	numBufferSizes
)

const (
	smallThreshold  = 4 * 1024
	mediumThreshold = 1024 * 1024
	maxPoolSize     = 16 // per size class
)

type pooledBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
	usage  wgpu.BufferUsage
}

// BufferPool recycles kernel result buffers between runs of the same matrix size.
type BufferPool struct {
	device *wgpu.Device

	mu    sync.Mutex
	pools [numBufferSizes][]*pooledBuffer

	totalAllocated uint64
	totalReleased  uint64
	poolHits       uint64
	poolMisses     uint64
}

// NewBufferPool creates an empty pool for device.
func NewBufferPool(device *wgpu.Device) *BufferPool {
	return &BufferPool{device: device}
}

// Acquire returns a pooled buffer at least size bytes long with the given
// usage flags, creating one on a miss.
func (p *BufferPool) Acquire(size uint64, usage wgpu.BufferUsage) *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()

	class := categorize(size)
	for i, pb := range p.pools[class] {
		if pb.size >= size && pb.usage&usage == usage {
			p.pools[class] = append(p.pools[class][:i], p.pools[class][i+1:]...)
			p.poolHits++
			return pb.buffer
		}
	}

	p.poolMisses++
	p.totalAllocated++
	return p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: usage,
		Size:  size,
	})
}

// Release hands buffer back. A full size class frees it right away.
func (p *BufferPool) Release(buffer *wgpu.Buffer, size uint64, usage wgpu.BufferUsage) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.totalReleased++
	class := categorize(size)
	if len(p.pools[class]) >= maxPoolSize {
		buffer.Release()
		return
	}
	p.pools[class] = append(p.pools[class], &pooledBuffer{buffer: buffer, size: size, usage: usage})
}

// Clear frees every pooled buffer.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for class := range p.pools {
		for _, pb := range p.pools[class] {
			pb.buffer.Release()
		}
		p.pools[class] = nil
	}
}

// Stats reports pool counters and the number of buffers currently pooled.
func (p *BufferPool) Stats() (allocated, released, hits, misses uint64, pooledCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, pool := range p.pools {
		pooledCount += len(pool)
	}
	return p.totalAllocated, p.totalReleased, p.poolHits, p.poolMisses, pooledCount
}

func categorize(size uint64) BufferSize {
	switch {
	case size < smallThreshold:
		return SmallBuffer
	case size < mediumThreshold:
		return MediumBuffer
	default:
		return LargeBuffer
	}
}
