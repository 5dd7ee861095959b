//go:build windows

package webgpu

import (
	"testing"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	assert.Equal(t, SmallBuffer, categorize(16))
	assert.Equal(t, MediumBuffer, categorize(smallThreshold))
	assert.Equal(t, MediumBuffer, categorize(512*512*4-1))
	assert.Equal(t, LargeBuffer, categorize(mediumThreshold))
}

func TestBufferPoolReuse(t *testing.T) {
	b := newBackend(t)
	pool := NewBufferPool(b.device)
	defer pool.Clear()

	usage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc
	buf := pool.Acquire(1024, usage)
	pool.Release(buf, 1024, usage)

	again := pool.Acquire(512, usage)
	assert.Same(t, buf, again)
	pool.Release(again, 1024, usage)

	allocated, released, hits, misses, pooled := pool.Stats()
	assert.Equal(t, uint64(1), allocated)
	assert.Equal(t, uint64(2), released)
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 1, pooled)

	pool.Clear()
	_, _, _, _, pooled = pool.Stats()
	assert.Zero(t, pooled)
}
