package tensor_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/born-ml/unarybench/internal/backend/cpu"
	"github.com/born-ml/unarybench/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// releasable is a CPU backend that records Release calls.
type releasable struct {
	*cpu.CPUBackend
	released atomic.Int32
}

func (r *releasable) Release() { r.released.Add(1) }

// residentBackend keeps tensor bytes outside the RawTensor, standing in for
// device memory.
type residentBackend struct {
	*cpu.CPUBackend
	mu       sync.Mutex
	buffers  map[unsafe.Pointer][]byte
	uploads  atomic.Int32
	released atomic.Int32
}

func newResidentBackend() *residentBackend {
	return &residentBackend{CPUBackend: cpu.New(), buffers: make(map[unsafe.Pointer][]byte)}
}

func (b *residentBackend) Upload(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	b.uploads.Add(1)
	data := append([]byte(nil), x.Data()...)
	ptr := unsafe.Pointer(&data[0])

	b.mu.Lock()
	b.buffers[ptr] = data
	b.mu.Unlock()

	gpu := tensor.NewLazyGPUData(ptr, uint64(len(data)), b)
	return tensor.NewLazyRaw(x.Shape(), x.DType(), tensor.WebGPU, gpu)
}

func (b *residentBackend) ReadGPUBuffer(ptr unsafe.Pointer, size uint64) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buffers[ptr][:size]...), nil
}

func (b *residentBackend) ReleaseGPUBuffer(ptr unsafe.Pointer, _ uint64) {
	b.released.Add(1)
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.buffers, ptr)
}

func (b *residentBackend) Read(x *tensor.RawTensor) ([]byte, error) {
	if gpu := x.GPUData(); gpu != nil {
		return gpu.Read()
	}
	return b.CPUBackend.Read(x)
}

func newEngine(t *testing.T) *tensor.Engine {
	t.Helper()
	eng := tensor.NewEngine()
	eng.RegisterBackend("cpu", cpu.New())
	_, err := eng.SetBackend("cpu")
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	return eng
}

func TestBackendSelection(t *testing.T) {
	eng := tensor.NewEngine()
	assert.Nil(t, eng.Backend())
	assert.Empty(t, eng.BackendName())

	eng.RegisterBackend("cpu", cpu.New())
	eng.Register("broken", func() (tensor.Backend, error) {
		return nil, errors.New("no device")
	})
	assert.Equal(t, []string{"broken", "cpu"}, eng.Backends())

	b, err := eng.SetBackend("cpu")
	require.NoError(t, err)
	assert.Equal(t, "CPU", b.Name())
	assert.Equal(t, "cpu", eng.BackendName())

	_, err = eng.SetBackend("tpu")
	assert.ErrorIs(t, err, tensor.ErrUnknownBackend)

	_, err = eng.SetBackend("broken")
	assert.ErrorContains(t, err, "no device")
	assert.Equal(t, "cpu", eng.BackendName(), "failed selection keeps the previous backend")
}

func TestFactoryRunsOnce(t *testing.T) {
	eng := tensor.NewEngine()
	calls := 0
	eng.Register("cpu", func() (tensor.Backend, error) {
		calls++
		return cpu.New(), nil
	})

	for range 3 {
		_, err := eng.SetBackend("cpu")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
}

func TestCreateWithoutBackend(t *testing.T) {
	eng := tensor.NewEngine()
	_, err := tensor.RandomUniform[float32](eng, tensor.Square(2), -1, 1)
	assert.ErrorIs(t, err, tensor.ErrNoBackend)
	assert.Zero(t, eng.NumTensors())
}

func TestRandomUniformBounds(t *testing.T) {
	eng := newEngine(t)

	x, err := tensor.RandomUniform[float32](eng, tensor.Square(64), -1, 1)
	require.NoError(t, err)
	defer x.Dispose()

	values, err := x.DataSync()
	require.NoError(t, err)
	require.Len(t, values, 64*64)
	for _, v := range values {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.Less(t, v, float32(1))
	}

	_, err = tensor.RandomUniform[float64](eng, tensor.Square(2), 1, 1)
	assert.Error(t, err)
}

func TestScalarAndFromSlice(t *testing.T) {
	eng := newEngine(t)

	s, err := tensor.Scalar[float32](eng, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.NumElements())
	assert.Empty(t, s.Shape())

	x, err := tensor.FromSlice(eng, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	assert.Equal(t, tensor.Float64, x.DType())
	assert.Equal(t, tensor.CPU, x.Device())

	_, err = tensor.FromSlice(eng, []float64{1, 2, 3}, tensor.Shape{2, 2})
	assert.Error(t, err)

	assert.Equal(t, 2, eng.NumTensors())
}

func TestDisposeIsIdempotent(t *testing.T) {
	eng := newEngine(t)

	x, err := tensor.Zeros[float32](eng, tensor.Square(2))
	require.NoError(t, err)
	assert.Equal(t, 1, eng.NumTensors())

	x.Dispose()
	x.Dispose()
	assert.True(t, x.IsDisposed())
	assert.Zero(t, eng.NumTensors())

	_, err = x.DataSync()
	assert.ErrorIs(t, err, tensor.ErrDisposed)
	assert.Panics(t, func() { x.Exp() })
}

func TestTidyDisposesIntermediates(t *testing.T) {
	eng := newEngine(t)

	x, err := tensor.FromSlice(eng, []float32{-1, 0, 1, 2}, tensor.Shape{4})
	require.NoError(t, err)
	defer x.Dispose()

	var kept, dropped *tensor.Tensor[float32]
	err = eng.Tidy(func() error {
		dropped = x.Neg()
		kept = dropped.ReLU().Keep()
		return nil
	})
	require.NoError(t, err)

	assert.True(t, dropped.IsDisposed())
	assert.False(t, kept.IsDisposed())
	assert.False(t, x.IsDisposed(), "tensors created outside the scope survive")
	assert.Equal(t, 2, eng.NumTensors())

	values, err := kept.DataSync()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0, 0}, values)
	kept.Dispose()
}

func TestTidyDisposesOnErrorAndPanic(t *testing.T) {
	eng := newEngine(t)
	boom := errors.New("boom")

	err := eng.Tidy(func() error {
		_, err := tensor.Zeros[float32](eng, tensor.Square(2))
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, eng.NumTensors())

	assert.Panics(t, func() {
		_ = eng.Tidy(func() error {
			_, _ = tensor.Zeros[float32](eng, tensor.Square(2))
			panic("kernel failure")
		})
	})
	assert.Zero(t, eng.NumTensors())
}

func TestNestedTidy(t *testing.T) {
	eng := newEngine(t)

	err := eng.Tidy(func() error {
		outer, err := tensor.Zeros[float32](eng, tensor.Square(2))
		require.NoError(t, err)
		require.NoError(t, eng.Tidy(func() error {
			_ = outer.Exp()
			return nil
		}))
		assert.Equal(t, 1, eng.NumTensors())
		assert.False(t, outer.IsDisposed())
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, eng.NumTensors())
}

func TestDataHonorsContext(t *testing.T) {
	eng := newEngine(t)
	x, err := tensor.FromSlice(eng, []float32{1, 2}, tensor.Shape{2})
	require.NoError(t, err)
	defer x.Dispose()

	values, err := x.Data(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, values)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = x.Data(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUseSerializesCallers(t *testing.T) {
	eng := tensor.NewEngine()
	eng.RegisterBackend("cpu", cpu.New())
	eng.RegisterBackend("other", cpu.New())
	defer eng.Close()

	release, err := eng.Use("cpu")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r, err := eng.Use("other")
		if err == nil {
			close(acquired)
			r()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second Use acquired the engine while it was held")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, "cpu", eng.BackendName())

	release()
	release()
	<-acquired

	_, err = eng.Use("missing")
	assert.ErrorIs(t, err, tensor.ErrUnknownBackend)

	// A failed Use must not leave the engine locked.
	r, err := eng.Use("cpu")
	require.NoError(t, err)
	r()
}

func TestConcurrentTracking(t *testing.T) {
	eng := newEngine(t)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			x, err := tensor.Zeros[float32](eng, tensor.Square(4))
			if err != nil {
				return
			}
			x.Exp().Dispose()
			x.Dispose()
		}()
	}
	wg.Wait()
	assert.Zero(t, eng.NumTensors())
}

func TestCloseReleasesBackends(t *testing.T) {
	eng := tensor.NewEngine()
	b := &releasable{CPUBackend: cpu.New()}
	eng.RegisterBackend("gpu", b)
	_, err := eng.SetBackend("gpu")
	require.NoError(t, err)

	eng.Close()
	assert.Equal(t, int32(1), b.released.Load())
	assert.Nil(t, eng.Backend())
}

func TestResidentTensorsUploadOnce(t *testing.T) {
	eng := tensor.NewEngine()
	dev := newResidentBackend()
	eng.RegisterBackend("gpu", dev)
	defer eng.Close()
	_, err := eng.SetBackend("gpu")
	require.NoError(t, err)

	x, err := tensor.RandomUniform[float32](eng, tensor.Square(4), -1, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), dev.uploads.Load())
	require.NotNil(t, x.Raw().GPUData())
	assert.Nil(t, x.Raw().Data(), "no host copy is kept")
	assert.Panics(t, func() { _ = x.Raw().AsFloat32() })

	values, err := x.DataSync()
	require.NoError(t, err)
	require.Len(t, values, 16)
	for _, v := range values {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.Less(t, v, float32(1))
	}

	x.Dispose()
	assert.Equal(t, int32(1), dev.released.Load(), "dispose frees the device buffer")
	assert.True(t, x.Raw().GPUData().Released())
	x.Dispose()
	assert.Equal(t, int32(1), dev.released.Load())

	_, err = x.DataSync()
	assert.ErrorIs(t, err, tensor.ErrDisposed)

	require.NoError(t, eng.Tidy(func() error {
		_, err := tensor.Scalar[float32](eng, 0.5)
		return err
	}))
	assert.Equal(t, int32(2), dev.released.Load(), "tidy frees device buffers")
	assert.Zero(t, eng.NumTensors())
}
