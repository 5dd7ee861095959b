package benchmark

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/born-ml/unarybench/internal/backend/cpu"
	"github.com/born-ml/unarybench/internal/tensor"
	"github.com/born-ml/unarybench/internal/unaryops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBackend is a CPU backend that counts Exp kernel launches.
type countingBackend struct {
	*cpu.CPUBackend
	exps atomic.Int32
}

func (b *countingBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	b.exps.Add(1)
	return b.CPUBackend.Exp(x)
}

// panickingBackend fails every PReLU launch.
type panickingBackend struct {
	*cpu.CPUBackend
}

func (b *panickingBackend) PReLU(_, _ *tensor.RawTensor) *tensor.RawTensor {
	panic("prelu: device lost")
}

// slowReadBackend cancels the run's context from inside Read and keeps
// reading for a while, like a device that is slow to drain.
type slowReadBackend struct {
	*cpu.CPUBackend
	cancel          context.CancelFunc
	inFlight        atomic.Int32
	releasedMidRead atomic.Bool
}

func (b *slowReadBackend) Read(x *tensor.RawTensor) ([]byte, error) {
	b.inFlight.Add(1)
	defer b.inFlight.Add(-1)

	b.cancel()
	time.Sleep(20 * time.Millisecond)
	if x.Released() {
		b.releasedMidRead.Store(true)
	}
	return b.CPUBackend.Read(x)
}

// newEngine registers the CPU backend under both runner names.
func newEngine(t *testing.T) *tensor.Engine {
	t.Helper()
	eng := tensor.NewEngine()
	eng.RegisterBackend(CPUBackend, cpu.New())
	eng.RegisterBackend(GPUBackend, cpu.New())
	t.Cleanup(eng.Close)
	return eng
}

func runners(eng *tensor.Engine) []Runner {
	return []Runner{NewCPURunner(eng), NewGPURunner(eng)}
}

func TestRunnersReturnMillis(t *testing.T) {
	eng := newEngine(t)
	for _, r := range runners(eng) {
		for _, op := range unaryops.Names() {
			ms, err := r.Run(context.Background(), 8, op)
			require.NoError(t, err, "%s/%s", r.Name(), op)
			assert.GreaterOrEqual(t, ms, 0.0)
		}
		assert.Zero(t, eng.NumTensors(), "%s leaked tensors", r.Name())
	}
}

func TestRunnersSelectBackend(t *testing.T) {
	eng := newEngine(t)

	_, err := NewGPURunner(eng).Run(context.Background(), 4, "exp")
	require.NoError(t, err)
	assert.Equal(t, GPUBackend, eng.BackendName())

	_, err = NewCPURunner(eng).Run(context.Background(), 4, "exp")
	require.NoError(t, err)
	assert.Equal(t, CPUBackend, eng.BackendName())
}

func TestRunnersRejectUnsupportedOp(t *testing.T) {
	eng := newEngine(t)
	for _, r := range runners(eng) {
		before := eng.NumTensors()
		_, err := r.Run(context.Background(), 16, "bogus")
		assert.ErrorIs(t, err, unaryops.ErrUnsupportedOp, r.Name())
		assert.Equal(t, before, eng.NumTensors())
	}
	assert.Empty(t, eng.BackendName(), "validation happens before backend selection")
}

func TestRunnersRejectInvalidSize(t *testing.T) {
	eng := newEngine(t)
	for _, r := range runners(eng) {
		for _, size := range []int{0, -3} {
			_, err := r.Run(context.Background(), size, "exp")
			assert.ErrorIs(t, err, ErrInvalidSize, "%s size %d", r.Name(), size)
		}
	}
	assert.Zero(t, eng.NumTensors())
}

func TestRunnersUnknownBackend(t *testing.T) {
	eng := tensor.NewEngine()
	eng.RegisterBackend(CPUBackend, cpu.New())
	defer eng.Close()

	_, err := NewGPURunner(eng).Run(context.Background(), 4, "exp")
	assert.ErrorIs(t, err, tensor.ErrUnknownBackend)
	assert.Zero(t, eng.NumTensors())
}

func TestGPURunnerWarmup(t *testing.T) {
	eng := tensor.NewEngine()
	counting := &countingBackend{CPUBackend: cpu.New()}
	eng.RegisterBackend(GPUBackend, counting)
	defer eng.Close()

	r := NewGPURunner(eng)
	_, err := r.Run(context.Background(), 4, "exp")
	require.NoError(t, err)
	assert.Equal(t, int32(2), counting.exps.Load(), "one warmup plus one timed run")

	r.Warmup = 3
	_, err = r.Run(context.Background(), 4, "exp")
	require.NoError(t, err)
	assert.Equal(t, int32(6), counting.exps.Load())
	assert.Zero(t, eng.NumTensors())
}

func TestGPURunnerReleasesOnPanic(t *testing.T) {
	eng := tensor.NewEngine()
	eng.RegisterBackend(GPUBackend, &panickingBackend{CPUBackend: cpu.New()})
	defer eng.Close()

	r := NewGPURunner(eng)
	assert.Panics(t, func() {
		_, _ = r.Run(context.Background(), 4, "prelu")
	})
	assert.Zero(t, eng.NumTensors(), "input and prelu alpha are released")

	// The engine is usable again after the panic.
	_, err := r.Run(context.Background(), 4, "exp")
	assert.NoError(t, err)
}

func TestRunCanceled(t *testing.T) {
	eng := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, r := range runners(eng) {
		_, err := r.Run(ctx, 4, "exp")
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Zero(t, eng.NumTensors())
}

func TestReadFinishesBeforeRunReturns(t *testing.T) {
	tests := []struct {
		name      string
		newRunner func(*tensor.Engine) Runner
		wantErr   error
	}{
		{"cpu", func(eng *tensor.Engine) Runner { return NewCPURunner(eng) }, nil},
		{"webgpu", func(eng *tensor.Engine) Runner { return NewGPURunner(eng) }, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			slow := &slowReadBackend{CPUBackend: cpu.New(), cancel: cancel}
			eng := tensor.NewEngine()
			eng.RegisterBackend(CPUBackend, slow)
			eng.RegisterBackend(GPUBackend, slow)
			defer eng.Close()

			r := tt.newRunner(eng)
			_, err := r.Run(ctx, 8, "exp")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Zero(t, slow.inFlight.Load(), "backend read outlived Run")
			assert.False(t, slow.releasedMidRead.Load(), "result released while being read")
			assert.Zero(t, eng.NumTensors())
		})
	}
}

func TestConcurrentRunsAreSerialized(t *testing.T) {
	eng := newEngine(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := runners(eng)[i%2]
			_, err := r.Run(context.Background(), 16, "sigmoid")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Zero(t, eng.NumTensors())
}

func TestWarmupAndBenchmarkGPU(t *testing.T) {
	eng := newEngine(t)
	_, err := eng.SetBackend(GPUBackend)
	require.NoError(t, err)

	x, err := tensor.FromSlice(eng, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	defer x.Dispose()

	calls := 0
	ms, err := WarmupAndBenchmarkGPU(context.Background(), 2, func() *tensor.Tensor[float32] {
		calls++
		return x.Square()
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.GreaterOrEqual(t, ms, 0.0)
	assert.Equal(t, 1, eng.NumTensors(), "warmup and timed outputs are disposed")

	calls = 0
	_, err = WarmupAndBenchmarkGPU(context.Background(), 0, func() *tensor.Tensor[float32] {
		calls++
		return x.Square()
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
