package unaryops_test

import (
	"math"
	"testing"

	"github.com/born-ml/unarybench/internal/backend/cpu"
	"github.com/born-ml/unarybench/internal/tensor"
	"github.com/born-ml/unarybench/internal/unaryops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *tensor.Engine {
	t.Helper()
	eng := tensor.NewEngine()
	eng.RegisterBackend("cpu", cpu.New())
	_, err := eng.SetBackend("cpu")
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	return eng
}

func TestResolveAppliesOperation(t *testing.T) {
	eng := newEngine(t)
	x, err := tensor.FromSlice(eng, []float32{-0.5, 0, 0.5, 2}, tensor.Shape{4})
	require.NoError(t, err)
	defer x.Dispose()

	tests := []struct {
		name string
		want []float64
	}{
		{"neg", []float64{0.5, 0, -0.5, -2}},
		{"abs", []float64{0.5, 0, 0.5, 2}},
		{"square", []float64{0.25, 0, 0.25, 4}},
		{"relu", []float64{0, 0, 0.5, 2}},
		{"leakyRelu", []float64{-0.1, 0, 0.5, 2}},
		{"prelu", []float64{-0.05, 0, 0.5, 2}},
		{"step", []float64{0, 0, 1, 1}},
		{"sign", []float64{-1, 0, 1, 1}},
		{"round", []float64{-0, 0, 0, 2}},
		{"exp", []float64{math.Exp(-0.5), 1, math.Exp(0.5), math.Exp(2)}},
		{"erf", []float64{math.Erf(-0.5), 0, math.Erf(0.5), math.Erf(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := unaryops.ResolveName[float32](eng, tt.name)
			require.NoError(t, err)
			defer u.Dispose()
			assert.Equal(t, tt.name, u.Op().String())

			y := u.Apply(x)
			defer y.Dispose()
			got, err := y.DataSync()
			require.NoError(t, err)
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], float64(got[i]), 1e-6, "index %d", i)
			}
		})
	}
}

func TestResolveEveryOp(t *testing.T) {
	eng := newEngine(t)
	x, err := tensor.RandomUniform[float32](eng, tensor.Square(4), -1, 1)
	require.NoError(t, err)
	defer x.Dispose()

	for _, op := range unaryops.All() {
		before := eng.NumTensors()
		u, err := unaryops.Resolve[float32](eng, op)
		require.NoError(t, err, op.String())

		y := u.Apply(x)
		assert.Equal(t, x.Shape(), y.Shape(), op.String())
		y.Dispose()
		u.Dispose()
		assert.Equal(t, before, eng.NumTensors(), "%s leaked a tensor", op)
	}
}

func TestResolveUnsupported(t *testing.T) {
	eng := newEngine(t)
	before := eng.NumTensors()

	u, err := unaryops.ResolveName[float32](eng, "bogus")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, unaryops.ErrUnsupportedOp)
	assert.ErrorContains(t, err, "bogus")

	u, err = unaryops.Resolve[float32](eng, unaryops.Op(1000))
	assert.Nil(t, u)
	assert.ErrorIs(t, err, unaryops.ErrUnsupportedOp)

	assert.Equal(t, before, eng.NumTensors())
}

func TestPReLUNeedsBackend(t *testing.T) {
	eng := tensor.NewEngine()

	u, err := unaryops.Resolve[float32](eng, unaryops.PReLU)
	assert.Nil(t, u)
	assert.ErrorIs(t, err, tensor.ErrNoBackend)

	// Other operations hold no constants.
	u, err = unaryops.Resolve[float32](eng, unaryops.Exp)
	require.NoError(t, err)
	u.Dispose()
}

func TestPReLUAlphaDispose(t *testing.T) {
	eng := newEngine(t)

	u, err := unaryops.Resolve[float64](eng, unaryops.PReLU)
	require.NoError(t, err)
	assert.Equal(t, 1, eng.NumTensors())

	u.Dispose()
	u.Dispose()
	assert.Zero(t, eng.NumTensors())
}
