package main

import (
	"bytes"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/born-ml/unarybench/internal/backend/cpu"
	"github.com/born-ml/unarybench/internal/benchmark"
	"github.com/born-ml/unarybench/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	saved []benchmark.Run
	runs  []benchmark.Run
}

func (m *mockStore) Save(run benchmark.Run) error {
	m.saved = append(m.saved, run)
	return nil
}

func (m *mockStore) LoadLatest() (*benchmark.Run, error) {
	if len(m.runs) == 0 {
		return nil, benchmark.ErrNoRuns
	}
	return &m.runs[len(m.runs)-1], nil
}

func (m *mockStore) LoadAll() ([]benchmark.Run, error) {
	return m.runs, nil
}

// withTestEngine backs both backend names with the CPU and restores the globals.
func withTestEngine(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())

	origEngine, origGPU, origStore := newEngineFunc, gpuAvailableFunc, newStoreFunc
	t.Cleanup(func() {
		newEngineFunc, gpuAvailableFunc, newStoreFunc = origEngine, origGPU, origStore
	})

	newEngineFunc = func() *tensor.Engine {
		eng := tensor.NewEngine()
		eng.RegisterBackend(benchmark.CPUBackend, cpu.New())
		eng.RegisterBackend(benchmark.GPUBackend, cpu.New())
		return eng
	}
	gpuAvailableFunc = func() bool { return false }
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestOpsCmd(t *testing.T) {
	withTestEngine(t)

	out, err := execute(t, "ops")
	require.NoError(t, err)
	lines := regexp.MustCompile(`\S+`).FindAllString(out, -1)
	assert.Len(t, lines, 36)
	assert.Equal(t, "log", lines[0])
	assert.Contains(t, lines, "leakyRelu")
}

func TestBackendsCmd(t *testing.T) {
	withTestEngine(t)

	out, err := execute(t, "backends")
	require.NoError(t, err)
	assert.Regexp(t, `cpu\s+true\s+\*`, out)
	assert.Regexp(t, `webgpu\s+false`, out)
}

func TestRunCmdPrintsMillis(t *testing.T) {
	withTestEngine(t)

	out, err := execute(t, "run", "--op", "relu", "--size", "16")
	require.NoError(t, err)
	assert.Regexp(t, `^cpu relu 16x16: \d+\.\d{3} ms\n$`, out)

	out, err = execute(t, "run", "--backend", "webgpu", "--op", "erf", "--size", "8", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "webgpu erf 8x8:")
}

func TestRunCmdErrors(t *testing.T) {
	withTestEngine(t)

	_, err := execute(t, "run", "--op", "bogus", "--size", "8")
	assert.ErrorContains(t, err, "unsupported operation")

	_, err = execute(t, "run", "--op", "exp", "--size", "0")
	assert.ErrorIs(t, err, benchmark.ErrInvalidSize)

	_, err = execute(t, "run", "--backend", "tpu", "--op", "exp")
	assert.ErrorContains(t, err, "unknown backend")

	_, err = execute(t, "run", "--size", "8")
	assert.ErrorContains(t, err, "required flag")
}

func TestRunCmdFromEnv(t *testing.T) {
	withTestEngine(t)
	t.Setenv("UNARYBENCH_BACKEND", "webgpu")

	out, err := execute(t, "run", "--op", "exp", "--size", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "webgpu exp 4x4:")
}

func TestSuiteCmd(t *testing.T) {
	withTestEngine(t)
	store := &mockStore{}
	newStoreFunc = func(string) (benchmark.Store, error) { return store, nil }

	out, err := execute(t, "suite", "--sizes", "4,8", "--ops", "exp,relu", "--out", "runs.json")
	require.NoError(t, err)

	assert.Contains(t, out, "Device: CPU")
	assert.Regexp(t, `exp\s+4\s+\d+\.\d{3}`, out)
	assert.Regexp(t, `relu\s+8\s+\d+\.\d{3}`, out)
	assert.Contains(t, out, "Results saved to runs.json")

	require.Len(t, store.saved, 1)
	run := store.saved[0]
	assert.Equal(t, "cpu", run.Backend)
	assert.Len(t, run.Results, 4)
}

func TestSuiteCmdRejectsBadConfig(t *testing.T) {
	withTestEngine(t)

	_, err := execute(t, "suite", "--sizes", "4", "--ops", "exp,bogus")
	assert.ErrorContains(t, err, "bogus")

	_, err = execute(t, "suite", "--sizes=-4", "--ops", "exp")
	assert.ErrorIs(t, err, benchmark.ErrInvalidSize)
}

func TestSuiteCmdWritesFile(t *testing.T) {
	withTestEngine(t)
	path := filepath.Join(t.TempDir(), "out", "runs.json")

	_, err := execute(t, "suite", "--backend", "webgpu", "--sizes", "4", "--ops", "sigmoid", "--out", path, "--warmup", "0")
	require.NoError(t, err)

	store, err := benchmark.NewFileStore(path)
	require.NoError(t, err)
	latest, err := store.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, "webgpu", latest.Backend)
	require.Len(t, latest.Results, 1)
	assert.Equal(t, "sigmoid", latest.Results[0].Op)
}

func TestCompareCmd(t *testing.T) {
	withTestEngine(t)
	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := &mockStore{runs: []benchmark.Run{
		{Timestamp: ts, Results: []benchmark.Result{
			{Backend: "cpu", Op: "exp", Size: 128, Millis: 10},
			{Backend: "cpu", Op: "relu", Size: 128, Millis: 10},
		}},
		{Timestamp: ts.Add(time.Hour), Results: []benchmark.Result{
			{Backend: "cpu", Op: "exp", Size: 128, Millis: 12},
			{Backend: "cpu", Op: "relu", Size: 128, Millis: 9},
		}},
	}}
	newStoreFunc = func(string) (benchmark.Store, error) { return store, nil }

	out, err := execute(t, "compare")
	require.NoError(t, err)
	assert.Regexp(t, `cpu/exp/128\s+10\.000\s+12\.000\s+\+20\.00%\s+REGRESSION`, out)
	assert.Regexp(t, `cpu/relu/128\s+10\.000\s+9\.000\s+-10\.00%`, out)
	assert.Contains(t, out, "1 regression(s) above 10.0%")

	store.runs = store.runs[:1]
	_, err = execute(t, "compare")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	withTestEngine(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "unarybench "+version+"\n", out)
}
