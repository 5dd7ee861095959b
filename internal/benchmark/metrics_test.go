package benchmark

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderObserve(t *testing.T) {
	rec := NewRecorder()
	rec.Observe(Result{Backend: "cpu", Op: "exp", Size: 8, Millis: 0.5})
	rec.Observe(Result{Backend: "cpu", Op: "exp", Size: 16, Millis: 1.5})
	rec.Observe(Result{Backend: "cpu", Op: "bogus", Size: 8, Err: "unsupported"})

	families, err := rec.Registry().Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	var samples uint64
	var sum float64
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch mf.GetName() {
			case "unarybench_runs_total":
				labels := map[string]string{}
				for _, lp := range m.GetLabel() {
					labels[lp.GetName()] = lp.GetValue()
				}
				counts[labels["op"]+"/"+labels["status"]] = m.GetCounter().GetValue()
			case "unarybench_op_duration_milliseconds":
				samples += m.GetHistogram().GetSampleCount()
				sum += m.GetHistogram().GetSampleSum()
			}
		}
	}

	assert.Equal(t, 2.0, counts["exp/ok"])
	assert.Equal(t, 1.0, counts["bogus/error"])
	assert.Equal(t, uint64(2), samples, "failed runs are not timed")
	assert.InDelta(t, 2.0, sum, 1e-9)
}

func TestRecorderHandler(t *testing.T) {
	rec := NewRecorder()
	rec.Observe(Result{Backend: "webgpu", Op: "relu", Size: 8, Millis: 2})

	ts := httptest.NewServer(rec.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `unarybench_runs_total{backend="webgpu",op="relu",status="ok"} 1`)
}
