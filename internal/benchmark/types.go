package benchmark

import (
	"strconv"
	"time"
)

// Result is one measurement of a suite.
type Result struct {
	Backend   string    `json:"backend"`
	Op        string    `json:"op"`
	Size      int       `json:"size"`
	Millis    float64   `json:"ms"`
	Err       string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Failed reports whether the measurement returned an error.
func (r Result) Failed() bool {
	return r.Err != ""
}

// Key identifies a measurement across runs.
func (r Result) Key() string {
	return r.Backend + "/" + r.Op + "/" + strconv.Itoa(r.Size)
}

// Run is the collection of results from one suite execution.
type Run struct {
	Timestamp time.Time `json:"timestamp"`
	Backend   string    `json:"backend"`
	Device    string    `json:"device,omitempty"` // backend display name, e.g. "WebGPU (RTX 4070)"
	Results   []Result  `json:"results"`
}
