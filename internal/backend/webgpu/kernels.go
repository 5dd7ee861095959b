package webgpu

import (
	"fmt"
	"strings"
)

// workgroupSize is the number of threads per workgroup.
const workgroupSize = 256

// maxWorkgroupsPerDim is the WebGPU default limit on dispatch size per dimension.
const maxWorkgroupsPerDim = 65535

// kernel describes one element-wise shader. expr computes the result from v,
// the input element at idx; binary kernels may also read the second input a.
type kernel struct {
	binary  bool
	helpers string
	expr    string
}

const softplusHelper = `
fn softplus(v: f32) -> f32 {
    return max(v, 0.0) + log(1.0 + exp(-abs(v)));
}
`

// Abramowitz and Stegun 7.1.26, max absolute error 1.5e-7.
const erfHelper = `
fn erf_approx(v: f32) -> f32 {
    let s = sign(v);
    let ax = abs(v);
    let t = 1.0 / (1.0 + 0.3275911 * ax);
    let poly = t * (0.254829592 + t * (-0.284496736 + t * (1.421413741 + t * (-1.453152027 + t * 1.061405429))));
    return s * (1.0 - poly * exp(-ax * ax));
}
`

const seluHelper = `
const SELU_SCALE: f32 = 1.0507009873554805;
const SELU_ALPHA: f32 = 1.6732632423543772;
`

var kernels = map[string]kernel{
	"log":        {expr: "log(v)"},
	"exp":        {expr: "exp(v)"},
	"expm1":      {expr: "select(exp(v) - 1.0, v + 0.5 * v * v, abs(v) < 1e-5)"},
	"log1p":      {expr: "select(log(1.0 + v), v - 0.5 * v * v, abs(v) < 1e-5)"},
	"neg":        {expr: "-v"},
	"abs":        {expr: "abs(v)"},
	"square":     {expr: "v * v"},
	"sqrt":       {expr: "sqrt(v)"},
	"rsqrt":      {expr: "inverseSqrt(v)"},
	"reciprocal": {expr: "1.0 / v"},
	"ceil":       {expr: "ceil(v)"},
	"floor":      {expr: "floor(v)"},
	"round":      {expr: "round(v)"}, // WGSL round is half to even
	"sign":       {expr: "sign(v)"},
	"relu":       {expr: "select(v, 0.0, v < 0.0)"},
	"elu":        {expr: "select(exp(v) - 1.0, v, v > 0.0)"},
	"selu":       {helpers: seluHelper, expr: "SELU_SCALE * select(SELU_ALPHA * (exp(v) - 1.0), v, v > 0.0)"},
	"leakyRelu":  {expr: "select(params.alpha * v, v, v > 0.0)"},
	// prelu reads a resident single-element alpha; preluTensor one alpha per element.
	"prelu":       {binary: true, expr: "select(a[0] * v, v, v > 0.0)"},
	"preluTensor": {binary: true, expr: "select(a[idx] * v, v, v > 0.0)"},
	"step":       {expr: "select(select(params.alpha, v, v != v), 1.0, v > 0.0)"},
	"sigmoid":    {expr: "1.0 / (1.0 + exp(-v))"},
	"logSigmoid": {helpers: softplusHelper, expr: "-softplus(-v)"},
	"softplus":   {helpers: softplusHelper, expr: "softplus(v)"},
	"sin":        {expr: "sin(v)"},
	"cos":        {expr: "cos(v)"},
	"tan":        {expr: "tan(v)"},
	"asin":       {expr: "asin(v)"},
	"acos":       {expr: "acos(v)"},
	"atan":       {expr: "atan(v)"},
	"sinh":       {expr: "sinh(v)"},
	"cosh":       {expr: "cosh(v)"},
	"tanh":       {expr: "tanh(v)"},
	"asinh":      {expr: "asinh(v)"},
	"acosh":      {expr: "acosh(v)"},
	"atanh":      {expr: "atanh(v)"},
	"erf":        {helpers: erfHelper, expr: "erf_approx(v)"},
}

// shaderSource renders the WGSL program for the named kernel.
// The flat index spans a 2-D dispatch so matrices beyond
// 65535*256 elements still fit in one submission.
func shaderSource(name string) (string, error) {
	k, ok := kernels[name]
	if !ok {
		return "", fmt.Errorf("webgpu: no shader for %q", name)
	}

	var sb strings.Builder
	sb.WriteString("@group(0) @binding(0) var<storage, read> x: array<f32>;\n")
	next := 1
	if k.binary {
		sb.WriteString("@group(0) @binding(1) var<storage, read> a: array<f32>;\n")
		next = 2
	}
	fmt.Fprintf(&sb, "@group(0) @binding(%d) var<storage, read_write> result: array<f32>;\n", next)
	sb.WriteString(`
struct Params {
    size: u32,
    alpha: f32,
}
`)
	fmt.Fprintf(&sb, "@group(0) @binding(%d) var<uniform> params: Params;\n", next+1)
	sb.WriteString(k.helpers)
	fmt.Fprintf(&sb, `
@compute @workgroup_size(%d)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>,
        @builtin(num_workgroups) num_groups: vec3<u32>) {
    let idx = global_id.x + global_id.y * num_groups.x * %du;
    if (idx >= params.size) {
        return;
    }
    let v = x[idx];
    result[idx] = %s;
}
`, workgroupSize, workgroupSize, k.expr)

	return sb.String(), nil
}

// workgroupGrid splits n invocations into an (x, y) workgroup grid that
// respects the per-dimension dispatch limit.
func workgroupGrid(n int) (x, y uint32) {
	groups := (n + workgroupSize - 1) / workgroupSize
	if groups <= maxWorkgroupsPerDim {
		//nolint:gosec // G115: groups is positive and below the limit
		return uint32(groups), 1
	}
	rows := (groups + maxWorkgroupsPerDim - 1) / maxWorkgroupsPerDim
	//nolint:gosec // G115: rows is positive and small
	return maxWorkgroupsPerDim, uint32(rows)
}
