package cpu

import (
	"math"

	"github.com/born-ml/unarybench/internal/tensor"
)

// Log computes element-wise natural logarithm: ln(x).
// Negative inputs produce NaN, zero produces -Inf.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("log", x, math.Log)
}

// Exp computes element-wise exponential: exp(x).
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("exp", x, math.Exp)
}

// Expm1 computes exp(x) - 1 without cancellation near zero.
func (cpu *CPUBackend) Expm1(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("expm1", x, math.Expm1)
}

// Log1p computes ln(1 + x) without cancellation near zero.
func (cpu *CPUBackend) Log1p(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("log1p", x, math.Log1p)
}

// Neg computes element-wise negation: -x.
func (cpu *CPUBackend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("neg", x, func(v float64) float64 { return -v })
}

// Abs computes element-wise absolute value.
func (cpu *CPUBackend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("abs", x, math.Abs)
}

// Square computes x*x.
func (cpu *CPUBackend) Square(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("square", x, func(v float64) float64 { return v * v })
}

// Sqrt computes element-wise square root. Negative inputs produce NaN.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("sqrt", x, math.Sqrt)
}

// Rsqrt computes element-wise reciprocal square root: 1/sqrt(x).
func (cpu *CPUBackend) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("rsqrt", x, func(v float64) float64 { return 1 / math.Sqrt(v) })
}

// Reciprocal computes 1/x. Zero maps to +/-Inf.
func (cpu *CPUBackend) Reciprocal(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("reciprocal", x, func(v float64) float64 { return 1 / v })
}

// Ceil rounds up.
func (cpu *CPUBackend) Ceil(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("ceil", x, math.Ceil)
}

// Floor rounds down.
func (cpu *CPUBackend) Floor(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("floor", x, math.Floor)
}

// Round rounds to the nearest integer, ties to even.
func (cpu *CPUBackend) Round(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("round", x, math.RoundToEven)
}

// Sign returns -1 for negative, 1 for positive, 0 for zero. NaN stays NaN.
func (cpu *CPUBackend) Sign(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("sign", x, sign)
}

// Sin computes element-wise sine: sin(x).
func (cpu *CPUBackend) Sin(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("sin", x, math.Sin)
}

// Cos computes element-wise cosine: cos(x).
func (cpu *CPUBackend) Cos(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("cos", x, math.Cos)
}

// Tan computes element-wise tangent.
func (cpu *CPUBackend) Tan(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("tan", x, math.Tan)
}

// Asin computes element-wise arcsine. Inputs outside [-1, 1] produce NaN.
func (cpu *CPUBackend) Asin(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("asin", x, math.Asin)
}

// Acos computes element-wise arccosine. Inputs outside [-1, 1] produce NaN.
func (cpu *CPUBackend) Acos(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("acos", x, math.Acos)
}

// Atan computes element-wise arctangent.
func (cpu *CPUBackend) Atan(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("atan", x, math.Atan)
}

// Sinh computes element-wise hyperbolic sine.
func (cpu *CPUBackend) Sinh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("sinh", x, math.Sinh)
}

// Cosh computes element-wise hyperbolic cosine.
func (cpu *CPUBackend) Cosh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("cosh", x, math.Cosh)
}

// Tanh computes element-wise hyperbolic tangent.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("tanh", x, math.Tanh)
}

// Asinh computes element-wise inverse hyperbolic sine.
func (cpu *CPUBackend) Asinh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("asinh", x, math.Asinh)
}

// Acosh computes element-wise inverse hyperbolic cosine. Inputs below 1 produce NaN.
func (cpu *CPUBackend) Acosh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("acosh", x, math.Acosh)
}

// Atanh computes element-wise inverse hyperbolic tangent.
func (cpu *CPUBackend) Atanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("atanh", x, math.Atanh)
}

// Erf computes the Gauss error function.
func (cpu *CPUBackend) Erf(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("erf", x, math.Erf)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return v // 0, -0 or NaN
	}
}
