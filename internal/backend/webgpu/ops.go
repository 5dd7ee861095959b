//go:build windows

package webgpu

import (
	"github.com/born-ml/unarybench/internal/tensor"
)

// unary submits the named kernel and panics on failure, like every backend op.
// The result stays resident until read or disposed.
func (b *Backend) unary(name string, x *tensor.RawTensor, alpha float32) *tensor.RawTensor {
	result, err := b.runElementwise(name, alpha, x)
	if err != nil {
		panic("webgpu: " + name + ": " + err.Error())
	}
	return result
}

// Log computes ln(x) on GPU.
func (b *Backend) Log(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("log", x, 0) }

// Exp computes e^x on GPU.
func (b *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("exp", x, 0) }

// Expm1 computes e^x - 1 on GPU.
func (b *Backend) Expm1(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("expm1", x, 0) }

// Log1p computes ln(1 + x) on GPU.
func (b *Backend) Log1p(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("log1p", x, 0) }

// Neg computes -x on GPU.
func (b *Backend) Neg(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("neg", x, 0) }

// Abs computes |x| on GPU.
func (b *Backend) Abs(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("abs", x, 0) }

// Square computes x*x on GPU.
func (b *Backend) Square(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("square", x, 0) }

// Sqrt computes sqrt(x) on GPU.
func (b *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("sqrt", x, 0) }

// Rsqrt computes 1/sqrt(x) on GPU.
func (b *Backend) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("rsqrt", x, 0) }

// Reciprocal computes 1/x on GPU.
func (b *Backend) Reciprocal(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary("reciprocal", x, 0)
}

// Ceil rounds up on GPU.
func (b *Backend) Ceil(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("ceil", x, 0) }

// Floor rounds down on GPU.
func (b *Backend) Floor(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("floor", x, 0) }

// Round rounds half to even on GPU.
func (b *Backend) Round(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("round", x, 0) }

// Sign computes sign(x) on GPU.
func (b *Backend) Sign(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("sign", x, 0) }

// ReLU computes max(0, x) on GPU.
func (b *Backend) ReLU(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("relu", x, 0) }

// ELU computes the exponential linear unit on GPU.
func (b *Backend) ELU(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("elu", x, 0) }

// SELU computes the scaled exponential linear unit on GPU.
func (b *Backend) SELU(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("selu", x, 0) }

// LeakyReLU computes x for x > 0, alpha*x otherwise, on GPU.
func (b *Backend) LeakyReLU(x *tensor.RawTensor, alpha float64) *tensor.RawTensor {
	return b.unary("leakyRelu", x, float32(alpha))
}

// PReLU computes x for x > 0, alpha*x otherwise. alpha is bound as a second
// input: a single element is broadcast, otherwise it must match x's shape.
func (b *Backend) PReLU(x, alpha *tensor.RawTensor) *tensor.RawTensor {
	name := "prelu"
	if alpha.NumElements() != 1 {
		if !alpha.Shape().Equal(x.Shape()) {
			panic("webgpu: prelu: alpha must be a scalar or match the input shape")
		}
		name = "preluTensor"
	}
	result, err := b.runElementwise(name, 0, x, alpha)
	if err != nil {
		panic("webgpu: prelu: " + err.Error())
	}
	return result
}

// Sigmoid computes 1 / (1 + e^-x) on GPU.
func (b *Backend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("sigmoid", x, 0) }

// LogSigmoid computes ln(sigmoid(x)) on GPU.
func (b *Backend) LogSigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary("logSigmoid", x, 0)
}

// Softplus computes ln(1 + e^x) on GPU.
func (b *Backend) Softplus(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("softplus", x, 0) }

// Step computes 1 for x > 0, alpha otherwise, on GPU. NaN passes through.
func (b *Backend) Step(x *tensor.RawTensor, alpha float64) *tensor.RawTensor {
	return b.unary("step", x, float32(alpha))
}

// Sin computes sin(x) on GPU.
func (b *Backend) Sin(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("sin", x, 0) }

// Cos computes cos(x) on GPU.
func (b *Backend) Cos(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("cos", x, 0) }

// Tan computes tan(x) on GPU.
func (b *Backend) Tan(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("tan", x, 0) }

// Asin computes asin(x) on GPU.
func (b *Backend) Asin(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("asin", x, 0) }

// Acos computes acos(x) on GPU.
func (b *Backend) Acos(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("acos", x, 0) }

// Atan computes atan(x) on GPU.
func (b *Backend) Atan(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("atan", x, 0) }

// Sinh computes sinh(x) on GPU.
func (b *Backend) Sinh(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("sinh", x, 0) }

// Cosh computes cosh(x) on GPU.
func (b *Backend) Cosh(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("cosh", x, 0) }

// Tanh computes tanh(x) on GPU.
func (b *Backend) Tanh(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("tanh", x, 0) }

// Asinh computes asinh(x) on GPU.
func (b *Backend) Asinh(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("asinh", x, 0) }

// Acosh computes acosh(x) on GPU.
func (b *Backend) Acosh(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("acosh", x, 0) }

// Atanh computes atanh(x) on GPU.
func (b *Backend) Atanh(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("atanh", x, 0) }

// Erf computes the Gauss error function on GPU.
func (b *Backend) Erf(x *tensor.RawTensor) *tensor.RawTensor { return b.unary("erf", x, 0) }
