package tensor

import "fmt"

// Default parameters of the parameterized activations.
const (
	LeakyReLUAlpha = 0.2
	StepAlpha      = 0.0
)

// unary runs a backend kernel on t and wraps the result.
func (t *Tensor[T]) unary(name string, kernel func(*RawTensor) *RawTensor) *Tensor[T] {
	if t.IsDisposed() {
		panic(fmt.Errorf("%s: %w", name, ErrDisposed))
	}
	return wrap[T](t.eng, t.backend, kernel(t.raw))
}

// Log computes ln(x) element-wise.
func (t *Tensor[T]) Log() *Tensor[T] { return t.unary("log", t.backend.Log) }

// Exp computes e^x element-wise.
func (t *Tensor[T]) Exp() *Tensor[T] { return t.unary("exp", t.backend.Exp) }

// Expm1 computes e^x - 1 element-wise.
func (t *Tensor[T]) Expm1() *Tensor[T] { return t.unary("expm1", t.backend.Expm1) }

// Log1p computes ln(1 + x) element-wise.
func (t *Tensor[T]) Log1p() *Tensor[T] { return t.unary("log1p", t.backend.Log1p) }

// Neg computes -x element-wise.
func (t *Tensor[T]) Neg() *Tensor[T] { return t.unary("neg", t.backend.Neg) }

// Abs computes |x| element-wise.
func (t *Tensor[T]) Abs() *Tensor[T] { return t.unary("abs", t.backend.Abs) }

// Square computes x*x element-wise.
func (t *Tensor[T]) Square() *Tensor[T] { return t.unary("square", t.backend.Square) }

// Sqrt computes the square root element-wise.
func (t *Tensor[T]) Sqrt() *Tensor[T] { return t.unary("sqrt", t.backend.Sqrt) }

// Rsqrt computes 1/sqrt(x) element-wise.
func (t *Tensor[T]) Rsqrt() *Tensor[T] { return t.unary("rsqrt", t.backend.Rsqrt) }

// Reciprocal computes 1/x element-wise.
func (t *Tensor[T]) Reciprocal() *Tensor[T] { return t.unary("reciprocal", t.backend.Reciprocal) }

// Ceil rounds up element-wise.
func (t *Tensor[T]) Ceil() *Tensor[T] { return t.unary("ceil", t.backend.Ceil) }

// Floor rounds down element-wise.
func (t *Tensor[T]) Floor() *Tensor[T] { return t.unary("floor", t.backend.Floor) }

// Round rounds half to even element-wise.
func (t *Tensor[T]) Round() *Tensor[T] { return t.unary("round", t.backend.Round) }

// Sign returns -1, 0 or 1 element-wise.
func (t *Tensor[T]) Sign() *Tensor[T] { return t.unary("sign", t.backend.Sign) }

// ReLU computes max(0, x).
func (t *Tensor[T]) ReLU() *Tensor[T] { return t.unary("relu", t.backend.ReLU) }

// ELU computes x > 0 ? x : e^x - 1.
func (t *Tensor[T]) ELU() *Tensor[T] { return t.unary("elu", t.backend.ELU) }

// SELU computes the scaled exponential linear unit.
func (t *Tensor[T]) SELU() *Tensor[T] { return t.unary("selu", t.backend.SELU) }

// LeakyReLU computes x > 0 ? x : alpha*x.
func (t *Tensor[T]) LeakyReLU(alpha float64) *Tensor[T] {
	return t.unary("leakyRelu", func(x *RawTensor) *RawTensor {
		return t.backend.LeakyReLU(x, alpha)
	})
}

// PReLU computes x > 0 ? x : alpha*x with alpha given as a tensor.
// alpha must be a scalar or match t's shape.
func (t *Tensor[T]) PReLU(alpha *Tensor[T]) *Tensor[T] {
	if alpha.IsDisposed() {
		panic(fmt.Errorf("prelu alpha: %w", ErrDisposed))
	}
	return t.unary("prelu", func(x *RawTensor) *RawTensor {
		return t.backend.PReLU(x, alpha.raw)
	})
}

// Sigmoid computes 1 / (1 + e^-x).
func (t *Tensor[T]) Sigmoid() *Tensor[T] { return t.unary("sigmoid", t.backend.Sigmoid) }

// LogSigmoid computes ln(sigmoid(x)).
func (t *Tensor[T]) LogSigmoid() *Tensor[T] { return t.unary("logSigmoid", t.backend.LogSigmoid) }

// Softplus computes ln(1 + e^x).
func (t *Tensor[T]) Softplus() *Tensor[T] { return t.unary("softplus", t.backend.Softplus) }

// Step computes x > 0 ? 1 : alpha.
func (t *Tensor[T]) Step(alpha float64) *Tensor[T] {
	return t.unary("step", func(x *RawTensor) *RawTensor {
		return t.backend.Step(x, alpha)
	})
}

// Sin computes the sine element-wise.
func (t *Tensor[T]) Sin() *Tensor[T] { return t.unary("sin", t.backend.Sin) }

// Cos computes the cosine element-wise.
func (t *Tensor[T]) Cos() *Tensor[T] { return t.unary("cos", t.backend.Cos) }

// Tan computes the tangent element-wise.
func (t *Tensor[T]) Tan() *Tensor[T] { return t.unary("tan", t.backend.Tan) }

// Asin computes the arcsine element-wise.
func (t *Tensor[T]) Asin() *Tensor[T] { return t.unary("asin", t.backend.Asin) }

// Acos computes the arccosine element-wise.
func (t *Tensor[T]) Acos() *Tensor[T] { return t.unary("acos", t.backend.Acos) }

// Atan computes the arctangent element-wise.
func (t *Tensor[T]) Atan() *Tensor[T] { return t.unary("atan", t.backend.Atan) }

// Sinh computes the hyperbolic sine element-wise.
func (t *Tensor[T]) Sinh() *Tensor[T] { return t.unary("sinh", t.backend.Sinh) }

// Cosh computes the hyperbolic cosine element-wise.
func (t *Tensor[T]) Cosh() *Tensor[T] { return t.unary("cosh", t.backend.Cosh) }

// Tanh computes the hyperbolic tangent element-wise.
func (t *Tensor[T]) Tanh() *Tensor[T] { return t.unary("tanh", t.backend.Tanh) }

// Asinh computes the inverse hyperbolic sine element-wise.
func (t *Tensor[T]) Asinh() *Tensor[T] { return t.unary("asinh", t.backend.Asinh) }

// Acosh computes the inverse hyperbolic cosine element-wise.
func (t *Tensor[T]) Acosh() *Tensor[T] { return t.unary("acosh", t.backend.Acosh) }

// Atanh computes the inverse hyperbolic tangent element-wise.
func (t *Tensor[T]) Atanh() *Tensor[T] { return t.unary("atanh", t.backend.Atanh) }

// Erf computes the Gauss error function element-wise.
func (t *Tensor[T]) Erf() *Tensor[T] { return t.unary("erf", t.backend.Erf) }
