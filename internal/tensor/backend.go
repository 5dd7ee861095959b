package tensor

// Backend defines the element-wise surface a compute backend must implement.
// Backends handle the actual computation; tensors only route calls to them.
//
// Implementations:
//   - internal/backend/cpu: pure Go, chunked across goroutines
//   - internal/backend/webgpu: WGSL compute shaders via WebGPU
//
// Every method returns a freshly allocated result and never mutates x.
type Backend interface {
	// Exponential and logarithmic.
	Log(x *RawTensor) *RawTensor   // ln(x), NaN for x < 0
	Exp(x *RawTensor) *RawTensor   // e^x
	Expm1(x *RawTensor) *RawTensor // e^x - 1
	Log1p(x *RawTensor) *RawTensor // ln(1 + x)

	// Arithmetic.
	Neg(x *RawTensor) *RawTensor        // -x
	Abs(x *RawTensor) *RawTensor        // |x|
	Square(x *RawTensor) *RawTensor     // x*x
	Sqrt(x *RawTensor) *RawTensor       // sqrt(x), NaN for x < 0
	Rsqrt(x *RawTensor) *RawTensor      // 1/sqrt(x)
	Reciprocal(x *RawTensor) *RawTensor // 1/x

	// Rounding.
	Ceil(x *RawTensor) *RawTensor
	Floor(x *RawTensor) *RawTensor
	Round(x *RawTensor) *RawTensor // half to even
	Sign(x *RawTensor) *RawTensor  // -1, 0 or 1

	// Activations.
	ReLU(x *RawTensor) *RawTensor
	ELU(x *RawTensor) *RawTensor
	SELU(x *RawTensor) *RawTensor
	LeakyReLU(x *RawTensor, alpha float64) *RawTensor
	PReLU(x, alpha *RawTensor) *RawTensor // alpha is a scalar or has x's shape
	Sigmoid(x *RawTensor) *RawTensor
	LogSigmoid(x *RawTensor) *RawTensor
	Softplus(x *RawTensor) *RawTensor
	Step(x *RawTensor, alpha float64) *RawTensor // x > 0 ? 1 : alpha

	// Trigonometric and hyperbolic.
	Sin(x *RawTensor) *RawTensor
	Cos(x *RawTensor) *RawTensor
	Tan(x *RawTensor) *RawTensor
	Asin(x *RawTensor) *RawTensor
	Acos(x *RawTensor) *RawTensor
	Atan(x *RawTensor) *RawTensor
	Sinh(x *RawTensor) *RawTensor
	Cosh(x *RawTensor) *RawTensor
	Tanh(x *RawTensor) *RawTensor
	Asinh(x *RawTensor) *RawTensor
	Acosh(x *RawTensor) *RawTensor
	Atanh(x *RawTensor) *RawTensor

	// Special functions.
	Erf(x *RawTensor) *RawTensor

	// Read returns a host copy of x's data once all work producing x is done.
	Read(x *RawTensor) ([]byte, error)

	// Metadata.
	Name() string
	Device() Device
}

// Uploader is implemented by backends whose tensors live in device memory.
// Upload copies a host tensor into the backend and returns the resident
// tensor; x stays owned by the caller.
type Uploader interface {
	Upload(x *RawTensor) (*RawTensor, error)
}

// Releaser is implemented by backends holding resources beyond host memory.
type Releaser interface {
	Release()
}

// Factory creates a backend on first selection.
type Factory func() (Backend, error)
