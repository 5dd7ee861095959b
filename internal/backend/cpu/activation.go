package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/unarybench/internal/parallel"
	"github.com/born-ml/unarybench/internal/tensor"
)

// SELU constants from Klambauer et al., "Self-Normalizing Neural Networks".
const (
	seluScale = 1.0507009873554804934193349852946
	seluAlpha = 1.6732632423543772848170429916717
)

// ReLU computes max(0, x). NaN passes through.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("relu", x, func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	})
}

// ELU computes x for x > 0, exp(x) - 1 otherwise.
func (cpu *CPUBackend) ELU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("elu", x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return math.Expm1(v)
	})
}

// SELU computes scale * (x for x > 0, alpha * (exp(x) - 1) otherwise).
func (cpu *CPUBackend) SELU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("selu", x, func(v float64) float64 {
		if v > 0 {
			return seluScale * v
		}
		return seluScale * seluAlpha * math.Expm1(v)
	})
}

// LeakyReLU computes x for x > 0, alpha*x otherwise.
func (cpu *CPUBackend) LeakyReLU(x *tensor.RawTensor, alpha float64) *tensor.RawTensor {
	return cpu.mapUnary("leakyRelu", x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return alpha * v
	})
}

// PReLU computes x for x > 0, alpha*x otherwise, with alpha read from a tensor.
// alpha must be a single-element tensor or have x's shape.
func (cpu *CPUBackend) PReLU(x, alpha *tensor.RawTensor) *tensor.RawTensor {
	if alpha.DType() != x.DType() {
		panic(fmt.Sprintf("prelu: alpha dtype %s does not match input dtype %s", alpha.DType(), x.DType()))
	}
	if alpha.NumElements() == 1 {
		var a float64
		switch alpha.DType() {
		case tensor.Float32:
			a = float64(alpha.AsFloat32()[0])
		case tensor.Float64:
			a = alpha.AsFloat64()[0]
		}
		return cpu.mapUnary("prelu", x, func(v float64) float64 {
			if v > 0 {
				return v
			}
			return a * v
		})
	}
	if !alpha.Shape().Equal(x.Shape()) {
		panic(fmt.Sprintf("prelu: alpha shape %v is neither scalar nor %v", alpha.Shape(), x.Shape()))
	}

	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("prelu: %v", err))
	}
	switch x.DType() {
	case tensor.Float32:
		preluElementwise(x.AsFloat32(), alpha.AsFloat32(), result.AsFloat32(), cpu.parallel)
	case tensor.Float64:
		preluElementwise(x.AsFloat64(), alpha.AsFloat64(), result.AsFloat64(), cpu.parallel)
	default:
		panic(fmt.Sprintf("prelu: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}
	return result
}

func preluElementwise[T float32 | float64](src, alpha, dst []T, cfg parallel.Config) {
	parallel.Range(len(src), cfg, func(start, end int) {
		for i := start; i < end; i++ {
			if v := src[i]; v > 0 {
				dst[i] = v
			} else {
				dst[i] = alpha[i] * v
			}
		}
	})
}

// Sigmoid computes 1 / (1 + exp(-x)).
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("sigmoid", x, func(v float64) float64 {
		return 1 / (1 + math.Exp(-v))
	})
}

// LogSigmoid computes ln(sigmoid(x)) as -softplus(-x).
func (cpu *CPUBackend) LogSigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("logSigmoid", x, func(v float64) float64 {
		return -softplus(-v)
	})
}

// Softplus computes ln(1 + exp(x)).
func (cpu *CPUBackend) Softplus(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mapUnary("softplus", x, softplus)
}

// Step computes 1 for x > 0, alpha otherwise. NaN stays NaN.
func (cpu *CPUBackend) Step(x *tensor.RawTensor, alpha float64) *tensor.RawTensor {
	return cpu.mapUnary("step", x, func(v float64) float64 {
		switch {
		case math.IsNaN(v):
			return v
		case v > 0:
			return 1
		default:
			return alpha
		}
	})
}

// softplus is the overflow-free form max(x, 0) + log1p(exp(-|x|)).
func softplus(v float64) float64 {
	return math.Max(v, 0) + math.Log1p(math.Exp(-math.Abs(v)))
}
