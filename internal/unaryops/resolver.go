package unaryops

import (
	"fmt"

	"github.com/born-ml/unarybench/internal/tensor"
)

// PReLUAlpha is the fixed slope prelu is benchmarked with.
const PReLUAlpha = 0.1

// applyFunc applies one catalog entry. alpha is nil except for prelu.
type applyFunc[T tensor.Float] func(x, alpha *tensor.Tensor[T]) *tensor.Tensor[T]

// lookup returns the tensor method behind op, or nil if op has none.
func lookup[T tensor.Float](op Op) applyFunc[T] {
	switch op {
	case Log:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Log() }
	case Exp:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Exp() }
	case Expm1:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Expm1() }
	case Neg:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Neg() }
	case Ceil:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Ceil() }
	case Floor:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Floor() }
	case Log1p:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Log1p() }
	case Sqrt:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Sqrt() }
	case Rsqrt:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Rsqrt() }
	case Square:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Square() }
	case Abs:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Abs() }
	case ReLU:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.ReLU() }
	case ELU:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.ELU() }
	case SELU:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.SELU() }
	case LeakyReLU:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.LeakyReLU(tensor.LeakyReLUAlpha) }
	case PReLU:
		return func(x, alpha *tensor.Tensor[T]) *tensor.Tensor[T] { return x.PReLU(alpha) }
	case Sigmoid:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Sigmoid() }
	case LogSigmoid:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.LogSigmoid() }
	case Sin:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Sin() }
	case Cos:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Cos() }
	case Tan:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Tan() }
	case Asin:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Asin() }
	case Acos:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Acos() }
	case Atan:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Atan() }
	case Sinh:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Sinh() }
	case Cosh:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Cosh() }
	case Tanh:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Tanh() }
	case Asinh:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Asinh() }
	case Acosh:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Acosh() }
	case Atanh:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Atanh() }
	case Step:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Step(tensor.StepAlpha) }
	case Sign:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Sign() }
	case Round:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Round() }
	case Reciprocal:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Reciprocal() }
	case Softplus:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Softplus() }
	case Erf:
		return func(x, _ *tensor.Tensor[T]) *tensor.Tensor[T] { return x.Erf() }
	default:
		return nil
	}
}

func init() {
	for _, op := range All() {
		name := names[op]
		if name == "" {
			panic(fmt.Sprintf("unaryops: %d has no name", op))
		}
		if _, dup := byName[name]; dup {
			panic(fmt.Sprintf("unaryops: duplicate name %q", name))
		}
		if lookup[float32](op) == nil {
			panic(fmt.Sprintf("unaryops: %s has no tensor method", name))
		}
		byName[name] = op
	}
}

// Unary is a resolved operation ready to apply to tensors of the engine it
// was resolved on. Dispose releases the constants it holds.
type Unary[T tensor.Float] struct {
	op    Op
	apply applyFunc[T]
	alpha *tensor.Tensor[T]
}

// Resolve returns the operation for op. prelu allocates its alpha as a
// scalar on the active backend.
func Resolve[T tensor.Float](eng *tensor.Engine, op Op) (*Unary[T], error) {
	if !op.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOp, op)
	}
	u := &Unary[T]{op: op, apply: lookup[T](op)}
	if op == PReLU {
		alpha, err := tensor.Scalar(eng, T(PReLUAlpha))
		if err != nil {
			return nil, fmt.Errorf("unaryops: prelu alpha: %w", err)
		}
		u.alpha = alpha
	}
	return u, nil
}

// ResolveName parses name and resolves it.
func ResolveName[T tensor.Float](eng *tensor.Engine, name string) (*Unary[T], error) {
	op, err := Parse(name)
	if err != nil {
		return nil, err
	}
	return Resolve[T](eng, op)
}

// Op returns the resolved operation.
func (u *Unary[T]) Op() Op {
	return u.op
}

// Apply applies the operation to x and returns a new tensor.
func (u *Unary[T]) Apply(x *tensor.Tensor[T]) *tensor.Tensor[T] {
	return u.apply(x, u.alpha)
}

// Dispose releases constants allocated by Resolve. Safe to call twice.
func (u *Unary[T]) Dispose() {
	if u.alpha != nil {
		u.alpha.Dispose()
	}
}
