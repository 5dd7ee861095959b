// Package unaryops maps operation identifiers to element-wise tensor operations.
package unaryops

import (
	"errors"
	"fmt"
)

// ErrUnsupportedOp is returned for an identifier outside the catalog.
var ErrUnsupportedOp = errors.New("unaryops: unsupported operation")

// Op is one entry of the closed catalog of unary operations.
type Op int

// Catalog order. New entries go before numOps and need a name and a table entry.
const (
	Log Op = iota
	Exp
	Expm1
	Neg
	Ceil
	Floor
	Log1p
	Sqrt
	Rsqrt
	Square
	Abs
	ReLU
	ELU
	SELU
	LeakyReLU
	PReLU
	Sigmoid
	LogSigmoid
	Sin
	Cos
	Tan
	Asin
	Acos
	Atan
	Sinh
	Cosh
	Tanh
	Asinh
	Acosh
	Atanh
	Step
	Sign
	Round
	Reciprocal
	Softplus
	Erf

	numOps
)

var names = [numOps]string{
	Log:        "log",
	Exp:        "exp",
	Expm1:      "expm1",
	Neg:        "neg",
	Ceil:       "ceil",
	Floor:      "floor",
	Log1p:      "log1p",
	Sqrt:       "sqrt",
	Rsqrt:      "rsqrt",
	Square:     "square",
	Abs:        "abs",
	ReLU:       "relu",
	ELU:        "elu",
	SELU:       "selu",
	LeakyReLU:  "leakyRelu",
	PReLU:      "prelu",
	Sigmoid:    "sigmoid",
	LogSigmoid: "logSigmoid",
	Sin:        "sin",
	Cos:        "cos",
	Tan:        "tan",
	Asin:       "asin",
	Acos:       "acos",
	Atan:       "atan",
	Sinh:       "sinh",
	Cosh:       "cosh",
	Tanh:       "tanh",
	Asinh:      "asinh",
	Acosh:      "acosh",
	Atanh:      "atanh",
	Step:       "step",
	Sign:       "sign",
	Round:      "round",
	Reciprocal: "reciprocal",
	Softplus:   "softplus",
	Erf:        "erf",
}

var byName = make(map[string]Op, numOps)

// String returns the identifier of o, e.g. "leakyRelu".
func (o Op) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return names[o]
}

// Valid reports whether o is part of the catalog.
func (o Op) Valid() bool {
	return o >= 0 && o < numOps
}

// Parse returns the Op for a case-sensitive identifier.
func Parse(name string) (Op, error) {
	op, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedOp, name)
	}
	return op, nil
}

// All returns every Op in catalog order.
func All() []Op {
	ops := make([]Op, numOps)
	for i := range ops {
		ops[i] = Op(i)
	}
	return ops
}

// Names returns every identifier in catalog order.
func Names() []string {
	return append([]string(nil), names[:]...)
}
