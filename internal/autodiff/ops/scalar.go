package ops

import "github.com/born-ml/hopfield/internal/tensor"

// MulScalarOp represents output = x * s for a constant s.
//
// Backward: grad_x = outputGrad * s. The scalar itself is not trainable.
type MulScalarOp struct {
	unaryOp
	scalar any
}

// NewMulScalarOp creates a new MulScalarOp.
func NewMulScalarOp(x, output *tensor.RawTensor, scalar any) *MulScalarOp {
	return &MulScalarOp{unaryOp: unaryOp{input: x, output: output}, scalar: scalar}
}

// Backward computes the input gradient for scalar multiplication.
func (op *MulScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
}
