package ops

import "github.com/born-ml/hopfield/internal/tensor"

// AddOp represents output = a + b.
//
// Backward: grad_a = grad_b = outputGrad.
type AddOp struct{ binaryOp }

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *tensor.RawTensor) *AddOp {
	return &AddOp{newBinaryOp(a, b, output)}
}

// Backward computes input gradients for addition.
func (op *AddOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad, outputGrad}
}

// SubOp represents output = a - b.
//
// Backward: grad_a = outputGrad, grad_b = -outputGrad.
type SubOp struct{ binaryOp }

// NewSubOp creates a new SubOp.
func NewSubOp(a, b, output *tensor.RawTensor) *SubOp {
	return &SubOp{newBinaryOp(a, b, output)}
}

// Backward computes input gradients for subtraction.
func (op *SubOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad, backend.MulScalar(outputGrad, -1.0)}
}

// MulOp represents output = a * b (element-wise).
//
// Backward: grad_a = outputGrad * b, grad_b = outputGrad * a.
type MulOp struct{ binaryOp }

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{newBinaryOp(a, b, output)}
}

// Backward computes input gradients for element-wise multiplication.
func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{backend.Mul(outputGrad, b), backend.Mul(outputGrad, a)}
}
