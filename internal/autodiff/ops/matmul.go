package ops

import "github.com/born-ml/hopfield/internal/tensor"

// MatMulOp represents a matrix multiplication operation: output = a @ b.
//
// Backward pass:
//   - d(A@B)/dA = outputGrad @ Bᵀ
//   - d(A@B)/dB = Aᵀ @ outputGrad
type MatMulOp struct{ binaryOp }

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{newBinaryOp(a, b, output)}
}

// Backward computes input gradients for matrix multiplication.
func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	gradA := backend.MatMul(outputGrad, backend.Transpose(b, 1, 0))
	gradB := backend.MatMul(backend.Transpose(a, 1, 0), outputGrad)

	return []*tensor.RawTensor{gradA, gradB}
}
