package ops

import "github.com/born-ml/hopfield/internal/tensor"

// TransposeOp represents output = transpose(input, axes).
//
// Backward: ∂L/∂input = transpose(∂L/∂output, inverse(axes)).
type TransposeOp struct {
	unaryOp
	axes []int
}

// NewTransposeOp creates a new TransposeOp. axes must be explicit.
func NewTransposeOp(input, output *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{unaryOp: unaryOp{input: input, output: output}, axes: axes}
}

// Backward transposes the output gradient with the inverse permutation.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(outputGrad, inverse...)}
}
