package ops

import (
	"fmt"

	"github.com/born-ml/hopfield/internal/tensor"
)

// SoftmaxOp represents softmax along the last dimension.
//
// The Jacobian of softmax is ∂s_i/∂x_j = s_i (δ_ij − s_j), which gives,
// per row:
//
//	∂L/∂x_j = s_j · (∂L/∂s_j − Σ_i ∂L/∂s_i · s_i)
//
// The cached output s is all the backward pass needs.
type SoftmaxOp struct{ unaryOp }

// NewSoftmaxOp creates a new SoftmaxOp.
func NewSoftmaxOp(input, output *tensor.RawTensor) *SoftmaxOp {
	return &SoftmaxOp{unaryOp{input: input, output: output}}
}

// Backward computes the gradient with respect to the softmax input.
func (op *SoftmaxOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.output.Shape()
	cols := shape.Last()
	rows := op.output.NumElements() / cols

	inputGrad, err := tensor.NewRaw(shape, op.output.DType(), op.output.Device())
	if err != nil {
		panic(err)
	}

	switch op.output.DType() {
	case tensor.Float32:
		softmaxBackward(inputGrad.AsFloat32(), outputGrad.AsFloat32(), op.output.AsFloat32(), rows, cols)
	case tensor.Float64:
		softmaxBackward(inputGrad.AsFloat64(), outputGrad.AsFloat64(), op.output.AsFloat64(), rows, cols)
	default:
		panic(fmt.Sprintf("SoftmaxOp: unsupported dtype %s", op.output.DType()))
	}

	return []*tensor.RawTensor{inputGrad}
}

func softmaxBackward[T float32 | float64](dx, g, s []T, rows, cols int) {
	for r := 0; r < rows; r++ {
		off := r * cols
		var dot T
		for j := 0; j < cols; j++ {
			dot += g[off+j] * s[off+j]
		}
		for j := 0; j < cols; j++ {
			dx[off+j] = s[off+j] * (g[off+j] - dot)
		}
	}
}
