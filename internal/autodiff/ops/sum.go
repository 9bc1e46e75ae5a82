package ops

import "github.com/born-ml/hopfield/internal/tensor"

// SumOp represents output = Σ x (a scalar).
//
// Backward: every input element receives the scalar output gradient.
type SumOp struct{ unaryOp }

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.RawTensor) *SumOp {
	return &SumOp{unaryOp{input: x, output: output}}
}

// Backward broadcasts the output gradient to the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad, err := tensor.NewRaw(op.input.Shape(), op.input.DType(), op.input.Device())
	if err != nil {
		panic(err)
	}
	grad.Fill(outputGrad.Float64At(0))
	return []*tensor.RawTensor{grad}
}
