// Package ops defines the differentiable operations recorded by the
// autodiff tape.
//
// Each operation keeps its inputs and output from the forward pass and
// computes input gradients during the backward pass:
//   - AddOp, SubOp, MulOp: element-wise arithmetic
//   - MulScalarOp: scaling by a constant (the inverse temperature β)
//   - MatMulOp: d(A@B)/dA = grad@Bᵀ, d(A@B)/dB = Aᵀ@grad
//   - TransposeOp: gradient is the inverse permutation
//   - SoftmaxOp: row softmax, ∂L/∂x = s ⊙ (g − ⟨g, s⟩)
//   - SumOp: gradient broadcasts the scalar back to the input shape
package ops

import "github.com/born-ml/hopfield/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// The returned slice is aligned with Inputs().
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}

// binaryOp holds the bookkeeping shared by two-input operations.
type binaryOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

func newBinaryOp(a, b, output *tensor.RawTensor) binaryOp {
	return binaryOp{inputs: []*tensor.RawTensor{a, b}, output: output}
}

// Inputs returns the input tensors [a, b].
func (op *binaryOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor.
func (op *binaryOp) Output() *tensor.RawTensor {
	return op.output
}

// unaryOp holds the bookkeeping shared by single-input operations.
type unaryOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// Inputs returns the input tensor.
func (op *unaryOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *unaryOp) Output() *tensor.RawTensor {
	return op.output
}
