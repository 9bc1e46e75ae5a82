package nn

import (
	"github.com/born-ml/hopfield/internal/tensor"
)

// Parameter represents a trainable weight matrix.
//
// The tensor is owned by the layer that created it and is mutated in place
// only by an optimizer. Its raw buffer is the key under which the autodiff
// tape reports the parameter's gradient.
//
// Example:
//
//	grads := autodiff.Backward(loss, backend)
//	for _, p := range layer.Parameters() {
//	    p.SetGrad(tensor.New[float32](grads[p.Tensor().Raw()], backend))
//	}
type Parameter[B tensor.Backend] struct {
	name   string                     // Parameter name (e.g., "k_proj")
	tensor *tensor.Tensor[float32, B] // The parameter tensor
	grad   *tensor.Tensor[float32, B] // Gradient from the last backward pass
}

// NewParameter creates a new trainable parameter around an initialized tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Shape returns the parameter's shape.
func (p *Parameter[B]) Shape() tensor.Shape {
	return p.tensor.Shape()
}

// Grad returns the gradient tensor, or nil before a backward pass.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}

// CollectGrads stores the gradients found in grads on each parameter and
// returns how many parameters received one.
//
// grads is the map returned by autodiff.Backward.
func CollectGrads[B tensor.Backend](params []*Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor, backend B) int {
	n := 0
	for _, p := range params {
		g, ok := grads[p.tensor.Raw()]
		if !ok {
			p.grad = nil
			continue
		}
		p.grad = tensor.New[float32, B](g, backend)
		n++
	}
	return n
}
