// Package optim implements optimization algorithms for training the
// Hopfield layer's projections.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//   - ClipGradNorm: global gradient norm clipping
//
// Optimizers capture the parameter list at construction. The Hopfield layer
// allocates its weights lazily, so bind it before asking for parameters;
// NewSGD and NewAdam panic on an empty list.
//
// Example usage:
//
//	if err := layer.Build(dimK, dimQ, dimK); err != nil {
//	    return err
//	}
//	optimizer := optim.NewAdam(layer.Parameters(), optim.AdamConfig{LR: 0.01}, backend)
//
//	for epoch := range epochs {
//	    backend.Tape().StartRecording()
//	    out, _, _ := layer.Forward(keys, queries, values)
//	    loss, _ := mse.Forward(out, targets)
//	    grads := autodiff.Backward(loss, backend)
//	    backend.Tape().Clear()
//
//	    layer.Update(func() { optimizer.Step(grads) })
//	    optimizer.ZeroGrad()
//	}
package optim

import (
	"math"

	"github.com/born-ml/hopfield/internal/nn"
	"github.com/born-ml/hopfield/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters in place.
	//
	// grads is the map returned by autodiff.Backward, keyed by each
	// parameter tensor's raw buffer. Parameters without an entry are skipped.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32

	// SetLR changes the learning rate for subsequent steps.
	SetLR(lr float32)
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float32 // Learning rate
}

// requireParams panics when an optimizer is constructed without parameters.
func requireParams[B tensor.Backend](name string, params []*nn.Parameter[B]) {
	if len(params) == 0 {
		panic("optim: " + name + " called with no parameters; build the layer before calling Parameters")
	}
}

// getGradient returns the float32 gradient slice for param, or nil if the
// parameter was not part of the computation graph.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) []float32 {
	if param == nil {
		return nil
	}
	g, ok := grads[param.Tensor().Raw()]
	if !ok {
		return nil
	}
	return g.AsFloat32()
}

// ClipGradNorm rescales the gradients of params in grads so that their
// joint L2 norm is at most maxNorm. It returns the norm before clipping.
//
// Gradient tensors are replaced, never modified: a gradient buffer may be
// shared between several tape entries.
func ClipGradNorm[B tensor.Backend](params []*nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor, maxNorm float64) float64 {
	var sumSq float64
	for _, p := range params {
		for _, g := range getGradient(p, grads) {
			sumSq += float64(g) * float64(g)
		}
	}
	norm := math.Sqrt(sumSq)
	if maxNorm <= 0 || norm <= maxNorm || math.IsNaN(norm) {
		return norm
	}

	scale := float32(maxNorm / norm)
	for _, p := range params {
		key := p.Tensor().Raw()
		g, ok := grads[key]
		if !ok {
			continue
		}
		clipped := g.Clone()
		data := clipped.AsFloat32()
		for i := range data {
			data[i] *= scale
		}
		grads[key] = clipped
	}
	return norm
}
