// Package nn implements the Modern Hopfield associative memory layer and the
// small set of neural network building blocks it is trained with.
//
// This package provides:
//   - Module interface: trainable components expose their parameters
//   - Parameter: trainable tensors with gradient tracking
//   - Xavier initialization
//   - MSELoss: differentiable mean squared error
//   - Hopfield: single-head associative memory with iterative retrieval
//
// Every forward computation is composed from tensor.Backend primitives, so
// wrapping the backend with autodiff yields gradients without any
// layer-specific backward code.
package nn

import (
	"github.com/born-ml/hopfield/internal/tensor"
)

// Module is implemented by every component that owns trainable state.
//
// Forward signatures differ between components (the Hopfield layer takes
// keys, queries and values), so the interface only covers the parameter
// surface that optimizers consume:
//
//	layer, _ := nn.NewHopfield(cfg, backend)
//	_ = layer.Build(dimK, dimQ, dimK) // weights exist only after binding
//	opt := optim.NewAdam(layer.Parameters(), optim.AdamConfig{LR: 1e-3}, backend)
type Module[B tensor.Backend] interface {
	// Parameters returns all trainable parameters of this module.
	// Returns an empty slice for modules without trainable parameters.
	Parameters() []*Parameter[B]
}
