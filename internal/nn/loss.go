package nn

import (
	"fmt"

	"github.com/born-ml/hopfield/internal/tensor"
)

// MSELoss computes Mean Squared Error loss.
//
//	Loss = Σ (predictions - targets)² / N
//
// The loss is composed of Sub, Mul, Sum and MulScalar, so it is recorded
// on an autodiff tape like any other computation.
//
// Example:
//
//	mse := nn.NewMSELoss(backend)
//	out, _, _ := layer.Forward(keys, queries, values)
//	loss, err := mse.Forward(out, targets)
type MSELoss[B tensor.Backend] struct {
	backend B
}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend](backend B) *MSELoss[B] {
	return &MSELoss[B]{
		backend: backend,
	}
}

// Forward computes the scalar MSE loss (shape []).
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if !predictions.Shape().Equal(targets.Shape()) {
		return nil, fmt.Errorf("%w: predictions %v vs targets %v",
			ErrShapeMismatch, predictions.Shape(), targets.Shape())
	}

	diff := predictions.Sub(targets)
	return diff.Mul(diff).Sum().MulScalar(1 / float32(diff.NumElements())), nil
}

// Parameters returns nil (loss functions have no trainable parameters).
func (m *MSELoss[B]) Parameters() []*Parameter[B] {
	return nil
}
