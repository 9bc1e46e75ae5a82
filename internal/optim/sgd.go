package optim

import (
	"github.com/born-ml/hopfield/internal/nn"
	"github.com/born-ml/hopfield/internal/tensor"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule (without momentum):
//
//	param = param - lr * gradient
//
// Update rule (with momentum):
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(layer.Parameters(), optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	}, backend)
type SGD[B tensor.Backend] struct {
	params     []*nn.Parameter[B]
	lr         float32
	momentum   float32
	velocities map[*nn.Parameter[B]][]float32
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer. It panics if params is empty.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig, _ B) *SGD[B] {
	requireParams("NewSGD", params)
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD[B]{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter[B]][]float32),
	}
}

// Step performs a single optimization step.
// Parameters with no gradient are skipped.
func (s *SGD[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range s.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}

		data := param.Tensor().Raw().AsFloat32()
		if s.momentum == 0 {
			for i, g := range grad {
				data[i] -= s.lr * g
			}
			continue
		}

		vel, ok := s.velocities[param]
		if !ok {
			vel = make([]float32, len(data))
			s.velocities[param] = vel
		}
		for i, g := range grad {
			vel[i] = s.momentum*vel[i] + g
			data[i] -= s.lr * vel[i]
		}
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD[B]) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (s *SGD[B]) GetLR() float32 {
	return s.lr
}

// SetLR changes the learning rate.
func (s *SGD[B]) SetLR(lr float32) {
	s.lr = lr
}
