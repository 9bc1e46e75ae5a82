// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers for the Hopfield layer's parameters.
package optim

import (
	"github.com/born-ml/hopfield/internal/nn"
	"github.com/born-ml/hopfield/internal/optim"
	"github.com/born-ml/hopfield/internal/tensor"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Config represents the base configuration for optimizers.
type Config = optim.Config

// SGD represents the SGD optimizer with optional momentum.
type SGD[B tensor.Backend] = optim.SGD[B]

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer. It panics if params is empty, so a
// lazily built layer must be bound first.
//
// Example:
//
//	_ = layer.Build(dimK, dimQ, dimK)
//	optimizer := optim.NewSGD(layer.Parameters(), optim.SGDConfig{LR: 0.01, Momentum: 0.9}, backend)
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig, backend B) *SGD[B] {
	return optim.NewSGD(params, config, backend)
}

// Adam represents the Adam optimizer.
type Adam[B tensor.Backend] = optim.Adam[B]

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer. It panics if params is empty, so a
// lazily built layer must be bound first.
//
// Example:
//
//	_ = layer.Build(dimK, dimQ, dimK)
//	optimizer := optim.NewAdam(layer.Parameters(), optim.AdamConfig{LR: 0.01}, backend)
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig, backend B) *Adam[B] {
	return optim.NewAdam(params, config, backend)
}

// ClipGradNorm rescales gradients to a joint L2 norm of at most maxNorm.
func ClipGradNorm[B tensor.Backend](params []*nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor, maxNorm float64) float64 {
	return optim.ClipGradNorm(params, grads, maxNorm)
}
