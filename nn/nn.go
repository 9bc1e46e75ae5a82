// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the Modern Hopfield associative memory layer.
//
// Example:
//
//	cfg := nn.DefaultHopfieldConfig()
//	cfg.Scaling = 10
//	layer, err := nn.NewHopfield(cfg, cpu.New())
//	if err != nil {
//	    return err
//	}
//	out, attention, err := layer.Forward(keys, queries, values)
package nn

import (
	"math/rand"

	"github.com/born-ml/hopfield/internal/nn"
	"github.com/born-ml/hopfield/internal/tensor"
)

// Errors returned by the Hopfield layer; test with errors.Is.
var (
	ErrConfiguration = nn.ErrConfiguration
	ErrShapeMismatch = nn.ErrShapeMismatch
)

// Module is implemented by components that own trainable parameters.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// CollectGrads stores backward-pass gradients on each parameter.
func CollectGrads[B tensor.Backend](params []*Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor, backend B) int {
	return nn.CollectGrads(params, grads, backend)
}

// Hopfield

// Hopfield is the single-head Modern Hopfield layer.
type Hopfield[B tensor.Backend] = nn.Hopfield[B]

// HopfieldConfig configures a Hopfield layer.
type HopfieldConfig = nn.HopfieldConfig

// DefaultHopfieldConfig returns a static, single-step configuration.
func DefaultHopfieldConfig() HopfieldConfig {
	return nn.DefaultHopfieldConfig()
}

// NewHopfield creates an unbound Hopfield layer.
func NewHopfield[B tensor.Backend](cfg HopfieldConfig, backend B) (*Hopfield[B], error) {
	return nn.NewHopfield(cfg, backend)
}

// Retrieval is a Hopfield result with iteration diagnostics.
type Retrieval[B tensor.Backend] = nn.Retrieval[B]

// RetrievalState is the state of the fixed-point iteration.
type RetrievalState = nn.RetrievalState

// Retrieval states.
const (
	Iterating = nn.Iterating
	Converged = nn.Converged
	Exhausted = nn.Exhausted
)

// Loss

// MSELoss computes mean squared error.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend](backend B) *MSELoss[B] {
	return nn.NewMSELoss(backend)
}

// Initialization

// Xavier creates a Glorot-uniform initialized float32 tensor.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, rng, backend)
}
