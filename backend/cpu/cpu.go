// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend.
package cpu

import (
	internalcpu "github.com/born-ml/hopfield/internal/backend/cpu"
	"github.com/born-ml/hopfield/internal/parallel"
	"github.com/born-ml/hopfield/tensor"
)

// Backend represents the CPU backend implementation.
//
// Matrix multiplication and softmax split their rows across goroutines.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// ParallelConfig controls how kernels fan rows out across goroutines.
type ParallelConfig = parallel.Config

// Features describes the host CPU.
type Features = internalcpu.Features

// New creates a new CPU backend using every available core.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func New() *Backend {
	return internalcpu.New()
}

// NewSequential creates a CPU backend that runs every kernel on the
// calling goroutine.
func NewSequential() *Backend {
	return internalcpu.NewWithConfig(parallel.Sequential())
}

// NewWithConfig creates a CPU backend with an explicit parallelism policy.
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DetectFeatures reports the host CPU's architecture and SIMD extensions.
func DetectFeatures() Features {
	return internalcpu.DetectFeatures()
}
