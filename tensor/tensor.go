// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the tensors the Hopfield layer
// computes with.
//
// The package exposes:
//   - Tensor[T, B]: generic tensor with compile-time element and backend types
//   - RawTensor: untyped storage that backends operate on
//   - Backend: the primitives a compute backend provides
//   - Shape, DataType, Device: core type definitions
//
// Example:
//
//	backend := cpu.New()
//	keys, err := tensor.FromSlice([]float32{1, 0, 0, 1}, tensor.Shape{2, 2}, backend)
//	scores := keys.MatMul(keys.T()).MulScalar(10)
package tensor

import (
	"math/rand"

	"github.com/born-ml/hopfield/internal/tensor"
)

// DType is a constraint for tensor element types (float32, float64).
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// CPU is the only supported device.
const CPU Device = tensor.CPU

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// Backend defines the primitives a compute backend must provide.
type Backend = tensor.Backend

// RawTensor is the untyped tensor representation.
type RawTensor = tensor.RawTensor

// Tensor is a generic tensor with element type T and backend B.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// NewRaw allocates a zero-filled RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// New wraps a RawTensor.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// FromSlice creates a tensor from data, which must have shape.NumElements() elements.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice(data, shape, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T](shape, b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full(shape, value, b)
}

// Eye creates an n×n identity matrix.
func Eye[T DType, B Backend](n int, b B) *Tensor[T, B] {
	return tensor.Eye[T](n, b)
}

// Randn creates a tensor with values drawn from N(0, 1).
// A nil rng uses the global math/rand source.
func Randn[T DType, B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[T, B] {
	return tensor.Randn[T](shape, rng, b)
}

// FrobeniusDistance returns ‖a − b‖_F.
func FrobeniusDistance(a, b *RawTensor) (float64, error) {
	return tensor.FrobeniusDistance(a, b)
}
