// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation and adds gradient
// tracking through a GradientTape.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: records operations during the forward pass
//   - Operation interface: each op (Add, MatMul, Softmax) implements its backward pass
//   - Reverse-mode AD: gradients are computed by walking the tape in reverse
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	x, _ := tensor.FromSlice([]float32{2.0}, tensor.Shape{1}, backend)
//	y := x.Mul(x).Sum() // y = x²
//	grads := autodiff.Backward(y, backend)
//	fmt.Println(grads[x.Raw()].AsFloat32()) // dy/dx = 2x = [4]
package autodiff

import (
	"github.com/born-ml/hopfield/internal/autodiff/ops"
	"github.com/born-ml/hopfield/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements tensor.Backend and records operations in a GradientTape.
type AutodiffBackend[B tensor.Backend] struct {
	inner B             // Wrapped backend
	tape  *GradientTape // Records operations for backpropagation
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
// Useful for:
//   - Starting/stopping recording
//   - Clearing tape between iterations
//   - Inspecting recorded operations
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(a, c)
	b.tape.Record(ops.NewAddOp(a, c, result))
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(a, c)
	b.tape.Record(ops.NewSubOp(a, c, result))
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(a, c)
	b.tape.Record(ops.NewMulOp(a, c, result))
	return result
}

// MulScalar multiplies by a constant and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := b.inner.MulScalar(x, scalar)
	b.tape.Record(ops.NewMulScalarOp(x, result, scalar))
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MatMul(a, c)
	b.tape.Record(ops.NewMatMulOp(a, c, result))
	return result
}

// Transpose permutes dimensions and records the operation.
// With no axes the dimensions are reversed.
func (b *AutodiffBackend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	if len(axes) == 0 {
		ndim := len(t.Shape())
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	result := b.inner.Transpose(t, axes...)
	b.tape.Record(ops.NewTransposeOp(t, result, axes))
	return result
}

// Softmax applies softmax along dim and records the operation.
func (b *AutodiffBackend[B]) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	result := b.inner.Softmax(x, dim)
	b.tape.Record(ops.NewSoftmaxOp(x, result))
	return result
}

// Sum reduces all elements to a scalar and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sum(x)
	b.tape.Record(ops.NewSumOp(x, result))
	return result
}
