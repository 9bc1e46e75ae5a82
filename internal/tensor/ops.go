package tensor

// Add performs element-wise addition. Shapes must match.
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub performs element-wise subtraction. Shapes must match.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul performs element-wise multiplication. Shapes must match.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Mul(t.raw, other.raw), t.backend)
}

// MulScalar multiplies each element by scalar.
//
// Example:
//
//	scores := q.MatMul(k.T()).MulScalar(beta)
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.MulScalar(t.raw, scalar), t.backend)
}

// MatMul performs matrix multiplication: (M, K) @ (K, N) → (M, N).
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.MatMul(t.raw, other.raw), t.backend)
}

// Transpose permutes the tensor's dimensions.
// With no axes, all dimensions are reversed.
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	return New[T, B](t.backend.Transpose(t.raw, axes...), t.backend)
}

// T is a shortcut for 2D transpose.
// Panics if the tensor is not 2D.
func (t *Tensor[T, B]) T() *Tensor[T, B] {
	if len(t.Shape()) != 2 {
		panic("T() only works for 2D tensors")
	}
	return t.Transpose(1, 0)
}

// Softmax normalises along dim. Negative dims count from the end.
func (t *Tensor[T, B]) Softmax(dim int) *Tensor[T, B] {
	return New[T, B](t.backend.Softmax(t.raw, dim), t.backend)
}

// Sum reduces all elements to a scalar tensor.
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	return New[T, B](t.backend.Sum(t.raw), t.backend)
}
