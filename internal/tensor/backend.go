package tensor

// Backend defines the primitives a compute backend must provide.
//
// The set is deliberately small: it is exactly what a single-head Hopfield
// retrieval and its training loop are composed of, so any backend that
// implements it (and any differentiation engine that wraps it) can run and
// train the layer.
//
// Implementations:
//   - internal/backend/cpu: pure Go, rows fanned out across goroutines
//   - internal/autodiff: decorator recording every call on a GradientTape
type Backend interface {
	// Element-wise binary operations. Shapes must match exactly.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// MulScalar multiplies every element by scalar (float32 or float64).
	MulScalar(x *RawTensor, scalar any) *RawTensor

	// MatMul multiplies 2D tensors: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Transpose permutes dimensions; no axes reverses them.
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Softmax normalises along dim (only the last dimension is supported).
	Softmax(x *RawTensor, dim int) *RawTensor

	// Sum reduces all elements to a scalar tensor.
	Sum(x *RawTensor) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
