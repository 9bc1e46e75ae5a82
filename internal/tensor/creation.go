package tensor

import (
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	raw, err := NewRaw(shape, inferDataType[T](), b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	return New[T, B](raw, b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, 1, b)
}

// Eye creates an n×n identity matrix.
func Eye[T DType, B Backend](n int, b B) *Tensor[T, B] {
	t := Zeros[T, B](Shape{n, n}, b)
	data := t.Data()
	for i := 0; i < n; i++ {
		data[i*n+i] = 1
	}
	return t
}

// Randn creates a tensor with values drawn from N(0, 1).
// A nil rng uses the global math/rand source.
func Randn[T DType, B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		if rng != nil {
			data[i] = T(rng.NormFloat64())
		} else {
			data[i] = T(rand.NormFloat64()) //nolint:gosec // G404: ML uses math/rand intentionally
		}
	}
	return t
}
