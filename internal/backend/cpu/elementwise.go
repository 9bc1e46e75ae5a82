package cpu

import (
	"fmt"

	"github.com/born-ml/hopfield/internal/tensor"
)

// Add performs element-wise addition.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

func (cpu *CPUBackend) binary(
	op string,
	a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) *tensor.RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", op, a.Shape(), b.Shape()))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}

	result := cpu.alloc(op, a.Shape(), a.DType())
	switch a.DType() {
	case tensor.Float32:
		zipWith(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), f32)
	case tensor.Float64:
		zipWith(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), f64)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
	return result
}

func zipWith[T float](dst, a, b []T, f func(x, y T) T) {
	for i := range dst {
		dst[i] = f(a[i], b[i])
	}
}
