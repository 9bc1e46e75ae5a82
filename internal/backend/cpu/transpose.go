package cpu

import (
	"fmt"

	"github.com/born-ml/hopfield/internal/tensor"
)

// Transpose permutes the dimensions of t. With no axes all dimensions are
// reversed, which for a matrix is the ordinary transpose.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result := cpu.alloc("transpose", newShape, t.DType())
	switch t.DType() {
	case tensor.Float32:
		permute(result.AsFloat32(), t.AsFloat32(), shape, newShape, axes)
	case tensor.Float64:
		permute(result.AsFloat64(), t.AsFloat64(), shape, newShape, axes)
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}
	return result
}

// permute writes src (laid out as srcShape) into dst so that
// dst[i0, i1, ...] = src at the coordinates permuted by axes.
func permute[T float](dst, src []T, srcShape, dstShape tensor.Shape, axes []int) {
	srcStrides := srcShape.ComputeStrides()
	ndim := len(dstShape)
	coord := make([]int, ndim)

	for out := range dst {
		rem := out
		for d := ndim - 1; d >= 0; d-- {
			coord[d] = rem % dstShape[d]
			rem /= dstShape[d]
		}
		in := 0
		for d, ax := range axes {
			in += coord[d] * srcStrides[ax]
		}
		dst[out] = src[in]
	}
}
