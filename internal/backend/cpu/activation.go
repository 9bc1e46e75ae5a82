package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/hopfield/internal/parallel"
	"github.com/born-ml/hopfield/internal/tensor"
)

// Softmax computes softmax along the last dimension.
//
// Each row is shifted by its maximum before exponentiating, so large
// scores (a sharp inverse temperature) do not overflow. dim may be given as
// -1 or as the index of the last dimension.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if ndim == 0 {
		panic("softmax: scalar input")
	}
	if dim < 0 {
		dim += ndim
	}
	if dim != ndim-1 {
		panic(fmt.Sprintf("softmax: only the last dimension is supported, got dim %d for rank %d", dim, ndim))
	}

	cols := shape[ndim-1]
	rows := x.NumElements() / cols

	result := cpu.alloc("softmax", shape, x.DType())
	switch x.DType() {
	case tensor.Float32:
		softmaxRows(result.AsFloat32(), x.AsFloat32(), rows, cols, cpu.par)
	case tensor.Float64:
		softmaxRows(result.AsFloat64(), x.AsFloat64(), rows, cols, cpu.par)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}
	return result
}

func softmaxRows[T float](dst, src []T, rows, cols int, cfg parallel.Config) {
	parallel.For(rows, cfg, func(r int) {
		in := src[r*cols : (r+1)*cols]
		out := dst[r*cols : (r+1)*cols]

		maxVal := math.Inf(-1)
		for _, v := range in {
			maxVal = math.Max(maxVal, float64(v))
		}

		var sum float64
		for _, v := range in {
			sum += math.Exp(float64(v) - maxVal)
		}

		for i, v := range in {
			out[i] = T(math.Exp(float64(v)-maxVal) / sum)
		}
	})
}
