package cpu

import (
	"fmt"

	"github.com/born-ml/hopfield/internal/tensor"
)

// Sum reduces all elements of x to a scalar tensor (shape []).
// Accumulation is done in float64.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.alloc("sum", tensor.Shape{}, x.DType())

	var total float64
	for i := 0; i < x.NumElements(); i++ {
		total += x.Float64At(i)
	}

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = float32(total)
	case tensor.Float64:
		result.AsFloat64()[0] = total
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}
	return result
}
