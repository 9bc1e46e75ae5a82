package cpu

import (
	"fmt"

	"github.com/born-ml/hopfield/internal/tensor"
)

// MulScalar multiplies every element of x by scalar.
// The scalar may be float32 or float64 regardless of x's dtype.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s, err := scalarValue(scalar)
	if err != nil {
		panic(fmt.Sprintf("mulscalar: %v", err))
	}

	result := cpu.alloc("mulscalar", x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		scale(result.AsFloat32(), x.AsFloat32(), float32(s))
	case tensor.Float64:
		scale(result.AsFloat64(), x.AsFloat64(), s)
	default:
		panic(fmt.Sprintf("mulscalar: unsupported dtype %s", x.DType()))
	}
	return result
}

func scale[T float](dst, src []T, s T) {
	for i, v := range src {
		dst[i] = v * s
	}
}

func scalarValue(scalar any) (float64, error) {
	switch s := scalar.(type) {
	case float32:
		return float64(s), nil
	case float64:
		return s, nil
	case int:
		return float64(s), nil
	default:
		return 0, fmt.Errorf("unsupported scalar type %T", scalar)
	}
}
