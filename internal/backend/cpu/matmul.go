package cpu

import (
	"fmt"

	"github.com/born-ml/hopfield/internal/parallel"
	"github.com/born-ml/hopfield/internal/tensor"
)

// MatMul performs matrix multiplication: (M, K) @ (K, N) -> (M, N).
// Output rows are independent and are computed in parallel.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	m, k, okA := a.Shape().Matrix()
	kAlt, n, okB := b.Shape().Matrix()
	if !okA || !okB {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(a.Shape()), len(b.Shape())))
	}
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	result := cpu.alloc("matmul", tensor.Shape{m, n}, a.DType())
	switch a.DType() {
	case tensor.Float32:
		matmulRows(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n, cpu.par)
	case tensor.Float64:
		matmulRows(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n, cpu.par)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}
	return result
}

// matmulRows computes C = A @ B with the i-k-j loop order, which walks
// B and C row by row.
func matmulRows[T float](c, a, b []T, m, k, n int, cfg parallel.Config) {
	parallel.Range(m, cfg, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			cRow := c[i*n : (i+1)*n]
			for p := 0; p < k; p++ {
				aip := a[i*k+p]
				bRow := b[p*n : (p+1)*n]
				for j, bv := range bRow {
					cRow[j] += aip * bv
				}
			}
		}
	})
}
