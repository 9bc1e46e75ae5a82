// Package cpu implements the pure Go CPU backend.
package cpu

import (
	"fmt"

	"github.com/born-ml/hopfield/internal/parallel"
	"github.com/born-ml/hopfield/internal/tensor"
)

// float is the element constraint shared by the typed kernels.
type float interface {
	~float32 | ~float64
}

// CPUBackend implements tensor operations on CPU.
//
// Row-shaped kernels (matmul, softmax) split their rows across goroutines
// according to the backend's parallel.Config. Results never depend on how
// rows are split.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a CPU backend with parallel.DefaultConfig.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallelism policy.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Parallel returns the backend's parallelism policy.
func (cpu *CPUBackend) Parallel() parallel.Config {
	return cpu.par
}

// alloc creates the result tensor for op, panicking with the op name on failure.
func (cpu *CPUBackend) alloc(op string, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}
