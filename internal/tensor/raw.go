package tensor

import (
	"fmt"
	"math"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	if d == CPU {
		return "CPU"
	}
	return "Unknown"
}

// RawTensor is the untyped tensor representation that backends operate on.
//
// Exactly one of the typed storages is non-nil, selected by dtype. A RawTensor
// pointer is also its identity: the autodiff tape and optimizers key gradients
// by *RawTensor, so backends always return fresh tensors instead of writing
// into their inputs.
type RawTensor struct {
	f32    []float32
	f64    []float64
	shape  Shape
	stride []int
	dtype  DataType
	device Device
}

// NewRaw allocates a zero-filled RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	r := &RawTensor{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}
	switch dtype {
	case Float32:
		r.f32 = make([]float32, shape.NumElements())
	case Float64:
		r.f64 = make([]float64, shape.NumElements())
	default:
		return nil, fmt.Errorf("unsupported dtype %s", dtype)
	}
	return r, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's row-major strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// AsFloat32 returns the float32 storage.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	return r.f32
}

// AsFloat64 returns the float64 storage.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	return r.f64
}

// Float64At returns element i (flat index) widened to float64,
// regardless of the storage type.
func (r *RawTensor) Float64At(i int) float64 {
	if r.dtype == Float32 {
		return float64(r.f32[i])
	}
	return r.f64[i]
}

// Fill sets every element to v.
func (r *RawTensor) Fill(v float64) {
	switch r.dtype {
	case Float32:
		for i := range r.f32 {
			r.f32[i] = float32(v)
		}
	case Float64:
		for i := range r.f64 {
			r.f64[i] = v
		}
	}
}

// Clone returns a deep copy with its own storage.
func (r *RawTensor) Clone() *RawTensor {
	c := &RawTensor{
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
	}
	if r.f32 != nil {
		c.f32 = append([]float32(nil), r.f32...)
	}
	if r.f64 != nil {
		c.f64 = append([]float64(nil), r.f64...)
	}
	return c
}

// FrobeniusDistance returns ‖a − b‖_F computed in float64.
//
// It reads the tensors' data directly and is never recorded by an autodiff
// tape, which makes it suitable for convergence tests that only steer
// control flow.
func FrobeniusDistance(a, b *RawTensor) (float64, error) {
	if !a.Shape().Equal(b.Shape()) {
		return 0, fmt.Errorf("frobenius distance: shape mismatch %v vs %v", a.Shape(), b.Shape())
	}
	var sum float64
	for i := 0; i < a.NumElements(); i++ {
		d := a.Float64At(i) - b.Float64At(i)
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
