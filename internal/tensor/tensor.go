package tensor

import "fmt"

// Tensor is a typed view over a RawTensor bound to a backend.
//
// Type Parameters:
//   - T: element type (float32 or float64)
//   - B: computation backend
//
// Example:
//
//	backend := cpu.New()
//	keys, err := tensor.FromSlice([]float32{1, 0, 0, 0, 1, 0}, tensor.Shape{2, 3}, backend)
type Tensor[T DType, B Backend] struct {
	raw     *RawTensor
	backend B
}

// New wraps a RawTensor.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return &Tensor[T, B]{raw: raw, backend: b}
}

// FromSlice creates a tensor from a Go slice. The data is copied.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	raw, err := NewRaw(shape, inferDataType[T](), b.Device())
	if err != nil {
		return nil, err
	}

	t := New[T, B](raw, b)
	copy(t.Data(), data)
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor[T, B]) Shape() Shape {
	return t.raw.Shape()
}

// DType returns the tensor's data type.
func (t *Tensor[T, B]) DType() DataType {
	return t.raw.DType()
}

// NumElements returns the total number of elements.
func (t *Tensor[T, B]) NumElements() int {
	return t.raw.NumElements()
}

// Raw returns the underlying RawTensor.
func (t *Tensor[T, B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the computation backend.
func (t *Tensor[T, B]) Backend() B {
	return t.backend
}

// Data returns the tensor's storage (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor[T, B]) Data() []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(t.raw.AsFloat32()).([]T)
	case float64:
		return any(t.raw.AsFloat64()).([]T)
	default:
		panic("unsupported type")
	}
}

// Item returns the value of a single-element tensor.
func (t *Tensor[T, B]) Item() T {
	if t.NumElements() != 1 {
		panic(fmt.Sprintf("Item() only works for single-element tensors, got shape %v", t.Shape()))
	}
	return t.Data()[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T, B]) At(indices ...int) T {
	return t.Data()[t.offset(indices)]
}

// Set stores value at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T, B]) Set(value T, indices ...int) {
	t.Data()[t.offset(indices)] = value
}

// Row returns a copy of row i of a 2D tensor.
func (t *Tensor[T, B]) Row(i int) []T {
	rows, cols, ok := t.Shape().Matrix()
	if !ok {
		panic(fmt.Sprintf("Row() only works for 2D tensors, got shape %v", t.Shape()))
	}
	if i < 0 || i >= rows {
		panic(fmt.Sprintf("row %d out of bounds (rows=%d)", i, rows))
	}
	return append([]T(nil), t.Data()[i*cols:(i+1)*cols]...)
}

func (t *Tensor[T, B]) offset(indices []int) int {
	shape := t.Shape()
	if len(indices) != len(shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(shape), len(indices)))
	}
	off := 0
	strides := t.raw.Strides()
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, shape[i]))
		}
		off += idx * strides[i]
	}
	return off
}

// String returns a short description of the tensor.
func (t *Tensor[T, B]) String() string {
	return fmt.Sprintf("Tensor[%s]%v on %s", t.raw.DType(), t.raw.Shape(), t.raw.Device())
}

// Clone returns a deep copy bound to the same backend.
// The copy is a new leaf: operations that produced the original are not
// linked to it.
func (t *Tensor[T, B]) Clone() *Tensor[T, B] {
	return New[T, B](t.raw.Clone(), t.backend)
}

// Detach is Clone under the name training code reaches for when it wants
// to stop gradient flow at a value.
func (t *Tensor[T, B]) Detach() *Tensor[T, B] {
	return t.Clone()
}
