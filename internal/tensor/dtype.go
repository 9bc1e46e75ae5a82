// Package tensor provides the dense tensor types the Hopfield layer is built on.
package tensor

// DType is the constraint for element types a Tensor can hold.
// Only floating point types are supported: every operation the
// associative memory needs (softmax, norms, projections) is real valued.
type DType interface {
	~float32 | ~float64
}

// DataType is the runtime tag carried by a RawTensor.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Float64
)

// Size returns the byte size of one element.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

func inferDataType[T DType]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic("unsupported type")
	}
}
