package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/hopfield/internal/tensor"
)

// Xavier (Glorot) uniform initialization for weights.
//
// Values are drawn from U(-√(6/(fan_in + fan_out)), √(6/(fan_in + fan_out))).
// A nil rng draws from the global math/rand source.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	raw, err := tensor.NewRaw(shape, tensor.Float32, backend.Device())
	if err != nil {
		panic(err)
	}

	uniform := rand.Float64 //nolint:gosec // weight init is not security-critical
	if rng != nil {
		uniform = rng.Float64
	}

	data := raw.AsFloat32()
	for i := range data {
		data[i] = float32((uniform()*2.0 - 1.0) * bound)
	}

	return tensor.New[float32, B](raw, backend)
}
