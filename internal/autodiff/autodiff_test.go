package autodiff

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/hopfield/internal/backend/cpu"
	"github.com/born-ml/hopfield/internal/parallel"
	"github.com/born-ml/hopfield/internal/tensor"
)

type adBackend = *AutodiffBackend[*cpu.CPUBackend]

func newBackend() adBackend {
	return New(cpu.NewWithConfig(parallel.Sequential()))
}

func TestBackendName(t *testing.T) {
	b := newBackend()
	assert.Equal(t, "Autodiff(CPU)", b.Name())
	assert.Equal(t, tensor.CPU, b.Device())
	assert.NotNil(t, b.Inner())
}

func TestTapeRecordsOnlyWhileRecording(t *testing.T) {
	b := newBackend()
	x := tensor.Ones[float32](tensor.Shape{2, 2}, b)

	x.Add(x)
	assert.Equal(t, 0, b.Tape().NumOps())

	b.Tape().StartRecording()
	x.Add(x).Sum()
	assert.True(t, b.Tape().IsRecording())
	assert.Equal(t, 2, b.Tape().NumOps())

	b.Tape().Clear()
	assert.Equal(t, 0, b.Tape().NumOps())
	assert.True(t, b.Tape().IsRecording())

	b.Tape().StopRecording()
	x.Mul(x)
	assert.Equal(t, 0, b.Tape().NumOps())
}

func TestBackwardPanicsOnEmptyTape(t *testing.T) {
	b := newBackend()
	x := tensor.Ones[float32](tensor.Shape{1}, b)
	assert.Panics(t, func() { Backward(x, b) })
}

func TestSquareGradient(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x, err := tensor.FromSlice([]float32{2, -3}, tensor.Shape{2}, b)
	require.NoError(t, err)
	y := x.Mul(x).Sum()

	grads := Backward(y, b)
	require.Contains(t, grads, x.Raw())
	assert.InDeltaSlice(t, []float32{4, -6}, grads[x.Raw()].AsFloat32(), 1e-6)
}

func TestGradientAccumulatesOverReuse(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3}, b)
	require.NoError(t, err)
	// y = Σ (x + x - 0.5x) = 1.5 Σ x
	y := x.Add(x).Sub(x.MulScalar(0.5)).Sum()

	grads := Backward(y, b)
	assert.InDeltaSlice(t, []float64{1.5, 1.5, 1.5}, grads[x.Raw()].AsFloat64(), 1e-12)
}

func TestBackwardDoesNotRecord(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := tensor.Ones[float32](tensor.Shape{2, 2}, b)
	y := x.MatMul(x).Sum()
	before := b.Tape().NumOps()

	Backward(y, b)
	assert.Equal(t, before, b.Tape().NumOps())
	assert.True(t, b.Tape().IsRecording())
}

func TestTransposeGradient(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, b)
	require.NoError(t, err)
	w, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2}, b)
	require.NoError(t, err)

	// Σ (xᵀ ⊙ w): ∂/∂x = wᵀ
	y := x.Transpose().Mul(w).Sum()

	grads := Backward(y, b)
	assert.Equal(t, tensor.Shape{2, 3}, grads[x.Raw()].Shape())
	assert.InDeltaSlice(t, []float64{1, 3, 5, 2, 4, 6}, grads[x.Raw()].AsFloat64(), 1e-12)
}

// attentionLoss builds L = Σ (softmax(β·q·kᵀ)·k ⊙ m), the retrieval update
// weighted by a fixed mask so every output element carries a distinct gradient.
func attentionLoss(q, k, m *tensor.Tensor[float64, adBackend], beta float64) *tensor.Tensor[float64, adBackend] {
	xi := q.MatMul(k.T()).MulScalar(beta).Softmax(-1)
	return xi.MatMul(k).Mul(m).Sum()
}

func TestAttentionGradientMatchesFiniteDifference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := newBackend()

	q := tensor.Randn[float64](tensor.Shape{2, 3}, rng, b)
	k := tensor.Randn[float64](tensor.Shape{4, 3}, rng, b)
	m := tensor.Randn[float64](tensor.Shape{2, 3}, rng, b)
	const beta = 0.7

	b.Tape().StartRecording()
	loss := attentionLoss(q, k, m, beta)
	grads := Backward(loss, b)
	b.Tape().StopRecording()

	const h = 1e-6
	for _, param := range []*tensor.Tensor[float64, adBackend]{q, k} {
		analytic := grads[param.Raw()]
		require.NotNil(t, analytic)

		data := param.Data()
		for i := range data {
			orig := data[i]
			data[i] = orig + h
			plus := attentionLoss(q, k, m, beta).Item()
			data[i] = orig - h
			minus := attentionLoss(q, k, m, beta).Item()
			data[i] = orig

			numeric := (plus - minus) / (2 * h)
			assert.InDelta(t, numeric, analytic.AsFloat64()[i], 1e-5, "element %d", i)
		}
	}
}
