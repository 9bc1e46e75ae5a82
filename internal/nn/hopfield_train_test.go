package nn_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/hopfield/internal/autodiff"
	"github.com/born-ml/hopfield/internal/backend/cpu"
	"github.com/born-ml/hopfield/internal/nn"
	"github.com/born-ml/hopfield/internal/optim"
	"github.com/born-ml/hopfield/internal/tensor"
)

type adBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

var _ nn.Module[adBackend] = (*nn.Hopfield[adBackend])(nil)

func TestGradientsReachEveryParameter(t *testing.T) {
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(21))

	cfg := nn.HopfieldConfig{
		HidDim:         4,
		Scaling:        1,
		UpdateStepsMax: 3,
		UpdateStepsEps: 1e-6,
		OutputDim:      3,
		Rand:           rand.New(rand.NewSource(4)),
	}
	layer, err := nn.NewHopfield(cfg, backend)
	require.NoError(t, err)

	keys := tensor.Randn[float32](tensor.Shape{5, 3}, rng, backend)
	queries := tensor.Randn[float32](tensor.Shape{2, 3}, rng, backend)
	target := tensor.Randn[float32](tensor.Shape{2, 3}, rng, backend)

	backend.Tape().StartRecording()
	out, _, err := layer.Forward(keys, queries, keys)
	require.NoError(t, err)
	loss, err := nn.NewMSELoss(backend).Forward(out, target)
	require.NoError(t, err)
	grads := autodiff.Backward(loss, backend)
	backend.Tape().StopRecording()

	params := layer.Parameters()
	require.Len(t, params, 3)
	assert.Equal(t, 3, nn.CollectGrads(params, grads, backend))

	for _, p := range params {
		require.NotNil(t, p.Grad(), p.Name())
		assert.Equal(t, p.Shape(), p.Grad().Shape(), p.Name())

		var norm float64
		for _, g := range p.Grad().Data() {
			require.False(t, math.IsNaN(float64(g)) || math.IsInf(float64(g), 0), p.Name())
			norm += float64(g) * float64(g)
		}
		assert.Greater(t, norm, 0.0, "%s gradient is zero", p.Name())
	}
}

func TestAdamLowersRecallLoss(t *testing.T) {
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(8))

	cfg := nn.HopfieldConfig{
		HidDim:         8,
		Scaling:        2,
		UpdateStepsMax: 2,
		UpdateStepsEps: 1e-4,
		Rand:           rand.New(rand.NewSource(13)),
	}
	layer, err := nn.NewHopfield(cfg, backend)
	require.NoError(t, err)

	// Queries are noisy copies of the stored patterns; the target is the
	// clean pattern each query should recall.
	patterns := tensor.Randn[float32](tensor.Shape{4, 6}, rng, backend)
	queries := patterns.Detach()
	for i, v := range queries.Data() {
		queries.Data()[i] = v + float32(0.3*rng.NormFloat64())
	}

	mse := nn.NewMSELoss(backend)
	require.NoError(t, layer.Build(6, 6, 6))
	optimizer := optim.NewAdam(layer.Parameters(), optim.AdamConfig{LR: 0.05}, backend)

	step := func() float32 {
		backend.Tape().StartRecording()
		defer func() {
			backend.Tape().Clear()
			backend.Tape().StopRecording()
		}()

		out, _, err := layer.Forward(patterns, queries, patterns)
		require.NoError(t, err)
		loss, err := mse.Forward(out, patterns)
		require.NoError(t, err)

		grads := autodiff.Backward(loss, backend)
		layer.Update(func() { optimizer.Step(grads) })
		optimizer.ZeroGrad()
		return loss.Item()
	}

	first := step()
	var last float32
	for i := 0; i < 60; i++ {
		last = step()
	}

	assert.Less(t, last, first, "loss did not decrease: first %f, last %f", first, last)
	assert.Equal(t, 61, optimizer.StepCount())
}

func TestOptimizerNeedsBoundLayer(t *testing.T) {
	backend := autodiff.New(cpu.New())
	layer, err := nn.NewHopfield(nn.HopfieldConfig{
		HidDim:         4,
		Scaling:        1,
		UpdateStepsMax: 1,
		Rand:           rand.New(rand.NewSource(5)),
	}, backend)
	require.NoError(t, err)

	require.Empty(t, layer.Parameters())
	assert.Panics(t, func() {
		optim.NewAdam(layer.Parameters(), optim.AdamConfig{LR: 0.05}, backend)
	})

	require.NoError(t, layer.Build(3, 3, 3))
	params := layer.Parameters()
	require.Len(t, params, 2)
	optimizer := optim.NewAdam(params, optim.AdamConfig{LR: 0.05}, backend)

	rng := rand.New(rand.NewSource(6))
	keys := tensor.Randn[float32](tensor.Shape{3, 3}, rng, backend)
	queries := tensor.Randn[float32](tensor.Shape{3, 3}, rng, backend)
	before := layer.KeyProjection().Tensor().Detach()

	backend.Tape().StartRecording()
	out, _, err := layer.Forward(keys, queries, keys)
	require.NoError(t, err)
	loss, err := nn.NewMSELoss(backend).Forward(out, keys)
	require.NoError(t, err)
	grads := autodiff.Backward(loss, backend)
	backend.Tape().Clear()
	backend.Tape().StopRecording()

	layer.Update(func() { optimizer.Step(grads) })
	assert.NotEqual(t, before.Data(), layer.KeyProjection().Tensor().Data(), "k_proj unchanged after a step")
}
