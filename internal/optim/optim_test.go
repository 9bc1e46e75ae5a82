package optim_test

import (
	"math"
	"testing"

	"github.com/born-ml/hopfield/internal/autodiff"
	"github.com/born-ml/hopfield/internal/backend/cpu"
	"github.com/born-ml/hopfield/internal/nn"
	"github.com/born-ml/hopfield/internal/optim"
	"github.com/born-ml/hopfield/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func floatEqual(a, b, eps float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

func newParam(t *testing.T, name string, data []float32, backend testBackend) *nn.Parameter[testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape{len(data)}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return nn.NewParameter(name, x)
}

func gradFor(t *testing.T, p *nn.Parameter[testBackend], data []float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	g, err := tensor.NewRaw(tensor.Shape{len(data)}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	copy(g.AsFloat32(), data)
	return map[*tensor.RawTensor]*tensor.RawTensor{p.Tensor().Raw(): g}
}

func TestSGD_SimpleUpdate(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, "x", []float32{2.0}, backend)

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param}, optim.SGDConfig{LR: 0.1}, backend)
	optimizer.Step(gradFor(t, param, []float32{1.0}))

	// x_new = 2.0 - 0.1 * 1.0
	if got := param.Tensor().Data()[0]; !floatEqual(got, 1.9, 1e-6) {
		t.Errorf("SGD update: got %f, want 1.9", got)
	}
}

func TestSGD_WithMomentum(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, "x", []float32{1.0}, backend)

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)

	grads := gradFor(t, param, []float32{1.0})
	optimizer.Step(grads) // v = 1,   x = 1 - 0.1 = 0.9
	optimizer.Step(grads) // v = 1.9, x = 0.9 - 0.19 = 0.71

	if got := param.Tensor().Data()[0]; !floatEqual(got, 0.71, 1e-6) {
		t.Errorf("SGD momentum: got %f, want 0.71", got)
	}
}

func TestSGD_Defaults(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, "x", []float32{0}, backend)
	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param}, optim.SGDConfig{}, backend)
	if got := optimizer.GetLR(); got != 0.01 {
		t.Errorf("default LR: got %f, want 0.01", got)
	}
	optimizer.SetLR(0.5)
	if got := optimizer.GetLR(); got != 0.5 {
		t.Errorf("SetLR: got %f, want 0.5", got)
	}
}

func TestAdam_FirstStep(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, "x", []float32{1.0, -1.0}, backend)

	optimizer := optim.NewAdam([]*nn.Parameter[testBackend]{param}, optim.AdamConfig{LR: 0.1}, backend)
	optimizer.Step(gradFor(t, param, []float32{0.5, -2.0}))

	// After bias correction the first Adam step moves each element by ~lr·sign(g).
	data := param.Tensor().Data()
	if !floatEqual(data[0], 0.9, 1e-5) || !floatEqual(data[1], -0.9, 1e-5) {
		t.Errorf("Adam first step: got %v, want [0.9 -0.9]", data)
	}
	if optimizer.StepCount() != 1 {
		t.Errorf("StepCount: got %d, want 1", optimizer.StepCount())
	}
}

func TestAdam_SkipsParamsWithoutGrad(t *testing.T) {
	backend := autodiff.New(cpu.New())
	used := newParam(t, "used", []float32{1.0}, backend)
	unused := newParam(t, "unused", []float32{3.0}, backend)

	optimizer := optim.NewAdam([]*nn.Parameter[testBackend]{used, unused}, optim.AdamConfig{}, backend)
	optimizer.Step(gradFor(t, used, []float32{1.0}))

	if got := unused.Tensor().Data()[0]; got != 3.0 {
		t.Errorf("parameter without gradient changed: got %f", got)
	}
	if got := optimizer.GetLR(); got != 0.001 {
		t.Errorf("default LR: got %f, want 0.001", got)
	}
}

func TestAdam_MinimizesQuadratic(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, "x", []float32{3.0, -2.0}, backend)
	params := []*nn.Parameter[testBackend]{param}

	optimizer := optim.NewAdam(params, optim.AdamConfig{LR: 0.1}, backend)

	var loss float32
	for i := 0; i < 200; i++ {
		backend.Tape().StartRecording()
		x := param.Tensor()
		l := x.Mul(x).Sum()
		grads := autodiff.Backward(l, backend)
		backend.Tape().Clear()
		backend.Tape().StopRecording()

		loss = l.Item()
		optimizer.Step(grads)
		optimizer.ZeroGrad()
	}

	if loss > 0.05 {
		t.Errorf("Adam did not minimize x²: final loss %f", loss)
	}
}

func TestClipGradNorm(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, "x", []float32{0, 0}, backend)
	params := []*nn.Parameter[testBackend]{param}

	grads := gradFor(t, param, []float32{3, 4})
	original := grads[param.Tensor().Raw()]

	norm := optim.ClipGradNorm(params, grads, 1.0)
	if math.Abs(norm-5) > 1e-6 {
		t.Errorf("norm: got %f, want 5", norm)
	}

	clipped := grads[param.Tensor().Raw()].AsFloat32()
	if !floatEqual(clipped[0], 0.6, 1e-6) || !floatEqual(clipped[1], 0.8, 1e-6) {
		t.Errorf("clipped grad: got %v, want [0.6 0.8]", clipped)
	}
	if got := original.AsFloat32(); got[0] != 3 || got[1] != 4 {
		t.Errorf("original gradient modified: %v", got)
	}

	// Below the threshold nothing changes.
	small := gradFor(t, param, []float32{0.1, 0})
	before := small[param.Tensor().Raw()]
	optim.ClipGradNorm(params, small, 1.0)
	if small[param.Tensor().Raw()] != before {
		t.Error("gradient below maxNorm was replaced")
	}
}

func TestOptimizersRejectEmptyParams(t *testing.T) {
	backend := autodiff.New(cpu.New())

	mustPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s with no parameters did not panic", name)
			}
		}()
		fn()
	}

	mustPanic("NewSGD", func() { optim.NewSGD[testBackend](nil, optim.SGDConfig{}, backend) })
	mustPanic("NewAdam", func() {
		optim.NewAdam([]*nn.Parameter[testBackend]{}, optim.AdamConfig{}, backend)
	})
}
