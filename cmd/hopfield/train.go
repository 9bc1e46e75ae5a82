package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"

	"github.com/born-ml/hopfield/autodiff"
	"github.com/born-ml/hopfield/backend/cpu"
	"github.com/born-ml/hopfield/nn"
	"github.com/born-ml/hopfield/optim"
	"github.com/born-ml/hopfield/tensor"
)

type trainConfig struct {
	patterns int
	dim      int
	hid      int
	epochs   int
	lr       float64
	noise    float64
	beta     float64
	steps    int
	clip     float64
	seed     int64
}

type trainResult struct {
	firstLoss float32
	lastLoss  float32
	accuracy  float64 // fraction of noisy queries whose strongest key is their own pattern
}

func parseTrain(args []string, output io.Writer) (trainConfig, error) {
	var cfg trainConfig
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&cfg.patterns, "patterns", 16, "Number of stored patterns")
	fs.IntVar(&cfg.dim, "dim", 32, "Pattern width")
	fs.IntVar(&cfg.hid, "hid", 16, "Associative space width")
	fs.IntVar(&cfg.epochs, "epochs", 50, "Number of training epochs")
	fs.Float64Var(&cfg.lr, "lr", 0.01, "Learning rate for Adam optimizer")
	fs.Float64Var(&cfg.noise, "noise", 0.5, "Standard deviation of query noise")
	fs.Float64Var(&cfg.beta, "beta", 1, "Inverse temperature β")
	fs.IntVar(&cfg.steps, "steps", 2, "Maximum retrieval iterations")
	fs.Float64Var(&cfg.clip, "clip", 5, "Gradient norm limit (0 disables clipping)")
	fs.Int64Var(&cfg.seed, "seed", 1, "Random seed")

	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("%w: %v", errUsage, err)
	}
	if cfg.patterns <= 0 || cfg.dim <= 0 || cfg.hid <= 0 || cfg.epochs <= 0 {
		return cfg, fmt.Errorf("%w: -patterns, -dim, -hid and -epochs must be positive", errUsage)
	}
	return cfg, nil
}

func runTrain(args []string, stdout io.Writer, logger *log.Logger) error {
	cfg, err := parseTrain(args, stdout)
	if err != nil {
		return err
	}

	res, err := train(cfg, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "loss: %.6f -> %.6f\n", res.firstLoss, res.lastLoss)
	fmt.Fprintf(stdout, "recall accuracy: %.1f%%\n", 100*res.accuracy)
	return nil
}

// train fits k_proj and q_proj so that noisy queries retrieve their clean
// pattern, minimising MSE between the retrieved values and the pattern.
func train(cfg trainConfig, logger *log.Logger) (trainResult, error) {
	rng := rand.New(rand.NewSource(cfg.seed)) //nolint:gosec // synthetic data
	backend := autodiff.New(cpu.New())

	stored := tensor.Randn[float32](tensor.Shape{cfg.patterns, cfg.dim}, rng, backend)
	queries := stored.Detach()
	for i, v := range queries.Data() {
		queries.Data()[i] = v + float32(cfg.noise*rng.NormFloat64())
	}

	layer, err := nn.NewHopfield(nn.HopfieldConfig{
		HidDim:         cfg.hid,
		Scaling:        float32(cfg.beta),
		UpdateStepsMax: cfg.steps,
		UpdateStepsEps: 1e-4,
		Rand:           rng,
	}, backend)
	if err != nil {
		return trainResult{}, err
	}
	if err := layer.Build(cfg.dim, cfg.dim, cfg.dim); err != nil {
		return trainResult{}, err
	}

	params := layer.Parameters()
	optimizer := optim.NewAdam(params, optim.AdamConfig{LR: float32(cfg.lr)}, backend)
	mse := nn.NewMSELoss(backend)

	var res trainResult
	for epoch := 1; epoch <= cfg.epochs; epoch++ {
		backend.Tape().StartRecording()
		out, _, err := layer.Forward(stored, queries, stored)
		if err != nil {
			return res, err
		}
		loss, err := mse.Forward(out, stored)
		if err != nil {
			return res, err
		}
		grads := autodiff.Backward(loss, backend)
		backend.Tape().Clear()
		backend.Tape().StopRecording()

		norm := optim.ClipGradNorm(params, grads, cfg.clip)
		layer.Update(func() { optimizer.Step(grads) })
		optimizer.ZeroGrad()

		l := loss.Item()
		if epoch == 1 {
			res.firstLoss = l
		}
		res.lastLoss = l
		if math.IsNaN(float64(l)) {
			return res, fmt.Errorf("loss diverged at epoch %d", epoch)
		}
		logger.Printf("epoch %d/%d: loss %.6f, grad norm %.4f", epoch, cfg.epochs, l, norm)
	}

	_, attention, err := layer.Forward(stored, queries, stored)
	if err != nil {
		return res, err
	}
	res.accuracy = recallAccuracy(attention.Data(), cfg.patterns)
	return res, nil
}

// recallAccuracy returns the fraction of rows of an n×n attention matrix
// whose maximum lies on the diagonal.
func recallAccuracy(attention []float32, n int) float64 {
	hits := 0
	for i := 0; i < n; i++ {
		row := attention[i*n : (i+1)*n]
		best := 0
		for j, w := range row {
			if w > row[best] {
				best = j
			}
		}
		if best == i {
			hits++
		}
	}
	return float64(hits) / float64(n)
}
