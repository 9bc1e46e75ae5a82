package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/hopfield/internal/tensor"
)

// RetrievalState is the state of the bounded fixed-point iteration.
//
// Transitions: Iterating → Iterating | Converged | Exhausted. A finished
// retrieval is always Converged or Exhausted.
type RetrievalState int

// Retrieval states.
const (
	Iterating RetrievalState = iota // Budget left and δ >= ε
	Converged                       // δ < ε after the last step
	Exhausted                       // Budget spent without convergence
)

// String returns the state name.
func (s RetrievalState) String() string {
	switch s {
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("RetrievalState(%d)", int(s))
	}
}

// Retrieval is the result of one Hopfield retrieval.
type Retrieval[B tensor.Backend] struct {
	Output    *tensor.Tensor[float32, B] // (n_queries, OutputDim or d_k)
	Attention *tensor.Tensor[float32, B] // ξ, (n_queries, n_keys)
	Steps     int                        // Iterations run, 1..UpdateStepsMax
	State     RetrievalState             // Converged or Exhausted
	Delta     float64                    // ‖q_new − q‖_F of the last step
}

// next returns the state after step (1-based) finished with convergence metric delta.
func next(step, maxSteps int, delta float64, eps float32) RetrievalState {
	if delta < float64(eps) {
		return Converged
	}
	if step >= maxSteps {
		return Exhausted
	}
	return Iterating
}

// rowStochasticTol bounds |Σ row − 1| for a float32 softmax row.
const rowStochasticTol = 1e-4

// checkRowStochastic verifies that every finite row of xi is non-negative
// and sums to 1. Rows holding NaN or Inf are skipped: non-finite inputs
// propagate to the output unchanged.
func checkRowStochastic(xi *tensor.RawTensor) error {
	rows, cols, ok := xi.Shape().Matrix()
	if !ok {
		return fmt.Errorf("association matrix must be 2D, got %v", xi.Shape())
	}

rowLoop:
	for r := 0; r < rows; r++ {
		var sum float64
		for c := 0; c < cols; c++ {
			v := xi.Float64At(r*cols + c)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue rowLoop
			}
			if v < 0 {
				return fmt.Errorf("association row %d has negative weight %v", r, v)
			}
			sum += v
		}
		if math.Abs(sum-1) > rowStochasticTol {
			return fmt.Errorf("association row %d sums to %v", r, sum)
		}
	}
	return nil
}
