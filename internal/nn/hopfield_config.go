package nn

import (
	"fmt"
	"math"
	"math/rand"
)

// HopfieldConfig configures a Hopfield layer.
type HopfieldConfig struct {
	Static         bool       // Compare raw patterns (true) or learned projections (false)
	HidDim         int        // Associative space width; required when Static is false
	Scaling        float32    // Inverse temperature β applied to dot-product scores
	UpdateStepsMax int        // Retrieval iteration budget (>= 1)
	UpdateStepsEps float32    // Convergence threshold on ‖q_new − q‖_F
	OutputDim      int        // Output projection width; 0 disables the projection
	Rand           *rand.Rand // Source for weight initialization; nil uses math/rand
}

// DefaultHopfieldConfig returns a static single-step configuration with
// β = 1 and ε = 1e-4.
func DefaultHopfieldConfig() HopfieldConfig {
	return HopfieldConfig{
		Static:         true,
		Scaling:        1.0,
		UpdateStepsMax: 1,
		UpdateStepsEps: 1e-4,
	}
}

// Validate reports whether the configuration can build a layer.
// The returned error wraps ErrConfiguration.
func (c HopfieldConfig) Validate() error {
	switch {
	case c.HidDim < 0:
		return fmt.Errorf("%w: HidDim must be non-negative, got %d", ErrConfiguration, c.HidDim)
	case !c.Static && c.HidDim == 0:
		return fmt.Errorf("%w: HidDim is required in non-static mode", ErrConfiguration)
	case c.UpdateStepsMax <= 0:
		return fmt.Errorf("%w: UpdateStepsMax must be positive, got %d", ErrConfiguration, c.UpdateStepsMax)
	case !finite(c.UpdateStepsEps) || c.UpdateStepsEps <= 0:
		return fmt.Errorf("%w: UpdateStepsEps must be positive and finite, got %v", ErrConfiguration, c.UpdateStepsEps)
	case !finite(c.Scaling):
		return fmt.Errorf("%w: Scaling must be finite, got %v", ErrConfiguration, c.Scaling)
	case c.OutputDim < 0:
		return fmt.Errorf("%w: OutputDim must be non-negative, got %d", ErrConfiguration, c.OutputDim)
	}
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
