package nn

import "errors"

// Sentinel errors returned by the Hopfield layer. Returned errors wrap one
// of these with context; test for them with errors.Is.
var (
	// ErrConfiguration reports an invalid construction-time configuration.
	ErrConfiguration = errors.New("hopfield: invalid configuration")

	// ErrShapeMismatch reports incompatible input or weight shapes.
	ErrShapeMismatch = errors.New("hopfield: shape mismatch")
)
