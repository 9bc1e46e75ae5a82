package nn

import (
	"fmt"
	"sync"

	"github.com/born-ml/hopfield/internal/tensor"
)

// Hopfield implements a single-head Modern Hopfield associative memory.
//
// Each query is refined by a bounded fixed-point iteration over the
// association distribution ξ, then the values are read out with ξ:
//
//	ξ₀   = softmax(β · Q Kᵀ)
//	ξₜ₊₁ = softmax(β · (ξₜ K) Kᵀ)
//	out  = ξ_final · V  [· W_out]
//
// In static mode keys and queries are compared as given. Otherwise they are
// first projected into a learned hid_dim-wide associative space
// (K·W_k, Q·W_q, no bias). Values always stay in the key pattern space.
//
// Weights are created on the first call (or Build) from the observed
// pattern widths and never reshaped afterwards. Forward passes hold a read
// lock on the weights; Update holds the write lock, so retrievals and
// optimizer steps may run from different goroutines. Recording on an
// autodiff tape is not goroutine-safe: training loops run sequentially.
//
// Example:
//
//	cfg := nn.DefaultHopfieldConfig()
//	cfg.Scaling = 10
//	layer, err := nn.NewHopfield(cfg, backend)
//	out, xi, err := layer.Forward(keys, queries, keys)
type Hopfield[B tensor.Backend] struct {
	mu sync.RWMutex

	config  HopfieldConfig
	backend B

	bound bool
	dimK  int // Raw key (and value) width
	dimQ  int // Raw query width

	kProj   *Parameter[B] // (dimK, HidDim), non-static only
	qProj   *Parameter[B] // (dimQ, HidDim), non-static only
	outProj *Parameter[B] // (dimK, OutputDim), when OutputDim > 0
}

// NewHopfield creates an unbound Hopfield layer.
//
// Returns an error wrapping ErrConfiguration if cfg is invalid. In
// particular UpdateStepsMax must be at least 1, so every retrieval
// produces an association matrix.
func NewHopfield[B tensor.Backend](cfg HopfieldConfig, backend B) (*Hopfield[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Hopfield[B]{
		config:  cfg,
		backend: backend,
	}, nil
}

// Config returns the layer configuration.
func (h *Hopfield[B]) Config() HopfieldConfig {
	return h.config
}

// Build binds the layer to raw key, query and value widths and creates its
// weights. Forward calls Build implicitly on first use.
//
// Binding is done once. Calling Build again with the bound widths is a
// no-op; any other widths fail with ErrShapeMismatch.
func (h *Hopfield[B]) Build(dimK, dimQ, dimV int) error {
	if dimV != dimK {
		return fmt.Errorf("%w: values width %d != keys width %d", ErrShapeMismatch, dimV, dimK)
	}
	if h.config.Static && dimK != dimQ {
		return fmt.Errorf("%w: static mode needs equal key and query widths, got %d and %d",
			ErrShapeMismatch, dimK, dimQ)
	}

	h.mu.RLock()
	bound := h.bound
	h.mu.RUnlock()
	if bound {
		return h.checkBound(dimK, dimQ)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.bound {
		return h.checkBound(dimK, dimQ)
	}

	rng := h.config.Rand
	if !h.config.Static {
		hid := h.config.HidDim
		h.kProj = NewParameter("k_proj", Xavier(dimK, hid, tensor.Shape{dimK, hid}, rng, h.backend))
		h.qProj = NewParameter("q_proj", Xavier(dimQ, hid, tensor.Shape{dimQ, hid}, rng, h.backend))
	}
	if h.config.OutputDim > 0 {
		out := h.config.OutputDim
		h.outProj = NewParameter("out_proj", Xavier(dimK, out, tensor.Shape{dimK, out}, rng, h.backend))
	}

	h.dimK, h.dimQ = dimK, dimQ
	h.bound = true
	return nil
}

// checkBound compares widths against the bound ones. dimK and dimQ are
// immutable once bound is set, so no lock is needed.
func (h *Hopfield[B]) checkBound(dimK, dimQ int) error {
	if dimK != h.dimK || dimQ != h.dimQ {
		return fmt.Errorf("%w: layer bound to key/query widths (%d, %d), got (%d, %d)",
			ErrShapeMismatch, h.dimK, h.dimQ, dimK, dimQ)
	}
	return nil
}

// Bound reports whether the layer's weights have been created.
func (h *Hopfield[B]) Bound() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bound
}

// PatternDims returns the bound key and query widths, or zeros when unbound.
func (h *Hopfield[B]) PatternDims() (dimK, dimQ int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dimK, h.dimQ
}

// KeyProjection returns W_k, or nil in static mode or before binding.
func (h *Hopfield[B]) KeyProjection() *Parameter[B] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.kProj
}

// QueryProjection returns W_q, or nil in static mode or before binding.
func (h *Hopfield[B]) QueryProjection() *Parameter[B] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.qProj
}

// OutputProjection returns W_out, or nil when OutputDim is 0 or before binding.
func (h *Hopfield[B]) OutputProjection() *Parameter[B] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.outProj
}

// Parameters returns the existing trainable weights in the order
// k_proj, q_proj, out_proj.
func (h *Hopfield[B]) Parameters() []*Parameter[B] {
	h.mu.RLock()
	defer h.mu.RUnlock()

	params := make([]*Parameter[B], 0, 3)
	for _, p := range []*Parameter[B]{h.kProj, h.qProj, h.outProj} {
		if p != nil {
			params = append(params, p)
		}
	}
	return params
}

// Update runs fn while holding the weight write lock. Optimizer steps that
// mutate parameters in place go through Update when retrievals may be
// running concurrently. fn must not call back into the layer.
func (h *Hopfield[B]) Update(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn()
}

// Forward retrieves values for queries.
//
// Shapes: keys (n_keys, d_k), queries (n_queries, d_q), values (n_keys, d_k).
// Returns the output (n_queries, OutputDim or d_k) and the association
// matrix ξ (n_queries, n_keys), each row of which sums to 1.
func (h *Hopfield[B]) Forward(keys, queries, values *tensor.Tensor[float32, B]) (output, attention *tensor.Tensor[float32, B], err error) {
	r, err := h.Retrieve(keys, queries, values)
	if err != nil {
		return nil, nil, err
	}
	return r.Output, r.Attention, nil
}

// Retrieve is Forward that also reports how the iteration ended.
func (h *Hopfield[B]) Retrieve(keys, queries, values *tensor.Tensor[float32, B]) (*Retrieval[B], error) {
	dimK, dimQ, dimV, err := checkInputs(keys.Shape(), queries.Shape(), values.Shape())
	if err != nil {
		return nil, err
	}
	if err := h.Build(dimK, dimQ, dimV); err != nil {
		return nil, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	k, q := h.project(keys, queries)
	r, err := h.iterate(k, q)
	if err != nil {
		return nil, err
	}
	r.Output = h.read(r.Attention, values)
	return r, nil
}

// checkInputs validates ranks and row counts and returns the raw widths.
func checkInputs(keys, queries, values tensor.Shape) (dimK, dimQ, dimV int, err error) {
	nKeys, dimK, ok := keys.Matrix()
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: keys must be 2D, got %v", ErrShapeMismatch, keys)
	}
	_, dimQ, ok = queries.Matrix()
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: queries must be 2D, got %v", ErrShapeMismatch, queries)
	}
	nValues, dimV, ok := values.Matrix()
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: values must be 2D, got %v", ErrShapeMismatch, values)
	}
	if nKeys == 0 {
		return 0, 0, 0, fmt.Errorf("%w: at least one key is required", ErrShapeMismatch)
	}
	if nValues != nKeys {
		return 0, 0, 0, fmt.Errorf("%w: %d values for %d keys", ErrShapeMismatch, nValues, nKeys)
	}
	if dimV != dimK {
		return 0, 0, 0, fmt.Errorf("%w: values width %d != keys width %d", ErrShapeMismatch, dimV, dimK)
	}
	return dimK, dimQ, dimV, nil
}

// project maps keys and queries into the associative space.
func (h *Hopfield[B]) project(keys, queries *tensor.Tensor[float32, B]) (k, q *tensor.Tensor[float32, B]) {
	if h.config.Static {
		return keys, queries
	}
	return keys.MatMul(h.kProj.Tensor()), queries.MatMul(h.qProj.Tensor())
}

// iterate runs the bounded fixed-point retrieval over projected k and q.
func (h *Hopfield[B]) iterate(k, q *tensor.Tensor[float32, B]) (*Retrieval[B], error) {
	if q.Shape()[1] != k.Shape()[1] {
		return nil, fmt.Errorf("%w: query width %d != key width %d in associative space",
			ErrShapeMismatch, q.Shape()[1], k.Shape()[1])
	}

	kT := k.T()
	r := &Retrieval[B]{State: Iterating}
	for r.State == Iterating {
		scores := q.MatMul(kT).MulScalar(h.config.Scaling)
		xi := scores.Softmax(-1)
		qNew := xi.MatMul(k)

		delta, err := tensor.FrobeniusDistance(qNew.Raw(), q.Raw())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
		}
		if err := checkRowStochastic(xi.Raw()); err != nil {
			panic(fmt.Sprintf("hopfield: %v", err))
		}

		q = qNew
		r.Attention = xi
		r.Delta = delta
		r.Steps++
		r.State = next(r.Steps, h.config.UpdateStepsMax, delta, h.config.UpdateStepsEps)
	}
	return r, nil
}

// read applies ξ to the values and the optional output projection.
func (h *Hopfield[B]) read(xi, values *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out := xi.MatMul(values)
	if h.outProj != nil {
		out = out.MatMul(h.outProj.Tensor())
	}
	return out
}
