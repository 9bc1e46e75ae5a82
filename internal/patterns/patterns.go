// Package patterns encodes text into fixed-width pattern vectors that can
// be stored in and recalled from a Hopfield memory.
//
// Text is tokenized, and each token ID is hashed into one of dim signed
// buckets (the hashing trick). The bucket counts are L2-normalised, so the
// dot product of two patterns is their cosine similarity.
package patterns

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/born-ml/hopfield/internal/tensor"
	"github.com/born-ml/hopfield/internal/tokenizer"
)

// ErrNoTokens is returned when text produces no tokens to encode.
var ErrNoTokens = errors.New("patterns: text has no tokens")

// Encoder maps text to unit-norm vectors of width Dim.
type Encoder struct {
	tok tokenizer.Tokenizer
	dim int
}

// NewEncoder creates an encoder producing dim-wide patterns.
func NewEncoder(tok tokenizer.Tokenizer, dim int) (*Encoder, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("patterns: dim must be positive, got %d", dim)
	}
	return &Encoder{tok: tok, dim: dim}, nil
}

// Dim returns the pattern width.
func (e *Encoder) Dim() int {
	return e.dim
}

// Encode returns the pattern for text.
func (e *Encoder) Encode(text string) ([]float32, error) {
	ids, err := e.tok.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("patterns: tokenize: %w", err)
	}

	acc := make([]float64, e.dim)
	for _, id := range ids {
		bucket, sign := e.slot(id)
		acc[bucket] += sign
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	if norm == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoTokens, text)
	}
	norm = math.Sqrt(norm)

	out := make([]float32, e.dim)
	for i, v := range acc {
		out[i] = float32(v / norm)
	}
	return out, nil
}

// slot hashes a token ID to a bucket and a ±1 sign. IDs that share a
// bucket differ in sign every other wrap of the bucket range, which keeps
// collisions from only ever adding up.
func (e *Encoder) slot(id int32) (int, float64) {
	u := int64(id)
	if u < 0 {
		u = -u
	}
	bucket := int(u % int64(e.dim))
	if (u/int64(e.dim))%2 == 1 {
		return bucket, -1
	}
	return bucket, 1
}

// Matrix encodes texts into a (len(texts), Dim) tensor, one pattern per row.
func Matrix[B tensor.Backend](e *Encoder, texts []string, backend B) (*tensor.Tensor[float32, B], error) {
	if len(texts) == 0 {
		return nil, errors.New("patterns: no texts to encode")
	}

	data := make([]float32, 0, len(texts)*e.dim)
	for _, text := range texts {
		p, err := e.Encode(text)
		if err != nil {
			return nil, err
		}
		data = append(data, p...)
	}
	return tensor.FromSlice(data, tensor.Shape{len(texts), e.dim}, backend)
}

// MaxLineSize is the longest pattern line ReadLines accepts.
const MaxLineSize = 16 << 20

// ReadLines returns the non-empty, trimmed lines of r. Lines starting with
// '#' are comments. A line longer than MaxLineSize is an error.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("patterns: read lines: %w", err)
	}
	return lines, nil
}
