package patterns

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/hopfield/internal/backend/cpu"
	"github.com/born-ml/hopfield/internal/tensor"
	"github.com/born-ml/hopfield/internal/tokenizer"
)

// fixedTokenizer returns preset IDs per text.
type fixedTokenizer map[string][]int32

func (f fixedTokenizer) Encode(text string) ([]int32, error) {
	ids, ok := f[text]
	if !ok {
		return nil, errors.New("unknown text")
	}
	return ids, nil
}
func (f fixedTokenizer) Decode(_ []int32) (string, error) { return "", errors.New("not supported") }
func (f fixedTokenizer) VocabSize() int { return 100 }
func (f fixedTokenizer) Name() string { return "fixed" }

func norm(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}

func TestEncodeHashing(t *testing.T) {
	tok := fixedTokenizer{
		"a": {1, 1},
		"b": {1, 5}, // 5 wraps once: bucket 1, negative sign
		"c": {2},
	}
	enc, err := NewEncoder(tok, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, enc.Dim())

	a, err := enc.Encode("a")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0, 1, 0, 0}, a, 1e-7)

	_, err = enc.Encode("b")
	assert.ErrorIs(t, err, ErrNoTokens, "opposite signs cancel")

	c, err := enc.Encode("c")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0, 0, 1, 0}, c, 1e-7)

	_, err = enc.Encode("missing")
	assert.Error(t, err)
}

func TestEncodeDeterministicUnitNorm(t *testing.T) {
	enc, err := NewEncoder(tokenizer.NewWords(4096), 64)
	require.NoError(t, err)

	texts := []string{
		"the quick brown fox",
		"jumps over the lazy dog",
		"a modern hopfield network stores patterns",
	}
	for _, text := range texts {
		p1, err := enc.Encode(text)
		require.NoError(t, err)
		p2, err := enc.Encode(text)
		require.NoError(t, err)

		assert.Equal(t, p1, p2)
		assert.InDelta(t, 1.0, norm(p1), 1e-6)
	}
}

func TestNewEncoderRejectsDim(t *testing.T) {
	_, err := NewEncoder(tokenizer.NewWords(10), 0)
	assert.Error(t, err)
}

func TestMatrix(t *testing.T) {
	b := cpu.New()
	enc, err := NewEncoder(tokenizer.NewWords(4096), 16)
	require.NoError(t, err)

	m, err := Matrix(enc, []string{"alpha beta", "gamma"}, b)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 16}, m.Shape())
	assert.InDelta(t, 1.0, norm(m.Row(0)), 1e-6)
	assert.InDelta(t, 1.0, norm(m.Row(1)), 1e-6)

	_, err = Matrix(enc, nil, b)
	assert.Error(t, err)

	_, err = Matrix(enc, []string{"ok", "!!!"}, b)
	assert.ErrorIs(t, err, ErrNoTokens)
}

func TestReadLines(t *testing.T) {
	input := "first line\n\n   \n# comment\n  second line  \n"
	lines, err := ReadLines(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"first line", "second line"}, lines)
}

func TestReadLinesLongLine(t *testing.T) {
	long := strings.Repeat("word ", 40000) // 200 KB, past bufio's default token size
	input := "short\n" + long + "\nlast\n"

	lines, err := ReadLines(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, strings.TrimSpace(long), lines[1])
	assert.Equal(t, "last", lines[2])
}
