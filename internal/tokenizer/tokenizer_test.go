package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordsEncode(t *testing.T) {
	w := NewWords(1000)

	a, err := w.Encode("The cat, the CAT!")
	require.NoError(t, err)
	require.Len(t, a, 4)
	assert.Equal(t, a[0], a[2], "case-insensitive")
	assert.Equal(t, a[1], a[3])
	for _, tok := range a {
		assert.GreaterOrEqual(t, tok, int32(0))
		assert.Less(t, tok, int32(1000))
	}

	empty, err := w.Encode("  ,;  ")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = w.Decode(a)
	assert.Error(t, err)
	assert.Equal(t, 1000, w.VocabSize())
	assert.Panics(t, func() { NewWords(0) })
}

func TestNewSelectsWords(t *testing.T) {
	tok, err := New("WORDS")
	require.NoError(t, err)
	assert.Equal(t, EncodingWords, tok.Name())
	assert.Equal(t, DefaultWordsVocab, tok.VocabSize())
}

func TestNewUnknownEncoding(t *testing.T) {
	_, err := New("no_such_encoding")
	assert.Error(t, err)
}

func TestTikTokenRoundTrip(t *testing.T) {
	tok, err := NewTikToken(EncodingCL100kBase)
	if err != nil {
		t.Skipf("cl100k_base unavailable: %v", err)
	}

	text := "associative memory"
	ids, err := tok.Encode(text)
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	decoded, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, text, decoded)
	assert.Equal(t, EncodingCL100kBase, tok.Name())
	assert.Equal(t, 100256, tok.VocabSize())
}
