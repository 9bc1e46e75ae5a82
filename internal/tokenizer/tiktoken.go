package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// EncodingCL100kBase is the encoding name for GPT-4 and GPT-3.5-turbo.
	EncodingCL100kBase = "cl100k_base"
	// encodingP50kBase is the encoding name for GPT-3.
	encodingP50kBase = "p50k_base"
	// encodingR50kBase is the encoding name for older GPT-3 models.
	encodingR50kBase = "r50k_base"
)

// TikToken wraps the pkoukk/tiktoken-go library for OpenAI tokenizers.
//
// Loading an encoding fetches its BPE ranks on first use unless
// TIKTOKEN_CACHE_DIR points at a populated cache.
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTikToken creates a new TikToken tokenizer with the specified encoding.
func NewTikToken(encodingName string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &TikToken{
		encoding: encoding,
		name:     encodingName,
	}, nil
}

// Encode converts text to token IDs. Special tokens are encoded as text.
func (t *TikToken) Encode(text string) ([]int32, error) {
	tokens := t.encoding.Encode(text, nil, nil)

	result := make([]int32, len(tokens))
	for i, tok := range tokens {
		result[i] = int32(tok) //nolint:gosec // G115: vocab size < 2^31.
	}
	return result, nil
}

// Decode converts token IDs back to text.
func (t *TikToken) Decode(tokens []int32) (string, error) {
	intTokens := make([]int, len(tokens))
	for i, tok := range tokens {
		intTokens[i] = int(tok)
	}
	return t.encoding.Decode(intTokens), nil
}

// VocabSize returns the vocabulary size of the encoding.
func (t *TikToken) VocabSize() int {
	switch t.name {
	case EncodingCL100kBase:
		return 100256
	case encodingP50kBase, encodingR50kBase:
		return 50257
	default:
		return 100000
	}
}

// Name returns the encoding name.
func (t *TikToken) Name() string {
	return t.name
}
