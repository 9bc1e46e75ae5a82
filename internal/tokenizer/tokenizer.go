// Package tokenizer turns text into token IDs for the pattern encoder.
//
// Implementations:
//   - TikToken: OpenAI BPE encodings via github.com/pkoukk/tiktoken-go
//   - Words: offline whitespace tokenizer hashing words into a fixed vocabulary
//
// Use New to select an implementation by encoding name.
package tokenizer

import "strings"

// EncodingWords selects the offline Words tokenizer in New.
const EncodingWords = "words"

// Tokenizer is the core interface for text tokenization.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	// Tokenizers that hash their input cannot decode and return an error.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int

	// Name returns the tokenizer name.
	Name() string
}

// New returns the tokenizer for encoding: EncodingWords or a tiktoken
// encoding name such as "cl100k_base".
func New(encoding string) (Tokenizer, error) {
	if strings.EqualFold(encoding, EncodingWords) {
		return NewWords(DefaultWordsVocab), nil
	}
	return NewTikToken(encoding)
}
