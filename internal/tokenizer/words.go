package tokenizer

import (
	"errors"
	"hash/fnv"
	"strings"
	"unicode"
)

// DefaultWordsVocab is the vocabulary size used by New for EncodingWords.
const DefaultWordsVocab = 1 << 16

// Words splits text on anything that is not a letter or digit, lowercases
// each word and hashes it (FNV-1a) into [0, vocab). It needs no data files.
type Words struct {
	vocab int
}

// NewWords creates a Words tokenizer. vocab must be positive.
func NewWords(vocab int) *Words {
	if vocab <= 0 {
		panic("tokenizer: vocab must be positive")
	}
	return &Words{vocab: vocab}
}

// Encode converts text to token IDs.
func (w *Words) Encode(text string) ([]int32, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]int32, len(fields))
	for i, f := range fields {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.ToLower(f)))
		tokens[i] = int32(h.Sum32() % uint32(w.vocab)) //nolint:gosec // G115: bounded by vocab.
	}
	return tokens, nil
}

// Decode always fails: hashed words cannot be recovered.
func (w *Words) Decode(_ []int32) (string, error) {
	return "", errors.New("tokenizer: words encoding is not reversible")
}

// VocabSize returns the vocabulary size.
func (w *Words) VocabSize() int {
	return w.vocab
}

// Name returns EncodingWords.
func (w *Words) Name() string {
	return EncodingWords
}
