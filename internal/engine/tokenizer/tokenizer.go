// Package tokenizer normalises raw document text into a token stream for
// fingerprinting. It lower-cases input and splits on runs of
// non-alphanumeric characters, so punctuation and whitespace never
// produce empty tokens.
package tokenizer

import (
	"fmt"
	"strings"
	"unicode"

	pkgerrors "github.com/crosscheck-io/crosscheck/pkg/errors"
)

// Tokenize breaks text into lowercased alphanumeric tokens. When
// maxTokens > 0 and the document normalises to more tokens than that,
// it returns ErrCapacityExceeded instead of truncating.
func Tokenize(text string, maxTokens int) ([]string, error) {
	lowered := strings.ToLower(text)
	tokens := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if maxTokens > 0 && len(tokens) > maxTokens {
		return nil, fmt.Errorf("%w: document has %d tokens, limit is %d",
			pkgerrors.ErrCapacityExceeded, len(tokens), maxTokens)
	}
	return tokens, nil
}

// Phrase reconstructs the literal text of the n-token shingle starting at
// offset, joined by single spaces. It is a pure function of its inputs.
func Phrase(tokens []string, offset, n int) string {
	return strings.Join(tokens[offset:offset+n], " ")
}
