// Package fingerprint computes double polynomial-hash fingerprints over
// n-token shingles. Two independent moduli make an accidental collision
// on both components statistically negligible, so fingerprint equality
// stands in for shingle equality everywhere downstream.
package fingerprint

const (
	base = 131
	mod1 = 1_000_000_007
	mod2 = 1_000_000_009

	// separator is folded into the hash between consecutive tokens of a
	// shingle, but not after the last one, so "ab c" and "a bc" hash
	// differently.
	separator = ' '
)

// Fingerprint is an immutable (h1, h2) pair. Equality requires both
// components to match.
type Fingerprint struct {
	H1 uint64
	H2 uint64
}

// Hash fingerprints a single shingle given as a token slice.
func Hash(tokens []string) Fingerprint {
	var fp Fingerprint
	for i, tok := range tokens {
		if i > 0 {
			fp.H1 = (fp.H1*base + separator) % mod1
			fp.H2 = (fp.H2*base + separator) % mod2
		}
		for _, r := range tok {
			fp.H1 = (fp.H1*base + uint64(r)) % mod1
			fp.H2 = (fp.H2*base + uint64(r)) % mod2
		}
	}
	return fp
}

// Shingles returns one Fingerprint per n-token window of tokens, in
// order. The result has length len(tokens)-n+1, or is nil when the
// document is shorter than one shingle. Each window is hashed from
// scratch; the output is identical to an incremental rolling variant.
func Shingles(tokens []string, n int) []Fingerprint {
	if n < 1 || len(tokens) < n {
		return nil
	}
	fps := make([]Fingerprint, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		fps = append(fps, Hash(tokens[i:i+n]))
	}
	return fps
}
