// Package bloom implements the probabilistic pre-filter that sits in
// front of the exact fingerprint index. A negative answer is
// authoritative; a positive answer still needs the exact check.
package bloom

import "github.com/crosscheck-io/crosscheck/internal/engine/fingerprint"

// Gate is a fixed-size bloom filter over fingerprints. Each fingerprint
// sets two bits, one derived from each hash component.
type Gate struct {
	words []uint64
	bits  uint64
}

// New creates a Gate with m bits. m must be positive.
func New(m int) *Gate {
	return &Gate{
		words: make([]uint64, (m+63)/64),
		bits:  uint64(m),
	}
}

// Add marks fp as present.
func (g *Gate) Add(fp fingerprint.Fingerprint) {
	g.set(fp.H1 % g.bits)
	g.set(fp.H2 % g.bits)
}

// Test reports whether fp might be present. Inserted fingerprints always
// test true; fingerprints never inserted may still test true.
func (g *Gate) Test(fp fingerprint.Fingerprint) bool {
	return g.get(fp.H1%g.bits) && g.get(fp.H2%g.bits)
}

func (g *Gate) set(pos uint64) {
	g.words[pos/64] |= 1 << (pos % 64)
}

func (g *Gate) get(pos uint64) bool {
	return g.words[pos/64]&(1<<(pos%64)) != 0
}
