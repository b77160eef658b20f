// Package fptable provides the two fixed-capacity open-addressing tables
// of the detection pipeline: an exact fingerprint set for the reference
// document and a frequency map for confirmed matches in the suspect
// document. Neither table resizes; filling one up is surfaced as a
// CapacityExceeded error rather than silently dropping entries.
package fptable

import (
	"fmt"

	"github.com/crosscheck-io/crosscheck/internal/engine/fingerprint"
	pkgerrors "github.com/crosscheck-io/crosscheck/pkg/errors"
)

// Set is an exact-membership hash set of fingerprints using linear
// probing keyed on H1. Unlike the bloom gate it has no false positives:
// Contains is true iff the exact (H1, H2) pair was inserted.
type Set struct {
	slots    []fingerprint.Fingerprint
	occupied []bool
	size     int
}

// NewSet creates a Set with the given fixed capacity.
func NewSet(capacity int) *Set {
	return &Set{
		slots:    make([]fingerprint.Fingerprint, capacity),
		occupied: make([]bool, capacity),
	}
}

// Insert adds fp to the set. Inserting a fingerprint already present is
// a no-op. Returns ErrCapacityExceeded when the table is full and fp is
// not already a member.
func (s *Set) Insert(fp fingerprint.Fingerprint) error {
	capacity := len(s.slots)
	idx := int(fp.H1 % uint64(capacity))
	for probes := 0; probes < capacity; probes++ {
		if !s.occupied[idx] {
			s.slots[idx] = fp
			s.occupied[idx] = true
			s.size++
			return nil
		}
		if s.slots[idx] == fp {
			return nil
		}
		idx = (idx + 1) % capacity
	}
	return fmt.Errorf("%w: fingerprint index full (capacity %d)",
		pkgerrors.ErrCapacityExceeded, capacity)
}

// Contains reports exact membership of fp, probing the same linear chain
// used by Insert.
func (s *Set) Contains(fp fingerprint.Fingerprint) bool {
	capacity := len(s.slots)
	idx := int(fp.H1 % uint64(capacity))
	for probes := 0; probes < capacity; probes++ {
		if !s.occupied[idx] {
			return false
		}
		if s.slots[idx] == fp {
			return true
		}
		idx = (idx + 1) % capacity
	}
	return false
}

// Len returns the number of distinct fingerprints inserted.
func (s *Set) Len() int {
	return s.size
}
