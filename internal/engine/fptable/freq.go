package fptable

import (
	"fmt"

	"github.com/crosscheck-io/crosscheck/internal/engine/fingerprint"
	pkgerrors "github.com/crosscheck-io/crosscheck/pkg/errors"
)

// Entry is one confirmed-match record: the fingerprint, the literal
// phrase first observed for it, and how many times it matched. The label
// is fixed to the first observation; a later occurrence with the same
// fingerprint but different text (a genuine double-hash collision) only
// increments the count.
type Entry struct {
	Fingerprint fingerprint.Fingerprint
	Phrase      string
	Count       int
}

// FreqMap maps fingerprints to match-frequency entries. It uses the same
// fixed-capacity linear-probing discipline as Set, but the slot table
// holds indices into an append-ordered entry slice, so Entries yields
// records in first-matched order.
type FreqMap struct {
	slots   []int32
	entries []Entry
}

// NewFreqMap creates a FreqMap with the given fixed capacity.
func NewFreqMap(capacity int) *FreqMap {
	slots := make([]int32, capacity)
	for i := range slots {
		slots[i] = -1
	}
	return &FreqMap{
		slots:   slots,
		entries: make([]Entry, 0),
	}
}

// Record registers one match occurrence of fp. A new fingerprint gets a
// fresh entry with count 1 labelled with phrase; a known fingerprint has
// its count incremented and keeps its original label. Returns
// ErrCapacityExceeded when a new fingerprint cannot be placed.
func (m *FreqMap) Record(fp fingerprint.Fingerprint, phrase string) error {
	capacity := len(m.slots)
	idx := int(fp.H1 % uint64(capacity))
	for probes := 0; probes < capacity; probes++ {
		if m.slots[idx] < 0 {
			m.slots[idx] = int32(len(m.entries))
			m.entries = append(m.entries, Entry{
				Fingerprint: fp,
				Phrase:      phrase,
				Count:       1,
			})
			return nil
		}
		if e := &m.entries[m.slots[idx]]; e.Fingerprint == fp {
			e.Count++
			return nil
		}
		idx = (idx + 1) % capacity
	}
	return fmt.Errorf("%w: frequency map full (capacity %d)",
		pkgerrors.ErrCapacityExceeded, capacity)
}

// Entries returns the distinct matched entries in first-matched order.
// The returned slice is the map's backing storage and must not be
// mutated by callers.
func (m *FreqMap) Entries() []Entry {
	return m.entries
}

// TotalCount returns the sum of all entry counts, i.e. every confirmed
// match occurrence in the suspect document.
func (m *FreqMap) TotalCount() int {
	total := 0
	for i := range m.entries {
		total += m.entries[i].Count
	}
	return total
}

// Len returns the number of distinct matched fingerprints.
func (m *FreqMap) Len() int {
	return len(m.entries)
}
