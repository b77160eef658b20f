// Package rank maintains a bounded top-K ranking of matched phrases by
// hit count. Candidates stream through a K-sized min-heap, so ranking N
// distinct phrases costs O(N log K); the final result is a total
// descending order, with ties broken by which phrase matched first.
package rank

import "sort"

// Phrase is one ranked result.
type Phrase struct {
	Text  string `json:"phrase"`
	Count int    `json:"count"`
}

type item struct {
	text  string
	count int
	seq   int
}

// Ranker accumulates candidates and keeps only the K best.
type Ranker struct {
	heap []item
	k    int
	next int
}

// New creates a Ranker holding at most k phrases. k must be >= 1.
func New(k int) *Ranker {
	return &Ranker{
		heap: make([]item, 0, k),
		k:    k,
	}
}

// Offer submits one distinct phrase with its final hit count. Candidates
// must be offered in first-matched order; that order is the tie-break in
// the final ranking. While fewer than K candidates are held every offer
// is kept; once full, a newcomer replaces the current minimum only when
// its count is strictly greater, so an equal-count newcomer never
// displaces the holder.
func (r *Ranker) Offer(text string, count int) {
	it := item{text: text, count: count, seq: r.next}
	r.next++

	if len(r.heap) < r.k {
		r.heap = append(r.heap, it)
		r.siftUp(len(r.heap) - 1)
		return
	}
	if it.count > r.heap[0].count {
		r.heap[0] = it
		r.siftDown(0)
	}
}

// Ranked returns the held phrases sorted by count descending, ties by
// first-matched order.
func (r *Ranker) Ranked() []Phrase {
	sorted := make([]item, len(r.heap))
	copy(sorted, r.heap)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].seq < sorted[j].seq
	})
	ranked := make([]Phrase, len(sorted))
	for i, it := range sorted {
		ranked[i] = Phrase{Text: it.text, Count: it.count}
	}
	return ranked
}

// Len returns the number of phrases currently held.
func (r *Ranker) Len() int {
	return len(r.heap)
}

// less orders the heap: lowest count at the root, and among equal counts
// the earliest-offered candidate, so it is the first displaced.
func (r *Ranker) less(i, j int) bool {
	if r.heap[i].count != r.heap[j].count {
		return r.heap[i].count < r.heap[j].count
	}
	return r.heap[i].seq < r.heap[j].seq
}

func (r *Ranker) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !r.less(i, parent) {
			return
		}
		r.heap[i], r.heap[parent] = r.heap[parent], r.heap[i]
		i = parent
	}
}

// siftDown restores the heap invariant iteratively from index i.
func (r *Ranker) siftDown(i int) {
	n := len(r.heap)
	for {
		left := 2*i + 1
		if left >= n {
			return
		}
		smallest := left
		if right := left + 1; right < n && r.less(right, left) {
			smallest = right
		}
		if !r.less(smallest, i) {
			return
		}
		r.heap[i], r.heap[smallest] = r.heap[smallest], r.heap[i]
		i = smallest
	}
}
