// Package winnow subsamples an ordered fingerprint sequence down to a
// compact representative set. Taking the minimum of every w-wide window
// guarantees that any run of w consecutive shingle positions contributes
// at least one representative, which bounds the largest undetectable gap
// to w positions.
package winnow

import "github.com/crosscheck-io/crosscheck/internal/engine/fingerprint"

// Select returns the indices of the selected fingerprints: for each
// window [i, i+w-1] the position of the minimum H1, with the leftmost
// position winning ties. Consecutive windows often agree on the same
// minimum; repeated indices are emitted once. Returns nil when
// len(fps) < w.
func Select(fps []fingerprint.Fingerprint, w int) []int {
	if w < 1 || len(fps) < w {
		return nil
	}
	selected := make([]int, 0, len(fps)/w+1)
	last := -1
	for i := 0; i+w <= len(fps); i++ {
		min := i
		for j := i + 1; j < i+w; j++ {
			if fps[j].H1 < fps[min].H1 {
				min = j
			}
		}
		if min != last {
			selected = append(selected, min)
			last = min
		}
	}
	return selected
}
