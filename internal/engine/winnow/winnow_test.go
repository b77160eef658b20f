package winnow

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/crosscheck-io/crosscheck/internal/engine/fingerprint"
)

func fpsWithH1(h1s ...uint64) []fingerprint.Fingerprint {
	fps := make([]fingerprint.Fingerprint, len(h1s))
	for i, h := range h1s {
		fps[i] = fingerprint.Fingerprint{H1: h, H2: h + 1}
	}
	return fps
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		h1s  []uint64
		w    int
		want []int
	}{
		{
			name: "single window",
			h1s:  []uint64{30, 10, 20},
			w:    3,
			want: []int{1},
		},
		{
			name: "sliding minimum with duplicate suppression",
			h1s:  []uint64{3, 1, 2, 5, 4},
			w:    2,
			// windows: [3,1]->1 [1,2]->1 [2,5]->2 [5,4]->4
			want: []int{1, 2, 4},
		},
		{
			name: "descending run selects each window's right edge",
			h1s:  []uint64{5, 4, 3, 2, 1},
			w:    2,
			want: []int{1, 2, 3, 4},
		},
		{
			name: "ascending run keeps the global minimum then advances",
			h1s:  []uint64{1, 2, 3, 4, 5},
			w:    3,
			// windows: [1,2,3]->0 [2,3,4]->1 [3,4,5]->2
			want: []int{0, 1, 2},
		},
		{
			name: "window of one selects everything",
			h1s:  []uint64{7, 3, 9},
			w:    1,
			want: []int{0, 1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(fpsWithH1(tt.h1s...), tt.w)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Select(w=%d) = %v, want %v", tt.w, got, tt.want)
			}
		})
	}
}

func TestSelectLeftmostTieBreak(t *testing.T) {
	// Equal minima in one window: the leftmost position must win.
	got := Select(fpsWithH1(5, 5, 9), 3)
	if !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("tie should select leftmost index 0, got %v", got)
	}

	// A tie that persists across sliding windows re-selects only when the
	// previous winner leaves the window.
	got = Select(fpsWithH1(5, 5, 9, 9), 2)
	// windows: [5,5]->0 [5,9]->1 [9,9]->2
	if !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("sliding ties: got %v, want [0 1 2]", got)
	}
}

func TestSelectTooShort(t *testing.T) {
	if got := Select(fpsWithH1(1, 2), 3); got != nil {
		t.Errorf("fewer fingerprints than the window should yield nil, got %v", got)
	}
	if got := Select(nil, 3); got != nil {
		t.Errorf("nil input should yield nil, got %v", got)
	}
}

// TestSelectDensityBounds checks the winnowing guarantees on random
// input: at least one representative per w consecutive positions, and
// never more representatives than windows.
func TestSelectDensityBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		n := 20 + rng.Intn(200)
		w := 2 + rng.Intn(8)
		h1s := make([]uint64, n)
		for i := range h1s {
			h1s[i] = uint64(rng.Int63n(1_000_000_007))
		}
		got := Select(fpsWithH1(h1s...), w)

		numWindows := n - w + 1
		minSelected := (numWindows + w - 1) / w
		if len(got) < minSelected {
			t.Fatalf("n=%d w=%d: %d selected, below gap-guarantee floor %d", n, w, len(got), minSelected)
		}
		if len(got) > numWindows {
			t.Fatalf("n=%d w=%d: %d selected, above window count %d", n, w, len(got), numWindows)
		}
		if got[0] > w-1 {
			t.Fatalf("first representative %d misses the first window", got[0])
		}
		if got[len(got)-1] < n-w {
			t.Fatalf("last representative %d misses the last window", got[len(got)-1])
		}
		for i := 1; i < len(got); i++ {
			if got[i] <= got[i-1] {
				t.Fatalf("selected indices not strictly increasing: %v", got)
			}
			if got[i]-got[i-1] > w {
				t.Fatalf("gap of %d between representatives exceeds window %d", got[i]-got[i-1], w)
			}
		}
	}
}
