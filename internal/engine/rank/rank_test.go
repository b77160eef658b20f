package rank

import (
	"reflect"
	"testing"
)

func TestRankerFewerThanK(t *testing.T) {
	r := New(5)
	r.Offer("alpha", 2)
	r.Offer("beta", 7)
	r.Offer("gamma", 4)

	got := r.Ranked()
	want := []Phrase{
		{Text: "beta", Count: 7},
		{Text: "gamma", Count: 4},
		{Text: "alpha", Count: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ranked() = %v, want %v", got, want)
	}
}

func TestRankerKeepsTopK(t *testing.T) {
	r := New(3)
	counts := []int{7, 5, 5, 9, 2}
	names := []string{"a", "b", "c", "d", "e"}
	for i, c := range counts {
		r.Offer(names[i], c)
	}

	got := r.Ranked()
	// "d" (9) displaces the earliest 5 ("b"); the later equal-count "c"
	// survives because displacement picks the earliest-offered minimum.
	want := []Phrase{
		{Text: "d", Count: 9},
		{Text: "a", Count: 7},
		{Text: "c", Count: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ranked() = %v, want %v", got, want)
	}
}

func TestRankerEqualCountNeverDisplaces(t *testing.T) {
	r := New(1)
	r.Offer("holder", 3)
	r.Offer("newcomer", 3)

	got := r.Ranked()
	if len(got) != 1 || got[0].Text != "holder" {
		t.Errorf("equal-count newcomer displaced the holder: %v", got)
	}
}

func TestRankerStrictlyGreaterDisplaces(t *testing.T) {
	r := New(1)
	r.Offer("holder", 3)
	r.Offer("stronger", 4)

	got := r.Ranked()
	if len(got) != 1 || got[0].Text != "stronger" {
		t.Errorf("strictly greater newcomer must displace: %v", got)
	}
}

func TestRankerTieOrderIsFirstMatched(t *testing.T) {
	r := New(4)
	r.Offer("first", 5)
	r.Offer("second", 5)
	r.Offer("third", 5)

	got := r.Ranked()
	want := []Phrase{
		{Text: "first", Count: 5},
		{Text: "second", Count: 5},
		{Text: "third", Count: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("equal counts must keep offer order: %v", got)
	}
}

func TestRankerFullDescendingOutput(t *testing.T) {
	r := New(10)
	counts := []int{3, 14, 1, 5, 9, 2, 6, 11, 8, 4, 7, 13}
	for i, c := range counts {
		r.Offer(string(rune('a'+i)), c)
	}
	got := r.Ranked()
	if len(got) != 10 {
		t.Fatalf("Ranked() returned %d phrases, want 10", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Count > got[i-1].Count {
			t.Fatalf("output not descending at %d: %v", i, got)
		}
	}
	if got[0].Count != 14 || got[len(got)-1].Count != 3 {
		t.Errorf("top/bottom of ranking wrong: %v", got)
	}
}

func TestRankerEmpty(t *testing.T) {
	r := New(3)
	if got := r.Ranked(); len(got) != 0 {
		t.Errorf("empty ranker should rank nothing, got %v", got)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}
