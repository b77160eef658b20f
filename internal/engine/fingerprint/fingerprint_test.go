package fingerprint

import "testing"

func TestHashDeterministic(t *testing.T) {
	a := Hash([]string{"quick", "brown", "fox"})
	b := Hash([]string{"quick", "brown", "fox"})
	if a != b {
		t.Fatalf("identical shingles hash differently: %v vs %v", a, b)
	}
}

func TestHashDistinguishesTokenBoundaries(t *testing.T) {
	// The folded separator means the concatenation "abc" must not
	// collide across different token splits.
	a := Hash([]string{"ab", "c"})
	b := Hash([]string{"a", "bc"})
	if a == b {
		t.Fatalf("different token boundaries produced the same fingerprint %v", a)
	}

	c := Hash([]string{"abc"})
	if a == c || b == c {
		t.Fatal("single token collides with a split variant")
	}
}

func TestHashOrderSensitive(t *testing.T) {
	a := Hash([]string{"alpha", "beta"})
	b := Hash([]string{"beta", "alpha"})
	if a == b {
		t.Fatal("token order should change the fingerprint")
	}
}

func TestShingles(t *testing.T) {
	tokens := []string{"one", "two", "three", "four", "five"}

	fps := Shingles(tokens, 3)
	if len(fps) != 3 {
		t.Fatalf("got %d shingles, want 3", len(fps))
	}
	if fps[0] != Hash([]string{"one", "two", "three"}) {
		t.Error("first shingle does not match direct hash of the window")
	}
	if fps[2] != Hash([]string{"three", "four", "five"}) {
		t.Error("last shingle does not match direct hash of the window")
	}
}

func TestShinglesShortInput(t *testing.T) {
	if got := Shingles([]string{"one", "two"}, 3); got != nil {
		t.Errorf("document shorter than one shingle should yield nil, got %v", got)
	}
	if got := Shingles(nil, 3); got != nil {
		t.Errorf("nil tokens should yield nil, got %v", got)
	}
	if got := Shingles([]string{"one", "two", "three"}, 3); len(got) != 1 {
		t.Errorf("exact-length document should yield one shingle, got %d", len(got))
	}
}

func TestShinglesWithinModuli(t *testing.T) {
	fps := Shingles([]string{"some", "arbitrary", "stream", "of", "tokens"}, 2)
	for i, fp := range fps {
		if fp.H1 >= mod1 {
			t.Errorf("shingle %d: H1 %d out of range", i, fp.H1)
		}
		if fp.H2 >= mod2 {
			t.Errorf("shingle %d: H2 %d out of range", i, fp.H2)
		}
	}
}
