package apikey

import (
	"strings"
	"testing"
)

func TestHashKey(t *testing.T) {
	a := HashKey("cck_somekey")
	b := HashKey("cck_somekey")
	if a != b {
		t.Fatal("hashing the same key twice must agree")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
	if HashKey("cck_otherkey") == a {
		t.Error("different keys must hash differently")
	}
}

func TestGenerateRawKey(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		raw, err := generateRawKey()
		if err != nil {
			t.Fatalf("generateRawKey() = %v", err)
		}
		if !strings.HasPrefix(raw, "cck_") {
			t.Fatalf("key %q missing cck_ prefix", raw)
		}
		// 4-byte prefix plus 32 random bytes hex-encoded.
		if len(raw) != 4+64 {
			t.Fatalf("key length = %d, want 68", len(raw))
		}
		if seen[raw] {
			t.Fatal("generated a duplicate key")
		}
		seen[raw] = true
	}
}
