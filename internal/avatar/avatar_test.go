package avatar

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
)

func TestFor_Deterministic(t *testing.T) {
	ids := []string{"npc-1", "npc-42", "ab", "some-longer-entity-id", "日本語"}
	for _, id := range ids {
		first := For(id)
		for i := 0; i < 5; i++ {
			if got := For(id); got != first {
				t.Fatalf("For(%q) changed between calls: %q then %q", id, first, got)
			}
		}
	}
}

func TestFor_KnownValues(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		// hand-computed: h("a") = 97 → 97%265+1 = 98
		{"a", "avatar_098"},
		// h("ab") = 97*31+98 = 3105 → 3105%265+1 = 191
		{"ab", "avatar_191"},
		// empty id hashes to zero → first palette entry
		{"", "avatar_001"},
	}
	for _, tt := range tests {
		if got := For(tt.id); got != tt.want {
			t.Errorf("For(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestFor_AlwaysInPalette(t *testing.T) {
	for i := 0; i < 2000; i++ {
		ref := For(fmt.Sprintf("npc-%d", i))
		assertInPalette(t, ref)
	}
}

func TestRandom_InPalette(t *testing.T) {
	for i := 0; i < 200; i++ {
		assertInPalette(t, Random())
	}
}

func assertInPalette(t *testing.T, ref string) {
	t.Helper()
	if !strings.HasPrefix(ref, "avatar_") || len(ref) != len("avatar_000") {
		t.Fatalf("malformed avatar reference %q", ref)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(ref, "avatar_"))
	if err != nil {
		t.Fatalf("non-numeric index in %q: %v", ref, err)
	}
	if n < 1 || n > PaletteSize {
		t.Fatalf("avatar index %d out of range 1..%d", n, PaletteSize)
	}
}
