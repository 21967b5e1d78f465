package text

import (
	"testing"

	"github.com/hbollon/go-edlib"
)

// naiveLevenshtein is the reference implementation the bounded version is
// checked against.
func naiveLevenshtein(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			v := prev[j-1] + cost
			if prev[j]+1 < v {
				v = prev[j] + 1
			}
			if cur[j-1]+1 < v {
				v = cur[j-1] + 1
			}
			cur[j] = v
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		maxDist  int
		expected int
	}{
		{"", "", 3, 0},
		{"abc", "abc", 0, 0},
		{"abc", "", 3, 3},
		{"", "ab", 3, 2},
		{"ab", "ac", 1, 1},
		{"kitten", "sitting", 3, 3},
		{"kitten", "sitting", 2, 3},      // beyond bound -> maxDist+1
		{"abcdef", "abcdefghij", 2, 3},   // length gap short-circuit
		{"professor", "profesor", 1, 1},  // single deletion
		{"smith", "smyth", 1, 1},         // substitution
		{"anderson", "andersen", 2, 1},   // within generous bound
		{"medical", "center", 2, 3},      // unrelated words exceed bound
	}

	var d Distancer
	for _, tt := range tests {
		got := d.Distance(tt.a, tt.b, tt.maxDist)
		if got != tt.expected {
			t.Errorf("Distance(%q, %q, %d) = %d, want %d", tt.a, tt.b, tt.maxDist, got, tt.expected)
		}
	}
}

// For every pair and bound, Distance must equal min(trueDistance, maxDist+1).
// Checked against both a naive DP and go-edlib.
func TestDistanceMatchesUnbounded(t *testing.T) {
	words := []string{
		"", "a", "ab", "smith", "smyth", "anderson", "andersen",
		"professor", "profesor", "assistant", "asistant", "medical",
		"center", "osu", "1234", "research assistant",
	}

	var d Distancer
	for _, a := range words {
		for _, b := range words {
			want := naiveLevenshtein(a, b)
			if lib := edlib.LevenshteinDistance(a, b); lib != want {
				t.Fatalf("oracle disagreement for (%q, %q): naive=%d edlib=%d", a, b, want, lib)
			}
			for maxDist := 0; maxDist <= 4; maxDist++ {
				expected := want
				if expected > maxDist {
					expected = maxDist + 1
				}
				if got := d.Distance(a, b, maxDist); got != expected {
					t.Errorf("Distance(%q, %q, %d) = %d, want %d", a, b, maxDist, got, expected)
				}
			}
		}
	}
}

func TestDistancerBufferReuse(t *testing.T) {
	var d Distancer
	if got := d.Distance("abcdefghij", "abcdefghix", 2); got != 1 {
		t.Fatalf("long pair distance = %d, want 1", got)
	}
	// Shorter inputs after the buffers have grown must still be exact.
	if got := d.Distance("ab", "ba", 2); got != 2 {
		t.Errorf("short pair after reuse = %d, want 2", got)
	}
	if got := d.Distance("ab", "ab", 2); got != 0 {
		t.Errorf("identical pair after reuse = %d, want 0", got)
	}
}
