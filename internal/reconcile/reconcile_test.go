package reconcile

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/abelbrown/ggmine/internal/tally"
)

func TestScore(t *testing.T) {
	tests := []struct {
		a, b    string
		atLeast int
		below   int
	}{
		{"Affleck", "Ben Affleck", 90, 91},
		{"Ben Affleck", "ben affleck!", 100, 101},
		{"Affleck Ben", "Ben Affleck", 95, 96},
		{"Ben Affleck", "Ben Stiller", 0, 90},
		{"Tina Fey", "Amy Poehler", 0, 50},
		{"", "Ben Affleck", 0, 1},
	}
	for _, tt := range tests {
		got := Score(tt.a, tt.b)
		if got < tt.atLeast || got >= tt.below {
			t.Errorf("Score(%q, %q) = %d, want in [%d, %d)", tt.a, tt.b, got, tt.atLeast, tt.below)
		}
	}
}

func TestScoreSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Affleck", "Ben Affleck"},
		{"Jennifer Lawrence", "Lawrence"},
		{"Anne Hathaway", "Hathaway Anne"},
	}
	for _, p := range pairs {
		if Score(p[0], p[1]) != Score(p[1], p[0]) {
			t.Errorf("Score not symmetric for %q/%q", p[0], p[1])
		}
	}
}

func TestMergeAffleck(t *testing.T) {
	in := tally.FromEntries(tally.Entry{Name: "Affleck", Count: 2}, tally.Entry{Name: "Ben Affleck", Count: 3})
	out := Merge(in, DefaultThreshold)

	if out.Len() != 1 {
		t.Fatalf("expected one bucket, got %v", out.Entries())
	}
	if n, ok := out.Get("Ben Affleck"); !ok || n != 5 {
		t.Errorf("Ben Affleck = %d (%v), want 5", n, ok)
	}
}

func TestMergeKeepsLongerExistingKey(t *testing.T) {
	in := tally.FromEntries(
		tally.Entry{Name: "Ben Affleck", Count: 3},
		tally.Entry{Name: "Affleck", Count: 2},
		tally.Entry{Name: "Jessica Chastain", Count: 1},
	)
	out := Merge(in, DefaultThreshold)

	keys := out.Keys()
	if len(keys) != 2 || keys[0] != "Ben Affleck" || keys[1] != "Jessica Chastain" {
		t.Fatalf("keys = %v", keys)
	}
	if n, _ := out.Get("Ben Affleck"); n != 5 {
		t.Errorf("Ben Affleck = %d, want 5", n)
	}
}

func TestMergeBelowThreshold(t *testing.T) {
	in := tally.FromEntries(tally.Entry{Name: "Ben Affleck", Count: 1}, tally.Entry{Name: "Ben Stiller", Count: 1})
	if out := Merge(in, DefaultThreshold); out.Len() != 2 {
		t.Errorf("distinct names merged: %v", out.Entries())
	}
}

func TestMergeIsOrderDependent(t *testing.T) {
	// Greedy: each name joins the bucket that exists when it is seen.
	a := Merge(tally.FromEntries(tally.Entry{Name: "Fey", Count: 1}, tally.Entry{Name: "Tina Fey", Count: 1}), DefaultThreshold)
	if n, _ := a.Get("Tina Fey"); n != 2 {
		t.Errorf("Tina Fey = %d, want 2", n)
	}
}

func TestCleanKey(t *testing.T) {
	tests := map[string]string{
		"Ben Affleck's":  "Ben Affleck",
		"@TinaFey!!":     "TinaFey",
		"Amy  Poehler ":  "Amy Poehler",
		"Day-Lewis":      "Day Lewis",
		"Anne Hathaway’s": "Anne Hathaway",
	}
	for in, want := range tests {
		if got := CleanKey(in); got != want {
			t.Errorf("CleanKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanRemerges(t *testing.T) {
	in := tally.FromEntries(
		tally.Entry{Name: "Tina Fey", Count: 2},
		tally.Entry{Name: "Tina Fey's", Count: 3},
		tally.Entry{Name: "!!!", Count: 1},
	)
	out := Clean(in)
	if n, _ := out.Get("Tina Fey"); n != 5 {
		t.Errorf("Tina Fey = %d, want 5", n)
	}
	if n, _ := out.Get("!!!"); n != 1 {
		t.Errorf("empty-after-clean key should be kept, got %v", out.Entries())
	}
}

// Reconciliation never creates or loses mentions, and every input name
// lands in exactly one bucket.
func TestReconcileConservesCounts(t *testing.T) {
	first := []string{"Ben", "Tina", "Amy", "Anne", "Hugh", "Jessica", "Jennifer", "Daniel"}
	last := []string{"Affleck", "Fey", "Poehler", "Hathaway", "Jackman", "Chastain", "Lawrence", "Day-Lewis"}
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 100; trial++ {
		in := tally.New()
		for i := 0; i < 1+rng.Intn(15); i++ {
			var name string
			switch rng.Intn(3) {
			case 0:
				name = last[rng.Intn(len(last))]
			case 1:
				name = fmt.Sprintf("%s %s", first[rng.Intn(len(first))], last[rng.Intn(len(last))])
			default:
				name = fmt.Sprintf("%s %s's", first[rng.Intn(len(first))], last[rng.Intn(len(last))])
			}
			in.Add(name, 1+rng.Intn(5))
		}

		out := Reconcile(in, DefaultThreshold)
		if out.Total() != in.Total() {
			t.Fatalf("trial %d: total %d -> %d", trial, in.Total(), out.Total())
		}
		if out.Len() > in.Len() {
			t.Fatalf("trial %d: more buckets (%d) than names (%d)", trial, out.Len(), in.Len())
		}
	}
}
