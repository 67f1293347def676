// Package reconcile merges near-duplicate name variants ("Affleck",
// "Ben Affleck") into canonical identities.
//
// Merging is a greedy online pass over the input order. Once a name has
// been merged into a bucket it never moves again, so a different input
// order can produce different buckets.
package reconcile

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/abelbrown/ggmine/internal/tally"
)

// DefaultThreshold is the minimum Score for two names to merge.
const DefaultThreshold = 90

// Merge folds each name of counts, in order, into the best-scoring existing
// canonical key when the score reaches threshold. The merged bucket is
// named by the longer of the two strings; a promoted name replaces the old
// key at the end of the order. Counts are conserved.
func Merge(counts *tally.Counter, threshold int) *tally.Counter {
	merged := tally.New()
	for _, e := range counts.Entries() {
		best, score, ok := bestMatch(e.Name, merged)
		if !ok || score < threshold {
			merged.Add(e.Name, e.Count)
			continue
		}
		if utf8.RuneCountInString(best) >= utf8.RuneCountInString(e.Name) {
			merged.Add(best, e.Count)
			continue
		}
		moved := merged.Remove(best)
		merged.Add(e.Name, moved+e.Count)
	}
	return merged
}

// bestMatch returns the first key with the highest Score against name.
func bestMatch(name string, c *tally.Counter) (string, int, bool) {
	bestKey, bestScore := "", -1
	for _, k := range c.Keys() {
		if s := Score(name, k); s > bestScore {
			bestKey, bestScore = k, s
		}
	}
	return bestKey, bestScore, bestScore >= 0
}

var (
	possessiveRe = regexp.MustCompile(`['’]s\b`)
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
)

// CleanKey strips possessive markers and non-word characters.
func CleanKey(key string) string {
	s := possessiveRe.ReplaceAllString(key, " ")
	s = nonWordRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Clean rewrites every key with CleanKey and re-merges keys that collide.
// A key that cleans to nothing is kept as-is so no count is dropped.
func Clean(counts *tally.Counter) *tally.Counter {
	out := tally.New()
	for _, e := range counts.Entries() {
		key := CleanKey(e.Name)
		if key == "" {
			key = e.Name
		}
		out.Add(key, e.Count)
	}
	return out
}

// Reconcile merges then cleans.
func Reconcile(counts *tally.Counter, threshold int) *tally.Counter {
	return Clean(Merge(counts, threshold))
}
