package reconcile

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Score returns a weighted fuzzy similarity on a 0-100 scale. It takes the
// best of a full ratio, a best-window partial ratio, and token-sort and
// token-set ratios, with partial scores discounted as the length gap of
// the inputs grows. A surname scores 90 against the full name.
func Score(a, b string) int {
	p1, p2 := normalize(a), normalize(b)
	if p1 == "" || p2 == "" {
		return 0
	}

	base := ratio(p1, p2)
	l1, l2 := utf8.RuneCountInString(p1), utf8.RuneCountInString(p2)
	lenRatio := float64(max(l1, l2)) / float64(min(l1, l2))

	const unbaseScale = 0.95
	if lenRatio < 1.5 {
		tsor := tokenSortRatio(p1, p2, ratio) * unbaseScale
		tser := tokenSetRatio(p1, p2, ratio) * unbaseScale
		return round(math.Max(base, math.Max(tsor, tser)))
	}

	partialScale := 0.9
	if lenRatio > 8 {
		partialScale = 0.6
	}
	partial := partialRatio(p1, p2) * partialScale
	ptsor := tokenSortRatio(p1, p2, partialRatio) * unbaseScale * partialScale
	ptser := tokenSetRatio(p1, p2, partialRatio) * unbaseScale * partialScale
	return round(math.Max(math.Max(base, partial), math.Max(ptsor, ptser)))
}

// normalize lowercases, replaces non-alphanumerics with spaces and trims.
func normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// ratio is 100 * (1 - editDistance / longerLength).
func ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(d)/float64(longest))
}

// partialRatio is the best ratio of the shorter string against every
// equal-length window of the longer one.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func tokenSortRatio(a, b string, scorer func(string, string) float64) float64 {
	return scorer(sortedTokens(a), sortedTokens(b))
}

func sortedTokens(s string) string {
	words := strings.Fields(s)
	sort.Strings(words)
	return strings.Join(words, " ")
}

// tokenSetRatio compares the shared tokens against each side's remainder.
func tokenSetRatio(a, b string, scorer func(string, string) float64) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	var sect, diffA, diffB []string
	for w := range setA {
		if setB[w] {
			sect = append(sect, w)
		} else {
			diffA = append(diffA, w)
		}
	}
	for w := range setB {
		if !setA[w] {
			diffB = append(diffB, w)
		}
	}
	sort.Strings(sect)
	sort.Strings(diffA)
	sort.Strings(diffB)

	t0 := strings.Join(sect, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(diffA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(diffB, " "))

	best := scorer(t1, t2)
	if t0 != "" {
		best = math.Max(best, math.Max(scorer(t0, t1), scorer(t0, t2)))
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

func round(f float64) int {
	return int(math.Round(f))
}
