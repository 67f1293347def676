// Package match finds token-attribute patterns in annotated text and
// resolves overlapping matches.
//
// A Pattern is a sequence of elements, each a token predicate with a
// quantifier. FindAll reports every (start, end) the pattern can cover, so
// a greedy pattern yields its shorter prefixes too; Longest then keeps the
// longest non-overlapping cover.
package match

import (
	"sort"
	"strings"
	"unicode"

	"github.com/abelbrown/ggmine/internal/nlp"
)

// Op quantifies a pattern element.
type Op int

const (
	One        Op = iota // exactly once
	Optional             // zero or one
	OneOrMore            // one or more
	ZeroOrMore           // zero or more
)

// Predicate tests a single token.
type Predicate func(tok nlp.Token) bool

// Elem is one pattern position.
type Elem struct {
	Match Predicate
	Op    Op
}

// Pattern is a named element sequence.
type Pattern struct {
	Name  string
	Elems []Elem
}

// Span is a matched token range [Start, End).
type Span struct {
	Start   int
	End     int
	Pattern string
}

// Len returns the number of tokens covered.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether s and o share a token.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Text joins the tokens covered by s.
func (s Span) Text(tokens []nlp.Token) string {
	return nlp.JoinTokens(tokens[s.Start:s.End])
}

// Matcher applies an ordered set of patterns.
type Matcher struct {
	patterns []Pattern
}

// NewMatcher returns a Matcher over patterns, tried in order.
func NewMatcher(patterns ...Pattern) *Matcher {
	return &Matcher{patterns: patterns}
}

// FindAll returns every non-empty match of every pattern. When two patterns
// produce the same range, the earlier pattern's span is kept. Spans come
// back sorted by start, then end.
func (m *Matcher) FindAll(tokens []nlp.Token) []Span {
	seen := make(map[[2]int]bool)
	var spans []Span
	for _, p := range m.patterns {
		f := newFinder(p.Elems, tokens)
		for start := range tokens {
			for _, end := range f.ends(0, start) {
				key := [2]int{start, end}
				if end == start || seen[key] {
					continue
				}
				seen[key] = true
				spans = append(spans, Span{Start: start, End: end, Pattern: p.Name})
			}
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	return spans
}

// finder matches one pattern against one token slice. Results are
// memoised on (element index, position) and must not be modified.
type finder struct {
	elems []Elem
	toks  []nlp.Token
	memo  map[[2]int][]int
}

func newFinder(elems []Elem, toks []nlp.Token) *finder {
	return &finder{elems: elems, toks: toks, memo: make(map[[2]int][]int)}
}

// ends returns every position where elems[i:] can finish matching from pos.
func (f *finder) ends(i, pos int) []int {
	if i == len(f.elems) {
		return []int{pos}
	}
	key := [2]int{i, pos}
	if out, ok := f.memo[key]; ok {
		return out
	}

	e := f.elems[i]
	ok := func(p int) bool { return p < len(f.toks) && e.Match(f.toks[p]) }

	var out []int
	switch e.Op {
	case One:
		if ok(pos) {
			out = append(out, f.ends(i+1, pos+1)...)
		}
	case Optional:
		out = append(out, f.ends(i+1, pos)...)
		if ok(pos) {
			out = append(out, f.ends(i+1, pos+1)...)
		}
	case OneOrMore, ZeroOrMore:
		if e.Op == ZeroOrMore {
			out = append(out, f.ends(i+1, pos)...)
		}
		for p := pos; ok(p); p++ {
			out = append(out, f.ends(i+1, p+1)...)
		}
	}
	out = dedupe(out)
	f.memo[key] = out
	return out
}

func dedupe(xs []int) []int {
	if len(xs) < 2 {
		return xs
	}
	seen := make(map[int]bool, len(xs))
	out := xs[:0]
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}

// Longest resolves overlaps: spans are ordered by start ascending and end
// descending, and a span is kept only if it starts at or after the end of
// the last kept span. The input slice is not modified.
func Longest(spans []Span) []Span {
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})

	var kept []Span
	lastEnd := -1
	for _, s := range sorted {
		if s.Start >= lastEnd {
			kept = append(kept, s)
			lastEnd = s.End
		}
	}
	return kept
}

// Predicates

// Lower matches tokens whose lowercase text is one of words.
func Lower(words ...string) Predicate {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return func(tok nlp.Token) bool { return set[strings.ToLower(tok.Text)] }
}

// Text matches tokens whose text is exactly one of words.
func Text(words ...string) Predicate {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return func(tok nlp.Token) bool { return set[tok.Text] }
}

// POS matches tokens whose coarse part of speech is one of tags.
func POS(tags ...string) Predicate {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return func(tok nlp.Token) bool { return set[nlp.Coarse(tok.Tag)] }
}

// IsTitle matches capitalised words ("Drama", not "drama" or "DRAMA!").
func IsTitle() Predicate {
	return func(tok nlp.Token) bool { return isTitle(tok.Text) }
}

// Entity matches tokens inside an entity with one of labels.
func Entity(labels ...string) Predicate {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return func(tok nlp.Token) bool {
		_, typ, ok := strings.Cut(tok.Label, "-")
		return ok && set[typ]
	}
}

// Any matches every token.
func Any() Predicate {
	return func(nlp.Token) bool { return true }
}

// And matches when every predicate does.
func And(preds ...Predicate) Predicate {
	return func(tok nlp.Token) bool {
		for _, p := range preds {
			if !p(tok) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate does.
func Or(preds ...Predicate) Predicate {
	return func(tok nlp.Token) bool {
		for _, p := range preds {
			if p(tok) {
				return true
			}
		}
		return false
	}
}

// isTitle follows str.istitle: uppercase letters only after uncased
// characters, lowercase letters only after cased ones.
func isTitle(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			if prevCased {
				return false
			}
			cased, prevCased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased = true
		default:
			prevCased = false
		}
	}
	return cased
}
