// Package nlptest provides a fixed, rule-based annotator so pattern tests
// do not depend on a statistical model.
package nlptest

import (
	"errors"
	"regexp"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/abelbrown/ggmine/internal/nlp"
)

// ErrUnannotatable is returned for texts registered with Fail.
var ErrUnannotatable = errors.New("nlptest: text cannot be annotated")

var tokenRe = regexp.MustCompile(`['’]s\b|[A-Za-z0-9]+|[^\sA-Za-z0-9]`)

// closed-class words get fixed tags; everything else is NNP when
// capitalised and NN otherwise.
var defaultTags = map[string]string{
	"a": "DT", "an": "DT", "the": "DT",
	"in": "IN", "by": "IN", "for": "IN", "of": "IN", "at": "IN", "up": "RP",
	"to": "TO", "and": "CC", "or": "CC",
	"is": "VBZ", "goes": "VBZ", "wins": "VBZ", "win": "VB", "present": "VB",
	"presents": "VBZ", "announces": "VBZ", "nominated": "VBN", "hosting": "VBG",
	"'s": "POS", "’s": "POS",
}

// Span is an entity phrase to label wherever its tokens appear.
type Span struct {
	Text  string
	Label string
}

// Person declares a PERSON phrase.
func Person(text string) Span { return Span{Text: text, Label: nlp.LabelPerson} }

// Org declares an ORG phrase.
func Org(text string) Span { return Span{Text: text, Label: nlp.LabelOrg} }

// Title declares a WORK_OF_ART phrase.
func Title(text string) Span { return Span{Text: text, Label: nlp.LabelWorkOfArt} }

// Annotator is a deterministic nlp.Annotator.
type Annotator struct {
	spans []Span
	tags  map[string]string
	fail  map[string]bool
	calls atomic.Int64
}

// New returns an Annotator that labels the given spans.
func New(spans ...Span) *Annotator {
	return &Annotator{spans: spans, tags: map[string]string{}, fail: map[string]bool{}}
}

// Tag overrides the tag of a token text (case-sensitive).
func (a *Annotator) Tag(token, tag string) *Annotator {
	a.tags[token] = tag
	return a
}

// Fail makes Annotate return ErrUnannotatable for text.
func (a *Annotator) Fail(text string) *Annotator {
	a.fail[text] = true
	return a
}

// Calls returns how many times Annotate has run.
func (a *Annotator) Calls() int64 { return a.calls.Load() }

// Tokenize splits text the way Annotate does.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(text, -1)
}

// Annotate implements nlp.Annotator.
func (a *Annotator) Annotate(text string) (*nlp.Annotation, error) {
	a.calls.Add(1)
	if a.fail[text] {
		return nil, ErrUnannotatable
	}

	words := Tokenize(text)
	toks := make([]nlp.Token, len(words))
	for i, w := range words {
		toks[i] = nlp.Token{Text: w, Tag: a.tagFor(w), Label: "O"}
	}

	for _, s := range a.spans {
		phrase := Tokenize(s.Text)
		if len(phrase) == 0 {
			continue
		}
		for i := 0; i+len(phrase) <= len(toks); i++ {
			if !matchesAt(toks, phrase, i) || toks[i].Label != "O" {
				continue
			}
			toks[i].Label = "B-" + s.Label
			for j := 1; j < len(phrase); j++ {
				toks[i+j].Label = "I-" + s.Label
			}
		}
	}

	return &nlp.Annotation{Tokens: toks, Entities: nlp.ChunkIOB(toks)}, nil
}

func matchesAt(toks []nlp.Token, phrase []string, i int) bool {
	for j, w := range phrase {
		if toks[i+j].Text != w {
			return false
		}
	}
	return true
}

func (a *Annotator) tagFor(w string) string {
	if tag, ok := a.tags[w]; ok {
		return tag
	}
	if tag, ok := defaultTags[strings.ToLower(w)]; ok {
		return tag
	}
	r := []rune(w)[0]
	switch {
	case unicode.IsDigit(r):
		return "CD"
	case unicode.IsUpper(r):
		return "NNP"
	case unicode.IsLetter(r):
		return "NN"
	}
	return w
}
