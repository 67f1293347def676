package nlp

import (
	"iter"
	"strings"
)

// Kind is the category of an extracted entity.
type Kind string

const (
	KindPerson Kind = "PERSON"
	KindTitle  Kind = "TITLE"
)

// maxPersonTokens excludes PERSON spans this long or longer; long spans are
// rarely clean names.
const maxPersonTokens = 3

// Extractor yields person and title mentions from text.
type Extractor struct {
	annotator Annotator
}

// NewExtractor returns an Extractor backed by a.
func NewExtractor(a Annotator) *Extractor {
	return &Extractor{annotator: a}
}

// Entities lazily yields (text, kind) pairs in annotation order.
func (x *Extractor) Entities(text string) iter.Seq2[string, Kind] {
	return func(yield func(string, Kind) bool) {
		ann := Annotate(x.annotator, text)
		for _, e := range ann.Entities {
			kind, ok := KindOf(e.Label)
			if !ok {
				continue
			}
			if kind == KindPerson && !CleanPerson(e) {
				continue
			}
			if !yield(e.Text, kind) {
				return
			}
		}
	}
}

// Persons collects the PERSON mentions of text.
func (x *Extractor) Persons(text string) []string {
	var names []string
	for name, kind := range x.Entities(text) {
		if kind == KindPerson {
			names = append(names, name)
		}
	}
	return names
}

// KindOf maps an annotator label onto a Kind.
func KindOf(label string) (Kind, bool) {
	switch label {
	case LabelPerson:
		return KindPerson, true
	case LabelWorkOfArt, LabelTitle:
		return KindTitle, true
	}
	return "", false
}

// CleanPerson reports whether a PERSON entity passes the precision filter:
// fewer than three tokens and no possessive suffix. Tokens are counted, not
// words, so "Mr. T" is three long.
func CleanPerson(e Entity) bool {
	if e.Len() >= maxPersonTokens {
		return false
	}
	return !IsPossessive(e.Text)
}

// IsPossessive reports whether s ends in 's.
func IsPossessive(s string) bool {
	return strings.HasSuffix(s, "'s") || strings.HasSuffix(s, "’s")
}
