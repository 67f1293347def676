// Package nlp adapts an external part-of-speech and named-entity annotator
// to the token/entity shape the pattern matcher consumes.
package nlp

import (
	"strings"
	"sync"
	"unicode"

	"github.com/abelbrown/ggmine/internal/logging"
	"github.com/jdkato/prose/v2"
)

// Entity labels this module cares about. Annotators may emit others.
const (
	LabelPerson    = "PERSON"
	LabelOrg       = "ORG"
	LabelWorkOfArt = "WORK_OF_ART"
	LabelTitle     = "TITLE"
)

// Token is one annotated token.
type Token struct {
	Text  string
	Tag   string // Penn Treebank tag, e.g. "NNP"
	Label string // IOB entity label, e.g. "B-PERSON" or "O"
}

// Entity is a labelled run of tokens [Start, End).
type Entity struct {
	Text  string
	Label string
	Start int
	End   int
}

// Len returns the number of tokens in the entity.
func (e Entity) Len() int { return e.End - e.Start }

// Annotation is the result of annotating one text.
type Annotation struct {
	Tokens   []Token
	Entities []Entity
}

// EntityAt returns the entity covering token i.
func (a *Annotation) EntityAt(i int) (Entity, bool) {
	for _, e := range a.Entities {
		if i >= e.Start && i < e.End {
			return e, true
		}
	}
	return Entity{}, false
}

// Annotator turns text into tokens with POS tags and entity spans.
type Annotator interface {
	Annotate(text string) (*Annotation, error)
}

// Annotate runs a and degrades any failure to an empty annotation.
// Annotation problems are never fatal to the pipeline.
func Annotate(a Annotator, text string) *Annotation {
	ann, err := a.Annotate(text)
	if err != nil || ann == nil {
		logging.Debug("Annotation failed, treating as no entities", "error", err, "len", len(text))
		return &Annotation{}
	}
	return ann
}

// ProseAnnotator annotates with github.com/jdkato/prose/v2. The model is
// loaded once in NewProseAnnotator and shared read-only by every call.
type ProseAnnotator struct {
	model *prose.Model
}

// NewProseAnnotator loads the prose tagging and NER model.
func NewProseAnnotator() (*ProseAnnotator, error) {
	seed, err := prose.NewDocument("", prose.WithSegmentation(false))
	if err != nil {
		return nil, err
	}
	logging.Info("Annotation model loaded")
	return &ProseAnnotator{model: seed.Model}, nil
}

// Annotate implements Annotator.
func (p *ProseAnnotator) Annotate(text string) (*Annotation, error) {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.UsingModel(p.model))
	if err != nil {
		return nil, err
	}

	toks := doc.Tokens()
	ann := &Annotation{Tokens: make([]Token, len(toks))}
	for i, tok := range toks {
		ann.Tokens[i] = Token{Text: tok.Text, Tag: tok.Tag, Label: tok.Label}
	}
	ann.Entities = ChunkIOB(ann.Tokens)
	return ann, nil
}

// ChunkIOB groups B-/I- token labels into entities with token offsets.
// A stray I- label opens a new entity.
func ChunkIOB(tokens []Token) []Entity {
	var ents []Entity
	start, label := -1, ""

	flush := func(end int) {
		if start >= 0 {
			ents = append(ents, Entity{
				Text:  JoinTokens(tokens[start:end]),
				Label: label,
				Start: start,
				End:   end,
			})
		}
		start, label = -1, ""
	}

	for i, tok := range tokens {
		prefix, typ, ok := strings.Cut(tok.Label, "-")
		switch {
		case !ok || typ == "":
			flush(i)
		case prefix == "B", prefix == "I" && typ != label:
			flush(i)
			start, label = i, typ
		}
	}
	flush(len(tokens))
	return ents
}

// JoinTokens rebuilds surface text, attaching punctuation and clitics
// ("'s", "n't") to the preceding token.
func JoinTokens(tokens []Token) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 && !attaches(tok.Text) {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

func attaches(s string) bool {
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, "'") || strings.HasPrefix(s, "’") || strings.EqualFold(s, "n't") {
		return true
	}
	switch s {
	case ".", ",", "!", "?", ";", ")", "%":
		return true
	}
	return false
}

// Coarse maps a Penn tag to a universal POS category.
func Coarse(tag string) string {
	switch {
	case tag == "NNP" || tag == "NNPS":
		return "PROPN"
	case strings.HasPrefix(tag, "NN"):
		return "NOUN"
	case strings.HasPrefix(tag, "JJ"):
		return "ADJ"
	case strings.HasPrefix(tag, "VB") || tag == "MD":
		return "VERB"
	case strings.HasPrefix(tag, "RB"):
		return "ADV"
	case strings.HasPrefix(tag, "PRP") || tag == "WP" || tag == "WP$":
		return "PRON"
	case tag == "DT" || tag == "PDT" || tag == "WDT":
		return "DET"
	case tag == "IN" || tag == "TO":
		return "ADP"
	case tag == "CC":
		return "CCONJ"
	case tag == "CD":
		return "NUM"
	case tag == "" || !hasLetter(tag):
		return "PUNCT"
	}
	return "X"
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Cached memoizes annotations by text. Each pipeline worker owns one so a
// post annotated during award detection is not annotated again during
// association.
type Cached struct {
	inner Annotator

	mu    sync.Mutex
	cache map[string]*Annotation
}

// NewCached wraps a.
func NewCached(a Annotator) *Cached {
	return &Cached{inner: a, cache: make(map[string]*Annotation)}
}

// Annotate implements Annotator. Failures are not cached.
func (c *Cached) Annotate(text string) (*Annotation, error) {
	c.mu.Lock()
	ann, ok := c.cache[text]
	c.mu.Unlock()
	if ok {
		return ann, nil
	}

	ann, err := c.inner.Annotate(text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[text] = ann
	c.mu.Unlock()
	return ann, nil
}
