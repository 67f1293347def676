package nlp_test

import (
	"errors"
	"testing"

	"github.com/abelbrown/ggmine/internal/nlp"
	"github.com/abelbrown/ggmine/internal/nlp/nlptest"
)

func TestChunkIOB(t *testing.T) {
	toks := []nlp.Token{
		{Text: "Ben", Label: "B-PERSON"},
		{Text: "Affleck", Label: "I-PERSON"},
		{Text: "wins", Label: "O"},
		{Text: "for", Label: "O"},
		{Text: "Argo", Label: "I-WORK_OF_ART"}, // stray I- opens an entity
		{Text: "Jessica", Label: "B-PERSON"},
		{Text: "Lange", Label: "B-PERSON"},
	}

	ents := nlp.ChunkIOB(toks)
	want := []nlp.Entity{
		{Text: "Ben Affleck", Label: "PERSON", Start: 0, End: 2},
		{Text: "Argo", Label: "WORK_OF_ART", Start: 4, End: 5},
		{Text: "Jessica", Label: "PERSON", Start: 5, End: 6},
		{Text: "Lange", Label: "PERSON", Start: 6, End: 7},
	}
	if len(ents) != len(want) {
		t.Fatalf("ChunkIOB = %+v, want %+v", ents, want)
	}
	for i := range want {
		if ents[i] != want[i] {
			t.Errorf("entity %d = %+v, want %+v", i, ents[i], want[i])
		}
	}
}

func TestJoinTokens(t *testing.T) {
	toks := []nlp.Token{{Text: "Affleck"}, {Text: "'s"}, {Text: "film"}, {Text: "!"}}
	if got := nlp.JoinTokens(toks); got != "Affleck's film!" {
		t.Errorf("JoinTokens = %q", got)
	}
}

func TestCoarse(t *testing.T) {
	tests := map[string]string{
		"NNP": "PROPN", "NNPS": "PROPN", "NN": "NOUN", "NNS": "NOUN",
		"JJ": "ADJ", "VBZ": "VERB", "DT": "DET", "IN": "ADP", "CC": "CCONJ",
		":": "PUNCT", "-": "PUNCT", "CD": "NUM",
	}
	for tag, want := range tests {
		if got := nlp.Coarse(tag); got != want {
			t.Errorf("Coarse(%q) = %q, want %q", tag, got, want)
		}
	}
}

func TestExtractorFiltersPersons(t *testing.T) {
	ann := nlptest.New(
		nlptest.Person("Ben Affleck"),
		nlptest.Person("Daniel Day Lewis"),
		nlptest.Person("Hathaway's"),
		nlptest.Title("Les Miserables"),
	)
	x := nlp.NewExtractor(ann)

	text := "Ben Affleck beat Daniel Day Lewis while Hathaway's Les Miserables won"
	var got []string
	var kinds []nlp.Kind
	for name, kind := range x.Entities(text) {
		got = append(got, name)
		kinds = append(kinds, kind)
	}

	if len(got) != 2 {
		t.Fatalf("Entities = %v, want Ben Affleck and Les Miserables", got)
	}
	if got[0] != "Ben Affleck" || kinds[0] != nlp.KindPerson {
		t.Errorf("first = %q/%s", got[0], kinds[0])
	}
	if got[1] != "Les Miserables" || kinds[1] != nlp.KindTitle {
		t.Errorf("second = %q/%s", got[1], kinds[1])
	}

	persons := x.Persons(text)
	if len(persons) != 1 || persons[0] != "Ben Affleck" {
		t.Errorf("Persons = %v", persons)
	}
}

func TestExtractorCountsTokens(t *testing.T) {
	x := nlp.NewExtractor(nlptest.New(nlptest.Person("Mr. T"), nlptest.Person("Tina Fey")))

	got := x.Persons("Mr. T and Tina Fey")
	if len(got) != 1 || got[0] != "Tina Fey" {
		t.Errorf("Persons = %v, want only Tina Fey", got)
	}
}

func TestCleanPerson(t *testing.T) {
	tests := []struct {
		e    nlp.Entity
		want bool
	}{
		{nlp.Entity{Text: "Ben Affleck", Start: 0, End: 2}, true},
		{nlp.Entity{Text: "Adele", Start: 4, End: 5}, true},
		{nlp.Entity{Text: "Daniel Day Lewis", Start: 0, End: 3}, false},
		{nlp.Entity{Text: "Mr. T", Start: 0, End: 3}, false},
		{nlp.Entity{Text: "Hathaway's", Start: 2, End: 4}, false},
		{nlp.Entity{Text: "Fey’s", Start: 0, End: 2}, false},
	}
	for _, tt := range tests {
		if got := nlp.CleanPerson(tt.e); got != tt.want {
			t.Errorf("CleanPerson(%q, %d tokens) = %v, want %v", tt.e.Text, tt.e.Len(), got, tt.want)
		}
	}
}

func TestExtractorStopsEarly(t *testing.T) {
	x := nlp.NewExtractor(nlptest.New(nlptest.Person("Tina Fey"), nlptest.Person("Amy Poehler")))
	n := 0
	for range x.Entities("Tina Fey and Amy Poehler host") {
		n++
		break
	}
	if n != 1 {
		t.Errorf("iteration did not stop after break, n=%d", n)
	}
}

func TestAnnotationFailureIsEmpty(t *testing.T) {
	ann := nlptest.New(nlptest.Person("Ben Affleck")).Fail("garbage")
	got := nlp.Annotate(ann, "garbage")
	if len(got.Tokens) != 0 || len(got.Entities) != 0 {
		t.Errorf("failed annotation should be empty, got %+v", got)
	}
	if persons := nlp.NewExtractor(ann).Persons("garbage"); len(persons) != 0 {
		t.Errorf("Persons on failure = %v", persons)
	}
}

func TestCachedAnnotator(t *testing.T) {
	inner := nlptest.New(nlptest.Person("Ben Affleck")).Fail("bad")
	c := nlp.NewCached(inner)

	for i := 0; i < 3; i++ {
		if _, err := c.Annotate("Ben Affleck wins"); err != nil {
			t.Fatal(err)
		}
	}
	if inner.Calls() != 1 {
		t.Errorf("inner called %d times, want 1", inner.Calls())
	}

	_, err1 := c.Annotate("bad")
	_, err2 := c.Annotate("bad")
	if !errors.Is(err1, nlptest.ErrUnannotatable) || !errors.Is(err2, nlptest.ErrUnannotatable) {
		t.Errorf("errors = %v, %v", err1, err2)
	}
	if inner.Calls() != 3 {
		t.Errorf("failures should not be cached, calls = %d", inner.Calls())
	}
}

func TestEntityAt(t *testing.T) {
	ann, _ := nlptest.New(nlptest.Person("Tina Fey")).Annotate("host Tina Fey")
	if e, ok := ann.EntityAt(2); !ok || e.Text != "Tina Fey" {
		t.Errorf("EntityAt(2) = %+v, %v", e, ok)
	}
	if _, ok := ann.EntityAt(0); ok {
		t.Error("EntityAt(0) should miss")
	}
}
