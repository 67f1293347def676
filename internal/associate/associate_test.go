package associate

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/abelbrown/ggmine/internal/awards"
	"github.com/abelbrown/ggmine/internal/nlp/nlptest"
	"github.com/abelbrown/ggmine/internal/post"
)

func at(ts int64, text string) post.Post {
	return post.Post{ID: ts, Text: text, Author: "u", Timestamp: ts}
}

func TestWindow(t *testing.T) {
	posts := []post.Post{at(10, "a"), at(20, "b"), at(20, "c"), at(30, "d"), at(40, "e")}
	tests := []struct {
		start, end int64
		want       []int64
	}{
		{20, 30, []int64{20, 20, 30}},
		{0, 100, []int64{10, 20, 20, 30, 40}},
		{11, 19, nil},
		{40, 40, []int64{40}},
		{41, 50, nil},
		{30, 20, nil},
	}
	for _, tt := range tests {
		var got []int64
		for _, p := range Window(posts, tt.start, tt.end) {
			got = append(got, p.Timestamp)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Window(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestWindowMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(30)
		ts := make([]int64, n)
		for i := range ts {
			ts[i] = rng.Int63n(50)
		}
		sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
		posts := make([]post.Post, n)
		for i, v := range ts {
			posts[i] = at(v, "x")
		}
		start, end := rng.Int63n(60)-5, rng.Int63n(60)-5

		var want []int64
		for _, v := range ts {
			if v >= start && v <= end {
				want = append(want, v)
			}
		}
		var got []int64
		for _, p := range Window(posts, start, end) {
			got = append(got, p.Timestamp)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Window(%v, %d, %d) = %v, want %v", ts, start, end, got, want)
		}
	}
}

func TestAssociate(t *testing.T) {
	const director = "Best Director - Motion Picture"
	const drama = "Best Motion Picture - Drama"
	records := map[string]*awards.Record{
		awards.Key(director): {Name: director, Count: 3, FirstSeen: 1000, LastSeen: 3000},
		awards.Key(drama):    {Name: drama, Count: 2, FirstSeen: 5000, LastSeen: 6000},
	}
	posts := []post.Post{
		at(1000, "Ben Affleck is nominated for Best Director - Motion Picture"),
		at(2000, "Jennifer Lawrence presents Best Director - Motion Picture"),
		at(2500, "Tina Fey presents nothing in particular"),
		at(3000, "Nominee: Kathryn Bigelow for Best Director - Motion Picture"),
		at(4000, "Steven Spielberg nominated for Best Director - Motion Picture"),
		at(5500, "Argo up for Best Motion Picture - Drama"),
	}
	ann := nlptest.New(
		nlptest.Person("Ben Affleck"), nlptest.Person("Jennifer Lawrence"),
		nlptest.Person("Tina Fey"), nlptest.Person("Kathryn Bigelow"),
		nlptest.Person("Steven Spielberg"), nlptest.Title("Argo"),
	)

	res := NewEngine(ann).Associate(posts, records)

	wantNominees := map[string][]string{
		"best director - motion picture": {"Ben Affleck", "Kathryn Bigelow"},
		"best motion picture - drama":    {"Argo"},
	}
	gotNominees := map[string][]string{}
	for k, v := range res.Nominees {
		gotNominees[k] = v.Sorted()
	}
	if !reflect.DeepEqual(gotNominees, wantNominees) {
		t.Errorf("Nominees = %v, want %v", gotNominees, wantNominees)
	}

	wantPresenters := map[string][]string{
		"Jennifer Lawrence": {"best director - motion picture"},
	}
	gotPresenters := map[string][]string{}
	for k, v := range res.Presenters {
		gotPresenters[k] = v.Sorted()
	}
	if !reflect.DeepEqual(gotPresenters, wantPresenters) {
		t.Errorf("Presenters = %v, want %v", gotPresenters, wantPresenters)
	}
}

func TestAssociateWithHints(t *testing.T) {
	const song = "Best Original Song - Motion Picture"
	const actor = "Best Actor in a Motion Picture - Drama"
	const actorTV = "Best Actor in a Television Series - Drama"
	records := map[string]*awards.Record{
		awards.Key(song):    {Name: song, Count: 2, FirstSeen: 1000, LastSeen: 3000},
		awards.Key(actor):   {Name: actor, Count: 2, FirstSeen: 1000, LastSeen: 3000},
		awards.Key(actorTV): {Name: actorTV, Count: 2, FirstSeen: 1000, LastSeen: 3000},
	}
	posts := []post.Post{
		at(1000, "Adele nominated for best original song #GoldenGlobes"),
		at(2000, "Skyfall up for it #BestOriginalSong"),
		at(3000, "Hugh Jackman nominated for Best Actor tonight"),
	}
	ann := nlptest.New(nlptest.Person("Adele"), nlptest.Title("Skyfall"), nlptest.Person("Hugh Jackman"))

	res := NewEngine(ann).WithHints("Best Original Song", "Best Actor", "Best Screenplay").Associate(posts, records)

	got := map[string][]string{}
	for k, v := range res.Nominees {
		got[k] = v.Sorted()
	}
	want := map[string][]string{
		"best original song - motion picture": {"Adele", "Skyfall"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Nominees = %v, want %v", got, want)
	}
}

func TestResolveHints(t *testing.T) {
	records := awards.Sorted(map[string]*awards.Record{
		"best director":                  {Name: "Best Director", FirstSeen: 1},
		"best director - motion picture": {Name: "Best Director - Motion Picture", FirstSeen: 2},
		"best original score":            {Name: "Best Original Score", FirstSeen: 3},
	})
	got := resolveHints([]string{"Best Director", "best  original", "Best Song", ""}, records)
	want := map[string]string{
		"best director": "best director",
		"bestdirector":  "best director",
		"best original": "best original score",
		"bestoriginal":  "best original score",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("resolveHints = %v, want %v", got, want)
	}
}

func TestAssociateEmpty(t *testing.T) {
	res := NewEngine(nlptest.New()).Associate(nil, nil)
	if len(res.Nominees) != 0 || len(res.Presenters) != 0 {
		t.Errorf("Associate(nil, nil) = %+v, want empty", res)
	}
}

func TestMentionedAward(t *testing.T) {
	names := []string{"Best Actress", "Best Actress in a Motion Picture - Drama", "Best Director"}
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"best actress in a motion picture - drama goes to Jessica Chastain", "Best Actress in a Motion Picture - Drama", true},
		{"and Best Actress goes to", "Best Actress", true},
		{"BEST DIRECTOR!", "Best Director", true},
		{"Best Screenplay", "", false},
	}
	for _, tt := range tests {
		got, ok := MentionedAward(tt.text, names)
		if got != tt.want || ok != tt.ok {
			t.Errorf("MentionedAward(%q) = %q, %v, want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStringSet(t *testing.T) {
	s := NewStringSet("b", "a", "b")
	s.Union(NewStringSet("c"))
	if got, want := s.Sorted(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
	if !s.Has("a") || s.Has("z") {
		t.Error("Has reported wrong membership")
	}
	if got := (StringSet{}).Sorted(); got != nil {
		t.Errorf("empty Sorted() = %v, want nil", got)
	}
}
