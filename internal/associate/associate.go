// Package associate links nominees and presenters to detected awards by
// scanning the posts inside each award's observed time window.
//
// Identity and award are found independently: the identity is an entity
// inside a nominee or presenter phrase, the award is whichever known award
// name the post mentions. Unrelated mentions in the same post can pair up.
package associate

import (
	"sort"
	"strings"

	"github.com/abelbrown/ggmine/internal/awards"
	"github.com/abelbrown/ggmine/internal/logging"
	"github.com/abelbrown/ggmine/internal/match"
	"github.com/abelbrown/ggmine/internal/nlp"
	"github.com/abelbrown/ggmine/internal/post"
)

// Result holds the associations found for one set of records.
type Result struct {
	Nominees   map[string]StringSet // award key -> nominees
	Presenters map[string]StringSet // presenter -> award keys
}

// NewResult returns an empty Result.
func NewResult() Result {
	return Result{Nominees: map[string]StringSet{}, Presenters: map[string]StringSet{}}
}

func (r Result) addNominee(award, nominee string) {
	if r.Nominees[award] == nil {
		r.Nominees[award] = StringSet{}
	}
	r.Nominees[award].Add(nominee)
}

func (r Result) addPresenter(presenter, award string) {
	if r.Presenters[presenter] == nil {
		r.Presenters[presenter] = StringSet{}
	}
	r.Presenters[presenter].Add(award)
}

// Window returns the sub-slice of posts with start <= Timestamp <= end.
// posts must be sorted by timestamp.
func Window(posts []post.Post, start, end int64) []post.Post {
	if start > end {
		return nil
	}
	lo := sort.Search(len(posts), func(i int) bool { return posts[i].Timestamp >= start })
	hi := sort.Search(len(posts), func(i int) bool { return posts[i].Timestamp > end })
	return posts[lo:hi]
}

var identity = match.Entity(nlp.LabelPerson, nlp.LabelOrg, nlp.LabelWorkOfArt, nlp.LabelTitle)

var nomineePatterns = []match.Pattern{
	{Name: "nominated-for", Elems: []match.Elem{
		{Match: identity, Op: match.OneOrMore},
		{Match: match.Lower("is", "was", "been", "gets", "got"), Op: match.Optional},
		{Match: match.Lower("nominated"), Op: match.One},
		{Match: match.Lower("for"), Op: match.One},
	}},
	{Name: "nominee", Elems: []match.Elem{
		{Match: match.Lower("nominee", "nominees"), Op: match.One},
		{Match: match.Text(":", "-"), Op: match.Optional},
		{Match: identity, Op: match.OneOrMore},
	}},
	{Name: "up-for", Elems: []match.Elem{
		{Match: identity, Op: match.OneOrMore},
		{Match: match.Lower("is"), Op: match.Optional},
		{Match: match.Lower("up"), Op: match.One},
		{Match: match.Lower("for"), Op: match.One},
	}},
}

var presenterPatterns = []match.Pattern{
	{Name: "presents", Elems: []match.Elem{
		{Match: identity, Op: match.OneOrMore},
		{Match: match.Lower("presents", "presenting", "presented"), Op: match.One},
	}},
	{Name: "announces", Elems: []match.Elem{
		{Match: identity, Op: match.OneOrMore},
		{Match: match.Lower("announces", "announcing", "announced"), Op: match.One},
	}},
	{Name: "to-present", Elems: []match.Elem{
		{Match: identity, Op: match.OneOrMore},
		{Match: match.Lower("to"), Op: match.One},
		{Match: match.Lower("present"), Op: match.One},
	}},
}

// Engine applies the nominee and presenter grammars.
type Engine struct {
	annotator  nlp.Annotator
	nominees   *match.Matcher
	presenters *match.Matcher
	hints      []string
}

// NewEngine returns an Engine backed by a. Annotating the same post for
// several awards is common, so a should usually be an nlp.Cached.
func NewEngine(a nlp.Annotator) *Engine {
	return &Engine{
		annotator:  a,
		nominees:   match.NewMatcher(nomineePatterns...),
		presenters: match.NewMatcher(presenterPatterns...),
	}
}

// WithHints adds award names known from elsewhere, such as hashtags. A
// hint that resolves to exactly one record becomes an alias for it, both as
// written and with spaces removed (#BestOriginalSong).
func (e *Engine) WithHints(names ...string) *Engine {
	e.hints = append(e.hints, names...)
	return e
}

// Associate scans, for every record, the posts inside its
// [FirstSeen, LastSeen] window. posts must be sorted by timestamp.
func (e *Engine) Associate(posts []post.Post, records map[string]*awards.Record) Result {
	res := NewResult()
	ordered := awards.Sorted(records)
	names := awardNames(ordered)
	aliases := resolveHints(e.hints, ordered)
	names = append(names, sortedKeys(aliases)...)

	scanned := 0
	for _, rec := range ordered {
		for _, p := range Window(posts, rec.FirstSeen, rec.LastSeen) {
			e.scanPost(p.Text, names, aliases, res)
			scanned++
		}
	}
	logging.Debug("Association complete",
		"awards", len(records), "posts", scanned,
		"nominated", len(res.Nominees), "presenters", len(res.Presenters))
	return res
}

func (e *Engine) scanPost(text string, names []string, aliases map[string]string, res Result) {
	name, ok := MentionedAward(text, names)
	if !ok {
		return
	}
	award := awards.Key(name)
	if key, ok := aliases[award]; ok {
		award = key
	}
	ann := nlp.Annotate(e.annotator, text)
	if len(ann.Entities) == 0 {
		return
	}
	for _, id := range identities(ann, e.nominees) {
		res.addNominee(award, id)
	}
	for _, id := range identities(ann, e.presenters) {
		res.addPresenter(id, award)
	}
}

// identities returns the first qualifying entity inside each match.
func identities(ann *nlp.Annotation, m *match.Matcher) []string {
	var out []string
	for _, s := range match.Longest(m.FindAll(ann.Tokens)) {
		for _, ent := range ann.Entities {
			if ent.Start >= s.Start && ent.End <= s.End && isIdentity(ent.Label) {
				out = append(out, ent.Text)
				break
			}
		}
	}
	return out
}

func isIdentity(label string) bool {
	switch label {
	case nlp.LabelPerson, nlp.LabelOrg, nlp.LabelWorkOfArt, nlp.LabelTitle:
		return true
	}
	return false
}

// MentionedAward picks the longest of names that text contains, ignoring
// case. Ties go to the earlier name.
func MentionedAward(text string, names []string) (string, bool) {
	lower := strings.ToLower(text)
	best := ""
	for _, n := range names {
		if len(n) > len(best) && strings.Contains(lower, strings.ToLower(n)) {
			best = n
		}
	}
	return best, best != ""
}

func awardNames(records []*awards.Record) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return names
}

// resolveHints maps each hint alias key onto the record it names: the
// record with the same key, otherwise the only record whose name contains
// the hint as whole words. Ambiguous and unknown hints are dropped.
func resolveHints(hints []string, records []*awards.Record) map[string]string {
	aliases := make(map[string]string)
	for _, hint := range hints {
		key, ok := resolveHint(awards.Key(hint), records)
		if !ok {
			continue
		}
		aliases[awards.Key(hint)] = key
		aliases[strings.ReplaceAll(awards.Key(hint), " ", "")] = key
	}
	return aliases
}

func resolveHint(hint string, records []*awards.Record) (string, bool) {
	if hint == "" {
		return "", false
	}
	var found []string
	for _, r := range records {
		key := awards.Key(r.Name)
		if key == hint {
			return key, true
		}
		if strings.Contains(" "+key+" ", " "+hint+" ") {
			found = append(found, key)
		}
	}
	if len(found) != 1 {
		return "", false
	}
	return found[0], true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
