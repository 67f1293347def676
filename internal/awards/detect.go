// Package awards detects award-name phrases in a cluster of posts and
// credits winner candidates to each.
package awards

import (
	"regexp"
	"strings"

	"github.com/abelbrown/ggmine/internal/logging"
	"github.com/abelbrown/ggmine/internal/match"
	"github.com/abelbrown/ggmine/internal/nlp"
	"github.com/abelbrown/ggmine/internal/post"
	"github.com/abelbrown/ggmine/internal/reconcile"
	"github.com/bbalet/stopwords"
)

// Options tunes detection.
type Options struct {
	MinSpanTokens  int // shorter spans are rarely full award titles
	MinOccurrences int // Finalize drops records below this count
	Threshold      int // winner reconciliation threshold
}

// DefaultOptions returns the standard settings.
func DefaultOptions() Options {
	return Options{MinSpanTokens: 4, MinOccurrences: 2, Threshold: reconcile.DefaultThreshold}
}

// Detector finds award phrases. It holds no per-run state; the same
// Detector may scan many clusters.
type Detector struct {
	annotator nlp.Annotator
	matcher   *match.Matcher
	opts      Options
}

// NewDetector returns a Detector over a.
func NewDetector(a nlp.Annotator, opts Options) *Detector {
	return &Detector{
		annotator: a,
		matcher:   match.NewMatcher(awardPatterns...),
		opts:      opts,
	}
}

// Detect scans posts, drops records seen fewer than MinOccurrences times,
// and reconciles each remaining record's winner candidates.
func (d *Detector) Detect(posts []post.Post) map[string]*Record {
	return Finalize(d.Scan(posts), d.opts.MinOccurrences, d.opts.Threshold)
}

// Scan accumulates raw records keyed by normalized award name, with no
// occurrence filtering.
func (d *Detector) Scan(posts []post.Post) map[string]*Record {
	records := make(map[string]*Record)
	for _, p := range posts {
		d.scanPost(p, records)
	}
	logging.Debug("Award scan complete", "posts", len(posts), "records", len(records))
	return records
}

// Spans returns the award-name spans found in an annotation.
func (d *Detector) Spans(ann *nlp.Annotation) []match.Span {
	var out []match.Span
	for _, s := range match.Longest(d.matcher.FindAll(ann.Tokens)) {
		if s.Len() >= d.opts.MinSpanTokens {
			out = append(out, s)
		}
	}
	return out
}

func (d *Detector) scanPost(p post.Post, records map[string]*Record) {
	ann := nlp.Annotate(d.annotator, p.Text)
	spans := d.Spans(ann)
	if len(spans) == 0 {
		return
	}

	persons := multiTokenPersons(ann)
	for _, s := range spans {
		name := s.Text(ann.Tokens)
		key := Key(name)
		rec, ok := records[key]
		if !ok {
			rec = newRecord(name, p.Timestamp)
			records[key] = rec
		}
		rec.observe(p.Timestamp)

		if len(persons) > 0 {
			for _, person := range persons {
				rec.Winners.Inc(person)
			}
			continue
		}
		if title, ok := TitleCandidate(p.Text, name); ok {
			rec.Winners.Inc(title)
		}
	}
}

func multiTokenPersons(ann *nlp.Annotation) []string {
	var names []string
	for _, e := range ann.Entities {
		if e.Label == nlp.LabelPerson && e.Len() >= 2 {
			names = append(names, e.Text)
		}
	}
	return names
}

// Finalize keeps records with Count >= minCount and reconciles their
// winner candidates. Input records are not modified.
func Finalize(records map[string]*Record, minCount, threshold int) map[string]*Record {
	out := make(map[string]*Record, len(records))
	for key, rec := range records {
		if rec.Count < minCount {
			continue
		}
		kept := rec.Clone()
		kept.Winners = reconcile.Reconcile(kept.Winners, threshold)
		out[key] = kept
	}
	return out
}

type separator struct {
	re   *regexp.Regexp
	left bool // take the text before the separator
}

// separators split "<award> goes to <title>" style posts, tried in order.
var separators = []separator{
	{re: regexp.MustCompile(`:`)},
	{re: regexp.MustCompile(`\s+[-–—]+\s+|^\s*[-–—]+\s+`)},
	{re: regexp.MustCompile(`(?i)\bgoes to\b`)},
	{re: regexp.MustCompile(`(?i)\bwinner is\b`)},
	{re: regexp.MustCompile(`(?i)\bwins\b`), left: true},
	{re: regexp.MustCompile(`(?i)\bwin\b`), left: true},
}

var clauseEnd = regexp.MustCompile(`[.!?,;()"]|\bfor\b|\bat\b|#|@|\bhttp`)

// maxTitleWords bounds a credited title; longer runs are sentence noise.
const maxTitleWords = 6

// TitleCandidate guesses a winning title when a post has no person names.
// The award name is cut out of text and the remainder is split on the
// first matching separator.
func TitleCandidate(text, award string) (string, bool) {
	rest := text
	if loc := awardIndex(text, award); loc != nil {
		rest = text[:loc[0]] + " " + text[loc[1]:]
	}

	for _, sep := range separators {
		loc := sep.re.FindStringIndex(rest)
		if loc == nil {
			continue
		}
		var side string
		if sep.left {
			side = rest[:loc[0]]
			if i := lastClauseStart(side); i > 0 {
				side = side[i:]
			}
		} else {
			side = rest[loc[1]:]
			if end := clauseEnd.FindStringIndex(side); end != nil {
				side = side[:end[0]]
			}
		}
		return cleanTitle(side)
	}
	return "", false
}

// awardIndex locates award in text case-insensitively. Offsets refer to
// text itself, whose case-folded form may differ in byte length.
func awardIndex(text, award string) []int {
	if award == "" {
		return nil
	}
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(award)).FindStringIndex(text)
}

// lastClauseStart finds where the clause ending at the end of s begins.
func lastClauseStart(s string) int {
	return strings.LastIndexAny(s, ".!?,;:\"") + 1
}

func cleanTitle(s string) (string, bool) {
	s = strings.Trim(strings.TrimSpace(s), "!?.,;:'\"-–— ")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" || len(strings.Fields(s)) > maxTitleWords {
		return "", false
	}
	if strings.TrimSpace(stopwords.CleanString(s, "en", false)) == "" {
		return "", false
	}
	return s, true
}
