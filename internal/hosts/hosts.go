// Package hosts finds the ceremony hosts: the most-mentioned people in
// posts that talk about hosting.
package hosts

import (
	"regexp"

	"github.com/abelbrown/ggmine/internal/logging"
	"github.com/abelbrown/ggmine/internal/nlp"
	"github.com/abelbrown/ggmine/internal/post"
	"github.com/abelbrown/ggmine/internal/reconcile"
	"github.com/abelbrown/ggmine/internal/tally"
)

// DefaultTopK is how many hosts are reported.
const DefaultTopK = 3

var hostRe = regexp.MustCompile(`(?i)\bhost(s|ed|ing)?\b`)

// Mentions reports whether text talks about hosting.
func Mentions(text string) bool {
	return hostRe.MatchString(text)
}

// Count tallies the person names of every hosting post, then reconciles
// near-duplicate names at threshold.
func Count(x *nlp.Extractor, posts []post.Post, threshold int) *tally.Counter {
	counts := tally.New()
	matched := 0
	for _, p := range posts {
		if !Mentions(p.Text) {
			continue
		}
		matched++
		for _, name := range x.Persons(p.Text) {
			counts.Inc(name)
		}
	}
	logging.Debug("Host mentions counted", "posts", matched, "names", counts.Len())
	return reconcile.Reconcile(counts, threshold)
}

// Find returns the topK host names, most mentioned first. topK <= 0 means
// DefaultTopK.
func Find(x *nlp.Extractor, posts []post.Post, threshold, topK int) []string {
	if topK <= 0 {
		topK = DefaultTopK
	}
	var names []string
	for _, e := range Count(x, posts, threshold).Top(topK) {
		names = append(names, e.Name)
	}
	return names
}
