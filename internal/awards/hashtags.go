package awards

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/abelbrown/ggmine/internal/post"
)

// MaxHashtagAwards caps how many hashtag-derived names FromHashtags keeps.
const MaxHashtagAwards = 3

var hashtagAwardRe = regexp.MustCompile(`(?i)^best\w+`)

// FromHashtags derives award names from "best..." hashtags, e.g.
// #BestOriginalSong becomes "Best Original Song". Tags that differ only in
// case or word breaks count once, under the first spelling seen. The
// longest MaxHashtagAwards names are returned, longest first.
func FromHashtags(posts []post.Post) []string {
	seen := make(map[string]string)
	for _, p := range posts {
		for _, tag := range p.Hashtags {
			m := hashtagAwardRe.FindString(strings.TrimPrefix(tag, "#"))
			if m == "" {
				continue
			}
			name := SplitHashtag(m)
			key := strings.ReplaceAll(Key(name), " ", "")
			if _, ok := seen[key]; !ok {
				seen[key] = name
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	if len(keys) > MaxHashtagAwards {
		keys = keys[:MaxHashtagAwards]
	}

	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = seen[k]
	}
	return names
}

// SplitHashtag breaks a hashtag into words on underscores, case changes
// and letter/digit boundaries. A leading "best" is always its own word, so
// #bestactress splits as "best actress".
func SplitHashtag(tag string) string {
	var words []string
	for _, part := range strings.FieldsFunc(tag, func(r rune) bool { return r == '_' || r == '#' }) {
		words = append(words, splitCamel(part)...)
	}
	if len(words) > 0 {
		first := words[0]
		if len(first) > len("best") && strings.EqualFold(first[:len("best")], "best") {
			words = append([]string{first[:len("best")], first[len("best"):]}, words[1:]...)
		}
	}
	return strings.Join(words, " ")
}

func splitCamel(s string) []string {
	rs := []rune(s)
	var words []string
	start := 0
	for i := 1; i < len(rs); i++ {
		prev, cur := rs[i-1], rs[i]
		boundary := unicode.IsLower(prev) && unicode.IsUpper(cur) ||
			unicode.IsDigit(prev) != unicode.IsDigit(cur) ||
			// "DGAAward": the last capital of a run starts the next word
			unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(rs) && unicode.IsLower(rs[i+1])
		if boundary {
			words = append(words, string(rs[start:i]))
			start = i
		}
	}
	if start < len(rs) {
		words = append(words, string(rs[start:]))
	}
	return words
}
