// Package preprocess normalizes raw post text before annotation: markup
// and entity decoding, URL removal, ASCII folding and a language filter.
package preprocess

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/bbalet/stopwords"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	urlRe     = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	hashtagRe = regexp.MustCompile(`#(\w+)`)
)

// Clean returns text with markup decoded, URLs removed, accents folded,
// non-ASCII symbols dropped and whitespace collapsed.
func Clean(text string) string {
	text = decodeMarkup(text)
	text = urlRe.ReplaceAllString(text, " ")
	text = foldASCII(text)
	return strings.Join(strings.Fields(text), " ")
}

// decodeMarkup resolves HTML entities ("&amp;") and strips tags. Text that
// does not parse is returned unchanged.
func decodeMarkup(text string) string {
	if !strings.ContainsAny(text, "&<") {
		return text
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	return doc.Text()
}

// foldASCII decomposes accented letters and keeps only ASCII.
func foldASCII(text string) string {
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// Hashtags returns the hashtags of text in order of appearance, without
// the leading '#'.
func Hashtags(text string) []string {
	var tags []string
	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		tags = append(tags, m[1])
	}
	return tags
}

const (
	minLetters    = 3
	minLatinShare = 0.8
	minASCIIShare = 0.7
	plainASCII    = 0.95 // above this share no stopword evidence is needed
	shortWords    = 4
)

// English reports whether text plausibly is English, judged by character
// set: mostly Latin letters and mostly unaccented ones. Longer accented
// texts must also contain an English stopword. Text with fewer than three
// letters is rejected.
func English(text string) bool {
	var letters, latin, ascii int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Latin, r) {
			latin++
			if r <= unicode.MaxASCII {
				ascii++
			}
		}
	}
	if letters < minLetters {
		return false
	}
	asciiShare := float64(ascii) / float64(letters)
	if float64(latin)/float64(letters) < minLatinShare || asciiShare < minASCIIShare {
		return false
	}
	if asciiShare >= plainASCII {
		return true
	}
	words := strings.Fields(text)
	return len(words) < shortWords || hasStopword(words)
}

// hasStopword reports whether removing English stopwords drops any word.
func hasStopword(words []string) bool {
	kept := strings.Fields(stopwords.CleanString(strings.Join(words, " "), "en", false))
	return len(kept) < len(words)
}
