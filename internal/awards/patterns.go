package awards

import "github.com/abelbrown/ggmine/internal/match"

var (
	best       = match.And(match.Lower("best"), match.IsTitle())
	properWord = match.And(match.IsTitle(), match.POS("PROPN"))
	titleWord  = match.And(match.IsTitle(), match.POS("PROPN", "NOUN", "ADJ"))
	hyphen     = match.Text("-", "–", "—")
	article    = match.Lower("a", "an")
)

// orClause is the optional "or Musical" tail, e.g. "Comedy or Musical".
var orClause = []match.Elem{
	{Match: match.Lower("or"), Op: match.Optional},
	{Match: titleWord, Op: match.ZeroOrMore},
}

func withTail(elems ...match.Elem) []match.Elem {
	return append(elems, orClause...)
}

// awardPatterns express the award-title grammar, most general first.
var awardPatterns = []match.Pattern{
	{
		// Best Director - Motion Picture, Best Original Score
		Name: "best-category",
		Elems: withTail(
			match.Elem{Match: best, Op: match.One},
			match.Elem{Match: properWord, Op: match.OneOrMore},
			match.Elem{Match: hyphen, Op: match.Optional},
			match.Elem{Match: titleWord, Op: match.ZeroOrMore},
		),
	},
	{
		// Best Performance by an Actress in a Motion Picture - Drama
		Name: "best-performance",
		Elems: withTail(
			match.Elem{Match: best, Op: match.One},
			match.Elem{Match: match.Lower("performance"), Op: match.One},
			match.Elem{Match: match.Lower("by"), Op: match.One},
			match.Elem{Match: article, Op: match.One},
			match.Elem{Match: match.Lower("actor", "actress"), Op: match.One},
			match.Elem{Match: match.Lower("in"), Op: match.One},
			match.Elem{Match: article, Op: match.One},
			match.Elem{Match: titleWord, Op: match.OneOrMore},
			match.Elem{Match: hyphen, Op: match.Optional},
			match.Elem{Match: titleWord, Op: match.ZeroOrMore},
		),
	},
	{
		// Best Actress in a Motion Picture - Comedy or Musical
		Name: "best-in",
		Elems: withTail(
			match.Elem{Match: best, Op: match.One},
			match.Elem{Match: titleWord, Op: match.OneOrMore},
			match.Elem{Match: match.Lower("in"), Op: match.One},
			match.Elem{Match: article, Op: match.One},
			match.Elem{Match: titleWord, Op: match.OneOrMore},
			match.Elem{Match: hyphen, Op: match.Optional},
			match.Elem{Match: titleWord, Op: match.ZeroOrMore},
		),
	},
}
