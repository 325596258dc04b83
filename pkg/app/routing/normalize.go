package routing

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const tatweel = 'ـ'

// Normalize returns the matching form of text: lower case, diacritics and
// tatweel stripped, punctuation and symbols turned into single spaces.
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		folded = strings.ToLower(text)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == tatweel:
			continue
		case unicode.IsPunct(r), unicode.IsSymbol(r), unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func containsPhrase(normalized, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(" "+normalized+" ", " "+phrase+" ")
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || r == tatweel
}

type span struct {
	start, end int
}

func isWordBreak(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// words splits text into runs of word runes and keeps byte offsets into
// text. Punctuation glued to a word, as in "goku,salut", ends the word.
func words(text string) []span {
	var (
		out   []span
		start = -1
	)
	for i, r := range text {
		if isWordBreak(r) {
			if start >= 0 {
				out = append(out, span{start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, span{start: start, end: len(text)})
	}
	return out
}

// cut removes text[s.start:s.end] and joins both sides with a single space.
// Separators left at the head of the result are dropped.
func cut(text string, s span) string {
	before := strings.TrimRightFunc(text[:s.start], unicode.IsSpace)
	after := strings.TrimLeftFunc(text[s.end:], unicode.IsSpace)
	var joined string
	switch {
	case before == "":
		joined = after
	case after == "":
		joined = before
	default:
		joined = before + " " + after
	}
	return strings.TrimSpace(strings.TrimLeftFunc(joined, isSeparator))
}
