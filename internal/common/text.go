package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics folds accented characters to their base form
// ("caffè" -> "caffe").
func StripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

// CollapseWhitespace replaces runs of whitespace with a single space and
// trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeText lowercases and collapses whitespace. Used wherever two
// descriptions must compare equal regardless of case and spacing.
func NormalizeText(s string) string {
	return CollapseWhitespace(strings.ToLower(s))
}

// NormalizeAlnum lowercases, strips diacritics, replaces every
// non-alphanumeric rune with a space and collapses the result. This is the
// canonical form for merchant keys and category keywords.
func NormalizeAlnum(s string) string {
	s = StripDiacritics(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return CollapseWhitespace(b.String())
}
