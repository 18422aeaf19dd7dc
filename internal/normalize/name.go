package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type abbreviation struct {
	short, full string
}

// nameAbbreviations maps shorthand inspectors write on the form to the
// full given name. Expansion is word-by-word: exact key match first, then
// a prefix match for words at most two runes longer than the key. Order is
// fixed so a word matching two entries always resolves the same way.
var nameAbbreviations = []abbreviation{
	{"jn", "juan"},
	{"jse", "jose"},
	{"fco", "francisco"},
	{"ma", "maria"},
	{"mgta", "margarita"},
	{"alej", "alejandro"},
	{"fdo", "fernando"},
	{"gmo", "guillermo"},
	{"rto", "roberto"},
	{"vcte", "vicente"},
}

// lowercaseParticles are never capitalized unless they open the name.
var lowercaseParticles = map[string]bool{
	"de": true, "del": true, "la": true, "las": true,
	"el": true, "los": true, "y": true, "e": true,
	"o": true, "u": true, "en": true, "a": true,
	"van": true, "von": true,
}

// Name canonicalizes a person name: keeps only letters and spaces,
// expands known abbreviations, and title-cases everything except
// connecting particles. Returns "" for input with no letters.
func Name(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(raw))

	words := strings.Fields(strings.ToLower(cleaned))
	if len(words) == 0 {
		return ""
	}

	for i, w := range words {
		words[i] = expandAbbreviation(w)
	}

	for i, w := range words {
		if i > 0 && lowercaseParticles[w] {
			continue
		}
		words[i] = capitalize(w)
	}

	return strings.Join(words, " ")
}

func expandAbbreviation(word string) string {
	for _, a := range nameAbbreviations {
		if word == a.short {
			return a.full
		}
	}
	for _, a := range nameAbbreviations {
		if strings.HasPrefix(word, a.short) &&
			utf8.RuneCountInString(word) <= utf8.RuneCountInString(a.short)+2 {
			return a.full
		}
	}
	return word
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
