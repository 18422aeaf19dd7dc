package normalize

import (
	"regexp"

	"fleet-inspection-analyzer/internal/models"
)

// yesNoSynonyms resolves the many ways inspectors mark an answer: words in
// Spanish and English, check-mark symbols, boolean/numeric literals, and
// the healthy-state words used in check columns. Keys are in foldKey form
// (lower-cased, accent-free).
var yesNoSynonyms = map[string]models.Answer{
	"si":     models.AnswerYes,
	"s":      models.AnswerYes,
	"yes":    models.AnswerYes,
	"y":      models.AnswerYes,
	"true":   models.AnswerYes,
	"1":      models.AnswerYes,
	"x":      models.AnswerYes,
	"ok":     models.AnswerYes,
	"cumple": models.AnswerYes,
	"normal": models.AnswerYes,
	"bien":   models.AnswerYes,
	"bueno":  models.AnswerYes,
	"buena":  models.AnswerYes,
	"✓":      models.AnswerYes,
	"✔":      models.AnswerYes,

	"no":        models.AnswerNo,
	"n":         models.AnswerNo,
	"false":     models.AnswerNo,
	"0":         models.AnswerNo,
	"no cumple": models.AnswerNo,
	"✗":         models.AnswerNo,
	"✘":         models.AnswerNo,
}

// Fallback word matching. The negative side matches "no" only as a whole
// word: "NORMAL" and "bueno" contain the letters but are not refusals.
var (
	noWordExpr  = regexp.MustCompile(`(^|\s)no($|\s)`)
	yesWordExpr = regexp.MustCompile(`(^|\s)(si|yes)($|\s)`)
)

// YesNo maps a raw cell to yes, no, or unknown. Exact synonym lookup
// first; otherwise whole-word fallback, negative before affirmative so
// "no cumple bien" lands on no. Anything else is unknown, never no.
func YesNo(raw string) models.Answer {
	key := foldKey(raw)
	if key == "" {
		return models.AnswerUnknown
	}
	if a, ok := yesNoSynonyms[key]; ok {
		return a
	}
	if noWordExpr.MatchString(key) {
		return models.AnswerNo
	}
	if yesWordExpr.MatchString(key) {
		return models.AnswerYes
	}
	return models.AnswerUnknown
}
