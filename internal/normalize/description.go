package normalize

import "strings"

// spellingCorrections folds common misspellings and synonyms so the
// classifier keyword tables see one canonical word. Applied word-by-word
// after lower-casing and accent folding.
var spellingCorrections = map[string]string{
	"defect":   "failure",
	"defecto":  "falla",
	"fallo":    "falla",
	"averia":   "falla",
	"danado":   "roto",
	"quebrado": "roto",
	"llantas":  "llanta",
	"frenos":   "freno",
	"luz":      "luces",
	"neumatic": "neumatico",
}

// descriptionStopWords are articles, pronouns and copulas stripped from
// failure text before keyword matching.
var descriptionStopWords = map[string]bool{
	"el": true, "la": true, "los": true, "las": true,
	"un": true, "una": true, "de": true, "del": true,
	"se": true, "le": true, "lo": true, "que": true,
	"es": true, "esta": true, "estan": true, "hay": true,
	"the": true, "a": true, "an": true, "is": true,
	"are": true, "was": true, "it": true, "its": true,
}

// FailureDescription canonicalizes free-text defect descriptions:
// lower-case, accent folding, spelling corrections, stop-word removal,
// whitespace collapse. Returns "" when nothing but stop words remain.
func FailureDescription(raw string) string {
	words := strings.Fields(foldKey(raw))

	out := words[:0]
	for _, w := range words {
		if corrected, ok := spellingCorrections[w]; ok {
			w = corrected
		}
		if descriptionStopWords[w] {
			continue
		}
		out = append(out, w)
	}

	return strings.Join(out, " ")
}
