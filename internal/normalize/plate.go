package normalize

import (
	"regexp"
	"strings"
)

// validPlatePatterns are the registration formats accepted verbatim after
// cleanup. Anything else is rebuilt as LETTERS-DIGITS.
var validPlatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]{3}-[0-9]{3}$`), // hyphenated standard: ABC-123
	regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`),  // compact standard: ABC123
	regexp.MustCompile(`^[A-Z]{2}[0-9]{4}$`),  // special series: AB1234
	regexp.MustCompile(`^[A-Z]{3}[0-9]{2}[A-Z]$`), // diplomatic: ABC12D
	regexp.MustCompile(`^[0-9]{3}[A-Z]{3}$`),      // motorcycle: 123ABC
}

var (
	plateJunk = regexp.MustCompile(`[^A-Z0-9-]`)
	letterRun = regexp.MustCompile(`[A-Z]+`)
	digitRun  = regexp.MustCompile(`[0-9]+`)
)

// PlateCode canonicalizes a vehicle registration identifier. Input
// matching a known pattern is kept as-is; otherwise the leading letter run
// and first digit run are rejoined as LETTERS-DIGITS. When either run is
// missing the cleaned string comes back unchanged.
func PlateCode(raw string) string {
	cleaned := plateJunk.ReplaceAllString(strings.ToUpper(strings.TrimSpace(raw)), "")
	if cleaned == "" {
		return ""
	}

	for _, p := range validPlatePatterns {
		if p.MatchString(cleaned) {
			return cleaned
		}
	}

	letters := letterRun.FindString(cleaned)
	digits := digitRun.FindString(cleaned)
	if letters == "" || digits == "" {
		return cleaned
	}
	return letters + "-" + digits
}
