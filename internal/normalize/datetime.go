package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type rewrite struct {
	pattern *regexp.Regexp
	apply   func(m []string) string
}

// timeRewrites convert the malformed time notations seen on real forms to
// HH:MM. The first matching rewrite wins; unmatched input passes through.
var timeRewrites = []rewrite{
	// 14h30, 9H5
	{regexp.MustCompile(`^(\d{1,2})[hH](\d{1,2})$`), hhmm},
	// trailing seconds: 14:30:00
	{regexp.MustCompile(`^(\d{1,2}):(\d{1,2}):\d{1,2}$`), hhmm},
	// dot or comma separator: 14.30
	{regexp.MustCompile(`^(\d{1,2})[.,](\d{2})$`), hhmm},
	// missing separator: 1430, 930
	{regexp.MustCompile(`^(\d{1,2})(\d{2})$`), hhmm},
	// already HH:MM, re-padded
	{regexp.MustCompile(`^(\d{1,2}):(\d{1,2})$`), hhmm},
}

func hhmm(m []string) string {
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%02d:%02d", h, min)
}

// Time rewrites common malformed time notations into HH:MM.
func Time(raw string) string {
	s := strings.TrimSpace(raw)
	for _, r := range timeRewrites {
		if m := r.pattern.FindStringSubmatch(s); m != nil {
			return r.apply(m)
		}
	}
	return s
}

// dateRewrites convert day-first and year-first calendar notations, slash
// or hyphen separated, to YYYY-MM-DD with zero padding.
var dateRewrites = []rewrite{
	// DD/MM/YYYY or DD-MM-YYYY
	{regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`), func(m []string) string {
		return isoDate(m[3], m[2], m[1])
	}},
	// YYYY/MM/DD or YYYY-MM-DD
	{regexp.MustCompile(`^(\d{4})[/-](\d{1,2})[/-](\d{1,2})$`), func(m []string) string {
		return isoDate(m[1], m[2], m[3])
	}},
	// DD/MM/YY or DD-MM-YY, pivoting two-digit years into 2000s
	{regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2})$`), func(m []string) string {
		yy, _ := strconv.Atoi(m[3])
		year := 2000 + yy
		if yy >= 70 {
			year = 1900 + yy
		}
		return isoDate(strconv.Itoa(year), m[2], m[1])
	}},
}

func isoDate(y, m, d string) string {
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(m)
	day, _ := strconv.Atoi(d)
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// Date rewrites DD/MM/YYYY, DD/MM/YY and YYYY/MM/DD variants into
// YYYY-MM-DD. Unrecognized input passes through for the caller to judge.
func Date(raw string) string {
	s := strings.TrimSpace(raw)
	for _, r := range dateRewrites {
		if m := r.pattern.FindStringSubmatch(s); m != nil {
			return r.apply(m)
		}
	}
	return s
}
