package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var numberExpr = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// Number pulls the first numeric value out of noisy text such as
// "185,000 km" or "aprox 45". Returns nil when no digits are present.
func Number(raw string) *float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	match := numberExpr.FindString(s)
	if match == "" {
		return nil
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &v
}

// WorkHours computes the shift length between two normalized HH:MM times.
// A finish time before the start is assumed to cross midnight. Returns 0
// when either time fails to parse.
func WorkHours(start, end string) float64 {
	s, err1 := time.Parse("15:04", Time(start))
	e, err2 := time.Parse("15:04", Time(end))
	if err1 != nil || err2 != nil {
		return 0
	}
	d := e.Sub(s)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d.Hours()
}
