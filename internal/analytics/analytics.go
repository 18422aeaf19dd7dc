// Package analytics computes risk aggregations over stored inspection
// history: high-risk drivers, consecutive-failure streaks, and the recent
// failure rate. Everything here is plain counting over driver outcomes.
package analytics

import "time"

// Risk thresholds. A driver failing more than a fifth of inspections is
// flagged; above two fifths the flag escalates. The recent window covers
// the last 30 days of recorded history.
const (
	highRiskRateMin   = 0.2
	severeRiskRateMin = 0.4
	recentWindowDays  = 30
	urgentRecentRate  = 25.0
	minStreakLength   = 2
)

// Risk levels reported for flagged drivers.
const (
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Outcome is one driver inspection result drawn from stored history.
// Date is YYYY-MM-DD and may be empty when the form carried none.
type Outcome struct {
	DriverName string `json:"driver_name"`
	Date       string `json:"date"`
	Failed     bool   `json:"failed"`
}

// DriverRisk flags a driver whose failure rate crossed the threshold.
type DriverRisk struct {
	DriverName  string  `json:"driver_name"`
	Inspections int     `json:"inspections"`
	Failures    int     `json:"failures"`
	FailureRate float64 `json:"failure_rate"`
	RiskLevel   string  `json:"risk_level"`
}

// FailureStreak is a run of consecutive failed inspections for one driver.
type FailureStreak struct {
	DriverName string `json:"driver_name"`
	Length     int    `json:"length"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// Action is a dispatcher recommendation derived from the aggregates.
type Action struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Drivers     []string `json:"drivers,omitempty"`
}

// Report bundles the aggregates served by the analytics endpoint.
type Report struct {
	HighRiskDrivers     []DriverRisk    `json:"high_risk_drivers"`
	ConsecutiveFailures []FailureStreak `json:"consecutive_failures"`
	RecentFailureRate   float64         `json:"recent_failure_rate"`
	ImmediateActions    []Action        `json:"immediate_actions"`
}

// Analyze computes the full report over history. Callers supply outcomes
// oldest first; all grouping preserves first-seen driver order so the
// report is deterministic.
func Analyze(history []Outcome) Report {
	r := Report{
		HighRiskDrivers:     HighRiskDrivers(history),
		ConsecutiveFailures: ConsecutiveFailures(history),
		RecentFailureRate:   RecentFailureRate(history),
	}
	r.ImmediateActions = immediateActions(r)
	return r
}

// HighRiskDrivers flags drivers whose failure rate exceeds the threshold,
// escalating the level above the severe bound.
func HighRiskDrivers(history []Outcome) []DriverRisk {
	type tally struct{ total, failed int }
	var order []string
	byDriver := make(map[string]*tally)
	for _, o := range history {
		t, ok := byDriver[o.DriverName]
		if !ok {
			t = &tally{}
			byDriver[o.DriverName] = t
			order = append(order, o.DriverName)
		}
		t.total++
		if o.Failed {
			t.failed++
		}
	}

	var risks []DriverRisk
	for _, name := range order {
		t := byDriver[name]
		rate := float64(t.failed) / float64(t.total)
		if rate <= highRiskRateMin {
			continue
		}
		level := RiskMedium
		if rate > severeRiskRateMin {
			level = RiskHigh
		}
		risks = append(risks, DriverRisk{
			DriverName:  name,
			Inspections: t.total,
			Failures:    t.failed,
			FailureRate: rate,
			RiskLevel:   level,
		})
	}
	return risks
}

// ConsecutiveFailures returns every run of two or more failed inspections
// per driver. A streak still open at the end of history is reported with
// its last failure as the end date.
func ConsecutiveFailures(history []Outcome) []FailureStreak {
	var order []string
	byDriver := make(map[string][]Outcome)
	for _, o := range history {
		if _, ok := byDriver[o.DriverName]; !ok {
			order = append(order, o.DriverName)
		}
		byDriver[o.DriverName] = append(byDriver[o.DriverName], o)
	}

	var streaks []FailureStreak
	for _, name := range order {
		length := 0
		var start, last string
		flush := func() {
			if length >= minStreakLength {
				streaks = append(streaks, FailureStreak{
					DriverName: name,
					Length:     length,
					StartDate:  start,
					EndDate:    last,
				})
			}
			length = 0
		}
		for _, o := range byDriver[name] {
			if o.Failed {
				if length == 0 {
					start = o.Date
				}
				length++
				last = o.Date
				continue
			}
			flush()
		}
		flush()
	}
	return streaks
}

// RecentFailureRate is the percentage of failed inspections within the
// trailing window, measured back from the newest dated outcome. Undated
// outcomes are excluded.
func RecentFailureRate(history []Outcome) float64 {
	var newest time.Time
	found := false
	for _, o := range history {
		t, err := time.Parse("2006-01-02", o.Date)
		if err != nil {
			continue
		}
		if !found || t.After(newest) {
			newest = t
			found = true
		}
	}
	if !found {
		return 0
	}

	cutoff := newest.AddDate(0, 0, -recentWindowDays)
	total, failed := 0, 0
	for _, o := range history {
		t, err := time.Parse("2006-01-02", o.Date)
		if err != nil || t.Before(cutoff) {
			continue
		}
		total++
		if o.Failed {
			failed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(failed) / float64(total) * 100
}

func immediateActions(r Report) []Action {
	var actions []Action

	if len(r.HighRiskDrivers) > 0 {
		var severe []string
		for _, d := range r.HighRiskDrivers {
			if d.RiskLevel == RiskHigh {
				severe = append(severe, d.DriverName)
			}
		}
		actions = append(actions, Action{
			Type:        "intensive_supervision",
			Description: "Place high-risk drivers under intensive supervision",
			Drivers:     severe,
		})
	}

	if r.RecentFailureRate > urgentRecentRate {
		actions = append(actions, Action{
			Type:        "urgent_review",
			Description: "Review the inspection control process urgently",
		})
	}

	if len(r.ConsecutiveFailures) > 0 {
		actions = append(actions, Action{
			Type:        "immediate_intervention",
			Description: "Intervene with drivers showing consecutive failed inspections",
		})
	}
	return actions
}
