package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func history() []Outcome {
	return []Outcome{
		{DriverName: "Juan Perez", Date: "2024-03-01", Failed: true},
		{DriverName: "Juan Perez", Date: "2024-03-05", Failed: true},
		{DriverName: "Juan Perez", Date: "2024-03-09", Failed: false},
		{DriverName: "Juan Perez", Date: "2024-03-12", Failed: false},
		{DriverName: "Maria Lopez", Date: "2024-03-02", Failed: false},
		{DriverName: "Maria Lopez", Date: "2024-03-06", Failed: true},
		{DriverName: "Maria Lopez", Date: "2024-03-10", Failed: false},
		{DriverName: "Maria Lopez", Date: "2024-03-13", Failed: false},
		{DriverName: "Pedro Gomez", Date: "2024-01-15", Failed: false},
		{DriverName: "Pedro Gomez", Date: "2024-01-20", Failed: false},
	}
}

func TestHighRiskDrivers(t *testing.T) {
	got := HighRiskDrivers(history())
	want := []DriverRisk{
		{DriverName: "Juan Perez", Inspections: 4, Failures: 2, FailureRate: 0.5, RiskLevel: RiskHigh},
		{DriverName: "Maria Lopez", Inspections: 4, Failures: 1, FailureRate: 0.25, RiskLevel: RiskMedium},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("high-risk drivers mismatch (-want +got):\n%s", diff)
	}
}

func TestConsecutiveFailures(t *testing.T) {
	got := ConsecutiveFailures(history())
	want := []FailureStreak{
		{DriverName: "Juan Perez", Length: 2, StartDate: "2024-03-01", EndDate: "2024-03-05"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("streak mismatch (-want +got):\n%s", diff)
	}
}

func TestConsecutiveFailuresOpenStreak(t *testing.T) {
	got := ConsecutiveFailures([]Outcome{
		{DriverName: "Juan Perez", Date: "2024-03-01", Failed: false},
		{DriverName: "Juan Perez", Date: "2024-03-05", Failed: true},
		{DriverName: "Juan Perez", Date: "2024-03-09", Failed: true},
		{DriverName: "Juan Perez", Date: "2024-03-12", Failed: true},
	})
	want := []FailureStreak{
		{DriverName: "Juan Perez", Length: 3, StartDate: "2024-03-05", EndDate: "2024-03-12"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("open streak mismatch (-want +got):\n%s", diff)
	}
}

func TestRecentFailureRate(t *testing.T) {
	// Newest outcome is 2024-03-13, so the window starts 2024-02-12 and
	// Pedro Gomez's January inspections fall outside it.
	got := RecentFailureRate(history())
	if got != 37.5 {
		t.Errorf("RecentFailureRate = %v, want 37.5", got)
	}
}

func TestRecentFailureRateNoDates(t *testing.T) {
	got := RecentFailureRate([]Outcome{
		{DriverName: "Juan Perez", Failed: true},
		{DriverName: "Maria Lopez", Failed: false},
	})
	if got != 0 {
		t.Errorf("RecentFailureRate = %v, want 0", got)
	}
}

func TestAnalyzeActions(t *testing.T) {
	report := Analyze(history())

	if report.RecentFailureRate != 37.5 {
		t.Fatalf("RecentFailureRate = %v, want 37.5", report.RecentFailureRate)
	}

	var types []string
	for _, a := range report.ImmediateActions {
		types = append(types, a.Type)
	}
	want := []string{"intensive_supervision", "urgent_review", "immediate_intervention"}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("action types mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"Juan Perez"}, report.ImmediateActions[0].Drivers); diff != "" {
		t.Errorf("supervision drivers mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeEmptyHistory(t *testing.T) {
	report := Analyze(nil)
	if len(report.HighRiskDrivers) != 0 || len(report.ConsecutiveFailures) != 0 ||
		report.RecentFailureRate != 0 || len(report.ImmediateActions) != 0 {
		t.Errorf("Analyze(nil) = %+v, want empty report", report)
	}
}
