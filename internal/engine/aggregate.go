package engine

import (
	"strings"

	"fleet-inspection-analyzer/internal/models"
)

// Summarize computes the count-based aggregates over one run's output.
func Summarize(c models.Collections, skippedRows int) models.Summary {
	s := models.Summary{
		TotalVehicles:      len(c.Vehicles),
		TotalDrivers:       len(c.Drivers),
		TotalFailures:      len(c.MechanicalFailures),
		VehiclesByStatus:   make(map[models.StatusColor]int),
		DriversByStatus:    make(map[models.StatusColor]int),
		FailuresByCategory: make(map[models.FailureCategory]int),
		FailuresBySeverity: make(map[models.FailureSeverity]int),
		SkippedRows:        skippedRows,
	}
	for _, v := range c.Vehicles {
		s.VehiclesByStatus[v.StatusColor]++
	}
	for _, d := range c.Drivers {
		s.DriversByStatus[d.StatusColor]++
	}
	for _, f := range c.MechanicalFailures {
		s.FailuresByCategory[f.Category]++
		s.FailuresBySeverity[f.Severity]++
	}
	return s
}

// Filter applies every non-zero predicate of q conjunctively and returns
// a same-shaped subset of the collections.
func Filter(c models.Collections, q models.FilterQuery) models.Collections {
	out := models.Collections{}

	for _, v := range c.Vehicles {
		if q.StatusColor != "" && v.StatusColor != q.StatusColor {
			continue
		}
		if q.MinMileage > 0 && (v.Mileage == nil || *v.Mileage < q.MinMileage) {
			continue
		}
		if q.MaxMileage > 0 && (v.Mileage == nil || *v.Mileage > q.MaxMileage) {
			continue
		}
		out.Vehicles = append(out.Vehicles, v)
	}

	nameTerm := strings.ToLower(strings.TrimSpace(q.DriverName))
	for _, d := range c.Drivers {
		if q.StatusColor != "" && d.StatusColor != q.StatusColor {
			continue
		}
		if nameTerm != "" && !nameMatches(d.Name, nameTerm) {
			continue
		}
		out.Drivers = append(out.Drivers, d)
	}

	searchTerm := strings.ToLower(strings.TrimSpace(q.SearchTerm))
	for _, f := range c.MechanicalFailures {
		if q.StatusColor != "" && f.StatusColor != q.StatusColor {
			continue
		}
		if q.Category != "" && f.Category != q.Category {
			continue
		}
		if q.Severity != "" && f.Severity != q.Severity {
			continue
		}
		if searchTerm != "" && !strings.Contains(strings.ToLower(f.Description), searchTerm) {
			continue
		}
		out.MechanicalFailures = append(out.MechanicalFailures, f)
	}

	for _, a := range c.FatigueAssessments {
		if q.FatigueLevel != "" && a.Level != q.FatigueLevel {
			continue
		}
		if nameTerm != "" && !nameMatches(a.DriverName, nameTerm) {
			continue
		}
		out.FatigueAssessments = append(out.FatigueAssessments, a)
	}

	return out
}

// nameMatches prefers a prefix match but accepts the term anywhere in the
// name, so searching "per" finds both "Perez Juan" and "Juan Perez".
func nameMatches(name, term string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, term) || strings.Contains(lower, term)
}
