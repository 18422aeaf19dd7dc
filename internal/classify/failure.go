package classify

import (
	"strings"

	"fleet-inspection-analyzer/internal/models"
)

// FailureCategory resolves the affected system from a normalized
// description. First matching keyword in table order wins; descriptions
// matching nothing fall into "other".
func FailureCategory(description string) models.FailureCategory {
	desc := strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.Category
			}
		}
	}
	return models.CategoryOther
}

// FailureSeverity ranks a normalized description, worst level first.
// Unmatched descriptions default to medium.
func FailureSeverity(description string) models.FailureSeverity {
	desc := strings.ToLower(description)
	for _, rule := range severityRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.Severity
			}
		}
	}
	return models.SeverityMedium
}

// FailureStatusColor derives the traffic light for one failure record.
// A blank description means nothing was reported.
func FailureStatusColor(description string) models.StatusColor {
	if strings.TrimSpace(description) == "" {
		return models.StatusGreen
	}
	switch FailureSeverity(description) {
	case models.SeverityCritical:
		return models.StatusRed
	case models.SeverityHigh, models.SeverityMedium:
		return models.StatusYellow
	default:
		return models.StatusGreen
	}
}
