package classify

import "fleet-inspection-analyzer/internal/models"

// FatigueScore counts the good answers among the four fitness questions.
// The substances question has inverted polarity: "no" is the good answer.
// Unknown answers never count.
func FatigueScore(slept, symptomFree, fit, substances models.Answer) int {
	score := 0
	for _, a := range []models.Answer{slept, symptomFree, fit} {
		if a == models.AnswerYes {
			score++
		}
	}
	if substances == models.AnswerNo {
		score++
	}
	return score
}

// FatigueLevelFromScore maps the 0-4 score onto the four levels.
func FatigueLevelFromScore(score int) models.FatigueLevel {
	switch {
	case score >= 4:
		return models.FatigueNormal
	case score == 3:
		return models.FatigueAlert
	case score == 2:
		return models.FatigueHigh
	default:
		return models.FatigueCritical
	}
}

// FatigueLevelFromHours is the shift-length variant used when only start
// and end times are on the form.
func FatigueLevelFromHours(hours float64) models.FatigueLevel {
	switch {
	case hours <= 8:
		return models.FatigueNormal
	case hours <= 10:
		return models.FatigueAlert
	case hours <= 12:
		return models.FatigueHigh
	default:
		return models.FatigueCritical
	}
}

// FatigueRecommendation returns the dispatcher guidance for a level.
func FatigueRecommendation(level models.FatigueLevel) string {
	if r, ok := recommendations[level]; ok {
		return r
	}
	return "Evaluate the situation"
}

// FatigueStatusColor keeps the four-step palette of the fatigue card:
// the high level gets its own orange between alert and critical.
func FatigueStatusColor(level models.FatigueLevel) models.StatusColor {
	switch level {
	case models.FatigueNormal:
		return models.StatusGreen
	case models.FatigueAlert:
		return models.StatusYellow
	case models.FatigueHigh:
		return models.StatusOrange
	default:
		return models.StatusRed
	}
}
