package classify

import "fleet-inspection-analyzer/internal/models"

// Thresholds for vehicle and driver traffic lights. Shared with the
// original paper-form procedure, so changing them changes reported
// compliance history.
const (
	lowFuelThreshold     = 25.0
	highMileageThreshold = 200000.0

	driverGreenMaxDays  = 5
	driverYellowMaxDays = 10

	// checkRatioYellowMax bounds the non-compliance ratio still reported
	// as yellow in fixed-schema mode.
	checkRatioYellowMax = 0.2
)

// VehicleStatusColor derives the vehicle's light from its linked failures
// and the fuel/mileage readings. Nil readings are simply not checked.
func VehicleStatusColor(failures []models.MechanicalFailure, fuelLevel, mileage *float64) models.StatusColor {
	for _, f := range failures {
		if f.Severity == models.SeverityCritical || f.Severity == models.SeverityHigh {
			return models.StatusRed
		}
	}
	if fuelLevel != nil && *fuelLevel < lowFuelThreshold {
		return models.StatusYellow
	}
	if mileage != nil && *mileage > highMileageThreshold {
		return models.StatusYellow
	}
	return models.StatusGreen
}

// VehicleStatusColorFromChecks is the fixed-schema variant: the light
// follows the share of critical-check columns marked non-compliant. A row
// without any checks cannot be called healthy, so it reports yellow.
func VehicleStatusColorFromChecks(nonCompliant, total int) models.StatusColor {
	if total == 0 {
		return models.StatusYellow
	}
	ratio := float64(nonCompliant) / float64(total)
	switch {
	case ratio == 0:
		return models.StatusGreen
	case ratio <= checkRatioYellowMax:
		return models.StatusYellow
	default:
		return models.StatusRed
	}
}

// DriverStatusColorByDays applies the inspection-recency rule: up to 5
// days green, 6-10 yellow, older or unparseable red.
func DriverStatusColorByDays(daysSinceInspection int) models.StatusColor {
	switch {
	case daysSinceInspection <= driverGreenMaxDays:
		return models.StatusGreen
	case daysSinceInspection <= driverYellowMaxDays:
		return models.StatusYellow
	default:
		return models.StatusRed
	}
}

// DriverStatusColorByFatigue is the fixed-schema variant, driven by the
// fatigue level instead of inspection recency. The three-step driver
// light folds the orange fatigue level into yellow.
func DriverStatusColorByFatigue(level models.FatigueLevel) models.StatusColor {
	switch level {
	case models.FatigueCritical:
		return models.StatusRed
	case models.FatigueHigh, models.FatigueAlert:
		return models.StatusYellow
	default:
		return models.StatusGreen
	}
}
