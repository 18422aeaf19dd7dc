// Package classify maps normalized inspection text onto compliance
// categories via fixed, ordered rule tables. All tables are read-only
// constants, safe to share across concurrent runs.
package classify

import "fleet-inspection-analyzer/internal/models"

// RuleTableVersion identifies the keyword tables below. Bump when a table
// changes so stored results can be traced to the rules that produced them.
const RuleTableVersion = "2024-02"

type categoryRule struct {
	Category models.FailureCategory
	Keywords []string
}

type severityRule struct {
	Severity models.FailureSeverity
	Keywords []string
}

// categoryRules is iterated in declared order; the first keyword substring
// found in the description decides the category. Keywords are accent-free
// lower case, Spanish and English, matching the normalizer's output.
var categoryRules = []categoryRule{
	{models.CategoryEngine, []string{
		"engine", "motor", "oil", "aceite", "coolant", "refrigerante",
		"belt", "correa", "filter", "filtro",
	}},
	{models.CategoryBrakes, []string{
		"brake", "freno", "pad", "pastilla", "disc", "disco",
	}},
	{models.CategorySuspension, []string{
		"suspension", "shock", "amortiguador", "spring", "resorte", "rotula",
	}},
	{models.CategoryElectrical, []string{
		"battery", "bateria", "alternator", "alternador", "light", "luces",
		"electrical", "electrico", "fuse", "fusible", "wiring",
	}},
	{models.CategoryTires, []string{
		"tire", "tyre", "neumatico", "llanta", "wheel", "rueda", "pressure", "presion",
	}},
	{models.CategoryBody, []string{
		"body", "carroceria", "door", "puerta", "window", "ventana",
		"mirror", "espejo", "windshield", "parabrisas",
	}},
	{models.CategoryTransmission, []string{
		"transmission", "transmision", "clutch", "embrague", "gearbox", "caja", "differential", "diferencial",
	}},
}

// severityRules runs critical first so the worst matching keyword wins.
var severityRules = []severityRule{
	{models.SeverityCritical, []string{
		"not working", "no funciona", "broken", "roto", "averiado",
		"dead", "falla total", "inoperante", "inoperative",
	}},
	{models.SeverityHigh, []string{
		"bad condition", "mal estado", "deteriorated", "deteriorado",
		"urgent", "urgente", "requires attention", "requiere atencion", "leak", "fuga",
	}},
	{models.SeverityMedium, []string{
		"worn", "desgaste", "check", "revisar", "maintenance", "mantenimiento", "atencion",
	}},
	{models.SeverityLow, []string{
		"normal", "operativo", "operational", "functioning", "funcionando", "ok", "bien",
	}},
}

// recommendations keyed by fatigue level, shown to dispatchers as-is.
var recommendations = map[models.FatigueLevel]string{
	models.FatigueNormal:   "Continue with normal activity",
	models.FatigueAlert:    "Consider resting at the next stop",
	models.FatigueHigh:     "Mandatory rest recommended",
	models.FatigueCritical: "Immediate mandatory rest - replace driver",
}
