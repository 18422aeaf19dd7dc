package normalize

import "fleet-inspection-analyzer/internal/models"

// Audit collects original-vs-normalized value pairs for one processing
// run. Entries are recorded only when normalization actually changed the
// value; the trail is observational and never feeds classification.
type Audit struct {
	entries []models.AuditEntry
}

// NewAudit returns an empty trail. Each run allocates its own.
func NewAudit() *Audit {
	return &Audit{}
}

// Record notes a normalization when the value changed.
func (a *Audit) Record(fieldType, original, normalized string) {
	if original == normalized {
		return
	}
	a.entries = append(a.entries, models.AuditEntry{
		FieldType:  fieldType,
		Original:   original,
		Normalized: normalized,
	})
}

// Entries returns the recorded trail in record order.
func (a *Audit) Entries() []models.AuditEntry {
	return a.entries
}
