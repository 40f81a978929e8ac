package record

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"
)

// Severity is a vulnerability severity label as reported by the scanning engine.
// The labels recognized by the API are uppercase and case-sensitive.
type Severity string

const (
	SevCritical Severity = "CRITICAL"
	SevHigh     Severity = "HIGH"
	SevMedium   Severity = "MEDIUM"
	SevLow      Severity = "LOW"
	SevUnknown  Severity = "UNKNOWN"
)

// Severities lists every severity label a Summary carries, highest first.
var Severities = []Severity{SevCritical, SevHigh, SevMedium, SevLow, SevUnknown}

// Summary maps each severity label to the number of findings of that severity.
// All labels are always present, defaulting to 0.
type Summary map[Severity]int

func NewSummary() Summary {
	return lo.SliceToMap(Severities, func(s Severity) (Severity, int) {
		return s, 0
	})
}

// Total returns the number of findings across all severities.
func (s Summary) Total() int {
	return lo.Sum(lo.Values(s))
}

// ScanRecord is the immutable persisted result of one completed scan. Report holds the
// engine output verbatim; it is stored for display and never parsed again after creation.
type ScanRecord struct {
	ID        int64           `json:"id"`
	Image     string          `json:"image"`
	CreatedAt time.Time       `json:"created_at"`
	Summary   Summary         `json:"summary"`
	Report    json.RawMessage `json:"report,omitempty"`
}

// WithoutReport returns a copy of the record suitable for listings.
func (r ScanRecord) WithoutReport() ScanRecord {
	r.Report = nil
	return r
}
