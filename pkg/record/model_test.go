package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSummary(t *testing.T) {
	summary := NewSummary()

	assert.Len(t, summary, len(Severities))
	for _, severity := range Severities {
		assert.Equal(t, 0, summary[severity])
	}
}

func TestSummary_Total(t *testing.T) {
	summary := NewSummary()
	assert.Equal(t, 0, summary.Total())

	summary[SevCritical] = 2
	summary[SevLow] = 1
	summary[SevUnknown] = 3
	assert.Equal(t, 6, summary.Total())
}

func TestScanRecord_WithoutReport(t *testing.T) {
	scanRecord := ScanRecord{
		ID:        7,
		Image:     "alpine:3.18",
		CreatedAt: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Summary:   NewSummary(),
		Report:    json.RawMessage(`{"Results":[]}`),
	}

	stripped := scanRecord.WithoutReport()

	assert.Nil(t, stripped.Report)
	assert.Equal(t, scanRecord.ID, stripped.ID)
	assert.Equal(t, scanRecord.Image, stripped.Image)
	assert.Equal(t, scanRecord.CreatedAt, stripped.CreatedAt)
	assert.Equal(t, scanRecord.Summary, stripped.Summary)

	// The original keeps its report.
	assert.NotNil(t, scanRecord.Report)
}

func TestScanRecord_JSONOmitsEmptyReport(t *testing.T) {
	scanRecord := ScanRecord{
		ID:        7,
		Image:     "alpine:3.18",
		CreatedAt: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Summary:   NewSummary(),
	}

	b, err := json.Marshal(scanRecord)
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"report"`)
}
