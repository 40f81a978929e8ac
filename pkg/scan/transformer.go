package scan

import (
	"encoding/json"
	"strings"

	"github.com/vulnwatch/image-scanner-api/pkg/record"
	"github.com/vulnwatch/image-scanner-api/pkg/trivy"
)

// Transformer normalizes raw engine output into the report stored with a scan record
// and its severity summary. Implementations must be pure: no I/O, deterministic for
// the same input.
type Transformer interface {
	Transform(raw []byte) (json.RawMessage, record.Summary, error)
}

type transformer struct {
}

func NewTransformer() Transformer {
	return &transformer{}
}

// Transform tallies findings per severity label. Labels outside the recognized set,
// including missing ones, count as UNKNOWN so that the summary total always equals
// the number of findings in the report.
func (t *transformer) Transform(raw []byte) (json.RawMessage, record.Summary, error) {
	var report trivy.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, nil, &ParseError{Err: err}
	}

	summary := record.NewSummary()
	for _, result := range report.Results {
		for _, vulnerability := range result.Vulnerabilities {
			severity := record.Severity(strings.ToUpper(vulnerability.Severity))
			if _, recognized := summary[severity]; !recognized {
				severity = record.SevUnknown
			}
			summary[severity]++
		}
	}

	return raw, summary, nil
}
