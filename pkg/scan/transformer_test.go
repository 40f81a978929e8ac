package scan

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulnwatch/image-scanner-api/pkg/record"
)

const sampleReport = `{
	"SchemaVersion": 2,
	"ArtifactName": "alpine:3.18",
	"Results": [
		{
			"Target": "alpine:3.18 (alpine 3.18.0)",
			"Vulnerabilities": [
				{
					"VulnerabilityID": "CVE-2023-5363",
					"PkgName": "libcrypto3",
					"InstalledVersion": "3.1.1-r1",
					"FixedVersion": "3.1.4-r0",
					"Severity": "CRITICAL"
				},
				{
					"VulnerabilityID": "CVE-2023-5678",
					"PkgName": "libssl3",
					"InstalledVersion": "3.1.1-r1",
					"FixedVersion": "3.1.4-r1",
					"Severity": "CRITICAL"
				},
				{
					"VulnerabilityID": "CVE-2023-42366",
					"PkgName": "busybox",
					"InstalledVersion": "1.36.1-r0",
					"FixedVersion": "1.36.1-r1",
					"Severity": "LOW"
				}
			]
		},
		{
			"Target": "usr/bin/app",
			"Vulnerabilities": null
		}
	]
}`

const sampleReportOddSeverities = `{
	"Results": [
		{
			"Target": "debian:10 (debian 10.3)",
			"Vulnerabilities": [
				{"VulnerabilityID": "CVE-2011-3374", "Severity": "negligible"},
				{"VulnerabilityID": "CVE-2019-1010022", "Severity": ""},
				{"VulnerabilityID": "CVE-2020-1751", "Severity": "HIGH"}
			]
		}
	]
}`

func TestTransformer_Transform(t *testing.T) {
	testCases := []struct {
		name            string
		raw             string
		expectedSummary record.Summary
		expectedError   string
	}{
		{
			name: "Should tally findings per severity",
			raw:  sampleReport,
			expectedSummary: record.Summary{
				record.SevCritical: 2,
				record.SevHigh:     0,
				record.SevMedium:   0,
				record.SevLow:      1,
				record.SevUnknown:  0,
			},
		},
		{
			name: "Should fold unrecognized and missing severities into UNKNOWN",
			raw:  sampleReportOddSeverities,
			expectedSummary: record.Summary{
				record.SevCritical: 0,
				record.SevHigh:     1,
				record.SevMedium:   0,
				record.SevLow:      0,
				record.SevUnknown:  2,
			},
		},
		{
			name: "Should return zero summary for report without results",
			raw:  `{"SchemaVersion": 2, "Results": []}`,
			expectedSummary: record.Summary{
				record.SevCritical: 0,
				record.SevHigh:     0,
				record.SevMedium:   0,
				record.SevLow:      0,
				record.SevUnknown:  0,
			},
		},
		{
			name:          "Should return error when output is not JSON",
			raw:           `FATAL: DB update failed`,
			expectedError: "parsing scan report: invalid character 'F' looking for beginning of value",
		},
		{
			name:          "Should return error when output is not an object",
			raw:           `[1, 2, 3]`,
			expectedError: "parsing scan report: json: cannot unmarshal array into Go value of type trivy.Report",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report, summary, err := NewTransformer().Transform([]byte(tc.raw))
			if tc.expectedError != "" {
				require.EqualError(t, err, tc.expectedError)
				var parseErr *ParseError
				assert.ErrorAs(t, err, &parseErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, json.RawMessage(tc.raw), report)
			assert.Equal(t, tc.expectedSummary, summary)
		})
	}
}

// The summary total must equal the number of findings in the report regardless of how
// severities are labelled.
func TestTransformer_TransformTotalInvariant(t *testing.T) {
	for _, raw := range []string{sampleReport, sampleReportOddSeverities} {
		_, summary, err := NewTransformer().Transform([]byte(raw))
		require.NoError(t, err)

		var counted struct {
			Results []struct {
				Vulnerabilities []json.RawMessage `json:"Vulnerabilities"`
			} `json:"Results"`
		}
		require.NoError(t, json.Unmarshal([]byte(raw), &counted))

		var findings int
		for _, result := range counted.Results {
			findings += len(result.Vulnerabilities)
		}
		assert.Equal(t, findings, summary.Total())
	}
}
