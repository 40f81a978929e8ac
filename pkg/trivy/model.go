package trivy

import (
	"fmt"
	"time"
)

// Report is the minimal typed view of Trivy's JSON output. It deliberately maps only the
// fields needed to tally findings; the raw output is persisted verbatim alongside it.
type Report struct {
	SchemaVersion int      `json:"SchemaVersion"`
	ArtifactName  string   `json:"ArtifactName"`
	Results       []Result `json:"Results"`
}

type Result struct {
	Target          string          `json:"Target"`
	Vulnerabilities []Vulnerability `json:"Vulnerabilities"`
}

type Vulnerability struct {
	VulnerabilityID  string `json:"VulnerabilityID"`
	PkgName          string `json:"PkgName"`
	InstalledVersion string `json:"InstalledVersion"`
	FixedVersion     string `json:"FixedVersion"`
	Severity         string `json:"Severity"`
}

// TimeoutError is returned when Trivy does not exit within the configured timeout.
// The underlying process has already been killed when this error is returned.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("scan timed out after %s", e.Timeout)
}

// EngineError is returned when Trivy exits with a non-zero code for any reason other
// than a timeout. Output carries the combined stdout and stderr for operator visibility.
type EngineError struct {
	ExitCode int
	Output   string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("trivy exited with code %d: %s", e.ExitCode, e.Output)
}
