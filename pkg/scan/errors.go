package scan

import "fmt"

// InvalidInputError rejects a scan request before the scanning engine is invoked.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

// ParseError indicates that the scanning engine's output could not be interpreted.
// It is fatal for the scan attempt; the same output is never re-parsed.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing scan report: %s", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
