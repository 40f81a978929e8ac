package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/vulnwatch/image-scanner-api/pkg/record"
)

// ErrNotFound is returned by Get when no scan record exists under the given ID.
var ErrNotFound = errors.New("scan record not found")

// ListParams narrows a listing to a window of records. A Limit of 0 means no limit.
type ListParams struct {
	Offset int64 `schema:"offset"`
	Limit  int64 `schema:"limit"`
}

// Store persists scan records. Records are created exactly once and never updated;
// Create must be atomic so that readers observe either the whole record or nothing.
type Store interface {
	// Create assigns a fresh ID and creation timestamp and persists the record.
	Create(ctx context.Context, image string, report json.RawMessage, summary record.Summary) (record.ScanRecord, error)
	// List returns report-stripped records ordered by ID ascending.
	List(ctx context.Context, params ListParams) ([]record.ScanRecord, error)
	// Get returns the full record including the report, or ErrNotFound.
	Get(ctx context.Context, id int64) (record.ScanRecord, error)
}
