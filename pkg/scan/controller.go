package scan

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/semaphore"
	"golang.org/x/xerrors"

	"github.com/vulnwatch/image-scanner-api/pkg/persistence"
	"github.com/vulnwatch/image-scanner-api/pkg/record"
	"github.com/vulnwatch/image-scanner-api/pkg/trivy"
)

var (
	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scanner",
		Name:      "scans_total",
		Help:      "Number of scan requests processed, partitioned by outcome.",
	}, []string{"status"})

	scanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scanner",
		Name:      "scan_duration_seconds",
		Help:      "Duration of successful scans, from engine invocation to persisted record.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
)

// Controller runs one scan end to end: validate the image reference, invoke the engine,
// normalize its output, and persist the record. Exactly one record is created on
// success and none on any failure path.
type Controller interface {
	Scan(ctx context.Context, image string) (record.ScanRecord, error)
}

type controller struct {
	store       persistence.Store
	wrapper     trivy.Wrapper
	transformer Transformer
	scanSlots   *semaphore.Weighted
}

// NewController returns a Controller allowing at most maxConcurrentScans engine
// invocations at a time; requests beyond the bound queue until a slot frees up or
// their context is cancelled.
func NewController(store persistence.Store, wrapper trivy.Wrapper, transformer Transformer, maxConcurrentScans int64) Controller {
	return &controller{
		store:       store,
		wrapper:     wrapper,
		transformer: transformer,
		scanSlots:   semaphore.NewWeighted(maxConcurrentScans),
	}
}

func (c *controller) Scan(ctx context.Context, image string) (record.ScanRecord, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		scansTotal.WithLabelValues("invalid_input").Inc()
		return record.ScanRecord{}, &InvalidInputError{Reason: "image must not be blank"}
	}
	if _, err := name.ParseReference(image); err != nil {
		scansTotal.WithLabelValues("invalid_input").Inc()
		return record.ScanRecord{}, &InvalidInputError{Reason: "invalid image reference: " + err.Error()}
	}

	if err := c.scanSlots.Acquire(ctx, 1); err != nil {
		return record.ScanRecord{}, xerrors.Errorf("waiting for scan slot: %w", err)
	}
	defer c.scanSlots.Release(1)

	started := time.Now()

	raw, err := c.wrapper.Scan(ctx, image)
	if err != nil {
		scansTotal.WithLabelValues("engine_error").Inc()
		return record.ScanRecord{}, xerrors.Errorf("running trivy wrapper: %w", err)
	}

	report, summary, err := c.transformer.Transform(raw)
	if err != nil {
		scansTotal.WithLabelValues("parse_error").Inc()
		return record.ScanRecord{}, xerrors.Errorf("normalizing scan report: %w", err)
	}

	scanRecord, err := c.store.Create(ctx, image, report, summary)
	if err != nil {
		scansTotal.WithLabelValues("storage_error").Inc()
		return record.ScanRecord{}, xerrors.Errorf("saving scan record: %w", err)
	}

	scansTotal.WithLabelValues("success").Inc()
	scanDuration.Observe(time.Since(started).Seconds())

	slog.Info("Scan completed",
		slog.Int64("scan_record_id", scanRecord.ID),
		slog.String("image", image),
		slog.Int("findings", summary.Total()),
	)

	return scanRecord, nil
}
