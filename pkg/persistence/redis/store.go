package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/xerrors"

	"github.com/vulnwatch/image-scanner-api/pkg/etc"
	"github.com/vulnwatch/image-scanner-api/pkg/ext"
	"github.com/vulnwatch/image-scanner-api/pkg/persistence"
	"github.com/vulnwatch/image-scanner-api/pkg/record"
)

type store struct {
	cfg   etc.RedisStore
	rdb   *redis.Client
	clock ext.Clock
}

func NewStore(cfg etc.RedisStore, rdb *redis.Client, clock ext.Clock) persistence.Store {
	return &store{
		cfg:   cfg,
		rdb:   rdb,
		clock: clock,
	}
}

// Create assigns the next ID from a Redis sequence and writes the full record together
// with its listing entry in one MULTI/EXEC transaction. A failed transaction burns the
// ID but leaves nothing behind; IDs are never reused.
func (s *store) Create(ctx context.Context, image string, report json.RawMessage, summary record.Summary) (record.ScanRecord, error) {
	id, err := s.rdb.Incr(ctx, s.sequenceKey()).Result()
	if err != nil {
		return record.ScanRecord{}, xerrors.Errorf("assigning scan record id: %w", err)
	}

	scanRecord := record.ScanRecord{
		ID:        id,
		Image:     image,
		CreatedAt: s.clock.Now().UTC(),
		Summary:   summary,
		Report:    report,
	}

	full, err := json.Marshal(scanRecord)
	if err != nil {
		return record.ScanRecord{}, xerrors.Errorf("marshalling scan record: %w", err)
	}

	entry, err := json.Marshal(scanRecord.WithoutReport())
	if err != nil {
		return record.ScanRecord{}, xerrors.Errorf("marshalling scan record listing entry: %w", err)
	}

	slog.Debug("Saving scan record",
		slog.Int64("scan_record_id", id),
		slog.String("image", image),
		slog.String("redis_key", s.recordKey(id)),
	)

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.recordKey(id), full, 0)
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(id), Member: string(entry)})
	if _, err = pipe.Exec(ctx); err != nil {
		return record.ScanRecord{}, xerrors.Errorf("saving scan record: %w", err)
	}

	return scanRecord, nil
}

// List reads listing entries from the index sorted set, which is scored by record ID,
// so records come back in ID (== creation) order, ascending.
func (s *store) List(ctx context.Context, params persistence.ListParams) ([]record.ScanRecord, error) {
	stop := int64(-1)
	if params.Limit > 0 {
		stop = params.Offset + params.Limit - 1
	}

	entries, err := s.rdb.ZRange(ctx, s.indexKey(), params.Offset, stop).Result()
	if err != nil {
		return nil, xerrors.Errorf("listing scan records: %w", err)
	}

	records := make([]record.ScanRecord, 0, len(entries))
	for _, entry := range entries {
		var scanRecord record.ScanRecord
		if err := json.Unmarshal([]byte(entry), &scanRecord); err != nil {
			return nil, xerrors.Errorf("unmarshalling scan record listing entry: %w", err)
		}
		records = append(records, scanRecord)
	}

	return records, nil
}

func (s *store) Get(ctx context.Context, id int64) (record.ScanRecord, error) {
	value, err := s.rdb.Get(ctx, s.recordKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return record.ScanRecord{}, persistence.ErrNotFound
	}
	if err != nil {
		return record.ScanRecord{}, xerrors.Errorf("getting scan record: %w", err)
	}

	var scanRecord record.ScanRecord
	if err := json.Unmarshal([]byte(value), &scanRecord); err != nil {
		return record.ScanRecord{}, xerrors.Errorf("unmarshalling scan record: %w", err)
	}

	return scanRecord, nil
}

func (s *store) sequenceKey() string {
	return fmt.Sprintf("%s:scan-record:id-seq", s.cfg.Namespace)
}

func (s *store) recordKey(id int64) string {
	return fmt.Sprintf("%s:scan-record:%d", s.cfg.Namespace, id)
}

func (s *store) indexKey() string {
	return fmt.Sprintf("%s:scan-record:index", s.cfg.Namespace)
}
