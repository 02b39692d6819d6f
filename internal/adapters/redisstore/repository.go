package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/csg33k/leadform/internal/domain"
	"github.com/csg33k/leadform/internal/ports"
)

const (
	recordKeyPrefix = "record:"
	indexKeySuffix  = ":index"
)

// writeOnce stores the record only if its key is unused and indexes it by
// timestamp, atomically.
var writeOnce = redis.NewScript(`
if redis.call('SETNX', KEYS[1], ARGV[1]) == 1 then
  redis.call('ZADD', KEYS[2], ARGV[2], ARGV[3])
  return 1
end
return 0
`)

var (
	_ ports.RecordStore  = (*RecordRepository)(nil)
	_ ports.RecordLister = (*RecordRepository)(nil)
)

// RecordRepository implements the record store with Redis
type RecordRepository struct {
	redisClient *redis.Client
	logger      ports.Logger
}

func NewRecordRepository(redisClient *redis.Client, logger ports.Logger) *RecordRepository {
	return &RecordRepository{redisClient: redisClient, logger: logger}
}

func recordKey(collection, key string) string {
	return recordKeyPrefix + collection + ":" + key
}

func indexKey(collection string) string {
	return recordKeyPrefix + collection + indexKeySuffix
}

func (r *RecordRepository) NewKey(_ context.Context, _ string) (string, error) {
	return uuid.NewString(), nil
}

func (r *RecordRepository) Set(ctx context.Context, collection, key string, rec domain.SubmissionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	n, err := writeOnce.Run(ctx, r.redisClient,
		[]string{recordKey(collection, key), indexKey(collection)},
		string(data), rec.SubmittedAtEpochMillis, key,
	).Int()
	if err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %s already exists", key)
	}
	r.logger.Debug("record stored", "collection", collection, "key", key)
	return nil
}

// List retrieves the collection ordered by timestamp.
func (r *RecordRepository) List(ctx context.Context, collection string) ([]domain.StoredRecord, error) {
	keys, err := r.redisClient.ZRange(ctx, indexKey(collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read record index: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = recordKey(collection, k)
	}
	values, err := r.redisClient.MGet(ctx, full...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve records: %w", err)
	}

	out := make([]domain.StoredRecord, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var rec domain.SubmissionRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record %s: %w", keys[i], err)
		}
		out = append(out, domain.StoredRecord{Key: keys[i], SubmissionRecord: rec})
	}
	return out, nil
}
