package history

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/constants"
)

// listCache is the slice of cache.CacheService used here.
type listCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string, dest any) (bool, error)
	PushCapped(ctx context.Context, key string, value any, limit int64, ttl time.Duration) error
	ListRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// RedisRecorder keeps the newest runs in a capped list and each run under its
// own key for lookup by id.
type RedisRecorder struct {
	cache  listCache
	limit  int
	logger *zap.Logger
}

func NewRedisRecorder(cache listCache, limit int, logger *zap.Logger) *RedisRecorder {
	if limit <= 0 {
		limit = constants.HistoryConfig.DefaultLimit
	}
	return &RedisRecorder{cache: cache, limit: limit, logger: logger}
}

func runKey(id string) string {
	return constants.HistoryConfig.RedisKey + ":" + id
}

func (r *RedisRecorder) Record(ctx context.Context, run Run) error {
	ttl := constants.HistoryConfig.RedisTTL
	if err := r.cache.Set(ctx, runKey(run.ID), run, ttl); err != nil {
		return err
	}

	// The list only carries the summary; the full run lives under its own key.
	summary := run
	summary.RawText = ""
	summary.Response = nil
	if err := r.cache.PushCapped(ctx, constants.HistoryConfig.RedisKey, summary, int64(r.limit), ttl); err != nil {
		return err
	}

	r.logger.Debug("Run recorded in Redis", zap.String("id", run.ID), zap.String("mode", run.Mode))
	return nil
}

// Recent returns up to limit summaries, newest first. Undecodable entries are
// skipped.
func (r *RedisRecorder) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 || limit > r.limit {
		limit = r.limit
	}
	values, err := r.cache.ListRange(ctx, constants.HistoryConfig.RedisKey, 0, int64(limit-1))
	if err != nil {
		return nil, err
	}

	runs := make([]Run, 0, len(values))
	for _, v := range values {
		var run Run
		if err := json.Unmarshal([]byte(v), &run); err != nil {
			r.logger.Warn("Skipping malformed run entry", zap.Error(err))
			continue
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Get returns nil when the run is unknown or expired.
func (r *RedisRecorder) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	found, err := r.cache.Get(ctx, runKey(id), &run)
	if err != nil || !found {
		return nil, err
	}
	return &run, nil
}
