package history

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/pkg/errors"
)

type fakeCache struct {
	values map[string]string
	lists  map[string][]string
	err    error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, lists: map[string][]string{}}
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = string(data)
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	data, ok := f.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal([]byte(data), dest)
}

func (f *fakeCache) PushCapped(_ context.Context, key string, value any, limit int64, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	list := append([]string{string(data)}, f.lists[key]...)
	if int64(len(list)) > limit {
		list = list[:limit]
	}
	f.lists[key] = list
	return nil
}

func (f *fakeCache) ListRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	list := f.lists[key]
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	if start > stop {
		return nil, nil
	}
	return list[start : stop+1], nil
}

func sampleRun(id string) Run {
	return Run{
		ID:        id,
		Mode:      "llm",
		FormatID:  "vk_ads",
		Calls:     1,
		RawText:   `{"version":"1.0"}`,
		Response:  json.RawMessage(`{"version":"1.0"}`),
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestRedisRecorderRecentIsNewestFirstAndCapped(t *testing.T) {
	cache := newFakeCache()
	rec := NewRedisRecorder(cache, 2, zap.NewNop())
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, rec.Record(ctx, sampleRun(id)))
	}

	runs, err := rec.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
	assert.Empty(t, runs[0].RawText, "list entries carry summaries only")
	assert.Nil(t, runs[0].Response)
}

func TestRedisRecorderGet(t *testing.T) {
	cache := newFakeCache()
	rec := NewRedisRecorder(cache, 0, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, rec.Record(ctx, sampleRun("run-1")))

	got, err := rec.Get(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `{"version":"1.0"}`, got.RawText)
	assert.JSONEq(t, `{"version":"1.0"}`, string(got.Response))

	missing, err := rec.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRedisRecorderSkipsMalformedEntries(t *testing.T) {
	cache := newFakeCache()
	cache.lists[constants.HistoryConfig.RedisKey] = []string{"not json", `{"id":"ok"}`}
	rec := NewRedisRecorder(cache, 5, zap.NewNop())

	runs, err := rec.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "ok", runs[0].ID)
}

type fakeExecer struct {
	query string
	args  []any
	err   error
}

func (f *fakeExecer) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	f.query = query
	f.args = args
	return nil, f.err
}

func TestPostgresRecorderInsert(t *testing.T) {
	db := &fakeExecer{}
	rec := NewPostgresRecorder(db, zap.NewNop())

	run := sampleRun("run-1")
	require.NoError(t, rec.Record(context.Background(), run))

	assert.Contains(t, db.query, "INSERT INTO generation_runs")
	require.Len(t, db.args, 10)
	assert.Equal(t, "run-1", db.args[0])
	assert.Equal(t, `{"version":"1.0"}`, db.args[8])
}

func TestPostgresRecorderNullResponse(t *testing.T) {
	db := &fakeExecer{}
	rec := NewPostgresRecorder(db, zap.NewNop())

	run := sampleRun("run-2")
	run.Response = nil
	run.FailureStage = "validation"
	require.NoError(t, rec.Record(context.Background(), run))
	assert.Nil(t, db.args[8])
}

func TestPostgresRecorderWrapsError(t *testing.T) {
	db := &fakeExecer{err: stderrors.New("connection reset")}
	rec := NewPostgresRecorder(db, zap.NewNop())

	err := rec.Record(context.Background(), sampleRun("x"))
	var storeErr *errors.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "insert", storeErr.Operation)
	assert.True(t, strings.Contains(err.Error(), "connection reset"))
}

func TestMultiRecorderJoinsErrors(t *testing.T) {
	cache := newFakeCache()
	failing := &fakeExecer{err: stderrors.New("down")}
	multi := MultiRecorder{
		NewRedisRecorder(cache, 5, zap.NewNop()),
		NewPostgresRecorder(failing, zap.NewNop()),
		NopRecorder{},
	}

	err := multi.Record(context.Background(), sampleRun("m"))
	require.Error(t, err)
	assert.Len(t, cache.lists[constants.HistoryConfig.RedisKey], 1, "redis still records when postgres fails")
}
