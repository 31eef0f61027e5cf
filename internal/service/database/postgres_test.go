package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/pkg/errors"
)

// recordingConnector hands out connections that remember every statement
// executed through them.
type recordingConnector struct {
	mu      sync.Mutex
	queries []string
	execErr error
}

func (c *recordingConnector) Connect(context.Context) (driver.Conn, error) {
	return &recordingConn{owner: c}, nil
}

func (c *recordingConnector) Open(string) (driver.Conn, error) {
	return &recordingConn{owner: c}, nil
}

func (c *recordingConnector) Driver() driver.Driver { return c }

type recordingConn struct {
	owner *recordingConnector
}

func (c *recordingConn) Prepare(string) (driver.Stmt, error) {
	return nil, stderrors.New("prepare not supported")
}

func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) Begin() (driver.Tx, error) {
	return nil, stderrors.New("transactions not supported")
}

func (c *recordingConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.owner.mu.Lock()
	defer c.owner.mu.Unlock()
	c.owner.queries = append(c.owner.queries, query)
	if c.owner.execErr != nil {
		return nil, c.owner.execErr
	}
	return driver.RowsAffected(0), nil
}

func newRecordingService(t *testing.T) (*PostgresService, *recordingConnector) {
	t.Helper()
	connector := &recordingConnector{}
	svc := NewPostgresServiceFromDB(sql.OpenDB(connector), zap.NewNop())
	t.Cleanup(func() { _ = svc.Close() })
	return svc, connector
}

func TestPostgresConfigDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "segcraft",
		Password: "s3cret",
		Database: "runs",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=segcraft password=s3cret dbname=runs sslmode=disable",
		cfg.DSN(),
	)
}

func TestEnsureSchemaCreatesRunTable(t *testing.T) {
	svc, connector := newRecordingService(t)

	require.NoError(t, svc.EnsureSchema(context.Background(), "generation_runs"))

	require.Len(t, connector.queries, 1)
	query := connector.queries[0]
	assert.Contains(t, query, "CREATE TABLE IF NOT EXISTS generation_runs (")
	for _, column := range []string{"id ", "mode ", "format_id ", "repaired ", "model_calls ", "failure_stage ", "error_message ", "raw_text ", "response ", "created_at "} {
		assert.Contains(t, query, column)
	}
}

func TestEnsureSchemaReportsStoreError(t *testing.T) {
	svc, connector := newRecordingService(t)
	connector.execErr = stderrors.New("permission denied for schema public")

	err := svc.EnsureSchema(context.Background(), "generation_runs")

	var storeErr *errors.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "migrate", storeErr.Operation)
	assert.ErrorIs(t, err, connector.execErr)
}
