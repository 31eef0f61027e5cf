package history

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/pkg/errors"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PostgresRecorder appends every run to the archive table.
type PostgresRecorder struct {
	db     execer
	table  string
	logger *zap.Logger
}

func NewPostgresRecorder(db execer, logger *zap.Logger) *PostgresRecorder {
	return &PostgresRecorder{
		db:     db,
		table:  constants.HistoryConfig.PostgresTable,
		logger: logger,
	}
}

func (r *PostgresRecorder) Record(ctx context.Context, run Run) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, mode, format_id, repaired, model_calls, failure_stage,
		                error_message, raw_text, response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.table)

	var response any
	if len(run.Response) > 0 {
		response = string(run.Response)
	}

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.Mode, run.FormatID, run.Repaired, run.Calls, run.FailureStage,
		run.Error, run.RawText, response, run.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to archive run", zap.String("id", run.ID), zap.Error(err))
		return errors.NewStoreError("failed to archive run", "postgres", "insert", err)
	}
	return nil
}
