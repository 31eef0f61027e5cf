package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/kapu/segcraft-go/pkg/errors"
)

type PostgresService struct {
	db     *sql.DB
	logger *zap.Logger
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN renders the lib/pq connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

func NewPostgresService(cfg PostgresConfig, logger *zap.Logger) (*PostgresService, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, errors.NewStoreError("failed to open postgres", "postgres", "open", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewStoreError("failed to ping postgres", "postgres", "ping", err)
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
	)

	return NewPostgresServiceFromDB(db, logger), nil
}

func NewPostgresServiceFromDB(db *sql.DB, logger *zap.Logger) *PostgresService {
	return &PostgresService{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the run archive table when it does not exist yet.
func (ps *PostgresService) EnsureSchema(ctx context.Context, table string) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id            UUID PRIMARY KEY,
	mode          TEXT NOT NULL,
	format_id     TEXT NOT NULL,
	repaired      BOOLEAN NOT NULL DEFAULT FALSE,
	model_calls   INTEGER NOT NULL DEFAULT 0,
	failure_stage TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	raw_text      TEXT NOT NULL DEFAULT '',
	response      JSONB,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, table)

	if _, err := ps.db.ExecContext(ctx, query); err != nil {
		return errors.NewStoreError("failed to create run table", "postgres", "migrate", err)
	}
	ps.logger.Debug("Run archive schema ready", zap.String("table", table))
	return nil
}

func (ps *PostgresService) GetDB() *sql.DB {
	return ps.db
}

func (ps *PostgresService) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

func (ps *PostgresService) Ping(ctx context.Context) error {
	return ps.db.PingContext(ctx)
}
