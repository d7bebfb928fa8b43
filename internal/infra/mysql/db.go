// Package mysql implements the persistence ports on a relational MySQL
// schema using sqlx. JSON-encoded list columns are decoded through
// domain.StringList; ids are auto-increment keys rendered as decimal strings.
package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boddenberg/rentease-api-go/internal/infra/observability"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("mysql")

const (
	backendName = "mysql"

	errDuplicateEntry = 1062
)

// Options configures the connection pool.
type Options struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open parses the DSN, forces time parsing in UTC and verifies the
// connection with a ping.
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	cfg, err := mysql.ParseDSN(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sqlx.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// Store implements port.Store and port.UserStore.
type Store struct {
	db      *sqlx.DB
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewStore wraps an open connection pool.
func NewStore(db *sqlx.DB, metrics *observability.Metrics, logger *zap.Logger) *Store {
	return &Store{db: db, metrics: metrics, logger: logger}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// fail records a failed statement and wraps the error with the operation name.
func (s *Store) fail(op string, err error) error {
	s.metrics.IncrStoreError(backendName)
	s.logger.Error("mysql: statement failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry
}

func nullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
