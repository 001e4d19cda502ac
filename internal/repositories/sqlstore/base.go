package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"bonus-requests-api/internal/repositories"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// executor is the subset of *sql.DB and *sql.Tx used by repositories
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// rowScanner is implemented by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// BaseRepository provides common functionality for all SQL repositories.
// Statements are written with ? placeholders and rebound for the driver.
type BaseRepository[T any] struct {
	db       *sql.DB
	tm       *TransactionManager
	table    string
	entity   string
	bindType int
	query    repositories.QueryConfig
	logger   *logrus.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository[T any](db *sql.DB, tm *TransactionManager, driver, table, entity string, query repositories.QueryConfig, logger *logrus.Logger) *BaseRepository[T] {
	if logger == nil {
		logger = logrus.New()
	}
	return &BaseRepository[T]{
		db:       db,
		tm:       tm,
		table:    table,
		entity:   entity,
		bindType: sqlx.BindType(driverName(driver)),
		query:    query,
		logger:   logger,
	}
}

// driverName maps configured driver names onto the names sqlx knows
func driverName(driver string) string {
	switch driver {
	case repositories.DriverSQLite, "sqlite3":
		return "sqlite3"
	case "postgresql":
		return repositories.DriverPostgres
	default:
		return driver
	}
}

// inTx runs fn inside the transaction carried by ctx, or a new one
func (r *BaseRepository[T]) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.tm.WithTransaction(ctx, fn)
}

// conn returns the transaction in ctx when there is one, else the pool
func (r *BaseRepository[T]) conn(ctx context.Context) executor {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

// rebind converts ? placeholders into the driver's bind style
func (r *BaseRepository[T]) rebind(query string) string {
	return sqlx.Rebind(r.bindType, query)
}

// logQuery logs a query with its execution time. Failures are always logged,
// queries slower than SlowQueryThreshold at warn, the rest at debug when
// EnableQueryLogging is set.
func (r *BaseRepository[T]) logQuery(operation string, query string, args []interface{}, duration time.Duration, err error) {
	failed := err != nil && err != sql.ErrNoRows
	slow := r.query.SlowQueryThreshold > 0 && duration > r.query.SlowQueryThreshold
	if !failed && !slow && !r.query.EnableQueryLogging {
		return
	}

	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"query":     query,
		"args":      args,
		"duration":  duration,
	}

	switch {
	case failed:
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	case slow:
		fields["threshold"] = r.query.SlowQueryThreshold
		r.logger.WithFields(fields).Warn("Slow query")
	default:
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeQuery executes a query and logs the result
func (r *BaseRepository[T]) executeQuery(ctx context.Context, operation, query string, args ...interface{}) (*sql.Rows, error) {
	query = r.rebind(query)

	start := time.Now()
	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, err)

	if err != nil {
		return nil, classifyError(operation, r.entity, "", err)
	}

	return rows, nil
}

// executeQueryRow executes a single-row query, scans it with dest and logs the result
func (r *BaseRepository[T]) executeQueryRow(ctx context.Context, operation, query string, args []interface{}, dest ...interface{}) error {
	query = r.rebind(query)

	start := time.Now()
	err := r.conn(ctx).QueryRowContext(ctx, query, args...).Scan(dest...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, err)

	return err
}

// executeExec executes a non-query statement and logs the result
func (r *BaseRepository[T]) executeExec(ctx context.Context, operation, query string, args ...interface{}) (sql.Result, error) {
	query = r.rebind(query)

	start := time.Now()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, err)

	if err != nil {
		return nil, classifyError(operation, r.entity, "", err)
	}

	return result, nil
}

// insertReturningID runs an INSERT ... RETURNING id statement
func (r *BaseRepository[T]) insertReturningID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := r.executeQueryRow(ctx, "create", query, args, &id); err != nil {
		return 0, classifyError("create", r.entity, "", err)
	}
	return id, nil
}

// queryAll runs query and scans every row with scan
func (r *BaseRepository[T]) queryAll(ctx context.Context, operation, query string, args []interface{}, scan func(rowScanner) (*T, error)) ([]*T, error) {
	rows, err := r.executeQuery(ctx, operation, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, repositories.StorageError(operation, r.entity, "", fmt.Errorf("scan: %w", err))
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyError(operation, r.entity, "", err)
	}

	return items, nil
}

// exactlyOne returns the single element of items or a not found error
func (r *BaseRepository[T]) exactlyOne(items []*T, operation, id string) (*T, error) {
	if len(items) != 1 {
		return nil, repositories.NotFoundError(operation, r.entity, id)
	}
	return items[0], nil
}

// checkRowsAffected returns the number of affected rows, failing when none were
func (r *BaseRepository[T]) checkRowsAffected(result sql.Result, operation, id string) (int64, error) {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, repositories.StorageError(operation, r.entity, id, err)
	}

	if rowsAffected == 0 {
		return 0, repositories.NotFoundError(operation, r.entity, id)
	}

	return rowsAffected, nil
}

// validateID validates that an ID is positive
func (r *BaseRepository[T]) validateID(operation string, id int64) error {
	if id <= 0 {
		return repositories.InvalidInputError(operation, r.entity, formatID(id), fmt.Errorf("invalid id %d", id))
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
