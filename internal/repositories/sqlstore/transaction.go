package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"bonus-requests-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

type txKey struct{}

// ContextWithTx returns a context carrying tx
func ContextWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// TransactionManager implements repositories.TransactionManager over database/sql
type TransactionManager struct {
	db     *sql.DB
	logger *logrus.Logger
}

var _ repositories.TransactionManager = (*TransactionManager)(nil)

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *sql.DB, logger *logrus.Logger) *TransactionManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &TransactionManager{
		db:     db,
		logger: logger,
	}
}

// WithTransaction executes a function within a transaction
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		tm.logger.WithError(err).Error("Failed to begin transaction")
		return repositories.TransactionError("begin", err)
	}
	tm.logger.Debug("Transaction started")

	defer func() {
		if r := recover(); r != nil {
			tm.rollback(tx)
			panic(r)
		}
	}()

	if err := fn(ContextWithTx(ctx, tx)); err != nil {
		tm.rollback(tx)
		return err
	}

	if err := tx.Commit(); err != nil {
		tm.logger.WithError(err).Error("Failed to commit transaction")
		return repositories.TransactionError("commit", err)
	}

	tm.logger.Debug("Transaction committed")
	return nil
}

func (tm *TransactionManager) rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		tm.logger.WithError(fmt.Errorf("rollback: %w", err)).Error("Failed to rollback transaction")
		return
	}
	tm.logger.Debug("Transaction rolled back")
}
