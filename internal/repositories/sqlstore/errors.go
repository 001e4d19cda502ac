package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"bonus-requests-api/internal/repositories"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Postgres SQLSTATE codes for integrity violations
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// classifyError maps a driver error onto the repository error taxonomy.
// Errors that are already classified pass through unchanged.
func classifyError(op, entity, id string, err error) error {
	if err == nil {
		return nil
	}

	var repoErr *repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return repositories.NotFoundError(op, entity, id)
	}

	if kind := constraintKind(err); kind != nil {
		return &repositories.RepositoryError{
			Op:      op,
			Entity:  entity,
			ID:      id,
			Err:     fmt.Errorf("%w: %v", kind, err),
			Message: fmt.Sprintf("%s %s violates a constraint: %v", entity, op, err),
		}
	}

	return repositories.StorageError(op, entity, id, err)
}

// constraintKind returns the sentinel for an integrity violation, or nil
func constraintKind(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return repositories.ErrDuplicateEntry
		case pgForeignKeyViolation:
			return repositories.ErrForeignKey
		case pgNotNullViolation:
			return repositories.ErrInvalidInput
		case pgCheckViolation:
			return repositories.ErrConstraint
		}
		return nil
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return repositories.ErrDuplicateEntry
		case sqlite3.ErrConstraintForeignKey:
			return repositories.ErrForeignKey
		case sqlite3.ErrConstraintNotNull:
			return repositories.ErrInvalidInput
		}
		if liteErr.Code == sqlite3.ErrConstraint {
			return repositories.ErrConstraint
		}
	}

	return nil
}
