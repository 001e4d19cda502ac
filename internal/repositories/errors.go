package repositories

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrNotFound is returned when an entity is not found, or when a lookup
	// that requires exactly one match finds zero or several
	ErrNotFound = errors.New("entity not found")

	// ErrConstraint is returned when a database constraint is violated
	ErrConstraint = errors.New("constraint violation")

	// ErrDuplicateEntry is returned when a unique constraint is violated
	ErrDuplicateEntry = fmt.Errorf("duplicate entry: %w", ErrConstraint)

	// ErrForeignKey is returned when a referenced row does not exist
	ErrForeignKey = fmt.Errorf("foreign key violation: %w", ErrConstraint)

	// ErrInvalidInput is returned for malformed filters, ids or patch documents
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorage is returned when the database itself fails
	ErrStorage = errors.New("storage error")

	// ErrTransaction is returned when a transaction cannot be started or committed
	ErrTransaction = fmt.Errorf("transaction error: %w", ErrStorage)
)

// RepositoryError represents a repository-specific error with additional context
type RepositoryError struct {
	Op      string // Operation that failed
	Entity  string // Entity type
	ID      string // Entity ID (if applicable)
	Err     error  // Underlying error
	Message string // Human-readable message
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != "" {
		return fmt.Sprintf("%s %s operation failed for ID %s: %v", e.Entity, e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *RepositoryError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// Kind returns a short classification used in logs
func (e *RepositoryError) Kind() string {
	return Kind(e)
}

// NewRepositoryError creates a new repository error
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Err:    err,
	}
}

// NotFoundError creates a "not found" repository error
func NotFoundError(op, entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Entity:  entity,
		ID:      id,
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with ID %s not found", entity, id),
	}
}

// InvalidInputError creates an "invalid input" repository error
func InvalidInputError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Entity:  entity,
		ID:      id,
		Err:     fmt.Errorf("%w: %v", ErrInvalidInput, err),
		Message: fmt.Sprintf("invalid input for %s %s: %v", entity, op, err),
	}
}

// StorageError creates a "storage" repository error
func StorageError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Err:    fmt.Errorf("%w: %v", ErrStorage, err),
	}
}

// TransactionError creates a "transaction" repository error
func TransactionError(op string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Entity:  "transaction",
		Err:     fmt.Errorf("%w: %v", ErrTransaction, err),
		Message: fmt.Sprintf("transaction %s failed: %v", op, err),
	}
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConstraint checks if an error is any kind of constraint violation
func IsConstraint(err error) bool {
	return errors.Is(err, ErrConstraint)
}

// IsDuplicate checks if an error is a "duplicate entry" error
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEntry)
}

// IsForeignKey checks if an error is a foreign key violation
func IsForeignKey(err error) bool {
	return errors.Is(err, ErrForeignKey)
}

// IsInvalidInput checks if an error is an "invalid input" error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsStorage checks if an error is a storage or transaction failure
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

// Kind classifies err into one of not_found, constraint, invalid_input,
// storage or unknown
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsNotFound(err):
		return "not_found"
	case IsConstraint(err):
		return "constraint"
	case IsInvalidInput(err):
		return "invalid_input"
	case IsStorage(err):
		return "storage"
	default:
		return "unknown"
	}
}
