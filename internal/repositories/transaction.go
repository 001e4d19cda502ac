package repositories

import (
	"context"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// WithTransaction executes fn within a transaction carried by the context
	// passed to fn. The transaction is committed when fn returns nil and rolled
	// back when it returns an error or panics. Nested calls join the outer
	// transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories provides access to all entity repositories
type Repositories interface {
	// Bonuses returns the bonus type repository
	Bonuses() BonusRepository

	// Workers returns the worker repository
	Workers() WorkerRepository

	// Requests returns the request repository
	Requests() RequestRepository

	// RequestHistory returns the request history repository
	RequestHistory() RequestHistoryRepository
}

// RepositoryManager provides access to all repositories and transaction management
type RepositoryManager interface {
	TransactionManager
	Repositories

	// Close closes all repository connections
	Close() error

	// Health checks the health of the repository connections
	Health(ctx context.Context) error
}
