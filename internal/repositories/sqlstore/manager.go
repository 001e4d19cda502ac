package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bonus-requests-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// Manager implements repositories.RepositoryManager over a single *sql.DB
type Manager struct {
	db                 *sql.DB
	driver             string
	logger             *logrus.Logger
	bonusRepo          repositories.BonusRepository
	workerRepo         repositories.WorkerRepository
	requestRepo        repositories.RequestRepository
	historyRepo        repositories.RequestHistoryRepository
	transactionManager *TransactionManager
}

var _ repositories.RepositoryManager = (*Manager)(nil)

// NewManager creates a repository manager around an existing connection pool.
// driver selects the placeholder style (postgres or sqlite); query controls
// statement logging.
func NewManager(db *sql.DB, driver string, query repositories.QueryConfig, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
	}

	tm := NewTransactionManager(db, logger)

	return &Manager{
		db:                 db,
		driver:             driver,
		logger:             logger,
		bonusRepo:          NewBonusRepository(db, tm, driver, query, logger),
		workerRepo:         NewWorkerRepository(db, tm, driver, query, logger),
		requestRepo:        NewRequestRepository(db, tm, driver, query, logger),
		historyRepo:        NewRequestHistoryRepository(db, tm, driver, query, logger),
		transactionManager: tm,
	}
}

// WithTransaction executes a function within a transaction
func (m *Manager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.transactionManager.WithTransaction(ctx, fn)
}

// Bonuses returns the bonus type repository
func (m *Manager) Bonuses() repositories.BonusRepository {
	return m.bonusRepo
}

// Workers returns the worker repository
func (m *Manager) Workers() repositories.WorkerRepository {
	return m.workerRepo
}

// Requests returns the request repository
func (m *Manager) Requests() repositories.RequestRepository {
	return m.requestRepo
}

// RequestHistory returns the request history repository
func (m *Manager) RequestHistory() repositories.RequestHistoryRepository {
	return m.historyRepo
}

// Close closes the underlying connection pool
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// Health checks the health of the repository connections
func (m *Manager) Health(ctx context.Context) error {
	if m.db == nil {
		return repositories.StorageError("health", "database", "", errors.New("no database connection"))
	}

	if err := m.db.PingContext(ctx); err != nil {
		return repositories.StorageError("health", "database", "", err)
	}

	var result int
	if err := m.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return repositories.StorageError("health", "database", "", err)
	}

	if result != 1 {
		return repositories.StorageError("health", "database", "", fmt.Errorf("unexpected health check result %d", result))
	}

	return nil
}
