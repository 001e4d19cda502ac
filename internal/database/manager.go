package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"bonus-requests-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// Manager owns the connection pool for the lifetime of a process
type Manager struct {
	mu               sync.RWMutex
	config           *repositories.Config
	logger           *logrus.Logger
	factory          *ConnectionFactory
	db               *sql.DB
	health           *HealthChecker
	migrationManager *MigrationManager
	isConnected      bool
	lastHealthCheck  time.Time
}

// NewManager creates a new database manager
func NewManager(config *repositories.Config, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
	}

	return &Manager{
		config:  config,
		logger:  logger,
		factory: NewConnectionFactory(logger),
	}
}

// Connect opens the pool, applies migrations when enabled and checks health
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isConnected {
		return fmt.Errorf("database already connected")
	}

	m.logger.WithField("driver", m.config.Database.Driver).Info("Connecting to database...")

	db, err := m.factory.CreateConnection(ctx, m.config)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	migrationManager := NewMigrationManager(db, m.Driver(), m.config.Migration.Table, m.logger)
	if m.config.Migration.Enabled {
		if err := migrationManager.RunMigrations(); err != nil {
			db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	health := NewHealthChecker(db, m.logger)
	if err := health.CheckHealth(ctx); err != nil {
		db.Close()
		return fmt.Errorf("initial health check failed: %w", err)
	}

	m.db = db
	m.health = health
	m.migrationManager = migrationManager
	m.isConnected = true
	m.lastHealthCheck = time.Now()
	m.logger.Info("Database connection established successfully")

	return nil
}

// Driver returns the normalized driver name (postgres or sqlite)
func (m *Manager) Driver() string {
	if m.config.IsSQLite() {
		return repositories.DriverSQLite
	}
	return repositories.DriverPostgres
}

// Disconnect closes the database connection
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isConnected {
		return nil
	}

	err := m.db.Close()
	m.db = nil
	m.health = nil
	m.migrationManager = nil
	m.isConnected = false

	if err != nil {
		m.logger.WithError(err).Error("Error during database disconnection")
		return fmt.Errorf("failed to disconnect from database: %w", err)
	}

	m.logger.Info("Database disconnected successfully")
	return nil
}

// GetDB returns the database connection, or nil when not connected
func (m *Manager) GetDB() *sql.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.db
}

// IsConnected returns true if the database is connected
func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.isConnected
}

// CheckHealth performs a health check on the database connection
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	health := m.health
	m.mu.RUnlock()

	if health == nil {
		return fmt.Errorf("database not connected")
	}

	err := health.CheckHealth(ctx)

	m.mu.Lock()
	m.lastHealthCheck = time.Now()
	m.mu.Unlock()

	return err
}

// GetHealthStatus returns detailed health status
func (m *Manager) GetHealthStatus(ctx context.Context) *HealthStatus {
	m.mu.RLock()
	health := m.health
	m.mu.RUnlock()

	if health == nil {
		return &HealthStatus{
			Healthy:   false,
			Message:   "Database not connected",
			CheckedAt: time.Now(),
		}
	}

	return health.GetHealthStatus(ctx)
}

// Migrations returns the migration manager for the open connection
func (m *Manager) Migrations() (*MigrationManager, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.migrationManager == nil {
		return nil, fmt.Errorf("database not connected")
	}

	return m.migrationManager, nil
}

// RunMigrations runs database migrations
func (m *Manager) RunMigrations() error {
	mm, err := m.Migrations()
	if err != nil {
		return err
	}
	return mm.RunMigrations()
}

// Close closes the database manager
func (m *Manager) Close() error {
	return m.Disconnect()
}
