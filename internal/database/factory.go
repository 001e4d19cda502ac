package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bonus-requests-api/internal/repositories"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// ConnectionFactory creates and manages database connections
type ConnectionFactory struct {
	logger *logrus.Logger
}

// NewConnectionFactory creates a new connection factory
func NewConnectionFactory(logger *logrus.Logger) *ConnectionFactory {
	if logger == nil {
		logger = logrus.New()
	}
	return &ConnectionFactory{
		logger: logger,
	}
}

// CreateConnection creates a new database connection based on the configuration
func (f *ConnectionFactory) CreateConnection(ctx context.Context, config *repositories.Config) (*sql.DB, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	switch {
	case config.IsSQLite():
		return f.createSQLiteConnection(ctx, config)
	case config.IsPostgreSQL():
		return f.createPostgreSQLConnection(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}
}

// createSQLiteConnection creates a SQLite database connection
func (f *ConnectionFactory) createSQLiteConnection(ctx context.Context, config *repositories.Config) (*sql.DB, error) {
	dsn := config.Database.DSN
	path := config.Database.Path

	if dsn == "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		path = absPath
		dsn = f.buildSQLiteDSN(absPath, config)
	}

	f.logger.WithFields(logrus.Fields{
		"driver": "sqlite",
		"path":   path,
	}).Info("Creating SQLite connection")

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// A single connection keeps transactions and foreign key pragmas on one handle
	sqliteConfig := *config
	sqliteConfig.Pool.MaxOpenConns = 1
	sqliteConfig.Pool.MaxIdleConns = 1
	f.configureConnectionPool(db, &sqliteConfig)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	f.logger.WithField("path", path).Info("SQLite connection established")
	return db, nil
}

// buildSQLiteDSN builds a SQLite DSN with options
func (f *ConnectionFactory) buildSQLiteDSN(path string, config *repositories.Config) string {
	var options []string

	if config.Database.ForeignKeys {
		options = append(options, "_foreign_keys=on")
	}

	if config.Database.BusyTimeout > 0 {
		options = append(options, fmt.Sprintf("_busy_timeout=%d", config.Database.BusyTimeout))
	}

	if len(options) > 0 {
		return fmt.Sprintf("%s?%s", path, strings.Join(options, "&"))
	}

	return path
}

// createPostgreSQLConnection creates a PostgreSQL database connection
func (f *ConnectionFactory) createPostgreSQLConnection(ctx context.Context, config *repositories.Config) (*sql.DB, error) {
	f.logger.WithFields(logrus.Fields{
		"driver": "postgres",
		"dsn":    redactDSN(config.Database.DSN),
	}).Info("Creating PostgreSQL connection")

	db, err := sql.Open("postgres", config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	f.configureConnectionPool(db, config)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL database: %w", err)
	}

	f.logger.Info("PostgreSQL connection established")
	return db, nil
}

// redactDSN hides the password of a key=value or URL style DSN
func redactDSN(dsn string) string {
	fields := strings.Fields(dsn)
	for i, field := range fields {
		if strings.HasPrefix(field, "password=") {
			fields[i] = "password=***"
		}
	}
	if len(fields) > 1 {
		return strings.Join(fields, " ")
	}

	if at := strings.LastIndex(dsn, "@"); at > 0 {
		if scheme := strings.Index(dsn, "://"); scheme >= 0 && scheme < at {
			creds := dsn[scheme+3 : at]
			if colon := strings.Index(creds, ":"); colon >= 0 {
				return dsn[:scheme+3] + creds[:colon] + ":***" + dsn[at:]
			}
		}
	}

	return dsn
}

// configureConnectionPool configures the database connection pool
func (f *ConnectionFactory) configureConnectionPool(db *sql.DB, config *repositories.Config) {
	db.SetMaxOpenConns(config.Pool.MaxOpenConns)
	db.SetMaxIdleConns(config.Pool.MaxIdleConns)
	db.SetConnMaxLifetime(config.Pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.Pool.ConnMaxIdleTime)

	f.logger.WithFields(logrus.Fields{
		"max_open_conns":     config.Pool.MaxOpenConns,
		"max_idle_conns":     config.Pool.MaxIdleConns,
		"conn_max_lifetime":  config.Pool.ConnMaxLifetime,
		"conn_max_idle_time": config.Pool.ConnMaxIdleTime,
	}).Debug("Configured connection pool")
}

// HealthStatus represents the health status of the database
type HealthStatus struct {
	Healthy      bool              `json:"healthy"`
	Message      string            `json:"message,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	CheckedAt    time.Time         `json:"checked_at"`
	ResponseTime time.Duration     `json:"response_time"`
}

// HealthChecker provides health checking capabilities for database connections
type HealthChecker struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(db *sql.DB, logger *logrus.Logger) *HealthChecker {
	if logger == nil {
		logger = logrus.New()
	}
	return &HealthChecker{
		db:     db,
		logger: logger,
	}
}

// CheckHealth pings the database and runs a trivial query
func (h *HealthChecker) CheckHealth(ctx context.Context) error {
	start := time.Now()
	defer func() {
		h.logger.WithField("duration", time.Since(start)).Debug("Health check completed")
	}()

	if err := h.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result int
	if err := h.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("test query returned unexpected result: %d", result)
	}

	return nil
}

// GetHealthStatus returns detailed health status
func (h *HealthChecker) GetHealthStatus(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{
		CheckedAt: start,
		Details:   make(map[string]string),
	}

	err := h.CheckHealth(ctx)
	status.ResponseTime = time.Since(start)

	if err != nil {
		status.Healthy = false
		status.Message = err.Error()
		return status
	}

	status.Healthy = true
	status.Message = "Database is healthy"

	stats := h.db.Stats()
	status.Details["open_connections"] = fmt.Sprintf("%d", stats.OpenConnections)
	status.Details["in_use"] = fmt.Sprintf("%d", stats.InUse)
	status.Details["idle"] = fmt.Sprintf("%d", stats.Idle)
	status.Details["wait_count"] = fmt.Sprintf("%d", stats.WaitCount)

	return status
}
