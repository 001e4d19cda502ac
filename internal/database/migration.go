package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// requiredTables are the tables the schema must contain
var requiredTables = []string{
	"workers",
	"roles",
	"workers_roles_relations",
	"bonuses_types",
	"requests",
	"requests_history",
}

// MigrationManager applies the embedded schema migrations
type MigrationManager struct {
	db     *sql.DB
	driver string
	table  string
	logger *logrus.Logger
}

// MigrationInfo contains information about the applied schema version
type MigrationInfo struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
	Applied bool `json:"applied"`
}

// NewMigrationManager creates a new migration manager. driver is either
// "sqlite" or "postgres"; table overrides the version table name when set.
func NewMigrationManager(db *sql.DB, driver, table string, logger *logrus.Logger) *MigrationManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &MigrationManager{
		db:     db,
		driver: driver,
		table:  table,
		logger: logger,
	}
}

// RunMigrations executes all pending migrations
func (m *MigrationManager) RunMigrations() error {
	m.logger.Info("Starting database migrations...")

	mig, release, err := m.initMigrate(context.Background())
	if err != nil {
		return fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer release()

	currentVersion, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	if dirty {
		m.logger.WithField("version", currentVersion).Warn("Database is in dirty state, forcing version")
		if err := mig.Force(int(currentVersion)); err != nil {
			return fmt.Errorf("failed to force migration version: %w", err)
		}
	}

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"previous_version": currentVersion,
		"new_version":      newVersion,
	}).Info("Migrations completed successfully")
	return nil
}

// RollbackMigration rolls back the last applied migration
func (m *MigrationManager) RollbackMigration() error {
	mig, release, err := m.initMigrate(context.Background())
	if err != nil {
		return fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer release()

	currentVersion, _, err := mig.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("no migrations to rollback")
		}
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	m.logger.WithField("current_version", currentVersion).Info("Rolling back from version")

	if err := mig.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	m.logger.Info("Rollback completed successfully")
	return nil
}

// GetMigrationStatus returns the applied schema version
func (m *MigrationManager) GetMigrationStatus() (*MigrationInfo, error) {
	mig, release, err := m.initMigrate(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer release()

	version, dirty, err := mig.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return &MigrationInfo{}, nil
		}
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	}

	return &MigrationInfo{
		Version: version,
		Dirty:   dirty,
		Applied: true,
	}, nil
}

// ValidateSchema checks that all required tables exist
func (m *MigrationManager) ValidateSchema(ctx context.Context) error {
	query := `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`
	if m.isSQLite() {
		query = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	}

	for _, table := range requiredTables {
		var count int
		if err := m.db.QueryRowContext(ctx, query, table).Scan(&count); err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if count == 0 {
			return fmt.Errorf("required table %s does not exist", table)
		}
	}

	m.logger.Debug("Schema validation passed")
	return nil
}

// initMigrate builds a migrate instance over the embedded files for the driver.
// The returned release func must be called once the instance is done with.
// On postgres the driver runs on a dedicated connection checked out of the
// shared pool, and release hands it back without closing the *sql.DB.
func (m *MigrationManager) initMigrate(ctx context.Context) (*migrate.Migrate, func(), error) {
	dir := "migrations/postgres"
	if m.isSQLite() {
		dir = "migrations/sqlite"
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load migration files: %w", err)
	}

	if m.isSQLite() {
		driver, err := sqlite3.WithInstance(m.db, &sqlite3.Config{MigrationsTable: m.table})
		if err != nil {
			source.Close()
			return nil, nil, fmt.Errorf("failed to create migration driver: %w", err)
		}
		mig, err := m.newMigrate(source, "sqlite3", driver)
		if err != nil {
			source.Close()
			return nil, nil, err
		}
		// The sqlite driver's Close closes the shared *sql.DB
		return mig, func() { source.Close() }, nil
	}

	conn, err := m.db.Conn(ctx)
	if err != nil {
		source.Close()
		return nil, nil, fmt.Errorf("failed to acquire migration connection: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{MigrationsTable: m.table})
	if err != nil {
		conn.Close()
		source.Close()
		return nil, nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	mig, err := m.newMigrate(source, "postgres", driver)
	if err != nil {
		driver.Close()
		source.Close()
		return nil, nil, err
	}

	return mig, func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			m.logger.WithFields(logrus.Fields{
				"source_error":   srcErr,
				"database_error": dbErr,
			}).Warn("Failed to release migration resources")
		}
	}, nil
}

func (m *MigrationManager) newMigrate(src source.Driver, driverName string, driver database.Driver) (*migrate.Migrate, error) {
	mig, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	mig.Log = &migrateLogger{logger: m.logger}
	return mig, nil
}

func (m *MigrationManager) isSQLite() bool {
	return m.driver == "sqlite" || m.driver == "sqlite3"
}

// migrateLogger adapts logrus to migrate.Logger
type migrateLogger struct {
	logger *logrus.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Debugf(format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return l.logger.IsLevelEnabled(logrus.DebugLevel)
}
