package repositories

import (
	"errors"
	"fmt"
	"time"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents repository configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig `json:"database" yaml:"database"`

	// Connection pool configuration
	Pool PoolConfig `json:"pool" yaml:"pool"`

	// Query configuration
	Query QueryConfig `json:"query" yaml:"query"`

	// Migration configuration
	Migration MigrationConfig `json:"migration" yaml:"migration"`
}

// DatabaseConfig represents database-specific configuration
type DatabaseConfig struct {
	// Driver specifies the database driver (postgres, sqlite)
	Driver string `json:"driver" yaml:"driver"`

	// DSN is the data source name / connection string
	DSN string `json:"dsn" yaml:"dsn"`

	// Path is the database file path (for SQLite)
	Path string `json:"path" yaml:"path"`

	// Foreign key constraints (SQLite only, always on for Postgres)
	ForeignKeys bool `json:"foreign_keys" yaml:"foreign_keys"`

	// Busy timeout for SQLite (in milliseconds)
	BusyTimeout int `json:"busy_timeout" yaml:"busy_timeout"`
}

// PoolConfig represents connection pool configuration
type PoolConfig struct {
	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int `json:"max_open_conns" yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int `json:"max_idle_conns" yaml:"max_idle_conns"`

	// ConnMaxLifetime is the maximum lifetime of a connection
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime"`

	// ConnMaxIdleTime is the maximum idle time of a connection
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time" yaml:"conn_max_idle_time"`
}

// QueryConfig represents query-specific configuration
type QueryConfig struct {
	// SlowQueryThreshold is the threshold for logging slow queries
	SlowQueryThreshold time.Duration `json:"slow_query_threshold" yaml:"slow_query_threshold"`

	// EnableQueryLogging logs every statement at debug level
	EnableQueryLogging bool `json:"enable_query_logging" yaml:"enable_query_logging"`
}

// MigrationConfig represents migration configuration
type MigrationConfig struct {
	// Enabled enables automatic migrations on startup
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Table is the migration table name
	Table string `json:"table" yaml:"table"`
}

// DefaultConfig returns a default repository configuration
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:      DriverPostgres,
			Path:        "data/bonuses.db",
			ForeignKeys: true,
			BusyTimeout: 5000,
		},
		Pool: PoolConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: time.Minute * 15,
		},
		Query: QueryConfig{
			SlowQueryThreshold: time.Second * 2,
			EnableQueryLogging: true,
		},
		Migration: MigrationConfig{
			Enabled: false,
			Table:   "schema_migrations",
		},
	}
}

// Validate validates the repository configuration
func (c *Config) Validate() error {
	if c.Database.Driver == "" {
		return errors.New("database driver is required")
	}

	switch {
	case c.IsSQLite():
		if c.Database.Path == "" && c.Database.DSN == "" {
			return errors.New("database path is required for SQLite")
		}
	case c.IsPostgreSQL():
		if c.Database.DSN == "" {
			return errors.New("database DSN is required for PostgreSQL")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Pool.MaxOpenConns <= 0 {
		return errors.New("max open connections must be greater than 0")
	}

	if c.Pool.MaxIdleConns < 0 {
		return errors.New("max idle connections cannot be negative")
	}

	return nil
}

// IsSQLite returns true if the database driver is SQLite
func (c *Config) IsSQLite() bool {
	return c.Database.Driver == DriverSQLite || c.Database.Driver == "sqlite3"
}

// IsPostgreSQL returns true if the database driver is PostgreSQL
func (c *Config) IsPostgreSQL() bool {
	return c.Database.Driver == DriverPostgres || c.Database.Driver == "postgresql"
}
