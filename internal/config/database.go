package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"bonus-requests-api/internal/repositories"
)

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Driver       string
	Path         string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool

	// SlowQueryThreshold flags statements slower than this at warn level
	SlowQueryThreshold time.Duration
	QueryLogging       bool

	// AutoMigrateSet records whether DB_AUTO_MIGRATE was given explicitly
	AutoMigrateSet bool
}

// Validate checks the database settings
func (c DatabaseConfig) Validate() error {
	switch c.normalizedDriver() {
	case repositories.DriverSQLite:
		if strings.TrimSpace(c.Path) == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case repositories.DriverPostgres:
		if strings.TrimSpace(c.Host) == "" {
			return fmt.Errorf("POSTGRES_HOST is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}

	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be greater than 0")
	}

	return nil
}

// DSN builds the postgres connection URL from the POSTGRES_* settings
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Name,
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}

	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// ToRepositoryConfig converts the settings into the repository layer config
func (c DatabaseConfig) ToRepositoryConfig() *repositories.Config {
	cfg := repositories.DefaultConfig()

	cfg.Database.Driver = c.normalizedDriver()
	if cfg.Database.Driver == repositories.DriverSQLite {
		cfg.Database.Path = c.Path
	} else {
		cfg.Database.DSN = c.DSN()
	}

	if c.MaxOpenConns > 0 {
		cfg.Pool.MaxOpenConns = c.MaxOpenConns
	}
	if c.MaxIdleConns >= 0 {
		cfg.Pool.MaxIdleConns = c.MaxIdleConns
	}
	cfg.Pool.ConnMaxLifetime = 30 * time.Minute

	cfg.Migration.Enabled = c.AutoMigrate

	if c.SlowQueryThreshold > 0 {
		cfg.Query.SlowQueryThreshold = c.SlowQueryThreshold
	}
	cfg.Query.EnableQueryLogging = c.QueryLogging

	return cfg
}

func (c DatabaseConfig) normalizedDriver() string {
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case "sqlite", "sqlite3":
		return repositories.DriverSQLite
	case "postgres", "postgresql", "":
		return repositories.DriverPostgres
	default:
		return c.Driver
	}
}
