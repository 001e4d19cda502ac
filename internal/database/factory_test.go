package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bonus-requests-api/internal/repositories"
)

func TestConnectionFactory_CreateConnection(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "db_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	factory := NewConnectionFactory(quietLogger())

	tests := []struct {
		name    string
		config  *repositories.Config
		wantErr bool
	}{
		{
			name: "valid SQLite config",
			config: &repositories.Config{
				Database: repositories.DatabaseConfig{
					Driver:      "sqlite",
					Path:        filepath.Join(tempDir, "nested", "test.db"),
					ForeignKeys: true,
					BusyTimeout: 5000,
				},
				Pool: repositories.PoolConfig{
					MaxOpenConns:    5,
					MaxIdleConns:    2,
					ConnMaxLifetime: time.Hour,
				},
			},
			wantErr: false,
		},
		{
			name: "missing SQLite path",
			config: &repositories.Config{
				Database: repositories.DatabaseConfig{Driver: "sqlite"},
				Pool:     repositories.PoolConfig{MaxOpenConns: 1},
			},
			wantErr: true,
		},
		{
			name: "postgres without DSN",
			config: &repositories.Config{
				Database: repositories.DatabaseConfig{Driver: "postgres"},
				Pool:     repositories.PoolConfig{MaxOpenConns: 1},
			},
			wantErr: true,
		},
		{
			name: "unsupported driver",
			config: &repositories.Config{
				Database: repositories.DatabaseConfig{Driver: "mysql", DSN: "user@/db"},
				Pool:     repositories.PoolConfig{MaxOpenConns: 1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := factory.CreateConnection(context.Background(), tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateConnection() error = %v, wantErr %v", err, tt.wantErr)
			}
			if db == nil {
				return
			}
			defer db.Close()

			if got := db.Stats().MaxOpenConnections; got != 1 {
				t.Errorf("Expected SQLite pool to be capped at 1 connection, got %d", got)
			}
		})
	}
}

func TestConnectionFactory_BuildSQLiteDSN(t *testing.T) {
	factory := NewConnectionFactory(quietLogger())

	tests := []struct {
		name     string
		config   repositories.DatabaseConfig
		expected string
	}{
		{
			name:     "no options",
			config:   repositories.DatabaseConfig{},
			expected: "/tmp/test.db",
		},
		{
			name:     "foreign keys",
			config:   repositories.DatabaseConfig{ForeignKeys: true},
			expected: "/tmp/test.db?_foreign_keys=on",
		},
		{
			name:     "foreign keys and busy timeout",
			config:   repositories.DatabaseConfig{ForeignKeys: true, BusyTimeout: 5000},
			expected: "/tmp/test.db?_foreign_keys=on&_busy_timeout=5000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := factory.buildSQLiteDSN("/tmp/test.db", &repositories.Config{Database: tt.config})
			if got != tt.expected {
				t.Errorf("buildSQLiteDSN() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		dsn      string
		expected string
	}{
		{
			dsn:      "host=db port=5432 user=app password=secret dbname=bonuses sslmode=disable",
			expected: "host=db port=5432 user=app password=*** dbname=bonuses sslmode=disable",
		},
		{
			dsn:      "postgres://app:secret@db:5432/bonuses?sslmode=disable",
			expected: "postgres://app:***@db:5432/bonuses?sslmode=disable",
		},
		{
			dsn:      "postgres://db:5432/bonuses",
			expected: "postgres://db:5432/bonuses",
		},
	}

	for _, tt := range tests {
		if got := redactDSN(tt.dsn); got != tt.expected {
			t.Errorf("redactDSN(%q) = %q, want %q", tt.dsn, got, tt.expected)
		}
	}
}

func TestHealthChecker(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "health_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	config := &repositories.Config{
		Database: repositories.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(tempDir, "health.db"),
		},
		Pool: repositories.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1},
	}

	db, err := NewConnectionFactory(quietLogger()).CreateConnection(context.Background(), config)
	if err != nil {
		t.Fatalf("Failed to create connection: %v", err)
	}

	checker := NewHealthChecker(db, quietLogger())
	if err := checker.CheckHealth(context.Background()); err != nil {
		t.Errorf("CheckHealth() error = %v", err)
	}

	status := checker.GetHealthStatus(context.Background())
	if !status.Healthy {
		t.Errorf("Expected healthy status, got %q", status.Message)
	}
	if _, ok := status.Details["open_connections"]; !ok {
		t.Error("Expected open_connections in health details")
	}

	db.Close()

	if err := checker.CheckHealth(context.Background()); err == nil {
		t.Error("CheckHealth() should fail on a closed database")
	}
	if status := checker.GetHealthStatus(context.Background()); status.Healthy {
		t.Error("Expected unhealthy status on a closed database")
	}
}
