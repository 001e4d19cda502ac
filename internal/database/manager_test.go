package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bonus-requests-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

func newTestConfig(t *testing.T, migrate bool) *repositories.Config {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "manager_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	return &repositories.Config{
		Database: repositories.DatabaseConfig{
			Driver:      "sqlite",
			Path:        filepath.Join(tempDir, "manager.db"),
			ForeignKeys: true,
		},
		Pool: repositories.PoolConfig{
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
		},
		Migration: repositories.MigrationConfig{
			Enabled: migrate,
		},
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func TestManager_ConnectDisconnect(t *testing.T) {
	manager := NewManager(newTestConfig(t, false), quietLogger())

	if manager.IsConnected() {
		t.Error("Manager should not be connected initially")
	}

	if manager.GetDB() != nil {
		t.Error("GetDB() should return nil when not connected")
	}

	ctx := context.Background()
	if err := manager.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if !manager.IsConnected() {
		t.Error("Manager should be connected after Connect()")
	}

	if err := manager.Connect(ctx); err == nil {
		t.Error("Second Connect() should fail")
	}

	if err := manager.CheckHealth(ctx); err != nil {
		t.Errorf("CheckHealth() error = %v", err)
	}

	status := manager.GetHealthStatus(ctx)
	if !status.Healthy {
		t.Errorf("Expected healthy status, got %q", status.Message)
	}

	if err := manager.Disconnect(); err != nil {
		t.Errorf("Disconnect() error = %v", err)
	}

	if manager.IsConnected() {
		t.Error("Manager should not be connected after Disconnect()")
	}

	if err := manager.CheckHealth(ctx); err == nil {
		t.Error("CheckHealth() should fail when disconnected")
	}

	// Disconnecting twice is a no-op
	if err := manager.Disconnect(); err != nil {
		t.Errorf("Second Disconnect() error = %v", err)
	}
}

func TestManager_Migrations(t *testing.T) {
	manager := NewManager(newTestConfig(t, true), quietLogger())

	ctx := context.Background()
	if err := manager.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer manager.Close()

	if manager.Driver() != repositories.DriverSQLite {
		t.Errorf("Expected driver sqlite, got %s", manager.Driver())
	}

	mm, err := manager.Migrations()
	if err != nil {
		t.Fatalf("Migrations() error = %v", err)
	}

	if err := mm.ValidateSchema(ctx); err != nil {
		t.Errorf("ValidateSchema() error = %v", err)
	}

	info, err := mm.GetMigrationStatus()
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if !info.Applied || info.Dirty || info.Version != 1 {
		t.Errorf("Unexpected migration status: %+v", info)
	}

	// Running again is a no-op
	if err := manager.RunMigrations(); err != nil {
		t.Errorf("RunMigrations() second run error = %v", err)
	}

	var roles int
	if err := manager.GetDB().QueryRowContext(ctx, "SELECT COUNT(*) FROM roles").Scan(&roles); err != nil {
		t.Fatalf("Failed to count roles: %v", err)
	}
	if roles != 3 {
		t.Errorf("Expected 3 seeded roles, got %d", roles)
	}

	var roleName string
	if err := manager.GetDB().QueryRowContext(ctx, "SELECT role_name FROM roles WHERE id = 1").Scan(&roleName); err != nil {
		t.Fatalf("Failed to read default role: %v", err)
	}
	if roleName != "worker" {
		t.Errorf("Expected role 1 to be 'worker', got %q", roleName)
	}

	var fkEnabled int
	if err := manager.GetDB().QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		t.Fatalf("Failed to read foreign_keys pragma: %v", err)
	}
	if fkEnabled != 1 {
		t.Error("Expected foreign keys to be enabled")
	}
}

func TestManager_Rollback(t *testing.T) {
	manager := NewManager(newTestConfig(t, true), quietLogger())

	ctx := context.Background()
	if err := manager.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer manager.Close()

	mm, err := manager.Migrations()
	if err != nil {
		t.Fatalf("Migrations() error = %v", err)
	}

	if err := mm.RollbackMigration(); err != nil {
		t.Fatalf("RollbackMigration() error = %v", err)
	}

	if err := mm.ValidateSchema(ctx); err == nil {
		t.Error("Expected schema validation to fail after rollback")
	}

	info, err := mm.GetMigrationStatus()
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if info.Applied {
		t.Errorf("Expected no applied migrations, got %+v", info)
	}

	if err := mm.RollbackMigration(); err == nil {
		t.Error("Expected rollback with nothing applied to fail")
	}
}
