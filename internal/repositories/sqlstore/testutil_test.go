package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"bonus-requests-api/internal/database"
	"bonus-requests-api/internal/models"
	"bonus-requests-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// setupTestDB opens a migrated SQLite database in a temp dir
func setupTestDB(t *testing.T) (*Manager, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "sqlstore_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	cfg := repositories.DefaultConfig()
	cfg.Database.Driver = repositories.DriverSQLite
	cfg.Database.Path = filepath.Join(tempDir, "test.db")
	cfg.Migration.Enabled = true

	logger := testLogger()
	dbManager := database.NewManager(cfg, logger)
	if err := dbManager.Connect(context.Background()); err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("Failed to connect: %v", err)
	}

	cleanup := func() {
		dbManager.Close()
		os.RemoveAll(tempDir)
	}

	return NewManager(dbManager.GetDB(), dbManager.Driver(), cfg.Query, logger), cleanup
}

func createTestBonus(t *testing.T, m *Manager, bonusType string) *models.BonusType {
	t.Helper()
	bonus := models.NewBonusType(bonusType, bonusType+" bonus")
	if err := m.Bonuses().Create(context.Background(), bonus); err != nil {
		t.Fatalf("Failed to create bonus %q: %v", bonusType, err)
	}
	return bonus
}

func createTestWorker(t *testing.T, m *Manager, name, slackID string, roles ...int64) *models.WorkerWithRoles {
	t.Helper()
	worker, err := m.Workers().Create(context.Background(), models.NewWorker(name, slackID), roles)
	if err != nil {
		t.Fatalf("Failed to create worker %q: %v", name, err)
	}
	return worker
}

func createTestRequest(t *testing.T, m *Manager, creator, reviewer, bonus int64, paymentDate string) *models.Request {
	t.Helper()
	req := models.NewRequest(creator, reviewer, bonus)
	if paymentDate != "" {
		d, err := models.ParseDate(paymentDate)
		if err != nil {
			t.Fatalf("Bad payment date %q: %v", paymentDate, err)
		}
		req.PaymentDate = &d
	}
	if err := m.Requests().Create(context.Background(), req); err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	return req
}

func stringPtr(s string) *string {
	return &s
}

func datePtr(t *testing.T, s string) *models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("Bad date %q: %v", s, err)
	}
	return &d
}
