package main

import (
	"context"
	"flag"
	"fmt"

	"bonus-requests-api/internal/config"
	"bonus-requests-api/internal/database"

	"github.com/sirupsen/logrus"
)

func main() {
	var (
		action  = flag.String("action", "up", "Migration action: up, down, status, validate")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := config.NewLogger(cfg.Log)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	repoConfig := cfg.Database.ToRepositoryConfig()
	// Migrations only run when asked for explicitly
	repoConfig.Migration.Enabled = false

	logger.WithFields(logrus.Fields{
		"driver": repoConfig.Database.Driver,
		"action": *action,
	}).Info("Starting migration tool")

	dbManager := database.NewManager(repoConfig, logger)
	if err := dbManager.Connect(context.Background()); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer dbManager.Close()

	migrations, err := dbManager.Migrations()
	if err != nil {
		logger.WithError(err).Fatal("Failed to create migration manager")
	}

	switch *action {
	case "up":
		err = migrations.RunMigrations()
	case "down":
		err = migrations.RollbackMigration()
	case "status":
		err = showMigrationStatus(migrations)
	case "validate":
		err = migrations.ValidateSchema(context.Background())
	default:
		logger.WithField("action", *action).Fatal("Unknown action. Use: up, down, status, validate")
	}

	if err != nil {
		logger.WithError(err).Fatalf("Migration %s failed", *action)
	}

	logger.Info("Migration tool completed successfully")
}

func showMigrationStatus(m *database.MigrationManager) error {
	status, err := m.GetMigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Printf("Migration Status:\n")
	fmt.Printf("  Version: %d\n", status.Version)
	fmt.Printf("  Applied: %t\n", status.Applied)
	fmt.Printf("  Dirty: %t\n", status.Dirty)

	return nil
}
