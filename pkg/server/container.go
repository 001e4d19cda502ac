package server

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"bonus-requests-api/internal/config"
	"bonus-requests-api/internal/database"
	"bonus-requests-api/internal/handlers"
	"bonus-requests-api/internal/repositories/sqlstore"
	"bonus-requests-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Services *services.ServiceContainer
	Router   *handlers.Router

	db *database.Manager
}

// NewContainer connects to the database and wires repositories, services
// and the router for the given route families (all when none are named)
func NewContainer(ctx context.Context, cfg *config.Config, families ...string) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := config.NewLogger(cfg.Log)

	repoConfig := cfg.Database.ToRepositoryConfig()
	dbManager := database.NewManager(repoConfig, logger)
	if err := dbManager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repos := sqlstore.NewManager(dbManager.GetDB(), dbManager.Driver(), repoConfig.Query, logger)

	serviceContainer, err := services.NewServiceContainer(repos, logger)
	if err != nil {
		dbManager.Close()
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	router, err := handlers.NewServiceRouter(serviceContainer, logger, families...)
	if err != nil {
		dbManager.Close()
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"driver":          dbManager.Driver(),
		"deployment_mode": cfg.DeploymentMode(),
		"routes":          len(router.Routes()),
	}).Info("Container initialized")

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Services: serviceContainer,
		Router:   router,
		db:       dbManager,
	}, nil
}

// Health checks that the database is reachable
func (c *Container) Health(ctx context.Context) error {
	return c.db.CheckHealth(ctx)
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
