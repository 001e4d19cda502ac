package services

import (
	"fmt"

	"bonus-requests-api/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	BonusService   BonusService
	WorkerService  WorkerService
	RequestService RequestService
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(repos repositories.Repositories, logger *logrus.Logger) (*ServiceContainer, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories cannot be nil")
	}
	if logger == nil {
		logger = logrus.New()
	}

	validate := validator.New()

	return &ServiceContainer{
		BonusService:   NewBonusService(repos.Bonuses(), validate, logger),
		WorkerService:  NewWorkerService(repos.Workers(), validate, logger),
		RequestService: NewRequestService(repos.Requests(), repos.RequestHistory(), validate, logger),
	}, nil
}

// validateStruct runs struct validation and reports failures, including a
// nil request, as invalid input
func validateStruct(v *validator.Validate, op, entity string, req interface{}) error {
	if err := v.Struct(req); err != nil {
		return repositories.InvalidInputError(op, entity, "", fmt.Errorf("validation failed: %w", err))
	}
	return nil
}

// patchError reports a malformed patch document as invalid input
func patchError(entity string, id int64, err error) error {
	return repositories.InvalidInputError("update", entity, fmt.Sprintf("%d", id), err)
}

// logFailure records a failed operation with its error kind
func logFailure(logger *logrus.Logger, entity, op string, err error) {
	logger.WithFields(logrus.Fields{
		"entity": entity,
		"op":     op,
		"kind":   repositories.Kind(err),
	}).WithError(err).Warn("Operation failed")
}
