package services

import (
	"context"
	"fmt"

	"bonus-requests-api/internal/models"
	"bonus-requests-api/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// workerService implements the WorkerService interface
type workerService struct {
	workerRepo repositories.WorkerRepository
	validator  *validator.Validate
	logger     *logrus.Logger
}

// NewWorkerService creates a new worker service instance
func NewWorkerService(workerRepo repositories.WorkerRepository, validate *validator.Validate, logger *logrus.Logger) WorkerService {
	return &workerService{
		workerRepo: workerRepo,
		validator:  validate,
		logger:     logger,
	}
}

// ListWorkers lists workers, restricted to one role name when role is set
func (s *workerService) ListWorkers(ctx context.Context, role string) ([]*models.WorkerWithRoles, error) {
	workers, err := s.workerRepo.List(ctx, repositories.WorkerFilters{RoleName: role})
	if err != nil {
		logFailure(s.logger, "worker", "list", err)
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}

// GetWorker retrieves a worker by ID
func (s *workerService) GetWorker(ctx context.Context, id int64) (*models.WorkerWithRoles, error) {
	worker, err := s.workerRepo.GetByID(ctx, id)
	if err != nil {
		logFailure(s.logger, "worker", "get", err)
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	return worker, nil
}

// GetWorkerBySlackID retrieves a worker by Slack ID
func (s *workerService) GetWorkerBySlackID(ctx context.Context, slackID string) (*models.WorkerWithRoles, error) {
	worker, err := s.workerRepo.GetBySlackID(ctx, slackID)
	if err != nil {
		logFailure(s.logger, "worker", "get_by_slack_id", err)
		return nil, fmt.Errorf("failed to get worker by slack id: %w", err)
	}
	return worker, nil
}

// CreateWorker creates a worker with the requested roles, or the default role
func (s *workerService) CreateWorker(ctx context.Context, req *CreateWorkerRequest) (*models.WorkerWithRoles, error) {
	if err := validateStruct(s.validator, "create", "worker", req); err != nil {
		return nil, err
	}

	worker := models.NewWorker(req.FullName, req.SlackID)
	worker.Position = req.Position

	created, err := s.workerRepo.Create(ctx, worker, req.Roles)
	if err != nil {
		logFailure(s.logger, "worker", "create", err)
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}

	return created, nil
}

// UpdateWorker applies a JSON patch document to a worker
func (s *workerService) UpdateWorker(ctx context.Context, id int64, patch []byte) (*models.WorkerWithRoles, error) {
	p, err := models.DecodeWorkerPatch(patch)
	if err != nil {
		return nil, patchError("worker", id, err)
	}

	worker, err := s.workerRepo.Update(ctx, id, p)
	if err != nil {
		logFailure(s.logger, "worker", "update", err)
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}

	return worker, nil
}

// DeleteWorker deletes a worker
func (s *workerService) DeleteWorker(ctx context.Context, id int64) error {
	if _, err := s.workerRepo.Delete(ctx, id); err != nil {
		logFailure(s.logger, "worker", "delete", err)
		return fmt.Errorf("failed to delete worker: %w", err)
	}
	return nil
}
