package services

import (
	"context"
	"fmt"

	"bonus-requests-api/internal/models"
	"bonus-requests-api/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// requestService implements the RequestService interface
type requestService struct {
	requestRepo repositories.RequestRepository
	historyRepo repositories.RequestHistoryRepository
	validator   *validator.Validate
	logger      *logrus.Logger
}

// NewRequestService creates a new request service instance
func NewRequestService(requestRepo repositories.RequestRepository, historyRepo repositories.RequestHistoryRepository, validate *validator.Validate, logger *logrus.Logger) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		historyRepo: historyRepo,
		validator:   validate,
		logger:      logger,
	}
}

// ListRequests lists requests matching the query string filters
func (s *requestService) ListRequests(ctx context.Context, params map[string]string) ([]*models.RequestDetails, error) {
	filters, err := repositories.ParseRequestFilters(params)
	if err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.List(ctx, filters)
	if err != nil {
		logFailure(s.logger, "request", "list", err)
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// GetRequest retrieves a request that has not been deleted
func (s *requestService) GetRequest(ctx context.Context, id int64) (*models.RequestDetails, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		logFailure(s.logger, "request", "get", err)
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return request, nil
}

// CreateRequest creates a request in the created state
func (s *requestService) CreateRequest(ctx context.Context, req *CreateRequestRequest) (*models.Request, error) {
	if err := validateStruct(s.validator, "create", "request", req); err != nil {
		return nil, err
	}

	request := models.NewRequest(*req.Creator, *req.Reviewer, *req.BonusType)
	request.PaymentDate = req.PaymentDate
	request.Description = req.Description
	if req.PaymentAmount != nil {
		request.PaymentAmount = *req.PaymentAmount
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		logFailure(s.logger, "request", "create", err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return request, nil
}

// UpdateRequest applies a JSON patch document to a request
func (s *requestService) UpdateRequest(ctx context.Context, id int64, patch []byte) (*models.Request, error) {
	p, err := models.DecodeRequestPatch(patch)
	if err != nil {
		return nil, patchError("request", id, err)
	}

	request, err := s.requestRepo.Update(ctx, id, p)
	if err != nil {
		logFailure(s.logger, "request", "update", err)
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	return request, nil
}

// DeleteRequest soft deletes a request
func (s *requestService) DeleteRequest(ctx context.Context, id int64) error {
	if _, err := s.requestRepo.Delete(ctx, id); err != nil {
		logFailure(s.logger, "request", "delete", err)
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}

// ListHistory lists the history entries of a request
func (s *requestService) ListHistory(ctx context.Context, requestID int64) ([]*models.RequestHistory, error) {
	entries, err := s.historyRepo.List(ctx, requestID)
	if err != nil {
		logFailure(s.logger, "request_history", "list", err)
		return nil, fmt.Errorf("failed to list request history: %w", err)
	}
	return entries, nil
}

// AddHistory records a history entry against requestID
func (s *requestService) AddHistory(ctx context.Context, requestID int64, req *CreateHistoryRequest) (*models.RequestHistory, error) {
	if err := validateStruct(s.validator, "create", "request_history", req); err != nil {
		return nil, err
	}

	entry := models.NewRequestHistory(requestID, req.Editor, req.Changes)
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		logFailure(s.logger, "request_history", "create", err)
		return nil, fmt.Errorf("failed to add request history: %w", err)
	}

	return entry, nil
}
