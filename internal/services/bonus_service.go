package services

import (
	"context"
	"fmt"

	"bonus-requests-api/internal/models"
	"bonus-requests-api/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// bonusService implements the BonusService interface
type bonusService struct {
	bonusRepo repositories.BonusRepository
	validator *validator.Validate
	logger    *logrus.Logger
}

// NewBonusService creates a new bonus service instance
func NewBonusService(bonusRepo repositories.BonusRepository, validate *validator.Validate, logger *logrus.Logger) BonusService {
	return &bonusService{
		bonusRepo: bonusRepo,
		validator: validate,
		logger:    logger,
	}
}

// ListBonuses returns every bonus type ordered by id
func (s *bonusService) ListBonuses(ctx context.Context) ([]*models.BonusType, error) {
	bonuses, err := s.bonusRepo.List(ctx, nil)
	if err != nil {
		logFailure(s.logger, "bonus", "list", err)
		return nil, fmt.Errorf("failed to list bonuses: %w", err)
	}
	return bonuses, nil
}

// GetBonus retrieves a bonus type by ID
func (s *bonusService) GetBonus(ctx context.Context, id int64) (*models.BonusType, error) {
	bonus, err := s.bonusRepo.GetByID(ctx, id)
	if err != nil {
		logFailure(s.logger, "bonus", "get", err)
		return nil, fmt.Errorf("failed to get bonus: %w", err)
	}
	return bonus, nil
}

// CreateBonus creates a new bonus type
func (s *bonusService) CreateBonus(ctx context.Context, req *CreateBonusRequest) (*models.BonusType, error) {
	if err := validateStruct(s.validator, "create", "bonus", req); err != nil {
		return nil, err
	}

	bonus := &models.BonusType{Type: req.Type, Description: req.Description}
	if err := s.bonusRepo.Create(ctx, bonus); err != nil {
		logFailure(s.logger, "bonus", "create", err)
		return nil, fmt.Errorf("failed to create bonus: %w", err)
	}

	return bonus, nil
}

// UpdateBonus applies a JSON patch document to a bonus type
func (s *bonusService) UpdateBonus(ctx context.Context, id int64, patch []byte) (*models.BonusType, error) {
	p, err := models.DecodeBonusPatch(patch)
	if err != nil {
		return nil, patchError("bonus", id, err)
	}

	bonus, err := s.bonusRepo.Update(ctx, id, p)
	if err != nil {
		logFailure(s.logger, "bonus", "update", err)
		return nil, fmt.Errorf("failed to update bonus: %w", err)
	}

	return bonus, nil
}

// DeleteBonus deletes a bonus type
func (s *bonusService) DeleteBonus(ctx context.Context, id int64) error {
	if _, err := s.bonusRepo.Delete(ctx, id); err != nil {
		logFailure(s.logger, "bonus", "delete", err)
		return fmt.Errorf("failed to delete bonus: %w", err)
	}
	return nil
}
