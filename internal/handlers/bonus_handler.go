package handlers

import (
	"context"

	"bonus-requests-api/internal/services"
	"bonus-requests-api/pkg/lambda"
)

// BonusHandler handles bonus type requests
type BonusHandler struct {
	bonusService services.BonusService
}

// NewBonusHandler creates a new bonus type handler
func NewBonusHandler(bonusService services.BonusService) *BonusHandler {
	return &BonusHandler{
		bonusService: bonusService,
	}
}

// @Summary List bonus types
// @Tags bonuses
// @Produce json
// @Success 200 {array} models.BonusType
// @Failure 400 {object} ErrorResponse
// @Router /bonuses [get]
func (h *BonusHandler) HandleList(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	bonuses, err := h.bonusService.ListBonuses(ctx)
	if err != nil {
		return nil, err
	}
	return ok(bonuses)
}

// @Summary Create a bonus type
// @Tags bonuses
// @Accept json
// @Produce json
// @Param bonus body services.CreateBonusRequest true "Bonus type"
// @Success 201 {object} models.BonusType
// @Failure 400 {object} ErrorResponse
// @Router /bonuses [post]
func (h *BonusHandler) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body services.CreateBonusRequest
	if err := decodeBody(req, "bonus", &body); err != nil {
		return nil, err
	}

	bonus, err := h.bonusService.CreateBonus(ctx, &body)
	if err != nil {
		return nil, err
	}
	return created(bonus)
}

// @Summary Get a bonus type
// @Tags bonuses
// @Produce json
// @Param id path int true "Bonus type ID"
// @Success 200 {object} models.BonusType
// @Failure 400 {object} ErrorResponse
// @Router /bonuses/{id} [get]
func (h *BonusHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := pathID(req, "bonus")
	if err != nil {
		return nil, err
	}

	bonus, err := h.bonusService.GetBonus(ctx, id)
	if err != nil {
		return nil, err
	}
	return ok(bonus)
}

// @Summary Update a bonus type
// @Description Only type and description can be changed
// @Tags bonuses
// @Accept json
// @Produce json
// @Param id path int true "Bonus type ID"
// @Success 200 {object} models.BonusType
// @Failure 400 {object} ErrorResponse
// @Router /bonuses/{id} [patch]
func (h *BonusHandler) HandleUpdate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := pathID(req, "bonus")
	if err != nil {
		return nil, err
	}

	bonus, err := h.bonusService.UpdateBonus(ctx, id, req.Body)
	if err != nil {
		return nil, err
	}
	return ok(bonus)
}

// @Summary Delete a bonus type
// @Tags bonuses
// @Param id path int true "Bonus type ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /bonuses/{id} [delete]
func (h *BonusHandler) HandleDelete(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := pathID(req, "bonus")
	if err != nil {
		return nil, err
	}

	if err := h.bonusService.DeleteBonus(ctx, id); err != nil {
		return nil, err
	}
	return noContent()
}
