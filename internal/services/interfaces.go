package services

import (
	"context"

	"bonus-requests-api/internal/models"
)

// BonusService defines the interface for bonus type operations
type BonusService interface {
	ListBonuses(ctx context.Context) ([]*models.BonusType, error)
	GetBonus(ctx context.Context, id int64) (*models.BonusType, error)
	CreateBonus(ctx context.Context, req *CreateBonusRequest) (*models.BonusType, error)
	UpdateBonus(ctx context.Context, id int64, patch []byte) (*models.BonusType, error)
	DeleteBonus(ctx context.Context, id int64) error
}

// WorkerService defines the interface for worker operations
type WorkerService interface {
	ListWorkers(ctx context.Context, role string) ([]*models.WorkerWithRoles, error)
	GetWorker(ctx context.Context, id int64) (*models.WorkerWithRoles, error)
	GetWorkerBySlackID(ctx context.Context, slackID string) (*models.WorkerWithRoles, error)
	CreateWorker(ctx context.Context, req *CreateWorkerRequest) (*models.WorkerWithRoles, error)
	UpdateWorker(ctx context.Context, id int64, patch []byte) (*models.WorkerWithRoles, error)
	DeleteWorker(ctx context.Context, id int64) error
}

// RequestService defines the interface for bonus request and history operations
type RequestService interface {
	ListRequests(ctx context.Context, params map[string]string) ([]*models.RequestDetails, error)
	GetRequest(ctx context.Context, id int64) (*models.RequestDetails, error)
	CreateRequest(ctx context.Context, req *CreateRequestRequest) (*models.Request, error)
	UpdateRequest(ctx context.Context, id int64, patch []byte) (*models.Request, error)
	DeleteRequest(ctx context.Context, id int64) error

	ListHistory(ctx context.Context, requestID int64) ([]*models.RequestHistory, error)
	AddHistory(ctx context.Context, requestID int64, req *CreateHistoryRequest) (*models.RequestHistory, error)
}

// Request/Response types

type CreateBonusRequest struct {
	Type        string  `json:"type" validate:"required"`
	Description *string `json:"description,omitempty"`
}

type CreateWorkerRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	Position *string `json:"position,omitempty"`
	SlackID  string  `json:"slack_id" validate:"required"`
	Roles    []int64 `json:"roles,omitempty"`
}

// CreateRequestRequest is the body of a new bonus request. Status is
// accepted for compatibility but always stored as created.
type CreateRequestRequest struct {
	Status        string       `json:"status,omitempty"`
	PaymentDate   *models.Date `json:"payment_date,omitempty"`
	PaymentAmount *int64       `json:"payment_amount,omitempty"`
	Description   *string      `json:"description,omitempty"`
	Creator       *int64       `json:"creator" validate:"required"`
	Reviewer      *int64       `json:"reviewer" validate:"required"`
	BonusType     *int64       `json:"bonus_type" validate:"required"`
}

// CreateHistoryRequest is the body of a new history entry. RequestID is
// taken from the path and overrides any value in the body.
type CreateHistoryRequest struct {
	Changes   string `json:"changes,omitempty"`
	Editor    string `json:"editor" validate:"required"`
	RequestID int64  `json:"request_id,omitempty"`
}
