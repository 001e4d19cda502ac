package repositories

import (
	"context"

	"bonus-requests-api/internal/models"
)

// BonusRepository defines operations for bonus type management
type BonusRepository interface {
	// List retrieves all bonus types ordered by id, or only the one with the given id
	List(ctx context.Context, id *int64) ([]*models.BonusType, error)

	// GetByID retrieves a bonus type by its ID
	GetByID(ctx context.Context, id int64) (*models.BonusType, error)

	// Create inserts a bonus type and sets its generated ID
	Create(ctx context.Context, bonus *models.BonusType) error

	// Update applies a partial update and returns the updated bonus type
	Update(ctx context.Context, id int64, patch models.BonusPatch) (*models.BonusType, error)

	// Delete removes a bonus type and returns the number of deleted rows
	Delete(ctx context.Context, id int64) (int64, error)
}

// WorkerRepository defines operations for worker and role management
type WorkerRepository interface {
	// List retrieves workers with their role names, grouped per worker
	List(ctx context.Context, filters WorkerFilters) ([]*models.WorkerWithRoles, error)

	// GetByID retrieves a worker by its ID
	GetByID(ctx context.Context, id int64) (*models.WorkerWithRoles, error)

	// GetBySlackID retrieves a worker by its Slack identifier
	GetBySlackID(ctx context.Context, slackID string) (*models.WorkerWithRoles, error)

	// Create inserts a worker with the given roles, or the default role when roleIDs is empty
	Create(ctx context.Context, worker *models.Worker, roleIDs []int64) (*models.WorkerWithRoles, error)

	// Update applies a partial update, reconciling roles when supplied
	Update(ctx context.Context, id int64, patch models.WorkerPatch) (*models.WorkerWithRoles, error)

	// Delete removes a worker and its role relations
	Delete(ctx context.Context, id int64) (int64, error)

	// RoleRelations returns the worker's relation rows ordered by id
	RoleRelations(ctx context.Context, workerID int64) ([]*models.WorkerRoleRelation, error)
}

// RequestRepository defines operations for bonus request management
type RequestRepository interface {
	// List retrieves requests joined with their bonus type and workers
	List(ctx context.Context, filters RequestFilters) ([]*models.RequestDetails, error)

	// GetByID retrieves a non-deleted request by its ID
	GetByID(ctx context.Context, id int64) (*models.RequestDetails, error)

	// Create inserts a request and sets its generated ID
	Create(ctx context.Context, request *models.Request) error

	// Update applies a partial update and returns the updated request
	Update(ctx context.Context, id int64, patch models.RequestPatch) (*models.Request, error)

	// Delete marks a request as deleted and returns the number of affected rows
	Delete(ctx context.Context, id int64) (int64, error)
}

// RequestHistoryRepository defines operations for request history entries
type RequestHistoryRepository interface {
	// List retrieves the history of a request in insertion order
	List(ctx context.Context, requestID int64) ([]*models.RequestHistory, error)

	// Create inserts a history entry and sets its generated ID
	Create(ctx context.Context, entry *models.RequestHistory) error
}
