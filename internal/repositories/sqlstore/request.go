package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bonus-requests-api/internal/models"
	"bonus-requests-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// RequestRepository implements repositories.RequestRepository
type RequestRepository struct {
	*BaseRepository[models.RequestDetails]
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *sql.DB, tm *TransactionManager, driver string, query repositories.QueryConfig, logger *logrus.Logger) repositories.RequestRepository {
	return &RequestRepository{
		BaseRepository: NewBaseRepository[models.RequestDetails](db, tm, driver, "requests", "request", query, logger),
	}
}

const requestColumns = `r.id, r.status, r.created_at, r.updated_at, r.payment_date,
		r.payment_amount, r.description, r.creator, r.reviewer, r.bonus_type`

const requestDetailsQuery = `
		SELECT ` + requestColumns + `,
			b.type AS bonus_name,
			creator.full_name AS creator_name,
			creator.slack_id AS creator_slack_id,
			reviewer.full_name AS reviewer_name,
			reviewer.slack_id AS reviewer_slack_id
		FROM requests r
		JOIN bonuses_types b ON b.id = r.bonus_type
		JOIN workers creator ON creator.id = r.creator
		JOIN workers reviewer ON reviewer.id = r.reviewer`

func requestScanTargets(req *models.Request, updatedAt *sql.NullTime) []interface{} {
	return []interface{}{
		&req.ID,
		&req.Status,
		&req.CreatedAt,
		updatedAt,
		&req.PaymentDate,
		&req.PaymentAmount,
		&req.Description,
		&req.Creator,
		&req.Reviewer,
		&req.BonusType,
	}
}

func scanRequestDetails(row rowScanner) (*models.RequestDetails, error) {
	details := &models.RequestDetails{}
	var updatedAt sql.NullTime
	targets := append(requestScanTargets(&details.Request, &updatedAt),
		&details.BonusName,
		&details.CreatorName,
		&details.CreatorSlackID,
		&details.ReviewerName,
		&details.ReviewerSlackID,
	)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	details.UpdatedAt = nullTimePtr(updatedAt)
	return details, nil
}

// buildRequestWhere turns filters into a WHERE clause. Without a status
// filter deleted requests are excluded. payment_date_gt is exclusive while
// payment_date_lt is inclusive.
func buildRequestWhere(filters repositories.RequestFilters) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filters.ID != nil {
		conditions = append(conditions, "r.id = ?")
		args = append(args, *filters.ID)
	}
	if filters.Status != nil {
		conditions = append(conditions, "r.status = ?")
		args = append(args, string(*filters.Status))
	} else {
		conditions = append(conditions, "r.status <> ?")
		args = append(args, string(models.RequestStatusDeleted))
	}
	if filters.CreatorID != nil {
		conditions = append(conditions, "r.creator = ?")
		args = append(args, *filters.CreatorID)
	}
	if filters.ReviewerID != nil {
		conditions = append(conditions, "r.reviewer = ?")
		args = append(args, *filters.ReviewerID)
	}
	if filters.PaymentDate != nil {
		conditions = append(conditions, "r.payment_date = ?")
		args = append(args, *filters.PaymentDate)
	}
	if filters.PaymentDateGT != nil {
		conditions = append(conditions, "r.payment_date > ?")
		args = append(args, *filters.PaymentDateGT)
	}
	if filters.PaymentDateLT != nil {
		conditions = append(conditions, "r.payment_date <= ?")
		args = append(args, *filters.PaymentDateLT)
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List retrieves requests matching filters ordered by id
func (r *RequestRepository) List(ctx context.Context, filters repositories.RequestFilters) ([]*models.RequestDetails, error) {
	where, args := buildRequestWhere(filters)
	query := requestDetailsQuery + where + " ORDER BY r.id ASC"

	var requests []*models.RequestDetails
	err := r.inTx(ctx, func(ctx context.Context) error {
		var err error
		requests, err = r.queryAll(ctx, "list", query, args, scanRequestDetails)
		return err
	})
	if err != nil {
		return nil, err
	}

	return requests, nil
}

// GetByID retrieves a request that has not been deleted
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.RequestDetails, error) {
	if err := r.validateID("get_by_id", id); err != nil {
		return nil, err
	}

	requests, err := r.List(ctx, repositories.RequestFilters{ID: &id})
	if err != nil {
		return nil, err
	}

	return r.exactlyOne(requests, "get_by_id", formatID(id))
}

// Create creates a new request
func (r *RequestRepository) Create(ctx context.Context, request *models.Request) error {
	request.ApplyDefaults()
	if err := request.Validate(); err != nil {
		return repositories.InvalidInputError("create", "request", "", err)
	}

	return r.inTx(ctx, func(ctx context.Context) error {
		id, err := r.insertReturningID(ctx, `
			INSERT INTO requests (status, created_at, payment_date, payment_amount, description, creator, reviewer, bonus_type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			string(request.Status),
			request.CreatedAt,
			request.PaymentDate,
			request.PaymentAmount,
			request.Description,
			request.Creator,
			request.Reviewer,
			request.BonusType,
		)
		if err != nil {
			return err
		}

		request.ID = id
		return nil
	})
}

// Update applies patch to the request with id
func (r *RequestRepository) Update(ctx context.Context, id int64, patch models.RequestPatch) (*models.Request, error) {
	if err := r.validateID("update", id); err != nil {
		return nil, err
	}

	var request *models.Request
	err := r.inTx(ctx, func(ctx context.Context) error {
		var err error
		request, err = r.load(ctx, "update", id)
		if err != nil {
			return err
		}

		if patch.IsEmpty() {
			return nil
		}

		patch.Apply(request)
		now := time.Now().UTC()
		request.UpdatedAt = &now

		result, err := r.executeExec(ctx, "update", `
			UPDATE requests
			SET status = ?, updated_at = ?, payment_date = ?, payment_amount = ?,
				description = ?, creator = ?, reviewer = ?, bonus_type = ?
			WHERE id = ?`,
			string(request.Status),
			now,
			request.PaymentDate,
			request.PaymentAmount,
			request.Description,
			request.Creator,
			request.Reviewer,
			request.BonusType,
			id,
		)
		if err != nil {
			return err
		}

		_, err = r.checkRowsAffected(result, "update", formatID(id))
		return err
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

// Delete marks the request as deleted. A request that is missing or
// already deleted is reported as not found.
func (r *RequestRepository) Delete(ctx context.Context, id int64) (int64, error) {
	if err := r.validateID("delete", id); err != nil {
		return 0, err
	}

	var affected int64
	err := r.inTx(ctx, func(ctx context.Context) error {
		request, err := r.load(ctx, "delete", id)
		if err != nil {
			return err
		}

		if request.IsDeleted() {
			return &repositories.RepositoryError{
				Op:      "delete",
				Entity:  "request",
				ID:      formatID(id),
				Err:     repositories.ErrNotFound,
				Message: fmt.Sprintf("request with ID %d is already deleted", id),
			}
		}

		result, err := r.executeExec(ctx, "delete",
			`UPDATE requests SET status = ?, updated_at = ? WHERE id = ? AND status <> ?`,
			string(models.RequestStatusDeleted), time.Now().UTC(), id, string(models.RequestStatusDeleted))
		if err != nil {
			return err
		}

		affected, err = r.checkRowsAffected(result, "delete", formatID(id))
		return err
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}

// load reads the raw request row regardless of status
func (r *RequestRepository) load(ctx context.Context, operation string, id int64) (*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests r WHERE r.id = ?`

	req := &models.Request{}
	var updatedAt sql.NullTime
	if err := r.executeQueryRow(ctx, operation, query, []interface{}{id}, requestScanTargets(req, &updatedAt)...); err != nil {
		return nil, classifyError(operation, "request", formatID(id), err)
	}
	req.UpdatedAt = nullTimePtr(updatedAt)

	return req, nil
}
