package sqlstore

import (
	"context"
	"database/sql"

	"bonus-requests-api/internal/models"
	"bonus-requests-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// RequestHistoryRepository implements repositories.RequestHistoryRepository
type RequestHistoryRepository struct {
	*BaseRepository[models.RequestHistory]
}

// NewRequestHistoryRepository creates a new request history repository
func NewRequestHistoryRepository(db *sql.DB, tm *TransactionManager, driver string, query repositories.QueryConfig, logger *logrus.Logger) repositories.RequestHistoryRepository {
	return &RequestHistoryRepository{
		BaseRepository: NewBaseRepository[models.RequestHistory](db, tm, driver, "requests_history", "request_history", query, logger),
	}
}

func scanHistory(row rowScanner) (*models.RequestHistory, error) {
	h := &models.RequestHistory{}
	if err := row.Scan(&h.ID, &h.Changes, &h.Timestamp, &h.Editor, &h.RequestID); err != nil {
		return nil, err
	}
	return h, nil
}

// List retrieves the history of a request in insertion order
func (r *RequestHistoryRepository) List(ctx context.Context, requestID int64) ([]*models.RequestHistory, error) {
	if err := r.validateID("list", requestID); err != nil {
		return nil, err
	}

	var entries []*models.RequestHistory
	err := r.inTx(ctx, func(ctx context.Context) error {
		var err error
		entries, err = r.queryAll(ctx, "list", `
			SELECT id, changes, timestamp, editor, request_id
			FROM requests_history
			WHERE request_id = ?
			ORDER BY id ASC`,
			[]interface{}{requestID}, scanHistory)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Create inserts a history entry. The referenced request must exist.
func (r *RequestHistoryRepository) Create(ctx context.Context, entry *models.RequestHistory) error {
	entry.ApplyDefaults()
	if err := entry.Validate(); err != nil {
		return repositories.InvalidInputError("create", "request_history", "", err)
	}

	return r.inTx(ctx, func(ctx context.Context) error {
		id, err := r.insertReturningID(ctx, `
			INSERT INTO requests_history (changes, timestamp, editor, request_id)
			VALUES (?, ?, ?, ?)
			RETURNING id`,
			entry.Changes, entry.Timestamp, entry.Editor, entry.RequestID)
		if err != nil {
			return err
		}

		entry.ID = id
		return nil
	})
}
