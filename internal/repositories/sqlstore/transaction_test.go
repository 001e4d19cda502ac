package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"bonus-requests-api/internal/models"
	"bonus-requests-api/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockManager(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewManager(db, repositories.DriverPostgres, repositories.DefaultConfig().Query, testLogger()), mock
}

func TestTransactionManager_CommitsOnSuccess(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO bonuses_types (type, description) VALUES ($1, $2) RETURNING id`)).
		WithArgs("Referral", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	bonus := models.NewBonusType("Referral", "for referrals")
	require.NoError(t, m.Bonuses().Create(context.Background(), bonus))
	assert.Equal(t, int64(7), bonus.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO bonuses_types`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := m.Bonuses().Create(context.Background(), models.NewBonusType("Referral", ""))
	assert.True(t, repositories.IsDuplicate(err), "expected duplicate, got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_WorkerCreateRollsBackOnRoleFailure(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO workers (full_name, position, slack_id) VALUES ($1, $2, $3) RETURNING id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO workers_roles_relations (worker_id, role_id) VALUES ($1, $2)`)).
		WithArgs(int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO workers_roles_relations (worker_id, role_id) VALUES ($1, $2)`)).
		WithArgs(int64(5), int64(9)).
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	_, err := m.Workers().Create(context.Background(), models.NewWorker("Ada Lovelace", "U001"), []int64{1, 9})
	assert.True(t, repositories.IsForeignKey(err), "expected foreign key error, got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_BeginFailure(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	_, err := m.Bonuses().List(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, repositories.ErrTransaction))
	assert.True(t, repositories.IsStorage(err))
	assert.Equal(t, "storage", repositories.Kind(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_CommitFailure(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, type, description FROM bonuses_types`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "description"}))
	mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

	_, err := m.Bonuses().List(context.Background(), nil)
	assert.True(t, errors.Is(err, repositories.ErrTransaction), "expected transaction error, got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_NestedCallsShareTransaction(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO bonuses_types`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO bonuses_types`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	err := m.WithTransaction(context.Background(), func(ctx context.Context) error {
		if err := m.Bonuses().Create(ctx, models.NewBonusType("Referral", "")); err != nil {
			return err
		}
		return m.Bonuses().Create(ctx, models.NewBonusType("Overtime", ""))
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollsBackOnPanic(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = m.WithTransaction(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_PostgresPlaceholders(t *testing.T) {
	m, mock := newMockManager(t)

	columns := []string{
		"id", "status", "created_at", "updated_at", "payment_date", "payment_amount",
		"description", "creator", "reviewer", "bonus_type",
		"bonus_name", "creator_name", "creator_slack_id", "reviewer_name", "reviewer_slack_id",
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE r\.status <> \$1 AND r\.creator = \$2 AND r\.payment_date > \$3 AND r\.payment_date <= \$4 ORDER BY r\.id ASC`).
		WithArgs("deleted", int64(3), "2022-09-01", "2022-09-30").
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectCommit()

	creator := int64(3)
	filters := repositories.RequestFilters{
		CreatorID:     &creator,
		PaymentDateGT: datePtr(t, "2022-09-01"),
		PaymentDateLT: datePtr(t, "2022-09-30"),
	}

	requests, err := m.Requests().List(context.Background(), filters)
	require.NoError(t, err)
	assert.Empty(t, requests)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_Health(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	m := NewManager(db, repositories.DriverPostgres, repositories.DefaultConfig().Query, testLogger())

	mock.ExpectPing()
	mock.ExpectQuery(`SELECT 1`).WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	assert.NoError(t, m.Health(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = m.Health(context.Background())
	assert.True(t, repositories.IsStorage(err), "expected storage error, got %v", err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
