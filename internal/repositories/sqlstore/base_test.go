package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"bonus-requests-api/internal/models"
	"bonus-requests-api/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseRepository_LogQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     repositories.QueryConfig
		duration  time.Duration
		err       error
		wantLevel logrus.Level
		wantMsg   string
	}{
		{
			name:      "fast query logged at debug",
			query:     repositories.QueryConfig{SlowQueryThreshold: time.Second, EnableQueryLogging: true},
			duration:  time.Millisecond,
			wantLevel: logrus.DebugLevel,
			wantMsg:   "Query executed",
		},
		{
			name:     "fast query silent without query logging",
			query:    repositories.QueryConfig{SlowQueryThreshold: time.Second},
			duration: time.Millisecond,
		},
		{
			name:      "slow query warns without query logging",
			query:     repositories.QueryConfig{SlowQueryThreshold: 100 * time.Millisecond},
			duration:  time.Second,
			wantLevel: logrus.WarnLevel,
			wantMsg:   "Slow query",
		},
		{
			name:     "zero threshold never warns",
			query:    repositories.QueryConfig{},
			duration: time.Hour,
		},
		{
			name:      "failure always logged",
			query:     repositories.QueryConfig{},
			duration:  time.Millisecond,
			err:       errors.New("connection reset"),
			wantLevel: logrus.ErrorLevel,
			wantMsg:   "Query failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			logger.SetLevel(logrus.DebugLevel)

			repo := NewBaseRepository[models.BonusType](nil, nil, repositories.DriverPostgres, "bonuses_types", "bonus", tt.query, logger)
			repo.logQuery("list", "SELECT 1", nil, tt.duration, tt.err)

			if tt.wantMsg == "" {
				assert.Empty(t, hook.AllEntries())
				return
			}
			require.Len(t, hook.AllEntries(), 1)
			assert.Equal(t, tt.wantLevel, hook.LastEntry().Level)
			assert.Equal(t, tt.wantMsg, hook.LastEntry().Message)
			assert.Equal(t, "bonuses_types", hook.LastEntry().Data["table"])
		})
	}
}

func TestManager_SlowQueryWarning(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger, hook := test.NewNullLogger()
	query := repositories.QueryConfig{SlowQueryThreshold: 5 * time.Millisecond}
	m := NewManager(db, repositories.DriverPostgres, query, logger)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, type, description FROM bonuses_types ORDER BY id ASC`)).
		WillDelayFor(30 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "description"}).AddRow(1, "referral", nil))
	mock.ExpectCommit()

	bonuses, err := m.Bonuses().List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, bonuses, 1)

	var slow *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "Slow query" {
			slow = e
		}
	}
	require.NotNil(t, slow, "expected a slow query warning")
	assert.Equal(t, logrus.WarnLevel, slow.Level)
	assert.Equal(t, "list", slow.Data["operation"])
	assert.Equal(t, 5*time.Millisecond, slow.Data["threshold"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
