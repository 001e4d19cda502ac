package sqlstore

import (
	"database/sql"
	"errors"
	"testing"

	"bonus-requests-api/internal/repositories"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
		is   error
	}{
		{"no rows", sql.ErrNoRows, "not_found", repositories.ErrNotFound},
		{"pg unique", &pq.Error{Code: "23505"}, "constraint", repositories.ErrDuplicateEntry},
		{"pg foreign key", &pq.Error{Code: "23503"}, "constraint", repositories.ErrForeignKey},
		{"pg not null", &pq.Error{Code: "23502"}, "invalid_input", repositories.ErrInvalidInput},
		{"pg check", &pq.Error{Code: "23514"}, "constraint", repositories.ErrConstraint},
		{"pg other", &pq.Error{Code: "42P01"}, "storage", repositories.ErrStorage},
		{
			"sqlite unique",
			sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
			"constraint", repositories.ErrDuplicateEntry,
		},
		{
			"sqlite foreign key",
			sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey},
			"constraint", repositories.ErrForeignKey,
		},
		{
			"sqlite not null",
			sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull},
			"invalid_input", repositories.ErrInvalidInput,
		},
		{
			"sqlite check",
			sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck},
			"constraint", repositories.ErrConstraint,
		},
		{"plain error", errors.New("disk I/O error"), "storage", repositories.ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyError("create", "bonus", "1", tt.err)
			assert.Equal(t, tt.kind, repositories.Kind(err))
			assert.ErrorIs(t, err, tt.is)

			var repoErr *repositories.RepositoryError
			if assert.ErrorAs(t, err, &repoErr) {
				assert.Equal(t, "create", repoErr.Op)
				assert.Equal(t, "bonus", repoErr.Entity)
			}
		})
	}
}

func TestClassifyError_PassesThroughRepositoryErrors(t *testing.T) {
	original := repositories.NotFoundError("get_by_id", "worker", "3")
	assert.Same(t, original, classifyError("list", "request", "", original))
	assert.NoError(t, classifyError("list", "request", "", nil))
}
