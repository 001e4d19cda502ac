package sqlstore

import (
	"context"
	"database/sql"

	"bonus-requests-api/internal/models"
	"bonus-requests-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// BonusRepository implements repositories.BonusRepository
type BonusRepository struct {
	*BaseRepository[models.BonusType]
}

// NewBonusRepository creates a new bonus type repository
func NewBonusRepository(db *sql.DB, tm *TransactionManager, driver string, query repositories.QueryConfig, logger *logrus.Logger) repositories.BonusRepository {
	return &BonusRepository{
		BaseRepository: NewBaseRepository[models.BonusType](db, tm, driver, "bonuses_types", "bonus", query, logger),
	}
}

const bonusColumns = `id, type, description`

func scanBonus(row rowScanner) (*models.BonusType, error) {
	bonus := &models.BonusType{}
	if err := row.Scan(&bonus.ID, &bonus.Type, &bonus.Description); err != nil {
		return nil, err
	}
	return bonus, nil
}

// List retrieves bonus types ordered by id, optionally only the one with id
func (r *BonusRepository) List(ctx context.Context, id *int64) ([]*models.BonusType, error) {
	var bonuses []*models.BonusType

	err := r.inTx(ctx, func(ctx context.Context) error {
		query := `SELECT ` + bonusColumns + ` FROM bonuses_types`
		var args []interface{}
		if id != nil {
			query += ` WHERE id = ?`
			args = append(args, *id)
		}
		query += ` ORDER BY id ASC`

		var err error
		bonuses, err = r.queryAll(ctx, "list", query, args, scanBonus)
		return err
	})
	if err != nil {
		return nil, err
	}

	return bonuses, nil
}

// GetByID retrieves a bonus type by ID
func (r *BonusRepository) GetByID(ctx context.Context, id int64) (*models.BonusType, error) {
	if err := r.validateID("get_by_id", id); err != nil {
		return nil, err
	}

	bonuses, err := r.List(ctx, &id)
	if err != nil {
		return nil, err
	}

	return r.exactlyOne(bonuses, "get_by_id", formatID(id))
}

// Create creates a new bonus type
func (r *BonusRepository) Create(ctx context.Context, bonus *models.BonusType) error {
	if err := bonus.Validate(); err != nil {
		return repositories.InvalidInputError("create", "bonus", "", err)
	}

	return r.inTx(ctx, func(ctx context.Context) error {
		id, err := r.insertReturningID(ctx,
			`INSERT INTO bonuses_types (type, description) VALUES (?, ?) RETURNING id`,
			bonus.Type, bonus.Description)
		if err != nil {
			return err
		}

		bonus.ID = id
		return nil
	})
}

// Update applies patch to the bonus type with id
func (r *BonusRepository) Update(ctx context.Context, id int64, patch models.BonusPatch) (*models.BonusType, error) {
	if err := r.validateID("update", id); err != nil {
		return nil, err
	}

	var bonus *models.BonusType
	err := r.inTx(ctx, func(ctx context.Context) error {
		var err error
		bonus, err = r.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if patch.IsEmpty() {
			return nil
		}

		if err := patch.Apply(bonus); err != nil {
			return repositories.InvalidInputError("update", "bonus", formatID(id), err)
		}

		result, err := r.executeExec(ctx, "update",
			`UPDATE bonuses_types SET type = ?, description = ? WHERE id = ?`,
			bonus.Type, bonus.Description, id)
		if err != nil {
			return err
		}

		_, err = r.checkRowsAffected(result, "update", formatID(id))
		return err
	})
	if err != nil {
		return nil, err
	}

	return bonus, nil
}

// Delete deletes a bonus type by ID
func (r *BonusRepository) Delete(ctx context.Context, id int64) (int64, error) {
	if err := r.validateID("delete", id); err != nil {
		return 0, err
	}

	var deleted int64
	err := r.inTx(ctx, func(ctx context.Context) error {
		result, err := r.executeExec(ctx, "delete", `DELETE FROM bonuses_types WHERE id = ?`, id)
		if err != nil {
			return err
		}

		deleted, err = r.checkRowsAffected(result, "delete", formatID(id))
		return err
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
