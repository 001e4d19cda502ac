package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"bonus-requests-api/internal/models"
	"bonus-requests-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// WorkerRepository implements repositories.WorkerRepository
type WorkerRepository struct {
	*BaseRepository[models.WorkerWithRoles]
}

// NewWorkerRepository creates a new worker repository
func NewWorkerRepository(db *sql.DB, tm *TransactionManager, driver string, query repositories.QueryConfig, logger *logrus.Logger) repositories.WorkerRepository {
	return &WorkerRepository{
		BaseRepository: NewBaseRepository[models.WorkerWithRoles](db, tm, driver, "workers", "worker", query, logger),
	}
}

// workerRow is one row of the workers/roles join
type workerRow struct {
	worker   models.Worker
	roleName sql.NullString
}

func scanWorkerRow(row rowScanner) (*workerRow, error) {
	wr := &workerRow{}
	err := row.Scan(
		&wr.worker.ID,
		&wr.worker.FullName,
		&wr.worker.Position,
		&wr.worker.SlackID,
		&wr.roleName,
	)
	if err != nil {
		return nil, err
	}
	return wr, nil
}

// flattenWorkers groups joined rows by worker id. Workers keep the order of
// their first row and every joined role row contributes one role name.
func flattenWorkers(rows []*workerRow) []*models.WorkerWithRoles {
	workers := make([]*models.WorkerWithRoles, 0)
	byID := make(map[int64]*models.WorkerWithRoles)

	for _, row := range rows {
		w, ok := byID[row.worker.ID]
		if !ok {
			w = &models.WorkerWithRoles{Worker: row.worker, Roles: []string{}}
			byID[row.worker.ID] = w
			workers = append(workers, w)
		}
		if row.roleName.Valid {
			w.Roles = append(w.Roles, row.roleName.String)
		}
	}

	return workers
}

// List retrieves workers with their roles
func (r *WorkerRepository) List(ctx context.Context, filters repositories.WorkerFilters) ([]*models.WorkerWithRoles, error) {
	var conditions []string
	var args []interface{}

	if filters.ID != nil {
		conditions = append(conditions, "w.id = ?")
		args = append(args, *filters.ID)
	}
	if filters.SlackID != "" {
		conditions = append(conditions, "w.slack_id = ?")
		args = append(args, filters.SlackID)
	}
	if filters.RoleName != "" {
		conditions = append(conditions, "r.role_name = ?")
		args = append(args, filters.RoleName)
	}

	query := `
		SELECT w.id, w.full_name, w.position, w.slack_id, r.role_name
		FROM workers w
		LEFT JOIN workers_roles_relations wr ON wr.worker_id = w.id
		LEFT JOIN roles r ON r.id = wr.role_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY w.id ASC, wr.id ASC"

	var workers []*models.WorkerWithRoles
	err := r.inTx(ctx, func(ctx context.Context) error {
		rows, err := r.executeQuery(ctx, "list", query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		var joined []*workerRow
		for rows.Next() {
			wr, err := scanWorkerRow(rows)
			if err != nil {
				return repositories.StorageError("list", "worker", "", fmt.Errorf("scan: %w", err))
			}
			joined = append(joined, wr)
		}
		if err := rows.Err(); err != nil {
			return classifyError("list", "worker", "", err)
		}

		workers = flattenWorkers(joined)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return workers, nil
}

// GetByID retrieves a worker by ID
func (r *WorkerRepository) GetByID(ctx context.Context, id int64) (*models.WorkerWithRoles, error) {
	if err := r.validateID("get_by_id", id); err != nil {
		return nil, err
	}

	workers, err := r.List(ctx, repositories.WorkerFilters{ID: &id})
	if err != nil {
		return nil, err
	}

	return r.exactlyOne(workers, "get_by_id", formatID(id))
}

// GetBySlackID retrieves a worker by Slack ID
func (r *WorkerRepository) GetBySlackID(ctx context.Context, slackID string) (*models.WorkerWithRoles, error) {
	if strings.TrimSpace(slackID) == "" {
		return nil, repositories.InvalidInputError("get_by_slack_id", "worker", "", fmt.Errorf("slack id is required"))
	}

	workers, err := r.List(ctx, repositories.WorkerFilters{SlackID: slackID})
	if err != nil {
		return nil, err
	}

	return r.exactlyOne(workers, "get_by_slack_id", slackID)
}

// Create creates a worker together with its role relations
func (r *WorkerRepository) Create(ctx context.Context, worker *models.Worker, roleIDs []int64) (*models.WorkerWithRoles, error) {
	if err := worker.Validate(); err != nil {
		return nil, repositories.InvalidInputError("create", "worker", "", err)
	}

	roles, err := models.NormalizeRoleIDs(roleIDs)
	if err != nil {
		return nil, repositories.InvalidInputError("create", "worker", "", err)
	}

	var created *models.WorkerWithRoles
	err = r.inTx(ctx, func(ctx context.Context) error {
		id, err := r.insertReturningID(ctx,
			`INSERT INTO workers (full_name, position, slack_id) VALUES (?, ?, ?) RETURNING id`,
			worker.FullName, worker.Position, worker.SlackID)
		if err != nil {
			return err
		}
		worker.ID = id

		if err := r.addRoles(ctx, id, roles); err != nil {
			return err
		}

		created, err = r.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Update applies patch to the worker with id. When the patch carries roles
// that differ from the current set, missing relations are removed and new
// ones added; relations for roles in both sets are not touched.
func (r *WorkerRepository) Update(ctx context.Context, id int64, patch models.WorkerPatch) (*models.WorkerWithRoles, error) {
	if err := r.validateID("update", id); err != nil {
		return nil, err
	}

	var updated *models.WorkerWithRoles
	err := r.inTx(ctx, func(ctx context.Context) error {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if patch.IsEmpty() {
			updated = current
			return nil
		}

		if patch.Roles.Set {
			if err := r.reconcileRoles(ctx, id, patch.Roles.Value); err != nil {
				return err
			}
		}

		if patch.HasColumnChanges() {
			worker := current.Worker
			if err := patch.Apply(&worker); err != nil {
				return repositories.InvalidInputError("update", "worker", formatID(id), err)
			}

			result, err := r.executeExec(ctx, "update",
				`UPDATE workers SET full_name = ?, position = ?, slack_id = ? WHERE id = ?`,
				worker.FullName, worker.Position, worker.SlackID, id)
			if err != nil {
				return err
			}
			if _, err := r.checkRowsAffected(result, "update", formatID(id)); err != nil {
				return err
			}
		}

		updated, err = r.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete deletes a worker by ID. Role relations cascade.
func (r *WorkerRepository) Delete(ctx context.Context, id int64) (int64, error) {
	if err := r.validateID("delete", id); err != nil {
		return 0, err
	}

	var deleted int64
	err := r.inTx(ctx, func(ctx context.Context) error {
		result, err := r.executeExec(ctx, "delete", `DELETE FROM workers WHERE id = ?`, id)
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

// RoleRelations returns the relation rows of a worker ordered by id
func (r *WorkerRepository) RoleRelations(ctx context.Context, workerID int64) ([]*models.WorkerRoleRelation, error) {
	if err := r.validateID("role_relations", workerID); err != nil {
		return nil, err
	}

	var relations []*models.WorkerRoleRelation
	err := r.inTx(ctx, func(ctx context.Context) error {
		var err error
		relations, err = r.roleRelations(ctx, workerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return relations, nil
}

func (r *WorkerRepository) roleRelations(ctx context.Context, workerID int64) ([]*models.WorkerRoleRelation, error) {
	rows, err := r.executeQuery(ctx, "role_relations",
		`SELECT id, worker_id, role_id FROM workers_roles_relations WHERE worker_id = ? ORDER BY id ASC`,
		workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	relations := make([]*models.WorkerRoleRelation, 0)
	for rows.Next() {
		rel := &models.WorkerRoleRelation{}
		if err := rows.Scan(&rel.ID, &rel.WorkerID, &rel.RoleID); err != nil {
			return nil, repositories.StorageError("role_relations", "worker", formatID(workerID), err)
		}
		relations = append(relations, rel)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyError("role_relations", "worker", formatID(workerID), err)
	}

	return relations, nil
}

func (r *WorkerRepository) reconcileRoles(ctx context.Context, workerID int64, roleIDs []int64) error {
	desired, err := models.NormalizeRoleIDs(roleIDs)
	if err != nil {
		return repositories.InvalidInputError("update", "worker", formatID(workerID), err)
	}

	relations, err := r.roleRelations(ctx, workerID)
	if err != nil {
		return err
	}

	current := make([]int64, 0, len(relations))
	for _, rel := range relations {
		current = append(current, rel.RoleID)
	}

	remove, add := models.RoleDiff(current, desired)
	if len(remove) == 0 && len(add) == 0 {
		return nil
	}

	r.logger.WithFields(logrus.Fields{
		"worker_id": workerID,
		"remove":    remove,
		"add":       add,
	}).Debug("Reconciling worker roles")

	for _, roleID := range remove {
		if _, err := r.executeExec(ctx, "remove_role",
			`DELETE FROM workers_roles_relations WHERE worker_id = ? AND role_id = ?`,
			workerID, roleID); err != nil {
			return err
		}
	}

	return r.addRoles(ctx, workerID, add)
}

func (r *WorkerRepository) addRoles(ctx context.Context, workerID int64, roleIDs []int64) error {
	for _, roleID := range roleIDs {
		if _, err := r.executeExec(ctx, "add_role",
			`INSERT INTO workers_roles_relations (worker_id, role_id) VALUES (?, ?)`,
			workerID, roleID); err != nil {
			return err
		}
	}
	return nil
}
