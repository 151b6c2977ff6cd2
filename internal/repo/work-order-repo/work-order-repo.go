package work_order_repo

import (
	"context"
	"errors"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/abstraction/tx"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const workOrderColumns = `id, name, name_derived, activity_id, start_date, end_date, available_date, farm_id, status_id, total_tasks, tasks_completed, created_by, modified_by, created_at, updated_at`

type WorkOrderRepo struct {
	db *pgxpool.Pool
}

func NewWorkOrderRepo(db *pgxpool.Pool) WorkOrderRepoContract {
	return &WorkOrderRepo{
		db: db,
	}
}

func scanWorkOrder(row pgx.Row) (*entity.WorkOrderEntity, error) {
	var o entity.WorkOrderEntity
	if err := row.Scan(&o.ID, &o.Name, &o.NameDerived, &o.ActivityID, &o.StartDate, &o.EndDate, &o.AvailableDate, &o.FarmID, &o.StatusID, &o.TotalTasks, &o.TasksCompleted, &o.CreatedBy, &o.ModifiedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *WorkOrderRepo) GetWorkOrderByID(ctx context.Context, workOrderID string) (*entity.WorkOrderEntity, *app_errors.AppError) {
	query := `
	SELECT ` + workOrderColumns + `
	FROM work_orders
	WHERE id = $1
		AND deleted_at IS NULL;
	`

	row, err := scanWorkOrder(r.db.QueryRow(ctx, query, workOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "work_order_not_found", nil)
		}
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}

	return row, nil
}

func (r *WorkOrderRepo) InsertWorkOrder(ctx context.Context, txn tx.Tx, order *entity.WorkOrderEntity) *app_errors.AppError {
	query := `
	INSERT INTO work_orders (
			id,
			name,
			name_derived,
			activity_id,
			start_date,
			end_date,
			available_date,
			farm_id,
			status_id,
			total_tasks,
			tasks_completed,
			created_by,
			modified_by,
			created_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
		);
	`

	if _, err := tx.Pgx(txn).Exec(
		ctx,
		query,
		order.ID,
		order.Name,
		order.NameDerived,
		order.ActivityID,
		order.StartDate,
		order.EndDate,
		order.AvailableDate,
		order.FarmID,
		order.StatusID,
		order.TotalTasks,
		order.TasksCompleted,
		order.CreatedBy,
		order.ModifiedBy,
		order.CreatedAt,
	); err != nil {
		return app_errors.MapPgxError(err)
	}

	return nil
}

func (r *WorkOrderRepo) UpdateWorkOrder(ctx context.Context, txn tx.Tx, order *entity.WorkOrderEntity) *app_errors.AppError {
	query := `
	UPDATE work_orders
	SET name = $1,
		name_derived = $2,
		activity_id = $3,
		start_date = $4,
		end_date = $5,
		available_date = $6,
		status_id = $7,
		modified_by = $8,
		updated_at = now()
	WHERE id = $9
		AND deleted_at IS NULL;
	`

	tag, err := tx.Pgx(txn).Exec(
		ctx,
		query,
		order.Name,
		order.NameDerived,
		order.ActivityID,
		order.StartDate,
		order.EndDate,
		order.AvailableDate,
		order.StatusID,
		order.ModifiedBy,
		order.ID,
	)
	if err != nil {
		return app_errors.MapPgxError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "work_order_not_found", nil)
	}

	return nil
}

func (r *WorkOrderRepo) UpdateWorkOrderName(ctx context.Context, txn tx.Tx, workOrderID, name string, modifiedBy string) *app_errors.AppError {
	query := `
	UPDATE work_orders
	SET name = $1,
		modified_by = $2,
		updated_at = now()
	WHERE id = $3
		AND deleted_at IS NULL;
	`

	if _, err := tx.Pgx(txn).Exec(ctx, query, name, modifiedBy, workOrderID); err != nil {
		return app_errors.MapPgxError(err)
	}

	return nil
}

// IncrementTotalTasks bumps the running total by one in place. COALESCE keeps
// legacy rows with a NULL total from poisoning the arithmetic.
func (r *WorkOrderRepo) IncrementTotalTasks(ctx context.Context, txn tx.Tx, workOrderID, modifiedBy string) *app_errors.AppError {
	query := `
	UPDATE work_orders
	SET total_tasks = COALESCE(total_tasks, 0) + 1,
		modified_by = $1,
		updated_at = now()
	WHERE id = $2
		AND deleted_at IS NULL;
	`

	if _, err := tx.Pgx(txn).Exec(ctx, query, modifiedBy, workOrderID); err != nil {
		return app_errors.MapPgxError(err)
	}

	return nil
}

func (r *WorkOrderRepo) InsertWorkOrderTaskRel(ctx context.Context, txn tx.Tx, rel *entity.WorkOrderTaskRel) *app_errors.AppError {
	query := `
	INSERT INTO work_order_task_rel (
			id,
			work_order_id,
			task_id,
			created_by,
			modified_by
		) VALUES (
			$1,$2,$3,$4,$5
		);
	`

	if _, err := tx.Pgx(txn).Exec(ctx, query, rel.ID, rel.WorkOrderID, rel.TaskID, rel.CreatedBy, rel.ModifiedBy); err != nil {
		return app_errors.MapPgxError(err)
	}

	return nil
}

func (r *WorkOrderRepo) InsertWorkOrderEquipmentRel(ctx context.Context, txn tx.Tx, rel *entity.WorkOrderEquipmentRel) *app_errors.AppError {
	query := `
	INSERT INTO work_order_equipment_rel (
			id,
			work_order_id,
			equipment_id,
			created_by,
			modified_by
		) VALUES (
			$1,$2,$3,$4,$5
		);
	`

	if _, err := tx.Pgx(txn).Exec(ctx, query, rel.ID, rel.WorkOrderID, rel.EquipmentID, rel.CreatedBy, rel.ModifiedBy); err != nil {
		return app_errors.MapPgxError(err)
	}

	return nil
}

func (r *WorkOrderRepo) CountWorkOrdersByName(ctx context.Context, farmID, name string) (int64, *app_errors.AppError) {
	query := `
	SELECT COUNT(*)
	FROM work_orders
	WHERE farm_id = $1
		AND name = $2
		AND deleted_at IS NULL;
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, farmID, name).Scan(&count); err != nil {
		return 0, app_errors.MapPgxError(err)
	}

	return count, nil
}

// CountLinkedTasks tallies the order's generated tasks. Soft-deleted tasks
// and tasks whose status left the countable set fall out of the totals, which
// is what lets a fully worked-off order flip to completed.
func (r *WorkOrderRepo) CountLinkedTasks(ctx context.Context, workOrderID string) (int64, int64, *app_errors.AppError) {
	query := `
	SELECT
		COUNT(*) FILTER (WHERE ts.name IN ('accepted','archived','assigned','available','completed','declined')),
		COUNT(*) FILTER (WHERE ts.name = 'completed')
	FROM work_order_task_rel rel
	JOIN tasks t ON t.id = rel.task_id
	JOIN task_statuses ts ON ts.id = t.status_id
	WHERE rel.work_order_id = $1
		AND t.deleted_at IS NULL;
	`

	var total, completed int64
	if err := r.db.QueryRow(ctx, query, workOrderID).Scan(&total, &completed); err != nil {
		return 0, 0, app_errors.MapPgxError(err)
	}

	return total, completed, nil
}

func (r *WorkOrderRepo) UpdateWorkOrderProgress(ctx context.Context, txn tx.Tx, workOrderID string, statusID string, totalTasks, tasksCompleted int64, modifiedBy string) *app_errors.AppError {
	query := `
	UPDATE work_orders
	SET status_id = $1,
		total_tasks = $2,
		tasks_completed = $3,
		modified_by = $4,
		updated_at = now()
	WHERE id = $5
		AND deleted_at IS NULL;
	`

	if _, err := tx.Pgx(txn).Exec(ctx, query, statusID, totalTasks, tasksCompleted, modifiedBy, workOrderID); err != nil {
		return app_errors.MapPgxError(err)
	}

	return nil
}

func (r *WorkOrderRepo) ListWorkOrders(ctx context.Context, farmID string, openOnly bool) ([]entity.WorkOrderEntity, *app_errors.AppError) {
	query := `
	SELECT ` + workOrderColumns + `
	FROM work_orders
	WHERE farm_id = $1
		AND deleted_at IS NULL
	`

	if openOnly {
		query += ` AND status_id IN (SELECT id FROM work_order_statuses WHERE name IN ('open', 'in progress') AND deleted_at IS NULL)`
	}

	query += " ORDER BY start_date DESC, created_at DESC;"

	rows, err := r.db.Query(ctx, query, farmID)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	var results []entity.WorkOrderEntity
	for rows.Next() {
		result, err := scanWorkOrder(rows)
		if err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		results = append(results, *result)
	}

	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}

	return results, nil
}

// GetTaskWorkOrderID resolves which order, if any, generated the task. Tasks
// created directly have no rel row, so a nil result is a normal outcome.
func (r *WorkOrderRepo) GetTaskWorkOrderID(ctx context.Context, taskID string) (*string, *app_errors.AppError) {
	query := `
	SELECT work_order_id
	FROM work_order_task_rel
	WHERE task_id = $1;
	`

	var workOrderID string
	if err := r.db.QueryRow(ctx, query, taskID).Scan(&workOrderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, app_errors.MapPgxError(err)
	}

	return &workOrderID, nil
}
