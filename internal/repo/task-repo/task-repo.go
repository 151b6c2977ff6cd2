package task_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/abstraction/tx"
	task_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/task-dto"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, creator_id, activity_id, custom_activity_id, plan_id, crop_id, status_id, start_date, end_date, available_date, assignee_id, notes, is_draft, created_by, modified_by, created_at, updated_at, deleted_at, deleted_by`

type TaskRepo struct {
	db *pgxpool.Pool
}

func NewTaskRepo(db *pgxpool.Pool) TaskRepoContract {
	return &TaskRepo{
		db: db,
	}
}

func scanTask(row pgx.Row) (*entity.TaskEntity, error) {
	var t entity.TaskEntity
	var activityID, customActivityID *string
	if err := row.Scan(&t.ID, &t.CreatorID, &activityID, &customActivityID, &t.PlanID, &t.CropID, &t.StatusID, &t.StartDate, &t.EndDate, &t.AvailableDate, &t.AssigneeID, &t.Notes, &t.IsDraft, &t.CreatedBy, &t.ModifiedBy, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt, &t.DeletedBy); err != nil {
		return nil, err
	}
	t.Activity = entity.ActivityRefFromColumns(activityID, customActivityID)
	return &t, nil
}

func (r *TaskRepo) GetTaskByID(ctx context.Context, taskID string) (*entity.TaskEntity, *app_errors.AppError) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE id = $1
		AND deleted_at IS NULL;
	`

	row, err := scanTask(r.db.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "task_not_found", nil)
		}
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}

	return row, nil
}

func (r *TaskRepo) InsertTask(ctx context.Context, txn tx.Tx, task *entity.TaskEntity) *app_errors.AppError {
	query := `
	INSERT INTO tasks (
			id,
			creator_id,
			activity_id,
			custom_activity_id,
			plan_id,
			crop_id,
			status_id,
			start_date,
			end_date,
			available_date,
			assignee_id,
			notes,
			is_draft,
			created_by,
			modified_by,
			created_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16
		);
	`

	activityID, customActivityID := task.Activity.Columns()
	if _, err := tx.Pgx(txn).Exec(
		ctx,
		query,
		task.ID,
		task.CreatorID,
		activityID,
		customActivityID,
		task.PlanID,
		task.CropID,
		task.StatusID,
		task.StartDate,
		task.EndDate,
		task.AvailableDate,
		task.AssigneeID,
		task.Notes,
		task.IsDraft,
		task.CreatedBy,
		task.ModifiedBy,
		task.CreatedAt,
	); err != nil {
		return app_errors.MapPgxError(err)
	}

	return nil
}

func (r *TaskRepo) UpdateTask(ctx context.Context, txn tx.Tx, task *entity.TaskEntity) *app_errors.AppError {
	query := `
	UPDATE tasks
	SET creator_id = $1,
		activity_id = $2,
		custom_activity_id = $3,
		plan_id = $4,
		crop_id = $5,
		status_id = $6,
		start_date = $7,
		end_date = $8,
		available_date = $9,
		assignee_id = $10,
		notes = $11,
		is_draft = $12,
		deleted_at = $13,
		deleted_by = $14,
		modified_by = $15,
		updated_at = now()
	WHERE id = $16
		AND deleted_at IS NULL;
	`

	activityID, customActivityID := task.Activity.Columns()
	tag, err := tx.Pgx(txn).Exec(
		ctx,
		query,
		task.CreatorID,
		activityID,
		customActivityID,
		task.PlanID,
		task.CropID,
		task.StatusID,
		task.StartDate,
		task.EndDate,
		task.AvailableDate,
		task.AssigneeID,
		task.Notes,
		task.IsDraft,
		task.DeletedAt,
		task.DeletedBy,
		task.ModifiedBy,
		task.ID,
	)
	if err != nil {
		return app_errors.MapPgxError(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "task_not_found", nil)
	}

	return nil
}

// AcceptTask claims the task for model.AssigneeID, but only while no one else
// holds it. The assignee guard and the write happen in a single statement, so
// two racing workers can never both win. A miss surfaces as a conflict; the
// caller decides how to word it.
func (r *TaskRepo) AcceptTask(ctx context.Context, txn tx.Tx, model *entity.TaskTransition) (*entity.TaskEntity, *app_errors.AppError) {
	query := `
	UPDATE tasks
	SET status_id = $1,
		assignee_id = $2,
		notes = $3,
		modified_by = $4,
		updated_at = now()
	WHERE id = $5
		AND deleted_at IS NULL
		AND (assignee_id IS NULL OR assignee_id = $2)
	RETURNING ` + taskColumns + `;
	`

	row, err := scanTask(tx.Pgx(txn).QueryRow(ctx, query, model.StatusID, model.AssigneeID, model.Notes, model.ModifiedBy, model.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusConflict, app_errors.ErrConflict, "conflict.task_already_assigned", nil)
		}
		return nil, app_errors.MapPgxError(err)
	}

	return row, nil
}

func (r *TaskRepo) TransitionTask(ctx context.Context, txn tx.Tx, model *entity.TaskTransition) (*entity.TaskEntity, *app_errors.AppError) {
	query := `
	UPDATE tasks
	SET status_id = $1,
		assignee_id = $2,
		notes = $3,
		deleted_at = $4,
		deleted_by = $5,
		modified_by = $6,
		updated_at = now()
	WHERE id = $7
		AND deleted_at IS NULL
	RETURNING ` + taskColumns + `;
	`

	row, err := scanTask(tx.Pgx(txn).QueryRow(ctx, query, model.StatusID, model.AssigneeID, model.Notes, model.DeletedAt, model.DeletedBy, model.ModifiedBy, model.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "task_not_found", nil)
		}
		return nil, app_errors.MapPgxError(err)
	}

	return row, nil
}

func (r *TaskRepo) InsertTaskHistory(ctx context.Context, txn tx.Tx, history *entity.TaskHistoryEntity) *app_errors.AppError {
	query := `
	INSERT INTO task_history (
			id,
			task_id,
			update_user_id,
			assigned_user_id,
			status_id,
			status_date_change,
			status_change_location,
			created_by,
			modified_by
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9
		);
	`

	if _, err := tx.Pgx(txn).Exec(
		ctx,
		query,
		history.ID,
		history.TaskID,
		history.UpdateUserID,
		history.AssignedUserID,
		history.StatusID,
		history.StatusDateChange,
		history.StatusChangeLocation,
		history.CreatedBy,
		history.ModifiedBy,
	); err != nil {
		return app_errors.MapPgxError(err)
	}

	return nil
}

func (r *TaskRepo) UpsertTaskDetail(ctx context.Context, txn tx.Tx, detail *entity.TaskDetailEntity) *app_errors.AppError {
	query := `
	INSERT INTO task_details (
			id,
			task_id,
			activity_detail_id,
			detail_value,
			detail_set_num,
			created_by,
			modified_by
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7
		)
	ON CONFLICT (task_id, activity_detail_id, detail_set_num)
	DO UPDATE SET detail_value = EXCLUDED.detail_value,
		modified_by = EXCLUDED.modified_by;
	`

	if _, err := tx.Pgx(txn).Exec(
		ctx,
		query,
		detail.ID,
		detail.TaskID,
		detail.ActivityDetailID,
		detail.DetailValue,
		detail.DetailSetNum,
		detail.CreatedBy,
		detail.ModifiedBy,
	); err != nil {
		return app_errors.MapPgxError(err)
	}

	return nil
}

func (r *TaskRepo) InsertTaskEquipment(ctx context.Context, txn tx.Tx, equipment *entity.TaskEquipmentEntity) *app_errors.AppError {
	query := `
	INSERT INTO task_equipment (
			id,
			task_id,
			equipment_id,
			created_by,
			modified_by
		) VALUES (
			$1,$2,$3,$4,$5
		);
	`

	if _, err := tx.Pgx(txn).Exec(ctx, query, equipment.ID, equipment.TaskID, equipment.EquipmentID, equipment.CreatedBy, equipment.ModifiedBy); err != nil {
		return app_errors.MapPgxError(err)
	}

	return nil
}

func (r *TaskRepo) ListTaskHistory(ctx context.Context, taskID string) ([]entity.TaskHistoryEntity, *app_errors.AppError) {
	query := `
	SELECT id, task_id, update_user_id, assigned_user_id, status_id, status_date_change, status_change_location, created_by, modified_by
	FROM task_history
	WHERE task_id = $1
	ORDER BY status_date_change DESC;
	`

	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	var results []entity.TaskHistoryEntity
	for rows.Next() {
		var result entity.TaskHistoryEntity
		if err := rows.Scan(&result.ID, &result.TaskID, &result.UpdateUserID, &result.AssignedUserID, &result.StatusID, &result.StatusDateChange, &result.StatusChangeLocation, &result.CreatedBy, &result.ModifiedBy); err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}

	return results, nil
}

func (r *TaskRepo) ListTasks(ctx context.Context, farmID string, filter *task_dto.TaskListFilter) ([]entity.TaskEntity, *app_errors.AppError) {
	query := `
	SELECT t.id, t.creator_id, t.activity_id, t.custom_activity_id, t.plan_id, t.crop_id, t.status_id, t.start_date, t.end_date, t.available_date, t.assignee_id, t.notes, t.is_draft, t.created_by, t.modified_by, t.created_at, t.updated_at, t.deleted_at, t.deleted_by
	FROM tasks t
	JOIN plans p ON p.id = t.plan_id
	WHERE p.farm_id = $1
		AND t.deleted_at IS NULL
	`

	args := []any{farmID}
	argsPos := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status_id = (SELECT id FROM task_statuses WHERE name = $%d AND deleted_at IS NULL)", argsPos)
		args = append(args, filter.Status)
		argsPos++
	}

	if filter.AssigneeID != nil {
		query += fmt.Sprintf(" AND t.assignee_id = $%d", argsPos)
		args = append(args, filter.AssigneeID)
		argsPos++
	}

	query += " ORDER BY t.start_date DESC, t.created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d;", argsPos, argsPos+1)

	offset := (filter.Page - 1) * filter.Limit

	args = append(args, filter.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	var results []entity.TaskEntity
	for rows.Next() {
		result, err := scanTask(rows)
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

func (r *TaskRepo) CountTasks(ctx context.Context, farmID string, filter *task_dto.TaskCountFilter) (int64, *app_errors.AppError) {
	query := `
	SELECT COUNT(*)
	FROM tasks t
	JOIN plans p ON p.id = t.plan_id
	WHERE p.farm_id = $1
		AND t.deleted_at IS NULL
	`

	args := []any{farmID}
	argsPos := 2

	if len(filter.StatusIDs) > 0 {
		query += fmt.Sprintf(" AND t.status_id = ANY($%d)", argsPos)
		args = append(args, filter.StatusIDs)
		argsPos++
	}

	if filter.EndBefore != nil {
		query += fmt.Sprintf(" AND t.end_date < $%d", argsPos)
		args = append(args, filter.EndBefore)
		argsPos++
	}

	if filter.EndOnOrAfter != nil {
		query += fmt.Sprintf(" AND t.end_date >= $%d", argsPos)
		args = append(args, filter.EndOnOrAfter)
		argsPos++
	}

	if filter.ModifiedSince != nil {
		query += fmt.Sprintf(" AND t.updated_at >= $%d", argsPos)
		args = append(args, filter.ModifiedSince)
		argsPos++
	}

	query += ";"

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, app_errors.MapPgxError(err)
	}

	return count, nil
}

func (r *TaskRepo) ListBehindScheduleTasks(ctx context.Context) ([]entity.BehindScheduleTask, *app_errors.AppError) {
	query := `
	SELECT t.id, t.assignee_id, COALESCE(a.name, ca.name, ''), COALESCE(l.name, ''), t.end_date
	FROM tasks t
	JOIN task_statuses ts ON ts.id = t.status_id
	JOIN plans p ON p.id = t.plan_id
	LEFT JOIN activities a ON a.id = t.activity_id
	LEFT JOIN custom_activities ca ON ca.id = t.custom_activity_id
	LEFT JOIN locations l ON l.id = p.location_id
	WHERE t.deleted_at IS NULL
		AND t.assignee_id IS NOT NULL
		AND ts.name IN ('assigned', 'accepted')
		AND t.end_date < now();
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	var results []entity.BehindScheduleTask
	for rows.Next() {
		var result entity.BehindScheduleTask
		if err := rows.Scan(&result.ID, &result.AssigneeID, &result.ActivityName, &result.LocationName, &result.EndDate); err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}

	return results, nil
}
