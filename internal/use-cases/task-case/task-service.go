package task_case

import (
	"context"
	"math"
	"time"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/abstraction/tx"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/dtos"
	task_dto "github.com/ArkadyKonoplya/shepherd-backend/internal/dtos/task-dto"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/notify"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/queue"
	catalog_repo "github.com/ArkadyKonoplya/shepherd-backend/internal/repo/catalog-repo"
	task_repo "github.com/ArkadyKonoplya/shepherd-backend/internal/repo/task-repo"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/status"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type TaskService struct {
	redis      *redis.Client
	repo       task_repo.TaskRepoContract
	catalog    catalog_repo.CatalogRepoContract
	txManager  tx.TxManager
	registry   *status.Registry
	dispatcher notify.Dispatcher
}

func NewTaskService(db *pgxpool.Pool, redis *redis.Client, registry *status.Registry, taskQueue queue.TaskQueueClient) TaskServiceContract {
	catalog := catalog_repo.NewCatalogRepo(db)
	return &TaskService{
		redis:      redis,
		repo:       task_repo.NewTaskRepo(db),
		catalog:    catalog,
		txManager:  tx.NewPgxTxManager(db),
		registry:   registry,
		dispatcher: notify.NewQueueDispatcher(catalog, taskQueue),
	}
}

func (s *TaskService) CreateTask(ctx context.Context, userID, farmID string, req *task_dto.CreateTaskRequest) (*task_dto.TaskResponse, *app_errors.AppError) {
	if err := s.verifyFarmMember(ctx, farmID, userID); err != nil {
		return nil, err
	}

	ref, err := resolveActivityRef(req.ActivityID, req.CustomActivityID)
	if err != nil {
		return nil, err
	}

	plan, err := s.resolvePlanOnFarm(ctx, req.PlanID, farmID)
	if err != nil {
		return nil, err
	}

	if _, err := s.catalog.ResolveActivity(ctx, ref); err != nil {
		return nil, err
	}

	if _, err := s.catalog.ResolveUser(ctx, req.CreatorID); err != nil {
		return nil, err
	}

	assigneeID := normalizeID(req.AssigneeID)
	if assigneeID != nil {
		if err := s.verifyFarmMember(ctx, farmID, *assigneeID); err != nil {
			return nil, err
		}
	}

	// Default to available unless the caller picked a status.
	statusName := entity.TaskAvailable
	if req.Status != nil {
		statusName = entity.TaskStatusName(*req.Status)
	}
	statusRow, ok := s.registry.Task(statusName)
	if !ok {
		return nil, app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrValidation, "validation.task_status", nil)
	}

	taskID, idErr := uuid.NewV7()
	if idErr != nil {
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", idErr)
	}

	task := &entity.TaskEntity{
		ID:         taskID.String(),
		CreatorID:  req.CreatorID,
		Activity:   ref,
		PlanID:     plan.ID,
		CropID:     plan.CropID,
		StatusID:   statusRow.ID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		AssigneeID: assigneeID,
		Notes:      req.Notes,
		IsDraft:    req.IsDraft,
		CreatedBy:  userID,
		ModifiedBy: userID,
		CreatedAt:  time.Now(),
	}

	txn, txErr := s.txManager.Begin(ctx)
	if txErr != nil {
		return nil, txErr
	}
	defer txn.Rollback(ctx)

	if err := s.repo.InsertTask(ctx, txn, task); err != nil {
		return nil, err
	}

	// History reflects the freshly created state, there is no prior one.
	history, hErr := newHistoryRecord(task, userID, req.UpdateLocation)
	if hErr != nil {
		return nil, hErr
	}
	if err := s.repo.InsertTaskHistory(ctx, txn, history); err != nil {
		return nil, err
	}

	if err := s.persistDetails(ctx, txn, task.ID, userID, req.Details); err != nil {
		return nil, err
	}
	if err := s.persistEquipment(ctx, txn, task.ID, userID, req.Equipment); err != nil {
		return nil, err
	}

	if err := txn.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifyTaskEvent(ctx, notify.ActionCreate, task, userID)
	s.invalidateCounts(ctx, farmID)

	return s.taskResponse(task), nil
}

func (s *TaskService) UpdateTask(ctx context.Context, userID, farmID, taskID string, req *task_dto.UpdateTaskRequest) (*task_dto.TaskResponse, *app_errors.AppError) {
	if err := s.verifyFarmMember(ctx, farmID, userID); err != nil {
		return nil, err
	}

	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolvePlanOnFarm(ctx, task.PlanID, farmID); err != nil {
		return nil, err
	}

	ref, err := resolveActivityRef(req.ActivityID, req.CustomActivityID)
	if err != nil {
		return nil, err
	}

	plan, err := s.resolvePlanOnFarm(ctx, req.PlanID, farmID)
	if err != nil {
		return nil, err
	}

	if _, err := s.catalog.ResolveActivity(ctx, ref); err != nil {
		return nil, err
	}

	assigneeID := normalizeID(req.AssigneeID)
	if assigneeID != nil {
		if err := s.verifyFarmMember(ctx, farmID, *assigneeID); err != nil {
			return nil, err
		}
	}

	txn, txErr := s.txManager.Begin(ctx)
	if txErr != nil {
		return nil, txErr
	}
	defer txn.Rollback(ctx)

	// History captures the state before the update, so the ledger shows the
	// transition source.
	history, hErr := newHistoryRecord(task, userID, req.UpdateLocation)
	if hErr != nil {
		return nil, hErr
	}
	if err := s.repo.InsertTaskHistory(ctx, txn, history); err != nil {
		return nil, err
	}

	task.CreatorID = req.CreatorID
	task.Activity = ref
	task.PlanID = plan.ID
	task.CropID = plan.CropID
	task.StartDate = req.StartDate
	task.EndDate = req.EndDate

	if req.Status != nil {
		statusRow, ok := s.registry.Task(entity.TaskStatusName(*req.Status))
		if !ok {
			return nil, app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrValidation, "validation.task_status", nil)
		}
		task.StatusID = statusRow.ID

		if statusRow.Name == entity.TaskDeleted {
			now := time.Now()
			task.DeletedAt = &now
			task.DeletedBy = &userID
		}
	}

	task.Notes = overwriteNotes(task.Notes, req.Notes, req.ResetNotes)

	if assigneeID != nil {
		task.AssigneeID = assigneeID
	}
	task.ModifiedBy = userID

	if err := s.repo.UpdateTask(ctx, txn, task); err != nil {
		return nil, err
	}

	if err := s.persistDetails(ctx, txn, task.ID, userID, req.Details); err != nil {
		return nil, err
	}
	if err := s.persistEquipment(ctx, txn, task.ID, userID, req.Equipment); err != nil {
		return nil, err
	}

	if err := txn.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifyTaskEvent(ctx, notify.ActionUpdate, task, userID)
	s.invalidateCounts(ctx, farmID)

	return s.taskResponse(task), nil
}

func (s *TaskService) TransitionTaskStatus(ctx context.Context, userID, farmID, taskID string, req *task_dto.TransitionStatusRequest) *app_errors.AppError {
	if err := s.verifyFarmMember(ctx, farmID, userID); err != nil {
		return err
	}

	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := s.resolvePlanOnFarm(ctx, task.PlanID, farmID); err != nil {
		return err
	}

	statusRow, ok := s.registry.Task(entity.TaskStatusName(req.Status))
	if !ok {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrValidation, "validation.task_status", nil)
	}

	assigneeID := normalizeID(req.AssigneeID)
	if assigneeID != nil {
		if _, err := s.catalog.ResolveUser(ctx, *assigneeID); err != nil {
			return err
		}
		if err := s.verifyFarmMember(ctx, farmID, *assigneeID); err != nil {
			return err
		}
	}

	model := &entity.TaskTransition{
		ID:         task.ID,
		StatusID:   statusRow.ID,
		ModifiedBy: userID,
	}

	model.Notes = appendNotes(task.Notes, req.Notes, req.ResetNotes)

	// Statuses without an assignee always win over whatever was requested.
	switch {
	case statusRow.Name.ClearsAssignee():
		model.AssigneeID = nil
	case assigneeID != nil:
		model.AssigneeID = assigneeID
	default:
		model.AssigneeID = task.AssigneeID
	}

	if statusRow.Name == entity.TaskDeleted {
		now := time.Now()
		model.DeletedAt = &now
		model.DeletedBy = &userID
	}

	txn, txErr := s.txManager.Begin(ctx)
	if txErr != nil {
		return txErr
	}
	defer txn.Rollback(ctx)

	var updated *entity.TaskEntity
	if statusRow.Name == entity.TaskAccepted {
		if model.AssigneeID == nil {
			return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrValidation, "validation.assignee_required", nil)
		}

		var acceptErr *app_errors.AppError
		updated, acceptErr = s.repo.AcceptTask(ctx, txn, model)
		if acceptErr != nil {
			if acceptErr.Type == app_errors.ErrConflict {
				return s.acceptConflict(ctx, taskID, acceptErr)
			}
			return acceptErr
		}
	} else {
		var transErr *app_errors.AppError
		updated, transErr = s.repo.TransitionTask(ctx, txn, model)
		if transErr != nil {
			return transErr
		}
	}

	// History reflects the resulting state of the transition.
	history, hErr := newHistoryRecord(updated, userID, req.UpdateLocation)
	if hErr != nil {
		return hErr
	}
	if err := s.repo.InsertTaskHistory(ctx, txn, history); err != nil {
		return err
	}

	if err := txn.Commit(ctx); err != nil {
		return err
	}

	s.notifyTaskEvent(ctx, notify.ActionUpdate, updated, userID)
	s.invalidateCounts(ctx, farmID)

	return nil
}

// acceptConflict rewords a lost acceptance race with the current holder's
// name, so the caller can show who got there first.
func (s *TaskService) acceptConflict(ctx context.Context, taskID string, original *app_errors.AppError) *app_errors.AppError {
	current, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil || current.AssigneeID == nil {
		return original
	}

	holder, err := s.catalog.ResolveUser(ctx, *current.AssigneeID)
	if err != nil {
		return original
	}

	return app_errors.NewAppErrorWithParams(
		fiber.StatusConflict,
		app_errors.ErrConflict,
		"conflict.task_already_assigned",
		map[string]any{"Name": holder.FullName()},
		nil,
	)
}

func (s *TaskService) GetTask(ctx context.Context, userID, farmID, taskID string) (*task_dto.TaskResponse, *app_errors.AppError) {
	if err := s.verifyFarmMember(ctx, farmID, userID); err != nil {
		return nil, err
	}

	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolvePlanOnFarm(ctx, task.PlanID, farmID); err != nil {
		return nil, err
	}

	return s.taskResponse(task), nil
}

func (s *TaskService) ListFarmTasks(ctx context.Context, userID, farmID string, filter task_dto.TaskListFilter) ([]*task_dto.TaskListItem, *dtos.PaginationMeta, *app_errors.AppError) {
	if err := s.verifyFarmMember(ctx, farmID, userID); err != nil {
		return nil, nil, err
	}

	if filter.AssigneeID != nil {
		if err := s.verifyFarmMember(ctx, farmID, *filter.AssigneeID); err != nil {
			return nil, nil, err
		}
	}

	if filter.Limit == 0 {
		filter.Limit = 20
	}
	if filter.Page == 0 {
		filter.Page = 1
	}

	tasks, err := s.repo.ListTasks(ctx, farmID, &filter)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.repo.CountTasks(ctx, farmID, &task_dto.TaskCountFilter{})
	if err != nil {
		return nil, nil, err
	}

	var responses []*task_dto.TaskListItem
	for _, task := range tasks {
		statusName := ""
		if st, ok := s.registry.TaskByID(task.StatusID); ok {
			statusName = string(st.Name)
		}
		responses = append(responses, &task_dto.TaskListItem{
			TaskID:     task.ID,
			Status:     statusName,
			PlanID:     task.PlanID,
			StartDate:  task.StartDate,
			EndDate:    task.EndDate,
			AssigneeID: task.AssigneeID,
			Notes:      task.Notes,
			DeletedAt:  task.DeletedAt,
		})
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	paginationMeta := &dtos.PaginationMeta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      int(total),
		TotalPages: totalPages,
	}

	return responses, paginationMeta, nil
}

func (s *TaskService) ListTaskHistory(ctx context.Context, userID, farmID, taskID string) ([]*task_dto.TaskHistoryItem, *app_errors.AppError) {
	if err := s.verifyFarmMember(ctx, farmID, userID); err != nil {
		return nil, err
	}

	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolvePlanOnFarm(ctx, task.PlanID, farmID); err != nil {
		return nil, err
	}

	records, err := s.repo.ListTaskHistory(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	var responses []*task_dto.TaskHistoryItem
	for _, record := range records {
		statusName := ""
		if st, ok := s.registry.TaskByID(record.StatusID); ok {
			statusName = string(st.Name)
		}
		responses = append(responses, &task_dto.TaskHistoryItem{
			HistoryID:            record.ID,
			UpdateUserID:         record.UpdateUserID,
			AssignedUserID:       record.AssignedUserID,
			Status:               statusName,
			StatusDateChange:     record.StatusDateChange,
			StatusChangeLocation: record.StatusChangeLocation,
		})
	}

	return responses, nil
}

func (s *TaskService) GetFarmTaskCounts(ctx context.Context, userID, farmID string) ([]*task_dto.TaskCount, *app_errors.AppError) {
	if err := s.verifyFarmMember(ctx, farmID, userID); err != nil {
		return nil, err
	}

	cacheKey := taskCountsCacheKey(farmID)
	if s.redis != nil {
		cached, cacheErr := utils.GetCacheData[[]*task_dto.TaskCount](ctx, s.redis, cacheKey)
		if cacheErr == nil && cached != nil {
			return *cached, nil
		}
	}

	now := time.Now()
	activeStatuses := s.statusIDs(entity.TaskAvailable, entity.TaskAssigned, entity.TaskAccepted)

	behind, err := s.repo.CountTasks(ctx, farmID, &task_dto.TaskCountFilter{StatusIDs: activeStatuses, EndBefore: &now})
	if err != nil {
		return nil, err
	}

	inProgress, err := s.repo.CountTasks(ctx, farmID, &task_dto.TaskCountFilter{StatusIDs: activeStatuses, EndOnOrAfter: &now})
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.CountTasks(ctx, farmID, &task_dto.TaskCountFilter{StatusIDs: s.statusIDs(entity.TaskCompleted)})
	if err != nil {
		return nil, err
	}

	counts := []*task_dto.TaskCount{
		{CountType: "behind_schedule", Count: behind},
		{CountType: "in_progress", Count: inProgress},
		{CountType: "completed", Count: completed},
	}

	if s.redis != nil {
		_ = utils.SetCacheData(ctx, s.redis, cacheKey, &counts, 5*time.Minute)
	}

	return counts, nil
}
